// Package constants provides shared constants for the sorting-roi application.
package constants

// DateLayout is the format expected in config files and is also the output
// date format.
const DateLayout = "2006-01-02"

// Simulation defaults
const (
	// DefaultHorizonDays is one simulated year of daily sales.
	DefaultHorizonDays = 365

	// DefaultStartDate is the first simulated day.
	DefaultStartDate = "2025-01-01"

	// DefaultBaseDemandBaseline is the potential daily sales across the chain.
	DefaultBaseDemandBaseline = 15000

	// DefaultUnitPrice is the average price per unit.
	DefaultUnitPrice = 1000.0

	// DefaultQualityMean is the mean of the daily maturity score distribution.
	DefaultQualityMean = 3.2

	// DefaultQualityStddev is the standard deviation of the daily maturity score.
	DefaultQualityStddev = 0.7

	// DemandLowerFactor and DemandUpperFactor bound base demand around the baseline.
	DemandLowerFactor = 0.9
	DemandUpperFactor = 1.1
)

// Quality score scale
const (
	MinQualityScore = 1.0
	MaxQualityScore = 5.0
)

// Loss model defaults
const (
	// DefaultQualityThreshold is the maturity score below which customers reject fruit.
	DefaultQualityThreshold = 2.5

	// DefaultRejectionRateCurrent is the share of demand lost on low maturity days without the machine.
	DefaultRejectionRateCurrent = 0.15

	// DefaultRejectionRateOptimized is the share of demand lost on the same days with the machine.
	DefaultRejectionRateOptimized = 0.03
)

// Investment defaults
const (
	// DefaultMachineCost is the one-time investment in the sorting machine.
	DefaultMachineCost = 150_000_000.0

	// DefaultDailyOperationalCost covers labor, energy and maintenance.
	DefaultDailyOperationalCost = 150_000.0
)

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the per-day CSV table
	OutputFormatCSV = "csv"

	// OutputFormatYAML is the structured summary report
	OutputFormatYAML = "yaml"

	// OutputFormatJSON is the structured summary report plus chart data
	OutputFormatJSON = "json"
)

// Scenario names
const (
	ScenarioCurrent   = "Current (No Machine)"
	ScenarioOptimized = "Optimized (With Machine)"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// EnvPrefix prefixes every environment override, e.g. SORTING_ROI_SIMULATION_RANDOMSEED.
	EnvPrefix = "SORTING_ROI"
)

// Monte-Carlo defaults
const (
	// DefaultMonteCarloRuns disables repetition unless configured.
	DefaultMonteCarloRuns = 0

	// DefaultMonteCarloWorkers bounds the number of simulations run at once.
	DefaultMonteCarloWorkers = 4
)
