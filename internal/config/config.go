// Package config defines the data structures related to configuration and
// includes functions for loading and validating the config.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/iwvelando/sorting-roi/pkg/constants"
	"github.com/spf13/viper"
)

// DateLayout is the format expected in config files and is also the output
// date format.
const DateLayout = constants.DateLayout

// Configuration holds all configuration for sorting-roi.
type Configuration struct {
	Simulation  Simulation        `mapstructure:"simulation" yaml:"simulation"`
	LossModel   LossModel         `mapstructure:"lossModel" yaml:"lossModel"`
	Investment  Investment        `mapstructure:"investment" yaml:"investment"`
	MonteCarlo  MonteCarloConfig  `mapstructure:"monteCarlo" yaml:"monteCarlo,omitempty"`
	Sensitivity SensitivityConfig `mapstructure:"sensitivity" yaml:"sensitivity,omitempty"`
	Logging     LoggingConfig     `mapstructure:"logging" yaml:"logging,omitempty"`
	Output      OutputConfig      `mapstructure:"output" yaml:"output,omitempty"`
}

// Simulation holds the parameters of the daily time-series generator.
type Simulation struct {
	HorizonDays        int     `mapstructure:"horizonDays" yaml:"horizonDays" validate:"gt=0"`
	StartDate          string  `mapstructure:"startDate" yaml:"startDate" validate:"required,datetime=2006-01-02"`
	BaseDemandBaseline int     `mapstructure:"baseDemandBaseline" yaml:"baseDemandBaseline" validate:"gt=0"`
	UnitPrice          float64 `mapstructure:"unitPrice" yaml:"unitPrice" validate:"gt=0"`
	QualityMean        float64 `mapstructure:"qualityMean" yaml:"qualityMean" validate:"gte=1,lte=5"`
	QualityStddev      float64 `mapstructure:"qualityStddev" yaml:"qualityStddev" validate:"gte=0"`
	RandomSeed         *int64  `mapstructure:"randomSeed" yaml:"randomSeed,omitempty"`
}

// LossModel holds the rejection policy shared by both scenarios.
type LossModel struct {
	QualityThreshold       float64 `mapstructure:"qualityThreshold" yaml:"qualityThreshold" validate:"gt=0"`
	RejectionRateCurrent   float64 `mapstructure:"rejectionRateCurrent" yaml:"rejectionRateCurrent" validate:"gt=0,lte=1"`
	RejectionRateOptimized float64 `mapstructure:"rejectionRateOptimized" yaml:"rejectionRateOptimized" validate:"gte=0,lte=1"`
}

// Investment holds the cost side of the sorting machine.
type Investment struct {
	MachineCost          float64 `mapstructure:"machineCost" yaml:"machineCost" validate:"gt=0"`
	DailyOperationalCost float64 `mapstructure:"dailyOperationalCost" yaml:"dailyOperationalCost" validate:"gte=0"`
}

// MonteCarloConfig controls repeated independent simulations.
type MonteCarloConfig struct {
	Runs    int `mapstructure:"runs" yaml:"runs,omitempty" validate:"gte=0"`
	Workers int `mapstructure:"workers" yaml:"workers,omitempty" validate:"gte=0"`
}

// SensitivityConfig lists alternative current rejection rates to evaluate
// against the same generated year, and the payback target used for the
// break-even operating cost.
type SensitivityConfig struct {
	RejectionRates      []float64 `mapstructure:"rejectionRates" yaml:"rejectionRates,omitempty" validate:"dive,gt=0,lte=1"`
	TargetPaybackMonths float64   `mapstructure:"targetPaybackMonths" yaml:"targetPaybackMonths,omitempty" validate:"gte=0"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `mapstructure:"level" yaml:"level,omitempty" validate:"omitempty,oneof=debug info warn warning error"` // debug, info, warn, error
	Format     string `mapstructure:"format" yaml:"format,omitempty" validate:"omitempty,oneof=json console"`               // json, console
	OutputFile string `mapstructure:"outputFile" yaml:"outputFile,omitempty"`                                               // optional file output
}

// OutputConfig holds output format and export destinations.
type OutputConfig struct {
	Format        string `mapstructure:"format" yaml:"format,omitempty" validate:"omitempty,oneof=pretty csv yaml json"`
	CSVPath       string `mapstructure:"csvPath" yaml:"csvPath,omitempty"`
	ChartDataPath string `mapstructure:"chartDataPath" yaml:"chartDataPath,omitempty"`
	MetricsFile   string `mapstructure:"metricsFile" yaml:"metricsFile,omitempty"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there on top of the built-in defaults. An empty path yields
// the defaults. Environment variables prefixed with SORTING_ROI_ override
// both, e.g. SORTING_ROI_SIMULATION_RANDOMSEED=42.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// No default exists for the seed, so the key must be bound explicitly
	// for the environment to be consulted.
	if err := v.BindEnv("simulation.randomSeed"); err != nil {
		return nil, fmt.Errorf("unable to bind random seed environment variable, %s", err)
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file, %s", err)
		}
	}

	var configuration Configuration
	err := v.Unmarshal(&configuration)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	return &configuration, nil
}

// Default returns the built-in configuration.
func Default() Configuration {
	return Configuration{
		Simulation: Simulation{
			HorizonDays:        constants.DefaultHorizonDays,
			StartDate:          constants.DefaultStartDate,
			BaseDemandBaseline: constants.DefaultBaseDemandBaseline,
			UnitPrice:          constants.DefaultUnitPrice,
			QualityMean:        constants.DefaultQualityMean,
			QualityStddev:      constants.DefaultQualityStddev,
		},
		LossModel: LossModel{
			QualityThreshold:       constants.DefaultQualityThreshold,
			RejectionRateCurrent:   constants.DefaultRejectionRateCurrent,
			RejectionRateOptimized: constants.DefaultRejectionRateOptimized,
		},
		Investment: Investment{
			MachineCost:          constants.DefaultMachineCost,
			DailyOperationalCost: constants.DefaultDailyOperationalCost,
		},
		MonteCarlo: MonteCarloConfig{
			Runs:    constants.DefaultMonteCarloRuns,
			Workers: constants.DefaultMonteCarloWorkers,
		},
		Sensitivity: SensitivityConfig{
			TargetPaybackMonths: constants.MonthsPerYear,
		},
		Output: OutputConfig{
			Format: constants.OutputFormatPretty,
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("simulation.horizonDays", d.Simulation.HorizonDays)
	v.SetDefault("simulation.startDate", d.Simulation.StartDate)
	v.SetDefault("simulation.baseDemandBaseline", d.Simulation.BaseDemandBaseline)
	v.SetDefault("simulation.unitPrice", d.Simulation.UnitPrice)
	v.SetDefault("simulation.qualityMean", d.Simulation.QualityMean)
	v.SetDefault("simulation.qualityStddev", d.Simulation.QualityStddev)
	v.SetDefault("lossModel.qualityThreshold", d.LossModel.QualityThreshold)
	v.SetDefault("lossModel.rejectionRateCurrent", d.LossModel.RejectionRateCurrent)
	v.SetDefault("lossModel.rejectionRateOptimized", d.LossModel.RejectionRateOptimized)
	v.SetDefault("investment.machineCost", d.Investment.MachineCost)
	v.SetDefault("investment.dailyOperationalCost", d.Investment.DailyOperationalCost)
	v.SetDefault("monteCarlo.runs", d.MonteCarlo.Runs)
	v.SetDefault("monteCarlo.workers", d.MonteCarlo.Workers)
	v.SetDefault("sensitivity.rejectionRates", []float64{})
	v.SetDefault("sensitivity.targetPaybackMonths", d.Sensitivity.TargetPaybackMonths)
	v.SetDefault("logging.level", "")
	v.SetDefault("logging.format", "")
	v.SetDefault("logging.outputFile", "")
	v.SetDefault("output.format", d.Output.Format)
	v.SetDefault("output.csvPath", "")
	v.SetDefault("output.chartDataPath", "")
	v.SetDefault("output.metricsFile", "")
}

// StartTime parses the configured start date.
func (c *Configuration) StartTime() (time.Time, error) {
	return time.Parse(DateLayout, c.Simulation.StartDate)
}

// Seeded reports whether a random seed was configured.
func (c *Configuration) Seeded() bool {
	return c.Simulation.RandomSeed != nil
}

// WithSeed returns a copy of the configuration using the given random seed.
func (c Configuration) WithSeed(seed int64) Configuration {
	c.Simulation.RandomSeed = &seed
	return c
}
