// Package roi runs the full pipeline for one simulated year: generation,
// both loss scenarios, scenario summaries and the financial result.
package roi

import (
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/iwvelando/sorting-roi/internal/analysis"
	"github.com/iwvelando/sorting-roi/internal/config"
	"github.com/iwvelando/sorting-roi/internal/simulation"
	"github.com/iwvelando/sorting-roi/pkg/constants"
	"go.uber.org/zap"
)

// Result holds everything computed for one simulated year.
type Result struct {
	RunID     uuid.UUID
	Seed      int64
	Policy    simulation.LossPolicy
	Costs     analysis.Costs
	Records   []simulation.DailyRecord
	Current   simulation.ScenarioSummary
	Optimized simulation.ScenarioSummary
	Financial analysis.FinancialResult
}

// Run validates the configuration and computes one simulated year. When no
// random seed is configured a fresh one is drawn and reported in Result.Seed
// so the run can be repeated.
func Run(logger *zap.Logger, conf config.Configuration) (*Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := conf.Validate(); err != nil {
		return nil, err
	}

	seed := rand.Int64()
	if conf.Seeded() {
		seed = *conf.Simulation.RandomSeed
	}

	params, err := GeneratorParams(conf)
	if err != nil {
		return nil, err
	}

	runID := uuid.New()
	logger = logger.With(zap.String("run", runID.String()))

	generated, err := simulation.Generate(params, simulation.NewRand(seed))
	if err != nil {
		return nil, fmt.Errorf("failed to generate daily records: %w", err)
	}
	logger.Debug("generated daily records",
		zap.String("op", "roi.Run"),
		zap.Int("days", len(generated)),
		zap.Int64("seed", seed),
	)

	result, err := Evaluate(generated, Policy(conf), Costs(conf))
	if err != nil {
		return nil, err
	}
	result.RunID = runID
	result.Seed = seed

	logger.Debug("computed financial result",
		zap.String("op", "roi.Run"),
		zap.Float64("unitsRecovered", result.Financial.TotalUnitsRecovered),
		zap.Float64("netBenefit", result.Financial.AnnualNetBenefit),
		zap.Float64("roiPercent", result.Financial.ROIPercent),
		zap.String("payback", string(result.Financial.Payback.Status)),
	)
	if result.Financial.Payback.Status != analysis.PaybackReached {
		logger.Warn("machine does not pay for itself",
			zap.String("op", "roi.Run"),
			zap.Float64("monthlyNetBenefit", result.Financial.MonthlyNetBenefit),
		)
	}

	return result, nil
}

// Evaluate applies both loss scenarios to generated records and derives the
// summaries and financial result. generated is not modified.
func Evaluate(generated []simulation.DailyRecord, policy simulation.LossPolicy, costs analysis.Costs) (*Result, error) {
	records := simulation.Derive(generated, policy)

	financial, err := analysis.Analyze(records, costs)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze simulated year: %w", err)
	}

	return &Result{
		Policy:    policy,
		Costs:     costs,
		Records:   records,
		Current:   simulation.SummarizeCurrent(records),
		Optimized: simulation.SummarizeOptimized(records),
		Financial: financial,
	}, nil
}

// GeneratorParams maps the simulation section of the configuration.
func GeneratorParams(conf config.Configuration) (simulation.GeneratorParams, error) {
	start, err := conf.StartTime()
	if err != nil {
		return simulation.GeneratorParams{}, fmt.Errorf("invalid start date %q: %w", conf.Simulation.StartDate, err)
	}
	return simulation.GeneratorParams{
		HorizonDays:        conf.Simulation.HorizonDays,
		Start:              start,
		BaseDemandBaseline: conf.Simulation.BaseDemandBaseline,
		UnitPrice:          conf.Simulation.UnitPrice,
		QualityMean:        conf.Simulation.QualityMean,
		QualityStddev:      conf.Simulation.QualityStddev,
	}, nil
}

// Policy maps the loss model section of the configuration.
func Policy(conf config.Configuration) simulation.LossPolicy {
	return simulation.LossPolicy{
		QualityThreshold:       conf.LossModel.QualityThreshold,
		RejectionRateCurrent:   conf.LossModel.RejectionRateCurrent,
		RejectionRateOptimized: conf.LossModel.RejectionRateOptimized,
	}
}

// Costs maps the investment section of the configuration.
func Costs(conf config.Configuration) analysis.Costs {
	return analysis.Costs{
		MachineCost:          conf.Investment.MachineCost,
		DailyOperationalCost: conf.Investment.DailyOperationalCost,
		UnitPrice:            conf.Simulation.UnitPrice,
	}
}

// ScatterPoint is one day of the quality versus units lost chart.
type ScatterPoint struct {
	Date         string  `json:"date"`
	QualityScore float64 `json:"qualityScore"`
	UnitsLost    float64 `json:"unitsLost"`
}

// ScenarioTotal is one bar of the revenue comparison chart.
type ScenarioTotal struct {
	Scenario     string  `json:"scenario"`
	TotalRevenue float64 `json:"totalRevenue"`
}

// ChartData is what a renderer needs to draw both charts.
type ChartData struct {
	QualityThreshold float64         `json:"qualityThreshold"`
	QualityLoss      []ScatterPoint  `json:"qualityLoss"`
	RevenueTotals    []ScenarioTotal `json:"revenueTotals"`
}

// QualityLossPoints returns the current scenario's units lost per day
// against that day's quality score.
func (r *Result) QualityLossPoints() []ScatterPoint {
	points := make([]ScatterPoint, len(r.Records))
	for i, rec := range r.Records {
		points[i] = ScatterPoint{
			Date:         rec.Date.Format(constants.DateLayout),
			QualityScore: rec.QualityScore,
			UnitsLost:    rec.Current.UnitsLost,
		}
	}
	return points
}

// ScenarioTotals returns the annual revenue of both scenarios, current first.
func (r *Result) ScenarioTotals() []ScenarioTotal {
	return []ScenarioTotal{
		{Scenario: r.Current.Name, TotalRevenue: r.Current.TotalRevenue},
		{Scenario: r.Optimized.Name, TotalRevenue: r.Optimized.TotalRevenue},
	}
}

// ChartData bundles the scatter points, the threshold line and the revenue bars.
func (r *Result) ChartData() ChartData {
	return ChartData{
		QualityThreshold: r.Policy.QualityThreshold,
		QualityLoss:      r.QualityLossPoints(),
		RevenueTotals:    r.ScenarioTotals(),
	}
}
