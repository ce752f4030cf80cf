// Package montecarlo repeats the simulated year many times with independent
// random sources and summarizes the spread of the financial outcome.
package montecarlo

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/iwvelando/sorting-roi/internal/analysis"
	"github.com/iwvelando/sorting-roi/internal/config"
	"github.com/iwvelando/sorting-roi/internal/roi"
	"github.com/iwvelando/sorting-roi/internal/simulation"
	"github.com/iwvelando/sorting-roi/pkg/constants"
	"github.com/iwvelando/sorting-roi/pkg/mathutil"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Outcome is the financial result of one simulated year.
type Outcome struct {
	Seed             int64
	UnitsRecovered   float64
	AnnualNetBenefit float64
	ROIPercent       float64
	Payback          analysis.Payback
}

// Distribution summarizes one figure across all runs.
type Distribution struct {
	Mean float64 `yaml:"mean" json:"mean"`
	Min  float64 `yaml:"min" json:"min"`
	P10  float64 `yaml:"p10" json:"p10"`
	P50  float64 `yaml:"p50" json:"p50"`
	P90  float64 `yaml:"p90" json:"p90"`
	Max  float64 `yaml:"max" json:"max"`
}

// Summary aggregates every run. Outcomes are ordered by run index.
type Summary struct {
	Runs             int          `yaml:"runs" json:"runs"`
	BaseSeed         int64        `yaml:"baseSeed" json:"baseSeed"`
	ROIPercent       Distribution `yaml:"roiPercent" json:"roiPercent"`
	AnnualNetBenefit Distribution `yaml:"annualNetBenefit" json:"annualNetBenefit"`
	// PaybackMonths only covers runs that reach payback.
	PaybackMonths Distribution `yaml:"paybackMonths" json:"paybackMonths"`
	// PaybackShare is the fraction of runs whose machine pays for itself.
	PaybackShare float64   `yaml:"paybackShare" json:"paybackShare"`
	Outcomes     []Outcome `yaml:"-" json:"-"`
}

// Run simulates runs independent years across at most workers goroutines.
// Run i uses seed BaseSeed+i, where BaseSeed is the configured random seed or
// a freshly drawn one. Each run owns its random source and records.
func Run(ctx context.Context, logger *zap.Logger, conf config.Configuration, runs, workers int) (*Summary, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if runs <= 0 {
		return nil, fmt.Errorf("number of runs must be positive, got %d", runs)
	}
	if workers <= 0 {
		workers = constants.DefaultMonteCarloWorkers
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}

	params, err := roi.GeneratorParams(conf)
	if err != nil {
		return nil, err
	}
	policy := roi.Policy(conf)
	costs := roi.Costs(conf)

	baseSeed := rand.Int64()
	if conf.Seeded() {
		baseSeed = *conf.Simulation.RandomSeed
	}

	outcomes := make([]Outcome, runs)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < runs; i++ {
		seed := baseSeed + int64(i)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			outcome, err := simulateYear(params, policy, costs, seed)
			if err != nil {
				return fmt.Errorf("run %d (seed %d): %w", i, seed, err)
			}
			outcomes[i] = outcome
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary := Summarize(baseSeed, outcomes)
	logger.Info("monte-carlo simulation complete",
		zap.String("op", "montecarlo.Run"),
		zap.Int("runs", runs),
		zap.Int("workers", workers),
		zap.Int64("baseSeed", baseSeed),
		zap.Float64("roiP50", summary.ROIPercent.P50),
		zap.Float64("paybackShare", summary.PaybackShare),
	)
	return summary, nil
}

func simulateYear(params simulation.GeneratorParams, policy simulation.LossPolicy, costs analysis.Costs, seed int64) (Outcome, error) {
	generated, err := simulation.Generate(params, simulation.NewRand(seed))
	if err != nil {
		return Outcome{}, err
	}
	result, err := roi.Evaluate(generated, policy, costs)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{
		Seed:             seed,
		UnitsRecovered:   result.Financial.TotalUnitsRecovered,
		AnnualNetBenefit: result.Financial.AnnualNetBenefit,
		ROIPercent:       result.Financial.ROIPercent,
		Payback:          result.Financial.Payback,
	}, nil
}

// Summarize builds the distributions over a set of outcomes.
func Summarize(baseSeed int64, outcomes []Outcome) *Summary {
	roiValues := make([]float64, 0, len(outcomes))
	netValues := make([]float64, 0, len(outcomes))
	var paybackValues []float64
	for _, o := range outcomes {
		roiValues = append(roiValues, o.ROIPercent)
		netValues = append(netValues, o.AnnualNetBenefit)
		if o.Payback.Status == analysis.PaybackReached {
			paybackValues = append(paybackValues, o.Payback.Months)
		}
	}

	s := &Summary{
		Runs:             len(outcomes),
		BaseSeed:         baseSeed,
		ROIPercent:       distribution(roiValues),
		AnnualNetBenefit: distribution(netValues),
		PaybackMonths:    distribution(paybackValues),
		Outcomes:         outcomes,
	}
	if len(outcomes) > 0 {
		s.PaybackShare = float64(len(paybackValues)) / float64(len(outcomes))
	}
	return s
}

func distribution(values []float64) Distribution {
	if len(values) == 0 {
		return Distribution{}
	}
	return Distribution{
		Mean: mathutil.Mean(values),
		Min:  mathutil.Percentile(values, 0),
		P10:  mathutil.Percentile(values, 10),
		P50:  mathutil.Percentile(values, 50),
		P90:  mathutil.Percentile(values, 90),
		Max:  mathutil.Percentile(values, 100),
	}
}
