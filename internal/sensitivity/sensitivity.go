// Package sensitivity explores how the investment case responds to the
// assumptions that are hardest to measure: the rejection rate without the
// machine and the daily cost of running it.
package sensitivity

import (
	"fmt"

	"github.com/iwvelando/sorting-roi/internal/analysis"
	"github.com/iwvelando/sorting-roi/internal/roi"
	"github.com/iwvelando/sorting-roi/internal/simulation"
	"github.com/iwvelando/sorting-roi/pkg/constants"
	"github.com/iwvelando/sorting-roi/pkg/format"
	"go.uber.org/zap"
)

// Point is the outcome of the simulated year at one current rejection rate.
type Point struct {
	RejectionRateCurrent float64          `yaml:"rejectionRateCurrent" json:"rejectionRateCurrent"`
	Evaluated            bool             `yaml:"evaluated" json:"evaluated"`
	TotalUnitsLost       float64          `yaml:"totalUnitsLost" json:"totalUnitsLost"`
	TotalUnitsRecovered  float64          `yaml:"totalUnitsRecovered" json:"totalUnitsRecovered"`
	AnnualNetBenefit     float64          `yaml:"annualNetBenefit" json:"annualNetBenefit"`
	ROIPercent           float64          `yaml:"roiPercent" json:"roiPercent"`
	Payback              analysis.Payback `yaml:"payback" json:"payback"`
	Notes                []string         `yaml:"notes,omitempty" json:"notes,omitempty"`
}

// SweepCurrentRejection re-applies both loss stages to the same generated
// records once per rate. Rates that do not exceed the optimized rate are
// reported unevaluated since the machine would add losses at those rates.
func SweepCurrentRejection(logger *zap.Logger, generated []simulation.DailyRecord, policy simulation.LossPolicy, costs analysis.Costs, rates []float64) ([]Point, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(generated) == 0 {
		return nil, fmt.Errorf("generated records cannot be empty")
	}

	points := make([]Point, 0, len(rates))
	for _, rate := range rates {
		point := Point{RejectionRateCurrent: rate}
		if rate <= policy.RejectionRateOptimized {
			note := fmt.Sprintf("current rate %g does not exceed the optimized rate %g",
				rate, policy.RejectionRateOptimized)
			point.Notes = append(point.Notes, note)
			logger.Debug("skipping sensitivity rate",
				zap.String("op", "sensitivity.SweepCurrentRejection"),
				zap.Float64("rate", rate),
			)
			points = append(points, point)
			continue
		}

		candidate := policy
		candidate.RejectionRateCurrent = rate
		result, err := roi.Evaluate(generated, candidate, costs)
		if err != nil {
			return nil, fmt.Errorf("sensitivity rate %g: %w", rate, err)
		}

		point.Evaluated = true
		point.TotalUnitsLost = result.Current.TotalUnitsLost
		point.TotalUnitsRecovered = result.Financial.TotalUnitsRecovered
		point.AnnualNetBenefit = result.Financial.AnnualNetBenefit
		point.ROIPercent = result.Financial.ROIPercent
		point.Payback = result.Financial.Payback
		if rate == policy.RejectionRateCurrent {
			point.Notes = append(point.Notes, "configured rate")
		}

		logger.Debug("evaluated sensitivity rate",
			zap.String("op", "sensitivity.SweepCurrentRejection"),
			zap.Float64("rate", rate),
			zap.Float64("roiPercent", point.ROIPercent),
		)
		points = append(points, point)
	}
	return points, nil
}

// BreakEven describes the operating cost ceiling for a payback target.
type BreakEven struct {
	TargetPaybackMonths float64 `yaml:"targetPaybackMonths" json:"targetPaybackMonths"`
	// MaxDailyOperationalCost is the highest daily cost that still pays the
	// machine back within the target. Only meaningful when Feasible.
	MaxDailyOperationalCost float64 `yaml:"maxDailyOperationalCost" json:"maxDailyOperationalCost"`
	// NoPaybackDailyCost is the daily cost at which the net benefit reaches zero.
	NoPaybackDailyCost float64  `yaml:"noPaybackDailyCost" json:"noPaybackDailyCost"`
	Feasible           bool     `yaml:"feasible" json:"feasible"`
	Headroom           float64  `yaml:"headroom" json:"headroom"`
	Notes              []string `yaml:"notes,omitempty" json:"notes,omitempty"`
}

// BreakEvenDailyCost solves payback <= targetMonths for the daily operating
// cost, holding the simulated recovery fixed. Headroom is the distance from
// the configured daily cost to the ceiling.
func BreakEvenDailyCost(result *roi.Result, targetMonths float64) (BreakEven, error) {
	if result == nil {
		return BreakEven{}, fmt.Errorf("result cannot be nil")
	}
	if targetMonths <= 0 {
		return BreakEven{}, fmt.Errorf("target payback must be positive, got %v months", targetMonths)
	}
	days := float64(result.Financial.Days)
	if days <= 0 {
		return BreakEven{}, fmt.Errorf("result covers no days")
	}

	gross := result.Financial.GrossBenefit
	requiredNet := constants.MonthsPerYear * result.Costs.MachineCost / targetMonths

	be := BreakEven{
		TargetPaybackMonths:     targetMonths,
		MaxDailyOperationalCost: (gross - requiredNet) / days,
		NoPaybackDailyCost:      gross / days,
	}
	be.Feasible = be.MaxDailyOperationalCost >= 0
	if !be.Feasible {
		be.MaxDailyOperationalCost = 0
		be.Notes = append(be.Notes, fmt.Sprintf(
			"recovered revenue of %s cannot repay %s within %g months even at zero operating cost",
			format.CurrencyPlaces(gross, 0), format.CurrencyPlaces(result.Costs.MachineCost, 0), targetMonths))
		return be, nil
	}
	be.Headroom = be.MaxDailyOperationalCost - result.Costs.DailyOperationalCost
	return be, nil
}
