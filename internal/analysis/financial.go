// Package analysis turns the simulated year into the investment case for the
// sorting machine: gross benefit, operating cost, net benefit, ROI and
// payback period.
package analysis

import (
	"errors"
	"fmt"

	"github.com/iwvelando/sorting-roi/internal/simulation"
	"github.com/iwvelando/sorting-roi/pkg/constants"
	"github.com/iwvelando/sorting-roi/pkg/mathutil"
)

// ErrNoPayback is returned by FinancialResult.PaybackPeriod when the monthly
// net benefit is not positive.
var ErrNoPayback = errors.New("no payback within model horizon")

// PaybackStatus tells whether the investment is ever recovered.
type PaybackStatus string

const (
	PaybackReached     PaybackStatus = "reached"
	PaybackUnreachable PaybackStatus = "no payback within model horizon"
)

// Costs are the fixed cost parameters of the machine.
type Costs struct {
	MachineCost          float64
	DailyOperationalCost float64
	UnitPrice            float64
}

// Payback is the time needed for cumulative net benefit to equal the
// machine cost. Months is only meaningful when Status is PaybackReached and
// is zero otherwise.
type Payback struct {
	Status PaybackStatus `yaml:"status" json:"status"`
	Months float64       `yaml:"months" json:"months"`
}

// FinancialResult is the investment case derived from both scenarios.
type FinancialResult struct {
	Days                  int
	TotalUnitsRecovered   float64
	GrossBenefit          float64
	AnnualOperationalCost float64
	AnnualNetBenefit      float64
	ROIPercent            float64
	MonthlyNetBenefit     float64
	Payback               Payback
}

// PaybackPeriod returns the payback period in months, or ErrNoPayback.
func (r FinancialResult) PaybackPeriod() (float64, error) {
	if r.Payback.Status != PaybackReached {
		return 0, ErrNoPayback
	}
	return r.Payback.Months, nil
}

// Analyze computes the financial result over fully derived records.
func Analyze(records []simulation.DailyRecord, costs Costs) (FinancialResult, error) {
	if len(records) == 0 {
		return FinancialResult{}, fmt.Errorf("records cannot be empty")
	}
	if costs.MachineCost <= 0 || !mathutil.IsFinite(costs.MachineCost) {
		return FinancialResult{}, fmt.Errorf("machine cost must be positive, got %v", costs.MachineCost)
	}
	if costs.UnitPrice <= 0 || !mathutil.IsFinite(costs.UnitPrice) {
		return FinancialResult{}, fmt.Errorf("unit price must be positive, got %v", costs.UnitPrice)
	}
	if err := simulation.CheckRanges(records); err != nil {
		return FinancialResult{}, fmt.Errorf("refusing to analyze records: %w", err)
	}

	var r FinancialResult
	r.Days = len(records)
	r.TotalUnitsRecovered = simulation.TotalUnitsRecovered(records)
	r.GrossBenefit = float64(r.TotalUnitsRecovered * costs.UnitPrice)
	r.AnnualOperationalCost = float64(costs.DailyOperationalCost * float64(r.Days))
	r.AnnualNetBenefit = r.GrossBenefit - r.AnnualOperationalCost
	r.ROIPercent = r.AnnualNetBenefit / costs.MachineCost * constants.PercentageMultiplier
	r.MonthlyNetBenefit = r.AnnualNetBenefit / constants.MonthsPerYear
	r.Payback = PaybackFor(costs.MachineCost, r.MonthlyNetBenefit)

	return r, nil
}

// PaybackFor divides the machine cost by the monthly net benefit, reporting
// PaybackUnreachable instead of a negative or infinite month count.
func PaybackFor(machineCost, monthlyNetBenefit float64) Payback {
	if monthlyNetBenefit <= 0 {
		return Payback{Status: PaybackUnreachable}
	}
	months := machineCost / monthlyNetBenefit
	if !mathutil.IsFinite(months) {
		return Payback{Status: PaybackUnreachable}
	}
	return Payback{Status: PaybackReached, Months: months}
}
