package output

import (
	"github.com/iwvelando/sorting-roi/internal/analysis"
	"github.com/iwvelando/sorting-roi/internal/montecarlo"
	"github.com/iwvelando/sorting-roi/internal/roi"
	"github.com/iwvelando/sorting-roi/internal/sensitivity"
	"github.com/iwvelando/sorting-roi/internal/simulation"
	"github.com/iwvelando/sorting-roi/pkg/constants"
)

// ScenarioReport is the summary of one scenario.
type ScenarioReport struct {
	Name             string  `yaml:"name" json:"name"`
	LossDays         int     `yaml:"lossDays" json:"lossDays"`
	TotalBaseDemand  float64 `yaml:"totalBaseDemand" json:"totalBaseDemand"`
	TotalUnitsLost   float64 `yaml:"totalUnitsLost" json:"totalUnitsLost"`
	TotalRevenue     float64 `yaml:"totalRevenue" json:"totalRevenue"`
	TotalRevenueLoss float64 `yaml:"totalRevenueLoss" json:"totalRevenueLoss"`
	LossPercentage   float64 `yaml:"lossPercentage" json:"lossPercentage"`
}

// Report is the summary of one simulated year plus any extra analyses run
// alongside it.
type Report struct {
	RunID     string `yaml:"runId" json:"runId"`
	Seed      int64  `yaml:"seed" json:"seed"`
	Days      int    `yaml:"days" json:"days"`
	StartDate string `yaml:"startDate" json:"startDate"`
	EndDate   string `yaml:"endDate" json:"endDate"`

	Current   ScenarioReport `yaml:"current" json:"current"`
	Optimized ScenarioReport `yaml:"optimized" json:"optimized"`

	UnitsRecovered        float64 `yaml:"unitsRecovered" json:"unitsRecovered"`
	GrossBenefit          float64 `yaml:"grossBenefit" json:"grossBenefit"`
	AnnualOperationalCost float64 `yaml:"annualOperationalCost" json:"annualOperationalCost"`
	AnnualNetBenefit      float64 `yaml:"annualNetBenefit" json:"annualNetBenefit"`
	ROIPercent            float64 `yaml:"roiPercent" json:"roiPercent"`
	MonthlyNetBenefit     float64 `yaml:"monthlyNetBenefit" json:"monthlyNetBenefit"`
	PaybackStatus         string  `yaml:"paybackStatus" json:"paybackStatus"`
	// PaybackMonths is nil when the machine never pays for itself.
	PaybackMonths *float64 `yaml:"paybackMonths,omitempty" json:"paybackMonths,omitempty"`

	MonteCarlo  *montecarlo.Summary    `yaml:"monteCarlo,omitempty" json:"monteCarlo,omitempty"`
	Sensitivity []sensitivity.Point    `yaml:"sensitivity,omitempty" json:"sensitivity,omitempty"`
	BreakEven   *sensitivity.BreakEven `yaml:"breakEven,omitempty" json:"breakEven,omitempty"`

	Charts *roi.ChartData `yaml:"-" json:"charts,omitempty"`
}

// NewReport summarizes a simulated year.
func NewReport(result *roi.Result) Report {
	r := Report{
		RunID:                 result.RunID.String(),
		Seed:                  result.Seed,
		Days:                  result.Financial.Days,
		Current:               scenarioReport(result.Current),
		Optimized:             scenarioReport(result.Optimized),
		UnitsRecovered:        result.Financial.TotalUnitsRecovered,
		GrossBenefit:          result.Financial.GrossBenefit,
		AnnualOperationalCost: result.Financial.AnnualOperationalCost,
		AnnualNetBenefit:      result.Financial.AnnualNetBenefit,
		ROIPercent:            result.Financial.ROIPercent,
		MonthlyNetBenefit:     result.Financial.MonthlyNetBenefit,
		PaybackStatus:         string(result.Financial.Payback.Status),
	}
	if months, err := result.Financial.PaybackPeriod(); err == nil {
		r.PaybackMonths = &months
	}
	if n := len(result.Records); n > 0 {
		r.StartDate = result.Records[0].Date.Format(constants.DateLayout)
		r.EndDate = result.Records[n-1].Date.Format(constants.DateLayout)
	}
	charts := result.ChartData()
	r.Charts = &charts
	return r
}

func scenarioReport(s simulation.ScenarioSummary) ScenarioReport {
	return ScenarioReport{
		Name:             s.Name,
		LossDays:         s.LossDays,
		TotalBaseDemand:  s.TotalBaseDemand,
		TotalUnitsLost:   s.TotalUnitsLost,
		TotalRevenue:     s.TotalRevenue,
		TotalRevenueLoss: s.TotalRevenueLoss,
		LossPercentage:   s.LossPercentage,
	}
}

// PaybackReached reports whether the report carries a payback period.
func (r Report) PaybackReached() bool {
	return r.PaybackStatus == string(analysis.PaybackReached) && r.PaybackMonths != nil
}
