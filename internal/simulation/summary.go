package simulation

import (
	"github.com/iwvelando/sorting-roi/pkg/constants"
	"github.com/iwvelando/sorting-roi/pkg/mathutil"
)

// ScenarioSummary aggregates one scenario over the whole horizon.
type ScenarioSummary struct {
	Name             string
	Days             int
	LossDays         int
	TotalBaseDemand  float64
	TotalUnitsLost   float64
	TotalActualSales float64
	TotalRevenue     float64
	TotalRevenueLoss float64
	// LossPercentage is TotalUnitsLost as a share of TotalBaseDemand.
	LossPercentage float64
}

// Summarize totals the outcome selected by pick across all records.
func Summarize(name string, records []DailyRecord, pick func(DailyRecord) Outcome) ScenarioSummary {
	s := ScenarioSummary{Name: name, Days: len(records)}
	for _, r := range records {
		o := pick(r)
		if o.RejectionRatio > 0 {
			s.LossDays++
		}
		s.TotalBaseDemand += float64(r.BaseDemand)
		s.TotalUnitsLost += o.UnitsLost
		s.TotalActualSales += o.ActualSales
		s.TotalRevenue += o.Revenue
		s.TotalRevenueLoss += float64(o.UnitsLost * r.UnitPrice)
	}
	s.LossPercentage = mathutil.CalculatePercentage(s.TotalUnitsLost, s.TotalBaseDemand)
	return s
}

// SummarizeCurrent totals the scenario without the machine.
func SummarizeCurrent(records []DailyRecord) ScenarioSummary {
	return Summarize(constants.ScenarioCurrent, records, func(r DailyRecord) Outcome { return r.Current })
}

// SummarizeOptimized totals the scenario with the machine.
func SummarizeOptimized(records []DailyRecord) ScenarioSummary {
	return Summarize(constants.ScenarioOptimized, records, func(r DailyRecord) Outcome { return r.Optimized })
}

// TotalUnitsRecovered sums UnitsRecovered across all records.
func TotalUnitsRecovered(records []DailyRecord) float64 {
	total := 0.0
	for _, r := range records {
		total += r.UnitsRecovered
	}
	return total
}
