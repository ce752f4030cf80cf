package simulation

// LossPolicy is the maturity driven rejection model shared by both scenarios.
type LossPolicy struct {
	QualityThreshold       float64
	RejectionRateCurrent   float64
	RejectionRateOptimized float64
}

// CurrentRejectionRatio returns the share of demand lost without the machine.
// Only scores strictly below the threshold are rejected.
func (p LossPolicy) CurrentRejectionRatio(qualityScore float64) float64 {
	if qualityScore < p.QualityThreshold {
		return p.RejectionRateCurrent
	}
	return 0
}

// OptimizedRejectionRatio returns the share of demand lost with the machine,
// which only applies on days that lost demand without it.
func (p LossPolicy) OptimizedRejectionRatio(currentRatio float64) float64 {
	if currentRatio > 0 {
		return p.RejectionRateOptimized
	}
	return 0
}

// NewOutcome derives lost units, actual sales and revenue for one day.
func NewOutcome(baseDemand int, ratio, unitPrice float64) Outcome {
	demand := float64(baseDemand)
	lost := float64(demand * ratio)
	sales := demand - lost
	return Outcome{
		RejectionRatio: ratio,
		UnitsLost:      lost,
		ActualSales:    sales,
		Revenue:        float64(sales * unitPrice),
	}
}

// ApplyCurrentScenario returns a copy of records with the Current outcome set.
func ApplyCurrentScenario(records []DailyRecord, policy LossPolicy) []DailyRecord {
	out := clone(records)
	for i := range out {
		ratio := policy.CurrentRejectionRatio(out[i].QualityScore)
		out[i].Current = NewOutcome(out[i].BaseDemand, ratio, out[i].UnitPrice)
	}
	return out
}

// ApplyOptimizedScenario returns a copy of records with the Optimized outcome
// and UnitsRecovered set. It reads each record's Current outcome, so it must
// run after ApplyCurrentScenario.
func ApplyOptimizedScenario(records []DailyRecord, policy LossPolicy) []DailyRecord {
	out := clone(records)
	for i := range out {
		ratio := policy.OptimizedRejectionRatio(out[i].Current.RejectionRatio)
		out[i].Optimized = NewOutcome(out[i].BaseDemand, ratio, out[i].UnitPrice)
		out[i].UnitsRecovered = out[i].Current.UnitsLost - out[i].Optimized.UnitsLost
	}
	return out
}

// Derive runs both loss stages over freshly generated records.
func Derive(records []DailyRecord, policy LossPolicy) []DailyRecord {
	return ApplyOptimizedScenario(ApplyCurrentScenario(records, policy), policy)
}
