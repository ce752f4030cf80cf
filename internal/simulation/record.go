// Package simulation generates a synthetic year of daily sales and derives
// the per-day losses with and without the sorting machine.
//
// Every stage takes the previous stage's records and returns a new slice; no
// stage modifies its input.
package simulation

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/iwvelando/sorting-roi/pkg/constants"
)

// Outcome holds the derived sales figures of one day under one scenario.
type Outcome struct {
	RejectionRatio float64
	UnitsLost      float64
	ActualSales    float64
	Revenue        float64
}

// DailyRecord is one simulated day.
type DailyRecord struct {
	Date         time.Time
	BaseDemand   int
	UnitPrice    float64
	QualityScore float64

	Current   Outcome
	Optimized Outcome

	// UnitsRecovered is Current.UnitsLost - Optimized.UnitsLost.
	UnitsRecovered float64
}

// ErrRangeViolation is wrapped by every RangeViolationError.
var ErrRangeViolation = errors.New("generated value out of range")

// RangeViolationError reports a generated value outside its valid domain.
// It indicates a generator bug and must stop the pipeline.
type RangeViolationError struct {
	Index int
	Date  time.Time
	Field string
	Value float64
}

func (e *RangeViolationError) Error() string {
	return fmt.Sprintf("%s: day %d (%s) %s = %v",
		ErrRangeViolation, e.Index, e.Date.Format(constants.DateLayout), e.Field, e.Value)
}

func (e *RangeViolationError) Unwrap() error {
	return ErrRangeViolation
}

// CheckRanges verifies that every quality score lies in the score scale and
// every base demand is non-negative.
func CheckRanges(records []DailyRecord) error {
	for i, r := range records {
		q := r.QualityScore
		if math.IsNaN(q) || q < constants.MinQualityScore || q > constants.MaxQualityScore {
			return &RangeViolationError{Index: i, Date: r.Date, Field: "quality_score", Value: q}
		}
		if r.BaseDemand < 0 {
			return &RangeViolationError{Index: i, Date: r.Date, Field: "base_demand", Value: float64(r.BaseDemand)}
		}
	}
	return nil
}

func clone(records []DailyRecord) []DailyRecord {
	if records == nil {
		return nil
	}
	out := make([]DailyRecord, len(records))
	copy(out, records)
	return out
}
