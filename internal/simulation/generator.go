package simulation

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/iwvelando/sorting-roi/pkg/constants"
	"github.com/iwvelando/sorting-roi/pkg/datetime"
	"github.com/iwvelando/sorting-roi/pkg/mathutil"
)

// GeneratorParams describes the synthetic year.
type GeneratorParams struct {
	HorizonDays        int
	Start              time.Time
	BaseDemandBaseline int
	UnitPrice          float64
	QualityMean        float64
	QualityStddev      float64
}

// NewRand returns a deterministic random source for the given seed.
func NewRand(seed int64) *rand.Rand {
	s := uint64(seed)
	return rand.New(rand.NewPCG(s, s^0x9e3779b97f4a7c15))
}

// DemandRange returns the half-open interval [lo, hi) base demand is drawn from.
func DemandRange(baseline int) (int, int) {
	lo := int(constants.DemandLowerFactor * float64(baseline))
	hi := int(constants.DemandUpperFactor * float64(baseline))
	return lo, hi
}

// Generate produces HorizonDays records starting at Start. Base demand is
// uniform over DemandRange(BaseDemandBaseline) and the quality score is drawn
// from N(QualityMean, QualityStddev), clamped to the score scale and rounded
// to one decimal. All demands are drawn before any quality score.
func Generate(params GeneratorParams, rng *rand.Rand) ([]DailyRecord, error) {
	if rng == nil {
		return nil, fmt.Errorf("random source cannot be nil")
	}
	if params.HorizonDays <= 0 {
		return nil, fmt.Errorf("horizon must be positive, got %d", params.HorizonDays)
	}
	if params.BaseDemandBaseline < 0 {
		return nil, fmt.Errorf("base demand baseline cannot be negative, got %d", params.BaseDemandBaseline)
	}

	dates := datetime.DaySequence(params.Start, params.HorizonDays)
	records := make([]DailyRecord, params.HorizonDays)

	lo, hi := DemandRange(params.BaseDemandBaseline)
	for i := range records {
		demand := lo
		if hi > lo {
			demand = lo + rng.IntN(hi-lo)
		}
		records[i] = DailyRecord{
			Date:       dates[i],
			BaseDemand: demand,
			UnitPrice:  params.UnitPrice,
		}
	}

	// The float64 conversions in this package keep products from being
	// fused into FMA instructions, so seeded runs match on every platform.
	for i := range records {
		score := params.QualityMean + float64(params.QualityStddev*rng.NormFloat64())
		score = mathutil.Clamp(score, constants.MinQualityScore, constants.MaxQualityScore)
		records[i].QualityScore = mathutil.RoundTo(score, 1)
	}

	if err := CheckRanges(records); err != nil {
		return nil, err
	}
	return records, nil
}
