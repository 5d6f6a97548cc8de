// Package correlation finds strong pairwise relationships between a user's
// health factors and turns the well-known ones into readable insights.
package correlation

import (
	"math"

	"github.com/yungbote/vitality-backend/internal/config"
	"github.com/yungbote/vitality-backend/internal/domain/health"
	"github.com/yungbote/vitality-backend/internal/modules/factors"
	"github.com/yungbote/vitality-backend/internal/pkg/stats"
)

// Result is one surviving factor pair before persistence.
type Result struct {
	Pair         factors.Pair
	Strength     float64
	Confidence   float64
	Significance health.Significance
	Direction    health.Direction
	DataPoints   int
}

// Compute correlates every catalog pair over records. Fewer than
// cfg.MinDataPoints records is a normal empty result. Output follows
// catalog pair order.
func Compute(records []*health.HealthRecord, cfg config.CorrelationConfig) []Result {
	if len(records) < cfg.MinDataPoints {
		return nil
	}
	samples := factors.Decode(records)
	var out []Result
	for _, pair := range factors.Pairs() {
		xs, ys := factors.Series(samples, pair)
		n := len(xs)
		if n < cfg.MinDataPoints {
			continue
		}
		r := stats.Pearson(xs, ys)
		if math.Abs(r) < cfg.Threshold {
			continue
		}
		out = append(out, Result{
			Pair:         pair,
			Strength:     r,
			Confidence:   Confidence(n, r, cfg.SampleSaturation),
			Significance: Classify(r, cfg.Significance),
			Direction:    DirectionOf(r),
			DataPoints:   n,
		})
	}
	return out
}

// Confidence averages sample adequacy (saturating at saturation samples)
// with |r|.
func Confidence(n int, r float64, saturation int) float64 {
	if saturation <= 0 {
		saturation = 1
	}
	adequacy := math.Min(float64(n)/float64(saturation), 1)
	return (adequacy + math.Abs(r)) / 2
}

// Classify buckets |r|; a larger |r| never lands in a lower bucket.
func Classify(r float64, th config.SignificanceThresholds) health.Significance {
	abs := math.Abs(r)
	switch {
	case abs >= th.VeryStrong:
		return health.SignificanceVeryStrong
	case abs >= th.Strong:
		return health.SignificanceStrong
	case abs >= th.Moderate:
		return health.SignificanceModerate
	default:
		return health.SignificanceWeak
	}
}

func DirectionOf(r float64) health.Direction {
	if r < 0 {
		return health.DirectionNegative
	}
	return health.DirectionPositive
}
