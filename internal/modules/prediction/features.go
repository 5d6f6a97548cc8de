// Package prediction forecasts next-day and next-week scores per prediction
// type from recent history and the user's correlations.
package prediction

import (
	"time"

	"github.com/yungbote/vitality-backend/internal/domain/health"
	"github.com/yungbote/vitality-backend/internal/modules/factors"
	"github.com/yungbote/vitality-backend/internal/pkg/stats"
)

// Extract maps one decoded record to the scalar forecast for t.
func Extract(t health.PredictionType, m health.Metrics) (float64, bool) {
	switch t {
	case health.PredictionEnergy:
		return factors.MoodEnergy.Value(m)
	case health.PredictionMood:
		return factors.MoodOverall.Value(m)
	case health.PredictionSleepQuality:
		return factors.SleepQuality.Value(m)
	case health.PredictionProductivity:
		return factors.ProductivityScore(m), true
	case health.PredictionHealthScore:
		return factors.HealthScore(m), true
	}
	return 0, false
}

// TargetFactor is the catalog factor whose correlations inform t.
// Health score targets a bare "overall" key that no catalog factor carries,
// so it never picks up correlation weights.
func TargetFactor(t health.PredictionType) string {
	switch t {
	case health.PredictionEnergy:
		return factors.MoodEnergy.String()
	case health.PredictionMood:
		return factors.MoodOverall.String()
	case health.PredictionSleepQuality:
		return factors.SleepQuality.String()
	case health.PredictionProductivity:
		return factors.MoodFocus.String()
	case health.PredictionHealthScore:
		return "overall"
	}
	return ""
}

type Point struct {
	At    time.Time
	Value float64
}

// Series extracts every present value for t, keeping sample order.
func Series(samples []factors.Sample, t health.PredictionType) []Point {
	out := make([]Point, 0, len(samples))
	for _, s := range samples {
		v, ok := Extract(t, s.Metrics)
		if !ok {
			continue
		}
		out = append(out, Point{At: s.Record.RecordedAt, Value: v})
	}
	return out
}

type Features struct {
	RecentAvg   float64
	RecentTrend float64
	Variance    float64
	Momentum    float64
	Count       int
}

// ExtractFeatures summarizes the last horizonDays*3 samples. Every feature
// is zero when nothing could be extracted.
func ExtractFeatures(samples []factors.Sample, t health.PredictionType, horizonDays int) Features {
	window := horizonDays * 3
	if window < len(samples) {
		samples = samples[len(samples)-window:]
	}
	points := Series(samples, t)
	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.Value
	}
	f := Features{Count: len(values)}
	if len(values) == 0 {
		return f
	}
	f.RecentAvg = stats.Mean(values)
	f.Variance = stats.Variance(values)
	if len(values) >= 2 {
		first, last := values[0], values[len(values)-1]
		f.RecentTrend = (last - first) / float64(len(values))
		f.Momentum = last - f.RecentAvg
	}
	return f
}

// Weight is one correlated factor's pull on a forecast.
type Weight struct {
	Factor        string
	Weight        float64
	CorrelationID string
}

// Weights collects strength*confidence for every correlation touching the
// target factor of t, keyed by the other factor. A later correlation for the
// same factor replaces the earlier one.
func Weights(correlations []*health.Correlation, t health.PredictionType) []Weight {
	target := TargetFactor(t)
	var out []Weight
	index := map[string]int{}
	for _, c := range correlations {
		if c == nil {
			continue
		}
		var other string
		switch target {
		case c.PrimaryFactor:
			other = c.SecondaryFactor
		case c.SecondaryFactor:
			other = c.PrimaryFactor
		default:
			continue
		}
		w := Weight{Factor: other, Weight: c.Strength * c.Confidence, CorrelationID: c.ID.String()}
		if i, ok := index[other]; ok {
			out[i] = w
			continue
		}
		index[other] = len(out)
		out = append(out, w)
	}
	return out
}
