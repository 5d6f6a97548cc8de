package correlation

import (
	"fmt"
	"math"

	"github.com/yungbote/vitality-backend/internal/domain/health"
	"github.com/yungbote/vitality-backend/internal/modules/factors"
)

type Impact string

const (
	ImpactHigh   Impact = "high"
	ImpactMedium Impact = "medium"
	ImpactLow    Impact = "low"
)

type Insight struct {
	CorrelationID   string              `json:"correlation_id"`
	PrimaryFactor   string              `json:"primary_factor"`
	SecondaryFactor string              `json:"secondary_factor"`
	Text            string              `json:"text"`
	Strength        float64             `json:"strength"`
	Significance    health.Significance `json:"significance"`
	Direction       health.Direction    `json:"direction"`
	PotentialImpact Impact              `json:"potential_impact"`
}

type template struct {
	positive string
	negative string
}

// templateFor is the curated insight catalog. Pairs without an entry yield
// no insight.
func templateFor(p factors.Pair) (template, bool) {
	switch p {
	case factors.Pair{Primary: factors.SleepDuration, Secondary: factors.MoodEnergy}:
		return template{
			positive: "On nights you sleep longer, your next-day energy runs about %d%% higher.",
			negative: "Longer sleep tends to leave you about %d%% less energetic; oversleeping may be a factor.",
		}, true
	case factors.Pair{Primary: factors.SleepQuality, Secondary: factors.MoodOverall}:
		return template{
			positive: "Better sleep quality lines up with a mood about %d%% brighter.",
			negative: "Your mood dips about %d%% after nights rated as higher quality sleep.",
		}, true
	case factors.Pair{Primary: factors.ActivitySteps, Secondary: factors.MoodOverall}:
		return template{
			positive: "More steps go with a mood about %d%% better. A short walk could help.",
			negative: "Very active days come with a mood about %d%% lower; pacing yourself may help.",
		}, true
	case factors.Pair{Primary: factors.SleepQuality, Secondary: factors.ActivityActiveMinutes}:
		return template{
			positive: "After well rested nights you log about %d%% more active minutes.",
			negative: "Better sleep quality comes with about %d%% fewer active minutes.",
		}, true
	case factors.Pair{Primary: factors.SleepQuality, Secondary: factors.MoodStress}:
		return template{
			positive: "Stress runs about %d%% higher alongside your better rated sleep.",
			negative: "Good sleep cuts your stress by about %d%%.",
		}, true
	case factors.Pair{Primary: factors.MoodEnergy, Secondary: factors.NutritionWater}:
		return template{
			positive: "High energy days line up with about %d%% more water intake.",
			negative: "You drink about %d%% less water on your most energetic days.",
		}, true
	default:
		return template{}, false
	}
}

// PotentialImpact buckets the signed strength, so negative correlations
// always rate low.
func PotentialImpact(strength float64) Impact {
	switch {
	case strength > 0.8:
		return ImpactHigh
	case strength > 0.6:
		return ImpactMedium
	default:
		return ImpactLow
	}
}

// DeriveInsights renders insights for strong and very strong correlations
// that have a template, in input order.
func DeriveInsights(correlations []*health.Correlation) []Insight {
	out := make([]Insight, 0, len(correlations))
	for _, c := range correlations {
		if c == nil {
			continue
		}
		if c.Significance != health.SignificanceStrong && c.Significance != health.SignificanceVeryStrong {
			continue
		}
		primary, ok1 := factors.Parse(c.PrimaryFactor)
		secondary, ok2 := factors.Parse(c.SecondaryFactor)
		if !ok1 || !ok2 {
			continue
		}
		tpl, ok := templateFor(factors.Pair{Primary: primary, Secondary: secondary})
		if !ok {
			continue
		}
		text := tpl.positive
		if c.Direction == health.DirectionNegative {
			text = tpl.negative
		}
		out = append(out, Insight{
			CorrelationID:   c.ID.String(),
			PrimaryFactor:   c.PrimaryFactor,
			SecondaryFactor: c.SecondaryFactor,
			Text:            fmt.Sprintf(text, Percent(c.Strength)),
			Strength:        c.Strength,
			Significance:    c.Significance,
			Direction:       c.Direction,
			PotentialImpact: PotentialImpact(c.Strength),
		})
	}
	return out
}

// Percent is the headline figure quoted in insight text.
func Percent(strength float64) int {
	return int(math.Round(math.Abs(strength) * 30))
}
