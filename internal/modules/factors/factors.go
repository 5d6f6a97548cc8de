// Package factors names the numeric health measurements that can be
// correlated and forecast, and knows how to read each one from a record.
package factors

import (
	"strings"

	"github.com/yungbote/vitality-backend/internal/domain/health"
)

// Factor is a dotted path into a health record payload, e.g. "sleep.duration".
type Factor string

const (
	SleepDuration          Factor = "sleep.duration"
	SleepQuality           Factor = "sleep.quality"
	SleepEfficiency        Factor = "sleep.efficiency"
	ActivitySteps          Factor = "activity.steps"
	ActivityActiveMinutes  Factor = "activity.activeMinutes"
	ActivityCaloriesBurned Factor = "activity.caloriesBurned"
	MoodOverall            Factor = "mood.overall"
	MoodEnergy             Factor = "mood.energy"
	MoodStress             Factor = "mood.stress"
	MoodFocus              Factor = "mood.focus"
	NutritionCalories      Factor = "nutrition.calories"
	NutritionWater         Factor = "nutrition.water"
	BiometricHeartRate     Factor = "biometric.heartRate"
	BiometricHRV           Factor = "biometric.hrv"
)

var catalog = []Factor{
	SleepDuration,
	SleepQuality,
	SleepEfficiency,
	ActivitySteps,
	ActivityActiveMinutes,
	ActivityCaloriesBurned,
	MoodOverall,
	MoodEnergy,
	MoodStress,
	MoodFocus,
	NutritionCalories,
	NutritionWater,
	BiometricHeartRate,
	BiometricHRV,
}

// Catalog returns the fixed factor list in catalog order.
func Catalog() []Factor {
	out := make([]Factor, len(catalog))
	copy(out, catalog)
	return out
}

// Pair is an unordered factor pair; Primary always precedes Secondary in
// catalog order.
type Pair struct {
	Primary   Factor
	Secondary Factor
}

func (p Pair) Key() string { return string(p.Primary) + "-" + string(p.Secondary) }

// Pairs enumerates every unordered pair of the catalog in a stable order.
func Pairs() []Pair {
	out := make([]Pair, 0, len(catalog)*(len(catalog)-1)/2)
	for i := 0; i < len(catalog); i++ {
		for j := i + 1; j < len(catalog); j++ {
			out = append(out, Pair{Primary: catalog[i], Secondary: catalog[j]})
		}
	}
	return out
}

func Parse(s string) (Factor, bool) {
	s = strings.TrimSpace(s)
	for _, f := range catalog {
		if string(f) == s {
			return f, true
		}
	}
	return "", false
}

// Category is the payload section the factor lives in.
func (f Factor) Category() health.Category {
	head, _, _ := strings.Cut(string(f), ".")
	return health.Category(head)
}

func (f Factor) String() string { return string(f) }

// Value reads the factor from decoded metrics. A missing section, missing
// field or malformed value all report ok=false.
func (f Factor) Value(m health.Metrics) (float64, bool) {
	switch f {
	case SleepDuration, SleepQuality, SleepEfficiency:
		if m.Sleep == nil {
			return 0, false
		}
		switch f {
		case SleepDuration:
			return m.Sleep.Duration.Get()
		case SleepQuality:
			return m.Sleep.Quality.Get()
		default:
			return m.Sleep.Efficiency.Get()
		}
	case ActivitySteps, ActivityActiveMinutes, ActivityCaloriesBurned:
		if m.Activity == nil {
			return 0, false
		}
		switch f {
		case ActivitySteps:
			return m.Activity.Steps.Get()
		case ActivityActiveMinutes:
			return m.Activity.ActiveMinutes.Get()
		default:
			return m.Activity.CaloriesBurned.Get()
		}
	case MoodOverall, MoodEnergy, MoodStress, MoodFocus:
		if m.Mood == nil {
			return 0, false
		}
		switch f {
		case MoodOverall:
			return m.Mood.Overall.Get()
		case MoodEnergy:
			return m.Mood.Energy.Get()
		case MoodStress:
			return m.Mood.Stress.Get()
		default:
			return m.Mood.Focus.Get()
		}
	case NutritionCalories, NutritionWater:
		if m.Nutrition == nil {
			return 0, false
		}
		if f == NutritionCalories {
			return m.Nutrition.Calories.Get()
		}
		return m.Nutrition.Water.Get()
	case BiometricHeartRate, BiometricHRV:
		if m.Biometric == nil {
			return 0, false
		}
		if f == BiometricHeartRate {
			return m.Biometric.HeartRate.Get()
		}
		return m.Biometric.HRV.Get()
	}
	return 0, false
}

// Sample is one decoded record, reused across every pair of a run.
type Sample struct {
	Record  *health.HealthRecord
	Metrics health.Metrics
}

// Decode parses each record payload once.
func Decode(records []*health.HealthRecord) []Sample {
	out := make([]Sample, 0, len(records))
	for _, r := range records {
		if r == nil {
			continue
		}
		out = append(out, Sample{Record: r, Metrics: r.Metrics()})
	}
	return out
}

// Series extracts paired values for two factors, keeping only samples where
// both are present.
func Series(samples []Sample, p Pair) (xs, ys []float64) {
	xs = make([]float64, 0, len(samples))
	ys = make([]float64, 0, len(samples))
	for _, s := range samples {
		x, okX := p.Primary.Value(s.Metrics)
		if !okX {
			continue
		}
		y, okY := p.Secondary.Value(s.Metrics)
		if !okY {
			continue
		}
		xs = append(xs, x)
		ys = append(ys, y)
	}
	return xs, ys
}
