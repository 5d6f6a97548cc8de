package factors

import (
	"math"

	"github.com/yungbote/vitality-backend/internal/domain/health"
	"github.com/yungbote/vitality-backend/internal/pkg/stats"
)

// ProductivityScore blends focus, energy, sleep quality and active minutes
// around a neutral 5, clamped to [1,10].
func ProductivityScore(m health.Metrics) float64 {
	score := 5.0
	if v, ok := MoodFocus.Value(m); ok {
		score += (v - 5) * 0.3
	}
	if v, ok := MoodEnergy.Value(m); ok {
		score += (v - 5) * 0.2
	}
	if v, ok := SleepQuality.Value(m); ok {
		score += (v - 5) * 0.2
	}
	if v, ok := ActivityActiveMinutes.Value(m); ok {
		score += math.Min(v/30, 1) * 2
	}
	return stats.Clamp(score, 1, 10)
}

// HealthScore blends sleep, mood, steps and calorie balance. With none of
// those present it is a flat 5.
func HealthScore(m health.Metrics) float64 {
	score := 5.0
	applied := 0
	if v, ok := SleepQuality.Value(m); ok {
		score += (v - 5) * 0.25
		applied++
	}
	if v, ok := MoodOverall.Value(m); ok {
		score += (v - 5) * 0.2
		applied++
	}
	if v, ok := ActivitySteps.Value(m); ok {
		score += math.Min(v/8000, 1) * 2
		applied++
	}
	if v, ok := NutritionCalories.Value(m); ok {
		score += (1 - math.Abs(v-2000)/2000) * 2
		applied++
	}
	if applied == 0 {
		return 5
	}
	return stats.Clamp(score, 1, 10)
}
