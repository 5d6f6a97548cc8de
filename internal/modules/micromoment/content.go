package micromoment

import (
	"fmt"

	"github.com/yungbote/vitality-backend/internal/domain/health"
)

// Content renders the static template for t, addressed to name.
func Content(t health.MomentType, name string) health.MomentContent {
	if name == "" {
		name = "there"
	}
	switch t {
	case health.MomentHydrationReminder:
		return health.MomentContent{
			Title:           "Time to hydrate",
			Message:         fmt.Sprintf("Hey %s, your energy tracks with how much water you drink. Grab a glass now.", name),
			Action:          "Drink a full glass of water",
			DurationMinutes: 1,
			Difficulty:      health.DifficultyEasy,
		}
	case health.MomentMovementBreak:
		return health.MomentContent{
			Title:           "Quick movement break",
			Message:         fmt.Sprintf("%s, a few minutes of movement tends to lift your day. Stand up and stretch or take a short walk.", name),
			Action:          "Walk or stretch for five minutes",
			DurationMinutes: 5,
			Difficulty:      health.DifficultyEasy,
		}
	case health.MomentBreathingExercise:
		return health.MomentContent{
			Title:           "Take a breath",
			Message:         fmt.Sprintf("Hi %s, let's reset with a short breathing exercise: in for four, hold for four, out for six.", name),
			Action:          "Do three minutes of paced breathing",
			DurationMinutes: 3,
			Difficulty:      health.DifficultyEasy,
		}
	case health.MomentMoodCheck:
		return health.MomentContent{
			Title:           "How are you feeling?",
			Message:         fmt.Sprintf("%s, take a moment to check in with yourself and log your mood.", name),
			Action:          "Rate your mood from 1 to 10",
			DurationMinutes: 1,
			Difficulty:      health.DifficultyEasy,
		}
	case health.MomentEnergyBoost:
		return health.MomentContent{
			Title:           "Energy boost",
			Message:         fmt.Sprintf("Feeling a dip, %s? Step outside for some daylight or do a quick set of jumping jacks.", name),
			Action:          "Get ten minutes of daylight or light exercise",
			DurationMinutes: 10,
			Difficulty:      health.DifficultyModerate,
		}
	default:
		return health.MomentContent{
			Title:           "A moment for you",
			Message:         fmt.Sprintf("Hi %s, take a short pause for yourself.", name),
			Action:          "Pause for a minute",
			DurationMinutes: 1,
			Difficulty:      health.DifficultyEasy,
		}
	}
}
