package micromoment

import (
	"strings"

	"github.com/yungbote/vitality-backend/internal/domain/health"
	"github.com/yungbote/vitality-backend/internal/modules/factors"
)

// Scores accumulates the weighted priority of each moment type.
type Scores map[health.MomentType]float64

// Selection is the outcome of scoring: the winning type, if any, and the
// correlations that pushed it.
type Selection struct {
	Type           health.MomentType
	Score          float64
	CorrelationIDs []string
	OK             bool
}

// Score weighs each correlation against the current state. A rule whose
// state value is absent does not fire.
func Score(correlations []*health.Correlation, st State) (Scores, map[health.MomentType][]string) {
	scores := Scores{}
	for _, t := range health.MomentTypes {
		scores[t] = 0
	}
	contributors := map[health.MomentType][]string{}
	add := func(t health.MomentType, v float64, id string) {
		scores[t] += v
		contributors[t] = append(contributors[t], id)
	}
	mood, moodOK := factors.MoodOverall.Value(st.Metrics)
	steps, stepsOK := factors.ActivitySteps.Value(st.Metrics)
	for _, c := range correlations {
		if c == nil {
			continue
		}
		id := c.ID.String()
		primary := c.PrimaryFactor
		if strings.Contains(primary, "mood") && moodOK && mood < 6 {
			add(health.MomentBreathingExercise, c.Strength, id)
			add(health.MomentMovementBreak, c.Strength*0.8, id)
		}
		if strings.Contains(primary, "activity") && stepsOK && steps < 3000 {
			add(health.MomentMovementBreak, c.Strength, id)
		}
		if strings.Contains(primary, "nutrition.water") {
			add(health.MomentHydrationReminder, c.Strength, id)
		}
	}
	return scores, contributors
}

// Select picks the highest scoring type. Ties go to the earlier type in
// catalog order, and nothing is selected unless the best score exceeds
// threshold.
func Select(correlations []*health.Correlation, st State, threshold float64) Selection {
	scores, contributors := Score(correlations, st)
	best := Selection{}
	for _, t := range health.MomentTypes {
		if !best.OK || scores[t] > best.Score {
			best = Selection{Type: t, Score: scores[t], OK: true}
		}
	}
	if !best.OK || best.Score <= threshold {
		return Selection{Score: best.Score}
	}
	best.CorrelationIDs = dedupe(contributors[best.Type])
	return best
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
