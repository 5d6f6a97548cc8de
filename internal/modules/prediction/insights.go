package prediction

import "github.com/yungbote/vitality-backend/internal/domain/health"

func lowScoreInsight(t health.PredictionType) health.ActionableInsight {
	in := health.ActionableInsight{Impact: 0.7, Confidence: 0.8}
	switch t {
	case health.PredictionEnergy:
		in.Category, in.Text = "sleep", "Energy looks low tomorrow. Aim for an earlier bedtime tonight and a short walk after waking."
	case health.PredictionMood:
		in.Category, in.Text = "mood", "Your mood may dip tomorrow. Plan something you enjoy and get some daylight early."
	case health.PredictionSleepQuality:
		in.Category, in.Text = "sleep", "Sleep quality may suffer tonight. Skip screens and caffeine for the last hours of the day."
	case health.PredictionProductivity:
		in.Category, in.Text = "focus", "Tomorrow may be a low-focus day. Put your hardest task first and block out interruptions."
	case health.PredictionHealthScore:
		in.Category, in.Text = "wellness", "Your overall score is trending low. Prioritize sleep, water and a bit of movement tomorrow."
	}
	return in
}

func decliningInsight(t health.PredictionType) health.ActionableInsight {
	in := health.ActionableInsight{Impact: 0.6, Confidence: 0.7}
	switch t {
	case health.PredictionEnergy:
		in.Category, in.Text = "activity", "Your energy has been sliding. Short movement breaks during the day can help reverse it."
	case health.PredictionMood:
		in.Category, in.Text = "mood", "Your mood has been declining. A check-in with a friend or a few minutes of breathing may help."
	case health.PredictionSleepQuality:
		in.Category, in.Text = "sleep", "Sleep quality keeps dropping. Try keeping the same bedtime every night this week."
	case health.PredictionProductivity:
		in.Category, in.Text = "focus", "Productivity has been trending down. Consider shorter work blocks with real breaks."
	case health.PredictionHealthScore:
		in.Category, in.Text = "wellness", "Your overall health score is declining. Pick one habit to reset this week."
	}
	return in
}

func maintainInsight(t health.PredictionType) health.ActionableInsight {
	in := health.ActionableInsight{Impact: 0.5, Confidence: 0.7}
	switch t {
	case health.PredictionEnergy:
		in.Category, in.Text = "activity", "Energy is climbing. Keep the routine that got you here."
	case health.PredictionMood:
		in.Category, in.Text = "mood", "Mood is on the rise. Note what has been working and keep doing it."
	case health.PredictionSleepQuality:
		in.Category, in.Text = "sleep", "Sleep quality is improving. Protect your current bedtime routine."
	case health.PredictionProductivity:
		in.Category, in.Text = "focus", "Productivity is trending up. Keep your current work rhythm."
	case health.PredictionHealthScore:
		in.Category, in.Text = "wellness", "Your overall health score is improving. Stay consistent this week."
	}
	return in
}
