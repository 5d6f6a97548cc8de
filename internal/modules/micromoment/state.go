// Package micromoment plans short, personalized nudges: it works out when a
// user tends to respond, which intervention their correlations point to, and
// what the message says.
package micromoment

import (
	"sort"
	"time"

	"github.com/yungbote/vitality-backend/internal/config"
	"github.com/yungbote/vitality-backend/internal/domain/health"
)

type TimeOfDay string

const (
	EarlyMorning TimeOfDay = "early-morning"
	Morning      TimeOfDay = "morning"
	Afternoon    TimeOfDay = "afternoon"
	Evening      TimeOfDay = "evening"
	Night        TimeOfDay = "night"
)

func TimeOfDayAt(t time.Time) TimeOfDay {
	switch h := t.Hour(); {
	case h < 6:
		return EarlyMorning
	case h < 12:
		return Morning
	case h < 17:
		return Afternoon
	case h < 21:
		return Evening
	default:
		return Night
	}
}

func IsWorkday(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// Weather is the optional outdoor context for a user's location.
type Weather struct {
	Condition   string  `json:"condition"`
	Temperature float64 `json:"temperature"`
}

// State is the user's situation at planning time.
type State struct {
	Metrics   health.Metrics
	TimeOfDay TimeOfDay
	Workday   bool
	Weather   *Weather
	Now       time.Time
}

// CurrentState merges the newest value of each payload section seen within
// cfg.CurrentStateHours of now. Records are expected oldest first.
func CurrentState(records []*health.HealthRecord, now time.Time, loc *time.Location, weather *Weather, cfg config.SchedulingConfig) State {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	st := State{
		TimeOfDay: TimeOfDayAt(local),
		Workday:   IsWorkday(local),
		Weather:   weather,
		Now:       local,
	}
	since := now.Add(-time.Duration(cfg.CurrentStateHours) * time.Hour)
	for _, r := range records {
		if r == nil || r.RecordedAt.Before(since) || r.RecordedAt.After(now) {
			continue
		}
		m := r.Metrics()
		if m.Sleep != nil {
			st.Metrics.Sleep = m.Sleep
		}
		if m.Activity != nil {
			st.Metrics.Activity = m.Activity
		}
		if m.Mood != nil {
			st.Metrics.Mood = m.Mood
		}
		if m.Nutrition != nil {
			st.Metrics.Nutrition = m.Nutrition
		}
		if m.Biometric != nil {
			st.Metrics.Biometric = m.Biometric
		}
	}
	return st
}

// Pattern is what past responses say about timing.
type Pattern struct {
	OptimalHours []int
	ResponseRate float64
	Learned      bool
}

// AnalyzePatterns ranks the local hours at which the user acknowledged
// moments and computes acknowledged/delivered. Without history it falls back
// to the configured default hours and response rate.
func AnalyzePatterns(moments []*health.MicroMoment, loc *time.Location, cfg config.SchedulingConfig) Pattern {
	if loc == nil {
		loc = time.UTC
	}
	counts := map[int]int{}
	acknowledged, delivered := 0, 0
	for _, m := range moments {
		if m == nil {
			continue
		}
		if m.DeliveredAt != nil || m.Status != health.MomentScheduled {
			delivered++
		}
		if !m.Acknowledged {
			continue
		}
		acknowledged++
		at := m.ScheduledFor
		if m.AcknowledgedAt != nil {
			at = *m.AcknowledgedAt
		}
		counts[at.In(loc).Hour()]++
	}

	p := Pattern{ResponseRate: cfg.DefaultResponseRate}
	if delivered > 0 {
		p.ResponseRate = float64(acknowledged) / float64(delivered)
	}
	if len(counts) == 0 {
		p.OptimalHours = append([]int(nil), cfg.DefaultOptimalHours...)
		return p
	}
	hours := make([]int, 0, len(counts))
	for h := range counts {
		hours = append(hours, h)
	}
	sort.Slice(hours, func(i, j int) bool {
		if counts[hours[i]] != counts[hours[j]] {
			return counts[hours[i]] > counts[hours[j]]
		}
		return hours[i] < hours[j]
	})
	if len(hours) > 3 {
		hours = hours[:3]
	}
	p.OptimalHours = hours
	p.Learned = true
	return p
}
