package micromoment

import (
	"math/rand"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/vitality-backend/internal/config"
	"github.com/yungbote/vitality-backend/internal/domain/health"
)

// Input is one user's planning context.
type Input struct {
	State        State
	Pattern      Pattern
	Correlations []*health.Correlation
	Preferred    []health.TimeWindow
	FirstName    string
	Location     *time.Location
}

// Plan is one moment ready to persist.
type Plan struct {
	Type         health.MomentType
	ScheduledFor time.Time
	WindowStart  time.Time
	WindowEnd    time.Time
	Confidence   float64
	Window       Window
	Content      health.MomentContent
	Provenance   health.MomentProvenance
}

// Schedule plans at most one moment per merged window. rng supplies the
// minute within the chosen hour.
func Schedule(in Input, cfg config.SchedulingConfig, rng *rand.Rand) []Plan {
	loc := in.Location
	if loc == nil {
		loc = time.UTC
	}
	windows := MergeWindows(CandidateWindows(in.Pattern, in.Preferred, cfg))
	sel := Select(in.Correlations, in.State, cfg.ActivationThreshold)
	if !sel.OK {
		return nil
	}
	half := time.Duration(cfg.DeliveryWindowMinutes) * time.Minute
	out := make([]Plan, 0, len(windows))
	for _, w := range windows {
		at := ScheduleTime(w, in.State.Now, loc, rng)
		out = append(out, Plan{
			Type:         sel.Type,
			ScheduledFor: at,
			WindowStart:  at.Add(-half),
			WindowEnd:    at.Add(half),
			Confidence:   w.Confidence,
			Window:       w,
			Content:      Content(sel.Type, in.FirstName),
			Provenance: health.MomentProvenance{
				CorrelationIDs: sel.CorrelationIDs,
				ContextFactors: ContextFactors(in.State),
			},
		})
	}
	return out
}

// ScheduleTime picks the midpoint hour of w on now's local date at a random
// minute, moving to the next day when that instant is not after now.
func ScheduleTime(w Window, now time.Time, loc *time.Location, rng *rand.Rand) time.Time {
	local := now.In(loc)
	hour := (w.Start + w.End) / 2
	minute := 0
	if rng != nil {
		minute = rng.Intn(60)
	}
	y, m, d := local.Date()
	at := time.Date(y, m, d, hour, minute, 0, 0, loc)
	if !at.After(now) {
		at = at.AddDate(0, 0, 1)
	}
	return at
}

// ContextFactors lists the situational tags recorded with a moment.
func ContextFactors(st State) []string {
	var out []string
	if st.Weather != nil && st.Weather.Condition != "" {
		out = append(out, "weather:"+st.Weather.Condition)
	}
	if st.Workday {
		out = append(out, "workday")
	}
	if st.TimeOfDay != "" {
		out = append(out, string(st.TimeOfDay))
	}
	return out
}

// Moment converts a plan into a scheduled moment for userID.
func (p Plan) Moment(userID uuid.UUID) *health.MicroMoment {
	return &health.MicroMoment{
		UserID:       userID,
		Type:         p.Type,
		ScheduledFor: p.ScheduledFor.UTC(),
		WindowStart:  p.WindowStart.UTC(),
		WindowEnd:    p.WindowEnd.UTC(),
		Confidence:   p.Confidence,
		Status:       health.MomentScheduled,
		Content:      datatypes.NewJSONType(p.Content),
		Provenance:   datatypes.NewJSONType(p.Provenance),
	}
}
