package micromoment

import (
	"math/rand"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/vitality-backend/internal/config"
	"github.com/yungbote/vitality-backend/internal/domain/health"
)

func schedCfg() config.SchedulingConfig { return config.DefaultAnalysis().Scheduling }

func stateWith(payload string, now time.Time) State {
	rec := &health.HealthRecord{RecordedAt: now.Add(-time.Hour), Data: datatypes.JSON([]byte(payload))}
	return CurrentState([]*health.HealthRecord{rec}, now, time.UTC, nil, schedCfg())
}

func TestMergeWindows_OverlapsCollapse(t *testing.T) {
	got := MergeWindows([]Window{
		{Start: 10, End: 12, Confidence: 0.8},
		{Start: 9, End: 11, Confidence: 0.5},
		{Start: 15, End: 16, Confidence: 0.6},
	})
	want := []Window{
		{Start: 9, End: 12, Confidence: 0.8},
		{Start: 15, End: 16, Confidence: 0.6},
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 windows, got %+v", got)
	}
	for i := range want {
		if got[i].Start != want[i].Start || got[i].End != want[i].End || got[i].Confidence != want[i].Confidence {
			t.Fatalf("window %d: got %+v want %+v", i, got[i], want[i])
		}
	}
	if MergeWindows(nil) != nil {
		t.Fatalf("empty input should merge to nil")
	}
}

func TestMergeWindows_TouchingAndNested(t *testing.T) {
	got := MergeWindows([]Window{{Start: 8, End: 10}, {Start: 10, End: 11}, {Start: 8, End: 9}, {Start: 13, End: 14}})
	if len(got) != 2 || got[0].Start != 8 || got[0].End != 11 || got[1].Start != 13 {
		t.Fatalf("unexpected merge %+v", got)
	}
}

func TestCandidateWindows_PadsAndClamps(t *testing.T) {
	p := Pattern{OptimalHours: []int{0, 14, 23}, ResponseRate: 0.5}
	got := CandidateWindows(p, []health.TimeWindow{{Start: 7, End: 8}, {Start: 20, End: 18}}, schedCfg())
	if len(got) != 4 {
		t.Fatalf("expected 4 windows, got %+v", got)
	}
	if got[0].Start != 0 || got[0].End != 1 || got[2].End != 24 {
		t.Fatalf("clamping failed: %+v", got)
	}
	if got[3].Kind != WindowPreference || got[3].Confidence != 0.8 {
		t.Fatalf("preference window: %+v", got[3])
	}
	if got[1].Kind != WindowLearned || got[1].Confidence != 0.5 {
		t.Fatalf("learned window: %+v", got[1])
	}
}

func TestAnalyzePatterns(t *testing.T) {
	cfg := schedCfg()
	def := AnalyzePatterns(nil, time.UTC, cfg)
	if def.ResponseRate != 0.6 || !reflect.DeepEqual(def.OptimalHours, []int{9, 14, 19}) || def.Learned {
		t.Fatalf("defaults: %+v", def)
	}

	at := func(h int) *time.Time {
		v := time.Date(2026, 3, 1, h, 10, 0, 0, time.UTC)
		return &v
	}
	moments := []*health.MicroMoment{
		{Status: health.MomentCompleted, DeliveredAt: at(7), Acknowledged: true, AcknowledgedAt: at(7)},
		{Status: health.MomentAcknowledged, DeliveredAt: at(7), Acknowledged: true, AcknowledgedAt: at(7)},
		{Status: health.MomentAcknowledged, DeliveredAt: at(12), Acknowledged: true, AcknowledgedAt: at(12)},
		{Status: health.MomentAcknowledged, DeliveredAt: at(18), Acknowledged: true, AcknowledgedAt: at(18)},
		{Status: health.MomentAcknowledged, DeliveredAt: at(21), Acknowledged: true, ScheduledFor: *at(21)},
		{Status: health.MomentIgnored, DeliveredAt: at(10)},
		{Status: health.MomentDelivered, DeliveredAt: at(10)},
		{Status: health.MomentDelivered, DeliveredAt: at(10)},
		{Status: health.MomentScheduled},
	}
	got := AnalyzePatterns(moments, time.UTC, cfg)
	if !reflect.DeepEqual(got.OptimalHours, []int{7, 12, 18}) {
		t.Fatalf("optimal hours: %v", got.OptimalHours)
	}
	if got.ResponseRate != 5.0/8.0 || !got.Learned {
		t.Fatalf("response rate: %v", got.ResponseRate)
	}
}

func TestCurrentState_LatestSectionWithinDay(t *testing.T) {
	now := time.Date(2026, 3, 4, 15, 0, 0, 0, time.UTC)
	recs := []*health.HealthRecord{
		{RecordedAt: now.Add(-30 * time.Hour), Data: datatypes.JSON([]byte(`{"nutrition":{"water":3}}`))},
		{RecordedAt: now.Add(-5 * time.Hour), Data: datatypes.JSON([]byte(`{"mood":{"overall":4}}`))},
		{RecordedAt: now.Add(-1 * time.Hour), Data: datatypes.JSON([]byte(`{"mood":{"overall":7},"activity":{"steps":1200}}`))},
	}
	st := CurrentState(recs, now, time.UTC, &Weather{Condition: "rain"}, schedCfg())
	if st.Metrics.Nutrition != nil {
		t.Fatalf("stale section must be ignored")
	}
	if v, _ := st.Metrics.Mood.Overall.Get(); v != 7 {
		t.Fatalf("expected newest mood, got %v", v)
	}
	if st.TimeOfDay != Afternoon || !st.Workday {
		t.Fatalf("context: %+v", st)
	}
	if got := ContextFactors(st); !reflect.DeepEqual(got, []string{"weather:rain", "workday", "afternoon"}) {
		t.Fatalf("context factors: %v", got)
	}
}

func TestTimeOfDayBuckets(t *testing.T) {
	cases := map[int]TimeOfDay{0: EarlyMorning, 5: EarlyMorning, 6: Morning, 11: Morning, 12: Afternoon, 16: Afternoon, 17: Evening, 20: Evening, 21: Night, 23: Night}
	for h, want := range cases {
		if got := TimeOfDayAt(time.Date(2026, 1, 1, h, 0, 0, 0, time.UTC)); got != want {
			t.Fatalf("hour %d: got %s want %s", h, got, want)
		}
	}
}

func TestSelect_ActivationThreshold(t *testing.T) {
	now := time.Date(2026, 3, 4, 8, 0, 0, 0, time.UTC)
	low := stateWith(`{"mood":{"overall":4},"activity":{"steps":1000}}`, now)
	weak := []*health.Correlation{{ID: uuid.New(), PrimaryFactor: "nutrition.water", SecondaryFactor: "mood.energy", Strength: 0.3}}
	if sel := Select(weak, low, 0.3); sel.OK {
		t.Fatalf("score equal to threshold must not select, got %+v", sel)
	}
	if sel := Select(nil, low, 0.3); sel.OK {
		t.Fatalf("no correlations must not select")
	}

	c := []*health.Correlation{
		{ID: uuid.New(), PrimaryFactor: "mood.overall", SecondaryFactor: "sleep.quality", Strength: 0.7},
		{ID: uuid.New(), PrimaryFactor: "activity.steps", SecondaryFactor: "mood.overall", Strength: 0.65},
	}
	sel := Select(c, low, 0.3)
	// movement-break: 0.7*0.8 + 0.65 beats breathing-exercise: 0.7
	if !sel.OK || sel.Type != health.MomentMovementBreak {
		t.Fatalf("selection: %+v", sel)
	}
	if len(sel.CorrelationIDs) != 2 {
		t.Fatalf("both correlations contributed: %v", sel.CorrelationIDs)
	}

	good := stateWith(`{"mood":{"overall":8},"activity":{"steps":9000}}`, now)
	if sel := Select(c, good, 0.3); sel.OK {
		t.Fatalf("rules must not fire when state is fine: %+v", sel)
	}
	absent := stateWith(`{}`, now)
	if sel := Select(c, absent, 0.3); sel.OK {
		t.Fatalf("rules must not fire on absent state: %+v", sel)
	}
}

func TestSchedule_DeterministicWithSeed(t *testing.T) {
	now := time.Date(2026, 3, 4, 8, 0, 0, 0, time.UTC)
	in := Input{
		State:   stateWith(`{"mood":{"overall":4}}`, now),
		Pattern: Pattern{OptimalHours: []int{9, 14, 19}, ResponseRate: 0.6},
		Correlations: []*health.Correlation{
			{ID: uuid.New(), PrimaryFactor: "mood.overall", SecondaryFactor: "sleep.quality", Strength: 0.9},
		},
		Preferred: []health.TimeWindow{{Start: 10, End: 12}},
		FirstName: "",
		Location:  time.UTC,
	}
	a := Schedule(in, schedCfg(), rand.New(rand.NewSource(3)))
	b := Schedule(in, schedCfg(), rand.New(rand.NewSource(3)))
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("same seed must give the same plan")
	}
	// windows 8-10 and 10-12 merge into 8-12, plus 13-15 and 18-20
	if len(a) != 3 {
		t.Fatalf("expected 3 plans, got %d", len(a))
	}
	wantHours := []int{10, 14, 19}
	for i, p := range a {
		if p.ScheduledFor.Hour() != wantHours[i] {
			t.Fatalf("plan %d hour: %d", i, p.ScheduledFor.Hour())
		}
		if p.Type != health.MomentBreathingExercise {
			t.Fatalf("type: %s", p.Type)
		}
		if p.WindowEnd.Sub(p.WindowStart) != 30*time.Minute {
			t.Fatalf("delivery window: %v", p.WindowEnd.Sub(p.WindowStart))
		}
		if !p.ScheduledFor.After(now) {
			t.Fatalf("scheduled in the past: %v", p.ScheduledFor)
		}
	}
	if a[0].Confidence != 0.8 || a[1].Confidence != 0.6 {
		t.Fatalf("confidences: %v %v", a[0].Confidence, a[1].Confidence)
	}
	if a[0].Content.Message == "" || a[0].Provenance.CorrelationIDs[0] != in.Correlations[0].ID.String() {
		t.Fatalf("content/provenance: %+v", a[0])
	}
	m := a[0].Moment(uuid.New())
	if m.Status != health.MomentScheduled || m.Content.Data().Title != "Take a breath" {
		t.Fatalf("moment: %+v", m)
	}
}

func TestScheduleTime_RollsForward(t *testing.T) {
	now := time.Date(2026, 3, 4, 16, 0, 0, 0, time.UTC)
	at := ScheduleTime(Window{Start: 8, End: 10}, now, time.UTC, rand.New(rand.NewSource(1)))
	if at.Day() != 5 || at.Hour() != 9 {
		t.Fatalf("expected tomorrow at 9, got %v", at)
	}
	later := ScheduleTime(Window{Start: 18, End: 20}, now, time.UTC, nil)
	if later.Day() != 4 || later.Hour() != 19 || later.Minute() != 0 {
		t.Fatalf("expected today 19:00, got %v", later)
	}
}

func TestContent_NameFallback(t *testing.T) {
	for _, mt := range health.MomentTypes {
		c := Content(mt, "")
		if c.Title == "" || c.Action == "" || c.DurationMinutes <= 0 {
			t.Fatalf("incomplete content for %s: %+v", mt, c)
		}
	}
	if got := Content(health.MomentHydrationReminder, "Ada").Message; got[:7] != "Hey Ada" {
		t.Fatalf("personalized message: %q", got)
	}
	if got := Content(health.MomentHydrationReminder, "").Message; got[:9] != "Hey there" {
		t.Fatalf("fallback message: %q", got)
	}
}
