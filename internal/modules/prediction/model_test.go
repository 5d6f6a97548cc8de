package prediction

import (
	"fmt"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/vitality-backend/internal/config"
	"github.com/yungbote/vitality-backend/internal/domain/health"
	"github.com/yungbote/vitality-backend/internal/modules/factors"
	"github.com/yungbote/vitality-backend/internal/pkg/stats"
)

var testNow = time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC) // a Wednesday

func records(payloads ...string) []*health.HealthRecord {
	out := make([]*health.HealthRecord, 0, len(payloads))
	start := testNow.AddDate(0, 0, -len(payloads))
	for i, p := range payloads {
		out = append(out, &health.HealthRecord{
			ID:         uuid.New(),
			RecordedAt: start.AddDate(0, 0, i),
			Data:       datatypes.JSON([]byte(p)),
		})
	}
	return out
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestExtractFeatures_LastWindowOnly(t *testing.T) {
	samples := factors.Decode(records(
		`{"mood":{"energy":1}}`,
		`{"mood":{"energy":4}}`,
		`{"mood":{"energy":"tired"}}`,
		`{"mood":{"energy":5}}`,
		`{"mood":{"energy":6}}`,
	))
	f := ExtractFeatures(samples, health.PredictionEnergy, 1)
	// window is the last 3 records; the malformed one is dropped
	if f.Count != 2 || !approx(f.RecentAvg, 5.5) {
		t.Fatalf("features: %+v", f)
	}
	if !approx(f.RecentTrend, 0.5) || !approx(f.Momentum, 0.5) || !approx(f.Variance, 0.25) {
		t.Fatalf("features: %+v", f)
	}
	empty := ExtractFeatures(samples, health.PredictionSleepQuality, 1)
	if empty != (Features{}) {
		t.Fatalf("expected zero features, got %+v", empty)
	}
}

func TestWeights_TargetFactorLookup(t *testing.T) {
	c := []*health.Correlation{
		{ID: uuid.New(), PrimaryFactor: "sleep.duration", SecondaryFactor: "mood.energy", Strength: 0.9, Confidence: 0.8},
		{ID: uuid.New(), PrimaryFactor: "mood.energy", SecondaryFactor: "nutrition.water", Strength: -0.7, Confidence: 0.5},
		{ID: uuid.New(), PrimaryFactor: "mood.overall", SecondaryFactor: "mood.stress", Strength: -0.8, Confidence: 0.9},
	}
	w := Weights(c, health.PredictionEnergy)
	if len(w) != 2 {
		t.Fatalf("expected 2 weights, got %+v", w)
	}
	if w[0].Factor != "sleep.duration" || !approx(w[0].Weight, 0.72) {
		t.Fatalf("first weight: %+v", w[0])
	}
	if w[1].Factor != "nutrition.water" || !approx(w[1].Weight, -0.35) {
		t.Fatalf("second weight: %+v", w[1])
	}
	if got := Weights(c, health.PredictionHealthScore); len(got) != 0 {
		t.Fatalf("health score never matches a catalog factor, got %+v", got)
	}
}

func TestNextDay_Formula(t *testing.T) {
	f := Features{RecentAvg: 6, Count: 3}
	got := NextDay(health.PredictionEnergy, f, nil, 0.75, testNow)
	if !approx(got.Value, 6) || !approx(got.Low, 5.1) || !approx(got.High, 6.9) {
		t.Fatalf("forecast: %+v", got)
	}
	if !approx(got.Confidence, 0.825) {
		t.Fatalf("flat trend bonus: %v", got.Confidence)
	}
	if len(got.Insights) != 0 {
		t.Fatalf("no insights expected: %+v", got.Insights)
	}
	want := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)
	if !got.TargetDate.Equal(want) {
		t.Fatalf("target date: %v", got.TargetDate)
	}

	w := []Weight{{Factor: "sleep.duration", Weight: 0.5}, {Factor: "nutrition.water", Weight: -0.25}}
	weighted := NextDay(health.PredictionEnergy, f, w, 0.75, testNow)
	// 6 + (0.25/0.75)*6*0.2
	if !approx(weighted.Value, 6.4) {
		t.Fatalf("weighted value: %v", weighted.Value)
	}
	if len(weighted.Factors) != 2 || len(weighted.CorrelationIDs) != 2 {
		t.Fatalf("weights must carry through: %+v", weighted)
	}
}

func TestNextDay_InsightsAndConfidencePenalty(t *testing.T) {
	f := Features{RecentAvg: 3, RecentTrend: -0.5, Variance: 3, Momentum: -1, Count: 3}
	got := NextDay(health.PredictionMood, f, nil, 0.7, testNow)
	if len(got.Insights) != 2 {
		t.Fatalf("expected low-score and declining insights, got %+v", got.Insights)
	}
	if got.Insights[0].Impact != 0.7 || got.Insights[1].Impact != 0.6 {
		t.Fatalf("insight impacts: %+v", got.Insights)
	}
	if !approx(got.Confidence, 0.56) {
		t.Fatalf("variance penalty: %v", got.Confidence)
	}
}

func TestNextWeek_TrendSeasonalityAndInsights(t *testing.T) {
	series := func(first, step float64) []Point {
		out := make([]Point, 0, 8)
		for i := 0; i < 8; i++ {
			out = append(out, Point{At: testNow.AddDate(0, 0, i-8), Value: first + step*float64(i)})
		}
		return out
	}
	cases := []struct {
		name       string
		series     []Point
		wantValue  float64
		wantImpact float64 // zero when no insight is expected
	}{
		// slope 0.2, the Wednesday point sits 0.5 under the mean
		{name: "rising", series: series(5, 0.2), wantValue: 6 + 0.2*7 - 0.5, wantImpact: 0.5},
		{name: "falling", series: series(7, -0.2), wantValue: 6 - 0.2*7 + 0.5, wantImpact: 0.6},
		{name: "flat", series: series(6, 0), wantValue: 6},
		{name: "gentle rise", series: series(6, 0.05), wantValue: 6 + 0.05*7 - 0.125},
	}
	f := Features{RecentAvg: 6, Count: 8}
	const accuracy = 0.7
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			values := make([]float64, len(tc.series))
			for i, p := range tc.series {
				values[i] = p.Value
			}
			trend := stats.LinearTrendSlope(values)
			want := 6 + trend*7 + Seasonality(tc.series, testNow)
			if !approx(want, tc.wantValue) {
				t.Fatalf("expected value: want=%v got=%v", tc.wantValue, want)
			}

			got := NextWeek(health.PredictionEnergy, f, tc.series, nil, accuracy, testNow)
			if !approx(got.Value, want) {
				t.Fatalf("value: want=%v got=%v", want, got.Value)
			}
			if !approx(got.Low, want*0.75) || !approx(got.High, want*1.25) {
				t.Fatalf("range: want=[%v,%v] got=[%v,%v]", want*0.75, want*1.25, got.Low, got.High)
			}
			if !approx(got.Confidence, accuracy*0.85) {
				t.Fatalf("confidence: want=%v got=%v", accuracy*0.85, got.Confidence)
			}
			if got.Horizon != health.HorizonOneWeek {
				t.Fatalf("horizon: %s", got.Horizon)
			}
			if target := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC); !got.TargetDate.Equal(target) {
				t.Fatalf("target date: want=%v got=%v", target, got.TargetDate)
			}
			switch {
			case tc.wantImpact == 0 && len(got.Insights) != 0:
				t.Fatalf("no insight expected, got %+v", got.Insights)
			case tc.wantImpact != 0 && (len(got.Insights) != 1 || got.Insights[0].Impact != tc.wantImpact):
				t.Fatalf("insights: want impact=%v got=%+v", tc.wantImpact, got.Insights)
			}
		})
	}
}

func TestHistoryDays_CountsLocalDates(t *testing.T) {
	base := time.Date(2026, 3, 3, 23, 30, 0, 0, time.UTC)
	recs := []*health.HealthRecord{
		{RecordedAt: base},
		{RecordedAt: base.Add(time.Hour)}, // next UTC day
		{RecordedAt: base.Add(2 * time.Hour)},
		nil,
	}
	if got := HistoryDays(recs, time.UTC); got != 2 {
		t.Fatalf("utc days: want=2 got=%d", got)
	}
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	if got := HistoryDays(recs, ny); got != 1 {
		t.Fatalf("new york days: want=1 got=%d", got)
	}
}

func TestPredict_SameDayBurstIsNotHistory(t *testing.T) {
	cfg := config.DefaultAnalysis().Prediction
	recs := make([]*health.HealthRecord, 0, 10)
	for i := 0; i < 10; i++ {
		recs = append(recs, &health.HealthRecord{
			ID:         uuid.New(),
			RecordedAt: testNow.Add(-time.Duration(i+1) * time.Minute),
			Data:       datatypes.JSON([]byte(`{"mood":{"energy":6}}`)),
		})
	}
	if got := Predict(Input{Records: recs, Now: testNow}, cfg); len(got) != 0 {
		t.Fatalf("ten entries on one day: want no forecasts, got %d", len(got))
	}
}

func TestSeasonality_UsesTodaysWeekday(t *testing.T) {
	wed := time.Date(2026, 2, 25, 9, 0, 0, 0, time.UTC)
	series := []Point{
		{At: wed, Value: 8},
		{At: wed.AddDate(0, 0, 1), Value: 4},
		{At: wed.AddDate(0, 0, 7), Value: 8},
		{At: wed.AddDate(0, 0, 8), Value: 4},
	}
	if got := Seasonality(series, testNow); !approx(got, 2) {
		t.Fatalf("seasonality: %v", got)
	}
	if got := Seasonality(series, testNow.AddDate(0, 0, 2)); got != 0 {
		t.Fatalf("no friday values means zero, got %v", got)
	}
}

func TestPredict_RequiresMinimumHistory(t *testing.T) {
	cfg := config.DefaultAnalysis().Prediction
	in := Input{Records: records(`{"mood":{"energy":5}}`, `{"mood":{"energy":6}}`), Now: testNow}
	if got := Predict(in, cfg); len(got) != 0 {
		t.Fatalf("expected no forecasts, got %d", len(got))
	}
}

func TestPredict_SkipsTypesWithoutValues(t *testing.T) {
	cfg := config.DefaultAnalysis().Prediction
	payloads := make([]string, 8)
	for i := range payloads {
		payloads[i] = fmt.Sprintf(`{"mood":{"overall":%d}}`, 4+i%3)
	}
	got := Predict(Input{Records: records(payloads...), Now: testNow}, cfg)
	// mood plus the two composites, two horizons each
	if len(got) != 6 {
		t.Fatalf("expected 6 forecasts, got %d", len(got))
	}
	for _, f := range got {
		if f.Type == health.PredictionEnergy || f.Type == health.PredictionSleepQuality {
			t.Fatalf("unexpected forecast for %s", f.Type)
		}
	}
}

func TestPredict_ClampsValuesAndConfidence(t *testing.T) {
	cfg := config.DefaultAnalysis().Prediction
	rng := rand.New(rand.NewSource(42))
	for run := 0; run < 25; run++ {
		n := 7 + rng.Intn(30)
		payloads := make([]string, n)
		for i := range payloads {
			payloads[i] = fmt.Sprintf(
				`{"mood":{"energy":%g,"overall":%g,"focus":%g},"sleep":{"quality":%g},"activity":{"steps":%g,"activeMinutes":%g},"nutrition":{"calories":%g}}`,
				rng.Float64()*40-10, rng.Float64()*40-10, rng.Float64()*20, rng.Float64()*30-5,
				rng.Float64()*30000, rng.Float64()*200, rng.Float64()*6000,
			)
		}
		corrs := []*health.Correlation{
			{ID: uuid.New(), PrimaryFactor: "sleep.quality", SecondaryFactor: "mood.energy", Strength: rng.Float64()*2 - 1, Confidence: rng.Float64()},
		}
		for _, f := range Predict(Input{Records: records(payloads...), Correlations: corrs, Now: testNow}, cfg) {
			if f.Value < 1 || f.Value > 10 {
				t.Fatalf("value out of range: %+v", f)
			}
			switch f.Horizon {
			case health.HorizonOneDay:
				if f.Confidence < 0.3 || f.Confidence > 1 {
					t.Fatalf("1-day confidence out of range: %v", f.Confidence)
				}
			case health.HorizonOneWeek:
				limit := BaseAccuracy(cfg, f.Type) * 0.85
				if f.Confidence < 0 || f.Confidence > limit+1e-12 {
					t.Fatalf("1-week confidence out of range: %v > %v", f.Confidence, limit)
				}
			}
		}
	}
}

func TestForecastRecord(t *testing.T) {
	uid := uuid.New()
	f := NextDay(health.PredictionEnergy, Features{RecentAvg: 2}, []Weight{{Factor: "sleep.duration", Weight: 0.4, CorrelationID: "c1"}}, 0.75, testNow)
	rec := f.Record(uid)
	if rec.UserID != uid || rec.Type != health.PredictionEnergy || rec.Horizon != health.HorizonOneDay {
		t.Fatalf("record: %+v", rec)
	}
	if ids := rec.CorrelationIDs.Data(); len(ids) != 1 || ids[0] != "c1" {
		t.Fatalf("correlation ids: %v", ids)
	}
	if len(rec.Insights.Data()) != 1 {
		t.Fatalf("low score insight expected")
	}
}
