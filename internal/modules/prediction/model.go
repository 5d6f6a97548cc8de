package prediction

import (
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/vitality-backend/internal/config"
	"github.com/yungbote/vitality-backend/internal/domain/health"
	"github.com/yungbote/vitality-backend/internal/modules/factors"
	"github.com/yungbote/vitality-backend/internal/pkg/stats"
)

// Forecast is one unsaved prediction.
type Forecast struct {
	Type           health.PredictionType
	Horizon        health.Horizon
	TargetDate     time.Time
	Value          float64
	Low            float64
	High           float64
	Confidence     float64
	Factors        []health.FactorWeight
	CorrelationIDs []string
	Insights       []health.ActionableInsight
}

// Input is everything one user's prediction run needs.
type Input struct {
	Records      []*health.HealthRecord
	Correlations []*health.Correlation
	Now          time.Time
	Location     *time.Location
}

// Predict returns a 1-day and a 1-week forecast per prediction type. Fewer
// than cfg.MinRecords distinct local days of history, or a type with no
// extractable values, yields nothing for that scope.
func Predict(in Input, cfg config.PredictionConfig) []Forecast {
	loc := in.Location
	if loc == nil {
		loc = time.UTC
	}
	if HistoryDays(in.Records, loc) < cfg.MinRecords {
		return nil
	}
	now := in.Now.In(loc)
	samples := factors.Decode(in.Records)

	var out []Forecast
	for _, t := range health.PredictionTypes {
		series := Series(samples, t)
		if len(series) == 0 {
			continue
		}
		weights := Weights(in.Correlations, t)
		accuracy := BaseAccuracy(cfg, t)
		out = append(out,
			NextDay(t, ExtractFeatures(samples, t, 1), weights, accuracy, now),
			NextWeek(t, ExtractFeatures(samples, t, 7), series, weights, accuracy, now),
		)
	}
	return out
}

// HistoryDays counts the distinct calendar dates in loc that carry at least
// one record. A burst of entries on a single day counts once.
func HistoryDays(records []*health.HealthRecord, loc *time.Location) int {
	if loc == nil {
		loc = time.UTC
	}
	days := make(map[string]struct{}, len(records))
	for _, r := range records {
		if r == nil {
			continue
		}
		days[r.RecordedAt.In(loc).Format(time.DateOnly)] = struct{}{}
	}
	return len(days)
}

func BaseAccuracy(cfg config.PredictionConfig, t health.PredictionType) float64 {
	if v, ok := cfg.BaseAccuracy[string(t)]; ok && v > 0 {
		return v
	}
	return 0.65
}

// basePrediction extrapolates the recent average by trend and momentum,
// then nudges it toward the net sign of the correlation weights.
func basePrediction(f Features, weights []Weight) float64 {
	p := f.RecentAvg + f.RecentTrend*2 + f.Momentum*0.3
	if len(weights) > 0 {
		var sum, abs float64
		for _, w := range weights {
			sum += w.Weight
			abs += math.Abs(w.Weight)
		}
		if abs > 0 {
			p += (sum / abs) * f.RecentAvg * 0.2
		}
	}
	return p
}

func NextDay(t health.PredictionType, f Features, weights []Weight, accuracy float64, now time.Time) Forecast {
	value := stats.Clamp(basePrediction(f, weights), 1, 10)
	confidence := accuracy
	if f.Variance > 2 {
		confidence *= 0.8
	}
	if math.Abs(f.RecentTrend) < 0.1 {
		confidence *= 1.1
	}
	confidence = stats.Clamp(confidence, 0.3, 1)

	var insights []health.ActionableInsight
	if value < 5 {
		insights = append(insights, lowScoreInsight(t))
	}
	if f.RecentTrend < -0.2 {
		insights = append(insights, decliningInsight(t))
	}
	return newForecast(t, health.HorizonOneDay, now, value, 0.15, confidence, weights, insights)
}

// NextWeek adds a least-squares slope over the whole series and a weekday
// effect keyed on today's weekday.
func NextWeek(t health.PredictionType, f Features, series []Point, weights []Weight, accuracy float64, now time.Time) Forecast {
	values := make([]float64, len(series))
	for i, p := range series {
		values[i] = p.Value
	}
	trend := stats.LinearTrendSlope(values)
	value := stats.Clamp(basePrediction(f, weights)+trend*7+Seasonality(series, now), 1, 10)

	var insights []health.ActionableInsight
	switch {
	case trend > 0.1:
		insights = append(insights, maintainInsight(t))
	case trend < -0.1:
		insights = append(insights, decliningInsight(t))
	}
	return newForecast(t, health.HorizonOneWeek, now, value, 0.25, accuracy*0.85, weights, insights)
}

// Seasonality is the mean of values recorded on now's weekday minus the
// overall mean, or zero without such values.
func Seasonality(series []Point, now time.Time) float64 {
	if len(series) == 0 {
		return 0
	}
	all := make([]float64, 0, len(series))
	var same []float64
	for _, p := range series {
		all = append(all, p.Value)
		if p.At.In(now.Location()).Weekday() == now.Weekday() {
			same = append(same, p.Value)
		}
	}
	if len(same) == 0 {
		return 0
	}
	return stats.Mean(same) - stats.Mean(all)
}

func newForecast(t health.PredictionType, h health.Horizon, now time.Time, value, band, confidence float64, weights []Weight, insights []health.ActionableInsight) Forecast {
	y, m, d := now.Date()
	target := time.Date(y, m, d, 0, 0, 0, 0, now.Location()).AddDate(0, 0, h.Days())
	fw := make([]health.FactorWeight, 0, len(weights))
	ids := make([]string, 0, len(weights))
	for _, w := range weights {
		fw = append(fw, health.FactorWeight{Factor: w.Factor, Weight: w.Weight})
		ids = append(ids, w.CorrelationID)
	}
	if insights == nil {
		insights = []health.ActionableInsight{}
	}
	return Forecast{
		Type:           t,
		Horizon:        h,
		TargetDate:     target,
		Value:          value,
		Low:            value * (1 - band),
		High:           value * (1 + band),
		Confidence:     confidence,
		Factors:        fw,
		CorrelationIDs: ids,
		Insights:       insights,
	}
}

// Record converts a forecast into its persisted form.
func (f Forecast) Record(userID uuid.UUID) *health.PredictionRecord {
	return &health.PredictionRecord{
		UserID:         userID,
		Type:           f.Type,
		Horizon:        f.Horizon,
		TargetDate:     f.TargetDate.UTC(),
		PredictedValue: f.Value,
		RangeLow:       f.Low,
		RangeHigh:      f.High,
		Confidence:     f.Confidence,
		Factors:        datatypes.NewJSONType(f.Factors),
		CorrelationIDs: datatypes.NewJSONType(f.CorrelationIDs),
		Insights:       datatypes.NewJSONType(f.Insights),
	}
}
