package health

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Category string

const (
	CategorySleep        Category = "sleep"
	CategoryActivity     Category = "activity"
	CategoryMood         Category = "mood"
	CategoryNutrition    Category = "nutrition"
	CategoryBiometric    Category = "biometric"
	CategoryDailySummary Category = "daily-summary"
)

func (c Category) Valid() bool {
	switch c {
	case CategorySleep, CategoryActivity, CategoryMood, CategoryNutrition, CategoryBiometric, CategoryDailySummary:
		return true
	}
	return false
}

const (
	SourceManual      = "manual"
	SourceFitbit      = "fitbit"
	SourceGoogleFit   = "google-fit"
	SourceAppleHealth = "apple-health"
)

// HealthRecord is one immutable capture for a user. Corrections are new rows.
type HealthRecord struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID      `gorm:"type:uuid;not null;index:idx_health_record_user_time,priority:1" json:"user_id"`
	Category   Category       `gorm:"column:category;not null;index" json:"category"`
	Source     string         `gorm:"column:source;not null;default:'manual'" json:"source"`
	RecordedAt time.Time      `gorm:"column:recorded_at;not null;index:idx_health_record_user_time,priority:2" json:"timestamp"`
	Data       datatypes.JSON `gorm:"type:jsonb;column:data" json:"data"`
	CreatedAt  time.Time      `gorm:"not null" json:"created_at"`
}

func (HealthRecord) TableName() string { return "health_record" }

func (r *HealthRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// Metrics decodes the payload leniently. A section that is not a JSON object
// is dropped; inside a section a wrong-typed field reads as absent and never
// takes its siblings with it.
func (r *HealthRecord) Metrics() Metrics {
	var out Metrics
	if r == nil || len(r.Data) == 0 {
		return out
	}
	var sections map[string]json.RawMessage
	if err := json.Unmarshal(r.Data, &sections); err != nil {
		return out
	}
	decode := func(key string, dst any) bool {
		raw, ok := sections[key]
		if !ok {
			return false
		}
		raw = bytes.TrimSpace(raw)
		if len(raw) == 0 || raw[0] != '{' {
			return false
		}
		return json.Unmarshal(raw, dst) == nil
	}
	var (
		sleep     SleepMetrics
		activity  ActivityMetrics
		mood      MoodMetrics
		nutrition NutritionMetrics
		biometric BiometricMetrics
	)
	if decode("sleep", &sleep) {
		out.Sleep = &sleep
	}
	if decode("activity", &activity) {
		out.Activity = &activity
	}
	if decode("mood", &mood) {
		out.Mood = &mood
	}
	if decode("nutrition", &nutrition) {
		out.Nutrition = &nutrition
	}
	if decode("biometric", &biometric) {
		out.Biometric = &biometric
	}
	return out
}

// Metrics is the decoded payload: every section is optional.
type Metrics struct {
	Sleep     *SleepMetrics     `json:"sleep,omitempty"`
	Activity  *ActivityMetrics  `json:"activity,omitempty"`
	Mood      *MoodMetrics      `json:"mood,omitempty"`
	Nutrition *NutritionMetrics `json:"nutrition,omitempty"`
	Biometric *BiometricMetrics `json:"biometric,omitempty"`
}

type SleepMetrics struct {
	Duration   Measure `json:"duration"`
	Quality    Measure `json:"quality"`
	Efficiency Measure `json:"efficiency"`
	Bedtime    Text    `json:"bedtime,omitempty"`
	WakeTime   Text    `json:"wakeTime,omitempty"`
}

type ActivityMetrics struct {
	Steps          Measure `json:"steps"`
	ActiveMinutes  Measure `json:"activeMinutes"`
	CaloriesBurned Measure `json:"caloriesBurned"`
	WorkoutType    Text    `json:"workoutType,omitempty"`
}

type MoodMetrics struct {
	Overall Measure `json:"overall"`
	Energy  Measure `json:"energy"`
	Stress  Measure `json:"stress"`
	Focus   Measure `json:"focus"`
	Notes   Text    `json:"notes,omitempty"`
}

type NutritionMetrics struct {
	Calories Measure `json:"calories"`
	Water    Measure `json:"water"`
	Protein  Measure `json:"protein"`
}

type BiometricMetrics struct {
	HeartRate Measure `json:"heartRate"`
	HRV       Measure `json:"hrv"`
	Weight    Measure `json:"weight"`
}
