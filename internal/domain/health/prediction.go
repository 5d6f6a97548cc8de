package health

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PredictionType string

const (
	PredictionEnergy       PredictionType = "energy"
	PredictionMood         PredictionType = "mood"
	PredictionSleepQuality PredictionType = "sleep-quality"
	PredictionProductivity PredictionType = "productivity"
	PredictionHealthScore  PredictionType = "health-score"
)

// PredictionTypes lists every forecast type in run order.
var PredictionTypes = []PredictionType{
	PredictionEnergy,
	PredictionMood,
	PredictionSleepQuality,
	PredictionProductivity,
	PredictionHealthScore,
}

type Horizon string

const (
	HorizonOneDay  Horizon = "1-day"
	HorizonOneWeek Horizon = "1-week"
)

func (h Horizon) Days() int {
	if h == HorizonOneWeek {
		return 7
	}
	return 1
}

type FactorWeight struct {
	Factor string  `json:"factor"`
	Weight float64 `json:"weight"`
}

type ActionableInsight struct {
	Category   string  `json:"category"`
	Text       string  `json:"text"`
	Impact     float64 `json:"impact"`
	Confidence float64 `json:"confidence"`
}

// PredictionValidation is attached later by accuracy tracking.
type PredictionValidation struct {
	ActualValue float64   `json:"actual_value"`
	Error       float64   `json:"error"`
	ValidatedAt time.Time `json:"validated_at"`
}

// PredictionRecord is append-only: every analysis run inserts fresh rows.
type PredictionRecord struct {
	ID             uuid.UUID                                 `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID                                 `gorm:"type:uuid;not null;index:idx_prediction_user_created,priority:1" json:"user_id"`
	Type           PredictionType                            `gorm:"column:type;not null;index" json:"type"`
	Horizon        Horizon                                   `gorm:"column:horizon;not null" json:"horizon"`
	TargetDate     time.Time                                 `gorm:"column:target_date;not null" json:"target_date"`
	PredictedValue float64                                   `gorm:"column:predicted_value;not null" json:"predicted_value"`
	RangeLow       float64                                   `gorm:"column:range_low;not null" json:"range_low"`
	RangeHigh      float64                                   `gorm:"column:range_high;not null" json:"range_high"`
	Confidence     float64                                   `gorm:"column:confidence;not null" json:"confidence"`
	Factors        datatypes.JSONType[[]FactorWeight]        `gorm:"column:factors" json:"factors"`
	CorrelationIDs datatypes.JSONType[[]string]              `gorm:"column:correlation_ids" json:"correlation_ids"`
	Insights       datatypes.JSONType[[]ActionableInsight]   `gorm:"column:insights" json:"insights"`
	Validation     *datatypes.JSONType[PredictionValidation] `gorm:"column:validation" json:"validation,omitempty"`
	CreatedAt      time.Time                                 `gorm:"not null;index:idx_prediction_user_created,priority:2" json:"created_at"`
}

func (PredictionRecord) TableName() string { return "prediction_record" }

func (p *PredictionRecord) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
