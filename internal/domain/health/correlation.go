package health

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Significance string

const (
	SignificanceWeak       Significance = "weak"
	SignificanceModerate   Significance = "moderate"
	SignificanceStrong     Significance = "strong"
	SignificanceVeryStrong Significance = "very-strong"
)

// Rank orders significance levels; unknown values rank below weak.
func (s Significance) Rank() int {
	switch s {
	case SignificanceWeak:
		return 1
	case SignificanceModerate:
		return 2
	case SignificanceStrong:
		return 3
	case SignificanceVeryStrong:
		return 4
	}
	return 0
}

type Direction string

const (
	DirectionPositive Direction = "positive"
	DirectionNegative Direction = "negative"
)

type ValidationStatus string

const (
	ValidationPending   ValidationStatus = "pending"
	ValidationConfirmed ValidationStatus = "confirmed"
	ValidationRejected  ValidationStatus = "rejected"
)

func (v ValidationStatus) Valid() bool {
	return v == ValidationPending || v == ValidationConfirmed || v == ValidationRejected
}

// Correlation is identified by (UserID, PrimaryFactor, SecondaryFactor);
// recomputation overwrites the statistics in place.
type Correlation struct {
	ID               uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	UserID           uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_correlation_identity,priority:1" json:"user_id"`
	PrimaryFactor    string           `gorm:"column:primary_factor;not null;uniqueIndex:idx_correlation_identity,priority:2" json:"primary_factor"`
	SecondaryFactor  string           `gorm:"column:secondary_factor;not null;uniqueIndex:idx_correlation_identity,priority:3" json:"secondary_factor"`
	Strength         float64          `gorm:"column:strength;not null" json:"strength"`
	Confidence       float64          `gorm:"column:confidence;not null" json:"confidence"`
	Significance     Significance     `gorm:"column:significance;not null;index" json:"significance"`
	Direction        Direction        `gorm:"column:direction;not null" json:"direction"`
	DataPointCount   int              `gorm:"column:data_point_count;not null" json:"data_point_count"`
	ValidationStatus ValidationStatus `gorm:"column:validation_status;not null;default:'pending';index" json:"validation_status"`
	ComputedAt       time.Time        `gorm:"column:computed_at;not null" json:"computed_at"`
	CreatedAt        time.Time        `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time        `gorm:"not null" json:"updated_at"`
}

func (Correlation) TableName() string { return "correlation" }

func (c *Correlation) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.ValidationStatus == "" {
		c.ValidationStatus = ValidationPending
	}
	return nil
}

// CorrelationFilter narrows fetchCorrelations; zero values mean "any".
type CorrelationFilter struct {
	Significance     []Significance
	ValidationStatus ValidationStatus
	Limit            int
}
