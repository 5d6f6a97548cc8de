package health

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type MomentType string

const (
	MomentHydrationReminder MomentType = "hydration-reminder"
	MomentMovementBreak     MomentType = "movement-break"
	MomentBreathingExercise MomentType = "breathing-exercise"
	MomentMoodCheck         MomentType = "mood-check"
	MomentEnergyBoost       MomentType = "energy-boost"
)

// MomentTypes lists the candidates in evaluation order; ties keep the earlier one.
var MomentTypes = []MomentType{
	MomentHydrationReminder,
	MomentMovementBreak,
	MomentBreathingExercise,
	MomentMoodCheck,
	MomentEnergyBoost,
}

type MomentStatus string

const (
	MomentScheduled    MomentStatus = "scheduled"
	MomentDelivered    MomentStatus = "delivered"
	MomentAcknowledged MomentStatus = "acknowledged"
	MomentIgnored      MomentStatus = "ignored"
	MomentCompleted    MomentStatus = "completed"
	MomentDismissed    MomentStatus = "dismissed"
)

var momentTransitions = map[MomentStatus][]MomentStatus{
	MomentScheduled:    {MomentDelivered},
	MomentDelivered:    {MomentAcknowledged, MomentIgnored},
	MomentAcknowledged: {MomentCompleted, MomentDismissed},
	MomentIgnored:      {MomentCompleted, MomentDismissed},
}

// CanTransition reports whether a moment may move from one status to another.
func CanTransition(from, to MomentStatus) bool {
	for _, next := range momentTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type Difficulty string

const (
	DifficultyEasy     Difficulty = "easy"
	DifficultyModerate Difficulty = "moderate"
)

type MomentContent struct {
	Title           string     `json:"title"`
	Message         string     `json:"message"`
	Action          string     `json:"action"`
	DurationMinutes int        `json:"duration_minutes"`
	Difficulty      Difficulty `json:"difficulty"`
}

type MomentProvenance struct {
	CorrelationIDs []string `json:"correlation_ids"`
	ContextFactors []string `json:"context_factors"`
}

type MomentResponse struct {
	Status      MomentStatus `json:"status"`
	Rating      *int         `json:"rating,omitempty"`
	Feedback    string       `json:"feedback,omitempty"`
	RespondedAt time.Time    `json:"responded_at"`
}

type MicroMoment struct {
	ID             uuid.UUID                            `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID                            `gorm:"type:uuid;not null;index:idx_micro_moment_user_time,priority:1" json:"user_id"`
	Type           MomentType                           `gorm:"column:type;not null" json:"type"`
	ScheduledFor   time.Time                            `gorm:"column:scheduled_for;not null;index:idx_micro_moment_user_time,priority:2" json:"scheduled_for"`
	WindowStart    time.Time                            `gorm:"column:window_start;not null" json:"window_start"`
	WindowEnd      time.Time                            `gorm:"column:window_end;not null" json:"window_end"`
	Confidence     float64                              `gorm:"column:confidence;not null" json:"confidence"`
	Status         MomentStatus                         `gorm:"column:status;not null;default:'scheduled';index" json:"status"`
	Content        datatypes.JSONType[MomentContent]    `gorm:"column:content" json:"content"`
	Provenance     datatypes.JSONType[MomentProvenance] `gorm:"column:provenance" json:"provenance"`
	Response       *datatypes.JSONType[MomentResponse]  `gorm:"column:response" json:"response,omitempty"`
	DeliveredAt    *time.Time                           `gorm:"column:delivered_at" json:"delivered_at,omitempty"`
	Acknowledged   bool                                 `gorm:"column:acknowledged;not null;default:false" json:"acknowledged"`
	AcknowledgedAt *time.Time                           `gorm:"column:acknowledged_at" json:"acknowledged_at,omitempty"`
	CompletedAt    *time.Time                           `gorm:"column:completed_at" json:"completed_at,omitempty"`
	DismissedAt    *time.Time                           `gorm:"column:dismissed_at" json:"dismissed_at,omitempty"`
	CreatedAt      time.Time                            `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time                            `gorm:"not null" json:"updated_at"`
}

func (MicroMoment) TableName() string { return "micro_moment" }

func (m *MicroMoment) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.Status == "" {
		m.Status = MomentScheduled
	}
	return nil
}

// Advance moves the moment to the given status and stamps the matching
// timestamp. It reports false when the state machine forbids the move.
func (m *MicroMoment) Advance(to MomentStatus, at time.Time) bool {
	if !CanTransition(m.Status, to) {
		return false
	}
	t := at.UTC()
	switch to {
	case MomentDelivered:
		m.DeliveredAt = &t
	case MomentAcknowledged:
		m.Acknowledged = true
		m.AcknowledgedAt = &t
	case MomentCompleted:
		m.CompletedAt = &t
	case MomentDismissed:
		m.DismissedAt = &t
	}
	m.Status = to
	return true
}
