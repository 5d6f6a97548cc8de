package health

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// TimeWindow is an hour range within a local day, Start inclusive.
type TimeWindow struct {
	Start      int     `json:"start"`
	End        int     `json:"end"`
	Confidence float64 `json:"confidence,omitempty"`
}

// UserProfile holds what scheduling needs to know about a user. Its presence
// is also what makes a user id known to the analysis endpoints.
type UserProfile struct {
	UserID           uuid.UUID                        `gorm:"type:uuid;primaryKey" json:"user_id"`
	FirstName        string                           `gorm:"column:first_name" json:"first_name"`
	Timezone         string                           `gorm:"column:timezone;not null;default:'UTC'" json:"timezone"`
	Latitude         *float64                         `gorm:"column:latitude" json:"latitude,omitempty"`
	Longitude        *float64                         `gorm:"column:longitude" json:"longitude,omitempty"`
	PreferredWindows datatypes.JSONType[[]TimeWindow] `gorm:"column:preferred_windows" json:"preferred_windows"`
	CreatedAt        time.Time                        `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time                        `gorm:"not null" json:"updated_at"`
}

func (UserProfile) TableName() string { return "user_profile" }

// Location resolves the profile timezone, falling back to UTC.
func (p *UserProfile) Location() *time.Location {
	if p == nil || p.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (p *UserProfile) HasCoordinates() bool {
	return p != nil && p.Latitude != nil && p.Longitude != nil
}

func (p *UserProfile) DisplayName() string {
	if p == nil || p.FirstName == "" {
		return "there"
	}
	return p.FirstName
}
