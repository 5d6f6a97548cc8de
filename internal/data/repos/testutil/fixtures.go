package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/vitality-backend/internal/domain"
)

func SeedProfile(tb testing.TB, ctx context.Context, tx *gorm.DB, firstName string) *types.UserProfile {
	tb.Helper()
	now := time.Now().UTC()
	p := &types.UserProfile{
		UserID:    uuid.New(),
		FirstName: firstName,
		Timezone:  "UTC",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed profile: %v", err)
	}
	return p
}

func SeedHealthRecord(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, at time.Time, payload string) *types.HealthRecord {
	tb.Helper()
	r := &types.HealthRecord{
		UserID:     userID,
		Category:   types.CategoryDailySummary,
		Source:     "manual",
		RecordedAt: at.UTC(),
		Data:       datatypes.JSON([]byte(payload)),
		CreatedAt:  time.Now().UTC(),
	}
	if err := tx.WithContext(ctx).Create(r).Error; err != nil {
		tb.Fatalf("seed health record: %v", err)
	}
	return r
}

func SeedMicroMoment(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, at time.Time, status types.MomentStatus) *types.MicroMoment {
	tb.Helper()
	now := time.Now().UTC()
	m := &types.MicroMoment{
		UserID:       userID,
		Type:         types.MomentMoodCheck,
		ScheduledFor: at.UTC(),
		WindowStart:  at.Add(-15 * time.Minute).UTC(),
		WindowEnd:    at.Add(15 * time.Minute).UTC(),
		Confidence:   0.6,
		Status:       status,
		Content:      datatypes.NewJSONType(types.MomentContent{Title: "t"}),
		Provenance:   datatypes.NewJSONType(types.MomentProvenance{}),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if status == types.MomentAcknowledged {
		m.Acknowledged = true
		m.AcknowledgedAt = &at
		m.DeliveredAt = &at
	}
	if err := tx.WithContext(ctx).Create(m).Error; err != nil {
		tb.Fatalf("seed micro moment: %v", err)
	}
	return m
}
