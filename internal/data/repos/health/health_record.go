package health

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/vitality-backend/internal/domain"
	"github.com/yungbote/vitality-backend/internal/platform/dbctx"
	"github.com/yungbote/vitality-backend/internal/platform/logger"
)

type HealthRecordRepo interface {
	Create(dbc dbctx.Context, rows []*types.HealthRecord) ([]*types.HealthRecord, error)
	ListSince(dbc dbctx.Context, userID uuid.UUID, since time.Time) ([]*types.HealthRecord, error)
}

type healthRecordRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewHealthRecordRepo(db *gorm.DB, baseLog *logger.Logger) HealthRecordRepo {
	return &healthRecordRepo{db: db, log: baseLog.With("repo", "HealthRecordRepo")}
}

func (r *healthRecordRepo) Create(dbc dbctx.Context, rows []*types.HealthRecord) ([]*types.HealthRecord, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.HealthRecord{}, nil
	}
	now := time.Now().UTC()
	for _, row := range rows {
		row.RecordedAt = row.RecordedAt.UTC()
		if row.CreatedAt.IsZero() {
			row.CreatedAt = now
		}
		if row.Source == "" {
			row.Source = "manual"
		}
	}
	if err := t.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListSince returns the user's records at or after since, oldest first.
func (r *healthRecordRepo) ListSince(dbc dbctx.Context, userID uuid.UUID, since time.Time) ([]*types.HealthRecord, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.HealthRecord
	if userID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(dbc.Ctx).
		Where("user_id = ? AND recorded_at >= ?", userID, since.UTC()).
		Order("recorded_at ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
