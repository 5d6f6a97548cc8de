package health

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/vitality-backend/internal/domain"
	"github.com/yungbote/vitality-backend/internal/platform/dbctx"
	"github.com/yungbote/vitality-backend/internal/platform/logger"
)

// MomentFilter narrows ListSince; a nil Acknowledged matches everything.
type MomentFilter struct {
	Acknowledged *bool
}

type MicroMomentRepo interface {
	Create(dbc dbctx.Context, row *types.MicroMoment) error
	ListSince(dbc dbctx.Context, userID uuid.UUID, since time.Time, filter MomentFilter) ([]*types.MicroMoment, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.MicroMoment, error)
	UpdateState(dbc dbctx.Context, row *types.MicroMoment) error
}

type microMomentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMicroMomentRepo(db *gorm.DB, baseLog *logger.Logger) MicroMomentRepo {
	return &microMomentRepo{db: db, log: baseLog.With("repo", "MicroMomentRepo")}
}

func (r *microMomentRepo) Create(dbc dbctx.Context, row *types.MicroMoment) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if row == nil || row.UserID == uuid.Nil {
		return nil
	}
	now := time.Now().UTC()
	row.CreatedAt = now
	row.UpdatedAt = now
	return t.WithContext(dbc.Ctx).Create(row).Error
}

// ListSince returns moments scheduled at or after since, oldest first.
func (r *microMomentRepo) ListSince(dbc dbctx.Context, userID uuid.UUID, since time.Time, filter MomentFilter) ([]*types.MicroMoment, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.MicroMoment
	if userID == uuid.Nil {
		return out, nil
	}
	q := t.WithContext(dbc.Ctx).Where("user_id = ? AND scheduled_for >= ?", userID, since.UTC())
	if filter.Acknowledged != nil {
		q = q.Where("acknowledged = ?", *filter.Acknowledged)
	}
	if err := q.Order("scheduled_for ASC, id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *microMomentRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.MicroMoment, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var row types.MicroMoment
	if err := t.WithContext(dbc.Ctx).Where("id = ?", id).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

// UpdateState persists the status, response and delivery timestamps.
func (r *microMomentRepo) UpdateState(dbc dbctx.Context, row *types.MicroMoment) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if row == nil || row.ID == uuid.Nil {
		return nil
	}
	row.UpdatedAt = time.Now().UTC()
	updates := map[string]any{
		"status":          row.Status,
		"acknowledged":    row.Acknowledged,
		"delivered_at":    row.DeliveredAt,
		"acknowledged_at": row.AcknowledgedAt,
		"completed_at":    row.CompletedAt,
		"dismissed_at":    row.DismissedAt,
		"updated_at":      row.UpdatedAt,
	}
	if row.Response != nil {
		updates["response"] = *row.Response
	}
	return t.WithContext(dbc.Ctx).
		Model(&types.MicroMoment{}).
		Where("id = ?", row.ID).
		Updates(updates).Error
}
