package health

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/vitality-backend/internal/domain"
	"github.com/yungbote/vitality-backend/internal/platform/dbctx"
	"github.com/yungbote/vitality-backend/internal/platform/logger"
)

type PredictionRepo interface {
	Create(dbc dbctx.Context, row *types.PredictionRecord) error
	ListRecent(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.PredictionRecord, error)
}

type predictionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPredictionRepo(db *gorm.DB, baseLog *logger.Logger) PredictionRepo {
	return &predictionRepo{db: db, log: baseLog.With("repo", "PredictionRepo")}
}

// Create always inserts; predictions are never updated in place.
func (r *predictionRepo) Create(dbc dbctx.Context, row *types.PredictionRecord) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if row == nil || row.UserID == uuid.Nil {
		return nil
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	return t.WithContext(dbc.Ctx).Create(row).Error
}

func (r *predictionRepo) ListRecent(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.PredictionRecord, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.PredictionRecord
	if userID == uuid.Nil {
		return out, nil
	}
	if limit <= 0 {
		limit = 50
	}
	if err := t.WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id ASC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
