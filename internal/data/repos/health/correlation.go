package health

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/vitality-backend/internal/domain"
	"github.com/yungbote/vitality-backend/internal/platform/dbctx"
	"github.com/yungbote/vitality-backend/internal/platform/logger"
)

type CorrelationRepo interface {
	Upsert(dbc dbctx.Context, row *types.Correlation) (*types.Correlation, error)
	List(dbc dbctx.Context, userID uuid.UUID, filter types.CorrelationFilter) ([]*types.Correlation, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Correlation, error)
	UpdateValidationStatus(dbc dbctx.Context, id uuid.UUID, status types.ValidationStatus) (bool, error)
}

type correlationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCorrelationRepo(db *gorm.DB, baseLog *logger.Logger) CorrelationRepo {
	return &correlationRepo{db: db, log: baseLog.With("repo", "CorrelationRepo")}
}

// Upsert writes the statistics for (user, primary, secondary) and returns the
// stored row. Validation status survives recomputation.
func (r *correlationRepo) Upsert(dbc dbctx.Context, row *types.Correlation) (*types.Correlation, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if row == nil || row.UserID == uuid.Nil {
		return nil, nil
	}
	now := time.Now().UTC()
	if row.ComputedAt.IsZero() {
		row.ComputedAt = now
	}
	row.ComputedAt = row.ComputedAt.UTC()
	row.CreatedAt = now
	row.UpdatedAt = now
	if err := t.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "primary_factor"}, {Name: "secondary_factor"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"strength",
				"confidence",
				"significance",
				"direction",
				"data_point_count",
				"computed_at",
				"updated_at",
			}),
		}).
		Create(row).Error; err != nil {
		return nil, err
	}

	var stored types.Correlation
	if err := t.WithContext(dbc.Ctx).
		Where("user_id = ? AND primary_factor = ? AND secondary_factor = ?", row.UserID, row.PrimaryFactor, row.SecondaryFactor).
		Limit(1).
		Find(&stored).Error; err != nil {
		return nil, err
	}
	if stored.ID == uuid.Nil {
		return row, nil
	}
	return &stored, nil
}

// List returns the user's correlations, strongest first.
func (r *correlationRepo) List(dbc dbctx.Context, userID uuid.UUID, filter types.CorrelationFilter) ([]*types.Correlation, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.Correlation
	if userID == uuid.Nil {
		return out, nil
	}
	q := t.WithContext(dbc.Ctx).Where("user_id = ?", userID)
	if len(filter.Significance) > 0 {
		q = q.Where("significance IN ?", filter.Significance)
	}
	if filter.ValidationStatus != "" {
		q = q.Where("validation_status = ?", filter.ValidationStatus)
	}
	q = q.Order("ABS(strength) DESC").Order("primary_factor ASC").Order("secondary_factor ASC")
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *correlationRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Correlation, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var row types.Correlation
	if err := t.WithContext(dbc.Ctx).Where("id = ?", id).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

// UpdateValidationStatus reports whether a row was changed.
func (r *correlationRepo) UpdateValidationStatus(dbc dbctx.Context, id uuid.UUID, status types.ValidationStatus) (bool, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	res := t.WithContext(dbc.Ctx).
		Model(&types.Correlation{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"validation_status": status,
			"updated_at":        time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
