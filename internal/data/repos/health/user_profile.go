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

type UserProfileRepo interface {
	GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*types.UserProfile, error)
	Upsert(dbc dbctx.Context, row *types.UserProfile) error
	ListUserIDs(dbc dbctx.Context) ([]uuid.UUID, error)
}

type userProfileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserProfileRepo(db *gorm.DB, baseLog *logger.Logger) UserProfileRepo {
	return &userProfileRepo{db: db, log: baseLog.With("repo", "UserProfileRepo")}
}

// GetByUserID returns nil, nil for an unknown user.
func (r *userProfileRepo) GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*types.UserProfile, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if userID == uuid.Nil {
		return nil, nil
	}
	var row types.UserProfile
	if err := t.WithContext(dbc.Ctx).Where("user_id = ?", userID).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.UserID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *userProfileRepo) Upsert(dbc dbctx.Context, row *types.UserProfile) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if row == nil || row.UserID == uuid.Nil {
		return nil
	}
	now := time.Now().UTC()
	if row.CreatedAt.IsZero() {
		row.CreatedAt = now
	}
	row.UpdatedAt = now
	if row.Timezone == "" {
		row.Timezone = "UTC"
	}
	return t.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"first_name",
				"timezone",
				"latitude",
				"longitude",
				"preferred_windows",
				"updated_at",
			}),
		}).
		Create(row).Error
}

func (r *userProfileRepo) ListUserIDs(dbc dbctx.Context) ([]uuid.UUID, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var ids []uuid.UUID
	if err := t.WithContext(dbc.Ctx).
		Model(&types.UserProfile{}).
		Order("user_id ASC").
		Pluck("user_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
