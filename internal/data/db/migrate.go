package db

import (
	types "github.com/yungbote/vitality-backend/internal/domain"
	"gorm.io/gorm"
)

// Models lists every persisted type, in migration order.
func Models() []any {
	return []any{
		&types.UserProfile{},
		&types.HealthRecord{},
		&types.Correlation{},
		&types.PredictionRecord{},
		&types.MicroMoment{},
	}
}

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
