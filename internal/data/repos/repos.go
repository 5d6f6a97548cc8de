package repos

import (
	"github.com/yungbote/vitality-backend/internal/data/repos/health"
	"github.com/yungbote/vitality-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type HealthRecordRepo = health.HealthRecordRepo
type CorrelationRepo = health.CorrelationRepo
type PredictionRepo = health.PredictionRepo
type MicroMomentRepo = health.MicroMomentRepo
type UserProfileRepo = health.UserProfileRepo

type MomentFilter = health.MomentFilter

func NewHealthRecordRepo(db *gorm.DB, baseLog *logger.Logger) HealthRecordRepo {
	return health.NewHealthRecordRepo(db, baseLog)
}
func NewCorrelationRepo(db *gorm.DB, baseLog *logger.Logger) CorrelationRepo {
	return health.NewCorrelationRepo(db, baseLog)
}
func NewPredictionRepo(db *gorm.DB, baseLog *logger.Logger) PredictionRepo {
	return health.NewPredictionRepo(db, baseLog)
}
func NewMicroMomentRepo(db *gorm.DB, baseLog *logger.Logger) MicroMomentRepo {
	return health.NewMicroMomentRepo(db, baseLog)
}
func NewUserProfileRepo(db *gorm.DB, baseLog *logger.Logger) UserProfileRepo {
	return health.NewUserProfileRepo(db, baseLog)
}
