package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/vitality-backend/internal/data/repos"
	"github.com/yungbote/vitality-backend/internal/platform/logger"
)

type Repos struct {
	Profiles     repos.UserProfileRepo
	HealthRecord repos.HealthRecordRepo
	Correlation  repos.CorrelationRepo
	Prediction   repos.PredictionRepo
	MicroMoment  repos.MicroMomentRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Profiles:     repos.NewUserProfileRepo(db, log),
		HealthRecord: repos.NewHealthRecordRepo(db, log),
		Correlation:  repos.NewCorrelationRepo(db, log),
		Prediction:   repos.NewPredictionRepo(db, log),
		MicroMoment:  repos.NewMicroMomentRepo(db, log),
	}
}
