package app

import (
	"github.com/yungbote/vitality-backend/internal/data/graph"
	"github.com/yungbote/vitality-backend/internal/platform/logger"
	"github.com/yungbote/vitality-backend/internal/services"
)

type Services struct {
	Profile      services.ProfileService
	HealthRecord services.HealthRecordService
	Correlation  services.CorrelationService
	Prediction   services.PredictionService
	MicroMoment  services.MicroMomentService
	Analysis     services.AnalysisService
	Dispatcher   services.NotificationDispatcher
}

func wireServices(log *logger.Logger, cfg Config, r Repos, c Clients) Services {
	log.Info("Wiring services...")
	a := cfg.Analysis

	dispatcher := services.NewDispatcher(log, cfg.NotifyMode, c.MomentBus)
	profile := services.NewProfileService(log, a.Timeouts, r.Profiles)
	records := services.NewHealthRecordService(log, a.Timeouts, r.Profiles, r.HealthRecord)
	correlations := services.NewCorrelationService(log, a, r.Profiles, r.HealthRecord, r.Correlation, graph.NewCorrelationGraph(c.Neo4j, log))
	predictions := services.NewPredictionService(log, a, r.Profiles, r.HealthRecord, r.Correlation, r.Prediction)
	moments := services.NewMicroMomentService(log, a, r.Profiles, r.HealthRecord, r.Correlation, r.MicroMoment, c.Weather, dispatcher)

	return Services{
		Profile:      profile,
		HealthRecord: records,
		Correlation:  correlations,
		Prediction:   predictions,
		MicroMoment:  moments,
		Analysis:     services.NewAnalysisService(log, profile, correlations, predictions, moments),
		Dispatcher:   dispatcher,
	}
}
