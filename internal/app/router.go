package app

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/vitality-backend/internal/http"
	httpH "github.com/yungbote/vitality-backend/internal/http/handlers"
	httpMW "github.com/yungbote/vitality-backend/internal/http/middleware"
	"github.com/yungbote/vitality-backend/internal/observability"
	"github.com/yungbote/vitality-backend/internal/platform/logger"
)

type Handlers struct {
	Health       *httpH.HealthHandler
	Analysis     *httpH.AnalysisHandler
	Profile      *httpH.ProfileHandler
	HealthRecord *httpH.HealthRecordHandler
	Correlation  *httpH.CorrelationHandler
	Prediction   *httpH.PredictionHandler
	MicroMoment  *httpH.MicroMomentHandler
}

func wireHandlers(log *logger.Logger, s Services, db httpH.Pinger) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:       httpH.NewHealthHandler(db),
		Analysis:     httpH.NewAnalysisHandler(s.Correlation, s.Prediction, s.MicroMoment),
		Profile:      httpH.NewProfileHandler(s.Profile),
		HealthRecord: httpH.NewHealthRecordHandler(s.HealthRecord),
		Correlation:  httpH.NewCorrelationHandler(s.Correlation),
		Prediction:   httpH.NewPredictionHandler(s.Prediction),
		MicroMoment:  httpH.NewMicroMomentHandler(s.MicroMoment),
	}
}

func wireRouter(log *logger.Logger, cfg Config, h Handlers, metrics *observability.Metrics) *gin.Engine {
	var auth *httpMW.AuthMiddleware
	if cfg.JWTSecretKey != "" {
		auth = httpMW.NewAuthMiddleware(log, cfg.JWTSecretKey)
	}
	return http.NewRouter(http.RouterConfig{
		Log:                 log,
		ServiceName:         serviceName,
		CORSOrigins:         cfg.CORSOrigins,
		Metrics:             metrics,
		AuthMiddleware:      auth,
		HealthHandler:       h.Health,
		AnalysisHandler:     h.Analysis,
		ProfileHandler:      h.Profile,
		HealthRecordHandler: h.HealthRecord,
		CorrelationHandler:  h.Correlation,
		PredictionHandler:   h.Prediction,
		MicroMomentHandler:  h.MicroMoment,
	})
}
