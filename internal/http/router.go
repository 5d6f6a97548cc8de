package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/vitality-backend/internal/http/handlers"
	httpMW "github.com/yungbote/vitality-backend/internal/http/middleware"
	"github.com/yungbote/vitality-backend/internal/observability"
	"github.com/yungbote/vitality-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	CORSOrigins    string
	Metrics        *observability.Metrics
	AuthMiddleware *httpMW.AuthMiddleware

	HealthHandler       *httpH.HealthHandler
	AnalysisHandler     *httpH.AnalysisHandler
	ProfileHandler      *httpH.ProfileHandler
	HealthRecordHandler *httpH.HealthRecordHandler
	CorrelationHandler  *httpH.CorrelationHandler
	PredictionHandler   *httpH.PredictionHandler
	MicroMomentHandler  *httpH.MicroMomentHandler
}

const (
	pathHealth  = "/healthcheck"
	pathMetrics = "/metrics"
)

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log, pathHealth, pathMetrics))
	r.Use(httpMW.Metrics(cfg.Metrics, pathMetrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET(pathHealth, cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET(pathMetrics, gin.WrapF(cfg.Metrics.WriteHTTP))
	}

	// All user-scoped routes share the ":id" wildcard so they can sit beside
	// resource-id routes under the same prefix.
	api := r.Group("/")
	self := func(c *gin.Context) { c.Next() }
	if cfg.AuthMiddleware != nil {
		api.Use(cfg.AuthMiddleware.RequireAuth())
		self = cfg.AuthMiddleware.RequireSelf("id")
	}
	{
		// Analysis
		if cfg.AnalysisHandler != nil {
			api.POST("/analyze/correlations/:id", self, cfg.AnalysisHandler.AnalyzeCorrelations)
			api.POST("/analyze/predictions/:id", self, cfg.AnalysisHandler.AnalyzePredictions)
			api.POST("/schedule/micro-moments/:id", self, cfg.AnalysisHandler.ScheduleMicroMoments)
		}

		// Profiles
		if cfg.ProfileHandler != nil {
			api.PUT("/users/:id/profile", self, cfg.ProfileHandler.UpsertProfile)
			api.GET("/users/:id/profile", self, cfg.ProfileHandler.GetProfile)
		}

		// Health records
		if cfg.HealthRecordHandler != nil {
			api.POST("/health-records/:id", self, cfg.HealthRecordHandler.Ingest)
			api.GET("/health-records/:id", self, cfg.HealthRecordHandler.List)
		}

		// Correlations and insights
		if cfg.CorrelationHandler != nil {
			api.GET("/correlations/:id", self, cfg.CorrelationHandler.List)
			api.PATCH("/correlations/:id/validation", cfg.CorrelationHandler.SetValidation)
			api.GET("/insights/:id", self, cfg.CorrelationHandler.Insights)
		}

		// Predictions
		if cfg.PredictionHandler != nil {
			api.GET("/predictions/:id", self, cfg.PredictionHandler.ListRecent)
		}

		// Micro-moments
		if cfg.MicroMomentHandler != nil {
			api.GET("/micro-moments/:id", self, cfg.MicroMomentHandler.List)
			api.POST("/micro-moments/:id/response", cfg.MicroMomentHandler.RecordResponse)
		}
	}

	return r
}
