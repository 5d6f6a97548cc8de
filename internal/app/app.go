package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	temporalsdkclient "go.temporal.io/sdk/client"
	"gorm.io/gorm"

	"github.com/yungbote/vitality-backend/internal/clients/redis"
	"github.com/yungbote/vitality-backend/internal/data/db"
	apphttp "github.com/yungbote/vitality-backend/internal/http"
	httpH "github.com/yungbote/vitality-backend/internal/http/handlers"
	"github.com/yungbote/vitality-backend/internal/jobs/worker"
	"github.com/yungbote/vitality-backend/internal/observability"
	"github.com/yungbote/vitality-backend/internal/platform/envutil"
	"github.com/yungbote/vitality-backend/internal/platform/logger"
	"github.com/yungbote/vitality-backend/internal/services"
	"github.com/yungbote/vitality-backend/internal/temporalx"
	"github.com/yungbote/vitality-backend/internal/temporalx/temporalworker"
)

const serviceName = "vitality-backend"

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Repos    Repos
	Clients  Clients
	Services Services
	Metrics  *observability.Metrics

	pg           *db.PostgresService
	server       *apphttp.Server
	temporal     temporalsdkclient.Client
	otelShutdown func(context.Context) error
	cancel       context.CancelFunc
	closeOnce    sync.Once
}

func New() (*App, error) {
	log, err := logger.New(envutil.String("LOG_MODE", "development"))
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg, err := LoadConfig(log)
	if err != nil {
		log.Sync()
		return nil, err
	}

	otelShutdown := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: serviceName,
		Environment: cfg.Environment,
		Version:     cfg.Version,
	})
	metrics := observability.Init(log)

	pg, err := db.NewPostgresService(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init postgres: %w", err)
	}
	theDB := pg.DB()
	if err := db.AutoMigrateAll(theDB); err != nil {
		_ = pg.Close()
		log.Sync()
		return nil, fmt.Errorf("postgres automigrate: %w", err)
	}

	clients, err := wireClients(log, cfg)
	if err != nil {
		_ = pg.Close()
		log.Sync()
		return nil, err
	}

	reposet := wireRepos(theDB, log)
	serviceset := wireServices(log, cfg, reposet, clients)

	var pinger httpH.Pinger
	if sqlDB, err := theDB.DB(); err == nil {
		pinger = sqlDB
	}
	handlerset := wireHandlers(log, serviceset, pinger)
	router := wireRouter(log, cfg, handlerset, metrics)

	return &App{
		Log:          log,
		DB:           theDB,
		Router:       router,
		Cfg:          cfg,
		Repos:        reposet,
		Clients:      clients,
		Services:     serviceset,
		Metrics:      metrics,
		pg:           pg,
		server:       &apphttp.Server{Engine: router},
		otelShutdown: otelShutdown,
	}, nil
}

// Start launches the background work: metric collectors, the redis response
// forwarder, and batch analysis on Temporal or the in-process runner.
func (a *App) Start() error {
	if a == nil || a.cancel != nil {
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	a.Metrics.StartPostgresCollector(ctx, a.Log, a.DB)
	if a.Clients.Redis != nil {
		a.Metrics.StartRedisCollector(ctx, a.Log, a.Clients.Redis)
	}

	if a.Clients.MomentBus != nil {
		if err := a.Clients.MomentBus.StartResponseForwarder(ctx, a.forwardResponse); err != nil {
			return fmt.Errorf("start moment response forwarder: %w", err)
		}
	}

	if a.Cfg.Temporal.Enabled() {
		tc, err := temporalx.NewClient(a.Log, a.Cfg.Temporal)
		if err != nil {
			return err
		}
		a.temporal = tc
		runner, err := temporalworker.NewRunner(a.Log, tc, a.Cfg.Temporal, a.Services.Analysis, a.Cfg.WorkerConcurrency)
		if err != nil {
			return err
		}
		return runner.Start(ctx)
	}

	worker.NewAnalysisRunner(a.Log, a.Services.Analysis, worker.Config{
		Concurrency: a.Cfg.WorkerConcurrency,
		Interval:    a.Cfg.AnalysisInterval,
		RunOnStart:  envutil.Bool("ANALYSIS_RUN_ON_START", false),
	}).Start(ctx)
	return nil
}

// forwardResponse applies a delivery-pipeline event published on redis.
func (a *App) forwardResponse(ctx context.Context, ev redis.MomentResponseEvent) {
	in := services.MomentResponseInput{Status: ev.Status, Rating: ev.Rating, Feedback: ev.Feedback}
	if !ev.At.IsZero() {
		at := ev.At
		in.At = &at
	}
	if _, err := a.Services.MicroMoment.RecordResponse(ctx, ev.MomentID, in); err != nil {
		a.Log.Warn("Moment response rejected", "moment_id", ev.MomentID.String(), "status", string(ev.Status), "error", err)
	}
}

func (a *App) Run(addr string) error {
	if a == nil || a.server == nil {
		return fmt.Errorf("app not initialized")
	}
	a.Log.Info("Server listening", "addr", addr)
	return a.server.Run(addr)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	a.closeOnce.Do(a.close)
}

func (a *App) close() {
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.server.Shutdown(ctx); err != nil {
		a.Log.Warn("HTTP shutdown failed", "error", err)
	}
	if a.temporal != nil {
		a.temporal.Close()
	}
	a.Clients.Close()
	if a.otelShutdown != nil {
		_ = a.otelShutdown(ctx)
	}
	if a.pg != nil {
		_ = a.pg.Close()
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
