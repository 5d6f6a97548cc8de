package app

import (
	"fmt"
	"time"

	"github.com/yungbote/vitality-backend/internal/config"
	"github.com/yungbote/vitality-backend/internal/platform/envutil"
	"github.com/yungbote/vitality-backend/internal/platform/logger"
	"github.com/yungbote/vitality-backend/internal/temporalx"
)

type Config struct {
	Port        string
	Environment string
	Version     string

	// JWTSecretKey enables bearer auth on the API when set.
	JWTSecretKey string
	CORSOrigins  string

	NotifyMode        string
	WorkerConcurrency int
	AnalysisInterval  time.Duration
	WeatherCacheTTL   time.Duration

	Analysis config.Analysis
	Temporal temporalx.Config
}

func LoadConfig(log *logger.Logger) (Config, error) {
	analysis, err := config.LoadAnalysis()
	if err != nil {
		return Config{}, fmt.Errorf("load analysis config: %w", err)
	}
	if io := envutil.Seconds("IO_TIMEOUT_SECONDS", 0); io > 0 {
		analysis.Timeouts.Read = io
		analysis.Timeouts.Write = io
	}

	cfg := Config{
		Port:              envutil.String("PORT", "8080"),
		Environment:       envutil.String("APP_ENV", "development"),
		Version:           envutil.String("APP_VERSION", "dev"),
		JWTSecretKey:      envutil.String("JWT_SECRET_KEY", ""),
		CORSOrigins:       envutil.String("CORS_ALLOWED_ORIGINS", ""),
		NotifyMode:        envutil.String("NOTIFY_MODE", "log"),
		WorkerConcurrency: envutil.Int("WORKER_CONCURRENCY", 4),
		AnalysisInterval:  time.Duration(envutil.Int("ANALYSIS_INTERVAL_HOURS", 24)) * time.Hour,
		WeatherCacheTTL:   time.Duration(envutil.Int("WEATHER_CACHE_MINUTES", 30)) * time.Minute,
		Analysis:          analysis,
		Temporal:          temporalx.LoadConfig(),
	}
	if cfg.WorkerConcurrency < 1 {
		cfg.WorkerConcurrency = 1
	}
	if cfg.AnalysisInterval <= 0 {
		cfg.AnalysisInterval = 24 * time.Hour
	}
	if cfg.JWTSecretKey == "" {
		log.Warn("JWT_SECRET_KEY not set; API routes are unauthenticated")
	}
	return cfg, nil
}
