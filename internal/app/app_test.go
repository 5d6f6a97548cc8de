package app

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/vitality-backend/internal/clients/redis"
	types "github.com/yungbote/vitality-backend/internal/domain"
	"github.com/yungbote/vitality-backend/internal/platform/logger"
	"github.com/yungbote/vitality-backend/internal/services"
)

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("IO_TIMEOUT_SECONDS", "7")
	t.Setenv("WORKER_CONCURRENCY", "0")
	t.Setenv("ANALYSIS_INTERVAL_HOURS", "6")
	t.Setenv("NOTIFY_MODE", "redis")
	t.Setenv("ANALYSIS_CONFIG_PATH", "")

	cfg, err := LoadConfig(logger.Nop())
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Analysis.Timeouts.Read != 7*time.Second || cfg.Analysis.Timeouts.Write != 7*time.Second {
		t.Fatalf("timeouts: %+v", cfg.Analysis.Timeouts)
	}
	if cfg.WorkerConcurrency != 1 || cfg.AnalysisInterval != 6*time.Hour || cfg.NotifyMode != "redis" {
		t.Fatalf("config: %+v", cfg)
	}
}

type recordingMoments struct {
	services.MicroMomentService
	id uuid.UUID
	in services.MomentResponseInput
}

func (r *recordingMoments) RecordResponse(ctx context.Context, id uuid.UUID, in services.MomentResponseInput) (*types.MicroMoment, error) {
	r.id, r.in = id, in
	return &types.MicroMoment{ID: id, Status: in.Status}, nil
}

func TestForwardResponse(t *testing.T) {
	rec := &recordingMoments{}
	a := &App{Log: logger.Nop(), Services: Services{MicroMoment: rec}}
	rating := 5
	at := time.Date(2026, 3, 10, 9, 5, 0, 0, time.UTC)
	ev := redis.MomentResponseEvent{MomentID: uuid.New(), Status: types.MomentCompleted, Rating: &rating, At: at}

	a.forwardResponse(context.Background(), ev)
	if rec.id != ev.MomentID || rec.in.Status != types.MomentCompleted || rec.in.At == nil || !rec.in.At.Equal(at) {
		t.Fatalf("forwarded: %v %+v", rec.id, rec.in)
	}
	if rec.in.Rating == nil || *rec.in.Rating != 5 {
		t.Fatalf("rating not forwarded")
	}
}
