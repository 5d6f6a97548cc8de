package worker

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/vitality-backend/internal/platform/logger"
	"github.com/yungbote/vitality-backend/internal/services"
)

type Config struct {
	Concurrency int
	Interval    time.Duration
	// RunOnStart triggers one batch immediately instead of waiting a full interval.
	RunOnStart bool
}

// BatchResult summarizes one pass over every known user.
type BatchResult struct {
	Users     int
	Succeeded int
	Failed    int
}

// AnalysisRunner periodically runs the per-user analysis pipeline for every
// profile. Users are independent; one user's failure never stops the batch.
type AnalysisRunner struct {
	log      *logger.Logger
	analysis services.AnalysisService
	cfg      Config
}

func NewAnalysisRunner(baseLog *logger.Logger, analysis services.AnalysisService, cfg Config) *AnalysisRunner {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 24 * time.Hour
	}
	return &AnalysisRunner{
		log:      baseLog.With("component", "AnalysisRunner"),
		analysis: analysis,
		cfg:      cfg,
	}
}

func (w *AnalysisRunner) Start(ctx context.Context) {
	w.log.Info("Starting analysis runner", "concurrency", w.cfg.Concurrency, "interval", w.cfg.Interval.String())
	go w.loop(ctx)
}

func (w *AnalysisRunner) loop(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.Interval)
	defer ticker.Stop()

	if w.cfg.RunOnStart {
		w.runAndLog(ctx)
	}
	for {
		select {
		case <-ctx.Done():
			w.log.Info("Analysis runner stopped")
			return
		case <-ticker.C:
			w.runAndLog(ctx)
		}
	}
}

func (w *AnalysisRunner) runAndLog(ctx context.Context) {
	started := time.Now()
	res, err := w.RunBatch(ctx)
	if err != nil {
		w.log.Warn("Analysis batch aborted", "error", err)
		return
	}
	w.log.Info("Analysis batch finished",
		"users", res.Users,
		"succeeded", res.Succeeded,
		"failed", res.Failed,
		"duration_ms", time.Since(started).Milliseconds(),
	)
}

// RunBatch runs every user once. Only the user listing can fail the batch.
func (w *AnalysisRunner) RunBatch(ctx context.Context) (BatchResult, error) {
	ids, err := w.analysis.ListUserIDs(ctx)
	if err != nil {
		return BatchResult{}, fmt.Errorf("list users: %w", err)
	}
	var ok, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.cfg.Concurrency)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			if err := w.runUser(gctx, id); err != nil {
				failed.Add(1)
				w.log.Warn("User analysis failed", "user_id", id.String(), "error", err)
				return nil
			}
			ok.Add(1)
			return nil
		})
	}
	_ = g.Wait()
	return BatchResult{Users: len(ids), Succeeded: int(ok.Load()), Failed: int(failed.Load())}, ctx.Err()
}

func (w *AnalysisRunner) runUser(ctx context.Context, userID uuid.UUID) (err error) {
	defer func() {
		if r := recover(); r != nil {
			w.log.Error("User analysis panic", "user_id", userID.String(), "panic", r)
			err = &panicError{Val: r}
		}
	}()
	sum, err := w.analysis.RunUser(ctx, userID)
	if err != nil {
		return err
	}
	w.log.Debug("User analysis done",
		"user_id", userID.String(),
		"correlations", sum.Correlations,
		"predictions", sum.Predictions,
		"moments", sum.Moments,
	)
	return nil
}

type panicError struct{ Val any }

func (e *panicError) Error() string { return fmt.Sprintf("panic: %v", e.Val) }
