package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/vitality-backend/internal/config"
	"github.com/yungbote/vitality-backend/internal/data/repos"
	types "github.com/yungbote/vitality-backend/internal/domain"
	"github.com/yungbote/vitality-backend/internal/modules/correlation"
	apperrors "github.com/yungbote/vitality-backend/internal/pkg/errors"
	"github.com/yungbote/vitality-backend/internal/platform/ctxutil"
	"github.com/yungbote/vitality-backend/internal/platform/dbctx"
	"github.com/yungbote/vitality-backend/internal/platform/logger"
)

// CorrelationGraphSyncer mirrors persisted correlations into a graph store.
type CorrelationGraphSyncer interface {
	Enabled() bool
	Sync(ctx context.Context, userID uuid.UUID, rows []*types.Correlation) error
}

type CorrelationService interface {
	// Analyze recomputes and upserts the user's correlations over the last
	// lookbackDays (the configured default when <= 0).
	Analyze(ctx context.Context, userID uuid.UUID, lookbackDays int) ([]*types.Correlation, error)
	List(ctx context.Context, userID uuid.UUID, filter types.CorrelationFilter) ([]*types.Correlation, error)
	DeriveInsights(ctx context.Context, userID uuid.UUID) ([]correlation.Insight, error)
	SetValidation(ctx context.Context, id uuid.UUID, status types.ValidationStatus) (*types.Correlation, error)
}

type correlationService struct {
	log          *logger.Logger
	cfg          config.Analysis
	profiles     repos.UserProfileRepo
	records      repos.HealthRecordRepo
	correlations repos.CorrelationRepo
	graph        CorrelationGraphSyncer
	now          func() time.Time
}

func NewCorrelationService(
	log *logger.Logger,
	cfg config.Analysis,
	profiles repos.UserProfileRepo,
	records repos.HealthRecordRepo,
	correlations repos.CorrelationRepo,
	graph CorrelationGraphSyncer,
) CorrelationService {
	return &correlationService{
		log:          log.With("service", "CorrelationService"),
		cfg:          cfg,
		profiles:     profiles,
		records:      records,
		correlations: correlations,
		graph:        graph,
		now:          time.Now,
	}
}

func (s *correlationService) Analyze(ctx context.Context, userID uuid.UUID, lookbackDays int) (out []*types.Correlation, err error) {
	started := time.Now()
	ctx, span := startSpan(ctx, "correlation.analyze", userID)
	defer func() { finishRun(span, "correlation", started, len(out), err) }()

	if lookbackDays <= 0 {
		lookbackDays = s.cfg.Correlation.LookbackDays
	}
	if _, err = requireProfile(ctx, s.profiles, s.cfg.Timeouts.Read, userID); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	rctx, cancel := ctxutil.WithTimeout(ctx, s.cfg.Timeouts.Read)
	records, rerr := s.records.ListSince(dbctx.Context{Ctx: rctx}, userID, now.AddDate(0, 0, -lookbackDays))
	cancel()
	if rerr != nil {
		return nil, apperrors.Unavailable("fetch health records", rerr)
	}

	results := correlation.Compute(records, s.cfg.Correlation)
	out = make([]*types.Correlation, 0, len(results))
	for _, r := range results {
		if err = ctx.Err(); err != nil {
			return out, err
		}
		row := &types.Correlation{
			UserID:          userID,
			PrimaryFactor:   r.Pair.Primary.String(),
			SecondaryFactor: r.Pair.Secondary.String(),
			Strength:        r.Strength,
			Confidence:      r.Confidence,
			Significance:    r.Significance,
			Direction:       r.Direction,
			DataPointCount:  r.DataPoints,
			ComputedAt:      now,
		}
		wctx, wcancel := ctxutil.WithTimeout(ctx, s.cfg.Timeouts.Write)
		stored, werr := s.correlations.Upsert(dbctx.Context{Ctx: wctx}, row)
		wcancel()
		if werr != nil {
			logWriteFailure(s.log, "correlation", userID, r.Pair.Key(), werr)
			continue
		}
		out = append(out, stored)
	}

	s.mirror(ctx, userID, out)

	s.log.Debug("correlations analyzed",
		"user_id", userID.String(),
		"records", len(records),
		"correlations", len(out),
	)
	return out, nil
}

func (s *correlationService) List(ctx context.Context, userID uuid.UUID, filter types.CorrelationFilter) ([]*types.Correlation, error) {
	for _, sig := range filter.Significance {
		if sig.Rank() == 0 {
			return nil, apperrors.Invalid("unknown significance %q", sig)
		}
	}
	if filter.ValidationStatus != "" && !filter.ValidationStatus.Valid() {
		return nil, apperrors.Invalid("unknown validation status %q", filter.ValidationStatus)
	}
	if _, err := requireProfile(ctx, s.profiles, s.cfg.Timeouts.Read, userID); err != nil {
		return nil, err
	}
	rctx, cancel := ctxutil.WithTimeout(ctx, s.cfg.Timeouts.Read)
	defer cancel()
	rows, err := s.correlations.List(dbctx.Context{Ctx: rctx}, userID, filter)
	if err != nil {
		return nil, apperrors.Unavailable("fetch correlations", err)
	}
	return rows, nil
}

// DeriveInsights renders insights for the user's strong and very-strong
// correlations. Pairs without a template are skipped.
func (s *correlationService) DeriveInsights(ctx context.Context, userID uuid.UUID) ([]correlation.Insight, error) {
	rows, err := s.List(ctx, userID, types.CorrelationFilter{
		Significance: []types.Significance{types.SignificanceStrong, types.SignificanceVeryStrong},
	})
	if err != nil {
		return nil, err
	}
	return correlation.DeriveInsights(rows), nil
}

func (s *correlationService) SetValidation(ctx context.Context, id uuid.UUID, status types.ValidationStatus) (*types.Correlation, error) {
	if id == uuid.Nil {
		return nil, apperrors.Invalid("correlation id is required")
	}
	if !status.Valid() {
		return nil, apperrors.Invalid("unknown validation status %q", status)
	}
	if _, ok := ctxutil.ActorUserID(ctx); ok {
		rctx, rcancel := ctxutil.WithTimeout(ctx, s.cfg.Timeouts.Read)
		existing, err := s.correlations.GetByID(dbctx.Context{Ctx: rctx}, id)
		rcancel()
		if err != nil {
			return nil, apperrors.Unavailable("fetch correlation", err)
		}
		if existing == nil || !ctxutil.ActorMayAccess(ctx, existing.UserID) {
			return nil, apperrors.ErrNotFound
		}
	}
	wctx, cancel := ctxutil.WithTimeout(ctx, s.cfg.Timeouts.Write)
	found, err := s.correlations.UpdateValidationStatus(dbctx.Context{Ctx: wctx}, id, status)
	cancel()
	if err != nil {
		s.log.Error("validation status update failed", "correlation_id", id.String(), "error", err)
		return nil, err
	}
	if !found {
		return nil, apperrors.ErrNotFound
	}
	rctx, rcancel := ctxutil.WithTimeout(ctx, s.cfg.Timeouts.Read)
	defer rcancel()
	row, err := s.correlations.GetByID(dbctx.Context{Ctx: rctx}, id)
	if err != nil {
		return nil, apperrors.Unavailable("fetch correlation", err)
	}
	if row == nil {
		return nil, apperrors.ErrNotFound
	}
	s.mirror(ctx, row.UserID, []*types.Correlation{row})
	return row, nil
}

// mirror pushes rows to the graph store when one is configured. The store of
// record is the database; graph failures are logged only.
func (s *correlationService) mirror(ctx context.Context, userID uuid.UUID, rows []*types.Correlation) {
	if s.graph == nil || !s.graph.Enabled() || len(rows) == 0 {
		return
	}
	gctx, cancel := ctxutil.WithTimeout(ctx, s.cfg.Timeouts.Write)
	defer cancel()
	if err := s.graph.Sync(gctx, userID, rows); err != nil {
		s.log.Warn("correlation graph sync failed (continuing)", "user_id", userID.String(), "error", err)
	}
}
