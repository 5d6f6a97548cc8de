package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/vitality-backend/internal/config"
	"github.com/yungbote/vitality-backend/internal/data/repos"
	types "github.com/yungbote/vitality-backend/internal/domain"
	"github.com/yungbote/vitality-backend/internal/modules/prediction"
	apperrors "github.com/yungbote/vitality-backend/internal/pkg/errors"
	"github.com/yungbote/vitality-backend/internal/platform/ctxutil"
	"github.com/yungbote/vitality-backend/internal/platform/dbctx"
	"github.com/yungbote/vitality-backend/internal/platform/logger"
)

type PredictionService interface {
	// Predict forecasts every prediction type at both horizons and appends
	// the records. Too little history is an empty, successful result.
	Predict(ctx context.Context, userID uuid.UUID) ([]*types.PredictionRecord, error)
	ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]*types.PredictionRecord, error)
}

type predictionService struct {
	log          *logger.Logger
	cfg          config.Analysis
	profiles     repos.UserProfileRepo
	records      repos.HealthRecordRepo
	correlations repos.CorrelationRepo
	predictions  repos.PredictionRepo
	now          func() time.Time
}

func NewPredictionService(
	log *logger.Logger,
	cfg config.Analysis,
	profiles repos.UserProfileRepo,
	records repos.HealthRecordRepo,
	correlations repos.CorrelationRepo,
	predictions repos.PredictionRepo,
) PredictionService {
	return &predictionService{
		log:          log.With("service", "PredictionService"),
		cfg:          cfg,
		profiles:     profiles,
		records:      records,
		correlations: correlations,
		predictions:  predictions,
		now:          time.Now,
	}
}

func (s *predictionService) Predict(ctx context.Context, userID uuid.UUID) (out []*types.PredictionRecord, err error) {
	started := time.Now()
	ctx, span := startSpan(ctx, "prediction.predict", userID)
	defer func() { finishRun(span, "prediction", started, len(out), err) }()

	profile, err := requireProfile(ctx, s.profiles, s.cfg.Timeouts.Read, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	rctx, cancel := ctxutil.WithTimeout(ctx, s.cfg.Timeouts.Read)
	records, rerr := s.records.ListSince(dbctx.Context{Ctx: rctx}, userID, now.AddDate(0, 0, -s.cfg.Prediction.LookbackDays))
	cancel()
	if rerr != nil {
		return nil, apperrors.Unavailable("fetch health records", rerr)
	}
	if prediction.HistoryDays(records, profile.Location()) < s.cfg.Prediction.MinRecords {
		return []*types.PredictionRecord{}, nil
	}

	rctx, cancel = ctxutil.WithTimeout(ctx, s.cfg.Timeouts.Read)
	correlations, rerr := s.correlations.List(dbctx.Context{Ctx: rctx}, userID, types.CorrelationFilter{})
	cancel()
	if rerr != nil {
		return nil, apperrors.Unavailable("fetch correlations", rerr)
	}

	forecasts := prediction.Predict(prediction.Input{
		Records:      records,
		Correlations: correlations,
		Now:          now,
		Location:     profile.Location(),
	}, s.cfg.Prediction)

	out = make([]*types.PredictionRecord, 0, len(forecasts))
	for _, f := range forecasts {
		if err = ctx.Err(); err != nil {
			return out, err
		}
		row := f.Record(userID)
		wctx, wcancel := ctxutil.WithTimeout(ctx, s.cfg.Timeouts.Write)
		werr := s.predictions.Create(dbctx.Context{Ctx: wctx}, row)
		wcancel()
		if werr != nil {
			key := fmt.Sprintf("%s/%s/%s", f.Type, f.Horizon, f.TargetDate.Format("2006-01-02"))
			logWriteFailure(s.log, "prediction", userID, key, werr)
			continue
		}
		out = append(out, row)
	}
	s.log.Debug("predictions generated", "user_id", userID.String(), "records", len(records), "predictions", len(out))
	return out, nil
}

func (s *predictionService) ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]*types.PredictionRecord, error) {
	if limit < 0 {
		return nil, apperrors.Invalid("limit must not be negative")
	}
	if _, err := requireProfile(ctx, s.profiles, s.cfg.Timeouts.Read, userID); err != nil {
		return nil, err
	}
	rctx, cancel := ctxutil.WithTimeout(ctx, s.cfg.Timeouts.Read)
	defer cancel()
	rows, err := s.predictions.ListRecent(dbctx.Context{Ctx: rctx}, userID, limit)
	if err != nil {
		return nil, apperrors.Unavailable("fetch predictions", err)
	}
	return rows, nil
}
