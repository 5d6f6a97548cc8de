package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/yungbote/vitality-backend/internal/platform/logger"
)

type AnalysisSummary struct {
	UserID       uuid.UUID `json:"user_id"`
	Correlations int       `json:"correlations"`
	Predictions  int       `json:"predictions"`
	Moments      int       `json:"moments"`
}

// AnalysisService runs the daily per-user pipeline: correlations, then
// predictions (which read the fresh correlations), then micro-moments.
type AnalysisService interface {
	RunUser(ctx context.Context, userID uuid.UUID) (AnalysisSummary, error)
	ListUserIDs(ctx context.Context) ([]uuid.UUID, error)
}

type analysisService struct {
	log          *logger.Logger
	profiles     ProfileService
	correlations CorrelationService
	predictions  PredictionService
	moments      MicroMomentService
}

func NewAnalysisService(log *logger.Logger, profiles ProfileService, correlations CorrelationService, predictions PredictionService, moments MicroMomentService) AnalysisService {
	return &analysisService{
		log:          log.With("service", "AnalysisService"),
		profiles:     profiles,
		correlations: correlations,
		predictions:  predictions,
		moments:      moments,
	}
}

func (s *analysisService) ListUserIDs(ctx context.Context) ([]uuid.UUID, error) {
	return s.profiles.ListUserIDs(ctx)
}

// RunUser stops at the first failing step. Rows written by earlier steps stay;
// the next run recomputes them.
func (s *analysisService) RunUser(ctx context.Context, userID uuid.UUID) (AnalysisSummary, error) {
	sum := AnalysisSummary{UserID: userID}

	corr, err := s.correlations.Analyze(ctx, userID, 0)
	if err != nil {
		return sum, fmt.Errorf("correlations: %w", err)
	}
	sum.Correlations = len(corr)

	if err := ctx.Err(); err != nil {
		return sum, err
	}
	preds, err := s.predictions.Predict(ctx, userID)
	if err != nil {
		return sum, fmt.Errorf("predictions: %w", err)
	}
	sum.Predictions = len(preds)

	if err := ctx.Err(); err != nil {
		return sum, err
	}
	moments, err := s.moments.Schedule(ctx, userID)
	if err != nil {
		return sum, fmt.Errorf("micro-moments: %w", err)
	}
	sum.Moments = len(moments)

	s.log.Info("daily analysis finished",
		"user_id", userID.String(),
		"correlations", sum.Correlations,
		"predictions", sum.Predictions,
		"moments", sum.Moments,
	)
	return sum, nil
}
