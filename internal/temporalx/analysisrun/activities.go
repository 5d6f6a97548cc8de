package analysisrun

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.temporal.io/sdk/temporal"

	apperrors "github.com/yungbote/vitality-backend/internal/pkg/errors"
	"github.com/yungbote/vitality-backend/internal/platform/logger"
	"github.com/yungbote/vitality-backend/internal/services"
)

type Activities struct {
	Log      *logger.Logger
	Analysis services.AnalysisService
}

func (a *Activities) ListUsers(ctx context.Context) ([]string, error) {
	if a == nil || a.Analysis == nil {
		return nil, fmt.Errorf("analysisrun: activity not configured")
	}
	ids, err := a.Analysis.ListUserIDs(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out, nil
}

// RunUser runs one user's pipeline. Read failures are retried by Temporal;
// bad ids and unknown users are not.
func (a *Activities) RunUser(ctx context.Context, userID string) (UserResult, error) {
	res := UserResult{UserID: userID}
	if a == nil || a.Analysis == nil {
		return res, fmt.Errorf("analysisrun: activity not configured")
	}
	id, err := uuid.Parse(userID)
	if err != nil {
		return res, temporal.NewNonRetryableApplicationError("invalid user id", "invalid_user_id", err)
	}
	sum, err := a.Analysis.RunUser(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrUnknownUser) || errors.Is(err, apperrors.ErrInvalidArgument) {
			return res, temporal.NewNonRetryableApplicationError(err.Error(), "non_retryable", err)
		}
		if a.Log != nil {
			a.Log.Warn("Analysis activity failed", "user_id", userID, "error", err)
		}
		return res, err
	}
	res.Correlations = sum.Correlations
	res.Predictions = sum.Predictions
	res.Moments = sum.Moments
	return res, nil
}
