package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/vitality-backend/internal/data/repos"
	"github.com/yungbote/vitality-backend/internal/data/storeerr"
	types "github.com/yungbote/vitality-backend/internal/domain"
	"github.com/yungbote/vitality-backend/internal/observability"
	apperrors "github.com/yungbote/vitality-backend/internal/pkg/errors"
	"github.com/yungbote/vitality-backend/internal/platform/ctxutil"
	"github.com/yungbote/vitality-backend/internal/platform/dbctx"
	"github.com/yungbote/vitality-backend/internal/platform/logger"
)

const tracerName = "github.com/yungbote/vitality-backend/internal/services"

// requireProfile resolves the user directory entry. A missing profile is
// ErrUnknownUser; a failed read is ErrDataUnavailable.
func requireProfile(ctx context.Context, profiles repos.UserProfileRepo, timeout time.Duration, userID uuid.UUID) (*types.UserProfile, error) {
	if userID == uuid.Nil {
		return nil, apperrors.ErrUnknownUser
	}
	rctx, cancel := ctxutil.WithTimeout(ctx, timeout)
	defer cancel()
	profile, err := profiles.GetByUserID(dbctx.Context{Ctx: rctx}, userID)
	if err != nil {
		return nil, apperrors.Unavailable("fetch user profile", err)
	}
	if profile == nil {
		return nil, apperrors.ErrUnknownUser
	}
	return profile, nil
}

// logWriteFailure reports one failed upsert/insert without aborting the batch.
func logWriteFailure(log *logger.Logger, kind string, userID uuid.UUID, key string, err error) {
	class := storeerr.Classify(err)
	log.Warn("partial write failure",
		"kind", kind,
		"user_id", userID.String(),
		"key", key,
		"class", string(class),
		"error", err,
	)
	observability.Current().IncWriteFailure(kind, string(class))
}

func startSpan(ctx context.Context, name string, userID uuid.UUID) (context.Context, trace.Span) {
	ctx, span := observability.Tracer(tracerName).Start(ctx, name)
	span.SetAttributes(attribute.String("user.id", userID.String()))
	return ctx, span
}

// finishRun closes the span and records the run outcome.
func finishRun(span trace.Span, kind string, started time.Time, outputs int, err error) {
	status := "ok"
	if err != nil {
		status = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.SetAttributes(attribute.Int("outputs", outputs))
	span.End()
	observability.Current().ObserveAnalysis(kind, status, outputs, time.Since(started))
}
