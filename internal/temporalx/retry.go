package temporalx

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/yungbote/vitality-backend/internal/platform/envutil"
	"github.com/yungbote/vitality-backend/internal/platform/logger"
)

// Retry bounds a startup loop against the Temporal frontend, which may come
// up after this process in local and compose deployments.
type Retry struct {
	MaxWait time.Duration
	Base    time.Duration
	Max     time.Duration
}

// RetryFromEnv reads <prefix>_MAX_WAIT_SECONDS, <prefix>_BACKOFF_MS and
// <prefix>_BACKOFF_MAX_MS.
func RetryFromEnv(prefix string, maxWait time.Duration) Retry {
	return Retry{
		MaxWait: envutil.Seconds(prefix+"_MAX_WAIT_SECONDS", maxWait),
		Base:    envutil.Millis(prefix+"_BACKOFF_MS", 250*time.Millisecond),
		Max:     envutil.Millis(prefix+"_BACKOFF_MAX_MS", 5*time.Second),
	}
}

// Do calls fn until it succeeds, reports a permanent error, MaxWait passes,
// or ctx ends. fn returns retry=false for errors that will not heal.
func (r Retry) Do(ctx context.Context, log *logger.Logger, what string, fn func(ctx context.Context, attempt int) (retry bool, err error)) error {
	deadline := time.Now().Add(r.MaxWait)
	for attempt := 1; ; attempt++ {
		retry, err := fn(ctx, attempt)
		if err == nil {
			if attempt > 1 {
				log.Info(what+" succeeded", "attempts", attempt)
			}
			return nil
		}
		if !retry || time.Now().After(deadline) {
			return fmt.Errorf("%s: %w", what, err)
		}
		log.Warn(what+" failed; retrying", "attempt", attempt, "error", err)
		select {
		case <-ctx.Done():
			return fmt.Errorf("%s: %w", what, ctx.Err())
		case <-time.After(ClampBackoff(r.Base, r.Max, attempt)):
		}
	}
}

// ClampBackoff doubles base per attempt, capped at max.
func ClampBackoff(base time.Duration, max time.Duration, attempt int) time.Duration {
	if base <= 0 {
		base = 250 * time.Millisecond
	}
	sleep := base
	for i := 1; i < attempt; i++ {
		sleep *= 2
		if max > 0 && sleep >= max {
			return max
		}
	}
	if max > 0 && sleep > max {
		return max
	}
	return sleep
}

func isRetryableRPC(err error) bool {
	if err == nil {
		return false
	}
	s, ok := status.FromError(err)
	if !ok {
		return errors.Is(err, context.DeadlineExceeded)
	}
	switch s.Code() {
	case codes.Unavailable, codes.DeadlineExceeded, codes.ResourceExhausted:
		return true
	default:
		return false
	}
}
