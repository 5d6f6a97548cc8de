package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/yungbote/vitality-backend/internal/pkg/errors"
	"github.com/yungbote/vitality-backend/internal/platform/logger"
	"github.com/yungbote/vitality-backend/internal/services"
)

type fakeAnalysis struct {
	ids     []uuid.UUID
	listErr error
	fail    map[uuid.UUID]error
	panics  map[uuid.UUID]bool

	mu  sync.Mutex
	ran []uuid.UUID
}

func (f *fakeAnalysis) ListUserIDs(ctx context.Context) ([]uuid.UUID, error) {
	return f.ids, f.listErr
}

func (f *fakeAnalysis) RunUser(ctx context.Context, userID uuid.UUID) (services.AnalysisSummary, error) {
	f.mu.Lock()
	f.ran = append(f.ran, userID)
	f.mu.Unlock()
	if f.panics[userID] {
		panic("boom")
	}
	if err := f.fail[userID]; err != nil {
		return services.AnalysisSummary{}, err
	}
	return services.AnalysisSummary{UserID: userID, Correlations: 1}, nil
}

func TestRunBatch_IsolatesUserFailures(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New(), uuid.New()}
	fa := &fakeAnalysis{
		ids:    ids,
		fail:   map[uuid.UUID]error{ids[1]: apperrors.Unavailable("fetch health records", errors.New("timeout"))},
		panics: map[uuid.UUID]bool{ids[2]: true},
	}
	r := NewAnalysisRunner(logger.Nop(), fa, Config{Concurrency: 2, Interval: time.Hour})

	res, err := r.RunBatch(context.Background())
	if err != nil {
		t.Fatalf("RunBatch: %v", err)
	}
	if res.Users != 4 || res.Succeeded != 2 || res.Failed != 2 {
		t.Fatalf("result: %+v", res)
	}
	if len(fa.ran) != 4 {
		t.Fatalf("every user must run, ran=%d", len(fa.ran))
	}
}

func TestRunBatch_ListFailure(t *testing.T) {
	fa := &fakeAnalysis{listErr: apperrors.ErrDataUnavailable}
	r := NewAnalysisRunner(logger.Nop(), fa, Config{})
	if _, err := r.RunBatch(context.Background()); !errors.Is(err, apperrors.ErrDataUnavailable) {
		t.Fatalf("want ErrDataUnavailable, got %v", err)
	}
}

func TestRunBatch_CancelledContextSkipsUsers(t *testing.T) {
	fa := &fakeAnalysis{ids: []uuid.UUID{uuid.New(), uuid.New()}}
	r := NewAnalysisRunner(logger.Nop(), fa, Config{Concurrency: 1})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.RunBatch(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
	if len(fa.ran) != 0 {
		t.Fatalf("no user should run after cancellation, ran=%d", len(fa.ran))
	}
}
