package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/vitality-backend/internal/config"
	"github.com/yungbote/vitality-backend/internal/data/repos"
	types "github.com/yungbote/vitality-backend/internal/domain"
	"github.com/yungbote/vitality-backend/internal/platform/dbctx"
	"github.com/yungbote/vitality-backend/internal/platform/logger"
)

var errStoreDown = errors.New("store down")

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func testAnalysisConfig() config.Analysis {
	return config.DefaultAnalysis()
}

type fakeProfiles struct {
	mu      sync.Mutex
	rows    map[uuid.UUID]*types.UserProfile
	getErr  error
	listErr error
}

func newFakeProfiles(rows ...*types.UserProfile) *fakeProfiles {
	f := &fakeProfiles{rows: map[uuid.UUID]*types.UserProfile{}}
	for _, r := range rows {
		f.rows[r.UserID] = r
	}
	return f
}

func (f *fakeProfiles) GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*types.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.rows[userID], nil
}

func (f *fakeProfiles) Upsert(dbc dbctx.Context, row *types.UserProfile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[row.UserID] = row
	return nil
}

func (f *fakeProfiles) ListUserIDs(dbc dbctx.Context) ([]uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]uuid.UUID, 0, len(f.rows))
	for id := range f.rows {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out, nil
}

type fakeRecords struct {
	mu        sync.Mutex
	rows      []*types.HealthRecord
	listErr   error
	createErr error
	lastSince time.Time
}

func (f *fakeRecords) Create(dbc dbctx.Context, rows []*types.HealthRecord) ([]*types.HealthRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	for _, r := range rows {
		if r.ID == uuid.Nil {
			r.ID = uuid.New()
		}
	}
	f.rows = append(f.rows, rows...)
	return rows, nil
}

func (f *fakeRecords) ListSince(dbc dbctx.Context, userID uuid.UUID, since time.Time) ([]*types.HealthRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastSince = since
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*types.HealthRecord
	for _, r := range f.rows {
		if r.UserID == userID && !r.RecordedAt.Before(since) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].RecordedAt.Before(out[j].RecordedAt) })
	return out, nil
}

type fakeCorrelations struct {
	mu         sync.Mutex
	rows       map[string]*types.Correlation
	upsertErr  func(row *types.Correlation) error
	listErr    error
	lastFilter types.CorrelationFilter
}

func newFakeCorrelations(rows ...*types.Correlation) *fakeCorrelations {
	f := &fakeCorrelations{rows: map[string]*types.Correlation{}}
	for _, r := range rows {
		if r.ID == uuid.Nil {
			r.ID = uuid.New()
		}
		f.rows[correlationKey(r)] = r
	}
	return f
}

func correlationKey(r *types.Correlation) string {
	return fmt.Sprintf("%s|%s|%s", r.UserID, r.PrimaryFactor, r.SecondaryFactor)
}

func (f *fakeCorrelations) Upsert(dbc dbctx.Context, row *types.Correlation) (*types.Correlation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upsertErr != nil {
		if err := f.upsertErr(row); err != nil {
			return nil, err
		}
	}
	key := correlationKey(row)
	if existing, ok := f.rows[key]; ok {
		existing.Strength = row.Strength
		existing.Confidence = row.Confidence
		existing.Significance = row.Significance
		existing.Direction = row.Direction
		existing.DataPointCount = row.DataPointCount
		existing.ComputedAt = row.ComputedAt
		cp := *existing
		return &cp, nil
	}
	stored := *row
	stored.ID = uuid.New()
	stored.ValidationStatus = types.ValidationPending
	f.rows[key] = &stored
	cp := stored
	return &cp, nil
}

func (f *fakeCorrelations) List(dbc dbctx.Context, userID uuid.UUID, filter types.CorrelationFilter) ([]*types.Correlation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastFilter = filter
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*types.Correlation
	for _, r := range f.rows {
		if r.UserID != userID {
			continue
		}
		if filter.ValidationStatus != "" && r.ValidationStatus != filter.ValidationStatus {
			continue
		}
		if len(filter.Significance) > 0 {
			ok := false
			for _, s := range filter.Significance {
				if r.Significance == s {
					ok = true
				}
			}
			if !ok {
				continue
			}
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return correlationKey(out[i]) < correlationKey(out[j]) })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (f *fakeCorrelations) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Correlation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeCorrelations) UpdateValidationStatus(dbc dbctx.Context, id uuid.UUID, status types.ValidationStatus) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.ID == id {
			r.ValidationStatus = status
			return true, nil
		}
	}
	return false, nil
}

type fakePredictions struct {
	mu        sync.Mutex
	rows      []*types.PredictionRecord
	createErr func(row *types.PredictionRecord) error
}

func (f *fakePredictions) Create(dbc dbctx.Context, row *types.PredictionRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		if err := f.createErr(row); err != nil {
			return err
		}
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	f.rows = append(f.rows, row)
	return nil
}

func (f *fakePredictions) ListRecent(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.PredictionRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*types.PredictionRecord
	for i := len(f.rows) - 1; i >= 0; i-- {
		if f.rows[i].UserID == userID {
			out = append(out, f.rows[i])
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeMoments struct {
	mu        sync.Mutex
	rows      []*types.MicroMoment
	createErr func(row *types.MicroMoment) error
	listErr   error
	updates   int
}

func (f *fakeMoments) Create(dbc dbctx.Context, row *types.MicroMoment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		if err := f.createErr(row); err != nil {
			return err
		}
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if row.Status == "" {
		row.Status = types.MomentScheduled
	}
	f.rows = append(f.rows, row)
	return nil
}

func (f *fakeMoments) ListSince(dbc dbctx.Context, userID uuid.UUID, since time.Time, filter repos.MomentFilter) ([]*types.MicroMoment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*types.MicroMoment
	for _, m := range f.rows {
		if m.UserID != userID || m.ScheduledFor.Before(since) {
			continue
		}
		if filter.Acknowledged != nil && m.Acknowledged != *filter.Acknowledged {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (f *fakeMoments) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.MicroMoment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.rows {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeMoments) UpdateState(dbc dbctx.Context, row *types.MicroMoment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, m := range f.rows {
		if m.ID == row.ID {
			cp := *row
			f.rows[i] = &cp
			f.updates++
			return nil
		}
	}
	return errors.New("not found")
}

type fakeDispatcher struct {
	mu   sync.Mutex
	sent []uuid.UUID
	fail map[int]bool
	n    int
}

func (d *fakeDispatcher) Name() string { return "fake" }

func (d *fakeDispatcher) Dispatch(ctx context.Context, m *types.MicroMoment) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	i := d.n
	d.n++
	if d.fail[i] {
		return errors.New("dispatch failed")
	}
	d.sent = append(d.sent, m.ID)
	return nil
}

type fakeGraph struct {
	enabled bool
	synced  int
	err     error
}

func (g *fakeGraph) Enabled() bool { return g.enabled }

func (g *fakeGraph) Sync(ctx context.Context, userID uuid.UUID, rows []*types.Correlation) error {
	g.synced += len(rows)
	return g.err
}

func testProfile(name string) *types.UserProfile {
	return &types.UserProfile{
		UserID:           uuid.New(),
		FirstName:        name,
		Timezone:         "UTC",
		PreferredWindows: datatypes.NewJSONType([]types.TimeWindow{}),
	}
}

// dailyRecords builds one daily-summary record per day ending yesterday,
// payload(i) giving the JSON body of day i (oldest first).
func dailyRecords(userID uuid.UUID, now time.Time, n int, payload func(i int) string) []*types.HealthRecord {
	out := make([]*types.HealthRecord, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, &types.HealthRecord{
			ID:         uuid.New(),
			UserID:     userID,
			Category:   types.CategoryDailySummary,
			Source:     types.SourceManual,
			RecordedAt: now.AddDate(0, 0, i-n),
			Data:       datatypes.JSON([]byte(payload(i))),
		})
	}
	return out
}

func fixedNow() time.Time {
	return time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
}
