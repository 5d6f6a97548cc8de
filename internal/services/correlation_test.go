package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"

	types "github.com/yungbote/vitality-backend/internal/domain"
	"github.com/yungbote/vitality-backend/internal/modules/correlation"
	apperrors "github.com/yungbote/vitality-backend/internal/pkg/errors"
)

func sleepEnergyPayload(i int) string {
	duration := 6 + float64(i%10)*0.3
	noise := 0.3
	if i%2 == 1 {
		noise = -0.3
	}
	return fmt.Sprintf(`{"sleep":{"duration":%g},"mood":{"energy":%g}}`, duration, 2*duration-7+noise)
}

func newTestCorrelationService(t *testing.T, profiles *fakeProfiles, records *fakeRecords, corr *fakeCorrelations, graph *fakeGraph) *correlationService {
	t.Helper()
	svc := NewCorrelationService(testLogger(t), testAnalysisConfig(), profiles, records, corr, graph).(*correlationService)
	svc.now = fixedNow
	return svc
}

func TestCorrelationAnalyze_UnknownUser(t *testing.T) {
	svc := newTestCorrelationService(t, newFakeProfiles(), &fakeRecords{}, newFakeCorrelations(), nil)
	_, err := svc.Analyze(context.Background(), uuid.New(), 0)
	if !errors.Is(err, apperrors.ErrUnknownUser) {
		t.Fatalf("want ErrUnknownUser, got %v", err)
	}
}

func TestCorrelationAnalyze_ReadFailureIsDataUnavailable(t *testing.T) {
	p := testProfile("Ada")
	svc := newTestCorrelationService(t, newFakeProfiles(p), &fakeRecords{listErr: errStoreDown}, newFakeCorrelations(), nil)
	_, err := svc.Analyze(context.Background(), p.UserID, 0)
	if !errors.Is(err, apperrors.ErrDataUnavailable) || !errors.Is(err, errStoreDown) {
		t.Fatalf("want wrapped ErrDataUnavailable, got %v", err)
	}
}

func TestCorrelationAnalyze_InsufficientDataIsEmpty(t *testing.T) {
	p := testProfile("Ada")
	records := &fakeRecords{rows: dailyRecords(p.UserID, fixedNow(), 9, sleepEnergyPayload)}
	corr := newFakeCorrelations()
	svc := newTestCorrelationService(t, newFakeProfiles(p), records, corr, nil)

	got, err := svc.Analyze(context.Background(), p.UserID, 30)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(got) != 0 || len(corr.rows) != 0 {
		t.Fatalf("expected nothing, got=%d stored=%d", len(got), len(corr.rows))
	}
	if want := fixedNow().AddDate(0, 0, -30); !records.lastSince.Equal(want) {
		t.Fatalf("lookback: want=%v got=%v", want, records.lastSince)
	}
}

func TestCorrelationAnalyze_EndToEndAndIdempotent(t *testing.T) {
	p := testProfile("Ada")
	records := &fakeRecords{rows: dailyRecords(p.UserID, fixedNow(), 30, sleepEnergyPayload)}
	corr := newFakeCorrelations()
	graph := &fakeGraph{enabled: true}
	svc := newTestCorrelationService(t, newFakeProfiles(p), records, corr, graph)
	ctx := context.Background()

	first, err := svc.Analyze(ctx, p.UserID, 0)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(first) != 1 {
		t.Fatalf("want one correlation, got %d", len(first))
	}
	c := first[0]
	if c.PrimaryFactor != "sleep.duration" || c.SecondaryFactor != "mood.energy" {
		t.Fatalf("pair: %s-%s", c.PrimaryFactor, c.SecondaryFactor)
	}
	if c.Significance != types.SignificanceVeryStrong || c.Direction != types.DirectionPositive {
		t.Fatalf("classification: %s %s", c.Significance, c.Direction)
	}
	if c.ValidationStatus != types.ValidationPending || c.DataPointCount != 30 {
		t.Fatalf("stored row: %+v", c)
	}
	if graph.synced != 1 {
		t.Fatalf("graph sync: want=1 got=%d", graph.synced)
	}

	second, err := svc.Analyze(ctx, p.UserID, 0)
	if err != nil {
		t.Fatalf("second Analyze: %v", err)
	}
	if len(corr.rows) != 1 {
		t.Fatalf("identity key must not duplicate rows, got %d", len(corr.rows))
	}
	if second[0].ID != c.ID || second[0].Strength != c.Strength {
		t.Fatalf("second run changed identity or value: %+v vs %+v", second[0], c)
	}

	insights, err := svc.DeriveInsights(ctx, p.UserID)
	if err != nil {
		t.Fatalf("DeriveInsights: %v", err)
	}
	if len(insights) != 1 || insights[0].PotentialImpact != correlation.ImpactHigh {
		t.Fatalf("insights: %+v", insights)
	}
}

func TestCorrelationAnalyze_WriteFailureIsIsolated(t *testing.T) {
	p := testProfile("Ada")
	payload := func(i int) string {
		x := float64(i%10) * 0.5
		return fmt.Sprintf(`{"sleep":{"duration":%g},"mood":{"energy":%g,"overall":%g}}`, 5+x, 2+x, 3+x*1.5)
	}
	records := &fakeRecords{rows: dailyRecords(p.UserID, fixedNow(), 20, payload)}
	corr := newFakeCorrelations()
	corr.upsertErr = func(row *types.Correlation) error {
		if row.PrimaryFactor == "sleep.duration" && row.SecondaryFactor == "mood.overall" {
			return errStoreDown
		}
		return nil
	}
	svc := newTestCorrelationService(t, newFakeProfiles(p), records, corr, nil)

	got, err := svc.Analyze(context.Background(), p.UserID, 0)
	if err != nil {
		t.Fatalf("write failures must not fail the run: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("want 2 surviving correlations, got %d", len(got))
	}
	for _, c := range got {
		if c.SecondaryFactor == "mood.overall" && c.PrimaryFactor == "sleep.duration" {
			t.Fatalf("failed pair must not be returned")
		}
	}
}

func TestCorrelationSetValidation(t *testing.T) {
	p := testProfile("Ada")
	row := &types.Correlation{
		UserID:           p.UserID,
		PrimaryFactor:    "sleep.duration",
		SecondaryFactor:  "mood.energy",
		Strength:         0.7,
		Significance:     types.SignificanceStrong,
		Direction:        types.DirectionPositive,
		ValidationStatus: types.ValidationPending,
	}
	corr := newFakeCorrelations(row)
	svc := newTestCorrelationService(t, newFakeProfiles(p), &fakeRecords{}, corr, nil)
	ctx := context.Background()

	if _, err := svc.SetValidation(ctx, row.ID, "maybe"); !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Fatalf("want ErrInvalidArgument, got %v", err)
	}
	if _, err := svc.SetValidation(ctx, uuid.New(), types.ValidationConfirmed); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	got, err := svc.SetValidation(ctx, row.ID, types.ValidationConfirmed)
	if err != nil {
		t.Fatalf("SetValidation: %v", err)
	}
	if got.ValidationStatus != types.ValidationConfirmed {
		t.Fatalf("status: want=confirmed got=%s", got.ValidationStatus)
	}
}

func TestCorrelationList_RejectsUnknownSignificance(t *testing.T) {
	p := testProfile("Ada")
	svc := newTestCorrelationService(t, newFakeProfiles(p), &fakeRecords{}, newFakeCorrelations(), nil)
	_, err := svc.List(context.Background(), p.UserID, types.CorrelationFilter{Significance: []types.Significance{"huge"}})
	if !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Fatalf("want ErrInvalidArgument, got %v", err)
	}
}
