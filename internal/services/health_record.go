package services

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/vitality-backend/internal/config"
	"github.com/yungbote/vitality-backend/internal/data/repos"
	types "github.com/yungbote/vitality-backend/internal/domain"
	apperrors "github.com/yungbote/vitality-backend/internal/pkg/errors"
	"github.com/yungbote/vitality-backend/internal/platform/ctxutil"
	"github.com/yungbote/vitality-backend/internal/platform/dbctx"
	"github.com/yungbote/vitality-backend/internal/platform/logger"
)

const maxRecordBatch = 500

type HealthRecordInput struct {
	Category  types.HealthCategory `json:"category"`
	Source    string               `json:"source"`
	Timestamp time.Time            `json:"timestamp"`
	Data      json.RawMessage      `json:"data"`
}

type HealthRecordService interface {
	Ingest(ctx context.Context, userID uuid.UUID, in []HealthRecordInput) ([]*types.HealthRecord, error)
	List(ctx context.Context, userID uuid.UUID, days int) ([]*types.HealthRecord, error)
}

type healthRecordService struct {
	log      *logger.Logger
	timeouts config.Timeouts
	profiles repos.UserProfileRepo
	records  repos.HealthRecordRepo
	now      func() time.Time
}

func NewHealthRecordService(log *logger.Logger, timeouts config.Timeouts, profiles repos.UserProfileRepo, records repos.HealthRecordRepo) HealthRecordService {
	return &healthRecordService{
		log:      log.With("service", "HealthRecordService"),
		timeouts: timeouts,
		profiles: profiles,
		records:  records,
		now:      time.Now,
	}
}

func validSource(s string) bool {
	switch s {
	case types.SourceManual, types.SourceFitbit, types.SourceGoogleFit, types.SourceAppleHealth:
		return true
	default:
		return false
	}
}

// Ingest appends a batch. The batch is validated as a whole before anything
// is written.
func (s *healthRecordService) Ingest(ctx context.Context, userID uuid.UUID, in []HealthRecordInput) ([]*types.HealthRecord, error) {
	if len(in) == 0 {
		return nil, apperrors.Invalid("at least one record is required")
	}
	if len(in) > maxRecordBatch {
		return nil, apperrors.Invalid("at most %d records per batch", maxRecordBatch)
	}
	if _, err := requireProfile(ctx, s.profiles, s.timeouts.Read, userID); err != nil {
		return nil, err
	}

	rows := make([]*types.HealthRecord, 0, len(in))
	for i, item := range in {
		if !item.Category.Valid() {
			return nil, apperrors.Invalid("record %d: unknown category %q", i, item.Category)
		}
		source := item.Source
		if source == "" {
			source = types.SourceManual
		}
		if !validSource(source) {
			return nil, apperrors.Invalid("record %d: unknown source %q", i, source)
		}
		if item.Timestamp.IsZero() {
			return nil, apperrors.Invalid("record %d: timestamp is required", i)
		}
		data := bytes.TrimSpace(item.Data)
		if len(data) == 0 || data[0] != '{' || !json.Valid(data) {
			return nil, apperrors.Invalid("record %d: data must be a JSON object", i)
		}
		rows = append(rows, &types.HealthRecord{
			UserID:     userID,
			Category:   item.Category,
			Source:     source,
			RecordedAt: item.Timestamp,
			Data:       datatypes.JSON(data),
		})
	}

	wctx, cancel := ctxutil.WithTimeout(ctx, s.timeouts.Write)
	defer cancel()
	created, err := s.records.Create(dbctx.Context{Ctx: wctx}, rows)
	if err != nil {
		s.log.Error("health record insert failed", "user_id", userID.String(), "count", len(rows), "error", err)
		return nil, err
	}
	return created, nil
}

func (s *healthRecordService) List(ctx context.Context, userID uuid.UUID, days int) ([]*types.HealthRecord, error) {
	if days <= 0 {
		days = 30
	}
	if _, err := requireProfile(ctx, s.profiles, s.timeouts.Read, userID); err != nil {
		return nil, err
	}
	rctx, cancel := ctxutil.WithTimeout(ctx, s.timeouts.Read)
	defer cancel()
	rows, err := s.records.ListSince(dbctx.Context{Ctx: rctx}, userID, s.now().AddDate(0, 0, -days))
	if err != nil {
		return nil, apperrors.Unavailable("fetch health records", err)
	}
	return rows, nil
}
