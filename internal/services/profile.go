package services

import (
	"context"
	"strings"
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

type ProfileInput struct {
	FirstName        string             `json:"first_name"`
	Timezone         string             `json:"timezone"`
	Latitude         *float64           `json:"latitude"`
	Longitude        *float64           `json:"longitude"`
	PreferredWindows []types.TimeWindow `json:"preferred_windows"`
}

type ProfileService interface {
	Upsert(ctx context.Context, userID uuid.UUID, in ProfileInput) (*types.UserProfile, error)
	Get(ctx context.Context, userID uuid.UUID) (*types.UserProfile, error)
	ListUserIDs(ctx context.Context) ([]uuid.UUID, error)
}

type profileService struct {
	log      *logger.Logger
	timeouts config.Timeouts
	profiles repos.UserProfileRepo
}

func NewProfileService(log *logger.Logger, timeouts config.Timeouts, profiles repos.UserProfileRepo) ProfileService {
	return &profileService{
		log:      log.With("service", "ProfileService"),
		timeouts: timeouts,
		profiles: profiles,
	}
}

func (s *profileService) Upsert(ctx context.Context, userID uuid.UUID, in ProfileInput) (*types.UserProfile, error) {
	if userID == uuid.Nil {
		return nil, apperrors.Invalid("user id is required")
	}
	tz := strings.TrimSpace(in.Timezone)
	if tz == "" {
		tz = "UTC"
	}
	if _, err := time.LoadLocation(tz); err != nil {
		return nil, apperrors.Invalid("unknown timezone %q", tz)
	}
	if (in.Latitude == nil) != (in.Longitude == nil) {
		return nil, apperrors.Invalid("latitude and longitude must be set together")
	}
	if in.Latitude != nil && (*in.Latitude < -90 || *in.Latitude > 90) {
		return nil, apperrors.Invalid("latitude out of range")
	}
	if in.Longitude != nil && (*in.Longitude < -180 || *in.Longitude > 180) {
		return nil, apperrors.Invalid("longitude out of range")
	}
	windows := make([]types.TimeWindow, 0, len(in.PreferredWindows))
	for _, w := range in.PreferredWindows {
		if w.Start < 0 || w.End > 24 || w.End < w.Start {
			return nil, apperrors.Invalid("preferred window %d-%d is not within 0-24", w.Start, w.End)
		}
		windows = append(windows, types.TimeWindow{Start: w.Start, End: w.End})
	}

	row := &types.UserProfile{
		UserID:           userID,
		FirstName:        strings.TrimSpace(in.FirstName),
		Timezone:         tz,
		Latitude:         in.Latitude,
		Longitude:        in.Longitude,
		PreferredWindows: datatypes.NewJSONType(windows),
	}
	wctx, cancel := ctxutil.WithTimeout(ctx, s.timeouts.Write)
	defer cancel()
	if err := s.profiles.Upsert(dbctx.Context{Ctx: wctx}, row); err != nil {
		s.log.Error("profile upsert failed", "user_id", userID.String(), "error", err)
		return nil, err
	}
	return row, nil
}

func (s *profileService) Get(ctx context.Context, userID uuid.UUID) (*types.UserProfile, error) {
	return requireProfile(ctx, s.profiles, s.timeouts.Read, userID)
}

func (s *profileService) ListUserIDs(ctx context.Context) ([]uuid.UUID, error) {
	rctx, cancel := ctxutil.WithTimeout(ctx, s.timeouts.Read)
	defer cancel()
	ids, err := s.profiles.ListUserIDs(dbctx.Context{Ctx: rctx})
	if err != nil {
		return nil, apperrors.Unavailable("list user ids", err)
	}
	return ids, nil
}
