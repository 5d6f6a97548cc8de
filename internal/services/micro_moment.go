package services

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/vitality-backend/internal/config"
	"github.com/yungbote/vitality-backend/internal/data/repos"
	types "github.com/yungbote/vitality-backend/internal/domain"
	"github.com/yungbote/vitality-backend/internal/modules/micromoment"
	"github.com/yungbote/vitality-backend/internal/observability"
	apperrors "github.com/yungbote/vitality-backend/internal/pkg/errors"
	"github.com/yungbote/vitality-backend/internal/platform/ctxutil"
	"github.com/yungbote/vitality-backend/internal/platform/dbctx"
	"github.com/yungbote/vitality-backend/internal/platform/logger"
	"github.com/yungbote/vitality-backend/internal/platform/weather"
)

type MomentResponseInput struct {
	Status   types.MomentStatus `json:"status"`
	Rating   *int               `json:"rating"`
	Feedback string             `json:"feedback"`
	At       *time.Time         `json:"at"`
}

type MicroMomentService interface {
	// Schedule plans, persists and dispatches today's moments for the user.
	Schedule(ctx context.Context, userID uuid.UUID) ([]*types.MicroMoment, error)
	List(ctx context.Context, userID uuid.UUID, days int) ([]*types.MicroMoment, error)
	RecordResponse(ctx context.Context, momentID uuid.UUID, in MomentResponseInput) (*types.MicroMoment, error)
}

type microMomentService struct {
	log          *logger.Logger
	cfg          config.Analysis
	profiles     repos.UserProfileRepo
	records      repos.HealthRecordRepo
	correlations repos.CorrelationRepo
	moments      repos.MicroMomentRepo
	weather      weather.Provider
	dispatcher   NotificationDispatcher
	now          func() time.Time
	newRand      func() *rand.Rand
}

func NewMicroMomentService(
	log *logger.Logger,
	cfg config.Analysis,
	profiles repos.UserProfileRepo,
	records repos.HealthRecordRepo,
	correlations repos.CorrelationRepo,
	moments repos.MicroMomentRepo,
	weatherProvider weather.Provider,
	dispatcher NotificationDispatcher,
) MicroMomentService {
	return &microMomentService{
		log:          log.With("service", "MicroMomentService"),
		cfg:          cfg,
		profiles:     profiles,
		records:      records,
		correlations: correlations,
		moments:      moments,
		weather:      weatherProvider,
		dispatcher:   dispatcher,
		now:          time.Now,
		newRand: func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
	}
}

func (s *microMomentService) Schedule(ctx context.Context, userID uuid.UUID) (out []*types.MicroMoment, err error) {
	started := time.Now()
	ctx, span := startSpan(ctx, "micromoment.schedule", userID)
	defer func() { finishRun(span, "micromoment", started, len(out), err) }()

	profile, err := requireProfile(ctx, s.profiles, s.cfg.Timeouts.Read, userID)
	if err != nil {
		return nil, err
	}
	loc := profile.Location()
	now := s.now().In(loc)
	sc := s.cfg.Scheduling

	rctx, cancel := ctxutil.WithTimeout(ctx, s.cfg.Timeouts.Read)
	records, rerr := s.records.ListSince(dbctx.Context{Ctx: rctx}, userID, now.Add(-time.Duration(sc.CurrentStateHours)*time.Hour))
	cancel()
	if rerr != nil {
		return nil, apperrors.Unavailable("fetch health records", rerr)
	}

	rctx, cancel = ctxutil.WithTimeout(ctx, s.cfg.Timeouts.Read)
	history, rerr := s.moments.ListSince(dbctx.Context{Ctx: rctx}, userID, now.AddDate(0, 0, -sc.HistoryDays), repos.MomentFilter{})
	cancel()
	if rerr != nil {
		return nil, apperrors.Unavailable("fetch micro-moments", rerr)
	}

	rctx, cancel = ctxutil.WithTimeout(ctx, s.cfg.Timeouts.Read)
	correlations, rerr := s.correlations.List(dbctx.Context{Ctx: rctx}, userID, types.CorrelationFilter{
		Significance:     []types.Significance{types.SignificanceStrong, types.SignificanceVeryStrong},
		ValidationStatus: types.ValidationConfirmed,
		Limit:            sc.CorrelationLimit,
	})
	cancel()
	if rerr != nil {
		return nil, apperrors.Unavailable("fetch correlations", rerr)
	}

	state := micromoment.CurrentState(records, now, loc, s.currentWeather(ctx, profile), sc)
	pattern := micromoment.AnalyzePatterns(history, loc, sc)
	plans := micromoment.Schedule(micromoment.Input{
		State:        state,
		Pattern:      pattern,
		Correlations: correlations,
		Preferred:    profile.PreferredWindows.Data(),
		FirstName:    profile.DisplayName(),
		Location:     loc,
	}, sc, s.newRand())

	out = make([]*types.MicroMoment, 0, len(plans))
	for _, p := range plans {
		if err = ctx.Err(); err != nil {
			return out, err
		}
		m := p.Moment(userID)
		wctx, wcancel := ctxutil.WithTimeout(ctx, s.cfg.Timeouts.Write)
		werr := s.moments.Create(dbctx.Context{Ctx: wctx}, m)
		wcancel()
		if werr != nil {
			logWriteFailure(s.log, "micro_moment", userID, fmt.Sprintf("%s@%s", m.Type, m.ScheduledFor.UTC().Format(time.RFC3339)), werr)
			continue
		}
		out = append(out, m)
		s.dispatch(ctx, m)
	}
	s.log.Debug("micro-moments scheduled",
		"user_id", userID.String(),
		"windows", len(plans),
		"moments", len(out),
		"response_rate", pattern.ResponseRate,
	)
	return out, nil
}

// currentWeather is best effort; a missing location or provider failure
// yields nil.
func (s *microMomentService) currentWeather(ctx context.Context, profile *types.UserProfile) *micromoment.Weather {
	if s.weather == nil || !profile.HasCoordinates() {
		return nil
	}
	wctx, cancel := ctxutil.WithTimeout(ctx, s.cfg.Timeouts.Weather)
	defer cancel()
	cond, err := s.weather.Current(wctx, *profile.Latitude, *profile.Longitude)
	if err != nil {
		s.log.Warn("weather lookup failed (continuing)", "user_id", profile.UserID.String(), "error", err)
		return nil
	}
	if cond == nil {
		return nil
	}
	return &micromoment.Weather{Condition: cond.Condition, Temperature: cond.Temperature}
}

func (s *microMomentService) dispatch(ctx context.Context, m *types.MicroMoment) {
	if s.dispatcher == nil {
		return
	}
	dctx, cancel := ctxutil.WithTimeout(ctx, s.cfg.Timeouts.Dispatch)
	defer cancel()
	if err := s.dispatcher.Dispatch(dctx, m); err != nil {
		s.log.Warn("micro-moment dispatch failed",
			"moment_id", m.ID.String(),
			"user_id", m.UserID.String(),
			"dispatcher", s.dispatcher.Name(),
			"error", err,
		)
		observability.Current().IncDispatch(s.dispatcher.Name(), "error")
		return
	}
	observability.Current().IncDispatch(s.dispatcher.Name(), "ok")
}

func (s *microMomentService) List(ctx context.Context, userID uuid.UUID, days int) ([]*types.MicroMoment, error) {
	if days <= 0 {
		days = s.cfg.Scheduling.HistoryDays
	}
	if _, err := requireProfile(ctx, s.profiles, s.cfg.Timeouts.Read, userID); err != nil {
		return nil, err
	}
	rctx, cancel := ctxutil.WithTimeout(ctx, s.cfg.Timeouts.Read)
	defer cancel()
	rows, err := s.moments.ListSince(dbctx.Context{Ctx: rctx}, userID, s.now().AddDate(0, 0, -days), repos.MomentFilter{})
	if err != nil {
		return nil, apperrors.Unavailable("fetch micro-moments", err)
	}
	return rows, nil
}

// RecordResponse applies one delivery-pipeline transition. Anything the
// state machine forbids is ErrInvalidTransition.
func (s *microMomentService) RecordResponse(ctx context.Context, momentID uuid.UUID, in MomentResponseInput) (*types.MicroMoment, error) {
	if momentID == uuid.Nil {
		return nil, apperrors.Invalid("moment id is required")
	}
	switch in.Status {
	case types.MomentDelivered, types.MomentAcknowledged, types.MomentIgnored, types.MomentCompleted, types.MomentDismissed:
	default:
		return nil, apperrors.Invalid("unknown response status %q", in.Status)
	}
	if in.Rating != nil && (*in.Rating < 1 || *in.Rating > 5) {
		return nil, apperrors.Invalid("rating must be between 1 and 5")
	}

	rctx, cancel := ctxutil.WithTimeout(ctx, s.cfg.Timeouts.Read)
	m, err := s.moments.GetByID(dbctx.Context{Ctx: rctx}, momentID)
	cancel()
	if err != nil {
		return nil, apperrors.Unavailable("fetch micro-moment", err)
	}
	if m == nil || !ctxutil.ActorMayAccess(ctx, m.UserID) {
		return nil, apperrors.ErrNotFound
	}

	at := s.now()
	if in.At != nil && !in.At.IsZero() {
		at = *in.At
	}
	from := m.Status
	if !m.Advance(in.Status, at) {
		return nil, fmt.Errorf("%w: %s -> %s", apperrors.ErrInvalidTransition, from, in.Status)
	}
	if in.Status != types.MomentDelivered {
		resp := datatypes.NewJSONType(types.MomentResponse{
			Status:      in.Status,
			Rating:      in.Rating,
			Feedback:    in.Feedback,
			RespondedAt: at.UTC(),
		})
		m.Response = &resp
	}

	wctx, wcancel := ctxutil.WithTimeout(ctx, s.cfg.Timeouts.Write)
	defer wcancel()
	if err := s.moments.UpdateState(dbctx.Context{Ctx: wctx}, m); err != nil {
		s.log.Error("micro-moment state update failed", "moment_id", momentID.String(), "status", string(in.Status), "error", err)
		return nil, err
	}
	return m, nil
}
