package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/gen2brain/beeep"

	"github.com/yungbote/vitality-backend/internal/clients/redis"
	types "github.com/yungbote/vitality-backend/internal/domain"
	"github.com/yungbote/vitality-backend/internal/platform/logger"
)

// NotificationDispatcher hands a persisted moment to the delivery pipeline.
type NotificationDispatcher interface {
	Name() string
	Dispatch(ctx context.Context, m *types.MicroMoment) error
}

const (
	NotifyModeLog     = "log"
	NotifyModeRedis   = "redis"
	NotifyModeDesktop = "desktop"
)

// NewDispatcher picks the dispatcher for mode. redis mode without a bus
// degrades to log.
func NewDispatcher(log *logger.Logger, mode string, bus redis.MomentBus) NotificationDispatcher {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case NotifyModeRedis:
		if bus != nil {
			return &busDispatcher{bus: bus}
		}
		log.Warn("NOTIFY_MODE=redis without a redis client; falling back to log dispatch")
	case NotifyModeDesktop:
		return &desktopDispatcher{notify: beeep.Notify}
	}
	return &logDispatcher{log: log.With("dispatcher", NotifyModeLog)}
}

type logDispatcher struct {
	log *logger.Logger
}

func (d *logDispatcher) Name() string { return NotifyModeLog }

func (d *logDispatcher) Dispatch(ctx context.Context, m *types.MicroMoment) error {
	if m == nil {
		return fmt.Errorf("nil moment")
	}
	d.log.Info("micro-moment ready",
		"moment_id", m.ID.String(),
		"user_id", m.UserID.String(),
		"type", string(m.Type),
		"scheduled_for", m.ScheduledFor,
	)
	return nil
}

type busDispatcher struct {
	bus redis.MomentBus
}

func (d *busDispatcher) Name() string { return NotifyModeRedis }

func (d *busDispatcher) Dispatch(ctx context.Context, m *types.MicroMoment) error {
	return d.bus.Publish(ctx, m)
}

// desktopDispatcher shows the moment immediately on the local desktop. It is
// meant for running the service on a developer machine.
type desktopDispatcher struct {
	notify func(title, message, appIcon string) error
}

func (d *desktopDispatcher) Name() string { return NotifyModeDesktop }

func (d *desktopDispatcher) Dispatch(ctx context.Context, m *types.MicroMoment) error {
	if m == nil {
		return fmt.Errorf("nil moment")
	}
	c := m.Content.Data()
	msg := c.Message
	if c.Action != "" {
		msg = msg + "\n" + c.Action
	}
	return d.notify(c.Title, msg, "")
}
