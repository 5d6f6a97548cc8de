package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	types "github.com/yungbote/vitality-backend/internal/domain"
	"github.com/yungbote/vitality-backend/internal/platform/envutil"
	"github.com/yungbote/vitality-backend/internal/platform/logger"
)

// MomentNotification is what the delivery pipeline receives per moment.
type MomentNotification struct {
	MomentID     uuid.UUID           `json:"moment_id"`
	UserID       uuid.UUID           `json:"user_id"`
	Type         types.MomentType    `json:"type"`
	ScheduledFor time.Time           `json:"scheduled_for"`
	WindowStart  time.Time           `json:"window_start"`
	WindowEnd    time.Time           `json:"window_end"`
	Content      types.MomentContent `json:"content"`
}

// MomentResponseEvent is posted back by the delivery pipeline.
type MomentResponseEvent struct {
	MomentID uuid.UUID          `json:"moment_id"`
	Status   types.MomentStatus `json:"status"`
	Rating   *int               `json:"rating,omitempty"`
	Feedback string             `json:"feedback,omitempty"`
	At       time.Time          `json:"at"`
}

type MomentBus interface {
	Publish(ctx context.Context, m *types.MicroMoment) error
	StartResponseForwarder(ctx context.Context, onEvent func(ctx context.Context, ev MomentResponseEvent)) error
	Close() error
}

type momentBus struct {
	log             *logger.Logger
	rdb             *goredis.Client
	channel         string
	responseChannel string
}

func NewMomentBus(rdb *goredis.Client, log *logger.Logger) (MomentBus, error) {
	if rdb == nil {
		return nil, fmt.Errorf("redis client required")
	}
	return &momentBus{
		log:             log.With("service", "RedisMomentBus"),
		rdb:             rdb,
		channel:         envutil.String("REDIS_MOMENT_CHANNEL", "micro-moments"),
		responseChannel: envutil.String("REDIS_MOMENT_RESPONSE_CHANNEL", "micro-moments.responses"),
	}, nil
}

func NotificationFor(m *types.MicroMoment) MomentNotification {
	return MomentNotification{
		MomentID:     m.ID,
		UserID:       m.UserID,
		Type:         m.Type,
		ScheduledFor: m.ScheduledFor,
		WindowStart:  m.WindowStart,
		WindowEnd:    m.WindowEnd,
		Content:      m.Content.Data(),
	}
}

func (b *momentBus) Publish(ctx context.Context, m *types.MicroMoment) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("redis moment bus not initialized")
	}
	if m == nil {
		return nil
	}
	raw, err := json.Marshal(NotificationFor(m))
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, b.channel, raw).Err()
}

func (b *momentBus) StartResponseForwarder(ctx context.Context, onEvent func(ctx context.Context, ev MomentResponseEvent)) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("redis moment bus not initialized")
	}
	if onEvent == nil {
		return fmt.Errorf("onEvent callback required")
	}

	sub := b.rdb.Subscribe(ctx, b.responseChannel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis subscribe: %w", err)
	}

	go func() {
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				_ = sub.Close()
				return
			case m, ok := <-ch:
				if !ok || m == nil {
					_ = sub.Close()
					return
				}
				ev, err := DecodeResponseEvent([]byte(m.Payload))
				if err != nil {
					b.log.Warn("bad moment response payload", "error", err)
					continue
				}
				onEvent(ctx, ev)
			}
		}
	}()
	return nil
}

func DecodeResponseEvent(raw []byte) (MomentResponseEvent, error) {
	var ev MomentResponseEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		return MomentResponseEvent{}, err
	}
	if ev.MomentID == uuid.Nil {
		return MomentResponseEvent{}, fmt.Errorf("missing moment_id")
	}
	if ev.Status == "" {
		return MomentResponseEvent{}, fmt.Errorf("missing status")
	}
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	return ev, nil
}

func (b *momentBus) Close() error {
	if b == nil || b.rdb == nil {
		return nil
	}
	return b.rdb.Close()
}
