package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/vitality-backend/internal/clients/redis"
	types "github.com/yungbote/vitality-backend/internal/domain"
)

type recordingBus struct {
	published []uuid.UUID
}

func (b *recordingBus) Publish(ctx context.Context, m *types.MicroMoment) error {
	b.published = append(b.published, m.ID)
	return nil
}

func (b *recordingBus) StartResponseForwarder(ctx context.Context, onEvent func(ctx context.Context, ev redis.MomentResponseEvent)) error {
	return nil
}

func (b *recordingBus) Close() error { return nil }

func TestNewDispatcher_Modes(t *testing.T) {
	log := testLogger(t)
	bus := &recordingBus{}

	cases := []struct {
		mode string
		bus  redis.MomentBus
		want string
	}{
		{"", nil, NotifyModeLog},
		{"log", bus, NotifyModeLog},
		{"REDIS", bus, NotifyModeRedis},
		{"redis", nil, NotifyModeLog},
		{"desktop", nil, NotifyModeDesktop},
	}
	for _, tc := range cases {
		if got := NewDispatcher(log, tc.mode, tc.bus).Name(); got != tc.want {
			t.Fatalf("mode %q: want=%s got=%s", tc.mode, tc.want, got)
		}
	}

	m := &types.MicroMoment{ID: uuid.New()}
	if err := NewDispatcher(log, "redis", bus).Dispatch(context.Background(), m); err != nil {
		t.Fatalf("bus dispatch: %v", err)
	}
	if len(bus.published) != 1 || bus.published[0] != m.ID {
		t.Fatalf("published: %v", bus.published)
	}
}

func TestDesktopDispatcher_FormatsContent(t *testing.T) {
	var title, body string
	d := &desktopDispatcher{notify: func(t, msg, icon string) error {
		title, body = t, msg
		return nil
	}}
	m := &types.MicroMoment{Content: datatypes.NewJSONType(types.MomentContent{
		Title:   "Take a breath",
		Message: "Hi Ada",
		Action:  "Breathe",
	})}
	if err := d.Dispatch(context.Background(), m); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if title != "Take a breath" || body != "Hi Ada\nBreathe" {
		t.Fatalf("notification: title=%q body=%q", title, body)
	}

	d.notify = func(string, string, string) error { return errors.New("no display") }
	if err := d.Dispatch(context.Background(), m); err == nil {
		t.Fatalf("expected notifier error to propagate")
	}
}
