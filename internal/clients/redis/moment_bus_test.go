package redis

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	types "github.com/yungbote/vitality-backend/internal/domain"
)

func TestNotificationFor_CarriesContent(t *testing.T) {
	m := &types.MicroMoment{
		ID:           uuid.New(),
		UserID:       uuid.New(),
		Type:         types.MomentHydrationReminder,
		ScheduledFor: time.Date(2026, 3, 4, 14, 20, 0, 0, time.UTC),
		Content:      datatypes.NewJSONType(types.MomentContent{Title: "Time to hydrate"}),
	}
	raw, err := json.Marshal(NotificationFor(m))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back map[string]any
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back["type"] != "hydration-reminder" {
		t.Fatalf("type: %v", back["type"])
	}
	content, _ := back["content"].(map[string]any)
	if content["title"] != "Time to hydrate" {
		t.Fatalf("content: %v", back["content"])
	}
}

func TestDecodeResponseEvent(t *testing.T) {
	id := uuid.New()
	ev, err := DecodeResponseEvent([]byte(`{"moment_id":"` + id.String() + `","status":"acknowledged"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ev.MomentID != id || ev.Status != types.MomentAcknowledged || ev.At.IsZero() {
		t.Fatalf("unexpected event %+v", ev)
	}
	if _, err := DecodeResponseEvent([]byte(`{"status":"acknowledged"}`)); err == nil {
		t.Fatalf("expected missing id error")
	}
	if _, err := DecodeResponseEvent([]byte(`{"moment_id":"` + id.String() + `"}`)); err == nil {
		t.Fatalf("expected missing status error")
	}
	if _, err := DecodeResponseEvent([]byte(`not json`)); err == nil {
		t.Fatalf("expected json error")
	}
}
