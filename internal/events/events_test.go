package events_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/fieldscope/fieldscope/internal/events"
)

func TestNewStampsEvent(t *testing.T) {
	before := time.Now()
	e := events.New(events.ObservationCreated, map[string]string{"id": "abc"})

	if e.Type != events.ObservationCreated {
		t.Errorf("Type = %q, want observation.created", e.Type)
	}
	if e.EmittedAt.Before(before) {
		t.Errorf("EmittedAt = %v, want >= %v", e.EmittedAt, before)
	}
}

func TestEventJSONShape(t *testing.T) {
	e := events.New(events.PointsAwarded, map[string]int{"points": 10})

	data, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if m["type"] != "points.awarded" {
		t.Errorf("type = %v, want points.awarded", m["type"])
	}
	if _, ok := m["payload"]; !ok {
		t.Error("payload field missing")
	}
	if _, ok := m["emitted_at"]; !ok {
		t.Error("emitted_at field missing")
	}
}

func TestDiscardPublish(t *testing.T) {
	var b events.Broadcaster = events.Discard{}
	// Must not panic or block.
	for i := 0; i < 1000; i++ {
		b.Publish(events.New(events.ClientCount, i))
	}
}
