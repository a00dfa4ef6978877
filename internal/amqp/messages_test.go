package amqp

import (
	"encoding/json"
	"testing"
)

func TestSnapshotMessageJSON(t *testing.T) {
	payload := []byte(`[{"id":"a","amount":"12.5"}]`)
	msg := NewSnapshotMessage("user-1", "expenseTracker", payload)

	raw, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	got, err := SnapshotMessageFromJSON(raw)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}

	if got.UserID != "user-1" || got.Kind != "expenseTracker" {
		t.Errorf("identity = %s/%s", got.UserID, got.Kind)
	}
	if string(got.Payload) != string(payload) {
		t.Errorf("payload = %s, want %s", got.Payload, payload)
	}
	if got.Timestamp.IsZero() {
		t.Error("timestamp lost in round trip")
	}

	var decoded []map[string]any
	if err := json.Unmarshal(got.Payload, &decoded); err != nil {
		t.Fatalf("payload not valid JSON: %v", err)
	}
}

func TestSnapshotMessageFromJSON_Invalid(t *testing.T) {
	if _, err := SnapshotMessageFromJSON([]byte("not json")); err == nil {
		t.Error("expected error for invalid JSON")
	}
}
