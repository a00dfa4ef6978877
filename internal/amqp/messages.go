package amqp

import (
	"encoding/json"
	"time"
)

// SnapshotMessage carries one user's collection snapshot to the worker
// that mirrors it into the local fallback cache. The payload is the full
// JSON-encoded record list; later messages for the same (user, kind)
// supersede earlier ones.
type SnapshotMessage struct {
	UserID    string          `json:"userId"`
	Kind      string          `json:"kind"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
}

func NewSnapshotMessage(userID, kind string, payload []byte) *SnapshotMessage {
	return &SnapshotMessage{
		UserID:    userID,
		Kind:      kind,
		Payload:   json.RawMessage(payload),
		Timestamp: time.Now(),
	}
}

func (m *SnapshotMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func SnapshotMessageFromJSON(data []byte) (*SnapshotMessage, error) {
	var msg SnapshotMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
