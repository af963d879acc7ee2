package amqp

import (
	"encoding/json"
	"errors"
	"time"
)

// SnapshotSavedMessage announces that a new state reached storage. It
// carries no data: consumers read the snapshot from the shared backend.
type SnapshotSavedMessage struct {
	Reason       string    `json:"reason"`
	Revision     uint64    `json:"revision"`
	Transactions int       `json:"transactions"`
	Timestamp    time.Time `json:"timestamp"`
}

func NewSnapshotSavedMessage(reason string, revision uint64, transactions int) *SnapshotSavedMessage {
	return &SnapshotSavedMessage{
		Reason:       reason,
		Revision:     revision,
		Transactions: transactions,
		Timestamp:    time.Now().UTC(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *SnapshotSavedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// SnapshotSavedMessageFromJSON decodes a message and rejects one without a reason.
func SnapshotSavedMessageFromJSON(data []byte) (*SnapshotSavedMessage, error) {
	var msg SnapshotSavedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Reason == "" {
		return nil, errors.New("snapshot message without reason")
	}
	return &msg, nil
}
