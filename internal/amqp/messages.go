package amqp

import (
	"encoding/json"
	"time"
)

// Sync operations carried on the queue.
const (
	OpUpsert = "upsert"
	OpDelete = "delete"
)

// TransactionSyncMessage is a lightweight message for mirroring a transaction
// to the ledger spreadsheet. It carries only the ID, version and operation;
// the worker fetches the full transaction from the database.
type TransactionSyncMessage struct {
	ID        int64     `json:"id"`
	Version   int64     `json:"version"`
	Op        string    `json:"op"`
	Timestamp time.Time `json:"timestamp"`
}

// NewTransactionSyncMessage creates an upsert message for the given row.
func NewTransactionSyncMessage(id, version int64) *TransactionSyncMessage {
	return &TransactionSyncMessage{
		ID:        id,
		Version:   version,
		Op:        OpUpsert,
		Timestamp: time.Now(),
	}
}

// NewTransactionDeleteMessage creates a delete message for the given row.
func NewTransactionDeleteMessage(id int64) *TransactionSyncMessage {
	return &TransactionSyncMessage{
		ID:        id,
		Op:        OpDelete,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *TransactionSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// TransactionSyncMessageFromJSON creates a message from JSON bytes
func TransactionSyncMessageFromJSON(data []byte) (*TransactionSyncMessage, error) {
	var msg TransactionSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Op == "" {
		msg.Op = OpUpsert
	}
	return &msg, nil
}
