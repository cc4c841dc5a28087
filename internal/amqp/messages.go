package amqp

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrMalformedMessage marks a body that cannot be decoded. Consumers drop
// such deliveries instead of requeueing them.
var ErrMalformedMessage = errors.New("malformed message")

// Actions discriminate the messages sharing the sync queue.
const (
	ActionSync   = "sync"
	ActionDelete = "delete"
)

// Envelope carries just the action field, for routing a raw sync-queue
// message to the right decoder.
type Envelope struct {
	Action string `json:"action"`
}

func EnvelopeFromJSON(data []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	return &env, nil
}

// ExpenseSyncMessage asks the worker to export one expense to the backup
// sheet. It carries only the id and version; the worker loads the full row
// from the database.
type ExpenseSyncMessage struct {
	Action    string    `json:"action"`
	ID        int64     `json:"id"`
	Version   int64     `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

func NewExpenseSyncMessage(id, version int64) *ExpenseSyncMessage {
	return &ExpenseSyncMessage{
		Action:    ActionSync,
		ID:        id,
		Version:   version,
		Timestamp: time.Now(),
	}
}

func (m *ExpenseSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ExpenseSyncMessageFromJSON(data []byte) (*ExpenseSyncMessage, error) {
	var msg ExpenseSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	return &msg, nil
}

// ExpenseDeleteMessage asks the worker to remove an expense's row from the
// backup sheet. The row is already gone locally; the sheet keeps the id in
// its first column, so the id alone locates it.
type ExpenseDeleteMessage struct {
	Action    string    `json:"action"`
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewExpenseDeleteMessage(id int64) *ExpenseDeleteMessage {
	return &ExpenseDeleteMessage{
		Action:    ActionDelete,
		ID:        id,
		Timestamp: time.Now(),
	}
}

func (m *ExpenseDeleteMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ExpenseDeleteMessageFromJSON(data []byte) (*ExpenseDeleteMessage, error) {
	var msg ExpenseDeleteMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	return &msg, nil
}

// AlertMessage is a one-shot budget notification on its way to whatever
// delivers it to the user.
type AlertMessage struct {
	Type      string    `json:"type"`
	Level     int       `json:"level"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Timestamp time.Time `json:"timestamp"`
}

func (m *AlertMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func AlertMessageFromJSON(data []byte) (*AlertMessage, error) {
	var msg AlertMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	return &msg, nil
}
