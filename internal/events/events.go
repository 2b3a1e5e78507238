// Package events publishes ledger change notifications after a write commits.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Type names a ledger change. It doubles as the AMQP routing key.
type Type string

const (
	TransactionsCreated Type = "transaction.created"
	TransactionsUpdated Type = "transaction.updated"
	TransactionDeleted  Type = "transaction.deleted"
	FamilyCreated       Type = "family.created"
	FamilyUpdated       Type = "family.updated"
	UserJoined          Type = "user.joined"
	CategoryChanged     Type = "category.changed"
)

// Event describes one committed change.
type Event struct {
	Type           Type      `json:"type"`
	FamilyID       string    `json:"family_id,omitempty"`
	UserID         string    `json:"user_id,omitempty"`
	TransactionIDs []string  `json:"transaction_ids,omitempty"`
	GroupID        string    `json:"group_id,omitempty"`
	CategoryID     string    `json:"category_id,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// ToJSON encodes the event body.
func (e Event) ToJSON() ([]byte, error) {
	body, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return body, nil
}

// FromJSON decodes an event body.
func FromJSON(body []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(body, &e); err != nil {
		return Event{}, fmt.Errorf("unmarshal event: %w", err)
	}
	return e, nil
}

// Publisher delivers events to interested consumers.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }
