package events

import (
	"context"
	"encoding/json"
	"time"
)

// Actions recorded in the audit stream.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// Entities the audit stream knows about.
const (
	EntityTransaction = "transaction"
	EntityUser        = "user"
)

// LedgerEvent describes a single mutation of the ledger or its accounts.
type LedgerEvent struct {
	Entity     string    `json:"entity"`
	Action     string    `json:"action"`
	ID         string    `json:"id"`
	ActorID    string    `json:"actor_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewLedgerEvent stamps the event with the current time.
func NewLedgerEvent(entity, action, id, actorID string) LedgerEvent {
	return LedgerEvent{
		Entity:     entity,
		Action:     action,
		ID:         id,
		ActorID:    actorID,
		OccurredAt: time.Now().UTC(),
	}
}

// ToJSON serializes the event for the wire.
func (e LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// Publisher delivers audit events to an external broker.
type Publisher interface {
	Publish(ctx context.Context, event LedgerEvent) error
	Close() error
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, event LedgerEvent) error { return nil }
func (NopPublisher) Close() error                                         { return nil }
