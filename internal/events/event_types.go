package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventProductCreated EventType = "product_created"
	EventProductUpdated EventType = "product_updated"
	EventProductDeleted EventType = "product_deleted"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ProductID int64       `json:"product_id"`
	Actor     string      `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// NewEvent stamps an event with a fresh id and the current time.
func NewEvent(eventType EventType, productID int64, actor string, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		ProductID: productID,
		Actor:     actor,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// ProductCreatedPayload payload.
type ProductCreatedPayload struct {
	Name      string `json:"name"`
	Price     string `json:"price"`
	CreatedBy string `json:"created_by"`
}

// ProductUpdatedPayload payload.
type ProductUpdatedPayload struct {
	OldName  string `json:"old_name"`
	NewName  string `json:"new_name"`
	OldPrice string `json:"old_price"`
	NewPrice string `json:"new_price"`
}

// ProductDeletedPayload payload.
type ProductDeletedPayload struct {
	Name      string `json:"name"`
	CreatedBy string `json:"created_by"`
}
