// Package events publishes domain state changes for read-only consumers such as
// the kitchen display.
package events

import (
	"context"
	"time"
)

const (
	// TableStatusTopic delivers table status changes.
	TableStatusTopic = "pos.tables.status"
	// OrderTopic delivers order lifecycle changes (opened, updated, closed).
	OrderTopic = "pos.orders"
	// ReservationTopic delivers reservation status changes.
	ReservationTopic = "pos.reservations"
	// InventoryTopic delivers recorded inventory transactions.
	InventoryTopic = "pos.inventory"
)

// Event types carried in the EventType field.
const (
	EventTableStatusChanged       = "table.status.changed"
	EventOrderOpened              = "order.opened"
	EventOrderUpdated             = "order.updated"
	EventOrderClosed              = "order.closed"
	EventReservationCreated       = "reservation.created"
	EventReservationStatusChanged = "reservation.status.changed"
	EventInventoryRecorded        = "inventory.recorded"
)

// TableStatusEvent captures a table transition.
type TableStatusEvent struct {
	EventType      string    `json:"event_type"`
	TableID        string    `json:"table_id"`
	Status         string    `json:"status"`
	PreviousStatus string    `json:"previous_status,omitempty"`
	OrderID        *string   `json:"order_id,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// OrderEvent captures an order lifecycle change.
type OrderEvent struct {
	EventType     string    `json:"event_type"`
	OrderID       string    `json:"order_id"`
	TableID       string    `json:"table_id"`
	Total         string    `json:"total"`
	ItemCount     int       `json:"item_count"`
	PaymentMethod string    `json:"payment_method,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// ReservationEvent captures a reservation change.
type ReservationEvent struct {
	EventType     string    `json:"event_type"`
	ReservationID string    `json:"reservation_id"`
	Status        string    `json:"status"`
	TableIDs      []string  `json:"table_ids,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// InventoryEvent captures a recorded stock movement.
type InventoryEvent struct {
	EventType     string    `json:"event_type"`
	TransactionID string    `json:"transaction_id"`
	Type          string    `json:"type"`
	IngredientIDs []string  `json:"ingredient_ids"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// Publisher sends an event payload to a topic.
type Publisher interface {
	Publish(ctx context.Context, topic string, event interface{}) error
	Close() error
}
