package domain

import "time"

type EventType string

const (
	EventReservationCreated    EventType = "reservation.created"
	EventReservationCheckedIn  EventType = "reservation.checked_in"
	EventReservationCheckedOut EventType = "reservation.checked_out"
	EventReservationCancelled  EventType = "reservation.cancelled"
	EventBillingCreated        EventType = "billing.created"
	EventBillingProcessed      EventType = "billing.processed"
	EventBillingCancelled      EventType = "billing.cancelled"
)

// Event is the message published for every successful state change.
type Event struct {
	Type       EventType `json:"type"`
	EntityID   string    `json:"entity_id"`
	Code       string    `json:"code,omitempty"`
	Status     string    `json:"status"`
	Actor      string    `json:"actor,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
