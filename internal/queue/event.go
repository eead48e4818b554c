// Package queue defines message payloads exchanged over the message broker.
package queue

import "time"

// Booking event types.  They double as the AMQP routing key and the
// "type" field on the live feed.
const (
	BookingCreated   = "booking.created"
	BookingConfirmed = "booking.confirmed"
	BookingCancelled = "booking.cancelled"
)

// BookingEvent is published after a booking transaction commits.  It carries
// enough for downstream consumers (owner notifications, live feeds) to act
// without querying the primary database.
type BookingEvent struct {
	EventID      string    `json:"event_id"`
	Type         string    `json:"type"`
	BookingID    uint64    `json:"booking_id"`
	CourtID      uint64    `json:"court_id"`
	CourtOwnerID uint64    `json:"court_owner_id"`
	UserID       uint64    `json:"user_id"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	Status       string    `json:"status"`
	OccurredAt   time.Time `json:"occurred_at"`
}
