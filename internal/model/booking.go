package model

import "time"

// Booking status values.  Pending is only produced when pending mode is
// enabled; cancelled is terminal.
const (
	BookingConfirmed = "confirmed"
	BookingPending   = "pending"
	BookingCancelled = "cancelled"
)

// Booking reserves a court for the half-open interval [StartTime, EndTime).
// All timestamps are UTC.
type Booking struct {
	ID        uint64    `json:"id"`
	CourtID   uint64    `json:"court_id"`
	UserID    uint64    `json:"user_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BookingFilter narrows a court's booking listing.  Zero times are ignored.
type BookingFilter struct {
	From time.Time // start_time >= From
	To   time.Time // end_time <= To
}

// BookingDetail is a booking joined with its court for the caller's own list.
type BookingDetail struct {
	Booking
	CourtName    string `json:"court_name"`
	CourtAddress string `json:"court_address"`
}
