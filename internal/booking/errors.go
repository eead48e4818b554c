package booking

import "errors"

// Validation failures.
var (
	ErrInvalidDuration = errors.New("duration must be positive")
	ErrPendingDisabled = errors.New("pending bookings are disabled")
	ErrDurationTooLong = errors.New("duration too long")
	ErrOutOfRange      = errors.New("booking must fall between years 1000 and 9999")
)

// Lookup failures.
var (
	ErrCourtNotFound   = errors.New("court not found")
	ErrBookingNotFound = errors.New("booking not found")
)

// Authorization failures.
var (
	ErrNotParticipant = errors.New("only the participant may cancel this booking")
	ErrNotCourtOwner  = errors.New("only the court owner may confirm this booking")
)

// Conflicts.
var (
	ErrSlotTaken        = errors.New("time slot already booked")
	ErrAlreadyCancelled = errors.New("booking already cancelled")
	ErrNotPending       = errors.New("booking is not pending")
)
