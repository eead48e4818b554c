// Package booking holds the court booking rules: the overlap check that
// guards every new confirmed booking and the confirmed/pending/cancelled
// lifecycle.  It talks to storage only through Store and Querier so the
// rules can be exercised without a database.
package booking

import (
	"context"
	"time"

	"github.com/iliyamo/court-booking/internal/model"
)

// Querier is the set of reads and writes available inside a store
// transaction.
type Querier interface {
	// LockCourt takes a lock scoped to the court that is held until the
	// transaction ends and returns the court's owner.  It returns
	// ErrCourtNotFound when the court does not exist.
	LockCourt(ctx context.Context, courtID uint64) (ownerID uint64, err error)
	// ConfirmedOverlapping returns confirmed bookings on the court with
	// start < end AND end > start, ignoring excludeID (0 excludes nothing).
	ConfirmedOverlapping(ctx context.Context, courtID uint64, start, end time.Time, excludeID uint64) ([]model.Booking, error)
	InsertBooking(ctx context.Context, b *model.Booking) error
	// BookingCourt reads the court of a booking without locking it.  It
	// returns ErrBookingNotFound when absent.
	BookingCourt(ctx context.Context, id uint64) (courtID uint64, err error)
	// BookingForUpdate loads and locks a booking row.  It returns
	// ErrBookingNotFound when absent.
	BookingForUpdate(ctx context.Context, id uint64) (*model.Booking, error)
	SetBookingStatus(ctx context.Context, id uint64, status string) error
}

// Store opens transactions.  WithTx commits when fn returns nil and rolls
// back otherwise; the Querier must not be used after fn returns.
type Store interface {
	WithTx(ctx context.Context, fn func(q Querier) error) error
}

// Bookable instants are limited to the MySQL DATETIME range.
var (
	MinTime = time.Date(1000, 1, 1, 0, 0, 0, 0, time.UTC)
	MaxTime = time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC)
)

// Overlaps reports whether [aStart,aEnd) and [bStart,bEnd) intersect.
// Touching endpoints do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// Check decides whether [start, start+duration) is free on the court and
// returns the interval end.  It locks the court through q, so the caller's
// transaction keeps the decision valid until commit.  A non-positive
// duration or an interval outside [MinTime, MaxTime] is rejected before q
// is touched.
func Check(ctx context.Context, q Querier, courtID uint64, start time.Time, duration time.Duration) (time.Time, error) {
	end, _, err := check(ctx, q, courtID, start, duration)
	return end, err
}

// check is Check that also hands back the court owner read under the lock.
func check(ctx context.Context, q Querier, courtID uint64, start time.Time, duration time.Duration) (end time.Time, ownerID uint64, err error) {
	if end, err = interval(start, duration); err != nil {
		return time.Time{}, 0, err
	}
	if ownerID, err = q.LockCourt(ctx, courtID); err != nil {
		return time.Time{}, 0, err
	}
	clashes, err := q.ConfirmedOverlapping(ctx, courtID, start, end, 0)
	if err != nil {
		return time.Time{}, 0, err
	}
	if len(clashes) > 0 {
		return time.Time{}, 0, ErrSlotTaken
	}
	return end, ownerID, nil
}

// interval validates [start, start+duration) without touching storage.
func interval(start time.Time, duration time.Duration) (time.Time, error) {
	if duration <= 0 {
		return time.Time{}, ErrInvalidDuration
	}
	end := start.Add(duration)
	if start.Before(MinTime) || end.After(MaxTime) {
		return time.Time{}, ErrOutOfRange
	}
	return end, nil
}
