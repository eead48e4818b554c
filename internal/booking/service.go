package booking

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/court-booking/internal/model"
	"github.com/iliyamo/court-booking/internal/observability"
	"github.com/iliyamo/court-booking/internal/queue"
)

// EventPublisher receives booking events after the owning transaction has
// committed.
type EventPublisher interface {
	PublishBookingEvent(ctx context.Context, ev queue.BookingEvent) error
}

// Options tunes the lifecycle.
type Options struct {
	// PendingEnabled makes new bookings start as pending; the court owner
	// then confirms them.  Pending bookings do not hold their slot.
	PendingEnabled bool
	// Now overrides the clock used for event timestamps.
	Now func() time.Time
}

// Service runs booking creation, cancellation and confirmation inside
// store transactions.
type Service struct {
	store   Store
	events  EventPublisher
	log     *slog.Logger
	pending bool
	now     func() time.Time
}

// NewService wires a Service.  events may be nil.
func NewService(store Store, events EventPublisher, logger *slog.Logger, opts Options) *Service {
	if store == nil {
		panic("nil store passed to booking.NewService")
	}
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Service{store: store, events: events, log: logger, pending: opts.PendingEnabled, now: now}
}

// PendingEnabled reports whether new bookings start as pending.
func (s *Service) PendingEnabled() bool { return s.pending }

// Create books [start, start+duration) on the court for userID.  The overlap
// check and the insert share one transaction holding the court lock, so of
// two concurrent requests for the same slot exactly one wins.
func (s *Service) Create(ctx context.Context, userID, courtID uint64, start time.Time, duration time.Duration) (*model.Booking, error) {
	start = start.UTC()
	if _, err := interval(start, duration); err != nil {
		return nil, err
	}
	status := model.BookingConfirmed
	if s.pending {
		status = model.BookingPending
	}

	var (
		created *model.Booking
		ownerID uint64
	)
	err := s.store.WithTx(ctx, func(q Querier) error {
		end, owner, err := check(ctx, q, courtID, start, duration)
		if err != nil {
			return err
		}
		ownerID = owner
		b := &model.Booking{
			CourtID:   courtID,
			UserID:    userID,
			StartTime: start,
			EndTime:   end,
			Status:    status,
		}
		if err := q.InsertBooking(ctx, b); err != nil {
			return err
		}
		created = b
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrSlotTaken) {
			observability.BookingConflicts.Inc()
		}
		return nil, err
	}
	observability.BookingTransitions.WithLabelValues(created.Status).Inc()
	s.publish(ctx, queue.BookingCreated, created, ownerID)
	return created, nil
}

// Cancel moves a confirmed or pending booking to cancelled.  Only the user
// who made the booking may cancel it; cancelling twice is a conflict.
func (s *Service) Cancel(ctx context.Context, userID, bookingID uint64) (*model.Booking, error) {
	var (
		cancelled *model.Booking
		ownerID   uint64
	)
	err := s.store.WithTx(ctx, func(q Querier) error {
		b, owner, err := lockBooking(ctx, q, bookingID)
		if err != nil {
			return err
		}
		ownerID = owner
		if b.UserID != userID {
			return ErrNotParticipant
		}
		if b.Status == model.BookingCancelled {
			return ErrAlreadyCancelled
		}
		if err := q.SetBookingStatus(ctx, b.ID, model.BookingCancelled); err != nil {
			return err
		}
		b.Status = model.BookingCancelled
		cancelled = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	observability.BookingTransitions.WithLabelValues(model.BookingCancelled).Inc()
	s.publish(ctx, queue.BookingCancelled, cancelled, ownerID)
	return cancelled, nil
}

// Confirm promotes a pending booking once the court owner approves it.  The
// slot is re-checked under the court lock because pending bookings never
// reserve it.
func (s *Service) Confirm(ctx context.Context, ownerID, bookingID uint64) (*model.Booking, error) {
	if !s.pending {
		return nil, ErrPendingDisabled
	}
	var confirmed *model.Booking
	err := s.store.WithTx(ctx, func(q Querier) error {
		b, courtOwner, err := lockBooking(ctx, q, bookingID)
		if err != nil {
			return err
		}
		if courtOwner != ownerID {
			return ErrNotCourtOwner
		}
		switch b.Status {
		case model.BookingCancelled:
			return ErrAlreadyCancelled
		case model.BookingPending:
		default:
			return ErrNotPending
		}
		clashes, err := q.ConfirmedOverlapping(ctx, b.CourtID, b.StartTime, b.EndTime, b.ID)
		if err != nil {
			return err
		}
		if len(clashes) > 0 {
			return ErrSlotTaken
		}
		if err := q.SetBookingStatus(ctx, b.ID, model.BookingConfirmed); err != nil {
			return err
		}
		b.Status = model.BookingConfirmed
		confirmed = b
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrSlotTaken) {
			observability.BookingConflicts.Inc()
		}
		return nil, err
	}
	observability.BookingTransitions.WithLabelValues(model.BookingConfirmed).Inc()
	s.publish(ctx, queue.BookingConfirmed, confirmed, ownerID)
	return confirmed, nil
}

// lockBooking locks the booking's court and then the booking row, the same
// order court deletion takes them in.  It returns the court owner.
func lockBooking(ctx context.Context, q Querier, bookingID uint64) (*model.Booking, uint64, error) {
	courtID, err := q.BookingCourt(ctx, bookingID)
	if err != nil {
		return nil, 0, err
	}
	ownerID, err := q.LockCourt(ctx, courtID)
	if errors.Is(err, ErrCourtNotFound) {
		// deleted together with its bookings
		return nil, 0, ErrBookingNotFound
	}
	if err != nil {
		return nil, 0, err
	}
	b, err := q.BookingForUpdate(ctx, bookingID)
	if err != nil {
		return nil, 0, err
	}
	return b, ownerID, nil
}

// publish is best effort: the booking is already committed, so failures
// are logged and swallowed.
func (s *Service) publish(ctx context.Context, kind string, b *model.Booking, ownerID uint64) {
	if s.events == nil {
		return
	}
	ev := queue.BookingEvent{
		EventID:      uuid.NewString(),
		Type:         kind,
		BookingID:    b.ID,
		CourtID:      b.CourtID,
		CourtOwnerID: ownerID,
		UserID:       b.UserID,
		StartTime:    b.StartTime,
		EndTime:      b.EndTime,
		Status:       b.Status,
		OccurredAt:   s.now(),
	}
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
	defer cancel()
	if err := s.events.PublishBookingEvent(pctx, ev); err != nil {
		s.log.Warn("publish booking event failed", "type", kind, "booking_id", b.ID, "error", err)
	}
}
