package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/iliyamo/court-booking/internal/observability"
	"github.com/iliyamo/court-booking/internal/queue"
)

// Sink is one destination of booking events.
type Sink interface {
	Name() string
	PublishBookingEvent(ctx context.Context, ev queue.BookingEvent) error
}

// Fanout delivers each event to every sink.  A failing sink does not stop
// the others; the joined error is returned.
type Fanout struct {
	sinks []Sink
	log   *slog.Logger
}

func NewFanout(logger *slog.Logger, sinks ...Sink) *Fanout {
	return &Fanout{sinks: sinks, log: logger}
}

// Len reports how many sinks are wired.
func (f *Fanout) Len() int { return len(f.sinks) }

func (f *Fanout) PublishBookingEvent(ctx context.Context, ev queue.BookingEvent) error {
	var errs []error
	for _, s := range f.sinks {
		if err := s.PublishBookingEvent(ctx, ev); err != nil {
			observability.EventPublishFailures.WithLabelValues(s.Name()).Inc()
			f.log.Warn("booking event sink failed", "sink", s.Name(), "event_id", ev.EventID, "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
