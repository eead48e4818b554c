package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Notifier delivers a booking event to the people it concerns.
type Notifier interface {
	Notify(ctx context.Context, ev BookingEvent) error
}

// LogNotifier writes owner and player notifications as structured log
// lines.  It stands in for mail or push delivery.
type LogNotifier struct {
	Log *slog.Logger
}

func (n LogNotifier) Notify(_ context.Context, ev BookingEvent) error {
	var msg string
	switch ev.Type {
	case BookingCreated:
		msg = "new booking on your court"
	case BookingConfirmed:
		msg = "booking confirmed"
	case BookingCancelled:
		msg = "booking cancelled"
	default:
		return fmt.Errorf("unknown event type %q", ev.Type)
	}
	n.Log.Info(msg,
		slog.String("event_id", ev.EventID),
		slog.Uint64("court_owner_id", ev.CourtOwnerID),
		slog.Uint64("user_id", ev.UserID),
		slog.Uint64("booking_id", ev.BookingID),
		slog.Uint64("court_id", ev.CourtID),
		slog.Time("start_time", ev.StartTime),
		slog.Time("end_time", ev.EndTime),
		slog.String("status", ev.Status),
	)
	return nil
}

// ConsumerConfig configures StartNotificationConsumer.
type ConsumerConfig struct {
	URL      string
	Queue    string
	Backoff  time.Duration // initial reconnect delay, doubled up to 30s
	Notifier Notifier
	Log      *slog.Logger
}

// StartNotificationConsumer connects to RabbitMQ, declares the queue
// (durable) and hands each delivery to the notifier.  It reconnects with
// backoff until ctx is cancelled, then returns ctx.Err().
func StartNotificationConsumer(ctx context.Context, cfg ConsumerConfig) error {
	backoff := cfg.Backoff
	if backoff <= 0 {
		backoff = time.Second
	}
	delay := backoff
	for {
		conn, err := amqp.Dial(cfg.URL)
		if err != nil {
			cfg.Log.Warn("booking-consumer: failed to dial broker", "error", err, "retry_in", delay)
			if !sleep(ctx, delay) {
				return ctx.Err()
			}
			if delay < 30*time.Second {
				delay *= 2
			}
			continue
		}
		delay = backoff // reset after successful connect

		err = consumeLoop(ctx, conn, cfg)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		cfg.Log.Warn("booking-consumer: consume loop ended; reconnecting", "error", err)
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, cfg ConsumerConfig) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		cfg.Log.Warn("booking-consumer: set QoS failed", "error", err)
	}
	if _, err := ch.QueueDeclare(cfg.Queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(cfg.Queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := handleMessage(ctx, cfg.Notifier, d.Body); err != nil {
				cfg.Log.Warn("booking-consumer: handle message failed", "error", err, "message_id", d.MessageId)
				_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func handleMessage(ctx context.Context, n Notifier, body []byte) error {
	var ev BookingEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.BookingID == 0 {
		return errors.New("event without booking id")
	}
	return n.Notify(ctx, ev)
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
