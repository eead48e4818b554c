// Package service fans committed booking events out to the message broker
// and the realtime channel.  Each sink is best effort: failures are logged,
// counted and returned, never retried.
package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/court-booking/internal/queue"
)

// QueuePublisher publishes booking events to a durable RabbitMQ queue.  It
// dials per publish; booking writes are rare enough that a pooled
// connection is not worth its reconnect handling.
type QueuePublisher struct {
	url   string
	queue string
	log   *slog.Logger
}

func NewQueuePublisher(url, queueName string, logger *slog.Logger) *QueuePublisher {
	return &QueuePublisher{url: url, queue: queueName, log: logger}
}

// Name labels the sink in metrics.
func (p *QueuePublisher) Name() string { return "rabbitmq" }

// PublishBookingEvent sends ev as a persistent JSON message routed to the
// queue by name.
func (p *QueuePublisher) PublishBookingEvent(ctx context.Context, ev queue.BookingEvent) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		p.log.Warn("rabbitmq: dial failed", "error", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.log.Warn("rabbitmq: channel open failed", "error", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		p.log.Warn("rabbitmq: queue declare failed", "queue", p.queue, "error", err)
		return err
	}

	pub, err := newPublishing(ev)
	if err != nil {
		return err
	}
	if err := ch.PublishWithContext(ctx, "", p.queue, false, false, pub); err != nil {
		p.log.Warn("rabbitmq: publish failed", "queue", p.queue, "error", err)
		return err
	}
	return nil
}

func newPublishing(ev queue.BookingEvent) (amqp.Publishing, error) {
	body, err := json.Marshal(ev)
	if err != nil {
		return amqp.Publishing{}, err
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.EventID,
		Type:         ev.Type,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}, nil
}
