package realtime

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/court-booking/internal/queue"
)

// Relay subscribes to the booking event channel and forwards each event to
// the local hub.
type Relay struct {
	rdb     *redis.Client
	channel string
	hub     *Hub
	log     *slog.Logger
}

func NewRelay(rdb *redis.Client, channel string, hub *Hub, logger *slog.Logger) *Relay {
	return &Relay{rdb: rdb, channel: channel, hub: hub, log: logger}
}

// Run blocks until ctx is cancelled or the subscription fails to start.
// go-redis resubscribes on its own after connection drops.
func (r *Relay) Run(ctx context.Context) error {
	pubsub := r.rdb.Subscribe(ctx, r.channel)
	defer pubsub.Close()

	// wait for the subscription confirmation
	if _, err := pubsub.Receive(ctx); err != nil {
		return err
	}
	r.log.Info("live relay subscribed", "channel", r.channel)

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			r.forward([]byte(msg.Payload))
		}
	}
}

func (r *Relay) forward(payload []byte) {
	var ev queue.BookingEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		r.log.Warn("live relay: bad payload", "error", err)
		return
	}
	r.hub.Broadcast(ev.CourtID, payload)
}

// HubSink delivers events to the local hub directly.  It is used in place
// of the Redis publisher when Redis is unavailable.
type HubSink struct {
	Hub *Hub
}

func (s HubSink) Name() string { return "hub" }

func (s HubSink) PublishBookingEvent(_ context.Context, ev queue.BookingEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	s.Hub.Broadcast(ev.CourtID, body)
	return nil
}
