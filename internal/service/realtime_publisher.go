package service

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/court-booking/internal/queue"
)

// RealtimePublisher PUBLISHes booking events on a Redis channel.  Every
// server instance relays that channel to its websocket clients.
type RealtimePublisher struct {
	rdb     *redis.Client
	channel string
}

func NewRealtimePublisher(rdb *redis.Client, channel string) *RealtimePublisher {
	return &RealtimePublisher{rdb: rdb, channel: channel}
}

func (p *RealtimePublisher) Name() string { return "redis" }

func (p *RealtimePublisher) PublishBookingEvent(ctx context.Context, ev queue.BookingEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.rdb.Publish(ctx, p.channel, body).Err()
}
