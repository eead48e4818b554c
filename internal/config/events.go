package config

import (
	"os"
	"time"
)

// EventsConfig controls where committed booking events are fanned out.
type EventsConfig struct {
	Enabled bool
	// AMQPURL is the RabbitMQ broker.  Empty disables the queue publisher
	// and the notification consumer.
	AMQPURL string
	// Queue receives booking events for owner notifications.
	Queue string
	// Channel is the Redis pub/sub channel feeding the live websocket feed.
	Channel string
	// ConsumerBackoff is the initial reconnect delay of the consumer.
	ConsumerBackoff time.Duration
}

func LoadEventsConfig() EventsConfig {
	url := os.Getenv("RABBITMQ_URL")
	if url == "" {
		url = os.Getenv("AMQP_URL")
	}
	return EventsConfig{
		Enabled:         envBool("EVENTS_ENABLED", true),
		AMQPURL:         url,
		Queue:           envStr("BOOKING_EVENTS_QUEUE", "booking_events"),
		Channel:         envStr("BOOKING_EVENTS_CHANNEL", "court_booking:live"),
		ConsumerBackoff: envDur("EVENTS_CONSUMER_BACKOFF", time.Second),
	}
}

func envDur(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	return d
}
