package realtime

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/court-booking/internal/observability"
	"github.com/iliyamo/court-booking/internal/queue"
)

func recv(t *testing.T, c *Client) []byte {
	t.Helper()
	select {
	case msg := <-c.Send:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
		return nil
	}
}

func TestHubFiltersByCourt(t *testing.T) {
	h := NewHub(observability.Discard())
	all := NewClient("all", 0)
	one := NewClient("one", 1)
	two := NewClient("two", 2)
	h.AddClient(all)
	h.AddClient(one)
	h.AddClient(two)

	assert.Equal(t, 2, h.Broadcast(1, []byte("hello")))
	assert.Equal(t, "hello", string(recv(t, all)))
	assert.Equal(t, "hello", string(recv(t, one)))
	assert.Empty(t, two.Send)
}

func TestHubRemoveClosesOutboxOnce(t *testing.T) {
	h := NewHub(observability.Discard())
	c := NewClient("c", 0)
	h.AddClient(c)
	h.RemoveClient(c)
	h.RemoveClient(c)

	_, open := <-c.Send
	assert.False(t, open)
	assert.Equal(t, 0, h.Count())
}

func TestHubDropsForFullOutbox(t *testing.T) {
	h := NewHub(observability.Discard())
	c := &Client{ID: "slow", Send: make(chan []byte)}
	h.AddClient(c)
	assert.Equal(t, 0, h.Broadcast(1, []byte("x")))
}

func TestRelayForwardsRedisMessages(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	h := NewHub(observability.Discard())
	c := NewClient("watcher", 4)
	h.AddClient(c)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewRelay(rdb, "live", h, observability.Discard()).Run(ctx) }()

	require.Eventually(t, func() bool {
		return len(mr.PubSubChannels("live")) == 1
	}, 2*time.Second, 10*time.Millisecond)

	body, err := json.Marshal(queue.BookingEvent{EventID: "e", Type: queue.BookingCreated, BookingID: 1, CourtID: 4})
	require.NoError(t, err)
	require.NoError(t, rdb.Publish(context.Background(), "live", body).Err())

	var got queue.BookingEvent
	require.NoError(t, json.Unmarshal(recv(t, c), &got))
	assert.Equal(t, uint64(1), got.BookingID)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("relay did not stop")
	}
}

func TestHubSink(t *testing.T) {
	h := NewHub(observability.Discard())
	c := NewClient("c", 3)
	h.AddClient(c)

	require.NoError(t, HubSink{Hub: h}.PublishBookingEvent(context.Background(), queue.BookingEvent{CourtID: 3, BookingID: 8}))
	assert.Contains(t, string(recv(t, c)), `"booking_id":8`)
	assert.Equal(t, "hub", HubSink{}.Name())
}
