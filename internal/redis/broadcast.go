package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Broadcaster publishes lifecycle events to Redis pub/sub channels.
// Subscribed clients (vendor dashboards, rider apps, customer apps) receive
// whatever is published while they are connected; no delivery receipt is
// tracked.
type Broadcaster struct {
	client *redis.Client
}

// NewBroadcaster creates a new Broadcaster.
func NewBroadcaster(client *redis.Client) *Broadcaster {
	return &Broadcaster{client: client}
}

// message is the wire envelope for a broadcast event.
type message struct {
	Event     string         `json:"event"`
	Data      map[string]any `json:"data"`
	Timestamp time.Time      `json:"timestamp"`
}

// Publish sends an event to a channel.
func (b *Broadcaster) Publish(ctx context.Context, channel, event string, data map[string]any) error {
	payload, err := json.Marshal(message{
		Event:     event,
		Data:      data,
		Timestamp: time.Now(),
	})
	if err != nil {
		return err
	}

	return b.client.Publish(ctx, channel, payload).Err()
}
