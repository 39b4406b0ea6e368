package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SignalChannel is where the device shell listens for save signals (vibrate).
const SignalChannel = "ornik8:signals"

// Notifier publishes device signals on a Redis channel.
type Notifier struct {
	client *redis.Client
}

// NewNotifier creates a Notifier wrapping the given Redis client.
func NewNotifier(client *redis.Client) *Notifier {
	return &Notifier{client: client}
}

type signal struct {
	Event string    `json:"event"`
	ID    string    `json:"id"`
	At    time.Time `json:"at"`
}

// Notify publishes the signal. Nobody listening is not an error.
func (n *Notifier) Notify(ctx context.Context, event, id string) error {
	payload, err := json.Marshal(signal{Event: event, ID: id, At: time.Now().UTC()})
	if err != nil {
		return err
	}
	if err := n.client.Publish(ctx, SignalChannel, payload).Err(); err != nil {
		return fmt.Errorf("publish signal: %w", err)
	}
	return nil
}
