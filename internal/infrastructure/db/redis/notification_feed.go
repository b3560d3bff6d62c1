package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/corebank/portal-gateway/internal/core/ports"
)

const maxPendingNotifications = 50

// NotificationFeed is a bounded per-session list of notifications, drained by
// the shell on its next poll.
// Key format: session:<sid>:notifications
type NotificationFeed struct {
	client *redis.Client
	ttl    time.Duration
}

func NewNotificationFeed(client *redis.Client, ttl time.Duration) *NotificationFeed {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &NotificationFeed{client: client, ttl: ttl}
}

func (f *NotificationFeed) Push(ctx context.Context, sid string, n ports.Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}

	key := notificationsKey(sid)
	_, err = f.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, payload)
		pipe.LTrim(ctx, key, -maxPendingNotifications, -1)
		pipe.Expire(ctx, key, f.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("push notification: %w", err)
	}
	return nil
}

// Drain returns and removes every pending notification, oldest first.
func (f *NotificationFeed) Drain(ctx context.Context, sid string) ([]ports.Notification, error) {
	key := notificationsKey(sid)

	var items *redis.StringSliceCmd
	_, err := f.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		items = pipe.LRange(ctx, key, 0, -1)
		pipe.Del(ctx, key)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("drain notifications: %w", err)
	}

	out := make([]ports.Notification, 0, len(items.Val()))
	for _, raw := range items.Val() {
		var n ports.Notification
		if err := json.Unmarshal([]byte(raw), &n); err != nil {
			return nil, fmt.Errorf("decode notification: %w", err)
		}
		out = append(out, n)
	}
	return out, nil
}
