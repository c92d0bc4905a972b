package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ChangeNotification announces that rows in a table changed. Consumers use
// OrderID to route the notification to the right recompute controller; the
// payload intentionally carries no row data.
type ChangeNotification struct {
	Table   string    `json:"table"`
	OrderID uuid.UUID `json:"order_id"`
	EventID string    `json:"event_id"`
}

// ChannelFor builds the pub/sub channel name for a table.
func ChannelFor(prefix, table string) string {
	return fmt.Sprintf("%s.%s", prefix, table)
}

// PublishChange pushes a change notification onto the table's channel.
func (c *Client) PublishChange(ctx context.Context, prefix string, notification ChangeNotification) error {
	if strings.TrimSpace(notification.Table) == "" {
		return fmt.Errorf("notification table is required")
	}
	payload, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("marshal change notification: %w", err)
	}
	return c.raw.Publish(ctx, ChannelFor(prefix, notification.Table), payload).Err()
}

// SubscribeChanges subscribes to the given tables' channels and decodes
// notifications onto the returned channel until ctx is canceled.
func (c *Client) SubscribeChanges(ctx context.Context, prefix string, tables ...string) (<-chan ChangeNotification, error) {
	if len(tables) == 0 {
		return nil, fmt.Errorf("at least one table is required")
	}
	channels := make([]string, 0, len(tables))
	for _, table := range tables {
		channels = append(channels, ChannelFor(prefix, table))
	}
	sub := c.raw.Subscribe(ctx, channels...)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("subscribe change channels: %w", err)
	}

	out := make(chan ChangeNotification)
	go func() {
		defer close(out)
		defer sub.Close()
		messages := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}
				var notification ChangeNotification
				if err := json.Unmarshal([]byte(msg.Payload), &notification); err != nil {
					continue
				}
				select {
				case out <- notification:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
