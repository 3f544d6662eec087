package events

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/yorkie01/restaurant-order-system/pkg/logger"
)

// 注文変更イベントを流す Pub/Sub チャンネル
const orderEventsChannel = "orders:events"

// RedisFeed Redis Pub/Sub による注文変更フィード
// 複数サーバー構成でも全ての厨房ディスプレイに変更が届く。
type RedisFeed struct {
	client *redis.Client
}

func NewRedisFeed(client *redis.Client) *RedisFeed {
	return &RedisFeed{client: client}
}

// Publish marshals the event and publishes it on the order events channel.
func (f *RedisFeed) Publish(ctx context.Context, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to marshal order event", err, map[string]interface{}{
			"event_type": event.Type,
			"order_id":   event.OrderID,
		})
		return err
	}

	if err := f.client.Publish(ctx, orderEventsChannel, data).Err(); err != nil {
		logger.Error("Failed to publish order event", err, map[string]interface{}{
			"event_type": event.Type,
			"order_id":   event.OrderID,
		})
		return err
	}

	logger.Debug("Order event published", map[string]interface{}{
		"event_type": event.Type,
		"order_id":   event.OrderID,
	})
	return nil
}

// Subscribe opens a Pub/Sub subscription. The returned channel closes when
// the underlying connection drops, which the kitchen supervisor treats as a
// signal to resubscribe.
func (f *RedisFeed) Subscribe(ctx context.Context) (<-chan Event, func(), error) {
	pubsub := f.client.Subscribe(ctx, orderEventsChannel)

	// Force the SUBSCRIBE round trip so connection errors surface here
	// instead of silently producing an empty channel.
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		logger.Error("Failed to subscribe to order events", err, map[string]interface{}{
			"channel": orderEventsChannel,
		})
		return nil, nil, err
	}

	out := make(chan Event, 64)
	go func() {
		defer close(out)
		for msg := range pubsub.Channel() {
			var event Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				logger.Warn("Dropping malformed order event", map[string]interface{}{
					"payload": msg.Payload,
					"error":   err.Error(),
				})
				continue
			}
			select {
			case out <- event:
			default:
				logger.Warn("Order event buffer full, dropping event", map[string]interface{}{
					"event_type": event.Type,
					"order_id":   event.OrderID,
				})
			}
		}
	}()

	logger.Info("Subscribed to order events", map[string]interface{}{
		"channel": orderEventsChannel,
	})
	return out, func() { pubsub.Close() }, nil
}
