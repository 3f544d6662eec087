package events

import (
	"context"
	"time"

	"github.com/yorkie01/restaurant-order-system/internal/app/model"
)

type Type string

const (
	TypeOrderCreated   Type = "order_created"    // 注文作成
	TypeOrderUpdated   Type = "order_updated"    // 注文更新 (状態変更)
	TypeOrderItemAdded Type = "order_item_added" // 明細追加
)

// Event 注文変更通知
// order_updated は変更後の状態と updated_at を運ぶ。受信側は updated_at の
// 古いイベントを破棄することで楽観更新との競合を解決する。
type Event struct {
	Type        Type              `json:"type"`
	OrderID     uint              `json:"order_id"`
	TableID     string            `json:"table_id,omitempty"`
	Status      model.OrderStatus `json:"status,omitempty"`
	TotalAmount int               `json:"total_amount,omitempty"`
	UpdatedAt   time.Time         `json:"updated_at,omitempty"`
}

// Publisher publishes order change events to the feed.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Subscriber opens a subscription to the feed. The returned channel closes
// when the subscription drops; the cancel func releases the subscription.
type Subscriber interface {
	Subscribe(ctx context.Context) (<-chan Event, func(), error)
}
