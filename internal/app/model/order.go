package model

import (
	"time"
)

type OrderStatus string // 注文状態コード

const (
	OrderStatusPending   OrderStatus = "pending"   // 新規注文
	OrderStatusConfirmed OrderStatus = "confirmed" // 確認済み
	OrderStatusPreparing OrderStatus = "preparing" // 調理中
	OrderStatusCompleted OrderStatus = "completed" // 完成
	OrderStatusCancelled OrderStatus = "cancelled" // キャンセル
)

// statusTransitions 厨房側で許可される状態遷移
// confirmed / cancelled からの遷移は提供しない
var statusTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusPreparing, OrderStatusCancelled},
	OrderStatusPreparing: {OrderStatusCompleted},
	OrderStatusCompleted: {OrderStatusPreparing}, // 調理中に戻す
}

// IsValid reports whether s is a known order status.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusPreparing,
		OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether the status machine allows moving to next.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Order 注文
type Order struct {
	ID          uint        `gorm:"primarykey" json:"id"`                             // 注文ID
	TableID     string      `gorm:"type:varchar(10);not null;index" json:"table_id"`  // テーブル番号
	Status      OrderStatus `gorm:"type:varchar(20);default:'pending'" json:"status"` // 注文状態
	TotalAmount int         `gorm:"not null" json:"total_amount"`                     // 合計金額 (税込)
	CreatedAt   time.Time   `json:"created_at"`                                       // 注文日時
	UpdatedAt   time.Time   `json:"updated_at"`                                       // 更新日時

	OrderItems []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"order_items,omitempty"` // 注文明細
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem 注文明細
// Price は注文時点の単価のスナップショット。以後のメニュー価格変更の影響を受けない。
type OrderItem struct {
	ID         uint      `gorm:"primarykey" json:"id"`                // 明細ID
	OrderID    uint      `gorm:"not null;index" json:"order_id"`      // 注文ID
	MenuItemID uint      `gorm:"not null;index" json:"menu_item_id"`  // メニューID
	Quantity   int       `gorm:"not null" json:"quantity"`            // 数量
	Price      int       `gorm:"not null" json:"price"`               // 注文時単価 (円)
	CreatedAt  time.Time `json:"created_at"`                          // 作成日時

	Order Order `gorm:"foreignKey:OrderID" json:"-"` // 注文情報
}

func (OrderItem) TableName() string {
	return "order_items"
}
