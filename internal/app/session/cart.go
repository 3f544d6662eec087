package session

import (
	"math"

	"github.com/yorkie01/restaurant-order-system/internal/app/model"
)

// CartLine カート内の1行
// メニュー情報は追加時点のスナップショット。数量は常に1以上。
type CartLine struct {
	MenuItemID uint   `json:"menu_item_id"` // メニューID
	Name       string `json:"name"`         // 品名
	Price      int    `json:"price"`        // 単価 (円)
	IsDogItem  bool   `json:"is_dog_item"`  // 犬用メニューかどうか
	Quantity   int    `json:"quantity"`     // 数量
}

// Totals 金額の内訳
type Totals struct {
	Subtotal int `json:"subtotal"` // 小計
	Tax      int `json:"tax"`      // 消費税
	Total    int `json:"total"`    // 合計
}

// Cart テーブルセッションが所有する注文前カート。永続化されない。
type Cart struct {
	lines []CartLine
}

// NewCart creates an empty cart.
func NewCart() *Cart {
	return &Cart{}
}

// AddLine adds one unit of the given menu item. If a line for the item
// already exists its quantity is incremented, otherwise a new line with
// quantity 1 is appended.
func (c *Cart) AddLine(item model.MenuItem) {
	for i := range c.lines {
		if c.lines[i].MenuItemID == item.ID {
			c.lines[i].Quantity++
			return
		}
	}
	c.lines = append(c.lines, CartLine{
		MenuItemID: item.ID,
		Name:       item.Name,
		Price:      item.Price,
		IsDogItem:  item.IsDogItem,
		Quantity:   1,
	})
}

// ChangeQuantity adds delta to the matching line's quantity. A resulting
// quantity of zero or less removes the line entirely. Unknown items are a
// no-op.
func (c *Cart) ChangeQuantity(menuItemID uint, delta int) {
	for i := range c.lines {
		if c.lines[i].MenuItemID == menuItemID {
			c.lines[i].Quantity += delta
			if c.lines[i].Quantity <= 0 {
				c.lines = append(c.lines[:i], c.lines[i+1:]...)
			}
			return
		}
	}
}

// RemoveLine removes the line for the given menu item unconditionally.
func (c *Cart) RemoveLine(menuItemID uint) {
	for i := range c.lines {
		if c.lines[i].MenuItemID == menuItemID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.lines = nil
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// Lines returns a copy of the cart lines.
func (c *Cart) Lines() []CartLine {
	lines := make([]CartLine, len(c.lines))
	copy(lines, c.lines)
	return lines
}

// ComputeTotals computes subtotal, tax and total for the given lines.
// 消費税は注文全体に対して一度だけ計算し、切り捨てる (明細ごとではない)。
func ComputeTotals(lines []CartLine, taxRate float64) Totals {
	subtotal := 0
	for _, line := range lines {
		subtotal += line.Price * line.Quantity
	}
	tax := int(math.Floor(float64(subtotal) * taxRate))
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal + tax,
	}
}
