package session

import (
	"testing"

	"github.com/yorkie01/restaurant-order-system/internal/app/model"
	"github.com/stretchr/testify/assert"
)

func menuItem(id uint, name string, price int) model.MenuItem {
	return model.MenuItem{
		ID:          id,
		Name:        name,
		Price:       price,
		IsAvailable: true,
	}
}

func TestCart_AddLine(t *testing.T) {
	cart := NewCart()

	cart.AddLine(menuItem(1, "スープ", 500))
	cart.AddLine(menuItem(2, "パン", 300))
	cart.AddLine(menuItem(1, "スープ", 500))

	lines := cart.Lines()
	assert.Len(t, lines, 2)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, 1, lines[1].Quantity)
	// 行順は追加順を保つ
	assert.Equal(t, uint(1), lines[0].MenuItemID)
	assert.Equal(t, uint(2), lines[1].MenuItemID)
}

func TestCart_ChangeQuantity(t *testing.T) {
	cart := NewCart()
	cart.AddLine(menuItem(1, "スープ", 500))
	cart.AddLine(menuItem(2, "パン", 300))

	cart.ChangeQuantity(1, 2)
	assert.Equal(t, 3, cart.Lines()[0].Quantity)

	// ゼロ以下になった行は削除される
	cart.ChangeQuantity(2, -1)
	lines := cart.Lines()
	assert.Len(t, lines, 1)
	assert.Equal(t, uint(1), lines[0].MenuItemID)

	// 存在しない商品は no-op
	cart.ChangeQuantity(99, 5)
	assert.Len(t, cart.Lines(), 1)
}

func TestCart_RemoveLine(t *testing.T) {
	cart := NewCart()
	cart.AddLine(menuItem(1, "スープ", 500))
	cart.AddLine(menuItem(2, "パン", 300))

	cart.RemoveLine(1)
	lines := cart.Lines()
	assert.Len(t, lines, 1)
	assert.Equal(t, uint(2), lines[0].MenuItemID)

	cart.RemoveLine(2)
	assert.True(t, cart.IsEmpty())
}

func TestCart_Clear(t *testing.T) {
	cart := NewCart()
	cart.AddLine(menuItem(1, "スープ", 500))
	cart.Clear()
	assert.True(t, cart.IsEmpty())
	assert.Empty(t, cart.Lines())
}

func TestComputeTotals(t *testing.T) {
	tests := []struct {
		name         string
		lines        []CartLine
		taxRate      float64
		wantSubtotal int
		wantTax      int
		wantTotal    int
	}{
		{
			name:    "Soup x2 and bread x1 at 10 percent",
			lines: []CartLine{
				{MenuItemID: 1, Name: "スープ", Price: 500, Quantity: 2},
				{MenuItemID: 2, Name: "パン", Price: 300, Quantity: 1},
			},
			taxRate:      0.10,
			wantSubtotal: 1300,
			wantTax:      130,
			wantTotal:    1430,
		},
		{
			name: "Tax floors on the whole order",
			lines: []CartLine{
				{MenuItemID: 1, Price: 999, Quantity: 1},
			},
			taxRate:      0.10,
			wantSubtotal: 999,
			wantTax:      99,
			wantTotal:    1098,
		},
		{
			name: "Floating point boundary 995",
			lines: []CartLine{
				{MenuItemID: 1, Price: 995, Quantity: 1},
			},
			taxRate:      0.10,
			wantSubtotal: 995,
			wantTax:      99,
			wantTotal:    1094,
		},
		{
			name: "Round figure 1050",
			lines: []CartLine{
				{MenuItemID: 1, Price: 1050, Quantity: 1},
			},
			taxRate:      0.10,
			wantSubtotal: 1050,
			wantTax:      105,
			wantTotal:    1155,
		},
		{
			name:         "Empty cart",
			lines:        nil,
			taxRate:      0.10,
			wantSubtotal: 0,
			wantTax:      0,
			wantTotal:    0,
		},
		{
			name: "Zero tax rate",
			lines: []CartLine{
				{MenuItemID: 1, Price: 800, Quantity: 3},
			},
			taxRate:      0,
			wantSubtotal: 2400,
			wantTax:      0,
			wantTotal:    2400,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			totals := ComputeTotals(tt.lines, tt.taxRate)
			assert.Equal(t, tt.wantSubtotal, totals.Subtotal)
			assert.Equal(t, tt.wantTax, totals.Tax)
			assert.Equal(t, tt.wantTotal, totals.Total)
			// 合計は常に小計+税
			assert.Equal(t, totals.Subtotal+totals.Tax, totals.Total)
		})
	}
}
