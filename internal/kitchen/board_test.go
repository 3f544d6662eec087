package kitchen

import (
	"sync"
	"testing"
	"time"

	"github.com/yorkie01/restaurant-order-system/internal/app/model"
	"github.com/yorkie01/restaurant-order-system/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeLoader struct {
	mu          sync.Mutex
	orders      map[uint]*model.Order
	today       []model.Order
	menu        []model.MenuItem
	reloadCount int
}

func (l *fakeLoader) OrderByID(id uint) (*model.Order, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	order, ok := l.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return order, nil
}

func (l *fakeLoader) TodayOrders() ([]model.Order, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.reloadCount++
	return l.today, nil
}

func (l *fakeLoader) MenuItems() ([]model.MenuItem, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.menu, nil
}

func (l *fakeLoader) setOrder(order *model.Order) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.orders[order.ID] = order
}

func (l *fakeLoader) reloads() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.reloadCount
}

func testOrder(id uint, table string, status model.OrderStatus, updatedAt time.Time) *model.Order {
	return &model.Order{
		ID:          id,
		TableID:     table,
		Status:      status,
		TotalAmount: 550,
		CreatedAt:   updatedAt,
		UpdatedAt:   updatedAt,
		OrderItems: []model.OrderItem{
			{OrderID: id, MenuItemID: 1, Quantity: 1, Price: 500},
		},
	}
}

func setupBoard(t *testing.T) (*Board, *fakeLoader) {
	loader := &fakeLoader{
		orders: map[uint]*model.Order{},
		menu: []model.MenuItem{
			{ID: 1, Name: "スープ", Price: 500},
			{ID: 2, Name: "パン", Price: 300},
		},
	}
	board := NewBoard(loader)
	require.NoError(t, board.Reload())
	return board, loader
}

func TestBoard_ApplyOrderCreated(t *testing.T) {
	board, loader := setupBoard(t)

	now := time.Now()
	loader.orders[1] = testOrder(1, "A-1", model.OrderStatusPending, now)

	board.ApplyEvent(events.Event{
		Type:      events.TypeOrderCreated,
		OrderID:   1,
		TableID:   "A-1",
		Status:    model.OrderStatusPending,
		UpdatedAt: now,
	})

	orders := board.Orders()
	require.Len(t, orders, 1)
	assert.Equal(t, uint(1), orders[0].ID)
	assert.Equal(t, "スープ", orders[0].Items[0].Name)
	// カードには合計金額も表示する
	assert.Equal(t, 550, orders[0].TotalAmount)

	// 重複配信してもカードは増えない
	board.ApplyEvent(events.Event{
		Type:      events.TypeOrderCreated,
		OrderID:   1,
		UpdatedAt: now,
	})
	assert.Len(t, board.Orders(), 1)
}

func TestBoard_NewestFirst(t *testing.T) {
	board, loader := setupBoard(t)

	now := time.Now()
	loader.orders[1] = testOrder(1, "A-1", model.OrderStatusPending, now)
	loader.orders[2] = testOrder(2, "A-2", model.OrderStatusPending, now.Add(time.Minute))

	board.ApplyEvent(events.Event{Type: events.TypeOrderCreated, OrderID: 1, UpdatedAt: now})
	board.ApplyEvent(events.Event{Type: events.TypeOrderCreated, OrderID: 2, UpdatedAt: now.Add(time.Minute)})

	orders := board.Orders()
	require.Len(t, orders, 2)
	assert.Equal(t, uint(2), orders[0].ID)
	assert.Equal(t, uint(1), orders[1].ID)
}

func TestBoard_UnknownMenuItemPlaceholder(t *testing.T) {
	board, loader := setupBoard(t)

	now := time.Now()
	order := testOrder(1, "A-1", model.OrderStatusPending, now)
	order.OrderItems = []model.OrderItem{
		{OrderID: 1, MenuItemID: 99, Quantity: 1, Price: 400},
	}
	loader.orders[1] = order

	board.ApplyEvent(events.Event{Type: events.TypeOrderCreated, OrderID: 1, UpdatedAt: now})

	orders := board.Orders()
	require.Len(t, orders, 1)
	assert.Equal(t, "不明な商品", orders[0].Items[0].Name)
	// 価格と数量はそのまま表示する
	assert.Equal(t, 400, orders[0].Items[0].Price)
}

func TestBoard_ApplyOrderUpdated(t *testing.T) {
	board, loader := setupBoard(t)

	now := time.Now()
	loader.orders[1] = testOrder(1, "A-1", model.OrderStatusPending, now)
	board.ApplyEvent(events.Event{Type: events.TypeOrderCreated, OrderID: 1, UpdatedAt: now})

	later := now.Add(time.Second)
	update := events.Event{
		Type:        events.TypeOrderUpdated,
		OrderID:     1,
		Status:      model.OrderStatusPreparing,
		TotalAmount: 880,
		UpdatedAt:   later,
	}
	board.ApplyEvent(update)

	orders := board.Orders()
	require.Len(t, orders, 1)
	assert.Equal(t, model.OrderStatusPreparing, orders[0].Status)
	assert.Equal(t, 880, orders[0].TotalAmount)
	assert.Equal(t, later, orders[0].UpdatedAt)

	// 同一イベントの再適用は状態を変えない
	board.ApplyEvent(update)
	assert.Equal(t, model.OrderStatusPreparing, board.Orders()[0].Status)
	assert.Len(t, board.Orders(), 1)

	// 合計を持たないイベントは既存の表示金額を消さない
	board.ApplyEvent(events.Event{
		Type:      events.TypeOrderUpdated,
		OrderID:   1,
		Status:    model.OrderStatusCompleted,
		UpdatedAt: later.Add(time.Second),
	})
	assert.Equal(t, model.OrderStatusCompleted, board.Orders()[0].Status)
	assert.Equal(t, 880, board.Orders()[0].TotalAmount)
}

func TestBoard_DropsStaleUpdate(t *testing.T) {
	board, loader := setupBoard(t)

	now := time.Now()
	loader.orders[1] = testOrder(1, "A-1", model.OrderStatusPending, now)
	board.ApplyEvent(events.Event{Type: events.TypeOrderCreated, OrderID: 1, UpdatedAt: now})

	board.ApplyEvent(events.Event{
		Type:      events.TypeOrderUpdated,
		OrderID:   1,
		Status:    model.OrderStatusCompleted,
		UpdatedAt: now.Add(2 * time.Second),
	})

	// 遅れて届いた古いイベントは棄てられる
	board.ApplyEvent(events.Event{
		Type:      events.TypeOrderUpdated,
		OrderID:   1,
		Status:    model.OrderStatusPreparing,
		UpdatedAt: now.Add(time.Second),
	})

	assert.Equal(t, model.OrderStatusCompleted, board.Orders()[0].Status)
}

func TestBoard_UpdateForUnknownOrderFetches(t *testing.T) {
	board, loader := setupBoard(t)

	now := time.Now()
	loader.orders[5] = testOrder(5, "B-1", model.OrderStatusPreparing, now)

	// 切断中に作成された注文の更新イベントだけが届いた場合
	board.ApplyEvent(events.Event{
		Type:      events.TypeOrderUpdated,
		OrderID:   5,
		Status:    model.OrderStatusPreparing,
		UpdatedAt: now,
	})

	orders := board.Orders()
	require.Len(t, orders, 1)
	assert.Equal(t, uint(5), orders[0].ID)
	assert.Equal(t, model.OrderStatusPreparing, orders[0].Status)
}

func TestBoard_UpdateForMissingOrderIsIgnored(t *testing.T) {
	board, _ := setupBoard(t)

	board.ApplyEvent(events.Event{
		Type:      events.TypeOrderUpdated,
		OrderID:   42,
		Status:    model.OrderStatusPreparing,
		UpdatedAt: time.Now(),
	})

	assert.Empty(t, board.Orders())
}

func TestBoard_ItemAddedTriggersReload(t *testing.T) {
	board, loader := setupBoard(t)
	before := loader.reloadCount

	board.ApplyEvent(events.Event{Type: events.TypeOrderItemAdded, OrderID: 1})

	assert.Equal(t, before+1, loader.reloadCount)
}

func TestBoard_Buckets(t *testing.T) {
	board, loader := setupBoard(t)

	now := time.Now()
	statuses := []model.OrderStatus{
		model.OrderStatusPending,
		model.OrderStatusPreparing,
		model.OrderStatusCompleted,
		model.OrderStatusConfirmed,
		model.OrderStatusCancelled,
	}
	for i, status := range statuses {
		id := uint(i + 1)
		loader.orders[id] = testOrder(id, "A-1", status, now.Add(time.Duration(i)*time.Second))
		board.ApplyEvent(events.Event{Type: events.TypeOrderCreated, OrderID: id, UpdatedAt: now})
	}

	buckets := board.Buckets()
	require.Len(t, buckets.New, 1)
	assert.Equal(t, uint(1), buckets.New[0].ID)
	require.Len(t, buckets.InProgress, 1)
	assert.Equal(t, uint(2), buckets.InProgress[0].ID)
	// 完成と確認済みはどちらも提供済み列に入る。キャンセルは表示しない。
	require.Len(t, buckets.Done, 2)
}

func TestBoard_NewOrderAlertRateLimit(t *testing.T) {
	board, loader := setupBoard(t)

	now := time.Now()
	board.now = func() time.Time { return now }

	alerts := 0
	board.SetNewOrderAlert(func(OrderCard) { alerts++ })

	for i := uint(1); i <= 3; i++ {
		loader.orders[i] = testOrder(i, "A-1", model.OrderStatusPending, now)
		board.ApplyEvent(events.Event{Type: events.TypeOrderCreated, OrderID: i, UpdatedAt: now})
	}

	// 3秒以内の連続注文はアラート1回に抑える
	assert.Equal(t, 1, alerts)

	now = now.Add(newOrderAlertWindow)
	loader.orders[4] = testOrder(4, "A-2", model.OrderStatusPending, now)
	board.ApplyEvent(events.Event{Type: events.TypeOrderCreated, OrderID: 4, UpdatedAt: now})

	assert.Equal(t, 2, alerts)
}

func TestBoard_NoAlertForNonPendingOrder(t *testing.T) {
	board, loader := setupBoard(t)

	alerts := 0
	board.SetNewOrderAlert(func(OrderCard) { alerts++ })

	now := time.Now()
	loader.orders[1] = testOrder(1, "A-1", model.OrderStatusConfirmed, now)
	board.ApplyEvent(events.Event{Type: events.TypeOrderCreated, OrderID: 1, UpdatedAt: now})

	assert.Equal(t, 0, alerts)
}

func TestBoard_Reload(t *testing.T) {
	board, loader := setupBoard(t)

	now := time.Now()
	loader.today = []model.Order{
		*testOrder(2, "A-2", model.OrderStatusPreparing, now),
		*testOrder(1, "A-1", model.OrderStatusPending, now.Add(-time.Minute)),
	}

	require.NoError(t, board.Reload())

	orders := board.Orders()
	require.Len(t, orders, 2)
	assert.Equal(t, uint(2), orders[0].ID)
	assert.Equal(t, uint(1), orders[1].ID)
}
