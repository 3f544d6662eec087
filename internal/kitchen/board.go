package kitchen

import (
	"errors"
	"sync"
	"time"

	"github.com/yorkie01/restaurant-order-system/internal/app/model"
	"github.com/yorkie01/restaurant-order-system/internal/events"
	"github.com/yorkie01/restaurant-order-system/pkg/logger"
	"gorm.io/gorm"
)

// 商品マスタに存在しない商品IDの表示名
const unknownItemName = "不明な商品"

// newOrderAlertWindow throttles the audible new-order alert. Bursts of
// orders inside the window raise at most one alert.
const newOrderAlertWindow = 3 * time.Second

// Loader is the board's read path to the store. The board only ever pulls
// through it; all pushes arrive as events.
type Loader interface {
	OrderByID(id uint) (*model.Order, error)
	TodayOrders() ([]model.Order, error)
	MenuItems() ([]model.MenuItem, error)
}

type CardItem struct {
	MenuItemID uint   `json:"menu_item_id"`
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
	Price      int    `json:"price"`
}

type OrderCard struct {
	ID          uint              `json:"id"`
	TableID     string            `json:"table_id"`
	Status      model.OrderStatus `json:"status"`
	Items       []CardItem        `json:"items"`
	TotalAmount int               `json:"total_amount"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// Buckets groups the board's cards into the three kitchen columns.
type Buckets struct {
	New        []OrderCard `json:"new"`
	InProgress []OrderCard `json:"in_progress"`
	Done       []OrderCard `json:"done"`
}

// Board is the kitchen display's in-memory state: today's orders newest
// first plus a menu name cache. It converges on the store by merging
// change events, falling back to targeted fetches or a full reload when
// an event alone is not enough.
type Board struct {
	loader Loader

	mu        sync.Mutex
	orders    []OrderCard
	menuNames map[uint]string

	onNewOrder  func(OrderCard)
	lastAlertAt time.Time

	now func() time.Time
}

func NewBoard(loader Loader) *Board {
	return &Board{
		loader:    loader,
		menuNames: make(map[uint]string),
		now:       time.Now,
	}
}

// SetNewOrderAlert registers the callback fired for incoming pending
// orders, subject to the alert window.
func (b *Board) SetNewOrderAlert(fn func(OrderCard)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onNewOrder = fn
}

// Reload replaces the whole board from the store. It is the recovery path
// for any state the event stream cannot reproduce.
func (b *Board) Reload() error {
	items, err := b.loader.MenuItems()
	if err != nil {
		logger.Error("Failed to load menu for kitchen board", err, nil)
		return err
	}
	orders, err := b.loader.TodayOrders()
	if err != nil {
		logger.Error("Failed to load orders for kitchen board", err, nil)
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.menuNames = make(map[uint]string, len(items))
	for _, item := range items {
		b.menuNames[item.ID] = item.Name
	}

	b.orders = make([]OrderCard, 0, len(orders))
	for i := range orders {
		b.orders = append(b.orders, b.toCard(&orders[i]))
	}

	logger.Info("Kitchen board reloaded", map[string]interface{}{
		"order_count": len(b.orders),
		"menu_count":  len(b.menuNames),
	})
	return nil
}

// ApplyEvent merges one change event into the board.
func (b *Board) ApplyEvent(event events.Event) {
	switch event.Type {
	case events.TypeOrderCreated:
		b.applyCreated(event)
	case events.TypeOrderUpdated:
		b.applyUpdated(event)
	case events.TypeOrderItemAdded:
		// Item-level changes carry no snapshot; converge via full reload.
		if err := b.Reload(); err != nil {
			logger.Warn("Board reload after item event failed", map[string]interface{}{
				"order_id": event.OrderID,
				"error":    err.Error(),
			})
		}
	default:
		logger.Warn("Ignoring unknown board event type", map[string]interface{}{
			"event_type": event.Type,
		})
	}
}

func (b *Board) applyCreated(event events.Event) {
	order, err := b.loader.OrderByID(event.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Created order vanished before fetch", map[string]interface{}{
				"order_id": event.OrderID,
			})
			return
		}
		logger.Error("Failed to fetch created order", err, map[string]interface{}{
			"order_id": event.OrderID,
		})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.indexOf(order.ID) >= 0 {
		// Duplicate delivery, the card is already on the board.
		return
	}

	card := b.toCard(order)
	b.orders = append([]OrderCard{card}, b.orders...)

	logger.Info("New order placed on kitchen board", map[string]interface{}{
		"order_id": card.ID,
		"table_id": card.TableID,
	})

	if card.Status == model.OrderStatusPending && b.onNewOrder != nil {
		now := b.now()
		if now.Sub(b.lastAlertAt) >= newOrderAlertWindow {
			b.lastAlertAt = now
			b.onNewOrder(card)
		}
	}
}

func (b *Board) applyUpdated(event events.Event) {
	b.mu.Lock()
	idx := b.indexOf(event.OrderID)
	if idx >= 0 {
		card := &b.orders[idx]
		if event.UpdatedAt.Before(card.UpdatedAt) {
			// Out-of-order delivery. The card already reflects a newer write.
			logger.Debug("Dropping stale order event", map[string]interface{}{
				"order_id":        event.OrderID,
				"event_updated":   event.UpdatedAt,
				"current_updated": card.UpdatedAt,
			})
			b.mu.Unlock()
			return
		}
		card.Status = event.Status
		if event.TotalAmount > 0 {
			card.TotalAmount = event.TotalAmount
		}
		card.UpdatedAt = event.UpdatedAt
		b.mu.Unlock()
		return
	}
	b.mu.Unlock()

	// The board never saw this order, likely created while disconnected.
	order, err := b.loader.OrderByID(event.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Updated order missing from store", map[string]interface{}{
				"order_id": event.OrderID,
			})
			return
		}
		logger.Error("Failed to fetch updated order", err, map[string]interface{}{
			"order_id": event.OrderID,
		})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.indexOf(order.ID) >= 0 {
		return
	}
	b.orders = append([]OrderCard{b.toCard(order)}, b.orders...)
}

// Buckets returns the board grouped into kitchen columns, each preserving
// newest-first order.
func (b *Board) Buckets() Buckets {
	b.mu.Lock()
	defer b.mu.Unlock()

	var buckets Buckets
	for _, card := range b.orders {
		switch card.Status {
		case model.OrderStatusPending:
			buckets.New = append(buckets.New, card)
		case model.OrderStatusPreparing:
			buckets.InProgress = append(buckets.InProgress, card)
		case model.OrderStatusCompleted, model.OrderStatusConfirmed:
			buckets.Done = append(buckets.Done, card)
		}
	}
	return buckets
}

// Orders returns a snapshot of all cards, newest first.
func (b *Board) Orders() []OrderCard {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]OrderCard, len(b.orders))
	copy(out, b.orders)
	return out
}

// indexOf must be called with b.mu held.
func (b *Board) indexOf(orderID uint) int {
	for i := range b.orders {
		if b.orders[i].ID == orderID {
			return i
		}
	}
	return -1
}

// toCard must be called with b.mu held (reads the menu name cache).
func (b *Board) toCard(order *model.Order) OrderCard {
	items := make([]CardItem, 0, len(order.OrderItems))
	for _, item := range order.OrderItems {
		name, ok := b.menuNames[item.MenuItemID]
		if !ok {
			name = unknownItemName
		}
		items = append(items, CardItem{
			MenuItemID: item.MenuItemID,
			Name:       name,
			Quantity:   item.Quantity,
			Price:      item.Price,
		})
	}
	return OrderCard{
		ID:          order.ID,
		TableID:     order.TableID,
		Status:      order.Status,
		Items:       items,
		TotalAmount: order.TotalAmount,
		CreatedAt:   order.CreatedAt,
		UpdatedAt:   order.UpdatedAt,
	}
}
