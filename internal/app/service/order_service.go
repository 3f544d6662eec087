package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yorkie01/restaurant-order-system/internal/app/model"
	"github.com/yorkie01/restaurant-order-system/internal/app/repository"
	"github.com/yorkie01/restaurant-order-system/internal/app/session"
	"github.com/yorkie01/restaurant-order-system/internal/events"
	"github.com/yorkie01/restaurant-order-system/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidStatus     = errors.New("invalid order status")
	ErrInvalidTransition = errors.New("order status transition not allowed")
	ErrNothingToSettle   = errors.New("nothing to settle for this table")
)

type OrderService interface {
	CartTotals(sess *session.TableSession) session.Totals
	SubmitOrder(sess *session.TableSession) (*model.Order, error)
	Checkout(sess *session.TableSession) error
	UpdateOrderStatus(orderID uint, status model.OrderStatus) (*events.Event, error)
	GetOrderByID(orderID uint) (*model.Order, error)
}

type orderService struct {
	orderRepo repository.OrderRepository
	tableRepo repository.TableRepository
	db        *gorm.DB
	publisher events.Publisher
	taxRate   float64
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	tableRepo repository.TableRepository,
	db *gorm.DB,
	publisher events.Publisher,
	taxRate float64,
) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		tableRepo: tableRepo,
		db:        db,
		publisher: publisher,
		taxRate:   taxRate,
	}
}

func (s *orderService) CartTotals(sess *session.TableSession) session.Totals {
	return session.ComputeTotals(sess.CartLines(), s.taxRate)
}

// SubmitOrder turns the session's cart into a persisted order. The order
// header, its items and the table's running-total increment commit in one
// transaction; a failed item insert never leaves a headless order row.
func (s *orderService) SubmitOrder(sess *session.TableSession) (*model.Order, error) {
	if err := sess.BeginSubmit(); err != nil {
		logger.Warn("Order submission rejected: already in flight", map[string]interface{}{
			"table_id": sess.TableNumber,
		})
		return nil, err
	}
	defer sess.EndSubmit()

	lines := sess.CartLines()
	if len(lines) == 0 {
		logger.Warn("Cannot submit order: cart is empty", map[string]interface{}{
			"table_id": sess.TableNumber,
		})
		return nil, ErrEmptyCart
	}

	totals := session.ComputeTotals(lines, s.taxRate)

	logger.Info("Submitting order", map[string]interface{}{
		"table_id":   sess.TableNumber,
		"item_count": len(lines),
		"subtotal":   totals.Subtotal,
		"tax":        totals.Tax,
		"total":      totals.Total,
	})

	orderItems := make([]model.OrderItem, 0, len(lines))
	for _, line := range lines {
		orderItems = append(orderItems, model.OrderItem{
			MenuItemID: line.MenuItemID,
			Quantity:   line.Quantity,
			Price:      line.Price, // 注文時点の単価スナップショット
		})
	}

	order := &model.Order{
		TableID:     sess.TableNumber,
		Status:      model.OrderStatusPending,
		TotalAmount: totals.Total,
		OrderItems:  orderItems,
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during order submission, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"table_id": sess.TableNumber,
			})
		}
	}()

	if err := s.orderRepo.Create(tx, order); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := s.tableRepo.AddToCumulative(tx, sess.TableNumber, totals.Total); err != nil {
		tx.Rollback()
		logger.Error("Failed to add order total to table balance", err, map[string]interface{}{
			"table_id": sess.TableNumber,
			"order_id": order.ID,
		})
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit order transaction", err, map[string]interface{}{
			"table_id": sess.TableNumber,
			"order_id": order.ID,
		})
		return nil, err
	}

	sess.CompleteSubmit(totals.Total)

	logger.Info("Order submitted successfully", map[string]interface{}{
		"table_id":      sess.TableNumber,
		"order_id":      order.ID,
		"total_amount":  order.TotalAmount,
		"running_total": sess.RunningTotal(),
	})

	s.publish(events.Event{
		Type:        events.TypeOrderCreated,
		OrderID:     order.ID,
		TableID:     order.TableID,
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
		UpdatedAt:   order.UpdatedAt,
	})

	return order, nil
}

// Checkout settles the table: the running total is zeroed exactly once and
// the cart is discarded without creating a further order. A table with an
// empty cart and a zero balance has nothing to settle.
func (s *orderService) Checkout(sess *session.TableSession) error {
	if sess.CartIsEmpty() && sess.RunningTotal() == 0 {
		logger.Warn("Checkout rejected: nothing to settle", map[string]interface{}{
			"table_id": sess.TableNumber,
		})
		return ErrNothingToSettle
	}

	if err := s.tableRepo.ResetCumulative(sess.TableNumber); err != nil {
		logger.Error("Failed to reset table balance at checkout", err, map[string]interface{}{
			"table_id": sess.TableNumber,
		})
		return err
	}

	sess.CompleteCheckout()

	logger.Info("Table checked out successfully", map[string]interface{}{
		"table_id": sess.TableNumber,
	})
	return nil
}

// UpdateOrderStatus validates the transition, persists status + updated_at
// and returns the change event it published so the caller can apply the
// same change locally instead of re-fetching.
func (s *orderService) UpdateOrderStatus(orderID uint, status model.OrderStatus) (*events.Event, error) {
	if !status.IsValid() {
		logger.Warn("Rejecting unknown order status", map[string]interface{}{
			"order_id": orderID,
			"status":   status,
		})
		return nil, ErrInvalidStatus
	}

	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Order not found for status update", map[string]interface{}{
				"order_id": orderID,
			})
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if !order.Status.CanTransitionTo(status) {
		logger.Warn("Order status transition not allowed", map[string]interface{}{
			"order_id":    orderID,
			"from_status": order.Status,
			"to_status":   status,
		})
		return nil, ErrInvalidTransition
	}

	updatedAt := time.Now().UTC()
	if err := s.orderRepo.UpdateStatus(orderID, status, updatedAt); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	logger.Info("Order status updated successfully", map[string]interface{}{
		"order_id":    orderID,
		"from_status": order.Status,
		"to_status":   status,
	})

	event := events.Event{
		Type:        events.TypeOrderUpdated,
		OrderID:     orderID,
		TableID:     order.TableID,
		Status:      status,
		TotalAmount: order.TotalAmount,
		UpdatedAt:   updatedAt,
	}
	s.publish(event)

	return &event, nil
}

func (s *orderService) GetOrderByID(orderID uint) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

// publish sends a change event to the feed. A feed failure must not fail
// the already-committed operation; displays converge on their next reload.
func (s *orderService) publish(event events.Event) {
	if s.publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.publisher.Publish(ctx, event); err != nil {
		logger.Warn("Failed to publish order event", map[string]interface{}{
			"event_type": event.Type,
			"order_id":   event.OrderID,
			"error":      err.Error(),
		})
	}
}
