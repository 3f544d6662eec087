package repository

import (
	"time"

	"github.com/yorkie01/restaurant-order-system/internal/app/model"
	"github.com/yorkie01/restaurant-order-system/pkg/logger"
	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(tx *gorm.DB, order *model.Order) error
	FindByID(id uint) (*model.Order, error)
	FindSince(since time.Time) ([]model.Order, error)
	UpdateStatus(id uint, status model.OrderStatus, updatedAt time.Time) error
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

// Create inserts the order header together with its items. The caller
// supplies the transaction so the running-total increment can commit
// atomically with the order rows.
func (r *orderRepository) Create(tx *gorm.DB, order *model.Order) error {
	logger.Debug("Creating order in database", map[string]interface{}{
		"table_id":     order.TableID,
		"total_amount": order.TotalAmount,
		"item_count":   len(order.OrderItems),
	})

	if tx == nil {
		tx = r.db
	}
	if err := tx.Create(order).Error; err != nil {
		logger.Error("Failed to create order in database", err, map[string]interface{}{
			"table_id":     order.TableID,
			"total_amount": order.TotalAmount,
		})
		return err
	}

	logger.Debug("Order created in database", map[string]interface{}{
		"order_id":     order.ID,
		"table_id":     order.TableID,
		"total_amount": order.TotalAmount,
	})
	return nil
}

func (r *orderRepository) FindByID(id uint) (*model.Order, error) {
	logger.Debug("Finding order by ID in database", map[string]interface{}{
		"order_id": id,
	})

	var order model.Order
	if err := r.db.Preload("OrderItems").First(&order, id).Error; err != nil {
		logger.Error("Failed to find order by ID in database", err, map[string]interface{}{
			"order_id": id,
		})
		return nil, err
	}

	logger.Debug("Order found by ID in database", map[string]interface{}{
		"order_id": order.ID,
		"table_id": order.TableID,
		"status":   order.Status,
	})
	return &order, nil
}

// FindSince returns orders created at or after the given time, newest first,
// with their items preloaded. The kitchen board passes the start of today.
func (r *orderRepository) FindSince(since time.Time) ([]model.Order, error) {
	logger.Debug("Finding orders since timestamp in database", map[string]interface{}{
		"since": since,
	})

	var orders []model.Order
	if err := r.db.Preload("OrderItems").
		Where("created_at >= ?", since).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		logger.Error("Failed to find orders since timestamp in database", err, map[string]interface{}{
			"since": since,
		})
		return nil, err
	}

	logger.Debug("Orders found since timestamp in database", map[string]interface{}{
		"since": since,
		"count": len(orders),
	})
	return orders, nil
}

func (r *orderRepository) UpdateStatus(id uint, status model.OrderStatus, updatedAt time.Time) error {
	logger.Debug("Updating order status in database", map[string]interface{}{
		"order_id": id,
		"status":   status,
	})

	result := r.db.Model(&model.Order{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": updatedAt,
		})
	if result.Error != nil {
		logger.Error("Failed to update order status in database", result.Error, map[string]interface{}{
			"order_id": id,
			"status":   status,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	logger.Debug("Order status updated in database", map[string]interface{}{
		"order_id": id,
		"status":   status,
	})
	return nil
}
