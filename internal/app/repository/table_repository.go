package repository

import (
	"errors"

	"github.com/yorkie01/restaurant-order-system/internal/app/model"
	"github.com/yorkie01/restaurant-order-system/pkg/logger"
	"gorm.io/gorm"
)

type TableRepository interface {
	LoadOrInit(tableNumber string) (int, error)
	FindByNumber(tableNumber string) (*model.Table, error)
	AddToCumulative(tx *gorm.DB, tableNumber string, amount int) error
	ResetCumulative(tableNumber string) error
}

type tableRepository struct {
	db *gorm.DB
}

func NewTableRepository(db *gorm.DB) TableRepository {
	return &tableRepository{db: db}
}

// LoadOrInit returns the table's stored cumulative amount, inserting a zero
// row when the table has no row yet. A fresh table must never inherit
// another table's figure, and a reloaded session must adopt the stored one.
func (r *tableRepository) LoadOrInit(tableNumber string) (int, error) {
	logger.Debug("Loading table balance in database", map[string]interface{}{
		"table_id": tableNumber,
	})

	var table model.Table
	err := r.db.Where("table_number = ?", tableNumber).First(&table).Error
	if err == nil {
		return table.CumulativeAmount, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to load table balance in database", err, map[string]interface{}{
			"table_id": tableNumber,
		})
		return 0, err
	}

	table = model.Table{TableNumber: tableNumber, CumulativeAmount: 0}
	if err := r.db.Create(&table).Error; err != nil {
		logger.Error("Failed to create table balance row in database", err, map[string]interface{}{
			"table_id": tableNumber,
		})
		return 0, err
	}

	logger.Debug("Table balance row created in database", map[string]interface{}{
		"table_id": tableNumber,
	})
	return 0, nil
}

func (r *tableRepository) FindByNumber(tableNumber string) (*model.Table, error) {
	logger.Debug("Finding table by number in database", map[string]interface{}{
		"table_id": tableNumber,
	})

	var table model.Table
	if err := r.db.Where("table_number = ?", tableNumber).First(&table).Error; err != nil {
		logger.Error("Failed to find table by number in database", err, map[string]interface{}{
			"table_id": tableNumber,
		})
		return nil, err
	}

	return &table, nil
}

// AddToCumulative increments the table's running total on the SQL side so
// two racing sessions cannot lose an update. The caller may supply the
// order-submission transaction.
func (r *tableRepository) AddToCumulative(tx *gorm.DB, tableNumber string, amount int) error {
	logger.Debug("Adding to table cumulative amount in database", map[string]interface{}{
		"table_id": tableNumber,
		"amount":   amount,
	})

	if tx == nil {
		tx = r.db
	}
	result := tx.Model(&model.Table{}).
		Where("table_number = ?", tableNumber).
		Update("cumulative_amount", gorm.Expr("cumulative_amount + ?", amount))
	if result.Error != nil {
		logger.Error("Failed to add to table cumulative amount in database", result.Error, map[string]interface{}{
			"table_id": tableNumber,
			"amount":   amount,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// ResetCumulative zeroes the table's running total at checkout.
func (r *tableRepository) ResetCumulative(tableNumber string) error {
	logger.Debug("Resetting table cumulative amount in database", map[string]interface{}{
		"table_id": tableNumber,
	})

	result := r.db.Model(&model.Table{}).
		Where("table_number = ?", tableNumber).
		Update("cumulative_amount", 0)
	if result.Error != nil {
		logger.Error("Failed to reset table cumulative amount in database", result.Error, map[string]interface{}{
			"table_id": tableNumber,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	logger.Debug("Table cumulative amount reset in database", map[string]interface{}{
		"table_id": tableNumber,
	})
	return nil
}
