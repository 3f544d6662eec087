package repository

import (
	"github.com/yorkie01/restaurant-order-system/internal/app/model"
	"github.com/yorkie01/restaurant-order-system/pkg/logger"
	"gorm.io/gorm"
)

type MenuRepository interface {
	FindCategories() ([]model.Category, error)
	FindAvailableItems() ([]model.MenuItem, error)
	FindAllItems() ([]model.MenuItem, error)
	FindItemByID(id uint) (*model.MenuItem, error)
	UpdateItemImageURL(id uint, imageURL string) error
	BulkCreateItems(items []model.MenuItem, batchSize int) error
}

type menuRepository struct {
	db *gorm.DB
}

func NewMenuRepository(db *gorm.DB) MenuRepository {
	return &menuRepository{db: db}
}

func (r *menuRepository) FindCategories() ([]model.Category, error) {
	logger.Debug("Finding menu categories in database")

	var categories []model.Category
	if err := r.db.Order("display_order").Find(&categories).Error; err != nil {
		logger.Error("Failed to find menu categories in database", err)
		return nil, err
	}

	logger.Debug("Menu categories found in database", map[string]interface{}{
		"count": len(categories),
	})
	return categories, nil
}

func (r *menuRepository) FindAvailableItems() ([]model.MenuItem, error) {
	logger.Debug("Finding available menu items in database")

	var items []model.MenuItem
	if err := r.db.Where("is_available = ?", true).
		Order("id").
		Find(&items).Error; err != nil {
		logger.Error("Failed to find available menu items in database", err)
		return nil, err
	}

	logger.Debug("Available menu items found in database", map[string]interface{}{
		"count": len(items),
	})
	return items, nil
}

func (r *menuRepository) FindAllItems() ([]model.MenuItem, error) {
	logger.Debug("Finding all menu items in database")

	var items []model.MenuItem
	if err := r.db.Order("id").Find(&items).Error; err != nil {
		logger.Error("Failed to find all menu items in database", err)
		return nil, err
	}

	logger.Debug("All menu items found in database", map[string]interface{}{
		"count": len(items),
	})
	return items, nil
}

func (r *menuRepository) FindItemByID(id uint) (*model.MenuItem, error) {
	logger.Debug("Finding menu item by ID in database", map[string]interface{}{
		"menu_item_id": id,
	})

	var item model.MenuItem
	if err := r.db.First(&item, id).Error; err != nil {
		logger.Error("Failed to find menu item by ID in database", err, map[string]interface{}{
			"menu_item_id": id,
		})
		return nil, err
	}

	return &item, nil
}

func (r *menuRepository) BulkCreateItems(items []model.MenuItem, batchSize int) error {
	logger.Debug("Bulk creating menu items in database", map[string]interface{}{
		"count":      len(items),
		"batch_size": batchSize,
	})

	if err := r.db.CreateInBatches(items, batchSize).Error; err != nil {
		logger.Error("Failed to bulk create menu items in database", err, map[string]interface{}{
			"count": len(items),
		})
		return err
	}

	return nil
}

func (r *menuRepository) UpdateItemImageURL(id uint, imageURL string) error {
	logger.Debug("Updating menu item image URL in database", map[string]interface{}{
		"menu_item_id": id,
	})

	if err := r.db.Model(&model.MenuItem{}).Where("id = ?", id).
		Update("image_url", imageURL).Error; err != nil {
		logger.Error("Failed to update menu item image URL in database", err, map[string]interface{}{
			"menu_item_id": id,
		})
		return err
	}

	return nil
}
