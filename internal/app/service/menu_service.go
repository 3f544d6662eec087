package service

import (
	"errors"

	"github.com/yorkie01/restaurant-order-system/internal/app/model"
	"github.com/yorkie01/restaurant-order-system/internal/app/repository"
	"github.com/yorkie01/restaurant-order-system/pkg/logger"
	"gorm.io/gorm"
)

var ErrMenuItemNotFound = errors.New("menu item not found")

type MenuService interface {
	GetCategories() ([]model.Category, error)
	GetAvailableItems() ([]model.MenuItem, error)
	GetItemByID(id uint) (*model.MenuItem, error)
	SetItemImage(id uint, imageURL string) error
}

type menuService struct {
	menuRepo repository.MenuRepository
}

func NewMenuService(menuRepo repository.MenuRepository) MenuService {
	return &menuService{menuRepo: menuRepo}
}

func (s *menuService) GetCategories() ([]model.Category, error) {
	categories, err := s.menuRepo.FindCategories()
	if err != nil {
		logger.Error("Failed to fetch menu categories", err)
		return nil, err
	}

	logger.Info("Menu categories fetched successfully", map[string]interface{}{
		"count": len(categories),
	})
	return categories, nil
}

func (s *menuService) GetAvailableItems() ([]model.MenuItem, error) {
	items, err := s.menuRepo.FindAvailableItems()
	if err != nil {
		logger.Error("Failed to fetch available menu items", err)
		return nil, err
	}

	logger.Info("Available menu items fetched successfully", map[string]interface{}{
		"count": len(items),
	})
	return items, nil
}

func (s *menuService) GetItemByID(id uint) (*model.MenuItem, error) {
	item, err := s.menuRepo.FindItemByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Menu item not found", map[string]interface{}{
				"menu_item_id": id,
			})
			return nil, ErrMenuItemNotFound
		}
		logger.Error("Failed to fetch menu item", err, map[string]interface{}{
			"menu_item_id": id,
		})
		return nil, err
	}
	return item, nil
}

func (s *menuService) SetItemImage(id uint, imageURL string) error {
	if _, err := s.GetItemByID(id); err != nil {
		return err
	}

	if err := s.menuRepo.UpdateItemImageURL(id, imageURL); err != nil {
		logger.Error("Failed to update menu item image", err, map[string]interface{}{
			"menu_item_id": id,
		})
		return err
	}

	logger.Info("Menu item image updated successfully", map[string]interface{}{
		"menu_item_id": id,
	})
	return nil
}
