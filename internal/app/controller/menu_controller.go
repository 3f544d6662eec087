package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yorkie01/restaurant-order-system/internal/app/service"
	errorsPkg "github.com/yorkie01/restaurant-order-system/internal/errors"
	"github.com/yorkie01/restaurant-order-system/internal/middleware"
)

type MenuController struct {
	menuService service.MenuService
}

func NewMenuController(menuService service.MenuService) *MenuController {
	return &MenuController{
		menuService: menuService,
	}
}

// GetMenu returns categories and available items for the ordering screen
// GET /api/v1/menu
func (ctrl *MenuController) GetMenu(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	categories, err := ctrl.menuService.GetCategories()
	if err != nil {
		log.Error("Failed to fetch menu categories", err, nil)
		errorsPkg.InternalError(c, "メニューの取得に失敗しました")
		return
	}

	items, err := ctrl.menuService.GetAvailableItems()
	if err != nil {
		log.Error("Failed to fetch menu items", err, nil)
		errorsPkg.InternalError(c, "メニューの取得に失敗しました")
		return
	}

	log.Info("Menu fetched successfully", map[string]interface{}{
		"category_count": len(categories),
		"item_count":     len(items),
	})

	c.JSON(http.StatusOK, gin.H{
		"categories": categories,
		"items":      items,
	})
}

// GetMenuItem returns a single menu item
// GET /api/v1/menu/items/:id
func (ctrl *MenuController) GetMenuItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		log.Warn("Invalid menu item ID format", map[string]interface{}{
			"item_id": idStr,
		})
		errorsPkg.BadRequest(c, errorsPkg.ValidationInvalidID, "商品IDが正しくありません")
		return
	}

	item, err := ctrl.menuService.GetItemByID(uint(id))
	if err != nil {
		if errors.Is(err, service.ErrMenuItemNotFound) {
			errorsPkg.NotFound(c, errorsPkg.MenuItemNotFound, "商品が見つかりません")
			return
		}
		log.Error("Failed to fetch menu item", err, map[string]interface{}{
			"item_id": id,
		})
		errorsPkg.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"item": item,
	})
}
