package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yorkie01/restaurant-order-system/internal/app/service"
	errorsPkg "github.com/yorkie01/restaurant-order-system/internal/errors"
	"github.com/yorkie01/restaurant-order-system/internal/middleware"
	"github.com/yorkie01/restaurant-order-system/internal/storage"
)

const maxImageSize = 5 * 1024 * 1024 // 5MB

var allowedImageTypes = []string{"image/jpeg", "image/png", "image/webp"}

type UploadController struct {
	storage     *storage.S3Storage
	menuService service.MenuService
}

func NewUploadController(storage *storage.S3Storage, menuService service.MenuService) *UploadController {
	return &UploadController{
		storage:     storage,
		menuService: menuService,
	}
}

type MenuImageUploadRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
	FileSize    int64  `json:"file_size" binding:"required"`
}

// CreateMenuImageUploadURL issues a presigned upload URL for a menu item
// image and records the resulting file URL on the item.
// POST /api/v1/kitchen/menu/:id/image
func (ctrl *UploadController) CreateMenuImageUploadURL(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	itemID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		errorsPkg.BadRequest(c, errorsPkg.ValidationInvalidID, "商品IDが正しくありません")
		return
	}

	var req MenuImageUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorsPkg.BadRequest(c, errorsPkg.ValidationInvalidInput, "リクエストの形式が正しくありません")
		return
	}

	if err := ctrl.storage.ValidateContentType(req.ContentType, allowedImageTypes); err != nil {
		errorsPkg.BadRequest(c, errorsPkg.UploadInvalidFileType, "対応していないファイル形式です")
		return
	}
	if err := ctrl.storage.ValidateFileSize(req.FileSize, maxImageSize); err != nil {
		errorsPkg.BadRequest(c, errorsPkg.UploadFileTooLarge, "ファイルサイズが大きすぎます")
		return
	}

	// 商品の存在確認
	if _, err := ctrl.menuService.GetItemByID(uint(itemID)); err != nil {
		if errors.Is(err, service.ErrMenuItemNotFound) {
			errorsPkg.NotFound(c, errorsPkg.MenuItemNotFound, "商品が見つかりません")
			return
		}
		log.Error("Failed to fetch menu item for image upload", err, map[string]interface{}{
			"item_id": itemID,
		})
		errorsPkg.InternalError(c, "")
		return
	}

	presigned, err := ctrl.storage.GeneratePresignedURL(req.Filename, req.ContentType)
	if err != nil {
		log.Error("Failed to generate presigned upload URL", err, map[string]interface{}{
			"item_id": itemID,
		})
		errorsPkg.RespondWithError(c, http.StatusInternalServerError, errorsPkg.UploadFailed, "アップロードURLの発行に失敗しました")
		return
	}

	if err := ctrl.menuService.SetItemImage(uint(itemID), presigned.FileURL); err != nil {
		log.Error("Failed to record menu image URL", err, map[string]interface{}{
			"item_id": itemID,
		})
		errorsPkg.InternalError(c, "")
		return
	}

	log.Info("Menu image upload URL issued", map[string]interface{}{
		"item_id": itemID,
		"key":     presigned.Key,
	})

	c.JSON(http.StatusOK, presigned)
}
