package controller

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yorkie01/restaurant-order-system/internal/app/service"
	"github.com/yorkie01/restaurant-order-system/internal/app/session"
	errorsPkg "github.com/yorkie01/restaurant-order-system/internal/errors"
	"github.com/yorkie01/restaurant-order-system/internal/middleware"
)

// Broadcaster fans a message out to the connected kitchen displays.
type Broadcaster interface {
	Broadcast(message interface{}) error
}

type TableController struct {
	sessions     *session.Manager
	menuService  service.MenuService
	orderService service.OrderService
	displays     Broadcaster
}

func NewTableController(
	sessions *session.Manager,
	menuService service.MenuService,
	orderService service.OrderService,
	displays Broadcaster,
) *TableController {
	return &TableController{
		sessions:     sessions,
		menuService:  menuService,
		orderService: orderService,
		displays:     displays,
	}
}

type AddCartItemRequest struct {
	MenuItemID uint `json:"menu_item_id" binding:"required"`
}

type ChangeQuantityRequest struct {
	Delta int `json:"delta" binding:"required"`
}

// 支払い方法。個別会計かまとめて会計か。
const (
	PaymentMethodIndividual = "individual"
	PaymentMethodTogether   = "together"
)

type CheckoutRequest struct {
	PaymentMethod string `json:"payment_method"`
}

// cartResponse builds the cart view shared by several handlers.
func (ctrl *TableController) cartResponse(sess *session.TableSession) gin.H {
	lines := sess.CartLines()
	totals := ctrl.orderService.CartTotals(sess)
	return gin.H{
		"table_id":      sess.TableNumber,
		"items":         lines,
		"totals":        totals,
		"running_total": sess.RunningTotal(),
	}
}

// session resolves the active session for the table in the URL, responding
// with an error when none exists.
func (ctrl *TableController) session(c *gin.Context) *session.TableSession {
	tableID := c.Param("table")
	sess := ctrl.sessions.Get(tableID)
	if sess == nil {
		errorsPkg.NotFound(c, errorsPkg.TableNotFound, "テーブルのセッションが開始されていません")
		return nil
	}
	return sess
}

// StartSession starts or resumes the ordering session for a table
// POST /api/v1/tables/:table/session
func (ctrl *TableController) StartSession(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	tableID := c.Param("table")

	sess, err := ctrl.sessions.Start(tableID)
	if err != nil {
		if errors.Is(err, session.ErrUnknownTable) {
			log.Warn("Unknown table for session start", map[string]interface{}{
				"table_id": tableID,
			})
			errorsPkg.NotFound(c, errorsPkg.TableNotFound, "テーブルが見つかりません")
			return
		}
		log.Error("Failed to start table session", err, map[string]interface{}{
			"table_id": tableID,
		})
		errorsPkg.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, ctrl.cartResponse(sess))
}

// GetCart returns the current cart and running total
// GET /api/v1/tables/:table/cart
func (ctrl *TableController) GetCart(c *gin.Context) {
	sess := ctrl.session(c)
	if sess == nil {
		return
	}
	c.JSON(http.StatusOK, ctrl.cartResponse(sess))
}

// AddCartItem adds one unit of a menu item to the cart
// POST /api/v1/tables/:table/cart/items
func (ctrl *TableController) AddCartItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	sess := ctrl.session(c)
	if sess == nil {
		return
	}

	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorsPkg.BadRequest(c, errorsPkg.ValidationInvalidInput, "リクエストの形式が正しくありません")
		return
	}

	item, err := ctrl.menuService.GetItemByID(req.MenuItemID)
	if err != nil {
		if errors.Is(err, service.ErrMenuItemNotFound) {
			errorsPkg.NotFound(c, errorsPkg.MenuItemNotFound, "商品が見つかりません")
			return
		}
		log.Error("Failed to fetch menu item for cart", err, map[string]interface{}{
			"table_id": sess.TableNumber,
			"item_id":  req.MenuItemID,
		})
		errorsPkg.InternalError(c, "")
		return
	}

	if !item.IsAvailable {
		log.Warn("Attempt to add sold out item to cart", map[string]interface{}{
			"table_id": sess.TableNumber,
			"item_id":  item.ID,
		})
		errorsPkg.Conflict(c, errorsPkg.MenuItemSoldOut, "この商品は品切れです")
		return
	}

	sess.AddItem(*item)

	log.Info("Item added to cart", map[string]interface{}{
		"table_id": sess.TableNumber,
		"item_id":  item.ID,
	})

	c.JSON(http.StatusOK, ctrl.cartResponse(sess))
}

// ChangeCartItemQuantity adjusts a cart line by a signed delta
// PUT /api/v1/tables/:table/cart/items/:itemID
func (ctrl *TableController) ChangeCartItemQuantity(c *gin.Context) {
	sess := ctrl.session(c)
	if sess == nil {
		return
	}

	itemID, err := strconv.ParseUint(c.Param("itemID"), 10, 32)
	if err != nil {
		errorsPkg.BadRequest(c, errorsPkg.ValidationInvalidID, "商品IDが正しくありません")
		return
	}

	var req ChangeQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorsPkg.BadRequest(c, errorsPkg.ValidationInvalidInput, "リクエストの形式が正しくありません")
		return
	}

	sess.ChangeQuantity(uint(itemID), req.Delta)
	c.JSON(http.StatusOK, ctrl.cartResponse(sess))
}

// RemoveCartItem removes a cart line entirely
// DELETE /api/v1/tables/:table/cart/items/:itemID
func (ctrl *TableController) RemoveCartItem(c *gin.Context) {
	sess := ctrl.session(c)
	if sess == nil {
		return
	}

	itemID, err := strconv.ParseUint(c.Param("itemID"), 10, 32)
	if err != nil {
		errorsPkg.BadRequest(c, errorsPkg.ValidationInvalidID, "商品IDが正しくありません")
		return
	}

	sess.RemoveItem(uint(itemID))
	c.JSON(http.StatusOK, ctrl.cartResponse(sess))
}

// SubmitOrder turns the cart into an order
// POST /api/v1/tables/:table/orders
func (ctrl *TableController) SubmitOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	sess := ctrl.session(c)
	if sess == nil {
		return
	}

	order, err := ctrl.orderService.SubmitOrder(sess)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyCart):
			errorsPkg.BadRequest(c, errorsPkg.TableCartEmpty, "カートが空です")
		case errors.Is(err, session.ErrSubmitInFlight):
			errorsPkg.Conflict(c, errorsPkg.TableSubmitBusy, "注文を送信中です。少々お待ちください")
		default:
			log.Error("Failed to submit order", err, map[string]interface{}{
				"table_id": sess.TableNumber,
			})
			errorsPkg.InternalError(c, "注文の送信に失敗しました")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"order":         order,
		"running_total": sess.RunningTotal(),
	})
}

// CallStaff notifies the kitchen displays that the table wants a staff member
// POST /api/v1/tables/:table/call
func (ctrl *TableController) CallStaff(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	sess := ctrl.session(c)
	if sess == nil {
		return
	}

	if ctrl.displays != nil {
		err := ctrl.displays.Broadcast(map[string]interface{}{
			"type":      "staff_call",
			"table_id":  sess.TableNumber,
			"called_at": time.Now().UTC(),
		})
		if err != nil {
			log.Warn("Failed to broadcast staff call", map[string]interface{}{
				"table_id": sess.TableNumber,
				"error":    err.Error(),
			})
		}
	}

	log.Info("Staff called from table", map[string]interface{}{
		"table_id": sess.TableNumber,
	})

	c.JSON(http.StatusOK, gin.H{
		"table_id": sess.TableNumber,
		"called":   true,
	})
}

// Checkout settles the table's unsettled balance. The body is optional; a
// payment method, when sent, is recorded and echoed back.
// POST /api/v1/tables/:table/checkout
func (ctrl *TableController) Checkout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	sess := ctrl.session(c)
	if sess == nil {
		return
	}

	var req CheckoutRequest
	// ボディなしの会計は従来どおり受け付ける
	_ = c.ShouldBindJSON(&req)

	switch req.PaymentMethod {
	case "", PaymentMethodIndividual, PaymentMethodTogether:
	default:
		errorsPkg.BadRequest(c, errorsPkg.ValidationInvalidInput, "支払い方法が正しくありません")
		return
	}

	if err := ctrl.orderService.Checkout(sess); err != nil {
		if errors.Is(err, service.ErrNothingToSettle) {
			errorsPkg.BadRequest(c, errorsPkg.TableNothingToPay, "会計対象の注文がありません")
			return
		}
		log.Error("Failed to check out table", err, map[string]interface{}{
			"table_id": sess.TableNumber,
		})
		errorsPkg.InternalError(c, "会計処理に失敗しました")
		return
	}

	if req.PaymentMethod != "" {
		log.Info("Table checkout payment method", map[string]interface{}{
			"table_id":       sess.TableNumber,
			"payment_method": req.PaymentMethod,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"table_id":       sess.TableNumber,
		"payment_method": req.PaymentMethod,
		"running_total":  0,
	})
}
