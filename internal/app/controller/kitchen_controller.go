package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/yorkie01/restaurant-order-system/internal/app/model"
	"github.com/yorkie01/restaurant-order-system/internal/app/service"
	errorsPkg "github.com/yorkie01/restaurant-order-system/internal/errors"
	"github.com/yorkie01/restaurant-order-system/internal/kitchen"
	"github.com/yorkie01/restaurant-order-system/internal/middleware"
	ws "github.com/yorkie01/restaurant-order-system/internal/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// ディスプレイは店内ネットワークのみ。オリジンは問わない。
		return true
	},
}

type KitchenController struct {
	orderService service.OrderService
	authService  service.AuthService
	board        *kitchen.Board
	supervisor   *kitchen.Supervisor
	hub          *ws.Hub
}

func NewKitchenController(
	orderService service.OrderService,
	authService service.AuthService,
	board *kitchen.Board,
	supervisor *kitchen.Supervisor,
	hub *ws.Hub,
) *KitchenController {
	return &KitchenController{
		orderService: orderService,
		authService:  authService,
		board:        board,
		supervisor:   supervisor,
		hub:          hub,
	}
}

type StaffLoginRequest struct {
	Passcode string `json:"passcode" binding:"required"`
}

type UpdateOrderStatusRequest struct {
	Status model.OrderStatus `json:"status" binding:"required"`
}

// Login exchanges the staff passcode for a token
// POST /api/v1/kitchen/login
func (ctrl *KitchenController) Login(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req StaffLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorsPkg.BadRequest(c, errorsPkg.ValidationRequired, "パスコードを入力してください")
		return
	}

	token, err := ctrl.authService.Login(req.Passcode)
	if err != nil {
		if errors.Is(err, service.ErrInvalidPasscode) {
			log.Warn("Staff login failed: wrong passcode", map[string]interface{}{
				"ip": c.ClientIP(),
			})
			errorsPkg.RespondWithError(c, http.StatusUnauthorized, errorsPkg.AuthInvalidCredentials, "パスコードが正しくありません")
			return
		}
		log.Error("Staff login failed", err, nil)
		errorsPkg.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
	})
}

// GetBoard returns the kitchen board grouped into columns
// GET /api/v1/kitchen/board
func (ctrl *KitchenController) GetBoard(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"board":  ctrl.board.Buckets(),
		"online": ctrl.supervisor.Online(),
	})
}

// ReloadBoard forces a full board reload from the store
// POST /api/v1/kitchen/board/reload
func (ctrl *KitchenController) ReloadBoard(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	if err := ctrl.board.Reload(); err != nil {
		log.Error("Manual board reload failed", err, nil)
		errorsPkg.RespondWithError(c, http.StatusServiceUnavailable, errorsPkg.KitchenBoardUnavailable, "ボードの更新に失敗しました")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"board":  ctrl.board.Buckets(),
		"online": ctrl.supervisor.Online(),
	})
}

// UpdateOrderStatus moves an order through the kitchen workflow
// PUT /api/v1/kitchen/orders/:id/status
func (ctrl *KitchenController) UpdateOrderStatus(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		errorsPkg.BadRequest(c, errorsPkg.ValidationInvalidID, "注文IDが正しくありません")
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorsPkg.BadRequest(c, errorsPkg.ValidationInvalidInput, "リクエストの形式が正しくありません")
		return
	}

	event, err := ctrl.orderService.UpdateOrderStatus(uint(orderID), req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			errorsPkg.NotFound(c, errorsPkg.OrderNotFound, "注文が見つかりません")
		case errors.Is(err, service.ErrInvalidStatus):
			errorsPkg.BadRequest(c, errorsPkg.OrderInvalidStatus, "不正なステータスです")
		case errors.Is(err, service.ErrInvalidTransition):
			errorsPkg.Conflict(c, errorsPkg.OrderInvalidTransition, "このステータスには変更できません")
		default:
			log.Error("Failed to update order status", err, map[string]interface{}{
				"order_id": orderID,
			})
			errorsPkg.InternalError(c, "")
		}
		return
	}

	// Apply the committed change locally as well, so the display that made
	// it does not depend on its own event coming back around.
	ctrl.board.ApplyEvent(*event)

	c.JSON(http.StatusOK, gin.H{
		"order_id":   event.OrderID,
		"status":     event.Status,
		"updated_at": event.UpdatedAt,
	})
}

// WebSocketHandler upgrades a kitchen display connection
// GET /api/v1/kitchen/ws
// トークンはクエリで受けるがログには残さない
func (ctrl *KitchenController) WebSocketHandler(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("Failed to upgrade to WebSocket", err)
		return
	}

	client := &ws.Client{
		Hub:       ctrl.hub,
		Conn:      &ws.Conn{Conn: conn},
		DisplayID: uuid.NewString(),
		Send:      make(chan []byte, 256),
	}

	ctrl.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()

	log.Info("Kitchen display WebSocket established", map[string]interface{}{
		"display_id": client.DisplayID,
	})
}
