package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/yorkie01/restaurant-order-system/internal/app/model"
	"github.com/yorkie01/restaurant-order-system/internal/app/repository"
	"github.com/yorkie01/restaurant-order-system/internal/app/service"
	"github.com/yorkie01/restaurant-order-system/internal/app/session"
	"github.com/yorkie01/restaurant-order-system/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingBroadcaster struct {
	messages []interface{}
}

func (b *recordingBroadcaster) Broadcast(message interface{}) error {
	b.messages = append(b.messages, message)
	return nil
}

func setupTableControllerTest(t *testing.T) (*gin.Engine, *gorm.DB, *model.MenuItem, *recordingBroadcaster) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	menuRepo := repository.NewMenuRepository(testDB)
	orderRepo := repository.NewOrderRepository(testDB)
	tableRepo := repository.NewTableRepository(testDB)

	menuService := service.NewMenuService(menuRepo)
	orderService := service.NewOrderService(orderRepo, tableRepo, testDB, nil, 0.10)
	sessions := session.NewManager(tableRepo, []string{"A-1", "A-2"})

	displays := &recordingBroadcaster{}
	ctrl := NewTableController(sessions, menuService, orderService, displays)

	category := &model.Category{Name: "フード", DisplayOrder: 1}
	require.NoError(t, testDB.Create(category).Error)

	item := &model.MenuItem{
		Name:        "スープ",
		Price:       500,
		CategoryID:  category.ID,
		IsAvailable: true,
	}
	require.NoError(t, testDB.Create(item).Error)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	tables := router.Group("/api/v1/tables")
	{
		tables.POST("/:table/session", ctrl.StartSession)
		tables.GET("/:table/cart", ctrl.GetCart)
		tables.POST("/:table/cart/items", ctrl.AddCartItem)
		tables.PUT("/:table/cart/items/:itemID", ctrl.ChangeCartItemQuantity)
		tables.DELETE("/:table/cart/items/:itemID", ctrl.RemoveCartItem)
		tables.POST("/:table/orders", ctrl.SubmitOrder)
		tables.POST("/:table/checkout", ctrl.Checkout)
		tables.POST("/:table/call", ctrl.CallStaff)
	}

	return router, testDB, item, displays
}

func doJSON(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestTableController_StartSession(t *testing.T) {
	router, _, _, _ := setupTableControllerTest(t)

	w := doJSON(router, http.MethodPost, "/api/v1/tables/A-1/session", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "A-1", resp["table_id"])
	assert.Equal(t, float64(0), resp["running_total"])
}

func TestTableController_StartSession_UnknownTable(t *testing.T) {
	router, _, _, _ := setupTableControllerTest(t)

	w := doJSON(router, http.MethodPost, "/api/v1/tables/Z-9/session", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "TABLE_NOT_FOUND", resp["error"])
}

func TestTableController_CartWithoutSession(t *testing.T) {
	router, _, _, _ := setupTableControllerTest(t)

	w := doJSON(router, http.MethodGet, "/api/v1/tables/A-1/cart", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTableController_AddCartItem(t *testing.T) {
	router, _, item, _ := setupTableControllerTest(t)

	require.Equal(t, http.StatusOK,
		doJSON(router, http.MethodPost, "/api/v1/tables/A-1/session", nil).Code)

	w := doJSON(router, http.MethodPost, "/api/v1/tables/A-1/cart/items",
		AddCartItemRequest{MenuItemID: item.ID})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Items  []session.CartLine `json:"items"`
		Totals session.Totals     `json:"totals"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 1, resp.Items[0].Quantity)
	assert.Equal(t, 500, resp.Totals.Subtotal)
	assert.Equal(t, 50, resp.Totals.Tax)
	assert.Equal(t, 550, resp.Totals.Total)
}

func TestTableController_AddCartItem_SoldOut(t *testing.T) {
	router, testDB, item, _ := setupTableControllerTest(t)

	require.NoError(t, testDB.Model(item).Update("is_available", false).Error)

	doJSON(router, http.MethodPost, "/api/v1/tables/A-1/session", nil)
	w := doJSON(router, http.MethodPost, "/api/v1/tables/A-1/cart/items",
		AddCartItemRequest{MenuItemID: item.ID})

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestTableController_AddCartItem_UnknownItem(t *testing.T) {
	router, _, _, _ := setupTableControllerTest(t)

	doJSON(router, http.MethodPost, "/api/v1/tables/A-1/session", nil)
	w := doJSON(router, http.MethodPost, "/api/v1/tables/A-1/cart/items",
		AddCartItemRequest{MenuItemID: 999})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTableController_ChangeAndRemove(t *testing.T) {
	router, _, item, _ := setupTableControllerTest(t)

	doJSON(router, http.MethodPost, "/api/v1/tables/A-1/session", nil)
	doJSON(router, http.MethodPost, "/api/v1/tables/A-1/cart/items",
		AddCartItemRequest{MenuItemID: item.ID})

	path := fmt.Sprintf("/api/v1/tables/A-1/cart/items/%d", item.ID)
	w := doJSON(router, http.MethodPut, path, ChangeQuantityRequest{Delta: 2})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Items []session.CartLine `json:"items"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 3, resp.Items[0].Quantity)

	w = doJSON(router, http.MethodDelete, path, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Items)
}

func TestTableController_SubmitAndCheckout(t *testing.T) {
	router, _, item, _ := setupTableControllerTest(t)

	doJSON(router, http.MethodPost, "/api/v1/tables/A-1/session", nil)
	doJSON(router, http.MethodPost, "/api/v1/tables/A-1/cart/items",
		AddCartItemRequest{MenuItemID: item.ID})

	w := doJSON(router, http.MethodPost, "/api/v1/tables/A-1/orders", nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var submitResp struct {
		Order        model.Order `json:"order"`
		RunningTotal int         `json:"running_total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &submitResp))
	assert.Equal(t, 550, submitResp.Order.TotalAmount)
	assert.Equal(t, 550, submitResp.RunningTotal)

	// 空カートの再送信は拒否される
	w = doJSON(router, http.MethodPost, "/api/v1/tables/A-1/orders", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodPost, "/api/v1/tables/A-1/checkout", nil)
	require.Equal(t, http.StatusOK, w.Code)

	// 会計後はもう払うものがない
	w = doJSON(router, http.MethodPost, "/api/v1/tables/A-1/checkout", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTableController_CheckoutPaymentMethod(t *testing.T) {
	router, _, item, _ := setupTableControllerTest(t)

	doJSON(router, http.MethodPost, "/api/v1/tables/A-1/session", nil)
	doJSON(router, http.MethodPost, "/api/v1/tables/A-1/cart/items",
		AddCartItemRequest{MenuItemID: item.ID})
	doJSON(router, http.MethodPost, "/api/v1/tables/A-1/orders", nil)

	// 不正な支払い方法は会計を実行しない
	w := doJSON(router, http.MethodPost, "/api/v1/tables/A-1/checkout",
		CheckoutRequest{PaymentMethod: "barter"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodPost, "/api/v1/tables/A-1/checkout",
		CheckoutRequest{PaymentMethod: PaymentMethodTogether})
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "together", resp["payment_method"])
	assert.Equal(t, float64(0), resp["running_total"])
}

func TestTableController_CallStaff(t *testing.T) {
	router, _, _, displays := setupTableControllerTest(t)

	doJSON(router, http.MethodPost, "/api/v1/tables/A-1/session", nil)

	w := doJSON(router, http.MethodPost, "/api/v1/tables/A-1/call", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "A-1", resp["table_id"])
	assert.Equal(t, true, resp["called"])

	require.Len(t, displays.messages, 1)
	msg, ok := displays.messages[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "staff_call", msg["type"])
	assert.Equal(t, "A-1", msg["table_id"])
}

func TestTableController_CallStaffWithoutSession(t *testing.T) {
	router, _, _, displays := setupTableControllerTest(t)

	w := doJSON(router, http.MethodPost, "/api/v1/tables/A-1/call", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, displays.messages)
}
