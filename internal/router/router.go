package router

import (
	"github.com/gin-gonic/gin"
	"github.com/yorkie01/restaurant-order-system/config"
	"github.com/yorkie01/restaurant-order-system/internal/app/controller"
	"github.com/yorkie01/restaurant-order-system/internal/middleware"
)

type Router struct {
	menuController    *controller.MenuController
	tableController   *controller.TableController
	kitchenController *controller.KitchenController
	uploadController  *controller.UploadController
	authMiddleware    *middleware.AuthMiddleware
	config            *config.Config
}

func NewRouter(
	menuController *controller.MenuController,
	tableController *controller.TableController,
	kitchenController *controller.KitchenController,
	uploadController *controller.UploadController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		menuController:    menuController,
		tableController:   tableController,
		kitchenController: kitchenController,
		uploadController:  uploadController,
		authMiddleware:    authMiddleware,
		config:            cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "Restaurant order API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		menu := v1.Group("/menu")
		{
			menu.GET("", r.menuController.GetMenu)
			menu.GET("/items/:id", r.menuController.GetMenuItem)
		}

		tables := v1.Group("/tables")
		{
			tables.POST("/:table/session", r.tableController.StartSession)
			tables.GET("/:table/cart", r.tableController.GetCart)
			tables.POST("/:table/cart/items", r.tableController.AddCartItem)
			tables.PUT("/:table/cart/items/:itemID", r.tableController.ChangeCartItemQuantity)
			tables.DELETE("/:table/cart/items/:itemID", r.tableController.RemoveCartItem)
			tables.POST("/:table/orders", r.tableController.SubmitOrder)
			tables.POST("/:table/checkout", r.tableController.Checkout)
			tables.POST("/:table/call", r.tableController.CallStaff)
		}

		kitchen := v1.Group("/kitchen")
		{
			kitchen.POST("/login", r.kitchenController.Login)
			kitchen.GET("/board",
				r.authMiddleware.Authenticate(),
				r.kitchenController.GetBoard)
			kitchen.POST("/board/reload",
				r.authMiddleware.Authenticate(),
				r.kitchenController.ReloadBoard)
			kitchen.PUT("/orders/:id/status",
				r.authMiddleware.Authenticate(),
				r.kitchenController.UpdateOrderStatus)
			kitchen.GET("/ws",
				r.authMiddleware.Authenticate(),
				r.kitchenController.WebSocketHandler)
			kitchen.POST("/menu/:id/image",
				r.authMiddleware.Authenticate(),
				r.uploadController.CreateMenuImageUploadURL)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
