package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yorkie01/restaurant-order-system/config"
	"github.com/yorkie01/restaurant-order-system/internal/app/controller"
	"github.com/yorkie01/restaurant-order-system/internal/app/repository"
	"github.com/yorkie01/restaurant-order-system/internal/app/service"
	"github.com/yorkie01/restaurant-order-system/internal/app/session"
	"github.com/yorkie01/restaurant-order-system/internal/db"
	"github.com/yorkie01/restaurant-order-system/internal/events"
	"github.com/yorkie01/restaurant-order-system/internal/kitchen"
	"github.com/yorkie01/restaurant-order-system/internal/middleware"
	"github.com/yorkie01/restaurant-order-system/internal/router"
	"github.com/yorkie01/restaurant-order-system/internal/scheduler"
	"github.com/yorkie01/restaurant-order-system/internal/storage"
	ws "github.com/yorkie01/restaurant-order-system/internal/websocket"
	"github.com/yorkie01/restaurant-order-system/pkg/logger"
	"github.com/yorkie01/restaurant-order-system/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting restaurant order server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
		"tables":      len(cfg.Restaurant.Tables),
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations and seed master data
	if err := db.Migrate(cfg.Restaurant.Tables); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Initialize Redis (change feed)
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Fatal("Failed to initialize Redis", err)
	}
	defer func() {
		if err := redis.Close(); err != nil {
			logger.Error("Failed to close Redis connection", err)
		}
	}()

	// Initialize repositories
	menuRepo := repository.NewMenuRepository(db.GetDB())
	orderRepo := repository.NewOrderRepository(db.GetDB())
	tableRepo := repository.NewTableRepository(db.GetDB())

	// Change feed over Redis pub/sub
	feed := events.NewRedisFeed(redis.GetClient())

	// Initialize services
	menuService := service.NewMenuService(menuRepo)
	orderService := service.NewOrderService(orderRepo, tableRepo, db.GetDB(), feed, cfg.Restaurant.TaxRate)
	authService := service.NewAuthService(
		cfg.Restaurant.StaffPasscodeHash,
		cfg.JWT.Secret,
		cfg.JWT.TokenExpiry,
	)

	// Table sessions
	sessions := session.NewManager(tableRepo, cfg.Restaurant.Tables)

	// Kitchen board and its event supervisor
	board := kitchen.NewBoard(kitchen.NewRepoLoader(orderRepo, menuRepo))
	if err := board.Reload(); err != nil {
		logger.Fatal("Failed to load initial kitchen board", err)
	}

	hub := ws.NewHub()
	go hub.Run()

	supervisor := kitchen.NewSupervisor(feed, board, 30*time.Second)
	supervisor.SetEventSink(func(event events.Event) {
		hub.Broadcast(map[string]interface{}{
			"type":  "board_event",
			"event": event,
		})
	})
	supervisor.SetStateChange(func(online bool) {
		hub.Broadcast(map[string]interface{}{
			"type":   "connection",
			"online": online,
		})
	})
	board.SetNewOrderAlert(func(card kitchen.OrderCard) {
		hub.Broadcast(map[string]interface{}{
			"type":  "new_order_alert",
			"order": card,
		})
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go supervisor.Run(ctx)

	// Daily board rollover at midnight
	boardScheduler := scheduler.NewBoardScheduler(board)
	if err := boardScheduler.Start(); err != nil {
		logger.Fatal("Failed to start board scheduler", err)
	}
	defer boardScheduler.Stop()

	// Menu image storage
	s3Storage := storage.NewS3Storage(
		cfg.S3.Region,
		cfg.S3.Bucket,
		cfg.S3.AccessKeyID,
		cfg.S3.SecretAccessKey,
		cfg.S3.BaseURL,
	)

	// Initialize controllers
	menuController := controller.NewMenuController(menuService)
	tableController := controller.NewTableController(sessions, menuService, orderService, hub)
	kitchenController := controller.NewKitchenController(orderService, authService, board, supervisor, hub)
	uploadController := controller.NewUploadController(s3Storage, menuService)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Setup router
	r := router.NewRouter(
		menuController,
		tableController,
		kitchenController,
		uploadController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	cancel()
	logger.Info("Server stopped successfully")
}
