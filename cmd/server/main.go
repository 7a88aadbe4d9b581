package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	catalogapp "github.com/stockroom/backend/internal/application/catalog"
	integrationapp "github.com/stockroom/backend/internal/application/integration"
	inventoryapp "github.com/stockroom/backend/internal/application/inventory"
	tradeapp "github.com/stockroom/backend/internal/application/trade"
	"github.com/stockroom/backend/internal/infrastructure/cache"
	"github.com/stockroom/backend/internal/infrastructure/config"
	"github.com/stockroom/backend/internal/infrastructure/ecommerce"
	"github.com/stockroom/backend/internal/infrastructure/event"
	"github.com/stockroom/backend/internal/infrastructure/logger"
	"github.com/stockroom/backend/internal/infrastructure/notification"
	"github.com/stockroom/backend/internal/infrastructure/persistence"
	"github.com/stockroom/backend/internal/infrastructure/scheduler"
	"github.com/stockroom/backend/internal/interfaces/http/handler"
	"github.com/stockroom/backend/internal/interfaces/http/middleware"
	"github.com/stockroom/backend/internal/interfaces/http/router"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database", zap.Error(err))
		}
	}()

	// Repositories
	storeRepo := persistence.NewGormStoreRepository(db.DB)
	vendorRepo := persistence.NewGormVendorRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	stockRepo := persistence.NewGormStockRecordRepository(db.DB)
	orderRepo := persistence.NewGormPurchaseOrderRepository(db.DB)
	receiptRepo := persistence.NewGormReceiptRepository(db.DB)
	wholesaleRepo := persistence.NewGormWholesaleRepository(db.DB)

	// Operator notifications go to the webhook when configured,
	// otherwise they just land in the log
	var notifier inventoryapp.AlertSink
	if cfg.Notification.Enabled {
		notifier = notification.NewWebhookNotifier(cfg.Notification.WebhookURL, cfg.Notification.Timeout, log)
	} else {
		notifier = notification.NewLoggingNotifier(log)
	}

	// Event bus with the reorder alert subscriber
	eventBus := event.NewInMemoryEventBus(log)
	alertHandler := inventoryapp.NewStockBelowTriggerHandler(productRepo, notifier, log)
	eventBus.Subscribe(alertHandler, alertHandler.EventTypes()...)
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := eventBus.Stop(ctx); err != nil {
			log.Error("Failed to stop event bus", zap.Error(err))
		}
	}()

	// Application services. The stock service doubles as the ledger the
	// trade services reserve and settle against.
	stockService := inventoryapp.NewStockService(stockRepo, productRepo)
	stockService.SetEventPublisher(eventBus)

	orderService := tradeapp.NewPurchaseOrderService(orderRepo, vendorRepo, productRepo, stockService, log)
	orderService.SetEventPublisher(eventBus)
	orderService.SetTransactor(db)

	receiptService := tradeapp.NewReceiptService(receiptRepo, orderRepo, stockService, log)
	receiptService.SetEventPublisher(eventBus)
	receiptService.SetTransactor(db)

	wholesaleService := tradeapp.NewWholesaleService(wholesaleRepo, productRepo, stockService, log)
	wholesaleService.SetEventPublisher(eventBus)
	wholesaleService.SetTransactor(db)

	productService := catalogapp.NewProductService(productRepo, vendorRepo, log)
	vendorService := catalogapp.NewVendorService(vendorRepo)
	storeService := catalogapp.NewStoreService(storeRepo)

	// Remote order feed pipeline
	var (
		pollScheduler    *scheduler.FeedPollScheduler
		pollTrigger      *scheduler.FeedPollTrigger
		ingestionService *integrationapp.OrderIngestionService
	)
	if cfg.Feed.Enabled {
		storeID, err := cfg.DefaultTenant.StoreUUID()
		if err != nil {
			log.Fatal("Invalid default store ID", zap.Error(err))
		}
		vendorID, err := cfg.DefaultTenant.VendorUUID()
		if err != nil {
			log.Fatal("Invalid default vendor ID", zap.Error(err))
		}

		idempotencyStore, err := cache.NewIdempotencyStoreFactory(cache.WithLogger(log)).CreateStore(cfg.Redis)
		if err != nil {
			log.Fatal("Failed to create idempotency store", zap.Error(err))
		}

		feedConfig := ecommerce.NewShopFeedConfig(cfg.Feed.BaseURL, cfg.Feed.AccountID, cfg.Feed.ClientID, cfg.Feed.ClientSecret)
		feedConfig.RequestTimeout = cfg.Feed.RequestTimeout
		feedConfig.TokenRefreshMargin = cfg.Feed.TokenRefreshMargin
		feedAdapter, err := ecommerce.NewShopFeedAdapter(feedConfig, persistence.NewGormFeedTokenRepository(db.DB))
		if err != nil {
			log.Fatal("Failed to create feed adapter", zap.Error(err))
		}

		ingestionService = integrationapp.NewOrderIngestionService(
			feedAdapter,
			wholesaleRepo,
			productRepo,
			stockService,
			idempotencyStore,
			notifier,
			cfg.Feed.AccountID,
			storeID, vendorID,
			log,
		)

		schedCfg := scheduler.FeedPollSchedulerConfig{
			Enabled:           cfg.Scheduler.Enabled,
			MaxConcurrentJobs: cfg.Scheduler.MaxConcurrentJobs,
			JobTimeout:        cfg.Scheduler.JobTimeout,
			RetryAttempts:     cfg.Scheduler.RetryAttempts,
			RetryDelay:        cfg.Scheduler.RetryDelay,
			PollInterval:      cfg.Scheduler.PollInterval,
			LookbackWindow:    cfg.Feed.LookbackWindow,
		}
		executor := integrationapp.NewFeedPollExecutor(ingestionService)
		pollScheduler, err = scheduler.NewFeedPollScheduler(schedCfg, executor, log)
		if err != nil {
			log.Fatal("Failed to create poll scheduler", zap.Error(err))
		}
		pollTrigger = scheduler.NewFeedPollTrigger(schedCfg, pollScheduler, cfg.Feed.AccountID, log)

		if cfg.Scheduler.Enabled {
			if err := pollScheduler.Start(context.Background()); err != nil {
				log.Fatal("Failed to start poll scheduler", zap.Error(err))
			}
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				if err := pollScheduler.Stop(ctx); err != nil {
					log.Error("Failed to stop poll scheduler", zap.Error(err))
				}
			}()

			if err := pollTrigger.Start(context.Background()); err != nil {
				log.Fatal("Failed to start poll trigger", zap.Error(err))
			}
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := pollTrigger.Stop(ctx); err != nil {
					log.Error("Failed to stop poll trigger", zap.Error(err))
				}
			}()
		}
	}

	// HTTP engine and middleware
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Failed to set trusted proxies", zap.Error(err))
		}
	}

	storeCfg := middleware.DefaultStoreConfig()
	storeCfg.SkipPaths = append(storeCfg.SkipPaths, "/api/v1/stores")
	if id, err := uuid.Parse(cfg.DefaultTenant.StoreID); err == nil {
		storeCfg.DefaultStoreID = id
	}

	engine.Use(
		middleware.RequestID(),
		gin.Recovery(),
		middleware.RequestLogger(log),
		middleware.StoreMiddleware(storeCfg),
	)

	engine.GET("/health", healthHandler(db))
	engine.GET("/ready", healthHandler(db))

	r := router.NewRouter(engine, router.WithAPIVersion("v1")).
		Register(handler.NewStockHandler(stockService)).
		Register(handler.NewPurchaseOrderHandler(orderService)).
		Register(handler.NewReceiptHandler(receiptService)).
		Register(handler.NewWholesaleHandler(wholesaleService)).
		Register(handler.NewProductHandler(productService)).
		Register(handler.NewVendorHandler(vendorService)).
		Register(handler.NewStoreHandler(storeService)).
		Register(handler.NewSystemHandler())
	if cfg.Feed.Enabled {
		r.Register(handler.NewSyncHandler(pollTrigger, pollScheduler, ingestionService))
	}
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	log.Info("Server exited")
}

// healthHandler reports liveness plus database reachability
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  "database unreachable",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
