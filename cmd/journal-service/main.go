package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trading-journal/internal/journal/config"
	delivery "trading-journal/internal/journal/delivery/http"
	_ "trading-journal/internal/journal/docs"
	"trading-journal/internal/journal/repository"
	"trading-journal/internal/journal/service"
	"trading-journal/pkg/logger"
	"trading-journal/pkg/postgres"
	"trading-journal/pkg/redis"
	"trading-journal/pkg/telegram"

	"github.com/labstack/echo/v4"
	gocache "github.com/patrickmn/go-cache"
	"github.com/spf13/cobra"
	swagger "github.com/swaggo/echo-swagger"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the journal service",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	// Create a context that is canceled on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting Journal Service", logger.Field("name", cfg.App.Name))

	// Initialize database
	postgresCfg := postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}
	db, err := postgres.NewDB(postgresCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		defer sqlDB.Close()
	}

	// Initialize the draft store. Redis keeps drafts across restarts;
	// without it they live in process memory only.
	var draftRepo repository.DraftRepository
	if cfg.Redis.Host != "" {
		redisCfg := redis.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		}
		redisClient, err := redis.NewClient(redisCfg)
		if err != nil {
			appLogger.Fatal("Failed to initialize Redis", logger.ErrorField(err))
		}
		defer redisClient.Close()
		draftRepo = repository.NewDraftRepository(redisClient.Client)
	} else {
		appLogger.Warn("Redis not configured, drafts are kept in memory")
		draftRepo = repository.NewMemoryDraftRepository()
	}

	// Initialize media store client
	mediaRepo, err := repository.NewMediaRepository(cfg.Media, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize media store client", logger.ErrorField(err))
	}

	// Initialize repositories
	tradeRepo := repository.NewTradeRepository(db.DB)
	widgetRepo := repository.NewWidgetRepository(db.DB)

	// Initialize the trade notifier
	notifier := telegram.NewNopNotifier()
	if cfg.Telegram.Enabled {
		notifier, err = telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			appLogger.Fatal("Failed to initialize Telegram notifier", logger.ErrorField(err))
		}
	}

	// Initialize the trade list cache
	cacheTTL, err := time.ParseDuration(cfg.Cache.TTL)
	if err != nil {
		appLogger.Fatal("Invalid cache TTL", logger.ErrorField(err))
	}
	cacheCleanup, err := time.ParseDuration(cfg.Cache.CleanupInterval)
	if err != nil {
		appLogger.Fatal("Invalid cache cleanup interval", logger.ErrorField(err))
	}
	listCache := gocache.New(cacheTTL, cacheCleanup)

	// Initialize services
	draftSvc := service.NewDraftService(draftRepo, mediaRepo, appLogger)
	tradeSvc := service.NewTradeService(tradeRepo, draftSvc, listCache, notifier, appLogger)
	widgetSvc := service.NewWidgetService(widgetRepo)

	// Start the draft janitor
	retention, err := time.ParseDuration(cfg.Draft.Retention)
	if err != nil {
		appLogger.Fatal("Invalid draft retention", logger.ErrorField(err))
	}
	janitor := service.NewDraftJanitor(draftRepo, appLogger, cfg.Draft.SweepCron, retention)
	if err := janitor.Start(ctx); err != nil {
		appLogger.Fatal("Failed to start draft janitor", logger.ErrorField(err))
	}
	defer janitor.Stop()

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true

	// Initialize handlers and routes
	apiV1 := e.Group("/api/v1")

	tradeHandler := delivery.NewTradeHandler(tradeSvc, appLogger)
	tradeHandler.RegisterRoutes(apiV1.Group("/trades"))

	draftHandler := delivery.NewDraftHandler(draftSvc, appLogger)
	draftHandler.RegisterRoutes(apiV1.Group("/drafts"))

	widgetHandler := delivery.NewWidgetHandler(widgetSvc, appLogger)
	widgetHandler.RegisterRoutes(apiV1.Group("/widgets"))

	e.GET("/swagger/*", swagger.WrapHandler)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop() // trigger shutdown
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()

	appLogger.Info("Shutting down server...")

	// Gracefully shutdown the server
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	appLogger.Info("Server exiting")
}

// @title Trading Journal API
// @version 1.0
// @description Personal trading journal: draft synchronization, trade records, chart screenshot uploads.
// @BasePath /api/v1
func main() {
	rootCmd := &cobra.Command{Use: "journal-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-journal.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing journal-service CLI: %s\n", err)
		os.Exit(1)
	}
}
