package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"recipe-shopper/internal/app"
	"recipe-shopper/internal/config"
	"recipe-shopper/internal/database"
	"recipe-shopper/internal/ghost"
	"recipe-shopper/internal/likes"
	"recipe-shopper/internal/logging"
	"recipe-shopper/internal/metrics"
	"recipe-shopper/internal/recipe"
	"recipe-shopper/internal/shopping"
	"recipe-shopper/internal/storage"
	"recipe-shopper/internal/telegram"
	"recipe-shopper/internal/units"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := cfg.RequireTelegram(); err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	// 2. Initialize Storage
	db, err := database.NewDB(cfg.DatabasePath, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	store, err := storage.NewStore(cfg.DataDir)
	if err != nil {
		logger.Fatal("Failed to initialize key/value store", zap.Error(err))
	}
	likeBook := likes.NewBook(store)
	if err := likeBook.Load(); err != nil {
		logger.Fatal("Failed to load likes", zap.Error(err))
	}

	table := units.Default()
	if cfg.UnitsFile != "" {
		table, err = units.LoadFile(cfg.UnitsFile)
		if err != nil {
			logger.Fatal("Failed to load units file", zap.String("path", cfg.UnitsFile), zap.Error(err))
		}
	}

	// 3. Initialize Ghost Client
	var ghostClient ghost.Client
	if err := cfg.RequireGhost(); err == nil {
		ghostClient = ghost.NewClient(cfg)
	} else {
		logger.Warn("Ghost disabled, only clipping and manual lists are available", zap.Error(err))
	}

	// 4. Initialize Services
	application := app.NewApp(
		ghostClient,
		table,
		recipe.NewRepository(db.SQL),
		shopping.NewRepository(db.SQL),
		likeBook,
		logger,
	)
	metricsStore := metrics.NewStore(db.SQL)

	// 5. Initialize Telegram Bot
	bot, err := telegram.NewBot(cfg, application, metricsStore, logger)
	if err != nil {
		logger.Fatal("Failed to initialize Telegram Bot", zap.Error(err))
	}

	// 6. Start Server with Graceful Shutdown
	mux := http.NewServeMux()
	bot.RegisterHandlers(mux)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Telegram Bot Server listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exiting")
}
