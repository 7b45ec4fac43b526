package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

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
	"recipe-shopper/internal/units"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	table := units.Default()
	if cfg.UnitsFile != "" {
		table, err = units.LoadFile(cfg.UnitsFile)
		if err != nil {
			logger.Fatal("Failed to load units file", zap.String("path", cfg.UnitsFile), zap.Error(err))
		}
	}

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

	var ghostClient ghost.Client
	if err := cfg.RequireGhost(); err == nil {
		ghostClient = ghost.NewClient(cfg)
	} else {
		logger.Debug("Ghost disabled", zap.Error(err))
	}

	application := app.NewApp(
		ghostClient,
		table,
		recipe.NewRepository(db.SQL),
		shopping.NewRepository(db.SQL),
		likeBook,
		logger,
	)
	metricsStore := metrics.NewStore(db.SQL)

	cli := &cli{app: application, metrics: metricsStore, out: os.Stdout}
	command := os.Args[1]
	err = metricsStore.Track(ctx, command, "cli", func() error {
		return cli.run(ctx, command, os.Args[2:])
	})
	if err != nil {
		if errors.Is(err, errUsage) {
			printUsage()
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: recipe-shopper <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  ingest                             Fetch and cache recipes from Ghost")
	fmt.Println("  search <words>                     Find recipes by title")
	fmt.Println("  show [-servings N] <id>            Show a recipe, optionally rescaled")
	fmt.Println("  add [-servings N] <id>             Add a recipe's ingredients to the list")
	fmt.Println("  add-line <line>                    Parse a line and add it to the list")
	fmt.Println("  parse <line>                       Show how an ingredient line is understood")
	fmt.Println("  list [-json]                       Show the shopping list")
	fmt.Println("  update <n|id> <count>              Set the count of an item")
	fmt.Println("  delete <n|id>                      Remove an item")
	fmt.Println("  clear                              Empty the shopping list")
	fmt.Println("  like <id>                          Like or unlike a recipe")
	fmt.Println("  likes                              Show liked recipes")
	fmt.Println("  export -out <file.xlsx>            Export the list as a spreadsheet")
	fmt.Println("  clip [-publish] <url>              Import a recipe from a web page")
	fmt.Println("  metrics-cleanup [-days N]          Remove old usage records")
	fmt.Println("\nList commands accept -owner to pick a list (default \"local\").")
}
