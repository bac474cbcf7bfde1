package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"story_tracker/internal/config"
	"story_tracker/internal/publisher"
	"story_tracker/internal/scheduler"
	"story_tracker/internal/service"
	"story_tracker/internal/source/newsapi"
	"story_tracker/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	// Setup logger
	logger := setupLogger("info")

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = setupLogger(cfg.LogLevel)

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Error("failed to ping database", "error", err)
		os.Exit(1)
	}
	logger.Info("connected to database")

	// Initialize RabbitMQ publisher for story-update events
	rabbitMQ, err := publisher.NewRabbitMQ(publisher.Config{
		URL:        cfg.RabbitMQ.URL,
		Exchange:   cfg.RabbitMQ.Exchange,
		RoutingKey: cfg.RabbitMQ.RoutingKey,
		QueueName:  cfg.RabbitMQ.QueueName,
	}, logger)
	if err != nil {
		logger.Error("failed to connect to rabbitmq", "error", err)
		os.Exit(1)
	}
	defer rabbitMQ.Close()

	// Initialize stores
	articleStore := postgres.NewArticleStore(db)
	storyStore := postgres.NewStoryStore(db)
	linkStore := postgres.NewLinkStore(db)

	// Initialize NewsAPI source
	newsSource := newsapi.New(newsapi.Config{
		BaseURL:        cfg.NewsAPI.BaseURL,
		APIKey:         cfg.NewsAPI.APIKey,
		PageSize:       cfg.NewsAPI.PageSize,
		Language:       cfg.NewsAPI.Language,
		Timeout:        cfg.NewsAPI.Timeout,
		MaxAttempts:    cfg.NewsAPI.Retry.MaxAttempts,
		InitialBackoff: cfg.NewsAPI.Retry.InitialBackoff,
		MaxBackoff:     cfg.NewsAPI.Retry.MaxBackoff,
	}, logger)

	discoveryService := service.NewDiscoveryService(
		newsSource,
		articleStore,
		storyStore,
		linkStore,
		rabbitMQ,
		logger,
	)

	sched := scheduler.NewScheduler(storyStore, discoveryService, scheduler.Config{
		Interval:     cfg.Polling.Interval,
		Cooldown:     cfg.Polling.Cooldown,
		StoryTimeout: cfg.Polling.StoryTimeout,
		Workers:      cfg.Polling.Workers,
	}, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		sched.Stop()
	}()

	logger.Info("starting story tracking poller",
		"source", newsSource.Name(),
		"interval", cfg.Polling.Interval,
		"cooldown", cfg.Polling.Cooldown,
		"workers", cfg.Polling.Workers,
	)

	if err := sched.Start(ctx); err != nil && err != context.Canceled {
		logger.Error("scheduler error", "error", err)
		os.Exit(1)
	}
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}
