package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	httptransport "github.com/spec-kit/ticket-dashboard/internal/api/http"
	"github.com/spec-kit/ticket-dashboard/internal/api/http/handlers"
	"github.com/spec-kit/ticket-dashboard/internal/apiclient"
	"github.com/spec-kit/ticket-dashboard/internal/config"
	"github.com/spec-kit/ticket-dashboard/internal/events"
	"github.com/spec-kit/ticket-dashboard/internal/observability"
	"github.com/spec-kit/ticket-dashboard/internal/persistence"
	"github.com/spec-kit/ticket-dashboard/internal/service"
	"github.com/spec-kit/ticket-dashboard/internal/session"
	"github.com/spec-kit/ticket-dashboard/internal/worker"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics := observability.NewMetrics()
	client := apiclient.New(apiclient.Options{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout(),
		Metrics: metrics,
		Logger:  logger,
	})

	checks := map[string]handlers.Pinger{"ticket_api": client}
	var store session.Store
	if cfg.Redis.Addr != "" {
		redis := persistence.NewRedis(cfg.Redis, logger)
		defer redis.Close()
		store = persistence.NewRedisSessionStore(redis, cfg.Redis.KeyPrefix, cfg.Session.TTL())
		checks["redis"] = redis
	} else {
		memory := persistence.NewMemorySessionStore()
		store = memory
		janitorDone := worker.StartSessionJanitor(ctx, memory, cfg.Session.JanitorInterval(), cfg.Session.TTL(), logger)
		defer func() { <-janitorDone }()
		logger.Info("sessions kept in memory")
	}

	dispatcher := events.NewInMemoryDispatcher()
	service.NewAuditService(dispatcher, logger, metrics).RegisterHandlers()

	layout := service.Layout{
		RowHeight:    cfg.UI.RowHeight,
		ChromeHeight: cfg.UI.ChromeHeight,
		MinRows:      cfg.UI.MinRows,
		MaxRows:      cfg.UI.MaxRows,
	}
	tickets := service.NewTicketService(service.TicketDependencies{
		API:        client,
		Layout:     layout,
		Dispatcher: dispatcher,
		Logger:     logger,
		ToastTTL:   cfg.UI.ToastDuration(),
	})
	stats := service.NewStatsService(service.StatsDependencies{
		API:           client,
		CategoryLimit: cfg.UI.CategoryLimit,
		RecentDays:    cfg.UI.RecentDays,
		Logger:        logger,
		ToastTTL:      cfg.UI.ToastDuration(),
	})

	app, err := httptransport.NewServer(httptransport.ServerDependencies{
		AppName:        cfg.App.Name,
		Version:        cfg.App.Version,
		Logger:         logger,
		Metrics:        metrics,
		RequestTimeout: cfg.App.RequestTimeout(),
		Tickets:        tickets,
		Stats:          stats,
		Sessions: handlers.SessionConfig{
			Store:        store,
			CookieName:   cfg.Session.CookieName,
			TTL:          cfg.Session.TTL(),
			DefaultLimit: layout.RowLimit(cfg.UI.DefaultViewportHeight),
		},
		Checks: checks,
	})
	if err != nil {
		logger.Fatal("failed to build server", zap.Error(err))
	}

	go func() {
		logger.Info("dashboard listening", zap.String("addr", cfg.App.Addr()), zap.String("api", cfg.API.BaseURL))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)
	cancel()

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
