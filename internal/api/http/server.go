package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-dashboard/internal/api/http/handlers"
	"github.com/spec-kit/ticket-dashboard/internal/api/http/views"
	"github.com/spec-kit/ticket-dashboard/internal/observability"
	"github.com/spec-kit/ticket-dashboard/internal/service"
	"github.com/spec-kit/ticket-dashboard/internal/session"
)

// ServerDependencies bundles what the dashboard app needs.
type ServerDependencies struct {
	AppName        string
	Version        string
	Logger         *zap.Logger
	Metrics        *observability.Metrics
	RequestTimeout time.Duration
	Tickets        *service.TicketService
	Stats          *service.StatsService
	Sessions       handlers.SessionConfig
	Checks         map[string]handlers.Pinger
	Clock          func() time.Time
}

// NewServer builds the fiber app with middlewares and routes registered.
func NewServer(deps ServerDependencies) (*fiber.App, error) {
	renderer, err := views.NewRenderer(deps.AppName, deps.Version)
	if err != nil {
		return nil, err
	}
	pages := handlers.NewPages(renderer, deps.Clock)

	app := fiber.New(fiber.Config{
		AppName:               deps.AppName,
		DisableStartupMessage: true,
		ReadTimeout:           30 * time.Second,
	})
	RegisterMiddlewares(app, deps.Logger, deps.Metrics, deps.RequestTimeout, pages)

	if deps.Sessions.Locker == nil {
		deps.Sessions.Locker = session.NewLocker()
	}
	if deps.Sessions.Logger == nil {
		deps.Sessions.Logger = deps.Logger
	}
	RegisterRoutes(app, RouteConfig{
		Health:   handlers.NewHealthHandler(deps.AppName, deps.Version, deps.Checks, deps.Metrics),
		Tickets:  handlers.NewTicketsHandler(deps.Tickets, pages),
		Stats:    handlers.NewStatsHandler(deps.Stats, pages),
		Pages:    pages,
		Sessions: handlers.NewSessionMiddleware(deps.Sessions),
	})
	return app, nil
}
