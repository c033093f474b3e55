package http

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/filesystem"

	"github.com/spec-kit/ticket-dashboard/internal/api/http/handlers"
	"github.com/spec-kit/ticket-dashboard/internal/api/http/views"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health   *handlers.HealthHandler
	Tickets  *handlers.TicketsHandler
	Stats    *handlers.StatsHandler
	Pages    *handlers.Pages
	Sessions fiber.Handler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Health.Metrics)

	app.Use("/static", filesystem.New(filesystem.Config{
		Root:       http.FS(views.StaticFS),
		PathPrefix: "static",
		MaxAge:     3600,
	}))

	ui := app.Group("", cfg.Sessions)
	ui.Get("/", cfg.Tickets.Index)
	ui.Get("/about", cfg.Pages.About)
	ui.Post("/theme", cfg.Pages.ToggleTheme)
	ui.Post("/modal/close", cfg.Tickets.CloseModal)

	tickets := ui.Group("/tickets")
	tickets.Get("/table", cfg.Tickets.Table)
	tickets.Post("/page", cfg.Tickets.Page)
	tickets.Post("/filter", cfg.Tickets.Filter)
	tickets.Post("/reset", cfg.Tickets.Reset)
	tickets.Post("/archived", cfg.Tickets.Archived)
	tickets.Post("/resize", cfg.Tickets.Resize)
	tickets.Get("/new", cfg.Tickets.New)
	tickets.Post("/submit", cfg.Tickets.Submit)
	tickets.Get("/:id/edit", cfg.Tickets.Edit)
	tickets.Get("/:id/archive", cfg.Tickets.ConfirmArchive)
	tickets.Post("/:id/archive", cfg.Tickets.Archive)
	tickets.Post("/:id/removed", cfg.Tickets.Removed)

	stats := ui.Group("/stats")
	stats.Get("", cfg.Stats.Page)
	stats.Post("/refresh", cfg.Stats.Refresh)
	stats.Get("/charts/:file", cfg.Stats.Chart)
}
