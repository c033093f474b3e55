package handlers

import (
	"time"

	"github.com/flosch/pongo2/v6"
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-dashboard/internal/api/http/views"
	"github.com/spec-kit/ticket-dashboard/internal/session"
	"github.com/spec-kit/ticket-dashboard/internal/ui"
)

// Pages renders full pages and fragments, and serves the static pages.
type Pages struct {
	renderer *views.Renderer
	now      func() time.Time
}

// NewPages constructs the page renderer.
func NewPages(renderer *views.Renderer, clock func() time.Time) *Pages {
	if clock == nil {
		clock = time.Now
	}
	return &Pages{renderer: renderer, now: clock}
}

// Chrome builds the shared page frame, draining pending toasts.
func (p *Pages) Chrome(c *fiber.Ctx, title string, st *session.State) views.Chrome {
	now := p.now()
	ch := views.Chrome{Path: c.Path(), Title: title, Now: now}
	if st != nil {
		ch.Theme = st.Theme
		ch.Toasts = st.Toasts.Drain(now)
	}
	return ch
}

// HTML renders template name into the response.
func (p *Pages) HTML(c *fiber.Ctx, status int, name string, ctx pongo2.Context) error {
	out, err := p.renderer.Render(name, ctx)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderCacheControl, "no-store")
	c.Type("html", "utf-8")
	return c.Status(status).SendString(out)
}

// About GET /about.
func (p *Pages) About(c *fiber.Ctx) error {
	st := SessionFrom(c)
	return p.HTML(c, fiber.StatusOK, views.PageAbout, views.AboutPage(p.Chrome(c, "About", st)))
}

// ToggleTheme POST /theme.
func (p *Pages) ToggleTheme(c *fiber.Ctx) error {
	st := SessionFrom(c)
	st.Theme = st.Theme.Toggle()
	return c.JSON(fiber.Map{"theme": themeName(st.Theme)})
}

// Error renders the error page.
func (p *Pages) Error(c *fiber.Ctx, status int, message string) error {
	st := SessionFrom(c)
	return p.HTML(c, status, views.PageError, views.ErrorPage(p.Chrome(c, "Error", st), status, message))
}

func themeName(t ui.Theme) string {
	if t == ui.ThemeLight {
		return "light"
	}
	return "dark"
}
