package handlers

import (
	"bytes"
	"path"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-dashboard/internal/api/http/views"
	"github.com/spec-kit/ticket-dashboard/internal/chart"
	"github.com/spec-kit/ticket-dashboard/internal/domain"
	"github.com/spec-kit/ticket-dashboard/internal/service"
	"github.com/spec-kit/ticket-dashboard/internal/ui"
	apperrors "github.com/spec-kit/ticket-dashboard/pkg/util/errorutil"
)

// Chart image sizes in pixels.
const (
	DefaultChartSize = 260
	MaxChartSize     = 1024
)

// StatsHandler serves the statistics page and its chart images.
type StatsHandler struct {
	service *service.StatsService
	pages   *Pages
}

// NewStatsHandler constructs handler.
func NewStatsHandler(statsService *service.StatsService, pages *Pages) *StatsHandler {
	return &StatsHandler{service: statsService, pages: pages}
}

// Page GET /stats loads every aggregate and renders the page.
func (h *StatsHandler) Page(c *fiber.Ctx) error {
	st := SessionFrom(c)
	h.service.LoadAll(c.UserContext(), st)
	ctx := views.StatsPage(h.pages.Chrome(c, "Statistics", st), h.service.Dashboard(st))
	return h.pages.HTML(c, fiber.StatusOK, views.PageStats, ctx)
}

// Refresh POST /stats/refresh. A failed refresh keeps the previous charts.
func (h *StatsHandler) Refresh(c *fiber.Ctx) error {
	st := SessionFrom(c)
	h.service.LoadAll(c.UserContext(), st)
	now := h.pages.now()
	ctx := views.StatsFragment(h.service.Dashboard(st), st.Toasts.Drain(now), now)
	return h.pages.HTML(c, fiber.StatusOK, views.FragmentStats, ctx)
}

// Chart GET /stats/charts/:file where file is {dimension}.svg or {dimension}.png.
func (h *StatsHandler) Chart(c *fiber.Ctx) error {
	st := SessionFrom(c)
	file := c.Params("file")
	ext := path.Ext(file)
	dim, ok := domain.ParseStatDimension(strings.TrimSuffix(file, ext))
	if !ok {
		return apperrors.NewNotFound("chart", map[string]any{"file": file})
	}
	size := c.QueryInt("size", DefaultChartSize)
	if size <= 0 || size > MaxChartSize {
		return apperrors.NewValidationError("invalid chart size", map[string]any{"size": size})
	}

	pie, _ := h.service.Chart(st, dim)
	style := chart.DarkStyle
	if st.Theme == ui.ThemeLight {
		style = chart.LightStyle
	}

	var buf bytes.Buffer
	switch ext {
	case ".svg":
		if err := chart.WriteSVG(&buf, pie, size, style); err != nil {
			return apperrors.NewInternalError(err)
		}
		c.Set(fiber.HeaderContentType, "image/svg+xml")
	case ".png":
		if err := chart.WritePNG(&buf, pie, size, style); err != nil {
			return apperrors.NewInternalError(err)
		}
		c.Set(fiber.HeaderContentType, "image/png")
	default:
		return apperrors.NewNotFound("chart", map[string]any{"file": file})
	}
	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.Send(buf.Bytes())
}
