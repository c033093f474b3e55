package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-dashboard/internal/api/dto"
	"github.com/spec-kit/ticket-dashboard/internal/api/http/views"
	"github.com/spec-kit/ticket-dashboard/internal/service"
	"github.com/spec-kit/ticket-dashboard/internal/session"
	apperrors "github.com/spec-kit/ticket-dashboard/pkg/util/errorutil"
)

// TicketsHandler serves the ticket list page and its fragments.
type TicketsHandler struct {
	service *service.TicketService
	pages   *Pages
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService, pages *Pages) *TicketsHandler {
	return &TicketsHandler{service: ticketService, pages: pages}
}

// Index GET /.
func (h *TicketsHandler) Index(c *fiber.Ctx) error {
	st := SessionFrom(c)
	ctx := views.TicketsPage(h.pages.Chrome(c, "Tickets", st), st.Filters, nil, st.Modal.Active)
	return h.pages.HTML(c, fiber.StatusOK, views.PageTickets, ctx)
}

// Table GET /tickets/table?height=.
func (h *TicketsHandler) Table(c *fiber.Ctx) error {
	st := SessionFrom(c)
	var req dto.ViewportRequest
	if err := c.QueryParser(&req); err != nil {
		return apperrors.NewValidationError("invalid viewport height", nil)
	}
	if req.Height > 0 {
		h.service.SetViewport(st, req.Height)
	}
	view := h.service.Reload(c.UserContext(), st)
	return h.fragment(c, st, &view)
}

// Page POST /tickets/page?offset=.
func (h *TicketsHandler) Page(c *fiber.Ctx) error {
	st := SessionFrom(c)
	offset, err := strconv.Atoi(c.Query("offset", "0"))
	if err != nil || offset < 0 {
		return apperrors.NewValidationError("invalid offset", map[string]any{"offset": c.Query("offset")})
	}
	view := h.service.GoTo(c.UserContext(), st, offset)
	return h.fragment(c, st, &view)
}

// Filter POST /tickets/filter.
func (h *TicketsHandler) Filter(c *fiber.Ctx) error {
	st := SessionFrom(c)
	var req dto.FilterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid filters", nil)
	}
	view := h.service.ApplyFilters(c.UserContext(), st, service.FilterInput{Status: req.Status, Priority: req.Priority})
	return h.fragment(c, st, &view)
}

// Reset POST /tickets/reset.
func (h *TicketsHandler) Reset(c *fiber.Ctx) error {
	st := SessionFrom(c)
	view := h.service.ResetFilters(c.UserContext(), st)
	return h.fragment(c, st, &view)
}

// Archived POST /tickets/archived.
func (h *TicketsHandler) Archived(c *fiber.Ctx) error {
	st := SessionFrom(c)
	view := h.service.ShowArchived(c.UserContext(), st)
	return h.fragment(c, st, &view)
}

// Resize POST /tickets/resize. Answers 204 when the row limit is unchanged.
func (h *TicketsHandler) Resize(c *fiber.Ctx) error {
	st := SessionFrom(c)
	var req dto.ViewportRequest
	if err := c.BodyParser(&req); err != nil || req.Height <= 0 {
		return apperrors.NewValidationError("invalid viewport height", nil)
	}
	view, reloaded := h.service.Resize(c.UserContext(), st, req.Height)
	if !reloaded {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return h.fragment(c, st, view)
}

// New GET /tickets/new.
func (h *TicketsHandler) New(c *fiber.Ctx) error {
	st := SessionFrom(c)
	h.service.OpenCreate(st)
	return h.fragment(c, st, nil)
}

// Edit GET /tickets/:id/edit.
func (h *TicketsHandler) Edit(c *fiber.Ctx) error {
	st := SessionFrom(c)
	id, err := ticketID(c)
	if err != nil {
		return err
	}
	h.service.OpenEdit(c.UserContext(), st, id)
	return h.fragment(c, st, nil)
}

// Submit POST /tickets/submit.
func (h *TicketsHandler) Submit(c *fiber.Ctx) error {
	st := SessionFrom(c)
	var req dto.TicketFormRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid ticket form", nil)
	}
	res := h.service.Submit(c.UserContext(), st, req.ToForm())
	return h.fragment(c, st, res.Table)
}

// ConfirmArchive GET /tickets/:id/archive.
func (h *TicketsHandler) ConfirmArchive(c *fiber.Ctx) error {
	st := SessionFrom(c)
	id, err := ticketID(c)
	if err != nil {
		return err
	}
	h.service.ConfirmArchive(st, id)
	return h.fragment(c, st, nil)
}

// Archive POST /tickets/:id/archive.
func (h *TicketsHandler) Archive(c *fiber.Ctx) error {
	st := SessionFrom(c)
	id, err := ticketID(c)
	if err != nil {
		return err
	}
	res := h.service.Archive(c.UserContext(), st, id)
	if res.Removing {
		// Re-render so the row picks up its fading marker.
		view := h.service.Table(st)
		return h.fragment(c, st, &view)
	}
	return h.fragment(c, st, nil)
}

// Removed POST /tickets/:id/removed, sent once a row has faded out.
func (h *TicketsHandler) Removed(c *fiber.Ctx) error {
	st := SessionFrom(c)
	id, err := ticketID(c)
	if err != nil {
		return err
	}
	view, _ := h.service.FinishRemoval(c.UserContext(), st, id)
	return h.fragment(c, st, view)
}

// CloseModal POST /modal/close.
func (h *TicketsHandler) CloseModal(c *fiber.Ctx) error {
	st := SessionFrom(c)
	h.service.CloseModal(st)
	return h.fragment(c, st, nil)
}

func (h *TicketsHandler) fragment(c *fiber.Ctx, st *session.State, table *service.TableView) error {
	ctx := views.TicketsFragment(table, st.Modal.Active, h.service.Toasts(st), h.pages.now())
	return h.pages.HTML(c, fiber.StatusOK, views.FragmentTickets, ctx)
}

func ticketID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid ticket id", map[string]any{"id": c.Params("id")})
	}
	return id, nil
}
