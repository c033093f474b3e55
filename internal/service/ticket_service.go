package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
	"github.com/spec-kit/ticket-dashboard/internal/events"
	"github.com/spec-kit/ticket-dashboard/internal/session"
	"github.com/spec-kit/ticket-dashboard/internal/ui"
	apperrors "github.com/spec-kit/ticket-dashboard/pkg/util/errorutil"
)

// Messages shown by the ticket list.
const (
	MsgNoTickets       = "No tickets found."
	MsgLoadingTickets  = "Loading tickets..."
	MsgListUnavailable = "Failed to load tickets. Check that the ticket API is running."
	MsgShortCIName     = "CI Name must be at least 3 characters."
)

// TicketAPI is the part of the ticket API the list needs.
type TicketAPI interface {
	ListTickets(ctx context.Context, filters domain.Filters, page domain.Page) (domain.TicketPage, error)
	GetTicket(ctx context.Context, id int64) (domain.Ticket, error)
	CreateTicket(ctx context.Context, t domain.Ticket) (domain.Ticket, error)
	UpdateTicket(ctx context.Context, id int64, t domain.Ticket) (domain.Ticket, error)
	ArchiveTicket(ctx context.Context, id int64) error
}

// Layout converts viewport heights into row limits.
type Layout struct {
	RowHeight    int
	ChromeHeight int
	MinRows      int
	MaxRows      int
}

// RowLimit is how many rows fit a viewport of height pixels, clamped to
// [MinRows, MaxRows].
func (l Layout) RowLimit(height int) int {
	rowHeight := l.RowHeight
	if rowHeight <= 0 {
		rowHeight = 1
	}
	rows := (height - l.ChromeHeight) / rowHeight
	if height-l.ChromeHeight < 0 {
		rows = 0
	}
	if rows < l.MinRows {
		return l.MinRows
	}
	if rows > l.MaxRows {
		return l.MaxRows
	}
	return rows
}

// FilterInput is what the filter controls submit.
type FilterInput struct {
	Status   string
	Priority string
}

// RowView is one rendered table row.
type RowView struct {
	ID       int64
	CIName   string
	CICat    string
	CISubcat string
	Badge    ui.Badge
	Priority any
	Impact   any
	Urgency  any
	Opened   string
	Removing bool
	// Actions is false for archived tickets, which cannot be edited or archived.
	Actions  bool
}

// TableView is the render model of the table region.
type TableView struct {
	Region     *ui.Region
	Rows       []RowView
	Archived   bool
	Total      int
	Limit      int
	Offset     int
	Pagination PaginationView
}

// SubmitResult is the outcome of submitting the ticket form. On success the
// modal is closed and Table holds the reloaded page.
type SubmitResult struct {
	Modal *ui.Modal
	Table *TableView
	Saved *domain.Ticket
}

// ArchiveResult is the outcome of an archive attempt.
type ArchiveResult struct {
	Modal    *ui.Modal
	Removing bool
}

// TicketService drives the ticket list: pagination, filters, the create/edit
// form and optimistic archiving. Every method mutates the given session state,
// which callers serialize per session.
type TicketService struct {
	api        TicketAPI
	layout     Layout
	validate   *validator.Validate
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
	toastTTL   time.Duration
}

// TicketDependencies bundles collaborators of TicketService.
type TicketDependencies struct {
	API        TicketAPI
	Layout     Layout
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	Clock      func() time.Time
	ToastTTL   time.Duration
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &TicketService{
		api:        deps.API,
		layout:     deps.Layout,
		validate:   validator.New(),
		dispatcher: deps.Dispatcher,
		logger:     logger,
		now:        clock,
		toastTTL:   deps.ToastTTL,
	}
}

// ComputeRowLimit is the row limit for a viewport height.
func (s *TicketService) ComputeRowLimit(height int) int {
	return s.layout.RowLimit(height)
}

// SetViewport sets the row limit without reloading.
func (s *TicketService) SetViewport(st *session.State, height int) {
	st.Limit = s.layout.RowLimit(height)
}

// Resize recomputes the row limit and, only if it changed, reloads from the
// first page with the current filters.
func (s *TicketService) Resize(ctx context.Context, st *session.State, height int) (*TableView, bool) {
	limit := s.layout.RowLimit(height)
	if limit == st.Limit {
		return nil, false
	}
	prev := st.Limit
	st.Limit = limit
	view, err := s.load(ctx, st, st.Filters, 0)
	if err != nil {
		// The stored offset is aligned to the old limit.
		st.Limit = prev
		view.Limit = prev
	}
	return &view, true
}

// LoadPage fetches one page with filters at offset. Filters, offset, total
// and rows change only on success; a failure leaves the previous page in place.
func (s *TicketService) LoadPage(ctx context.Context, st *session.State, filters domain.Filters, offset int) TableView {
	view, _ := s.load(ctx, st, filters, offset)
	return view
}

func (s *TicketService) load(ctx context.Context, st *session.State, filters domain.Filters, offset int) (TableView, error) {
	filters = filters.Clone()
	if st.Limit <= 0 {
		st.Limit = s.layout.MinRows
	}
	offset = alignOffset(offset, st.Limit)

	page, err := s.api.ListTickets(ctx, filters, domain.Page{Limit: st.Limit, Offset: offset})
	if err == nil && page.Total > 0 && offset >= page.Total {
		// The page vanished under us; fall back to the last one.
		offset = alignOffset(page.Total-1, st.Limit)
		page, err = s.api.ListTickets(ctx, filters, domain.Page{Limit: st.Limit, Offset: offset})
	}
	if err != nil {
		s.logger.Warn("ticket list load failed", zap.String("session_id", st.ID), zap.Error(err))
		s.toast(st, ui.ToastError, MsgListUnavailable)
		region := ui.Failure("Error: " + apperrors.UserMessage(err))
		return TableView{
			Region:   &region,
			Archived: st.Filters.Archived(),
			Total:    st.Total,
			Limit:    st.Limit,
			Offset:   st.Offset,
		}, err
	}

	st.Filters = filters
	st.Offset = offset
	st.Total = page.Total
	st.ReplaceRows(page.Tickets)
	return s.Table(st), nil
}

// Reload refetches the current page.
func (s *TicketService) Reload(ctx context.Context, st *session.State) TableView {
	return s.LoadPage(ctx, st, st.Filters, st.Offset)
}

// GoTo navigates to the page at offset, keeping the filters.
func (s *TicketService) GoTo(ctx context.Context, st *session.State, offset int) TableView {
	return s.LoadPage(ctx, st, st.Filters, offset)
}

// ApplyFilters replaces the filters with the submitted controls and returns
// to the first page.
func (s *TicketService) ApplyFilters(ctx context.Context, st *session.State, in FilterInput) TableView {
	filters := domain.Filters{}
	if v := strings.TrimSpace(in.Status); v != "" {
		filters[domain.FilterStatus] = v
	}
	if v := strings.TrimSpace(in.Priority); v != "" {
		filters[domain.FilterPriority] = v
	}
	return s.LoadPage(ctx, st, filters, 0)
}

// ResetFilters clears every filter.
func (s *TicketService) ResetFilters(ctx context.Context, st *session.State) TableView {
	return s.LoadPage(ctx, st, domain.Filters{}, 0)
}

// ShowArchived switches to the archived tickets view.
func (s *TicketService) ShowArchived(ctx context.Context, st *session.State) TableView {
	return s.LoadPage(ctx, st, domain.ArchivedView(), 0)
}

// Table renders the table region from state without fetching.
func (s *TicketService) Table(st *session.State) TableView {
	view := TableView{
		Archived:   st.Filters.Archived(),
		Total:      st.Total,
		Limit:      st.Limit,
		Offset:     st.Offset,
		Pagination: Paginate(st.Total, st.Offset, st.Limit),
	}
	for _, row := range st.Rows {
		if row.Phase == session.RowRemoved {
			continue
		}
		t := row.Ticket
		view.Rows = append(view.Rows, RowView{
			ID:       t.ID,
			CIName:   ui.OrPlaceholder(t.CIName),
			CICat:    ui.OrPlaceholder(t.CICat),
			CISubcat: ui.OrPlaceholder(t.CISubcat),
			Badge:    ui.StatusBadge(t.Status),
			Priority: ui.NumberOrPlaceholder(t.Priority),
			Impact:   ui.NumberOrPlaceholder(t.Impact),
			Urgency:  ui.NumberOrPlaceholder(t.Urgency),
			Opened:   ui.FormatDate(t.OpenTime),
			Removing: row.Phase == session.RowRemoving,
			Actions:  !view.Archived && !t.Archived,
		})
	}
	if len(view.Rows) == 0 {
		region := ui.Empty(MsgNoTickets)
		view.Region = &region
	}
	return view
}

// OpenCreate opens an empty ticket form.
func (s *TicketService) OpenCreate(st *session.State) *ui.Modal {
	return st.Modal.Open(formModal(ui.TicketForm{
		Status:  string(domain.TicketStatusOpen),
		Impact:  3,
		Urgency: 3,
	}))
}

// OpenEdit fetches ticket id and opens the form prefilled with it. A failed
// fetch leaves the modal closed and queues an error toast. Archived tickets
// are read-only.
func (s *TicketService) OpenEdit(ctx context.Context, st *session.State, id int64) *ui.Modal {
	if st.Filters.Archived() {
		s.toast(st, ui.ToastWarning, fmt.Sprintf("Ticket #%d is archived and cannot be edited.", id))
		return nil
	}
	t, err := s.api.GetTicket(ctx, id)
	if err != nil {
		s.logger.Warn("ticket fetch failed", zap.Int64("ticket_id", id), zap.Error(err))
		s.toast(st, ui.ToastError, "Failed to load ticket: "+apperrors.UserMessage(err))
		return nil
	}
	if t.Archived {
		s.toast(st, ui.ToastWarning, fmt.Sprintf("Ticket #%d is archived and cannot be edited.", id))
		return nil
	}
	status := t.Status
	if !status.Valid() {
		status = domain.TicketStatusOpen
	}
	return st.Modal.Open(formModal(ui.TicketForm{
		TicketID: id,
		CIName:   t.CIName,
		CICat:    t.CICat,
		CISubcat: t.CISubcat,
		Status:   string(status),
		Impact:   clampLevel(t.Impact),
		Urgency:  clampLevel(t.Urgency),
	}))
}

// Submit validates the form and creates or updates the ticket. Invalid input
// is reported inside the modal without calling the API. API failures keep
// the modal open with the error shown and the submit control re-enabled.
func (s *TicketService) Submit(ctx context.Context, st *session.State, form ui.TicketForm) SubmitResult {
	form.CIName = strings.TrimSpace(form.CIName)
	form.CICat = strings.TrimSpace(form.CICat)
	form.CISubcat = strings.TrimSpace(form.CISubcat)
	form.Status = strings.TrimSpace(form.Status)

	modal := st.Modal.Open(formModal(form))
	if err := s.validate.Struct(form); err != nil {
		modal.Error = validationMessage(err)
		return SubmitResult{Modal: modal}
	}

	status, _ := domain.ParseTicketStatus(form.Status)
	ticket := domain.Ticket{
		CIName:   form.CIName,
		CICat:    form.CICat,
		CISubcat: form.CISubcat,
		Status:   status,
		Impact:   form.Impact,
		Urgency:  form.Urgency,
		Priority: domain.ComputePriority(form.Impact, form.Urgency),
	}

	modal.SubmitDisabled = true
	modal.SubmitLabel = "Saving..."

	var (
		saved     domain.Ticket
		err       error
		eventType events.EventType
		verb      string
	)
	if form.IsEdit() {
		saved, err = s.api.UpdateTicket(ctx, form.TicketID, ticket)
		eventType, verb = events.EventTicketUpdated, "updated"
	} else {
		saved, err = s.api.CreateTicket(ctx, ticket)
		eventType, verb = events.EventTicketCreated, "created"
	}
	if err != nil {
		msg := apperrors.UserMessage(err)
		s.logger.Warn("ticket save failed", zap.Bool("edit", form.IsEdit()), zap.Error(err))
		modal.SubmitDisabled = false
		modal.SubmitLabel = submitLabel(form)
		modal.Error = "Error: " + msg
		s.toast(st, ui.ToastError, msg)
		return SubmitResult{Modal: modal}
	}

	st.Modal.Close()
	s.toast(st, ui.ToastSuccess, fmt.Sprintf("Ticket #%d %s.", saved.ID, verb))
	s.publish(ctx, st, events.Event{
		Type:     eventType,
		TicketID: saved.ID,
		Payload: events.TicketChangedPayload{
			CIName:   saved.CIName,
			Status:   saved.Status,
			Priority: saved.Priority,
		},
	})
	table := s.Reload(ctx, st)
	return SubmitResult{Table: &table, Saved: &saved}
}

// ConfirmArchive asks for confirmation before archiving ticket id. Archived
// tickets cannot be archived again.
func (s *TicketService) ConfirmArchive(st *session.State, id int64) *ui.Modal {
	if st.Filters.Archived() {
		s.toast(st, ui.ToastWarning, fmt.Sprintf("Ticket #%d is already archived.", id))
		return nil
	}
	row, ok := st.Row(id)
	if !ok || row.Phase != session.RowVisible {
		s.toast(st, ui.ToastWarning, fmt.Sprintf("Ticket #%d is not on this page.", id))
		return nil
	}
	if row.Ticket.Archived {
		s.toast(st, ui.ToastWarning, fmt.Sprintf("Ticket #%d is already archived.", id))
		return nil
	}
	return st.Modal.Open(ui.Modal{
		Kind:        ui.ModalConfirmArchive,
		Title:       "Archive ticket",
		TicketID:    id,
		SubmitLabel: "Archive",
	})
}

// Archive archives ticket id once its confirmation is open. On success the
// row starts fading out; FinishRemoval completes it.
func (s *TicketService) Archive(ctx context.Context, st *session.State, id int64) ArchiveResult {
	if !st.Modal.IsOpen(ui.ModalConfirmArchive) || st.Modal.Active.TicketID != id {
		return ArchiveResult{Modal: s.ConfirmArchive(st, id)}
	}
	modal := st.Modal.Active
	modal.SubmitDisabled = true

	if err := s.api.ArchiveTicket(ctx, id); err != nil {
		msg := apperrors.UserMessage(err)
		s.logger.Warn("ticket archive failed", zap.Int64("ticket_id", id), zap.Error(err))
		modal.SubmitDisabled = false
		modal.SubmitLabel = "Archive"
		modal.Error = "Error: " + msg
		s.toast(st, ui.ToastError, "Error: "+msg)
		return ArchiveResult{Modal: modal}
	}

	st.Modal.Close()
	s.toast(st, ui.ToastSuccess, fmt.Sprintf("Ticket #%d archived.", id))
	s.publish(ctx, st, events.Event{Type: events.EventTicketArchived, TicketID: id})
	if err := st.BeginRemoval(id); err != nil {
		s.logger.Debug("archived ticket not on page", zap.Int64("ticket_id", id), zap.Error(err))
		return ArchiveResult{}
	}
	return ArchiveResult{Removing: true}
}

// FinishRemoval drops a faded row. When no rows remain on the page it is
// reloaded at the current offset.
func (s *TicketService) FinishRemoval(ctx context.Context, st *session.State, id int64) (*TableView, bool) {
	if err := st.FinishRemoval(id); err != nil {
		s.logger.Debug("finish removal ignored", zap.Int64("ticket_id", id), zap.Error(err))
		return nil, false
	}
	if st.LiveRows() > 0 {
		return nil, false
	}
	view := s.Reload(ctx, st)
	return &view, true
}

// CloseModal dismisses the active modal.
func (s *TicketService) CloseModal(st *session.State) {
	st.Modal.Close()
}

// Toasts drains the toasts still alive.
func (s *TicketService) Toasts(st *session.State) []ui.Toast {
	return st.Toasts.Drain(s.now())
}

func (s *TicketService) toast(st *session.State, kind ui.ToastKind, msg string) {
	st.Toasts.Push(kind, msg, s.now(), s.toastTTL)
}

func (s *TicketService) publish(ctx context.Context, st *session.State, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.SessionID = st.ID
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handlers failed", zap.String("type", string(event.Type)), zap.Error(err))
	}
}

func formModal(form ui.TicketForm) ui.Modal {
	title := "New ticket"
	if form.IsEdit() {
		title = fmt.Sprintf("Edit ticket #%d", form.TicketID)
	}
	return ui.Modal{
		Kind:        ui.ModalTicketForm,
		Title:       title,
		Form:        &form,
		SubmitLabel: submitLabel(form),
	}
}

func submitLabel(form ui.TicketForm) string {
	if form.IsEdit() {
		return "Save"
	}
	return "Create"
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	switch fe.Field() {
	case "CIName":
		return MsgShortCIName
	case "Status":
		return "Choose a valid status."
	default:
		return fmt.Sprintf("%s must be between %d and %d.", fe.Field(), domain.MinLevel, domain.MaxLevel)
	}
}

func alignOffset(offset, limit int) int {
	if offset < 0 || limit <= 0 {
		return 0
	}
	return offset / limit * limit
}

func clampLevel(v int) int {
	if v < domain.MinLevel {
		return domain.MinLevel
	}
	if v > domain.MaxLevel {
		return domain.MaxLevel
	}
	return v
}
