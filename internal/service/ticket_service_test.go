package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"pgregory.net/rapid"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
	"github.com/spec-kit/ticket-dashboard/internal/events"
	"github.com/spec-kit/ticket-dashboard/internal/observability"
	"github.com/spec-kit/ticket-dashboard/internal/session"
	"github.com/spec-kit/ticket-dashboard/internal/ui"
	apperrors "github.com/spec-kit/ticket-dashboard/pkg/util/errorutil"
)

var testLayout = Layout{RowHeight: 52, ChromeHeight: 390, MinRows: 5, MaxRows: 20}

type fakeTicketAPI struct {
	tickets    []domain.Ticket
	listErr    error
	getErr     error
	saveErr    error
	archiveErr error

	listCalls   []domain.Page
	lastFilters domain.Filters
	created     []domain.Ticket
	updated     map[int64]domain.Ticket
	archived    []int64
	nextID      int64
}

func (f *fakeTicketAPI) ListTickets(_ context.Context, filters domain.Filters, page domain.Page) (domain.TicketPage, error) {
	f.listCalls = append(f.listCalls, page)
	f.lastFilters = filters
	if f.listErr != nil {
		return domain.TicketPage{}, f.listErr
	}
	end := min(page.Offset+page.Limit, len(f.tickets))
	var out []domain.Ticket
	if page.Offset < end {
		out = append(out, f.tickets[page.Offset:end]...)
	}
	return domain.TicketPage{Tickets: out, Total: len(f.tickets)}, nil
}

func (f *fakeTicketAPI) GetTicket(_ context.Context, id int64) (domain.Ticket, error) {
	if f.getErr != nil {
		return domain.Ticket{}, f.getErr
	}
	for _, t := range f.tickets {
		if t.ID == id {
			return t, nil
		}
	}
	return domain.Ticket{}, apperrors.NewUpstreamError(404, "ticket not found")
}

func (f *fakeTicketAPI) CreateTicket(_ context.Context, t domain.Ticket) (domain.Ticket, error) {
	if f.saveErr != nil {
		return domain.Ticket{}, f.saveErr
	}
	f.nextID++
	t.ID = f.nextID
	f.created = append(f.created, t)
	f.tickets = append(f.tickets, t)
	return t, nil
}

func (f *fakeTicketAPI) UpdateTicket(_ context.Context, id int64, t domain.Ticket) (domain.Ticket, error) {
	if f.saveErr != nil {
		return domain.Ticket{}, f.saveErr
	}
	if f.updated == nil {
		f.updated = map[int64]domain.Ticket{}
	}
	t.ID = id
	f.updated[id] = t
	return t, nil
}

func (f *fakeTicketAPI) ArchiveTicket(_ context.Context, id int64) error {
	if f.archiveErr != nil {
		return f.archiveErr
	}
	f.archived = append(f.archived, id)
	kept := f.tickets[:0]
	for _, t := range f.tickets {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	f.tickets = kept
	return nil
}

func seedTickets(n int) []domain.Ticket {
	out := make([]domain.Ticket, n)
	for i := range out {
		out[i] = domain.Ticket{ID: int64(i + 1), CIName: fmt.Sprintf("SRV%03d", i+1), Status: domain.TicketStatusOpen, Impact: 2, Urgency: 2, Priority: 2}
	}
	return out
}

var fixedNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestService(api *fakeTicketAPI, d events.Dispatcher) *TicketService {
	return NewTicketService(TicketDependencies{
		API:        api,
		Layout:     testLayout,
		Dispatcher: d,
		Clock:      func() time.Time { return fixedNow },
	})
}

func toastMessages(st *session.State) []string {
	var out []string
	for _, t := range st.Toasts.Items {
		out = append(out, string(t.Kind)+":"+t.Message)
	}
	return out
}

func TestRowLimit(t *testing.T) {
	cases := map[int]int{900: 9, 300: 5, 0: 5, 442: 5, 650: 5, 702: 6, 3000: 20}
	for height, want := range cases {
		if got := testLayout.RowLimit(height); got != want {
			t.Fatalf("RowLimit(%d) = %d, want %d", height, got, want)
		}
	}
}

func TestRowLimitIsClampedAndMonotonic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := rapid.IntRange(-500, 5000).Draw(t, "a")
		b := rapid.IntRange(a, 6000).Draw(t, "b")
		la, lb := testLayout.RowLimit(a), testLayout.RowLimit(b)
		if la < 5 || la > 20 || lb < 5 || lb > 20 {
			t.Fatalf("limits out of range: %d %d", la, lb)
		}
		if la > lb {
			t.Fatalf("limit decreased with height: %d -> %d", la, lb)
		}
	})
}

func TestResizeReloadsOnlyWhenLimitChanges(t *testing.T) {
	api := &fakeTicketAPI{tickets: seedTickets(40)}
	svc := newTestService(api, nil)
	st := session.New(9)
	st.Offset = 18

	if view, reloaded := svc.Resize(context.Background(), st, 900); reloaded || view != nil {
		t.Fatalf("same limit must not reload")
	}
	if len(api.listCalls) != 0 {
		t.Fatalf("expected no fetch, got %d", len(api.listCalls))
	}

	view, reloaded := svc.Resize(context.Background(), st, 1430)
	if !reloaded || view == nil {
		t.Fatalf("expected reload after limit change")
	}
	if len(api.listCalls) != 1 {
		t.Fatalf("expected exactly one fetch, got %d", len(api.listCalls))
	}
	if api.listCalls[0] != (domain.Page{Limit: 20, Offset: 0}) {
		t.Fatalf("unexpected page %+v", api.listCalls[0])
	}
	if st.Offset != 0 || st.Limit != 20 || len(view.Rows) != 20 {
		t.Fatalf("unexpected state offset=%d limit=%d rows=%d", st.Offset, st.Limit, len(view.Rows))
	}
}

func TestLoadPageFailureKeepsOffset(t *testing.T) {
	api := &fakeTicketAPI{tickets: seedTickets(30)}
	svc := newTestService(api, nil)
	st := session.New(10)
	svc.GoTo(context.Background(), st, 10)

	api.listErr = apperrors.NewUpstreamUnavailable(errors.New("connection refused"))
	view := svc.ApplyFilters(context.Background(), st, FilterInput{Status: "closed"})

	if view.Region == nil || view.Region.Kind != "error" || !strings.Contains(view.Region.Message, "ticket API unreachable") {
		t.Fatalf("expected inline error, got %+v", view.Region)
	}
	if st.Offset != 10 {
		t.Fatalf("offset must survive a failed load, got %d", st.Offset)
	}
	if len(st.Filters) != 0 || len(st.Rows) != 10 {
		t.Fatalf("previous filters and rows must survive, got %v rows=%d", st.Filters, len(st.Rows))
	}
	msgs := toastMessages(st)
	if len(msgs) != 1 || msgs[0] != "error:"+MsgListUnavailable {
		t.Fatalf("unexpected toasts %v", msgs)
	}
}

func TestResizeFailureKeepsOffsetAligned(t *testing.T) {
	api := &fakeTicketAPI{tickets: seedTickets(40)}
	svc := newTestService(api, nil)
	st := session.New(9)
	svc.GoTo(context.Background(), st, 18)

	api.listErr = apperrors.NewUpstreamUnavailable(errors.New("connection refused"))
	view, reloaded := svc.Resize(context.Background(), st, 1430)
	if !reloaded || view == nil || view.Region == nil || view.Region.Kind != "error" {
		t.Fatalf("expected a failed reload, got %+v", view)
	}
	if st.Limit != 9 || st.Offset != 18 || st.Offset%st.Limit != 0 {
		t.Fatalf("unexpected state limit=%d offset=%d", st.Limit, st.Offset)
	}

	api.listErr = nil
	view, reloaded = svc.Resize(context.Background(), st, 1430)
	if !reloaded || st.Limit != 20 || st.Offset != 0 || len(view.Rows) != 20 {
		t.Fatalf("retry should apply the new limit, limit=%d offset=%d", st.Limit, st.Offset)
	}
}

func TestFailedFilterChangeKeepsArchivedViewReadOnly(t *testing.T) {
	tickets := seedTickets(3)
	for i := range tickets {
		tickets[i].Archived = true
	}
	api := &fakeTicketAPI{tickets: tickets}
	svc := newTestService(api, nil)
	st := session.New(10)
	svc.ShowArchived(context.Background(), st)

	api.listErr = apperrors.NewUpstreamUnavailable(errors.New("connection refused"))
	svc.ApplyFilters(context.Background(), st, FilterInput{Status: "open"})
	if !st.Filters.Archived() {
		t.Fatalf("failed load must keep the archived view, got %v", st.Filters)
	}

	if m := svc.ConfirmArchive(st, 2); m != nil {
		t.Fatalf("archived ticket must not be offered for archiving")
	}
	if res := svc.Archive(context.Background(), st, 2); res.Removing || len(api.archived) != 0 {
		t.Fatalf("archived ticket must not be archived again, calls %v", api.archived)
	}
	view := svc.Table(st)
	if !view.Archived || len(view.Rows) != 3 {
		t.Fatalf("unexpected view %+v", view)
	}
	for _, row := range view.Rows {
		if row.Actions {
			t.Fatalf("row %d offers actions", row.ID)
		}
	}
}

func TestArchivedTicketsAreReadOnlyInAnyView(t *testing.T) {
	tickets := seedTickets(2)
	tickets[1].Archived = true
	api := &fakeTicketAPI{tickets: tickets}
	svc := newTestService(api, nil)
	st := session.New(10)

	view := svc.Reload(context.Background(), st)
	if !view.Rows[0].Actions || view.Rows[1].Actions {
		t.Fatalf("unexpected actions %+v", view.Rows)
	}
	if m := svc.ConfirmArchive(st, 2); m != nil {
		t.Fatalf("archived ticket must not be offered for archiving")
	}
	if m := svc.OpenEdit(context.Background(), st, 2); m != nil {
		t.Fatalf("archived ticket must not be editable")
	}
	if m := svc.OpenEdit(context.Background(), st, 1); m == nil {
		t.Fatalf("live ticket should be editable")
	}

	svc.ShowArchived(context.Background(), st)
	if m := svc.OpenEdit(context.Background(), st, 1); m != nil {
		t.Fatalf("archived view must not open the edit form")
	}
	if msgs := toastMessages(st); msgs[len(msgs)-1] != "warning:Ticket #1 is archived and cannot be edited." {
		t.Fatalf("unexpected toasts %v", msgs)
	}
}

func TestFiltersAndArchivedView(t *testing.T) {
	api := &fakeTicketAPI{tickets: seedTickets(3)}
	svc := newTestService(api, nil)
	st := session.New(10)

	svc.ApplyFilters(context.Background(), st, FilterInput{Status: " open ", Priority: ""})
	if len(api.lastFilters) != 1 || api.lastFilters[domain.FilterStatus] != "open" {
		t.Fatalf("unexpected filters %v", api.lastFilters)
	}

	view := svc.ShowArchived(context.Background(), st)
	if !view.Archived || api.lastFilters[domain.FilterArchived] != "1" {
		t.Fatalf("expected archived view, filters %v", api.lastFilters)
	}
	if m := svc.ConfirmArchive(st, 1); m != nil {
		t.Fatalf("archived view must not offer archiving")
	}

	svc.ResetFilters(context.Background(), st)
	if len(api.lastFilters) != 0 || st.Offset != 0 {
		t.Fatalf("expected cleared filters, got %v", api.lastFilters)
	}
}

func TestLoadPageFallsBackToLastPage(t *testing.T) {
	api := &fakeTicketAPI{tickets: seedTickets(12)}
	svc := newTestService(api, nil)
	st := session.New(5)

	view := svc.GoTo(context.Background(), st, 25)
	if st.Offset != 10 || len(view.Rows) != 2 {
		t.Fatalf("expected last page, offset=%d rows=%d", st.Offset, len(view.Rows))
	}
}

func TestEmptyTable(t *testing.T) {
	svc := newTestService(&fakeTicketAPI{}, nil)
	view := svc.Reload(context.Background(), session.New(5))
	if view.Region == nil || view.Region.Message != MsgNoTickets || view.Pagination.Visible {
		t.Fatalf("unexpected empty view %+v", view)
	}
}

func TestCreateTicketScenario(t *testing.T) {
	api := &fakeTicketAPI{nextID: 100}
	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()
	NewAuditService(dispatcher, nil, metrics).RegisterHandlers()
	var seen []events.Event
	dispatcher.Subscribe(events.EventTicketCreated, func(_ context.Context, e events.Event) error {
		seen = append(seen, e)
		return nil
	})
	svc := newTestService(api, dispatcher)
	st := session.New(10)

	modal := svc.OpenCreate(st)
	if modal.Form.Status != "open" || modal.Form.Impact != 3 || modal.Form.Urgency != 3 || modal.SubmitLabel != "Create" {
		t.Fatalf("unexpected create modal %+v", modal.Form)
	}

	res := svc.Submit(context.Background(), st, ui.TicketForm{
		CIName: "WBA000133", CICat: "application", Status: "open", Impact: 2, Urgency: 4,
	})
	if res.Modal != nil || res.Table == nil || res.Saved == nil {
		t.Fatalf("expected success, got %+v", res)
	}
	if len(api.created) != 1 || api.created[0].Priority != 3 {
		t.Fatalf("expected priority 3, got %+v", api.created)
	}
	if st.Modal.Active != nil {
		t.Fatalf("modal should be closed")
	}
	msgs := toastMessages(st)
	if len(msgs) != 1 || msgs[0] != "success:Ticket #101 created." {
		t.Fatalf("unexpected toasts %v", msgs)
	}
	if len(api.listCalls) != 1 || len(res.Table.Rows) != 1 {
		t.Fatalf("expected one reload with the new row")
	}
	if len(seen) != 1 || seen[0].TicketID != 101 || seen[0].SessionID != st.ID {
		t.Fatalf("unexpected events %+v", seen)
	}
	if metrics.Snapshot().Events[string(events.EventTicketCreated)] != 1 {
		t.Fatalf("audit should count the event")
	}
}

func TestSubmitRejectsShortCIName(t *testing.T) {
	api := &fakeTicketAPI{}
	svc := newTestService(api, nil)
	st := session.New(10)

	res := svc.Submit(context.Background(), st, ui.TicketForm{CIName: " ab ", Status: "open", Impact: 1, Urgency: 1})
	if res.Modal == nil || res.Modal.Error != MsgShortCIName {
		t.Fatalf("expected inline validation error, got %+v", res.Modal)
	}
	if len(api.created) != 0 || len(api.listCalls) != 0 {
		t.Fatalf("API must not be called")
	}
	if st.Modal.Active == nil || st.Modal.Active.Form.CIName != "ab" {
		t.Fatalf("form should stay open with the entered values")
	}
}

func TestSubmitFailureKeepsModalOpen(t *testing.T) {
	api := &fakeTicketAPI{saveErr: apperrors.NewUpstreamError(422, "ciName already exists")}
	svc := newTestService(api, nil)
	st := session.New(10)

	res := svc.Submit(context.Background(), st, ui.TicketForm{TicketID: 7, CIName: "SRV007", Status: "closed", Impact: 5, Urgency: 5})
	if res.Modal == nil || res.Modal.SubmitDisabled || res.Modal.SubmitLabel != "Save" {
		t.Fatalf("expected re-enabled edit modal, got %+v", res.Modal)
	}
	if res.Modal.Error != "Error: ciName already exists" {
		t.Fatalf("unexpected modal error %q", res.Modal.Error)
	}
	if res.Table != nil {
		t.Fatalf("no reload on failure")
	}
}

func TestEditTicket(t *testing.T) {
	api := &fakeTicketAPI{tickets: seedTickets(2)}
	svc := newTestService(api, nil)
	st := session.New(10)

	modal := svc.OpenEdit(context.Background(), st, 2)
	if modal == nil || modal.Form.TicketID != 2 || modal.Form.CIName != "SRV002" || modal.Title != "Edit ticket #2" {
		t.Fatalf("unexpected edit modal %+v", modal)
	}
	form := *modal.Form
	form.Impact, form.Urgency = 1, 1
	res := svc.Submit(context.Background(), st, form)
	if res.Saved == nil || api.updated[2].Priority != 1 {
		t.Fatalf("unexpected update %+v", api.updated)
	}
	if msgs := toastMessages(st); msgs[len(msgs)-1] != "success:Ticket #2 updated." {
		t.Fatalf("unexpected toasts %v", msgs)
	}

	api.getErr = apperrors.NewUpstreamError(500, "")
	if m := svc.OpenEdit(context.Background(), st, 2); m != nil {
		t.Fatalf("failed fetch must not open a modal")
	}
	if msgs := toastMessages(st); msgs[len(msgs)-1] != "error:Failed to load ticket: HTTP 500" {
		t.Fatalf("unexpected toasts %v", msgs)
	}
}

func TestArchiveScenario(t *testing.T) {
	tickets := seedTickets(3)
	tickets[2].ID = 42
	api := &fakeTicketAPI{tickets: tickets}
	svc := newTestService(api, nil)
	st := session.New(10)
	svc.Reload(context.Background(), st)

	res := svc.Archive(context.Background(), st, 42)
	if res.Removing || len(api.archived) != 0 {
		t.Fatalf("archiving requires confirmation first")
	}
	if res.Modal == nil || res.Modal.Kind != ui.ModalConfirmArchive || res.Modal.TicketID != 42 {
		t.Fatalf("expected confirmation modal, got %+v", res.Modal)
	}

	res = svc.Archive(context.Background(), st, 42)
	if !res.Removing || len(api.archived) != 1 || api.archived[0] != 42 {
		t.Fatalf("expected archive of 42, got %+v %v", res, api.archived)
	}
	if st.Modal.Active != nil {
		t.Fatalf("modal should close after archiving")
	}
	if row, _ := st.Row(42); row.Phase != session.RowRemoving {
		t.Fatalf("row should be fading, got %s", row.Phase)
	}
	if msgs := toastMessages(st); msgs[len(msgs)-1] != "success:Ticket #42 archived." {
		t.Fatalf("unexpected toasts %v", msgs)
	}

	calls := len(api.listCalls)
	if view, reloaded := svc.FinishRemoval(context.Background(), st, 42); reloaded || view != nil {
		t.Fatalf("page still has rows, no reload expected")
	}
	if len(api.listCalls) != calls || len(svc.Table(st).Rows) != 2 {
		t.Fatalf("removed row should disappear without a fetch")
	}
}

func TestArchiveLastRowReloads(t *testing.T) {
	api := &fakeTicketAPI{tickets: seedTickets(6)}
	svc := newTestService(api, nil)
	st := session.New(5)
	svc.GoTo(context.Background(), st, 5)
	if len(st.Rows) != 1 {
		t.Fatalf("expected one row on the second page")
	}

	svc.ConfirmArchive(st, 6)
	if res := svc.Archive(context.Background(), st, 6); !res.Removing {
		t.Fatalf("expected removal")
	}
	view, reloaded := svc.FinishRemoval(context.Background(), st, 6)
	if !reloaded || view == nil {
		t.Fatalf("empty page should reload")
	}
	if st.Offset != 0 || len(view.Rows) != 5 {
		t.Fatalf("expected fallback to the first page, offset=%d rows=%d", st.Offset, len(view.Rows))
	}
}

func TestArchiveFailureKeepsRow(t *testing.T) {
	api := &fakeTicketAPI{tickets: seedTickets(2), archiveErr: apperrors.NewUpstreamError(409, "locked")}
	svc := newTestService(api, nil)
	st := session.New(10)
	svc.Reload(context.Background(), st)

	svc.ConfirmArchive(st, 1)
	res := svc.Archive(context.Background(), st, 1)
	if res.Removing || res.Modal == nil || res.Modal.SubmitDisabled || res.Modal.Error != "Error: locked" {
		t.Fatalf("unexpected result %+v", res)
	}
	if row, _ := st.Row(1); row.Phase != session.RowVisible {
		t.Fatalf("row must stay visible")
	}
}

func TestOpeningAModalReplacesTheActiveOne(t *testing.T) {
	api := &fakeTicketAPI{tickets: seedTickets(1)}
	svc := newTestService(api, nil)
	st := session.New(10)
	svc.Reload(context.Background(), st)

	svc.OpenCreate(st)
	svc.ConfirmArchive(st, 1)
	if !st.Modal.IsOpen(ui.ModalConfirmArchive) {
		t.Fatalf("confirmation should replace the form")
	}
	svc.CloseModal(st)
	if st.Modal.Active != nil {
		t.Fatalf("modal should be closed")
	}
}

func TestToastsDrain(t *testing.T) {
	svc := newTestService(&fakeTicketAPI{listErr: errors.New("boom")}, nil)
	st := session.New(5)
	svc.Reload(context.Background(), st)
	if got := svc.Toasts(st); len(got) != 1 {
		t.Fatalf("expected one toast, got %d", len(got))
	}
	if got := svc.Toasts(st); len(got) != 0 {
		t.Fatalf("toasts are shown once")
	}
}
