package views

import (
	"strconv"
	"time"

	"github.com/flosch/pongo2/v6"

	"github.com/spec-kit/ticket-dashboard/internal/chart"
	"github.com/spec-kit/ticket-dashboard/internal/domain"
	"github.com/spec-kit/ticket-dashboard/internal/service"
	"github.com/spec-kit/ticket-dashboard/internal/ui"
)

// Option is a select entry.
type Option struct {
	Value    string
	Label    string
	Selected bool
}

var impactLabels = [...]string{"High", "Medium", "Low", "Very low", "Minimal"}

// Chrome is what every full page needs.
type Chrome struct {
	Path   string
	Title  string
	Theme  ui.Theme
	Toasts []ui.Toast
	Now    time.Time
}

func (ch Chrome) context() pongo2.Context {
	return pongo2.Context{
		"title":      ch.Title,
		"nav":        ui.Navigation(ch.Path),
		"body_class": ch.Theme.BodyClass(),
		"theme_icon": ch.Theme.ToggleIcon(),
		"toasts":     toastData(ch.Toasts, ch.Now),
	}
}

// TicketsPage is the context of the ticket list page. A nil table renders
// the loading placeholder; the browser then fetches the first page.
func TicketsPage(ch Chrome, filters domain.Filters, table *service.TableView, modal *ui.Modal) pongo2.Context {
	ctx := ch.context()
	ctx.Update(pongo2.Context{
		"status_filter":   statusOptions(filters[domain.FilterStatus], true),
		"priority_filter": priorityFilterOptions(filters[domain.FilterPriority]),
		"table":           tableData(table),
		"modal":           modalData(modal),
	})
	return ctx
}

// TicketsFragment is the context of a partial update of the ticket page.
// Regions left nil are not sent.
func TicketsFragment(table *service.TableView, modal *ui.Modal, toasts []ui.Toast, now time.Time) pongo2.Context {
	ctx := pongo2.Context{
		"modal":  modalData(modal),
		"toasts": toastData(toasts, now),
	}
	if table != nil {
		ctx["table"] = tableData(table)
	}
	return ctx
}

// StatsPage is the context of the statistics page.
func StatsPage(ch Chrome, dash service.DashboardView) pongo2.Context {
	ctx := ch.context()
	ctx["dashboard"] = dashboardData(dash)
	return ctx
}

// StatsFragment is the context of a statistics refresh.
func StatsFragment(dash service.DashboardView, toasts []ui.Toast, now time.Time) pongo2.Context {
	return pongo2.Context{
		"dashboard": dashboardData(dash),
		"toasts":    toastData(toasts, now),
	}
}

// AboutPage is the context of the about page.
func AboutPage(ch Chrome) pongo2.Context {
	return ch.context()
}

// ErrorPage is the context of the error page.
func ErrorPage(ch Chrome, status int, message string) pongo2.Context {
	ctx := ch.context()
	ctx["status"] = status
	ctx["message"] = message
	return ctx
}

func tableData(table *service.TableView) pongo2.Context {
	if table == nil {
		loading := ui.Loading(service.MsgLoadingTickets)
		return pongo2.Context{
			"region":     loading,
			"has_region": true,
			"loading":    true,
			"pagination": service.PaginationView{},
		}
	}
	ctx := pongo2.Context{
		"rows":       table.Rows,
		"archived":   table.Archived,
		"total":      table.Total,
		"pagination": table.Pagination,
		"has_region": table.Region != nil,
	}
	if table.Region != nil {
		ctx["region"] = *table.Region
	}
	return ctx
}

func modalData(m *ui.Modal) pongo2.Context {
	if m == nil {
		return pongo2.Context{"open": false}
	}
	ctx := pongo2.Context{
		"open":            true,
		"title":           m.Title,
		"error":           m.Error,
		"submit_label":    m.SubmitLabel,
		"submit_disabled": m.SubmitDisabled,
		"ticket_id":       m.TicketID,
		"is_form":         m.Kind == ui.ModalTicketForm,
		"is_confirm":      m.Kind == ui.ModalConfirmArchive,
	}
	if m.Form != nil {
		f := m.Form
		ctx["form"] = f
		ctx["status_options"] = statusOptions(f.Status, false)
		ctx["impact_options"] = levelOptions(f.Impact)
		ctx["urgency_options"] = levelOptions(f.Urgency)
		ctx["priority"] = domain.ComputePriority(f.Impact, f.Urgency)
	}
	return ctx
}

func toastData(toasts []ui.Toast, now time.Time) []pongo2.Context {
	out := make([]pongo2.Context, 0, len(toasts))
	for _, t := range toasts {
		out = append(out, pongo2.Context{
			"id":      t.ID,
			"kind":    string(t.Kind),
			"icon":    t.Icon(),
			"message": t.Message,
			"ttl":     t.RemainingMillis(now),
		})
	}
	return out
}

func dashboardData(dash service.DashboardView) pongo2.Context {
	ctx := pongo2.Context{
		"loaded":    dash.Loaded,
		"cards":     dash.Cards,
		"loaded_at": dash.LoadedAt,
		"version":   dash.Version,
	}
	if dash.Region != nil {
		ctx["region"] = *dash.Region
	}
	charts := make([]pongo2.Context, 0, len(dash.Charts))
	for _, c := range dash.Charts {
		charts = append(charts, chartData(c))
	}
	ctx["charts"] = charts
	return ctx
}

func chartData(c chart.Chart) pongo2.Context {
	return pongo2.Context{
		"dimension": string(c.Dimension),
		"title":     c.Title,
		"hidden":    c.Hidden,
		"legend":    c.Legend,
		"total":     c.Total,
	}
}

func statusOptions(current string, withAll bool) []Option {
	var out []Option
	if withAll {
		out = append(out, Option{Value: "", Label: "All", Selected: current == ""})
	}
	for _, s := range domain.TicketStatuses {
		out = append(out, Option{Value: string(s), Label: ui.StatusOptionLabel(s), Selected: current == string(s)})
	}
	return out
}

func priorityFilterOptions(current string) []Option {
	out := []Option{{Value: "", Label: "All", Selected: current == ""}}
	for level := domain.MinLevel; level <= domain.MaxLevel; level++ {
		v := strconv.Itoa(level)
		out = append(out, Option{Value: v, Label: chart.PriorityLabel(domain.TierOf(level)), Selected: current == v})
	}
	return out
}

func levelOptions(current int) []Option {
	out := make([]Option, 0, len(impactLabels))
	for i, label := range impactLabels {
		level := i + 1
		out = append(out, Option{
			Value:    strconv.Itoa(level),
			Label:    strconv.Itoa(level) + " — " + label,
			Selected: current == level,
		})
	}
	return out
}
