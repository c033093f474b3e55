package ui

import (
	"time"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
)

// Placeholder is shown for missing values.
const Placeholder = "—"

// FormatDate renders a timestamp as dd/mm/yyyy, or the placeholder when absent.
func FormatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return Placeholder
	}
	return t.Format("02/01/2006")
}

// OrPlaceholder returns s, or the placeholder when s is empty.
func OrPlaceholder(s string) string {
	if s == "" {
		return Placeholder
	}
	return s
}

// NumberOrPlaceholder renders a positive level, or the placeholder.
func NumberOrPlaceholder(v int) any {
	if v <= 0 {
		return Placeholder
	}
	return v
}

// Badge is a labelled pill with a css modifier.
type Badge struct {
	Label string
	Class string
}

var statusBadgeLabels = map[domain.TicketStatus]string{
	domain.TicketStatusOpen:       "Open",
	domain.TicketStatusInProgress: "In progress",
	domain.TicketStatusClosed:     "Closed",
}

// StatusBadge maps a status to its badge. Unknown values keep their raw text.
func StatusBadge(status domain.TicketStatus) Badge {
	label, ok := statusBadgeLabels[status]
	if !ok {
		return Badge{Label: string(status), Class: "badge--unknown"}
	}
	cls := string(status)
	if status == domain.TicketStatusInProgress {
		cls = "inprogress"
	}
	return Badge{Label: label, Class: "badge--" + cls}
}

// StatusOptionLabel is the label of a status in the form select.
func StatusOptionLabel(status domain.TicketStatus) string {
	return statusBadgeLabels[status]
}
