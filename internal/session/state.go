// Package session holds the per-browser UI state the dashboard keeps between requests.
package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
	"github.com/spec-kit/ticket-dashboard/internal/ui"
)

// State is everything one browser tab sees: filters, pagination, the rows of
// the current page, the active modal, pending toasts, the last statistics and
// the theme.
type State struct {
	ID        string         `json:"id"`
	Theme     ui.Theme       `json:"theme,omitempty"`
	Filters   domain.Filters `json:"filters"`
	Limit     int            `json:"limit"`
	Offset    int            `json:"offset"`
	Total     int            `json:"total"`
	Rows      []Row          `json:"rows"`
	Modal     ui.ModalSlot   `json:"modal"`
	Toasts    ui.Toasts      `json:"toasts"`
	Stats     *StatsSnapshot `json:"stats,omitempty"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// StatsSnapshot is the last complete statistics load.
type StatsSnapshot struct {
	Status      []domain.StatRow `json:"status"`
	Priority    []domain.StatRow `json:"priority"`
	Category    []domain.StatRow `json:"category"`
	RecentCount *int             `json:"recent_count,omitempty"`
	LoadedAt    time.Time        `json:"loaded_at"`
}

// Rows returns the snapshot rows of dim.
func (s *StatsSnapshot) Rows(dim domain.StatDimension) []domain.StatRow {
	if s == nil {
		return nil
	}
	switch dim {
	case domain.DimensionStatus:
		return s.Status
	case domain.DimensionPriority:
		return s.Priority
	default:
		return s.Category
	}
}

// New returns a fresh state with a random id and the given row limit.
func New(limit int) *State {
	return &State{
		ID:      uuid.NewString(),
		Filters: domain.Filters{},
		Limit:   limit,
	}
}

// ValidID reports whether id looks like a session id issued by New.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
