package session

import (
	"fmt"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
)

// RowPhase tracks a row through optimistic removal.
type RowPhase string

const (
	RowVisible  RowPhase = "visible"
	RowRemoving RowPhase = "removing"
	RowRemoved  RowPhase = "removed"
)

// Row is one ticket of the current page.
type Row struct {
	Ticket domain.Ticket `json:"ticket"`
	Phase  RowPhase      `json:"phase"`
}

// ReplaceRows installs a freshly fetched page; every row starts visible.
func (s *State) ReplaceRows(tickets []domain.Ticket) {
	s.Rows = make([]Row, 0, len(tickets))
	for _, t := range tickets {
		s.Rows = append(s.Rows, Row{Ticket: t, Phase: RowVisible})
	}
}

// Row finds the row of ticket id.
func (s *State) Row(id int64) (*Row, bool) {
	for i := range s.Rows {
		if s.Rows[i].Ticket.ID == id {
			return &s.Rows[i], true
		}
	}
	return nil, false
}

// BeginRemoval moves a visible row to removing.
func (s *State) BeginRemoval(id int64) error {
	return s.transition(id, RowVisible, RowRemoving)
}

// FinishRemoval moves a removing row to removed.
func (s *State) FinishRemoval(id int64) error {
	return s.transition(id, RowRemoving, RowRemoved)
}

// LiveRows counts rows that are still on screen, fading ones included.
func (s *State) LiveRows() int {
	n := 0
	for _, r := range s.Rows {
		if r.Phase != RowRemoved {
			n++
		}
	}
	return n
}

func (s *State) transition(id int64, from, to RowPhase) error {
	row, ok := s.Row(id)
	if !ok {
		return fmt.Errorf("ticket #%d is not on the current page", id)
	}
	if row.Phase != from {
		return fmt.Errorf("ticket #%d is %s, not %s", id, row.Phase, from)
	}
	row.Phase = to
	return nil
}
