package events

import (
	"time"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated  EventType = "ticket_created"
	EventTicketUpdated  EventType = "ticket_updated"
	EventTicketArchived EventType = "ticket_archived"
)

// Event is a ticket lifecycle change made through the dashboard.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  int64       `json:"ticket_id"`
	SessionID string      `json:"session_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// TicketChangedPayload describes a created or updated ticket.
type TicketChangedPayload struct {
	CIName   string              `json:"ciName"`
	Status   domain.TicketStatus `json:"status"`
	Priority int                 `json:"priority"`
}
