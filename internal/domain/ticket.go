package domain

import (
	"strings"
	"time"
)

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusClosed     TicketStatus = "closed"
)

// TicketStatuses lists every status in display order.
var TicketStatuses = []TicketStatus{TicketStatusOpen, TicketStatusInProgress, TicketStatusClosed}

// ParseTicketStatus normalizes a raw status value. The second result is false
// for values outside the enumeration.
func ParseTicketStatus(raw string) (TicketStatus, bool) {
	s := TicketStatus(strings.ToLower(strings.TrimSpace(raw)))
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusClosed:
		return s, true
	}
	return s, false
}

// Valid reports whether s is one of the known statuses.
func (s TicketStatus) Valid() bool {
	_, ok := ParseTicketStatus(string(s))
	return ok
}

// Level bounds for impact, urgency and priority. 1 is the most severe.
const (
	MinLevel = 1
	MaxLevel = 5
)

// Ticket is a configuration-item incident or change record as served by the ticket API.
type Ticket struct {
	ID       int64
	CIName   string
	CICat    string
	CISubcat string
	Status   TicketStatus
	Impact   int
	Urgency  int
	Priority int
	OpenTime *time.Time
	Archived bool
}

// ComputePriority derives priority as the ceiling of the mean of impact and urgency.
func ComputePriority(impact, urgency int) int {
	return (impact + urgency + 1) / 2
}

// LevelInRange reports whether v is a valid impact, urgency or priority.
func LevelInRange(v int) bool {
	return v >= MinLevel && v <= MaxLevel
}
