package domain

import "strings"

// StatDimension names an aggregate served by the ticket API.
type StatDimension string

const (
	DimensionStatus   StatDimension = "status"
	DimensionPriority StatDimension = "priority"
	DimensionCategory StatDimension = "ciCat"
)

// StatDimensions lists every dimension in dashboard order.
var StatDimensions = []StatDimension{DimensionStatus, DimensionPriority, DimensionCategory}

// ParseStatDimension resolves a dimension name.
func ParseStatDimension(raw string) (StatDimension, bool) {
	for _, d := range StatDimensions {
		if strings.EqualFold(string(d), raw) {
			return d, true
		}
	}
	return "", false
}

// StatRow is one aggregate bucket: a dimension value and its ticket count.
type StatRow struct {
	Value string
	Total int
}

// Key returns the lower-cased, trimmed dimension value used for label and colour lookups.
func (r StatRow) Key() string {
	return strings.ToLower(strings.TrimSpace(r.Value))
}

// SumTotals adds the totals of rows.
func SumTotals(rows []StatRow) int {
	sum := 0
	for _, r := range rows {
		sum += r.Total
	}
	return sum
}

// StatusSummary holds the headline counts of the statistics page.
type StatusSummary struct {
	Total      int
	Open       int
	InProgress int
	Closed     int
}

// SummarizeStatus computes the headline counts from the by-status aggregate.
func SummarizeStatus(rows []StatRow) StatusSummary {
	s := StatusSummary{Total: SumTotals(rows)}
	for _, r := range rows {
		status, ok := ParseTicketStatus(r.Value)
		if !ok {
			continue
		}
		switch status {
		case TicketStatusOpen:
			s.Open += r.Total
		case TicketStatusInProgress:
			s.InProgress += r.Total
		case TicketStatusClosed:
			s.Closed += r.Total
		}
	}
	return s
}
