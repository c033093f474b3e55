package dto

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
)

// TicketPayload is the body of create and update requests.
type TicketPayload struct {
	CIName   string `json:"ciName"`
	CICat    string `json:"ciCat"`
	CISubcat string `json:"ciSubcat"`
	Status   string `json:"status"`
	Priority int    `json:"priority"`
	Impact   int    `json:"impact"`
	Urgency  int    `json:"urgency"`
}

// TicketResponse is a ticket as returned by the API. Numeric fields are
// accepted either as JSON numbers or numeric strings.
type TicketResponse struct {
	ID       FlexInt    `json:"id"`
	CIName   string     `json:"ciName"`
	CICat    string     `json:"ciCat"`
	CISubcat string     `json:"ciSubcat"`
	Status   string     `json:"status"`
	Priority FlexInt    `json:"priority"`
	Impact   FlexInt    `json:"impact"`
	Urgency  FlexInt    `json:"urgency"`
	OpenTime *time.Time `json:"openTime"`
	Archived FlexBool   `json:"archived"`
}

// TicketListResponse is the list envelope.
type TicketListResponse struct {
	Tickets []TicketResponse `json:"tickets"`
	Total   FlexInt          `json:"total"`
}

// ErrorResponse is the optional error body of a failed call.
type ErrorResponse struct {
	Message string `json:"message"`
}

// StatRowResponse is one aggregate bucket keyed by its dimension name, e.g. {"status":"open","total":3}.
type StatRowResponse map[string]json.RawMessage

// NewTicketPayload builds the request body from a ticket.
func NewTicketPayload(t domain.Ticket) TicketPayload {
	return TicketPayload{
		CIName:   t.CIName,
		CICat:    t.CICat,
		CISubcat: t.CISubcat,
		Status:   string(t.Status),
		Priority: t.Priority,
		Impact:   t.Impact,
		Urgency:  t.Urgency,
	}
}

// ToDomain converts the wire ticket.
func (r TicketResponse) ToDomain() domain.Ticket {
	status, _ := domain.ParseTicketStatus(r.Status)
	return domain.Ticket{
		ID:       int64(r.ID),
		CIName:   r.CIName,
		CICat:    r.CICat,
		CISubcat: r.CISubcat,
		Status:   status,
		Impact:   int(r.Impact),
		Urgency:  int(r.Urgency),
		Priority: int(r.Priority),
		OpenTime: r.OpenTime,
		Archived: bool(r.Archived),
	}
}

// ToDomain converts the list envelope.
func (r TicketListResponse) ToDomain() domain.TicketPage {
	page := domain.TicketPage{Tickets: make([]domain.Ticket, 0, len(r.Tickets)), Total: int(r.Total)}
	for _, t := range r.Tickets {
		page.Tickets = append(page.Tickets, t.ToDomain())
	}
	return page
}

// ToDomain extracts the bucket value for dim and its total.
func (r StatRowResponse) ToDomain(dim domain.StatDimension) (domain.StatRow, error) {
	row := domain.StatRow{}
	if raw, ok := r[string(dim)]; ok {
		row.Value = rawScalar(raw)
	}
	if raw, ok := r["total"]; ok {
		var total FlexInt
		if err := json.Unmarshal(raw, &total); err != nil {
			return row, fmt.Errorf("decode %s total: %w", dim, err)
		}
		row.Total = int(total)
	}
	return row, nil
}

// FlexInt decodes a JSON number, numeric string or null.
type FlexInt int64

func (f *FlexInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*f = 0
		return nil
	}
	s := strings.Trim(string(b), `"`)
	if s == "" {
		*f = 0
		return nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		*f = FlexInt(n)
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid integer %s", b)
	}
	*f = FlexInt(v)
	return nil
}

// FlexBool decodes a JSON boolean, 0/1 number or their string forms.
type FlexBool bool

func (f *FlexBool) UnmarshalJSON(b []byte) error {
	s := strings.ToLower(strings.Trim(string(bytes.TrimSpace(b)), `"`))
	switch s {
	case "true", "1":
		*f = true
	case "false", "0", "", "null":
		*f = false
	default:
		return fmt.Errorf("invalid boolean %s", b)
	}
	return nil
}

func rawScalar(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "null" {
		return ""
	}
	return trimmed
}
