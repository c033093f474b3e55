package dto

import "github.com/spec-kit/ticket-dashboard/internal/ui"

// TicketFormRequest is the urlencoded body of the ticket form.
type TicketFormRequest struct {
	TicketID int64  `form:"ticket_id"`
	CIName   string `form:"ciName"`
	CICat    string `form:"ciCat"`
	CISubcat string `form:"ciSubcat"`
	Status   string `form:"status"`
	Impact   int    `form:"impact"`
	Urgency  int    `form:"urgency"`
}

// ToForm converts the request into the modal's form model.
func (r TicketFormRequest) ToForm() ui.TicketForm {
	return ui.TicketForm{
		TicketID: r.TicketID,
		CIName:   r.CIName,
		CICat:    r.CICat,
		CISubcat: r.CISubcat,
		Status:   r.Status,
		Impact:   r.Impact,
		Urgency:  r.Urgency,
	}
}

// FilterRequest is the urlencoded body of the filter controls.
type FilterRequest struct {
	Status   string `form:"status"`
	Priority string `form:"priority"`
}

// ViewportRequest carries the browser viewport height.
type ViewportRequest struct {
	Height int `form:"height" query:"height"`
}
