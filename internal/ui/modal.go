package ui

// ModalKind identifies what an open modal shows.
type ModalKind string

const (
	ModalTicketForm     ModalKind = "ticket_form"
	ModalConfirmArchive ModalKind = "confirm_archive"
)

// TicketForm is the editable content of the create/edit modal.
type TicketForm struct {
	TicketID int64  `json:"ticket_id,omitempty"`
	CIName   string `json:"ciName" validate:"required,min=3"`
	CICat    string `json:"ciCat"`
	CISubcat string `json:"ciSubcat"`
	Status   string `json:"status" validate:"required,oneof=open in_progress closed"`
	Impact   int    `json:"impact" validate:"min=1,max=5"`
	Urgency  int    `json:"urgency" validate:"min=1,max=5"`
}

// IsEdit reports whether the form edits an existing ticket.
func (f TicketForm) IsEdit() bool {
	return f.TicketID != 0
}

// Modal is the single active dialog.
type Modal struct {
	Kind           ModalKind   `json:"kind"`
	Title          string      `json:"title"`
	Form           *TicketForm `json:"form,omitempty"`
	TicketID       int64       `json:"ticket_id,omitempty"`
	Error          string      `json:"error,omitempty"`
	SubmitLabel    string      `json:"submit_label"`
	SubmitDisabled bool        `json:"submit_disabled"`
}

// ModalSlot holds at most one modal; opening replaces whatever was there.
type ModalSlot struct {
	Active *Modal `json:"active,omitempty"`
}

// Open replaces the active modal with m.
func (s *ModalSlot) Open(m Modal) *Modal {
	s.Active = &m
	return s.Active
}

// Close removes the active modal.
func (s *ModalSlot) Close() {
	s.Active = nil
}

// IsOpen reports whether a modal of kind is active.
func (s *ModalSlot) IsOpen(kind ModalKind) bool {
	return s.Active != nil && s.Active.Kind == kind
}
