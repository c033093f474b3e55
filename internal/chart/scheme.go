package chart

import (
	"github.com/spec-kit/ticket-dashboard/internal/domain"
)

// Palette cycles by wedge index for dimensions without fixed colours.
var Palette = [...]string{
	"#E69F00", "#56B4E9", "#009E73", "#F0E442",
	"#0072B2", "#D55E00", "#CC79A7", "#000000",
}

// FallbackStatusColor colours status values outside the enumeration.
const FallbackStatusColor = "#56B4E9"

// Scheme decides titles, labels and colours for one chart. A nil Label
// shows raw values; a nil Color cycles the palette.
type Scheme struct {
	Dimension domain.StatDimension
	Title     string
	Label     func(key string) (string, bool)
	Color     func(key string) string
}

func (s Scheme) label(row domain.StatRow) string {
	if s.Label != nil {
		if l, ok := s.Label(row.Key()); ok && l != "" {
			return l
		}
	}
	if row.Value != "" {
		return row.Value
	}
	return OtherLabel
}

func (s Scheme) color(row domain.StatRow, index int) string {
	if s.Color != nil {
		return s.Color(row.Key())
	}
	return Palette[index%len(Palette)]
}

// StatusLabel names a status.
func StatusLabel(status domain.TicketStatus) string {
	switch status {
	case domain.TicketStatusOpen:
		return "Open"
	case domain.TicketStatusInProgress:
		return "In progress"
	case domain.TicketStatusClosed:
		return "Closed"
	}
	return ""
}

// StatusColor is the fixed colour of a status.
func StatusColor(status domain.TicketStatus) string {
	switch status {
	case domain.TicketStatusOpen:
		return "#009E73"
	case domain.TicketStatusInProgress:
		return "#0072B2"
	case domain.TicketStatusClosed:
		return "#D55E00"
	}
	return FallbackStatusColor
}

// PriorityLabel names a priority tier.
func PriorityLabel(tier domain.PriorityTier) string {
	switch tier {
	case domain.PriorityCritical:
		return "1 — Critical"
	case domain.PriorityHigh:
		return "2 — High"
	case domain.PriorityMedium:
		return "3 — Medium"
	case domain.PriorityLow:
		return "4 — Low"
	case domain.PriorityVeryLow:
		return "5 — Very low"
	case domain.PriorityNA:
		return "N/A"
	}
	return ""
}

// StatusScheme has fixed labels and colours.
func StatusScheme() Scheme {
	return Scheme{
		Dimension: domain.DimensionStatus,
		Title:     "By status",
		Label: func(key string) (string, bool) {
			status, ok := domain.ParseTicketStatus(key)
			if !ok {
				return "", false
			}
			return StatusLabel(status), true
		},
		Color: func(key string) string {
			status, _ := domain.ParseTicketStatus(key)
			return StatusColor(status)
		},
	}
}

// PriorityScheme has fixed labels and palette colours.
func PriorityScheme() Scheme {
	return Scheme{
		Dimension: domain.DimensionPriority,
		Title:     "By priority",
		Label: func(key string) (string, bool) {
			tier, ok := domain.ParsePriorityTier(key)
			if !ok {
				return "", false
			}
			return PriorityLabel(tier), true
		},
	}
}

// CategoryScheme shows raw values in palette colours.
func CategoryScheme() Scheme {
	return Scheme{
		Dimension: domain.DimensionCategory,
		Title:     "By CI category",
	}
}

// SchemeFor returns the scheme of dim.
func SchemeFor(dim domain.StatDimension) Scheme {
	switch dim {
	case domain.DimensionStatus:
		return StatusScheme()
	case domain.DimensionPriority:
		return PriorityScheme()
	default:
		return CategoryScheme()
	}
}
