package domain

import "sort"

// FilterKey names the list filters understood by the ticket API.
type FilterKey string

const (
	FilterStatus   FilterKey = "status"
	FilterPriority FilterKey = "priority"
	FilterArchived FilterKey = "archived"
)

// Filters maps optional filter keys to their values. An empty mapping means no filter.
type Filters map[FilterKey]string

// ArchivedView is the filter set of the archived tickets view.
func ArchivedView() Filters {
	return Filters{FilterArchived: "1"}
}

// Archived reports whether the filters select archived tickets.
func (f Filters) Archived() bool {
	return f[FilterArchived] != ""
}

// Clone copies the mapping, dropping empty values.
func (f Filters) Clone() Filters {
	out := make(Filters, len(f))
	for k, v := range f {
		if v != "" {
			out[k] = v
		}
	}
	return out
}

// Keys returns the set keys in sorted order.
func (f Filters) Keys() []FilterKey {
	keys := make([]FilterKey, 0, len(f))
	for k, v := range f {
		if v != "" {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Page identifies a window of the ticket list.
type Page struct {
	Limit  int
	Offset int
}

// TicketPage is one fetched page of the list with the overall match count.
type TicketPage struct {
	Tickets []Ticket
	Total   int
}
