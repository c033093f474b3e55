package service

import "strconv"

// PageWindow is how many page numbers are shown on each side of the current page.
const PageWindow = 3

// PageButton is a first/prev/next/last control.
type PageButton struct {
	Offset   int
	Disabled bool
}

// PageItem is one numbered entry or an ellipsis.
type PageItem struct {
	Label    string
	Offset   int
	Current  bool
	Ellipsis bool
}

// PaginationView is the render model of the pagination bar.
type PaginationView struct {
	Visible     bool
	TotalPages  int
	CurrentPage int
	First       PageButton
	Prev        PageButton
	Next        PageButton
	Last        PageButton
	Items       []PageItem
}

// Paginate builds the pagination bar for total rows split in pages of limit,
// the current page being the one containing offset. Nothing is shown for a
// single page.
func Paginate(total, offset, limit int) PaginationView {
	if limit <= 0 {
		limit = 1
	}
	if offset < 0 {
		offset = 0
	}
	totalPages := (total + limit - 1) / limit
	current := offset / limit
	v := PaginationView{TotalPages: totalPages, CurrentPage: current}
	if totalPages <= 1 {
		return v
	}
	v.Visible = true

	last := totalPages - 1
	atStart := current <= 0
	atEnd := current >= last
	v.First = PageButton{Offset: 0, Disabled: atStart}
	v.Prev = PageButton{Offset: max(current-1, 0) * limit, Disabled: atStart}
	v.Next = PageButton{Offset: min(current+1, last) * limit, Disabled: atEnd}
	v.Last = PageButton{Offset: last * limit, Disabled: atEnd}

	start := max(0, current-PageWindow)
	end := min(last, current+PageWindow)
	page := func(i int) PageItem {
		return PageItem{Label: strconv.Itoa(i + 1), Offset: i * limit, Current: i == current}
	}
	if start > 0 {
		v.Items = append(v.Items, page(0))
		if start > 1 {
			v.Items = append(v.Items, PageItem{Label: "…", Ellipsis: true})
		}
	}
	for i := start; i <= end; i++ {
		v.Items = append(v.Items, page(i))
	}
	if end < last {
		if end < last-1 {
			v.Items = append(v.Items, PageItem{Label: "…", Ellipsis: true})
		}
		v.Items = append(v.Items, page(last))
	}
	return v
}
