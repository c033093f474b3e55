package service

import (
	"strings"
	"testing"

	"pgregory.net/rapid"
)

func TestPaginateWindow(t *testing.T) {
	v := Paginate(95, 50, 10)
	if !v.Visible || v.TotalPages != 10 || v.CurrentPage != 5 {
		t.Fatalf("unexpected view %+v", v)
	}
	var labels []string
	for _, it := range v.Items {
		labels = append(labels, it.Label)
	}
	if got := strings.Join(labels, " "); got != "1 … 3 4 5 6 7 8 9 10" {
		t.Fatalf("unexpected items %q", got)
	}
	if v.Prev.Offset != 40 || v.Next.Offset != 60 || v.Last.Offset != 90 {
		t.Fatalf("unexpected buttons %+v", v)
	}
}

func TestPaginateSinglePageIsHidden(t *testing.T) {
	for _, total := range []int{0, 1, 10} {
		if v := Paginate(total, 0, 10); v.Visible || len(v.Items) != 0 {
			t.Fatalf("total %d: expected hidden pagination", total)
		}
	}
}

func TestPaginateEdges(t *testing.T) {
	first := Paginate(100, 0, 10)
	if !first.First.Disabled || !first.Prev.Disabled || first.Next.Disabled {
		t.Fatalf("unexpected first page buttons %+v", first)
	}
	last := Paginate(100, 90, 10)
	if !last.Next.Disabled || !last.Last.Disabled || last.Prev.Disabled {
		t.Fatalf("unexpected last page buttons %+v", last)
	}
}

func TestPaginateProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		limit := rapid.IntRange(1, 25).Draw(t, "limit")
		total := rapid.IntRange(0, 2000).Draw(t, "total")
		offset := 0
		if total > 0 {
			offset = rapid.IntRange(0, total-1).Draw(t, "offset") / limit * limit
		}
		v := Paginate(total, offset, limit)

		wantPages := (total + limit - 1) / limit
		if v.TotalPages != wantPages {
			t.Fatalf("pages %d, want %d", v.TotalPages, wantPages)
		}
		if wantPages <= 1 {
			if v.Visible {
				t.Fatalf("single page must hide pagination")
			}
			return
		}
		current := 0
		for i, it := range v.Items {
			if it.Current {
				current++
				if it.Offset != offset {
					t.Fatalf("current item offset %d, want %d", it.Offset, offset)
				}
			}
			if it.Ellipsis && (i == 0 || i == len(v.Items)-1) {
				t.Fatalf("ellipsis must sit between numbers")
			}
		}
		if current != 1 {
			t.Fatalf("expected exactly one current item, got %d", current)
		}
		if v.Items[0].Label != "1" || v.Items[len(v.Items)-1].Offset != (wantPages-1)*limit {
			t.Fatalf("first and last pages must be pinned")
		}
		atLast := v.CurrentPage == wantPages-1
		if v.Next.Disabled != atLast || v.Last.Disabled != atLast {
			t.Fatalf("next/last disabled mismatch at page %d", v.CurrentPage)
		}
		atFirst := v.CurrentPage == 0
		if v.Prev.Disabled != atFirst || v.First.Disabled != atFirst {
			t.Fatalf("first/prev disabled mismatch at page %d", v.CurrentPage)
		}
	})
}
