package ui

import (
	"testing"
	"time"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
)

func TestToastsDrainInInsertionOrderAndExpire(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	var q Toasts
	q.Push(ToastSuccess, "first", now, time.Second)
	q.Push(ToastError, "second", now, 0)
	q.Push(ToastInfo, "third", now.Add(500*time.Millisecond), time.Second)

	got := q.Drain(now.Add(1200 * time.Millisecond))
	if len(got) != 2 || got[0].Message != "second" || got[1].Message != "third" {
		t.Fatalf("unexpected toasts %+v", got)
	}
	if got[0].Icon() != "✕" {
		t.Fatalf("unexpected icon %q", got[0].Icon())
	}
	if got[0].RemainingMillis(now.Add(1200*time.Millisecond)) != 2300 {
		t.Fatalf("unexpected remaining %d", got[0].RemainingMillis(now.Add(1200*time.Millisecond)))
	}
	if q.Len() != 0 {
		t.Fatalf("expected drained queue")
	}
}

func TestModalSlotReplaces(t *testing.T) {
	var slot ModalSlot
	slot.Open(Modal{Kind: ModalTicketForm, Title: "New ticket"})
	slot.Open(Modal{Kind: ModalConfirmArchive, TicketID: 42})
	if !slot.IsOpen(ModalConfirmArchive) || slot.IsOpen(ModalTicketForm) {
		t.Fatalf("expected only the confirm modal to be active: %+v", slot.Active)
	}
	slot.Close()
	if slot.Active != nil {
		t.Fatalf("expected no active modal")
	}
}

func TestFormatDate(t *testing.T) {
	if FormatDate(nil) != Placeholder {
		t.Fatalf("expected placeholder for nil")
	}
	ts := time.Date(2024, 3, 5, 23, 0, 0, 0, time.UTC)
	if got := FormatDate(&ts); got != "05/03/2024" {
		t.Fatalf("unexpected date %q", got)
	}
}

func TestStatusBadge(t *testing.T) {
	b := StatusBadge(domain.TicketStatusInProgress)
	if b.Class != "badge--inprogress" || b.Label != "In progress" {
		t.Fatalf("unexpected badge %+v", b)
	}
	if StatusBadge("weird").Label != "weird" {
		t.Fatalf("expected raw label for unknown status")
	}
}

func TestNavigationMarksActive(t *testing.T) {
	links := Navigation("/stats")
	active := 0
	for _, l := range links {
		if l.Active {
			active++
			if l.Href != "/stats" {
				t.Fatalf("wrong active link %s", l.Href)
			}
		}
	}
	if active != 1 {
		t.Fatalf("expected exactly one active link, got %d", active)
	}
}

func TestThemeToggle(t *testing.T) {
	if ParseTheme("dark") != ThemeDark || ParseTheme("light") != ThemeLight {
		t.Fatalf("unexpected parse")
	}
	if ThemeDark.Toggle() != ThemeLight || ThemeLight.Toggle() != ThemeDark {
		t.Fatalf("unexpected toggle")
	}
	if ThemeLight.BodyClass() != "light-mode" || ThemeDark.BodyClass() != "" {
		t.Fatalf("unexpected body class")
	}
}
