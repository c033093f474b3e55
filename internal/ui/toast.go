package ui

import (
	"time"

	"github.com/google/uuid"
)

// ToastKind selects the styling and icon of a toast.
type ToastKind string

const (
	ToastSuccess ToastKind = "success"
	ToastError   ToastKind = "error"
	ToastWarning ToastKind = "warning"
	ToastInfo    ToastKind = "info"
)

// DefaultToastDuration is how long a toast stays on screen.
const DefaultToastDuration = 3500 * time.Millisecond

var toastIcons = map[ToastKind]string{
	ToastSuccess: "✓",
	ToastError:   "✕",
	ToastWarning: "⚠",
	ToastInfo:    "ℹ",
}

// Toast is a transient notification.
type Toast struct {
	ID        string    `json:"id"`
	Kind      ToastKind `json:"kind"`
	Message   string    `json:"message"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Icon returns the glyph shown before the message.
func (t Toast) Icon() string {
	return toastIcons[t.Kind]
}

// RemainingMillis is the display time left at now, used by the browser timer.
func (t Toast) RemainingMillis(now time.Time) int64 {
	d := t.ExpiresAt.Sub(now)
	if d < 0 {
		return 0
	}
	return d.Milliseconds()
}

// Toasts queues notifications in insertion order. Each toast expires on its
// own; nothing cancels an individual toast.
type Toasts struct {
	Items []Toast `json:"items"`
}

// Push appends a toast expiring duration after now.
func (q *Toasts) Push(kind ToastKind, message string, now time.Time, duration time.Duration) Toast {
	if duration <= 0 {
		duration = DefaultToastDuration
	}
	t := Toast{
		ID:        uuid.NewString(),
		Kind:      kind,
		Message:   message,
		ExpiresAt: now.Add(duration),
	}
	q.Items = append(q.Items, t)
	return t
}

// Drain returns the toasts still alive at now, oldest first, and empties the queue.
func (q *Toasts) Drain(now time.Time) []Toast {
	out := make([]Toast, 0, len(q.Items))
	for _, t := range q.Items {
		if now.Before(t.ExpiresAt) {
			out = append(out, t)
		}
	}
	q.Items = nil
	return out
}

// Len reports how many toasts are queued.
func (q *Toasts) Len() int {
	return len(q.Items)
}
