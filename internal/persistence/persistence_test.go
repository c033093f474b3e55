package persistence

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-dashboard/internal/config"
	"github.com/spec-kit/ticket-dashboard/internal/domain"
	"github.com/spec-kit/ticket-dashboard/internal/session"
	"github.com/spec-kit/ticket-dashboard/internal/ui"
)

func sampleState() *session.State {
	st := session.New(9)
	st.Filters = domain.Filters{domain.FilterStatus: "open"}
	st.Offset = 18
	st.Total = 40
	st.Theme = ui.ThemeLight
	st.ReplaceRows([]domain.Ticket{{ID: 42, CIName: "WBA000133", Status: domain.TicketStatusOpen}})
	_ = st.BeginRemoval(42)
	st.Modal.Open(ui.Modal{Kind: ui.ModalConfirmArchive, TicketID: 42, SubmitLabel: "Archive"})
	return st
}

func assertRoundTrip(t *testing.T, got *session.State, want *session.State) {
	t.Helper()
	if got.ID != want.ID || got.Offset != 18 || got.Total != 40 || got.Theme != ui.ThemeLight {
		t.Fatalf("unexpected state %+v", got)
	}
	if got.Filters[domain.FilterStatus] != "open" {
		t.Fatalf("filters lost: %v", got.Filters)
	}
	if len(got.Rows) != 1 || got.Rows[0].Phase != session.RowRemoving {
		t.Fatalf("rows lost: %+v", got.Rows)
	}
	if !got.Modal.IsOpen(ui.ModalConfirmArchive) || got.Modal.Active.TicketID != 42 {
		t.Fatalf("modal lost: %+v", got.Modal)
	}
}

func TestMemorySessionStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore()

	if _, err := store.Load(ctx, "missing"); !errors.Is(err, session.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	st := sampleState()
	if err := store.Save(ctx, st); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := store.Load(ctx, st.ID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	assertRoundTrip(t, got, st)

	got.Offset = 0
	again, _ := store.Load(ctx, st.ID)
	if again.Offset != 18 {
		t.Fatalf("loaded state must not alias the stored one")
	}
}

func TestMemorySessionStoreSweep(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore()
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	old := session.New(5)
	_ = store.Save(ctx, old)
	now = now.Add(2 * time.Hour)
	fresh := session.New(5)
	_ = store.Save(ctx, fresh)

	if removed := store.Sweep(time.Hour); removed != 1 {
		t.Fatalf("expected one expired session, got %d", removed)
	}
	if store.Len() != 1 {
		t.Fatalf("expected one session left")
	}
	if _, err := store.Load(ctx, fresh.ID); err != nil {
		t.Fatalf("fresh session should survive: %v", err)
	}
}

// Runs against a live Redis when TEST_REDIS_ADDR is set.
func TestRedisSessionStore(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	r := NewRedis(config.RedisConfig{Addr: addr}, zap.NewNop())
	t.Cleanup(r.Close)
	if err := r.Ping(ctx); err != nil {
		t.Skipf("redis unreachable: %v", err)
	}

	store := NewRedisSessionStore(r, "ticket-dashboard-test:", time.Minute)
	st := sampleState()
	if err := store.Save(ctx, st); err != nil {
		t.Fatalf("save: %v", err)
	}
	t.Cleanup(func() { r.Client.Del(ctx, store.key(st.ID)) })

	got, err := store.Load(ctx, st.ID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	assertRoundTrip(t, got, st)

	ttl, err := r.Client.TTL(ctx, store.key(st.ID)).Result()
	if err != nil || ttl <= 0 || ttl > time.Minute {
		t.Fatalf("unexpected ttl %v err=%v", ttl, err)
	}
	if _, err := store.Load(ctx, "missing"); !errors.Is(err, session.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
