package booking

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T) (*SessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewSessionStore(client, time.Hour), mr
}

func TestSessionStoreSaveLoad(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	want := sessionWithSlots(t)
	if err := store.Save(ctx, "conv-1", want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Load(ctx, "conv-1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got == nil {
		t.Fatal("Load returned nil session")
	}
	if got.ServiceType != want.ServiceType || got.DurationMinutes != want.DurationMinutes {
		t.Errorf("session = %+v, want %+v", got, want)
	}
	if len(got.Slots) != len(want.Slots) {
		t.Fatalf("got %d slots, want %d", len(got.Slots), len(want.Slots))
	}
	if !got.Slots[0].Start.Equal(want.Slots[0].Start) {
		t.Errorf("first slot start = %v, want %v", got.Slots[0].Start, want.Slots[0].Start)
	}
}

func TestSessionStoreLoadMissing(t *testing.T) {
	store, _ := newTestStore(t)

	got, err := store.Load(context.Background(), "unknown")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != nil {
		t.Errorf("Load of missing session = %+v, want nil", got)
	}
}

func TestSessionStoreOverwrite(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	first := sessionWithSlots(t)
	if err := store.Save(ctx, "conv-1", first); err != nil {
		t.Fatal(err)
	}

	// A new check with zero slots must fully replace the old offer.
	replacement := &Session{
		Date:            first.Date.AddDate(0, 0, 1),
		ServiceType:     "couronne",
		DurationMinutes: 90,
	}
	if err := store.Save(ctx, "conv-1", replacement); err != nil {
		t.Fatal(err)
	}

	got, err := store.Load(ctx, "conv-1")
	if err != nil {
		t.Fatal(err)
	}
	if got.ServiceType != "couronne" || len(got.Slots) != 0 {
		t.Errorf("old offer leaked through: %+v", got)
	}
}

func TestSessionStoreDelete(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, "conv-1", sessionWithSlots(t)); err != nil {
		t.Fatal(err)
	}
	if err := store.Delete(ctx, "conv-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	got, err := store.Load(ctx, "conv-1")
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Error("session survived Delete")
	}
}

func TestSessionStoreTTL(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, "conv-1", sessionWithSlots(t)); err != nil {
		t.Fatal(err)
	}

	mr.FastForward(2 * time.Hour)

	got, err := store.Load(ctx, "conv-1")
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Error("session should have expired")
	}
}

func TestSessionStoreIsolatedPerConversation(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, "conv-a", sessionWithSlots(t)); err != nil {
		t.Fatal(err)
	}

	got, err := store.Load(ctx, "conv-b")
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Error("session visible from another conversation")
	}
}
