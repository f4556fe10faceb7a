package sessions

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	userID := uuid.New()

	if err := store.Save(ctx, "sid-1", Session{UserID: userID}, time.Hour); err != nil {
		t.Fatalf("Save: %v", err)
	}

	session, err := store.Get(ctx, "sid-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if session == nil || session.UserID != userID {
		t.Fatalf("session = %+v, want user %s", session, userID)
	}

	if err := store.Delete(ctx, "sid-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	session, err = store.Get(ctx, "sid-1")
	if err != nil {
		t.Fatalf("Get after delete: %v", err)
	}
	if session != nil {
		t.Fatalf("expected nil after delete, got %+v", session)
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Save(ctx, "sid-1", Session{UserID: uuid.New()}, -time.Second); err != nil {
		t.Fatalf("Save: %v", err)
	}
	session, err := store.Get(ctx, "sid-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if session != nil {
		t.Fatalf("expired session should be gone, got %+v", session)
	}
}

func TestMemoryStoreMissing(t *testing.T) {
	store := NewMemoryStore()
	session, err := store.Get(context.Background(), "nope")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if session != nil {
		t.Fatalf("expected nil for unknown id, got %+v", session)
	}
}
