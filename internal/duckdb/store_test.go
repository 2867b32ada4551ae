package duckdb

import (
	"context"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore("")
	if err != nil {
		t.Fatalf("NewStore(\"\") failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func createTestServer(t *testing.T, store *Store, srv *Server) int64 {
	t.Helper()
	id, err := store.CreateServer(context.Background(), srv)
	if err != nil {
		t.Fatalf("CreateServer failed: %v", err)
	}
	return id
}

func createTestKey(t *testing.T, store *Store, key *APIKey) int64 {
	t.Helper()
	id, err := store.CreateAPIKey(context.Background(), key)
	if err != nil {
		t.Fatalf("CreateAPIKey failed: %v", err)
	}
	return id
}

func insertTestEntries(t *testing.T, store *Store, entries []*LogEntry) {
	t.Helper()
	for _, e := range entries {
		if err := store.InsertLog(context.Background(), e); err != nil {
			t.Fatalf("InsertLog failed: %v", err)
		}
	}
}

func TestNewStore_InMemory(t *testing.T) {
	store := newTestStore(t)

	count, err := store.TotalLogCount(context.Background())
	if err != nil {
		t.Fatalf("TotalLogCount: %v", err)
	}
	if count != 0 {
		t.Errorf("TotalLogCount on fresh store = %d, want 0", count)
	}
}

func TestSetMaxConcurrentReads_ExhaustedSlotFails(t *testing.T) {
	store := newTestStore(t)
	store.SetMaxConcurrentReads(1)

	// Hold the only slot, then any further read with an expired context must
	// fail with the retryable busy error rather than queue forever.
	release, err := store.acquireRead(context.Background())
	if err != nil {
		t.Fatalf("acquireRead: %v", err)
	}
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := store.TotalLogCount(ctx); err == nil {
		t.Fatal("expected busy error when read slots are exhausted")
	}
}
