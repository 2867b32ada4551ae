package duckdb

import (
	"context"
	"testing"
	"time"
)

func TestNewRetentionCleaner_DisabledReturnsNil(t *testing.T) {
	store := newTestStore(t)

	if rc := NewRetentionCleaner(store, RetentionConfig{RetentionDays: 0}); rc != nil {
		rc.Stop()
		t.Fatal("expected nil cleaner when retention is disabled")
	}
	if rc := NewRetentionCleaner(store, RetentionConfig{RetentionDays: -1}); rc != nil {
		rc.Stop()
		t.Fatal("expected nil cleaner for negative retention")
	}
}

func TestRetentionCleaner_StartupCleanup(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	old := time.Now().UTC().AddDate(0, 0, -10)
	insertTestEntries(t, store, []*LogEntry{
		{ServerID: 1, Timestamp: old.UnixMilli(), Level: "info", Source: "app", Message: "expired"},
		{ServerID: 1, Timestamp: time.Now().UTC().UnixMilli(), Level: "info", Source: "app", Message: "fresh"},
	})

	rc := NewRetentionCleaner(store, RetentionConfig{RetentionDays: 7})
	if rc == nil {
		t.Fatal("cleaner is nil")
	}
	defer rc.Stop()

	count, err := store.TotalLogCount(ctx)
	if err != nil {
		t.Fatalf("TotalLogCount: %v", err)
	}
	if count != 1 {
		t.Errorf("TotalLogCount = %d after startup cleanup, want 1", count)
	}
}

func TestDeleteBefore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	cutoff := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	insertTestEntries(t, store, []*LogEntry{
		{ServerID: 1, Timestamp: cutoff.AddDate(0, 0, -5).UnixMilli(), Level: "info", Source: "app", Message: "old"},
		{ServerID: 1, Timestamp: cutoff.AddDate(0, 0, 5).UnixMilli(), Level: "info", Source: "app", Message: "new"},
	})
	if err := store.IncrementCounters(ctx, 1, "2026-07-27", "info"); err != nil {
		t.Fatalf("IncrementCounters: %v", err)
	}
	if err := store.IncrementCounters(ctx, 1, "2026-08-06", "info"); err != nil {
		t.Fatalf("IncrementCounters: %v", err)
	}

	deleted, err := store.DeleteBefore(ctx, cutoff)
	if err != nil {
		t.Fatalf("DeleteBefore: %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d log rows, want 1", deleted)
	}

	entries, err := store.SearchLogs(ctx, LogFilter{Limit: 100})
	if err != nil {
		t.Fatalf("SearchLogs: %v", err)
	}
	if len(entries) != 1 || entries[0].Message != "new" {
		t.Errorf("surviving entries = %+v, want just the new one", entries)
	}

	rows, err := store.GetRange(ctx, 1, "2000-01-01")
	if err != nil {
		t.Fatalf("GetRange: %v", err)
	}
	if len(rows) != 1 || rows[0].Date != "2026-08-06" {
		t.Errorf("surviving statistic rows = %+v, want just 2026-08-06", rows)
	}
}

func TestRetentionCleaner_StopIsIdempotent(t *testing.T) {
	store := newTestStore(t)

	rc := NewRetentionCleaner(store, RetentionConfig{RetentionDays: 7})
	if rc == nil {
		t.Fatal("cleaner is nil")
	}
	rc.Stop()
	rc.Stop()
}
