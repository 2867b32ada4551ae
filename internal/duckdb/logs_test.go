package duckdb

import (
	"context"
	"testing"

	"github.com/loghaven/loghaven/internal/logparse"
)

func TestInsertLog_AssignsID(t *testing.T) {
	store := newTestStore(t)

	entry := &LogEntry{
		ServerID:  1,
		Timestamp: 1700000000000,
		Level:     logparse.LevelInfo,
		Source:    "syslog",
		Message:   "service started",
	}
	if err := store.InsertLog(context.Background(), entry); err != nil {
		t.Fatalf("InsertLog: %v", err)
	}
	if entry.ID <= 0 {
		t.Errorf("entry.ID = %d, want > 0", entry.ID)
	}

	count, err := store.TotalLogCount(context.Background())
	if err != nil {
		t.Fatalf("TotalLogCount: %v", err)
	}
	if count != 1 {
		t.Errorf("TotalLogCount = %d, want 1", count)
	}
}

func TestSearchLogs_Filters(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	insertTestEntries(t, store, []*LogEntry{
		{ServerID: 1, Timestamp: 1000, Level: "info", Source: "syslog", Message: "boot complete"},
		{ServerID: 1, Timestamp: 2000, Level: "error", Source: "app", Message: "connection refused"},
		{ServerID: 2, Timestamp: 3000, Level: "error", Source: "app", Message: "disk full"},
		{ServerID: 1, Timestamp: 4000, Level: "warning", Source: "syslog", Message: "high memory"},
	})

	tests := []struct {
		name   string
		filter LogFilter
		want   []string
	}{
		{
			name:   "by server",
			filter: LogFilter{ServerID: 2, Limit: 100},
			want:   []string{"disk full"},
		},
		{
			name:   "by level",
			filter: LogFilter{Level: "error", Limit: 100},
			want:   []string{"connection refused", "disk full"},
		},
		{
			name:   "by source",
			filter: LogFilter{Source: "syslog", Limit: 100},
			want:   []string{"boot complete", "high memory"},
		},
		{
			name:   "time range inclusive on both ends",
			filter: LogFilter{StartTime: 2000, EndTime: 3000, Limit: 100},
			want:   []string{"connection refused", "disk full"},
		},
		{
			name:   "message substring",
			filter: LogFilter{SearchText: "disk", Limit: 100},
			want:   []string{"disk full"},
		},
		{
			name:   "conditions combine with AND",
			filter: LogFilter{ServerID: 1, Level: "error", Limit: 100},
			want:   []string{"connection refused"},
		},
		{
			name:   "empty filter returns everything",
			filter: LogFilter{Limit: 100},
			want:   []string{"boot complete", "connection refused", "disk full", "high memory"},
		},
		{
			name:   "no match yields empty",
			filter: LogFilter{SearchText: "no such text", Limit: 100},
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.SearchLogs(ctx, tt.filter)
			if err != nil {
				t.Fatalf("SearchLogs: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("SearchLogs returned %d entries, want %d", len(got), len(tt.want))
			}
			for i, msg := range tt.want {
				if got[i].Message != msg {
					t.Errorf("entry[%d].Message = %q, want %q", i, got[i].Message, msg)
				}
			}
		})
	}
}

func TestSearchLogs_CaseSensitiveText(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	insertTestEntries(t, store, []*LogEntry{
		{ServerID: 1, Timestamp: 1000, Level: "info", Source: "app", Message: "Database ready"},
	})

	got, err := store.SearchLogs(ctx, LogFilter{SearchText: "database", Limit: 100})
	if err != nil {
		t.Fatalf("SearchLogs: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("lowercase query matched %d entries, substring match is case sensitive", len(got))
	}
}

func TestSearchLogs_PaginationIsStable(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// All four entries share one timestamp; the id tiebreak must keep pages
	// disjoint and contiguous.
	insertTestEntries(t, store, []*LogEntry{
		{ServerID: 1, Timestamp: 5000, Level: "info", Source: "app", Message: "m1"},
		{ServerID: 1, Timestamp: 5000, Level: "info", Source: "app", Message: "m2"},
		{ServerID: 1, Timestamp: 5000, Level: "info", Source: "app", Message: "m3"},
		{ServerID: 1, Timestamp: 5000, Level: "info", Source: "app", Message: "m4"},
	})

	first, err := store.SearchLogs(ctx, LogFilter{Limit: 2, Offset: 0})
	if err != nil {
		t.Fatalf("SearchLogs page 1: %v", err)
	}
	second, err := store.SearchLogs(ctx, LogFilter{Limit: 2, Offset: 2})
	if err != nil {
		t.Fatalf("SearchLogs page 2: %v", err)
	}

	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("page sizes = %d, %d, want 2, 2", len(first), len(second))
	}

	seen := map[int64]bool{}
	var ids []int64
	for _, e := range append(first, second...) {
		if seen[e.ID] {
			t.Fatalf("entry id %d appears on both pages", e.ID)
		}
		seen[e.ID] = true
		ids = append(ids, e.ID)
	}
	for i := 1; i < len(ids); i++ {
		if ids[i] <= ids[i-1] {
			t.Fatalf("ids not strictly ascending across pages: %v", ids)
		}
	}
}

func TestSearchLogs_MetadataRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	insertTestEntries(t, store, []*LogEntry{
		{ServerID: 1, Timestamp: 1000, Level: "info", Source: "app",
			Message: "with payload", Metadata: `{"pid":42}`, Tags: "prod,eu"},
		{ServerID: 1, Timestamp: 2000, Level: "info", Source: "app", Message: "bare"},
	})

	got, err := store.SearchLogs(ctx, LogFilter{Limit: 100})
	if err != nil {
		t.Fatalf("SearchLogs: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("SearchLogs = %d entries, want 2", len(got))
	}
	if got[0].Metadata != `{"pid":42}` || got[0].Tags != "prod,eu" {
		t.Errorf("payload entry = %+v, metadata/tags did not round-trip", got[0])
	}
	if got[1].Metadata != "" || got[1].Tags != "" {
		t.Errorf("bare entry = %+v, want empty metadata/tags", got[1])
	}
}
