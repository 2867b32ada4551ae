package search

import (
	"context"
	"testing"

	"github.com/loghaven/loghaven/internal/model"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   model.LogFilter
		want model.LogFilter
	}{
		{
			name: "zero limit gets default",
			in:   model.LogFilter{},
			want: model.LogFilter{Limit: 100},
		},
		{
			name: "negative limit gets default",
			in:   model.LogFilter{Limit: -5},
			want: model.LogFilter{Limit: 100},
		},
		{
			name: "oversized limit is capped",
			in:   model.LogFilter{Limit: 5000},
			want: model.LogFilter{Limit: 1000},
		},
		{
			name: "limit at cap passes through",
			in:   model.LogFilter{Limit: 1000},
			want: model.LogFilter{Limit: 1000},
		},
		{
			name: "negative offset becomes zero",
			in:   model.LogFilter{Limit: 10, Offset: -3},
			want: model.LogFilter{Limit: 10, Offset: 0},
		},
		{
			name: "level folds onto the stored enum",
			in:   model.LogFilter{Limit: 10, Level: "WARN"},
			want: model.LogFilter{Limit: 10, Level: "warning"},
		},
		{
			name: "empty level stays unconstrained",
			in:   model.LogFilter{Limit: 10},
			want: model.LogFilter{Limit: 10},
		},
		{
			name: "other predicates pass through",
			in:   model.LogFilter{ServerID: 4, Source: "app", StartTime: 1, EndTime: 2, SearchText: "x", Limit: 10},
			want: model.LogFilter{ServerID: 4, Source: "app", StartTime: 1, EndTime: 2, SearchText: "x", Limit: 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%+v) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

type captureStore struct {
	got model.LogFilter
}

func (c *captureStore) InsertLog(_ context.Context, _ *model.LogEntry) error { return nil }

func (c *captureStore) SearchLogs(_ context.Context, filter model.LogFilter) ([]model.LogEntry, error) {
	c.got = filter
	return []model.LogEntry{}, nil
}

func TestSearch_NormalizesBeforeQuerying(t *testing.T) {
	store := &captureStore{}
	engine := NewEngine(store)

	_, err := engine.Search(context.Background(), model.LogFilter{Level: "ERR", Limit: 9999, Offset: -1})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if store.got.Level != "error" || store.got.Limit != 1000 || store.got.Offset != 0 {
		t.Errorf("store saw filter %+v, want normalized level/limit/offset", store.got)
	}
}
