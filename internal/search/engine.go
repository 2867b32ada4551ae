// Package search translates caller filter specifications into log store
// queries with bounded, deterministic pagination.
package search

import (
	"context"

	"github.com/loghaven/loghaven/internal/logparse"
	"github.com/loghaven/loghaven/internal/model"
)

// Engine answers filtered historical queries over stored log entries.
type Engine struct {
	store model.LogStore
}

// NewEngine creates a search engine over the given log store.
func NewEngine(store model.LogStore) *Engine {
	return &Engine{store: store}
}

// Search runs one filtered, paginated query. The filter is normalized first:
// the limit defaults to 100 and is capped at 1000, negative offsets become 0,
// and a supplied level is folded onto the stored enum. An entirely empty
// filter is legal and returns the oldest page of everything.
func (e *Engine) Search(ctx context.Context, filter model.LogFilter) ([]model.LogEntry, error) {
	return e.store.SearchLogs(ctx, Normalize(filter))
}

// Normalize applies the documented filter defaults and bounds.
func Normalize(filter model.LogFilter) model.LogFilter {
	if filter.Limit <= 0 {
		filter.Limit = model.DefaultSearchLimit
	}
	if filter.Limit > model.MaxSearchLimit {
		filter.Limit = model.MaxSearchLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	if filter.Level != "" {
		filter.Level = logparse.NormalizeLevel(filter.Level)
	}
	return filter
}
