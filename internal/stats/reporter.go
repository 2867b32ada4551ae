// Package stats reads the precomputed daily counters for dashboards.
package stats

import (
	"context"
	"time"

	"github.com/loghaven/loghaven/internal/model"
)

// Reporter serves rolling-window reads of the daily statistics.
type Reporter struct {
	store model.StatisticStore
	now   func() time.Time
}

// NewReporter creates a reporter over the given statistic store.
func NewReporter(store model.StatisticStore) *Reporter {
	return &Reporter{store: store, now: time.Now}
}

// Rollup returns the counters for the last windowDays UTC calendar days
// including today, oldest first. Days with no activity have no row — this is
// a windowed read of precomputed counters, not a recomputation, and no gaps
// are filled.
func (r *Reporter) Rollup(ctx context.Context, serverID int64, windowDays int) ([]model.DailyStatistic, error) {
	if windowDays <= 0 {
		windowDays = model.DefaultRollupDays
	}
	since := r.now().UTC().AddDate(0, 0, -(windowDays - 1)).Format(model.StatDateLayout)
	return r.store.GetRange(ctx, serverID, since)
}
