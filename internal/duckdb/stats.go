package duckdb

import (
	"context"
	"fmt"
	"log"

	"github.com/loghaven/loghaven/internal/logparse"
)

// levelCounterColumns maps stored levels to their counter column. The column
// name is always taken from this map, never from caller input.
var levelCounterColumns = map[string]string{
	logparse.LevelDebug:    "debug_count",
	logparse.LevelInfo:     "info_count",
	logparse.LevelWarning:  "warning_count",
	logparse.LevelError:    "error_count",
	logparse.LevelCritical: "critical_count",
}

// IncrementCounters bumps total_logs and the level counter for one
// (serverID, date) key. The read-modify-write happens inside the database in
// a single UPDATE statement, so concurrent ingestion for the same key cannot
// lose updates; the store write lock additionally serializes it with row
// creation. That lock is store-wide, so increments for unrelated keys also
// queue behind each other; atomicity comes from the single statement, the
// lock just follows the single-writer DuckDB access pattern used everywhere
// in this package. Unknown levels count as info, mirroring ingestion
// defaults.
func (s *Store) IncrementCounters(ctx context.Context, serverID int64, date, level string) error {
	column, ok := levelCounterColumns[level]
	if !ok {
		column = levelCounterColumns[logparse.LevelInfo]
	}

	ctx, cancel := s.queryCtx(ctx)
	defer cancel()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureStatRow(ctx, serverID, date); err != nil {
		return fmt.Errorf("ensure statistic row: %w", err)
	}

	query := fmt.Sprintf(`
		UPDATE log_statistics
		SET total_logs = total_logs + 1,
			%s = %s + 1,
			updated_at = current_timestamp
		WHERE server_id = ? AND date = ?`, column, column)

	_, err := s.db.ExecContext(ctx, query, serverID, date)
	return err
}

// GetOrCreate returns the counters for (serverID, date), creating an
// all-zero row first if absent.
func (s *Store) GetOrCreate(ctx context.Context, serverID int64, date string) (*DailyStatistic, error) {
	ctx, cancel := s.queryCtx(ctx)
	defer cancel()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureStatRow(ctx, serverID, date); err != nil {
		return nil, err
	}

	var stat DailyStatistic
	err := s.db.QueryRowContext(ctx, `
		SELECT server_id, date, total_logs, debug_count, info_count, warning_count, error_count, critical_count
		FROM log_statistics
		WHERE server_id = ? AND date = ?`, serverID, date,
	).Scan(&stat.ServerID, &stat.Date, &stat.Total, &stat.Debug, &stat.Info,
		&stat.Warning, &stat.Error, &stat.Critical)
	if err != nil {
		return nil, err
	}
	return &stat, nil
}

// GetRange returns all rows for serverID with date >= sinceDate, ascending.
// Dates with no activity have no row; callers synthesize zeros if they need
// a dense series.
func (s *Store) GetRange(ctx context.Context, serverID int64, sinceDate string) ([]DailyStatistic, error) {
	release, err := s.acquireRead(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryCtx(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
		SELECT server_id, date, total_logs, debug_count, info_count, warning_count, error_count, critical_count
		FROM log_statistics
		WHERE server_id = ? AND date >= ?
		ORDER BY date ASC`, serverID, sinceDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []DailyStatistic
	for rows.Next() {
		var stat DailyStatistic
		if err := rows.Scan(&stat.ServerID, &stat.Date, &stat.Total, &stat.Debug,
			&stat.Info, &stat.Warning, &stat.Error, &stat.Critical); err != nil {
			log.Printf("duckdb scan error (GetRange): %v", err)
			continue
		}
		results = append(results, stat)
	}
	return results, rows.Err()
}

// ensureStatRow creates the all-zero row for (serverID, date) if absent.
// The UNIQUE(server_id, date) constraint makes concurrent creation safe.
func (s *Store) ensureStatRow(ctx context.Context, serverID int64, date string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO log_statistics (server_id, date)
		VALUES (?, ?)
		ON CONFLICT (server_id, date) DO NOTHING`, serverID, date)
	return err
}
