package duckdb

import (
	"context"
	"database/sql"
	"log"
	"strings"
)

const logColumns = `id, server_id, timestamp, level, source, message, metadata, tags, created_at`

// InsertLog durably stores one log entry and fills in its assigned id.
// The write is synchronous: callers may increment statistics only after this
// returns nil, which keeps the daily totals a true count of stored entries.
func (s *Store) InsertLog(ctx context.Context, entry *LogEntry) error {
	ctx, cancel := s.queryCtx(ctx)
	defer cancel()

	s.mu.Lock()
	defer s.mu.Unlock()

	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO logs (server_id, timestamp, level, source, message, metadata, tags)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		entry.ServerID, entry.Timestamp, entry.Level, entry.Source, entry.Message,
		nullIfEmpty(entry.Metadata), nullIfEmpty(entry.Tags),
	).Scan(&id)
	if err != nil {
		return err
	}
	entry.ID = id
	return nil
}

// SearchLogs runs an AND-combined filtered query over stored entries.
// Results are ordered by (timestamp, id) ascending; the id tiebreak keeps
// page boundaries stable when many entries share a timestamp.
func (s *Store) SearchLogs(ctx context.Context, filter LogFilter) ([]LogEntry, error) {
	release, err := s.acquireRead(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryCtx(ctx)
	defer cancel()

	var conditions []string
	var args []interface{}

	if filter.ServerID != 0 {
		conditions = append(conditions, "server_id = ?")
		args = append(args, filter.ServerID)
	}
	if filter.Level != "" {
		conditions = append(conditions, "level = ?")
		args = append(args, filter.Level)
	}
	if filter.Source != "" {
		conditions = append(conditions, "source = ?")
		args = append(args, filter.Source)
	}
	if filter.StartTime != 0 {
		conditions = append(conditions, "timestamp >= ?")
		args = append(args, filter.StartTime)
	}
	if filter.EndTime != 0 {
		conditions = append(conditions, "timestamp <= ?")
		args = append(args, filter.EndTime)
	}
	if filter.SearchText != "" {
		conditions = append(conditions, "contains(message, ?)")
		args = append(args, filter.SearchText)
	}

	query := `SELECT ` + logColumns + ` FROM logs`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY timestamp ASC, id ASC LIMIT ? OFFSET ?"
	args = append(args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []LogEntry
	for rows.Next() {
		var e LogEntry
		var metadata, tags sql.NullString
		if err := rows.Scan(&e.ID, &e.ServerID, &e.Timestamp, &e.Level, &e.Source,
			&e.Message, &metadata, &tags, &e.CreatedAt); err != nil {
			log.Printf("duckdb scan error (SearchLogs): %v", err)
			continue
		}
		e.Metadata = metadata.String
		e.Tags = tags.String
		results = append(results, e)
	}
	return results, rows.Err()
}

// TotalLogCount returns the number of stored entries.
func (s *Store) TotalLogCount(ctx context.Context) (int64, error) {
	release, err := s.acquireRead(ctx)
	if err != nil {
		return 0, err
	}
	defer release()

	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryCtx(ctx)
	defer cancel()

	var count int64
	err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM logs`).Scan(&count)
	return count, err
}

func nullIfEmpty(v string) interface{} {
	if v == "" {
		return nil
	}
	return v
}
