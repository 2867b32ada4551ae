package duckdb

import (
	"context"
	"log"
	"time"
)

const logSourceColumns = `id, server_id, source_type, source_config, is_enabled, last_ingested_at, created_at`

// CreateLogSource registers a configured input for a server.
func (s *Store) CreateLogSource(ctx context.Context, src *LogSource) (int64, error) {
	ctx, cancel := s.queryCtx(ctx)
	defer cancel()

	s.mu.Lock()
	defer s.mu.Unlock()

	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO log_sources (server_id, source_type, source_config, is_enabled)
		VALUES (?, ?, ?, ?)
		RETURNING id`,
		src.ServerID, src.SourceType, src.SourceConfig, src.Enabled,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	src.ID = id
	return id, nil
}

// ListLogSourcesByServer returns the configured inputs for one server.
func (s *Store) ListLogSourcesByServer(ctx context.Context, serverID int64) ([]LogSource, error) {
	release, err := s.acquireRead(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryCtx(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+logSourceColumns+` FROM log_sources WHERE server_id = ? ORDER BY id ASC`, serverID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []LogSource
	for rows.Next() {
		var src LogSource
		if err := rows.Scan(&src.ID, &src.ServerID, &src.SourceType, &src.SourceConfig,
			&src.Enabled, &src.LastIngestedAt, &src.CreatedAt); err != nil {
			log.Printf("duckdb scan error (ListLogSourcesByServer): %v", err)
			continue
		}
		results = append(results, src)
	}
	return results, rows.Err()
}

// TouchSource stamps last_ingested_at on a server's enabled sources of the
// given type. A no-op when the server has no matching configured source.
func (s *Store) TouchSource(ctx context.Context, serverID int64, sourceType string) error {
	ctx, cancel := s.queryCtx(ctx)
	defer cancel()

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		UPDATE log_sources
		SET last_ingested_at = ?
		WHERE server_id = ? AND source_type = ? AND is_enabled`,
		time.Now().Unix(), serverID, sourceType)
	return err
}
