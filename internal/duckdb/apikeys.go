package duckdb

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/loghaven/loghaven/internal/model"
)

const apiKeyColumns = `id, server_id, key, name, is_active, last_used_at, created_at`

// CreateAPIKey inserts a new credential and returns its assigned id.
// The key string must be unique across all keys.
func (s *Store) CreateAPIKey(ctx context.Context, key *APIKey) (int64, error) {
	ctx, cancel := s.queryCtx(ctx)
	defer cancel()

	s.mu.Lock()
	defer s.mu.Unlock()

	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO api_keys (server_id, key, name, is_active)
		VALUES (?, ?, ?, ?)
		RETURNING id`,
		key.ServerID, key.Key, key.Name, key.Active,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	key.ID = id
	return id, nil
}

// ResolveServerForKey returns the credential record matching key exactly,
// or model.ErrNotFound. Active status is left for the caller to interpret.
func (s *Store) ResolveServerForKey(ctx context.Context, key string) (*APIKey, error) {
	release, err := s.acquireRead(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryCtx(ctx)
	defer cancel()

	row := s.db.QueryRowContext(ctx, `SELECT `+apiKeyColumns+` FROM api_keys WHERE key = ?`, key)
	return scanAPIKey(row)
}

// TouchKey records that a key was used. Best-effort: callers treat a failure
// here as non-fatal.
func (s *Store) TouchKey(ctx context.Context, keyID int64) error {
	ctx, cancel := s.queryCtx(ctx)
	defer cancel()

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`UPDATE api_keys SET last_used_at = current_timestamp WHERE id = ?`, keyID)
	return err
}

// SetAPIKeyActive enables or disables a credential (rotation, revocation).
func (s *Store) SetAPIKeyActive(ctx context.Context, keyID int64, active bool) error {
	ctx, cancel := s.queryCtx(ctx)
	defer cancel()

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`UPDATE api_keys SET is_active = ? WHERE id = ?`, active, keyID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// ListAPIKeys returns every credential, oldest first.
func (s *Store) ListAPIKeys(ctx context.Context) ([]APIKey, error) {
	return s.listKeys(ctx, `SELECT `+apiKeyColumns+` FROM api_keys ORDER BY id ASC`)
}

// ListAPIKeysByServer returns the credentials bound to one server.
func (s *Store) ListAPIKeysByServer(ctx context.Context, serverID int64) ([]APIKey, error) {
	return s.listKeys(ctx,
		`SELECT `+apiKeyColumns+` FROM api_keys WHERE server_id = ? ORDER BY id ASC`, serverID)
}

func (s *Store) listKeys(ctx context.Context, query string, args ...interface{}) ([]APIKey, error) {
	release, err := s.acquireRead(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryCtx(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []APIKey
	for rows.Next() {
		var k APIKey
		var lastUsed sql.NullTime
		if err := rows.Scan(&k.ID, &k.ServerID, &k.Key, &k.Name, &k.Active, &lastUsed, &k.CreatedAt); err != nil {
			log.Printf("duckdb scan error (listKeys): %v", err)
			continue
		}
		if lastUsed.Valid {
			k.LastUsedAt = lastUsed.Time
		}
		results = append(results, k)
	}
	return results, rows.Err()
}

func scanAPIKey(row *sql.Row) (*APIKey, error) {
	var k APIKey
	var lastUsed sql.NullTime
	err := row.Scan(&k.ID, &k.ServerID, &k.Key, &k.Name, &k.Active, &lastUsed, &k.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if lastUsed.Valid {
		k.LastUsedAt = lastUsed.Time
	}
	return &k, nil
}
