package duckdb

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/loghaven/loghaven/internal/model"
)

const serverColumns = `id, name, hostname, ip_address, class, description, location,
	is_active, last_heartbeat, created_at, updated_at`

// CreateServer inserts a new server record and returns its assigned id.
func (s *Store) CreateServer(ctx context.Context, srv *Server) (int64, error) {
	ctx, cancel := s.queryCtx(ctx)
	defer cancel()

	s.mu.Lock()
	defer s.mu.Unlock()

	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO servers (name, hostname, ip_address, class, description, location, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		srv.Name, srv.Hostname, srv.IPAddress, srv.Class, srv.Description, srv.Location, srv.Active,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	srv.ID = id
	return id, nil
}

// GetServer returns one server by id, or model.ErrNotFound.
func (s *Store) GetServer(ctx context.Context, id int64) (*Server, error) {
	release, err := s.acquireRead(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryCtx(ctx)
	defer cancel()

	row := s.db.QueryRowContext(ctx, `SELECT `+serverColumns+` FROM servers WHERE id = ?`, id)
	return scanServer(row)
}

// ListServers returns all servers, oldest first.
func (s *Store) ListServers(ctx context.Context) ([]Server, error) {
	release, err := s.acquireRead(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryCtx(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `SELECT `+serverColumns+` FROM servers ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []Server
	for rows.Next() {
		srv, err := scanServerRow(rows)
		if err != nil {
			log.Printf("duckdb scan error (ListServers): %v", err)
			continue
		}
		results = append(results, *srv)
	}
	return results, rows.Err()
}

// UpdateServer rewrites the editable fields of a server record.
func (s *Store) UpdateServer(ctx context.Context, srv *Server) error {
	ctx, cancel := s.queryCtx(ctx)
	defer cancel()

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE servers
		SET name = ?, hostname = ?, ip_address = ?, class = ?, description = ?,
			location = ?, updated_at = current_timestamp
		WHERE id = ?`,
		srv.Name, srv.Hostname, srv.IPAddress, srv.Class, srv.Description, srv.Location, srv.ID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// SetServerActive flips the soft-deactivation flag. Servers are never
// hard-deleted; historical entries keep referencing them.
func (s *Store) SetServerActive(ctx context.Context, id int64, active bool) error {
	ctx, cancel := s.queryCtx(ctx)
	defer cancel()

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`UPDATE servers SET is_active = ?, updated_at = current_timestamp WHERE id = ?`,
		active, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// TouchHeartbeat records that a server checked in.
func (s *Store) TouchHeartbeat(ctx context.Context, id int64) error {
	ctx, cancel := s.queryCtx(ctx)
	defer cancel()

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`UPDATE servers SET last_heartbeat = current_timestamp, updated_at = current_timestamp WHERE id = ?`,
		id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// IsOriginAllowed reports whether clientIP may submit logs for serverID.
// A server without a configured IP accepts any origin. Comparison is exact
// string equality: no CIDR matching, no IPv6 normalization, and an empty
// client IP fails against any configured allow-list.
//
// When the server id is unknown the answer depends on PermissiveOrigin:
// permissive mode accepts (so ephemeral servers can send before registration
// completes), strict mode rejects.
func (s *Store) IsOriginAllowed(ctx context.Context, serverID int64, clientIP string) (bool, error) {
	release, err := s.acquireRead(ctx)
	if err != nil {
		return false, err
	}
	defer release()

	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryCtx(ctx)
	defer cancel()

	var ipAddress string
	err = s.db.QueryRowContext(ctx, `SELECT ip_address FROM servers WHERE id = ?`, serverID).Scan(&ipAddress)
	if errors.Is(err, sql.ErrNoRows) {
		return s.PermissiveOrigin, nil
	}
	if err != nil {
		return false, err
	}
	if ipAddress == "" {
		return true, nil
	}
	return ipAddress == clientIP, nil
}

// requireRow converts a zero-row update into model.ErrNotFound.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrNotFound
	}
	return nil
}

func scanServer(row *sql.Row) (*Server, error) {
	var srv Server
	var heartbeat sql.NullTime
	err := row.Scan(&srv.ID, &srv.Name, &srv.Hostname, &srv.IPAddress, &srv.Class,
		&srv.Description, &srv.Location, &srv.Active, &heartbeat, &srv.CreatedAt, &srv.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if heartbeat.Valid {
		srv.LastHeartbeat = heartbeat.Time
	}
	return &srv, nil
}

func scanServerRow(rows *sql.Rows) (*Server, error) {
	var srv Server
	var heartbeat sql.NullTime
	err := rows.Scan(&srv.ID, &srv.Name, &srv.Hostname, &srv.IPAddress, &srv.Class,
		&srv.Description, &srv.Location, &srv.Active, &heartbeat, &srv.CreatedAt, &srv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if heartbeat.Valid {
		srv.LastHeartbeat = heartbeat.Time
	}
	return &srv, nil
}
