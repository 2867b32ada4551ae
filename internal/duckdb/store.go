package duckdb

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/loghaven/loghaven/internal/duckdb/migrate"
	_ "github.com/marcboeker/go-duckdb"
	"golang.org/x/sync/semaphore"
)

// Store manages the DuckDB database connection. It backs all persisted
// collections: servers, api_keys, logs, log_sources and log_statistics.
type Store struct {
	db     *sql.DB
	mu     sync.RWMutex
	dbPath string

	// QueryTimeout bounds every statement issued through the store.
	QueryTimeout time.Duration

	// PermissiveOrigin controls the fail-open origin policy for unknown
	// server ids (see IsOriginAllowed).
	PermissiveOrigin bool

	readSem *semaphore.Weighted
}

// NewStore opens or creates a DuckDB database and applies pending migrations.
// An empty dbPath opens an in-memory database. An optional queryTimeout can
// be passed; it defaults to 30s.
func NewStore(dbPath string, queryTimeout ...time.Duration) (*Store, error) {
	dsn := ""
	if dbPath != "" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, err
		}
		dsn = dbPath
	}

	db, err := sql.Open("duckdb", dsn)
	if err != nil {
		return nil, err
	}

	if err := migrate.NewRunner(db).Run(); err != nil {
		db.Close()
		return nil, err
	}

	qt := 30 * time.Second
	if len(queryTimeout) > 0 && queryTimeout[0] > 0 {
		qt = queryTimeout[0]
	}

	return &Store{
		db:               db,
		dbPath:           dbPath,
		QueryTimeout:     qt,
		PermissiveOrigin: true,
	}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// SetMaxConcurrentReads bounds the number of read queries in flight. A read
// that cannot acquire a slot within its deadline fails with a retryable
// error instead of queueing without bound. n <= 0 removes the bound.
func (s *Store) SetMaxConcurrentReads(n int) {
	if n <= 0 {
		s.readSem = nil
		return
	}
	s.readSem = semaphore.NewWeighted(int64(n))
}

// queryCtx returns a context bounded by the store's query timeout.
func (s *Store) queryCtx(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, s.QueryTimeout)
}

// acquireRead claims a read slot when a bound is configured. The returned
// release func is a no-op when unbounded.
func (s *Store) acquireRead(ctx context.Context) (func(), error) {
	sem := s.readSem
	if sem == nil {
		return func() {}, nil
	}
	if err := sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("store busy, retry later: %w", err)
	}
	return func() { sem.Release(1) }, nil
}
