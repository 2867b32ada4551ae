package model

import (
	"context"
	"errors"
)

// ErrNotFound is returned by stores when a looked-up record does not exist.
var ErrNotFound = errors.New("record not found")

// CredentialStore resolves ingestion credentials and origin policy.
type CredentialStore interface {
	// ResolveServerForKey returns the key record matching key exactly,
	// or ErrNotFound. Callers decide what an inactive key means.
	ResolveServerForKey(ctx context.Context, key string) (*APIKey, error)
	// IsOriginAllowed reports whether clientIP may submit for serverID.
	// A server without a configured IP accepts any origin.
	IsOriginAllowed(ctx context.Context, serverID int64, clientIP string) (bool, error)
	// TouchKey records key usage. Best-effort; callers ignore failures.
	TouchKey(ctx context.Context, keyID int64) error
}

// LogStore provides append-only persistence of log entries.
type LogStore interface {
	InsertLog(ctx context.Context, entry *LogEntry) error
	SearchLogs(ctx context.Context, filter LogFilter) ([]LogEntry, error)
}

// StatisticStore maintains per (server, date) counters.
type StatisticStore interface {
	// IncrementCounters bumps total and the level counter for one key in a
	// single atomic operation with respect to concurrent callers.
	IncrementCounters(ctx context.Context, serverID int64, date, level string) error
	// GetOrCreate returns the row for (serverID, date), creating an all-zero
	// row first if absent. Creation is safe under concurrent callers.
	GetOrCreate(ctx context.Context, serverID int64, date string) (*DailyStatistic, error)
	// GetRange returns rows with date >= sinceDate, ascending by date.
	GetRange(ctx context.Context, serverID int64, sinceDate string) ([]DailyStatistic, error)
}

// SourceTracker stamps last-ingested times on configured log sources.
// A derived view: failures are logged, never surfaced to submitters.
type SourceTracker interface {
	TouchSource(ctx context.Context, serverID int64, sourceType string) error
}
