package gateway

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/loghaven/loghaven/internal/logparse"
	"github.com/loghaven/loghaven/internal/model"
)

// Gateway admits or rejects log submissions. It authenticates the sender,
// normalizes the entry, persists it, and maintains the derived daily
// counters. Statistics are a best-effort view: the entry itself is the
// source of truth, so a counter failure never fails an admitted submission.
type Gateway struct {
	creds   model.CredentialStore
	logs    model.LogStore
	stats   model.StatisticStore
	sources model.SourceTracker // optional

	now func() time.Time
}

// New creates a gateway over the given stores. sources may be nil when
// per-source ingestion tracking is not wanted.
func New(creds model.CredentialStore, logs model.LogStore, stats model.StatisticStore, sources model.SourceTracker) *Gateway {
	return &Gateway{
		creds:   creds,
		logs:    logs,
		stats:   stats,
		sources: sources,
		now:     time.Now,
	}
}

// Ingest admits one submission.
//
// Identity resolves in order: an API key, when present, binds the submission
// to the key's server (an unknown or inactive key is ErrInvalidCredential);
// otherwise the submission must name a server id. The origin IP is then
// checked against the server's allow-list. Only after the entry is durably
// stored are the daily counters incremented; a counter failure is logged and
// swallowed.
func (g *Gateway) Ingest(ctx context.Context, sub model.Submission) error {
	serverID := sub.ServerID

	if sub.APIKey != "" {
		key, err := g.creds.ResolveServerForKey(ctx, sub.APIKey)
		if errors.Is(err, model.ErrNotFound) {
			return ErrInvalidCredential
		}
		if err != nil {
			return &PersistenceError{Op: "resolve api key", Err: err}
		}
		if !key.Active {
			return ErrInvalidCredential
		}
		serverID = key.ServerID

		if err := g.creds.TouchKey(ctx, key.ID); err != nil {
			log.Printf("gateway: touch api key %d: %v", key.ID, err)
		}
	}

	if serverID == 0 {
		return ErrMissingIdentity
	}

	allowed, err := g.creds.IsOriginAllowed(ctx, serverID, sub.ClientIP)
	if err != nil {
		return &PersistenceError{Op: "validate origin", Err: err}
	}
	if !allowed {
		return &OriginError{ServerID: serverID, IP: sub.ClientIP}
	}

	entry := g.normalize(serverID, sub)
	if err := g.logs.InsertLog(ctx, entry); err != nil {
		return &PersistenceError{Op: "store log entry", Err: err}
	}

	date := time.UnixMilli(entry.Timestamp).UTC().Format(model.StatDateLayout)
	if err := g.stats.IncrementCounters(ctx, serverID, date, entry.Level); err != nil {
		log.Printf("gateway: statistics update failed (server=%d date=%s): %v", serverID, date, err)
	}

	if g.sources != nil {
		if err := g.sources.TouchSource(ctx, serverID, entry.Source); err != nil {
			log.Printf("gateway: touch log source (server=%d source=%s): %v", serverID, entry.Source, err)
		}
	}

	return nil
}

// normalize applies the documented submission defaults: receipt time for a
// missing timestamp, info level, "unknown" source, empty message.
func (g *Gateway) normalize(serverID int64, sub model.Submission) *model.LogEntry {
	ts := sub.Timestamp
	if ts == 0 {
		ts = g.now().UTC().UnixMilli()
	}

	level := model.DefaultLevel
	if sub.Level != "" {
		level = logparse.NormalizeLevel(sub.Level)
	}

	source := sub.Source
	if source == "" {
		source = model.DefaultSource
	}

	return &model.LogEntry{
		ServerID:  serverID,
		Timestamp: ts,
		Level:     level,
		Source:    source,
		Message:   sub.Message,
		Metadata:  sub.Metadata,
		Tags:      sub.Tags,
	}
}
