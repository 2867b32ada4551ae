package gateway

import (
	"errors"
	"fmt"
)

// Terminal submission failures. The caller must change its request (or its
// configuration) before retrying.
var (
	// ErrInvalidCredential means the supplied API key is unknown or inactive.
	ErrInvalidCredential = errors.New("invalid or inactive API key")

	// ErrMissingIdentity means neither an API key nor a server id resolved
	// to a server.
	ErrMissingIdentity = errors.New("serverId or valid apiKey is required")
)

// OriginError reports a submission from an IP outside the server's
// allow-list. Terminal: an operator must fix the server config or the
// sender's network.
type OriginError struct {
	ServerID int64
	IP       string
}

func (e *OriginError) Error() string {
	return fmt.Sprintf("ip %s is not allowed for server %d", e.IP, e.ServerID)
}

// PersistenceError wraps a store failure. Retryable by the caller; the
// wrapped error stays available for logs but is not shown to untrusted
// submitters.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
