package model

import "time"

// Server classes. Free-form classes are rejected at the boundary.
const (
	ServerClassLinux   = "linux"
	ServerClassWindows = "windows"
	ServerClassNetwork = "network-device"
	ServerClassOther   = "other"
)

// ValidServerClass reports whether class is one of the known server classes.
func ValidServerClass(class string) bool {
	switch class {
	case ServerClassLinux, ServerClassWindows, ServerClassNetwork, ServerClassOther:
		return true
	}
	return false
}

// Server is a registered log producer. Servers are never hard-deleted;
// deactivation flips Active.
type Server struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Hostname      string    `json:"hostname"`
	IPAddress     string    `json:"ipAddress"` // allow-listed origin; empty = any origin
	Class         string    `json:"serverType"`
	Description   string    `json:"description"`
	Location      string    `json:"location"`
	Active        bool      `json:"isActive"`
	LastHeartbeat time.Time `json:"lastHeartbeat"` // zero = never
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// APIKey is an ingestion credential bound to exactly one server.
// Multiple keys may coexist per server for rotation.
type APIKey struct {
	ID         int64     `json:"id"`
	ServerID   int64     `json:"serverId"`
	Key        string    `json:"key"`
	Name       string    `json:"name"`
	Active     bool      `json:"isActive"`
	LastUsedAt time.Time `json:"lastUsedAt"` // zero = never used
	CreatedAt  time.Time `json:"createdAt"`
}

// LogEntry is one stored log line. Entries are immutable once written;
// statistics derive from them but never rewrite them.
type LogEntry struct {
	ID        int64     `json:"id"`
	ServerID  int64     `json:"serverId"`
	Timestamp int64     `json:"timestamp"` // epoch milliseconds, UTC
	Level     string    `json:"level"`     // debug/info/warning/error/critical
	Source    string    `json:"source"`
	Message   string    `json:"message"`
	Metadata  string    `json:"metadata"` // opaque serialized payload, stored as-is
	Tags      string    `json:"tags"`     // delimited tag list, stored as-is
	CreatedAt time.Time `json:"createdAt"`
}

// DailyStatistic holds the counters for one (server, UTC calendar date) pair.
// Total always equals the sum of the per-level counts.
type DailyStatistic struct {
	ServerID int64  `json:"serverId"`
	Date     string `json:"date"` // YYYY-MM-DD, UTC
	Total    int64  `json:"totalLogs"`
	Debug    int64  `json:"debugCount"`
	Info     int64  `json:"infoCount"`
	Warning  int64  `json:"warningCount"`
	Error    int64  `json:"errorCount"`
	Critical int64  `json:"criticalCount"`
}

// LogSource describes a configured input for a server (e.g. syslog, eventlog, api).
type LogSource struct {
	ID             int64     `json:"id"`
	ServerID       int64     `json:"serverId"`
	SourceType     string    `json:"sourceType"`
	SourceConfig   string    `json:"sourceConfig"`
	Enabled        bool      `json:"isEnabled"`
	LastIngestedAt int64     `json:"lastIngestedAt"` // epoch seconds, 0 = never
	CreatedAt      time.Time `json:"createdAt"`
}

// LogFilter holds optional search predicates. All supplied predicates are
// combined with AND; a zero field means no constraint on that dimension.
type LogFilter struct {
	ServerID   int64
	Level      string
	Source     string
	StartTime  int64 // inclusive, epoch milliseconds
	EndTime    int64 // inclusive, epoch milliseconds
	SearchText string
	Limit      int
	Offset     int
}
