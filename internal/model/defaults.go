package model

// Shared defaults used across the gateway, search, and transport surfaces.
const (
	DefaultLevel  = "info"
	DefaultSource = "unknown"

	DefaultSearchLimit = 100
	MaxSearchLimit     = 1000

	DefaultRollupDays = 7

	// StatDateLayout is the UTC calendar-date key of DailyStatistic rows.
	StatDateLayout = "2006-01-02"
)
