package logparse

import "strings"

// Stored severity levels, ascending.
const (
	LevelDebug    = "debug"
	LevelInfo     = "info"
	LevelWarning  = "warning"
	LevelError    = "error"
	LevelCritical = "critical"
)

var levelOrdinals = map[string]int{
	LevelDebug:    0,
	LevelInfo:     1,
	LevelWarning:  2,
	LevelError:    3,
	LevelCritical: 4,
}

// ValidLevel reports whether level is one of the five stored levels.
func ValidLevel(level string) bool {
	_, ok := levelOrdinals[level]
	return ok
}

// LevelNum returns the ordinal of a stored level (debug=0 .. critical=4).
// Unknown levels rank as info.
func LevelNum(level string) int {
	if n, ok := levelOrdinals[level]; ok {
		return n
	}
	return levelOrdinals[LevelInfo]
}

// NormalizeLevel maps free-form severity spellings onto the five stored
// levels. Submitters use whatever their platform emits; everything lands on
// the canonical enum, defaulting to info.
func NormalizeLevel(level string) string {
	normalized := strings.ToLower(strings.TrimSpace(level))

	switch normalized {
	case "debug", "dbg", "deb", "trace", "trc", "verbose":
		return LevelDebug
	case "info", "information", "inf", "notice":
		return LevelInfo
	case "warning", "warn", "wrn":
		return LevelWarning
	case "error", "err", "erro":
		return LevelError
	case "critical", "crit", "crt", "fatal", "ftl", "panic", "emergency", "alert":
		return LevelCritical
	default:
		if len(normalized) >= 4 {
			switch normalized[:4] {
			case "debu", "trac":
				return LevelDebug
			case "info":
				return LevelInfo
			case "warn":
				return LevelWarning
			case "erro":
				return LevelError
			case "crit", "fata":
				return LevelCritical
			}
		}
		return LevelInfo
	}
}
