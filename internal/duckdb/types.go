package duckdb

import "github.com/loghaven/loghaven/internal/model"

// Type aliases re-export model types so Store method signatures stay
// readable at call sites without importing both packages.
type Server = model.Server
type APIKey = model.APIKey
type LogEntry = model.LogEntry
type DailyStatistic = model.DailyStatistic
type LogSource = model.LogSource
type LogFilter = model.LogFilter
