package constants

import "time"

const (
	ExternalAPITimeout = 10 * time.Second
	SheetsTimeout      = 30 * time.Second
	DatabaseTimeout    = 5 * time.Second
	PipelineTimeout    = 30 * time.Minute
)

const (
	// StandingsPageSize is the number of ranked rows requested per page.
	StandingsPageSize = 200

	DefaultMaxPages        = 100
	DefaultGlobalThreshold = 8
)

const (
	// RosterHeaderRows is the number of leading sheet rows that hold headers,
	// not participants.
	RosterHeaderRows = 3

	// RosterHandleColumn is the zero-based column holding the handle.
	RosterHandleColumn = 2

	// RosterReadRange covers every column the reconciler inspects.
	RosterReadRange = "A:D"
)

const (
	DBMaxOpenConns    = 100
	DBMaxIdleConns    = 10
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
	DBBatchSize       = 100
)

const (
	ShutdownTimeout = 5 * time.Second
)
