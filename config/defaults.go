package config

import "time"

// Default runtime limits and guardrails for the spatial parsing server.
// These values are conservative and can be overridden by future configuration
// mechanisms (env, CLI, or files). They are referenced by internal/runtime.

const (
	// Concurrency
	DefaultMaxConcurrentParses = 10
	DefaultMaxOpenGrids        = 4
	DefaultMaxParseWorkers     = 4

	// Payload and cell limits
	DefaultMaxPayloadBytes  = 128 * 1024 // 128KB
	DefaultMaxCellsPerParse = 50_000
	DefaultPreviewRowLimit  = 10 // First 10 rows/blocks by default
)

const (
	// Timeouts
	DefaultParseTimeout          = 30 * time.Second
	DefaultAcquireRequestTimeout = 2 * time.Second
)

const (
	// Grid handle cache (excel-backed GridStore instances).
	DefaultGridIdleTTL       = 10 * time.Minute
	DefaultGridCleanupPeriod = 1 * time.Minute
)

const (
	// Parse result cache (ParseResult kept around for list_blocks/
	// list_constructs/get_construct pagination after parse_grid returns).
	DefaultParseResultTTL     = 10 * time.Minute
	DefaultParseCleanupPeriod = 1 * time.Minute
)
