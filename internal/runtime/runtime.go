package runtime

import (
	"context"
	"time"

	"github.com/textrux/spatial/config"
	"golang.org/x/sync/semaphore"
)

// Limits captures the concurrency and grid guardrails configured for the server.
type Limits struct {
	// Concurrency caps
	MaxConcurrentParses int
	MaxOpenGrids        int
	MaxParseWorkers     int

	// Payload and cell bounds
	MaxPayloadBytes  int
	MaxCellsPerParse int
	PreviewRowLimit  int

	// Timeouts
	ParseTimeout          time.Duration
	AcquireRequestTimeout time.Duration
}

// NewLimits initializes Limits with sensible fallbacks when values are unset.
func NewLimits(maxConcurrentParses, maxOpenGrids int) Limits {
	if maxConcurrentParses <= 0 {
		maxConcurrentParses = config.DefaultMaxConcurrentParses
	}
	if maxOpenGrids <= 0 {
		maxOpenGrids = config.DefaultMaxOpenGrids
	}

	return Limits{
		MaxConcurrentParses:   maxConcurrentParses,
		MaxOpenGrids:          maxOpenGrids,
		MaxParseWorkers:       config.DefaultMaxParseWorkers,
		MaxPayloadBytes:       config.DefaultMaxPayloadBytes,
		MaxCellsPerParse:      config.DefaultMaxCellsPerParse,
		PreviewRowLimit:       config.DefaultPreviewRowLimit,
		ParseTimeout:          config.DefaultParseTimeout,
		AcquireRequestTimeout: config.DefaultAcquireRequestTimeout,
	}
}

// Controller coordinates runtime semaphores for request and grid guardrails.
type Controller struct {
	limits           Limits
	requestSemaphore *semaphore.Weighted
	gridSemaphore    *semaphore.Weighted
}

// NewController constructs a Controller backed by weighted semaphores.
func NewController(limits Limits) *Controller {
	return &Controller{
		limits:           limits,
		requestSemaphore: semaphore.NewWeighted(int64(limits.MaxConcurrentParses)),
		gridSemaphore:    semaphore.NewWeighted(int64(limits.MaxOpenGrids)),
	}
}

// AcquireRequest reserves capacity for an incoming parse request.
func (c *Controller) AcquireRequest(ctx context.Context) error {
	return c.requestSemaphore.Acquire(ctx, 1)
}

// ReleaseRequest frees previously-acquired request capacity.
func (c *Controller) ReleaseRequest() {
	c.requestSemaphore.Release(1)
}

// AcquireGrid reserves an open grid-handle slot.
func (c *Controller) AcquireGrid(ctx context.Context) error {
	return c.gridSemaphore.Acquire(ctx, 1)
}

// ReleaseGrid frees an open grid-handle slot.
func (c *Controller) ReleaseGrid() {
	c.gridSemaphore.Release(1)
}

// LimitsSnapshot exposes the configured guardrails for telemetry and discovery.
func (c *Controller) LimitsSnapshot() Limits {
	return c.limits
}
