package telemetry

import (
	"time"

	"github.com/rs/zerolog"
)

// Hooks implements mcp-go server lifecycle callbacks for basic telemetry and logging.
// It is intentionally minimal; metrics backends can be added later under this package.
type Hooks struct {
	logger zerolog.Logger
}

// NewHooks constructs a Hooks instance with the provided logger.
func NewHooks(logger zerolog.Logger) *Hooks {
	return &Hooks{logger: logger}
}

// OnServerStart is called when the server begins accepting connections.
func (h *Hooks) OnServerStart() {
	h.logger.Info().Msg("MCP server starting")
}

// OnServerStop is called during server shutdown.
func (h *Hooks) OnServerStop() {
	h.logger.Info().Msg("MCP server stopping")
}

// OnSessionStart records the start of a client session.
func (h *Hooks) OnSessionStart(sessionID string) {
	h.logger.Info().Str("session_id", sessionID).Msg("session started")
}

// OnSessionEnd records the end of a client session.
func (h *Hooks) OnSessionEnd(sessionID string) {
	h.logger.Info().Str("session_id", sessionID).Msg("session ended")
}

// OnToolCall logs tool invocations and their outcomes.
func (h *Hooks) OnToolCall(sessionID, toolName string, duration time.Duration, err error) {
	evt := h.logger.Info().Str("session_id", sessionID).Str("tool", toolName).Dur("duration", duration)
	if err != nil {
		h.logger.Error().Str("session_id", sessionID).Str("tool", toolName).Dur("duration", duration).Err(err).Msg("tool call error")
		return
	}
	evt.Msg("tool call completed")
}

// OnResourceRead logs resource reads and their outcomes.
func (h *Hooks) OnResourceRead(sessionID, uri string, duration time.Duration, err error) {
	evt := h.logger.Info().Str("session_id", sessionID).Str("uri", uri).Dur("duration", duration)
	if err != nil {
		h.logger.Error().Str("session_id", sessionID).Str("uri", uri).Dur("duration", duration).Err(err).Msg("resource read error")
		return
	}
	evt.Msg("resource read completed")
}

// OnParseStart logs the beginning of a parse_grid call. internal/spatial
// stays a pure function with no logging of its own (spec: "performs no I/O
// and holds no state"); these hooks live at the MCP tool-call boundary instead.
func (h *Hooks) OnParseStart(parseID, path, sheet string) {
	h.logger.Info().Str("parse_id", parseID).Str("path", path).Str("sheet", sheet).Msg("parse starting")
}

// OnParseStage logs one pipeline stage boundary (block discovery, a
// block's finalization, or a cluster's construct build) reached during a
// parse_grid call.
func (h *Hooks) OnParseStage(parseID, stage string, blockID, count int) {
	evt := h.logger.Debug().Str("parse_id", parseID).Str("stage", stage)
	if blockID != 0 {
		evt = evt.Int("block_id", blockID)
	}
	if count != 0 {
		evt = evt.Int("count", count)
	}
	evt.Msg("parse stage reached")
}

// OnParseComplete logs a successful parse's shape.
func (h *Hooks) OnParseComplete(parseID string, duration time.Duration, blockCount, blockClusterCount int) {
	h.logger.Info().
		Str("parse_id", parseID).
		Dur("duration", duration).
		Int("blocks", blockCount).
		Int("block_clusters", blockClusterCount).
		Msg("parse completed")
}

// OnBuilderFailure logs a construct-builder failure for one cell cluster.
func (h *Hooks) OnBuilderFailure(parseID string, blockID int, err error) {
	h.logger.Error().Str("parse_id", parseID).Int("block_id", blockID).Err(err).Msg("construct builder failed")
}
