// Package observability provides structured logging, metrics, and tracing
// for flowblocks resolutions and graph edits.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// NewLogger builds a slog logger writing to w.
// level is one of debug, info, warn, error (default info).
// format is "json" or "text" (default text).
func NewLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "", "info":
		lvl = slog.LevelInfo
	case "warn", "warning":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		return nil, fmt.Errorf("unknown log level %q", level)
	}

	opts := &slog.HandlerOptions{Level: lvl}
	switch strings.ToLower(format) {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}

// EnrichLogger adds flow context to a logger.
// Returns a new logger with flow_id and node_id fields.
//
// Example:
//
//	enriched := EnrichLogger(logger, "flow-1", "cond")
//	enriched.Info("deleting block") // includes flow_id, node_id
func EnrichLogger(logger *slog.Logger, flowID, nodeID string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("flow_id", flowID),
		slog.String("node_id", nodeID),
	)
}

// LogResolve logs the outcome of a merge lookup.
func LogResolve(logger *slog.Logger, startID, mergeID, outcome string, iterations int, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("merge resolved",
		slog.String("start_id", startID),
		slog.String("merge_id", mergeID),
		slog.String("outcome", outcome),
		slog.Int("iterations", iterations),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogResolveExhausted logs a lookup stopped by the iteration cap.
// This usually means the graph is cyclic or malformed.
func LogResolveExhausted(logger *slog.Logger, startID string, maxIterations int) {
	if logger == nil {
		return
	}
	logger.Warn("merge resolution hit iteration cap",
		slog.String("start_id", startID),
		slog.Int("max_iterations", maxIterations),
	)
}

// EditCounts is what a graph edit changed.
type EditCounts struct {
	NodesRemoved int
	NodesAdded   int
	EdgesRemoved int
	EdgesAdded   int
}

// LogMutation logs a successful graph edit.
func LogMutation(logger *slog.Logger, op, nodeID string, counts EditCounts) {
	if logger == nil {
		return
	}
	logger.Info("graph edited",
		slog.String("op", op),
		slog.String("node_id", nodeID),
		slog.Int("nodes_removed", counts.NodesRemoved),
		slog.Int("nodes_added", counts.NodesAdded),
		slog.Int("edges_removed", counts.EdgesRemoved),
		slog.Int("edges_added", counts.EdgesAdded),
	)
}

// LogMutationError logs a rejected graph edit.
func LogMutationError(logger *slog.Logger, op, nodeID string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("graph edit rejected",
		slog.String("op", op),
		slog.String("node_id", nodeID),
		slog.String("error", err.Error()),
	)
}
