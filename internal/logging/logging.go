// Package logging provides structured logging for the lite-server client,
// and the attribute keys its tracker/transport/routing layers share so a
// log aggregator can filter on them consistently across components.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// NewLogger creates a new structured logger with the specified level and format.
// Supported levels: debug, info, warn, error
// Supported formats: text, json. Source file:line is attached at debug
// level, where a trace through tracker/codec/balancer call sites is
// worth the extra bytes; it's omitted above that.
func NewLogger(level, format string) *slog.Logger {
	return NewLoggerWithWriter(level, format, os.Stderr)
}

// NewLoggerWithWriter creates a new structured logger with a custom writer.
func NewLoggerWithWriter(level, format string, w io.Writer) *slog.Logger {
	lvl := parseLevel(level)

	opts := &slog.HandlerOptions{
		Level:     lvl,
		AddSource: lvl <= slog.LevelDebug,
	}

	var handler slog.Handler
	switch strings.ToLower(format) {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

// Component returns log with a KeyComponent attribute bound, so every
// record a subsystem emits is tagged without each call site repeating
// the key. The Client's logger is handed to each tracker, which wraps it
// with its own component name (tracker.last, tracker.first,
// tracker.shards).
func Component(log *slog.Logger, name string) *slog.Logger {
	if log == nil {
		log = slog.Default()
	}
	return log.With(KeyComponent, name)
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NopLogger returns a logger that discards all output.
func NopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Common attribute keys for consistent logging.
const (
	KeyServerID   = "server_id"
	KeyQueryID    = "query_id"
	KeyAddress    = "address"
	KeyRoute      = "route"
	KeyWorkchain  = "workchain"
	KeyShard      = "shard"
	KeySeqno      = "seqno"
	KeyError      = "error"
	KeyComponent  = "component"
	KeyRemoteAddr = "remote_addr"
	KeyLocalAddr  = "local_addr"
	KeyDuration   = "duration"
	KeyCount      = "count"
)
