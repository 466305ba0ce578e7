package denseid

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with denseid-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithIndex adds an index field to the logger (useful for tagging a
// specific id in diagnostics).
func (l *Logger) WithIndex(i Index) *Logger {
	return &Logger{
		Logger: l.Logger.With("index", uint32(i)),
	}
}

// LogFreeRejected logs a rejected Free call. Misuse is reported here in
// addition to the returned error so it shows up in logs even when callers
// discard the error.
func (l *Logger) LogFreeRejected(i Index, err error) {
	l.Warn("free rejected",
		"index", uint32(i),
		"error", err,
	)
}

// LogExhausted logs an allocation failure due to id-space exhaustion.
func (l *Logger) LogExhausted(limit Index, live int) {
	l.Error("id space exhausted",
		"limit", uint32(limit),
		"live", live,
	)
}
