package idx

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with IDX-specific helpers.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a Logger with the given handler.
// If handler is nil, uses a text handler to stderr at info level.
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

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NoopLogger creates a Logger that discards all output.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// WithLocation adds a location field.
func (l *Logger) WithLocation(location string) *Logger {
	return &Logger{
		Logger: l.Logger.With("location", location),
	}
}

// LogHeader logs the outcome of a header parse.
func (l *Logger) LogHeader(ctx context.Context, h Header, err error) {
	if err != nil {
		l.ErrorContext(ctx, "header rejected",
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "header parsed",
		"type", h.Type.String(),
		"dims", h.Dims,
		"items", h.NumItems(),
		"item_len", h.ItemLen(),
	)
}

// LogDecode logs the end of a decoding run.
func (l *Logger) LogDecode(ctx context.Context, items int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "decode failed",
			"items", items,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "decode completed",
		"items", items,
	)
}
