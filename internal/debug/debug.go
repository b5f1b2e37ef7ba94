// Package debug carries the --debug switch through a context and sets up
// the process logger.
package debug

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

type contextKey struct{}

// WithDebug returns a context with debug mode enabled/disabled.
func WithDebug(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, contextKey{}, enabled)
}

// IsEnabled returns true if debug mode is enabled in the context.
func IsEnabled(ctx context.Context) bool {
	if v, ok := ctx.Value(contextKey{}).(bool); ok {
		return v
	}
	return false
}

// LoggerOptions controls SetupLogger.
type LoggerOptions struct {
	Debug bool
	// JSON selects slog's JSON handler instead of the text handler.
	JSON bool
	// Out defaults to os.Stderr.
	Out io.Writer
}

// secretKeys are attribute keys whose values are never logged.
var secretKeys = map[string]struct{}{
	"token":         {},
	"authorization": {},
	"password":      {},
}

// SetupLogger installs the default slog logger. Debug enables debug level;
// otherwise only warnings and errors are written.
func SetupLogger(opts LoggerOptions) *slog.Logger {
	level := slog.LevelWarn
	if opts.Debug {
		level = slog.LevelDebug
	}
	out := opts.Out
	if out == nil {
		out = os.Stderr
	}

	handlerOpts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if _, ok := secretKeys[strings.ToLower(a.Key)]; ok {
				return slog.String(a.Key, "[redacted]")
			}
			return a
		},
	}

	var handler slog.Handler
	if opts.JSON {
		handler = slog.NewJSONHandler(out, handlerOpts)
	} else {
		handler = slog.NewTextHandler(out, handlerOpts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
