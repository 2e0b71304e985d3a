package debugctx

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
)

// DebugLevel is the logr verbosity used for debug lines.
const DebugLevel = 1

type enabledKey struct{}

func WithEnabled(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, enabledKey{}, enabled)
}

func Enabled(ctx context.Context) bool {
	if ctx == nil {
		return false
	}

	enabled, _ := ctx.Value(enabledKey{}).(bool)
	return enabled
}

// WithLogger stores logger in ctx; it is also reachable through
// logr.FromContext for libraries that expect the standard key.
func WithLogger(ctx context.Context, logger logr.Logger) context.Context {
	return logr.NewContext(ctx, logger)
}

// WithWriter stores a logger that renders debug lines as "debug: ..." on writer.
func WithWriter(ctx context.Context, writer io.Writer) context.Context {
	if writer == nil {
		return ctx
	}
	return WithLogger(ctx, NewWriterLogger(writer))
}

func NewWriterLogger(writer io.Writer) logr.Logger {
	return funcr.New(func(prefix, args string) {
		line := strings.TrimSpace(args)
		if prefix != "" {
			line = prefix + " " + line
		}
		_, _ = fmt.Fprintf(writer, "debug: %s\n", line)
	}, funcr.Options{Verbosity: DebugLevel})
}

// Logger returns the logger stored in ctx or a discarding logger.
func Logger(ctx context.Context) logr.Logger {
	if ctx == nil {
		return logr.Discard()
	}
	logger, err := logr.FromContext(ctx)
	if err != nil {
		return logr.Discard()
	}
	return logger
}

func Printf(ctx context.Context, format string, args ...any) {
	if !Enabled(ctx) {
		return
	}

	message := strings.TrimSpace(fmt.Sprintf(format, args...))
	if message == "" {
		return
	}

	Logger(ctx).V(DebugLevel).Info(message)
}

// Info emits a structured debug line when debugging is enabled.
func Info(ctx context.Context, message string, keysAndValues ...any) {
	if !Enabled(ctx) {
		return
	}
	Logger(ctx).V(DebugLevel).Info(message, keysAndValues...)
}
