// Package log creates the [slog.Handler] used by pagelegend and buffers
// log output while the terminal UI is running.
package log

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/muesli/termenv"
	"go.opentelemetry.io/otel/trace"

	charmlog "github.com/charmbracelet/log"
)

// Format is the output encoding of a handler.
type Format string

const (
	FormatJSON   Format = "json"
	FormatLogfmt Format = "logfmt"
	FormatText   Format = "text"
)

// Length of the trace ID prefix attached by [WithContext].
const traceIDLen = 8

type contextKey struct{}

var (
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrUnknownLogLevel  = errors.New("unknown log level")
	ErrUnknownLogFormat = errors.New("unknown log format")

	// AllFormats lists the accepted --log-format values.
	AllFormats = []string{string(FormatJSON), string(FormatLogfmt), string(FormatText)}
	// AllLevels lists the accepted --log-level values.
	AllLevels = []string{"error", "warn", "info", "debug"}

	levels = map[string]slog.Level{
		"error":   slog.LevelError,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"info":    slog.LevelInfo,
		"debug":   slog.LevelDebug,
	}
)

// CreateHandlerWithStrings is [CreateHandler] with the level and format
// parsed from flag values.
func CreateHandlerWithStrings(w io.Writer, logLevel, logFormat string) (slog.Handler, error) {
	lvl, err := GetLevel(logLevel)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	format, err := GetFormat(logFormat)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	return CreateHandler(w, lvl, format), nil
}

// CreateHandler returns a handler writing to w. [FormatText] is rendered by
// charmbracelet/log for humans; the other formats use the slog handlers.
// It returns nil for an unknown format.
func CreateHandler(w io.Writer, lvl slog.Level, format Format) slog.Handler {
	opts := &slog.HandlerOptions{AddSource: true, Level: lvl}

	switch format {
	case FormatJSON:
		return slog.NewJSONHandler(w, opts)
	case FormatLogfmt:
		return slog.NewTextHandler(w, opts)
	case FormatText:
		logger := charmlog.NewWithOptions(w, charmlog.Options{
			Level:           charmlog.Level(lvl),
			Formatter:       charmlog.TextFormatter,
			ReportTimestamp: true,
			ReportCaller:    true,
			TimeFormat:      time.StampMilli,
		})
		logger.SetColorProfile(termenv.ColorProfile())

		return logger
	}

	return nil
}

// GetLevel parses a level name, ignoring case.
func GetLevel(level string) (slog.Level, error) {
	lvl, ok := levels[strings.ToLower(level)]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownLogLevel, level)
	}

	return lvl, nil
}

// GetFormat parses a format name, ignoring case.
func GetFormat(format string) (Format, error) {
	f := Format(strings.ToLower(format))
	switch f {
	case FormatJSON, FormatLogfmt, FormatText:
		return f, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownLogFormat, format)
}

// NewContext returns a copy of ctx carrying logger, which is returned by
// [WithContext].
func NewContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// WithContext returns the logger stored by [NewContext]. Otherwise it returns
// the default logger, tagged with a short trace ID when ctx carries a span.
func WithContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(contextKey{}).(*slog.Logger); ok {
		return logger
	}

	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return slog.Default()
	}

	traceID := sc.TraceID().String()
	if len(traceID) > traceIDLen {
		traceID = traceID[:traceIDLen]
	}

	return slog.With(slog.String("trace_id", traceID))
}
