package log_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/macropower/pagelegend/pkg/log"
)

func TestCreateHandlerWithStrings(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		level   string
		format  string
		want    string
		wantErr bool
	}{
		"json": {
			level:  "info",
			format: "json",
			want:   `"msg":"page changed"`,
		},
		"logfmt": {
			level:  "debug",
			format: "logfmt",
			want:   `msg="page changed"`,
		},
		"text": {
			level:  "warning",
			format: "text",
		},
		"unknown level": {
			level:   "loud",
			format:  "json",
			wantErr: true,
		},
		"unknown format": {
			level:   "info",
			format:  "xml",
			wantErr: true,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			buf := &bytes.Buffer{}

			h, err := log.CreateHandlerWithStrings(buf, tc.level, tc.format)
			if tc.wantErr {
				require.ErrorIs(t, err, log.ErrInvalidArgument)

				return
			}

			require.NoError(t, err)
			require.NotNil(t, h)

			slog.New(h).Info("page changed", slog.Int("page", 2))

			if tc.want != "" {
				assert.Contains(t, buf.String(), tc.want)
			}
		})
	}
}

func TestWithContext(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(buf, nil))

	ctx := log.NewContext(context.Background(), logger)
	assert.Same(t, logger, log.WithContext(ctx))

	assert.NotNil(t, log.WithContext(context.Background()))

	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() {
		assert.NoError(t, tp.Shutdown(context.Background()))
	})

	spanCtx, span := tp.Tracer("test").Start(context.Background(), "test")
	defer span.End()

	assert.NotNil(t, log.WithContext(spanCtx))
}

func TestGetLevel(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		want    slog.Level
		wantErr bool
	}{
		"debug":   {want: slog.LevelDebug},
		"INFO":    {want: slog.LevelInfo},
		"Warning": {want: slog.LevelWarn},
		"error":   {want: slog.LevelError},
		"trace":   {wantErr: true},
	}

	for in, tc := range tcs {
		t.Run(in, func(t *testing.T) {
			t.Parallel()

			got, err := log.GetLevel(in)
			if tc.wantErr {
				require.ErrorIs(t, err, log.ErrUnknownLogLevel)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
