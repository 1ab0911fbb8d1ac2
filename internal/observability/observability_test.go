package observability

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restoreDefaultLogger(t *testing.T) {
	t.Helper()
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })
}

func TestInstrumentFormats(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{"text", `msg="token refreshed"`},
		{"json", `"msg":"token refreshed"`},
		{"", `msg="token refreshed"`},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			restoreDefaultLogger(t)
			var buf bytes.Buffer

			shutdown, err := Instrument(context.Background(), Config{Level: slog.LevelInfo, Format: tt.format, Output: &buf})
			require.NoError(t, err)
			defer func() { _ = shutdown(context.Background()) }()

			slog.Debug("hidden")
			slog.Info("token refreshed")

			assert.Contains(t, buf.String(), tt.want)
			assert.NotContains(t, buf.String(), "hidden")
		})
	}
}

func TestInstrumentUnsupported(t *testing.T) {
	restoreDefaultLogger(t)

	_, err := Instrument(context.Background(), Config{Format: "xml"})
	assert.Error(t, err)

	_, err = Instrument(context.Background(), Config{Exporter: "carrier-pigeon"})
	assert.Error(t, err)
}

func TestInstrumentStdoutExporter(t *testing.T) {
	restoreDefaultLogger(t)
	var buf bytes.Buffer

	shutdown, err := Instrument(context.Background(), Config{
		Level:    slog.LevelInfo,
		Exporter: ExporterStdout,
		Output:   &buf,
	})
	require.NoError(t, err)

	slog.Debug("below minimum severity")
	slog.Info("exported record", "attempt_id", "42")

	require.NoError(t, shutdown(context.Background()))

	assert.Contains(t, buf.String(), "exported record")
	assert.Contains(t, buf.String(), "attempt_id")
	assert.NotContains(t, buf.String(), "below minimum severity")
}

func TestSeverity(t *testing.T) {
	assert.Less(t, severity(slog.LevelDebug), severity(slog.LevelInfo))
	assert.Less(t, severity(slog.LevelInfo), severity(slog.LevelWarn))
	assert.Less(t, severity(slog.LevelWarn), severity(slog.LevelError))
}
