package observability

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInit_StdoutExporter(t *testing.T) {
	var out bytes.Buffer
	instruments, shutdown, err := Init(context.Background(), Settings{
		ServiceName: "pooch-profile-api",
		Environment: "test",
		Exporter:    ExporterStdout,
		Output:      &out,
	})
	require.NoError(t, err)

	_, span := instruments.Tracer("test").Start(context.Background(), "startup")
	span.End()
	instruments.Logger.Info("hello")
	require.NoError(t, shutdown(context.Background()))

	require.Contains(t, out.String(), `"service":"pooch-profile-api"`)
	require.Contains(t, out.String(), `"environment":"test"`)
	require.Contains(t, out.String(), `"Name":"startup"`)
}

func TestInit_StdoutExporterFlushesMetrics(t *testing.T) {
	var out bytes.Buffer
	instruments, shutdown, err := Init(context.Background(), Settings{
		ServiceName: "pooch-profile-api",
		Exporter:    ExporterStdout,
		Output:      &out,
	})
	require.NoError(t, err)

	counter, err := instruments.Meter("test").Int64Counter("profiles.submissions")
	require.NoError(t, err)
	counter.Add(context.Background(), 3)
	require.NoError(t, shutdown(context.Background()))

	require.Contains(t, out.String(), `"Name":"profiles.submissions"`)
}

func TestInit_NoExporterAndUnknownExporter(t *testing.T) {
	var out bytes.Buffer
	instruments, shutdown, err := Init(context.Background(), Settings{ServiceName: "svc", Exporter: ExporterNone, Output: &out})
	require.NoError(t, err)
	require.NotNil(t, instruments.Meter("test"))
	require.NoError(t, shutdown(context.Background()))

	_, _, err = Init(context.Background(), Settings{ServiceName: "svc", Exporter: "zipkin", Output: &out})
	require.Error(t, err)
}

func TestParseLogLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, ParseLogLevel("debug"))
	require.Equal(t, slog.LevelWarn, ParseLogLevel(" WARN "))
	require.Equal(t, slog.LevelInfo, ParseLogLevel("verbose"))
	require.Equal(t, slog.LevelInfo, ParseLogLevel(""))
}

func TestNilInstrumentsFallBack(t *testing.T) {
	var instruments *Instruments
	require.NotNil(t, instruments.Tracer("x"))
	require.NotNil(t, instruments.Meter("x"))
}
