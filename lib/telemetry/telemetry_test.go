package telemetry

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetupFromEnvWithoutConfig(t *testing.T) {
	tel, err := SetupFromEnv(context.Background(), "test")
	require.NoError(t, err)
	require.Nil(t, tel.TracerProvider)
	require.Nil(t, tel.MeterProvider)
	require.NoError(t, tel.Shutdown(context.Background()))
}

func TestNewLoggerFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	logger, closer, err := NewLogger(false, LogConfig{Dir: dir})
	require.NoError(t, err)

	logger.Info("transformed", "items", 2)
	logger.Debug("hidden")
	logger.With("table", "game").Warn("loaded")
	require.NoError(t, closer.Close())

	contents, err := os.ReadFile(filepath.Join(dir, logFileName))
	require.NoError(t, err)
	require.Contains(t, string(contents), "transformed items=2")
	require.Contains(t, string(contents), "loaded table=game")
	require.NotContains(t, string(contents), "hidden")
}

func TestNewLoggerConsoleOnly(t *testing.T) {
	logger, closer, err := NewLogger(true, LogConfig{})
	require.NoError(t, err)
	require.True(t, logger.Enabled(context.Background(), slog.LevelDebug))
	require.NoError(t, closer.Close())
}
