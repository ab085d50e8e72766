package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surfviz/internal/config"
)

func TestInitializeLogger(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	logFile := filepath.Join(t.TempDir(), "logs", "test.log")

	cfg := config.LoggingConfig{
		Level:    "info",
		Format:   "json",
		Output:   "file",
		FilePath: logFile,
	}

	logger, err := InitializeLogger(cfg)
	require.NoError(t, err)
	require.NotNil(t, logger)
	assert.Same(t, logger, GetLogger())

	_, err = os.Stat(logFile)
	require.NoError(t, err, "log file should be created together with its directory")

	logger.Info("test message", "key", "value")
	require.NoError(t, CloseLogFile())

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)

	var logEntry map[string]interface{}
	require.NoError(t, json.Unmarshal(content, &logEntry))

	assert.Equal(t, "test message", logEntry["msg"])
	assert.Equal(t, "value", logEntry["key"])
	assert.Equal(t, "INFO", logEntry["level"])
}

func TestInitializeLogger_OnlyOnce(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	first, err := InitializeLogger(config.LoggingConfig{Level: "info", Output: "console"})
	require.NoError(t, err)

	second, err := InitializeLogger(config.LoggingConfig{Level: "debug", Output: "console"})
	require.NoError(t, err)

	assert.Same(t, first, second)
}

func TestGetLogger_FallsBackToDefault(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	assert.Same(t, slog.Default(), GetLogger())
}

func TestNewLogger_Formats(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf, config.LoggingConfig{Level: "info", Format: "json"})

		logger.Info("rendered", "file", "delta_surface.png")

		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "delta_surface.png", entry["file"])
	})

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf, config.LoggingConfig{Level: "info", Format: "text"})

		logger.Info("rendered", "file", "delta_surface.png")

		assert.Contains(t, buf.String(), "file=delta_surface.png")
	})
}

func TestCorrelationIDInjection(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, config.LoggingConfig{Level: "debug", Format: "json"})

	ctx := WithRunID(context.Background(), "run-123")
	ctx = WithTraceID(ctx, "trace-456")
	logger.InfoContext(ctx, "job started")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	assert.Equal(t, "run-123", entry["run_id"])
	assert.Equal(t, "trace-456", entry["trace_id"])
}

func TestLogLevels(t *testing.T) {
	tests := []struct {
		level   string
		logged  []string
		dropped []string
	}{
		{level: "debug", logged: []string{"DEBUG", "INFO", "WARN", "ERROR"}},
		{level: "info", logged: []string{"INFO", "WARN", "ERROR"}, dropped: []string{"DEBUG"}},
		{level: "warning", logged: []string{"WARN", "ERROR"}, dropped: []string{"DEBUG", "INFO"}},
		{level: "error", logged: []string{"ERROR"}, dropped: []string{"DEBUG", "INFO", "WARN"}},
		{level: "bogus", logged: []string{"INFO"}, dropped: []string{"DEBUG"}},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(&buf, config.LoggingConfig{Level: tt.level, Format: "json"})

			logger.Debug("m")
			logger.Info("m")
			logger.Warn("m")
			logger.Error("m")

			levels := map[string]bool{}
			for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
				var entry map[string]interface{}
				require.NoError(t, json.Unmarshal([]byte(line), &entry))
				levels[entry["level"].(string)] = true
			}

			for _, l := range tt.logged {
				assert.True(t, levels[l], "expected %s to be logged", l)
			}
			for _, l := range tt.dropped {
				assert.False(t, levels[l], "expected %s to be dropped", l)
			}
		})
	}
}

func TestContextHelpers(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	ctx := EnsureRunID(context.Background())
	runID := GetRunID(ctx)
	require.NotEmpty(t, runID)
	assert.Len(t, runID, 36)

	// existing id is kept
	assert.Equal(t, runID, GetRunID(EnsureRunID(ctx)))
	assert.NotEqual(t, runID, GenerateRunID())

	assert.Empty(t, GetTraceID(context.Background()))
	assert.Empty(t, GetRunID(context.Background()))

	assert.NotNil(t, WithComponent(nil, "render"))

	logger := slog.Default()
	assert.Same(t, logger, WithError(logger, nil))
	assert.NotSame(t, logger, WithError(logger, errors.New("boom")))
}
