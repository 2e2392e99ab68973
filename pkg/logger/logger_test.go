package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureOutput(t *testing.T, cfg Config) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prevOutput, prevLogger, prevLevel := output, logger, lvl.Level()
	output = &buf
	t.Cleanup(func() {
		output, logger = prevOutput, prevLogger
		lvl.Set(prevLevel)
		slog.SetDefault(prevLogger)
	})
	require.NoError(t, Init(cfg))
	return &buf
}

func decodeRecord(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	return record
}

func TestJSONOutput(t *testing.T) {
	buf := captureOutput(t, Config{Output: "JSON"})

	ctx := WithContext(context.Background(), slog.String("module", "grc20"))
	ErrorContext(ctx, "failed", errors.New("boom"), slog.Int64("height", 100))

	record := decodeRecord(t, buf)
	assert.Equal(t, "ERROR", record["level"])
	assert.Equal(t, "failed", record["msg"])
	assert.Equal(t, "grc20", record["module"])
	assert.Equal(t, "boom", record[ErrorKey])
	assert.EqualValues(t, 100, record["height"])
	assert.NotContains(t, record, ErrorVerboseKey)
}

func TestDebugLevel(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		buf := captureOutput(t, Config{Output: "JSON"})
		DebugContext(context.Background(), "hidden")
		assert.Empty(t, buf.String())
	})

	t.Run("enabled with error details", func(t *testing.T) {
		buf := captureOutput(t, Config{Output: "JSON", Debug: true})
		ErrorContext(context.Background(), "failed", errors.New("boom"))

		record := decodeRecord(t, buf)
		assert.Contains(t, record, ErrorVerboseKey)
		assert.Contains(t, record, ErrorStackTraceKey)
		assert.Contains(t, record, slog.SourceKey)
	})
}

func TestGCPOutput(t *testing.T) {
	buf := captureOutput(t, Config{Output: "GCP"})
	LogAttrs(context.Background(), LevelCritical, "critical", slog.String("event", "test"))

	record := decodeRecord(t, buf)
	assert.Equal(t, "CRITICAL", record["severity"])
	assert.Equal(t, "critical", record["message"])
	assert.Contains(t, record, "logging.googleapis.com/sourceLocation")
}

func TestReplaceLevelName(t *testing.T) {
	testCases := []struct {
		level    slog.Level
		expected any
	}{
		{slog.LevelError, slog.LevelError},
		{LevelCritical, "CRITICAL"},
		{LevelCritical + 1, "CRITICAL+1"},
		{LevelPanic, "PANIC"},
		{LevelFatal, "FATAL"},
		{LevelFatal + 2, "FATAL+2"},
	}
	for _, tc := range testCases {
		t.Run(tc.level.String(), func(t *testing.T) {
			attr := replaceLevelName(nil, slog.Any(slog.LevelKey, tc.level))
			assert.Equal(t, tc.expected, attr.Value.Any())
		})
	}
}
