package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), buf.String())
	return entry
}

func TestDispatcherLogger_Levels(t *testing.T) {
	tests := []struct {
		name  string
		log   func(*DispatcherLogger)
		level string
	}{
		{"debug", func(l *DispatcherLogger) { l.Debug("msg", "k", "v") }, "debug"},
		{"info", func(l *DispatcherLogger) { l.Info("msg", "k", "v") }, "info"},
		{"error", func(l *DispatcherLogger) { l.Error("msg", "k", "v") }, "error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			dl := NewDispatcherLogger(zerolog.New(&buf).Level(zerolog.DebugLevel))
			tt.log(dl)

			entry := decodeLine(t, &buf)
			assert.Equal(t, tt.level, entry["level"])
			assert.Equal(t, "msg", entry["message"])
			assert.Equal(t, "v", entry["k"])
		})
	}
}

func TestDispatcherLogger_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	dl := NewDispatcherLogger(zerolog.New(&buf).Level(zerolog.InfoLevel))
	dl.Debug("dropped")
	assert.Empty(t, buf.String())
}

func TestDispatcherLogger_NumericFields(t *testing.T) {
	var buf bytes.Buffer
	dl := NewDispatcherLogger(zerolog.New(&buf))
	dl.Info("counts", "candidates", 3, "ratio", 0.5)

	entry := decodeLine(t, &buf)
	assert.Equal(t, float64(3), entry["candidates"])
	assert.Equal(t, 0.5, entry["ratio"])
}

func TestToFields(t *testing.T) {
	assert.Equal(t, map[string]any{}, toFields(nil))
	assert.Equal(t, map[string]any{"a": 1, "b": "two"}, toFields([]any{"a", 1, "b", "two"}))
	assert.Equal(t, map[string]any{"a": 1, "dangling": nil}, toFields([]any{"a", 1, "dangling"}))
	assert.Equal(t, map[string]any{"b": 2}, toFields([]any{42, 1, "b", 2}))
}
