package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewWithWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWithWriter("info", "json", &buf)
	require.NoError(t, err)

	log.Debug("hidden")
	log.Info("answer recorded", zap.String("problem_id", "phase1-01"))
	require.NoError(t, log.Sync())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "answer recorded", entry["msg"])
	assert.Equal(t, "phase1-01", entry["problem_id"])
	assert.Equal(t, "gengoka", entry["logger"])
	assert.Contains(t, entry, "ts")
}

func TestNewWithWriterConsole(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWithWriter("debug", "console", &buf)
	require.NoError(t, err)

	log.Debug("progress recomputed")
	assert.Contains(t, buf.String(), "DEBUG")
	assert.Contains(t, buf.String(), "progress recomputed")
}

func TestNewRejectsInvalid(t *testing.T) {
	_, err := NewWithWriter("loud", "json", &bytes.Buffer{})
	assert.Error(t, err)

	_, err = NewWithWriter("info", "xml", &bytes.Buffer{})
	assert.Error(t, err)
}

func TestNewObserved(t *testing.T) {
	log, logs := NewObserved(zapcore.InfoLevel)
	log.Info("import completed", zap.Int("answers", 3))
	log.Debug("dropped")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, int64(3), logs.All()[0].ContextMap()["answers"])
}
