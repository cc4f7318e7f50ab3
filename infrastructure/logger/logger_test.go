package logger

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(Config{Level: "loud"})
	require.Error(t, err)
}

func TestNew_FileOutput(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{
		Level:      "debug",
		Outputs:    []string{"file"},
		OutputFile: filepath.Join(dir, "mm.log"),
		ErrorFile:  filepath.Join(dir, "mm.err.log"),
		Format:     "json",
	}
	l, err := New(cfg)
	require.NoError(t, err)
	l.Info("hello", zap.String("k", "v"))
	l.LogError(errors.New("boom"))
	require.NoError(t, l.Sync())

	raw, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"k":"v"`)

	errRaw, err := os.ReadFile(cfg.ErrorFile)
	require.NoError(t, err)
	assert.Contains(t, string(errRaw), "boom")
	assert.NotContains(t, string(errRaw), "hello")
}

func TestEventHelpers(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := FromZap(zap.New(core))

	l.LogQuote(0.15, 50, 3, 3)
	l.LogRisk("stop_loss", zap.Float64("price", 99))
	l.LogFill("BUY", 100, 0.1)
	l.LogExplore(map[string]float64{"spread": 1}, map[string]float64{"spread": 1.05})

	entries := logs.All()
	require.Len(t, entries, 4)
	assert.Equal(t, "quote_event", entries[0].Message)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "stop_loss", entries[1].ContextMap()["event"])
	assert.Equal(t, "fill_event", entries[2].Message)
	assert.True(t, strings.HasPrefix(entries[3].Message, "explore"))
}

func TestWithFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := FromZap(zap.New(core)).WithFields(map[string]interface{}{"run_id": "abc"})
	l.Info("started")
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "abc", logs.All()[0].ContextMap()["run_id"])
}

func TestNewNop(t *testing.T) {
	l := NewNop()
	l.LogRisk("ignored")
	assert.NoError(t, l.Close())
}
