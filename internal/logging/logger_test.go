package logging

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"i18ncheck/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observe(t *testing.T, c config.LoggingConfig) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core), c)
	t.Cleanup(func() { SetLogger(zap.NewNop(), config.LoggingConfig{}) })
	return logs
}

func TestGet_NamesCategory(t *testing.T) {
	logs := observe(t, config.LoggingConfig{})

	Get(CategoryAudit).Infow("language compared", "language", "de")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "audit", entries[0].LoggerName)
	assert.Equal(t, "de", entries[0].ContextMap()["language"])
}

func TestGet_DisabledCategory(t *testing.T) {
	logs := observe(t, config.LoggingConfig{Categories: map[string]bool{"store": false}})

	Get(CategoryStore).Infow("run saved")
	Get(CategoryWatch).Infow("change detected")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "watch", entries[0].LoggerName)
}

func TestGet_Cached(t *testing.T) {
	observe(t, config.LoggingConfig{})
	assert.Same(t, Get(CategoryBoot), Get(CategoryBoot))
}

func TestTimer(t *testing.T) {
	logs := observe(t, config.LoggingConfig{})

	StartTimer(CategoryCatalog, "LoadSet").Stop()
	StartTimer(CategoryCatalog, "Parse").StopWithThreshold(-time.Second)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "LoadSet completed", entries[0].Message)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, "Parse was slow", entries[1].Message)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zapcore.Level
		wantErr bool
	}{
		{in: "debug", want: zapcore.DebugLevel},
		{in: "", want: zapcore.InfoLevel},
		{in: " WARN ", want: zapcore.WarnLevel},
		{in: "warning", want: zapcore.WarnLevel},
		{in: "error", want: zapcore.ErrorLevel},
		{in: "loud", wantErr: true},
	}
	for _, tt := range tests {
		got, err := parseLevel(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestInitialize(t *testing.T) {
	t.Cleanup(func() { SetLogger(zap.NewNop(), config.LoggingConfig{}) })

	l, err := Initialize(config.LoggingConfig{Level: "error", Format: "json"}, false)
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.WarnLevel))

	l, err = Initialize(config.LoggingConfig{Level: "error"}, true)
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))

	_, err = Initialize(config.LoggingConfig{Level: "loud"}, false)
	assert.Error(t, err)
}

func TestInitialize_FileOutput(t *testing.T) {
	t.Cleanup(func() { SetLogger(zap.NewNop(), config.LoggingConfig{}) })

	path := filepath.Join(t.TempDir(), "logs", "watch.log")
	_, err := Initialize(config.LoggingConfig{Level: "warn", Format: "json", Output: path}, false)
	require.NoError(t, err)

	Get(CategoryCatalog).Warnw("skipping unreadable catalog", "language", "it")
	Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "skipping unreadable catalog")
	assert.Contains(t, string(data), `"logger":"catalog"`)
}
