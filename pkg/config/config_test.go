package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NotNil(t, cfg)
	assert.Equal(t, logrus.InfoLevel, cfg.LogLevel)
	assert.False(t, cfg.ParseTrace)
	assert.Equal(t, 10*time.Second, cfg.ScanTimeout)
	assert.Equal(t, 30*time.Second, cfg.DeviceTimeout)
}

func TestConfig_NewLogger(t *testing.T) {
	tests := []struct {
		name     string
		logLevel logrus.Level
	}{
		{name: "debug level", logLevel: logrus.DebugLevel},
		{name: "info level", logLevel: logrus.InfoLevel},
		{name: "warn level", logLevel: logrus.WarnLevel},
		{name: "error level", logLevel: logrus.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{LogLevel: tt.logLevel}
			logger := cfg.NewLogger()

			assert.NotNil(t, logger)
			assert.Equal(t, tt.logLevel, logger.GetLevel())

			formatter, ok := logger.Formatter.(*logrus.TextFormatter)
			assert.True(t, ok)
			assert.True(t, formatter.FullTimestamp)
			assert.Equal(t, time.RFC3339, formatter.TimestampFormat)
		})
	}
}

func TestConfig_NewContext(t *testing.T) {
	cfg := &Config{ParseTrace: true}
	ctx := cfg.NewContext()
	assert.True(t, ctx.Trace)
	assert.NotNil(t, ctx.Dependencies)
}

func TestLoadFile_OverridesSelectively(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log_level: debug
scan_timeout: 5s
`), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, logrus.DebugLevel, cfg.LogLevel)
	assert.Equal(t, 5*time.Second, cfg.ScanTimeout)
	// Omitted fields keep their defaults.
	assert.Equal(t, 30*time.Second, cfg.DeviceTimeout)
	assert.False(t, cfg.ParseTrace)
}

func TestLoadFile_InvalidLogLevel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`log_level: nonsense`), 0o644))

	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestLoadFile_MissingFile(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	assert.Error(t, err)
}
