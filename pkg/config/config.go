// Package config holds the library's ambient configuration: logging,
// the parse-trace toggle, and scan/connect timeout values. Nothing in the
// module reads the timeouts itself; a caller passes them to
// device.Port.Connect.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/srg/bluetoothsig/pkg/characteristic"
)

// Config holds library-wide configuration.
type Config struct {
	LogLevel      logrus.Level  `yaml:"log_level"`
	ParseTrace    bool          `yaml:"parse_trace"`
	ScanTimeout   time.Duration `yaml:"scan_timeout"`
	DeviceTimeout time.Duration `yaml:"device_timeout"`
}

// DefaultConfig returns the library's default configuration values.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:      logrus.InfoLevel,
		ParseTrace:    false,
		ScanTimeout:   10 * time.Second,
		DeviceTimeout: 30 * time.Second,
	}
}

// NewLogger creates a logger configured per c.
func (c *Config) NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(c.LogLevel)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
	return logger
}

// NewContext returns a characteristic.Context with the trace flag taken
// from c rather than the BLUETOOTH_SIG_ENABLE_PARSE_TRACE environment
// variable characteristic.NewContext falls back to.
func (c *Config) NewContext() *characteristic.Context {
	return &characteristic.Context{
		Dependencies: map[string]any{},
		Trace:        c.ParseTrace,
	}
}

// overlay is the on-disk shape of a config override file: human-readable
// strings for the fields (log level name, Go duration strings) that
// don't round-trip cleanly through YAML in their runtime types.
type overlay struct {
	LogLevel      string `yaml:"log_level"`
	ParseTrace    *bool  `yaml:"parse_trace"`
	ScanTimeout   string `yaml:"scan_timeout"`
	DeviceTimeout string `yaml:"device_timeout"`
}

// LoadFile starts from DefaultConfig and applies whatever fields path's
// YAML sets, leaving defaults in place for anything it omits.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var ov overlay
	if err := yaml.Unmarshal(data, &ov); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if ov.LogLevel != "" {
		lvl, err := logrus.ParseLevel(ov.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("config %s: log_level: %w", path, err)
		}
		cfg.LogLevel = lvl
	}
	if ov.ParseTrace != nil {
		cfg.ParseTrace = *ov.ParseTrace
	}
	if ov.ScanTimeout != "" {
		d, err := time.ParseDuration(ov.ScanTimeout)
		if err != nil {
			return nil, fmt.Errorf("config %s: scan_timeout: %w", path, err)
		}
		cfg.ScanTimeout = d
	}
	if ov.DeviceTimeout != "" {
		d, err := time.ParseDuration(ov.DeviceTimeout)
		if err != nil {
			return nil, fmt.Errorf("config %s: device_timeout: %w", path, err)
		}
		cfg.DeviceTimeout = d
	}

	return cfg, nil
}
