// Copyright 2026 The Comlink Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/comlink-foundation/comlink/lib/export"
	"github.com/comlink-foundation/comlink/lib/metrics"
)

// RelayConfig is the relay's YAML configuration file. Durations are
// strings parseable by time.ParseDuration ("30s", "5m").
type RelayConfig struct {
	// Output is the filesystem path of the sink file frames are
	// appended to. Required.
	Output string `yaml:"output"`

	// FlushInterval is how often the exporter drains the aggregator.
	// Defaults to 30s.
	FlushInterval string `yaml:"flush_interval"`

	// Compression names the frame compression algorithm: none, lz4,
	// or zstd. Defaults to lz4.
	Compression string `yaml:"compression"`

	// LogLevel is the slog level for relay logging: debug, info,
	// warn, or error. Defaults to info.
	LogLevel string `yaml:"log_level"`

	// Capacities bounds the aggregator's logs. Absent fields take
	// the metrics package defaults.
	Capacities CapacitiesConfig `yaml:"capacities"`
}

// CapacitiesConfig bounds the aggregator's event and session logs.
// Each log is independently configurable; zero values take the
// defaults.
type CapacitiesConfig struct {
	PairEvents int `yaml:"pair_events"`
	WakeEvents int `yaml:"wake_events"`
	ScanEvents int `yaml:"scan_events"`
	Sessions   int `yaml:"sessions"`
}

// LoadConfig reads and validates the relay configuration from path.
// Absent optional fields are filled with their defaults, so the
// returned config is ready to use.
func LoadConfig(path string) (RelayConfig, error) {
	var cfg RelayConfig

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.Output == "" {
		return cfg, fmt.Errorf("config %s: output is required", path)
	}
	if cfg.FlushInterval == "" {
		cfg.FlushInterval = "30s"
	}
	interval, err := time.ParseDuration(cfg.FlushInterval)
	if err != nil {
		return cfg, fmt.Errorf("config %s: flush_interval: %w", path, err)
	}
	if interval <= 0 {
		return cfg, fmt.Errorf("config %s: flush_interval must be positive, got %s", path, cfg.FlushInterval)
	}
	if cfg.Compression == "" {
		cfg.Compression = "lz4"
	}
	if _, err := export.ParseCompressionTag(cfg.Compression); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if _, err := parseLogLevel(cfg.LogLevel); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}

	return cfg, nil
}

// FlushIntervalDuration returns the parsed flush interval. Valid
// after LoadConfig has validated the config.
func (c RelayConfig) FlushIntervalDuration() time.Duration {
	interval, _ := time.ParseDuration(c.FlushInterval)
	return interval
}

// CompressionTag returns the parsed compression tag. Valid after
// LoadConfig has validated the config.
func (c RelayConfig) CompressionTag() export.CompressionTag {
	tag, _ := export.ParseCompressionTag(c.Compression)
	return tag
}

// LogLevelValue returns the parsed slog level. Valid after LoadConfig
// has validated the config.
func (c RelayConfig) LogLevelValue() slog.Level {
	level, _ := parseLogLevel(c.LogLevel)
	return level
}

// MetricsConfig translates the capacity settings into the aggregator
// configuration.
func (c RelayConfig) MetricsConfig() metrics.Config {
	return metrics.Config{
		PairEventCapacity: c.Capacities.PairEvents,
		WakeEventCapacity: c.Capacities.WakeEvents,
		ScanEventCapacity: c.Capacities.ScanEvents,
		SessionCapacity:   c.Capacities.Sessions,
	}
}

// parseLogLevel maps a config string to a slog level.
func parseLogLevel(name string) (slog.Level, error) {
	switch name {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level: %q", name)
	}
}
