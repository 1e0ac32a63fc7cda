// Copyright 2026 The Comlink Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/comlink-foundation/comlink/lib/export"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "relay.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, "output: /var/log/comlink/metrics.bin\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Output != "/var/log/comlink/metrics.bin" {
		t.Errorf("Output: got %q", cfg.Output)
	}
	if got := cfg.FlushIntervalDuration(); got != 30*time.Second {
		t.Errorf("flush interval: got %s, want 30s", got)
	}
	if got := cfg.CompressionTag(); got != export.CompressionLZ4 {
		t.Errorf("compression: got %s, want lz4", got)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("log level: got %q, want info", cfg.LogLevel)
	}

	metricsConfig := cfg.MetricsConfig()
	if metricsConfig.PairEventCapacity != 0 || metricsConfig.SessionCapacity != 0 {
		t.Errorf("capacities should stay zero for the aggregator to default: %+v", metricsConfig)
	}
}

func TestLoadConfigFullyPopulated(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, `
output: /tmp/frames.bin
flush_interval: 5m
compression: zstd
log_level: debug
capacities:
  pair_events: 10
  wake_events: 20
  scan_events: 30
  sessions: 40
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if got := cfg.FlushIntervalDuration(); got != 5*time.Minute {
		t.Errorf("flush interval: got %s, want 5m", got)
	}
	if got := cfg.CompressionTag(); got != export.CompressionZstd {
		t.Errorf("compression: got %s, want zstd", got)
	}

	metricsConfig := cfg.MetricsConfig()
	if metricsConfig.PairEventCapacity != 10 ||
		metricsConfig.WakeEventCapacity != 20 ||
		metricsConfig.ScanEventCapacity != 30 ||
		metricsConfig.SessionCapacity != 40 {
		t.Errorf("capacities: got %+v", metricsConfig)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		contents string
		want     string
	}{
		{
			name:     "missing output",
			contents: "flush_interval: 30s\n",
			want:     "output is required",
		},
		{
			name:     "malformed flush interval",
			contents: "output: /tmp/f.bin\nflush_interval: soon\n",
			want:     "flush_interval",
		},
		{
			name:     "negative flush interval",
			contents: "output: /tmp/f.bin\nflush_interval: -10s\n",
			want:     "must be positive",
		},
		{
			name:     "unknown compression",
			contents: "output: /tmp/f.bin\ncompression: gzip\n",
			want:     "unknown compression",
		},
		{
			name:     "unknown log level",
			contents: "output: /tmp/f.bin\nlog_level: loud\n",
			want:     "unknown log level",
		},
		{
			name:     "malformed yaml",
			contents: "output: [\n",
			want:     "parsing config",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			path := writeConfig(t, tt.contents)
			_, err := LoadConfig(path)
			if err == nil {
				t.Fatal("LoadConfig succeeded, want error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not contain %q", err, tt.want)
			}
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	t.Parallel()
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("LoadConfig succeeded, want error")
	}
	if !strings.Contains(err.Error(), "reading config") {
		t.Errorf("error %q does not mention reading config", err)
	}
}
