// Copyright 2026 The Comlink Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/comlink-foundation/comlink/lib/clock"
	"github.com/comlink-foundation/comlink/lib/metrics"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := pflag.String("config", "",
		"path to the relay YAML config (or set COMLINK_RELAY_CONFIG)")
	pflag.Parse()

	if *configPath == "" {
		*configPath = os.Getenv("COMLINK_RELAY_CONFIG")
	}
	if *configPath == "" {
		return fmt.Errorf("--config or COMLINK_RELAY_CONFIG is required")
	}

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.LogLevelValue(),
	}))

	sink, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening sink %s: %w", cfg.Output, err)
	}
	defer sink.Close()

	clk := clock.Real()

	metricsConfig := cfg.MetricsConfig()
	metricsConfig.Clock = clk
	metricsConfig.Logger = logger.With("component", "aggregator")
	aggregator := metrics.New(metricsConfig)
	metrics.SetDefault(aggregator)

	exporter := NewExporter(aggregator, sink, clk, logger.With("component", "exporter"), cfg.CompressionTag())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("metrics relay running",
		"output", cfg.Output,
		"flush_interval", cfg.FlushInterval,
		"compression", cfg.Compression,
	)

	// Run performs a final drain when the context is cancelled, so a
	// clean shutdown ships everything accumulated since the last tick.
	exporter.Run(ctx, cfg.FlushIntervalDuration())

	sessions, pair, wake, scan := aggregator.EvictionCounts()
	logger.Info("shut down",
		"frames_shipped", exporter.Shipped(),
		"sessions_evicted", sessions,
		"pair_events_evicted", pair,
		"wake_events_evicted", wake,
		"scan_events_evicted", scan,
	)
	return nil
}
