// Copyright 2026 The Comlink Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/comlink-foundation/comlink/lib/clock"
	"github.com/comlink-foundation/comlink/lib/export"
	"github.com/comlink-foundation/comlink/lib/metrics"
)

// Exporter periodically drains the aggregator and appends framed
// snapshots to the sink. One exporter runs for the relay's lifetime;
// a final drain on shutdown ships whatever accumulated since the last
// tick.
type Exporter struct {
	aggregator  *metrics.Aggregator
	sink        io.Writer
	clock       clock.Clock
	logger      *slog.Logger
	compression export.CompressionTag

	// shipped counts frames written to the sink. Read concurrently
	// by status reporting.
	shipped atomic.Uint64
}

// NewExporter creates an exporter draining aggregator into sink with
// the given frame compression.
func NewExporter(aggregator *metrics.Aggregator, sink io.Writer, clk clock.Clock, logger *slog.Logger, compression export.CompressionTag) *Exporter {
	return &Exporter{
		aggregator:  aggregator,
		sink:        sink,
		clock:       clk,
		logger:      logger,
		compression: compression,
	}
}

// Run drains the aggregator on every tick of interval until the
// context is cancelled, then performs one final drain. Flush errors
// are logged and the loop continues: a transient sink failure must
// not stop the aggregator from being drained later (though the failed
// snapshot's history is lost; the aggregator already considers it
// consumed).
func (e *Exporter) Run(ctx context.Context, interval time.Duration) {
	ticker := e.clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := e.flushOnce(); err != nil {
				e.logger.Warn("snapshot flush failed", "error", err)
			}
		case <-ctx.Done():
			if err := e.flushOnce(); err != nil {
				e.logger.Warn("final snapshot flush failed", "error", err)
			}
			return
		}
	}
}

// flushOnce drains one snapshot and ships it. Empty snapshots are
// skipped: the aggregator does not assign them a sequence number and
// the pipeline has no use for frames with nothing in them.
func (e *Exporter) flushOnce() error {
	snapshot := e.aggregator.WriteSnapshot(true)
	if snapshot.IsEmpty() {
		e.logger.Debug("nothing to flush")
		return nil
	}

	frame, err := export.EncodeFrame(snapshot, e.compression)
	if err != nil {
		return fmt.Errorf("encoding frame: %w", err)
	}
	if _, err := e.sink.Write(frame); err != nil {
		return fmt.Errorf("writing frame: %w", err)
	}

	e.shipped.Add(1)
	e.logger.Info("snapshot shipped",
		"sequence", snapshot.SequenceNumber,
		"sessions", len(snapshot.Sessions),
		"pair_events", len(snapshot.PairEvents),
		"wake_events", len(snapshot.WakeEvents),
		"scan_events", len(snapshot.ScanEvents),
		"frame_bytes", len(frame),
	)
	return nil
}

// Shipped returns the number of frames written to the sink.
func (e *Exporter) Shipped() uint64 {
	return e.shipped.Load()
}
