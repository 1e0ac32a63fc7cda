// Copyright 2026 The Comlink Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/comlink-foundation/comlink/lib/clock"
	"github.com/comlink-foundation/comlink/lib/export"
	"github.com/comlink-foundation/comlink/lib/metrics"
	"github.com/comlink-foundation/comlink/lib/schema/connectivity"
)

// lockedBuffer is a bytes.Buffer safe for the exporter goroutine and
// the test to share.
type lockedBuffer struct {
	mu     sync.Mutex
	buffer bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buffer.Write(p)
}

func (b *lockedBuffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]byte{}, b.buffer.Bytes()...)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestExporterFlushOnce(t *testing.T) {
	t.Parallel()
	fake := clock.Fake(time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC))
	aggregator := metrics.New(metrics.Config{Clock: fake})
	sink := &lockedBuffer{}
	exporter := NewExporter(aggregator, sink, fake, testLogger(), export.CompressionLZ4)

	aggregator.LogWakeEvent(connectivity.WakeEventAcquired, "TEST_REQ", "TEST_NAME", 12345)

	if err := exporter.flushOnce(); err != nil {
		t.Fatalf("flushOnce: %v", err)
	}
	if exporter.Shipped() != 1 {
		t.Errorf("Shipped: got %d, want 1", exporter.Shipped())
	}

	snapshot, rest, err := export.DecodeFrame(sink.Bytes())
	if err != nil {
		t.Fatalf("DecodeFrame: %v", err)
	}
	if len(rest) != 0 {
		t.Errorf("rest: got %d bytes, want 0", len(rest))
	}
	if len(snapshot.WakeEvents) != 1 || snapshot.WakeEvents[0].Requestor != "TEST_REQ" {
		t.Errorf("snapshot: got %+v", snapshot)
	}

	// The flush drained the aggregator: a second flush has nothing
	// to ship and writes no frame.
	if err := exporter.flushOnce(); err != nil {
		t.Fatalf("second flushOnce: %v", err)
	}
	if exporter.Shipped() != 1 {
		t.Errorf("Shipped after empty flush: got %d, want 1", exporter.Shipped())
	}
}

func TestExporterRunDrainsOnTickAndShutdown(t *testing.T) {
	t.Parallel()
	fake := clock.Fake(time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC))
	aggregator := metrics.New(metrics.Config{Clock: fake})
	sink := &lockedBuffer{}
	exporter := NewExporter(aggregator, sink, fake, testLogger(), export.CompressionNone)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		exporter.Run(ctx, 30*time.Second)
		close(done)
	}()

	// Wait for the flush loop to register its ticker before logging
	// and advancing.
	fake.WaitForTimers(1)

	aggregator.LogPairEvent(35, 12345, 42, connectivity.DeviceTypeBREDR)
	fake.Advance(30 * time.Second)

	waitForShipped(t, exporter, 1)

	// Events logged after the tick ship in the shutdown drain.
	aggregator.LogScanEvent(true, "TEST_INITIATOR", connectivity.ScanTechLE, 0, 99999)
	cancel()
	<-done

	if exporter.Shipped() != 2 {
		t.Fatalf("Shipped: got %d, want 2", exporter.Shipped())
	}

	first, rest, err := export.DecodeFrame(sink.Bytes())
	if err != nil {
		t.Fatalf("DecodeFrame first: %v", err)
	}
	if len(first.PairEvents) != 1 {
		t.Errorf("first frame pair events: got %d, want 1", len(first.PairEvents))
	}

	second, rest, err := export.DecodeFrame(rest)
	if err != nil {
		t.Fatalf("DecodeFrame second: %v", err)
	}
	if len(second.ScanEvents) != 1 {
		t.Errorf("second frame scan events: got %d, want 1", len(second.ScanEvents))
	}
	if len(rest) != 0 {
		t.Errorf("rest: got %d bytes, want 0", len(rest))
	}

	// Frames carry consecutive sequence numbers.
	if first.SequenceNumber != 0 || second.SequenceNumber != 1 {
		t.Errorf("sequence numbers: got %d then %d, want 0 then 1",
			first.SequenceNumber, second.SequenceNumber)
	}
}

func TestExporterSkipsEmptyTicks(t *testing.T) {
	t.Parallel()
	fake := clock.Fake(time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC))
	aggregator := metrics.New(metrics.Config{Clock: fake})
	sink := &lockedBuffer{}
	exporter := NewExporter(aggregator, sink, fake, testLogger(), export.CompressionNone)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		exporter.Run(ctx, 10*time.Second)
		close(done)
	}()

	fake.WaitForTimers(1)
	fake.Advance(10 * time.Second)
	fake.Advance(10 * time.Second)
	cancel()
	<-done

	if exporter.Shipped() != 0 {
		t.Errorf("Shipped: got %d, want 0", exporter.Shipped())
	}
	if len(sink.Bytes()) != 0 {
		t.Errorf("sink: got %d bytes, want 0", len(sink.Bytes()))
	}
}

// waitForShipped polls until the exporter has shipped at least want
// frames. The exporter goroutine ships asynchronously after a tick,
// so the test cannot assert immediately after Advance.
func waitForShipped(t *testing.T, exporter *Exporter, want uint64) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for exporter.Shipped() < want {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %d shipped frames, have %d", want, exporter.Shipped())
		}
		time.Sleep(time.Millisecond)
	}
}
