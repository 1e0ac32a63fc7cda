// Copyright 2026 The Comlink Authors
// SPDX-License-Identifier: Apache-2.0

// Package metrics implements the in-process connectivity telemetry
// aggregator. Call sites throughout the stack (radio drivers, the
// audio pipeline, the pairing manager) log discrete events and session
// statistics into one Aggregator; a periodic exporter snapshots the
// merged state and hands it to the analytics pipeline.
//
// The Aggregator composes a SessionTracker (the lifecycle of the one
// open link session) with one bounded EventLog per discrete event kind.
// All state sits behind a single mutex, so a snapshot always observes
// a serializable interleaving of completed log calls; no event or
// half-merged statistic is ever torn across a snapshot boundary.
//
// The Aggregator is an explicitly constructed, dependency-injected
// value. The composition root (cmd/comlink-metrics-relay) builds it
// and installs it as the process-wide instance with SetDefault;
// subsystems that cannot take an injected aggregator reach it through
// Default, in the manner of slog.Default.
package metrics
