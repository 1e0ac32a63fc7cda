// Copyright 2026 The Comlink Authors
// SPDX-License-Identifier: Apache-2.0

// comlink-metrics-relay is the composition root for the connectivity
// telemetry aggregator. It owns the process-wide Aggregator instance,
// runs the periodic exporter that drains snapshots into framed CBOR
// records, and appends those frames to the configured sink file for
// the analytics pipeline to collect.
//
// Configuration comes from a single YAML file named by --config or
// the COMLINK_RELAY_CONFIG environment variable. There is no
// discovery or fallback: deterministic configuration with no hidden
// overrides.
package main
