// Copyright 2026 The Comlink Authors
// SPDX-License-Identifier: Apache-2.0

// Package connectivity defines Comlink's connectivity telemetry data
// types: link sessions, streaming-audio session statistics, discrete
// events (pairing, radio wake, scanning), and the snapshot handed to
// the analytics pipeline.
//
// All types are plain values. The aggregator copies them in and out by
// value; a snapshot never aliases the aggregator's internal storage.
// Types carry json struct tags, which also name the CBOR fields via
// the fxamacker json-tag fallback (see lib/codec).
//
// The value 0 is the "no observation" sentinel throughout
// AudioSessionStats: a zero field contributed nothing and acts as the
// identity element of the merge algebra.
package connectivity
