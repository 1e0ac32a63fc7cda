// Copyright 2026 The Comlink Authors
// SPDX-License-Identifier: Apache-2.0

// Package export frames encoded telemetry snapshots for the analytics
// pipeline. A frame is self-describing and self-verifying: a fixed
// header carries the format version, the compression algorithm, the
// payload lengths, and a keyed BLAKE3 digest of the uncompressed CBOR
// payload. A sink file is simply a concatenation of frames, readable
// one DecodeFrame call at a time.
//
// The aggregator itself never encodes anything; it hands the exporter
// a connectivity.LogSnapshot value and this package takes it from
// there (lib/codec for CBOR, lz4 or zstd for compression).
package export
