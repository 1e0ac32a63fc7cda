// Copyright 2026 The Comlink Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides Comlink's standard CBOR encoding configuration.
//
// Snapshots handed to the analytics pipeline are encoded as CBOR. This
// package provides the shared encoding and decoding modes so that every
// Comlink package encodes identically without duplicating configuration.
// The encoder uses Core Deterministic Encoding (RFC 8949 §4.2): sorted
// map keys, smallest integer encoding, no indefinite-length items. Same
// logical data always produces identical bytes, which keeps snapshot
// frames reproducible and their integrity digests stable.
//
// For buffer-oriented operations (frames, files):
//
//	data, err := codec.Marshal(value)
//	err = codec.Unmarshal(data, &value)
//
// For stream-oriented operations (sockets, pipes):
//
//	encoder := codec.NewEncoder(conn)
//	decoder := codec.NewDecoder(conn)
//
// Schema types carry `json` struct tags. fxamacker/cbor v2 reads json
// tags as fallback when cbor tags are absent, so a single json tag
// controls field naming and omitempty for both formats. The same types
// serve CBOR export frames and JSON debug output.
package codec
