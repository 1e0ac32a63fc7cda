// Copyright 2026 The Comlink Authors
// SPDX-License-Identifier: Apache-2.0

package export

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/zeebo/blake3"

	"github.com/comlink-foundation/comlink/lib/codec"
	"github.com/comlink-foundation/comlink/lib/schema/connectivity"
)

// Frame format, all integers big-endian:
//
//	offset  size  field
//	0       4     magic "CLMF"
//	4       1     format version (currently 1)
//	5       1     compression tag
//	6       32    keyed BLAKE3 digest of the uncompressed CBOR payload
//	38      4     uncompressed payload length
//	42      4     stored (possibly compressed) payload length
//	46      n     payload
const (
	frameVersion    = 1
	frameHeaderSize = 4 + 1 + 1 + 32 + 4 + 4
)

// MaxFrameSize bounds the uncompressed and stored payload lengths a
// frame may declare. Snapshots are capacity-bounded and encode to a
// few kilobytes, so the limit is generous; it exists so a corrupted
// length field in a sink file cannot force a huge allocation before
// the digest is ever checked.
const MaxFrameSize = 1 << 20

// frameMagic marks the start of every frame. Readers resynchronizing
// on a truncated sink can scan for it.
var frameMagic = [4]byte{'C', 'L', 'M', 'F'}

// snapshotDomainKey is the BLAKE3 keyed-hash domain for snapshot
// payloads. Domain separation keeps snapshot digests distinct from
// any other Comlink hash of the same bytes. The byte values are the
// ASCII encoding of the domain name, zero-padded to 32 bytes, which
// keeps the key inspectable in hex dumps without sacrificing any
// cryptographic property.
var snapshotDomainKey = [32]byte{
	'c', 'o', 'm', 'l', 'i', 'n', 'k', '.', 'm', 'e', 't', 'r', 'i', 'c', 's', '.',
	's', 'n', 'a', 'p', 's', 'h', 'o', 't', 0, 0, 0, 0, 0, 0, 0, 0,
}

// ErrDigestMismatch is returned by DecodeFrame when the payload
// digest does not match the header: the frame was corrupted in
// transit or at rest.
var ErrDigestMismatch = errors.New("export: frame digest mismatch")

// digest computes the snapshot-domain keyed BLAKE3 digest of data.
func digest(data []byte) [32]byte {
	hasher, err := blake3.NewKeyed(snapshotDomainKey[:])
	if err != nil {
		// NewKeyed fails only on a wrong key length, which is a
		// compile-time constant here.
		panic("export: blake3 keyed hasher initialization failed: " + err.Error())
	}
	hasher.Write(data)
	var out [32]byte
	hasher.Sum(out[:0])
	return out
}

// EncodeFrame encodes a snapshot as CBOR and wraps it in a framed,
// digest-protected, optionally compressed record. When the requested
// compression does not shrink the payload, the frame silently falls
// back to storing it uncompressed; the header records what was
// actually stored.
func EncodeFrame(snapshot connectivity.LogSnapshot, tag CompressionTag) ([]byte, error) {
	payload, err := codec.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	if len(payload) > MaxFrameSize {
		return nil, fmt.Errorf("snapshot payload %d bytes exceeds frame limit %d", len(payload), MaxFrameSize)
	}

	stored, err := compress(payload, tag)
	if errors.Is(err, errIncompressible) {
		stored = payload
		tag = CompressionNone
	} else if err != nil {
		return nil, fmt.Errorf("compressing snapshot: %w", err)
	}

	payloadDigest := digest(payload)

	frame := make([]byte, 0, frameHeaderSize+len(stored))
	frame = append(frame, frameMagic[:]...)
	frame = append(frame, frameVersion, byte(tag))
	frame = append(frame, payloadDigest[:]...)
	frame = binary.BigEndian.AppendUint32(frame, uint32(len(payload)))
	frame = binary.BigEndian.AppendUint32(frame, uint32(len(stored)))
	frame = append(frame, stored...)
	return frame, nil
}

// DecodeFrame decodes the first frame in data, verifies its digest,
// and returns the snapshot along with the bytes remaining after the
// frame. A sink file decodes by calling DecodeFrame repeatedly until
// no bytes remain.
func DecodeFrame(data []byte) (connectivity.LogSnapshot, []byte, error) {
	var zero connectivity.LogSnapshot

	if len(data) < frameHeaderSize {
		return zero, nil, fmt.Errorf("frame header truncated: %d bytes", len(data))
	}
	if !bytes.Equal(data[:4], frameMagic[:]) {
		return zero, nil, fmt.Errorf("bad frame magic: % x", data[:4])
	}
	if version := data[4]; version != frameVersion {
		return zero, nil, fmt.Errorf("unsupported frame version: %d", version)
	}
	tag := CompressionTag(data[5])

	var wantDigest [32]byte
	copy(wantDigest[:], data[6:38])
	uncompressedSize := int(binary.BigEndian.Uint32(data[38:42]))
	storedSize := int(binary.BigEndian.Uint32(data[42:46]))

	// Reject declared sizes before allocating anything from them.
	// The digest cannot vouch for the header, so a flipped length
	// byte must not translate into an arbitrarily large buffer.
	if uncompressedSize > MaxFrameSize {
		return zero, nil, fmt.Errorf("frame declares uncompressed size %d, limit %d", uncompressedSize, MaxFrameSize)
	}
	if storedSize > MaxFrameSize {
		return zero, nil, fmt.Errorf("frame declares stored size %d, limit %d", storedSize, MaxFrameSize)
	}

	if len(data) < frameHeaderSize+storedSize {
		return zero, nil, fmt.Errorf("frame payload truncated: have %d bytes, header claims %d",
			len(data)-frameHeaderSize, storedSize)
	}
	stored := data[frameHeaderSize : frameHeaderSize+storedSize]
	rest := data[frameHeaderSize+storedSize:]

	payload, err := decompress(stored, tag, uncompressedSize)
	if err != nil {
		return zero, nil, err
	}
	if digest(payload) != wantDigest {
		return zero, nil, ErrDigestMismatch
	}

	var snapshot connectivity.LogSnapshot
	if err := codec.Unmarshal(payload, &snapshot); err != nil {
		return zero, nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	return snapshot, rest, nil
}
