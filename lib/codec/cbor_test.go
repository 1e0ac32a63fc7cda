// Copyright 2026 The Comlink Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"testing"
)

// sampleRecord mirrors the schema convention: json tags only, with
// fxamacker's json-tag fallback naming the CBOR fields.
type sampleRecord struct {
	Technology int    `json:"connection_technology_type"`
	Reason     string `json:"disconnect_reason"`
	Duration   int64  `json:"session_duration_sec,omitempty"`
}

func TestMarshalUnmarshalRoundtrip(t *testing.T) {
	t.Parallel()
	original := sampleRecord{
		Technology: 2,
		Reason:     "TEST_DISCONNECT",
		Duration:   42,
	}

	data, err := Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("Marshal produced empty output")
	}

	var decoded sampleRecord
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded != original {
		t.Errorf("roundtrip mismatch: got %+v, want %+v", decoded, original)
	}
}

func TestMarshalDeterministic(t *testing.T) {
	t.Parallel()
	record := sampleRecord{Technology: 1, Reason: "METRICS_DUMP", Duration: 7}

	first, err := Marshal(record)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	second, err := Marshal(record)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Errorf("deterministic encoding violated: %x vs %x", first, second)
	}
}

func TestUnmarshalIgnoresUnknownFields(t *testing.T) {
	t.Parallel()

	// Encode a map with an extra field a current sampleRecord does
	// not declare. Decoding must succeed and ignore it.
	data, err := Marshal(map[string]any{
		"connection_technology_type": 1,
		"disconnect_reason":          "x",
		"future_field":               true,
	})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded sampleRecord
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal with unknown field: %v", err)
	}
	if decoded.Technology != 1 || decoded.Reason != "x" {
		t.Errorf("decoded fields wrong: %+v", decoded)
	}
}

func TestDefaultMapTypeIsStringKeyed(t *testing.T) {
	t.Parallel()

	data, err := Marshal(map[string]any{"outer": map[string]any{"inner": 1}})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded any
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	outer, ok := decoded.(map[string]any)
	if !ok {
		t.Fatalf("decoded type: got %T, want map[string]any", decoded)
	}
	if _, ok := outer["outer"].(map[string]any); !ok {
		t.Fatalf("nested type: got %T, want map[string]any", outer["outer"])
	}
}
