// Copyright 2026 The Comlink Authors
// SPDX-License-Identifier: Apache-2.0

package connectivity

import "fmt"

// ConnectionTech identifies the radio technology a link session ran
// over.
type ConnectionTech int

const (
	ConnectionTechUnknown ConnectionTech = 0
	ConnectionTechBREDR   ConnectionTech = 1
	ConnectionTechLE      ConnectionTech = 2
)

// String returns the human-readable name of a connection technology.
func (t ConnectionTech) String() string {
	switch t {
	case ConnectionTechUnknown:
		return "unknown"
	case ConnectionTechBREDR:
		return "bredr"
	case ConnectionTechLE:
		return "le"
	default:
		return fmt.Sprintf("connection_tech(%d)", int(t))
	}
}

// Disconnect reason sentinels. Ordinary sessions carry the disconnect
// reason string supplied by the caller at session end; these two
// values are reserved for records the aggregator synthesizes itself.
const (
	// DisconnectReasonMetricsDump marks the synthetic record emitted
	// for a still-open session when a snapshot is taken. The session
	// itself keeps accumulating; the record reports its state so far.
	DisconnectReasonMetricsDump = "METRICS_DUMP"

	// DisconnectReasonNextSessionStarted marks a session that was
	// force-closed because a new session started before the previous
	// one ended.
	DisconnectReasonNextSessionStarted = "NEXT_SESSION_START_WITHOUT_ENDING_PREVIOUS"
)

// SessionRecord is one completed (or synthetically dumped) link
// session. Records in a snapshot are immutable values: the optional
// Device and Audio fields point at copies owned by the record, never
// at the aggregator's live state.
type SessionRecord struct {
	// Technology is the radio technology the session ran over.
	Technology ConnectionTech `json:"connection_technology_type"`

	// DurationSec is the session length in whole seconds, derived
	// from the start and end (or dump) timestamps.
	DurationSec int64 `json:"session_duration_sec"`

	// DisconnectReason is the caller-supplied reason the session
	// ended, or one of the synthetic sentinels above.
	DisconnectReason string `json:"disconnect_reason"`

	// StartedAtMS is the session start time in milliseconds.
	StartedAtMS int64 `json:"start_time_millis,omitempty"`

	// Device identifies the remote device, when the stack reported
	// one before the session closed.
	Device *DeviceInfo `json:"device_connected_to,omitempty"`

	// Audio holds the merged streaming-audio statistics, when the
	// audio pipeline reported any during the session.
	Audio *AudioSessionStats `json:"a2dp_session,omitempty"`
}

// Clone returns a copy of the record whose Device and Audio fields
// point at fresh copies, so the caller can mutate the result without
// touching the source.
func (r SessionRecord) Clone() SessionRecord {
	if r.Device != nil {
		device := *r.Device
		r.Device = &device
	}
	if r.Audio != nil {
		audio := *r.Audio
		r.Audio = &audio
	}
	return r
}

// LogSnapshot is a consistent read of the aggregator's state: the
// completed sessions (plus a trailing synthetic record for an open
// session, if any) and the per-kind discrete event lists, all in
// insertion order.
type LogSnapshot struct {
	// Sessions are completed session records, oldest first. If a
	// session was open at snapshot time, its METRICS_DUMP record is
	// the final entry.
	Sessions []SessionRecord `json:"session,omitempty"`

	// PairEvents, WakeEvents, and ScanEvents are the discrete event
	// lists, oldest first.
	PairEvents []PairEvent `json:"pair_event,omitempty"`
	WakeEvents []WakeEvent `json:"wake_event,omitempty"`
	ScanEvents []ScanEvent `json:"scan_event,omitempty"`

	// SequenceNumber counts drained non-empty snapshots.
	// Consecutive shipped snapshots carry consecutive numbers,
	// letting the pipeline detect lost frames. Non-draining
	// snapshots repeat the number the next drain will use.
	SequenceNumber uint64 `json:"sequence_number"`

	// CapturedAtMS is the aggregator clock reading when the snapshot
	// was taken, in milliseconds.
	CapturedAtMS int64 `json:"captured_at_millis,omitempty"`
}

// IsEmpty reports whether the snapshot carries no session records and
// no events. The exporter skips empty snapshots rather than shipping
// frames with nothing in them.
func (s LogSnapshot) IsEmpty() bool {
	return len(s.Sessions) == 0 &&
		len(s.PairEvents) == 0 &&
		len(s.WakeEvents) == 0 &&
		len(s.ScanEvents) == 0
}
