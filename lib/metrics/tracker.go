// Copyright 2026 The Comlink Authors
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"github.com/comlink-foundation/comlink/lib/schema/connectivity"
)

// SessionTracker owns the lifecycle of the current link session: at
// most one session is open (accumulating) at any time, and every
// other session it has seen is a terminal record in the completed
// log.
//
// The tracker tolerates caller-contract skew: the surrounding stack
// cannot guarantee strict ordering of start/end calls across
// subsystems, so an open-only operation arriving while no session is
// open is absorbed as a no-op rather than failing.
//
// Not internally locked; the Aggregator serializes access.
type SessionTracker struct {
	open      *openSession
	completed *EventLog[connectivity.SessionRecord]
}

// openSession is the accumulating state of the one open session. The
// device and audio fields start nil and are populated as the stack
// reports them.
type openSession struct {
	technology  connectivity.ConnectionTech
	startedAtMS int64
	device      *connectivity.DeviceInfo
	audio       *connectivity.AudioSessionStats
}

// NewSessionTracker creates a tracker whose completed-session log
// holds at most completedCapacity records, evicting the oldest when
// full.
func NewSessionTracker(completedCapacity int) *SessionTracker {
	return &SessionTracker{
		completed: NewEventLog[connectivity.SessionRecord](completedCapacity),
	}
}

// Start opens a new session. If a session is already open it is
// force-closed first: appended to the completed log with the
// NEXT_SESSION_START_WITHOUT_ENDING_PREVIOUS sentinel and a duration
// measured from its own start to the new session's start.
func (t *SessionTracker) Start(tech connectivity.ConnectionTech, timestampMS int64) {
	if t.open != nil {
		t.completed.Push(t.closeRecord(connectivity.DisconnectReasonNextSessionStarted, timestampMS))
	}
	t.open = &openSession{
		technology:  tech,
		startedAtMS: timestampMS,
	}
}

// SetDeviceInfo records the remote device of the open session. Last
// write wins. No-op while idle.
func (t *SessionTracker) SetDeviceInfo(deviceClass int64, deviceType connectivity.DeviceType) bool {
	if t.open == nil {
		return false
	}
	t.open.device = &connectivity.DeviceInfo{
		DeviceClass: deviceClass,
		DeviceType:  deviceType,
	}
	return true
}

// LogAudioStats merges a partial streaming-audio measurement into the
// open session's accumulated statistics. No-op while idle.
func (t *SessionTracker) LogAudioStats(stats connectivity.AudioSessionStats) bool {
	if t.open == nil {
		return false
	}
	if t.open.audio == nil {
		t.open.audio = &connectivity.AudioSessionStats{}
	}
	merged := t.open.audio.Merge(stats)
	t.open.audio = &merged
	return true
}

// End closes the open session with the caller's disconnect reason and
// a duration measured from the session start to timestampMS, appends
// it to the completed log, and returns the tracker to idle. No-op
// while idle.
func (t *SessionTracker) End(reason string, timestampMS int64) bool {
	if t.open == nil {
		return false
	}
	t.completed.Push(t.closeRecord(reason, timestampMS))
	t.open = nil
	return true
}

// PeekSnapshot returns a synthetic record for the still-open session
// with the METRICS_DUMP sentinel and a duration up to nowMS. The open
// session itself is untouched: it keeps its start time, device info,
// and accumulated statistics. The second return is false while idle.
func (t *SessionTracker) PeekSnapshot(nowMS int64) (connectivity.SessionRecord, bool) {
	if t.open == nil {
		return connectivity.SessionRecord{}, false
	}
	return t.closeRecord(connectivity.DisconnectReasonMetricsDump, nowMS), true
}

// HasOpen reports whether a session is currently accumulating.
func (t *SessionTracker) HasOpen() bool { return t.open != nil }

// Completed returns the completed-session records in insertion order.
// With drain set, the completed log is emptied; the open session, if
// any, is unaffected either way. Returned records never alias the
// log's storage: a non-draining snapshot deep-copies each record's
// Device and Audio values, and a drain leaves the log holding nothing
// the returned slice could share.
func (t *SessionTracker) Completed(drain bool) []connectivity.SessionRecord {
	if drain {
		return t.completed.Drain()
	}
	records := t.completed.Snapshot()
	for i := range records {
		records[i] = records[i].Clone()
	}
	return records
}

// Reset discards the open session and the completed log, returning
// the tracker to its initial empty state.
func (t *SessionTracker) Reset() {
	t.open = nil
	t.completed.Clear()
}

// closeRecord builds the terminal record for the open session with
// the given reason and end time. The device and audio values are
// copied so the record never aliases the live session state. A caller
// timestamp earlier than the session start clamps the duration to
// zero rather than exporting a negative length.
func (t *SessionTracker) closeRecord(reason string, endMS int64) connectivity.SessionRecord {
	durationMS := endMS - t.open.startedAtMS
	if durationMS < 0 {
		durationMS = 0
	}
	record := connectivity.SessionRecord{
		Technology:       t.open.technology,
		DurationSec:      durationMS / 1000,
		DisconnectReason: reason,
		StartedAtMS:      t.open.startedAtMS,
	}
	if t.open.device != nil {
		device := *t.open.device
		record.Device = &device
	}
	if t.open.audio != nil {
		audio := *t.open.audio
		record.Audio = &audio
	}
	return record
}
