// Copyright 2026 The Comlink Authors
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"io"
	"log/slog"
	"sync"

	"github.com/comlink-foundation/comlink/lib/clock"
	"github.com/comlink-foundation/comlink/lib/schema/connectivity"
)

// Default capacities. Each log is independently configurable; the
// defaults are deliberately uniform rather than tuned per kind.
const (
	// DefaultEventCapacity bounds each discrete-event log (pair,
	// wake, scan).
	DefaultEventCapacity = 50

	// DefaultSessionCapacity bounds the completed-session log.
	DefaultSessionCapacity = 100
)

// Config holds the construction parameters for an Aggregator. The
// zero value is usable: capacities default as above, the clock
// defaults to real time, and the logger defaults to discarding.
type Config struct {
	// PairEventCapacity, WakeEventCapacity, and ScanEventCapacity
	// bound the respective discrete-event logs. Zero or negative
	// values take DefaultEventCapacity.
	PairEventCapacity int
	WakeEventCapacity int
	ScanEventCapacity int

	// SessionCapacity bounds the completed-session log. Zero or
	// negative values take DefaultSessionCapacity.
	SessionCapacity int

	// Clock stamps events and sessions whose callers pass a zero
	// timestamp, and snapshot capture times. Defaults to Real().
	Clock clock.Clock

	// Logger receives operational messages (absorbed contract skew,
	// snapshot accounting) at debug level. Defaults to discarding.
	Logger *slog.Logger
}

// Aggregator is the process-wide connectivity telemetry aggregator:
// one session tracker plus one bounded event log per discrete event
// kind. All public methods are safe for concurrent use; every
// operation, including WriteSnapshot and Reset, runs under one mutex
// over the entire state.
type Aggregator struct {
	mu sync.Mutex

	clock  clock.Clock
	logger *slog.Logger

	tracker    *SessionTracker
	pairEvents *EventLog[connectivity.PairEvent]
	wakeEvents *EventLog[connectivity.WakeEvent]
	scanEvents *EventLog[connectivity.ScanEvent]

	// sequenceNumber counts drained non-empty snapshots, letting the analytics
	// pipeline detect lost frames. Reset does not rewind it: the
	// pipeline sees a contiguous sequence for the process lifetime.
	sequenceNumber uint64
}

// New creates an Aggregator from the given configuration.
func New(cfg Config) *Aggregator {
	pairCapacity := cfg.PairEventCapacity
	if pairCapacity <= 0 {
		pairCapacity = DefaultEventCapacity
	}
	wakeCapacity := cfg.WakeEventCapacity
	if wakeCapacity <= 0 {
		wakeCapacity = DefaultEventCapacity
	}
	scanCapacity := cfg.ScanEventCapacity
	if scanCapacity <= 0 {
		scanCapacity = DefaultEventCapacity
	}
	sessionCapacity := cfg.SessionCapacity
	if sessionCapacity <= 0 {
		sessionCapacity = DefaultSessionCapacity
	}
	clk := cfg.Clock
	if clk == nil {
		clk = clock.Real()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Aggregator{
		clock:      clk,
		logger:     logger,
		tracker:    NewSessionTracker(sessionCapacity),
		pairEvents: NewEventLog[connectivity.PairEvent](pairCapacity),
		wakeEvents: NewEventLog[connectivity.WakeEvent](wakeCapacity),
		scanEvents: NewEventLog[connectivity.ScanEvent](scanCapacity),
	}
}

// LogPairEvent records one pairing attempt. A zero timestamp is
// stamped with the aggregator's clock.
func (a *Aggregator) LogPairEvent(disconnectReason int64, timestampMS int64, deviceClass int64, deviceType connectivity.DeviceType) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pairEvents.Push(connectivity.PairEvent{
		DisconnectReason: disconnectReason,
		TimestampMS:      a.resolveLocked(timestampMS),
		Device: connectivity.DeviceInfo{
			DeviceClass: deviceClass,
			DeviceType:  deviceType,
		},
	})
}

// LogWakeEvent records one radio wake lock transition. A zero
// timestamp is stamped with the aggregator's clock.
func (a *Aggregator) LogWakeEvent(eventType connectivity.WakeEventType, requestor, name string, timestampMS int64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.wakeEvents.Push(connectivity.WakeEvent{
		Type:        eventType,
		Requestor:   requestor,
		Name:        name,
		TimestampMS: a.resolveLocked(timestampMS),
	})
}

// LogScanEvent records the start (isStart true) or stop of a device
// scan. A zero timestamp is stamped with the aggregator's clock.
func (a *Aggregator) LogScanEvent(isStart bool, initiator string, tech connectivity.ScanTech, resultCount int64, timestampMS int64) {
	eventType := connectivity.ScanEventStop
	if isStart {
		eventType = connectivity.ScanEventStart
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.scanEvents.Push(connectivity.ScanEvent{
		Type:        eventType,
		Initiator:   initiator,
		Technology:  tech,
		ResultCount: resultCount,
		TimestampMS: a.resolveLocked(timestampMS),
	})
}

// LogSessionStart opens a new link session, force-closing any session
// still open. A zero timestamp is stamped with the aggregator's
// clock.
func (a *Aggregator) LogSessionStart(tech connectivity.ConnectionTech, timestampMS int64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.tracker.HasOpen() {
		a.logger.Debug("session start while previous still open, force-closing",
			"technology", tech.String(),
		)
	}
	a.tracker.Start(tech, a.resolveLocked(timestampMS))
}

// LogSessionDeviceInfo records the remote device of the open session.
// Ignored while no session is open.
func (a *Aggregator) LogSessionDeviceInfo(deviceClass int64, deviceType connectivity.DeviceType) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.tracker.SetDeviceInfo(deviceClass, deviceType) {
		a.logger.Debug("device info without open session, ignored",
			"device_type", deviceType.String(),
		)
	}
}

// LogA2DPSession merges a partial streaming-audio measurement into
// the open session. Ignored while no session is open.
func (a *Aggregator) LogA2DPSession(stats connectivity.AudioSessionStats) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.tracker.LogAudioStats(stats) {
		a.logger.Debug("audio stats without open session, ignored")
	}
}

// LogSessionEnd closes the open session with the caller's disconnect
// reason. A zero timestamp is stamped with the aggregator's clock.
// Ignored while no session is open.
func (a *Aggregator) LogSessionEnd(reason string, timestampMS int64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.tracker.End(reason, a.resolveLocked(timestampMS)) {
		a.logger.Debug("session end without open session, ignored",
			"reason", reason,
		)
	}
}

// WriteSnapshot builds a consistent snapshot of the aggregator's
// state: the completed sessions (plus a synthetic METRICS_DUMP record
// for the open session, if any) and the contents of every event log.
//
// With drain set, the completed-session log and all event logs are
// emptied atomically as part of producing the snapshot, and the
// snapshot's sequence number is consumed. The open session is never
// cleared by a drain: its start time, device info, and accumulated
// audio statistics persist, so later dumps keep reporting the
// continuing session while the drained history is considered consumed
// by the exporter.
func (a *Aggregator) WriteSnapshot(drain bool) connectivity.LogSnapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	nowMS := a.clock.Now().UnixMilli()

	snapshot := connectivity.LogSnapshot{
		Sessions:       a.tracker.Completed(drain),
		SequenceNumber: a.sequenceNumber,
		CapturedAtMS:   nowMS,
	}
	if inFlight, ok := a.tracker.PeekSnapshot(nowMS); ok {
		snapshot.Sessions = append(snapshot.Sessions, inFlight)
	}

	if drain {
		snapshot.PairEvents = a.pairEvents.Drain()
		snapshot.WakeEvents = a.wakeEvents.Drain()
		snapshot.ScanEvents = a.scanEvents.Drain()
		// An empty drained snapshot is not shipped, so it does not
		// consume a sequence number: the pipeline sees a contiguous
		// sequence over the frames it actually receives.
		if !snapshot.IsEmpty() {
			a.sequenceNumber++
		}
	} else {
		snapshot.PairEvents = a.pairEvents.Snapshot()
		snapshot.WakeEvents = a.wakeEvents.Snapshot()
		snapshot.ScanEvents = a.scanEvents.Snapshot()
	}

	a.logger.Debug("snapshot written",
		"drain", drain,
		"sequence", snapshot.SequenceNumber,
		"sessions", len(snapshot.Sessions),
		"pair_events", len(snapshot.PairEvents),
		"wake_events", len(snapshot.WakeEvents),
		"scan_events", len(snapshot.ScanEvents),
	)
	return snapshot
}

// Reset unconditionally returns the aggregator to its fully empty
// initial state: no open session, no completed sessions, empty event
// logs. Used for test isolation and process-level reinitialization.
// The drained-snapshot sequence number is preserved.
func (a *Aggregator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.tracker.Reset()
	a.pairEvents.Clear()
	a.wakeEvents.Clear()
	a.scanEvents.Clear()
	a.logger.Debug("aggregator reset")
}

// EvictionCounts reports lifetime evictions per log, for relay status
// output: sustained non-zero growth means a log's capacity is too
// small for the event rate.
func (a *Aggregator) EvictionCounts() (sessions, pair, wake, scan uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.tracker.completed.Evicted(), a.pairEvents.Evicted(), a.wakeEvents.Evicted(), a.scanEvents.Evicted()
}

// resolveLocked substitutes the clock's current time for a zero
// caller timestamp. Callers that track their own monotonic epoch pass
// it through unchanged.
func (a *Aggregator) resolveLocked(timestampMS int64) int64 {
	if timestampMS != 0 {
		return timestampMS
	}
	return a.clock.Now().UnixMilli()
}
