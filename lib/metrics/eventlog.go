// Copyright 2026 The Comlink Authors
// SPDX-License-Identifier: Apache-2.0

package metrics

import "fmt"

// EventLog is a fixed-capacity, insertion-ordered buffer of event
// records. Push appends to the tail and never fails: when the log is
// full the oldest entry is evicted first. Eviction is the designed
// response to an unbounded event stream, not an error; recency wins
// over completeness in fixed memory.
//
// EventLog is not internally locked. The Aggregator serializes all
// access under its own mutex, which is the single mutual-exclusion
// domain for the whole telemetry state.
type EventLog[T any] struct {
	entries []T
	// head is the index of the oldest entry within the circular
	// entries slice. Valid only once len(entries) == capacity.
	head     int
	count    int
	capacity int
	evicted  uint64
}

// NewEventLog creates an event log holding at most capacity entries.
// Panics if capacity is not positive; capacity is a construction-time
// deployment parameter, and zero would make every Push a silent drop.
func NewEventLog[T any](capacity int) *EventLog[T] {
	if capacity <= 0 {
		panic(fmt.Sprintf("metrics: event log capacity must be positive, got %d", capacity))
	}
	return &EventLog[T]{
		entries:  make([]T, capacity),
		capacity: capacity,
	}
}

// Push appends an event to the tail, evicting the oldest entry if the
// log is at capacity.
func (l *EventLog[T]) Push(event T) {
	if l.count == l.capacity {
		l.entries[l.head] = event
		l.head = (l.head + 1) % l.capacity
		l.evicted++
		return
	}
	l.entries[(l.head+l.count)%l.capacity] = event
	l.count++
}

// Snapshot returns a copy of the current contents in insertion order,
// leaving the log untouched. Returns nil when the log is empty.
func (l *EventLog[T]) Snapshot() []T {
	if l.count == 0 {
		return nil
	}
	out := make([]T, l.count)
	for i := 0; i < l.count; i++ {
		out[i] = l.entries[(l.head+i)%l.capacity]
	}
	return out
}

// Drain returns the current contents in insertion order and empties
// the log. Returns nil when the log is empty.
func (l *EventLog[T]) Drain() []T {
	out := l.Snapshot()
	l.Clear()
	return out
}

// Clear empties the log. The lifetime eviction counter is preserved.
func (l *EventLog[T]) Clear() {
	var zero T
	for i := range l.entries {
		l.entries[i] = zero
	}
	l.head = 0
	l.count = 0
}

// Len returns the number of entries currently held.
func (l *EventLog[T]) Len() int { return l.count }

// Capacity returns the fixed capacity set at construction.
func (l *EventLog[T]) Capacity() int { return l.capacity }

// Evicted returns the number of entries dropped over the log's
// lifetime. Survives Clear and Drain so operators can see sustained
// overflow in relay status output.
func (l *EventLog[T]) Evicted() uint64 { return l.evicted }
