// Copyright 2026 The Comlink Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time abstraction for testability.
//
// Production code accepts a Clock parameter instead of calling time.Now,
// time.After, or time.NewTicker directly. Real() provides the standard
// library behavior. Fake() provides a deterministic clock that advances
// only when Advance is called, which lets tests drive timestamp
// resolution and periodic export loops without sleeping.
//
// # Wiring Pattern
//
// Add a Clock field to structs that use time:
//
//	type Exporter struct {
//	    clock clock.Clock
//	    // ...
//	}
//
// In production:
//
//	e := &Exporter{clock: clock.Real()}
//
// In tests:
//
//	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	e := &Exporter{clock: c}
//	// ... start the flush goroutine ...
//	c.WaitForTimers(1)        // flush loop registered its ticker
//	c.Advance(5 * time.Second) // fire one tick deterministically
package clock
