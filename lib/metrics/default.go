// Copyright 2026 The Comlink Authors
// SPDX-License-Identifier: Apache-2.0

package metrics

import "sync"

var (
	defaultMu         sync.RWMutex
	defaultAggregator *Aggregator
)

// Default returns the process-wide aggregator installed by
// SetDefault, or nil before the composition root has installed one.
// Connectivity subsystems compiled into the relay process log through
// this instance rather than threading the aggregator through every
// call site.
func Default() *Aggregator {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultAggregator
}

// SetDefault installs the process-wide aggregator. Called once by the
// composition root during startup.
func SetDefault(aggregator *Aggregator) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultAggregator = aggregator
}
