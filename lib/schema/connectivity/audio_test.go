// Copyright 2026 The Comlink Authors
// SPDX-License-Identifier: Apache-2.0

package connectivity

import "testing"

func TestMergeBothPresent(t *testing.T) {
	t.Parallel()
	a := AudioSessionStats{
		AudioDurationMS: 10,
		MediaTimerMinMS: 10,
		MediaTimerMaxMS: 100,
		MediaTimerAvgMS: 50,
		SchedulingCount: 50,
		OverrunMaxCount: 70,
		UnderrunAvg:     80,
		UnderrunCount:   1200,
	}
	b := AudioSessionStats{
		AudioDurationMS: 25,
		MediaTimerMinMS: 25,
		MediaTimerMaxMS: 200,
		MediaTimerAvgMS: 100,
		SchedulingCount: 50,
		OverrunMaxCount: 80,
		UnderrunAvg:     130,
		UnderrunCount:   2400,
	}
	want := AudioSessionStats{
		AudioDurationMS: 35,
		MediaTimerMinMS: 10,
		MediaTimerMaxMS: 200,
		MediaTimerAvgMS: 75,
		SchedulingCount: 100,
		OverrunMaxCount: 80,
		UnderrunAvg:     113.33333333,
		UnderrunCount:   3600,
	}

	got := a.Merge(b)
	if !got.ApproxEqual(want) {
		t.Errorf("Merge: got %+v, want %+v", got, want)
	}
}

func TestMergeIdentity(t *testing.T) {
	t.Parallel()
	x := AudioSessionStats{
		AudioDurationMS: 25,
		MediaTimerMinMS: 25,
		MediaTimerMaxMS: 200,
		MediaTimerAvgMS: 100,
		SchedulingCount: 50,
		OverrunMaxCount: 80,
		UnderrunAvg:     130,
		UnderrunCount:   2400,
	}
	empty := AudioSessionStats{}

	if got := empty.Merge(x); !got.ApproxEqual(x) {
		t.Errorf("empty.Merge(x): got %+v, want %+v", got, x)
	}
	if got := x.Merge(empty); !got.ApproxEqual(x) {
		t.Errorf("x.Merge(empty): got %+v, want %+v", got, x)
	}
	if got := empty.Merge(empty); !got.IsZero() {
		t.Errorf("empty.Merge(empty): got %+v, want zero", got)
	}
}

func TestMergePartialObservations(t *testing.T) {
	t.Parallel()

	// One side reports only a subset of fields. The absent fields on
	// the sparse side must not disturb the dense side, and in
	// particular an average reported without its weight (or a weight
	// without its average) is treated as fully absent.
	a := AudioSessionStats{
		AudioDurationMS: 10,
		MediaTimerMinMS: 10,
		MediaTimerMaxMS: 100,
		MediaTimerAvgMS: 50,
		SchedulingCount: 50,
		OverrunMaxCount: 70,
		UnderrunAvg:     80,
		UnderrunCount:   1200,
	}
	b := AudioSessionStats{
		AudioDurationMS: 25,
		MediaTimerAvgMS: 100, // no SchedulingCount: dropped
		UnderrunCount:   2400, // no UnderrunAvg: dropped
	}
	want := AudioSessionStats{
		AudioDurationMS: 35,
		MediaTimerMinMS: 10,
		MediaTimerMaxMS: 100,
		MediaTimerAvgMS: 50,
		SchedulingCount: 50,
		OverrunMaxCount: 70,
		UnderrunAvg:     80,
		UnderrunCount:   1200,
	}

	got := a.Merge(b)
	if !got.ApproxEqual(want) {
		t.Errorf("Merge: got %+v, want %+v", got, want)
	}
}

func TestMergeSentinelDominance(t *testing.T) {
	t.Parallel()

	// A weight without an average contributes nothing: the combined
	// count stays 1200, not 3600.
	a := AudioSessionStats{UnderrunAvg: 80, UnderrunCount: 1200}
	b := AudioSessionStats{UnderrunCount: 2400}

	got := a.Merge(b)
	if !got.ApproxEqual(a) {
		t.Errorf("Merge: got %+v, want %+v", got, a)
	}
	if got.UnderrunCount != 1200 {
		t.Errorf("UnderrunCount: got %d, want 1200", got.UnderrunCount)
	}
}

func TestMergeCommutative(t *testing.T) {
	t.Parallel()
	a := AudioSessionStats{
		AudioDurationMS: 10,
		MediaTimerMinMS: 10,
		MediaTimerMaxMS: 100,
		MediaTimerAvgMS: 50,
		SchedulingCount: 50,
		OverrunMaxCount: 70,
		OverrunTotal:    5,
		UnderrunAvg:     80,
		UnderrunCount:   1200,
	}
	b := AudioSessionStats{
		AudioDurationMS: 25,
		MediaTimerMinMS: 25,
		MediaTimerMaxMS: 200,
		MediaTimerAvgMS: 100,
		SchedulingCount: 50,
		OverrunMaxCount: 80,
		OverrunTotal:    7,
		UnderrunAvg:     130,
		UnderrunCount:   2400,
	}

	ab := a.Merge(b)
	ba := b.Merge(a)
	if !ab.ApproxEqual(ba) {
		t.Errorf("a.Merge(b) = %+v, b.Merge(a) = %+v", ab, ba)
	}
}

func TestMergeAssociative(t *testing.T) {
	t.Parallel()
	a := AudioSessionStats{
		AudioDurationMS: 10, MediaTimerMinMS: 10, MediaTimerMaxMS: 100,
		MediaTimerAvgMS: 50, SchedulingCount: 50,
		OverrunMaxCount: 70, OverrunTotal: 1,
		UnderrunAvg: 80, UnderrunCount: 1200,
	}
	b := AudioSessionStats{
		AudioDurationMS: 25, MediaTimerMinMS: 25, MediaTimerMaxMS: 200,
		MediaTimerAvgMS: 100, SchedulingCount: 50,
		OverrunMaxCount: 80, OverrunTotal: 2,
		UnderrunAvg: 130, UnderrunCount: 2400,
	}
	c := AudioSessionStats{
		AudioDurationMS: 40, MediaTimerMinMS: 5, MediaTimerMaxMS: 400,
		MediaTimerAvgMS: 20, SchedulingCount: 100,
		OverrunMaxCount: 90, OverrunTotal: 3,
		UnderrunAvg: 10, UnderrunCount: 600,
	}

	left := a.Merge(b).Merge(c)
	right := a.Merge(b.Merge(c))
	if !left.ApproxEqual(right) {
		t.Errorf("(a·b)·c = %+v, a·(b·c) = %+v", left, right)
	}
}

func TestMergeWeightedAverage(t *testing.T) {
	t.Parallel()
	a := AudioSessionStats{MediaTimerAvgMS: 50, SchedulingCount: 50}
	b := AudioSessionStats{MediaTimerAvgMS: 100, SchedulingCount: 50}

	got := a.Merge(b)
	if got.MediaTimerAvgMS != 75 {
		t.Errorf("MediaTimerAvgMS: got %v, want 75", got.MediaTimerAvgMS)
	}
	if got.SchedulingCount != 100 {
		t.Errorf("SchedulingCount: got %d, want 100", got.SchedulingCount)
	}
}

func TestMergeGenuineZeroSum(t *testing.T) {
	t.Parallel()

	// Sum fields use 0 as the natural identity: two absent sides
	// genuinely sum to zero, and only then is zero produced.
	a := AudioSessionStats{OverrunTotal: 3}
	b := AudioSessionStats{OverrunTotal: 4}
	if got := a.Merge(b).OverrunTotal; got != 7 {
		t.Errorf("OverrunTotal: got %d, want 7", got)
	}
}
