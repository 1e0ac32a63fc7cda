// Copyright 2026 The Comlink Authors
// SPDX-License-Identifier: Apache-2.0

package connectivity

import "math"

// AverageEpsilon is the absolute tolerance for comparing the floating
// point average fields of two AudioSessionStats. Averages accumulate
// through repeated weighted merges, so exact equality is too strict
// for round-tripped or independently computed values.
const AverageEpsilon = 0.01

// AudioSessionStats holds the running statistics of one streaming-audio
// session. Call sites in the audio pipeline report partial measurements
// repeatedly; Merge combines them into a single record.
//
// Every field uses 0 as the "no observation" sentinel. A zero value on
// one side of a Merge contributes nothing for that field, which makes
// the all-zero record the identity element: merging it into anything
// changes nothing.
type AudioSessionStats struct {
	// AudioDurationMS is the total audio playback duration. Summed
	// across merges.
	AudioDurationMS int64 `json:"audio_duration_millis,omitempty"`

	// MediaTimerMinMS and MediaTimerMaxMS are the extremes of the
	// media timer interval observed so far. Merges keep the overall
	// minimum and maximum, ignoring absent (zero) sides.
	MediaTimerMinMS int64 `json:"media_timer_min_millis,omitempty"`
	MediaTimerMaxMS int64 `json:"media_timer_max_millis,omitempty"`

	// MediaTimerAvgMS is the average media timer interval, weighted
	// by SchedulingCount. A side with a zero average or a zero count
	// is dropped entirely from a merge: its count does not inflate
	// the combined weight.
	MediaTimerAvgMS float64 `json:"media_timer_avg_millis,omitempty"`
	SchedulingCount int64   `json:"total_scheduling_count,omitempty"`

	// OverrunMaxCount is the largest single buffer overrun observed.
	// Merges keep the maximum, ignoring absent sides.
	OverrunMaxCount int64 `json:"buffer_overruns_max_count,omitempty"`

	// OverrunTotal is the total number of buffer overruns. Summed
	// across merges.
	OverrunTotal int64 `json:"buffer_overruns_total,omitempty"`

	// UnderrunAvg is the average buffer underrun depth, weighted by
	// UnderrunCount. Same absence rule as MediaTimerAvgMS.
	UnderrunAvg   float64 `json:"buffer_underruns_average,omitempty"`
	UnderrunCount int64   `json:"buffer_underruns_count,omitempty"`
}

// IsZero reports whether the record carries no observations at all.
func (s AudioSessionStats) IsZero() bool {
	return s == AudioSessionStats{}
}

// Merge combines two statistic records into one. The operation is a
// coalesce-or-combine per field: where one side is absent (zero) the
// other side's value carries through, and where both are present the
// field's combination rule applies. On present fields the operation is
// associative and commutative, so repeated partial merges are
// order-independent.
func (s AudioSessionStats) Merge(other AudioSessionStats) AudioSessionStats {
	timer := mergeWeighted(
		weighted{average: s.MediaTimerAvgMS, count: s.SchedulingCount},
		weighted{average: other.MediaTimerAvgMS, count: other.SchedulingCount},
	)
	underrun := mergeWeighted(
		weighted{average: s.UnderrunAvg, count: s.UnderrunCount},
		weighted{average: other.UnderrunAvg, count: other.UnderrunCount},
	)

	return AudioSessionStats{
		AudioDurationMS: s.AudioDurationMS + other.AudioDurationMS,
		MediaTimerMinMS: mergeExtremum(s.MediaTimerMinMS, other.MediaTimerMinMS, lesser),
		MediaTimerMaxMS: mergeExtremum(s.MediaTimerMaxMS, other.MediaTimerMaxMS, greater),
		MediaTimerAvgMS: timer.average,
		SchedulingCount: timer.count,
		OverrunMaxCount: mergeExtremum(s.OverrunMaxCount, other.OverrunMaxCount, greater),
		OverrunTotal:    s.OverrunTotal + other.OverrunTotal,
		UnderrunAvg:     underrun.average,
		UnderrunCount:   underrun.count,
	}
}

// ApproxEqual reports whether two records are equal, comparing the
// floating point average fields within AverageEpsilon and everything
// else exactly.
func (s AudioSessionStats) ApproxEqual(other AudioSessionStats) bool {
	return s.AudioDurationMS == other.AudioDurationMS &&
		s.MediaTimerMinMS == other.MediaTimerMinMS &&
		s.MediaTimerMaxMS == other.MediaTimerMaxMS &&
		math.Abs(s.MediaTimerAvgMS-other.MediaTimerAvgMS) <= AverageEpsilon &&
		s.SchedulingCount == other.SchedulingCount &&
		s.OverrunMaxCount == other.OverrunMaxCount &&
		s.OverrunTotal == other.OverrunTotal &&
		math.Abs(s.UnderrunAvg-other.UnderrunAvg) <= AverageEpsilon &&
		s.UnderrunCount == other.UnderrunCount
}

// weighted is an average paired with the observation count that
// weights it. It makes absence explicit: a pair missing either half
// is not a partial observation, it is no observation.
type weighted struct {
	average float64
	count   int64
}

// present reports whether the pair carries an observation. An average
// without a count (or a count without an average) is treated as fully
// absent; the sentinel convention cannot distinguish "average zero"
// from "never measured", so a zero on either half withdraws the pair.
func (w weighted) present() bool {
	return w.average != 0 && w.count != 0
}

// mergeWeighted combines two weighted averages. An absent side is
// dropped entirely: its count contributes nothing to the combined
// weight. When both sides are present the result is the
// count-weighted mean with the counts summed.
func mergeWeighted(a, b weighted) weighted {
	switch {
	case !a.present() && !b.present():
		return weighted{}
	case !a.present():
		return b
	case !b.present():
		return a
	}
	total := a.count + b.count
	return weighted{
		average: (a.average*float64(a.count) + b.average*float64(b.count)) / float64(total),
		count:   total,
	}
}

// mergeExtremum combines two extremum fields, ignoring the zero
// sentinel: an absent side yields the other side's value, and two
// present sides are combined with pick (min or max).
func mergeExtremum(a, b int64, pick func(int64, int64) int64) int64 {
	switch {
	case a == 0:
		return b
	case b == 0:
		return a
	}
	return pick(a, b)
}

func lesser(a, b int64) int64 { return min(a, b) }

func greater(a, b int64) int64 { return max(a, b) }
