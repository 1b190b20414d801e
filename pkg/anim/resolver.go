package anim

import (
	"sort"

	"github.com/teslashibe/go-avatar/pkg/easing"
)

// Value is one keyframe value on an instance: a concrete number, a lazy
// producer, or a deferred marker filled with the channel's live value
// when the scheduler first processes the instance.
type Value struct {
	num      float64
	fn       func() float64
	deferred bool
}

// Fixed wraps a concrete number as a Value.
func Fixed(v float64) Value { return Value{num: v} }

// Lazy wraps a producer function as a Value.
func Lazy(fn func() float64) Value { return Value{fn: fn} }

// Deferred returns a value that must be filled at scheduling time.
func Deferred() Value { return Value{deferred: true} }

// Get resolves the value, calling the producer if present.
func (v Value) Get() float64 {
	if v.fn != nil {
		return v.fn()
	}
	return v.num
}

// IsDeferred reports whether the value still needs its live fill.
func (v Value) IsDeferred() bool { return v.deferred }

// Resolve interpolates the value of the series (ts, vs) at time t.
// ts must be non-decreasing and len(vs) == len(ts) >= 1. Before ts[0]
// the first value is returned, after the last timestamp the last value.
// Inside a segment the value is v0 + k*ease(x)*(t-t0) where k is the
// linear slope and x the normalized position in the segment; a nil ease
// gives plain linear interpolation.
//
// Pure function of its inputs: safe to call every frame without drift.
func Resolve(ts []float64, vs []Value, t float64, ease easing.Func) float64 {
	if len(ts) == 0 {
		return 0
	}
	if t <= ts[0] {
		return vs[0].Get()
	}
	last := len(ts) - 1
	if t >= ts[last] {
		return vs[last].Get()
	}

	// First index with ts[i] > t; the bracketing segment is [i-1, i].
	i := sort.Search(len(ts), func(i int) bool { return ts[i] > t })
	t0, t1 := ts[i-1], ts[i]
	v0, v1 := vs[i-1].Get(), vs[i].Get()
	if t1 == t0 {
		return v1
	}
	k := (v1 - v0) / (t1 - t0)
	if ease == nil {
		return v0 + k*(t-t0)
	}
	x := (t - t0) / (t1 - t0)
	return v0 + k*ease(x)*(t-t0)
}
