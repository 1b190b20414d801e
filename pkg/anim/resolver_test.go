package anim

import (
	"math"
	"testing"

	"github.com/teslashibe/go-avatar/pkg/easing"
)

func TestResolveClampsOutsideSeries(t *testing.T) {
	ts := []float64{100, 200, 300}
	vs := []Value{Fixed(1), Fixed(5), Fixed(2)}

	if got := Resolve(ts, vs, 50, nil); got != 1 {
		t.Errorf("before first = %v, want 1", got)
	}
	if got := Resolve(ts, vs, 100, nil); got != 1 {
		t.Errorf("at first = %v, want 1", got)
	}
	if got := Resolve(ts, vs, 300, nil); got != 2 {
		t.Errorf("at last = %v, want 2", got)
	}
	if got := Resolve(ts, vs, 1000, nil); got != 2 {
		t.Errorf("after last = %v, want 2", got)
	}
}

func TestResolveLinear(t *testing.T) {
	ts := []float64{0, 100}
	vs := []Value{Fixed(0), Fixed(10)}
	if got := Resolve(ts, vs, 50, nil); math.Abs(got-5) > 1e-12 {
		t.Errorf("linear midpoint = %v, want 5", got)
	}
	if got := Resolve(ts, vs, 25, nil); math.Abs(got-2.5) > 1e-12 {
		t.Errorf("linear quarter = %v, want 2.5", got)
	}
}

func TestResolveEasedHitsKeyframes(t *testing.T) {
	ts := []float64{0, 100, 200}
	vs := []Value{Fixed(0), Fixed(1), Fixed(-1)}
	ease := easing.Sigmoid(5)

	// Interior keyframes resolve to exactly their value.
	if got := Resolve(ts, vs, 100, ease); math.Abs(got-1) > 1e-12 {
		t.Errorf("at interior keyframe = %v, want 1", got)
	}
	// Between keyframes the eased value stays inside the segment range.
	got := Resolve(ts, vs, 50, ease)
	if got <= 0 || got >= 1 {
		t.Errorf("eased mid-segment = %v, want in (0,1)", got)
	}
}

func TestResolveMonotonicWithinSegment(t *testing.T) {
	ts := []float64{0, 1000}
	vs := []Value{Fixed(0), Fixed(1)}
	ease := easing.Sigmoid(5)
	prev := -1.0
	for i := 0; i <= 100; i++ {
		v := Resolve(ts, vs, float64(i)*10, ease)
		if v < prev {
			t.Fatalf("not monotonic at t=%d: %v < %v", i*10, v, prev)
		}
		prev = v
	}
}

func TestResolveLazyValue(t *testing.T) {
	calls := 0
	ts := []float64{0, 100}
	vs := []Value{Fixed(0), Lazy(func() float64 { calls++; return 4 })}
	if got := Resolve(ts, vs, 50, nil); math.Abs(got-2) > 1e-12 {
		t.Errorf("lazy midpoint = %v, want 2", got)
	}
	if calls == 0 {
		t.Error("producer was not called")
	}
	// Producers are re-read every resolve.
	Resolve(ts, vs, 60, nil)
	if calls < 2 {
		t.Error("producer not re-read on second resolve")
	}
}

func TestResolveEmpty(t *testing.T) {
	if got := Resolve(nil, nil, 10, nil); got != 0 {
		t.Errorf("empty series = %v, want 0", got)
	}
}

func TestResolveCoincidentTimestamps(t *testing.T) {
	ts := []float64{0, 100, 100, 200}
	vs := []Value{Fixed(0), Fixed(1), Fixed(3), Fixed(3)}
	// A zero-length segment snaps to its end value.
	got := Resolve(ts, vs, 150, nil)
	if math.Abs(got-3) > 1e-12 {
		t.Errorf("past coincident pair = %v, want 3", got)
	}
}

func TestDeferredValue(t *testing.T) {
	v := Deferred()
	if !v.IsDeferred() {
		t.Fatal("Deferred value not marked deferred")
	}
	if Fixed(2).IsDeferred() {
		t.Fatal("Fixed value marked deferred")
	}
	if got := Fixed(2).Get(); got != 2 {
		t.Errorf("Fixed.Get = %v", got)
	}
}
