package anim

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/teslashibe/go-avatar/pkg/easing"
)

func testFactory() *Factory {
	return &Factory{Sampler: easing.NewSampler(42)}
}

func TestInstantiateTimestamps(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	tpl := &Template{
		Name:  "t",
		Delay: Num(50),
		Dts:   []ValueSpec{Num(100), Num(200)},
		Channels: map[string][]ValueSpec{
			"jawOpen": {Num(0), Num(1), Num(0)},
		},
	}
	in, err := testFactory().Instantiate(tpl, 0, 1, 1, now)
	if err != nil {
		t.Fatalf("Instantiate: %v", err)
	}
	start := Millis(now) + 50
	want := []float64{start, start + 100, start + 300}
	if len(in.Ts) != len(want) {
		t.Fatalf("len(Ts) = %d, want %d", len(in.Ts), len(want))
	}
	for i := range want {
		if math.Abs(in.Ts[i]-want[i]) > 1e-9 {
			t.Errorf("Ts[%d] = %v, want %v", i, in.Ts[i], want[i])
		}
	}
	if in.Ts[0] < Millis(now) {
		t.Error("first timestamp before instantiation time")
	}
}

func TestInstantiateScaleTime(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	tpl := &Template{
		Name: "t", Delay: Num(0),
		Dts:      []ValueSpec{Num(100)},
		Channels: map[string][]ValueSpec{"jawOpen": {Num(0), Num(1)}},
	}
	in, err := testFactory().Instantiate(tpl, 0, 2, 1, now)
	if err != nil {
		t.Fatalf("Instantiate: %v", err)
	}
	if got := in.Ts[1] - in.Ts[0]; math.Abs(got-200) > 1e-9 {
		t.Errorf("scaled dt = %v, want 200", got)
	}
}

func TestInstantiateScaleValue(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	tpl := &Template{
		Name: "t", Delay: Num(0),
		Dts:      []ValueSpec{Num(100)},
		Channels: map[string][]ValueSpec{"jawOpen": {Num(0), Num(0.5)}},
	}
	in, err := testFactory().Instantiate(tpl, 0, 1, 2, now)
	if err != nil {
		t.Fatalf("Instantiate: %v", err)
	}
	if got := in.Vs["jawOpen"][1].Get(); math.Abs(got-1) > 1e-12 {
		t.Errorf("scaled value = %v, want 1", got)
	}
}

func TestInstantiatePadsShortSeries(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	tpl := &Template{
		Name: "t", Delay: Num(0),
		Dts: []ValueSpec{Num(100), Num(100), Num(100)},
		Channels: map[string][]ValueSpec{
			"jawOpen": {Num(0), Num(0.7)},
		},
	}
	in, err := testFactory().Instantiate(tpl, 0, 1, 1, now)
	if err != nil {
		t.Fatalf("Instantiate: %v", err)
	}
	vs := in.Vs["jawOpen"]
	if len(vs) != 4 {
		t.Fatalf("padded length = %d, want 4", len(vs))
	}
	for i := 1; i < 4; i++ {
		if got := vs[i].Get(); math.Abs(got-0.7) > 1e-12 {
			t.Errorf("vs[%d] = %v, want 0.7 (last value held)", i, got)
		}
	}
}

func TestInstantiateCompositeExpansion(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	tpl := &Template{
		Name: "t", Delay: Num(0),
		Dts: []ValueSpec{Num(100), Num(100)},
		Channels: map[string][]ValueSpec{
			"eyesRotateY": {Num(0.5), Num(-0.25), Num(0)},
		},
	}
	in, err := testFactory().Instantiate(tpl, 0, 1, 1, now)
	if err != nil {
		t.Fatalf("Instantiate: %v", err)
	}
	if _, ok := in.Vs["eyesRotateY"]; ok {
		t.Error("composite channel present in instance")
	}
	right := in.Vs["eyesLookRight"]
	left := in.Vs["eyesLookLeft"]
	if right == nil || left == nil {
		t.Fatal("sub-channels missing")
	}
	// Positive part on the first sub-channel, negated negative on the
	// second; never both non-zero at one keyframe.
	wantRight := []float64{0.5, 0, 0}
	wantLeft := []float64{0, 0.25, 0}
	for i := range wantRight {
		if got := right[i].Get(); math.Abs(got-wantRight[i]) > 1e-12 {
			t.Errorf("right[%d] = %v, want %v", i, got, wantRight[i])
		}
		if got := left[i].Get(); math.Abs(got-wantLeft[i]) > 1e-12 {
			t.Errorf("left[%d] = %v, want %v", i, got, wantLeft[i])
		}
	}
}

func TestInstantiateBaselineOffset(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	f := testFactory()
	f.Baseline = func(ch string) float64 {
		if ch == "jawOpen" {
			return 0.1
		}
		return 0
	}
	tpl := &Template{
		Name: "t", Delay: Num(0),
		Dts:      []ValueSpec{Num(100)},
		Channels: map[string][]ValueSpec{"jawOpen": {Num(0), Num(0.5)}},
	}
	in, err := f.Instantiate(tpl, 0, 1, 1, now)
	if err != nil {
		t.Fatalf("Instantiate: %v", err)
	}
	if got := in.Vs["jawOpen"][0].Get(); math.Abs(got-0.1) > 1e-12 {
		t.Errorf("baseline offset start = %v, want 0.1", got)
	}
	if got := in.Vs["jawOpen"][1].Get(); math.Abs(got-0.6) > 1e-12 {
		t.Errorf("baseline offset peak = %v, want 0.6", got)
	}
}

func TestInstantiateDeferredAndLazy(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	tpl := &Template{
		Name: "t", Delay: Num(0),
		Dts: []ValueSpec{Num(100)},
		Channels: map[string][]ValueSpec{
			"jawOpen":     {Current(), Num(1)},
			"headRotateX": {Producer(func() float64 { return 0.25 }), Num(0)},
		},
	}
	in, err := testFactory().Instantiate(tpl, 0, 1, 2, now)
	if err != nil {
		t.Fatalf("Instantiate: %v", err)
	}
	if !in.Vs["jawOpen"][0].IsDeferred() {
		t.Error("Current spec did not produce a deferred value")
	}
	// Producers are scaled like literals.
	if got := in.Vs["headRotateX"][0].Get(); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("lazy scaled value = %v, want 0.5", got)
	}
}

func TestInstantiateNegativeDelayClamped(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	tpl := &Template{
		Name:  "t",
		Delay: Rand(0, 10, 1),
		Dts:   []ValueSpec{Num(100)},
		Channels: map[string][]ValueSpec{
			"jawOpen": {Num(0), Num(1)},
		},
	}
	in, err := testFactory().Instantiate(tpl, 0, 1, 1, now)
	if err != nil {
		t.Fatalf("Instantiate: %v", err)
	}
	if in.Ts[0] < Millis(now) {
		t.Errorf("Ts[0] = %v before now = %v", in.Ts[0], Millis(now))
	}
}

func TestInstantiateRejectsInvalid(t *testing.T) {
	now := time.Now()
	tpl := &Template{Name: ""}
	if _, err := testFactory().Instantiate(tpl, 0, 1, 1, now); !errors.Is(err, ErrBadTemplate) {
		t.Fatalf("err = %v, want ErrBadTemplate", err)
	}
}

func TestInstanceLifecycle(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	tpl := &Template{
		Name: "t", Delay: Num(100),
		Dts:      []ValueSpec{Num(100)},
		Channels: map[string][]ValueSpec{"jawOpen": {Num(0), Num(1)}},
	}
	in, err := testFactory().Instantiate(tpl, 0, 1, 1, now)
	if err != nil {
		t.Fatalf("Instantiate: %v", err)
	}
	t0 := Millis(now)
	if in.Active(t0 + 50) {
		t.Error("active before delay elapsed")
	}
	if !in.Active(t0 + 100) {
		t.Error("not active at first timestamp")
	}
	if in.Expired(t0 + 200) {
		t.Error("expired at final timestamp")
	}
	if !in.Expired(t0 + 201) {
		t.Error("not expired past final timestamp")
	}
}
