// Package anim is the procedural animation engine: declarative templates
// are compiled into timestamped instances, and a scheduler merges all
// active instances into one value per output channel per tick.
//
// Channels are named scalars (blend-shape weights, decomposed bone
// rotations). Templates describe timing and values as compact
// distributions; instances carry concrete timestamps and values.
package anim

import (
	"encoding/json"
	"fmt"
)

// SpecKind identifies how a ValueSpec produces its value.
type SpecKind int

const (
	// SpecLiteral is a fixed number, offset by the channel baseline.
	SpecLiteral SpecKind = iota

	// SpecRange is a [lo, hi, skew] distribution sampled at
	// instantiation time, offset by the channel baseline.
	SpecRange

	// SpecCurrent takes the channel's live value at scheduling time.
	SpecCurrent

	// SpecFunc calls a value producer lazily at resolve time.
	SpecFunc
)

// ValueSpec is one keyframe value specification in a template.
type ValueSpec struct {
	Kind    SpecKind
	Literal float64
	Lo, Hi  float64
	Skew    float64
	Fn      func() float64
}

// Num returns a literal value spec.
func Num(v float64) ValueSpec {
	return ValueSpec{Kind: SpecLiteral, Literal: v}
}

// Rand returns a [lo, hi, skew] distribution spec.
func Rand(lo, hi, skew float64) ValueSpec {
	return ValueSpec{Kind: SpecRange, Lo: lo, Hi: hi, Skew: skew}
}

// Current returns a spec that picks up the channel's live value when
// the scheduler first processes the instance.
func Current() ValueSpec {
	return ValueSpec{Kind: SpecCurrent}
}

// Producer returns a spec backed by a zero-arg value function.
func Producer(fn func() float64) ValueSpec {
	return ValueSpec{Kind: SpecFunc, Fn: fn}
}

// UnmarshalJSON accepts a number (literal), a 2- or 3-element array
// ([lo, hi] or [lo, hi, skew]), or null (current value).
func (v *ValueSpec) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = Current()
		return nil
	}
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*v = Num(num)
		return nil
	}
	var arr []float64
	if err := json.Unmarshal(data, &arr); err != nil {
		return fmt.Errorf("%w: value spec must be number, array or null", ErrBadTemplate)
	}
	switch len(arr) {
	case 2:
		*v = Rand(arr[0], arr[1], 1)
	case 3:
		*v = Rand(arr[0], arr[1], arr[2])
	default:
		return fmt.Errorf("%w: range spec needs 2 or 3 elements, got %d", ErrBadTemplate, len(arr))
	}
	return nil
}

// HandSide selects a hand for IK target payloads.
type HandSide string

const (
	HandLeft  HandSide = "left"
	HandRight HandSide = "right"
)

// HandTargetSpec is a structured gesture-target payload carried by a
// template. It is emitted as a SetHandTarget command, never resolved
// through the numeric channel path.
type HandTargetSpec struct {
	Hand    HandSide   `json:"hand"`
	Target  [3]float64 `json:"target"`
	Release bool       `json:"release"`
}

// Template is an immutable animation specification. Delay and Dts are
// duration specs in milliseconds; Channels maps channel names to
// keyframe value specs. A template never mutates after validation.
type Template struct {
	Name string `json:"name"`

	// Delay before the first keyframe, in ms.
	Delay ValueSpec `json:"delay"`

	// Dts are the inter-keyframe durations, in ms. The instance gets
	// len(Dts)+1 timestamps.
	Dts []ValueSpec `json:"dt"`

	// Channels maps channel name to keyframe value specs. Shorter
	// specs are padded with their last value at instantiation.
	Channels map[string][]ValueSpec `json:"vs"`

	// Mood, when non-empty, triggers a mood transition once a
	// non-looping instance of this template completes.
	Mood string `json:"mood"`

	// Loop is the default loop count: 0 plays once, n repeats n more
	// times, -1 loops forever.
	Loop int `json:"loop"`

	// Side-effect payloads, emitted as typed commands when the
	// instance first becomes active.
	Text    string          `json:"text,omitempty"`
	Markers []string        `json:"markers,omitempty"`
	Pose    string          `json:"pose,omitempty"`
	MoveTo  *[3]float64     `json:"moveto,omitempty"`
	Hand    *HandTargetSpec `json:"hand,omitempty"`
}

// Validate rejects malformed templates before any instance is built.
func (t *Template) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("%w: missing name", ErrBadTemplate)
	}
	if t.Loop < -1 {
		return fmt.Errorf("%w %q: loop must be >= -1", ErrBadTemplate, t.Name)
	}
	if err := validDuration(t.Delay); err != nil {
		return fmt.Errorf("%w %q: delay: %v", ErrBadTemplate, t.Name, err)
	}
	for i, dt := range t.Dts {
		if err := validDuration(dt); err != nil {
			return fmt.Errorf("%w %q: dt[%d]: %v", ErrBadTemplate, t.Name, i, err)
		}
	}
	for ch, vs := range t.Channels {
		if len(vs) == 0 {
			return fmt.Errorf("%w %q: channel %s has no values", ErrBadTemplate, t.Name, ch)
		}
		if len(vs) > len(t.Dts)+1 {
			return fmt.Errorf("%w %q: channel %s has %d values for %d timestamps",
				ErrBadTemplate, t.Name, ch, len(vs), len(t.Dts)+1)
		}
		for i, v := range vs {
			if v.Kind == SpecRange && v.Hi < v.Lo {
				return fmt.Errorf("%w %q: channel %s value %d: hi < lo", ErrBadTemplate, t.Name, ch, i)
			}
			if _, composite := composites[ch]; composite {
				// Composite expansion splits a concrete number into
				// positive and negative halves; deferred or lazy
				// values have no sign to split on.
				if v.Kind == SpecCurrent || v.Kind == SpecFunc {
					return fmt.Errorf("%w %q: composite channel %s requires numeric specs",
						ErrBadTemplate, t.Name, ch)
				}
			}
		}
	}
	return nil
}

// validDuration checks that a spec can only yield non-negative ms.
func validDuration(v ValueSpec) error {
	switch v.Kind {
	case SpecLiteral:
		if v.Literal < 0 {
			return fmt.Errorf("negative duration %v", v.Literal)
		}
	case SpecRange:
		if v.Hi < v.Lo {
			return fmt.Errorf("hi < lo")
		}
		if v.Lo < 0 {
			return fmt.Errorf("negative duration lo %v", v.Lo)
		}
	case SpecCurrent, SpecFunc:
		return fmt.Errorf("durations must be literal or range")
	}
	return nil
}

// composites maps a combined gaze channel to its (positive, negative)
// physical sub-channel pair. The positive part of a composite value
// goes to the first sub-channel and the negated negative part to the
// second, so only one of the pair is ever non-zero.
var composites = map[string][2]string{
	"eyesRotateY": {"eyesLookRight", "eyesLookLeft"},
	"eyesRotateX": {"eyesLookDown", "eyesLookUp"},
}

// CompositeChannels returns the physical sub-channel pair for a
// composite channel name.
func CompositeChannels(name string) ([2]string, bool) {
	pair, ok := composites[name]
	return pair, ok
}
