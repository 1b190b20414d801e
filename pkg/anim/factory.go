package anim

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/teslashibe/go-avatar/pkg/easing"
)

// Factory compiles templates into timestamped instances. Distributions
// are drawn through the sampler; channel values are offset against the
// baseline lookup so animations perturb around the mood's resting
// targets rather than absolute zero.
type Factory struct {
	Sampler *easing.Sampler

	// Baseline returns the resting target for a channel (0 when the
	// channel has none). May be nil.
	Baseline func(channel string) float64
}

// Instantiate compiles tpl into an instance starting at or after now.
// loop overrides the template's loop count; scaleTime stretches the
// keyframe offsets and scaleValue the sampled values. The returned
// instance's first timestamp is always >= now — callers must not
// expect effect before the scheduler's next tick.
func (f *Factory) Instantiate(tpl *Template, loop int, scaleTime, scaleValue float64, now time.Time) (*Instance, error) {
	if err := tpl.Validate(); err != nil {
		return nil, err
	}
	if scaleTime <= 0 {
		scaleTime = 1
	}
	if scaleValue == 0 {
		scaleValue = 1
	}

	delay := math.Max(0, f.duration(tpl.Delay))

	// Monotonic offset sequence, one timestamp per dt plus the start.
	ts := make([]float64, len(tpl.Dts)+1)
	start := Millis(now) + delay
	ts[0] = start
	off := 0.0
	for i, dt := range tpl.Dts {
		off += math.Max(0, f.duration(dt))
		ts[i+1] = start + off*scaleTime
	}

	vs := make(map[string][]Value, len(tpl.Channels))
	for ch, specs := range tpl.Channels {
		if pair, ok := CompositeChannels(ch); ok {
			pos := make([]Value, 0, len(specs))
			neg := make([]Value, 0, len(specs))
			for _, spec := range specs {
				v := f.value(ch, spec, scaleValue)
				pos = append(pos, Fixed(math.Max(v, 0)))
				neg = append(neg, Fixed(math.Max(-v, 0)))
			}
			vs[pair[0]] = pad(pos, len(ts))
			vs[pair[1]] = pad(neg, len(ts))
			continue
		}
		vals := make([]Value, 0, len(specs))
		for _, spec := range specs {
			switch spec.Kind {
			case SpecCurrent:
				vals = append(vals, Deferred())
			case SpecFunc:
				fn, scale := spec.Fn, scaleValue
				vals = append(vals, Lazy(func() float64 { return fn() * scale }))
			default:
				vals = append(vals, Fixed(f.value(ch, spec, scaleValue)))
			}
		}
		vs[ch] = pad(vals, len(ts))
	}

	return &Instance{
		ID:         uuid.New(),
		Template:   tpl,
		Ts:         ts,
		Vs:         vs,
		Loop:       loop,
		ScaleTime:  scaleTime,
		ScaleValue: scaleValue,
	}, nil
}

// value samples a literal or range spec and offsets it by the baseline.
func (f *Factory) value(ch string, spec ValueSpec, scaleValue float64) float64 {
	base := 0.0
	if f.Baseline != nil {
		base = f.Baseline(ch)
	}
	switch spec.Kind {
	case SpecRange:
		return base + f.Sampler.Range(spec.Lo, spec.Hi, spec.Skew)*scaleValue
	default:
		return base + spec.Literal*scaleValue
	}
}

// duration samples a duration spec in ms.
func (f *Factory) duration(spec ValueSpec) float64 {
	if spec.Kind == SpecRange {
		return f.Sampler.Range(spec.Lo, spec.Hi, spec.Skew)
	}
	return spec.Literal
}

// pad repeats the last value until the series matches the timestamp
// count; the resolver requires equal lengths.
func pad(vals []Value, n int) []Value {
	for len(vals) < n {
		vals = append(vals, vals[len(vals)-1])
	}
	return vals
}

// MustTemplate validates a template at configuration time, panicking on
// error. For built-in template bundles only.
func MustTemplate(t *Template) *Template {
	if err := t.Validate(); err != nil {
		panic(fmt.Sprintf("built-in template %q: %v", t.Name, err))
	}
	return t
}
