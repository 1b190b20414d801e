// Package easing provides the timing toolbox for the animation engine:
// the symmetric sigmoid easing curve, gaussian-skew random sampling,
// and range conversion helpers.
package easing

import (
	"math"

	"github.com/tanema/gween/ease"
)

// Func maps normalized progress in [0,1] to an eased multiplier.
// The engine requires Func(0) == 0 and Func(1) == 1 so that eased
// segments land exactly on their keyframe values.
type Func func(x float64) float64

// Linear is the identity easing.
func Linear(x float64) float64 { return x }

// Sigmoid returns a symmetric sigmoid easing function with steepness k.
// Higher k means a sharper S-curve. The raw logistic does not reach 0
// and 1 at the interval edges, so the curve is renormalized to do so.
func Sigmoid(k float64) Func {
	f := func(x float64) float64 {
		return 1.0 / (1.0 + math.Exp(-k*(x-0.5)))
	}
	lo := f(0)
	span := f(1) - lo
	return func(x float64) float64 {
		return (f(x) - lo) / span
	}
}

// Tween adapts a gween ease function (the standard Quad/Cubic/Elastic
// family) to the engine's normalized Func signature.
func Tween(fn ease.TweenFunc) Func {
	return func(x float64) float64 {
		return float64(fn(float32(x), 0, 1, 1))
	}
}

// ConvertRange linearly remaps value from [fromLo, fromHi] to [toLo, toHi].
func ConvertRange(value, fromLo, fromHi, toLo, toHi float64) float64 {
	if fromHi == fromLo {
		return toLo
	}
	return (value-fromLo)/(fromHi-fromLo)*(toHi-toLo) + toLo
}

// Clamp restricts v to the range [min, max].
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// Lerp performs linear interpolation between two values.
func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}
