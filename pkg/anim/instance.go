package anim

import (
	"time"

	"github.com/google/uuid"
)

// Millis converts a wall-clock time to the engine's millisecond
// timeline. All instance timestamps live on this timeline.
func Millis(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e6
}

// Instance is a concrete, timestamped animation derived from a
// Template. Instances are mutable: the scheduler fills deferred values,
// prunes channels lost to newer claims, and re-arms loops.
type Instance struct {
	// ID identifies the instance in the queue and in diagnostics.
	ID uuid.UUID

	// Template back-reference, for loop re-arming and mood triggers.
	Template *Template

	// Ts are absolute timestamps in ms, non-decreasing, Ts[0] >= the
	// instantiation time.
	Ts []float64

	// Vs maps channel name to keyframe values, each the same length
	// as Ts.
	Vs map[string][]Value

	// Loop is the remaining repeat count (-1 loops forever).
	Loop int

	// ScaleTime and ScaleValue are carried so loop re-arms replay
	// with the same scaling.
	ScaleTime  float64
	ScaleValue float64

	// armed is set once the scheduler has processed the instance:
	// deferred values are filled and side-effect commands emitted.
	armed bool
}

// Expired reports whether the instance's final timestamp has passed.
func (in *Instance) Expired(t float64) bool {
	return t > in.Ts[len(in.Ts)-1]
}

// Active reports whether the instance's first timestamp has arrived.
func (in *Instance) Active(t float64) bool {
	return t >= in.Ts[0]
}
