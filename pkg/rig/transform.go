// Package rig models the avatar's controllable surface: named scalar
// channels (blend-shape weights, gaze components), per-bone transforms,
// reusable pose templates with left/right mirroring, and the
// Base/Target/Avatar pose arena the engine interpolates every tick.
package rig

import (
	"errors"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/teslashibe/go-avatar/pkg/easing"
)

// ErrUnknownTemplate is returned when a pose template name is not
// registered.
var ErrUnknownTemplate = errors.New("unknown pose template")

// Euler is an XYZ rotation in radians.
type Euler struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Mirrored negates the two handedness components. X (pitch) is
// symmetric across the sagittal plane; Y and Z flip.
func (e Euler) Mirrored() Euler {
	return Euler{X: e.X, Y: -e.Y, Z: -e.Z}
}

// Transform is one bone's target: a rotation plus optional position and
// scale. It is a plain value struct; the pose arena never hands out
// long-lived mutable aliases.
type Transform struct {
	Rotation    Euler      `json:"rotation"`
	Position    mgl64.Vec3 `json:"position,omitempty"`
	HasPosition bool       `json:"hasPosition,omitempty"`
	Scale       float64    `json:"scale,omitempty"`
	HasScale    bool       `json:"hasScale,omitempty"`
}

// lerp interpolates between two transforms at eased parameter x.
func lerpTransform(a, b Transform, x float64) Transform {
	out := Transform{
		Rotation: Euler{
			X: easing.Lerp(a.Rotation.X, b.Rotation.X, x),
			Y: easing.Lerp(a.Rotation.Y, b.Rotation.Y, x),
			Z: easing.Lerp(a.Rotation.Z, b.Rotation.Z, x),
		},
	}
	if b.HasPosition {
		out.HasPosition = true
		if a.HasPosition {
			out.Position = mgl64.Vec3{
				easing.Lerp(a.Position[0], b.Position[0], x),
				easing.Lerp(a.Position[1], b.Position[1], x),
				easing.Lerp(a.Position[2], b.Position[2], x),
			}
		} else {
			out.Position = b.Position
		}
	}
	if b.HasScale {
		out.HasScale = true
		if a.HasScale {
			out.Scale = easing.Lerp(a.Scale, b.Scale, x)
		} else {
			out.Scale = b.Scale
		}
	}
	return out
}

// mirrorBone swaps the Left/Right prefix of a bone or channel name.
func mirrorBone(name string) string {
	switch {
	case strings.HasPrefix(name, "Left"):
		return "Right" + name[len("Left"):]
	case strings.HasPrefix(name, "Right"):
		return "Left" + name[len("Right"):]
	}
	return name
}
