// Package ik implements cyclic coordinate descent inverse kinematics
// over bone chains with per-link Euler box constraints. It is used for
// hand placement and gaze: the solver mutates link rotations in place
// and the controller copies them into the pose model each tick.
package ik

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrChainNotFound is returned when a named chain is missing. Callers
// treat this as a no-op with a diagnostic, never as fatal.
var ErrChainNotFound = errors.New("ik chain not found")

// Link is one bone in a chain. Offset is the local translation from
// the parent joint; Rot is the current local rotation, mutated by the
// solver.
type Link struct {
	Name string

	Offset mgl64.Vec3
	Rot    mgl64.Quat

	// Rest is the canonical rotation the link relaxes toward when the
	// chain has no target.
	Rest mgl64.Quat

	// Min/Max bound the link's decomposed XYZ rotation in radians.
	// Only applied when HasLimits is set.
	Min, Max  mgl64.Vec3
	HasLimits bool

	// MaxStep caps the angle of a single solver adjustment (radians).
	// 0 means uncapped.
	MaxStep float64
}

// Chain is an ordered bone chain, root first. The effector sits at Tip
// offset from the last joint.
type Chain struct {
	Name   string
	Origin mgl64.Vec3
	Links  []Link
	Tip    mgl64.Vec3
}

// jointPositions returns the world position of every joint plus the
// effector, and the accumulated world rotation before each link.
func (c *Chain) jointPositions() (joints []mgl64.Vec3, parentRots []mgl64.Quat, effector mgl64.Vec3) {
	joints = make([]mgl64.Vec3, len(c.Links))
	parentRots = make([]mgl64.Quat, len(c.Links))

	pos := c.Origin
	rot := mgl64.QuatIdent()
	for i := range c.Links {
		if i > 0 {
			pos = pos.Add(rot.Rotate(c.Links[i].Offset))
		} else {
			pos = pos.Add(c.Links[0].Offset)
		}
		joints[i] = pos
		parentRots[i] = rot
		rot = rot.Mul(c.Links[i].Rot)
	}
	effector = pos.Add(rot.Rotate(c.Tip))
	return joints, parentRots, effector
}

// Effector returns the chain's current end-effector world position.
func (c *Chain) Effector() mgl64.Vec3 {
	_, _, e := c.jointPositions()
	return e
}

// MaxReach returns the fully extended chain length from the first
// joint, an upper bound on effector distance.
func (c *Chain) MaxReach() float64 {
	reach := c.Tip.Len()
	for i := 1; i < len(c.Links); i++ {
		reach += c.Links[i].Offset.Len()
	}
	return reach
}

// Eulers returns each link's local rotation decomposed into XYZ Euler
// angles, keyed by link name. This is how solved chains are written
// back into the pose model.
func (c *Chain) Eulers() map[string]mgl64.Vec3 {
	out := make(map[string]mgl64.Vec3, len(c.Links))
	for i := range c.Links {
		out[c.Links[i].Name] = eulerFromQuat(c.Links[i].Rot)
	}
	return out
}

// eulerFromQuat decomposes a rotation into XYZ Euler angles matching
// quatFromEuler's composition R = Rx*Ry*Rz.
func eulerFromQuat(q mgl64.Quat) mgl64.Vec3 {
	m := q.Normalize().Mat4()
	// Column-major Mat4: m.At(row, col).
	r02 := m.At(0, 2)
	sy := math.Max(-1, math.Min(1, r02))
	y := math.Asin(sy)
	var x, z float64
	if math.Abs(sy) < 0.999999 {
		x = math.Atan2(-m.At(1, 2), m.At(2, 2))
		z = math.Atan2(-m.At(0, 1), m.At(0, 0))
	} else {
		// Gimbal lock: fold everything into x.
		x = math.Atan2(m.At(2, 1), m.At(1, 1))
		z = 0
	}
	return mgl64.Vec3{x, y, z}
}

// quatFromEuler composes R = Rx*Ry*Rz.
func quatFromEuler(e mgl64.Vec3) mgl64.Quat {
	qx := mgl64.QuatRotate(e[0], mgl64.Vec3{1, 0, 0})
	qy := mgl64.QuatRotate(e[1], mgl64.Vec3{0, 1, 0})
	qz := mgl64.QuatRotate(e[2], mgl64.Vec3{0, 0, 1})
	return qx.Mul(qy).Mul(qz)
}
