package avatar

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/teslashibe/go-avatar/pkg/anim"
	"github.com/teslashibe/go-avatar/pkg/ik"
)

// Chain names the controller solves each tick.
const (
	ChainHead     = "head"
	ChainLeftArm  = "leftArm"
	ChainRightArm = "rightArm"
)

// defaultChains builds the reference rig's IK chains: a spine-to-head
// chain for gaze and one chain per arm for hand placement. Offsets are
// meters on a ~1.7m humanoid; limits keep the solve inside plausible
// joint ranges.
func defaultChains() *ik.Registry {
	reg := ik.NewRegistry()

	spineBox := func(r float64) (mgl64.Vec3, mgl64.Vec3) {
		return mgl64.Vec3{-r, -r, -r}, mgl64.Vec3{r, r, r}
	}

	head := &ik.Chain{
		Name:   ChainHead,
		Origin: mgl64.Vec3{0, 1.05, 0},
		Tip:    mgl64.Vec3{0, 0.08, 0.12},
	}
	for _, l := range []struct {
		name   string
		offset mgl64.Vec3
		limit  float64
	}{
		{"Spine", mgl64.Vec3{0, 0.1, 0}, 0.25},
		{"Chest", mgl64.Vec3{0, 0.15, 0}, 0.3},
		{"Neck", mgl64.Vec3{0, 0.18, 0}, 0.6},
		{"Head", mgl64.Vec3{0, 0.1, 0}, 0.9},
	} {
		min, max := spineBox(l.limit)
		head.Links = append(head.Links, ik.Link{
			Name:      l.name,
			Offset:    l.offset,
			Rot:       mgl64.QuatIdent(),
			Rest:      mgl64.QuatIdent(),
			Min:       min,
			Max:       max,
			HasLimits: true,
			MaxStep:   0.4,
		})
	}
	reg.Register(head)

	reg.Register(armChain(ChainLeftArm, -1))
	reg.Register(armChain(ChainRightArm, +1))
	return reg
}

// armChain builds a shoulder-elbow-wrist chain. side is -1 for left,
// +1 for right.
func armChain(name string, side float64) *ik.Chain {
	upperRest := mgl64.QuatRotate(side*1.15, mgl64.Vec3{0, 0, -1})
	c := &ik.Chain{
		Name:   name,
		Origin: mgl64.Vec3{0, 1.35, 0},
		Tip:    mgl64.Vec3{side * 0.09, 0, 0},
	}
	c.Links = []ik.Link{
		{
			Name:      prefixFor(side) + "Arm",
			Offset:    mgl64.Vec3{side * 0.18, 0.05, 0},
			Rot:       upperRest,
			Rest:      upperRest,
			Min:       mgl64.Vec3{-math.Pi / 2, -math.Pi / 2, -math.Pi},
			Max:       mgl64.Vec3{math.Pi / 2, math.Pi / 2, math.Pi},
			HasLimits: true,
		},
		{
			Name:      prefixFor(side) + "ForeArm",
			Offset:    mgl64.Vec3{side * 0.27, 0, 0},
			Rot:       mgl64.QuatIdent(),
			Rest:      mgl64.QuatIdent(),
			Min:       mgl64.Vec3{-0.1, -2.6, -0.3}, // elbows hinge one way
			Max:       mgl64.Vec3{0.1, 2.6, 0.3},
			HasLimits: true,
		},
		{
			Name:      prefixFor(side) + "Hand",
			Offset:    mgl64.Vec3{side * 0.26, 0, 0},
			Rot:       mgl64.QuatIdent(),
			Rest:      mgl64.QuatIdent(),
			Min:       mgl64.Vec3{-0.6, -0.6, -0.6},
			Max:       mgl64.Vec3{0.6, 0.6, 0.6},
			HasLimits: true,
		},
	}
	return c
}

func prefixFor(side float64) string {
	if side < 0 {
		return "Left"
	}
	return "Right"
}

// chainFor maps a hand side to its arm chain name.
func chainFor(hand anim.HandSide) string {
	if hand == anim.HandLeft {
		return ChainLeftArm
	}
	return ChainRightArm
}
