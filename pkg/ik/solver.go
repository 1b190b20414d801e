package ik

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	// defaultIterations bounds the CCD passes per solve.
	defaultIterations = 10

	// convergeDist is the effector-to-target distance treated as solved.
	convergeDist = 1e-3

	// minAngle is the adjustment below which a link is considered
	// settled; near-zero angles from near-parallel vectors are
	// convergence, not errors.
	minAngle = 1e-4

	// relaxFactor is the per-call slerp amount toward rest when the
	// chain has no target.
	relaxFactor = 0.2
)

// Solver runs cyclic coordinate descent over chains.
type Solver struct {
	Iterations int
}

// NewSolver returns a solver with the default iteration budget.
func NewSolver() *Solver {
	return &Solver{Iterations: defaultIterations}
}

// Solve rotates the chain's links so the effector approaches target,
// honoring per-link constraints. A nil target relaxes the chain toward
// its rest rotations instead. Link rotations are mutated in place.
func (s *Solver) Solve(c *Chain, target *mgl64.Vec3) {
	if len(c.Links) == 0 {
		return
	}
	if target == nil {
		for i := range c.Links {
			c.Links[i].Rot = mgl64.QuatSlerp(c.Links[i].Rot, c.Links[i].Rest, relaxFactor)
		}
		return
	}

	iters := s.Iterations
	if iters <= 0 {
		iters = defaultIterations
	}

	for pass := 0; pass < iters; pass++ {
		moved := false

		// Effector-adjacent first, root-adjacent last.
		for i := len(c.Links) - 1; i >= 0; i-- {
			joints, parentRots, effector := c.jointPositions()
			if effector.Sub(*target).Len() < convergeDist {
				return
			}

			toE := effector.Sub(joints[i])
			toT := target.Sub(joints[i])
			if toE.Len() < 1e-9 || toT.Len() < 1e-9 {
				continue
			}
			toE = toE.Normalize()
			toT = toT.Normalize()

			// Clamp the dot into acos domain; near-parallel vectors
			// mean this link is already aligned.
			dot := math.Max(-1, math.Min(1, toE.Dot(toT)))
			angle := math.Acos(dot)
			if angle < minAngle {
				continue
			}
			axis := toE.Cross(toT)
			if axis.Len() < 1e-9 {
				continue
			}
			axis = axis.Normalize()

			if c.Links[i].MaxStep > 0 && angle > c.Links[i].MaxStep {
				angle = c.Links[i].MaxStep
			}

			// World-space correction conjugated into the link's local
			// frame, then applied incrementally.
			world := mgl64.QuatRotate(angle, axis)
			pr := parentRots[i]
			local := pr.Inverse().Mul(world).Mul(pr)
			c.Links[i].Rot = local.Mul(c.Links[i].Rot).Normalize()

			if c.Links[i].HasLimits {
				c.Links[i].Rot = clampBox(c.Links[i].Rot, c.Links[i].Min, c.Links[i].Max)
			}
			moved = true
		}

		if !moved {
			// Full pass without meaningful rotation: converged.
			return
		}
	}
}

// clampBox clamps a rotation's decomposed XYZ angles into [min, max]
// per axis and rebuilds the quaternion.
func clampBox(q mgl64.Quat, min, max mgl64.Vec3) mgl64.Quat {
	e := eulerFromQuat(q)
	for a := 0; a < 3; a++ {
		if e[a] < min[a] {
			e[a] = min[a]
		}
		if e[a] > max[a] {
			e[a] = max[a]
		}
	}
	return quatFromEuler(e)
}

// Registry holds named chains for solve-by-name lookups.
type Registry struct {
	solver *Solver
	chains map[string]*Chain
}

// NewRegistry creates an empty chain registry.
func NewRegistry() *Registry {
	return &Registry{
		solver: NewSolver(),
		chains: make(map[string]*Chain),
	}
}

// Register adds or replaces a chain.
func (r *Registry) Register(c *Chain) {
	r.chains[c.Name] = c
}

// Get returns a chain by name.
func (r *Registry) Get(name string) (*Chain, bool) {
	c, ok := r.chains[name]
	return c, ok
}

// Solve looks up a chain and solves it toward target. A missing chain
// is reported, not fatal; the caller skips the operation.
func (r *Registry) Solve(name string, target *mgl64.Vec3) error {
	c, ok := r.chains[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrChainNotFound, name)
	}
	r.solver.Solve(c, target)
	return nil
}
