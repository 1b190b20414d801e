package ik

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

// planarChain is a two-link arm in the XY plane, each segment 1m,
// rooted at the origin, unconstrained.
func planarChain() *Chain {
	return &Chain{
		Name: "arm",
		Links: []Link{
			{Name: "upper", Offset: mgl64.Vec3{0, 0, 0}, Rot: mgl64.QuatIdent(), Rest: mgl64.QuatIdent()},
			{Name: "lower", Offset: mgl64.Vec3{1, 0, 0}, Rot: mgl64.QuatIdent(), Rest: mgl64.QuatIdent()},
		},
		Tip: mgl64.Vec3{1, 0, 0},
	}
}

func dist(c *Chain, target mgl64.Vec3) float64 {
	return c.Effector().Sub(target).Len()
}

func TestSolveReachableTarget(t *testing.T) {
	c := planarChain()
	target := mgl64.Vec3{1, 1, 0}

	before := dist(c, target)
	NewSolver().Solve(c, &target)
	after := dist(c, target)

	if after >= before {
		t.Fatalf("distance did not decrease: %v -> %v", before, after)
	}
	if after > 1e-2 {
		t.Fatalf("reachable target missed: distance %v", after)
	}
}

func TestSolveNeverIncreasesDistance(t *testing.T) {
	c := planarChain()
	target := mgl64.Vec3{0.5, 1.2, 0.3}

	prev := dist(c, target)
	s := &Solver{Iterations: 1}
	for i := 0; i < 10; i++ {
		s.Solve(c, &target)
		d := dist(c, target)
		if d > prev+1e-9 {
			t.Fatalf("iteration %d increased distance: %v -> %v", i, prev, d)
		}
		prev = d
	}
}

func TestSolveUnreachableExtendsToward(t *testing.T) {
	c := planarChain()
	// Far outside the 2m reach.
	target := mgl64.Vec3{10, 10, 0}

	NewSolver().Solve(c, &target)

	// The chain stretches to (nearly) full extension toward the target.
	reach := c.MaxReach()
	ext := c.Effector().Len()
	if ext < reach*0.95 {
		t.Fatalf("extension = %v, want near reach %v", ext, reach)
	}
	// And points at the target.
	dir := c.Effector().Normalize()
	want := target.Normalize()
	if dir.Dot(want) < 0.99 {
		t.Fatalf("direction %v not toward %v", dir, want)
	}
}

func TestSolveRespectsBoxLimits(t *testing.T) {
	c := planarChain()
	// Lock the lower link to a narrow hinge range.
	c.Links[1].HasLimits = true
	c.Links[1].Min = mgl64.Vec3{-0.1, -0.1, -0.1}
	c.Links[1].Max = mgl64.Vec3{0.1, 0.1, 0.1}

	target := mgl64.Vec3{0, 2, 0}
	NewSolver().Solve(c, &target)

	e := eulerFromQuat(c.Links[1].Rot)
	for a := 0; a < 3; a++ {
		if e[a] < -0.1-1e-6 || e[a] > 0.1+1e-6 {
			t.Fatalf("axis %d = %v outside clamp", a, e[a])
		}
	}
}

func TestSolveMaxStepCapsRotation(t *testing.T) {
	c := planarChain()
	c.Links[0].MaxStep = 0.05
	c.Links[1].MaxStep = 0.05

	target := mgl64.Vec3{0, 2, 0}
	s := &Solver{Iterations: 1}
	s.Solve(c, &target)

	// One pass of two capped links can rotate the effector at most 0.1
	// radians around the root.
	ang := math.Atan2(c.Effector()[1], c.Effector()[0])
	if ang > 0.11 {
		t.Fatalf("effector swung %v rad in one capped pass", ang)
	}
}

func TestSolveNilTargetRelaxesToRest(t *testing.T) {
	c := planarChain()
	rest := c.Links[0].Rest
	// Disturb the chain away from rest.
	target := mgl64.Vec3{0, 2, 0}
	NewSolver().Solve(c, &target)
	disturbed := c.Links[0].Rot
	if quatAngleBetween(disturbed, rest) < 1e-3 {
		t.Fatal("solve did not disturb the chain")
	}

	s := NewSolver()
	prev := quatAngleBetween(c.Links[0].Rot, rest)
	for i := 0; i < 50; i++ {
		s.Solve(c, nil)
		d := quatAngleBetween(c.Links[0].Rot, rest)
		if d > prev+1e-9 {
			t.Fatalf("relax moved away from rest: %v -> %v", prev, d)
		}
		prev = d
	}
	if prev > 1e-3 {
		t.Fatalf("chain did not relax to rest: residual %v", prev)
	}
}

// quatAngleBetween returns the rotation angle between two quaternions.
func quatAngleBetween(a, b mgl64.Quat) float64 {
	d := a.Inverse().Mul(b).Normalize()
	w := math.Max(-1, math.Min(1, d.W))
	return 2 * math.Acos(math.Abs(w))
}

func TestEulerQuatRoundTrip(t *testing.T) {
	cases := []mgl64.Vec3{
		{0, 0, 0},
		{0.3, -0.2, 0.5},
		{-1.0, 0.7, -0.4},
		{0.1, 1.2, 0},
	}
	for _, e := range cases {
		got := eulerFromQuat(quatFromEuler(e))
		for a := 0; a < 3; a++ {
			if math.Abs(got[a]-e[a]) > 1e-9 {
				t.Errorf("round trip %v -> %v", e, got)
				break
			}
		}
	}
}

func TestChainGeometry(t *testing.T) {
	c := planarChain()
	if got := c.MaxReach(); math.Abs(got-2) > 1e-12 {
		t.Errorf("MaxReach = %v, want 2", got)
	}
	e := c.Effector()
	want := mgl64.Vec3{2, 0, 0}
	if e.Sub(want).Len() > 1e-12 {
		t.Errorf("rest effector = %v, want %v", e, want)
	}

	eu := c.Eulers()
	if len(eu) != 2 {
		t.Fatalf("Eulers size = %d", len(eu))
	}
	if eu["upper"].Len() != 0 {
		t.Errorf("rest euler = %v, want zero", eu["upper"])
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	r.Register(planarChain())

	if _, ok := r.Get("arm"); !ok {
		t.Fatal("registered chain missing")
	}
	target := mgl64.Vec3{1, 1, 0}
	if err := r.Solve("arm", &target); err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if err := r.Solve("leg", &target); !errors.Is(err, ErrChainNotFound) {
		t.Fatalf("err = %v, want ErrChainNotFound", err)
	}
}
