package rig

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func standingTemplate() *PoseTemplate {
	return &PoseTemplate{
		Name:         "stand",
		Class:        ClassStanding,
		WeightOnLeft: false,
		Props: map[string]Transform{
			"Hips":     {Rotation: Euler{X: 0.01, Y: 0.09, Z: -0.01}, Position: mgl64.Vec3{0, 0.99, 0}, HasPosition: true},
			"LeftArm":  {Rotation: Euler{X: 0.1, Y: 0, Z: 1.15}},
			"RightArm": {Rotation: Euler{X: 0.1, Y: 0, Z: -1.15}},
		},
	}
}

func TestParseClassRoundTrip(t *testing.T) {
	for _, c := range []PoseClass{ClassStanding, ClassLying, ClassBend} {
		if got := ParseClass(c.String()); got != c {
			t.Errorf("ParseClass(%q) = %v, want %v", c.String(), got, c)
		}
	}
	if got := ParseClass("unknown"); got != ClassStanding {
		t.Errorf("unknown class = %v, want standing default", got)
	}
}

func TestEulerMirrored(t *testing.T) {
	e := Euler{X: 0.1, Y: 0.2, Z: -0.3}
	m := e.Mirrored()
	if m.X != 0.1 || m.Y != -0.2 || m.Z != 0.3 {
		t.Errorf("Mirrored = %+v", m)
	}
	if m.Mirrored() != e {
		t.Error("double mirror did not restore")
	}
}

func TestMirrorBone(t *testing.T) {
	cases := map[string]string{
		"LeftArm":  "RightArm",
		"RightLeg": "LeftLeg",
		"Hips":     "Hips",
	}
	for in, want := range cases {
		if got := mirrorBone(in); got != want {
			t.Errorf("mirrorBone(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPoseTemplateMirrored(t *testing.T) {
	tpl := standingTemplate()
	m := tpl.Mirrored()

	if m.WeightOnLeft == tpl.WeightOnLeft {
		t.Error("weight side not flipped")
	}
	left, ok := m.Props["LeftArm"]
	if !ok {
		t.Fatal("RightArm did not become LeftArm")
	}
	// The original RightArm rotation lands on LeftArm with Y/Z negated.
	if left.Rotation.Z != 1.15 {
		t.Errorf("mirrored LeftArm Z = %v, want 1.15", left.Rotation.Z)
	}

	// Mirroring twice restores the original values.
	back := m.Mirrored()
	if back.WeightOnLeft != tpl.WeightOnLeft {
		t.Error("double mirror weight side")
	}
	for bone, tr := range tpl.Props {
		got, ok := back.Props[bone]
		if !ok {
			t.Fatalf("double mirror lost bone %s", bone)
		}
		if got.Rotation != tr.Rotation {
			t.Errorf("double mirror %s rotation = %+v, want %+v", bone, got.Rotation, tr.Rotation)
		}
	}
}

func TestPoseApplyEvaluate(t *testing.T) {
	p := NewPose([]string{"Hips", "LeftArm", "RightArm"})
	tpl := standingTemplate()

	p.Apply(tpl, 1000, 2000)

	// At the start the avatar still sits at its base (zero transforms).
	p.Evaluate(1000)
	tr, _ := p.Avatar("LeftArm")
	if tr.Rotation.Z != 0 {
		t.Errorf("LeftArm Z at start = %v, want 0", tr.Rotation.Z)
	}

	// Mid-transition the value is strictly between base and target.
	p.Evaluate(2000)
	tr, _ = p.Avatar("LeftArm")
	if tr.Rotation.Z <= 0 || tr.Rotation.Z >= 1.15 {
		t.Errorf("LeftArm Z mid = %v, want in (0, 1.15)", tr.Rotation.Z)
	}

	// At the end the target is reached exactly and the property settles.
	p.Evaluate(3000)
	tr, _ = p.Avatar("LeftArm")
	if math.Abs(tr.Rotation.Z-1.15) > 1e-12 {
		t.Errorf("LeftArm Z settled = %v, want 1.15", tr.Rotation.Z)
	}

	// After settling, evaluation keeps returning the target.
	p.Evaluate(9000)
	tr, _ = p.Avatar("LeftArm")
	if math.Abs(tr.Rotation.Z-1.15) > 1e-12 {
		t.Errorf("LeftArm Z after settle = %v", tr.Rotation.Z)
	}
}

func TestPoseTransitionUsesQuadCurve(t *testing.T) {
	p := NewPose([]string{"LeftArm"})
	p.Apply(standingTemplate(), 1000, 2000)

	// Quarter progress on the in-out quad curve is 2*(0.25)^2 = 0.125
	// of the way to the target, below the linear 0.25.
	p.Evaluate(1500)
	tr, _ := p.Avatar("LeftArm")
	want := 0.125 * 1.15
	if math.Abs(tr.Rotation.Z-want) > 1e-9 {
		t.Errorf("LeftArm Z at quarter progress = %v, want %v", tr.Rotation.Z, want)
	}
}

func TestPoseApplyFromCurrent(t *testing.T) {
	p := NewPose([]string{"Hips"})
	first := &PoseTemplate{Name: "a", Props: map[string]Transform{
		"Hips": {Rotation: Euler{X: 1}},
	}}
	p.Apply(first, 100, 100)
	p.Evaluate(200)

	// Retargeting mid-flight starts from the live avatar value.
	second := &PoseTemplate{Name: "b", Props: map[string]Transform{
		"Hips": {Rotation: Euler{X: 2}},
	}}
	p.Apply(second, 200, 100)
	p.Evaluate(200)
	tr, _ := p.Avatar("Hips")
	if math.Abs(tr.Rotation.X-1) > 1e-12 {
		t.Errorf("retarget base = %v, want 1 (live value)", tr.Rotation.X)
	}
	p.Evaluate(300)
	tr, _ = p.Avatar("Hips")
	if math.Abs(tr.Rotation.X-2) > 1e-12 {
		t.Errorf("retarget end = %v, want 2", tr.Rotation.X)
	}
}

func TestPoseGrowsForNewBones(t *testing.T) {
	p := NewPose(nil)
	if len(p.Bones()) != 0 {
		t.Fatal("empty pose has bones")
	}
	p.Apply(standingTemplate(), 0, 100)
	if len(p.Bones()) != 3 {
		t.Fatalf("bones = %d, want 3", len(p.Bones()))
	}
	p.SetAvatar("Head", Transform{Rotation: Euler{Y: 0.5}})
	tr, ok := p.Avatar("Head")
	if !ok || tr.Rotation.Y != 0.5 {
		t.Errorf("SetAvatar growth: %+v ok=%v", tr, ok)
	}
}

func TestPosePositionLerp(t *testing.T) {
	p := NewPose([]string{"Hips"})
	tpl := standingTemplate()
	p.Apply(tpl, 1000, 1000)
	p.Evaluate(2000)
	tr, _ := p.Avatar("Hips")
	if !tr.HasPosition {
		t.Fatal("position flag lost")
	}
	if math.Abs(tr.Position[1]-0.99) > 1e-12 {
		t.Errorf("position y = %v, want 0.99", tr.Position[1])
	}
}

func TestTransformsCopy(t *testing.T) {
	p := NewPose([]string{"Hips"})
	p.SetAvatar("Hips", Transform{Rotation: Euler{X: 1}})
	out := p.Transforms()
	out["Hips"] = Transform{}
	tr, _ := p.Avatar("Hips")
	if tr.Rotation.X != 1 {
		t.Error("Transforms returned an aliasing map")
	}
}
