package rig

import (
	"github.com/tanema/gween/ease"

	"github.com/teslashibe/go-avatar/pkg/easing"
)

// PoseClass tags a template with the stance family it belongs to.
// Standing and lying never transition directly; the engine routes
// through a bend-class intermediate.
type PoseClass int

const (
	ClassStanding PoseClass = iota
	ClassLying
	ClassBend
)

// String returns the class tag used in clip files.
func (c PoseClass) String() string {
	switch c {
	case ClassLying:
		return "lying"
	case ClassBend:
		return "bend"
	default:
		return "standing"
	}
}

// ParseClass maps a clip-file tag to a PoseClass.
func ParseClass(s string) PoseClass {
	switch s {
	case "lying":
		return ClassLying
	case "bend":
		return ClassBend
	default:
		return ClassStanding
	}
}

// PoseTemplate is a named set of per-bone target transforms defining a
// body stance.
type PoseTemplate struct {
	Name         string
	Class        PoseClass
	WeightOnLeft bool
	Props        map[string]Transform
}

// Mirrored returns a left/right mirrored copy: Left*/Right* bone names
// are swapped, each rotation's handedness components negated, and the
// weight-bearing side flipped. Mirroring twice returns the original
// values.
func (p *PoseTemplate) Mirrored() *PoseTemplate {
	props := make(map[string]Transform, len(p.Props))
	for bone, tr := range p.Props {
		tr.Rotation = tr.Rotation.Mirrored()
		props[mirrorBone(bone)] = tr
	}
	return &PoseTemplate{
		Name:         p.Name,
		Class:        p.Class,
		WeightOnLeft: !p.WeightOnLeft,
		Props:        props,
	}
}

// property is one bone's interpolation state in the arena. T == 0 means
// the property has already arrived at its target.
type property struct {
	base   Transform
	target Transform
	t      float64 // interpolation start, ms
	d      float64 // interpolation duration, ms
}

// Pose is the live pose arena: Base (last settled), Target
// (interpolation destination) and Avatar (the transforms bound to the
// rig) held as parallel value structs addressed by stable per-bone
// indices. All mutation funnels through Apply/Evaluate/SetAvatar
// during a tick; callers must not retain references across ticks.
type Pose struct {
	names  []string
	index  map[string]int
	props  []property
	avatar []Transform
	ease   easing.Func
}

// NewPose creates an arena for the given bones. Stance transitions use
// the standard in-out quad curve; the sigmoid stays on the scheduler's
// channel settling.
func NewPose(bones []string) *Pose {
	p := &Pose{
		index: make(map[string]int, len(bones)),
		ease:  easing.Tween(ease.InOutQuad),
	}
	for _, b := range bones {
		p.ensure(b)
	}
	return p
}

// ensure returns the stable index for a bone, growing the arena for
// bones first seen in a loaded clip.
func (p *Pose) ensure(bone string) int {
	if i, ok := p.index[bone]; ok {
		return i
	}
	i := len(p.names)
	p.index[bone] = i
	p.names = append(p.names, bone)
	p.props = append(p.props, property{})
	p.avatar = append(p.avatar, Transform{})
	return i
}

// Bones returns the bone names in arena order.
func (p *Pose) Bones() []string {
	out := make([]string, len(p.names))
	copy(out, p.names)
	return out
}

// Apply retargets every bone the template names: the current avatar
// transform becomes the interpolation base and the template transform
// the target, reached over dur ms starting at 'at'.
func (p *Pose) Apply(tpl *PoseTemplate, at, dur float64) {
	for bone, tr := range tpl.Props {
		i := p.ensure(bone)
		p.props[i] = property{
			base:   p.avatar[i],
			target: tr,
			t:      at,
			d:      dur,
		}
	}
}

// Evaluate advances the arena to time t: every avatar transform becomes
// the eased interpolation of its base toward its target. Properties
// with t == 0 are treated as already arrived.
func (p *Pose) Evaluate(t float64) {
	for i := range p.props {
		pr := &p.props[i]
		if pr.t == 0 {
			p.avatar[i] = pr.target
			continue
		}
		x := easing.Clamp((t-pr.t)/pr.d, 0, 1)
		p.avatar[i] = lerpTransform(pr.base, pr.target, p.ease(x))
		if x >= 1 {
			// Settled: promote target to base so the property no
			// longer interpolates.
			pr.base = pr.target
			pr.t = 0
		}
	}
}

// Avatar returns the live transform of one bone.
func (p *Pose) Avatar(bone string) (Transform, bool) {
	i, ok := p.index[bone]
	if !ok {
		return Transform{}, false
	}
	return p.avatar[i], true
}

// SetAvatar overwrites one bone's live transform, growing the arena
// for bones first seen here. Used by the IK solver, which writes into
// the pose model between Evaluate and the host apply step.
func (p *Pose) SetAvatar(bone string, tr Transform) {
	p.avatar[p.ensure(bone)] = tr
}

// Transforms returns a copy of all live bone transforms.
func (p *Pose) Transforms() map[string]Transform {
	out := make(map[string]Transform, len(p.names))
	for i, name := range p.names {
		out[name] = p.avatar[i]
	}
	return out
}
