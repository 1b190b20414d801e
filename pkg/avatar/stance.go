package avatar

import (
	"fmt"
	"time"

	"github.com/teslashibe/go-avatar/pkg/anim"
	"github.com/teslashibe/go-avatar/pkg/clip"
	"github.com/teslashibe/go-avatar/pkg/rig"
)

// intermediateName is the built-in bend stance that standing↔lying
// transitions route through.
const intermediateName = "bend"

// SetPose applies a named stance. Variant-table entries are consulted
// first so the same intent can land on different templates per mood;
// the resolved template comes from the clip registry.
//
// Transitions between the standing and lying classes never go direct:
// the bend intermediate is applied first and the requested stance is
// scheduled behind it. Re-applying a stance within the same class
// alternates the weight-bearing leg by mirroring the template.
func (c *Controller) SetPose(name string, now time.Time) error {
	resolved := name
	if picked, ok := c.variants.Resolve(rig.VariantKey{
		State: c.stance.String(),
		Mood:  c.sched.Mood(),
		Pose:  name,
	}, c.sampler.Float64); ok {
		resolved = picked
	} else if picked, ok := c.variants.Resolve(rig.VariantKey{Pose: name}, c.sampler.Float64); ok {
		// Pose-only entries act as unconditional aliases.
		resolved = picked
	}

	tpl, err := c.poseTemplate(resolved)
	if err != nil {
		return err
	}

	// Shifting weight: landing on the same side twice in a row reads
	// as frozen, so mirror when the sides would match.
	if c.weightOnLeft == tpl.WeightOnLeft {
		tpl = tpl.Mirrored()
	}

	t := anim.Millis(now)
	crossing := (c.stance == rig.ClassStanding && tpl.Class == rig.ClassLying) ||
		(c.stance == rig.ClassLying && tpl.Class == rig.ClassStanding)
	if crossing {
		inter, err := c.poseTemplate(intermediateName)
		if err != nil {
			return fmt.Errorf("intermediate stance: %w", err)
		}
		c.applyPose(inter, t, intermediateMS)
		c.pending = &pendingPose{tpl: tpl, at: t + intermediateMS}
		return nil
	}

	c.pending = nil
	c.applyPose(tpl, t, settleMS)
	return nil
}

// poseTemplate fetches a pose clip's template by name.
func (c *Controller) poseTemplate(name string) (*rig.PoseTemplate, error) {
	cl, err := c.clips.Get(name)
	if err != nil {
		return nil, err
	}
	if cl.Kind != clip.KindPose {
		return nil, fmt.Errorf("%w: clip %q is not a pose", rig.ErrUnknownTemplate, name)
	}
	return cl.Pose, nil
}

// applyPose commits a stance template to the arena and updates the
// discrete stance state.
func (c *Controller) applyPose(tpl *rig.PoseTemplate, at, dur float64) {
	c.pose.Apply(tpl, at, dur)
	c.stance = tpl.Class
	c.poseName = tpl.Name
	c.weightOnLeft = tpl.WeightOnLeft
}
