// Package avatar ties the engine together: one Controller owns the
// scheduler, the pose arena, the IK chains and the clip registry, and
// exposes the intent API (mood, pose, speech, gaze, gestures, clips).
//
// The model is single-threaded and cooperative: the host calls Tick
// once per frame and applies the returned frame; nothing here runs in
// the background. All intent calls are ordinary same-thread mutations
// that take effect on the next tick.
package avatar

import (
	"fmt"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/teslashibe/go-avatar/internal/log"
	"github.com/teslashibe/go-avatar/pkg/anim"
	"github.com/teslashibe/go-avatar/pkg/clip"
	"github.com/teslashibe/go-avatar/pkg/easing"
	"github.com/teslashibe/go-avatar/pkg/ik"
	"github.com/teslashibe/go-avatar/pkg/lipsync"
	"github.com/teslashibe/go-avatar/pkg/rig"
)

const (
	// intermediateMS is the travel time into the bend stance when a
	// standing↔lying transition routes through it.
	intermediateMS = 1000.0

	// settleMS is the ease window for a direct pose application.
	settleMS = 2000.0
)

// Config configures a Controller.
type Config struct {
	// Channels registers the rig's scalar channels. Nil uses the
	// standard registry.
	Channels []string

	// Seed seeds the sampler; 0 seeds from the clock.
	Seed uint64

	// ClipDir optionally loads a custom clip pack over the built-ins.
	ClipDir string

	// InitialMood and InitialPose select the startup state. Empty
	// defaults to "neutral" / "standing".
	InitialMood string
	InitialPose string
}

// Frame is one tick's output for the host: resolved scalar channel
// values, live bone transforms, and the tick's side-effect commands.
type Frame struct {
	Values   map[string]float64       `json:"values"`
	Bones    map[string]rig.Transform `json:"bones"`
	Commands []anim.Command           `json:"-"`
	Mood     string                   `json:"mood"`
	Pose     string                   `json:"pose"`
}

// pendingPose is a deferred stance application scheduled behind an
// intermediate transition.
type pendingPose struct {
	tpl *rig.PoseTemplate
	at  float64
}

// Controller drives one avatar.
type Controller struct {
	sampler *easing.Sampler
	sched   *anim.Scheduler
	pose    *rig.Pose
	clips   *clip.Registry
	chains  *ik.Registry

	variants *rig.VariantTable

	stance       rig.PoseClass
	poseName     string
	weightOnLeft bool
	pending      *pendingPose

	gazeTarget  *mgl64.Vec3
	handTargets map[anim.HandSide]mgl64.Vec3
}

// New builds a controller with the built-in clips and moods loaded.
func New(cfg Config) (*Controller, error) {
	channels := cfg.Channels
	if channels == nil {
		channels = rig.DefaultChannels()
	}
	sampler := easing.NewSampler(cfg.Seed)

	clips := clip.NewRegistry()
	if err := clips.LoadBuiltIn(); err != nil {
		return nil, fmt.Errorf("loading built-in clips: %w", err)
	}
	if cfg.ClipDir != "" {
		if err := clips.LoadCustomDir(cfg.ClipDir); err != nil {
			return nil, fmt.Errorf("loading clip dir %s: %w", cfg.ClipDir, err)
		}
	}

	c := &Controller{
		sampler:     sampler,
		sched:       anim.NewScheduler(sampler, channels),
		pose:        rig.NewPose(nil),
		clips:       clips,
		chains:      defaultChains(),
		variants:    rig.NewVariantTable(),
		handTargets: make(map[anim.HandSide]mgl64.Vec3),
	}

	for _, m := range builtinMoods() {
		if err := c.sched.RegisterMood(m); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	mood := cfg.InitialMood
	if mood == "" {
		mood = "neutral"
	}
	if err := c.sched.SetMood(mood, now); err != nil {
		return nil, err
	}
	pose := cfg.InitialPose
	if pose == "" {
		pose = "standing"
	}
	if err := c.SetPose(pose, now); err != nil {
		return nil, err
	}
	return c, nil
}

// Scheduler exposes the underlying scheduler, mainly for overrides.
func (c *Controller) Scheduler() *anim.Scheduler { return c.sched }

// Variants exposes the pose variant table for configuration.
func (c *Controller) Variants() *rig.VariantTable { return c.variants }

// Clips exposes the clip registry.
func (c *Controller) Clips() *clip.Registry { return c.clips }

// Mood returns the active mood name.
func (c *Controller) Mood() string { return c.sched.Mood() }

// Pose returns the active stance template name.
func (c *Controller) Pose() string { return c.poseName }

// ChannelValue samples one channel's live value.
func (c *Controller) ChannelValue(name string) (float64, bool) {
	return c.sched.Value(name)
}

// SetMood switches the idle behavior bundle. Unknown moods are
// rejected with state unchanged.
func (c *Controller) SetMood(name string, now time.Time) error {
	return c.sched.SetMood(name, now)
}

// SetOverride pins a channel toward a fixed target until cleared.
func (c *Controller) SetOverride(ch string, target float64) error {
	return c.sched.SetOverride(ch, target)
}

// ClearOverride removes a fixed override.
func (c *Controller) ClearOverride(ch string) {
	c.sched.ClearOverride(ch)
}

// Speak schedules the viseme timeline, rescaled onto a window of
// windowMS, starting at now. text, when non-empty, is emitted as a
// subtitle command when the utterance starts; markers fire with it.
func (c *Controller) Speak(v *lipsync.Visemes, windowMS float64, text string, markers []string, now time.Time) error {
	rs, err := v.Rescale(windowMS, 0)
	if err != nil {
		return err
	}
	tpls, err := lipsync.Templates(rs, "speak")
	if err != nil {
		return err
	}
	for _, tpl := range tpls {
		if _, err := c.sched.Play(tpl, 0, 1, 1, now); err != nil {
			return err
		}
	}
	if text != "" || len(markers) > 0 {
		sub := &anim.Template{
			Name:    "speak/subtitle",
			Delay:   anim.Num(0),
			Text:    text,
			Markers: markers,
		}
		if _, err := c.sched.Play(sub, 0, 1, 1, now); err != nil {
			return err
		}
	}
	return nil
}

// LookAt points the gaze at a world position: the head chain is solved
// toward it every tick until ClearLookAt, and the eyes get a one-shot
// composite gaze animation toward the same direction.
func (c *Controller) LookAt(target mgl64.Vec3, now time.Time) {
	t := target
	c.gazeTarget = &t

	head, ok := c.chains.Get(ChainHead)
	if !ok {
		return
	}
	dir := target.Sub(head.Effector())
	horiz := math.Hypot(dir[0], dir[2])
	yaw := easing.Clamp(math.Atan2(dir[0], dir[2]), -0.6, 0.6)
	pitch := easing.Clamp(math.Atan2(-dir[1], horiz), -0.6, 0.6)

	tpl := &anim.Template{
		Name:  "look-at",
		Delay: anim.Num(0),
		Dts:   []anim.ValueSpec{anim.Num(250)},
		Channels: map[string][]anim.ValueSpec{
			"eyesRotateY": {anim.Num(0), anim.Num(yaw)},
			"eyesRotateX": {anim.Num(0), anim.Num(pitch)},
		},
	}
	if _, err := c.sched.Play(tpl, 0, 1, 1, now); err != nil {
		log.Warn("look-at animation rejected", "err", err)
	}
}

// ClearLookAt releases the gaze; the head chain relaxes to rest.
func (c *Controller) ClearLookAt() {
	c.gazeTarget = nil
}

// SetHandTarget points a hand at a world position via its arm chain.
func (c *Controller) SetHandTarget(hand anim.HandSide, target mgl64.Vec3) {
	c.handTargets[hand] = target
}

// ReleaseHand relaxes a hand's arm chain back toward rest.
func (c *Controller) ReleaseHand(hand anim.HandSide) {
	delete(c.handTargets, hand)
}

// Gesture plays a named gesture clip. mirror swaps handedness;
// scaleTime stretches the clip's timing.
func (c *Controller) Gesture(name string, mirror bool, scaleTime float64, now time.Time) error {
	cl, err := c.clips.Get(name)
	if err != nil {
		return err
	}
	if cl.Kind != clip.KindAnim {
		return fmt.Errorf("clip %q is not a gesture", name)
	}
	tpl := cl.Template
	if mirror {
		tpl = tpl.Mirrored()
	}
	_, err = c.sched.Play(tpl, tpl.Loop, scaleTime, 1, now)
	return err
}

// PlayClip enqueues a named animation clip, or applies a pose clip as
// a stance change.
func (c *Controller) PlayClip(name string, now time.Time) error {
	cl, err := c.clips.Get(name)
	if err != nil {
		return err
	}
	if cl.Kind == clip.KindPose {
		return c.SetPose(name, now)
	}
	_, err = c.sched.Play(cl.Template, cl.Template.Loop, 1, 1, now)
	return err
}

// Tick advances the avatar to now and returns the frame for the host
// to apply. Pass order within the tick is fixed: pending stance →
// scheduler passes → pose evaluation → IK.
func (c *Controller) Tick(now time.Time) Frame {
	t := anim.Millis(now)

	if c.pending != nil && t >= c.pending.at {
		c.applyPose(c.pending.tpl, t, settleMS)
		c.pending = nil
	}

	cmds := c.sched.Tick(now)
	for _, cmd := range cmds {
		switch v := cmd.(type) {
		case anim.SetPose:
			if err := c.SetPose(v.Name, now); err != nil {
				log.Warn("pose command rejected", "pose", v.Name, "err", err)
			}
		case anim.SetHandTarget:
			if v.Release {
				c.ReleaseHand(v.Hand)
			} else {
				c.SetHandTarget(v.Hand, mgl64.Vec3{v.X, v.Y, v.Z})
			}
		}
	}

	c.pose.Evaluate(t)
	c.solveChains()

	return Frame{
		Values:   c.sched.Values(),
		Bones:    c.pose.Transforms(),
		Commands: cmds,
		Mood:     c.sched.Mood(),
		Pose:     c.poseName,
	}
}

// solveChains runs IK for gaze and hands and writes the solved link
// rotations into the pose model. Chains without a target relax toward
// rest instead.
func (c *Controller) solveChains() {
	c.solveChain(ChainHead, c.gazeTarget)

	for _, hand := range []anim.HandSide{anim.HandLeft, anim.HandRight} {
		var target *mgl64.Vec3
		if tgt, ok := c.handTargets[hand]; ok {
			t := tgt
			target = &t
		}
		c.solveChain(chainFor(hand), target)
	}
}

func (c *Controller) solveChain(name string, target *mgl64.Vec3) {
	if err := c.chains.Solve(name, target); err != nil {
		log.Warn("ik solve skipped", "chain", name, "err", err)
		return
	}
	chain, _ := c.chains.Get(name)
	for bone, e := range chain.Eulers() {
		tr, ok := c.pose.Avatar(bone)
		if !ok {
			tr = rig.Transform{}
		}
		tr.Rotation = rig.Euler{X: e[0], Y: e[1], Z: e[2]}
		c.pose.SetAvatar(bone, tr)
	}
}
