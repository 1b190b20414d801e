package anim

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/teslashibe/go-avatar/internal/log"
	"github.com/teslashibe/go-avatar/pkg/easing"
)

// settleMS is the fixed ease window for baseline and override drift.
const settleMS = 1000.0

// drift tracks one channel easing toward a side-channel target. The
// (t0, v0) anchor is captured lazily on first mismatch and cleared once
// the channel settles, so a later mismatch restarts cleanly.
type drift struct {
	target float64
	t0, v0 float64
	active bool
}

// Scheduler owns the animation queue, the baseline and fixed-override
// side channels, and the live channel values. It is driven by one
// external per-frame Tick call; nothing here runs in the background.
//
// Queue order is load-bearing: instances are processed in ascending
// insertion order and a later-enqueued active instance wins any channel
// it shares with an earlier one, permanently pruning the earlier claim.
type Scheduler struct {
	sampler *easing.Sampler
	factory *Factory
	ease    easing.Func

	queue    []*Instance
	baseline map[string]*drift
	fixed    map[string]*drift
	values   map[string]float64
	known    map[string]bool

	moods map[string]*Mood
	mood  string

	commands []Command
}

// NewScheduler creates a scheduler over the given channel registry.
// All registered channels start at 0.
func NewScheduler(sampler *easing.Sampler, channels []string) *Scheduler {
	s := &Scheduler{
		sampler:  sampler,
		ease:     easing.Sigmoid(5),
		baseline: make(map[string]*drift),
		fixed:    make(map[string]*drift),
		values:   make(map[string]float64, len(channels)),
		known:    make(map[string]bool, len(channels)),
		moods:    make(map[string]*Mood),
	}
	for _, ch := range channels {
		s.values[ch] = 0
		s.known[ch] = true
	}
	s.factory = &Factory{
		Sampler:  sampler,
		Baseline: s.baselineTarget,
	}
	return s
}

// Factory returns the scheduler's factory, wired to its baseline map.
func (s *Scheduler) Factory() *Factory { return s.factory }

// baselineTarget is the factory's baseline lookup.
func (s *Scheduler) baselineTarget(ch string) float64 {
	if d, ok := s.baseline[ch]; ok {
		return d.target
	}
	return 0
}

// Value returns the live value of a channel.
func (s *Scheduler) Value(name string) (float64, bool) {
	v, ok := s.values[name]
	return v, ok
}

// Values returns a copy of all live channel values.
func (s *Scheduler) Values() map[string]float64 {
	out := make(map[string]float64, len(s.values))
	for ch, v := range s.values {
		out[ch] = v
	}
	return out
}

// RegisterMood adds a mood. Baseline channels must be registered and
// templates valid; nothing is installed until SetMood.
func (s *Scheduler) RegisterMood(m *Mood) error {
	for ch := range m.Baseline {
		if !s.known[ch] {
			return fmt.Errorf("%w: mood %q baseline %s", ErrUnknownChannel, m.Name, ch)
		}
	}
	for _, tpl := range m.Templates {
		if err := tpl.Validate(); err != nil {
			return fmt.Errorf("mood %q: %w", m.Name, err)
		}
	}
	s.moods[m.Name] = m
	return nil
}

// Mood returns the active mood name.
func (s *Scheduler) Mood() string { return s.mood }

// SetMood installs a mood: the baseline map is replaced wholesale
// (every known channel gets the mood's explicit value or 0), queue
// entries whose template name collides with a new mood template are
// evicted, and the mood's templates are re-instantiated as infinite
// loops. Unknown names are rejected with state unchanged.
func (s *Scheduler) SetMood(name string, now time.Time) error {
	m, ok := s.moods[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownMood, name)
	}

	nb := make(map[string]*drift, len(s.known))
	for ch := range s.known {
		nb[ch] = &drift{target: m.Baseline[ch]}
	}
	s.baseline = nb

	colliding := make(map[string]bool, len(m.Templates))
	for _, tpl := range m.Templates {
		colliding[tpl.Name] = true
	}
	kept := s.queue[:0]
	for _, in := range s.queue {
		if colliding[in.Template.Name] {
			log.Debug("mood evicted instance", "mood", name, "template", in.Template.Name, "id", in.ID)
			continue
		}
		kept = append(kept, in)
	}
	s.queue = kept

	for _, tpl := range m.Templates {
		in, err := s.factory.Instantiate(tpl, -1, 1, 1, now)
		if err != nil {
			// Validated at registration; should not happen.
			log.Warn("mood template failed to instantiate", "mood", name, "template", tpl.Name, "err", err)
			continue
		}
		s.queue = append(s.queue, in)
	}

	s.mood = name
	log.Info("mood set", "mood", name)
	return nil
}

// Enqueue appends an instance to the queue. Insertion order is
// precedence order: later entries win shared channels.
func (s *Scheduler) Enqueue(in *Instance) {
	s.queue = append(s.queue, in)
}

// Play instantiates a template and enqueues it in one step.
func (s *Scheduler) Play(tpl *Template, loop int, scaleTime, scaleValue float64, now time.Time) (*Instance, error) {
	in, err := s.factory.Instantiate(tpl, loop, scaleTime, scaleValue, now)
	if err != nil {
		return nil, err
	}
	s.Enqueue(in)
	return in, nil
}

// Remove drops an instance from the queue by ID. This is the only
// cancellation primitive: no callback runs, and other instances'
// channel entries are untouched.
func (s *Scheduler) Remove(id uuid.UUID) bool {
	for i, in := range s.queue {
		if in.ID == id {
			s.queue = append(s.queue[:i], s.queue[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveTemplate drops all queue entries derived from the named
// template. Returns the number removed.
func (s *Scheduler) RemoveTemplate(name string) int {
	n := 0
	kept := s.queue[:0]
	for _, in := range s.queue {
		if in.Template.Name == name {
			n++
			continue
		}
		kept = append(kept, in)
	}
	s.queue = kept
	return n
}

// QueueLen returns the number of active instances.
func (s *Scheduler) QueueLen() int { return len(s.queue) }

// HasTemplate reports whether any queued instance derives from the
// named template.
func (s *Scheduler) HasTemplate(name string) bool {
	for _, in := range s.queue {
		if in.Template.Name == name {
			return true
		}
	}
	return false
}

// SetOverride installs a fixed override: the channel is pulled toward
// target ahead of any animation-derived value until cleared.
func (s *Scheduler) SetOverride(ch string, target float64) error {
	if !s.known[ch] {
		return fmt.Errorf("%w: %s", ErrUnknownChannel, ch)
	}
	s.fixed[ch] = &drift{target: target}
	return nil
}

// ClearOverride removes a fixed override.
func (s *Scheduler) ClearOverride(ch string) {
	delete(s.fixed, ch)
}

// Tick advances the engine to now and returns the side-effect commands
// produced this tick. The pass order is fixed and total: baseline →
// queue → expiry/loop/mood → fixed overrides. Ticks are not reentrant.
func (s *Scheduler) Tick(now time.Time) []Command {
	t := Millis(now)

	// 1. Baseline pass: unclaimed channels drift toward their
	// resting targets.
	for ch, d := range s.baseline {
		s.settle(ch, d, t)
	}

	// 2. Queue pass, ascending insertion order. The last processed
	// writer of a channel wins; every earlier writer loses its claim
	// permanently so it stops competing on later ticks.
	writer := make(map[string]*Instance)
	for _, in := range s.queue {
		if !in.Active(t) {
			continue
		}
		if !in.armed {
			s.arm(in)
		}
		for ch, vs := range in.Vs {
			if prev, ok := writer[ch]; ok && prev != in {
				delete(prev.Vs, ch)
			}
			writer[ch] = in
			s.values[ch] = Resolve(in.Ts, vs, t, s.ease)
		}
	}

	// 3. Expiry: finished instances are removed, loops re-armed in
	// place, mood tags collected for after the filter. SetMood rewrites
	// the queue, so it must not run while kept aliases it.
	var triggered []*Instance
	kept := s.queue[:0]
	for _, in := range s.queue {
		if !in.Expired(t) {
			kept = append(kept, in)
			continue
		}
		if in.Loop != 0 {
			loop := in.Loop
			if loop > 0 {
				loop--
			}
			re, err := s.factory.Instantiate(in.Template, loop, in.ScaleTime, in.ScaleValue, now)
			if err != nil {
				log.Warn("loop re-arm failed", "template", in.Template.Name, "err", err)
				continue
			}
			kept = append(kept, re)
			continue
		}
		if in.Template.Mood != "" {
			triggered = append(triggered, in)
		}
	}
	s.queue = kept
	for _, in := range triggered {
		if err := s.SetMood(in.Template.Mood, now); err != nil {
			log.Warn("completion mood rejected", "template", in.Template.Name, "err", err)
		}
	}

	// 4. Fixed overrides win the tick, overwriting queue output.
	for ch, d := range s.fixed {
		s.settle(ch, d, t)
	}

	cmds := s.commands
	s.commands = nil
	return cmds
}

// settle eases one channel toward its drift target over the fixed
// window. Settling is idempotent: once the value equals the target the
// anchor is cleared and a later mismatch restarts from scratch.
func (s *Scheduler) settle(ch string, d *drift, t float64) {
	cur, ok := s.values[ch]
	if !ok {
		return
	}
	if cur == d.target {
		d.active = false
		return
	}
	if !d.active {
		d.t0 = t
		d.v0 = cur
		d.active = true
	}
	s.values[ch] = Resolve(
		[]float64{d.t0, d.t0 + settleMS},
		[]Value{Fixed(d.v0), Fixed(d.target)},
		t, s.ease)
}

// arm fills deferred values with the channels' live values and emits
// the template's side-effect commands. Runs once per instance, on the
// first tick where the instance is active.
func (s *Scheduler) arm(in *Instance) {
	for ch, vs := range in.Vs {
		for i := range vs {
			if vs[i].IsDeferred() {
				vs[i] = Fixed(s.values[ch])
			}
		}
	}

	tpl := in.Template
	if tpl.Text != "" {
		s.commands = append(s.commands, EmitSubtitle{Text: tpl.Text})
	}
	for _, m := range tpl.Markers {
		s.commands = append(s.commands, InvokeMarker{Name: m})
	}
	if tpl.Pose != "" {
		s.commands = append(s.commands, SetPose{Name: tpl.Pose})
	}
	if tpl.MoveTo != nil {
		s.commands = append(s.commands, MoveTo{X: tpl.MoveTo[0], Y: tpl.MoveTo[1], Z: tpl.MoveTo[2]})
	}
	if tpl.Hand != nil {
		h := tpl.Hand
		s.commands = append(s.commands, SetHandTarget{
			Hand: h.Hand, X: h.Target[0], Y: h.Target[1], Z: h.Target[2], Release: h.Release,
		})
	}
	in.armed = true
}
