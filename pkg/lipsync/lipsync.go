// Package lipsync turns externally produced viseme timelines into
// animation templates for the mouth blend-shape channels.
//
// Language rules live outside the engine: a collaborator implements
// WordsToVisemes for its language and the engine only consumes the
// resulting (viseme, time, duration) triples. Speech timing likewise
// arrives from outside; the relative timeline is rescaled onto the
// utterance's absolute window before templates are built.
package lipsync

import (
	"errors"
	"fmt"

	"github.com/teslashibe/go-avatar/pkg/anim"
)

// ErrBadTimeline is returned when a viseme sequence is malformed.
var ErrBadTimeline = errors.New("invalid viseme timeline")

// DefaultMaxVisemeMS caps a single viseme's duration after rescaling;
// stretching an utterance must not produce unnaturally long holds.
const DefaultMaxVisemeMS = 500.0

// Visemes is a viseme timeline: parallel name, start-time and duration
// series in milliseconds, relative to the utterance start.
type Visemes struct {
	Visemes   []string  `json:"visemes"`
	Times     []float64 `json:"times"`
	Durations []float64 `json:"durations"`
}

// WordsToVisemes is the per-language collaborator contract: given
// preprocessed text, produce the viseme timeline.
type WordsToVisemes func(text string) (*Visemes, error)

// Validate checks series lengths and monotonic non-negative timing.
func (v *Visemes) Validate() error {
	if len(v.Visemes) == 0 {
		return fmt.Errorf("%w: empty", ErrBadTimeline)
	}
	if len(v.Times) != len(v.Visemes) || len(v.Durations) != len(v.Visemes) {
		return fmt.Errorf("%w: series lengths differ", ErrBadTimeline)
	}
	prev := 0.0
	for i := range v.Times {
		if v.Times[i] < prev {
			return fmt.Errorf("%w: times not non-decreasing at %d", ErrBadTimeline, i)
		}
		if v.Durations[i] <= 0 {
			return fmt.Errorf("%w: non-positive duration at %d", ErrBadTimeline, i)
		}
		prev = v.Times[i]
	}
	return nil
}

// Span returns the relative timeline length in ms.
func (v *Visemes) Span() float64 {
	span := 0.0
	for i := range v.Times {
		if end := v.Times[i] + v.Durations[i]; end > span {
			span = end
		}
	}
	return span
}

// Rescale maps the relative timeline onto an utterance window of total
// ms, compressing or stretching as needed. Per-viseme durations are
// capped at maxDuration (DefaultMaxVisemeMS when <= 0). Returns a new
// timeline; the receiver is unchanged.
func (v *Visemes) Rescale(total, maxDuration float64) (*Visemes, error) {
	if err := v.Validate(); err != nil {
		return nil, err
	}
	if total <= 0 {
		return nil, fmt.Errorf("%w: non-positive window %v", ErrBadTimeline, total)
	}
	if maxDuration <= 0 {
		maxDuration = DefaultMaxVisemeMS
	}
	factor := total / v.Span()

	out := &Visemes{
		Visemes:   append([]string(nil), v.Visemes...),
		Times:     make([]float64, len(v.Times)),
		Durations: make([]float64, len(v.Durations)),
	}
	for i := range v.Times {
		out.Times[i] = v.Times[i] * factor
		d := v.Durations[i] * factor
		if d > maxDuration {
			d = maxDuration
		}
		out.Durations[i] = d
	}
	return out, nil
}

// Intensity returns the peak blend-shape weight for a viseme. The
// labially closed consonants read visually stronger and get the higher
// peak.
func Intensity(viseme string) float64 {
	switch viseme {
	case "PP", "FF":
		return 0.9
	}
	return 0.6
}

// Channel returns the blend-shape channel name for a viseme.
func Channel(viseme string) string {
	return "viseme_" + viseme
}

// Templates builds one animation template per viseme: the channel
// rises from 0 to its peak over the first half of the viseme's
// duration and falls back over the second half. Template delays encode
// the viseme start times, so all templates are enqueued together at
// the utterance start.
func Templates(v *Visemes, name string) ([]*anim.Template, error) {
	if err := v.Validate(); err != nil {
		return nil, err
	}
	out := make([]*anim.Template, 0, len(v.Visemes))
	for i, vis := range v.Visemes {
		half := v.Durations[i] / 2
		tpl := &anim.Template{
			Name:  fmt.Sprintf("%s/viseme-%d-%s", name, i, vis),
			Delay: anim.Num(v.Times[i]),
			Dts:   []anim.ValueSpec{anim.Num(half), anim.Num(half)},
			Channels: map[string][]anim.ValueSpec{
				Channel(vis): {anim.Num(0), anim.Num(Intensity(vis)), anim.Num(0)},
			},
		}
		out = append(out, tpl)
	}
	return out, nil
}
