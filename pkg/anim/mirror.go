package anim

import "strings"

// mirrorChannel swaps the Left/Right suffix of a channel name.
// Channel names carry handedness as a suffix (mouthSmileLeft),
// unlike bone names which prefix it.
func mirrorChannel(name string) string {
	switch {
	case strings.HasSuffix(name, "Left"):
		return name[:len(name)-len("Left")] + "Right"
	case strings.HasSuffix(name, "Right"):
		return name[:len(name)-len("Right")] + "Left"
	}
	return name
}

// Mirrored returns a left/right mirrored copy of the template: channel
// name suffixes are swapped and a hand target payload switches side
// with its lateral offset negated. Timing and values are shared with
// the original; templates are immutable after validation.
func (t *Template) Mirrored() *Template {
	out := *t
	out.Channels = make(map[string][]ValueSpec, len(t.Channels))
	for ch, vs := range t.Channels {
		out.Channels[mirrorChannel(ch)] = vs
	}
	if t.Hand != nil {
		h := *t.Hand
		if h.Hand == HandLeft {
			h.Hand = HandRight
		} else {
			h.Hand = HandLeft
		}
		h.Target[0] = -h.Target[0]
		out.Hand = &h
	}
	return &out
}
