// Package clip loads animation and pose clips from JSON files.
//
// Clips are the configuration surface for the engine: built-ins are
// embedded, custom packs load from a directory at startup. An anim
// clip parses into an animation template, a pose clip into a pose
// template; callers never construct templates at runtime outside this
// path.
package clip

import (
	"github.com/teslashibe/go-avatar/pkg/anim"
	"github.com/teslashibe/go-avatar/pkg/rig"
)

// Kind distinguishes the two clip payloads.
type Kind string

const (
	KindAnim Kind = "anim"
	KindPose Kind = "pose"
)

// Clip is a loaded, named clip. Exactly one of Template and Pose is
// set, matching Kind.
type Clip struct {
	// Name is the identifier, taken from the file name.
	Name string

	// Description explains when to use this clip.
	Description string

	Kind     Kind
	Template *anim.Template
	Pose     *rig.PoseTemplate
}

// clipData is the raw JSON structure of a clip file.
type clipData struct {
	Type        string `json:"type"`
	Description string `json:"description"`

	// Animation clip fields.
	Delay anim.ValueSpec              `json:"delay"`
	Dts   []anim.ValueSpec            `json:"dt"`
	Vs    map[string][]anim.ValueSpec `json:"vs"`
	Mood  string                      `json:"mood"`
	Loop  int                         `json:"loop"`
	Text  string                      `json:"text"`
	Pose  string                      `json:"pose"`
	Hand  *anim.HandTargetSpec        `json:"hand"`

	// Pose clip fields.
	Class        string                   `json:"class"`
	WeightOnLeft bool                     `json:"weightOnLeft"`
	Props        map[string]rig.Transform `json:"props"`
}
