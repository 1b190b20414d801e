package rig

// Oculus viseme channels, matching the blend-shape names avatar
// pipelines build for lip sync.
var VisemeChannels = []string{
	"viseme_aa", "viseme_E", "viseme_I", "viseme_O", "viseme_U",
	"viseme_PP", "viseme_FF", "viseme_DD", "viseme_SS", "viseme_TH",
	"viseme_CH", "viseme_RR", "viseme_kk", "viseme_nn", "viseme_sil",
}

// ARKit-style facial morph channels the built-in moods drive.
var MorphChannels = []string{
	"browDownLeft", "browDownRight", "browInnerUp",
	"browOuterUpLeft", "browOuterUpRight",
	"eyeBlinkLeft", "eyeBlinkRight",
	"eyeSquintLeft", "eyeSquintRight",
	"eyesLookDown", "eyesLookUp", "eyesLookLeft", "eyesLookRight",
	"jawOpen", "jawForward",
	"mouthSmileLeft", "mouthSmileRight",
	"mouthFrownLeft", "mouthFrownRight",
	"mouthPucker", "mouthFunnel",
	"mouthPressLeft", "mouthPressRight",
	"mouthDimpleLeft", "mouthDimpleRight",
	"mouthRollLower", "mouthRollUpper",
	"mouthShrugUpper", "mouthShrugLower",
	"mouthLowerDownLeft", "mouthLowerDownRight",
	"mouthUpperUpLeft", "mouthUpperUpRight",
	"cheekPuff", "cheekSquintLeft", "cheekSquintRight",
	"noseSneerLeft", "noseSneerRight",
	"tongueOut",
}

// Head and body scalar channels resolved alongside the morphs.
var BodyChannels = []string{
	"headRotateX", "headRotateY", "headRotateZ",
	"chestInhale",
	"handFistLeft", "handFistRight",
}

// DefaultChannels returns the full channel registry for a standard rig.
func DefaultChannels() []string {
	out := make([]string, 0, len(VisemeChannels)+len(MorphChannels)+len(BodyChannels))
	out = append(out, VisemeChannels...)
	out = append(out, MorphChannels...)
	out = append(out, BodyChannels...)
	return out
}
