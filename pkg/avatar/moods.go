package avatar

import "github.com/teslashibe/go-avatar/pkg/anim"

// builtinMoods returns the idle behavior bundles shipped with the
// engine. Each mood pairs a baseline map with looping templates for
// blinking, breathing, gaze wander and small head movement; the
// scheduler re-instantiates the templates as infinite loops when the
// mood is installed.
func builtinMoods() []*anim.Mood {
	blink := func(delayLo, delayHi float64) *anim.Template {
		return anim.MustTemplate(&anim.Template{
			Name:  "blink",
			Delay: anim.Rand(delayLo, delayHi, 3),
			Dts:   []anim.ValueSpec{anim.Num(90), anim.Num(60), anim.Num(100)},
			Channels: map[string][]anim.ValueSpec{
				"eyeBlinkLeft":  {anim.Num(0), anim.Num(1), anim.Num(1), anim.Num(0)},
				"eyeBlinkRight": {anim.Num(0), anim.Num(1), anim.Num(1), anim.Num(0)},
			},
		})
	}
	breathing := func(cycleLo, cycleHi float64) *anim.Template {
		return anim.MustTemplate(&anim.Template{
			Name:  "breathing",
			Delay: anim.Num(0),
			Dts:   []anim.ValueSpec{anim.Rand(cycleLo, cycleHi, 1), anim.Rand(cycleLo, cycleHi, 1)},
			Channels: map[string][]anim.ValueSpec{
				"chestInhale": {anim.Num(0), anim.Rand(0.4, 0.7, 1), anim.Num(0)},
			},
		})
	}
	headIdle := anim.MustTemplate(&anim.Template{
		Name:  "head-idle",
		Delay: anim.Rand(500, 5000, 2),
		Dts:   []anim.ValueSpec{anim.Rand(1000, 2500, 1)},
		Channels: map[string][]anim.ValueSpec{
			"headRotateX": {anim.Current(), anim.Rand(-0.06, 0.12, 1)},
			"headRotateY": {anim.Current(), anim.Rand(-0.25, 0.25, 1)},
			"headRotateZ": {anim.Current(), anim.Rand(-0.08, 0.08, 1)},
		},
	})
	gazeWander := anim.MustTemplate(&anim.Template{
		Name:  "gaze-wander",
		Delay: anim.Rand(1000, 6000, 2),
		Dts:   []anim.ValueSpec{anim.Num(250), anim.Rand(1500, 4000, 1), anim.Num(400)},
		Channels: map[string][]anim.ValueSpec{
			"eyesRotateY": {anim.Num(0), anim.Rand(-0.6, 0.6, 1), anim.Rand(-0.6, 0.6, 1), anim.Num(0)},
		},
	})

	return []*anim.Mood{
		{
			Name:     "neutral",
			Baseline: map[string]float64{"eyesLookDown": 0.1},
			Templates: []*anim.Template{
				blink(2000, 10000), breathing(2500, 3500), headIdle, gazeWander,
			},
		},
		{
			Name: "happy",
			Baseline: map[string]float64{
				"mouthSmileLeft":  0.3,
				"mouthSmileRight": 0.3,
				"eyesLookDown":    0.05,
			},
			Templates: []*anim.Template{
				blink(1500, 8000), breathing(2000, 3000), headIdle, gazeWander,
			},
		},
		{
			Name: "sad",
			Baseline: map[string]float64{
				"mouthFrownLeft":  0.4,
				"mouthFrownRight": 0.4,
				"browInnerUp":     0.4,
				"eyesLookDown":    0.25,
			},
			Templates: []*anim.Template{
				blink(3000, 12000), breathing(3000, 4500), headIdle,
			},
		},
		{
			Name: "angry",
			Baseline: map[string]float64{
				"browDownLeft":  0.6,
				"browDownRight": 0.6,
				"jawForward":    0.3,
				"noseSneerLeft": 0.2,
			},
			Templates: []*anim.Template{
				blink(2000, 7000), breathing(1800, 2600), headIdle,
			},
		},
		{
			Name: "sleep",
			Baseline: map[string]float64{
				"eyeBlinkLeft":  0.95,
				"eyeBlinkRight": 0.95,
				"eyesLookDown":  0.3,
			},
			Templates: []*anim.Template{
				breathing(4000, 5500),
			},
		},
	}
}
