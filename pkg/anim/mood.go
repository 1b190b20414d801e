package anim

// Mood bundles a baseline channel-value map with the animation
// templates that define an idle behavior. Moods are mutually
// exclusive: installing one clears the previous mood's baseline claims
// wholesale before the new baseline and bundle take over.
type Mood struct {
	Name string

	// Baseline maps channel name to the resting target the channel
	// eases toward whenever no active animation claims it. Channels
	// absent here settle to 0 while the mood is active.
	Baseline map[string]float64

	// Templates are re-instantiated as infinite loops when the mood
	// is installed.
	Templates []*Template
}
