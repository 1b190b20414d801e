package anim

// Command is a typed side effect emitted by the scheduler's tick.
// Commands replace callback channels: the host consumes the tick's
// command list after each tick, preserving single-threaded ordering.
type Command interface {
	isCommand()
}

// EmitSubtitle appends text to the host's running subtitle.
type EmitSubtitle struct {
	Text string
}

// InvokeMarker signals a named one-shot marker the host registered
// with the utterance or gesture that carried it.
type InvokeMarker struct {
	Name string
}

// SetPose asks the host-side controller for a stance change by
// template name.
type SetPose struct {
	Name string
}

// MoveTo asks the host to relocate the avatar root.
type MoveTo struct {
	X, Y, Z float64
}

// SetHandTarget points a hand IK target at a world position, or
// releases the hand back to its rest pose.
type SetHandTarget struct {
	Hand    HandSide
	X, Y, Z float64
	Release bool
}

func (EmitSubtitle) isCommand()  {}
func (InvokeMarker) isCommand()  {}
func (SetPose) isCommand()       {}
func (MoveTo) isCommand()        {}
func (SetHandTarget) isCommand() {}
