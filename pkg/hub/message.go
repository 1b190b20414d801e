// Package hub provides a thread-safe websocket broadcast hub
// using the idiomatic Go channel-based fan-out pattern. The avatar
// server uses one hub per stream: frames every tick, events as they
// happen.
package hub

// Envelope kinds carried on the wire.
const (
	KindFrame    = "frame"
	KindSubtitle = "subtitle"
	KindMarker   = "marker"
	KindState    = "state"
)

// Envelope wraps one broadcast payload with its kind so clients can
// demultiplex a single socket.
type Envelope struct {
	Kind string `json:"kind"`
	Data any    `json:"data"`
}
