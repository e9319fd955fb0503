// Package input samples the local movement keys and turns them into
// edge events: a packet-worth of intent when motion starts, stops, or
// changes direction, and silence on every other tick.
package input

import "github.com/lanmove/syncd/internal/protocol"

// Keys is one sample of the four movement keys.
type Keys struct {
	Left  bool
	Right bool
	Up    bool
	Down  bool
}

// Any reports whether any movement key is held.
func (k Keys) Any() bool {
	return k.Left || k.Right || k.Up || k.Down
}

// Direction classifies the sample into a wire direction code.
func (k Keys) Direction() uint8 {
	return protocol.DirectionFor(k.Left, k.Right, k.Up, k.Down)
}

// Sampler reports the current key state. Called once per tick by the
// session; implementations must not block.
type Sampler interface {
	Sample() Keys
}

// SamplerFunc adapts a function to the Sampler interface.
type SamplerFunc func() Keys

// Sample calls f.
func (f SamplerFunc) Sample() Keys {
	return f()
}
