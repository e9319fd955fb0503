package input

import "github.com/lanmove/syncd/internal/protocol"

// Event is one outbound movement transition.
type Event struct {
	// Moving is true for "started moving" and "changed direction",
	// false for "stopped moving".
	Moving bool

	// Direction is the new motion code. Always DirNone when Moving is
	// false.
	Direction uint8
}

// Tracker detects movement transitions between consecutive key
// samples. It keeps the previous tick's motion flag and direction and
// emits at most one event per observation; ticks with unchanged state
// emit nothing, which keeps the wire quiet but means a lost transition
// stays stale until the next one.
type Tracker struct {
	wasMoving bool
	prevDir   uint8
}

// NewTracker returns a tracker in the stationary state.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Observe folds one key sample into the tracker. It returns an event
// and true on a transition edge: motion started, direction changed
// while moving, or motion stopped.
func (t *Tracker) Observe(k Keys) (Event, bool) {
	moving := k.Any()
	dir := k.Direction()

	var (
		ev    Event
		fired bool
	)
	switch {
	case moving && (!t.wasMoving || dir != t.prevDir):
		ev = Event{Moving: true, Direction: dir}
		fired = true
	case !moving && t.wasMoving:
		ev = Event{Moving: false, Direction: protocol.DirNone}
		fired = true
	}

	t.wasMoving = moving
	t.prevDir = dir
	return ev, fired
}
