package protocol

// DirectionFor maps one sample of the four movement keys to a wire
// direction code. Only the eight unambiguous chords produce motion;
// any contradictory combination (e.g. left+right+up) resolves to
// DirNone and the sender treats the player as stationary on that axis
// pattern.
func DirectionFor(left, right, up, down bool) uint8 {
	switch {
	case up && !down && !left && !right:
		return DirUp
	case down && !up && !left && !right:
		return DirDown
	case right && !left && !up && !down:
		return DirRight
	case left && !right && !up && !down:
		return DirLeft
	case up && right && !down && !left:
		return DirUpRight
	case up && left && !down && !right:
		return DirUpLeft
	case down && left && !up && !right:
		return DirDownLeft
	case down && right && !up && !left:
		return DirDownRight
	default:
		return DirNone
	}
}
