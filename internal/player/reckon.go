package player

import "github.com/lanmove/syncd/internal/protocol"

// stepPerSecond is the fixed dead-reckoning speed on each axis.
// Diagonal codes advance both axes by the full step, so diagonal
// motion is faster by a factor of sqrt(2). That matches the sender's
// own local integration and must not be normalized away.
const stepPerSecond = 1.0

// Reckon extrapolates one tick of motion from the last received
// packet. It runs every tick whether or not a new packet arrived: the
// peer keeps sliding in its last known direction until a stop packet
// lands. Packets about the local player are ignored.
func (r *Registry) Reckon(p protocol.Packet, dt float64) {
	if !p.Moving || p.PlayerID == r.localID {
		return
	}

	rem := r.ensure(p.PlayerID)
	step := stepPerSecond * dt

	switch p.Direction {
	case protocol.DirUp:
		rem.Pos.Y += step
	case protocol.DirDown:
		rem.Pos.Y -= step
	case protocol.DirRight:
		rem.Pos.X += step
	case protocol.DirLeft:
		rem.Pos.X -= step
	case protocol.DirUpRight:
		rem.Pos.X += step
		rem.Pos.Y += step
	case protocol.DirUpLeft:
		rem.Pos.X -= step
		rem.Pos.Y += step
	case protocol.DirDownLeft:
		rem.Pos.X -= step
		rem.Pos.Y -= step
	case protocol.DirDownRight:
		rem.Pos.X += step
		rem.Pos.Y -= step
	}

	r.clamp(rem)
}

// Place applies an absolute position and health update from the roster
// feed. Records about the local player are skipped.
func (r *Registry) Place(id uint8, pos Vec3, health int, name string) {
	if id == r.localID {
		return
	}

	rem := r.ensure(id)
	rem.Pos = pos
	rem.Health = health
	if name != "" {
		rem.Name = name
	}
	r.clamp(rem)
}
