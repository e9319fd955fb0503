// Package player tracks remote peers and extrapolates their positions
// between network updates. The registry is confined to the tick
// goroutine; cross-thread data reaches it only as copies (a state
// snapshot or a drained roster batch).
package player

// Vec3 is a world-space position.
type Vec3 struct {
	X float64
	Y float64
	Z float64
}

// UpdateFunc receives a remote player's position on every render
// pass. The renderer side provides no feedback.
type UpdateFunc func(playerID uint8, pos Vec3)

// Remote is one tracked peer.
type Remote struct {
	ID     uint8
	Name   string
	Health int
	Pos    Vec3
}

// Registry owns the remote player slots.
type Registry struct {
	localID uint8
	remotes map[uint8]*Remote
	update  UpdateFunc
}

// NewRegistry creates a registry for the given local player id. update
// may be nil when no renderer is attached.
func NewRegistry(localID uint8, update UpdateFunc) *Registry {
	return &Registry{
		localID: localID,
		remotes: make(map[uint8]*Remote),
		update:  update,
	}
}

// Position returns a remote player's current position.
func (r *Registry) Position(id uint8) (Vec3, bool) {
	rem, ok := r.remotes[id]
	if !ok {
		return Vec3{}, false
	}
	return rem.Pos, true
}

// Remotes returns a copy of every tracked peer.
func (r *Registry) Remotes() []Remote {
	out := make([]Remote, 0, len(r.remotes))
	for _, rem := range r.remotes {
		out = append(out, *rem)
	}
	return out
}

func (r *Registry) ensure(id uint8) *Remote {
	rem, ok := r.remotes[id]
	if !ok {
		rem = &Remote{ID: id}
		r.remotes[id] = rem
	}
	return rem
}

// clamp keeps a remote on or above the ground plane.
func (r *Registry) clamp(rem *Remote) {
	if rem.Pos.Y < 0 {
		rem.Pos.Y = 0
	}
}

// Render invokes the update callback once for every tracked remote.
// The tick loop calls this exactly once per tick, after movement and
// roster updates have been applied.
func (r *Registry) Render() {
	if r.update == nil {
		return
	}
	for _, rem := range r.remotes {
		r.update(rem.ID, rem.Pos)
	}
}
