// Package protocol implements the wire format for the LAN movement
// broadcast: a compact ASCII datagram whose four header fields are one
// decimal digit each, followed by a variable-length millisecond
// timestamp and a trailing display name.
package protocol

// Packet type discriminators.
const (
	TypeMovement uint8 = 0
	TypeAnnounce uint8 = 1
)

// Direction codes carried on the wire. Up is +y, Right is +x.
const (
	DirNone      uint8 = 0
	DirUp        uint8 = 1
	DirDown      uint8 = 2
	DirRight     uint8 = 3
	DirLeft      uint8 = 4
	DirUpRight   uint8 = 5
	DirUpLeft    uint8 = 6
	DirDownLeft  uint8 = 7
	DirDownRight uint8 = 8
)

// Packet is one decoded movement datagram.
type Packet struct {
	// Type is TypeMovement for movement transitions, TypeAnnounce for
	// the one-time session hello.
	Type uint8

	// PlayerID identifies the sending peer, 1-3 in practice. The wire
	// format cannot carry an ID above 9.
	PlayerID uint8

	// Moving reports whether the sender is in motion. Stationary
	// packets always carry DirNone.
	Moving bool

	// Direction is the sender's current motion code, 0-8.
	Direction uint8

	// Timestamp is sender-local Unix milliseconds. It is a recency
	// hint only; nothing enforces ordering across the wire.
	Timestamp uint64

	// Name is the sender's display name. It is written on the wire but
	// never read back out: the receive path has no use for it.
	Name string
}
