// Package state holds the most recent movement packet seen on the
// wire. There is exactly one slot: the receive goroutine overwrites it
// on every decode and the tick loop copies it out once per tick.
package state

import (
	"sync"

	"github.com/lanmove/syncd/internal/protocol"
)

// Store is the shared last-packet slot. Last writer wins; no ordering
// check is applied against the previous packet's timestamp, so a stale
// datagram that arrives late replaces a newer one.
type Store struct {
	mu     sync.Mutex
	last   protocol.Packet
	moving bool
	valid  bool
}

// NewStore returns an empty slot. Snapshot reports ok=false until the
// first Publish.
func NewStore() *Store {
	return &Store{}
}

// Publish replaces the slot with p and recomputes the derived moving
// flag. Called from the receive goroutine.
func (s *Store) Publish(p protocol.Packet) {
	s.mu.Lock()
	s.last = p
	s.moving = p.Moving
	s.valid = true
	s.mu.Unlock()
}

// Snapshot copies the slot out under the lock. Callers reconcile from
// the copy; the lock is never held across a tick.
func (s *Store) Snapshot() (p protocol.Packet, moving, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, s.moving, s.valid
}
