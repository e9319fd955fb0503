// Package storage persists session activity. The gorm backend batches
// writes through in-memory queues so the tick loop never blocks on the
// database; a no-op backend serves configurations without one.
package storage

import "github.com/lanmove/syncd/internal/model"

// Recorder is the interface all recording backends satisfy.
type Recorder interface {
	// StartSession persists the session row and pins its ID for
	// subsequent events.
	StartSession(s *model.Session) error

	RecordMovement(e *model.MovementEvent) error
	RecordRoster(snap *model.RosterSnapshot) error

	// Close flushes any buffered events and releases the backend.
	Close() error
}

// Nop discards everything.
type Nop struct{}

func (Nop) StartSession(*model.Session) error         { return nil }
func (Nop) RecordMovement(*model.MovementEvent) error { return nil }
func (Nop) RecordRoster(*model.RosterSnapshot) error  { return nil }
func (Nop) Close() error                              { return nil }
