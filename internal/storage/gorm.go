package storage

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lanmove/syncd/internal/database"
	"github.com/lanmove/syncd/internal/model"
	"github.com/lanmove/syncd/internal/queue"
)

const flushInterval = 2 * time.Second

// GormRecorder writes session activity through a database.Manager.
// Events are queued and flushed in batches on a background goroutine.
type GormRecorder struct {
	db *database.Manager

	// Written once by StartSession, read by the record methods, which
	// run on the receive goroutine.
	sessionID atomic.Uint64

	movements *queue.Queue[model.MovementEvent]
	rosters   *queue.Queue[model.RosterSnapshot]

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewGormRecorder wraps a connected, migrated database manager.
func NewGormRecorder(db *database.Manager) *GormRecorder {
	r := &GormRecorder{
		db:        db,
		movements: queue.New[model.MovementEvent](),
		rosters:   queue.New[model.RosterSnapshot](),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
	go r.flushLoop()
	return r
}

// StartSession persists the session row and pins its ID for events
// recorded afterwards.
func (r *GormRecorder) StartSession(s *model.Session) error {
	if err := r.db.DB.Create(s).Error; err != nil {
		return fmt.Errorf("creating session row: %w", err)
	}
	r.sessionID.Store(uint64(s.ID))
	return nil
}

// RecordMovement queues a movement event for the next flush.
func (r *GormRecorder) RecordMovement(e *model.MovementEvent) error {
	e.SessionID = uint(r.sessionID.Load())
	r.movements.Push(*e)
	return nil
}

// RecordRoster queues a roster snapshot for the next flush.
func (r *GormRecorder) RecordRoster(snap *model.RosterSnapshot) error {
	snap.SessionID = uint(r.sessionID.Load())
	r.rosters.Push(*snap)
	return nil
}

// Close stops the flush loop, writes any remaining events, and dumps
// the in-memory SQLite fallback to disk when one is in use.
func (r *GormRecorder) Close() error {
	r.stopOnce.Do(func() {
		close(r.stop)
	})
	<-r.done

	if err := r.flush(); err != nil {
		return err
	}

	if r.db.ShouldSaveLocal && r.db.SqliteFilePath != "" {
		if err := r.db.DumpMemoryToDisk(); err != nil {
			return fmt.Errorf("dumping local DB: %w", err)
		}
	}
	return nil
}

func (r *GormRecorder) flushLoop() {
	defer close(r.done)

	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stop:
			return
		case <-ticker.C:
			if err := r.flush(); err != nil {
				r.db.Logger.Error().Err(err).Msg("Failed to flush recorder queues")
			}
		}
	}
}

func (r *GormRecorder) flush() error {
	if moves := r.movements.GetAndEmpty(); len(moves) > 0 {
		if err := r.db.DB.Create(&moves).Error; err != nil {
			return fmt.Errorf("writing movement events: %w", err)
		}
	}
	if snaps := r.rosters.GetAndEmpty(); len(snaps) > 0 {
		if err := r.db.DB.Create(&snaps).Error; err != nil {
			return fmt.Errorf("writing roster snapshots: %w", err)
		}
	}
	return nil
}
