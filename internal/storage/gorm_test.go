package storage

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/lanmove/syncd/internal/database"
	"github.com/lanmove/syncd/internal/model"
)

func testManager(t *testing.T) *database.Manager {
	t.Helper()

	m := database.NewManager(zerolog.Nop())
	db, err := m.GetSqliteDB(t.TempDir() + "/syncd_test.db")
	require.NoError(t, err)
	m.DB = db
	m.IsValid = true
	require.NoError(t, m.Setup())
	return m
}

func TestGormRecorder_SessionAndEvents(t *testing.T) {
	m := testManager(t)
	r := NewGormRecorder(m)

	sess := &model.Session{
		PlayerID:   1,
		PlayerName: "Alice",
		ListenAddr: "0.0.0.0:8888",
		PeerAddr:   "127.0.0.1:8889",
		StartTime:  time.Now(),
	}
	require.NoError(t, r.StartSession(sess))
	require.NotZero(t, sess.ID)

	require.NoError(t, r.RecordMovement(&model.MovementEvent{
		PlayerID:  1,
		Outbound:  true,
		Moving:    true,
		Direction: 3,
		Timestamp: 1700000000000,
		Raw:       "01131700000000000Alice",
	}))
	require.NoError(t, r.RecordRoster(&model.RosterSnapshot{
		Records:   datatypes.JSON(`[{"player":2,"name":"Bob"}]`),
		Malformed: 1,
	}))

	// Flush synchronously instead of waiting for the ticker.
	require.NoError(t, r.flush())

	var moveCount, rosterCount int64
	require.NoError(t, m.DB.Model(&model.MovementEvent{}).Count(&moveCount).Error)
	require.NoError(t, m.DB.Model(&model.RosterSnapshot{}).Count(&rosterCount).Error)
	assert.Equal(t, int64(1), moveCount)
	assert.Equal(t, int64(1), rosterCount)

	var got model.MovementEvent
	require.NoError(t, m.DB.First(&got).Error)
	assert.Equal(t, sess.ID, got.SessionID)
	assert.Equal(t, uint8(3), got.Direction)
	assert.True(t, got.Outbound)

	require.NoError(t, r.Close())
}

func TestGormRecorder_CloseFlushesPending(t *testing.T) {
	m := testManager(t)
	r := NewGormRecorder(m)

	sess := &model.Session{PlayerID: 2, PlayerName: "Bob", StartTime: time.Now()}
	require.NoError(t, r.StartSession(sess))

	for i := 0; i < 5; i++ {
		require.NoError(t, r.RecordMovement(&model.MovementEvent{
			PlayerID: 2, Moving: true, Direction: 1,
		}))
	}
	require.NoError(t, r.Close())

	var count int64
	require.NoError(t, m.DB.Model(&model.MovementEvent{}).Count(&count).Error)
	assert.Equal(t, int64(5), count)
}

func TestGormRecorder_RecordDuringStartSession(t *testing.T) {
	m := testManager(t)
	r := NewGormRecorder(m)

	// Inbound events can race the session row insert; the recorder must
	// stay safe and stamp everything after StartSession returns.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			_ = r.RecordMovement(&model.MovementEvent{PlayerID: 1, Direction: 2})
		}
	}()

	sess := &model.Session{PlayerID: 1, PlayerName: "Alice", StartTime: time.Now()}
	require.NoError(t, r.StartSession(sess))
	<-done

	require.NoError(t, r.RecordMovement(&model.MovementEvent{PlayerID: 1, Direction: 3}))
	require.NoError(t, r.flush())

	var got model.MovementEvent
	require.NoError(t, m.DB.Where("direction = ?", 3).First(&got).Error)
	assert.Equal(t, sess.ID, got.SessionID)

	require.NoError(t, r.Close())
}

func TestNop_Discards(t *testing.T) {
	var r Recorder = Nop{}

	assert.NoError(t, r.StartSession(&model.Session{}))
	assert.NoError(t, r.RecordMovement(&model.MovementEvent{}))
	assert.NoError(t, r.RecordRoster(&model.RosterSnapshot{}))
	assert.NoError(t, r.Close())
}
