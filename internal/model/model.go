// Package model defines the database schema for session recording.
package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DatabaseModels is a list of all the structs exported here which represent tables in the database schema
var DatabaseModels = []interface{}{
	&Session{},
	&MovementEvent{},
	&RosterSnapshot{},
}

// Session is one run of the sync layer, from announce to shutdown.
type Session struct {
	gorm.Model
	PlayerID   uint8     `json:"playerId" gorm:"index:idx_session_player_id"`
	PlayerName string    `json:"playerName" gorm:"size:127"`
	ListenAddr string    `json:"listenAddr" gorm:"size:63"`
	PeerAddr   string    `json:"peerAddr" gorm:"size:63"`
	StartTime  time.Time `json:"startTime" gorm:"index:idx_session_start_time"`
}

func (*Session) TableName() string {
	return "sessions"
}

// MovementEvent is one movement packet, sent or received.
type MovementEvent struct {
	gorm.Model
	SessionID uint    `json:"sessionId" gorm:"index:idx_movementevent_session_id"`
	Session   Session `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:SessionID;"`
	PlayerID  uint8   `json:"playerId" gorm:"index:idx_movementevent_player_id"`
	Outbound  bool    `json:"outbound"`
	Moving    bool    `json:"moving"`
	Direction uint8   `json:"direction"`
	Timestamp uint64  `json:"timestamp"` // sender clock, ms
	Raw       string  `json:"raw" gorm:"size:255"`
}

func (*MovementEvent) TableName() string {
	return "movement_events"
}

// RosterSnapshot is one parsed roster feed with its records as JSON.
type RosterSnapshot struct {
	gorm.Model
	SessionID uint           `json:"sessionId" gorm:"index:idx_rostersnapshot_session_id"`
	Session   Session        `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:SessionID;"`
	Records   datatypes.JSON `json:"records"`
	Malformed uint16         `json:"malformed"` // records skipped while parsing
}

func (*RosterSnapshot) TableName() string {
	return "roster_snapshots"
}
