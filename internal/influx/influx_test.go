package influx

import (
	"context"
	"strings"
	"testing"
	"time"

	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStatsPoint(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	p := SessionStatsPoint(SessionStats{
		PlayerID:       2,
		PacketsSent:    10,
		PacketsDropped: 1,
		RemotesTracked: 3,
	}, at)

	line := influxdb2_write.PointToLineProtocol(p, time.Nanosecond)
	assert.True(t, strings.HasPrefix(line, "session,playerId=2 "))
	assert.Contains(t, line, "packetsSent=10u")
	assert.Contains(t, line, "packetsDropped=1u")
	assert.Contains(t, line, "remotesTracked=3i")
}

func TestPacketStatsPoint(t *testing.T) {
	p := PacketStatsPoint(42, 7, time.Now())

	line := influxdb2_write.PointToLineProtocol(p, time.Nanosecond)
	assert.True(t, strings.HasPrefix(line, "packets "))
	assert.Contains(t, line, "received=42u")
	assert.Contains(t, line, "rejected=7u")
}

func TestWritePoint_NoClientNoBackup(t *testing.T) {
	m := NewManager(zerolog.Nop(), "")

	err := m.WritePoint(context.Background(), BucketSessionStats, PacketStatsPoint(1, 0, time.Now()))
	require.Error(t, err)
}
