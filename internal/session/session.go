// Package session wires the sync layer together: the UDP transport,
// the inbound dispatcher, the shared movement slot, the keyboard edge
// tracker, and the dead-reckoned remote registry. The host application
// owns the tick cadence and calls Tick at a fixed rate.
package session

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/lanmove/syncd/internal/dispatcher"
	"github.com/lanmove/syncd/internal/influx"
	"github.com/lanmove/syncd/internal/input"
	"github.com/lanmove/syncd/internal/model"
	"github.com/lanmove/syncd/internal/player"
	"github.com/lanmove/syncd/internal/protocol"
	"github.com/lanmove/syncd/internal/queue"
	"github.com/lanmove/syncd/internal/roster"
	"github.com/lanmove/syncd/internal/state"
	"github.com/lanmove/syncd/internal/storage"
	"github.com/lanmove/syncd/internal/transport"
)

const rosterBufferSize = 64

// Config identifies the local player and the session endpoints.
type Config struct {
	PlayerID   uint8
	PlayerName string
	ListenAddr string
	PeerAddr   string
}

// Session is one run of the movement sync layer.
type Session struct {
	cfg    Config
	logger *slog.Logger

	conn     *transport.Conn
	receiver *transport.Receiver
	dispatch *dispatcher.Dispatcher

	store    *state.Store
	tracker  *input.Tracker
	sampler  input.Sampler
	registry *player.Registry

	rosterParser *roster.Parser
	rosterQueue  *queue.Queue[roster.Record]

	recorder storage.Recorder

	// wall clock, swappable in tests
	now func() time.Time

	packetsSent    atomic.Uint64
	packetsDropped atomic.Uint64
}

// New builds a session. The render callback receives every remote
// position change; recorder may be storage.Nop{}. dlog feeds the
// dispatcher's per-datagram logging, typically a zerolog adapter.
func New(cfg Config, sampler input.Sampler, render player.UpdateFunc, rec storage.Recorder, logger *slog.Logger, dlog dispatcher.Logger) (*Session, error) {
	d, err := dispatcher.New(dlog)
	if err != nil {
		return nil, fmt.Errorf("creating dispatcher: %w", err)
	}

	s := &Session{
		cfg:          cfg,
		logger:       logger,
		dispatch:     d,
		store:        state.NewStore(),
		tracker:      input.NewTracker(),
		sampler:      sampler,
		registry:     player.NewRegistry(cfg.PlayerID, render),
		rosterParser: roster.NewParser(logger),
		rosterQueue:  queue.New[roster.Record](),
		recorder:     rec,
		now:          time.Now,
	}

	d.Register(dispatcher.KindMovement, s.handleMovement)
	d.Register(dispatcher.KindRoster, s.handleRoster,
		dispatcher.Buffered(rosterBufferSize), dispatcher.Logged())

	return s, nil
}

// Start binds the socket, starts the receive loop, and announces the
// local player to the peer.
func (s *Session) Start() error {
	conn, err := transport.Dial(s.cfg.ListenAddr, s.cfg.PeerAddr)
	if err != nil {
		return fmt.Errorf("binding session socket: %w", err)
	}
	s.conn = conn

	recv, err := transport.NewReceiver(conn, s.dispatch, s.logger)
	if err != nil {
		conn.Close()
		return fmt.Errorf("creating receiver: %w", err)
	}
	s.receiver = recv

	// The session row must exist before the receive goroutine can hand
	// the recorder its first inbound event.
	if err := s.recorder.StartSession(&model.Session{
		PlayerID:   s.cfg.PlayerID,
		PlayerName: s.cfg.PlayerName,
		ListenAddr: s.cfg.ListenAddr,
		PeerAddr:   s.cfg.PeerAddr,
		StartTime:  s.now(),
	}); err != nil {
		s.logger.Warn("failed to record session start", "error", err)
	}
	s.receiver.Start()

	if err := s.announce(); err != nil {
		s.logger.Warn("failed to announce session", "error", err)
	}

	s.logger.Info("session started",
		"player", s.cfg.PlayerID,
		"name", s.cfg.PlayerName,
		"listen", s.conn.LocalAddr().String(),
		"peer", s.cfg.PeerAddr)
	return nil
}

// Tick runs one fixed-rate update: sample input and send any movement
// edge, apply queued roster records, dead-reckon the last remote
// movement packet across dt seconds, then run the render pass.
func (s *Session) Tick(dt float64) {
	s.sampleAndSend()
	s.applyRoster()

	if pkt, _, ok := s.store.Snapshot(); ok {
		s.registry.Reckon(pkt, dt)
	}

	s.registry.Render()
}

// Close stops the receive loop, drains the dispatcher, and releases
// the socket. The recorder is owned by the caller and closed
// separately.
func (s *Session) Close() error {
	if s.receiver != nil {
		s.receiver.Stop()
	}
	s.dispatch.Close()
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

// LocalAddr reports the bound socket address. Only valid after Start.
func (s *Session) LocalAddr() string {
	return s.conn.LocalAddr().String()
}

// Registry exposes the remote player registry for rendering.
func (s *Session) Registry() *player.Registry {
	return s.registry
}

// PacketCounts reports the receive-side datagram counters. Only valid
// after Start.
func (s *Session) PacketCounts() (received, rejected uint64) {
	if s.receiver == nil {
		return 0, 0
	}
	return s.receiver.Counts()
}

// Stats returns a snapshot of the send-side counters.
func (s *Session) Stats() influx.SessionStats {
	return influx.SessionStats{
		PlayerID:       s.cfg.PlayerID,
		PacketsSent:    s.packetsSent.Load(),
		PacketsDropped: s.packetsDropped.Load(),
		RemotesTracked: len(s.registry.Remotes()),
	}
}

func (s *Session) announce() error {
	pkt := protocol.Packet{
		Type:      protocol.TypeAnnounce,
		PlayerID:  s.cfg.PlayerID,
		Timestamp: s.timestamp(),
		Name:      s.cfg.PlayerName,
	}
	return s.send(pkt)
}

func (s *Session) sampleAndSend() {
	keys := s.sampler.Sample()
	ev, fired := s.tracker.Observe(keys)
	if !fired {
		return
	}

	pkt := protocol.Packet{
		Type:      protocol.TypeMovement,
		PlayerID:  s.cfg.PlayerID,
		Moving:    ev.Moving,
		Direction: ev.Direction,
		Timestamp: s.timestamp(),
		Name:      s.cfg.PlayerName,
	}
	if err := s.send(pkt); err != nil {
		s.logger.Warn("failed to send movement packet", "error", err)
	}
}

func (s *Session) send(pkt protocol.Packet) error {
	buf, err := protocol.Encode(pkt)
	if err != nil {
		s.packetsDropped.Add(1)
		return fmt.Errorf("encoding packet: %w", err)
	}
	if err := s.conn.Send(buf); err != nil {
		s.packetsDropped.Add(1)
		return fmt.Errorf("sending packet: %w", err)
	}
	s.packetsSent.Add(1)

	if pkt.Type == protocol.TypeMovement {
		if err := s.recorder.RecordMovement(&model.MovementEvent{
			PlayerID:  pkt.PlayerID,
			Outbound:  true,
			Moving:    pkt.Moving,
			Direction: pkt.Direction,
			Timestamp: pkt.Timestamp,
			Raw:       string(buf),
		}); err != nil {
			s.logger.Warn("failed to record outbound movement", "error", err)
		}
	}
	return nil
}

// handleMovement runs on the receive goroutine. Publishing to the
// shared slot is cheap, so this handler stays synchronous.
func (s *Session) handleMovement(e dispatcher.Event) (any, error) {
	pkt, err := protocol.Decode(e.Data)
	if err != nil {
		return nil, fmt.Errorf("decoding movement datagram: %w", err)
	}

	switch pkt.Type {
	case protocol.TypeAnnounce:
		s.logger.Info("remote player announced", "player", pkt.PlayerID)
		// An announce is stationary, so publishing it just parks the
		// peer at its current spot.
		s.store.Publish(pkt)
	case protocol.TypeMovement:
		s.store.Publish(pkt)
	default:
		return nil, fmt.Errorf("unknown packet type %d", pkt.Type)
	}

	if err := s.recorder.RecordMovement(&model.MovementEvent{
		PlayerID:  pkt.PlayerID,
		Outbound:  false,
		Moving:    pkt.Moving,
		Direction: pkt.Direction,
		Timestamp: pkt.Timestamp,
		Raw:       string(e.Data),
	}); err != nil {
		s.logger.Warn("failed to record inbound movement", "error", err)
	}
	return nil, nil
}

// handleRoster runs behind the dispatcher's buffer. Parsed records are
// queued for the tick loop, which owns the registry. The queue is
// bounded so a stalled tick loop cannot grow it without limit; the
// feed is redundant, so dropped batches are recovered by the next one.
func (s *Session) handleRoster(e dispatcher.Event) (any, error) {
	if s.rosterQueue.Len() >= rosterBufferSize {
		return nil, fmt.Errorf("roster backlog full")
	}

	records, skipped := s.rosterParser.Parse(string(e.Data))
	if len(records) == 0 {
		return nil, fmt.Errorf("roster feed yielded no records")
	}
	s.rosterQueue.Push(records...)

	if raw, err := json.Marshal(records); err == nil {
		if err := s.recorder.RecordRoster(&model.RosterSnapshot{
			Records:   raw,
			Malformed: uint16(skipped),
		}); err != nil {
			s.logger.Warn("failed to record roster snapshot", "error", err)
		}
	}
	return len(records), nil
}

func (s *Session) applyRoster() {
	if s.rosterQueue.Empty() {
		return
	}
	for _, rec := range s.rosterQueue.GetAndEmpty() {
		s.registry.Place(rec.Player, player.Vec3{X: rec.X, Y: rec.Y, Z: rec.Z}, rec.Health, rec.Name)
	}
}

func (s *Session) timestamp() uint64 {
	return uint64(s.now().UnixMilli())
}
