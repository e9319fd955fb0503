package transport

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/lanmove/syncd/internal/dispatcher"
)

// readTimeout bounds each blocking receive so the stop signal is
// observed promptly even when the wire is silent.
const readTimeout = 250 * time.Millisecond

// Receiver drains the socket on its own goroutine and routes every
// datagram through the dispatcher. The protocol is best effort, so the
// loop fails open: decode and transport errors are logged and
// listening continues.
type Receiver struct {
	conn     *Conn
	dispatch *dispatcher.Dispatcher
	logger   *slog.Logger

	received metric.Int64Counter
	rejected metric.Int64Counter

	// Readable mirrors of the OTel counters, for the stats feed.
	receivedCount atomic.Uint64
	rejectedCount atomic.Uint64

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewReceiver wires a receiver to the given socket and dispatcher.
func NewReceiver(conn *Conn, d *dispatcher.Dispatcher, logger *slog.Logger) (*Receiver, error) {
	r := &Receiver{
		conn:     conn,
		dispatch: d,
		logger:   logger,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}

	m := meter()

	var err error
	r.received, err = m.Int64Counter(
		"transport.datagrams.received",
		metric.WithDescription("Total datagrams received"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating received counter: %w", err)
	}
	r.rejected, err = m.Int64Counter(
		"transport.datagrams.rejected",
		metric.WithDescription("Total datagrams a handler rejected"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating rejected counter: %w", err)
	}

	return r, nil
}

// Counts reports how many datagrams arrived and how many a handler
// rejected since the receiver started.
func (r *Receiver) Counts() (received, rejected uint64) {
	return r.receivedCount.Load(), r.rejectedCount.Load()
}

// Start launches the receive goroutine.
func (r *Receiver) Start() {
	go r.loop()
}

// Stop signals the loop and joins it. The read deadline keeps the
// shutdown latency bounded even if no datagram ever arrives.
func (r *Receiver) Stop() {
	r.stopOnce.Do(func() {
		close(r.stop)
	})
	<-r.done
}

func (r *Receiver) loop() {
	defer close(r.done)

	buf := make([]byte, maxDatagram)
	for {
		select {
		case <-r.stop:
			return
		default:
		}

		if err := r.conn.socket.SetReadDeadline(time.Now().Add(readTimeout)); err != nil {
			r.logger.Warn("Setting read deadline failed", "error", err)
			return
		}

		n, _, err := r.conn.socket.ReadFromUDP(buf)
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				continue
			}
			// Transport errors are not surfaced; a dropped update is
			// self-correcting on the next valid packet.
			r.logger.Warn("Receive failed", "error", err)
			continue
		}
		if n == 0 {
			continue
		}

		data := make([]byte, n)
		copy(data, buf[:n])

		kind := dispatcher.KindMovement
		if data[0] == '%' {
			kind = dispatcher.KindRoster
		}

		r.receivedCount.Add(1)
		r.received.Add(context.Background(), 1,
			metric.WithAttributes(attribute.String("kind", kind)))

		if _, err := r.dispatch.Dispatch(dispatcher.Event{
			Kind:     kind,
			Data:     data,
			Received: time.Now(),
		}); err != nil {
			r.rejectedCount.Add(1)
			r.rejected.Add(context.Background(), 1,
				metric.WithAttributes(attribute.String("kind", kind)))
			r.logger.Debug("Datagram dropped", "kind", kind, "error", err)
		}
	}
}
