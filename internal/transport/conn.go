// Package transport provides the UDP plumbing for the movement
// broadcast: a bound datagram socket with a fixed peer destination for
// sends, and a managed background receive loop.
package transport

import (
	"fmt"
	"net"
)

// maxDatagram bounds a single read. The movement format is a handful
// of digits plus a name; the roster feed is a few records per line.
const maxDatagram = 1024

// Conn is a bound UDP socket. Sends always go to the fixed peer
// address resolved at dial time; receives accept from anyone and the
// sender address is discarded.
type Conn struct {
	socket *net.UDPConn
	peer   *net.UDPAddr
}

// Dial binds listenAddr and resolves peerAddr as the fixed outbound
// destination.
func Dial(listenAddr, peerAddr string) (*Conn, error) {
	laddr, err := net.ResolveUDPAddr("udp", listenAddr)
	if err != nil {
		return nil, fmt.Errorf("resolving listen address %q: %w", listenAddr, err)
	}
	peer, err := net.ResolveUDPAddr("udp", peerAddr)
	if err != nil {
		return nil, fmt.Errorf("resolving peer address %q: %w", peerAddr, err)
	}

	socket, err := net.ListenUDP("udp", laddr)
	if err != nil {
		return nil, fmt.Errorf("binding %q: %w", listenAddr, err)
	}

	return &Conn{socket: socket, peer: peer}, nil
}

// Send transmits one datagram to the configured peer. Fire and forget:
// no acknowledgment is awaited before the caller's next tick.
func (c *Conn) Send(b []byte) error {
	_, err := c.socket.WriteToUDP(b, c.peer)
	return err
}

// LocalAddr returns the bound address, useful when listenAddr asked
// for an ephemeral port.
func (c *Conn) LocalAddr() net.Addr {
	return c.socket.LocalAddr()
}

// Close tears down the socket. Any blocked receive unblocks with an
// error.
func (c *Conn) Close() error {
	return c.socket.Close()
}
