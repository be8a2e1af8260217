// Package transport carries quiz datagrams over UDP.
//
// Delivery is best effort: datagrams may be lost, duplicated or reordered.
// The gateway makes no attempt to hide that.
package transport

import (
	"errors"
	"fmt"
	"net"
	"net/netip"
	"os"
	"time"
)

// ErrTimeout is returned by Receive when nothing arrives within the timeout.
var ErrTimeout = errors.New("receive timed out")

// MaxDatagram bounds a single inbound payload.
const MaxDatagram = 2048

type Datagram struct {
	From    netip.AddrPort
	Payload []byte
}

type UDPGateway struct {
	conn *net.UDPConn
	buf  []byte
}

// Listen binds a UDP socket on addr (host:port).
func Listen(addr string) (*UDPGateway, error) {
	ap, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", addr, err)
	}
	conn, err := net.ListenUDP("udp", ap)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}
	return &UDPGateway{conn: conn, buf: make([]byte, MaxDatagram)}, nil
}

func (g *UDPGateway) LocalAddr() netip.AddrPort {
	return g.conn.LocalAddr().(*net.UDPAddr).AddrPort()
}

// Receive blocks for at most timeout. A timeout yields ErrTimeout.
func (g *UDPGateway) Receive(timeout time.Duration) (Datagram, error) {
	if err := g.conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return Datagram{}, fmt.Errorf("set read deadline: %w", err)
	}
	n, from, err := g.conn.ReadFromUDPAddrPort(g.buf)
	if err != nil {
		if errors.Is(err, os.ErrDeadlineExceeded) {
			return Datagram{}, ErrTimeout
		}
		return Datagram{}, fmt.Errorf("read datagram: %w", err)
	}
	payload := make([]byte, n)
	copy(payload, g.buf[:n])
	return Datagram{From: unmap(from), Payload: payload}, nil
}

func (g *UDPGateway) Send(to netip.AddrPort, payload []byte) error {
	if _, err := g.conn.WriteToUDPAddrPort(payload, to); err != nil {
		return fmt.Errorf("send to %s: %w", to, err)
	}
	return nil
}

func (g *UDPGateway) Close() error {
	return g.conn.Close()
}

// unmap folds IPv4-mapped IPv6 senders to plain IPv4 so the same client
// always has the same identity.
func unmap(ap netip.AddrPort) netip.AddrPort {
	return netip.AddrPortFrom(ap.Addr().Unmap(), ap.Port())
}
