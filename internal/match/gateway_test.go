package match

import (
	"errors"
	"net/netip"
	"sync"
	"time"

	"github.com/DoyleJ11/battle-quiz/internal/transport"
)

type sent struct {
	To      netip.AddrPort
	Payload string
}

// scriptGateway replays inbound datagrams in order and records every send.
// A zero From in the script is a silence: Receive times out once there.
// When the script runs out every Receive times out.
type scriptGateway struct {
	mu      sync.Mutex
	inbound []transport.Datagram
	sent    []sent
	sendErr error
	failAt  int // fail the n-th send (1-based) with sendErr; 0 never
}

func (g *scriptGateway) push(from netip.AddrPort, payload string) *scriptGateway {
	g.inbound = append(g.inbound, transport.Datagram{From: from, Payload: []byte(payload)})
	return g
}

func (g *scriptGateway) silence() *scriptGateway {
	g.inbound = append(g.inbound, transport.Datagram{})
	return g
}

func (g *scriptGateway) Receive(time.Duration) (transport.Datagram, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.inbound) == 0 {
		return transport.Datagram{}, transport.ErrTimeout
	}
	dg := g.inbound[0]
	g.inbound = g.inbound[1:]
	if !dg.From.IsValid() {
		return transport.Datagram{}, transport.ErrTimeout
	}
	return dg, nil
}

func (g *scriptGateway) Send(to netip.AddrPort, payload []byte) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failAt > 0 && len(g.sent)+1 == g.failAt {
		return g.sendErr
	}
	g.sent = append(g.sent, sent{To: to, Payload: string(payload)})
	return nil
}

// to returns the payloads sent to addr, in order.
func (g *scriptGateway) to(addr netip.AddrPort) []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []string
	for _, s := range g.sent {
		if s.To == addr {
			out = append(out, s.Payload)
		}
	}
	return out
}

var errSend = errors.New("network unreachable")
