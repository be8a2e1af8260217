// Package monitor fans match snapshots out to operator watchers.
package monitor

import (
	"context"

	"github.com/DoyleJ11/battle-quiz/internal/match"
)

type Msg interface{ isMonitorMsg() }

type publish struct{ Snap match.Snapshot }

func (publish) isMonitorMsg() {}

type Join struct {
	ClientID string
	Outbox   chan match.Snapshot // where this watcher wants to receive snapshots
}

func (Join) isMonitorMsg() {}

type Leave struct{ ClientID string }

func (Leave) isMonitorMsg() {}

type Shutdown struct{}

func (Shutdown) isMonitorMsg() {}

type GetState struct {
	Reply chan View
}

func (GetState) isMonitorMsg() {}

type View struct {
	Watchers int
	Snapshot match.Snapshot
}

type Monitor struct {
	inbox    chan Msg
	latest   match.Snapshot
	watchers map[string]chan match.Snapshot
	ctx      context.Context
	cancel   context.CancelFunc
}

func New(parent context.Context) *Monitor {
	ctx, cancel := context.WithCancel(parent)

	m := &Monitor{
		inbox:    make(chan Msg, 64),
		watchers: make(map[string]chan match.Snapshot),
		ctx:      ctx,
		cancel:   cancel,
	}

	go m.loop()
	return m
}

// Publish implements match.Observer. It never blocks: when the inbox is full
// the snapshot is dropped, the next one supersedes it anyway.
func (m *Monitor) Publish(s match.Snapshot) {
	select {
	case m.inbox <- publish{Snap: s}:
	default:
	}
}

func (m *Monitor) loop() {
	for {
		select {
		case <-m.ctx.Done():
			m.shutdown()
			return

		case msg := <-m.inbox:
			switch msg := msg.(type) {
			case publish:
				if msg.Snap.Version < m.latest.Version {
					break
				}
				m.latest = msg.Snap
				m.broadcast(m.latest)

			case Join:
				m.watchers[msg.ClientID] = msg.Outbox
				select {
				case msg.Outbox <- m.latest:
				default:
				}

			case Leave:
				if ch, ok := m.watchers[msg.ClientID]; ok {
					close(ch)
					delete(m.watchers, msg.ClientID)
				}

			case GetState:
				msg.Reply <- View{Watchers: len(m.watchers), Snapshot: m.latest}

			case Shutdown:
				m.shutdown()
				return
			}
		}
	}
}

func (m *Monitor) shutdown() {
	for id, ch := range m.watchers {
		close(ch)
		delete(m.watchers, id)
	}
	m.cancel()
}

func (m *Monitor) broadcast(s match.Snapshot) {
	for id, ch := range m.watchers {
		select {
		case ch <- s:
		default:
			// Slow watcher; drop it.
			close(ch)
			delete(m.watchers, id)
		}
	}
}

func (m *Monitor) Inbox() chan<- Msg { return m.inbox }

// Done is closed once the monitor has shut down.
func (m *Monitor) Done() <-chan struct{} { return m.ctx.Done() }

// State asks the loop for the latest view.
func (m *Monitor) State(ctx context.Context) (View, error) {
	reply := make(chan View, 1)
	select {
	case m.inbox <- GetState{Reply: reply}:
	case <-m.ctx.Done():
		return View{}, m.ctx.Err()
	case <-ctx.Done():
		return View{}, ctx.Err()
	}
	select {
	case v := <-reply:
		return v, nil
	case <-m.ctx.Done():
		return View{}, m.ctx.Err()
	case <-ctx.Done():
		return View{}, ctx.Err()
	}
}
