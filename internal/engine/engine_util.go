package engine

import (
	"net/netip"

	"github.com/DoyleJ11/battle-quiz/internal/quiz"
)

func NewRound(q quiz.Question, roster [2]Player, scoring Scoring) Round {
	return Round{
		Question: q,
		Roster:   [2]netip.AddrPort{roster[0].Addr, roster[1].Addr},
		Scoring:  scoring,
		Phase:    PhaseAwaitingFirst,
		First:    NoSeat,
		Outcome:  Outcome{Seat: NoSeat},
	}
}

func (r Round) Finished() bool {
	return r.Phase == PhaseDone
}

func (r Round) SeatOf(addr netip.AddrPort) int {
	for seat, a := range r.Roster {
		if a == addr {
			return seat
		}
	}
	return NoSeat
}

// Answered counts distinct responders.
func (r Round) Answered() int {
	n := 0
	for _, ok := range r.Responded {
		if ok {
			n++
		}
	}
	return n
}

func ContainsEvent(events []Event, eventType EventType) bool {
	for _, event := range events {
		if event.Type == eventType {
			return true
		}
	}
	return false
}
