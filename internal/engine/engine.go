package engine

import (
	"errors"
	"net/netip"

	"github.com/DoyleJ11/battle-quiz/internal/quiz"
)

var ErrRoundFinished = errors.New("round already finished")
var ErrUnknownParticipant = errors.New("unknown participant")
var ErrDuplicateAnswer = errors.New("participant already answered")

type Phase string

const (
	PhaseAwaitingFirst  Phase = "awaiting_first"
	PhaseAwaitingSecond Phase = "awaiting_second" // first responder missed
	PhaseDone           Phase = "done"
)

type Scoring struct {
	FirstBonus  int
	SecondBonus int
}

// Round is a value: Apply returns a new Round and never touches its input.
type Round struct {
	Question  quiz.Question
	Roster    [2]netip.AddrPort
	Scoring   Scoring
	Phase     Phase
	Responded [2]bool
	First     int // seat of first responder, NoSeat until someone answers
	Outcome   Outcome
}

type Answer struct {
	From  netip.AddrPort
	Label rune
}

type EventType string

const (
	EvtFirstWrong EventType = "FirstWrong"
	EvtRoundWon   EventType = "RoundWon"
	EvtNoWinner   EventType = "NoWinner"
)

type Event struct {
	Type   EventType
	Seat   int
	Points int
}

/*
	FirstWrong -> the session tells Seat it missed and tells the opponent to try.
	RoundWon / NoWinner -> round is Done, Outcome is final.
*/

func Apply(r Round, a Answer) ([]Event, Round, error) {
	if r.Phase == PhaseDone {
		return nil, r, ErrRoundFinished
	}

	seat := r.SeatOf(a.From)
	if seat == NoSeat {
		return nil, r, ErrUnknownParticipant
	}
	if r.Responded[seat] {
		return nil, r, ErrDuplicateAnswer
	}

	next := r
	next.Responded[seat] = true
	correct := r.Question.IsCorrect(a.Label)

	switch r.Phase {
	case PhaseAwaitingFirst:
		next.First = seat
		if correct {
			next.Phase = PhaseDone
			next.Outcome = Outcome{Seat: seat, Points: r.Scoring.FirstBonus}
			return []Event{{Type: EvtRoundWon, Seat: seat, Points: r.Scoring.FirstBonus}}, next, nil
		}
		next.Phase = PhaseAwaitingSecond
		return []Event{{Type: EvtFirstWrong, Seat: seat}}, next, nil

	case PhaseAwaitingSecond:
		next.Phase = PhaseDone
		if correct {
			next.Outcome = Outcome{Seat: seat, Points: r.Scoring.SecondBonus}
			return []Event{{Type: EvtRoundWon, Seat: seat, Points: r.Scoring.SecondBonus}}, next, nil
		}
		next.Outcome = Outcome{Seat: NoSeat}
		return []Event{{Type: EvtNoWinner, Seat: NoSeat}}, next, nil
	}

	return nil, r, ErrRoundFinished
}

// Settle credits the outcome's points to the winner, if any.
func Settle(players [2]Player, o Outcome) [2]Player {
	if o.HasWinner() {
		players[o.Seat].Score += o.Points
	}
	return players
}
