package engine

import "net/netip"

// NoSeat marks "no participant" wherever a seat index is expected.
const NoSeat = -1

type Player struct {
	Addr  netip.AddrPort
	Name  string
	Score int
}

type Outcome struct {
	Seat   int
	Points int
}

func (o Outcome) HasWinner() bool { return o.Seat >= 0 }

// Opponent returns the other seat of a two-seat match.
func Opponent(seat int) int { return 1 - seat }
