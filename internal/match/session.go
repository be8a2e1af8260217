// Package match runs one two-player quiz match over a datagram gateway.
//
// A Session is driven by a single control loop (Run). It handles one
// datagram at a time and owns all match state, so nothing here is locked.
// "First to answer" means first to arrive at the gateway: the transport gives
// no ordering guarantee between senders.
package match

import (
	"context"
	"errors"
	"fmt"
	"net/netip"
	"time"

	"github.com/DoyleJ11/battle-quiz/internal/engine"
	"github.com/DoyleJ11/battle-quiz/internal/protocol"
	"github.com/DoyleJ11/battle-quiz/internal/quiz"
	"github.com/DoyleJ11/battle-quiz/internal/transport"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Phase string

const (
	PhaseLobby       Phase = "lobby"
	PhasePlaying     Phase = "playing"
	PhaseRoundScored Phase = "round_scored"
	PhaseGameOver    Phase = "game_over"
	PhaseRestartVote Phase = "restart_vote"
	PhaseTerminated  Phase = "terminated"
)

type Gateway interface {
	Receive(timeout time.Duration) (transport.Datagram, error)
	Send(to netip.AddrPort, payload []byte) error
}

// QuestionSource reorders the question sequence between matches.
type QuestionSource interface {
	Reshuffle(qs []quiz.Question) []quiz.Question
}

type Session struct {
	gw       Gateway
	source   QuestionSource
	rules    Rules
	log      *zap.Logger
	observer Observer
	recorder Recorder
	now      func() time.Time

	id        uuid.UUID
	phase     Phase
	players   [2]engine.Player
	joined    int
	questions []quiz.Question
	cursor    int
	round     engine.Round
	lastRound *RoundView
	end       EndReason
	version   int
}

// Option configures a Session.
type Option func(*Session)

func WithLogger(log *zap.Logger) Option {
	return func(s *Session) { s.log = log }
}

func WithObserver(o Observer) Option {
	return func(s *Session) { s.observer = o }
}

func WithRecorder(r Recorder) Option {
	return func(s *Session) { s.recorder = r }
}

func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

func NewSession(gw Gateway, questions []quiz.Question, source QuestionSource, rules Rules, opts ...Option) *Session {
	s := &Session{
		gw:        gw,
		source:    source,
		rules:     rules,
		log:       zap.NewNop(),
		observer:  nopObserver{},
		recorder:  nopRecorder{},
		now:       time.Now,
		id:        uuid.New(),
		phase:     PhaseLobby,
		questions: questions,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) Phase() Phase { return s.phase }

func (s *Session) Players() [2]engine.Player { return s.players }

// Run processes datagrams until the session terminates. It returns nil when
// the participants decline a restart, and an error on a receive timeout, a
// gateway failure or ctx cancellation.
func (s *Session) Run(ctx context.Context) error {
	s.log.Info("waiting for players", zap.Int("questions", len(s.questions)))
	s.publish()

	for s.phase != PhaseTerminated {
		var err error
		switch s.phase {
		case PhaseLobby:
			err = s.runLobby(ctx)
		case PhasePlaying:
			err = s.runRound(ctx)
		case PhaseRoundScored:
			err = s.scoreRound(ctx)
		case PhaseGameOver:
			err = s.gameOver(ctx)
		case PhaseRestartVote:
			err = s.runRestartVote(ctx)
		default:
			err = fmt.Errorf("unknown phase %q", s.phase)
		}
		if err != nil {
			return fmt.Errorf("match %s in %s: %w", s.id, s.phase, err)
		}
	}

	s.log.Info("session terminated", zap.Stringer("match_id", s.id))
	return nil
}

func (s *Session) runLobby(ctx context.Context) error {
	for s.joined < len(s.players) {
		from, msg, err := s.next(ctx)
		if err != nil {
			return err
		}
		join, ok := msg.(protocol.Join)
		if !ok {
			s.discard(from, msg, "not a join request")
			continue
		}
		if s.seatOf(from) != engine.NoSeat {
			s.discard(from, msg, "already joined")
			continue
		}

		s.players[s.joined] = engine.Player{Addr: from, Name: join.Name}
		s.joined++
		s.log.Info("player joined", zap.String("name", join.Name), zap.Stringer("addr", from), zap.Int("joined", s.joined))
		if err := s.send(from, protocol.LobbyStatus{Joined: s.joined}); err != nil {
			return err
		}
		s.publish()
	}

	return s.startMatch()
}

func (s *Session) startMatch() error {
	s.log.Info("match started",
		zap.Stringer("match_id", s.id),
		zap.String("player1", s.players[0].Name),
		zap.String("player2", s.players[1].Name))
	if err := s.broadcast(protocol.MatchStarted{}); err != nil {
		return err
	}
	s.setPhase(PhasePlaying)
	return nil
}

func (s *Session) runRound(ctx context.Context) error {
	if s.cursor >= len(s.questions) {
		s.end = EndExhausted
		s.setPhase(PhaseGameOver)
		return nil
	}

	q := s.questions[s.cursor]
	s.log.Info("sending question", zap.Int("round", s.cursor+1), zap.String("prompt", q.Prompt))
	if err := s.broadcast(protocol.QuestionPrompt{Prompt: q.Prompt, Options: q.Options()}); err != nil {
		return err
	}

	s.round = engine.NewRound(q, s.players, s.rules.Scoring)
	for !s.round.Finished() {
		from, msg, err := s.next(ctx)
		if err != nil {
			return err
		}
		ans, ok := msg.(protocol.Answer)
		if !ok {
			s.discard(from, msg, "not an answer")
			continue
		}

		events, next, err := engine.Apply(s.round, engine.Answer{From: from, Label: ans.Label})
		if err != nil {
			s.discard(from, msg, err.Error())
			continue
		}
		s.round = next
		s.log.Info("answer received", zap.String("name", s.players[s.round.SeatOf(from)].Name), zap.String("label", string(ans.Label)))

		for _, evt := range events {
			if evt.Type != engine.EvtFirstWrong {
				continue
			}
			if err := s.send(s.players[evt.Seat].Addr, protocol.AnsweredWrong{}); err != nil {
				return err
			}
			opp := s.players[engine.Opponent(evt.Seat)].Addr
			if err := s.send(opp, protocol.OpponentMissed{Bonus: s.rules.Scoring.SecondBonus}); err != nil {
				return err
			}
		}
	}

	s.setPhase(PhaseRoundScored)
	return nil
}

func (s *Session) scoreRound(ctx context.Context) error {
	outcome := s.round.Outcome
	s.players = engine.Settle(s.players, outcome)
	s.cursor++

	board := protocol.Scoreboard{
		Players: [2]protocol.ScoreLine{
			{Name: s.players[0].Name, Score: s.players[0].Score},
			{Name: s.players[1].Name, Score: s.players[1].Score},
		},
		Points: outcome.Points,
	}
	s.lastRound = &RoundView{Points: outcome.Points}
	if outcome.HasWinner() {
		board.Winner = s.players[outcome.Seat].Name
		s.lastRound.Winner = board.Winner
	}
	s.log.Info("round scored",
		zap.Int("round", s.cursor),
		zap.String("winner", board.Winner),
		zap.Int("points", outcome.Points),
		zap.Int("score1", s.players[0].Score),
		zap.Int("score2", s.players[1].Score))
	if err := s.broadcast(board); err != nil {
		return err
	}

	switch {
	case s.leader() != engine.NoSeat:
		s.end = EndThreshold
		s.setPhase(PhaseGameOver)
		return nil
	case s.cursor >= len(s.questions):
		s.end = EndExhausted
		s.setPhase(PhaseGameOver)
		return nil
	}

	if err := s.pause(ctx); err != nil {
		return err
	}
	s.setPhase(PhasePlaying)
	return nil
}

// leader is the first seat at or over the win score, or NoSeat.
func (s *Session) leader() int {
	for seat, p := range s.players {
		if p.Score >= s.rules.WinScore {
			return seat
		}
	}
	return engine.NoSeat
}

func (s *Session) gameOver(ctx context.Context) error {
	result := Result{
		MatchID:    s.id,
		Players:    s.players,
		Reason:     s.end,
		Rounds:     s.cursor,
		FinishedAt: s.now(),
	}

	var notice protocol.Outbound = protocol.GameOverExhausted{Reason: protocol.ExhaustedReason}
	if s.end == EndThreshold {
		w := s.players[s.leader()]
		result.Winner = w.Name
		notice = protocol.GameOverWinner{Name: w.Name, Score: w.Score}
	}
	s.log.Info("game over", zap.Stringer("match_id", s.id), zap.String("reason", string(s.end)), zap.String("winner", result.Winner))
	if err := s.broadcast(notice); err != nil {
		return err
	}

	if err := s.recorder.Record(ctx, result); err != nil {
		s.log.Warn("record match failed", zap.Stringer("match_id", s.id), zap.Error(err))
	}

	s.setPhase(PhaseRestartVote)
	return nil
}

func (s *Session) runRestartVote(ctx context.Context) error {
	if err := s.broadcast(protocol.RestartInvite{}); err != nil {
		return err
	}

	var yes [2]bool
	for !yes[0] || !yes[1] {
		from, msg, err := s.next(ctx)
		if err != nil {
			return err
		}
		vote, ok := msg.(protocol.RestartVote)
		if !ok {
			s.discard(from, msg, "not a restart vote")
			continue
		}
		seat := s.seatOf(from)
		if seat == engine.NoSeat {
			s.discard(from, msg, "unknown participant")
			continue
		}
		s.log.Info("restart vote", zap.String("name", s.players[seat].Name), zap.Bool("yes", vote.Yes))
		if !vote.Yes {
			s.setPhase(PhaseTerminated)
			return nil
		}
		if yes[seat] {
			s.discard(from, msg, "duplicate vote")
			continue
		}
		yes[seat] = true
	}

	return s.restart()
}

func (s *Session) restart() error {
	s.questions = s.source.Reshuffle(s.questions)
	s.cursor = 0
	s.lastRound = nil
	s.end = ""
	if s.rules.ResetScores {
		for i := range s.players {
			s.players[i].Score = 0
		}
	}
	prev := s.id
	s.id = uuid.New()
	s.log.Info("restarting", zap.Stringer("previous_match_id", prev), zap.Stringer("match_id", s.id))
	return s.startMatch()
}

// pause waits out the inter-round delay, discarding whatever arrives: those
// datagrams belong to the round that just finished.
func (s *Session) pause(ctx context.Context) error {
	deadline := s.now().Add(s.rules.RoundPause)
	for {
		remaining := deadline.Sub(s.now())
		if remaining <= 0 {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		dg, err := s.gw.Receive(remaining)
		if errors.Is(err, transport.ErrTimeout) {
			return nil
		}
		if err != nil {
			return err
		}
		s.discard(dg.From, protocol.Decode(dg.Payload), "between rounds")
	}
}

func (s *Session) next(ctx context.Context) (netip.AddrPort, protocol.Inbound, error) {
	if err := ctx.Err(); err != nil {
		return netip.AddrPort{}, nil, err
	}
	dg, err := s.gw.Receive(s.rules.ReceiveTimeout)
	if err != nil {
		return netip.AddrPort{}, nil, err
	}
	return dg.From, protocol.Decode(dg.Payload), nil
}

func (s *Session) send(to netip.AddrPort, m protocol.Outbound) error {
	return s.gw.Send(to, protocol.Encode(m))
}

func (s *Session) broadcast(m protocol.Outbound) error {
	payload := protocol.Encode(m)
	for _, p := range s.players[:s.joined] {
		if err := s.gw.Send(p.Addr, payload); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) seatOf(addr netip.AddrPort) int {
	for seat, p := range s.players[:s.joined] {
		if p.Addr == addr {
			return seat
		}
	}
	return engine.NoSeat
}

func (s *Session) discard(from netip.AddrPort, msg protocol.Inbound, reason string) {
	s.log.Debug("discarding datagram", zap.Stringer("addr", from), zap.String("reason", reason), zap.Any("msg", msg))
}

func (s *Session) setPhase(p Phase) {
	s.phase = p
	s.publish()
}

func (s *Session) publish() {
	s.version++
	snap := Snapshot{
		Version:     s.version,
		MatchID:     s.id.String(),
		Phase:       s.phase,
		Round:       s.cursor,
		TotalRounds: len(s.questions),
		Players:     make([]PlayerView, 0, s.joined),
		LastRound:   s.lastRound,
	}
	for _, p := range s.players[:s.joined] {
		snap.Players = append(snap.Players, PlayerView{Name: p.Name, Addr: p.Addr.String(), Score: p.Score})
	}
	if s.lastRound != nil {
		lr := *s.lastRound
		snap.LastRound = &lr
	}
	s.observer.Publish(snap)
}
