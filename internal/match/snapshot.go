package match

import (
	"context"
	"time"

	"github.com/DoyleJ11/battle-quiz/internal/engine"
	"github.com/google/uuid"
)

// Snapshot is a read-only view of the session published after every change.
type Snapshot struct {
	Version     int          `json:"version"`
	MatchID     string       `json:"match_id"`
	Phase       Phase        `json:"phase"`
	Round       int          `json:"round"`
	TotalRounds int          `json:"total_rounds"`
	Players     []PlayerView `json:"players"`
	LastRound   *RoundView   `json:"last_round,omitempty"`
}

type PlayerView struct {
	Name  string `json:"name"`
	Addr  string `json:"addr"`
	Score int    `json:"score"`
}

type RoundView struct {
	Winner string `json:"winner,omitempty"`
	Points int    `json:"points"`
}

// Observer receives snapshots. Publish must not block.
type Observer interface {
	Publish(Snapshot)
}

type EndReason string

const (
	EndThreshold EndReason = "threshold"
	EndExhausted EndReason = "exhausted"
)

// Result describes a finished match.
type Result struct {
	MatchID    uuid.UUID
	Players    [2]engine.Player
	Winner     string // empty when questions ran out
	Reason     EndReason
	Rounds     int
	FinishedAt time.Time
}

// Recorder stores finished matches.
type Recorder interface {
	Record(ctx context.Context, r Result) error
}

type nopObserver struct{}

func (nopObserver) Publish(Snapshot) {}

type nopRecorder struct{}

func (nopRecorder) Record(context.Context, Result) error { return nil }
