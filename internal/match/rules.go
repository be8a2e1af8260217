package match

import (
	"time"

	"github.com/DoyleJ11/battle-quiz/internal/engine"
)

type Rules struct {
	ReceiveTimeout time.Duration
	WinScore       int
	Scoring        engine.Scoring
	RoundPause     time.Duration
	// ResetScores clears both scores when a restart is agreed.
	ResetScores bool
}

func DefaultRules() Rules {
	return Rules{
		ReceiveTimeout: 600 * time.Second,
		WinScore:       30,
		Scoring:        engine.Scoring{FirstBonus: 5, SecondBonus: 3},
		RoundPause:     2 * time.Second,
		ResetScores:    true,
	}
}
