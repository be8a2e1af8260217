// Package config loads server configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/DoyleJ11/battle-quiz/internal/engine"
	"github.com/DoyleJ11/battle-quiz/internal/match"
)

var ErrInvalid = errors.New("invalid config")

type Config struct {
	ListenAddr     string        `env:"QUIZ_LISTEN_ADDR" envDefault:"0.0.0.0:10000"`
	ReceiveTimeout time.Duration `env:"QUIZ_RECEIVE_TIMEOUT" envDefault:"600s"`
	WinScore       int           `env:"QUIZ_WIN_SCORE" envDefault:"30"`
	FirstBonus     int           `env:"QUIZ_FIRST_BONUS" envDefault:"5"`
	SecondBonus    int           `env:"QUIZ_SECOND_BONUS" envDefault:"3"`
	RoundPause     time.Duration `env:"QUIZ_ROUND_PAUSE" envDefault:"2s"`
	QuestionsPath  string        `env:"QUIZ_QUESTIONS_PATH" envDefault:"resources/questions.txt"`
	ResetScores    bool          `env:"QUIZ_RESET_SCORES" envDefault:"true"`

	LogLevel       string `env:"QUIZ_LOG_LEVEL" envDefault:"info"`
	LogDevelopment bool   `env:"QUIZ_LOG_DEVELOPMENT" envDefault:"false"`

	// Optional surfaces; empty disables them.
	HTTPAddr    string `env:"QUIZ_HTTP_ADDR"`
	DatabaseDSN string `env:"QUIZ_DATABASE_DSN"`
}

// Load reads .env from the working directory when present, then the
// environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return Parse()
}

// Parse reads the environment only.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch {
	case c.ListenAddr == "":
		return fmt.Errorf("%w: QUIZ_LISTEN_ADDR is empty", ErrInvalid)
	case c.QuestionsPath == "":
		return fmt.Errorf("%w: QUIZ_QUESTIONS_PATH is empty", ErrInvalid)
	case c.ReceiveTimeout <= 0:
		return fmt.Errorf("%w: QUIZ_RECEIVE_TIMEOUT must be positive", ErrInvalid)
	case c.RoundPause < 0:
		return fmt.Errorf("%w: QUIZ_ROUND_PAUSE must not be negative", ErrInvalid)
	case c.WinScore < 1:
		return fmt.Errorf("%w: QUIZ_WIN_SCORE must be at least 1", ErrInvalid)
	case c.FirstBonus < 0 || c.SecondBonus < 0:
		return fmt.Errorf("%w: bonuses must not be negative", ErrInvalid)
	}
	return nil
}

func (c Config) Rules() match.Rules {
	return match.Rules{
		ReceiveTimeout: c.ReceiveTimeout,
		WinScore:       c.WinScore,
		Scoring:        engine.Scoring{FirstBonus: c.FirstBonus, SecondBonus: c.SecondBonus},
		RoundPause:     c.RoundPause,
		ResetScores:    c.ResetScores,
	}
}
