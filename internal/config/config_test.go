package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoyleJ11/battle-quiz/internal/match"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:10000", cfg.ListenAddr)
	assert.Equal(t, "resources/questions.txt", cfg.QuestionsPath)
	assert.Empty(t, cfg.HTTPAddr)
	assert.Empty(t, cfg.DatabaseDSN)
	assert.Equal(t, match.DefaultRules(), cfg.Rules())
}

func TestParseOverrides(t *testing.T) {
	t.Setenv("QUIZ_LISTEN_ADDR", "127.0.0.1:9999")
	t.Setenv("QUIZ_RECEIVE_TIMEOUT", "30s")
	t.Setenv("QUIZ_WIN_SCORE", "1")
	t.Setenv("QUIZ_FIRST_BONUS", "10")
	t.Setenv("QUIZ_SECOND_BONUS", "4")
	t.Setenv("QUIZ_ROUND_PAUSE", "0s")
	t.Setenv("QUIZ_RESET_SCORES", "false")
	t.Setenv("QUIZ_HTTP_ADDR", ":8080")

	cfg, err := Parse()
	require.NoError(t, err)

	rules := cfg.Rules()
	assert.Equal(t, "127.0.0.1:9999", cfg.ListenAddr)
	assert.Equal(t, 30*time.Second, rules.ReceiveTimeout)
	assert.Equal(t, 1, rules.WinScore)
	assert.Equal(t, 10, rules.Scoring.FirstBonus)
	assert.Equal(t, 4, rules.Scoring.SecondBonus)
	assert.Zero(t, rules.RoundPause)
	assert.False(t, rules.ResetScores)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		key  string
		val  string
	}{
		{"not an int", "QUIZ_WIN_SCORE", "lots"},
		{"zero win score", "QUIZ_WIN_SCORE", "0"},
		{"zero timeout", "QUIZ_RECEIVE_TIMEOUT", "0s"},
		{"negative pause", "QUIZ_ROUND_PAUSE", "-1s"},
		{"negative bonus", "QUIZ_SECOND_BONUS", "-3"},
		{"bad duration", "QUIZ_ROUND_PAUSE", "soon"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.val)
			_, err := Parse()
			require.Error(t, err)
		})
	}
}

func TestValidate_EmptyPath(t *testing.T) {
	cfg, err := Parse()
	require.NoError(t, err)
	cfg.QuestionsPath = ""
	require.ErrorIs(t, cfg.Validate(), ErrInvalid)
}

func TestLoad_ReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("QUIZ_WIN_SCORE=12\n"), 0o600))
	t.Chdir(dir)
	t.Cleanup(func() { _ = os.Unsetenv("QUIZ_WIN_SCORE") })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.WinScore)
}

func TestLoad_WithoutDotEnv(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := Load()
	require.NoError(t, err)
}
