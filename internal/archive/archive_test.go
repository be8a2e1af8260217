package archive

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoyleJ11/battle-quiz/internal/engine"
	"github.com/DoyleJ11/battle-quiz/internal/match"
)

func sampleResult() match.Result {
	return match.Result{
		MatchID: uuid.New(),
		Players: [2]engine.Player{
			{Name: "Ana", Score: 30},
			{Name: "Bruno", Score: 12},
		},
		Winner:     "Ana",
		Reason:     match.EndThreshold,
		Rounds:     9,
		FinishedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("BRT", -3*3600)),
	}
}

func TestFromResult(t *testing.T) {
	r := sampleResult()
	rec := FromResult(r)

	assert.Equal(t, r.MatchID.String(), rec.MatchID)
	assert.Equal(t, "Ana", rec.Player1)
	assert.Equal(t, 30, rec.Score1)
	assert.Equal(t, "Bruno", rec.Player2)
	assert.Equal(t, 12, rec.Score2)
	assert.Equal(t, "Ana", rec.Winner)
	assert.Equal(t, "threshold", rec.Reason)
	assert.Equal(t, 9, rec.Rounds)
	assert.Equal(t, time.UTC, rec.FinishedAt.Location())
	assert.True(t, rec.FinishedAt.Equal(r.FinishedAt))
}

func TestClosedStore(t *testing.T) {
	s := &Store{}
	require.ErrorIs(t, s.Record(context.Background(), sampleResult()), ErrClosed)
	_, err := s.Recent(context.Background(), 1)
	require.ErrorIs(t, err, ErrClosed)
	require.NoError(t, s.Close())
}

// TestStore_RoundTrip needs a scratch PostgreSQL database.
func TestStore_RoundTrip(t *testing.T) {
	dsn := os.Getenv("QUIZ_TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("QUIZ_TEST_DATABASE_DSN not set")
	}

	s, err := Open(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	ctx := context.Background()
	r := sampleResult()
	require.NoError(t, s.Record(ctx, r))
	require.Error(t, s.Record(ctx, r), "match ids are unique")

	recs, err := s.Recent(ctx, 50)
	require.NoError(t, err)

	var found bool
	for _, rec := range recs {
		if rec.MatchID == r.MatchID.String() {
			found = true
			assert.Equal(t, "Ana", rec.Winner)
		}
	}
	assert.True(t, found, "recorded match not listed")
}
