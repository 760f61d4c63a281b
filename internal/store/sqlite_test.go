package store

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackjacklab/blackjack-trainer-go/internal/game"
)

func openTestDB(t *testing.T) *SQLiteDB {
	t.Helper()
	db, err := NewSQLiteDB(filepath.Join(t.TempDir(), "trainer.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate())
	return db
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.Migrate())
}

func TestSessionRoundTrip(t *testing.T) {
	db := openTestDB(t)

	session := &Session{
		Region:     "Helsinki",
		GameType:   "s17",
		Decks:      6,
		ServerSeed: "server",
		ClientSeed: "client",
		BaseBet:    "1",
		BuyIn:      "100",
	}
	require.NoError(t, db.SaveSession(session))
	require.NotEmpty(t, session.ID)

	session.FinalStack = "104.5"
	session.Rounds = 10
	session.Hands = 12
	session.Profit = "4.5"
	session.CorrectRate = 100
	require.NoError(t, db.FinishSession(session))

	got, err := db.GetSession(session.ID)
	require.NoError(t, err)
	assert.Equal(t, "Helsinki", got.Region)
	assert.Equal(t, "s17", got.GameType)
	assert.Equal(t, 6, got.Decks)
	assert.Equal(t, "104.5", got.FinalStack)
	assert.Equal(t, 10, got.Rounds)
	assert.Equal(t, 12, got.Hands)
	assert.Equal(t, "4.5", got.Profit)
	assert.InDelta(t, 100, got.CorrectRate, 1e-9)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestGetSessionMissing(t *testing.T) {
	db := openTestDB(t)
	_, err := db.GetSession("no-such-id")
	assert.Error(t, err)
}

func TestSaveRoundsFromEngine(t *testing.T) {
	db := openTestDB(t)

	session := &Session{
		Region: "US", GameType: "h17", Decks: 6,
		ServerSeed: "s", ClientSeed: "c", BaseBet: "1", BuyIn: "10",
	}
	require.NoError(t, db.SaveSession(session))

	rules, err := game.Preset("US")
	require.NoError(t, err)
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	g, err := game.New(rules, game.Options{Stack: decimal.NewFromInt(10), Logger: logger})
	require.NoError(t, err)

	var rounds []Round
	for i := 0; i < 5; i++ {
		result, err := g.PlayRound(decimal.NewFromInt(1), game.AutoDecider{})
		require.NoError(t, err)
		round, err := NewRound(session.ID, result)
		require.NoError(t, err)
		rounds = append(rounds, round)
	}
	require.NoError(t, db.SaveRounds(session.ID, rounds))

	got, err := db.GetRounds(session.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, got, 5)
	for i, round := range got {
		assert.Equal(t, rounds[i].ID, round.ID)
		assert.Equal(t, session.ID, round.SessionID)
		hands, err := round.HandOutcomes()
		require.NoError(t, err)
		require.NotEmpty(t, hands)
		assert.NotEmpty(t, hands[0].Result)
	}

	// Pagination.
	page, err := db.GetRounds(session.ID, 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, rounds[2].ID, page[0].ID)
}

func TestSaveRoundsEmpty(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.SaveRounds("whatever", nil))
}
