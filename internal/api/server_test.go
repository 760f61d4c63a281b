package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackjacklab/blackjack-trainer-go/internal/store"
)

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	db, err := store.NewSQLiteDB(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate())

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	ts := httptest.NewServer(NewServer(db, logger).Routes())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, body interface{}) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestHealth(t *testing.T) {
	ts := testServer(t)
	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRulesEndpoint(t *testing.T) {
	ts := testServer(t)
	resp, err := http.Get(ts.URL + "/api/v1/rules")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Regions []string                   `json:"regions"`
		Presets map[string]json.RawMessage `json:"presets"`
		Subsets []string                   `json:"subsets"`
	}
	decode(t, resp, &body)
	assert.ElementsMatch(t, []string{"US", "Europe", "Helsinki"}, body.Regions)
	assert.Contains(t, body.Presets, "Helsinki")
	assert.Contains(t, body.Subsets, "pairs")
}

func TestRoundEndpointForcedBlackjack(t *testing.T) {
	ts := testServer(t)
	resp := postJSON(t, ts.URL+"/api/v1/round", RoundRequest{
		Region:      "US",
		Bet:         decimal.NewFromInt(1),
		Stack:       decimal.NewFromInt(10),
		PlayerCards: "A,K",
		DealerCards: "10,Q",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body RoundResponse
	decode(t, resp, &body)
	require.NotNil(t, body.Result)
	require.Len(t, body.Result.Hands, 1)
	assert.Equal(t, "BLACKJACK", body.Result.Hands[0].Result)
	assert.True(t, body.Result.StackAfter.Equal(decimal.RequireFromString("11.5")),
		"stack: got %s", body.Result.StackAfter)
	assert.NotEmpty(t, body.Seeds.Server)
}

func TestRoundEndpointValidation(t *testing.T) {
	ts := testServer(t)

	resp := postJSON(t, ts.URL+"/api/v1/round", RoundRequest{
		Region: "Atlantis",
		Bet:    decimal.NewFromInt(1),
		Stack:  decimal.NewFromInt(10),
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var body ErrorResponse
	decode(t, resp, &body)
	assert.Equal(t, ErrTypeValidation, body.Error.Type)

	resp = postJSON(t, ts.URL+"/api/v1/round", RoundRequest{
		Region: "US",
		Bet:    decimal.NewFromInt(5),
		Stack:  decimal.NewFromInt(1),
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = postJSON(t, ts.URL+"/api/v1/round", RoundRequest{
		Region:      "US",
		Bet:         decimal.NewFromInt(1),
		Stack:       decimal.NewFromInt(10),
		PlayerCards: "A,banana",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSimulateAndPersist(t *testing.T) {
	ts := testServer(t)
	resp := postJSON(t, ts.URL+"/api/v1/simulate", SimulateRequest{
		Region: "Helsinki",
		Rounds: 25,
		Bet:    decimal.NewFromInt(1),
		Stack:  decimal.NewFromInt(1000),
		Save:   true,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body SimulateResponse
	decode(t, resp, &body)
	require.NotNil(t, body.Stats)
	assert.Equal(t, 25, body.Stats.Rounds)
	require.NotEmpty(t, body.SessionID)

	sessResp, err := http.Get(ts.URL + "/api/v1/sessions/" + body.SessionID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, sessResp.StatusCode)
	var session store.Session
	decode(t, sessResp, &session)
	assert.Equal(t, "Helsinki", session.Region)
	assert.Equal(t, 25, session.Rounds)

	roundsResp, err := http.Get(ts.URL + "/api/v1/sessions/" + body.SessionID + "/rounds?limit=10")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, roundsResp.StatusCode)
	var rounds struct {
		Rounds []store.Round `json:"rounds"`
		Count  int           `json:"count"`
	}
	decode(t, roundsResp, &rounds)
	assert.Equal(t, 10, rounds.Count)
}

func TestSimulateRoundsValidation(t *testing.T) {
	ts := testServer(t)
	resp := postJSON(t, ts.URL+"/api/v1/simulate", SimulateRequest{
		Region: "US",
		Rounds: 0,
		Bet:    decimal.NewFromInt(1),
		Stack:  decimal.NewFromInt(100),
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSessionNotFound(t *testing.T) {
	ts := testServer(t)
	resp, err := http.Get(ts.URL + "/api/v1/sessions/nope")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
