package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/blackjacklab/blackjack-trainer-go/internal/engine"
	"github.com/blackjacklab/blackjack-trainer-go/internal/game"
	"github.com/blackjacklab/blackjack-trainer-go/internal/store"
)

// RoundRequest plays a single round, optionally with forced cards.
type RoundRequest struct {
	Region      string          `json:"region"`
	Bet         decimal.Decimal `json:"bet"`
	Stack       decimal.Decimal `json:"stack"`
	PlayerCards string          `json:"player_cards,omitempty"` // "A,K" or "8,8;A,7"
	DealerCards string          `json:"dealer_cards,omitempty"`
	Seeds       *engine.Seeds   `json:"seeds,omitempty"`
	UseCount    bool            `json:"use_count"`
	Deviations  bool            `json:"deviations"`
}

// RoundResponse echoes the seeds so a forced round can be replayed.
type RoundResponse struct {
	Result *game.RoundResult `json:"result"`
	Seeds  engine.Seeds      `json:"seeds"`
}

// SimulateRequest runs an autoplayed session.
type SimulateRequest struct {
	Region     string          `json:"region"`
	Rounds     int             `json:"rounds"`
	Bet        decimal.Decimal `json:"bet"`
	Stack      decimal.Decimal `json:"stack"`
	UseCount   bool            `json:"use_count"`
	Deviations bool            `json:"deviations"`
	CountBet   bool            `json:"count_bet"`
	Seeds      *engine.Seeds   `json:"seeds,omitempty"`
	Save       bool            `json:"save"`
}

// SimulateResponse carries the aggregate statistics and, when persisted, the
// stored session id.
type SimulateResponse struct {
	Stats     *game.SessionStats `json:"stats"`
	Seeds     engine.Seeds       `json:"seeds"`
	SessionID string             `json:"session_id,omitempty"`
}

const maxSimulateRounds = 1_000_000

func (s *Server) handleRules(w http.ResponseWriter, r *http.Request) {
	presets := make(map[string]game.Rules)
	for _, region := range game.Regions() {
		rules, err := game.Preset(region)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, ErrTypeInternal, err.Error(), nil)
			return
		}
		presets[region] = rules
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"regions": game.Regions(),
		"presets": presets,
		"subsets": game.Subsets(),
	})
}

func (s *Server) handleRound(w http.ResponseWriter, r *http.Request) {
	var req RoundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, ErrTypeValidation, "invalid JSON", map[string]interface{}{"error": err.Error()})
		return
	}

	rules, err := validateCommon(req.Region, req.Bet, req.Stack)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, ErrTypeValidation, err.Error(), nil)
		return
	}
	playerCards, err := game.ParseCardSpec(req.PlayerCards)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, ErrTypeValidation, err.Error(), nil)
		return
	}
	dealerCards, err := game.ParseDealerSpec(req.DealerCards)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, ErrTypeValidation, err.Error(), nil)
		return
	}

	g, err := game.New(rules, game.Options{
		Stack:       req.Stack,
		Seeds:       req.Seeds,
		PlayerCards: playerCards,
		DealerCards: dealerCards,
		Logger:      quiet(s.log),
	})
	if err != nil {
		s.writeError(w, http.StatusBadRequest, ErrTypeValidation, err.Error(), nil)
		return
	}

	result, err := g.PlayRound(req.Bet, game.AutoDecider{UseCount: req.UseCount, Deviations: req.Deviations})
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, ErrTypeInternal, err.Error(), nil)
		return
	}
	s.writeJSON(w, http.StatusOK, RoundResponse{Result: result, Seeds: g.Seeds()})
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req SimulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, ErrTypeValidation, "invalid JSON", map[string]interface{}{"error": err.Error()})
		return
	}

	rules, err := validateCommon(req.Region, req.Bet, req.Stack)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, ErrTypeValidation, err.Error(), nil)
		return
	}
	if req.Rounds < 1 || req.Rounds > maxSimulateRounds {
		s.writeError(w, http.StatusBadRequest, ErrTypeValidation,
			fmt.Sprintf("rounds must be between 1 and %d", maxSimulateRounds), nil)
		return
	}
	if req.Save && s.db == nil {
		s.writeError(w, http.StatusBadRequest, ErrTypeValidation, "persistence is not enabled", nil)
		return
	}

	g, err := game.New(rules, game.Options{
		Stack:  req.Stack,
		Seeds:  req.Seeds,
		Logger: quiet(s.log),
	})
	if err != nil {
		s.writeError(w, http.StatusBadRequest, ErrTypeValidation, err.Error(), nil)
		return
	}

	var session *store.Session
	if req.Save {
		seeds := g.Seeds()
		session = &store.Session{
			Region:     rules.Region,
			GameType:   string(rules.GameType),
			Decks:      rules.NumberOfDecks,
			ServerSeed: seeds.Server,
			ClientSeed: seeds.Client,
			BaseBet:    req.Bet.String(),
			BuyIn:      req.Stack.String(),
		}
		if err := s.db.SaveSession(session); err != nil {
			s.writeError(w, http.StatusInternalServerError, ErrTypeInternal, err.Error(), nil)
			return
		}
	}

	betFn := game.FlatBet
	if req.CountBet {
		betFn = game.CountBet
	}
	decider := game.AutoDecider{UseCount: req.UseCount, Deviations: req.Deviations}

	startStack := req.Stack
	lastProfit := decimal.Zero
	var stored []store.Round
	for i := 0; i < req.Rounds; i++ {
		bet := betFn(req.Bet, g.Player().Count, g.Player().Stack, lastProfit)
		result, err := g.PlayRound(bet, decider)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, ErrTypeInternal, err.Error(), nil)
			return
		}
		lastProfit = result.Profit
		if session != nil {
			round, err := store.NewRound(session.ID, result)
			if err != nil {
				s.writeError(w, http.StatusInternalServerError, ErrTypeInternal, err.Error(), nil)
				return
			}
			stored = append(stored, round)
		}
	}

	stats := g.Stats(startStack)
	resp := SimulateResponse{Stats: stats, Seeds: g.Seeds()}
	if session != nil {
		session.FinalStack = stats.FinalStack.String()
		session.Rounds = stats.Rounds
		session.Hands = stats.Hands
		session.Profit = stats.Profit.String()
		session.CorrectRate = stats.CorrectRate
		if err := s.db.SaveRounds(session.ID, stored); err != nil {
			s.writeError(w, http.StatusInternalServerError, ErrTypeInternal, err.Error(), nil)
			return
		}
		if err := s.db.FinishSession(session); err != nil {
			s.writeError(w, http.StatusInternalServerError, ErrTypeInternal, err.Error(), nil)
			return
		}
		resp.SessionID = session.ID
	}

	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	session, err := s.db.GetSession(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.writeError(w, http.StatusNotFound, ErrTypeNotFound, "session not found", map[string]interface{}{"id": id})
			return
		}
		s.writeError(w, http.StatusInternalServerError, ErrTypeInternal, err.Error(), nil)
		return
	}
	s.writeJSON(w, http.StatusOK, session)
}

func (s *Server) handleGetRounds(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	limit := queryInt(r, "limit", 100)
	offset := queryInt(r, "offset", 0)
	if limit < 1 || limit > 1000 {
		s.writeError(w, http.StatusBadRequest, ErrTypeValidation, "limit must be between 1 and 1000", nil)
		return
	}

	rounds, err := s.db.GetRounds(id, limit, offset)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, ErrTypeInternal, err.Error(), nil)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"session_id": id,
		"rounds":     rounds,
		"count":      len(rounds),
	})
}

func validateCommon(region string, bet, stack decimal.Decimal) (game.Rules, error) {
	rules, err := game.Preset(region)
	if err != nil {
		return game.Rules{}, err
	}
	if !bet.IsPositive() {
		return game.Rules{}, fmt.Errorf("bet must be positive")
	}
	if stack.LessThan(bet) {
		return game.Rules{}, fmt.Errorf("stack must cover the bet")
	}
	return rules, nil
}

func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

// quiet returns a logger for engine internals that only surfaces warnings.
func quiet(base *logrus.Logger) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	if base != nil {
		logger.SetOutput(base.Out)
		logger.SetLevel(logrus.WarnLevel)
	}
	return logger
}
