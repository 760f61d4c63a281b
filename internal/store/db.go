// Package store persists sessions and round history to SQLite.
package store

import (
	"encoding/json"
	"time"

	"github.com/blackjacklab/blackjack-trainer-go/internal/game"
)

// DB is the persistence interface the trainer writes through.
type DB interface {
	Close() error
	Migrate() error
	SaveSession(session *Session) error
	FinishSession(session *Session) error
	SaveRounds(sessionID string, rounds []Round) error
	GetSession(id string) (*Session, error)
	GetRounds(sessionID string, limit, offset int) ([]Round, error)
}

// Session is one sitting at the table: the rule set, the seeds that drove the
// shoe, and the aggregate result.
type Session struct {
	ID          string    `json:"id" db:"id"`
	Region      string    `json:"region" db:"region"`
	GameType    string    `json:"game_type" db:"game_type"`
	Decks       int       `json:"decks" db:"decks"`
	ServerSeed  string    `json:"server_seed" db:"server_seed"`
	ClientSeed  string    `json:"client_seed" db:"client_seed"`
	BaseBet     string    `json:"base_bet" db:"base_bet"`
	BuyIn       string    `json:"buy_in" db:"buy_in"`
	FinalStack  string    `json:"final_stack" db:"final_stack"`
	Rounds      int       `json:"rounds" db:"rounds"`
	Hands       int       `json:"hands" db:"hands"`
	Profit      string    `json:"profit" db:"profit"`
	CorrectRate float64   `json:"correct_rate" db:"correct_rate"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Round is one stored round of a session. Hand details are stored as JSON.
type Round struct {
	ID              string  `json:"id" db:"id"`
	SessionID       string  `json:"session_id" db:"session_id"`
	Bet             string  `json:"bet" db:"bet"`
	Profit          string  `json:"profit" db:"profit"`
	StackAfter      string  `json:"stack_after" db:"stack_after"`
	DealerSum       int     `json:"dealer_sum" db:"dealer_sum"`
	DealerBlackjack bool    `json:"dealer_blackjack" db:"dealer_blackjack"`
	DealerCards     string  `json:"dealer_cards" db:"dealer_cards"`
	Hands           string  `json:"hands" db:"hands"`
	RunningCount    int     `json:"running_count" db:"running_count"`
	TrueCount       float64 `json:"true_count" db:"true_count"`
}

// NewRound flattens an engine round result into its storable form.
func NewRound(sessionID string, result *game.RoundResult) (Round, error) {
	hands, err := json.Marshal(result.Hands)
	if err != nil {
		return Round{}, err
	}
	dealerCards, err := json.Marshal(result.DealerCards)
	if err != nil {
		return Round{}, err
	}
	return Round{
		ID:              result.ID,
		SessionID:       sessionID,
		Bet:             result.Bet.String(),
		Profit:          result.Profit.String(),
		StackAfter:      result.StackAfter.String(),
		DealerSum:       result.DealerSum,
		DealerBlackjack: result.DealerBlackjack,
		DealerCards:     string(dealerCards),
		Hands:           string(hands),
		RunningCount:    result.Count.Running,
		TrueCount:       result.Count.True,
	}, nil
}

// HandOutcomes decodes the stored hand details.
func (r Round) HandOutcomes() ([]game.HandOutcome, error) {
	var hands []game.HandOutcome
	if err := json.Unmarshal([]byte(r.Hands), &hands); err != nil {
		return nil, err
	}
	return hands, nil
}
