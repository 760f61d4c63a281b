package game

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Terminal per-hand result labels exposed to the presentation layer.
const (
	ResultBlackjack   = "BLACKJACK"
	ResultPush        = "PUSH"
	ResultBust        = "BUST"
	ResultSurrender   = "SURRENDER"
	ResultEvenMoney   = "EVEN MONEY"
	ResultInsurance   = "INSURANCE"
	ResultTripleSeven = "TRIPLE SEVEN"
)

// winLabel renders a win like "WIN (20 vs 19)".
func winLabel(playerSum, dealerSum int) string {
	return fmt.Sprintf("WIN (%d vs %d)", playerSum, dealerSum)
}

// loseLabel renders a loss like "LOSE (17 vs 20)".
func loseLabel(playerSum, dealerSum int) string {
	return fmt.Sprintf("LOSE (%d vs %d)", playerSum, dealerSum)
}

// HandOutcome is the terminal state of one player hand.
type HandOutcome struct {
	Slot   int             `json:"slot"`
	Cards  []string        `json:"cards"`
	Sum    int             `json:"sum"`
	Bet    decimal.Decimal `json:"bet"`
	Result string          `json:"result"`
	Payout decimal.Decimal `json:"payout"` // amount credited back to the stack
}

// RoundResult is the outcome of one full round.
type RoundResult struct {
	ID              string          `json:"id"`
	Hands           []HandOutcome   `json:"hands"`
	DealerCards     []string        `json:"dealer_cards"`
	DealerSum       int             `json:"dealer_sum"`
	DealerBlackjack bool            `json:"dealer_blackjack"`
	Bet             decimal.Decimal `json:"bet"`
	Profit          decimal.Decimal `json:"profit"`
	StackAfter      decimal.Decimal `json:"stack_after"`
	Count           Count           `json:"count"`
}

// Decisions tallies the coach's verdicts over a session.
type Decisions struct {
	Correct   int `json:"correct"`
	Incorrect int `json:"incorrect"`
}

// Pct returns the share of correct decisions as a percentage. An empty tally
// counts as fully correct.
func (d Decisions) Pct() float64 {
	total := d.Correct + d.Incorrect
	if total == 0 {
		return 100
	}
	return float64(d.Correct) / float64(total) * 100
}
