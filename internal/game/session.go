package game

import (
	"github.com/shopspring/decimal"
)

// BetFunc sizes the next bet from the table state before a round. It
// receives the base bet and the current count.
type BetFunc func(baseBet decimal.Decimal, count Count, stack decimal.Decimal, lastProfit decimal.Decimal) decimal.Decimal

// FlatBet always bets the base amount.
func FlatBet(baseBet decimal.Decimal, _ Count, _ decimal.Decimal, _ decimal.Decimal) decimal.Decimal {
	return baseBet
}

// CountBet ramps the bet with the true count: base times floor(true count)
// when the count is above one, base otherwise.
func CountBet(baseBet decimal.Decimal, count Count, _ decimal.Decimal, _ decimal.Decimal) decimal.Decimal {
	if count.True > 1 {
		return baseBet.Mul(decimal.NewFromInt(int64(count.True)))
	}
	return baseBet
}

// SessionStats aggregates the results of a multi-round session.
type SessionStats struct {
	Rounds      int             `json:"rounds"`
	Hands       int             `json:"hands"`
	Invested    decimal.Decimal `json:"invested"`
	Profit      decimal.Decimal `json:"profit"`
	FinalStack  decimal.Decimal `json:"finalStack"`
	AvgBet      decimal.Decimal `json:"avgBet"`
	AvgWin      decimal.Decimal `json:"avgWin"`
	ReturnPct   decimal.Decimal `json:"returnPct"`
	Decisions   Decisions       `json:"decisions"`
	CorrectRate float64         `json:"correctRate"`
}

// RunSession plays n rounds against one shoe sequence and reports aggregate
// statistics. betFn sizes each round's bet; nil means flat betting.
func (g *Game) RunSession(n int, baseBet decimal.Decimal, d Decider, betFn BetFunc) (*SessionStats, error) {
	if betFn == nil {
		betFn = FlatBet
	}
	startStack := g.player.Stack
	lastProfit := decimal.Zero
	for i := 0; i < n; i++ {
		bet := betFn(baseBet, g.player.Count, g.player.Stack, lastProfit)
		if !bet.IsPositive() {
			// The bet hook sat out, ending the session early.
			break
		}
		result, err := g.PlayRound(bet, d)
		if err != nil {
			return nil, err
		}
		lastProfit = result.Profit
	}
	return g.Stats(startStack), nil
}

// Stats summarizes everything played so far relative to a starting stack.
func (g *Game) Stats(startStack decimal.Decimal) *SessionStats {
	stats := &SessionStats{
		Rounds:      g.Rounds,
		Hands:       g.HandsPlayed,
		Invested:    g.player.Invested,
		Profit:      g.player.Stack.Sub(startStack),
		FinalStack:  g.player.Stack,
		Decisions:   g.Decisions,
		CorrectRate: g.Decisions.Pct(),
	}
	if g.HandsPlayed > 0 {
		hands := decimal.NewFromInt(int64(g.HandsPlayed))
		stats.AvgBet = stats.Invested.Div(hands).Round(4)
		stats.AvgWin = stats.Profit.Div(hands).Round(4)
	}
	if stats.Invested.IsPositive() {
		// 100 is break-even: every invested unit came back.
		ratio := decimal.NewFromInt(1).Add(stats.Profit.Div(stats.Invested))
		stats.ReturnPct = ratio.Mul(decimal.NewFromInt(100)).Round(3)
	}
	return stats
}
