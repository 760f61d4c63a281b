package scripting

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/blackjacklab/blackjack-trainer-go/internal/game"
)

// BetScript adapts a dobet() script to the session's bet sizing hook. State
// between calls (previous bet, last result) is carried in the variable set.
type BetScript struct {
	vm   *VM
	vars Variables
	log  *logrus.Logger

	stopped  bool
	startBal float64
}

// NewBetScript compiles the script source and verifies it defines dobet().
func NewBetScript(source string, logger *logrus.Logger) (*BetScript, error) {
	if logger == nil {
		logger = logrus.New()
	}
	vm := NewVM()
	if err := vm.Execute(source); err != nil {
		return nil, err
	}
	if !vm.HasDobet() {
		return nil, fmt.Errorf("scripting: script does not define dobet()")
	}
	return &BetScript{vm: vm, log: logger}, nil
}

// Stopped reports whether the script asked to end the session.
func (b *BetScript) Stopped() bool { return b.stopped }

// Logs exposes the script's log buffer.
func (b *BetScript) Logs() []LogEntry { return b.vm.Logs() }

// BetFunc returns the hook the session calls before every round. A script
// error or a stop() call yields a non-positive bet, which ends the session.
func (b *BetScript) BetFunc() game.BetFunc {
	return func(baseBet decimal.Decimal, count game.Count, stack, lastProfit decimal.Decimal) decimal.Decimal {
		if b.stopped {
			return decimal.Zero
		}

		base, _ := baseBet.Float64()
		balance, _ := stack.Float64()
		profit, _ := lastProfit.Float64()

		if b.vars.Rounds == 0 {
			b.startBal = balance
		}
		b.vars.Balance = balance
		b.vars.Profit = balance - b.startBal
		b.vars.BaseBet = base
		b.vars.NextBet = base
		b.vars.Win = profit > 0
		b.vars.LastProfit = profit
		b.vars.RunningCount = count.Running
		b.vars.TrueCount = count.True
		b.vars.Running = true

		b.vm.SetVariables(&b.vars)
		if err := b.vm.CallDobet(); err != nil {
			b.log.WithError(err).Error("bet script failed, stopping session")
			b.stopped = true
			return decimal.Zero
		}
		b.vm.SyncVariables(&b.vars)
		b.vars.Rounds++

		if b.vm.IsStopRequested() || !b.vars.Running {
			b.stopped = true
			return decimal.Zero
		}

		next := decimal.NewFromFloat(b.vars.NextBet)
		if !next.IsPositive() || next.GreaterThan(stack) {
			b.log.Warnf("bet script asked for %s with stack %s, using base bet", next, stack)
			next = baseBet
		}
		b.vars.PreviousBet, _ = next.Float64()
		return next
	}
}
