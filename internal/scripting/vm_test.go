package scripting

import (
	"io"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackjacklab/blackjack-trainer-go/internal/game"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestVMExecuteAndDobet(t *testing.T) {
	vm := NewVM()
	err := vm.Execute(`
		var called = false;
		dobet = function() {
			called = true;
			nextbet = basebet * 2;
		}
	`)
	require.NoError(t, err)
	require.True(t, vm.HasDobet())

	vars := &Variables{BaseBet: 1, NextBet: 1, Running: true}
	vm.SetVariables(vars)
	require.NoError(t, vm.CallDobet())
	vm.SyncVariables(vars)
	assert.InDelta(t, 2.0, vars.NextBet, 1e-9)
}

func TestVMMissingDobet(t *testing.T) {
	vm := NewVM()
	require.NoError(t, vm.Execute(`var x = 1;`))
	assert.False(t, vm.HasDobet())
	assert.Error(t, vm.CallDobet())
}

func TestVMBlockedGlobals(t *testing.T) {
	for _, global := range []string{"require", "fetch", "XMLHttpRequest", "eval", "Function"} {
		vm := NewVM()
		err := vm.Execute(global + `("anything")`)
		assert.Error(t, err, "%s must not be callable", global)
	}
}

func TestVMStopAndLog(t *testing.T) {
	vm := NewVM()
	require.NoError(t, vm.Execute(`
		dobet = function() {
			log("count is", truecount);
			stop();
		}
	`))
	vm.SetVariables(&Variables{TrueCount: 2.5, Running: true})
	require.NoError(t, vm.CallDobet())
	assert.True(t, vm.IsStopRequested())

	logs := vm.Logs()
	require.Len(t, logs, 1)
	assert.True(t, strings.HasPrefix(logs[0].Message, "count is"), "got %q", logs[0].Message)
}

func TestVMScriptTimeout(t *testing.T) {
	vm := NewVM()
	err := vm.Execute(`while (true) {}`)
	assert.Error(t, err)
}

func TestBetScriptRampsWithCount(t *testing.T) {
	script, err := NewBetScript(`
		dobet = function() {
			if (truecount > 1) {
				nextbet = basebet * Math.floor(truecount);
			} else {
				nextbet = basebet;
			}
		}
	`, testLogger())
	require.NoError(t, err)

	betFn := script.BetFunc()
	base := decimal.NewFromInt(2)
	stack := decimal.NewFromInt(100)

	got := betFn(base, game.Count{True: 0.5}, stack, decimal.Zero)
	assert.True(t, got.Equal(base), "expected %s, got %s", base, got)

	got = betFn(base, game.Count{True: 3.2}, stack, decimal.Zero)
	assert.True(t, got.Equal(decimal.NewFromInt(6)), "expected 6, got %s", got)
	assert.False(t, script.Stopped())
}

func TestBetScriptMartingale(t *testing.T) {
	script, err := NewBetScript(`
		dobet = function() {
			if (win) {
				nextbet = basebet;
			} else {
				nextbet = previousbet * 2;
			}
		}
	`, testLogger())
	require.NoError(t, err)

	betFn := script.BetFunc()
	base := decimal.NewFromInt(1)
	stack := decimal.NewFromInt(100)

	// First call has no history: previousbet is zero, bet falls back to base.
	got := betFn(base, game.Count{}, stack, decimal.Zero)
	assert.True(t, got.Equal(base))

	// A loss doubles, another loss doubles again.
	got = betFn(base, game.Count{}, stack, decimal.NewFromInt(-1))
	assert.True(t, got.Equal(decimal.NewFromInt(2)), "expected 2, got %s", got)
	got = betFn(base, game.Count{}, stack, decimal.NewFromInt(-2))
	assert.True(t, got.Equal(decimal.NewFromInt(4)), "expected 4, got %s", got)

	// A win resets to base.
	got = betFn(base, game.Count{}, stack, decimal.NewFromInt(8))
	assert.True(t, got.Equal(base), "expected %s, got %s", base, got)
}

func TestBetScriptStopEndsSession(t *testing.T) {
	script, err := NewBetScript(`
		dobet = function() {
			if (balance < 95) {
				stop();
			} else {
				nextbet = basebet;
			}
		}
	`, testLogger())
	require.NoError(t, err)

	betFn := script.BetFunc()
	base := decimal.NewFromInt(1)

	got := betFn(base, game.Count{}, decimal.NewFromInt(100), decimal.Zero)
	assert.True(t, got.IsPositive())

	got = betFn(base, game.Count{}, decimal.NewFromInt(90), decimal.Zero)
	assert.False(t, got.IsPositive())
	assert.True(t, script.Stopped())
}

func TestBetScriptRejectsOversizedBet(t *testing.T) {
	script, err := NewBetScript(`
		dobet = function() { nextbet = 1000000; }
	`, testLogger())
	require.NoError(t, err)

	got := script.BetFunc()(decimal.NewFromInt(1), game.Count{}, decimal.NewFromInt(50), decimal.Zero)
	assert.True(t, got.Equal(decimal.NewFromInt(1)), "oversized bets fall back to base")
}

func TestNewBetScriptRequiresDobet(t *testing.T) {
	_, err := NewBetScript(`var notAFunction = 3;`, testLogger())
	assert.Error(t, err)
}
