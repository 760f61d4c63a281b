package game

import (
	"errors"
	"sort"

	"github.com/shopspring/decimal"
)

// ErrTooManyHands is returned when a fifth hand is requested. The engine
// never offers a split once four hands exist, so hitting this is a bug.
var ErrTooManyHands = errors.New("game: too many hands")

// slotOrder is the fixed fill order for hand slots so that hand placement is
// deterministic regardless of split sequence.
var slotOrder = [4]int{2, 1, 3, 0}

// Player holds the stack, the live hands of the current round, and the count.
type Player struct {
	Stack    decimal.Decimal
	Invested decimal.Decimal
	Hands    []*Hand
	Count    Count

	rules Rules
}

// NewPlayer creates a player buying in with the given stack.
func NewPlayer(rules Rules, stack decimal.Decimal) *Player {
	return &Player{Stack: stack, rules: rules}
}

// StartHand debits the bet and opens a new hand in the next free slot.
func (p *Player) StartHand(bet decimal.Decimal) (*Hand, error) {
	if len(p.Hands) >= len(slotOrder) {
		return nil, ErrTooManyHands
	}
	hand := NewHand(p.rules)
	hand.Bet = bet
	hand.Slot = slotOrder[len(p.Hands)]
	p.Stack = p.Stack.Sub(bet)
	p.Invested = p.Invested.Add(bet)
	p.Hands = append(p.Hands, hand)
	return hand, nil
}

// ClearHands discards all hands at the end of a round.
func (p *Player) ClearHands() {
	p.Hands = nil
}

// SortHands orders hands by slot for presentation.
func (p *Player) SortHands() {
	sort.Slice(p.Hands, func(i, j int) bool { return p.Hands[i].Slot < p.Hands[j].Slot })
}
