package game

import (
	"github.com/blackjacklab/blackjack-trainer-go/internal/deck"
)

// DecisionContext is everything a decider may consult at one decision point.
type DecisionContext struct {
	Hand     *Hand
	DealerUp *deck.Card
	NHands   int
	Rules    Rules
	Count    Count
	Legal    []Action
}

// Decider supplies the player's choices at each decision point of a round.
// The engine only asks about decisions that are currently legal.
type Decider interface {
	TakeInsurance(ctx DecisionContext) bool
	TakeEvenMoney(ctx DecisionContext) bool
	Surrender(ctx DecisionContext) bool
	Split(ctx DecisionContext) bool
	Double(ctx DecisionContext) bool
	HitOrStay(ctx DecisionContext) Action
}

// AutoDecider plays perfect basic strategy. With UseCount set it also takes
// the count-based insurance index; with Deviations set it plays the index
// plays on top of the base tables.
type AutoDecider struct {
	UseCount   bool
	Deviations bool
}

func (a AutoDecider) correctPlay(ctx DecisionContext) Action {
	var act Action
	var err error
	if a.Deviations {
		act, err = CorrectPlayWithDeviations(ctx.Hand, ctx.DealerUp, ctx.NHands, ctx.Rules, ctx.Count)
	} else {
		act, err = CorrectPlay(ctx.Hand, ctx.DealerUp, ctx.NHands, ctx.Rules)
	}
	if err != nil {
		// Unreachable for hands the engine asks about.
		return ActionStay
	}
	return act
}

// TakeInsurance follows the insurance index only when counting.
func (a AutoDecider) TakeInsurance(ctx DecisionContext) bool {
	return a.UseCount && ShouldInsure(ctx.Count)
}

// TakeEvenMoney follows the same index as insurance.
func (a AutoDecider) TakeEvenMoney(ctx DecisionContext) bool {
	return a.UseCount && ShouldInsure(ctx.Count)
}

func (a AutoDecider) Surrender(ctx DecisionContext) bool {
	return a.correctPlay(ctx) == ActionSurrender
}

func (a AutoDecider) Split(ctx DecisionContext) bool {
	return a.correctPlay(ctx) == ActionSplit
}

func (a AutoDecider) Double(ctx DecisionContext) bool {
	return a.correctPlay(ctx) == ActionDouble
}

// HitOrStay hits whenever the oracle says hit or surrender, since the
// surrender window has already closed by this point.
func (a AutoDecider) HitOrStay(ctx DecisionContext) Action {
	switch a.correctPlay(ctx) {
	case ActionHit, ActionSurrender:
		return ActionHit
	default:
		return ActionStay
	}
}
