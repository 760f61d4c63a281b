package game

import (
	"fmt"

	"github.com/blackjacklab/blackjack-trainer-go/internal/deck"
)

// Action is a player decision.
type Action string

const (
	ActionHit       Action = "hit"
	ActionStay      Action = "stay"
	ActionDouble    Action = "double"
	ActionSplit     Action = "split"
	ActionSurrender Action = "surrender"
)

// play is one strategy-table cell: the preferred action and the action to
// fall back to when the hand is not eligible for it (cannot double, cannot
// surrender, cannot split).
type play struct {
	act      Action
	fallback Action
}

// Cell shorthands. Columns run over dealer up-card values 2-10 and Ace.
var (
	hh = play{ActionHit, ActionHit}
	ss = play{ActionStay, ActionStay}
	dh = play{ActionDouble, ActionHit}    // double, else hit
	ds = play{ActionDouble, ActionStay}   // double, else stay
	rh = play{ActionSurrender, ActionHit} // surrender, else hit
)

// hardPlays maps hard totals 9-16 to rows indexed by dealer up-card value
// (2..10, Ace). Totals of 8 and below always hit; 17 and above always stay.
// Hard 11 is rule-dependent and selected separately.
var hardPlays = map[int][10]play{
	9:  {hh, dh, dh, dh, dh, hh, hh, hh, hh, hh},
	10: {dh, dh, dh, dh, dh, dh, dh, dh, hh, hh},
	12: {hh, hh, ss, ss, ss, hh, hh, hh, hh, hh},
	13: {ss, ss, ss, ss, ss, hh, hh, hh, hh, hh},
	14: {ss, ss, ss, ss, ss, hh, hh, hh, rh, hh},
	15: {ss, ss, ss, ss, ss, hh, hh, hh, rh, hh},
	16: {ss, ss, ss, ss, ss, hh, hh, rh, rh, hh},
}

var (
	// Under H17 hard 11 doubles against everything, Ace included.
	hard11H17 = [10]play{dh, dh, dh, dh, dh, dh, dh, dh, dh, dh}
	hard11S17 = [10]play{dh, dh, dh, dh, dh, dh, dh, dh, hh, hh}
)

// softPlays maps soft totals 13-18 to rows. Soft 19+ stays, except the
// rule-dependent soft 19 vs 6 double under H17. Soft 18 is rule-dependent.
var softPlays = map[int][10]play{
	13: {hh, hh, hh, dh, dh, hh, hh, hh, hh, hh},
	14: {hh, hh, hh, dh, dh, hh, hh, hh, hh, hh},
	15: {hh, hh, dh, dh, dh, hh, hh, hh, hh, hh},
	16: {hh, hh, dh, dh, dh, hh, hh, hh, hh, hh},
	17: {hh, dh, dh, dh, dh, hh, hh, hh, hh, hh},
}

var (
	soft18S17 = [10]play{ss, ds, ds, ds, ds, ss, ss, hh, hh, hh}
	soft18H17 = [10]play{ds, ds, ds, ds, ds, ss, ss, hh, hh, hh}
)

// dealerIndex maps a dealer up-card value (2-11, Ace as 11) to a table column.
func dealerIndex(value int) int {
	return value - 2
}

// CorrectPlay returns the mathematically optimal action for the hand against
// the dealer's up-card under the given rules, without count deviations. It is
// a pure function and errs only on unreachable input such as an empty hand.
func CorrectPlay(hand *Hand, dealerCard *deck.Card, nHands int, rules Rules) (Action, error) {
	if len(hand.Cards) == 0 {
		return "", fmt.Errorf("game: cannot choose a play for an empty hand")
	}

	dv := dealerCard.Value()
	col := dealerIndex(dv)
	canDouble := len(hand.Cards) == 2 && hand.IsHittable &&
		!(hand.IsSplitHand && !rules.DoubleAfterSplit)

	if hand.IsPair() {
		return pairPlay(hand, dealerCard, nHands, rules, canDouble)
	}
	if !hand.IsHard {
		return softPlay(hand, col, rules, canDouble)
	}
	return hardPlay(hand, dealerCard, rules, canDouble)
}

func hardPlay(hand *Hand, dealerCard *deck.Card, rules Rules, canDouble bool) (Action, error) {
	dv := dealerCard.Value()
	col := dealerIndex(dv)

	switch {
	case hand.Sum <= 8:
		return ActionHit, nil
	case hand.Sum >= 17:
		return ActionStay, nil
	}

	// Documented exceptions kept as literal entries: they do not generalize.
	if hand.Sum == 9 && dv == 2 && rules.NumberOfDecks == 2 {
		return ActionDouble, nil
	}
	if hand.Sum == 16 && dv == 10 && len(hand.Cards) >= 3 {
		return ActionStay, nil
	}

	var row [10]play
	if hand.Sum == 11 {
		row = hard11S17
		if rules.GameType == H17 {
			row = hard11H17
		}
	} else {
		row = hardPlays[hand.Sum]
	}
	return resolve(row[col], hand, rules, canDouble), nil
}

func softPlay(hand *Hand, col int, rules Rules, canDouble bool) (Action, error) {
	switch {
	case hand.Sum < 13:
		return ActionHit, nil
	case hand.Sum == 18:
		row := soft18S17
		if rules.GameType == H17 {
			row = soft18H17
		}
		return resolve(row[col], hand, rules, canDouble), nil
	case hand.Sum == 19:
		if rules.GameType == H17 && col+2 == 6 && canDouble {
			return ActionDouble, nil
		}
		return ActionStay, nil
	case hand.Sum > 19:
		return ActionStay, nil
	}
	return resolve(softPlays[hand.Sum][col], hand, rules, canDouble), nil
}

// pairPlay consults the pairs table, modulated by the four-hand cap, the
// double-after-split rule, H17 vs S17, and the deck count.
func pairPlay(hand *Hand, dealerCard *deck.Card, nHands int, rules Rules, canDouble bool) (Action, error) {
	dv := dealerCard.Value()
	dealerAce := dealerCard.IsAce()
	canSplit := nHands < 4

	switch hand.Cards[0].Value() {
	case 11: // A-A
		if !canSplit {
			return ActionHit, nil
		}
		if rules.GameType == H17 {
			return ActionSplit, nil
		}
		// S17: splitting against a dealer Ace is a losing proposition.
		if dealerAce {
			return ActionHit, nil
		}
		return ActionSplit, nil
	case 10:
		return ActionStay, nil
	case 9:
		if dv == 7 || dv == 10 || dealerAce || !canSplit {
			return ActionStay, nil
		}
		return ActionSplit, nil
	case 8:
		if rules.GameType == H17 {
			return ActionSplit, nil
		}
		if canSurrender(hand, rules) && dv == 10 {
			return ActionSurrender, nil
		}
		if !canSplit || dealerAce {
			return ActionHit, nil
		}
		return ActionSplit, nil
	case 7:
		if dv >= 2 && dv <= 7 && canSplit {
			return ActionSplit, nil
		}
		return ActionHit, nil
	case 6:
		if dv == 2 && !rules.DoubleAfterSplit && rules.NumberOfDecks >= 4 {
			return ActionHit, nil
		}
		if dv >= 2 && dv <= 6 && canSplit {
			return ActionSplit, nil
		}
		return ActionHit, nil
	case 5:
		if dv >= 2 && dv <= 9 && canDouble {
			return ActionDouble, nil
		}
		return ActionHit, nil
	case 4:
		if !canSplit {
			return ActionHit, nil
		}
		if (dv == 5 || dv == 6) && rules.DoubleAfterSplit {
			return ActionSplit, nil
		}
		return ActionHit, nil
	case 2, 3:
		if !canSplit {
			return ActionHit, nil
		}
		if (dv == 2 || dv == 3) && !rules.DoubleAfterSplit {
			return ActionHit, nil
		}
		if dv >= 2 && dv <= 7 {
			return ActionSplit, nil
		}
		return ActionHit, nil
	}
	return "", fmt.Errorf("game: no pair strategy for %s", hand)
}

// resolve applies eligibility to a table cell: doubles need a 2-card live
// hand, surrenders need an unsplit 2-card hand under a surrender rule.
func resolve(p play, hand *Hand, rules Rules, canDouble bool) Action {
	switch p.act {
	case ActionDouble:
		if canDouble {
			return ActionDouble
		}
		return p.fallback
	case ActionSurrender:
		if canSurrender(hand, rules) {
			return ActionSurrender
		}
		return p.fallback
	}
	return p.act
}

func canSurrender(hand *Hand, rules Rules) bool {
	return rules.Surrender != SurrenderNone && !hand.IsSplitHand && len(hand.Cards) == 2
}
