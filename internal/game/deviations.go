package game

import (
	"github.com/blackjacklab/blackjack-trainer-go/internal/deck"
)

// indexPlay is one count-based deviation from basic strategy: when the
// running or true count reaches the threshold for a (hard total, dealer
// up-card) situation, the listed action overrides the base table.
type indexPlay struct {
	sum       int
	dealer    int // dealer up-card value, Ace as 11
	byTrue    bool
	threshold float64
	action    Action
}

// indexPlays is the finite override table. It is layered on top of the base
// tables, never a recomputation of them.
var indexPlays = []indexPlay{
	{sum: 16, dealer: 10, byTrue: false, threshold: 0, action: ActionStay},
	{sum: 15, dealer: 10, byTrue: true, threshold: 4, action: ActionStay},
	{sum: 12, dealer: 3, byTrue: true, threshold: 2, action: ActionStay},
	{sum: 12, dealer: 2, byTrue: true, threshold: 3, action: ActionStay},
	{sum: 10, dealer: 10, byTrue: true, threshold: 4, action: ActionDouble},
	{sum: 10, dealer: 11, byTrue: true, threshold: 3, action: ActionDouble},
	{sum: 9, dealer: 2, byTrue: true, threshold: 1, action: ActionDouble},
	{sum: 9, dealer: 7, byTrue: true, threshold: 3, action: ActionDouble},
}

// CorrectPlayWithDeviations answers like CorrectPlay but applies the index
// plays on top of the base-table answer. Deviations only ever adjust hard,
// non-pair situations.
func CorrectPlayWithDeviations(hand *Hand, dealerCard *deck.Card, nHands int, rules Rules, count Count) (Action, error) {
	base, err := CorrectPlay(hand, dealerCard, nHands, rules)
	if err != nil {
		return "", err
	}
	if !hand.IsHard || hand.IsPair() {
		return base, nil
	}

	canDouble := len(hand.Cards) == 2 && hand.IsHittable &&
		!(hand.IsSplitHand && !rules.DoubleAfterSplit)
	dv := dealerCard.Value()

	for _, ip := range indexPlays {
		if ip.sum != hand.Sum || ip.dealer != dv {
			continue
		}
		signal := float64(count.Running)
		if ip.byTrue {
			signal = count.True
		}
		if signal < ip.threshold {
			continue
		}
		if ip.action == ActionDouble && !canDouble {
			continue
		}
		return ip.action, nil
	}
	return base, nil
}

// ShouldInsure is the count-based insurance/even-money index: take it when
// the true count exceeds 3.
func ShouldInsure(count Count) bool {
	return count.True > 3
}
