package game

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/blackjacklab/blackjack-trainer-go/internal/deck"
)

// Evaluate computes a hand total under best-usable-ace semantics: the first
// Ace counts as 11 and the rest as 1; if that busts, every Ace counts as 1
// and the hand becomes hard. The result depends only on the multiset of
// cards, not their order.
func Evaluate(cards []*deck.Card) (sum int, isHard bool) {
	isHard = true
	aceUsed := false
	for _, card := range cards {
		if card.IsAce() {
			isHard = false
			if aceUsed {
				sum++
			} else {
				sum += 11
				aceUsed = true
			}
		} else {
			sum += card.Value()
		}
	}
	if sum > 21 {
		sum = 0
		isHard = true
		for _, card := range cards {
			if card.IsAce() {
				sum++
			} else {
				sum += card.Value()
			}
		}
	}
	return sum, isHard
}

// Hand is one player hand: its cards, its bet, and the terminal-state flags
// derived on every card addition. A hand lives for exactly one round.
type Hand struct {
	Cards        []*deck.Card
	Bet          decimal.Decimal
	Sum          int
	IsHard       bool
	IsHittable   bool // can receive more cards
	IsBlackjack  bool
	IsOver       bool
	Surrendered  bool
	AskedToSplit bool
	IsSplitHand  bool
	IsFinished   bool // no more playing for this hand
	TripleSeven  bool
	Slot         int

	rules Rules
}

// NewHand creates an empty hand playing under the given rules.
func NewHand(rules Rules) *Hand {
	return &Hand{IsHard: true, IsHittable: true, rules: rules}
}

// DealFromShoe draws the next card from the shoe into the hand.
func (h *Hand) DealFromShoe(shoe *deck.Shoe) error {
	card, err := shoe.Draw()
	if err != nil {
		return err
	}
	h.DealCard(card)
	return nil
}

// DealCard appends a specific card (used when a split moves a card between
// hands) and re-evaluates the hand.
func (h *Hand) DealCard(card *deck.Card) {
	h.Cards = append(h.Cards, card)
	h.Sum, h.IsHard = Evaluate(h.Cards)

	if len(h.Cards) == 3 && !h.IsSplitHand && h.rules.TripleSeven && h.allSevens() {
		h.TripleSeven = true
		h.IsFinished = true
		h.IsHittable = false
	}
	if h.Sum >= 22 {
		h.IsFinished = true
		h.IsHittable = false
		h.IsOver = true
	}
	if h.Sum == 21 && len(h.Cards) == 2 && !h.IsSplitHand {
		h.IsBlackjack = true
	}
}

// popCard removes and returns the last card; splitting gives it to the new
// hand. The remaining cards are re-evaluated.
func (h *Hand) popCard() *deck.Card {
	card := h.Cards[len(h.Cards)-1]
	h.Cards = h.Cards[:len(h.Cards)-1]
	h.Sum, h.IsHard = Evaluate(h.Cards)
	return card
}

func (h *Hand) allSevens() bool {
	for _, card := range h.Cards {
		if card.Label != "7" {
			return false
		}
	}
	return true
}

// IsPair reports whether the hand is exactly two cards of equal rank value.
func (h *Hand) IsPair() bool {
	return len(h.Cards) == 2 && h.Cards[0].Value() == h.Cards[1].Value()
}

// Labels returns the hand's card labels in deal order.
func (h *Hand) Labels() []string {
	labels := make([]string, len(h.Cards))
	for i, card := range h.Cards {
		labels[i] = card.Label
	}
	return labels
}

// String renders the hand like "♠A ♦7".
func (h *Hand) String() string {
	return formatCards(h.Cards)
}

func formatCards(cards []*deck.Card) string {
	parts := make([]string, len(cards))
	for i, card := range cards {
		parts[i] = card.String()
	}
	return strings.Join(parts, " ")
}
