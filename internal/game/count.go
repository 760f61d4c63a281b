package game

import (
	"github.com/blackjacklab/blackjack-trainer-go/internal/deck"
)

// Count is the hi-lo running/true count. Each visible card contributes to the
// running count exactly once, tracked through the card's Counted flag.
type Count struct {
	Running int     `json:"running"`
	True    float64 `json:"true"`
}

// Reset zeroes the count, done whenever the shoe is rebuilt.
func (c *Count) Reset() {
	c.Running = 0
	c.True = 0
}

// ObserveCard folds one card into the running count: -1 for an Ace or a
// ten-value card, +1 for 6 and below. Hidden or already-counted cards are
// ignored.
func (c *Count) ObserveCard(card *deck.Card) {
	if !card.Visible || card.Counted {
		return
	}
	if card.IsAce() || card.Value() == 10 {
		c.Running--
	} else if card.Value() <= 6 {
		c.Running++
	}
	card.Counted = true
}

// Observe counts every newly visible card and refreshes the true count
// against the cards remaining in the shoe.
func (c *Count) Observe(cards []*deck.Card, shoe *deck.Shoe) {
	for _, card := range cards {
		c.ObserveCard(card)
	}
	c.UpdateTrue(shoe.Remaining())
}

// UpdateTrue recomputes the true count: running count divided by the number
// of decks remaining.
func (c *Count) UpdateTrue(cardsRemaining int) {
	decksLeft := float64(cardsRemaining) / 52
	if decksLeft > 0 {
		c.True = float64(c.Running) / decksLeft
	}
}
