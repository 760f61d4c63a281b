// Package deck implements playing cards and the multi-deck dealing shoe.
package deck

import "fmt"

// Suits in display order: ♠, ♣, ♦, ♥
var Suits = []string{"♠", "♣", "♦", "♥"}

// Labels in order: 2-10, J, Q, K, A
var Labels = []string{"2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K", "A"}

// Card is a single playing card. Visible and Counted track whether the card
// has been exposed to the player and whether the running count has already
// absorbed it.
type Card struct {
	Label   string
	Suit    string
	Visible bool
	Counted bool

	value int
}

// New creates a card with its point value fixed at construction. The value is
// never recomputed afterwards.
func New(label, suit string) (*Card, error) {
	v, err := labelValue(label)
	if err != nil {
		return nil, err
	}
	return &Card{Label: label, Suit: suit, Visible: true, value: v}, nil
}

// labelValue maps a label to its blackjack point value. An Ace maps to 11;
// hand evaluation decides when it counts as 1 instead.
func labelValue(label string) (int, error) {
	switch label {
	case "A":
		return 11, nil
	case "J", "Q", "K", "10":
		return 10, nil
	case "2":
		return 2, nil
	case "3":
		return 3, nil
	case "4":
		return 4, nil
	case "5":
		return 5, nil
	case "6":
		return 6, nil
	case "7":
		return 7, nil
	case "8":
		return 8, nil
	case "9":
		return 9, nil
	}
	return 0, fmt.Errorf("deck: bad card label %q", label)
}

// ValidLabel reports whether label names a real card rank.
func ValidLabel(label string) bool {
	_, err := labelValue(label)
	return err == nil
}

// Value returns the card's point value (Ace = 11, face cards = 10).
func (c *Card) Value() int {
	return c.value
}

// IsAce reports whether the card is an Ace.
func (c *Card) IsAce() bool {
	return c.Label == "A"
}

// String returns a human-readable representation like "♠A" or "♦10".
func (c *Card) String() string {
	return c.Suit + c.Label
}
