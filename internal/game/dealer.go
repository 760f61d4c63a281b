package game

import (
	"github.com/shopspring/decimal"

	"github.com/blackjacklab/blackjack-trainer-go/internal/deck"
)

// Dealer is the house hand. Its stopping rule is driven by the H17/S17
// variant instead of player choices.
type Dealer struct {
	Cards        []*deck.Card
	Sum          int
	IsBlackjack  bool
	IsFinished   bool
	IsOver       bool
	HasAce       bool // up-card is an Ace
	InsuranceBet decimal.Decimal
	EvenMoney    bool

	gameType GameType
	isHard   bool
}

// NewDealer creates a dealer playing the given soft-17 variant.
func NewDealer(gameType GameType) *Dealer {
	return &Dealer{gameType: gameType}
}

// Reset clears the dealer for a new round.
func (d *Dealer) Reset() {
	d.Cards = nil
	d.Sum = 0
	d.IsBlackjack = false
	d.IsFinished = false
	d.IsOver = false
	d.HasAce = false
	d.InsuranceBet = decimal.Zero
	d.EvenMoney = false
}

// DealFromShoe draws one card and re-applies the dealer stopping rule:
// hit below 17, hit soft 17 only under H17, otherwise stand.
func (d *Dealer) DealFromShoe(shoe *deck.Shoe) error {
	card, err := shoe.Draw()
	if err != nil {
		return err
	}
	d.DealCard(card)
	return nil
}

// DealCard appends a specific card and re-applies the stopping rule.
func (d *Dealer) DealCard(card *deck.Card) {
	d.Cards = append(d.Cards, card)
	d.Sum, d.isHard = Evaluate(d.Cards)
	d.HasAce = d.Cards[0].IsAce()

	if d.Sum == 17 && d.gameType == H17 && !d.isHard {
		// soft 17 under H17: keep hitting
	} else if d.Sum > 16 {
		d.IsFinished = true
	}
	if d.Sum == 21 && len(d.Cards) == 2 {
		d.IsBlackjack = true
	}
	if d.Sum > 21 {
		d.IsOver = true
	}
}

// UpCard returns the dealer's visible first card.
func (d *Dealer) UpCard() *deck.Card {
	if len(d.Cards) == 0 {
		return nil
	}
	return d.Cards[0]
}

// String renders the dealer's cards.
func (d *Dealer) String() string {
	return formatCards(d.Cards)
}
