package deck

import (
	"errors"
	"fmt"

	"github.com/blackjacklab/blackjack-trainer-go/internal/engine"
)

// ErrEmptyShoe is returned when drawing from an exhausted shoe. Hitting it
// mid-round means the engine failed to reshuffle in time, which is a bug.
var ErrEmptyShoe = errors.New("deck: empty shoe")

// Shoe is an ordered sequence of nDecks x 52 cards, uniformly shuffled at
// construction. Cards are dealt from the front.
type Shoe struct {
	cards []*Card
	decks int
	total int
	src   *engine.Source
}

// NewShoe builds and shuffles a shoe of nDecks standard decks using src for
// randomness.
func NewShoe(nDecks int, src *engine.Source) *Shoe {
	s := &Shoe{decks: nDecks, total: nDecks * 52, src: src}
	s.cards = make([]*Card, 0, s.total)
	for i := 0; i < nDecks; i++ {
		for _, suit := range Suits {
			for _, label := range Labels {
				card, err := New(label, suit)
				if err != nil {
					panic(err) // all labels are known good
				}
				s.cards = append(s.cards, card)
			}
		}
	}
	src.Shuffle(len(s.cards), func(i, j int) {
		s.cards[i], s.cards[j] = s.cards[j], s.cards[i]
	})
	return s
}

// Remaining returns the number of cards left in the shoe.
func (s *Shoe) Remaining() int {
	return len(s.cards)
}

// Decks returns the number of decks the shoe was built from.
func (s *Shoe) Decks() int {
	return s.decks
}

// Draw removes and returns the front card.
func (s *Shoe) Draw() (*Card, error) {
	if len(s.cards) == 0 {
		return nil, ErrEmptyShoe
	}
	card := s.cards[0]
	s.cards = s.cards[1:]
	return card, nil
}

// Arrange swaps cards within the shoe so that the next draws yield the
// requested labels in order. When several matching cards remain, one is
// chosen at random so the rest of the shoe stays unbiased. With randomize
// set, the first two requested labels are dealt in random order. The shoe's
// card multiset is preserved exactly.
func (s *Shoe) Arrange(labels []string, randomize bool) error {
	for _, label := range labels {
		if !ValidLabel(label) {
			return fmt.Errorf("deck: cannot arrange unknown label %q", label)
		}
	}
	if len(labels) > len(s.cards) {
		return fmt.Errorf("deck: cannot arrange %d cards, only %d left", len(labels), len(s.cards))
	}
	wanted := make([]string, len(labels))
	copy(wanted, labels)
	if randomize && len(wanted) > 1 && s.src.Intn(2) == 1 {
		wanted[0], wanted[1] = wanted[1], wanted[0]
	}
	for ind, label := range wanted {
		var indices []int
		for i := ind; i < len(s.cards); i++ {
			if s.cards[i].Label == label {
				indices = append(indices, i)
			}
		}
		if len(indices) == 0 {
			return fmt.Errorf("deck: no %q left to arrange", label)
		}
		pick := indices[s.src.Intn(len(indices))]
		s.cards[pick], s.cards[ind] = s.cards[ind], s.cards[pick]
	}
	return nil
}
