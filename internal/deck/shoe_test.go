package deck

import (
	"testing"

	"github.com/blackjacklab/blackjack-trainer-go/internal/engine"
)

func testSource(nonce uint64) *engine.Source {
	return engine.NewSource(engine.Seeds{Server: "shoe-test", Client: "client"}, nonce)
}

func TestCardValues(t *testing.T) {
	tests := []struct {
		label string
		value int
	}{
		{"2", 2},
		{"7", 7},
		{"10", 10},
		{"J", 10},
		{"Q", 10},
		{"K", 10},
		{"A", 11},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			card, err := New(tt.label, "♠")
			if err != nil {
				t.Fatalf("New(%q): %v", tt.label, err)
			}
			if got := card.Value(); got != tt.value {
				t.Errorf("value of %q: expected %d, got %d", tt.label, tt.value, got)
			}
		})
	}
}

func TestBadLabel(t *testing.T) {
	if _, err := New("1", "♠"); err == nil {
		t.Error("expected error for label \"1\"")
	}
	if _, err := New("ace", "♠"); err == nil {
		t.Error("expected error for label \"ace\"")
	}
}

func TestShoeComposition(t *testing.T) {
	shoe := NewShoe(6, testSource(1))

	if shoe.Remaining() != 6*52 {
		t.Fatalf("expected %d cards, got %d", 6*52, shoe.Remaining())
	}

	counts := make(map[string]int)
	for shoe.Remaining() > 0 {
		card, err := shoe.Draw()
		if err != nil {
			t.Fatalf("draw: %v", err)
		}
		counts[card.Label+card.Suit]++
	}
	if len(counts) != 52 {
		t.Fatalf("expected 52 distinct cards, got %d", len(counts))
	}
	for key, n := range counts {
		if n != 6 {
			t.Errorf("card %s appears %d times, expected 6", key, n)
		}
	}
}

func TestDrawEmptyShoe(t *testing.T) {
	shoe := NewShoe(1, testSource(2))
	for i := 0; i < 52; i++ {
		if _, err := shoe.Draw(); err != nil {
			t.Fatalf("draw %d: %v", i, err)
		}
	}
	if _, err := shoe.Draw(); err != ErrEmptyShoe {
		t.Errorf("expected ErrEmptyShoe, got %v", err)
	}
}

func TestArrangeFrontCards(t *testing.T) {
	shoe := NewShoe(6, testSource(3))
	want := []string{"A", "7", "10", "A"}

	if err := shoe.Arrange(want, false); err != nil {
		t.Fatalf("arrange: %v", err)
	}
	for i, label := range want {
		card, err := shoe.Draw()
		if err != nil {
			t.Fatalf("draw %d: %v", i, err)
		}
		if card.Label != label {
			t.Errorf("draw %d: expected %q, got %q", i, label, card.Label)
		}
	}
}

func TestArrangePreservesMultiset(t *testing.T) {
	shoe := NewShoe(2, testSource(4))
	if err := shoe.Arrange([]string{"A", "A", "8", "8"}, false); err != nil {
		t.Fatalf("arrange: %v", err)
	}

	counts := make(map[string]int)
	for shoe.Remaining() > 0 {
		card, _ := shoe.Draw()
		counts[card.Label+card.Suit]++
	}
	for key, n := range counts {
		if n != 2 {
			t.Errorf("card %s appears %d times after arrange, expected 2", key, n)
		}
	}
}

func TestArrangeRandomizeKeepsLabels(t *testing.T) {
	shoe := NewShoe(6, testSource(5))
	if err := shoe.Arrange([]string{"A", "7"}, true); err != nil {
		t.Fatalf("arrange: %v", err)
	}

	first, _ := shoe.Draw()
	second, _ := shoe.Draw()
	got := map[string]bool{first.Label: true, second.Label: true}
	if !got["A"] || !got["7"] {
		t.Errorf("expected first two cards to be A and 7 in some order, got %s, %s", first.Label, second.Label)
	}
}

func TestArrangeUnknownLabel(t *testing.T) {
	shoe := NewShoe(1, testSource(6))
	if err := shoe.Arrange([]string{"X"}, false); err == nil {
		t.Error("expected error for unknown label")
	}
}

func TestArrangeTooManyOfLabel(t *testing.T) {
	shoe := NewShoe(1, testSource(7))
	// A single deck has only four aces.
	if err := shoe.Arrange([]string{"A", "A", "A", "A", "A"}, false); err == nil {
		t.Error("expected error when requesting five aces from one deck")
	}
}
