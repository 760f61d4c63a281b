package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackjacklab/blackjack-trainer-go/internal/deck"
	"github.com/blackjacklab/blackjack-trainer-go/internal/engine"
)

func TestCountValues(t *testing.T) {
	tests := []struct {
		label string
		delta int
	}{
		{"2", 1}, {"3", 1}, {"4", 1}, {"5", 1}, {"6", 1},
		{"7", 0}, {"8", 0}, {"9", 0},
		{"10", -1}, {"J", -1}, {"Q", -1}, {"K", -1}, {"A", -1},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			var count Count
			count.ObserveCard(cards(t, tt.label)[0])
			assert.Equal(t, tt.delta, count.Running)
		})
	}
}

func TestCountCardOnlyOnce(t *testing.T) {
	var count Count
	card := cards(t, "5")[0]
	count.ObserveCard(card)
	count.ObserveCard(card)
	assert.Equal(t, 1, count.Running)
}

func TestCountSkipsFaceDownCards(t *testing.T) {
	var count Count
	card := cards(t, "K")[0]
	card.Visible = false
	count.ObserveCard(card)
	assert.Equal(t, 0, count.Running)

	card.Visible = true
	count.ObserveCard(card)
	assert.Equal(t, -1, count.Running)
}

func TestCountBalancesOverFullShoe(t *testing.T) {
	src := engine.NewSource(engine.Seeds{Server: "count-test", Client: "c"}, 1)
	shoe := deck.NewShoe(6, src)

	var count Count
	for {
		card, err := shoe.Draw()
		if err != nil {
			break
		}
		count.ObserveCard(card)
	}
	assert.Equal(t, 0, count.Running, "hi-lo is a balanced count")
}

func TestTrueCount(t *testing.T) {
	count := Count{Running: 6}
	count.UpdateTrue(3 * 52)
	assert.InDelta(t, 2.0, count.True, 1e-9)

	count = Count{Running: 5}
	count.UpdateTrue(2 * 52)
	assert.InDelta(t, 2.5, count.True, 1e-9)

	// No cards left leaves the true count untouched.
	count = Count{Running: 4, True: 1.5}
	count.UpdateTrue(0)
	assert.InDelta(t, 1.5, count.True, 1e-9)
}

func TestCountReset(t *testing.T) {
	count := Count{Running: 7, True: 2.3}
	count.Reset()
	require.Zero(t, count.Running)
	require.Zero(t, count.True)
}
