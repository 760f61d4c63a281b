package game

import (
	"fmt"
	"strings"

	"github.com/blackjacklab/blackjack-trainer-go/internal/deck"
	"github.com/blackjacklab/blackjack-trainer-go/internal/engine"
)

var hardHands = []string{
	"2,3", "2,4", "2,5", "2,6", "2,7", "2,8", "2,9", "2,10",
	"3,4", "3,5", "3,6", "3,7", "3,8", "3,9", "3,10",
	"4,5", "4,6", "4,7", "4,8", "4,9", "4,10",
	"5,6", "5,7", "5,8", "5,9", "5,10",
	"6,7", "6,8", "6,9", "6,10",
	"7,8", "7,9", "7,10",
	"8,9", "8,10",
	"9,10",
}

var softHands = []string{
	"A,2", "A,3", "A,4", "A,5", "A,6", "A,7", "A,8", "A,9", "A,10",
}

var pairHands = []string{
	"2,2", "3,3", "4,4", "5,5", "6,6", "7,7", "8,8", "9,9", "10,10", "A,A",
}

// subsets maps a practice subset name to its pool of starting hands.
var subsets = map[string][]string{
	"hard":       hardHands,
	"soft":       softHands,
	"pairs":      pairHands,
	"hard/soft":  append(append([]string{}, hardHands...), softHands...),
	"soft/pairs": append(append([]string{}, softHands...), pairHands...),
}

// Subsets lists the valid practice subset names.
func Subsets() []string {
	return []string{"hard", "soft", "pairs", "hard/soft", "soft/pairs"}
}

// StartingHand picks a random two-card starting hand from the subset pool,
// in either card order.
func StartingHand(subset string, src *engine.Source) []string {
	pool := subsets[subset]
	cards := strings.Split(pool[src.Intn(len(pool))], ",")
	if src.Intn(2) == 1 {
		cards[0], cards[1] = cards[1], cards[0]
	}
	return cards
}

// ParseCardSpec parses a forced-cards flag value like "A,K" or "8,8;A,7".
// Semicolons separate alternative hands, one of which is drawn per round.
func ParseCardSpec(spec string) ([][]string, error) {
	if spec == "" {
		return nil, nil
	}
	var alts [][]string
	for _, alt := range strings.Split(spec, ";") {
		labels := strings.Split(alt, ",")
		for i, label := range labels {
			labels[i] = strings.TrimSpace(label)
			if !deck.ValidLabel(labels[i]) {
				return nil, fmt.Errorf("game: invalid card label %q", labels[i])
			}
		}
		alts = append(alts, labels)
	}
	return alts, nil
}

// ParseDealerSpec parses the forced dealer cards, a single comma-separated
// list in draw order.
func ParseDealerSpec(spec string) ([]string, error) {
	if spec == "" {
		return nil, nil
	}
	labels := strings.Split(spec, ",")
	for i, label := range labels {
		labels[i] = strings.TrimSpace(label)
		if !deck.ValidLabel(labels[i]) {
			return nil, fmt.Errorf("game: invalid card label %q", labels[i])
		}
	}
	return labels, nil
}
