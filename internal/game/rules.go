// Package game implements the blackjack rules engine: hand evaluation, the
// strategy oracle, card counting, and the round state machine.
package game

import "fmt"

// GameType selects the dealer's soft-17 behavior.
type GameType string

const (
	// H17 dealers hit soft 17.
	H17 GameType = "h17"
	// S17 dealers stand on all 17s.
	S17 GameType = "s17"
)

// SurrenderRule names the late-surrender policy in force.
type SurrenderRule string

const (
	// SurrenderNone disables surrender.
	SurrenderNone SurrenderRule = "no"
	// SurrenderVs2To10 allows surrender against dealer 2-10.
	SurrenderVs2To10 SurrenderRule = "2-10"
)

// Rules is the immutable casino rule variant in force. It is fixed before the
// first round and never mutated mid-round.
type Rules struct {
	GameType         GameType      `json:"game_type"`
	Surrender        SurrenderRule `json:"surrender"`
	Peek             bool          `json:"peek"`
	DoubleAfterSplit bool          `json:"double_after_split"`
	ResplitAces      bool          `json:"resplit_aces"`
	TripleSeven      bool          `json:"triple_seven"`
	Region           string        `json:"region"`
	NumberOfDecks    int           `json:"number_of_decks"`
	CSM              bool          `json:"csm"`
}

// Preset returns the rule set played in the given region.
func Preset(region string) (Rules, error) {
	switch region {
	case "US":
		return Rules{
			GameType:         H17,
			Surrender:        SurrenderNone,
			Peek:             true,
			DoubleAfterSplit: true,
			Region:           region,
			NumberOfDecks:    6,
		}, nil
	case "Europe":
		return Rules{
			GameType:         S17,
			Surrender:        SurrenderNone,
			Peek:             false,
			DoubleAfterSplit: true,
			ResplitAces:      true,
			Region:           region,
			NumberOfDecks:    6,
		}, nil
	case "Helsinki":
		return Rules{
			GameType:         S17,
			Surrender:        SurrenderVs2To10,
			Peek:             false,
			DoubleAfterSplit: true,
			ResplitAces:      true,
			TripleSeven:      true,
			Region:           region,
			NumberOfDecks:    6,
		}, nil
	}
	return Rules{}, fmt.Errorf("game: unknown region %q", region)
}

// Regions lists the available rule presets.
func Regions() []string {
	return []string{"US", "Europe", "Helsinki"}
}

// Validate rejects rule combinations the engine cannot play.
func (r Rules) Validate() error {
	if r.GameType != H17 && r.GameType != S17 {
		return fmt.Errorf("game: bad game type %q", r.GameType)
	}
	if r.Surrender != SurrenderNone && r.Surrender != SurrenderVs2To10 {
		return fmt.Errorf("game: bad surrender rule %q", r.Surrender)
	}
	if r.NumberOfDecks < 1 || r.NumberOfDecks > 8 {
		return fmt.Errorf("game: bad deck count %d", r.NumberOfDecks)
	}
	return nil
}
