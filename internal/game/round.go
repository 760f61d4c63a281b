package game

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/blackjacklab/blackjack-trainer-go/internal/deck"
	"github.com/blackjacklab/blackjack-trainer-go/internal/engine"
)

// Payout multipliers. A winning stake returns the bet plus winnings.
var (
	two             = decimal.NewFromInt(2)
	three           = decimal.NewFromInt(3)
	blackjackReturn = decimal.RequireFromString("2.5")
)

// Options configures a Game beyond its rule set.
type Options struct {
	Stack decimal.Decimal
	// Seeds makes shuffles reproducible; nil draws fresh random seeds.
	Seeds *engine.Seeds
	// PlayerCards forces the player's starting cards; outer slices are
	// ;-alternatives, one chosen at random per round.
	PlayerCards [][]string
	// DealerCards forces the dealer's cards in draw order.
	DealerCards []string
	// Subset deals random practice hands of one class (hard, soft, pairs...).
	Subset string
	// RandomizeOrder shuffles the order of the player's first two forced cards.
	RandomizeOrder bool
	Logger         *logrus.Logger
}

// Game owns one table: a shoe, a dealer, and a single player. It runs rounds
// synchronously; there is no concurrent access.
type Game struct {
	rules  Rules
	opts   Options
	shoe   *deck.Shoe
	dealer *Dealer
	player *Player
	log    *logrus.Logger

	seeds     engine.Seeds
	shoeNonce uint64
	src       *engine.Source // for practice-hand and alternative picks

	Decisions   Decisions
	Rounds      int
	HandsPlayed int
}

// New creates a game table with a freshly shuffled shoe.
func New(rules Rules, opts Options) (*Game, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	if opts.Subset != "" {
		if _, ok := subsets[opts.Subset]; !ok {
			return nil, fmt.Errorf("game: unknown subset %q", opts.Subset)
		}
	}
	seeds := engine.RandomSeeds()
	if opts.Seeds != nil {
		seeds = *opts.Seeds
	}
	logger := opts.Logger
	if logger == nil {
		logger = logrus.New()
	}
	g := &Game{
		rules:  rules,
		opts:   opts,
		dealer: NewDealer(rules.GameType),
		player: NewPlayer(rules, opts.Stack),
		log:    logger,
		seeds:  seeds,
		src:    engine.NewSource(seeds, 0),
	}
	g.rebuildShoe()
	return g, nil
}

// Player exposes the player for presentation and statistics.
func (g *Game) Player() *Player { return g.player }

// Dealer exposes the dealer for presentation.
func (g *Game) Dealer() *Dealer { return g.dealer }

// Rules returns the rule variant in force.
func (g *Game) Rules() Rules { return g.rules }

// Shoe exposes the current shoe.
func (g *Game) Shoe() *deck.Shoe { return g.shoe }

// Seeds returns the seed pair driving the shuffles, for replaying a session.
func (g *Game) Seeds() engine.Seeds { return g.seeds }

func (g *Game) rebuildShoe() {
	g.shoeNonce++
	g.shoe = deck.NewShoe(g.rules.NumberOfDecks, engine.NewSource(g.seeds, g.shoeNonce))
	g.player.Count.Reset()
}

func (g *Game) forcedCards() bool {
	return len(g.opts.PlayerCards) > 0 || len(g.opts.DealerCards) > 0 || g.opts.Subset != ""
}

// LegalActions reports the actions currently offerable on a hand.
func (g *Game) LegalActions(hand *Hand) []Action {
	if hand.IsFinished || !hand.IsHittable || hand.Surrendered || hand.IsBlackjack || hand.Sum >= 21 {
		return nil
	}
	actions := []Action{ActionHit, ActionStay}
	if len(hand.Cards) == 2 && !(hand.IsSplitHand && !g.rules.DoubleAfterSplit) {
		actions = append(actions, ActionDouble)
	}
	if g.canOfferSplit(hand) {
		actions = append(actions, ActionSplit)
	}
	if canSurrender(hand, g.rules) && !g.dealer.HasAce {
		actions = append(actions, ActionSurrender)
	}
	return actions
}

func (g *Game) canOfferSplit(hand *Hand) bool {
	if !hand.IsPair() || hand.AskedToSplit || len(g.player.Hands) >= 4 {
		return false
	}
	// A hand made by splitting aces is done after its one card, unless the
	// card was another ace and resplitting aces is allowed.
	if hand.IsSplitHand && hand.Cards[0].IsAce() && !g.rules.ResplitAces {
		return false
	}
	return true
}

func (g *Game) ctx(hand *Hand) DecisionContext {
	return DecisionContext{
		Hand:     hand,
		DealerUp: g.dealer.UpCard(),
		NHands:   len(g.player.Hands),
		Rules:    g.rules,
		Count:    g.player.Count,
		Legal:    g.LegalActions(hand),
	}
}

// oracle is the coach's answer for the current decision point.
func (g *Game) oracle(hand *Hand) Action {
	act, err := CorrectPlay(hand, g.dealer.UpCard(), len(g.player.Hands), g.rules)
	if err != nil {
		// Only reachable through an engine bug.
		panic(err)
	}
	return act
}

func (g *Game) score(correct, chosen Action) {
	if correct == chosen {
		g.Decisions.Correct++
	} else {
		g.Decisions.Incorrect++
	}
}

func (g *Game) scoreBool(correct, chosen bool) {
	if correct == chosen {
		g.Decisions.Correct++
	} else {
		g.Decisions.Incorrect++
	}
}

// PlayRound runs one complete round: shuffle check, betting, dealing,
// insurance/even money, peek, surrender, splitting, the player turns, the
// dealer turn, and payout.
func (g *Game) PlayRound(bet decimal.Decimal, d Decider) (*RoundResult, error) {
	stackBefore := g.player.Stack
	g.log.Debug("New round starts")
	g.log.Debugf("Stack: %s", g.player.Stack)

	if g.shoe.Remaining() < 52 || g.forcedCards() || g.rules.CSM {
		g.rebuildShoe()
	}
	g.player.ClearHands()
	g.dealer.Reset()

	hand, err := g.player.StartHand(bet)
	if err != nil {
		return nil, err
	}

	if err := g.dealOpening(hand); err != nil {
		return nil, err
	}
	g.log.Debugf("Dealer: %s", g.dealer.UpCard())
	g.log.Debugf("Player: %s", hand)

	g.offerInsurance(bet, hand, d)

	// Dealer peek: a dealer blackjack ends the round before the player acts.
	if g.rules.Peek && g.dealer.IsBlackjack {
		g.revealDealer()
		result := g.settleDealerBlackjack(hand)
		g.finishRound(result, stackBefore, bet)
		return result, nil
	}

	if !hand.IsBlackjack {
		g.offerSurrender(bet, hand, d)
		if err := g.runSplitPhase(bet, d); err != nil {
			return nil, err
		}
		g.player.SortHands()
	}

	if err := g.runPlayerTurns(d); err != nil {
		return nil, err
	}
	if err := g.runDealerTurn(); err != nil {
		return nil, err
	}

	result := g.payout()
	g.finishRound(result, stackBefore, bet)
	return result, nil
}

// dealOpening deals dealer up-card, dealer hole card (face down), and the
// player's two cards, updating the count for every newly visible card.
func (g *Game) dealOpening(hand *Hand) error {
	if len(g.opts.DealerCards) > 0 {
		if err := g.shoe.Arrange(g.opts.DealerCards[:min(2, len(g.opts.DealerCards))], false); err != nil {
			return err
		}
	}
	if err := g.dealer.DealFromShoe(g.shoe); err != nil {
		return err
	}
	g.player.Count.Observe(g.dealer.Cards, g.shoe)
	if err := g.dealer.DealFromShoe(g.shoe); err != nil {
		return err
	}
	g.dealer.Cards[1].Visible = false // hole card

	switch {
	case len(g.opts.PlayerCards) > 0:
		pick := g.opts.PlayerCards[g.src.Intn(len(g.opts.PlayerCards))]
		if err := g.shoe.Arrange(pick, g.opts.RandomizeOrder); err != nil {
			return err
		}
	case g.opts.Subset != "":
		cards := StartingHand(g.opts.Subset, g.src)
		if err := g.shoe.Arrange(cards, false); err != nil {
			return err
		}
	}
	if err := hand.DealFromShoe(g.shoe); err != nil {
		return err
	}
	if err := hand.DealFromShoe(g.shoe); err != nil {
		return err
	}
	g.player.Count.Observe(hand.Cards, g.shoe)
	return nil
}

// offerInsurance handles the insurance and even-money offers when the dealer
// shows an Ace.
func (g *Game) offerInsurance(bet decimal.Decimal, hand *Hand, d Decider) {
	if !g.dealer.HasAce {
		return
	}
	shouldTake := ShouldInsure(g.player.Count)
	if !hand.IsBlackjack {
		if d.TakeInsurance(g.ctx(hand)) {
			g.scoreBool(shouldTake, true)
			insurance := bet.Div(two)
			g.player.Stack = g.player.Stack.Sub(insurance)
			g.player.Invested = g.player.Invested.Add(insurance)
			g.dealer.InsuranceBet = insurance
		}
	} else {
		if d.TakeEvenMoney(g.ctx(hand)) {
			g.scoreBool(shouldTake, true)
			g.dealer.EvenMoney = true
		}
	}
}

// settleDealerBlackjack resolves the round when a peeking dealer finds
// blackjack before the player acts.
func (g *Game) settleDealerBlackjack(hand *Hand) *RoundResult {
	outcome := HandOutcome{Slot: hand.Slot, Cards: hand.Labels(), Sum: hand.Sum, Bet: hand.Bet}
	switch {
	case g.dealer.InsuranceBet.IsPositive():
		g.log.Debug("You win insurance bet.")
		payout := g.dealer.InsuranceBet.Mul(three)
		g.player.Stack = g.player.Stack.Add(payout)
		outcome.Result = ResultInsurance
		outcome.Payout = payout
	case g.dealer.EvenMoney:
		payout := hand.Bet.Mul(two)
		g.player.Stack = g.player.Stack.Add(payout)
		outcome.Result = ResultEvenMoney
		outcome.Payout = payout
	case hand.IsBlackjack:
		g.log.Debug("Game is a push.")
		g.player.Stack = g.player.Stack.Add(hand.Bet)
		outcome.Result = ResultPush
		outcome.Payout = hand.Bet
	default:
		g.log.Debug("Dealer has BJ, you lose!")
		outcome.Result = loseLabel(hand.Sum, g.dealer.Sum)
	}
	return g.buildResult([]HandOutcome{outcome})
}

// offerSurrender runs the surrender window: pre-first-action, unsplit 2-card
// hand, never against a dealer Ace.
func (g *Game) offerSurrender(bet decimal.Decimal, hand *Hand, d Decider) {
	if g.rules.Surrender != SurrenderVs2To10 || g.dealer.HasAce {
		return
	}
	correct := g.oracle(hand)
	if d.Surrender(g.ctx(hand)) {
		g.score(correct, ActionSurrender)
		hand.IsHittable = false
		hand.Surrendered = true
		g.player.Stack = g.player.Stack.Add(bet.Div(two))
	}
}

// runSplitPhase repeatedly offers splits until no hand is splittable, every
// offer was declined, or four hands exist.
func (g *Game) runSplitPhase(bet decimal.Decimal, d Decider) error {
	for {
		if g.player.Hands[0].Surrendered {
			return nil
		}
		n := len(g.player.Hands)
		for ind := 0; ind < n; ind++ {
			hand := g.player.Hands[ind]
			if !g.canOfferSplit(hand) {
				continue
			}
			correct := g.oracle(hand)
			if d.Split(g.ctx(hand)) {
				g.score(correct, ActionSplit)
				if err := g.split(bet, hand); err != nil {
					return err
				}
				g.log.Debugf("Player: %s", g.handsString())
			} else {
				hand.AskedToSplit = true
			}
			if len(g.player.Hands) == 4 {
				break
			}
		}

		done := true
		for _, hand := range g.player.Hands {
			if g.canOfferSplit(hand) {
				done = false
			}
			g.player.Count.Observe(hand.Cards, g.shoe)
		}
		if done || len(g.player.Hands) == 4 {
			return nil
		}
	}
}

// split moves one card of a pair into a new hand and deals a fresh card to
// each. Split aces receive exactly one card each.
func (g *Game) split(bet decimal.Decimal, hand *Hand) error {
	newHand, err := g.player.StartHand(bet)
	if err != nil {
		return err
	}
	newHand.DealCard(hand.popCard())
	for _, h := range []*Hand{hand, newHand} {
		if err := h.DealFromShoe(g.shoe); err != nil {
			return err
		}
		h.IsSplitHand = true
		h.IsBlackjack = false
		if h.Cards[0].IsAce() {
			h.IsHittable = false
		}
	}
	return nil
}

// runPlayerTurns plays out each hand in turn: double offer, then the
// hit/stay loop.
func (g *Game) runPlayerTurns(d Decider) error {
	for _, hand := range g.player.Hands {
		played := false
		for !played {
			if hand.Surrendered || hand.IsBlackjack {
				break
			}
			if hand.IsSplitHand && hand.Sum != 21 {
				g.log.Debugf("You are playing hand: %s", hand)
			}
			if len(hand.Cards) == 2 && hand.IsHittable {
				if hand.Sum == 21 {
					break
				}
				correct := g.oracle(hand)
				if d.Double(g.ctx(hand)) {
					g.score(correct, ActionDouble)
					if err := g.double(hand); err != nil {
						return err
					}
					played = true
				} else if correct != ActionDouble {
					g.Decisions.Correct++
				} else {
					g.log.Infof("Incorrect play, correct play was %s", correct)
					g.Decisions.Incorrect++
				}
			}
			if hand.IsHittable {
				correct := g.oracle(hand)
				if d.HitOrStay(g.ctx(hand)) == ActionStay {
					g.score(correct, ActionStay)
					break
				}
				g.score(correct, ActionHit)
				if err := hand.DealFromShoe(g.shoe); err != nil {
					return err
				}
				g.player.Count.Observe(hand.Cards, g.shoe)
			} else {
				played = true
			}
			g.log.Debugf("Player: %s", hand)
			if hand.Sum >= 21 {
				played = true
			}
		}
	}
	return nil
}

// double doubles the stake, deals exactly one more card, and finishes the
// hand.
func (g *Game) double(hand *Hand) error {
	g.player.Stack = g.player.Stack.Sub(hand.Bet)
	g.player.Invested = g.player.Invested.Add(hand.Bet)
	hand.Bet = hand.Bet.Mul(two)
	if err := hand.DealFromShoe(g.shoe); err != nil {
		return err
	}
	g.player.Count.Observe(hand.Cards, g.shoe)
	hand.IsHittable = false
	return nil
}

// runDealerTurn reveals the hole card and plays the dealer's hand, skipping
// it entirely when no player hand can still win and no insurance is pending.
func (g *Game) runDealerTurn() error {
	if len(g.opts.DealerCards) > 2 {
		if err := g.shoe.Arrange(g.opts.DealerCards[2:], false); err != nil {
			return err
		}
	}

	hitDealer := false
	for _, hand := range g.player.Hands {
		if (!hand.IsOver && !hand.Surrendered) || g.dealer.InsuranceBet.IsPositive() {
			hitDealer = true
		}
	}
	if g.player.Hands[0].IsBlackjack {
		// Dealer only plays against a natural to check for its own blackjack.
		hitDealer = g.dealer.HasAce || g.dealer.UpCard().Value() == 10
	}
	if !hitDealer {
		return nil
	}

	g.revealDealer()
	for {
		g.log.Debugf("Dealer: %s", g.dealer)
		if g.dealer.IsFinished || g.dealer.IsOver {
			return nil
		}
		if g.player.Hands[0].IsBlackjack && !g.dealer.IsBlackjack {
			return nil
		}
		if err := g.dealer.DealFromShoe(g.shoe); err != nil {
			return err
		}
		g.player.Count.Observe(g.dealer.Cards, g.shoe)
	}
}

// revealDealer turns over the hole card and counts everything now visible.
func (g *Game) revealDealer() {
	for _, card := range g.dealer.Cards {
		card.Visible = true
	}
	g.player.Count.Observe(g.dealer.Cards, g.shoe)
}

// payout settles every hand in the fixed priority order and returns the
// round result.
func (g *Game) payout() *RoundResult {
	var outcomes []HandOutcome

	insured := g.dealer.IsBlackjack && g.dealer.InsuranceBet.IsPositive()
	if g.dealer.EvenMoney {
		hand := g.player.Hands[0]
		payout := hand.Bet.Mul(two)
		g.player.Stack = g.player.Stack.Add(payout)
		outcomes = append(outcomes, HandOutcome{
			Slot: hand.Slot, Cards: hand.Labels(), Sum: hand.Sum, Bet: hand.Bet,
			Result: ResultEvenMoney, Payout: payout,
		})
		return g.buildResult(outcomes)
	}
	if insured {
		g.log.Debug("You win insurance bet.")
		g.player.Stack = g.player.Stack.Add(g.dealer.InsuranceBet.Mul(three))
	}

	for _, hand := range g.player.Hands {
		outcome := g.settleHand(hand, insured)
		g.player.Stack = g.player.Stack.Add(outcome.Payout)
		outcomes = append(outcomes, outcome)
	}
	return g.buildResult(outcomes)
}

// settleHand resolves a single hand against the dealer. Exactly one branch
// applies; reaching none is a bug.
func (g *Game) settleHand(hand *Hand, insured bool) HandOutcome {
	outcome := HandOutcome{Slot: hand.Slot, Cards: hand.Labels(), Sum: hand.Sum, Bet: hand.Bet}
	dealer := g.dealer

	switch {
	case hand.Surrendered:
		g.log.Debug("You lose by surrendering.")
		outcome.Result = ResultSurrender

	case hand.IsOver:
		g.log.Debugf("Player: %d, you lose!", hand.Sum)
		outcome.Result = ResultBust

	case hand.TripleSeven:
		g.log.Debug("You win with triple seven!")
		outcome.Result = ResultTripleSeven
		if insured {
			outcome.Result = ResultTripleSeven + " + " + ResultInsurance
		}
		outcome.Payout = hand.Bet.Mul(three)

	case hand.IsBlackjack && !dealer.IsBlackjack:
		g.log.Debug("You win with BJ!")
		outcome.Result = ResultBlackjack
		outcome.Payout = hand.Bet.Mul(blackjackReturn)

	case hand.IsBlackjack && dealer.IsBlackjack:
		g.log.Debug("Dealer: BJ, Player: BJ, game is a push.")
		outcome.Result = ResultPush
		outcome.Payout = hand.Bet

	case dealer.IsBlackjack:
		g.log.Debugf("Dealer: BJ, Player: %d, you lose to dealer BJ!", hand.Sum)
		outcome.Result = loseLabel(hand.Sum, dealer.Sum)
		if insured {
			outcome.Result = ResultInsurance
		}

	case dealer.IsOver:
		g.log.Debugf("Dealer: %d, you win!", dealer.Sum)
		outcome.Result = winLabel(hand.Sum, dealer.Sum)
		outcome.Payout = hand.Bet.Mul(two)

	case hand.Sum < dealer.Sum:
		g.log.Debugf("Dealer: %d, Player: %d, you lose!", dealer.Sum, hand.Sum)
		outcome.Result = loseLabel(hand.Sum, dealer.Sum)

	case hand.Sum > dealer.Sum:
		g.log.Debugf("Dealer: %d, Player: %d, you win!", dealer.Sum, hand.Sum)
		outcome.Result = winLabel(hand.Sum, dealer.Sum)
		outcome.Payout = hand.Bet.Mul(two)

	default: // equal totals
		g.log.Debugf("Dealer: %d, Player: %d, game is a push.", dealer.Sum, hand.Sum)
		outcome.Result = ResultPush
		outcome.Payout = hand.Bet
	}
	return outcome
}

func (g *Game) buildResult(outcomes []HandOutcome) *RoundResult {
	labels := make([]string, len(g.dealer.Cards))
	for i, card := range g.dealer.Cards {
		labels[i] = card.Label
	}
	return &RoundResult{
		ID:              uuid.New().String(),
		Hands:           outcomes,
		DealerCards:     labels,
		DealerSum:       g.dealer.Sum,
		DealerBlackjack: g.dealer.IsBlackjack,
		Count:           g.player.Count,
	}
}

func (g *Game) finishRound(result *RoundResult, stackBefore, bet decimal.Decimal) {
	result.Bet = bet
	result.StackAfter = g.player.Stack
	result.Profit = g.player.Stack.Sub(stackBefore)
	g.Rounds++
	g.HandsPlayed += len(g.player.Hands)
	g.log.Debug("----------------")
}

func (g *Game) handsString() string {
	s := ""
	for _, hand := range g.player.Hands {
		s += hand.String() + "  "
	}
	return s
}
