// Command blackjack is a command-line blackjack trainer and simulator. By
// default it deals interactive rounds and grades every decision against
// basic strategy; with -ai it autoplays, and with -serve it exposes the
// engine over HTTP instead.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/blackjacklab/blackjack-trainer-go/internal/api"
	"github.com/blackjacklab/blackjack-trainer-go/internal/engine"
	"github.com/blackjacklab/blackjack-trainer-go/internal/game"
	"github.com/blackjacklab/blackjack-trainer-go/internal/scripting"
	"github.com/blackjacklab/blackjack-trainer-go/internal/store"
)

type config struct {
	region      string
	ai          bool
	useCount    bool
	deviations  bool
	bet         string
	stack       string
	nGames      int
	logLevel    string
	cards       string
	dealerCards string
	subset      string
	script      string
	dbPath      string
	serveAddr   string
	serverSeed  string
	clientSeed  string
}

func main() {
	var cfg config
	flag.StringVar(&cfg.region, "rules", "Helsinki", "rule preset: "+strings.Join(game.Regions(), ", "))
	flag.BoolVar(&cfg.ai, "ai", false, "autoplay with basic strategy instead of prompting")
	flag.BoolVar(&cfg.useCount, "count", false, "keep a hi-lo count; with -ai also ramps bets and takes insurance by the count")
	flag.BoolVar(&cfg.deviations, "deviations", false, "play count-based index deviations (requires -count)")
	flag.StringVar(&cfg.bet, "bet", "1", "base bet per round")
	flag.StringVar(&cfg.stack, "stack", "1000", "buy-in stack")
	flag.IntVar(&cfg.nGames, "n-games", 10, "number of rounds to play")
	flag.StringVar(&cfg.logLevel, "loglevel", "info", "log level: debug, info, warn, error")
	flag.StringVar(&cfg.cards, "cards", "", `force the player's starting cards, e.g. "A,K" or "8,8;A,7"`)
	flag.StringVar(&cfg.dealerCards, "dealer-cards", "", `force the dealer's cards in draw order, e.g. "10,Q"`)
	flag.StringVar(&cfg.subset, "subset", "", "practice one class of starting hands: "+strings.Join(game.Subsets(), ", "))
	flag.StringVar(&cfg.script, "script", "", "path to a JavaScript bet script defining dobet()")
	flag.StringVar(&cfg.dbPath, "db", "", "SQLite file for persisting sessions and rounds")
	flag.StringVar(&cfg.serveAddr, "serve", "", "listen address for HTTP mode, e.g. :8080")
	flag.StringVar(&cfg.serverSeed, "server-seed", "", "server seed for reproducible shuffles")
	flag.StringVar(&cfg.clientSeed, "client-seed", "", "client seed for reproducible shuffles")
	flag.Parse()

	log := logrus.New()
	level, err := logrus.ParseLevel(cfg.logLevel)
	if err != nil {
		log.Fatalf("bad log level %q", cfg.logLevel)
	}
	log.SetLevel(level)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	if err := run(cfg, log); err != nil {
		log.Fatal(err)
	}
}

func run(cfg config, log *logrus.Logger) error {
	var db store.DB
	if cfg.dbPath != "" {
		sqlDB, err := store.NewSQLiteDB(cfg.dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer sqlDB.Close()
		if err := sqlDB.Migrate(); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}
		db = sqlDB
	}

	if cfg.serveAddr != "" {
		srv := api.NewServer(db, log)
		log.Infof("listening on %s", cfg.serveAddr)
		return http.ListenAndServe(cfg.serveAddr, srv.Routes())
	}
	return play(cfg, db, log)
}

func play(cfg config, db store.DB, log *logrus.Logger) error {
	rules, err := game.Preset(cfg.region)
	if err != nil {
		return err
	}
	baseBet, err := decimal.NewFromString(cfg.bet)
	if err != nil || !baseBet.IsPositive() {
		return fmt.Errorf("bad bet %q", cfg.bet)
	}
	stack, err := decimal.NewFromString(cfg.stack)
	if err != nil || stack.LessThan(baseBet) {
		return fmt.Errorf("bad stack %q", cfg.stack)
	}
	playerCards, err := game.ParseCardSpec(cfg.cards)
	if err != nil {
		return err
	}
	dealerCards, err := game.ParseDealerSpec(cfg.dealerCards)
	if err != nil {
		return err
	}

	opts := game.Options{
		Stack:       stack,
		PlayerCards: playerCards,
		DealerCards: dealerCards,
		Subset:      cfg.subset,
		Logger:      log,
	}
	if cfg.serverSeed != "" && cfg.clientSeed != "" {
		opts.Seeds = &engine.Seeds{Server: cfg.serverSeed, Client: cfg.clientSeed}
	}
	g, err := game.New(rules, opts)
	if err != nil {
		return err
	}

	var decider game.Decider = &consoleDecider{in: bufio.NewReader(os.Stdin), out: os.Stdout}
	if cfg.ai {
		decider = game.AutoDecider{UseCount: cfg.useCount, Deviations: cfg.deviations}
	}

	betFn := game.FlatBet
	var script *scripting.BetScript
	if cfg.script != "" {
		source, err := os.ReadFile(cfg.script)
		if err != nil {
			return fmt.Errorf("read bet script: %w", err)
		}
		script, err = scripting.NewBetScript(string(source), log)
		if err != nil {
			return err
		}
		betFn = script.BetFunc()
	} else if cfg.ai && cfg.useCount {
		betFn = game.CountBet
	}

	var session *store.Session
	if db != nil {
		seeds := g.Seeds()
		session = &store.Session{
			Region:     rules.Region,
			GameType:   string(rules.GameType),
			Decks:      rules.NumberOfDecks,
			ServerSeed: seeds.Server,
			ClientSeed: seeds.Client,
			BaseBet:    baseBet.String(),
			BuyIn:      stack.String(),
		}
		if err := db.SaveSession(session); err != nil {
			return fmt.Errorf("save session: %w", err)
		}
	}

	lastProfit := decimal.Zero
	var stored []store.Round
	for i := 0; i < cfg.nGames; i++ {
		bet := betFn(baseBet, g.Player().Count, g.Player().Stack, lastProfit)
		if !bet.IsPositive() {
			log.Info("bet hook sat out, ending session")
			break
		}
		log.Debug("----------------")
		log.Debugf("Stack: %s", g.Player().Stack)
		result, err := g.PlayRound(bet, decider)
		if err != nil {
			return err
		}
		lastProfit = result.Profit
		if session != nil {
			round, err := store.NewRound(session.ID, result)
			if err != nil {
				return err
			}
			stored = append(stored, round)
		}
		if script != nil && script.Stopped() {
			log.Info("bet script requested stop")
			break
		}
	}

	stats := g.Stats(stack)
	log.Infof("Number of rounds played: %d", stats.Rounds)
	log.Infof("Number of hands played (including splits): %d", stats.Hands)
	log.Infof("Initial bet size: %s $", baseBet)
	log.Infof("Total win: %s $", stats.Profit)
	if stats.Hands > 0 {
		log.Infof("Average bet / hand: %s $", stats.AvgBet.StringFixed(3))
		log.Infof("Average win / hand: %s $", stats.AvgWin.StringFixed(6))
		log.Infof("Average return / hand: %s %%", stats.ReturnPct.StringFixed(3))
	}
	if !cfg.ai {
		log.Infof("Correct decisions: %g %%", stats.CorrectRate)
	}

	if session != nil {
		session.FinalStack = stats.FinalStack.String()
		session.Rounds = stats.Rounds
		session.Hands = stats.Hands
		session.Profit = stats.Profit.String()
		session.CorrectRate = stats.CorrectRate
		if err := db.SaveRounds(session.ID, stored); err != nil {
			return fmt.Errorf("save rounds: %w", err)
		}
		if err := db.FinishSession(session); err != nil {
			return fmt.Errorf("finish session: %w", err)
		}
		log.Infof("Session saved: %s", session.ID)
	}

	if cfg.cards != "" && cfg.dealerCards != "" {
		// Scripted runs parse the final stack from the last stdout line.
		fmt.Println(g.Player().Stack)
	}
	return nil
}

// consoleDecider prompts on stdin. Empty input takes the bracketed default.
type consoleDecider struct {
	in  *bufio.Reader
	out io.Writer
}

func (c *consoleDecider) ask(prompt, def string) string {
	fmt.Fprintf(c.out, "%s ", prompt)
	line, err := c.in.ReadString('\n')
	if err != nil && line == "" {
		return def
	}
	line = strings.ToLower(strings.TrimSpace(line))
	if line == "" {
		return def
	}
	return line
}

func (c *consoleDecider) yes(prompt string) bool {
	return c.ask(prompt, "n") == "y"
}

func (c *consoleDecider) show(ctx game.DecisionContext) {
	fmt.Fprintf(c.out, "Dealer: %s\n", ctx.DealerUp)
	fmt.Fprintf(c.out, "Player: %s\n", ctx.Hand)
}

func (c *consoleDecider) TakeInsurance(ctx game.DecisionContext) bool {
	c.show(ctx)
	return c.yes("Take insurance? y/n [n]")
}

func (c *consoleDecider) TakeEvenMoney(ctx game.DecisionContext) bool {
	c.show(ctx)
	return c.yes("Take even money? y/n [n]")
}

func (c *consoleDecider) Surrender(ctx game.DecisionContext) bool {
	c.show(ctx)
	return c.yes("Surrender? y/n [n]")
}

func (c *consoleDecider) Split(ctx game.DecisionContext) bool {
	return c.yes(fmt.Sprintf("Split %s? y/n [n]", ctx.Hand))
}

func (c *consoleDecider) Double(ctx game.DecisionContext) bool {
	c.show(ctx)
	return c.yes("Double down? y/n [n]")
}

func (c *consoleDecider) HitOrStay(ctx game.DecisionContext) game.Action {
	c.show(ctx)
	if c.ask("Hit or stay? h/s [h]", "h") == "s" {
		return game.ActionStay
	}
	return game.ActionHit
}
