package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/golem-runner/internal/platform/tui"
	"github.com/vovakirdan/golem-runner/internal/registry"
	"github.com/vovakirdan/golem-runner/internal/replay"
	"github.com/vovakirdan/golem-runner/internal/rewards"
	"github.com/vovakirdan/golem-runner/internal/runner"
	"github.com/vovakirdan/golem-runner/internal/themes"
)

var (
	flagSimRuns       int
	flagSimMaxSeconds float64
	flagSimLead       float64
	flagSimClaim      bool
	flagSimGolem      string
	flagSimWorld      string
)

var simCmd = &cobra.Command{
	Use:   "sim [theme]",
	Short: "Run headless autopilot games",
	Long: `Run the course without a screen, with a simple autopilot doing the
jumping. Useful for tuning configs: every run prints its score and tier.

Runs use consecutive seeds starting at --seed, so a sim is reproducible.

Examples:
  runner sim
  runner sim forest --runs 20 --seed 1
  runner sim desert --config ./fast.yaml --difficulty hard
  runner sim cavern --record ./replays --claim`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSim,
}

func init() {
	simCmd.Flags().IntVar(&flagSimRuns, "runs", 5, "Number of runs")
	simCmd.Flags().Float64Var(&flagSimMaxSeconds, "max-seconds", 300, "Stop a run that survives this long")
	simCmd.Flags().Float64Var(&flagSimLead, "lead", runner.DefaultAutopilotLead, "Autopilot look-ahead in seconds of travel")
	simCmd.Flags().BoolVar(&flagSimClaim, "claim", false, "Credit finished runs to the ledger")
	simCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom runner config YAML")
	simCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	simCmd.Flags().StringVar(&flagRecord, "record", "", "Record runs as replay bundles under this directory")
	simCmd.Flags().StringVar(&flagSimGolem, "golem", "autopilot", "Golem id credited with rewards")
	simCmd.Flags().StringVar(&flagSimWorld, "world", "sim", "World id stamped on reward claims")
}

// simResult is one finished or abandoned headless run.
type simResult struct {
	seed     int64
	score    float64
	elapsed  float64
	finished bool
}

func runSim(cmd *cobra.Command, args []string) error {
	themeID := themes.Default
	if len(args) == 1 {
		themeID = args[0]
	}
	theme, err := registry.Create(themeID)
	if err != nil {
		return err
	}

	logger, closeLog := newLogger(false)
	defer closeLog()

	cfg, err := loadRunnerConfig(flagConfig, flagDifficulty)
	if err != nil {
		return err
	}
	catalog := theme.CatalogFor(cfg)

	var claims rewards.Submitter
	if flagSimClaim {
		store := openStore(logger)
		if store != nil {
			defer store.Close()
			claims = rewards.NewDispatcher(logger, store)
		}
	}

	baseSeed := flagSeed
	if baseSeed == 0 {
		baseSeed = time.Now().UnixNano()
	}
	fps := flagFPS
	if fps <= 0 {
		fps = 60
	}
	dt := 1 / float64(fps)
	pilot := runner.Autopilot{Lead: flagSimLead}

	out := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(out, "Run\tSeed\tScore\tTier\tCoins\tTime")

	var total float64
	for i := range flagSimRuns {
		seed := baseSeed + int64(i)

		var game tui.Game
		var closeGame func() error
		if flagRecord != "" {
			rec, recErr := replay.NewRecorder(flagRecord, replay.Setup{Theme: theme.ID, Seed: seed, Config: cfg, Catalog: catalog}, runner.WithLogger(logger))
			if recErr != nil {
				return recErr
			}
			game, closeGame = rec, rec.Close
		} else {
			g, gameErr := runner.FromConfig(cfg, catalog, runner.WithSeed(seed), runner.WithLogger(logger))
			if gameErr != nil {
				return gameErr
			}
			game = g
		}

		res := simulate(game, pilot, dt, flagSimMaxSeconds)
		res.seed = seed
		if closeGame != nil {
			if err := closeGame(); err != nil {
				logger.Warn("recording incomplete", "seed", seed, "err", err)
			}
		}

		tier := rewards.Lookup(res.score)
		label := tier.Tier.Label
		if !res.finished {
			label += " (survived)"
		}
		fmt.Fprintf(out, "%d\t%d\t%d\t%s\t%d\t%.1fs\n", i+1, seed, int(res.score), label, tier.Tier.Coins, res.elapsed)
		total += res.score

		if claims != nil && res.finished {
			claim := rewards.NewClaim(res.score, rewards.RunContext{
				WorldID:  flagSimWorld,
				GolemID:  flagSimGolem,
				Theme:    theme.ID,
				Duration: time.Duration(res.elapsed * float64(time.Second)),
				Seed:     seed,
			})
			if err := claims.Submit(cmd.Context(), claim); err != nil {
				logger.Warn("claim failed", "seed", seed, "err", err)
			}
		}
	}
	out.Flush()

	if flagSimRuns > 0 {
		fmt.Printf("\nMean score: %.0f over %d runs\n", total/float64(flagSimRuns), flagSimRuns)
	}
	return nil
}

// simulate plays one run with the autopilot at a fixed frame delta.
func simulate(game tui.Game, pilot runner.Autopilot, dt, maxSeconds float64) simResult {
	game.Start()
	for {
		snap := game.Snapshot()
		if snap.Metrics.Elapsed >= maxSeconds {
			return simResult{score: snap.Metrics.Score, elapsed: snap.Metrics.Elapsed}
		}
		if pilot.ShouldJump(snap) {
			game.Jump()
		}
		if ev, over := game.Update(dt); over {
			return simResult{score: ev.FinalScore, elapsed: game.Snapshot().Metrics.Elapsed, finished: true}
		}
	}
}

