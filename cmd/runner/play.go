package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/golem-runner/internal/platform/tui"
	"github.com/vovakirdan/golem-runner/internal/registry"
	"github.com/vovakirdan/golem-runner/internal/rewards"
	"github.com/vovakirdan/golem-runner/internal/spectate"
	"github.com/vovakirdan/golem-runner/internal/storage"
	"github.com/vovakirdan/golem-runner/internal/themes"
)

var (
	flagConfig     string
	flagDifficulty string
	flagWorld      string
	flagGolem      string
	flagRecord     string
	flagSpectate   string
)

var playCmd = &cobra.Command{
	Use:   "play [theme]",
	Short: "Run a course",
	Long: `Start a run on the given course (default: desert).

Controls:
  Space/Up   - Start / jump
  P          - Pause
  R          - New run (after game over)
  Esc/B      - Leave (when paused or over)
  Ctrl+S     - Screenshot
  Q/Ctrl+C   - Quit

Difficulty options:
  normal - Configured progression
  easy   - Slower speed-up, wider obstacle gaps
  hard   - Faster speed-up, tighter opening gaps
  fixed  - No speed-up at all

Examples:
  runner play
  runner play forest --difficulty hard
  runner play cavern --config ./my-runner.yaml
  runner play desert --record ./replays --seed 42
  runner play desert --spectate :8090`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	addRunFlags(playCmd)
}

// addRunFlags registers the flags shared by every command that hosts runs.
func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom runner config YAML")
	cmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	cmd.Flags().StringVar(&flagWorld, "world", "local", "World id stamped on reward claims")
	cmd.Flags().StringVar(&flagGolem, "golem", defaultGolem(), "Golem id credited with rewards")
	cmd.Flags().StringVar(&flagRecord, "record", "", "Record runs as replay bundles under this directory")
	cmd.Flags().StringVar(&flagSpectate, "spectate", "", "Serve a spectator WebSocket on this address (e.g. :8090)")
}

// startSpectator serves a hub on addr until ctx is cancelled. It returns nil
// when addr is empty.
func startSpectator(ctx context.Context, addr string, logger *log.Logger) *spectate.Hub {
	if addr == "" {
		return nil
	}
	hub := spectate.NewHub(logger)
	go func() {
		if err := spectate.ListenAndServe(ctx, addr, hub); err != nil {
			logger.Error("spectator hub stopped", "err", err)
		}
	}()
	return hub
}

// newHost wires the ledger, claim dispatcher and spectator hub into a host.
func newHost(ctx context.Context, logger *log.Logger, store *storage.Store) (tui.Host, error) {
	cfg, err := loadRunnerConfig(flagConfig, flagDifficulty)
	if err != nil {
		return tui.Host{}, err
	}

	dispatcher := rewards.NewDispatcher(logger)
	if store != nil {
		dispatcher.Add(store)
	}

	return tui.Host{
		Runner:    cfg,
		Store:     store,
		Rewards:   dispatcher,
		Hub:       startSpectator(ctx, flagSpectate, logger),
		WorldID:   flagWorld,
		Logger:    logger,
		RecordDir: flagRecord,
	}, nil
}

func runPlay(_ *cobra.Command, args []string) error {
	themeID := themes.Default
	if len(args) == 1 {
		themeID = args[0]
	}

	if !registry.Exists(themeID) {
		fmt.Fprintln(os.Stderr, "Run 'runner list' to see available courses.")
		return fmt.Errorf("unknown course %q", themeID)
	}

	logger, closeLog := newLogger(true)
	defer closeLog()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}

	host, err := newHost(ctx, logger, store)
	if err != nil {
		return err
	}

	session, err := host.NewSession(themeID, flagGolem, terminalConfig())
	if err != nil {
		return err
	}

	if _, err := tui.Run(session); err != nil {
		return fmt.Errorf("running course: %w", err)
	}
	return nil
}
