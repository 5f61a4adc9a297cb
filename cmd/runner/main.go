// runner is an endless side-scrolling runner for the terminal. A stone golem
// jumps obstacles on a course that speeds up until it trips.
//
// Usage:
//
//	runner list              - List available courses
//	runner play [theme]      - Run a course
//	runner menu              - Pick courses interactively
//	runner serve             - Start SSH server for remote play
//	runner scores <theme>    - Show best runs for a course
//	runner sim [theme]       - Run headless autopilot games
//	runner replay <dir>      - Verify a recorded run
//	runner tiers             - Show the reward table
//
// Global flags:
//
//	--fps <rate>    - Set tick rate (default: 60)
//	--seed <value>  - Set RNG seed for reproducible runs
//	--db <path>     - Set database path (default: ~/.runner/runs.db)
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/golem-runner/internal/config"
	"github.com/vovakirdan/golem-runner/internal/core"
	"github.com/vovakirdan/golem-runner/internal/storage"

	// Import themes to register them
	_ "github.com/vovakirdan/golem-runner/internal/themes"
)

var (
	// Global flags
	flagFPS     int
	flagSeed    int64
	flagDBPath  string
	flagLogFile string
	flagDebug   bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "runner",
	Short: "Golem Runner - an endless runner in your terminal",
	Long: `Golem Runner is an endless side-scroller: your golem runs along a
course, obstacles scroll in from the right and everything speeds up the
longer you last. Each finished run pays coins by score tier.

Available commands:
  list     - Show all courses
  play     - Run a course directly
  menu     - Interactive course picker
  serve    - Start SSH server for remote play
  scores   - View best runs
  sim      - Headless autopilot runs
  replay   - Verify a recorded run
  tiers    - Show the reward table

Examples:
  runner list
  runner play desert
  runner menu
  runner serve --ssh :2222
  runner scores forest`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.runner/runs.db", "Path to the run ledger")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file while a run is on screen")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(simCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(tiersCmd)
}

// newLogger builds the process logger. Full-screen commands must not write to
// the terminal they draw on, so they log to --log-file or nowhere.
func newLogger(fullScreen bool) (*log.Logger, func()) {
	var w io.Writer = os.Stderr
	closeFn := func() {}

	if fullScreen {
		w = io.Discard
		if flagLogFile != "" {
			if err := os.MkdirAll(filepath.Dir(flagLogFile), 0o755); err == nil {
				if f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644); err == nil {
					w = f
					closeFn = func() { f.Close() }
				}
			}
		}
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Prefix:          "runner",
	})
	if flagDebug {
		logger.SetLevel(log.DebugLevel)
	}
	return logger, closeFn
}

// loadRunnerConfig loads the YAML config and applies a difficulty preset.
func loadRunnerConfig(path, difficulty string) (config.RunnerConfig, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if difficulty != "" {
		preset := config.ParsePreset(difficulty)
		if preset == "" {
			return cfg, fmt.Errorf("unknown difficulty %q (want easy, normal, hard or fixed)", difficulty)
		}
		config.ApplyPreset(&cfg, preset)
	}
	return cfg, nil
}

// terminalConfig builds the host runtime config from the terminal size and
// global flags.
func terminalConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}
	cfg.TickRate = flagFPS
	cfg.Seed = flagSeed
	return cfg
}

// openStore opens the ledger, warning instead of failing: a run works
// without one.
func openStore(logger *log.Logger) *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open run ledger: %v\n", err)
		logger.Warn("run ledger unavailable", "err", err)
		return nil
	}
	return store
}

// defaultGolem names the player when --golem is not given.
func defaultGolem() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "golem"
}
