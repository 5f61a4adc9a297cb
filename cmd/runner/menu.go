package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/golem-runner/internal/config"
	"github.com/vovakirdan/golem-runner/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with a course picker menu",
	Long: `Start in interactive menu mode.

Use arrow keys or j/k to pick a course, Left/Right to pick a difficulty and
Enter to run. Leaving a run returns to the menu.

Controls:
  Up/Down/j/k  - Navigate courses
  Left/Right   - Change difficulty
  Enter/Space  - Run
  Tab          - Scoreboard
  Q            - Quit

Examples:
  runner menu
  runner menu --fps 30
  runner menu --db ./runs.db`,
	RunE: runMenu,
}

func init() {
	addRunFlags(menuCmd)
}

func runMenu(_ *cobra.Command, _ []string) error {
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

	cfg := terminalConfig()

	// Menu loop
	for {
		menuResult, err := tui.RunMenu(store, cfg)
		if err != nil {
			return err
		}

		// Update config with any size changes
		cfg = menuResult.Config

		if menuResult.Quit {
			return nil
		}

		if menuResult.WantsScoreboard {
			goBack, sbErr := tui.RunScoreboard(store, cfg.ScreenW, cfg.ScreenH)
			if sbErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", sbErr)
			}
			if goBack {
				continue // Back to menu
			}
			return nil // User quit from scoreboard
		}

		if menuResult.ThemeID == "" {
			return nil
		}

		runHost := host
		config.ApplyPreset(&runHost.Runner, menuResult.Preset)

		// Fresh seed for each run unless one was pinned
		rc := cfg
		rc.Seed = flagSeed

		session, err := runHost.NewSession(menuResult.ThemeID, flagGolem, rc)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error starting run: %v\n", err)
			continue
		}

		goBack, err := tui.Run(session)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error running course: %v\n", err)
		}
		if !goBack {
			return nil
		}
	}
}
