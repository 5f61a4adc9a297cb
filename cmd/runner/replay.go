package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/golem-runner/internal/replay"
	"github.com/vovakirdan/golem-runner/internal/rewards"
)

var replayCmd = &cobra.Command{
	Use:   "replay <dir>",
	Short: "Verify a recorded run",
	Long: `Load a replay bundle written with --record, re-simulate it from its
seed and recorded inputs and check that every frame and final score match.

A mismatch means the bundle was altered or was recorded by a build whose
simulation differs from this one.

Examples:
  runner replay ./replays/desert-20250101T120000Z-123
  runner replay ./replays/desert-20250101T120000Z-123/manifest.json`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func runReplay(_ *cobra.Command, args []string) error {
	bundle, err := replay.Load(args[0])
	if err != nil {
		return err
	}

	m := bundle.Manifest
	fmt.Printf("Bundle:   %s\n", args[0])
	fmt.Printf("Course:   %s (seed %d)\n", m.Setup.Theme, m.Setup.Seed)
	fmt.Printf("Recorded: %s\n", m.CreatedAt)
	if !m.Complete {
		fmt.Println("Warning:  recording was not closed cleanly")
	}

	rep, err := replay.Verify(bundle)
	if err != nil {
		return err
	}

	fmt.Printf("Verified %d inputs and %d frames\n\n", rep.Inputs, rep.Frames)
	for i, score := range rep.Got {
		res := rewards.Lookup(score)
		fmt.Printf("  Run %d: %d  %s  +%d coins\n", i+1, int(score), res.Tier.Label, res.Tier.Coins)
	}
	if len(rep.Got) == 0 {
		fmt.Println("  No run finished in this recording.")
	}
	return nil
}
