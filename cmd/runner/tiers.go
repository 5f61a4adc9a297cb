package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/golem-runner/internal/rewards"
)

var tiersCmd = &cobra.Command{
	Use:   "tiers [score]",
	Short: "Show the reward table",
	Long: `Print the score tiers and their coin payouts. With a score, also show
which tier it lands in and the progress toward the next one.

Examples:
  runner tiers
  runner tiers 4200`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTiers,
}

func runTiers(_ *cobra.Command, args []string) error {
	fmt.Printf("  %-10s  %-13s  %s\n", "Tier", "Score", "Coins")
	fmt.Printf("  %-10s  %-13s  %s\n", "----", "-----", "-----")
	for _, t := range rewards.DefaultTable {
		band := fmt.Sprintf("%d+", t.Min)
		if !t.Unbounded() {
			band = fmt.Sprintf("%d-%d", t.Min, t.Max)
		}
		fmt.Printf("  %-10s  %-13s  %d\n", t.Label, band, t.Coins)
	}

	if len(args) == 0 {
		return nil
	}

	score, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("invalid score %q: %w", args[0], err)
	}
	res := rewards.Lookup(score)
	fmt.Println()
	fmt.Printf("Score %d: %s, %d coins, %.1f%% through the tier", int(score), res.Tier.Label, res.Tier.Coins, res.Percentage)
	if res.Next != nil {
		fmt.Printf(" (next: %s at %d)", res.Next.Label, res.Next.Min)
	}
	fmt.Println()
	return nil
}
