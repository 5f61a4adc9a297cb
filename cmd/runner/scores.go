package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/golem-runner/internal/registry"
	"github.com/vovakirdan/golem-runner/internal/storage"
	"github.com/vovakirdan/golem-runner/internal/themes"
)

var flagScoresLimit int

var scoresCmd = &cobra.Command{
	Use:   "scores [theme]",
	Short: "Show the best runs for a course",
	Long: `Display the best runs recorded for the specified course
(default: desert).

Examples:
  runner scores
  runner scores desert
  runner scores forest --limit 25`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of runs to show")
}

func runScores(_ *cobra.Command, args []string) error {
	themeID := themes.Default
	if len(args) == 1 {
		themeID = args[0]
	}

	theme, err := registry.Create(themeID)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Run 'runner list' to see available courses.")
		return err
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.TopRuns(themeID, flagScoresLimit)
	if err != nil {
		return err
	}

	fmt.Printf("Best Runs - %s\n", theme.Title)
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'runner play %s' to set the first record!\n", themeID)
		return nil
	}

	fmt.Printf("  %-4s  %-8s  %-10s  %-5s  %-12s  %s\n", "Rank", "Score", "Tier", "Coins", "Golem", "Date")
	fmt.Printf("  %-4s  %-8s  %-10s  %-5s  %-12s  %s\n", "----", "-----", "----", "-----", "-----", "----")

	for i, r := range runs {
		dateStr := r.CreatedAt.Local().Format("2006-01-02 15:04")
		fmt.Printf("  %-4d  %-8d  %-10s  %-5d  %-12s  %s\n", i+1, r.Score, r.Tier, r.Coins, r.GolemID, dateStr)
	}

	fmt.Println()
	if stats, err := store.ThemeStats(themeID); err == nil {
		fmt.Printf("Best: %d  |  Runs: %d  |  Avg: %.0f  |  Coins paid: %d\n",
			stats.HighScore, stats.RunsCount, stats.AvgScore, stats.TotalCoins)
	}
	return nil
}
