package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/golem-runner/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available courses",
	Long:  `Shows a list of all obstacle themes registered in the runner.`,
	Run:   runList,
}

func runList(_ *cobra.Command, _ []string) {
	themes := registry.List()

	if len(themes) == 0 {
		fmt.Println("No courses available.")
		return
	}

	fmt.Println("Available courses:")
	fmt.Println()

	// Calculate column widths
	maxIDLen, maxTitleLen := 2, 5 // "ID", "Title" headers
	for _, t := range themes {
		maxIDLen = max(maxIDLen, len(t.ID))
		maxTitleLen = max(maxTitleLen, len(t.Title))
	}

	fmt.Printf("  %-*s  %-*s  %s\n", maxIDLen, "ID", maxTitleLen, "Title", "Description")
	fmt.Printf("  %-*s  %-*s  %s\n", maxIDLen, "--", maxTitleLen, "-----", "-----------")

	for _, t := range themes {
		fmt.Printf("  %-*s  %-*s  %s\n", maxIDLen, t.ID, maxTitleLen, t.Title, t.Description)
	}

	fmt.Println()
	fmt.Println("Run 'runner play <id>' to run a course.")
}
