package cli

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/haasonsaas/session-memory/internal/core/db"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show database statistics",
	Long: `Display statistics about the session database across every project.

Shows session and event counts, date ranges, the most active project,
and storage info.`,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	database, err := db.New(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		_ = database.Close()
	}()

	stats, err := database.GetStats()
	if err != nil {
		return fmt.Errorf("failed to gather statistics: %w", err)
	}

	fmt.Println("Database Statistics")
	fmt.Println("===================")
	fmt.Println()

	fmt.Printf("Total Sessions:    %d\n", stats.TotalSessions)
	fmt.Printf("Files Read:        %d\n", stats.TotalReads)
	fmt.Printf("Changes Made:      %d\n", stats.TotalChanges)
	fmt.Printf("Tests Run:         %d\n", stats.TotalTests)
	fmt.Printf("Notes Added:       %d\n", stats.TotalNotes)
	fmt.Printf("Errors Logged:     %d\n", stats.TotalErrors)

	if stats.TotalSessions > 0 {
		fmt.Println()
		if !stats.OldestSession.IsZero() {
			fmt.Printf("Oldest Session:    %s\n", stats.OldestSession.Format("Jan 2, 2006 3:04 PM"))
		}
		if !stats.NewestActivity.IsZero() {
			fmt.Printf("Newest Activity:   %s (%s)\n",
				stats.NewestActivity.Format("Jan 2, 2006 3:04 PM"),
				humanize.Time(stats.NewestActivity))
		}

		if stats.MostActiveProject != "" {
			fmt.Println()
			fmt.Printf("Most Active Project:\n")
			fmt.Printf("  Path:     %s\n", stats.MostActiveProject)
			fmt.Printf("  Sessions: %d\n", stats.MostActiveProjectCount)
		}
	}

	fmt.Println()
	fmt.Printf("Database Location: %s\n", dbPath)
	if fileInfo, err := os.Stat(dbPath); err == nil {
		fmt.Printf("Database Size:     %s\n", humanize.Bytes(uint64(fileInfo.Size())))
	}

	return nil
}
