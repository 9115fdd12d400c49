package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/haasonsaas/session-memory/internal/core/db"
)

var sessionsLimit int

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List tracked sessions",
	Long: `List sessions across all projects in reverse chronological order.

Examples:
  session-memory sessions
  session-memory sessions --limit 5`,
	RunE: runSessions,
}

func init() {
	sessionsCmd.Flags().IntVar(&sessionsLimit, "limit", 20, "Maximum number of sessions to display")
	rootCmd.AddCommand(sessionsCmd)
}

func runSessions(cmd *cobra.Command, args []string) error {
	database, err := db.New(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		_ = database.Close()
	}()

	sessions, err := database.ListSessions(sessionsLimit)
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}

	if len(sessions) == 0 {
		fmt.Println("No sessions found. Run 'session-memory init' in a project to start one.")
		return nil
	}

	fmt.Printf("Showing %d session(s)\n", len(sessions))
	fmt.Println()

	for i, s := range sessions {
		fmt.Printf("[%d] #%d %s\n", i+1, s.ID, s.ProjectPath)
		if s.Description != "" {
			fmt.Printf("    %s\n", s.Description)
		}
		fmt.Printf("    Last active: %s\n", humanize.Time(s.LastActive))
		fmt.Println()
	}

	return nil
}
