package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haasonsaas/session-memory/internal/core/db"
	"github.com/haasonsaas/session-memory/internal/core/ledger"
	"github.com/haasonsaas/session-memory/internal/core/session"
)

var noteTags []string

var noteCmd = &cobra.Command{
	Use:   "note <content>",
	Short: "Add a note to the session",
	Long: `Add a free-form note to the current session, optionally tagged.

Examples:
  session-memory note "Auth bug is a race in token refresh"
  session-memory note "Ship by Friday" --tags deadline,release`,
	Args: cobra.ExactArgs(1),
	RunE: runNote,
}

func init() {
	noteCmd.Flags().StringSliceVar(&noteTags, "tags", nil, "Comma-separated tags")
	rootCmd.AddCommand(noteCmd)
}

func runNote(cmd *cobra.Command, args []string) error {
	database, err := db.New(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		_ = database.Close()
	}()

	sessionID, err := session.Resolve(database, projectPath)
	if err != nil {
		return fmt.Errorf("failed to resolve session: %w", err)
	}

	led := ledger.New(database)
	if _, err := led.AddNote(sessionID, args[0], noteTags); err != nil {
		return fmt.Errorf("failed to add note: %w", err)
	}

	fmt.Println("Note added")
	return nil
}
