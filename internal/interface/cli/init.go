package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haasonsaas/session-memory/internal/core/db"
	"github.com/haasonsaas/session-memory/internal/core/session"
)

var initDescription string

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize or touch the session for this project",
	Long: `Resolve the current session for the project directory, creating one
if none exists yet. Running init again for the same project returns the
same session and bumps its last-active timestamp.

Examples:
  session-memory init
  session-memory init --description "Payment flow refactor"
  session-memory init --project /path/to/repo`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().StringVar(&initDescription, "description", "", "Session description (default: generated from the directory name)")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
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

	if initDescription != "" {
		if err := session.SetDescription(database, sessionID, initDescription); err != nil {
			return fmt.Errorf("failed to set description: %w", err)
		}
	}

	fmt.Printf("Session %d initialized for %s\n", sessionID, projectPath)
	return nil
}
