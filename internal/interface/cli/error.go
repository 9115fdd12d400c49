package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/haasonsaas/session-memory/internal/core/db"
	"github.com/haasonsaas/session-memory/internal/core/ledger"
	"github.com/haasonsaas/session-memory/internal/core/session"
)

var (
	errorFile    string
	errorContext string
)

var errorCmd = &cobra.Command{
	Use:   "error <type> <message>",
	Short: "Record an error encountered during the session",
	Long: `Record an error in the current session, optionally attached to a file
and a context description.

Examples:
  session-memory error ImportError "No module named requests"
  session-memory error SyntaxError "unexpected indent" --file src/main.py`,
	Args: cobra.ExactArgs(2),
	RunE: runError,
}

func init() {
	errorCmd.Flags().StringVar(&errorFile, "file", "", "File the error occurred in")
	errorCmd.Flags().StringVar(&errorContext, "context", "", "What was happening when the error occurred")
	rootCmd.AddCommand(errorCmd)
}

func runError(cmd *cobra.Command, args []string) error {
	filePath := errorFile
	if filePath != "" {
		abs, err := filepath.Abs(filePath)
		if err != nil {
			return fmt.Errorf("failed to resolve file path: %w", err)
		}
		filePath = abs
	}

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
	if _, err := led.LogError(sessionID, args[0], args[1], filePath, errorContext); err != nil {
		return fmt.Errorf("failed to log error: %w", err)
	}

	fmt.Printf("Logged error: %s\n", args[0])
	return nil
}
