package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/haasonsaas/session-memory/internal/core/db"
	"github.com/haasonsaas/session-memory/internal/core/ledger"
	"github.com/haasonsaas/session-memory/internal/core/session"
)

var readContext string

var readCmd = &cobra.Command{
	Use:   "read <file>",
	Short: "Record that a file was read",
	Long: `Record a file read in the current session. The file's content digest
is captured if the file is readable, and a context description is inferred
from the path and contents unless one is given explicitly.

Examples:
  session-memory read src/api/users.py
  session-memory read config.yaml --context "Checking deploy settings"`,
	Args: cobra.ExactArgs(1),
	RunE: runRead,
}

func init() {
	readCmd.Flags().StringVar(&readContext, "context", "", "Context description (inferred if omitted)")
	rootCmd.AddCommand(readCmd)
}

func runRead(cmd *cobra.Command, args []string) error {
	filePath, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("failed to resolve file path: %w", err)
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
	if _, err := led.LogRead(sessionID, filePath, readContext); err != nil {
		return fmt.Errorf("failed to log read: %w", err)
	}

	fmt.Printf("Logged read: %s\n", filePath)
	return nil
}
