package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/haasonsaas/session-memory/internal/core/db"
	"github.com/haasonsaas/session-memory/internal/core/ledger"
	"github.com/haasonsaas/session-memory/internal/core/models"
	"github.com/haasonsaas/session-memory/internal/core/session"
)

var changeType string

var changeCmd = &cobra.Command{
	Use:   "change <file> <description>",
	Short: "Record a file change",
	Long: `Record a change to a file in the current session. The change type is
one of create, modify, or delete. For modify and delete the digest recorded
by the most recent read of the file is stored as the before state; for
create and modify the file's current digest is stored as the after state.

Examples:
  session-memory change src/auth.py "Fix token refresh"
  session-memory change docs/old.md "Remove stale doc" --type delete`,
	Args: cobra.ExactArgs(2),
	RunE: runChange,
}

func init() {
	changeCmd.Flags().StringVar(&changeType, "type", "modify", "Change type: create, modify, or delete")
	rootCmd.AddCommand(changeCmd)
}

func runChange(cmd *cobra.Command, args []string) error {
	kind, err := models.ParseChangeKind(changeType)
	if err != nil {
		return err
	}

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
	if _, err := led.LogChange(sessionID, filePath, kind, args[1]); err != nil {
		return fmt.Errorf("failed to log change: %w", err)
	}

	fmt.Printf("Logged %s: %s\n", kind, filePath)
	return nil
}
