package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haasonsaas/session-memory/internal/core/db"
	"github.com/haasonsaas/session-memory/internal/core/ledger"
	"github.com/haasonsaas/session-memory/internal/core/models"
	"github.com/haasonsaas/session-memory/internal/core/session"
)

var testOutput string

var testCmd = &cobra.Command{
	Use:   "test <command> <result>",
	Short: "Record a test run",
	Long: `Record a test run in the current session. The result is one of
pass, fail, or error.

Examples:
  session-memory test "pytest tests/" pass
  session-memory test "go vet ./..." fail --output "auth.go:12: unreachable code"`,
	Args: cobra.ExactArgs(2),
	RunE: runTest,
}

func init() {
	testCmd.Flags().StringVar(&testOutput, "output", "", "Captured test output")
	rootCmd.AddCommand(testCmd)
}

func runTest(cmd *cobra.Command, args []string) error {
	result, err := models.ParseTestResult(args[1])
	if err != nil {
		return err
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
	if _, err := led.LogTest(sessionID, args[0], result, testOutput); err != nil {
		return fmt.Errorf("failed to log test: %w", err)
	}

	fmt.Printf("Logged test (%s): %s\n", result, args[0])
	return nil
}
