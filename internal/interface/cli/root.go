package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/haasonsaas/session-memory/internal/core/config"
)

var appConfig, _ = config.Load()

var (
	dbPath      string
	projectPath string
	versionInfo string
)

// SetVersion sets the version information from build-time ldflags
func SetVersion(version, commit, date string) {
	versionInfo = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)
	rootCmd.Version = versionInfo
}

// Execute runs the CLI
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "session-memory",
	Short: "Persistent activity ledger for coding-assistant sessions",
	Long: `session-memory - track file reads, changes, tests, notes, and errors
per project session, with analytics and export on top.

Each project directory gets one active session. Log events as you work,
then query, analyze, or export the ledger.`,
	// Sessions are keyed by the literal path string, so normalize a
	// user-supplied --project before anything touches the ledger.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		abs, err := filepath.Abs(projectPath)
		if err != nil {
			return fmt.Errorf("failed to resolve project path: %w", err)
		}
		projectPath = abs
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func init() {
	// Global flags. The working directory is resolved exactly once,
	// here; the core packages only ever see explicit paths.
	defaultDB := appConfig.DBPath
	if defaultDB == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "~"
		}
		defaultDB = filepath.Join(home, ".session-memory.db")
	}

	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", defaultDB, "Database path")
	rootCmd.PersistentFlags().StringVar(&projectPath, "project", cwd, "Project directory the session belongs to")
}
