package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/haasonsaas/session-memory/internal/core/analytics"
	"github.com/haasonsaas/session-memory/internal/core/db"
	"github.com/haasonsaas/session-memory/internal/core/session"
)

var analyticsJSON bool

var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Show session metrics",
	Long: `Compute metrics for the current session: duration, event counts,
test success rate, the most active file types, and an activity rate.

Examples:
  session-memory analytics
  session-memory analytics --json`,
	RunE: runAnalytics,
}

func init() {
	analyticsCmd.Flags().BoolVar(&analyticsJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(analyticsCmd)
}

func runAnalytics(cmd *cobra.Command, args []string) error {
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

	metrics, err := analytics.ForSession(database, sessionID)
	if err != nil {
		return fmt.Errorf("failed to compute analytics: %w", err)
	}

	if analyticsJSON {
		return printJSON(metrics)
	}

	fmt.Println("Session Analytics")
	fmt.Println(strings.Repeat("=", 50))

	if metrics.DurationMinutes < 60 {
		fmt.Printf("Session duration: %d minutes\n", metrics.DurationMinutes)
	} else {
		fmt.Printf("Session duration: %dh %dm\n", metrics.DurationMinutes/60, metrics.DurationMinutes%60)
	}

	fmt.Printf("Files read: %d\n", metrics.FilesRead)
	fmt.Printf("Changes made: %d\n", metrics.ChangesMade)
	fmt.Printf("Tests run: %d\n", metrics.TestsRun)
	fmt.Printf("Notes added: %d\n", metrics.NotesAdded)
	fmt.Printf("Errors logged: %d\n", metrics.ErrorsLogged)

	if metrics.TestSuccessRate != nil {
		fmt.Printf("Test success rate: %.1f%%\n", *metrics.TestSuccessRate)
	}

	if len(metrics.FileTypes) > 0 {
		fmt.Println()
		fmt.Println("Most active file types:")
		for _, ft := range metrics.FileTypes {
			fmt.Printf("   %s: %d files\n", ft.Type, ft.Count)
		}
	}

	if rate, ok := metrics.ActivityRate(); ok {
		fmt.Println()
		fmt.Printf("Activity rate: %.1f actions/minute\n", rate)
		switch {
		case rate > 2:
			fmt.Println("   High productivity session!")
		case rate > 1:
			fmt.Println("   Good productivity")
		default:
			fmt.Println("   Consider taking breaks between focused work")
		}
	}

	return nil
}
