package cli

import (
	"fmt"
	"os"

	"github.com/cbroglie/mustache"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/haasonsaas/session-memory/internal/core/analytics"
	"github.com/haasonsaas/session-memory/internal/core/db"
	"github.com/haasonsaas/session-memory/internal/core/session"
)

var reportOutput string

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render a markdown session report",
	Long: `Render the current session's activity as a markdown report.

The report template lives at ~/.config/session-memory/report_template.md
and uses mustache syntax; without one a built-in template is used.

Examples:
  session-memory report
  session-memory report -o report.md`,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "", "Output file path (default: stdout)")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
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

	s, err := database.GetSession(sessionID)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	if s == nil {
		return fmt.Errorf("session %d not found", sessionID)
	}

	metrics, err := analytics.ForSession(database, sessionID)
	if err != nil {
		return fmt.Errorf("failed to compute analytics: %w", err)
	}

	templateData := map[string]interface{}{
		"project_path":     s.ProjectPath,
		"session_id":       s.ID,
		"session_uid":      s.UID,
		"started_at":       s.StartedAt.Format("2006-01-02 15:04:05"),
		"last_active":      s.LastActive.Format("2006-01-02 15:04:05"),
		"last_active_ago":  humanize.Time(s.LastActive),
		"duration_minutes": metrics.DurationMinutes,
		"files_read":       metrics.FilesRead,
		"changes_made":     metrics.ChangesMade,
		"tests_run":        metrics.TestsRun,
		"notes_added":      metrics.NotesAdded,
		"errors_logged":    metrics.ErrorsLogged,
		"has_success_rate": metrics.TestSuccessRate != nil,
		"has_file_types":   len(metrics.FileTypes) > 0,
	}
	if metrics.TestSuccessRate != nil {
		templateData["test_success_rate"] = fmt.Sprintf("%.1f", *metrics.TestSuccessRate)
	}
	if len(metrics.FileTypes) > 0 {
		fileTypes := make([]map[string]interface{}, 0, len(metrics.FileTypes))
		for _, ft := range metrics.FileTypes {
			fileTypes = append(fileTypes, map[string]interface{}{
				"type":  ft.Type,
				"count": ft.Count,
			})
		}
		templateData["file_types"] = fileTypes
	}

	report, err := mustache.Render(appConfig.ReportTemplate, templateData)
	if err != nil {
		// Fall back to a plain summary if the template fails
		report = fmt.Sprintf("Session #%d for %s: %d reads, %d changes, %d tests\n",
			s.ID, s.ProjectPath, metrics.FilesRead, metrics.ChangesMade, metrics.TestsRun)
	}

	if reportOutput == "" {
		fmt.Print(report)
		return nil
	}

	if err := os.WriteFile(reportOutput, []byte(report), 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	fmt.Printf("Wrote report to: %s\n", reportOutput)
	return nil
}
