package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
	"github.com/spf13/cobra"

	"github.com/haasonsaas/session-memory/internal/core/db"
	"github.com/haasonsaas/session-memory/internal/core/models"
	"github.com/haasonsaas/session-memory/internal/core/query"
	"github.com/haasonsaas/session-memory/internal/core/session"
)

var (
	queryLimit int
	queryJSON  bool
	querySince string
)

var queryCmd = &cobra.Command{
	Use:   "query [reads|changes|tests|notes|errors]",
	Short: "Query session activity",
	Long: `Query the current session's activity. With no kind a per-kind summary
is printed; with a kind the most recent entries of that kind are listed.

The --since value accepts natural language ("yesterday", "2 hours ago")
as well as dates like 2026-08-01.

Examples:
  session-memory query
  session-memory query reads --limit 10
  session-memory query changes --since yesterday
  session-memory query tests --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().IntVar(&queryLimit, "limit", appConfig.QueryLimit, "Maximum entries to return")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "Output as JSON")
	queryCmd.Flags().StringVar(&querySince, "since", "", "Only include entries after this time")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	opt := query.Options{Limit: queryLimit}
	if querySince != "" {
		since, err := parseSince(querySince)
		if err != nil {
			return err
		}
		opt.Since = since
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

	if len(args) == 0 {
		summary, err := query.Summary(database, sessionID)
		if err != nil {
			return fmt.Errorf("failed to query summary: %w", err)
		}
		if queryJSON {
			return printJSON(summary)
		}
		fmt.Println("Session Summary:")
		for _, row := range summary {
			fmt.Printf("  %s: %d\n", row.Kind, row.Count)
		}
		return nil
	}

	kind, err := models.ParseEventKind(args[0])
	if err != nil {
		return err
	}

	if queryJSON {
		events, err := query.Events(database, sessionID, kind, opt)
		if err != nil {
			return fmt.Errorf("failed to query %s: %w", kind, err)
		}
		return printJSON(events)
	}

	return printEvents(database, sessionID, kind, opt)
}

func printEvents(database *db.DB, sessionID int64, kind models.EventKind, opt query.Options) error {
	switch kind {
	case models.KindReads:
		reads, err := query.Reads(database, sessionID, opt)
		if err != nil {
			return fmt.Errorf("failed to query reads: %w", err)
		}
		fmt.Printf("Last %d reads:\n", len(reads))
		for _, r := range reads {
			fmt.Printf("  %s (%s)\n", r.FilePath, formatEventTime(r.ReadAt))
			if r.Context != "" {
				fmt.Printf("    Context: %s\n", r.Context)
			}
		}
	case models.KindChanges:
		changes, err := query.Changes(database, sessionID, opt)
		if err != nil {
			return fmt.Errorf("failed to query changes: %w", err)
		}
		fmt.Printf("Last %d changes:\n", len(changes))
		for _, c := range changes {
			fmt.Printf("  %s: %s (%s)\n", c.Kind, c.FilePath, formatEventTime(c.ChangedAt))
			if c.Description != "" {
				fmt.Printf("    %s\n", c.Description)
			}
		}
	case models.KindTests:
		tests, err := query.Tests(database, sessionID, opt)
		if err != nil {
			return fmt.Errorf("failed to query tests: %w", err)
		}
		fmt.Printf("Last %d tests:\n", len(tests))
		for _, t := range tests {
			fmt.Printf("  %s -> %s (%s)\n", t.Command, t.Result, formatEventTime(t.RunAt))
		}
	case models.KindNotes:
		notes, err := query.Notes(database, sessionID, opt)
		if err != nil {
			return fmt.Errorf("failed to query notes: %w", err)
		}
		fmt.Printf("Last %d notes:\n", len(notes))
		for _, n := range notes {
			fmt.Printf("  %s (%s)\n", n.Content, formatEventTime(n.CreatedAt))
			if len(n.Tags) > 0 {
				fmt.Printf("    Tags: %s\n", strings.Join(n.Tags, ", "))
			}
		}
	case models.KindErrors:
		errs, err := query.Errors(database, sessionID, opt)
		if err != nil {
			return fmt.Errorf("failed to query errors: %w", err)
		}
		fmt.Printf("Last %d errors:\n", len(errs))
		for _, e := range errs {
			fmt.Printf("  %s: %s (%s)\n", e.Type, e.Message, formatEventTime(e.OccurredAt))
			if e.FilePath != nil {
				fmt.Printf("    File: %s\n", *e.FilePath)
			}
		}
	default:
		return fmt.Errorf("invalid query kind %q", kind)
	}
	return nil
}

// parseSince parses natural language ("yesterday", "2 hours ago") and
// standard date formats into a lower time bound.
func parseSince(s string) (time.Time, error) {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)

	if result, err := w.Parse(s, time.Now()); err == nil && result != nil {
		return result.Time, nil
	}

	formats := []string{
		"2006-01-02",
		"2006-01-02T15:04:05",
		time.RFC3339,
		"2006/01/02",
	}
	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("could not parse time expression %q", s)
}

// formatEventTime prints event timestamps the way they are stored.
func formatEventTime(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
