package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/klauspost/compress/gzip"
	"github.com/spf13/cobra"

	"github.com/haasonsaas/session-memory/internal/core/db"
	"github.com/haasonsaas/session-memory/internal/core/export"
	"github.com/haasonsaas/session-memory/internal/core/session"
)

var (
	exportOutput string
	exportCopy   bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the session as JSON",
	Long: `Export the current session's full activity as a JSON document.

By default the document is printed to stdout. Use --output to write it
to a file instead; a path ending in .gz is gzip-compressed. Use --copy
to place the document on the system clipboard.

Examples:
  session-memory export
  session-memory export --output session.json
  session-memory export -o session.json.gz
  session-memory export --copy`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file path (default: stdout)")
	exportCmd.Flags().BoolVar(&exportCopy, "copy", false, "Copy the export to the clipboard")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
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

	snapshot, err := export.Build(database, sessionID)
	if err != nil {
		return fmt.Errorf("failed to build export: %w", err)
	}

	data, err := snapshot.JSON()
	if err != nil {
		return fmt.Errorf("failed to serialize export: %w", err)
	}

	if exportCopy {
		if err := clipboard.WriteAll(string(data)); err != nil {
			return fmt.Errorf("failed to copy to clipboard: %w", err)
		}
		fmt.Println("Copied session export to clipboard")
		return nil
	}

	if exportOutput == "" {
		fmt.Println(string(data))
		return nil
	}

	if err := writeExport(exportOutput, data); err != nil {
		return err
	}
	fmt.Printf("Exported session to: %s\n", exportOutput)
	return nil
}

func writeExport(path string, data []byte) error {
	if !strings.HasSuffix(path, ".gz") {
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("failed to write export: %w", err)
		}
		return nil
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	gz := gzip.NewWriter(f)
	if _, err := gz.Write(data); err != nil {
		_ = gz.Close()
		return fmt.Errorf("failed to write export: %w", err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("failed to finish export: %w", err)
	}
	return f.Close()
}
