package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haasonsaas/session-memory/cmd/session-memory/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "serve-mcp",
	Short: "Start MCP server for coding assistant integration",
	Long: `Start an MCP (Model Context Protocol) server that lets a coding
assistant log activity to and query the session ledger.

Configure in the assistant's MCP config:
  {
    "mcpServers": {
      "session-memory": {
        "command": "session-memory",
        "args": ["serve-mcp"]
      }
    }
  }
`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	if err := mcp.StartServer(dbPath, projectPath); err != nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}
	return nil
}
