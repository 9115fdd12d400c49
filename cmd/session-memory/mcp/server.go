// Package mcp exposes the session ledger over the Model Context
// Protocol so a coding assistant can log and query activity directly.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/haasonsaas/session-memory/internal/core/analytics"
	"github.com/haasonsaas/session-memory/internal/core/db"
	"github.com/haasonsaas/session-memory/internal/core/ledger"
	"github.com/haasonsaas/session-memory/internal/core/models"
	"github.com/haasonsaas/session-memory/internal/core/query"
	"github.com/haasonsaas/session-memory/internal/core/session"
)

// LogReadArgs defines arguments for the log_read tool
type LogReadArgs struct {
	FilePath    string `json:"file_path"`
	Context     string `json:"context,omitempty"`
	ProjectPath string `json:"project_path,omitempty"`
}

// LogChangeArgs defines arguments for the log_change tool
type LogChangeArgs struct {
	FilePath    string `json:"file_path"`
	Description string `json:"description"`
	ChangeType  string `json:"change_type,omitempty"`
	ProjectPath string `json:"project_path,omitempty"`
}

// LogTestArgs defines arguments for the log_test tool
type LogTestArgs struct {
	Command     string `json:"command"`
	Result      string `json:"result"`
	Output      string `json:"output,omitempty"`
	ProjectPath string `json:"project_path,omitempty"`
}

// AddNoteArgs defines arguments for the add_note tool
type AddNoteArgs struct {
	Content     string `json:"content"`
	Tags        string `json:"tags,omitempty"`
	ProjectPath string `json:"project_path,omitempty"`
}

// LogErrorArgs defines arguments for the log_error tool
type LogErrorArgs struct {
	ErrorType   string `json:"error_type"`
	Message     string `json:"message"`
	FilePath    string `json:"file_path,omitempty"`
	Context     string `json:"context,omitempty"`
	ProjectPath string `json:"project_path,omitempty"`
}

// QuerySessionArgs defines arguments for the query_session tool
type QuerySessionArgs struct {
	Kind        string `json:"kind,omitempty"`
	Limit       int    `json:"limit,omitempty"`
	ProjectPath string `json:"project_path,omitempty"`
}

// SessionAnalyticsArgs defines arguments for the session_analytics tool
type SessionAnalyticsArgs struct {
	ProjectPath string `json:"project_path,omitempty"`
}

// StartServer starts the MCP server. Tools default to defaultProject
// when a call does not carry its own project_path.
func StartServer(dbPath, defaultProject string) error {
	database, err := db.New(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if closeErr := database.Close(); closeErr != nil {
			log.Printf("Error closing database: %v", closeErr)
		}
	}()

	s := server.NewMCPServer(
		"SessionMemory",
		"1.0.0",
	)

	readTool := mcp.NewTool("log_read",
		mcp.WithDescription("Record that a file was read in the current session. Captures a content digest and infers a context description if none is given."),
		mcp.WithString("file_path",
			mcp.Required(),
			mcp.Description("Path of the file that was read")),
		mcp.WithString("context",
			mcp.Description("What the read was for (inferred from the file if omitted)")),
		mcp.WithString("project_path",
			mcp.Description("Project directory the session belongs to (defaults to the server's project)")),
	)
	s.AddTool(readTool, makeLogReadHandler(database, defaultProject))

	changeTool := mcp.NewTool("log_change",
		mcp.WithDescription("Record a file create, modify, or delete in the current session. Tracks before/after content digests."),
		mcp.WithString("file_path",
			mcp.Required(),
			mcp.Description("Path of the file that changed")),
		mcp.WithString("description",
			mcp.Required(),
			mcp.Description("What was changed and why")),
		mcp.WithString("change_type",
			mcp.Description("One of create, modify, delete (default: modify)")),
		mcp.WithString("project_path",
			mcp.Description("Project directory the session belongs to")),
	)
	s.AddTool(changeTool, makeLogChangeHandler(database, defaultProject))

	testTool := mcp.NewTool("log_test",
		mcp.WithDescription("Record a test run and its outcome in the current session."),
		mcp.WithString("command",
			mcp.Required(),
			mcp.Description("Test command that was executed")),
		mcp.WithString("result",
			mcp.Required(),
			mcp.Description("One of pass, fail, error")),
		mcp.WithString("output",
			mcp.Description("Captured test output")),
		mcp.WithString("project_path",
			mcp.Description("Project directory the session belongs to")),
	)
	s.AddTool(testTool, makeLogTestHandler(database, defaultProject))

	noteTool := mcp.NewTool("add_note",
		mcp.WithDescription("Add a free-form note to the current session, optionally tagged."),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("Note content")),
		mcp.WithString("tags",
			mcp.Description("Comma-separated tags")),
		mcp.WithString("project_path",
			mcp.Description("Project directory the session belongs to")),
	)
	s.AddTool(noteTool, makeAddNoteHandler(database, defaultProject))

	errorTool := mcp.NewTool("log_error",
		mcp.WithDescription("Record an error encountered during the current session."),
		mcp.WithString("error_type",
			mcp.Required(),
			mcp.Description("Error class or category, e.g. ImportError")),
		mcp.WithString("message",
			mcp.Required(),
			mcp.Description("Error message")),
		mcp.WithString("file_path",
			mcp.Description("File the error occurred in")),
		mcp.WithString("context",
			mcp.Description("What was happening when the error occurred")),
		mcp.WithString("project_path",
			mcp.Description("Project directory the session belongs to")),
	)
	s.AddTool(errorTool, makeLogErrorHandler(database, defaultProject))

	queryTool := mcp.NewTool("query_session",
		mcp.WithDescription("Query the current session's activity. Without a kind returns per-kind counts; with a kind (reads, changes, tests, notes, errors) returns the most recent entries."),
		mcp.WithString("kind",
			mcp.Description("One of reads, changes, tests, notes, errors")),
		mcp.WithNumber("limit",
			mcp.Description("Max entries to return (default: 50)")),
		mcp.WithString("project_path",
			mcp.Description("Project directory the session belongs to")),
	)
	s.AddTool(queryTool, makeQuerySessionHandler(database, defaultProject))

	analyticsTool := mcp.NewTool("session_analytics",
		mcp.WithDescription("Compute metrics for the current session: duration, event counts, test success rate, and most active file types."),
		mcp.WithString("project_path",
			mcp.Description("Project directory the session belongs to")),
	)
	s.AddTool(analyticsTool, makeSessionAnalyticsHandler(database, defaultProject))

	return server.ServeStdio(s)
}

// resolveSession picks the call's project (or the server default) and
// resolves its active session.
func resolveSession(database *db.DB, projectPath, defaultProject string) (int64, error) {
	project := projectPath
	if project == "" {
		project = defaultProject
	}
	return session.Resolve(database, project)
}

// absolutePath anchors relative tool paths at the project directory
// rather than the server process's working directory.
func absolutePath(filePath, projectPath, defaultProject string) string {
	if filepath.IsAbs(filePath) {
		return filePath
	}
	project := projectPath
	if project == "" {
		project = defaultProject
	}
	return filepath.Join(project, filePath)
}

func decodeArgs(request mcp.CallToolRequest, v interface{}) error {
	argsBytes, _ := json.Marshal(request.Params.Arguments)
	return json.Unmarshal(argsBytes, v)
}

func toolResultJSON(v interface{}) (*mcp.CallToolResult, error) {
	resultJSON, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(resultJSON)), nil
}

func makeLogReadHandler(database *db.DB, defaultProject string) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args LogReadArgs
		if err := decodeArgs(request, &args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		if args.FilePath == "" {
			return mcp.NewToolResultError("file_path is required"), nil
		}

		sessionID, err := resolveSession(database, args.ProjectPath, defaultProject)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to resolve session: %v", err)), nil
		}

		filePath := absolutePath(args.FilePath, args.ProjectPath, defaultProject)
		led := ledger.New(database)
		id, err := led.LogRead(sessionID, filePath, args.Context)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to log read: %v", err)), nil
		}

		return toolResultJSON(map[string]interface{}{
			"logged":     "read",
			"event_id":   id,
			"session_id": sessionID,
			"file_path":  filePath,
		})
	}
}

func makeLogChangeHandler(database *db.DB, defaultProject string) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args LogChangeArgs
		if err := decodeArgs(request, &args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		if args.FilePath == "" || args.Description == "" {
			return mcp.NewToolResultError("file_path and description are required"), nil
		}

		changeType := args.ChangeType
		if changeType == "" {
			changeType = string(models.ChangeModify)
		}
		kind, err := models.ParseChangeKind(changeType)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		sessionID, err := resolveSession(database, args.ProjectPath, defaultProject)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to resolve session: %v", err)), nil
		}

		filePath := absolutePath(args.FilePath, args.ProjectPath, defaultProject)
		led := ledger.New(database)
		id, err := led.LogChange(sessionID, filePath, kind, args.Description)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to log change: %v", err)), nil
		}

		return toolResultJSON(map[string]interface{}{
			"logged":      string(kind),
			"event_id":    id,
			"session_id":  sessionID,
			"file_path":   filePath,
			"description": args.Description,
		})
	}
}

func makeLogTestHandler(database *db.DB, defaultProject string) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args LogTestArgs
		if err := decodeArgs(request, &args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		if args.Command == "" || args.Result == "" {
			return mcp.NewToolResultError("command and result are required"), nil
		}

		result, err := models.ParseTestResult(args.Result)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		sessionID, err := resolveSession(database, args.ProjectPath, defaultProject)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to resolve session: %v", err)), nil
		}

		led := ledger.New(database)
		id, err := led.LogTest(sessionID, args.Command, result, args.Output)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to log test: %v", err)), nil
		}

		return toolResultJSON(map[string]interface{}{
			"logged":     "test",
			"event_id":   id,
			"session_id": sessionID,
			"command":    args.Command,
			"result":     string(result),
		})
	}
}

func makeAddNoteHandler(database *db.DB, defaultProject string) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args AddNoteArgs
		if err := decodeArgs(request, &args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		if args.Content == "" {
			return mcp.NewToolResultError("content is required"), nil
		}

		var tags []string
		for _, tag := range strings.Split(args.Tags, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				tags = append(tags, tag)
			}
		}

		sessionID, err := resolveSession(database, args.ProjectPath, defaultProject)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to resolve session: %v", err)), nil
		}

		led := ledger.New(database)
		id, err := led.AddNote(sessionID, args.Content, tags)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to add note: %v", err)), nil
		}

		return toolResultJSON(map[string]interface{}{
			"logged":     "note",
			"event_id":   id,
			"session_id": sessionID,
			"tags":       tags,
		})
	}
}

func makeLogErrorHandler(database *db.DB, defaultProject string) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args LogErrorArgs
		if err := decodeArgs(request, &args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		if args.ErrorType == "" || args.Message == "" {
			return mcp.NewToolResultError("error_type and message are required"), nil
		}

		sessionID, err := resolveSession(database, args.ProjectPath, defaultProject)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to resolve session: %v", err)), nil
		}

		filePath := args.FilePath
		if filePath != "" {
			filePath = absolutePath(filePath, args.ProjectPath, defaultProject)
		}

		led := ledger.New(database)
		id, err := led.LogError(sessionID, args.ErrorType, args.Message, filePath, args.Context)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to log error: %v", err)), nil
		}

		return toolResultJSON(map[string]interface{}{
			"logged":     "error",
			"event_id":   id,
			"session_id": sessionID,
			"error_type": args.ErrorType,
		})
	}
}

func makeQuerySessionHandler(database *db.DB, defaultProject string) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args QuerySessionArgs
		if err := decodeArgs(request, &args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		sessionID, err := resolveSession(database, args.ProjectPath, defaultProject)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to resolve session: %v", err)), nil
		}

		if args.Kind == "" {
			summary, err := query.Summary(database, sessionID)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("query failed: %v", err)), nil
			}
			return toolResultJSON(map[string]interface{}{
				"session_id": sessionID,
				"summary":    summary,
			})
		}

		kind, err := models.ParseEventKind(args.Kind)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		events, err := query.Events(database, sessionID, kind, query.Options{Limit: args.Limit})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("query failed: %v", err)), nil
		}

		return toolResultJSON(map[string]interface{}{
			"session_id": sessionID,
			string(kind): events,
		})
	}
}

func makeSessionAnalyticsHandler(database *db.DB, defaultProject string) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args SessionAnalyticsArgs
		if err := decodeArgs(request, &args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		sessionID, err := resolveSession(database, args.ProjectPath, defaultProject)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to resolve session: %v", err)), nil
		}

		metrics, err := analytics.ForSession(database, sessionID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("analytics failed: %v", err)), nil
		}

		return toolResultJSON(metrics)
	}
}
