package vaultmcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// GetActiveFileTool returns the tool definition
func GetActiveFileTool() mcp.Tool {
	return mcp.NewTool("obsidian_get_active_file",
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDescription("Get the content of the currently active file in Obsidian"),
	)
}

// GetActiveFileHandler returns the tool handler
func GetActiveFileHandler(d Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		note, err := d.Client.ActiveFile.GetNote(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to get active file: %v", err)), nil
		}
		return mcp.NewToolResultJSON(note)
	}
}

func RegisterGetActiveFile(s *server.MCPServer, d Deps) {
	s.AddTool(GetActiveFileTool(), GetActiveFileHandler(d))
}

// AppendActiveFileTool returns the tool definition
func AppendActiveFileTool() mcp.Tool {
	return mcp.NewTool("obsidian_append_active_file",
		mcp.WithDescription("Append content to the currently active file"),
		mcp.WithString("content", mcp.Required(), mcp.Description("Content to append")),
	)
}

// AppendActiveFileHandler returns the tool handler
func AppendActiveFileHandler(d Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := getArgs(request)
		content, ok := args["content"].(string)
		if !ok {
			return mcp.NewToolResultError("content must be a string"), nil
		}

		if err := d.Client.ActiveFile.Append(ctx, content); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to append to active file: %v", err)), nil
		}
		return mcp.NewToolResultText("Content appended successfully"), nil
	}
}

func RegisterAppendActiveFile(s *server.MCPServer, d Deps) {
	s.AddTool(AppendActiveFileTool(), AppendActiveFileHandler(d))
}

// GetDailyNoteTool returns the tool definition
func GetDailyNoteTool() mcp.Tool {
	return mcp.NewTool("obsidian_get_daily_note",
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDescription("Get the content of today's daily note"),
	)
}

// GetDailyNoteHandler returns the tool handler
func GetDailyNoteHandler(d Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		note, err := d.Client.Periodic.GetCurrentNote(ctx, "daily")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to get daily note: %v", err)), nil
		}
		return mcp.NewToolResultJSON(note)
	}
}

func RegisterGetDailyNote(s *server.MCPServer, d Deps) {
	s.AddTool(GetDailyNoteTool(), GetDailyNoteHandler(d))
}

// OpenNoteTool returns the tool definition
func OpenNoteTool() mcp.Tool {
	return mcp.NewTool("obsidian_open_note",
		mcp.WithDescription("Open a note in the Obsidian UI, resolving the path case-insensitively first"),
		mcp.WithString("path", mcp.Required(), mcp.Description("Vault-relative path to the note")),
		mcp.WithBoolean("new_leaf", mcp.Description("Open in a new leaf (tab)")),
	)
}

// OpenNoteHandler returns the tool handler
func OpenNoteHandler(d Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := getArgs(request)
		path, _ := args["path"].(string)
		newLeaf, _ := args["new_leaf"].(bool)

		res, err := d.Resolver.Resolve(ctx, path)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to resolve %q: %v", path, err)), nil
		}
		if err := d.Client.Open.File(ctx, res.Path, newLeaf); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to open note: %v", err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Opened %s", res.Path)), nil
	}
}

func RegisterOpenNote(s *server.MCPServer, d Deps) {
	s.AddTool(OpenNoteTool(), OpenNoteHandler(d))
}
