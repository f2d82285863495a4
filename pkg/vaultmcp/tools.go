// Package vaultmcp registers MCP tools over the Obsidian vault. Every
// tool that mutates or reads an existing note resolves its path first,
// so a case-mismatched path either maps onto exactly one real file or
// fails with an explicit conflict.
package vaultmcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/benpeter/obsidian-mcp-server-sub001/pkg/obsidian"
	"github.com/benpeter/obsidian-mcp-server-sub001/pkg/vault"
)

// Deps bundles the collaborators tool handlers need.
type Deps struct {
	Client   *obsidian.Client
	Backend  *vault.RemoteVault
	Resolver *vault.Resolver
	Search   *vault.Orchestrator
}

// Helper to get the arguments map.
func getArgs(req mcp.CallToolRequest) map[string]interface{} {
	args, ok := req.Params.Arguments.(map[string]interface{})
	if !ok {
		return make(map[string]interface{})
	}
	return args
}

// ReadNoteTool returns the tool definition
func ReadNoteTool() mcp.Tool {
	return mcp.NewTool("obsidian_read_note",
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDescription("Read a note from the vault. The path is resolved case-insensitively when no exact match exists."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Vault-relative path to the note")),
	)
}

// ReadNoteHandler returns the tool handler
func ReadNoteHandler(d Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := getArgs(request)
		path, _ := args["path"].(string)

		res, err := d.Resolver.Resolve(ctx, path)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to resolve %q: %v", path, err)), nil
		}
		note, err := d.Client.Vault.GetNote(ctx, res.Path)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to read note: %v", err)), nil
		}

		return mcp.NewToolResultJSON(map[string]interface{}{
			"note":          note,
			"resolvedPath":  res.Path,
			"caseCorrected": res.CaseCorrected,
		})
	}
}

func RegisterReadNote(s *server.MCPServer, d Deps) {
	s.AddTool(ReadNoteTool(), ReadNoteHandler(d))
}

// CreateOrUpdateNoteTool returns the tool definition
func CreateOrUpdateNoteTool() mcp.Tool {
	return mcp.NewTool("obsidian_create_or_update_note",
		mcp.WithDescription("Create a note or replace an existing one. The given path is written exactly as supplied."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Vault-relative path to the note")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Full note content")),
	)
}

// CreateOrUpdateNoteHandler returns the tool handler
func CreateOrUpdateNoteHandler(d Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := getArgs(request)
		path, _ := args["path"].(string)
		content, _ := args["content"].(string)

		if err := d.Client.Vault.Create(ctx, vault.Normalize(path), content); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to write note: %v", err)), nil
		}
		return mcp.NewToolResultText("Note written successfully"), nil
	}
}

func RegisterCreateOrUpdateNote(s *server.MCPServer, d Deps) {
	s.AddTool(CreateOrUpdateNoteTool(), CreateOrUpdateNoteHandler(d))
}

// AppendNoteTool returns the tool definition
func AppendNoteTool() mcp.Tool {
	return mcp.NewTool("obsidian_append_note",
		mcp.WithDescription("Append content to an existing note, resolving the path case-insensitively first"),
		mcp.WithString("path", mcp.Required(), mcp.Description("Vault-relative path to the note")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Content to append")),
	)
}

// AppendNoteHandler returns the tool handler
func AppendNoteHandler(d Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := getArgs(request)
		path, _ := args["path"].(string)
		content, ok := args["content"].(string)
		if !ok {
			return mcp.NewToolResultError("content must be a string"), nil
		}

		res, err := d.Resolver.Resolve(ctx, path)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to resolve %q: %v", path, err)), nil
		}
		if err := d.Client.Vault.Append(ctx, res.Path, content); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to append to note: %v", err)), nil
		}

		msg := fmt.Sprintf("Content appended to %s", res.Path)
		if res.CaseCorrected {
			msg += " (path case corrected)"
		}
		return mcp.NewToolResultText(msg), nil
	}
}

func RegisterAppendNote(s *server.MCPServer, d Deps) {
	s.AddTool(AppendNoteTool(), AppendNoteHandler(d))
}

// DeleteNoteTool returns the tool definition
func DeleteNoteTool() mcp.Tool {
	return mcp.NewTool("obsidian_delete_note",
		mcp.WithDescription("Delete a note, resolving the path case-insensitively first"),
		mcp.WithString("path", mcp.Required(), mcp.Description("Vault-relative path to the note")),
	)
}

// DeleteNoteHandler returns the tool handler
func DeleteNoteHandler(d Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := getArgs(request)
		path, _ := args["path"].(string)

		res, err := d.Resolver.Resolve(ctx, path)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to resolve %q: %v", path, err)), nil
		}
		if err := d.Client.Vault.Delete(ctx, res.Path); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to delete note: %v", err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Deleted %s", res.Path)), nil
	}
}

func RegisterDeleteNote(s *server.MCPServer, d Deps) {
	s.AddTool(DeleteNoteTool(), DeleteNoteHandler(d))
}

// MoveNoteTool returns the tool definition
func MoveNoteTool() mcp.Tool {
	return mcp.NewTool("obsidian_move_note",
		mcp.WithDescription("Move or rename a note. The source path is resolved case-insensitively; the destination is written exactly as supplied."),
		mcp.WithString("old_path", mcp.Required(), mcp.Description("Current vault-relative path")),
		mcp.WithString("new_path", mcp.Required(), mcp.Description("Destination vault-relative path")),
		mcp.WithBoolean("overwrite", mcp.Description("Replace the destination if it already exists")),
	)
}

// MoveNoteHandler returns the tool handler
func MoveNoteHandler(d Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := getArgs(request)
		oldPath, _ := args["old_path"].(string)
		newPath, _ := args["new_path"].(string)
		overwrite, _ := args["overwrite"].(bool)

		res, err := d.Resolver.Resolve(ctx, oldPath)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to resolve %q: %v", oldPath, err)), nil
		}

		dest := vault.Normalize(newPath)
		if dest == res.Path {
			return mcp.NewToolResultError("source and destination are the same file"), nil
		}
		if !overwrite {
			if _, err := d.Backend.Stat(ctx, dest); err == nil {
				return mcp.NewToolResultError(fmt.Sprintf("destination %q already exists (pass overwrite to replace it)", dest)), nil
			} else if !vault.IsNotFound(err) {
				return mcp.NewToolResultError(fmt.Sprintf("failed to check destination: %v", err)), nil
			}
		}

		content, err := d.Client.Vault.Get(ctx, res.Path)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to read source note: %v", err)), nil
		}
		if err := d.Client.Vault.Create(ctx, dest, content); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to write destination note: %v", err)), nil
		}
		if err := d.Client.Vault.Delete(ctx, res.Path); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("copied to %q but failed to delete source %q: %v", dest, res.Path, err)), nil
		}

		return mcp.NewToolResultJSON(map[string]interface{}{
			"oldPath":       res.Path,
			"newPath":       dest,
			"caseCorrected": res.CaseCorrected,
		})
	}
}

func RegisterMoveNote(s *server.MCPServer, d Deps) {
	s.AddTool(MoveNoteTool(), MoveNoteHandler(d))
}

// ListFilesTool returns the tool definition
func ListFilesTool() mcp.Tool {
	return mcp.NewTool("obsidian_list_files",
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDescription("List files in a vault directory"),
		mcp.WithString("path", mcp.Description("Directory path (empty for the vault root)")),
	)
}

// ListFilesHandler returns the tool handler
func ListFilesHandler(d Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := getArgs(request)
		path, _ := args["path"].(string)

		files, err := d.Backend.List(ctx, path)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to list files: %v", err)), nil
		}
		return mcp.NewToolResultJSON(map[string]interface{}{
			"files": files,
		})
	}
}

func RegisterListFiles(s *server.MCPServer, d Deps) {
	s.AddTool(ListFilesTool(), ListFilesHandler(d))
}
