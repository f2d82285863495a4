package vaultmcp

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/benpeter/obsidian-mcp-server-sub001/pkg/vault"
)

// SearchNotesTool returns the tool definition
func SearchNotesTool() mcp.Tool {
	return mcp.NewTool("obsidian_search_notes",
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDescription("Search the vault. Falls back to the locally cached index when the live search backend is unavailable; the result reports which source answered."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Text query, or a glob pattern when glob is set")),
		mcp.WithBoolean("glob", mcp.Description("Treat the query as a glob pattern matched against note paths")),
		mcp.WithString("path_prefix", mcp.Description("Only return matches under this directory")),
		mcp.WithString("modified_within", mcp.Description("Only return notes modified within this window, e.g. \"72h\"")),
		mcp.WithNumber("offset", mcp.Description("Number of matches to skip")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of matches to return")),
	)
}

// SearchNotesHandler returns the tool handler
func SearchNotesHandler(d Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := getArgs(request)
		queryText, _ := args["query"].(string)
		isGlob, _ := args["glob"].(bool)
		prefix, _ := args["path_prefix"].(string)
		window, _ := args["modified_within"].(string)
		offset, _ := args["offset"].(float64)
		limit, _ := args["limit"].(float64)

		filters := vault.Filters{PathPrefix: prefix}
		if window != "" {
			dur, err := time.ParseDuration(window)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("invalid modified_within window: %v", err)), nil
			}
			filters.ModifiedAfter = time.Now().Add(-dur)
		}

		outcome, err := d.Search.Search(ctx,
			vault.Query{Text: queryText, Glob: isGlob},
			filters,
			vault.Page{Offset: int(offset), Limit: int(limit)},
		)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
		}

		return mcp.NewToolResultJSON(outcome)
	}
}

func RegisterSearchNotes(s *server.MCPServer, d Deps) {
	s.AddTool(SearchNotesTool(), SearchNotesHandler(d))
}
