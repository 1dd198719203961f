package mcptools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

const defaultHistoryLimit = 20

// HistoryTool handles the get_history MCP tool.
type HistoryTool struct {
	tracker Tracker
}

// NewHistoryTool creates a HistoryTool.
func NewHistoryTool(t Tracker) *HistoryTool {
	return &HistoryTool{tracker: t}
}

// Definition returns the MCP tool definition for get_history.
func (t *HistoryTool) Definition() mcp.Tool {
	return mcp.NewTool("get_history",
		mcp.WithDescription(
			"Return recorded answers as JSON, oldest first. "+
				"With problem_id, returns every attempt at that problem so you can compare revisions.",
		),
		mcp.WithString("problem_id",
			mcp.Description("Only attempts at this problem"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Return at most this many of the most recent answers (default: 20, 0 = all)"),
		),
	)
}

// Handle processes the get_history tool call.
func (t *HistoryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := intArg(req, "limit", defaultHistoryLimit)
	if limit < 0 {
		return mcp.NewToolResultError("'limit' must not be negative"), nil
	}

	answers, err := t.tracker.History(ctx, req.GetString("problem_id", ""))
	if err != nil {
		return errorResult("read history", err), nil
	}
	if limit > 0 && len(answers) > limit {
		answers = answers[len(answers)-limit:]
	}
	if len(answers) == 0 {
		return mcp.NewToolResultText("No answers recorded."), nil
	}
	return jsonResult(answers)
}
