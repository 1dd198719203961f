package mcptools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// ReportTool handles the get_report MCP tool.
type ReportTool struct {
	tracker Tracker
}

// NewReportTool creates a ReportTool.
func NewReportTool(t Tracker) *ReportTool {
	return &ReportTool{tracker: t}
}

// Definition returns the MCP tool definition for get_report.
func (t *ReportTool) Definition() mcp.Tool {
	return mcp.NewTool("get_report",
		mcp.WithDescription(
			"Analyse the learner's whole answer history and return a report as JSON: "+
				"totalAnswers, averageScore, scoreImprovement, strengths, habits, recommendations, nextSteps. "+
				"Each call stores a habit snapshot for drift tracking.",
		),
	)
}

// Handle processes the get_report tool call.
func (t *ReportTool) Handle(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	r, err := t.tracker.RequestReport(ctx)
	if err != nil {
		return errorResult("generate report", err), nil
	}
	return jsonResult(r)
}

// ─── ProgressTool ───────────────────────────────────────────────────────────

// ProgressTool handles the get_progress MCP tool.
type ProgressTool struct {
	tracker Tracker
}

// NewProgressTool creates a ProgressTool.
func NewProgressTool(t Tracker) *ProgressTool {
	return &ProgressTool{tracker: t}
}

// Definition returns the MCP tool definition for get_progress.
func (t *ProgressTool) Definition() mcp.Tool {
	return mcp.NewTool("get_progress",
		mcp.WithDescription(
			"Return the learner's progress as JSON: completion percentage per phase (phase1..phase3), "+
				"totalProblems, completedProblems and averageScore.",
		),
	)
}

// Handle processes the get_progress tool call.
func (t *ProgressTool) Handle(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p, err := t.tracker.Progress(ctx)
	if err != nil {
		return errorResult("read progress", err), nil
	}
	return jsonResult(p)
}
