// Package server wires the MCP tools to a tracker and creates the server
// instance. No business logic lives here, only wiring.
package server

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/abhisek/gengoka/internal/mcptools"
)

// New creates the MCP server with every tracker tool registered.
func New(tr mcptools.Tracker, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"gengoka",
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)
	registerTools(s, tr)
	return s
}

// ServeStdio runs the server over stdin/stdout until the client disconnects.
func ServeStdio(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

func registerTools(s *server.MCPServer, tr mcptools.Tracker) {
	// --- Recording ---
	submit := mcptools.NewSubmitAnswerTool(tr)
	s.AddTool(submit.Definition(), submit.Handle)

	// --- Reading ---
	report := mcptools.NewReportTool(tr)
	s.AddTool(report.Definition(), report.Handle)

	progress := mcptools.NewProgressTool(tr)
	s.AddTool(progress.Definition(), progress.Handle)

	history := mcptools.NewHistoryTool(tr)
	s.AddTool(history.Definition(), history.Handle)

	// --- Transfer ---
	export := mcptools.NewExportTool(tr)
	s.AddTool(export.Definition(), export.Handle)
}

// serverInstructions tells the host how the tools fit together.
func serverInstructions() string {
	return `You have access to gengoka, a learning tracker for Japanese business-writing practice.

## Workflow

1. The learner answers a problem. Score it yourself and write feedback
   (overall_impression, detailed_feedback, improvement_suggestions,
   next_recommendations, score 0-100).
2. Call submit_answer with problem_id, the verbatim answer and your feedback.
   Answers without feedback are kept as drafts and do not count as completed.
3. Call get_report to see recurring habits across all answers and the
   recommendations derived from them. Use it to pick what to practise next.

get_progress shows completion per phase. get_history with a problem_id lists
every attempt at that problem so you can compare revisions. export_data
returns a full backup bundle.`
}
