// Package mcptools provides MCP tool handlers for the learning tracker.
//
// Each tool follows the same shape:
// - A struct holding the Tracker it calls
// - Definition() returns the mcp.Tool schema
// - Handle() processes the request and returns a result
//
// Tools hold no business logic. Scoring happens in the MCP host; tools only
// record the feedback it produced and read tracker state back.
package mcptools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/abhisek/gengoka/internal/learning"
	"github.com/abhisek/gengoka/internal/tracker"
)

// Tracker is the subset of the tracker service the tools call.
// *tracker.Service satisfies it.
type Tracker interface {
	SubmitAnswer(ctx context.Context, sub tracker.Submission) (*learning.Answer, error)
	RequestReport(ctx context.Context) (*learning.ReportData, error)
	RequestExport(ctx context.Context) (*learning.ExportBundle, error)
	Progress(ctx context.Context) (learning.Progress, error)
	History(ctx context.Context, problemID string) ([]learning.Answer, error)
}

// intArg extracts an integer argument from a tool request, returning
// defaultVal if the key is missing or not a number (JSON numbers are float64).
func intArg(req mcp.CallToolRequest, key string, defaultVal int) int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return int(v)
}

// optionalInt is like intArg but reports whether the key was present.
func optionalInt(req mcp.CallToolRequest, key string) (int, bool) {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return 0, false
	}
	return int(v), true
}

// jsonResult renders v as indented JSON text.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

// errorResult turns a tracker error into a tool error. Validation problems
// name the offending field so the host can correct its call.
func errorResult(action string, err error) *mcp.CallToolResult {
	var ve *learning.ErrValidation
	if errors.As(err, &ve) {
		return mcp.NewToolResultError(fmt.Sprintf("invalid '%s': %s", ve.Field, ve.Reason))
	}
	return mcp.NewToolResultError(fmt.Sprintf("failed to %s: %v", action, err))
}
