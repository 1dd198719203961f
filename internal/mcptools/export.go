package mcptools

import (
	"bytes"
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/abhisek/gengoka/internal/exchange"
)

// ExportTool handles the export_data MCP tool.
type ExportTool struct {
	tracker Tracker
}

// NewExportTool creates an ExportTool.
func NewExportTool(t Tracker) *ExportTool {
	return &ExportTool{tracker: t}
}

// Definition returns the MCP tool definition for export_data.
func (t *ExportTool) Definition() mcp.Tool {
	return mcp.NewTool("export_data",
		mcp.WithDescription(
			"Export every answer, the progress snapshot and all habit reports as one bundle document. "+
				"The output can be saved and restored later with 'gengoka import'.",
		),
		mcp.WithString("format",
			mcp.Description("Output format: json (default) or yaml"),
			mcp.Enum("json", "yaml"),
		),
	)
}

// Handle processes the export_data tool call.
func (t *ExportTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	format, err := exchange.ParseFormat(req.GetString("format", "json"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	b, err := t.tracker.RequestExport(ctx)
	if err != nil {
		return errorResult("export data", err), nil
	}

	var buf bytes.Buffer
	if err := exchange.Encode(&buf, b, format); err != nil {
		return errorResult("encode bundle", err), nil
	}
	return mcp.NewToolResultText(buf.String()), nil
}
