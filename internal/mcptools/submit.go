package mcptools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/abhisek/gengoka/internal/exchange"
	"github.com/abhisek/gengoka/internal/learning"
	"github.com/abhisek/gengoka/internal/tracker"
)

// SubmitAnswerTool handles the submit_answer MCP tool.
type SubmitAnswerTool struct {
	tracker Tracker
}

// NewSubmitAnswerTool creates a SubmitAnswerTool.
func NewSubmitAnswerTool(t Tracker) *SubmitAnswerTool {
	return &SubmitAnswerTool{tracker: t}
}

// Definition returns the MCP tool definition for submit_answer.
func (t *SubmitAnswerTool) Definition() mcp.Tool {
	return mcp.NewTool("submit_answer",
		mcp.WithDescription(
			"Record a learner's answer to a writing problem, optionally with the feedback you produced for it. "+
				"An answer with feedback counts as completed and updates progress. "+
				"Call this after scoring an answer so habit analysis can use it.",
		),
		mcp.WithString("problem_id",
			mcp.Required(),
			mcp.Description("Problem identifier (e.g. 'phase1-03')"),
		),
		mcp.WithString("answer",
			mcp.Required(),
			mcp.Description("The learner's answer text, verbatim"),
		),
		mcp.WithNumber("phase",
			mcp.Description("Curriculum phase 1-3. Derived from problem_id when omitted."),
		),
		mcp.WithString("feedback",
			mcp.Description(
				"Feedback document as JSON or YAML: "+
					"{\"overall_impression\": \"...\", \"detailed_feedback\": [{\"section\", \"issue\", \"improvement\", \"reason\"}], "+
					"\"improvement_suggestions\": [...], \"next_recommendations\": [...], \"score\": 0-100}",
			),
		),
		mcp.WithNumber("score",
			mcp.Description("Score 0-100. Overrides the score inside feedback; alone it records feedback with only a score."),
		),
	)
}

// Handle processes the submit_answer tool call.
func (t *SubmitAnswerTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	problemID := req.GetString("problem_id", "")
	answer := req.GetString("answer", "")
	if problemID == "" {
		return mcp.NewToolResultError("'problem_id' is required"), nil
	}
	if strings.TrimSpace(answer) == "" {
		return mcp.NewToolResultError("'answer' is required"), nil
	}

	var fb *learning.Feedback
	if raw := req.GetString("feedback", ""); raw != "" {
		f, err := exchange.DecodeFeedback(strings.NewReader(raw))
		if err != nil {
			return errorResult("parse feedback", err), nil
		}
		fb = f
	}
	if score, ok := optionalInt(req, "score"); ok {
		if fb == nil {
			fb = &learning.Feedback{}
		}
		fb.Score = &score
	}

	a, err := t.tracker.SubmitAnswer(ctx, tracker.Submission{
		ProblemID: problemID,
		Phase:     learning.Phase(intArg(req, "phase", 0)),
		Text:      answer,
		Feedback:  fb,
	})
	if err != nil {
		return errorResult("record answer", err), nil
	}

	status := "draft (no feedback)"
	if a.IsCompleted {
		status = "completed"
	}
	response := fmt.Sprintf("Answer recorded: %s, %s, %s", a.ProblemID, a.Phase, status)
	if score, ok := a.Score(); ok {
		response += fmt.Sprintf(", score %d", score)
	}
	response += fmt.Sprintf("\nID: %s", a.ID)
	return mcp.NewToolResultText(response), nil
}
