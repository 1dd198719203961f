package mcptools

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/abhisek/gengoka/internal/learning"
	"github.com/abhisek/gengoka/internal/store"
	"github.com/abhisek/gengoka/internal/tracker"
)

// ─── Test helpers ────────────────────────────────────────────────────────────

// newTestTracker creates a tracker service over a temp-dir store.
func newTestTracker(t *testing.T) *tracker.Service {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "mcp.db"))
	if err != nil {
		t.Fatalf("failed to open test store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	seq := 0
	return tracker.NewService(st, tracker.WithIDGenerator(func() string {
		seq++
		return fmt.Sprintf("id-%d", seq)
	}))
}

// makeReq builds a mcp.CallToolRequest with the given arguments.
func makeReq(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

// resultText extracts the text content from a tool result.
func resultText(r *mcp.CallToolResult) string {
	if r == nil || len(r.Content) == 0 {
		return ""
	}
	for _, c := range r.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func submit(t *testing.T, tool *SubmitAnswerTool, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	res, err := tool.Handle(context.Background(), makeReq(args))
	if err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}
	return res
}

// ─── SubmitAnswerTool ───────────────────────────────────────────────────────

func TestSubmitAnswerTool_Definition(t *testing.T) {
	def := NewSubmitAnswerTool(newTestTracker(t)).Definition()
	if def.Name != "submit_answer" {
		t.Errorf("tool name = %q, want %q", def.Name, "submit_answer")
	}
	for _, p := range []string{"problem_id", "answer", "phase", "feedback", "score"} {
		if _, ok := def.InputSchema.Properties[p]; !ok {
			t.Errorf("missing %q parameter", p)
		}
	}
	required := strings.Join(def.InputSchema.Required, ",")
	if !strings.Contains(required, "problem_id") || !strings.Contains(required, "answer") {
		t.Errorf("required = %v, want problem_id and answer", def.InputSchema.Required)
	}
}

func TestSubmitAnswerTool_WithFeedback(t *testing.T) {
	tr := newTestTracker(t)
	tool := NewSubmitAnswerTool(tr)

	res := submit(t, tool, map[string]interface{}{
		"problem_id": "phase1-02",
		"answer":     "お世話になっております。",
		"feedback":   `{"overall_impression": "丁寧です", "score": 81}`,
	})
	if res.IsError {
		t.Fatalf("unexpected error: %s", resultText(res))
	}
	text := resultText(res)
	if !strings.Contains(text, "phase1-02, phase1, completed, score 81") {
		t.Errorf("response = %q", text)
	}

	a, err := tr.LatestAnswer(context.Background(), "phase1-02")
	if err != nil || a == nil {
		t.Fatalf("LatestAnswer = %v, %v", a, err)
	}
	if a.Feedback.OverallImpression != "丁寧です" {
		t.Errorf("impression = %q", a.Feedback.OverallImpression)
	}
}

func TestSubmitAnswerTool_YAMLFeedbackAndScoreOverride(t *testing.T) {
	tr := newTestTracker(t)
	res := submit(t, NewSubmitAnswerTool(tr), map[string]interface{}{
		"problem_id": "misc-1",
		"phase":      float64(3),
		"answer":     "ご提案いたします。",
		"feedback":   "overall_impression: good\nscore: 50\n",
		"score":      float64(90),
	})
	if res.IsError {
		t.Fatalf("unexpected error: %s", resultText(res))
	}

	a, _ := tr.LatestAnswer(context.Background(), "misc-1")
	if a.Phase != learning.Phase3 {
		t.Errorf("phase = %v, want phase3", a.Phase)
	}
	if s, _ := a.Score(); s != 90 {
		t.Errorf("score = %d, want 90", s)
	}
}

func TestSubmitAnswerTool_ScoreOnly(t *testing.T) {
	tr := newTestTracker(t)
	res := submit(t, NewSubmitAnswerTool(tr), map[string]interface{}{
		"problem_id": "phase2-01",
		"answer":     "報告です",
		"score":      float64(0),
	})
	if res.IsError {
		t.Fatalf("unexpected error: %s", resultText(res))
	}
	p, _ := tr.Progress(context.Background())
	if p.CompletedProblems != 1 {
		t.Errorf("completed = %d, want 1", p.CompletedProblems)
	}
}

func TestSubmitAnswerTool_Errors(t *testing.T) {
	tool := NewSubmitAnswerTool(newTestTracker(t))

	tests := []struct {
		name string
		args map[string]interface{}
		want string
	}{
		{"missing problem", map[string]interface{}{"answer": "x"}, "'problem_id' is required"},
		{"blank answer", map[string]interface{}{"problem_id": "phase1-01", "answer": "  "}, "'answer' is required"},
		{"bad feedback", map[string]interface{}{"problem_id": "phase1-01", "answer": "x", "feedback": `{"score": 120}`}, "invalid 'feedback'"},
		{"unknown phase", map[string]interface{}{"problem_id": "misc-01", "answer": "x"}, "invalid 'phase'"},
		{"score out of range", map[string]interface{}{"problem_id": "phase1-01", "answer": "x", "score": float64(101)}, "invalid 'feedback.score'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := submit(t, tool, tt.args)
			if !res.IsError {
				t.Fatalf("expected error result, got %q", resultText(res))
			}
			if !strings.Contains(resultText(res), tt.want) {
				t.Errorf("error = %q, want it to contain %q", resultText(res), tt.want)
			}
		})
	}
}

// ─── ReportTool / ProgressTool ──────────────────────────────────────────────

func TestReportTool(t *testing.T) {
	tr := newTestTracker(t)
	submit(t, NewSubmitAnswerTool(tr), map[string]interface{}{
		"problem_id": "phase1-01",
		"answer":     strings.Repeat("あ", 50),
		"score":      float64(60),
	})

	res, err := NewReportTool(tr).Handle(context.Background(), makeReq(nil))
	if err != nil || res.IsError {
		t.Fatalf("Handle = %v, %v", resultText(res), err)
	}

	var r learning.ReportData
	if err := json.Unmarshal([]byte(resultText(res)), &r); err != nil {
		t.Fatalf("report is not JSON: %v", err)
	}
	if r.TotalAnswers != 1 || r.AverageScore != 60 {
		t.Errorf("report = %+v", r)
	}
	if len(r.Habits) == 0 || len(r.NextSteps) != 4 {
		t.Errorf("habits = %d, nextSteps = %d", len(r.Habits), len(r.NextSteps))
	}
}

func TestProgressTool(t *testing.T) {
	tr := newTestTracker(t)
	tool := NewProgressTool(tr)
	if tool.Definition().Name != "get_progress" {
		t.Errorf("tool name = %q", tool.Definition().Name)
	}

	res, err := tool.Handle(context.Background(), makeReq(nil))
	if err != nil || res.IsError {
		t.Fatalf("Handle = %v, %v", resultText(res), err)
	}
	var p learning.Progress
	if err := json.Unmarshal([]byte(resultText(res)), &p); err != nil {
		t.Fatalf("progress is not JSON: %v", err)
	}
	if p.TotalProblems != 24 || p.CompletedProblems != 0 {
		t.Errorf("progress = %+v", p)
	}
}

// ─── HistoryTool ────────────────────────────────────────────────────────────

func TestHistoryTool(t *testing.T) {
	tr := newTestTracker(t)
	sub := NewSubmitAnswerTool(tr)
	for i, pid := range []string{"phase1-01", "phase1-01", "phase2-01"} {
		submit(t, sub, map[string]interface{}{"problem_id": pid, "answer": fmt.Sprintf("回答%d", i), "score": float64(70 + i)})
	}
	tool := NewHistoryTool(tr)

	decode := func(res *mcp.CallToolResult) []learning.Answer {
		t.Helper()
		var out []learning.Answer
		if err := json.Unmarshal([]byte(resultText(res)), &out); err != nil {
			t.Fatalf("history is not JSON: %v (%q)", err, resultText(res))
		}
		return out
	}

	res, _ := tool.Handle(context.Background(), makeReq(nil))
	if got := decode(res); len(got) != 3 {
		t.Errorf("all = %d answers, want 3", len(got))
	}

	res, _ = tool.Handle(context.Background(), makeReq(map[string]interface{}{"problem_id": "phase1-01"}))
	if got := decode(res); len(got) != 2 || got[0].Text != "回答0" {
		t.Errorf("attempts = %+v", got)
	}

	res, _ = tool.Handle(context.Background(), makeReq(map[string]interface{}{"limit": float64(1)}))
	if got := decode(res); len(got) != 1 || got[0].ProblemID != "phase2-01" {
		t.Errorf("limited = %+v", got)
	}

	res, _ = tool.Handle(context.Background(), makeReq(map[string]interface{}{"problem_id": "none"}))
	if resultText(res) != "No answers recorded." {
		t.Errorf("empty = %q", resultText(res))
	}

	res, _ = tool.Handle(context.Background(), makeReq(map[string]interface{}{"limit": float64(-1)}))
	if !res.IsError {
		t.Error("negative limit should be an error")
	}
}

// ─── ExportTool ─────────────────────────────────────────────────────────────

func TestExportTool(t *testing.T) {
	tr := newTestTracker(t)
	submit(t, NewSubmitAnswerTool(tr), map[string]interface{}{"problem_id": "phase3-01", "answer": "x", "score": float64(88)})
	tool := NewExportTool(tr)

	res, err := tool.Handle(context.Background(), makeReq(nil))
	if err != nil || res.IsError {
		t.Fatalf("Handle = %v, %v", resultText(res), err)
	}
	var b learning.ExportBundle
	if err := json.Unmarshal([]byte(resultText(res)), &b); err != nil {
		t.Fatalf("export is not JSON: %v", err)
	}
	if b.Version != learning.BundleVersion || len(b.Answers) != 1 {
		t.Errorf("bundle = %+v", b)
	}

	res, _ = tool.Handle(context.Background(), makeReq(map[string]interface{}{"format": "yaml"}))
	if !strings.Contains(resultText(res), "problemId: phase3-01") {
		t.Errorf("yaml export = %q", resultText(res))
	}

	res, _ = tool.Handle(context.Background(), makeReq(map[string]interface{}{"format": "xml"}))
	if !res.IsError {
		t.Error("unknown format should be an error")
	}
}
