// Package views renders tracker data for the terminal.
package views

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/gengoka/internal/learning"
	"github.com/abhisek/gengoka/internal/ui/components"
	"github.com/abhisek/gengoka/internal/ui/layout"
	"github.com/abhisek/gengoka/internal/ui/theme"
)

const timeFormat = "2006-01-02 15:04"

// Report renders an aggregated report.
func Report(r *learning.ReportData, width int) string {
	width = layout.ClampWidth(width)

	if r.TotalAnswers == 0 {
		return layout.Join(
			layout.RenderHeader("Learning report", "no answers yet", width),
			theme.Hint.Render("Submit an answer to get a habit analysis."),
			layout.RenderSection("Next steps", r.NextSteps),
		)
	}

	summary := fmt.Sprintf("%s answers   average %s   change %s",
		theme.Body.Render(fmt.Sprint(r.TotalAnswers)),
		theme.Score(r.AverageScore).Render(fmt.Sprint(r.AverageScore)),
		signed(r.ScoreImprovement))

	return layout.Join(
		layout.RenderHeader("Learning report", "", width),
		summary,
		layout.RenderSection("Strengths", r.Strengths),
		habitsSection(r.Habits, width),
		layout.RenderSection("Recommendations", r.Recommendations),
		layout.RenderSection("Next steps", r.NextSteps),
	)
}

func signed(n int) string {
	s := fmt.Sprintf("%+d", n)
	switch {
	case n > 0:
		return theme.Good.Render(s)
	case n < 0:
		return theme.Bad.Render(s)
	}
	return theme.Subtitle.Render(s)
}

func habitsSection(patterns []learning.HabitPattern, width int) string {
	if len(patterns) == 0 {
		return ""
	}
	blocks := make([]string, 0, len(patterns))
	for _, p := range patterns {
		var b strings.Builder
		b.WriteString(theme.Severity(p.Severity).Render("[" + string(p.Severity) + "]"))
		b.WriteString(" ")
		b.WriteString(theme.Body.Bold(true).Render(p.Category))
		b.WriteString(theme.Subtitle.Render(fmt.Sprintf("  %.0f%%", p.Frequency*100)))
		b.WriteString("\n")
		b.WriteString(p.Description)
		for _, ex := range p.Examples {
			b.WriteString("\n")
			b.WriteString(theme.Hint.Render("  例: " + layout.Truncate(ex, width-8)))
		}
		if p.Suggestion != "" {
			b.WriteString("\n→ ")
			b.WriteString(p.Suggestion)
		}
		blocks = append(blocks, theme.Card.Width(width).Render(b.String()))
	}
	return theme.Heading.Render("Habits") + "\n" + lipgloss.JoinVertical(lipgloss.Left, blocks...)
}

// Progress renders per-phase completion bars and the totals line.
func Progress(p learning.Progress, totals learning.PhaseTotals, width int) string {
	width = layout.ClampWidth(width)

	bars := make([]string, 0, len(learning.Phases))
	for _, ph := range learning.Phases {
		label := fmt.Sprintf("Phase %d (%d)", int(ph), totals.Of(ph))
		bar := components.NewProgressBar(label, p.PhasePercent(ph), true, width)
		bar.LabelWidth = 14
		bars = append(bars, bar.View())
	}

	avg := theme.Subtitle.Render("-")
	if p.CompletedProblems > 0 {
		avg = theme.Score(int(p.AverageScore)).Render(fmt.Sprintf("%.1f", p.AverageScore))
	}
	footer := fmt.Sprintf("completed %d / %d   average score %s",
		p.CompletedProblems, p.TotalProblems, avg)

	return layout.Join(
		layout.RenderHeader("Progress", "", width),
		strings.Join(bars, "\n"),
		footer,
	)
}

// History renders answers as a table, one line per answer.
func History(answers []learning.Answer, width int) string {
	width = layout.ClampWidth(width)
	if len(answers) == 0 {
		return theme.Hint.Render("No answers recorded.")
	}

	header := fmt.Sprintf("%-16s  %-12s  %-6s  %5s  %s", "Submitted", "Problem", "Phase", "Score", "Answer")
	rows := []string{theme.Heading.Render(header), theme.Subtitle.Render(strings.Repeat("─", width))}

	preview := width - 50
	if layout.IsCompactWidth(width) {
		preview = 0
	}
	for i := range answers {
		a := &answers[i]
		score := theme.Subtitle.Render(fmt.Sprintf("%5s", "-"))
		if s, ok := a.Score(); ok {
			score = theme.Score(s).Render(fmt.Sprintf("%5d", s))
		}
		row := fmt.Sprintf("%-16s  %-12s  %-6s  %s",
			a.SubmittedAt.Local().Format(timeFormat),
			layout.Truncate(a.ProblemID, 12),
			a.Phase.String(),
			score)
		if preview > 0 {
			row += "  " + layout.Truncate(a.Text, preview)
		}
		rows = append(rows, row)
	}
	rows = append(rows, "", theme.Subtitle.Render(fmt.Sprintf("%d answers", len(answers))))
	return strings.Join(rows, "\n")
}

// Answer renders one answer with its feedback.
func Answer(a *learning.Answer, width int) string {
	width = layout.ClampWidth(width)

	sub := a.SubmittedAt.Local().Format(timeFormat)
	if s, ok := a.Score(); ok {
		sub += "   " + theme.Score(s).Render(fmt.Sprintf("score %d", s))
	}
	blocks := []string{
		layout.RenderHeader(a.ProblemID+" ("+a.Phase.String()+")", sub, width),
		theme.Body.Width(width).Render(a.Text),
	}

	fb := a.Feedback
	if fb == nil {
		blocks = append(blocks, theme.Hint.Render("No feedback yet."))
		return layout.Join(blocks...)
	}
	if fb.OverallImpression != "" {
		blocks = append(blocks, theme.Heading.Render("Impression")+"\n"+fb.OverallImpression)
	}
	details := make([]string, 0, len(fb.DetailedFeedback))
	for _, d := range fb.DetailedFeedback {
		details = append(details, fmt.Sprintf("%s: %s → %s", d.Section, d.Issue, d.Improvement))
	}
	blocks = append(blocks,
		layout.RenderSection("Details", details),
		layout.RenderSection("Suggestions", fb.ImprovementSuggestions),
		layout.RenderSection("Next", fb.NextRecommendations),
	)
	return layout.Join(blocks...)
}

// HabitHistory renders stored habit reports, oldest first.
func HabitHistory(reports []learning.HabitReport, width int) string {
	width = layout.ClampWidth(width)
	if len(reports) == 0 {
		return theme.Hint.Render("No habit reports yet. Run the report command first.")
	}

	blocks := []string{layout.RenderHeader("Habit history", fmt.Sprintf("%d reports", len(reports)), width)}
	for _, r := range reports {
		var b strings.Builder
		b.WriteString(theme.Body.Bold(true).Render(r.AnalyzedAt.Local().Format(timeFormat)))
		b.WriteString(theme.Subtitle.Render("  " + r.ID))

		cats := make([]string, 0, len(r.Patterns))
		for _, p := range r.Patterns {
			cats = append(cats, theme.Severity(p.Severity).Render(p.Category))
		}
		if len(cats) == 0 {
			b.WriteString("\n  " + theme.Good.Render("no habits detected"))
		} else {
			b.WriteString("\n  " + strings.Join(cats, ", "))
		}

		for _, t := range r.ImprovementTrends {
			b.WriteString(fmt.Sprintf("\n  %-9s %s %s",
				t.Metric,
				theme.Trend(t.Trend).Render(string(t.Trend)),
				theme.Subtitle.Render(fmt.Sprintf("(%+.2f)", t.Change))))
		}
		blocks = append(blocks, b.String())
	}
	return strings.Join(blocks, "\n\n")
}
