package theme

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/gengoka/internal/learning"
)

// Color palette. Muted, readable on light and dark terminals.
var (
	Primary   = lipgloss.Color("#2563EB") // Blue
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Accent    = lipgloss.Color("#F59E0B") // Amber
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#E2E8F0")
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	Border    = lipgloss.Color("#334155")
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim)

	Heading = lipgloss.NewStyle().
		Bold(true).
		Foreground(Secondary)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)
)

// Layout
var (
	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 1)
)

// States
var (
	Good = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Warn = lipgloss.NewStyle().
		Foreground(Accent).
		Bold(true)

	Bad = lipgloss.NewStyle().
		Foreground(Error).
		Bold(true)
)

// Components
var (
	ProgressFilled = lipgloss.NewStyle().
			Background(Secondary)

	ProgressEmpty = lipgloss.NewStyle().
			Background(Border)
)

// Severity picks the style for a habit severity badge.
func Severity(s learning.Severity) lipgloss.Style {
	switch s {
	case learning.SeverityHigh:
		return Bad
	case learning.SeverityMedium:
		return Warn
	default:
		return Subtitle
	}
}

// Trend picks the style for a trend direction.
func Trend(d learning.TrendDirection) lipgloss.Style {
	switch d {
	case learning.TrendImproving:
		return Good
	case learning.TrendDeclining:
		return Bad
	default:
		return Subtitle
	}
}

// Score colors a 0-100 score.
func Score(score int) lipgloss.Style {
	switch {
	case score >= 80:
		return Good
	case score >= 70:
		return Warn
	default:
		return Bad
	}
}
