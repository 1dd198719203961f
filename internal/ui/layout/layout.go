package layout

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/abhisek/gengoka/internal/ui/theme"
)

const (
	MinWidth     = 40
	DefaultWidth = 72

	CompactWidthThreshold = 60
)

// IsCompactWidth returns true if the terminal width is in compact range.
func IsCompactWidth(width int) bool {
	return width < CompactWidthThreshold
}

// ClampWidth keeps width within [MinWidth, DefaultWidth]. Zero means default.
func ClampWidth(width int) int {
	if width <= 0 {
		return DefaultWidth
	}
	return max(MinWidth, min(width, DefaultWidth))
}

// RenderHeader renders a title with an optional dimmed subtitle on the right.
func RenderHeader(title, subtitle string, width int) string {
	left := theme.Title.Render(title)
	if subtitle == "" {
		return left + "\n" + theme.Subtitle.Render(strings.Repeat("─", width))
	}
	right := theme.Subtitle.Render(subtitle)

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right + "\n" +
		theme.Subtitle.Render(strings.Repeat("─", width))
}

// RenderSection renders a heading followed by bulleted lines. Empty sections
// render nothing.
func RenderSection(heading string, lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(theme.Heading.Render(heading))
	for _, l := range lines {
		b.WriteString("\n  • ")
		b.WriteString(l)
	}
	return b.String()
}

// Truncate shortens s to at most width display cells, appending an ellipsis.
// Wide characters count as two cells.
func Truncate(s string, width int) string {
	s = strings.Join(strings.Fields(s), " ")
	if ansi.StringWidth(s) <= width {
		return s
	}
	return ansi.Truncate(s, width, "…")
}

// Join stacks non-empty blocks separated by a blank line.
func Join(blocks ...string) string {
	kept := blocks[:0:0]
	for _, b := range blocks {
		if b != "" {
			kept = append(kept, b)
		}
	}
	return strings.Join(kept, "\n\n")
}
