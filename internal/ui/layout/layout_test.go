package layout

import (
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
)

func TestClampWidth(t *testing.T) {
	assert.Equal(t, DefaultWidth, ClampWidth(0))
	assert.Equal(t, MinWidth, ClampWidth(10))
	assert.Equal(t, 50, ClampWidth(50))
	assert.Equal(t, DefaultWidth, ClampWidth(300))
}

func TestTruncateWideCharacters(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "a b", Truncate("a\n  b", 10))

	out := Truncate("お世話になっております。", 10)
	assert.LessOrEqual(t, ansi.StringWidth(out), 10)
	assert.Contains(t, out, "…")
}

func TestRenderSection(t *testing.T) {
	assert.Equal(t, "", RenderSection("Empty", nil))
	out := ansi.Strip(RenderSection("Steps", []string{"one", "two"}))
	assert.Equal(t, "Steps\n  • one\n  • two", out)
}

func TestJoinSkipsEmpty(t *testing.T) {
	assert.Equal(t, "a\n\nb", Join("a", "", "b"))
}
