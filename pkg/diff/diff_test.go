package diff

import (
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestPreview(t *testing.T) {
	color.NoColor = true

	t.Run("renders_change", func(t *testing.T) {
		original := "one\nold line\nthree\n"
		patched := "one\nnew line\nthree\n"

		out := Preview(original, patched)

		assert.Contains(t, out, "- old line\n")
		assert.Contains(t, out, "+ new line\n")
		assert.Contains(t, out, "  one\n")
		assert.Contains(t, out, "  three\n")
	})

	t.Run("collapses_long_equal_runs", func(t *testing.T) {
		var lines []string
		for i := 0; i < 20; i++ {
			lines = append(lines, "unchanged")
		}
		original := strings.Join(lines, "\n") + "\nold\n"
		patched := strings.Join(lines, "\n") + "\nnew\n"

		out := Preview(original, patched)

		assert.Contains(t, out, "  ...\n")
		assert.Contains(t, out, "- old\n")
		assert.Contains(t, out, "+ new\n")
		assert.Less(t, strings.Count(out, "unchanged"), 20, "context should be collapsed")
	})

	t.Run("crlf_renders_without_carriage_returns", func(t *testing.T) {
		out := Preview("a\r\nold\r\n", "a\r\nnew\r\n")

		assert.Contains(t, out, "- old\n")
		assert.Contains(t, out, "+ new\n")
		assert.NotContains(t, out, "\r")
	})

	t.Run("identical_input_has_no_change_markers", func(t *testing.T) {
		out := Preview("same\n", "same\n")

		assert.NotContains(t, out, "- ")
		assert.NotContains(t, out, "+ ")
	})
}

func TestChanged(t *testing.T) {
	assert.True(t, Changed("a", "b"))
	assert.False(t, Changed("a", "a"))
}
