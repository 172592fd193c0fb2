package output

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatElapsed(t *testing.T) {
	assert.Equal(t, "<1ms", formatElapsed(300*time.Microsecond))
	assert.Equal(t, "250ms", formatElapsed(250*time.Millisecond))
	assert.Equal(t, "2.5s", formatElapsed(2500*time.Millisecond))
	assert.Equal(t, "2m5.0s", formatElapsed(125*time.Second))
}

func TestStatusIconPlain(t *testing.T) {
	assert.Equal(t, "✓", StatusIcon("success", false))
	assert.Equal(t, "✗", StatusIcon("failed", false))
	assert.Equal(t, "⊘", StatusIcon("skipped", false))
}

func TestDimmed(t *testing.T) {
	assert.Equal(t, "plain", Dimmed("plain", false))
	assert.Equal(t, "\033[90mdim\033[0m", Dimmed("dim", true))
}

func TestSectionStartCollapsed(t *testing.T) {
	t.Setenv("GITHUB_ACTIONS", "")

	t.Setenv("GITLAB_CI", "true")
	var buf bytes.Buffer
	SectionStartCollapsed(&buf, "sw_package", "Package")
	assert.Contains(t, buf.String(), "section_start")
	assert.Contains(t, buf.String(), "sw_package[collapsed=true]")

	t.Setenv("GITLAB_CI", "")
	buf.Reset()
	SectionStartCollapsed(&buf, "sw_package", "Package")
	assert.Empty(t, buf.String(), "outside CI the markers are a no-op")
}

func TestSectionFrame(t *testing.T) {
	var buf bytes.Buffer
	sec := NewSection(&buf, "Build", 0, false)
	sec.Row("hello")
	sec.Separator()
	sec.Close()

	out := buf.String()
	assert.Contains(t, out, "── Build ")
	assert.Contains(t, out, "│ hello")
	assert.Contains(t, out, "├")
	assert.Contains(t, out, "└")
}
