package tui

import (
	"strings"
	"testing"

	xansi "github.com/charmbracelet/x/ansi"
)

func TestRenderNote(t *testing.T) {
	out := xansi.Strip(renderNote("Watch out for **spikes**.", 60))
	if !strings.Contains(out, "Watch out for") || !strings.Contains(out, "spikes") {
		t.Fatalf("rendered note = %q", out)
	}
	if strings.Contains(out, "**") {
		t.Fatalf("markdown emphasis was not rendered: %q", out)
	}
	if strings.HasSuffix(out, "\n") {
		t.Fatalf("trailing newline should be trimmed: %q", out)
	}
}
