package tui

import (
	"os"
	"strings"
	"sync"
)

// Some terminals and fonts render box-drawing and check glyphs poorly, so an ASCII
// set can be selected with ROUTETRACK_TUI_GLYPHS=ascii or tui.glyphs in config.

type glyphSet int

const (
	glyphSetUnicode glyphSet = iota
	glyphSetASCII
)

var (
	glyphsMu      sync.RWMutex
	currentGlyphs = glyphSetUnicode
)

// applyGlyphPreference prefers the environment, then the configured value. Unknown
// values are ignored.
func applyGlyphPreference(configured string) {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("ROUTETRACK_TUI_GLYPHS")))
	if v == "" {
		v = strings.ToLower(strings.TrimSpace(configured))
	}
	switch v {
	case "", "unicode", "utf8":
		setGlyphs(glyphSetUnicode)
	case "ascii":
		setGlyphs(glyphSetASCII)
	}
}

func setGlyphs(gs glyphSet) {
	glyphsMu.Lock()
	currentGlyphs = gs
	glyphsMu.Unlock()
}

func glyphs() glyphSet {
	glyphsMu.RLock()
	gs := currentGlyphs
	glyphsMu.RUnlock()
	return gs
}

func pick(unicode, ascii string) string {
	if glyphs() == glyphSetASCII {
		return ascii
	}
	return unicode
}

func glyphTwistyCollapsed() string { return pick("▸", ">") }

func glyphTwistyExpanded() string { return pick("▾", "v") }

func glyphChecked() string { return pick("☑", "[x]") }

func glyphUnchecked() string { return pick("☐", "[ ]") }

func glyphImage() string { return pick("▣", "#") }

func glyphHRule() string { return pick("─", "-") }

func glyphPin() string { return pick("◆", "@") }

func glyphCursor() string { return pick("›", ">") }
