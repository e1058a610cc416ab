package tui

import (
	"os"
	"strconv"
	"strings"

	"route-tracker/internal/progress"
	"route-tracker/internal/tracker"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Palettes must stay readable on light and dark terminals, so everything but the
// progress fill uses lipgloss.AdaptiveColor.

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

func faintIfDark(st lipgloss.Style) lipgloss.Style {
	if lipgloss.HasDarkBackground() {
		return st.Faint(true)
	}
	return st
}

type palette struct {
	accent      lipgloss.TerminalColor
	muted       lipgloss.TerminalColor
	text        lipgloss.TerminalColor
	done        lipgloss.TerminalColor
	selectedBg  lipgloss.TerminalColor
	selectedFg  lipgloss.TerminalColor
	highlightBg lipgloss.TerminalColor
	highlightFg lipgloss.TerminalColor
	errorFg     lipgloss.TerminalColor
	pin         lipgloss.TerminalColor

	// Progress fill per tier, as hex for bubbles/progress.
	tierNormal    string
	tierMilestone string
	tierComplete  string
}

var palettes = map[string]palette{
	tracker.ThemeDefault: {
		accent:        ac("27", "75"),
		muted:         ac("240", "245"),
		text:          ac("235", "252"),
		done:          ac("245", "241"),
		selectedBg:    ac("#e9e9e9", "#262626"),
		selectedFg:    ac("235", "255"),
		highlightBg:   ac("#fff3b0", "#5c4b00"),
		highlightFg:   ac("235", "255"),
		errorFg:       ac("160", "203"),
		pin:           ac("166", "214"),
		tierNormal:    "#4a90d9",
		tierMilestone: "#d4a017",
		tierComplete:  "#3cb371",
	},
	tracker.ThemeSteam: {
		accent:        ac("#1a5a8a", "#66c0f4"),
		muted:         ac("#4f5b66", "#8f98a0"),
		text:          ac("#1b2838", "#c7d5e0"),
		done:          ac("#8f98a0", "#4f5b66"),
		selectedBg:    ac("#dbe6ef", "#2a475e"),
		selectedFg:    ac("#1b2838", "#ffffff"),
		highlightBg:   ac("#f2e3b3", "#5a4a1a"),
		highlightFg:   ac("#1b2838", "#ffffff"),
		errorFg:       ac("#a11d1d", "#ff6b6b"),
		pin:           ac("#8a5a00", "#c6a04b"),
		tierNormal:    "#66c0f4",
		tierMilestone: "#c6a04b",
		tierComplete:  "#a4d007",
	},
}

func paletteFor(theme string) palette {
	if p, ok := palettes[theme]; ok {
		return p
	}
	return palettes[tracker.ThemeDefault]
}

func (p palette) tierColor(t progress.Tier) string {
	switch t {
	case progress.TierMilestone:
		return p.tierMilestone
	case progress.TierComplete:
		return p.tierComplete
	default:
		return p.tierNormal
	}
}

type styles struct {
	title     lipgloss.Style
	part      lipgloss.Style
	group     lipgloss.Style
	step      lipgloss.Style
	stepDone  lipgloss.Style
	muted     lipgloss.Style
	selected  lipgloss.Style
	highlight lipgloss.Style
	err       lipgloss.Style
	pin       lipgloss.Style
	label     lipgloss.Style
}

func newStyles(p palette) styles {
	return styles{
		title:     lipgloss.NewStyle().Bold(true).Foreground(p.accent),
		part:      lipgloss.NewStyle().Bold(true).Underline(true).Foreground(p.accent),
		group:     lipgloss.NewStyle().Bold(true).Foreground(p.text),
		step:      lipgloss.NewStyle().Foreground(p.text),
		stepDone:  faintIfDark(lipgloss.NewStyle().Foreground(p.done).Strikethrough(true)),
		muted:     faintIfDark(lipgloss.NewStyle().Foreground(p.muted)),
		selected:  lipgloss.NewStyle().Background(p.selectedBg).Foreground(p.selectedFg),
		highlight: lipgloss.NewStyle().Background(p.highlightBg).Foreground(p.highlightFg).Bold(true),
		err:       lipgloss.NewStyle().Bold(true).Foreground(p.errorFg),
		pin:       lipgloss.NewStyle().Bold(true).Foreground(p.pin),
		label:     lipgloss.NewStyle().Bold(true),
	}
}

// applyColorProfilePreference sets Lip Gloss's color profile for the interactive TUI.
//
// termenv.EnvColorProfile also honors CLICOLOR, which can disable colors in a TUI by
// accident. Here only NO_COLOR is honored; otherwise the terminal's capabilities win.
func applyColorProfilePreference() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}

	profile := termenv.ColorProfile()

	// Trust TERM/COLORTERM when they claim more than the detector reports.
	term := strings.ToLower(strings.TrimSpace(os.Getenv("TERM")))
	colorterm := strings.ToLower(strings.TrimSpace(os.Getenv("COLORTERM")))
	if strings.Contains(colorterm, "truecolor") || strings.Contains(colorterm, "24bit") {
		if profile != termenv.Ascii {
			profile = termenv.TrueColor
		}
	} else if strings.Contains(term, "256color") && profile != termenv.TrueColor {
		profile = termenv.ANSI256
	}

	lipgloss.SetColorProfile(profile)
}

// applyBackgroundPreference configures Lip Gloss's background detection.
//
// Priority:
// 1) ROUTETRACK_TUI_BG=light|dark|auto
// 2) COLORFGBG heuristic ("fg;bg")
func applyBackgroundPreference() {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("ROUTETRACK_TUI_BG"))) {
	case "light":
		lipgloss.SetHasDarkBackground(false)
		return
	case "dark":
		lipgloss.SetHasDarkBackground(true)
		return
	}

	if v := strings.TrimSpace(os.Getenv("COLORFGBG")); v != "" {
		parts := strings.Split(v, ";")
		if bg, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1])); err == nil {
			lipgloss.SetHasDarkBackground(bg < 7)
		}
	}
}
