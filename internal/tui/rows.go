package tui

import (
	"fmt"
	"strings"

	"route-tracker/internal/model"
	"route-tracker/internal/tracker"

	xansi "github.com/charmbracelet/x/ansi"
)

type rowKind int

const (
	rowPart rowKind = iota
	rowGroup
	rowStep
	rowNote
	rowImage
	rowDivider
)

type row struct {
	kind    rowKind
	partID  string
	groupID string
	stepID  string
	text    string
}

func (r row) selectable() bool { return r.kind == rowGroup || r.kind == rowStep }

// key identifies a row across rebuilds, so the cursor survives collapses.
func (r row) key() string {
	switch r.kind {
	case rowGroup:
		return "g:" + r.groupID
	case rowStep:
		return "s:" + r.stepID
	case rowPart:
		return "p:" + r.partID
	}
	return ""
}

// buildRows flattens the route into display rows, skipping the items of collapsed
// groups. It is recomputed after every change rather than patched in place.
func buildRows(s *tracker.Session) []row {
	var out []row
	for _, p := range s.Route.Parts {
		out = append(out, row{kind: rowPart, partID: p.ID, text: p.Title})
		for _, g := range p.Groups {
			out = append(out, row{kind: rowGroup, partID: p.ID, groupID: g.ID, text: g.Title})
			if s.Collapse.IsCollapsed(g.ID) {
				continue
			}
			for _, it := range g.Items {
				r := row{partID: p.ID, groupID: g.ID, text: it.Text}
				switch {
				case it.IsStep():
					r.kind, r.stepID = rowStep, it.ID
				case it.IsDivider():
					r.kind = rowDivider
				case it.Kind == model.ItemKindImage:
					r.kind, r.text = rowImage, it.Src
				default:
					r.kind = rowNote
				}
				out = append(out, r)
			}
		}
	}
	return out
}

// indexOf finds the row with the given key. Rows without a key (notes, images,
// dividers) are never matched.
func indexOf(rows []row, key string) int {
	if key == "" {
		return -1
	}
	for i, r := range rows {
		if r.key() == key {
			return i
		}
	}
	return -1
}

// renderRow returns the lines for one row at the given width.
func (m *appModel) renderRow(r row, selected bool, width int) []string {
	st := m.styles
	var line string
	switch r.kind {
	case rowPart:
		line = st.part.Render(r.text)
	case rowGroup:
		twisty := glyphTwistyExpanded()
		if m.session.Collapse.IsCollapsed(r.groupID) {
			twisty = glyphTwistyCollapsed()
		}
		stats := m.session.Checklist.StatsForGroup(r.groupID)
		count := ""
		if stats.Total > 0 {
			count = st.muted.Render(fmt.Sprintf(" (%d/%d)", stats.Checked, stats.Total))
		}
		line = twisty + " " + st.group.Render(r.text) + count
	case rowStep:
		box, style := glyphUnchecked(), st.step
		if m.session.Checklist.IsChecked(r.stepID) {
			box, style = glyphChecked(), st.stepDone
		}
		line = "  " + box + " " + style.Render(r.text)
		if id, on := m.session.Highlight.Active(); on && id == r.stepID {
			line = st.highlight.Render(xansi.Strip(line))
		}
	case rowDivider:
		w := width - 4
		if w < 1 {
			w = 1
		}
		line = "  " + st.muted.Render(strings.Repeat(glyphHRule(), w))
	case rowImage:
		line = "  " + st.muted.Render(glyphImage()+" "+r.text)
	case rowNote:
		body := renderNote(r.text, width-4)
		lines := strings.Split(body, "\n")
		for i := range lines {
			lines[i] = truncate("    "+lines[i], width)
		}
		return lines
	}
	if selected {
		line = st.selected.Render(glyphCursor() + xansi.Strip(line))
	} else {
		line = " " + line
	}
	return []string{truncate(line, width)}
}

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if xansi.StringWidth(s) <= width {
		return s
	}
	return xansi.Truncate(s, width, "…")
}
