package tui

import (
	"fmt"
	"math"
	"os"
	"strings"

	"route-tracker/internal/model"
	"route-tracker/internal/viewport"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	xansi "github.com/charmbracelet/x/ansi"
)

// loadMapLines reads a text map. Tabs are expanded so every cell is one column.
func loadMapLines(path string) ([]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	text := strings.ReplaceAll(strings.ReplaceAll(string(b), "\r\n", "\n"), "\t", "    ")
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	if len(lines) == 0 || (len(lines) == 1 && lines[0] == "") {
		return nil, fmt.Errorf("map %s is empty", path)
	}
	return lines, nil
}

func mapSize(lines []string) (w, h int) {
	for _, l := range lines {
		if n := len([]rune(l)); n > w {
			w = n
		}
	}
	return w, len(lines)
}

// renderMap samples the map through the transform into a w×h grid and overlays the
// markers, which are positioned in percent of the map size.
func renderMap(lines []string, markers []model.Marker, t viewport.Transform, w, h int, st styles) []string {
	grid := make([][]rune, len(lines))
	for i, l := range lines {
		grid[i] = []rune(l)
	}
	mw, mh := mapSize(lines)

	cells := make([][]rune, h)
	pins := make([][]bool, h)
	for y := 0; y < h; y++ {
		cells[y] = make([]rune, w)
		pins[y] = make([]bool, w)
		for x := 0; x < w; x++ {
			cx, cy := t.Inverse(float64(x), float64(y))
			col, ln := int(math.Floor(cx)), int(math.Floor(cy))
			r := ' '
			if ln >= 0 && ln < len(grid) && col >= 0 && col < len(grid[ln]) {
				r = grid[ln][col]
			}
			cells[y][x] = r
		}
	}
	for _, mk := range markers {
		sx, sy := t.Apply(mk.X/100*float64(mw), mk.Y/100*float64(mh))
		x, y := int(math.Floor(sx)), int(math.Floor(sy))
		if x < 0 || x >= w || y < 0 || y >= h {
			continue
		}
		pin := []rune(glyphPin())
		cells[y][x] = pin[0]
		pins[y][x] = true
	}

	out := make([]string, h)
	for y := range cells {
		var b strings.Builder
		for x, r := range cells[y] {
			if pins[y][x] {
				b.WriteString(st.pin.Render(string(r)))
				continue
			}
			b.WriteRune(r)
		}
		out[y] = b.String()
	}
	return out
}

// zoomSlider draws the current scale as a slider across the limits.
func zoomSlider(lim viewport.Limits, scale float64, width int) string {
	if width < 3 {
		width = 3
	}
	pos := int(math.Round(lim.SliderPosition(scale) * float64(width-1)))
	return "[" + strings.Repeat("-", pos) + "|" + strings.Repeat("-", width-1-pos) + "]"
}

func (m *appModel) openMap() {
	m.mapLines, m.mapErr = nil, ""
	path := m.session.Route.Map
	if path == "" {
		m.mapErr = "This route has no map"
	} else if lines, err := loadMapLines(path); err != nil {
		m.log.Warn("map load failed", "path", path, "err", err)
		m.mapErr = "Could not load map: " + err.Error()
	} else {
		m.mapLines = lines
	}
	m.mode = modeMap
}

func (m *appModel) closeMap() {
	m.session.Map.Release()
	m.session.Map.Flush()
	m.mode = modeRoute
}

func (m *appModel) updateMap(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	vp := m.session.Map
	switch {
	case msg.String() == "ctrl+c":
		m.closeMap()
		return m, tea.Quit
	case key.Matches(msg, m.mapKeys.Close):
		m.closeMap()
		m.refresh(false)
	case key.Matches(msg, m.mapKeys.ZoomIn):
		vp.Wheel(-1)
	case key.Matches(msg, m.mapKeys.ZoomOut):
		vp.Wheel(1)
	case key.Matches(msg, m.mapKeys.Slider):
		n := int(msg.String()[0] - '0')
		vp.SetSlider(vp.Limits().SliderScale(float64(n-1) / 8))
	case key.Matches(msg, m.mapKeys.Center):
		vp.ResetView()
	case key.Matches(msg, m.mapKeys.Pan):
		switch msg.String() {
		case "right", "l":
			vp.Pan(-4, 0)
		case "left", "h":
			vp.Pan(4, 0)
		case "up", "k":
			vp.Pan(0, 2)
		case "down", "j":
			vp.Pan(0, -2)
		}
	}
	return m, nil
}

func (m *appModel) updateMapMouse(msg tea.MouseMsg) {
	vp := m.session.Map
	p := viewport.Point{X: float64(msg.X), Y: float64(msg.Y - headerHeight)}
	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		vp.Wheel(-1)
	case msg.Button == tea.MouseButtonWheelDown:
		vp.Wheel(1)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		vp.PointerDown(p)
	case msg.Action == tea.MouseActionMotion:
		vp.PointerMove(p)
	case msg.Action == tea.MouseActionRelease:
		vp.PointerUp()
	}
}

func (m *appModel) mapView() string {
	h := m.bodyHeight()
	if m.mapErr != "" {
		lines := []string{"", "  " + m.styles.err.Render(m.mapErr)}
		for len(lines) < h {
			lines = append(lines, "")
		}
		return strings.Join(lines[:h], "\n")
	}
	vp := m.session.Map
	t := vp.Snapshot()
	status := fmt.Sprintf(" zoom %3.0f%% %s", t.Scale*100, zoomSlider(vp.Limits(), t.Scale, 20))
	rows := renderMap(m.mapLines, m.session.Route.Markers, t, m.width, h-1, m.styles)
	for i := range rows {
		rows[i] = xansi.Truncate(rows[i], m.width, "")
	}
	return strings.Join(append(rows, m.styles.muted.Render(truncate(status, m.width))), "\n")
}
