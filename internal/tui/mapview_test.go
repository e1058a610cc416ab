package tui

import (
	"os"
	"path/filepath"
	"testing"

	"route-tracker/internal/model"
	"route-tracker/internal/viewport"

	tea "github.com/charmbracelet/bubbletea"
	xansi "github.com/charmbracelet/x/ansi"
)

func newMapModel(t *testing.T) *appModel {
	t.Helper()
	path := filepath.Join(t.TempDir(), "map.txt")
	if err := os.WriteFile(path, []byte("+----+\n| .B |\n+----+\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	s := newTestSession(t, func(r *model.Route) {
		r.Map = path
		r.Markers = []model.Marker{{X: 50, Y: 50, Title: "Bench"}}
	})
	m := newSizedModel(t, s)
	press(m, runes("m"))
	if m.mode != modeMap || m.mapErr != "" {
		t.Fatalf("map did not open: mode=%v err=%q", m.mode, m.mapErr)
	}
	return m
}

func stripAll(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = xansi.Strip(l)
	}
	return out
}

func TestRenderMapIdentity(t *testing.T) {
	got := stripAll(renderMap([]string{"ab", "cd"}, nil, viewport.Transform{Scale: 1}, 3, 3, newStyles(paletteFor(""))))
	want := []string{"ab ", "cd ", "   "}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("row %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRenderMapScaleAndOffset(t *testing.T) {
	st := newStyles(paletteFor(""))
	got := stripAll(renderMap([]string{"ab"}, nil, viewport.Transform{Scale: 2}, 4, 1, st))
	if got[0] != "aabb" {
		t.Fatalf("scaled row = %q", got[0])
	}
	got = stripAll(renderMap([]string{"ab"}, nil, viewport.Transform{Scale: 1, OffsetX: 1}, 3, 1, st))
	if got[0] != " ab" {
		t.Fatalf("offset row = %q", got[0])
	}
}

func TestRenderMapMarker(t *testing.T) {
	setGlyphs(glyphSetASCII)
	t.Cleanup(func() { setGlyphs(glyphSetUnicode) })

	markers := []model.Marker{{X: 50, Y: 50}, {X: 500, Y: 500}}
	got := stripAll(renderMap([]string{"....", "....", "....", "...."}, markers, viewport.Transform{Scale: 1}, 4, 4, newStyles(paletteFor(""))))
	if got[2] != "..@." {
		t.Fatalf("marker row = %q", got[2])
	}
}

func TestZoomSlider(t *testing.T) {
	lim := viewport.DefaultLimits()
	if got := zoomSlider(lim, lim.Min, 5); got != "[|----]" {
		t.Fatalf("min slider = %q", got)
	}
	if got := zoomSlider(lim, lim.Max, 5); got != "[----|]" {
		t.Fatalf("max slider = %q", got)
	}
}

func TestMapKeysZoomAndPersistOnClose(t *testing.T) {
	m := newMapModel(t)
	vp := m.session.Map

	press(m, runes("+"))
	if got := vp.Snapshot().Scale; got < 0.59 || got > 0.61 {
		t.Fatalf("scale after + = %v", got)
	}
	if vp.Writes() != 0 {
		t.Fatalf("wheel zoom should be debounced, writes = %d", vp.Writes())
	}

	press(m, runes("9"))
	if got := vp.Snapshot().Scale; got != vp.Limits().Max {
		t.Fatalf("slider 9 = %v", got)
	}
	press(m, runes("1"))
	if got := vp.Snapshot().Scale; got != vp.Limits().Min {
		t.Fatalf("slider 1 = %v", got)
	}

	press(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.mode != modeRoute {
		t.Fatalf("esc should close the map")
	}
	if vp.Writes() != 1 {
		t.Fatalf("close should flush once, writes = %d", vp.Writes())
	}
}

func TestMapPanAndRecenter(t *testing.T) {
	m := newMapModel(t)
	vp := m.session.Map

	press(m, tea.KeyMsg{Type: tea.KeyRight})
	if got := vp.Snapshot(); got.OffsetX != -4 {
		t.Fatalf("pan right: %+v", got)
	}
	press(m, runes("0"))
	if got := vp.Snapshot(); got != vp.Limits().Default() {
		t.Fatalf("re-center: %+v", got)
	}
	if vp.Writes() != 2 {
		t.Fatalf("pan and re-center persist at once, writes = %d", vp.Writes())
	}
}

func TestMapMouseDrag(t *testing.T) {
	m := newMapModel(t)
	vp := m.session.Map
	before := vp.Snapshot()

	m.Update(tea.MouseMsg{X: 10, Y: 10, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if vp.Phase() != viewport.Dragging {
		t.Fatalf("phase = %v", vp.Phase())
	}
	m.Update(tea.MouseMsg{X: 14, Y: 12, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	m.Update(tea.MouseMsg{X: 14, Y: 12, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})

	after := vp.Snapshot()
	if after.OffsetX-before.OffsetX != 4 || after.OffsetY-before.OffsetY != 2 {
		t.Fatalf("drag moved %+v -> %+v", before, after)
	}
	if vp.Phase() != viewport.Idle || vp.Writes() != 1 {
		t.Fatalf("drag end should persist: phase=%v writes=%d", vp.Phase(), vp.Writes())
	}

	m.Update(tea.MouseMsg{X: 14, Y: 12, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp})
	if got := vp.Snapshot().Scale; got <= after.Scale {
		t.Fatalf("wheel up should zoom in: %v", got)
	}
}

func TestMapMissing(t *testing.T) {
	m := newTestModel(t)
	press(m, runes("m"))
	if m.mapErr != "This route has no map" {
		t.Fatalf("mapErr = %q", m.mapErr)
	}
	press(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.mode != modeRoute {
		t.Fatalf("esc should close the map")
	}
}

func TestLoadMapLinesExpandsTabs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.txt")
	if err := os.WriteFile(path, []byte("a\tb\r\nc\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	lines, err := loadMapLines(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 2 || lines[0] != "a    b" || lines[1] != "c" {
		t.Fatalf("lines = %q", lines)
	}
	if w, h := mapSize(lines); w != 6 || h != 2 {
		t.Fatalf("size = %dx%d", w, h)
	}
}
