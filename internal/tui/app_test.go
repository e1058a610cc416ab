package tui

import (
	"errors"
	"strings"
	"testing"

	"route-tracker/internal/model"
	"route-tracker/internal/store"
	"route-tracker/internal/tracker"

	tea "github.com/charmbracelet/bubbletea"
	xansi "github.com/charmbracelet/x/ansi"
)

const testRoute = `{
  "title": "Test Route",
  "namespace": "tt",
  "route": [
    {"id": "p1", "title": "Part 1: Start", "legs": [
      {"id": "leg1", "title": "Leg 1", "content": [
        {"type": "step", "id": "a", "text": "First"},
        {"type": "step", "id": "b", "text": "Second"}
      ]}
    ]},
    {"id": "p2", "title": "Part 2: End", "legs": [
      {"id": "leg2", "title": "Leg 2", "content": [
        {"type": "step", "id": "c", "text": "Third"},
        {"type": "img", "src": "img/hr.png"}
      ]}
    ]}
  ]
}`

func newTestSession(t *testing.T, mutate func(*model.Route)) *tracker.Session {
	t.Helper()
	r, err := model.Parse([]byte(testRoute), "json")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if mutate != nil {
		mutate(r)
	}
	s, err := tracker.Open(tracker.Options{Route: r, Backend: store.NewMemory()})
	if err != nil {
		t.Fatalf("open session: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newTestModel(t *testing.T) *appModel {
	t.Helper()
	return newSizedModel(t, newTestSession(t, nil))
}

func newSizedModel(t *testing.T, s *tracker.Session) *appModel {
	t.Helper()
	m := newAppModel(Options{Session: s})
	t.Cleanup(m.close)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	return m
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var space = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}

func press(m *appModel, keys ...tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = m.Update(k)
	}
	return cmd
}

func TestInitialCursorOnFirstLeg(t *testing.T) {
	m := newTestModel(t)
	if m.cursor != "g:leg1" {
		t.Fatalf("cursor = %q", m.cursor)
	}
	if m.Init() == nil {
		t.Fatalf("expected launch resume command")
	}
}

func TestToggleStepUpdatesProgress(t *testing.T) {
	m := newTestModel(t)
	press(m, runes("j"), space)
	if m.cursor != "s:a" {
		t.Fatalf("cursor = %q", m.cursor)
	}
	if !m.session.Checklist.IsChecked("a") {
		t.Fatalf("step a should be checked")
	}
	view := xansi.Strip(m.View())
	if !strings.Contains(view, "33% Completed") {
		t.Fatalf("header missing label:\n%s", view)
	}
	press(m, space)
	if m.session.Checklist.IsChecked("a") {
		t.Fatalf("second toggle should uncheck")
	}
}

func TestToggleLegFoldsRows(t *testing.T) {
	m := newTestModel(t)
	press(m, space)
	if !m.session.Collapse.IsCollapsed("leg1") {
		t.Fatalf("leg1 should be folded")
	}
	if indexOf(m.rows, "s:a") >= 0 {
		t.Fatalf("folded steps should not be rendered")
	}
	press(m, space)
	if indexOf(m.rows, "s:a") < 0 {
		t.Fatalf("unfolded steps should be rendered")
	}
}

func TestCursorSkipsNonSelectableRows(t *testing.T) {
	m := newTestModel(t)
	press(m, runes("j"), runes("j"), runes("j"))
	if m.cursor != "g:leg2" {
		t.Fatalf("cursor = %q, want g:leg2", m.cursor)
	}
	press(m, runes("j"), runes("j"))
	if m.cursor != "s:c" {
		t.Fatalf("cursor should stop on last step, got %q", m.cursor)
	}
	press(m, runes("p"))
	if m.cursor != "g:leg1" {
		t.Fatalf("prev part: cursor = %q", m.cursor)
	}
	press(m, runes("n"))
	if m.cursor != "g:leg2" {
		t.Fatalf("next part: cursor = %q", m.cursor)
	}
}

func TestAutoCollapseMovesCursorToLeg(t *testing.T) {
	m := newTestModel(t)
	press(m, runes("a"))
	if !m.session.AutoCollapse() {
		t.Fatalf("auto-collapse should be on")
	}
	press(m, runes("j"), space, runes("j"), space)
	if !m.session.Collapse.IsCollapsed("leg1") {
		t.Fatalf("completed leg should collapse")
	}
	if m.cursor != "g:leg1" {
		t.Fatalf("cursor = %q, want g:leg1", m.cursor)
	}
	if m.notice != "Completed: Leg 1" {
		t.Fatalf("notice = %q", m.notice)
	}
}

func TestResumeHighlightsFirstOpenStep(t *testing.T) {
	m := newTestModel(t)
	if err := m.session.SetChecked("a", true); err != nil {
		t.Fatal(err)
	}
	m.session.Collapse.Collapse("leg1")
	m.refresh(false)

	cmd := press(m, runes("r"))
	if cmd == nil {
		t.Fatalf("resume should schedule the highlight clear")
	}
	if m.cursor != "s:b" {
		t.Fatalf("cursor = %q", m.cursor)
	}
	if m.session.Collapse.IsCollapsed("leg1") {
		t.Fatalf("resume should expand the leg")
	}
	if id, on := m.session.Highlight.Active(); !on || id != "b" {
		t.Fatalf("highlight = %q %v", id, on)
	}

	m.Update(highlightClearMsg{token: 999})
	if _, on := m.session.Highlight.Active(); !on {
		t.Fatalf("stale token must not clear the highlight")
	}
}

func TestResumeWhenDone(t *testing.T) {
	m := newTestModel(t)
	for _, id := range []string{"a", "b", "c"} {
		if err := m.session.SetChecked(id, true); err != nil {
			t.Fatal(err)
		}
	}
	if cmd := press(m, runes("r")); cmd != nil {
		t.Fatalf("nothing to resume, expected no command")
	}
	if m.notice != "Every step is done" {
		t.Fatalf("notice = %q", m.notice)
	}
}

func TestResetRequiresConfirmation(t *testing.T) {
	m := newTestModel(t)
	press(m, runes("j"), space, runes("R"))
	if m.mode != modeConfirmReset {
		t.Fatalf("mode = %v", m.mode)
	}
	if !strings.Contains(xansi.Strip(m.View()), "Reset ALL progress?") {
		t.Fatalf("confirm modal not rendered")
	}
	press(m, runes("n"))
	if !m.session.Checklist.IsChecked("a") {
		t.Fatalf("cancel must keep progress")
	}

	press(m, runes("R"), runes("y"))
	if m.mode != modeRoute {
		t.Fatalf("mode = %v", m.mode)
	}
	if m.session.Checklist.IsChecked("a") {
		t.Fatalf("reset should clear progress")
	}
	if m.notice != "Progress reset" {
		t.Fatalf("notice = %q", m.notice)
	}
}

func TestThemeToggle(t *testing.T) {
	m := newTestModel(t)
	press(m, runes("t"))
	if got := m.session.Theme(); got != tracker.ThemeSteam {
		t.Fatalf("theme = %q", got)
	}
	press(m, runes("t"))
	if got := m.session.Theme(); got != tracker.ThemeDefault {
		t.Fatalf("theme = %q", got)
	}
}

func TestCopyStepText(t *testing.T) {
	var copied string
	orig := copyToClipboard
	copyToClipboard = func(s string) error { copied = s; return nil }
	t.Cleanup(func() { copyToClipboard = orig })

	m := newTestModel(t)
	press(m, runes("y"))
	if m.notice != "Select a step to copy" {
		t.Fatalf("notice = %q", m.notice)
	}
	press(m, runes("j"), runes("y"))
	if copied != "First" {
		t.Fatalf("copied %q", copied)
	}

	copyToClipboard = func(string) error { return errors.New("no display") }
	press(m, runes("y"))
	if !strings.Contains(m.notice, "no display") {
		t.Fatalf("notice = %q", m.notice)
	}
}

func TestLoadErrorScreen(t *testing.T) {
	m := newAppModel(Options{LoadErr: errors.New("route.json: unexpected end of JSON input")})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 20})
	if m.Init() != nil {
		t.Fatalf("error screen should not resume")
	}
	view := xansi.Strip(m.View())
	if !strings.Contains(view, "Could not load the route") || !strings.Contains(view, "unexpected end of JSON input") {
		t.Fatalf("error screen:\n%s", view)
	}
	if strings.Contains(view, "Completed") {
		t.Fatalf("error screen must not render route content")
	}
	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatalf("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected quit message")
	}
}

func TestQuit(t *testing.T) {
	m := newTestModel(t)
	cmd := press(m, runes("q"))
	if cmd == nil {
		t.Fatalf("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected quit message")
	}
}

func endsWithNote(r *model.Route) {
	last := &r.Parts[len(r.Parts)-1].Groups[0]
	last.Items = append(last.Items, model.Item{Kind: model.ItemKindNote, Text: "Rest at the bench."})
}

func TestCursorNeverRestsOnNonSelectableRow(t *testing.T) {
	m := newSizedModel(t, newTestSession(t, endsWithNote))
	if last := m.rows[len(m.rows)-1]; last.kind != rowNote {
		t.Fatalf("last row kind = %v, want note", last.kind)
	}
	if indexOf(m.rows, "") >= 0 {
		t.Fatalf("empty key must not match keyless rows")
	}

	press(m, runes("j"), space, runes("R"), runes("y"))
	if m.cursor != "g:leg1" {
		t.Fatalf("cursor after reset = %q, want g:leg1", m.cursor)
	}
	press(m, runes("j"), space)
	if !m.session.Checklist.IsChecked("a") {
		t.Fatalf("space after reset should check the step")
	}

	for _, id := range []string{"b", "c"} {
		if err := m.session.SetChecked(id, true); err != nil {
			t.Fatal(err)
		}
	}
	press(m, runes("r"))
	r, ok := m.selected()
	if !ok || !r.selectable() {
		t.Fatalf("cursor after empty resume = %q", m.cursor)
	}
	press(m, runes("j"), runes("j"), runes("j"), runes("j"), runes("j"))
	if m.cursor != "s:c" {
		t.Fatalf("cursor should stop on the last step, got %q", m.cursor)
	}
}

func TestHeaderMarksCurrentPart(t *testing.T) {
	m := newTestModel(t)
	if m.currentPart() != "p1" {
		t.Fatalf("current part = %q", m.currentPart())
	}
	view := xansi.Strip(m.View())
	if !strings.Contains(view, " Part 1 ") || !strings.Contains(view, " Part 2 ") {
		t.Fatalf("part nav missing:\n%s", view)
	}
	press(m, runes("n"))
	if m.currentPart() != "p2" {
		t.Fatalf("current part after n = %q", m.currentPart())
	}
}
