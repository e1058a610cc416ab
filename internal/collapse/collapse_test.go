package collapse

import (
	"testing"

	"route-tracker/internal/checklist"
)

type fakeStats map[string]checklist.Stats

func (f fakeStats) get(id string) checklist.Stats { return f[id] }

func TestOnStepToggled_CollapsesOnlyWhenAutoAndComplete(t *testing.T) {
	t.Parallel()

	stats := fakeStats{"g1": {Total: 2, Checked: 2}, "g2": {Total: 2, Checked: 1}, "empty": {}}
	c := New(stats.get)
	c.Reset([]string{"g1", "g2", "empty"}, false)

	c.OnStepToggled("g1")
	if c.IsCollapsed("g1") {
		t.Fatalf("auto-collapse off: group must stay expanded")
	}

	c.SetAutoCollapse(true)
	if !c.IsCollapsed("g1") {
		t.Fatalf("enabling auto-collapse must collapse complete groups")
	}
	if c.IsCollapsed("g2") || c.IsCollapsed("empty") {
		t.Fatalf("incomplete or empty groups must stay expanded")
	}

	stats["g2"] = checklist.Stats{Total: 2, Checked: 2}
	c.OnStepToggled("g2")
	if !c.IsCollapsed("g2") {
		t.Fatalf("completing g2 with auto-collapse on must collapse it")
	}

	c.OnStepToggled("empty")
	if c.IsCollapsed("empty") {
		t.Fatalf("zero-step group must never auto-collapse")
	}
}

func TestSetAutoCollapseOff_ExpandsEverything(t *testing.T) {
	t.Parallel()

	stats := fakeStats{"g1": {Total: 1, Checked: 1}, "g2": {Total: 1}}
	c := New(stats.get)
	c.Reset([]string{"g1", "g2"}, true)
	c.Toggle("g2") // manual collapse of an incomplete group

	var got []Transition
	c.Subscribe(func(tr Transition) { got = append(got, tr) })

	c.SetAutoCollapse(false)
	if c.IsCollapsed("g1") || c.IsCollapsed("g2") {
		t.Fatalf("disabling auto-collapse must expand all groups")
	}
	want := []Transition{{"g1", Expanded}, {"g2", Expanded}}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("transitions = %+v; want %+v", got, want)
	}
}

func TestToggle_IgnoresCompletionAndPreference(t *testing.T) {
	t.Parallel()

	stats := fakeStats{"g1": {Total: 1, Checked: 1}}
	c := New(stats.get)
	c.Reset([]string{"g1"}, true)
	if !c.IsCollapsed("g1") {
		t.Fatalf("expected complete group collapsed on load")
	}
	if s := c.Toggle("g1"); s != Expanded {
		t.Fatalf("Toggle = %v; want expanded", s)
	}
	if c.IsCollapsed("g1") {
		t.Fatalf("manual expand must stick until the next step toggle")
	}
	if s := c.Toggle("g1"); s != Collapsed || c.State("g1") != Collapsed {
		t.Fatalf("Toggle back = %v", s)
	}
}

func TestReset_DropsManualState(t *testing.T) {
	t.Parallel()

	stats := fakeStats{"g1": {Total: 2, Checked: 0}}
	c := New(stats.get)
	c.Reset([]string{"g1"}, false)
	c.Collapse("g1")
	c.Reset([]string{"g1"}, false)
	if c.IsCollapsed("g1") {
		t.Fatalf("Reset must derive state fresh")
	}
}

func TestHandleChange_NoPublishWithoutTransition(t *testing.T) {
	t.Parallel()

	stats := fakeStats{"g1": {Total: 1, Checked: 1}}
	c := New(stats.get)
	c.Reset([]string{"g1"}, true)

	n := 0
	c.Subscribe(func(Transition) { n++ })
	c.HandleChange(checklist.Change{StepID: "a", GroupID: "g1", Checked: true})
	if n != 0 {
		t.Fatalf("already collapsed group must not publish again; got %d", n)
	}
}
