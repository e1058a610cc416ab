package checklist

import (
	"math/rand"
	"testing"

	"route-tracker/internal/model"
	"route-tracker/internal/store"
)

func twoStepRoute() *model.Route {
	return &model.Route{Parts: []model.Part{{
		ID:    "part1",
		Title: "Part 1",
		Groups: []model.Group{
			{ID: "g1", Title: "Leg 1", Items: []model.Item{
				{Kind: model.ItemKindStep, ID: "a", Text: "A"},
				{Kind: model.ItemKindNote, Text: "note"},
				{Kind: model.ItemKindStep, ID: "b", Text: "B"},
			}},
			{ID: "g2", Title: "Leg 2", Items: []model.Item{
				{Kind: model.ItemKindImage, Src: "x.png"},
			}},
		},
	}}}
}

func newModel(t *testing.T, b store.Backend, r *model.Route) *Model {
	t.Helper()
	ns, err := store.NewNamespace(b, "test")
	if err != nil {
		t.Fatalf("NewNamespace: %v", err)
	}
	m, err := New(ns, r)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return m
}

func TestStats_NothingPresentedIsZero(t *testing.T) {
	t.Parallel()

	m := newModel(t, store.NewMemory(), twoStepRoute())
	if got := m.Stats(); got != (Stats{}) {
		t.Fatalf("Stats before Present = %+v", got)
	}
	m.PresentAll()
	if got := m.Stats(); got != (Stats{Total: 2, Checked: 0}) {
		t.Fatalf("Stats = %+v; want 2/0", got)
	}
	if got := m.StatsForGroup("g2"); got.Complete() {
		t.Fatalf("group without steps must never be complete: %+v", got)
	}
}

func TestSetChecked_WritesThroughAndPersists(t *testing.T) {
	t.Parallel()

	b := store.NewMemory()
	m := newModel(t, b, twoStepRoute())
	m.PresentAll()

	if err := m.SetChecked("a", true); err != nil {
		t.Fatalf("SetChecked: %v", err)
	}
	if v, ok, _ := b.Get("test/a"); !ok || v != "true" {
		t.Fatalf("expected test/a=true in backend; got %q ok=%v", v, ok)
	}
	if err := m.SetChecked("b", false); err != nil {
		t.Fatalf("SetChecked: %v", err)
	}
	if v, _, _ := b.Get("test/b"); v != "false" {
		t.Fatalf("expected test/b=false; got %q", v)
	}

	reloaded := newModel(t, b, twoStepRoute())
	reloaded.PresentAll()
	if !reloaded.IsChecked("a") || reloaded.IsChecked("b") {
		t.Fatalf("reload lost state: a=%v b=%v", reloaded.IsChecked("a"), reloaded.IsChecked("b"))
	}
}

func TestSetChecked_IdempotentButStillNotifies(t *testing.T) {
	t.Parallel()

	m := newModel(t, store.NewMemory(), twoStepRoute())
	m.PresentAll()

	var changes []Change
	m.Subscribe(func(c Change) { changes = append(changes, c) })

	_ = m.SetChecked("a", true)
	first := m.Stats()
	_ = m.SetChecked("a", true)
	if !m.IsChecked("a") || m.Stats() != first {
		t.Fatalf("second write changed state: %+v vs %+v", m.Stats(), first)
	}
	if len(changes) != 2 || changes[0] != changes[1] {
		t.Fatalf("expected two identical notifications; got %+v", changes)
	}
	if changes[0].GroupID != "g1" {
		t.Fatalf("expected change to carry group id; got %+v", changes[0])
	}
}

func TestUnknownIDsAreTolerated(t *testing.T) {
	t.Parallel()

	m := newModel(t, store.NewMemory(), twoStepRoute())
	m.PresentAll()

	if m.IsChecked("renamed-step") {
		t.Fatalf("unknown id must read unchecked")
	}
	if err := m.SetChecked("renamed-step", true); err != nil {
		t.Fatalf("SetChecked(unknown): %v", err)
	}
	if got := m.Stats(); got.Checked != 0 {
		t.Fatalf("unknown id must not count; got %+v", got)
	}
	if got := m.StatsForGroup("no-such-group"); got != (Stats{}) {
		t.Fatalf("StatsForGroup(unknown) = %+v", got)
	}
}

func TestMalformedStoredValuesReadUnchecked(t *testing.T) {
	t.Parallel()

	b := store.NewMemory()
	_ = b.Set("test/a", "TRUE")
	_ = b.Set("test/b", "true")
	_ = b.Set("test/@autoCollapse", "true")
	m := newModel(t, b, twoStepRoute())
	m.PresentAll()
	if m.IsChecked("a") || !m.IsChecked("b") {
		t.Fatalf("a=%v b=%v", m.IsChecked("a"), m.IsChecked("b"))
	}
	if err := m.SetChecked("@theme", true); err == nil {
		t.Fatalf("expected reserved key to be rejected")
	}
}

func TestStats_LastWriteWinsInAnyOrder(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(7))
	ids := []string{"a", "b", "ghost"}
	for round := 0; round < 50; round++ {
		m := newModel(t, store.NewMemory(), twoStepRoute())
		m.PresentAll()
		last := map[string]bool{}
		for i := 0; i < 20; i++ {
			id := ids[rng.Intn(len(ids))]
			v := rng.Intn(2) == 0
			_ = m.SetChecked(id, v)
			last[id] = v
		}
		want := 0
		for _, id := range []string{"a", "b"} {
			if last[id] {
				want++
			}
		}
		if got := m.Stats().Checked; got != want {
			t.Fatalf("round %d: Checked = %d; want %d", round, got, want)
		}
	}
}

func TestPresent_ScopesStatsToRenderedParts(t *testing.T) {
	t.Parallel()

	r := twoStepRoute()
	r.Parts = append(r.Parts, model.Part{ID: "part2", Groups: []model.Group{{ID: "g3", Items: []model.Item{
		{Kind: model.ItemKindStep, ID: "c"},
	}}}})
	m := newModel(t, store.NewMemory(), r)
	_ = m.SetChecked("c", true)

	m.Present(r.Parts[:1])
	if got := m.Stats(); got != (Stats{Total: 2}) {
		t.Fatalf("Stats = %+v; want only part1 counted", got)
	}
	if _, ok := m.GroupOf("c"); ok {
		t.Fatalf("c is not presented")
	}
	m.PresentAll()
	if got := m.Stats(); got != (Stats{Total: 3, Checked: 1}) {
		t.Fatalf("Stats = %+v", got)
	}
	if got := m.GroupIDs(); len(got) != 2 || got[0] != "g1" || got[1] != "g3" {
		t.Fatalf("GroupIDs = %v", got)
	}
}
