// Package checklist owns per-step completion state for one dataset and derives
// completion statistics from the steps currently presented.
package checklist

import (
	"fmt"
	"strings"
	"sync"

	"route-tracker/internal/model"
	"route-tracker/internal/notify"
	"route-tracker/internal/store"
)

// Store is the persistence surface the model writes through to. *store.Namespace
// satisfies it.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Keys() ([]string, error)
}

type Stats struct {
	Total   int `json:"total"`
	Checked int `json:"checked"`
}

// Complete reports whether every step is checked. A group with no steps is never
// complete.
func (s Stats) Complete() bool { return s.Total > 0 && s.Checked == s.Total }

// Change is published after every SetChecked, including redundant writes.
type Change struct {
	StepID  string
	GroupID string // empty when the step is not currently presented
	Checked bool
}

type Model struct {
	st    Store
	route *model.Route

	mu         sync.RWMutex
	done       map[string]bool
	steps      []model.StepRef
	groupOf    map[string]string
	groupSteps map[string][]string

	changes notify.Hub[Change]
}

// New loads the completion flags of st. Nothing is presented yet, so Stats is 0/0
// until Present or PresentAll is called.
func New(st Store, route *model.Route) (*Model, error) {
	m := &Model{st: st, route: route}
	if err := m.Reload(); err != nil {
		return nil, err
	}
	m.Present(nil)
	return m, nil
}

// Reload re-reads every completion flag from the store.
func (m *Model) Reload() error {
	keys, err := m.st.Keys()
	if err != nil {
		return fmt.Errorf("load completion: %w", err)
	}
	done := map[string]bool{}
	for _, k := range keys {
		if store.IsReserved(k) {
			continue
		}
		v, ok, err := m.st.Get(k)
		if err != nil {
			return fmt.Errorf("load completion %s: %w", k, err)
		}
		// Only the literal "true" counts; legacy or malformed values read as unchecked.
		if ok && strings.TrimSpace(v) == "true" {
			done[k] = true
		}
	}
	m.mu.Lock()
	m.done = done
	m.mu.Unlock()
	return nil
}

func (m *Model) Route() *model.Route { return m.route }

// Present replaces the set of rendered steps. Statistics only count these.
func (m *Model) Present(parts []model.Part) {
	steps := model.Steps(parts)
	groupOf := make(map[string]string, len(steps))
	groupSteps := map[string][]string{}
	for _, s := range steps {
		groupOf[s.StepID] = s.GroupID
		groupSteps[s.GroupID] = append(groupSteps[s.GroupID], s.StepID)
	}
	m.mu.Lock()
	m.steps = steps
	m.groupOf = groupOf
	m.groupSteps = groupSteps
	m.mu.Unlock()
}

// PresentAll presents the whole route.
func (m *Model) PresentAll() {
	if m.route == nil {
		m.Present(nil)
		return
	}
	m.Present(m.route.Parts)
}

func (m *Model) IsChecked(id string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.done[id]
}

// SetChecked writes the flag through to the store, then notifies subscribers. Unknown
// ids are stored but never counted.
func (m *Model) SetChecked(id string, checked bool) error {
	id = strings.TrimSpace(id)
	if id == "" || store.IsReserved(id) {
		return fmt.Errorf("invalid step id %q", id)
	}
	v := "false"
	if checked {
		v = "true"
	}
	if err := m.st.Set(id, v); err != nil {
		return fmt.Errorf("save %s: %w", id, err)
	}

	m.mu.Lock()
	if checked {
		m.done[id] = true
	} else {
		delete(m.done, id)
	}
	groupID := m.groupOf[id]
	m.mu.Unlock()

	m.changes.Publish(Change{StepID: id, GroupID: groupID, Checked: checked})
	return nil
}

// Toggle flips a step and returns its new state.
func (m *Model) Toggle(id string) (bool, error) {
	next := !m.IsChecked(id)
	return next, m.SetChecked(id, next)
}

func (m *Model) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := Stats{Total: len(m.steps)}
	for _, st := range m.steps {
		if m.done[st.StepID] {
			s.Checked++
		}
	}
	return s
}

func (m *Model) StatsForGroup(groupID string) Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := m.groupSteps[groupID]
	s := Stats{Total: len(ids)}
	for _, id := range ids {
		if m.done[id] {
			s.Checked++
		}
	}
	return s
}

// Steps returns the presented steps in document order.
func (m *Model) Steps() []model.StepRef {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.StepRef, len(m.steps))
	copy(out, m.steps)
	return out
}

// GroupIDs returns the ids of presented groups that contain at least one step, in
// document order.
func (m *Model) GroupIDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []string
	seen := map[string]bool{}
	for _, s := range m.steps {
		if !seen[s.GroupID] {
			seen[s.GroupID] = true
			out = append(out, s.GroupID)
		}
	}
	return out
}

// GroupOf returns the presented group containing stepID.
func (m *Model) GroupOf(stepID string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.groupOf[stepID]
	return g, ok
}

func (m *Model) Subscribe(fn func(Change)) func() { return m.changes.Subscribe(fn) }
