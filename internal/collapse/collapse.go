// Package collapse tracks which groups (legs) are folded, combining manual toggles
// with the dataset-wide auto-collapse preference.
package collapse

import (
	"sort"
	"sync"

	"route-tracker/internal/checklist"
	"route-tracker/internal/notify"
)

type State int

const (
	Expanded State = iota
	Collapsed
)

func (s State) String() string {
	if s == Collapsed {
		return "collapsed"
	}
	return "expanded"
}

// Transition is published whenever a group changes state.
type Transition struct {
	GroupID string
	State   State
}

// StatsFunc returns the completion statistics of one group.
type StatsFunc func(groupID string) checklist.Stats

// Controller is not persisted: manual state is derived fresh from completion and the
// preference on every load.
type Controller struct {
	stats StatsFunc

	mu        sync.Mutex
	auto      bool
	collapsed map[string]bool
	groups    []string

	transitions notify.Hub[Transition]
}

func New(stats StatsFunc) *Controller {
	return &Controller{stats: stats, collapsed: map[string]bool{}}
}

// Reset forgets manual state and derives every group's state from the preference:
// with auto-collapse on, fully complete groups start collapsed.
func (c *Controller) Reset(groupIDs []string, autoCollapse bool) {
	c.mu.Lock()
	c.groups = append([]string(nil), groupIDs...)
	c.auto = autoCollapse
	c.collapsed = map[string]bool{}
	c.mu.Unlock()
	if autoCollapse {
		c.collapseComplete()
	}
}

func (c *Controller) AutoCollapse() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.auto
}

// SetAutoCollapse enables or disables the preference. Disabling expands every group,
// including manually collapsed ones; enabling collapses every complete group once.
func (c *Controller) SetAutoCollapse(on bool) {
	c.mu.Lock()
	c.auto = on
	var expanded []string
	if !on {
		for id, folded := range c.collapsed {
			if folded {
				expanded = append(expanded, id)
			}
		}
		c.collapsed = map[string]bool{}
	}
	c.mu.Unlock()

	if on {
		c.collapseComplete()
		return
	}
	for _, id := range c.sortedByDocument(expanded) {
		c.transitions.Publish(Transition{GroupID: id, State: Expanded})
	}
}

// OnStepToggled is called after a step inside groupID changed.
func (c *Controller) OnStepToggled(groupID string) {
	if groupID == "" || !c.AutoCollapse() {
		return
	}
	if c.stats(groupID).Complete() {
		c.set(groupID, Collapsed)
	}
}

// HandleChange adapts OnStepToggled to checklist subscriptions.
func (c *Controller) HandleChange(ch checklist.Change) { c.OnStepToggled(ch.GroupID) }

// Toggle flips a group regardless of completion or preference.
func (c *Controller) Toggle(groupID string) State {
	next := Collapsed
	if c.IsCollapsed(groupID) {
		next = Expanded
	}
	c.set(groupID, next)
	return next
}

func (c *Controller) Expand(groupID string) { c.set(groupID, Expanded) }

func (c *Controller) Collapse(groupID string) { c.set(groupID, Collapsed) }

func (c *Controller) IsCollapsed(groupID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.collapsed[groupID]
}

func (c *Controller) State(groupID string) State {
	if c.IsCollapsed(groupID) {
		return Collapsed
	}
	return Expanded
}

func (c *Controller) Subscribe(fn func(Transition)) func() { return c.transitions.Subscribe(fn) }

func (c *Controller) collapseComplete() {
	c.mu.Lock()
	groups := append([]string(nil), c.groups...)
	c.mu.Unlock()
	for _, id := range groups {
		if c.stats(id).Complete() {
			c.set(id, Collapsed)
		}
	}
}

func (c *Controller) set(groupID string, s State) {
	if groupID == "" {
		return
	}
	c.mu.Lock()
	was := c.collapsed[groupID]
	if s == Collapsed {
		c.collapsed[groupID] = true
	} else {
		delete(c.collapsed, groupID)
	}
	c.mu.Unlock()
	if was != (s == Collapsed) {
		c.transitions.Publish(Transition{GroupID: groupID, State: s})
	}
}

func (c *Controller) sortedByDocument(ids []string) []string {
	c.mu.Lock()
	order := map[string]int{}
	for i, id := range c.groups {
		order[id] = i
	}
	c.mu.Unlock()
	out := append([]string(nil), ids...)
	sort.SliceStable(out, func(i, j int) bool { return rank(order, out[i]) < rank(order, out[j]) })
	return out
}

func rank(order map[string]int, id string) int {
	if i, ok := order[id]; ok {
		return i
	}
	return len(order)
}
