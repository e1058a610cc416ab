// Package resume finds where the player left off: the first unchecked step in
// document order.
package resume

import (
	"sync"
	"time"

	"route-tracker/internal/model"
)

// DefaultHighlightDuration is how long the resumed row stays highlighted.
const DefaultHighlightDuration = 1500 * time.Millisecond

// Locate returns the first step in steps for which isChecked is false.
func Locate(steps []model.StepRef, isChecked func(id string) bool) (model.StepRef, bool) {
	for _, s := range steps {
		if !isChecked(s.StepID) {
			return s, true
		}
	}
	return model.StepRef{}, false
}

// Source is the subset of the checklist model the Locator reads.
type Source interface {
	Steps() []model.StepRef
	IsChecked(id string) bool
}

type Locator struct {
	src Source
}

func NewLocator(src Source) *Locator { return &Locator{src: src} }

// Locate scans the presented steps. It has no side effects.
func (l *Locator) Locate() (model.StepRef, bool) {
	return Locate(l.src.Steps(), l.src.IsChecked)
}

// Highlight is the transient emphasis applied to a resumed row. The caller schedules
// Clear(token) after Duration; a newer Flash invalidates older tokens so a stale
// timer cannot clear a fresh highlight.
type Highlight struct {
	Duration time.Duration

	mu     sync.Mutex
	stepID string
	token  uint64
	active bool
}

func NewHighlight(d time.Duration) *Highlight {
	if d <= 0 {
		d = DefaultHighlightDuration
	}
	return &Highlight{Duration: d}
}

// Flash highlights stepID and returns the token that clears it.
func (h *Highlight) Flash(stepID string) uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token++
	h.stepID = stepID
	h.active = true
	return h.token
}

// Clear removes the highlight if token is still current.
func (h *Highlight) Clear(token uint64) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.active || token != h.token {
		return false
	}
	h.active = false
	h.stepID = ""
	return true
}

func (h *Highlight) Active() (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.stepID, h.active
}
