package viewport

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"
)

// KeyPrefix scopes persisted transforms inside a route namespace. The leading "@"
// keeps them out of the checklist's step keys.
const KeyPrefix = "@viewport/"

// DefaultDebounce is how long wheel and slider input must be quiet before the
// transform is written.
const DefaultDebounce = 300 * time.Millisecond

// Phase is the interaction state. Dragging and Pinching are mutually exclusive.
type Phase int

const (
	Idle Phase = iota
	Dragging
	Pinching
)

func (p Phase) String() string {
	switch p {
	case Dragging:
		return "dragging"
	case Pinching:
		return "pinching"
	default:
		return "idle"
	}
}

type Point struct {
	X, Y float64
}

func distance(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// Persister is the slice of a namespaced store the controller needs.
type Persister interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

type Options struct {
	// Kind distinguishes independent viewports (e.g. "map") within one namespace.
	Kind     string
	Limits   Limits
	Debounce time.Duration
	Store    Persister
	// OnError receives persistence failures, which never interrupt interaction.
	OnError func(error)
}

type Controller struct {
	key    string
	limits Limits
	st     Persister
	onErr  func(error)
	saver  *Debouncer

	mu     sync.Mutex
	t      Transform
	phase  Phase
	anchor Point // pointer minus offset at drag start

	pinchDist  float64
	pinchScale float64

	writes int
}

// New builds a controller positioned at the default transform. Call Open to restore
// persisted state.
func New(opts Options) (*Controller, error) {
	lim := opts.Limits
	if lim == (Limits{}) {
		lim = DefaultLimits()
	}
	if err := lim.Validate(); err != nil {
		return nil, err
	}
	kind := strings.TrimSpace(opts.Kind)
	if kind == "" {
		return nil, errors.New("viewport: kind is required")
	}
	c := &Controller{
		key:    KeyPrefix + kind,
		limits: lim,
		st:     opts.Store,
		onErr:  opts.OnError,
		t:      lim.Default(),
	}
	c.saver = NewDebouncer(opts.Debounce, c.persist)
	return c, nil
}

// Key is the store key the transform is persisted under.
func (c *Controller) Key() string { return c.key }

func (c *Controller) Limits() Limits { return c.limits }

// Open restores the persisted transform. Missing or unparseable state yields the
// default transform; a persisted scale outside the current limits is clamped.
func (c *Controller) Open() Transform {
	t := c.restore()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
	c.phase = Idle
	return c.t
}

func (c *Controller) restore() Transform {
	if c.st == nil {
		return c.limits.Default()
	}
	raw, ok, err := c.st.Get(c.key)
	if err != nil {
		c.report(err)
		return c.limits.Default()
	}
	if !ok {
		return c.limits.Default()
	}
	var t Transform
	if err := json.Unmarshal([]byte(raw), &t); err != nil || !t.finite() || t.Scale == 0 {
		return c.limits.Default()
	}
	t.Scale = c.limits.Clamp(t.Scale)
	return t
}

func (c *Controller) Snapshot() Transform {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Writes counts persistence writes issued so far.
func (c *Controller) Writes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.writes
}

// PointerDown starts a drag. It is ignored while a pinch is in progress.
func (c *Controller) PointerDown(p Point) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase == Pinching {
		return
	}
	c.startDragLocked(p)
}

func (c *Controller) startDragLocked(p Point) {
	c.phase = Dragging
	c.anchor = Point{X: p.X - c.t.OffsetX, Y: p.Y - c.t.OffsetY}
}

// PointerMove translates the content so the point grabbed at drag start stays under
// the pointer. It reports whether the transform changed.
func (c *Controller) PointerMove(p Point) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != Dragging {
		return false
	}
	c.t.OffsetX = p.X - c.anchor.X
	c.t.OffsetY = p.Y - c.anchor.Y
	return true
}

// PointerUp ends a drag and persists the final transform.
func (c *Controller) PointerUp() {
	c.mu.Lock()
	ended := c.phase == Dragging
	if ended {
		c.phase = Idle
	}
	c.mu.Unlock()
	if ended {
		c.persistNow()
	}
}

// TouchStart is called with every active touch. One touch starts a drag; two or more
// start a pinch anchored on the first two.
func (c *Controller) TouchStart(touches []Point) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case len(touches) >= 2:
		c.phase = Pinching
		c.pinchDist = distance(touches[0], touches[1])
		c.pinchScale = c.t.Scale
	case len(touches) == 1 && c.phase == Idle:
		c.startDragLocked(touches[0])
	}
}

// TouchMove updates a pinch (scale = start scale × distance ratio, clamped) or a
// single-touch drag. It reports whether the transform changed.
func (c *Controller) TouchMove(touches []Point) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.phase {
	case Pinching:
		if len(touches) < 2 {
			return false
		}
		d := distance(touches[0], touches[1])
		if c.pinchDist < 1e-9 {
			// Fingers started on the same spot; measure from here instead.
			c.pinchDist = d
			c.pinchScale = c.t.Scale
			return false
		}
		c.t.Scale = c.limits.Clamp(c.pinchScale * d / c.pinchDist)
		return true
	case Dragging:
		if len(touches) == 0 {
			return false
		}
		c.t.OffsetX = touches[0].X - c.anchor.X
		c.t.OffsetY = touches[0].Y - c.anchor.Y
		return true
	}
	return false
}

// TouchEnd is called with the touches that remain. A pinch left with one touch turns
// back into a drag anchored on it; no touches returns to Idle. Ending a gesture
// persists the transform.
func (c *Controller) TouchEnd(remaining []Point) {
	c.mu.Lock()
	prev := c.phase
	switch {
	case len(remaining) >= 2:
		if prev == Pinching {
			c.pinchDist = distance(remaining[0], remaining[1])
			c.pinchScale = c.t.Scale
		}
		c.mu.Unlock()
		return
	case len(remaining) == 1 && prev == Pinching:
		c.startDragLocked(remaining[0])
	case len(remaining) == 1:
		c.mu.Unlock()
		return
	default:
		c.phase = Idle
	}
	c.mu.Unlock()
	if prev != Idle {
		c.persistNow()
	}
}

// Release unconditionally returns to Idle, e.g. when the pointer leaves the window.
func (c *Controller) Release() {
	c.mu.Lock()
	prev := c.phase
	c.phase = Idle
	c.mu.Unlock()
	if prev != Idle {
		c.persistNow()
	}
}

// Wheel zooms one step per event: negative deltaY (wheel up) zooms in. The write is
// debounced.
func (c *Controller) Wheel(deltaY float64) Transform {
	if deltaY == 0 || math.IsNaN(deltaY) {
		return c.Snapshot()
	}
	c.mu.Lock()
	step := c.limits.WheelStep
	if deltaY > 0 {
		step = -step
	}
	c.t.Scale = c.limits.Clamp(c.t.Scale + step)
	t := c.t
	c.mu.Unlock()
	c.saver.Trigger()
	return t
}

// SetSlider sets the scale directly. The write is debounced.
func (c *Controller) SetSlider(scale float64) Transform {
	c.mu.Lock()
	c.t.Scale = c.limits.Clamp(scale)
	t := c.t
	c.mu.Unlock()
	c.saver.Trigger()
	return t
}

// Pan shifts the content by a discrete amount and persists at once.
func (c *Controller) Pan(dx, dy float64) Transform {
	c.mu.Lock()
	c.t.OffsetX += dx
	c.t.OffsetY += dy
	t := c.t
	c.mu.Unlock()
	c.persistNow()
	return t
}

// ResetView returns to the default transform and persists it.
func (c *Controller) ResetView() Transform {
	c.mu.Lock()
	c.t = c.limits.Default()
	c.phase = Idle
	t := c.t
	c.mu.Unlock()
	c.persistNow()
	return t
}

// Flush writes any debounced change now.
func (c *Controller) Flush() { c.saver.Flush() }

// Close flushes pending state.
func (c *Controller) Close() error {
	c.Flush()
	return nil
}

func (c *Controller) persistNow() {
	c.saver.Cancel()
	c.persist()
}

func (c *Controller) persist() {
	if c.st == nil {
		return
	}
	c.mu.Lock()
	t := c.t
	c.writes++
	c.mu.Unlock()
	b, err := json.Marshal(t)
	if err != nil {
		c.report(err)
		return
	}
	if err := c.st.Set(c.key, string(b)); err != nil {
		c.report(fmt.Errorf("viewport: persist %s: %w", c.key, err))
	}
}

func (c *Controller) report(err error) {
	if c.onErr != nil {
		c.onErr(err)
	}
}
