// Package viewport owns the pan/zoom state of the map overlay and reconciles pointer
// drag, multi-touch pinch, wheel and slider input into a single transform.
package viewport

import (
	"errors"
	"fmt"
	"math"
)

// Transform maps content coordinates to screen coordinates: translate first, then
// scale around the content's own origin, i.e. screen = offset + scale*content.
type Transform struct {
	Scale   float64 `json:"scale"`
	OffsetX float64 `json:"offsetX"`
	OffsetY float64 `json:"offsetY"`
}

// Apply maps a content point to the screen.
func (t Transform) Apply(x, y float64) (float64, float64) {
	return t.OffsetX + t.Scale*x, t.OffsetY + t.Scale*y
}

// Inverse maps a screen point back to content coordinates. Scale is never zero for a
// clamped transform.
func (t Transform) Inverse(sx, sy float64) (float64, float64) {
	return (sx - t.OffsetX) / t.Scale, (sy - t.OffsetY) / t.Scale
}

// String renders the transform in CSS order, which is also the composition order.
func (t Transform) String() string {
	return fmt.Sprintf("translate(%gpx, %gpx) scale(%g)", t.OffsetX, t.OffsetY, t.Scale)
}

func (t Transform) finite() bool {
	for _, v := range []float64{t.Scale, t.OffsetX, t.OffsetY} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

type Limits struct {
	Min       float64 `json:"minScale"`
	Max       float64 `json:"maxScale"`
	Initial   float64 `json:"initialScale"`
	WheelStep float64 `json:"wheelStep"`
}

// DefaultLimits are the map overlay's original bounds.
func DefaultLimits() Limits {
	return Limits{Min: 0.1, Max: 4, Initial: 0.5, WheelStep: 0.1}
}

func (l Limits) Validate() error {
	if !(l.Min > 0) {
		return errors.New("viewport: min scale must be > 0")
	}
	if !(l.Min < l.Max) {
		return fmt.Errorf("viewport: min scale %g must be < max scale %g", l.Min, l.Max)
	}
	if l.Initial < l.Min || l.Initial > l.Max {
		return fmt.Errorf("viewport: initial scale %g outside [%g, %g]", l.Initial, l.Min, l.Max)
	}
	if !(l.WheelStep > 0) {
		return errors.New("viewport: wheel step must be > 0")
	}
	return nil
}

// Clamp forces s into [Min, Max]. NaN maps to the initial scale.
func (l Limits) Clamp(s float64) float64 {
	if math.IsNaN(s) {
		s = l.Initial
	}
	return math.Min(math.Max(s, l.Min), l.Max)
}

// Default is the transform used when nothing (valid) is persisted.
func (l Limits) Default() Transform {
	return Transform{Scale: l.Clamp(l.Initial)}
}

// SliderPosition maps a scale to [0, 1] along the slider track.
func (l Limits) SliderPosition(scale float64) float64 {
	return (l.Clamp(scale) - l.Min) / (l.Max - l.Min)
}

// SliderScale maps a slider position in [0, 1] back to a scale.
func (l Limits) SliderScale(pos float64) float64 {
	return l.Clamp(l.Min + pos*(l.Max-l.Min))
}
