// Package progress turns completion statistics into the three-tier progress
// indicator shown in the header bar.
package progress

import (
	"fmt"
	"math"

	"route-tracker/internal/checklist"
)

type Tier int

const (
	TierNormal Tier = iota
	// TierMilestone: the dataset's milestone step (the "normal ending") is checked but
	// the route is not finished.
	TierMilestone
	TierComplete
)

func (t Tier) String() string {
	switch t {
	case TierMilestone:
		return "milestone"
	case TierComplete:
		return "complete"
	default:
		return "normal"
	}
}

func (t Tier) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// CompleteLabel replaces the percentage label once everything is checked.
const CompleteLabel = "Route Complete! 🎉"

type Indicator struct {
	Percent int    `json:"percent"`
	Tier    Tier   `json:"tier"`
	Label   string `json:"label"`
}

// Percent is round(100*checked/total), or 0 when nothing is presented.
func Percent(s checklist.Stats) int {
	if s.Total <= 0 {
		return 0
	}
	p := int(math.Round(100 * float64(s.Checked) / float64(s.Total)))
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// Classify is pure: the same stats and milestone flag always give the same indicator.
func Classify(s checklist.Stats, milestoneReached bool) Indicator {
	p := Percent(s)
	switch {
	case p == 100:
		return Indicator{Percent: p, Tier: TierComplete, Label: CompleteLabel}
	case milestoneReached:
		return Indicator{Percent: p, Tier: TierMilestone, Label: label(p)}
	default:
		return Indicator{Percent: p, Tier: TierNormal, Label: label(p)}
	}
}

func label(p int) string { return fmt.Sprintf("%d%% Completed", p) }
