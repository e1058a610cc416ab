package model

import "strings"

type ItemKind string

const (
	ItemKindStep  ItemKind = "step"
	ItemKindImage ItemKind = "img"
	ItemKindNote  ItemKind = "note"
)

// Item is one entry of a group's content. Only steps carry completion state.
type Item struct {
	Kind ItemKind `json:"type"`
	ID   string   `json:"id,omitempty"`
	Text string   `json:"text,omitempty"`
	Src  string   `json:"src,omitempty"`
}

func (it Item) IsStep() bool { return it.Kind == ItemKindStep }

// IsDivider reports whether an image item is the horizontal-rule sprite rather than
// real artwork.
func (it Item) IsDivider() bool {
	return it.Kind == ItemKindImage && strings.Contains(it.Src, "hr.png")
}

// Group is a leg of the route.
type Group struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Items []Item `json:"content"`
}

// StepCount counts the step items of the group.
func (g Group) StepCount() int {
	n := 0
	for _, it := range g.Items {
		if it.IsStep() {
			n++
		}
	}
	return n
}

type Part struct {
	ID     string  `json:"id"`
	Title  string  `json:"title"`
	Groups []Group `json:"legs"`
}

// ShortTitle returns the navigation label: "Part 1: Forgotten Crossroads" -> "Part 1".
func (p Part) ShortTitle() string {
	t, _, _ := strings.Cut(p.Title, ":")
	return strings.TrimSpace(t)
}

// Marker is a pin on the map image, positioned in percent of the map size.
type Marker struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Title string  `json:"title"`
	Type  string  `json:"type,omitempty"`
}

// Route is a loaded dataset: the ordered route tree plus dataset-level metadata.
type Route struct {
	// ID is the registry name the dataset was opened under.
	ID        string   `json:"id,omitempty"`
	Title     string   `json:"title,omitempty"`
	Namespace string   `json:"namespace,omitempty"`
	Milestone string   `json:"milestone,omitempty"`
	Map       string   `json:"map,omitempty"`
	Markers   []Marker `json:"markers,omitempty"`
	Parts     []Part   `json:"route"`
}

// StepRef locates a step within the route tree.
type StepRef struct {
	PartID  string `json:"partId"`
	GroupID string `json:"groupId"`
	StepID  string `json:"stepId"`
	Text    string `json:"text"`
}

// Steps returns every step of parts in document order.
func Steps(parts []Part) []StepRef {
	var out []StepRef
	for _, p := range parts {
		for _, g := range p.Groups {
			for _, it := range g.Items {
				if !it.IsStep() {
					continue
				}
				out = append(out, StepRef{PartID: p.ID, GroupID: g.ID, StepID: it.ID, Text: it.Text})
			}
		}
	}
	return out
}

func (r *Route) Steps() []StepRef {
	if r == nil {
		return nil
	}
	return Steps(r.Parts)
}

// Groups returns every group in document order.
func (r *Route) Groups() []Group {
	if r == nil {
		return nil
	}
	var out []Group
	for _, p := range r.Parts {
		out = append(out, p.Groups...)
	}
	return out
}

func (r *Route) FindPart(id string) (Part, bool) {
	if r == nil {
		return Part{}, false
	}
	for _, p := range r.Parts {
		if p.ID == id {
			return p, true
		}
	}
	return Part{}, false
}

func (r *Route) FindGroup(id string) (Group, bool) {
	if r == nil {
		return Group{}, false
	}
	for _, p := range r.Parts {
		for _, g := range p.Groups {
			if g.ID == id {
				return g, true
			}
		}
	}
	return Group{}, false
}

// FindStep returns the reference of the step with the given id.
func (r *Route) FindStep(id string) (StepRef, bool) {
	for _, s := range r.Steps() {
		if s.StepID == id {
			return s, true
		}
	}
	return StepRef{}, false
}
