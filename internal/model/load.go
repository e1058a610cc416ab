package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadError reports a dataset that could not be read, parsed or shape-checked.
// It is fatal for the initial render.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("load route data: %v", e.Err)
	}
	return fmt.Sprintf("load route data %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Load reads a route dataset from path. Files ending in .yaml/.yml are parsed as YAML,
// everything else as JSON. A relative map path is resolved against the dataset's directory.
func Load(path string) (*Route, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	r, err := Parse(b, formatForPath(path))
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.Path = path
			return nil, le
		}
		return nil, &LoadError{Path: path, Err: err}
	}
	if r.Map != "" && !filepath.IsAbs(r.Map) {
		r.Map = filepath.Join(filepath.Dir(path), r.Map)
	}
	return r, nil
}

func formatForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}

// Parse decodes a dataset document in the given format ("json" or "yaml").
func Parse(b []byte, format string) (*Route, error) {
	if format == "yaml" {
		var doc any
		if err := yaml.Unmarshal(b, &doc); err != nil {
			return nil, &LoadError{Err: fmt.Errorf("parse yaml: %w", err)}
		}
		// Round-trip through JSON so schema checks and decoding see one representation.
		jb, err := json.Marshal(doc)
		if err != nil {
			return nil, &LoadError{Err: fmt.Errorf("convert yaml: %w", err)}
		}
		b = jb
	}

	var doc any
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, &LoadError{Err: fmt.Errorf("parse json: %w", err)}
	}
	if err := validateShape(doc); err != nil {
		return nil, &LoadError{Err: err}
	}

	var r Route
	if err := json.Unmarshal(b, &r); err != nil {
		return nil, &LoadError{Err: fmt.Errorf("decode route: %w", err)}
	}
	normalize(&r)
	return &r, nil
}

func normalize(r *Route) {
	r.Title = strings.TrimSpace(r.Title)
	r.Namespace = strings.TrimSpace(r.Namespace)
	r.Milestone = strings.TrimSpace(r.Milestone)
	for pi := range r.Parts {
		p := &r.Parts[pi]
		for gi := range p.Groups {
			g := &p.Groups[gi]
			if strings.TrimSpace(g.ID) == "" {
				g.ID = fmt.Sprintf("%s-leg-%d", p.ID, gi+1)
			}
		}
	}
}
