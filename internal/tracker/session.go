// Package tracker opens one dataset against its persisted namespace and wires the
// checklist, progress, collapse, resume and viewport components together.
package tracker

import (
	"errors"
	"fmt"
	"strings"

	"route-tracker/internal/checklist"
	"route-tracker/internal/collapse"
	"route-tracker/internal/config"
	"route-tracker/internal/logging"
	"route-tracker/internal/model"
	"route-tracker/internal/progress"
	"route-tracker/internal/resume"
	"route-tracker/internal/store"
	"route-tracker/internal/viewport"
)

const (
	KeyTheme        = store.ReservedPrefix + "theme"
	KeyAutoCollapse = store.ReservedPrefix + "autoCollapse"

	// MapViewport is the viewport kind used for the dataset map.
	MapViewport = "map"
)

const (
	ThemeDefault = "default"
	ThemeSteam   = "steam"
)

type Options struct {
	Config *config.Config
	// Dataset is a registry name; empty selects the current dataset.
	Dataset string
	// Route skips the registry and file loading when set.
	Route *model.Route
	// Backend overrides the backend named in Config. The session does not close it.
	Backend store.Backend
	Log     *logging.Logger
}

type Session struct {
	Name    string
	Dataset config.Dataset
	Route   *model.Route

	Checklist *checklist.Model
	Collapse  *collapse.Controller
	Locator   *resume.Locator
	Highlight *resume.Highlight
	Map       *viewport.Controller

	ns          *store.Namespace
	backend     store.Backend
	ownsBackend bool
	log         *logging.Logger
	milestone   string
	unsubscribe func()
}

// Open loads the dataset, opens its namespace and presents the whole route.
func Open(opts Options) (*Session, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	log := opts.Log
	if log == nil {
		log = logging.Discard()
	}

	s := &Session{log: log, Route: opts.Route}
	if s.Route == nil {
		name, ds, err := cfg.Dataset(opts.Dataset)
		if err != nil {
			return nil, err
		}
		r, err := model.Load(ds.Path)
		if err != nil {
			return nil, err
		}
		s.Name, s.Dataset, s.Route = name, ds, r
	} else {
		s.Name = strings.TrimSpace(opts.Dataset)
	}

	nsName := firstNonEmpty(s.Dataset.Namespace, s.Route.Namespace, s.Name, s.Route.ID)
	if nsName == "" {
		return nil, fmt.Errorf("dataset %q has no namespace: %w", s.Name, store.ErrBadNamespace)
	}
	s.milestone = firstNonEmpty(s.Dataset.Milestone, s.Route.Milestone)

	s.backend = opts.Backend
	if s.backend == nil {
		dataDir, err := cfg.ResolveDataDir()
		if err != nil {
			return nil, err
		}
		b, err := store.Open(cfg.Backend, dataDir)
		if err != nil {
			return nil, err
		}
		s.backend, s.ownsBackend = b, true
	}

	ns, err := store.NewNamespace(s.backend, nsName)
	if err != nil {
		s.closeBackend()
		return nil, err
	}
	s.ns = ns

	s.Checklist, err = checklist.New(ns, s.Route)
	if err != nil {
		s.closeBackend()
		return nil, err
	}
	s.Checklist.PresentAll()

	s.Collapse = collapse.New(s.Checklist.StatsForGroup)
	s.Collapse.Reset(s.Checklist.GroupIDs(), ns.Bool(KeyAutoCollapse, false))
	s.unsubscribe = s.Checklist.Subscribe(s.Collapse.HandleChange)

	s.Locator = resume.NewLocator(s.Checklist)
	s.Highlight = resume.NewHighlight(cfg.Highlight())

	s.Map, err = viewport.New(viewport.Options{
		Kind:     MapViewport,
		Limits:   cfg.Viewport.Limits(),
		Debounce: cfg.Viewport.Debounce(),
		Store:    ns,
		OnError: func(err error) {
			log.Warn("viewport persistence failed", "err", err)
		},
	})
	if err != nil {
		s.closeBackend()
		return nil, err
	}
	s.Map.Open()

	log.Debug("session opened", "dataset", s.Name, "namespace", nsName, "steps", len(s.Checklist.Steps()))
	return s, nil
}

func (s *Session) Namespace() string { return s.ns.Name() }

func (s *Session) Milestone() string { return s.milestone }

// SetChecked writes one step flag. Collapse reacts through its subscription.
func (s *Session) SetChecked(stepID string, checked bool) error {
	if err := s.Checklist.SetChecked(stepID, checked); err != nil {
		s.log.Warn("persist step failed", "step", stepID, "err", err)
		return err
	}
	return nil
}

func (s *Session) Toggle(stepID string) (bool, error) {
	next := !s.Checklist.IsChecked(stepID)
	return next, s.SetChecked(stepID, next)
}

// Progress classifies the presented steps.
func (s *Session) Progress() progress.Indicator {
	reached := s.milestone != "" && s.Checklist.IsChecked(s.milestone)
	return progress.Classify(s.Checklist.Stats(), reached)
}

func (s *Session) AutoCollapse() bool { return s.Collapse.AutoCollapse() }

// SetAutoCollapse applies and persists the preference. A failed write still
// applies the preference for this session.
func (s *Session) SetAutoCollapse(on bool) error {
	s.Collapse.SetAutoCollapse(on)
	if err := s.ns.SetBool(KeyAutoCollapse, on); err != nil {
		s.log.Warn("persist auto-collapse failed", "err", err)
		return err
	}
	return nil
}

// Resume finds the first unchecked step, expands its group and flashes the
// highlight. The returned token clears the highlight via Highlight.Clear.
func (s *Session) Resume() (model.StepRef, uint64, bool) {
	ref, ok := s.Locator.Locate()
	if !ok {
		return model.StepRef{}, 0, false
	}
	s.Collapse.Expand(ref.GroupID)
	return ref, s.Highlight.Flash(ref.StepID), true
}

func (s *Session) Theme() string {
	switch v := s.ns.String(KeyTheme, ThemeDefault); v {
	case ThemeSteam:
		return ThemeSteam
	default:
		return ThemeDefault
	}
}

func (s *Session) SetTheme(theme string) error {
	switch theme {
	case ThemeDefault, ThemeSteam:
	default:
		return fmt.Errorf("unknown theme %q", theme)
	}
	return s.ns.Set(KeyTheme, theme)
}

// ToggleTheme flips between the two themes and returns the new one.
func (s *Session) ToggleTheme() (string, error) {
	next := ThemeSteam
	if s.Theme() == ThemeSteam {
		next = ThemeDefault
	}
	return next, s.SetTheme(next)
}

// Reset clears every key of this dataset's namespace, then re-derives state as if
// freshly opened. Other namespaces sharing the backend are untouched.
func (s *Session) Reset() error {
	s.Map.Flush()
	if err := s.ns.Clear(); err != nil {
		return fmt.Errorf("reset %s: %w", s.ns.Name(), err)
	}
	if err := s.Checklist.Reload(); err != nil {
		return err
	}
	s.Collapse.Reset(s.Checklist.GroupIDs(), false)
	s.Map.Open()
	s.log.Info("namespace reset", "namespace", s.ns.Name())
	return nil
}

// Close flushes pending viewport state and closes an owned backend.
func (s *Session) Close() error {
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
	var errs []error
	if s.Map != nil {
		errs = append(errs, s.Map.Close())
	}
	errs = append(errs, s.closeBackend())
	return errors.Join(errs...)
}

func (s *Session) closeBackend() error {
	if !s.ownsBackend || s.backend == nil {
		return nil
	}
	b := s.backend
	s.backend = nil
	return b.Close()
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
