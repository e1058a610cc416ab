package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

var ErrUnknownDataset = errors.New("unknown dataset")

// ScanPattern matches route files below a scan root.
const ScanPattern = "**/*.route.{json,yaml,yml}"

var nameRE = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

func validateName(name string) error {
	if !nameRE.MatchString(name) {
		return fmt.Errorf("invalid dataset name %q: use letters, digits, '-' and '_'", name)
	}
	return nil
}

// Names returns registered dataset names, sorted.
func (c *Config) Names() []string {
	out := make([]string, 0, len(c.Datasets))
	for name := range c.Datasets {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Dataset looks up name, or the current dataset when name is empty.
func (c *Config) Dataset(name string) (string, Dataset, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = c.Current
	}
	if name == "" {
		return "", Dataset{}, fmt.Errorf("no dataset selected (run `routetrack datasets use <name>`): %w", ErrUnknownDataset)
	}
	d, ok := c.Datasets[name]
	if !ok {
		return "", Dataset{}, fmt.Errorf("%q: %w", name, ErrUnknownDataset)
	}
	return name, d, nil
}

// AddDataset registers (or replaces) a dataset. The path is made absolute. The first
// dataset added becomes current.
func (c *Config) AddDataset(name string, d Dataset) error {
	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return err
	}
	if strings.TrimSpace(d.Path) == "" {
		return fmt.Errorf("dataset %q: path is required", name)
	}
	abs, err := filepath.Abs(d.Path)
	if err != nil {
		return err
	}
	d.Path = abs
	if c.Datasets == nil {
		c.Datasets = map[string]Dataset{}
	}
	c.Datasets[name] = d
	if c.Current == "" {
		c.Current = name
	}
	return nil
}

func (c *Config) Use(name string) error {
	if _, ok := c.Datasets[name]; !ok {
		return fmt.Errorf("%q: %w", name, ErrUnknownDataset)
	}
	c.Current = name
	return nil
}

// Found is a route file discovered by Scan.
type Found struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// NameFromPath derives a dataset name from a route file name:
// "hk-gold.route.json" -> "hk-gold".
func NameFromPath(path string) string {
	base := filepath.Base(path)
	if i := strings.Index(base, ".route."); i > 0 {
		base = base[:i]
	}
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, base)
	return strings.Trim(base, "-")
}

// Scan finds route files under root, sorted by path.
func Scan(root string) ([]Found, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: %w", abs, fs.ErrInvalid)
	}
	matches, err := doublestar.Glob(os.DirFS(abs), ScanPattern)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", abs, err)
	}
	sort.Strings(matches)
	out := make([]Found, 0, len(matches))
	for _, m := range matches {
		name := NameFromPath(m)
		if name == "" {
			continue
		}
		out = append(out, Found{Name: name, Path: filepath.Join(abs, filepath.FromSlash(m))})
	}
	return out, nil
}
