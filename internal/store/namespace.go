package store

import (
	"errors"
	"fmt"
	"strings"
)

// ErrBadNamespace is returned for empty namespaces or ones containing the separator.
var ErrBadNamespace = errors.New("invalid namespace")

const namespaceSep = "/"

// ReservedPrefix marks namespace keys that hold preferences rather than step flags.
const ReservedPrefix = "@"

// IsReserved reports whether key is a preference key.
func IsReserved(key string) bool { return strings.HasPrefix(key, ReservedPrefix) }

// Namespace scopes a Backend to one tracked dataset. Every key is stored as
// "<name>/<key>", so clearing one dataset never touches another dataset's keys.
type Namespace struct {
	backend Backend
	name    string
}

func NewNamespace(b Backend, name string) (*Namespace, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.Contains(name, namespaceSep) {
		return nil, fmt.Errorf("%w: %q", ErrBadNamespace, name)
	}
	if b == nil {
		return nil, errors.New("namespace: nil backend")
	}
	return &Namespace{backend: b, name: name}, nil
}

func (n *Namespace) Name() string { return n.name }

func (n *Namespace) prefix() string { return n.name + namespaceSep }

func (n *Namespace) Get(key string) (string, bool, error) {
	return n.backend.Get(n.prefix() + key)
}

func (n *Namespace) Set(key, value string) error {
	return n.backend.Set(n.prefix()+key, value)
}

func (n *Namespace) Remove(key string) error {
	return n.backend.Remove(n.prefix() + key)
}

// Keys returns the namespace-relative keys, sorted.
func (n *Namespace) Keys() ([]string, error) {
	full, err := n.backend.Keys(n.prefix())
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(full))
	for _, k := range full {
		out = append(out, strings.TrimPrefix(k, n.prefix()))
	}
	return out, nil
}

// Clear removes every key belonging to this namespace and nothing else.
func (n *Namespace) Clear() error {
	full, err := n.backend.Keys(n.prefix())
	if err != nil {
		return err
	}
	for _, k := range full {
		if err := n.backend.Remove(k); err != nil {
			return fmt.Errorf("clear %s: %w", n.name, err)
		}
	}
	return nil
}

// Bool reads a flag stored as "true"/"false". Anything else, including a missing key
// or a read error, yields def.
func (n *Namespace) Bool(key string, def bool) bool {
	v, ok, err := n.Get(key)
	if err != nil || !ok {
		return def
	}
	switch strings.TrimSpace(v) {
	case "true":
		return true
	case "false":
		return false
	default:
		return def
	}
}

func (n *Namespace) SetBool(key string, v bool) error {
	if v {
		return n.Set(key, "true")
	}
	return n.Set(key, "false")
}

// String reads key, falling back to def when missing, empty or unreadable.
func (n *Namespace) String(key, def string) string {
	v, ok, err := n.Get(key)
	if err != nil || !ok || strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
