package store

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Backend is a durable, string-keyed store. Implementations are synchronous and
// safe for use from multiple goroutines.
type Backend interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
	// Keys lists every key starting with prefix, sorted.
	Keys(prefix string) ([]string, error)
	Close() error
}

const (
	BackendSQLite = "sqlite"
	BackendJSON   = "json"
	BackendMemory = "memory"
)

// Open opens the named backend kind inside dataDir.
func Open(kind, dataDir string) (Backend, error) {
	kind = strings.ToLower(strings.TrimSpace(kind))
	switch kind {
	case "", BackendSQLite:
		return OpenSQLite(filepath.Join(dataDir, "progress.sqlite"))
	case BackendJSON:
		return OpenJSONFile(filepath.Join(dataDir, "progress.json"))
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown store backend: %s", kind)
	}
}
