package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// JSONFile keeps every key in one JSON object on disk. Each write rewrites the file
// atomically (temp file + rename).
type JSONFile struct {
	path string

	mu   sync.Mutex
	data map[string]string
}

// OpenJSONFile loads path, creating it lazily on first write. A corrupted file is moved
// aside to <path>.corrupt and treated as empty.
func OpenJSONFile(path string) (*JSONFile, error) {
	f := &JSONFile{path: path, data: map[string]string{}}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return f, nil
		}
		return nil, err
	}
	if len(b) == 0 {
		return f, nil
	}
	if err := json.Unmarshal(b, &f.data); err != nil {
		_ = os.Rename(path, path+".corrupt")
		f.data = map[string]string{}
	}
	return f, nil
}

func (f *JSONFile) Path() string { return f.path }

func (f *JSONFile) Get(key string) (string, bool, error) {
	f.mu.Lock()
	v, ok := f.data[key]
	f.mu.Unlock()
	return v, ok, nil
}

func (f *JSONFile) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	prev, had := f.data[key]
	f.data[key] = value
	if err := f.flushLocked(); err != nil {
		if had {
			f.data[key] = prev
		} else {
			delete(f.data, key)
		}
		return err
	}
	return nil
}

func (f *JSONFile) Remove(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	prev, had := f.data[key]
	if !had {
		return nil
	}
	delete(f.data, key)
	if err := f.flushLocked(); err != nil {
		f.data[key] = prev
		return err
	}
	return nil
}

func (f *JSONFile) Keys(prefix string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return sortedKeys(f.data, prefix), nil
}

func (f *JSONFile) Close() error { return nil }

func (f *JSONFile) flushLocked() error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(f.data, "", "  ")
	if err != nil {
		return err
	}
	return atomicWriteFile(dir, filepath.Base(f.path)+".*.tmp", f.path, b, 0o644)
}

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}
