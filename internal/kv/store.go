// Package kv is the local string key-value store that holds progress data.
package kv

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrCorrupt is returned when the backing file exists but cannot be decoded.
var ErrCorrupt = errors.New("storage file is corrupt")

// Store is a string-keyed, string-valued store with synchronous,
// last-write-wins writes.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
	// Path is the on-disk location, used for display and file watching.
	Path() string
	Close() error
}

// Backend names accepted by Open.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Open returns the store for backend under the focusforge XDG data directory.
// Path: $XDG_DATA_HOME/focusforge/storage.{json,db} or ~/.local/share/focusforge/...
func Open(backend string) (Store, error) {
	dir, err := DataDir()
	if err != nil {
		return nil, fmt.Errorf("resolving data directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	switch backend {
	case "", BackendJSON:
		return NewFileStore(filepath.Join(dir, "storage.json")), nil
	case BackendSQLite:
		return OpenSQLite(filepath.Join(dir, "storage.db"))
	default:
		return nil, fmt.Errorf("unknown store backend %q (supported: json, sqlite)", backend)
	}
}

// DataDir returns the focusforge-specific XDG data directory.
func DataDir() (string, error) {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, "focusforge"), nil
}

// fileStore keeps every key in one JSON object.
type fileStore struct {
	path string
}

// NewFileStore returns a Store backed by the JSON file at path. The file is
// created on first write.
func NewFileStore(path string) Store {
	return &fileStore{path: path}
}

func (f *fileStore) Path() string { return f.path }

func (f *fileStore) Close() error { return nil }

func (f *fileStore) Get(key string) (string, bool, error) {
	values, err := f.load()
	if err != nil {
		return "", false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

func (f *fileStore) Set(key, value string) error {
	values, err := f.load()
	if err != nil {
		return err
	}
	values[key] = value
	return f.write(values)
}

func (f *fileStore) Delete(key string) error {
	values, err := f.load()
	if err != nil {
		return err
	}
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)
	return f.write(values)
}

// load reads the whole file. A missing file is an empty store.
func (f *fileStore) load() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("failed to read storage: %w", err)
	}
	values := map[string]string{}
	if len(data) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, f.path, err)
	}
	return values, nil
}

// write marshals values and replaces the file atomically via a temp file + os.Rename.
func (f *fileStore) write(values map[string]string) (err error) {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to persist storage: %w", err)
	}

	// Same directory so os.Rename is atomic.
	tmp, err := os.CreateTemp(filepath.Dir(f.path), "storage-*.json.tmp")
	if err != nil {
		return fmt.Errorf("failed to persist storage: %w", err)
	}
	tmpName := tmp.Name()

	defer func() {
		if err != nil {
			os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to persist storage: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to persist storage: %w", err)
	}
	if err = os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("failed to persist storage: %w", err)
	}
	return nil
}
