package state

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

// File stores a Snapshot on disk. A nil *File is valid and stores nothing.
type File struct {
	mu   sync.Mutex
	path string
}

// NewFile returns the state file at path, or nil when path is empty.
func NewFile(path string) *File {
	if path == "" {
		return nil
	}
	return &File{path: path}
}

// Path returns the location of the file.
func (f *File) Path() string {
	if f == nil {
		return ""
	}
	return f.path
}

// Load reads the snapshot. ok is false when the file does not exist or was
// written with another schema version.
func (f *File) Load() (snap Snapshot, ok bool, err error) {
	if f == nil {
		return Snapshot{}, false, nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Snapshot{}, false, nil
		}
		return Snapshot{}, false, err
	}
	if err := msgpack.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, false, fmt.Errorf("failed to decode state file %s: %w", f.path, err)
	}
	if snap.Schema != SchemaVersion {
		return Snapshot{}, false, nil
	}
	return snap, true, nil
}

// Save writes the snapshot atomically.
func (f *File) Save(snap Snapshot) error {
	if f == nil {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	snap.Schema = SchemaVersion
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "state-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := msgpack.NewEncoder(tmp).Encode(&snap); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to encode state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), f.path)
}
