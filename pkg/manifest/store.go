package manifest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ErrNotFound is returned when a store has no manifest under the
// requested name.
var ErrNotFound = errors.New("manifest: not found")

// Store is the interface for manifest storage backends.
// Implement this interface to publish manifests to S3, GCS, or other
// storage.
type Store interface {
	// Put writes the encoded manifest under name.
	Put(ctx context.Context, name string, m *Manifest) error

	// Get reads the manifest stored under name.
	Get(ctx context.Context, name string) (*Manifest, error)

	// Prune removes stored manifests older than maxAge, keeping the
	// most recent one regardless of age.
	Prune(ctx context.Context, maxAge time.Duration) error
}

// DirStore stores manifests as files in a local directory.
type DirStore struct {
	dir string
}

// NewDirStore creates a store rooted at dir, creating it if needed.
func NewDirStore(dir string) (*DirStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("manifest: create store dir: %w", err)
	}
	return &DirStore{dir: dir}, nil
}

// Put writes the manifest atomically: encode to a temp file in the
// same directory, then rename over the target, so readers never see a
// partially written manifest.
func (s *DirStore) Put(ctx context.Context, name string, m *Manifest) error {
	data, err := m.Encode()
	if err != nil {
		return err
	}

	target := filepath.Join(s.dir, name)
	tmp, err := os.CreateTemp(s.dir, name+".tmp*")
	if err != nil {
		return fmt.Errorf("manifest: write: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("manifest: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("manifest: write: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("manifest: write: %w", err)
	}
	return nil
}

// Get reads the manifest stored under name.
func (s *DirStore) Get(ctx context.Context, name string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("manifest: read: %w", err)
	}
	return Decode(data)
}

// Prune removes manifests older than maxAge. The newest file always
// survives so a store never becomes empty through pruning alone.
func (s *DirStore) Prune(ctx context.Context, maxAge time.Duration) error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("manifest: prune: %w", err)
	}

	cutoff := time.Now().Add(-maxAge)
	newest := ""
	newestMod := time.Time{}
	type candidate struct {
		name string
		mod  time.Time
	}
	var candidates []candidate

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(newestMod) {
			newest = entry.Name()
			newestMod = info.ModTime()
		}
		candidates = append(candidates, candidate{name: entry.Name(), mod: info.ModTime()})
	}

	for _, c := range candidates {
		if c.name == newest {
			continue
		}
		if c.mod.Before(cutoff) {
			os.Remove(filepath.Join(s.dir, c.name))
		}
	}
	return nil
}

// WriteFile writes a manifest to a single file path, atomically, without
// a Store. Used by the CLI and dev loop for the default local output.
func WriteFile(path string, m *Manifest) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("manifest: write: %w", err)
	}
	store := &DirStore{dir: dir}
	return store.Put(context.Background(), filepath.Base(path), m)
}

// LoadFile reads a manifest from a single file path.
func LoadFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("manifest: read: %w", err)
	}
	return Decode(data)
}
