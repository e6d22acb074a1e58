package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const cacheFile = "%s.json" // keyed by hash

// File stores each entry as a JSON file under a cache directory, so a warm
// cache survives between CLI invocations.
type File struct {
	dir string
	now func() time.Time
}

// fileEntry is the on-disk envelope around a cached payload.
type fileEntry struct {
	StoredAt  time.Time `json:"stored_at"`
	ExpiresAt time.Time `json:"expires_at"`
	Payload   []byte    `json:"payload"`
}

// NewFile creates a File store rooted at the given directory.
// If dir is empty, it defaults to ~/.cache/imsakiye/.
func NewFile(dir string) (*File, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot determine home directory: %w", err)
		}
		dir = filepath.Join(home, ".cache", "imsakiye")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create cache directory %s: %w", dir, err)
	}

	return &File{dir: dir, now: time.Now}, nil
}

// Dir returns the directory entries are written to.
func (f *File) Dir() string {
	return f.dir
}

func (f *File) path(key string) string {
	return filepath.Join(f.dir, fmt.Sprintf(cacheFile, key))
}

// Get reads the entry for key. Missing, unreadable, corrupt and expired files
// all count as a miss.
func (f *File) Get(_ context.Context, key string) ([]byte, bool) {
	data, err := os.ReadFile(f.path(key))
	if err != nil {
		return nil, false
	}

	var entry fileEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, false
	}

	if !f.now().Before(entry.ExpiresAt) {
		return nil, false
	}

	return entry.Payload, true
}

// Set writes the entry for key.
func (f *File) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	now := f.now()
	entry := fileEntry{
		StoredAt:  now,
		ExpiresAt: now.Add(ttl),
		Payload:   value,
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	// Write to a temp file and rename so readers never see a partial entry.
	tmp := f.path(key) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	if err := os.Rename(tmp, f.path(key)); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}

	return nil
}
