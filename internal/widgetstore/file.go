package widgetstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const snapshotFile = "widget.json"

// FileStore is the default shared scope: a JSON snapshot file in a directory
// both binaries can reach.
type FileStore struct {
	dir string
}

// NewFileStore creates a FileStore rooted at dir.
// If dir is empty, it defaults to ~/.local/share/vakit/.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot determine home directory: %w", err)
		}
		dir = filepath.Join(home, ".local", "share", "vakit")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create shared directory %s: %w", dir, err)
	}

	return &FileStore{dir: dir}, nil
}

// Publish writes the snapshot, replacing any previous one.
func (s *FileStore) Publish(_ context.Context, snap *Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if err := os.WriteFile(filepath.Join(s.dir, snapshotFile), data, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	return nil
}

// Read returns the published snapshot. A missing file is (nil, nil); a
// corrupt file is an error, which readers treat the same way (placeholder).
func (s *FileStore) Read(_ context.Context) (*Snapshot, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, snapshotFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}

	return &snap, nil
}
