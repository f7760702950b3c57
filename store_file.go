package runwalk

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"context"
)

// FileSnapshotStore keeps the slot in a single JSON file at a well-known
// path. This is the one piece of the system that crosses a genuine process
// boundary: the engine writes from its own process, the glance reader polls
// the file from another with no shared memory. Writes go through a temp
// file and rename so a reader never observes a partial snapshot.
type FileSnapshotStore struct {
	path   string
	clock  Clock
	notify RefreshNotifier
}

// FileSnapshotStoreOptions configures a FileSnapshotStore.
type FileSnapshotStoreOptions struct {
	// Path of the slot file. Defaults to ~/.runwalk/snapshot.json.
	Path string

	// Clock used for staleness checks on read. Defaults to the real clock.
	Clock Clock

	// Notify, if set, is called after every write and clear.
	Notify RefreshNotifier
}

// NewFileSnapshotStore creates a file-backed snapshot store, creating the
// slot's parent directory if needed.
func NewFileSnapshotStore(opts FileSnapshotStoreOptions) (*FileSnapshotStore, error) {
	if opts.Path == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		opts.Path = filepath.Join(homeDir, ".runwalk", "snapshot.json")
	}
	if err := os.MkdirAll(filepath.Dir(opts.Path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	if opts.Clock == nil {
		opts.Clock = RealClock()
	}
	return &FileSnapshotStore{
		path:   opts.Path,
		clock:  opts.Clock,
		notify: opts.Notify,
	}, nil
}

// Path returns the slot file path, for handing to a reader process.
func (s *FileSnapshotStore) Path() string {
	return s.path
}

func (s *FileSnapshotStore) Write(ctx context.Context, snapshot *Snapshot) error {
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("failed to replace snapshot file: %w", err)
	}
	s.signalRefresh()
	return nil
}

func (s *FileSnapshotStore) Read(ctx context.Context) (*Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return IdleSnapshot(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot file: %w", err)
	}
	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		// A corrupt slot is treated like an absent one: the reader is
		// best-effort and must keep rendering something.
		return IdleSnapshot(), nil
	}
	if snapshot.Stale(s.clock.Now()) {
		return IdleSnapshot(), nil
	}
	return &snapshot, nil
}

func (s *FileSnapshotStore) Clear(ctx context.Context) error {
	return s.Write(ctx, IdleSnapshot())
}

func (s *FileSnapshotStore) signalRefresh() {
	if s.notify != nil {
		s.notify()
	}
}
