package runwalk

import (
	"context"
	"sync"
)

// MemorySnapshotStore keeps the slot in process memory. It backs tests and
// same-process glance views; a mutex stands in for the process boundary so
// writer and reader goroutines see the last-write-wins contract the file
// slot provides.
type MemorySnapshotStore struct {
	mu       sync.RWMutex
	snapshot *Snapshot
	clock    Clock
	notify   RefreshNotifier
}

// NewMemorySnapshotStore creates an in-memory snapshot store. A nil clock
// defaults to the real clock.
func NewMemorySnapshotStore(clock Clock) *MemorySnapshotStore {
	if clock == nil {
		clock = RealClock()
	}
	return &MemorySnapshotStore{clock: clock}
}

// OnRefresh registers the reader's re-render signal.
func (s *MemorySnapshotStore) OnRefresh(notify RefreshNotifier) {
	s.mu.Lock()
	s.notify = notify
	s.mu.Unlock()
}

func (s *MemorySnapshotStore) Write(ctx context.Context, snapshot *Snapshot) error {
	s.mu.Lock()
	s.snapshot = snapshot.Copy()
	notify := s.notify
	s.mu.Unlock()

	if notify != nil {
		notify()
	}
	return nil
}

func (s *MemorySnapshotStore) Read(ctx context.Context) (*Snapshot, error) {
	s.mu.RLock()
	snapshot := s.snapshot
	s.mu.RUnlock()

	if snapshot == nil {
		return IdleSnapshot(), nil
	}
	if snapshot.Stale(s.clock.Now()) {
		return IdleSnapshot(), nil
	}
	return snapshot.Copy(), nil
}

func (s *MemorySnapshotStore) Clear(ctx context.Context) error {
	return s.Write(ctx, IdleSnapshot())
}
