package runwalk

import "context"

// RefreshNotifier is invoked after every slot write or clear to poke the
// external reader's re-render mechanism. Fire and forget; the store never
// waits on it and never surfaces its failures.
type RefreshNotifier func()

// SnapshotStore is the single shared slot the engine publishes through.
// Only the engine-owning side writes; every other consumer is strictly
// read-only. There is no lock and no transaction across the process
// boundary: correctness rests solely on the serialized value plus its
// timestamp, and the only ordering guarantee is last write wins.
type SnapshotStore interface {
	// Write overwrites the slot with the given snapshot and signals a
	// refresh.
	Write(ctx context.Context, snapshot *Snapshot) error

	// Read returns the stored snapshot. The idle sentinel is substituted
	// when the slot is empty, unreadable, or holds an active snapshot whose
	// timestamp exceeds StalenessThreshold.
	Read(ctx context.Context) (*Snapshot, error)

	// Clear writes the idle sentinel and signals a refresh.
	Clear(ctx context.Context) error
}

// NullSnapshotStore is a no-op store for engines that have no reader.
type NullSnapshotStore struct{}

func NewNullSnapshotStore() *NullSnapshotStore {
	return &NullSnapshotStore{}
}

func (s *NullSnapshotStore) Write(ctx context.Context, snapshot *Snapshot) error {
	return nil
}

func (s *NullSnapshotStore) Read(ctx context.Context) (*Snapshot, error) {
	return IdleSnapshot(), nil
}

func (s *NullSnapshotStore) Clear(ctx context.Context) error {
	return nil
}
