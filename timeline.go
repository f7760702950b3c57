package runwalk

import (
	"context"
	"time"
)

// Extrapolation limits. The entry cap bounds renderer cost, the refresh
// floor prevents refresh storms near phase end, and the idle horizon keeps
// an inactive glance quiet for an hour.
const (
	MaxTimelineEntries  = 60
	MinRefreshSeconds   = 30
	IdleRefreshInterval = time.Hour
)

// TimelineEntry pairs a predicted snapshot with the virtual instant it
// should be rendered at. Entries are produced only by extrapolation, never
// persisted, and discarded after render.
type TimelineEntry struct {
	VirtualTime time.Time
	Snapshot    *Snapshot
}

// Timeline is a bounded, ordered sequence of predicted snapshots plus the
// deadline at which the reader should load a fresh snapshot.
type Timeline struct {
	Entries   []TimelineEntry
	RefreshAt time.Time
}

// ExtrapolateTimeline synthesizes the countdown ramp a glance reader
// renders from a single snapshot. The reader cannot cheaply run its own
// per-second clock, so it is handed a monotonically decreasing sequence of
// one-second entries instead: entry i carries timeRemaining reduced by i,
// floored at zero, with every other field copied unchanged. An inactive
// snapshot yields exactly one entry.
func ExtrapolateTimeline(snapshot *Snapshot, now time.Time) Timeline {
	if !snapshot.IsActive {
		return Timeline{
			Entries:   []TimelineEntry{{VirtualTime: now, Snapshot: snapshot.Copy()}},
			RefreshAt: now.Add(IdleRefreshInterval),
		}
	}

	n := snapshot.TimeRemaining
	if n > MaxTimelineEntries {
		n = MaxTimelineEntries
	}
	if n < 1 {
		n = 1
	}
	entries := make([]TimelineEntry, 0, n)
	for i := 0; i < n; i++ {
		entry := snapshot.Copy()
		entry.TimeRemaining = snapshot.TimeRemaining - i
		if entry.TimeRemaining < 0 {
			entry.TimeRemaining = 0
		}
		entries = append(entries, TimelineEntry{
			VirtualTime: now.Add(time.Duration(i) * time.Second),
			Snapshot:    entry,
		})
	}

	refresh := n
	if refresh < MinRefreshSeconds {
		refresh = MinRefreshSeconds
	}
	return Timeline{
		Entries:   entries,
		RefreshAt: now.Add(time.Duration(refresh) * time.Second),
	}
}

// GlanceReader is the read-only side of the system: it loads the latest
// snapshot from the shared slot and extrapolates a timeline from it. It
// never calls back into the engine and never runs its own clock logic.
type GlanceReader struct {
	store SnapshotStore
	clock Clock
}

// NewGlanceReader creates a reader over the given slot. A nil clock
// defaults to the real clock.
func NewGlanceReader(store SnapshotStore, clock Clock) *GlanceReader {
	if clock == nil {
		clock = RealClock()
	}
	return &GlanceReader{store: store, clock: clock}
}

// Timeline reads the slot and extrapolates from the current instant.
func (r *GlanceReader) Timeline(ctx context.Context) (Timeline, error) {
	snapshot, err := r.store.Read(ctx)
	if err != nil {
		return Timeline{}, err
	}
	return ExtrapolateTimeline(snapshot, r.clock.Now()), nil
}
