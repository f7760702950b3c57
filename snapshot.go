package runwalk

import (
	"fmt"
	"time"
)

// StalenessThreshold is how old an active snapshot may be before a reader
// treats the writer as abnormally terminated and renders the idle view.
const StalenessThreshold = 5 * time.Second

// Interval settings advertised by the idle sentinel.
const (
	DefaultRunSeconds  = 30
	DefaultWalkSeconds = 60
)

// Snapshot is the serialized view of engine state published to the glance
// reader. The engine writes one on every tick and transition while a
// workout is active and resets the slot to the idle sentinel on stop.
// Everything a reader renders comes from this value plus its timestamp;
// readers treat it as immutable.
type Snapshot struct {
	IsActive            bool      `json:"isActive"`
	CurrentPhase        Phase     `json:"currentPhase"`
	TimeRemaining       int       `json:"timeRemaining"`
	IntervalDuration    int       `json:"intervalDuration"`
	LastUpdate          time.Time `json:"lastUpdate"`
	RunIntervalSetting  int       `json:"runIntervalSetting"`
	WalkIntervalSetting int       `json:"walkIntervalSetting"`
}

// IdleSnapshot returns the sentinel published when no workout is active.
func IdleSnapshot() *Snapshot {
	return &Snapshot{
		IsActive:            false,
		CurrentPhase:        PhaseRun,
		TimeRemaining:       0,
		IntervalDuration:    0,
		RunIntervalSetting:  DefaultRunSeconds,
		WalkIntervalSetting: DefaultWalkSeconds,
	}
}

// IsRunPhase reports whether the snapshot is in the run phase.
func (s *Snapshot) IsRunPhase() bool {
	return s.CurrentPhase == PhaseRun
}

// Progress returns completion of the current phase in [0, 1]: 0.0 at phase
// start, 1.0 once no time remains. The idle sentinel reports 0.
func (s *Snapshot) Progress() float64 {
	if s.IntervalDuration <= 0 {
		return 0
	}
	p := float64(s.IntervalDuration-s.TimeRemaining) / float64(s.IntervalDuration)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// Stale reports whether an active snapshot is too old to trust at the given
// time. Idle snapshots never go stale. This is a best-effort heuristic for
// a writer that was killed or suspended without stopping, not a
// guaranteed-correct detector.
func (s *Snapshot) Stale(now time.Time) bool {
	return s.IsActive && now.Sub(s.LastUpdate) > StalenessThreshold
}

// Copy returns a copy of the snapshot.
func (s *Snapshot) Copy() *Snapshot {
	c := *s
	return &c
}

// FormatSeconds renders a second count as m:ss for display.
func FormatSeconds(sec int) string {
	if sec < 0 {
		sec = 0
	}
	return fmt.Sprintf("%d:%02d", sec/60, sec%60)
}
