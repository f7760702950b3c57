// Package runwalk implements an interval-based run/walk activity timer that
// keeps exact phase timing across arbitrary host suspensions. All timing is
// re-derived from wall-clock reads rather than counted ticks, and the live
// state is published through a single-slot snapshot store to an independent
// read-only glance process that renders a countdown by timeline
// extrapolation.
package runwalk

// Phase identifies which half of the run/walk cycle is active.
type Phase string

const (
	PhaseRun  Phase = "RUN"
	PhaseWalk Phase = "WALK"
)

// Next returns the phase that follows this one. Phases alternate without
// end while a workout is active.
func (p Phase) Next() Phase {
	if p == PhaseRun {
		return PhaseWalk
	}
	return PhaseRun
}

// IsRun reports whether this is the run phase.
func (p Phase) IsRun() bool {
	return p == PhaseRun
}

func (p Phase) String() string {
	return string(p)
}
