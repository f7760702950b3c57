package runwalk

import (
	"context"
	"time"
)

// EngineCallbacks is the observer interface for engine events. Playback
// collaborators (audio/haptic/voice cues) and statistics collaborators
// implement it; a rendering layer can subscribe to it instead of reaching
// into engine state. The engine fires events synchronously on its own
// thread of control and ignores whatever a callback does, so
// implementations must not block and must swallow their own failures.
type EngineCallbacks interface {
	// CountdownTick fires once per second during the 3-2-1 pre-roll.
	CountdownTick(ctx context.Context, event *CountdownEvent)

	// WorkoutStarted fires when the countdown completes and the first run
	// phase begins.
	WorkoutStarted(ctx context.Context, event *WorkoutEvent)

	// PhaseTransition fires exactly once per completed phase.
	PhaseTransition(ctx context.Context, event *PhaseEvent)

	// WorkoutPaused and WorkoutResumed bracket pause segments.
	WorkoutPaused(ctx context.Context, event *WorkoutEvent)
	WorkoutResumed(ctx context.Context, event *WorkoutEvent)

	// WorkoutCompleted fires once on stop with the finalized summary.
	WorkoutCompleted(ctx context.Context, summary *WorkoutSummary)
}

// CountdownEvent provides context for a pre-roll tick.
type CountdownEvent struct {
	WorkoutID string
	Remaining int
	At        time.Time
}

// WorkoutEvent provides context for start, pause, and resume events.
type WorkoutEvent struct {
	WorkoutID     string
	Phase         Phase
	TimeRemaining int
	TotalElapsed  time.Duration
	At            time.Time
}

// PhaseEvent provides context for one completed phase transition.
type PhaseEvent struct {
	WorkoutID      string
	FinishedPhase  Phase
	NextPhase      Phase
	NextDuration   int
	CompletedRuns  int
	CompletedWalks int
	At             time.Time
}

// BaseEngineCallbacks provides a default implementation that does nothing.
// Embed it to implement only the events you care about.
type BaseEngineCallbacks struct{}

func (n *BaseEngineCallbacks) CountdownTick(ctx context.Context, event *CountdownEvent) {
	// noop
}

func (n *BaseEngineCallbacks) WorkoutStarted(ctx context.Context, event *WorkoutEvent) {
	// noop
}

func (n *BaseEngineCallbacks) PhaseTransition(ctx context.Context, event *PhaseEvent) {
	// noop
}

func (n *BaseEngineCallbacks) WorkoutPaused(ctx context.Context, event *WorkoutEvent) {
	// noop
}

func (n *BaseEngineCallbacks) WorkoutResumed(ctx context.Context, event *WorkoutEvent) {
	// noop
}

func (n *BaseEngineCallbacks) WorkoutCompleted(ctx context.Context, summary *WorkoutSummary) {
	// noop
}

// CallbackChain fans each event out to multiple callback implementations in
// registration order.
type CallbackChain struct {
	callbacks []EngineCallbacks
}

// NewCallbackChain creates a new callback chain.
func NewCallbackChain(callbacks ...EngineCallbacks) *CallbackChain {
	return &CallbackChain{callbacks: callbacks}
}

// Add adds a callback to the chain.
func (c *CallbackChain) Add(callback EngineCallbacks) {
	c.callbacks = append(c.callbacks, callback)
}

func (c *CallbackChain) CountdownTick(ctx context.Context, event *CountdownEvent) {
	for _, callback := range c.callbacks {
		callback.CountdownTick(ctx, event)
	}
}

func (c *CallbackChain) WorkoutStarted(ctx context.Context, event *WorkoutEvent) {
	for _, callback := range c.callbacks {
		callback.WorkoutStarted(ctx, event)
	}
}

func (c *CallbackChain) PhaseTransition(ctx context.Context, event *PhaseEvent) {
	for _, callback := range c.callbacks {
		callback.PhaseTransition(ctx, event)
	}
}

func (c *CallbackChain) WorkoutPaused(ctx context.Context, event *WorkoutEvent) {
	for _, callback := range c.callbacks {
		callback.WorkoutPaused(ctx, event)
	}
}

func (c *CallbackChain) WorkoutResumed(ctx context.Context, event *WorkoutEvent) {
	for _, callback := range c.callbacks {
		callback.WorkoutResumed(ctx, event)
	}
}

func (c *CallbackChain) WorkoutCompleted(ctx context.Context, summary *WorkoutSummary) {
	for _, callback := range c.callbacks {
		callback.WorkoutCompleted(ctx, summary)
	}
}
