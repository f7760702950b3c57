package runwalk

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"time"
)

// CountdownSeconds is the length of the pre-roll before the first run phase.
const CountdownSeconds = 3

// EngineStatus represents the engine lifecycle state.
type EngineStatus string

const (
	StatusIdle         EngineStatus = "idle"
	StatusCountingDown EngineStatus = "counting_down"
	StatusRunning      EngineStatus = "running"
	StatusPaused       EngineStatus = "paused"
)

// EngineOptions configures a new Engine. Zero-value interval selections
// fall back to the defaults; a nil store, callbacks, clock, or logger falls
// back to a no-op implementation.
type EngineOptions struct {
	RunInterval  IntervalSelection
	WalkInterval IntervalSelection
	Store        SnapshotStore
	Callbacks    EngineCallbacks
	Clock        Clock
	Logger       *slog.Logger
}

// Engine is the run/walk phase state machine. Its lifecycle is
// Idle -> CountingDown -> Running <-> Paused -> Idle, and all phase timing
// is recomputed from wall-clock reads on each Tick, so a host suspension of
// any length between ticks never loses elapsed time.
//
// The engine assumes a single logical owner: its methods execute
// synchronously, are not reentrant, and must not be invoked concurrently.
// There is no internal locking. A Runner provides a command loop that
// preserves this contract when multiple goroutines need access.
//
// Engine operations cannot fail: every one is a pure in-memory computation
// over clock reads. Snapshot store and callback collaborators may fail
// independently; those failures are logged and swallowed at the boundary —
// degraded feedback is preferred over a frozen timer.
type Engine struct {
	runInterval  IntervalSelection
	walkInterval IntervalSelection
	store        SnapshotStore
	callbacks    EngineCallbacks
	clock        Clock
	logger       *slog.Logger

	status             EngineStatus
	phase              Phase
	secondsRemaining   int
	countdownRemaining int
	phaseStart         time.Time
	segmentStart       time.Time
	accumulatedPhase   time.Duration
	totalBeforePause   time.Duration
	completedRuns      int
	completedWalks     int
	workoutStart       time.Time
	workoutID          string
}

// NewEngine creates a new Engine.
func NewEngine(opts EngineOptions) (*Engine, error) {
	if opts.RunInterval == (IntervalSelection{}) {
		opts.RunInterval = DefaultRunInterval()
	}
	if opts.WalkInterval == (IntervalSelection{}) {
		opts.WalkInterval = DefaultWalkInterval()
	}
	for _, sel := range []IntervalSelection{opts.RunInterval, opts.WalkInterval} {
		if sel.Kind != IntervalPreset && sel.Kind != IntervalCustom {
			return nil, fmt.Errorf("unknown interval kind %q", sel.Kind)
		}
	}
	if opts.Store == nil {
		opts.Store = NewNullSnapshotStore()
	}
	if opts.Callbacks == nil {
		opts.Callbacks = &BaseEngineCallbacks{}
	}
	if opts.Clock == nil {
		opts.Clock = RealClock()
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{
		runInterval:  opts.RunInterval,
		walkInterval: opts.WalkInterval,
		store:        opts.Store,
		callbacks:    opts.Callbacks,
		clock:        opts.Clock,
		logger:       opts.Logger,
		status:       StatusIdle,
		phase:        PhaseRun,
	}, nil
}

// Status returns the current lifecycle state.
func (e *Engine) Status() EngineStatus {
	return e.status
}

// Phase returns the current phase.
func (e *Engine) Phase() Phase {
	return e.phase
}

// SecondsRemaining returns the displayed seconds left in the current phase.
func (e *Engine) SecondsRemaining() int {
	return e.secondsRemaining
}

// CompletedIntervals returns the number of fully completed run and walk
// phases in the current workout.
func (e *Engine) CompletedIntervals() (runs, walks int) {
	return e.completedRuns, e.completedWalks
}

// CountdownRemaining returns the seconds left in the pre-roll countdown, or
// 0 outside of CountingDown.
func (e *Engine) CountdownRemaining() int {
	return e.countdownRemaining
}

// WorkoutID returns the identifier of the current workout, or "" when idle.
func (e *Engine) WorkoutID() string {
	return e.workoutID
}

// RunInterval returns the configured run selection.
func (e *Engine) RunInterval() IntervalSelection {
	return e.runInterval
}

// WalkInterval returns the configured walk selection.
func (e *Engine) WalkInterval() IntervalSelection {
	return e.walkInterval
}

// TotalElapsed returns the workout time spent running, excluding pauses and
// the countdown.
func (e *Engine) TotalElapsed() time.Duration {
	if e.status == StatusRunning {
		return e.totalBeforePause + e.clock.Now().Sub(e.segmentStart)
	}
	return e.totalBeforePause
}

// Start begins a workout from Idle, entering the countdown, or resumes a
// paused workout without resetting accumulated progress. It is a no-op
// while counting down or running.
func (e *Engine) Start(ctx context.Context) {
	switch e.status {
	case StatusRunning, StatusCountingDown:
		return
	case StatusPaused:
		now := e.clock.Now()
		e.phaseStart = now
		e.segmentStart = now
		e.status = StatusRunning
		e.logger.Info("workout resumed", "workout_id", e.workoutID, "phase", e.phase)
		e.callbacks.WorkoutResumed(ctx, e.workoutEvent(now))
		e.publish(ctx, now)
	default:
		e.workoutID = NewWorkoutID()
		e.status = StatusCountingDown
		e.countdownRemaining = CountdownSeconds
		e.logger.Info("countdown started", "workout_id", e.workoutID)
		e.callbacks.CountdownTick(ctx, &CountdownEvent{
			WorkoutID: e.workoutID,
			Remaining: e.countdownRemaining,
			At:        e.clock.Now(),
		})
	}
}

// Pause suspends a running workout. Accumulated phase and workout progress
// is folded in from the wall clock so pause time never counts against the
// phase. Valid only from Running.
func (e *Engine) Pause(ctx context.Context) {
	if e.status != StatusRunning {
		return
	}
	now := e.clock.Now()
	e.accumulatedPhase += now.Sub(e.phaseStart)
	e.totalBeforePause += now.Sub(e.segmentStart)
	e.secondsRemaining = e.remainingSeconds()
	e.status = StatusPaused
	e.logger.Info("workout paused", "workout_id", e.workoutID,
		"phase", e.phase, "seconds_remaining", e.secondsRemaining)
	e.callbacks.WorkoutPaused(ctx, e.workoutEvent(now))
	e.publish(ctx, now)
}

// Stop ends the workout from any state. If the workout got past the
// countdown, a finalized summary is handed to the callbacks exactly once.
// Engine state always resets to Idle defaults and the published snapshot is
// cleared.
func (e *Engine) Stop(ctx context.Context) {
	now := e.clock.Now()
	if e.status == StatusRunning || e.status == StatusPaused {
		total := e.totalBeforePause
		if e.status == StatusRunning {
			total += now.Sub(e.segmentStart)
		}
		summary := &WorkoutSummary{
			ID:            e.workoutID,
			StartTime:     e.workoutStart,
			EndTime:       now,
			TotalDuration: total,
			RunIntervals:  e.completedRuns,
			WalkIntervals: e.completedWalks,
		}
		e.logger.Info("workout completed", "workout_id", summary.ID,
			"duration", summary.TotalDuration,
			"runs", summary.RunIntervals, "walks", summary.WalkIntervals)
		e.callbacks.WorkoutCompleted(ctx, summary)
	}
	e.reset()
	if err := e.store.Clear(ctx); err != nil {
		e.logger.Error("failed to clear snapshot slot", "error", err)
	}
}

// Tick advances the engine. The runner invokes it once per second while the
// engine is counting down or running, and once immediately on resume; it is
// a no-op otherwise. While running, the phase remaining time is recomputed
// from the wall clock, so no ticks are assumed to have fired while the host
// was suspended.
func (e *Engine) Tick(ctx context.Context) {
	now := e.clock.Now()
	switch e.status {
	case StatusCountingDown:
		e.countdownRemaining--
		if e.countdownRemaining > 0 {
			e.callbacks.CountdownTick(ctx, &CountdownEvent{
				WorkoutID: e.workoutID,
				Remaining: e.countdownRemaining,
				At:        now,
			})
			return
		}
		e.beginWorkout(ctx, now)
	case StatusRunning:
		e.advance(ctx, now)
	}
}

// SetRunInterval reconfigures the run selection. If the run phase is live,
// its remaining time is immediately recomputed from the new duration and
// the time already elapsed, which can retroactively shorten or extend the
// phase.
func (e *Engine) SetRunInterval(ctx context.Context, sel IntervalSelection) {
	e.runInterval = sel
	e.reviseActivePhase(ctx, PhaseRun)
}

// SetWalkInterval reconfigures the walk selection, with the same live
// recomputation as SetRunInterval.
func (e *Engine) SetWalkInterval(ctx context.Context, sel IntervalSelection) {
	e.walkInterval = sel
	e.reviseActivePhase(ctx, PhaseWalk)
}

func (e *Engine) beginWorkout(ctx context.Context, now time.Time) {
	e.status = StatusRunning
	e.phase = PhaseRun
	e.secondsRemaining = e.runInterval.Duration()
	e.phaseStart = now
	e.segmentStart = now
	e.workoutStart = now
	e.accumulatedPhase = 0
	e.totalBeforePause = 0
	e.completedRuns = 0
	e.completedWalks = 0
	e.logger.Info("workout started", "workout_id", e.workoutID,
		"run_seconds", e.runInterval.Duration(), "walk_seconds", e.walkInterval.Duration())
	e.callbacks.WorkoutStarted(ctx, e.workoutEvent(now))
	e.publish(ctx, now)
}

func (e *Engine) advance(ctx context.Context, now time.Time) {
	duration := time.Duration(e.phaseDuration()) * time.Second
	elapsed := e.accumulatedPhase + now.Sub(e.phaseStart)
	remaining := duration - elapsed
	if remaining > 0 {
		e.secondsRemaining = ceilSeconds(remaining)
		e.publish(ctx, now)
		return
	}

	// Exactly one transition per tick, no matter how large the gap: a
	// suspension spanning several full phases lands in the next phase with
	// its full duration, and the skipped phases are never counted.
	finished := e.phase
	switch finished {
	case PhaseRun:
		e.completedRuns++
	default:
		e.completedWalks++
	}
	e.phase = finished.Next()
	e.phaseStart = now
	e.accumulatedPhase = 0
	e.secondsRemaining = e.phaseDuration()
	e.logger.Debug("phase transition", "workout_id", e.workoutID,
		"finished", finished, "next", e.phase, "next_seconds", e.secondsRemaining)
	e.callbacks.PhaseTransition(ctx, &PhaseEvent{
		WorkoutID:      e.workoutID,
		FinishedPhase:  finished,
		NextPhase:      e.phase,
		NextDuration:   e.secondsRemaining,
		CompletedRuns:  e.completedRuns,
		CompletedWalks: e.completedWalks,
		At:             now,
	})
	e.publish(ctx, now)
}

func (e *Engine) reviseActivePhase(ctx context.Context, changed Phase) {
	if e.status != StatusRunning || e.phase != changed {
		return
	}
	now := e.clock.Now()
	e.secondsRemaining = e.remainingSeconds()
	e.publish(ctx, now)
}

// remainingSeconds recomputes the displayed remaining time for the current
// phase from the wall clock, floored at zero.
func (e *Engine) remainingSeconds() int {
	duration := time.Duration(e.phaseDuration()) * time.Second
	elapsed := e.accumulatedPhase
	if e.status == StatusRunning {
		elapsed += e.clock.Now().Sub(e.phaseStart)
	}
	remaining := duration - elapsed
	if remaining <= 0 {
		return 0
	}
	return ceilSeconds(remaining)
}

func (e *Engine) phaseDuration() int {
	if e.phase == PhaseRun {
		return e.runInterval.Duration()
	}
	return e.walkInterval.Duration()
}

func (e *Engine) reset() {
	e.status = StatusIdle
	e.phase = PhaseRun
	e.secondsRemaining = 0
	e.countdownRemaining = 0
	e.phaseStart = time.Time{}
	e.segmentStart = time.Time{}
	e.accumulatedPhase = 0
	e.totalBeforePause = 0
	e.completedRuns = 0
	e.completedWalks = 0
	e.workoutStart = time.Time{}
	e.workoutID = ""
}

func (e *Engine) workoutEvent(now time.Time) *WorkoutEvent {
	return &WorkoutEvent{
		WorkoutID:     e.workoutID,
		Phase:         e.phase,
		TimeRemaining: e.secondsRemaining,
		TotalElapsed:  e.TotalElapsed(),
		At:            now,
	}
}

// publish writes the current state to the snapshot slot. Store failures are
// logged and swallowed; they never stall the state machine.
func (e *Engine) publish(ctx context.Context, now time.Time) {
	snapshot := &Snapshot{
		IsActive:            true,
		CurrentPhase:        e.phase,
		TimeRemaining:       e.secondsRemaining,
		IntervalDuration:    e.phaseDuration(),
		LastUpdate:          now,
		RunIntervalSetting:  e.runInterval.Duration(),
		WalkIntervalSetting: e.walkInterval.Duration(),
	}
	if err := e.store.Write(ctx, snapshot); err != nil {
		e.logger.Error("failed to publish snapshot", "error", err)
	}
}

func ceilSeconds(d time.Duration) int {
	return int(math.Ceil(d.Seconds()))
}
