package runwalk

import (
	"context"
	"time"
)

// Runner is the cooperative drive loop for an Engine: a 1-second scheduled
// callback invokes Tick while the engine is counting down or running, and
// every public engine operation is funneled through the same goroutine so
// the engine's single-owner, no-locking contract holds even when commands
// arrive from other goroutines. Ticking stops while paused; resuming ticks
// once immediately so the display catches up without waiting a second.
type Runner struct {
	engine   *Engine
	clock    Clock
	commands chan runnerCommand
	done     chan struct{}
}

type runnerCommand struct {
	run  func(ctx context.Context)
	done chan struct{}
}

// RunnerState is a point-in-time view of the engine, evaluated on the
// runner goroutine.
type RunnerState struct {
	Status             EngineStatus
	Phase              Phase
	SecondsRemaining   int
	CountdownRemaining int
	CompletedRuns      int
	CompletedWalks     int
}

// NewRunner creates a Runner for the engine. A nil clock defaults to the
// real clock.
func NewRunner(engine *Engine, clock Clock) *Runner {
	if clock == nil {
		clock = RealClock()
	}
	return &Runner{
		engine:   engine,
		clock:    clock,
		commands: make(chan runnerCommand),
		done:     make(chan struct{}),
	}
}

// Run processes ticks and commands until ctx is canceled. It must be
// running for the command methods to make progress.
func (r *Runner) Run(ctx context.Context) {
	defer close(r.done)
	ticker := r.clock.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			switch r.engine.Status() {
			case StatusCountingDown, StatusRunning:
				r.engine.Tick(ctx)
			}
		case cmd := <-r.commands:
			cmd.run(ctx)
			close(cmd.done)
		}
	}
}

// Done is closed when Run returns.
func (r *Runner) Done() <-chan struct{} {
	return r.done
}

// Start starts or resumes the workout. A resume ticks once immediately.
func (r *Runner) Start(ctx context.Context) {
	r.exec(ctx, func(ctx context.Context) {
		resuming := r.engine.Status() == StatusPaused
		r.engine.Start(ctx)
		if resuming {
			r.engine.Tick(ctx)
		}
	})
}

// Pause pauses the workout.
func (r *Runner) Pause(ctx context.Context) {
	r.exec(ctx, r.engine.Pause)
}

// Stop ends the workout.
func (r *Runner) Stop(ctx context.Context) {
	r.exec(ctx, r.engine.Stop)
}

// SetRunInterval reconfigures the run selection.
func (r *Runner) SetRunInterval(ctx context.Context, sel IntervalSelection) {
	r.exec(ctx, func(ctx context.Context) {
		r.engine.SetRunInterval(ctx, sel)
	})
}

// SetWalkInterval reconfigures the walk selection.
func (r *Runner) SetWalkInterval(ctx context.Context, sel IntervalSelection) {
	r.exec(ctx, func(ctx context.Context) {
		r.engine.SetWalkInterval(ctx, sel)
	})
}

// State returns a consistent view of the engine.
func (r *Runner) State(ctx context.Context) RunnerState {
	var state RunnerState
	r.exec(ctx, func(context.Context) {
		runs, walks := r.engine.CompletedIntervals()
		state = RunnerState{
			Status:             r.engine.Status(),
			Phase:              r.engine.Phase(),
			SecondsRemaining:   r.engine.SecondsRemaining(),
			CountdownRemaining: r.engine.CountdownRemaining(),
			CompletedRuns:      runs,
			CompletedWalks:     walks,
		}
	})
	return state
}

// exec runs fn on the runner goroutine and waits for it to complete. It
// returns without running fn if the runner has exited or ctx is canceled.
func (r *Runner) exec(ctx context.Context, fn func(context.Context)) {
	cmd := runnerCommand{run: fn, done: make(chan struct{})}
	select {
	case r.commands <- cmd:
	case <-r.done:
		return
	case <-ctx.Done():
		return
	}
	select {
	case <-cmd.done:
	case <-r.done:
	}
}
