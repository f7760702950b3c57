package runwalk

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type recordingCallbacks struct {
	BaseEngineCallbacks
	countdowns  []int
	started     int
	paused      int
	resumed     int
	transitions []*PhaseEvent
	summaries   []*WorkoutSummary
}

func (r *recordingCallbacks) CountdownTick(ctx context.Context, event *CountdownEvent) {
	r.countdowns = append(r.countdowns, event.Remaining)
}

func (r *recordingCallbacks) WorkoutStarted(ctx context.Context, event *WorkoutEvent) {
	r.started++
}

func (r *recordingCallbacks) PhaseTransition(ctx context.Context, event *PhaseEvent) {
	r.transitions = append(r.transitions, event)
}

func (r *recordingCallbacks) WorkoutPaused(ctx context.Context, event *WorkoutEvent) {
	r.paused++
}

func (r *recordingCallbacks) WorkoutResumed(ctx context.Context, event *WorkoutEvent) {
	r.resumed++
}

func (r *recordingCallbacks) WorkoutCompleted(ctx context.Context, summary *WorkoutSummary) {
	r.summaries = append(r.summaries, summary)
}

func newTestEngine(t *testing.T, runSeconds, walkSeconds int) (*Engine, *FakeClock, *MemorySnapshotStore, *recordingCallbacks) {
	t.Helper()
	clock := NewFakeClock(time.Date(2026, 3, 14, 7, 0, 0, 0, time.UTC))
	store := NewMemorySnapshotStore(clock)
	callbacks := &recordingCallbacks{}
	run, err := CustomInterval(runSeconds)
	require.NoError(t, err)
	walk, err := CustomInterval(walkSeconds)
	require.NoError(t, err)
	engine, err := NewEngine(EngineOptions{
		RunInterval:  run,
		WalkInterval: walk,
		Store:        store,
		Callbacks:    callbacks,
		Clock:        clock,
	})
	require.NoError(t, err)
	return engine, clock, store, callbacks
}

// startWorkout drives the engine through the countdown into Running.
func startWorkout(t *testing.T, ctx context.Context, engine *Engine, clock *FakeClock) {
	t.Helper()
	engine.Start(ctx)
	for i := 0; i < CountdownSeconds; i++ {
		clock.Advance(time.Second)
		engine.Tick(ctx)
	}
	require.Equal(t, StatusRunning, engine.Status())
}

func TestEngineDefaults(t *testing.T) {
	engine, err := NewEngine(EngineOptions{})
	require.NoError(t, err)
	require.Equal(t, StatusIdle, engine.Status())
	require.Equal(t, PhaseRun, engine.Phase())
	require.Equal(t, DefaultRunInterval(), engine.RunInterval())
	require.Equal(t, DefaultWalkInterval(), engine.WalkInterval())

	_, err = NewEngine(EngineOptions{
		RunInterval: IntervalSelection{Kind: "bogus", Seconds: 30},
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown interval kind")
}

func TestCountdownToRunning(t *testing.T) {
	ctx := context.Background()
	engine, clock, store, callbacks := newTestEngine(t, 30, 60)

	engine.Start(ctx)
	require.Equal(t, StatusCountingDown, engine.Status())
	require.NotEmpty(t, engine.WorkoutID())
	require.Equal(t, []int{3}, callbacks.countdowns)

	clock.Advance(time.Second)
	engine.Tick(ctx)
	clock.Advance(time.Second)
	engine.Tick(ctx)
	require.Equal(t, StatusCountingDown, engine.Status())
	require.Equal(t, []int{3, 2, 1}, callbacks.countdowns)

	clock.Advance(time.Second)
	engine.Tick(ctx)
	require.Equal(t, StatusRunning, engine.Status())
	require.Equal(t, PhaseRun, engine.Phase())
	require.Equal(t, 30, engine.SecondsRemaining())
	require.Equal(t, 1, callbacks.started)

	snapshot, err := store.Read(ctx)
	require.NoError(t, err)
	require.True(t, snapshot.IsActive)
	require.Equal(t, PhaseRun, snapshot.CurrentPhase)
	require.Equal(t, 30, snapshot.TimeRemaining)
	require.Equal(t, 30, snapshot.IntervalDuration)
}

func TestStartIsNoOpWhileRunning(t *testing.T) {
	ctx := context.Background()
	engine, clock, _, callbacks := newTestEngine(t, 30, 60)
	startWorkout(t, ctx, engine, clock)

	id := engine.WorkoutID()
	engine.Start(ctx)
	require.Equal(t, StatusRunning, engine.Status())
	require.Equal(t, id, engine.WorkoutID())
	require.Equal(t, 1, callbacks.started)
	require.Equal(t, []int{3, 2, 1}, callbacks.countdowns)
}

func TestPhaseTransitionAfterConfiguredDuration(t *testing.T) {
	for _, tc := range []struct{ run, walk int }{
		{run: 30, walk: 60},
		{run: 10, walk: 10},
	} {
		ctx := context.Background()
		engine, clock, _, callbacks := newTestEngine(t, tc.run, tc.walk)
		startWorkout(t, ctx, engine, clock)

		clock.Advance(time.Duration(tc.run) * time.Second)
		engine.Tick(ctx)

		require.Equal(t, PhaseWalk, engine.Phase())
		require.Equal(t, tc.walk, engine.SecondsRemaining())
		require.Len(t, callbacks.transitions, 1)
		require.Equal(t, PhaseRun, callbacks.transitions[0].FinishedPhase)
		require.Equal(t, PhaseWalk, callbacks.transitions[0].NextPhase)
		runs, walks := engine.CompletedIntervals()
		require.Equal(t, 1, runs)
		require.Equal(t, 0, walks)
	}
}

func TestTickCeilsFractionalRemaining(t *testing.T) {
	ctx := context.Background()
	engine, clock, _, _ := newTestEngine(t, 30, 60)
	startWorkout(t, ctx, engine, clock)

	clock.Advance(500 * time.Millisecond)
	engine.Tick(ctx)
	require.Equal(t, 30, engine.SecondsRemaining())

	clock.Advance(600 * time.Millisecond)
	engine.Tick(ctx)
	require.Equal(t, 29, engine.SecondsRemaining())
}

func TestPauseNeverCountsAgainstThePhase(t *testing.T) {
	ctx := context.Background()

	remainingAfter := func(pauseWait time.Duration) int {
		engine, clock, _, _ := newTestEngine(t, 30, 60)
		startWorkout(t, ctx, engine, clock)
		clock.Advance(10 * time.Second)
		engine.Pause(ctx)
		clock.Advance(pauseWait)
		engine.Start(ctx)
		engine.Tick(ctx)
		return engine.SecondsRemaining()
	}

	require.Equal(t, 20, remainingAfter(0))
	require.Equal(t, 20, remainingAfter(1000*time.Second))
	require.Equal(t, 20, remainingAfter(48*time.Hour))
}

func TestPauseValidOnlyFromRunning(t *testing.T) {
	ctx := context.Background()
	engine, clock, _, callbacks := newTestEngine(t, 30, 60)

	engine.Pause(ctx)
	require.Equal(t, StatusIdle, engine.Status())

	engine.Start(ctx)
	engine.Pause(ctx)
	require.Equal(t, StatusCountingDown, engine.Status())

	startWorkout(t, ctx, engine, clock)
	engine.Pause(ctx)
	require.Equal(t, StatusPaused, engine.Status())
	engine.Pause(ctx)
	require.Equal(t, 1, callbacks.paused)
}

func TestPausePublishesActiveSnapshot(t *testing.T) {
	ctx := context.Background()
	engine, clock, store, _ := newTestEngine(t, 30, 60)
	startWorkout(t, ctx, engine, clock)

	clock.Advance(12 * time.Second)
	engine.Pause(ctx)

	snapshot, err := store.Read(ctx)
	require.NoError(t, err)
	require.True(t, snapshot.IsActive)
	require.Equal(t, 18, snapshot.TimeRemaining)
}

func TestChangingActivePhaseDurationWhileRunning(t *testing.T) {
	ctx := context.Background()
	engine, clock, _, _ := newTestEngine(t, 60, 60)
	startWorkout(t, ctx, engine, clock)

	clock.Advance(20 * time.Second)
	engine.Tick(ctx)
	require.Equal(t, 40, engine.SecondsRemaining())

	// Shrinking the live phase keeps the elapsed 20s: 30 - 20 = 10.
	shorter, err := CustomInterval(30)
	require.NoError(t, err)
	engine.SetRunInterval(ctx, shorter)
	require.Equal(t, 10, engine.SecondsRemaining())

	clock.Advance(5 * time.Second)
	engine.Tick(ctx)
	require.Equal(t, 5, engine.SecondsRemaining())

	// Extending works the same way: 600 - 25 = 575.
	longer, err := PresetInterval(600)
	require.NoError(t, err)
	engine.SetRunInterval(ctx, longer)
	require.Equal(t, 575, engine.SecondsRemaining())

	// Changing the inactive phase leaves the live one alone.
	walk, err := CustomInterval(90)
	require.NoError(t, err)
	engine.SetWalkInterval(ctx, walk)
	require.Equal(t, 575, engine.SecondsRemaining())
}

func TestShrinkingBelowElapsedForcesTransitionOnNextTick(t *testing.T) {
	ctx := context.Background()
	engine, clock, _, callbacks := newTestEngine(t, 60, 60)
	startWorkout(t, ctx, engine, clock)

	clock.Advance(20 * time.Second)
	shorter, err := CustomInterval(15)
	require.NoError(t, err)
	engine.SetRunInterval(ctx, shorter)
	require.Equal(t, 0, engine.SecondsRemaining())
	require.Empty(t, callbacks.transitions)

	clock.Advance(time.Second)
	engine.Tick(ctx)
	require.Equal(t, PhaseWalk, engine.Phase())
	require.Len(t, callbacks.transitions, 1)
}

func TestSingleTransitionScenario(t *testing.T) {
	// Configure RUN=30s, WALK=60s. A tick 31s into the run phase lands in
	// WALK with the full 60s; a tick 60s later leaves WALK for RUN; one
	// second after that the display reads 29.
	ctx := context.Background()
	engine, clock, _, callbacks := newTestEngine(t, 30, 60)
	startWorkout(t, ctx, engine, clock)

	clock.Advance(31 * time.Second)
	engine.Tick(ctx)
	require.Equal(t, PhaseWalk, engine.Phase())
	require.Equal(t, 60, engine.SecondsRemaining())

	clock.Advance(60 * time.Second)
	engine.Tick(ctx)
	require.Equal(t, PhaseRun, engine.Phase())
	require.Equal(t, 30, engine.SecondsRemaining())

	clock.Advance(time.Second)
	engine.Tick(ctx)
	require.Equal(t, 29, engine.SecondsRemaining())

	require.Len(t, callbacks.transitions, 2)
	runs, walks := engine.CompletedIntervals()
	require.Equal(t, 1, runs)
	require.Equal(t, 1, walks)
}

func TestLongSuspensionPerformsExactlyOneTransition(t *testing.T) {
	// A gap spanning many complete run/walk cycles still produces a single
	// transition: intermediate phases are skipped and never counted.
	ctx := context.Background()
	engine, clock, _, callbacks := newTestEngine(t, 30, 60)
	startWorkout(t, ctx, engine, clock)

	clock.Advance(1000 * time.Second)
	engine.Tick(ctx)

	require.Equal(t, PhaseWalk, engine.Phase())
	require.Equal(t, 60, engine.SecondsRemaining())
	require.Len(t, callbacks.transitions, 1)
	runs, walks := engine.CompletedIntervals()
	require.Equal(t, 1, runs)
	require.Equal(t, 0, walks)
}

func TestStopFinalizesSummaryOnce(t *testing.T) {
	ctx := context.Background()
	engine, clock, store, callbacks := newTestEngine(t, 30, 60)
	startWorkout(t, ctx, engine, clock)
	workoutID := engine.WorkoutID()

	clock.Advance(30 * time.Second)
	engine.Tick(ctx) // RUN -> WALK
	clock.Advance(10 * time.Second)
	engine.Pause(ctx)
	clock.Advance(100 * time.Second) // paused time must not count
	engine.Start(ctx)
	clock.Advance(5 * time.Second)
	engine.Stop(ctx)

	require.Len(t, callbacks.summaries, 1)
	summary := callbacks.summaries[0]
	require.Equal(t, workoutID, summary.ID)
	require.Equal(t, 45*time.Second, summary.TotalDuration)
	require.Equal(t, 145*time.Second, summary.EndTime.Sub(summary.StartTime))
	require.Equal(t, 1, summary.RunIntervals)
	require.Equal(t, 0, summary.WalkIntervals)

	require.Equal(t, StatusIdle, engine.Status())
	require.Equal(t, 0, engine.SecondsRemaining())
	require.Empty(t, engine.WorkoutID())

	snapshot, err := store.Read(ctx)
	require.NoError(t, err)
	require.False(t, snapshot.IsActive)

	engine.Stop(ctx)
	require.Len(t, callbacks.summaries, 1)
}

func TestStopFromPausedFinalizesSummary(t *testing.T) {
	ctx := context.Background()
	engine, clock, _, callbacks := newTestEngine(t, 30, 60)
	startWorkout(t, ctx, engine, clock)

	clock.Advance(12 * time.Second)
	engine.Pause(ctx)
	clock.Advance(time.Hour)
	engine.Stop(ctx)

	require.Len(t, callbacks.summaries, 1)
	require.Equal(t, 12*time.Second, callbacks.summaries[0].TotalDuration)
}

func TestStopDuringCountdownProducesNoSummary(t *testing.T) {
	ctx := context.Background()
	engine, clock, _, callbacks := newTestEngine(t, 30, 60)

	engine.Start(ctx)
	clock.Advance(time.Second)
	engine.Tick(ctx)
	engine.Stop(ctx)

	require.Empty(t, callbacks.summaries)
	require.Equal(t, StatusIdle, engine.Status())
}

func TestTickPublishesSnapshotEverySecond(t *testing.T) {
	ctx := context.Background()
	engine, clock, store, _ := newTestEngine(t, 30, 60)
	startWorkout(t, ctx, engine, clock)

	for want := 29; want >= 27; want-- {
		clock.Advance(time.Second)
		engine.Tick(ctx)
		snapshot, err := store.Read(ctx)
		require.NoError(t, err)
		require.Equal(t, want, snapshot.TimeRemaining)
		require.Equal(t, clock.Now(), snapshot.LastUpdate)
		require.Equal(t, 30, snapshot.RunIntervalSetting)
		require.Equal(t, 60, snapshot.WalkIntervalSetting)
	}
}
