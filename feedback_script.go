package runwalk

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/strideloop/runwalk/script"
)

// ScriptFeedback evaluates a user-supplied script on engine events, so
// feedback rules — what to announce and when — can be customized without
// recompiling. The script sees a single `event` map describing the event
// and runs on every countdown tick, phase transition, and workout
// milestone. Script failures are logged and swallowed; a broken feedback
// script must never stall the timer.
type ScriptFeedback struct {
	BaseEngineCallbacks
	script script.Script
	logger *slog.Logger
}

// NewScriptFeedback compiles the feedback script once up front so per-event
// evaluation stays cheap.
func NewScriptFeedback(ctx context.Context, source string, logger *slog.Logger) (*ScriptFeedback, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	compiler := script.NewRisorCompiler(map[string]any{"event": map[string]any{}})
	compiled, err := compiler.Compile(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("failed to compile feedback script: %w", err)
	}
	return &ScriptFeedback{script: compiled, logger: logger}, nil
}

func (f *ScriptFeedback) CountdownTick(ctx context.Context, event *CountdownEvent) {
	f.eval(ctx, map[string]any{
		"type":      "countdown",
		"remaining": event.Remaining,
	})
}

func (f *ScriptFeedback) WorkoutStarted(ctx context.Context, event *WorkoutEvent) {
	f.eval(ctx, map[string]any{
		"type":           "started",
		"phase":          string(event.Phase),
		"time_remaining": event.TimeRemaining,
	})
}

func (f *ScriptFeedback) PhaseTransition(ctx context.Context, event *PhaseEvent) {
	f.eval(ctx, map[string]any{
		"type":          "phase",
		"finished":      string(event.FinishedPhase),
		"next":          string(event.NextPhase),
		"next_duration": event.NextDuration,
		"runs":          event.CompletedRuns,
		"walks":         event.CompletedWalks,
	})
}

func (f *ScriptFeedback) WorkoutCompleted(ctx context.Context, summary *WorkoutSummary) {
	f.eval(ctx, map[string]any{
		"type":          "completed",
		"total_seconds": int(summary.TotalDuration.Seconds()),
		"runs":          summary.RunIntervals,
		"walks":         summary.WalkIntervals,
	})
}

func (f *ScriptFeedback) eval(ctx context.Context, event map[string]any) {
	if _, err := f.script.Evaluate(ctx, map[string]any{"event": event}); err != nil {
		f.logger.Error("feedback script failed", "error", err, "event_type", event["type"])
	}
}
