package runwalk

import (
	"context"
	"io"
	"os"

	"github.com/fatih/color"
)

// ConsoleFeedback is a terminal playback collaborator: it announces
// countdown ticks, phase transitions, and workout milestones with colored
// output in place of audio and haptic cues.
type ConsoleFeedback struct {
	BaseEngineCallbacks
	out io.Writer
}

// NewConsoleFeedback creates console feedback writing to out, defaulting to
// stdout.
func NewConsoleFeedback(out io.Writer) *ConsoleFeedback {
	if out == nil {
		out = os.Stdout
	}
	return &ConsoleFeedback{out: out}
}

func (f *ConsoleFeedback) CountdownTick(ctx context.Context, event *CountdownEvent) {
	color.New(color.FgYellow, color.Bold).Fprintf(f.out, "%d...\n", event.Remaining)
}

func (f *ConsoleFeedback) WorkoutStarted(ctx context.Context, event *WorkoutEvent) {
	color.New(color.FgGreen, color.Bold).Fprintf(f.out, "GO! Run for %s\n",
		FormatSeconds(event.TimeRemaining))
}

func (f *ConsoleFeedback) PhaseTransition(ctx context.Context, event *PhaseEvent) {
	if event.NextPhase.IsRun() {
		color.New(color.FgGreen, color.Bold).Fprintf(f.out, "Run for %s\n",
			FormatSeconds(event.NextDuration))
		return
	}
	color.New(color.FgCyan, color.Bold).Fprintf(f.out, "Walk for %s\n",
		FormatSeconds(event.NextDuration))
}

func (f *ConsoleFeedback) WorkoutPaused(ctx context.Context, event *WorkoutEvent) {
	color.New(color.FgYellow).Fprintf(f.out, "Paused with %s left in the %s phase\n",
		FormatSeconds(event.TimeRemaining), event.Phase)
}

func (f *ConsoleFeedback) WorkoutResumed(ctx context.Context, event *WorkoutEvent) {
	color.New(color.FgGreen).Fprintf(f.out, "Resumed: %s in the %s phase\n",
		FormatSeconds(event.TimeRemaining), event.Phase)
}

func (f *ConsoleFeedback) WorkoutCompleted(ctx context.Context, summary *WorkoutSummary) {
	color.New(color.Bold).Fprintln(f.out, "Workout complete")
	white := color.New(color.FgWhite)
	white.Fprintf(f.out, "  time: %s\n", FormatSeconds(int(summary.TotalDuration.Seconds())))
	white.Fprintf(f.out, "  runs: %d  walks: %d\n", summary.RunIntervals, summary.WalkIntervals)
}
