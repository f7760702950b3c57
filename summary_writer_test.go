package runwalk

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSummaryWriter(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history", "workouts.jsonl")
	writer := NewSummaryWriter(path, nil)

	history, err := writer.History()
	require.NoError(t, err)
	require.Empty(t, history)

	start := time.Date(2026, 3, 14, 7, 0, 0, 0, time.UTC)
	first := &WorkoutSummary{
		ID:            NewWorkoutID(),
		StartTime:     start,
		EndTime:       start.Add(145 * time.Second),
		TotalDuration: 45 * time.Second,
		RunIntervals:  1,
		WalkIntervals: 0,
	}
	second := &WorkoutSummary{
		ID:            NewWorkoutID(),
		StartTime:     start.Add(time.Hour),
		EndTime:       start.Add(time.Hour + 10*time.Minute),
		TotalDuration: 10 * time.Minute,
		RunIntervals:  6,
		WalkIntervals: 6,
	}
	writer.WorkoutCompleted(ctx, first)
	writer.WorkoutCompleted(ctx, second)

	history, err = writer.History()
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.Equal(t, first.ID, history[0].ID)
	require.Equal(t, 45*time.Second, history[0].TotalDuration)
	require.Equal(t, second.ID, history[1].ID)
	require.Equal(t, 6, history[1].RunIntervals)
	require.True(t, first.StartTime.Equal(history[0].StartTime))
}

func TestNewWorkoutID(t *testing.T) {
	first := NewWorkoutID()
	second := NewWorkoutID()
	require.NotEmpty(t, first)
	require.NotEqual(t, first, second)
	require.Contains(t, first, "workout_")
}
