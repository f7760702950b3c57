package runwalk

import (
	"time"

	"go.jetify.com/typeid"
)

// NewWorkoutID returns a new unique identifier for a workout.
func NewWorkoutID() string {
	id, err := typeid.WithPrefix("workout")
	if err != nil {
		panic(err)
	}
	return id.String()
}

// WorkoutSummary is the finalized record handed to the statistics
// collaborator when a workout that got past the countdown stops. The engine
// does not persist it; persistence and health-session submission are the
// collaborator's job.
type WorkoutSummary struct {
	ID            string        `json:"id"`
	StartTime     time.Time     `json:"start_time"`
	EndTime       time.Time     `json:"end_time"`
	TotalDuration time.Duration `json:"total_duration"`
	RunIntervals  int           `json:"run_intervals"`
	WalkIntervals int           `json:"walk_intervals"`
}
