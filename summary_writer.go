package runwalk

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// SummaryWriter is the statistics collaborator for the CLI: it appends
// finalized workout summaries to a newline-delimited JSON file, standing in
// for a platform health-session submission. Write failures are logged and
// swallowed so they can never stall the engine.
type SummaryWriter struct {
	BaseEngineCallbacks
	path   string
	logger *slog.Logger
}

// NewSummaryWriter creates a writer appending to the given file.
func NewSummaryWriter(path string, logger *slog.Logger) *SummaryWriter {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &SummaryWriter{path: path, logger: logger}
}

func (w *SummaryWriter) WorkoutCompleted(ctx context.Context, summary *WorkoutSummary) {
	data, err := json.Marshal(summary)
	if err != nil {
		w.logger.Error("failed to marshal workout summary", "error", err)
		return
	}
	if err := os.MkdirAll(filepath.Dir(w.path), 0755); err != nil {
		w.logger.Error("failed to create summary directory", "error", err)
		return
	}
	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		w.logger.Error("failed to open summary file", "error", err)
		return
	}
	defer f.Close()
	if _, err := f.Write(append(data, '\n')); err != nil {
		w.logger.Error("failed to write workout summary", "error", err)
	}
}

// History reads back all recorded summaries, oldest first.
func (w *SummaryWriter) History() ([]*WorkoutSummary, error) {
	data, err := os.ReadFile(w.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var summaries []*WorkoutSummary
	for _, line := range strings.Split(string(data), "\n") {
		if line == "" {
			continue
		}
		var summary WorkoutSummary
		if err := json.Unmarshal([]byte(line), &summary); err != nil {
			return nil, err
		}
		summaries = append(summaries, &summary)
	}
	return summaries, nil
}
