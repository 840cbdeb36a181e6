package boxbulk

import (
	"context"

	"go.uber.org/zap"
)

// Tracker represents a storage that acts as a registry for runs. It keeps the history of bulk
// and listing runs together with the per-record issues that occurred in them.
type Tracker interface {
	Storage
	// StartRun persists the freshly started run.
	StartRun(run *Run) error
	// TrackIssue persists a per-record issue of the run the issue belongs to.
	TrackIssue(issue *Issue) error
	// FinishRun persists the final counters and state of the run.
	FinishRun(run *Run) error
}

// NewEmptyTracker returns a tracker that keeps nothing.
func NewEmptyTracker() Tracker {
	return &emptyTracker{}
}

// emptyTracker is used when no run history is needed.
type emptyTracker struct{}

func (*emptyTracker) Prepare(ctx context.Context, runID string, logger *zap.Logger) error {
	return nil
}
func (*emptyTracker) Setup() error                  { return nil }
func (*emptyTracker) Shutdown()                     {}
func (*emptyTracker) StartRun(run *Run) error       { return nil }
func (*emptyTracker) TrackIssue(issue *Issue) error { return nil }
func (*emptyTracker) FinishRun(run *Run) error      { return nil }
