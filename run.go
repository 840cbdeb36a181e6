package boxbulk

import (
	"time"

	"github.com/google/uuid"
)

// RunState defines the state of a run.
type RunState string

const (
	// RunStateRunning describes a run in progress.
	RunStateRunning RunState = "running"
	// RunStateFinished describes a run that processed its whole input. Record-level failures don't
	// change this state.
	RunStateFinished RunState = "finished"
	// RunStateFailed describes a run aborted by a fatal error.
	RunStateFailed RunState = "failed"
)

// String converts a RunState to string.
func (s RunState) String() string {
	return string(s)
}

// Run represents one invocation of a bulk or a listing command.
type Run struct {
	ID         string
	Command    string
	SubCommand string
	Source     string
	State      RunState
	Started    time.Time
	Finished   *time.Time
	Total      int
	Succeeded  int
	Failed     int
	ReportPath string
	Error      string
}

// NewRun returns a started run with a fresh ID.
func NewRun(command, subCommand, source string) *Run {
	return &Run{
		ID:         uuid.NewString(),
		Command:    command,
		SubCommand: subCommand,
		Source:     source,
		State:      RunStateRunning,
		Started:    time.Now(),
	}
}

// Finish records the outcome of the run. A non-nil err marks the run as failed.
func (r *Run) Finish(total, succeeded, failed int, reportPath string, err error) {
	now := time.Now()
	r.Finished = &now
	r.Total = total
	r.Succeeded = succeeded
	r.Failed = failed
	r.ReportPath = reportPath
	r.State = RunStateFinished
	if err != nil {
		r.State = RunStateFailed
		r.Error = err.Error()
	}
}
