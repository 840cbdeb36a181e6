package boxbulk

import (
	"encoding/json"
	"fmt"
	"time"
)

// NewIssue returns a new *Issue populated with the passed parameters. The run and the record
// position are populated later by the executor.
func NewIssue(
	err error,
	note string,
	issueType IssueType,
	step Step,
) *Issue {
	return &Issue{
		Step:    step,
		Type:    issueType,
		Note:    note,
		Created: time.Now(),
		Err:     err,
	}
}

// Issue represents a per-record failure that's happened during a batch. Issues are reported to
// the console and to the tracker, they never abort the batch.
type Issue struct {
	ID       uint64    `json:"id"`
	Run      *Run      `json:"-"`
	Step     Step      `json:"step"`
	Type     IssueType `json:"type"`
	Kind     Kind      `json:"kind"`
	Line     int       `json:"line"`
	RecordID string    `json:"record_id,omitempty"`
	Note     string    `json:"note,omitempty"`
	Created  time.Time `json:"created"`
	Err      error     `json:"-"`
}

// Error makes the Issue type implement Error interface.
func (i *Issue) Error() string {
	if d, err := json.Marshal(i); err == nil {
		return string(d)
	}
	return fmt.Sprintf("%+v", *i)
}

// Unwrap returns the underlying error of the issue.
func (i *Issue) Unwrap() error {
	return i.Err
}

// Message returns the human readable description of the underlying error.
func (i *Issue) Message() string {
	if i.Err == nil {
		return i.Note
	}
	return i.Err.Error()
}

// MarshalJSON overrides the default MarshalJSON method in order to make it possible to represent
// the issue run ID instead of the structure and the error as text.
func (i *Issue) MarshalJSON() ([]byte, error) {
	var runID string
	if i.Run != nil {
		runID = i.Run.ID
	}
	var errText string
	if i.Err != nil {
		errText = i.Err.Error()
	}
	type Alias Issue
	return json.Marshal(&struct {
		RunID string `json:"run_id,omitempty"`
		Err   string `json:"err,omitempty"`
		*Alias
	}{
		RunID: runID,
		Err:   errText,
		Alias: (*Alias)(i),
	})
}

// complete finishes the issue definition by setting its last fields left unknown.
func (i *Issue) complete(run *Run, request *Request) {
	i.Run = run
	if request == nil {
		return
	}
	i.Line = request.Line
	if request.Record != nil {
		i.Kind = request.Record.Kind()
		i.RecordID = request.Record.Identifier()
	}
}

// IssueType defines the kind of an issue. It can be used to logically group issues.
type IssueType string

const (
	// IssueTypeMissingField describes records which lack a value for a required field.
	IssueTypeMissingField IssueType = "missing_field"
	// IssueTypeRemote describes issues that have been caused by a failed remote operation.
	IssueTypeRemote IssueType = "remote_operation"
	// IssueTypePanic describes operations that panicked.
	IssueTypePanic IssueType = "panic"
	// IssueTypeParsing describes issues that have been caused by data not being parsed
	IssueTypeParsing IssueType = "data_parsing"
)

// String converts a IssueType to string.
func (i IssueType) String() string {
	return string(i)
}
