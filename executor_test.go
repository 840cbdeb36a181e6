package boxbulk

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestExecutor_Run(t *testing.T) {
	// ARRANGE
	tracker := &trackerMock{}
	executor := NewExecutor(tracker, zap.NewNop(), NewEmptyMetricsTracker())
	operation := &operationMock{}
	run := NewRun("folders", "create", "folders.csv")
	requests := []*Request{
		{Line: 1, Record: &Folder{Name: "Contracts", ParentID: "0"}},
		{Line: 2, Record: &Folder{Name: executeErrorName, ParentID: "0"}},
		{Line: 3, Record: &Folder{ParentID: "0"}, Missing: []string{"name"}},
		{Line: 4, Record: &Folder{Name: panicName, ParentID: "0"}},
		{Line: 5, Record: &Folder{Name: "Invoices", ParentID: "0"}},
	}
	var succeeded []string
	var failed []int

	// ACT
	result := executor.Run(context.Background(), Batch{
		Run:         run,
		Requests:    requests,
		Operation:   NewOperation(OperationTypeCreate, operation.CreateFolder),
		Accumulator: NewAccumulator(),
		OnSuccess:   func(record Record) { succeeded = append(succeeded, record.Identifier()) },
		OnFailure:   func(issue *Issue) { failed = append(failed, issue.Line) },
	})

	// ASSERT
	assert.Equalf(t, 5, result.Total, "total mismatch")
	assert.Equalf(t, 2, result.Succeeded, "succeeded mismatch")
	assert.Equalf(t, []string{"101", "102"}, succeeded, "success callbacks mismatch")
	assert.Equalf(t, []int{2, 3, 4}, failed, "failure callbacks must follow the input order")
	assert.Equalf(t, []string{"Contracts", executeErrorName, panicName, "Invoices"}, operation.called, "operation calls mismatch")
	if assert.Equal(t, 2, len(result.Results)) {
		assert.Equal(t, "Contracts", result.Results[0].(*Folder).Name)
		assert.Equal(t, "Invoices", result.Results[1].(*Folder).Name)
	}
	if assert.Equal(t, 3, result.Failed()) {
		remote, missing, panicked := result.Failures[0], result.Failures[1], result.Failures[2]
		assert.Equal(t, IssueTypeRemote, remote.Type)
		assert.Equal(t, executeError, remote.Message())
		assert.Equal(t, KindFolder, remote.Kind)
		assert.Equal(t, IssueTypeMissingField, missing.Type)
		assert.True(t, errors.Is(missing, ErrMissingField))
		assert.Equal(t, IssueTypePanic, panicked.Type)
		assert.Equal(t, "operation exploded", panicked.Message())
		for _, issue := range result.Failures {
			assert.Equal(t, StepExecutor, issue.Step)
			assert.Equal(t, run, issue.Run)
		}
	}
	assert.Equalf(t, result.Failures, tracker.issues, "every failure must be tracked")
}

func TestExecutor_Run_NilResult(t *testing.T) {
	executor := NewExecutor(NewEmptyTracker(), zap.NewNop(), NewEmptyMetricsTracker())
	request := &Request{Line: 1, Record: &Folder{ID: "11"}}

	result := executor.Run(context.Background(), Batch{
		Requests: []*Request{request},
		Operation: NewOperation(OperationTypeDelete, func(ctx context.Context, record Record) (Record, error) {
			return nil, nil
		}),
		Accumulator: NewAccumulator(),
	})

	assert.Equal(t, []Record{request.Record}, result.Results)
}

func TestExecutor_Run_TypedNilResult(t *testing.T) {
	executor := NewExecutor(NewEmptyTracker(), zap.NewNop(), NewEmptyMetricsTracker())
	request := &Request{Line: 1, Record: &Folder{ID: "11", Name: "Contracts"}}
	var messages []string

	result := executor.Run(context.Background(), Batch{
		Requests: []*Request{request},
		Operation: NewOperation(OperationTypeUpdate, func(ctx context.Context, record Record) (Record, error) {
			var folder *Folder
			return folder, nil
		}),
		Accumulator: NewAccumulator(),
		OnSuccess:   func(record Record) { messages = append(messages, successMessage(OperationTypeUpdate, record)) },
	})

	assert.Equal(t, 1, result.Succeeded)
	assert.Equalf(t, []Record{request.Record}, result.Results, "a nil folder pointer must be replaced by the request record")
	assert.Equal(t, []string{"Folder 11 updated"}, messages)
}

func TestExecutor_Run_Discard(t *testing.T) {
	executor := NewExecutor(NewEmptyTracker(), zap.NewNop(), NewEmptyMetricsTracker())

	result := executor.Run(context.Background(), Batch{
		Requests:  []*Request{{Line: 1, Record: &Folder{Name: "Contracts"}}},
		Operation: NewOperation(OperationTypeCreate, (&operationMock{}).CreateFolder),
	})

	assert.Equal(t, 1, result.Succeeded)
	assert.Nil(t, result.Results)
}

func TestExecutor_Run_TrackerError(t *testing.T) {
	executor := NewExecutor(&failingTrackerMock{}, zap.NewNop(), NewEmptyMetricsTracker())

	result := executor.Run(context.Background(), Batch{
		Requests:  []*Request{{Line: 1, Record: &Folder{Name: executeErrorName}}, {Line: 2, Record: &Folder{Name: "Contracts"}}},
		Operation: NewOperation(OperationTypeCreate, (&operationMock{}).CreateFolder),
	})

	assert.Equalf(t, 1, result.Succeeded, "a tracker failure must not abort the batch")
	assert.Equal(t, 1, result.Failed())
}

func TestOperationType(t *testing.T) {
	assert.Equal(t, "created", OperationTypeCreate.Past())
	assert.Equal(t, "deleted", OperationTypeDelete.Past())
	assert.Equal(t, "added", OperationTypeAdd.Past())
	assert.Nil(t, OperationTypeUpdate.Valid())
	assert.NotNil(t, OperationType("rename").Valid())
}

// ======= failingTrackerMock =======

type failingTrackerMock struct {
	trackerMock
}

func (t *failingTrackerMock) TrackIssue(issue *Issue) error {
	return errors.New("tracker unavailable")
}
