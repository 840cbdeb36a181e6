package boxbulk

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/paulbellamy/ratecounter"
	"go.uber.org/zap"
)

const (
	executorRunMetricName           = "executor_run"
	executorOperationMetricName     = "executor_operation"
	executorRecordsRateMetricName   = "executor_records_per_minute"
	executorFailedRecordsMetricName = "executor_failed_records"
)

// Executor drives the per-record remote operation loop of a batch. Requests are processed one
// by one in input order and every failure is isolated to its own record.
type Executor struct {
	tracker Tracker
	rate    *ratecounter.RateCounter
	metrics MetricsTracker
	logger  *zap.Logger
}

// NewExecutor returns a preconfigured Executor struct.
func NewExecutor(tracker Tracker, logger *zap.Logger, metricsTracker MetricsTracker) *Executor {
	metricsTracker.Add(executorRunMetricName, "Time taken to process all requests of a single batch")
	metricsTracker.Add(executorOperationMetricName, "Time taken to perform a single remote operation")
	metricsTracker.Add(executorRecordsRateMetricName, "Records processed during the last minute")
	metricsTracker.Add(executorFailedRecordsMetricName, "Failed records of the last batch")
	return &Executor{
		tracker: tracker,
		rate:    ratecounter.NewRateCounter(time.Minute),
		metrics: metricsTracker,
		logger:  logger,
	}
}

// Run processes the batch requests in order. A request lacking required values fails without
// reaching the operation; an operation error or panic fails only its own request. The batch is
// never aborted: every request ends up either as a success or as an issue. The context is only
// handed over to the operation.
func (e *Executor) Run(ctx context.Context, batch Batch) *BatchResult {
	e.logger.Info("executor start",
		zap.Int("bulk_size", len(batch.Requests)),
		zap.String("operation", batch.Operation.Type.String()),
	)
	e.metrics.Start(executorRunMetricName)
	defer e.metrics.Stop(executorRunMetricName)
	accumulator := batch.Accumulator
	if accumulator == nil {
		accumulator = Discard
	}
	result := &BatchResult{Total: len(batch.Requests)}
	for _, request := range batch.Requests {
		record, issue := e.process(ctx, batch.Operation, request)
		e.rate.Incr(1)
		if issue != nil {
			issue.complete(batch.Run, request)
			result.Failures = append(result.Failures, issue)
			e.logger.Info("request failed",
				zap.Int("line", request.Line),
				zap.String("type", issue.Type.String()),
				zap.NamedError("error_message", issue.Err),
			)
			if batch.OnFailure != nil {
				batch.OnFailure(issue)
			}
			if err := e.tracker.TrackIssue(issue); err != nil {
				e.logger.Warn("track issue error", zap.Int("line", request.Line), zap.Error(err))
			}
			continue
		}
		result.Succeeded++
		if batch.OnSuccess != nil {
			batch.OnSuccess(record)
		}
		accumulator.Append(record)
	}
	result.Results = accumulator.Records()
	e.metrics.Set(executorRecordsRateMetricName, fmt.Sprintf("%d", e.rate.Rate()))
	e.metrics.Set(executorFailedRecordsMetricName, fmt.Sprintf("%d", result.Failed()))
	e.logger.Info("executor end", zap.Int("succeeded", result.Succeeded), zap.Int("failed", result.Failed()))
	return result
}

// process performs the operation for a single request. A nil result of a successful operation,
// including a nil pointer of a record type, is replaced with the request record.
func (e *Executor) process(ctx context.Context, operation Operation, request *Request) (Record, *Issue) {
	if len(request.Missing) != 0 {
		err := fmt.Errorf("%w: %s", ErrMissingField, strings.Join(request.Missing, ", "))
		return nil, NewIssue(err, "", IssueTypeMissingField, StepExecutor)
	}
	e.metrics.Start(executorOperationMetricName)
	record, panicked, err := call(ctx, operation.Call, request.Record)
	e.metrics.Stop(executorOperationMetricName)
	if panicked {
		return nil, NewIssue(err, "operation panicked", IssueTypePanic, StepExecutor)
	}
	if err != nil {
		return nil, NewIssue(err, "", IssueTypeRemote, StepExecutor)
	}
	if isNilRecord(record) {
		record = request.Record
	}
	return record, nil
}

// isNilRecord reports whether the record is nil or a nil pointer wrapped into the interface.
func isNilRecord(record Record) bool {
	if record == nil {
		return true
	}
	v := reflect.ValueOf(record)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// call invokes the operation and converts a panic into an error.
func call(ctx context.Context, fn OperationFunc, record Record) (result Record, panicked bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("%v", r)
			panicked = true
		}
	}()
	result, err = fn(ctx, record)
	return result, false, err
}
