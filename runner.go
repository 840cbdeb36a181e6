package boxbulk

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	runnerBulkMetricName = "runner_bulk"
	runnerListMetricName = "runner_list"
)

// BulkJob describes a bulk command: apply one operation to every record of a bulk source.
type BulkJob struct {
	// Command is the entity command name, e.g. "folders". Together with the operation type it
	// names the report.
	Command   string
	Path      string
	Schema    RequestSchema
	Operation Operation
	Save      SaveOverride
}

// ListJob describes a listing command over a remote collection.
type ListJob struct {
	// Command and SubCommand name the report, e.g. "folders" and "list-items".
	Command    string
	SubCommand string
	Mapper     Mapper
	Fetch      PageFetcher
	// Printer renders entries of the interactive listing. Defaults to Console.PrintRecord.
	Printer Printer
	Save    SaveOverride
}

// runnerOptions holds the optional Runner collaborators.
type runnerOptions struct {
	input    Input
	output   Output
	tracker  Tracker
	console  *Console
	prompter Prompter
	now      func() time.Time
	metrics  MetricsTracker
	logger   *zap.Logger
}

// RunnerOpt is a type that modifies the default Runner behaviour.
type RunnerOpt func(o *runnerOptions)

// RunnerWithInput makes the runner read bulk sources from the passed input.
var RunnerWithInput = func(input Input) RunnerOpt {
	return func(o *runnerOptions) {
		o.input = input
	}
}

// RunnerWithOutput makes the runner save reports to the passed output.
var RunnerWithOutput = func(output Output) RunnerOpt {
	return func(o *runnerOptions) {
		o.output = output
	}
}

// RunnerWithTracker makes the runner keep the history of runs in the passed tracker.
var RunnerWithTracker = func(tracker Tracker) RunnerOpt {
	return func(o *runnerOptions) {
		o.tracker = tracker
	}
}

// RunnerWithConsole makes the runner report progress to the passed console.
var RunnerWithConsole = func(console *Console) RunnerOpt {
	return func(o *runnerOptions) {
		o.console = console
	}
}

// RunnerWithPrompter makes interactive listings read continuation answers from the prompter.
var RunnerWithPrompter = func(prompter Prompter) RunnerOpt {
	return func(o *runnerOptions) {
		o.prompter = prompter
	}
}

// RunnerWithClock makes the runner use the passed clock for report names.
var RunnerWithClock = func(now func() time.Time) RunnerOpt {
	return func(o *runnerOptions) {
		o.now = now
	}
}

// RunnerWithMetricsTracker makes the runner track metrics using the specified MetricsTracker.
var RunnerWithMetricsTracker = func(tracker MetricsTracker) RunnerOpt {
	return func(o *runnerOptions) {
		o.metrics = tracker
	}
}

// RunnerWithLogger enhances the runner with the passed logger.
var RunnerWithLogger = func(logger *zap.Logger) RunnerOpt {
	return func(o *runnerOptions) {
		o.logger = logger
	}
}

// Runner bundles reading bulk sources, executing batches, paginating listings and writing
// reports for the commands.
type Runner struct {
	ID        string
	settings  Settings
	input     Input
	output    Output
	tracker   Tracker
	Reader    *BulkReader
	Executor  *Executor
	Writer    *ReportWriter
	Paginator *Paginator
	console   *Console
	prompter  Prompter
	metrics   MetricsTracker
	logger    *zap.Logger
}

// NewRunner validates the settings, sets up the storages and returns a preconfigured runner.
// Shutdown must be called once the runner is no longer needed.
func NewRunner(ctx context.Context, settings Settings, opts ...RunnerOpt) (*Runner, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	o := &runnerOptions{
		input:   NewFileInput(),
		output:  NewFileOutput(),
		tracker: NewEmptyTracker(),
		now:     time.Now,
		metrics: NewEmptyMetricsTracker(),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.console == nil {
		var consoleOpts []ConsoleOpt
		if settings.NoColor {
			consoleOpts = append(consoleOpts, ConsoleWithNoColor())
		}
		o.console = NewConsole(os.Stdout, consoleOpts...)
	}
	if o.prompter == nil {
		o.prompter = NewLinePrompter(os.Stdin, os.Stdout)
	}
	id := uuid.NewString()
	logger := o.logger.With(zap.String("runner_id", id))
	r := &Runner{
		ID:        id,
		settings:  settings,
		input:     o.input,
		output:    o.output,
		tracker:   o.tracker,
		Reader:    NewBulkReader(o.input, logger, o.metrics),
		Executor:  NewExecutor(o.tracker, logger, o.metrics),
		Writer:    NewReportWriter(o.output, logger, o.metrics, ReportWriterWithClock(o.now)),
		Paginator: NewPaginator(settings.PageSize, logger, o.metrics),
		console:   o.console,
		prompter:  o.prompter,
		metrics:   o.metrics,
		logger:    logger,
	}
	if err := r.initStorages(ctx); err != nil {
		return nil, err
	}
	o.metrics.Add(runnerBulkMetricName, "Time taken to run a single bulk command")
	o.metrics.Add(runnerListMetricName, "Time taken to run a single listing command")
	return r, nil
}

// initStorages prepares and sets up the runner storages.
func (r *Runner) initStorages(ctx context.Context) error {
	if err := InitStorage(ctx, r.tracker, r.ID, r.logger); err != nil {
		return fmt.Errorf("tracker init error: %v", err)
	}
	if err := InitStorage(ctx, r.input, r.ID, r.logger); err != nil {
		return fmt.Errorf("input init error: %v", err)
	}
	if err := InitStorage(ctx, r.output, r.ID, r.logger); err != nil {
		return fmt.Errorf("output init error: %v", err)
	}
	return nil
}

// Shutdown shuts the runner storages down.
func (r *Runner) Shutdown() {
	r.input.Shutdown()
	r.output.Shutdown()
	r.tracker.Shutdown()
}

// Console returns the console the runner reports to.
func (r *Runner) Console() *Console {
	return r.console
}

// RunBulk reads the bulk source, applies the operation to every request and saves the results
// if the resolved save policy says so. Progress is written to the console as it happens and a
// summary line closes the run. Record-level failures are part of the result; only a failed read
// or a failed report write is returned as an error.
func (r *Runner) RunBulk(ctx context.Context, job BulkJob) (*BatchResult, error) {
	r.metrics.Start(runnerBulkMetricName)
	defer r.metrics.Stop(runnerBulkMetricName)
	run := NewRun(job.Command, job.Operation.Type.String(), job.Path)
	r.startRun(run)
	r.logger.Info("bulk run start", zap.String("run_id", run.ID), zap.String("path", job.Path))
	policy := ResolveSavePolicy(job.Save, r.settings)
	requests, err := r.Reader.Read(ctx, job.Path, job.Schema)
	if err != nil {
		r.finishRun(run, 0, 0, 0, "", err)
		return nil, err
	}
	accumulator := Discard
	if policy.Enabled {
		accumulator = NewAccumulator()
	}
	kind := job.Schema.Mapper.Kind()
	result := r.Executor.Run(ctx, Batch{
		Run:         run,
		Requests:    requests,
		Operation:   job.Operation,
		Accumulator: accumulator,
		OnSuccess: func(record Record) {
			if r.settings.OutputJSON {
				if err := r.console.WriteJSON(record); err != nil {
					r.logger.Warn("write json error", zap.Error(err))
				}
				return
			}
			r.console.WriteSuccess(successMessage(job.Operation.Type, record))
		},
		OnFailure: func(issue *Issue) {
			r.console.WriteError(failureMessage(job.Operation.Type, kind, issue))
		},
	})
	location, err := r.Writer.Write(ctx, result.Results, job.Schema.Mapper, r.Writer.ReportName(job.Command, job.Operation.Type.String()), policy)
	if err != nil {
		r.finishRun(run, result.Total, result.Succeeded, result.Failed(), "", err)
		return result, err
	}
	r.console.WriteInformation(fmt.Sprintf("Finished processing %d records: %d succeeded, %d failed", result.Total, result.Succeeded, result.Failed()))
	if location != "" {
		r.console.WriteSuccess("Report saved: " + location)
	}
	r.finishRun(run, result.Total, result.Succeeded, result.Failed(), location, nil)
	r.logger.Info("bulk run end", zap.String("run_id", run.ID))
	return result, nil
}

// RunList lists the remote collection. With saving enabled the whole collection is fetched and
// written to a report; with JSON output it is fetched and printed as JSON; otherwise it is
// rendered interactively page by page.
func (r *Runner) RunList(ctx context.Context, job ListJob) error {
	r.metrics.Start(runnerListMetricName)
	defer r.metrics.Stop(runnerListMetricName)
	run := NewRun(job.Command, job.SubCommand, "")
	r.startRun(run)
	r.logger.Info("list run start", zap.String("run_id", run.ID))
	policy := ResolveSavePolicy(job.Save, r.settings)
	switch {
	case policy.Enabled:
		entries, err := r.Paginator.All(ctx, job.Fetch)
		if err != nil {
			r.finishRun(run, 0, 0, 0, "", err)
			return err
		}
		location, err := r.Writer.Write(ctx, entries, job.Mapper, r.Writer.ReportName(job.Command, job.SubCommand), policy)
		if err != nil {
			r.finishRun(run, len(entries), len(entries), 0, "", err)
			return err
		}
		r.console.WriteSuccess("File saved: " + location)
		r.finishRun(run, len(entries), len(entries), 0, location, nil)
	case r.settings.OutputJSON:
		entries, err := r.Paginator.All(ctx, job.Fetch)
		if err != nil {
			r.finishRun(run, 0, 0, 0, "", err)
			return err
		}
		if entries == nil {
			entries = []Record{}
		}
		if err := r.console.WriteJSON(entries); err != nil {
			r.finishRun(run, len(entries), len(entries), 0, "", err)
			return err
		}
		r.finishRun(run, len(entries), len(entries), 0, "", nil)
	default:
		printer := job.Printer
		if printer == nil {
			printer = r.console.PrintRecord
		}
		counted := 0
		err := r.Paginator.Interactive(ctx, job.Fetch, func(record Record) {
			counted++
			printer(record)
		}, r.prompter)
		r.finishRun(run, counted, counted, 0, "", err)
		if err != nil {
			return err
		}
	}
	r.logger.Info("list run end", zap.String("run_id", run.ID))
	return nil
}

func (r *Runner) startRun(run *Run) {
	if err := r.tracker.StartRun(run); err != nil {
		r.logger.Warn("track run start error", zap.String("run_id", run.ID), zap.Error(err))
	}
}

func (r *Runner) finishRun(run *Run, total, succeeded, failed int, location string, err error) {
	run.Finish(total, succeeded, failed, location, err)
	if terr := r.tracker.FinishRun(run); terr != nil {
		r.logger.Warn("track run finish error", zap.String("run_id", run.ID), zap.Error(terr))
	}
}

// successMessage renders e.g. "Folder 123 created".
func successMessage(opType OperationType, record Record) string {
	label := record.Kind().Label()
	label = strings.ToUpper(label[:1]) + label[1:]
	if id := record.Identifier(); id != "" {
		return fmt.Sprintf("%s %s %s", label, id, opType.Past())
	}
	return fmt.Sprintf("%s %s", label, opType.Past())
}

// failureMessage renders e.g. "Couldn't create folder (record 2): missing required field: name".
func failureMessage(opType OperationType, kind Kind, issue *Issue) string {
	return fmt.Sprintf("Couldn't %s %s (record %d): %s", opType, kind.Label(), issue.Line, issue.Message())
}
