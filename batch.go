package boxbulk

// Batch is an ordered collection of requests processed by the Executor in one invocation.
type Batch struct {
	// Run is the run the batch belongs to. Optional.
	Run      *Run
	Requests []*Request
	// Operation is called once per request that has all the required values.
	Operation Operation
	// OnSuccess is called right after every successful operation. Optional.
	OnSuccess func(result Record)
	// OnFailure is called right after every failed request. Optional.
	OnFailure func(issue *Issue)
	// Accumulator collects successful results destined for a report. Defaults to Discard.
	Accumulator Accumulator
}

// BatchResult sums up a processed batch.
type BatchResult struct {
	Total     int
	Succeeded int
	Failures  []*Issue
	// Results holds the accumulated results in input order.
	Results []Record
}

// Failed returns the number of failed requests.
func (r *BatchResult) Failed() int {
	return len(r.Failures)
}

// Accumulator collects the results of successful operations.
type Accumulator interface {
	Append(record Record)
	Records() []Record
}

// NewAccumulator returns an Accumulator keeping every appended record in order.
func NewAccumulator() *SliceAccumulator {
	return &SliceAccumulator{}
}

// SliceAccumulator keeps the records in a slice.
type SliceAccumulator struct {
	records []Record
}

// Append appends the record.
func (a *SliceAccumulator) Append(record Record) {
	a.records = append(a.records, record)
}

// Records returns the appended records in order.
func (a *SliceAccumulator) Records() []Record {
	return a.records
}

// Discard is the Accumulator of callers that don't save results.
var Discard Accumulator = discard{}

type discard struct{}

func (discard) Append(record Record) {}
func (discard) Records() []Record    { return nil }
