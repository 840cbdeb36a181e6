package boxbulk

// Step defines a step within a bulk or a listing run.
type Step string

const (
	// StepReader describes opening the bulk source.
	StepReader Step = "reader"
	// StepParser describes decoding the bulk source into rows.
	StepParser Step = "parser"
	// StepPlanner describes turning rows into requests.
	StepPlanner Step = "planner"
	// StepExecutor describes the remote operations of a batch.
	StepExecutor Step = "executor"
	// StepReport describes writing the report.
	StepReport Step = "report"
	// StepPaginator describes fetching pages of a listing.
	StepPaginator Step = "paginator"
)

// String converts a step to string.
func (s Step) String() string {
	return string(s)
}
