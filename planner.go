package boxbulk

import (
	"go.uber.org/zap"
)

const (
	plannerPlanMetricName = "planner_plan"
)

// Request is a single unit of work of a batch: the record built out of one input row and the
// required fields the row lacks. Requests are consumed exactly once by the Executor.
type Request struct {
	// Line is the 1-based number of the record in the bulk source, the header is not counted.
	Line int
	// Record is the operation request record.
	Record Record
	// Missing lists the required fields without a value. A request with missing fields fails
	// without reaching the operation.
	Missing []string
}

// Planner is responsible for converting decoded rows into requests using a RequestSchema.
type Planner struct {
	metrics MetricsTracker
	logger  *zap.Logger
}

// NewPlanner returns a preconfigured Planner struct.
func NewPlanner(logger *zap.Logger, metricsTracker MetricsTracker) *Planner {
	metricsTracker.Add(plannerPlanMetricName, "Time taken to build requests of a single bulk source")
	return &Planner{
		metrics: metricsTracker,
		logger:  logger,
	}
}

// Plan checks the table header against the schema and maps every row to a request, keeping the
// row order. A header lacking required columns fails with a *SchemaMismatchError and a row that
// can't be mapped fails with a *ParseError; both abort the whole plan.
func (p *Planner) Plan(path string, table *Table, schema RequestSchema) ([]*Request, error) {
	p.logger.Info("planner start", zap.Int("rows", len(table.Rows)), zap.String("kind", schema.Mapper.Kind().String()))
	p.metrics.Start(plannerPlanMetricName)
	defer p.metrics.Stop(plannerPlanMetricName)
	if table.Header != nil {
		if err := schema.CheckHeader(table.Header); err != nil {
			return nil, err
		}
	}
	requests := make([]*Request, 0, len(table.Rows))
	for i, row := range table.Rows {
		record, err := schema.Mapper.FromRow(row)
		if err != nil {
			return nil, &ParseError{Path: path, Line: i + 1, Err: err}
		}
		requests = append(requests, &Request{
			Line:    i + 1,
			Record:  record,
			Missing: schema.MissingValues(row),
		})
	}
	p.logger.Info("planner end", zap.Int("requests", len(requests)))
	return requests, nil
}
