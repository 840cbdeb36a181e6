package boxbulk

import (
	"context"
	"fmt"

	"github.com/funktionslust/boxbulk/utils"
	"go.uber.org/zap"
)

const (
	readerReadMetricName = "reader_read"
)

// BulkReader turns a bulk source into an ordered list of requests. It opens the source through
// the Input, decodes it with the Parser and maps its rows with the Planner. The read is eager:
// either every request is returned or none.
type BulkReader struct {
	input   Input
	parser  *Parser
	planner *Planner
	metrics MetricsTracker
	logger  *zap.Logger
}

// NewBulkReader returns a preconfigured BulkReader struct.
func NewBulkReader(input Input, logger *zap.Logger, metricsTracker MetricsTracker) *BulkReader {
	metricsTracker.Add(readerReadMetricName, "Time taken to read a single bulk source into requests")
	return &BulkReader{
		input:   input,
		parser:  NewParser(logger, metricsTracker),
		planner: NewPlanner(logger, metricsTracker),
		metrics: metricsTracker,
		logger:  logger,
	}
}

// Read reads the bulk source at path. Home-relative and relative paths are resolved before the
// source is opened. It fails with ErrFileNotFound, a *ParseError or a *SchemaMismatchError.
func (r *BulkReader) Read(ctx context.Context, path string, schema RequestSchema) ([]*Request, error) {
	resolved, err := utils.TranslatePath(path)
	if err != nil {
		return nil, fmt.Errorf("translate path %s: %v", path, err)
	}
	r.logger.Info("reader start", zap.String("path", resolved))
	r.metrics.Start(readerReadMetricName)
	defer r.metrics.Stop(readerReadMetricName)
	source, err := r.input.Open(ctx, resolved)
	if err != nil {
		return nil, err
	}
	if utils.IsGzipped(resolved) {
		if source, err = utils.Gunzip(source); err != nil {
			return nil, &ParseError{Path: resolved, Err: err}
		}
	}
	defer source.Close()
	table, err := r.parser.Parse(resolved, source)
	if err != nil {
		return nil, err
	}
	requests, err := r.planner.Plan(resolved, table, schema)
	if err != nil {
		return nil, err
	}
	r.logger.Info("reader end", zap.String("path", resolved), zap.Int("requests", len(requests)))
	return requests, nil
}
