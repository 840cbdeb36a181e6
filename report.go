package boxbulk

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"time"

	"github.com/funktionslust/boxbulk/utils"
	"go.uber.org/zap"
)

const (
	reportWriteMetricName = "report_write"
	reportRowsMetricName  = "report_rows"
)

// ReportTimestampLayout is the layout of the timestamp part of report file names.
const ReportTimestampLayout = "2006-01-02_15-04-05"

// ReportName synthesizes the report file name stem "{command}-{subcommand}-{timestamp}". Two
// reports named within the same second get the same name and the latter overwrites the former.
func ReportName(command, subCommand string, t time.Time) string {
	return fmt.Sprintf("%s-%s-%s", command, subCommand, t.Format(ReportTimestampLayout))
}

// Report is a serializable list of rows with a fixed column set.
type Report struct {
	// Name is the file name stem.
	Name    string
	Format  ReportFormat
	Dir     string
	Columns []string
	Rows    []*Row
}

// FileName returns the report file name including the format extension.
func (r *Report) FileName() string {
	return r.Name + r.Format.Extension()
}

// Documents returns the rows as column to value maps.
func (r *Report) Documents() []map[string]string {
	docs := make([]map[string]string, 0, len(r.Rows))
	for _, row := range r.Rows {
		doc := make(map[string]string, len(r.Columns))
		for _, column := range r.Columns {
			doc[column] = row.Value(column)
		}
		docs = append(docs, doc)
	}
	return docs
}

// Encode serializes the report in its format.
func (r *Report) Encode() ([]byte, error) {
	switch r.Format {
	case ReportFormatCSV:
		return r.encodeCSV()
	case ReportFormatJSON:
		return r.encodeJSON()
	}
	return nil, r.Format.Valid()
}

// encodeCSV writes the header row followed by one row per record.
func (r *Report) encodeCSV() ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write(r.Columns); err != nil {
		return nil, err
	}
	for _, row := range r.Rows {
		if err := w.Write(row.Values(r.Columns)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// encodeJSON writes an array of objects keeping the keys in column order.
func (r *Report) encodeJSON() ([]byte, error) {
	buf := &bytes.Buffer{}
	buf.WriteByte('[')
	for i, row := range r.Rows {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('{')
		for j, column := range r.Columns {
			if j > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(column)
			if err != nil {
				return nil, err
			}
			value, err := json.Marshal(row.Value(column))
			if err != nil {
				return nil, err
			}
			buf.Write(key)
			buf.WriteByte(':')
			buf.Write(value)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte(']')
	out := &bytes.Buffer{}
	if err := json.Indent(out, buf.Bytes(), "", "  "); err != nil {
		return nil, err
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

// ReportWriterOpt is a type that modifies the default ReportWriter behaviour.
type ReportWriterOpt func(w *ReportWriter)

// ReportWriterWithClock makes the writer use the passed clock for report names.
var ReportWriterWithClock = func(now func() time.Time) ReportWriterOpt {
	return func(w *ReportWriter) {
		w.now = now
	}
}

// ReportWriter serializes accumulated results through a Mapper and saves them via an Output.
type ReportWriter struct {
	output  Output
	now     func() time.Time
	metrics MetricsTracker
	logger  *zap.Logger
}

// NewReportWriter returns a preconfigured ReportWriter struct.
func NewReportWriter(output Output, logger *zap.Logger, metricsTracker MetricsTracker, opts ...ReportWriterOpt) *ReportWriter {
	metricsTracker.Add(reportWriteMetricName, "Time taken to serialize and save a single report")
	metricsTracker.Add(reportRowsMetricName, "Rows of the last saved report")
	w := &ReportWriter{
		output:  output,
		now:     time.Now,
		metrics: metricsTracker,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// ReportName returns the report file name stem for the command using the writer clock.
func (w *ReportWriter) ReportName(command, subCommand string) string {
	return ReportName(command, subCommand, w.now())
}

// Write saves the records as a report named name according to the policy and returns the location
// of the written report. A disabled policy writes nothing and returns an empty location. Records
// of a kind other than the mapper's fail the whole report.
func (w *ReportWriter) Write(ctx context.Context, records []Record, mapper Mapper, name string, policy SavePolicy) (string, error) {
	if !policy.Enabled {
		return "", nil
	}
	if err := policy.Format.Valid(); err != nil {
		return "", err
	}
	w.logger.Info("report start", zap.String("name", name), zap.Int("records", len(records)))
	w.metrics.Start(reportWriteMetricName)
	defer w.metrics.Stop(reportWriteMetricName)
	dir, err := utils.TranslatePath(policy.Path)
	if err != nil {
		return "", fmt.Errorf("%w: translate path %s: %v", ErrIO, policy.Path, err)
	}
	report := &Report{
		Name:    name,
		Format:  policy.Format,
		Dir:     dir,
		Columns: mapper.Columns(),
		Rows:    make([]*Row, 0, len(records)),
	}
	for _, record := range records {
		row, err := mapper.ToRow(record)
		if err != nil {
			return "", err
		}
		report.Rows = append(report.Rows, row)
	}
	location, err := w.output.Save(ctx, report)
	if err != nil {
		return "", err
	}
	w.metrics.Set(reportRowsMetricName, fmt.Sprintf("%d", len(report.Rows)))
	w.logger.Info("report end", zap.String("location", location))
	return location, nil
}
