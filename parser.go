package boxbulk

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/funktionslust/boxbulk/utils"
	"go.uber.org/zap"
)

const (
	parserParseMetricName = "parser_parse"
)

// utf8BOM is stripped from the first header column of spreadsheet exported files.
const utf8BOM = "\ufeff"

// SourceFormat defines the encoding of a bulk source.
type SourceFormat string

const (
	// SourceFormatCSV describes comma separated sources with a header row.
	SourceFormatCSV SourceFormat = "csv"
	// SourceFormatJSON describes sources holding an array of flat objects.
	SourceFormatJSON SourceFormat = "json"
)

// SourceFormatOf detects the source format by the path extension, ignoring a trailing ".gz".
// Anything but ".json" is decoded as CSV.
func SourceFormatOf(path string) SourceFormat {
	p := strings.ToLower(path)
	p = strings.TrimSuffix(p, utils.GzipExtension)
	if filepath.Ext(p) == ".json" {
		return SourceFormatJSON
	}
	return SourceFormatCSV
}

// Table is the decoded content of a bulk source. Header is nil for sources without a header
// row (JSON), whose columns may differ from row to row.
type Table struct {
	Header []string
	Rows   []*Row
}

// Parser is responsible for decoding raw bulk sources into rows.
type Parser struct {
	metrics MetricsTracker
	logger  *zap.Logger
}

// NewParser returns a preconfigured Parser struct.
func NewParser(logger *zap.Logger, metricsTracker MetricsTracker) *Parser {
	metricsTracker.Add(parserParseMetricName, "Time taken to decode a single bulk source")
	return &Parser{
		metrics: metricsTracker,
		logger:  logger,
	}
}

// Parse decodes the data read from path. Any malformed record fails the whole source with a
// *ParseError.
func (p *Parser) Parse(path string, data io.Reader) (*Table, error) {
	format := SourceFormatOf(path)
	p.logger.Info("parser start", zap.String("path", path), zap.String("format", string(format)))
	p.metrics.Start(parserParseMetricName)
	defer p.metrics.Stop(parserParseMetricName)
	var table *Table
	var err error
	switch format {
	case SourceFormatJSON:
		table, err = p.parseJSON(path, data)
	default:
		table, err = p.parseCSV(path, data)
	}
	if err != nil {
		p.logger.Info("parser error", zap.String("path", path), zap.NamedError("error_message", err))
		return nil, err
	}
	p.logger.Info("parser end", zap.String("path", path), zap.Int("rows", len(table.Rows)))
	return table, nil
}

// parseCSV decodes a CSV source. The first record is the header and every following record
// must have the same number of fields.
func (p *Parser) parseCSV(path string, data io.Reader) (*Table, error) {
	reader := csv.NewReader(data)
	reader.TrimLeadingSpace = true
	header, err := reader.Read()
	if err == io.EOF {
		return nil, &ParseError{Path: path, Err: errors.New("the source is empty: a header row is expected")}
	}
	if err != nil {
		return nil, &ParseError{Path: path, Err: fmt.Errorf("header: %v", err)}
	}
	header[0] = strings.TrimPrefix(header[0], utf8BOM)
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	table := &Table{Header: header}
	for line := 1; ; line++ {
		values, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &ParseError{Path: path, Line: line, Err: unwrapCSVError(err)}
		}
		table.Rows = append(table.Rows, RowFromValues(header, values))
	}
	return table, nil
}

// parseJSON decodes a JSON source holding an array of flat objects. Scalars are stringified the
// way they would appear in a CSV source; nested values are rejected.
func (p *Parser) parseJSON(path string, data io.Reader) (*Table, error) {
	var objects []map[string]interface{}
	decoder := json.NewDecoder(data)
	decoder.UseNumber()
	if err := decoder.Decode(&objects); err != nil {
		if err == io.EOF {
			return nil, &ParseError{Path: path, Err: errors.New("the source is empty: an array of objects is expected")}
		}
		return nil, &ParseError{Path: path, Err: err}
	}
	table := &Table{Rows: make([]*Row, 0, len(objects))}
	for i, object := range objects {
		if object == nil {
			return nil, &ParseError{Path: path, Line: i + 1, Err: errors.New("null record")}
		}
		keys := make([]string, 0, len(object))
		for k := range object {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		row := NewRow()
		for _, k := range keys {
			value, err := stringifyJSONValue(object[k])
			if err != nil {
				return nil, &ParseError{Path: path, Line: i + 1, Err: fmt.Errorf("field %s: %v", k, err)}
			}
			row.Set(k, value)
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

func stringifyJSONValue(value interface{}) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case bool:
		return strconv.FormatBool(v), nil
	default:
		return "", fmt.Errorf("unsupported value of type %T", value)
	}
}

// unwrapCSVError drops the line and column information of the csv package since the
// *ParseError carries its own record position.
func unwrapCSVError(err error) error {
	var perr *csv.ParseError
	if errors.As(err, &perr) {
		return perr.Err
	}
	return err
}
