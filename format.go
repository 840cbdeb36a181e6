package boxbulk

import (
	"fmt"
	"strings"
)

// ReportFormat defines the file format of reports.
type ReportFormat string

const (
	// ReportFormatCSV writes a header row followed by one row per record.
	ReportFormatCSV ReportFormat = "csv"
	// ReportFormatJSON writes an array of objects with keys in column order.
	ReportFormatJSON ReportFormat = "json"
)

// ParseReportFormat converts a case insensitive format name to a ReportFormat.
func ParseReportFormat(s string) (ReportFormat, error) {
	f := ReportFormat(strings.ToLower(strings.TrimSpace(s)))
	if err := f.Valid(); err != nil {
		return "", err
	}
	return f, nil
}

// String converts a ReportFormat to string.
func (f ReportFormat) String() string {
	return string(f)
}

// Extension returns the file extension of the format including the dot.
func (f ReportFormat) Extension() string {
	return "." + string(f)
}

// Valid checks whether the assigned report format value is valid.
func (f ReportFormat) Valid() error {
	switch f {
	case ReportFormatCSV, ReportFormatJSON:
		return nil
	}
	return fmt.Errorf("invalid report format %q", string(f))
}
