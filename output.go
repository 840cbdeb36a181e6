package boxbulk

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Output represents a storage that keeps reports. The Output interface is used by the
// ReportWriter to persist serialized results.
type Output interface {
	Storage
	// Save persists the report into report.Dir and returns the location of the saved report.
	// A destination that can't be written must be reported with an error wrapping ErrIO.
	Save(ctx context.Context, report *Report) (string, error)
}

// NewFileOutput returns a new instance of the FileOutput.
func NewFileOutput() *FileOutput {
	return &FileOutput{}
}

// FileOutput saves reports to the local file system. The report directory is created if needed
// and the file is written to a temporary name first and then renamed, so a failed write never
// leaves a partial report behind.
type FileOutput struct {
	BaseStorage
}

// Save writes the report file.
func (o *FileOutput) Save(ctx context.Context, report *Report) (string, error) {
	data, err := report.Encode()
	if err != nil {
		return "", fmt.Errorf("encode report: %v", err)
	}
	if err := os.MkdirAll(report.Dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: create reports directory: %v", ErrIO, err)
	}
	path := filepath.Join(report.Dir, report.FileName())
	tmp, err := os.CreateTemp(report.Dir, "."+report.FileName()+".*")
	if err != nil {
		return "", fmt.Errorf("%w: create report file: %v", ErrIO, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("%w: write report file: %v", ErrIO, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("%w: close report file: %v", ErrIO, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("%w: rename report file: %v", ErrIO, err)
	}
	return path, nil
}
