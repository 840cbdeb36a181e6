package boxbulk

import (
	"context"
	"fmt"
	"io"
	"os"
)

// Input represents a storage that holds bulk source files. The Input interface is used by the
// BulkReader to get the raw content of a bulk source.
type Input interface {
	Storage
	// Open opens the bulk source located at path. A source that doesn't exist must be reported
	// with an error wrapping ErrFileNotFound.
	Open(ctx context.Context, path string) (io.ReadCloser, error)
}

// NewFileInput returns a new instance of the FileInput.
func NewFileInput() *FileInput {
	return &FileInput{}
}

// FileInput reads bulk sources from the local file system. Paths are expected to be already
// translated to absolute ones.
type FileInput struct {
	BaseStorage
}

// Open opens the local file.
func (i *FileInput) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("open %s: %v", path, err)
	}
	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat %s: %v", path, err)
	}
	if stat.IsDir() {
		f.Close()
		return nil, fmt.Errorf("%w: %s is a directory", ErrFileNotFound, path)
	}
	return f, nil
}
