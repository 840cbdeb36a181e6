package utils

import (
	"compress/gzip"
	"io"
	"strings"
)

// GzipExtension is the suffix of gzipped bulk files.
const GzipExtension = ".gz"

// IsGzipped reports whether the path points to a gzipped file.
func IsGzipped(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), GzipExtension)
}

// Gunzip wraps a reader so that the gzipped stream gets decompressed on read. Closing the
// result closes both the gzip reader and the underlying reader.
func Gunzip(in io.ReadCloser) (io.ReadCloser, error) {
	reader, err := gzip.NewReader(in)
	if err != nil {
		in.Close()
		return nil, err
	}
	return &gunzipReader{Reader: reader, source: in}, nil
}

type gunzipReader struct {
	*gzip.Reader
	source io.Closer
}

func (r *gunzipReader) Close() error {
	err := r.Reader.Close()
	if cerr := r.source.Close(); err == nil {
		err = cerr
	}
	return err
}
