// Package corpus opens the parallel example corpus from local disk or object
// storage. Every Open returns a fresh stream, so concurrent queries never
// share a read position.
package corpus

import (
	"context"
	"fmt"
	"io"
	"os"
)

// FileSource reads the corpus from a local file.
type FileSource struct {
	path string
}

// NewFileSource creates a FileSource for path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Open opens the corpus file for reading.
func (s *FileSource) Open(_ context.Context) (io.ReadCloser, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("corpus: open %s: %w", s.path, err)
	}
	return f, nil
}

// String describes the source for logs.
func (s *FileSource) String() string { return "file:" + s.path }
