package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"
)

// ErrNotFound is wrapped by sources when the document does not exist.
var ErrNotFound = errors.New("source not found")

// Source yields one JSON document. Callers must close the returned reader.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
	String() string
}

type File struct {
	Path string
}

func (f File) Open(_ context.Context) (io.ReadCloser, error) {
	file, err := os.Open(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", f.Path, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", f.Path, err)
	}
	return file, nil
}

func (f File) String() string {
	return f.Path
}

// Parse picks a source by URI scheme. Anything that is not a redis URI is a
// file path.
func Parse(uri string, timeout time.Duration) (Source, error) {
	if uri == "" {
		return nil, errors.New("source is empty")
	}
	if strings.HasPrefix(uri, "redis://") || strings.HasPrefix(uri, "rediss://") {
		return NewRedis(uri, timeout)
	}
	return File{Path: uri}, nil
}
