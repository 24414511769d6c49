package exports

import (
	"context"
	"path/filepath"

	"github.com/dmitrijs2005/meetscribe/internal/filex"
)

// FileSink writes documents into a directory.
type FileSink struct {
	dir string
}

// NewFileSink creates dir if needed.
func NewFileSink(dir string) (*FileSink, error) {
	abs, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, err
	}
	return &FileSink{dir: abs}, nil
}

func (s *FileSink) Dir() string {
	return s.dir
}

// Put writes data to dir/name atomically and returns the file path.
func (s *FileSink) Put(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	name, err := cleanName(name)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	p := filepath.Join(s.dir, name)
	if err := filex.WriteFileAtomic(p, data, 0o640); err != nil {
		return "", err
	}
	return p, nil
}
