// Package exports stores exported meeting documents: in a local directory or
// in an S3-compatible bucket.
package exports

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// Sink persists a document and returns where it was stored.
type Sink interface {
	Put(ctx context.Context, name string, data []byte, contentType string) (string, error)
}

// cleanName reduces name to a single safe path element.
func cleanName(name string) (string, error) {
	name = filepath.Base(strings.TrimSpace(name))
	if name == "" || name == "." || name == ".." || name == string(filepath.Separator) {
		return "", fmt.Errorf("invalid document name %q", name)
	}
	return name, nil
}
