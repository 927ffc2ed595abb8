// Package asset stores uploaded binaries (product images, payment logos) and
// hands back store-relative paths such as "products/3f1c...png".
package asset

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/MikeMC777/kasir-pos/internal/apperr"
)

var ErrNotFound = fmt.Errorf("asset %w", apperr.ErrNotFound)

type Store interface {
	// Put stores r under dir with a generated name keeping filename's extension.
	Put(ctx context.Context, dir, filename string, r io.Reader) (string, error)
	Open(ctx context.Context, p string) (io.ReadCloser, error)
	Delete(ctx context.Context, p string) error
}

// objectName builds "dir/<uuid><ext>".
func objectName(dir, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return path.Join(dir, uuid.NewString()+ext)
}

// clean rejects paths escaping the store root.
func clean(p string) (string, error) {
	c := path.Clean("/" + strings.TrimSpace(p))
	c = strings.TrimPrefix(c, "/")
	if c == "" || c == "." {
		return "", fmt.Errorf("invalid asset path %q", p)
	}
	return c, nil
}

// Upload is a file received from a client, not yet stored.
type Upload struct {
	Filename string
	Content  io.Reader
}
