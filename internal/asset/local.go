package asset

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
)

// Local keeps assets on the filesystem under Root.
type Local struct {
	Root string
}

func NewLocal(root string) (*Local, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &Local{Root: root}, nil
}

func (l *Local) full(p string) (string, error) {
	c, err := clean(p)
	if err != nil {
		return "", err
	}
	return filepath.Join(l.Root, filepath.FromSlash(c)), nil
}

func (l *Local) Put(ctx context.Context, dir, filename string, r io.Reader) (string, error) {
	name := objectName(dir, filename)
	dst, err := l.full(name)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", err
	}
	f, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		_ = os.Remove(dst)
		return "", err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(dst)
		return "", err
	}
	return name, nil
}

func (l *Local) Open(ctx context.Context, p string) (io.ReadCloser, error) {
	src, err := l.full(p)
	if err != nil {
		return nil, ErrNotFound
	}
	f, err := os.Open(src)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	return f, err
}

// Delete removes p. A missing file is not an error.
func (l *Local) Delete(ctx context.Context, p string) error {
	src, err := l.full(p)
	if err != nil {
		return err
	}
	if err := os.Remove(src); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	log.Printf("[asset] deleted %s", p)
	return nil
}
