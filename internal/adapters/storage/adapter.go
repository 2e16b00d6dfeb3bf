package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/goliatone/go-makesite/pkg/interfaces"
)

// FSProvider writes artifacts to the local filesystem. Relative paths resolve
// against the root given to NewFSProvider; absolute paths are used as given.
type FSProvider struct {
	root     string
	dirMode  os.FileMode
	fileMode os.FileMode
}

// NewFSProvider returns a provider rooted at root. An empty root is the
// working directory.
func NewFSProvider(root string) *FSProvider {
	return &FSProvider{
		root:     root,
		dirMode:  0o755,
		fileMode: 0o644,
	}
}

var _ interfaces.StorageProvider = (*FSProvider)(nil)

func (p *FSProvider) EnsureDir(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return os.MkdirAll(p.resolve(path), p.dirMode)
}

// WriteFile streams content into a temporary sibling and renames it over
// path, so readers never observe a partially written file.
func (p *FSProvider) WriteFile(ctx context.Context, path string, content io.Reader) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	if content == nil {
		return errors.New("storage: write requires content")
	}

	target := p.resolve(path)
	tmp, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".tmp-*")
	if err != nil {
		return fmt.Errorf("storage: create %s: %w", path, err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = io.Copy(tmp, content); err != nil {
		return fmt.Errorf("storage: write %s: %w", path, err)
	}
	if err = tmp.Chmod(p.fileMode); err != nil {
		return fmt.Errorf("storage: chmod %s: %w", path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("storage: close %s: %w", path, err)
	}
	if err = os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("storage: rename %s: %w", path, err)
	}
	return nil
}

func (p *FSProvider) RemoveAll(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return os.RemoveAll(p.resolve(path))
}

func (p *FSProvider) resolve(path string) string {
	native := filepath.FromSlash(path)
	if filepath.IsAbs(native) || p.root == "" {
		return native
	}
	return filepath.Join(p.root, native)
}
