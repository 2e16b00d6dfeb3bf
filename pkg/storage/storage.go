package storage

import (
	"context"
	"io"
)

// Provider is the destination sink the generator writes artifacts through.
// Paths are slash separated and relative to the provider root.
type Provider interface {
	// EnsureDir creates the directory and any missing parents.
	EnsureDir(ctx context.Context, path string) error
	// WriteFile replaces the file at path with the reader's content. Parent
	// directories are expected to exist.
	WriteFile(ctx context.Context, path string, content io.Reader) error
	// RemoveAll deletes path and everything below it. Missing paths are not
	// an error.
	RemoveAll(ctx context.Context, path string) error
}

// Discard returns a Provider that accepts every write and keeps nothing.
// Dry runs render through it.
func Discard() Provider {
	return discard{}
}

type discard struct{}

func (discard) EnsureDir(context.Context, string) error { return nil }

func (discard) WriteFile(_ context.Context, _ string, content io.Reader) error {
	if content == nil {
		return nil
	}
	_, err := io.Copy(io.Discard, content)
	return err
}

func (discard) RemoveAll(context.Context, string) error { return nil }
