package testsupport

import (
	"context"
	"errors"
	"io"
	"maps"
	"path"
	"strings"
	"sync"

	"github.com/goliatone/go-makesite/pkg/storage"
)

// MemoryStorage is an in-memory storage.Provider. Writes into a directory
// that was never ensured fail, mirroring the filesystem.
type MemoryStorage struct {
	mu      sync.Mutex
	files   map[string]string
	dirs    map[string]struct{}
	writes  []string
	FailOn  string
	FailErr error
}

var _ storage.Provider = (*MemoryStorage)(nil)

// NewMemoryStorage returns an empty store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		files: map[string]string{},
		dirs:  map[string]struct{}{},
	}
}

func (m *MemoryStorage) EnsureDir(ctx context.Context, dir string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for dir != "." && dir != "/" && dir != "" {
		m.dirs[dir] = struct{}{}
		dir = path.Dir(dir)
	}
	return nil
}

func (m *MemoryStorage) WriteFile(ctx context.Context, name string, content io.Reader) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.FailOn != "" && name == m.FailOn {
		if m.FailErr != nil {
			return m.FailErr
		}
		return errors.New("memory storage: forced failure")
	}
	data, err := io.ReadAll(content)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if dir := path.Dir(name); dir != "." {
		if _, ok := m.dirs[dir]; !ok {
			return errors.New("memory storage: missing directory " + dir)
		}
	}
	m.files[name] = string(data)
	m.writes = append(m.writes, name)
	return nil
}

func (m *MemoryStorage) RemoveAll(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	prefix := name + "/"
	for file := range m.files {
		if file == name || strings.HasPrefix(file, prefix) {
			delete(m.files, file)
		}
	}
	for dir := range m.dirs {
		if dir == name || strings.HasPrefix(dir, prefix) {
			delete(m.dirs, dir)
		}
	}
	return nil
}

// File returns the content written to name.
func (m *MemoryStorage) File(name string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[name]
	return data, ok
}

// Files returns a snapshot of every stored file.
func (m *MemoryStorage) Files() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return maps.Clone(m.files)
}

// Writes returns the written paths in write order.
func (m *MemoryStorage) Writes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.writes...)
}
