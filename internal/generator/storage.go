package generator

import (
	"context"
	"errors"
	"io"
	"path"
	"path/filepath"
	"strings"
	"sync"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-makesite/pkg/interfaces"
)

const (
	codeOutputWrite  = "OUTPUT_WRITE_FAILED"
	codeOutputPath   = "OUTPUT_PATH_INVALID"
	codeOutputRemove = "OUTPUT_REMOVE_FAILED"
)

type writeCategory string

const (
	categoryPage  writeCategory = "page"
	categoryList  writeCategory = "list"
	categoryAsset writeCategory = "asset"
)

// writeFileRequest describes a file write routed through the artifact writer.
// Path is relative to the output directory.
type writeFileRequest struct {
	Path     string
	Content  io.Reader
	Category writeCategory
	Source   string
}

// artifactWriter places build outputs below the output directory. It is safe
// for concurrent use by page workers.
type artifactWriter interface {
	WriteFile(ctx context.Context, req writeFileRequest) error
	Clean(ctx context.Context) error
}

func newArtifactWriter(storage interfaces.StorageProvider, outputDir string) artifactWriter {
	if storage == nil {
		return noopWriter{}
	}
	return &storageWriter{
		storage: storage,
		baseDir: cleanOutputDir(outputDir),
		dirs:    map[string]struct{}{},
	}
}

func cleanOutputDir(dir string) string {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return ""
	}
	dir = path.Clean(filepath.ToSlash(dir))
	if dir == "." {
		return ""
	}
	return dir
}

type storageWriter struct {
	storage interfaces.StorageProvider
	baseDir string

	mu   sync.Mutex
	dirs map[string]struct{}
}

func (w *storageWriter) WriteFile(ctx context.Context, req writeFileRequest) error {
	if req.Content == nil {
		return errors.New("generator: write requires content reader")
	}
	rel, err := cleanOutputPath(req.Path)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "output path invalid: "+req.Path).
			WithTextCode(codeOutputPath).
			WithMetadata(map[string]any{"path": req.Path, "source": req.Source})
	}
	fullPath := joinOutputPath(w.baseDir, rel)
	if err := w.ensureDir(ctx, path.Dir(fullPath)); err != nil {
		return w.wrapWrite(err, fullPath, req)
	}
	if err := w.storage.WriteFile(ctx, fullPath, req.Content); err != nil {
		return w.wrapWrite(err, fullPath, req)
	}
	return nil
}

func (w *storageWriter) Clean(ctx context.Context) error {
	if w.baseDir == "" || w.baseDir == "/" {
		return goerrors.New("refusing to clean an empty output directory", goerrors.CategoryValidation).
			WithTextCode(codeOutputRemove)
	}
	if err := w.storage.RemoveAll(ctx, w.baseDir); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "output clean failed: "+w.baseDir).
			WithTextCode(codeOutputRemove).
			WithMetadata(map[string]any{"path": w.baseDir})
	}
	w.mu.Lock()
	clear(w.dirs)
	w.mu.Unlock()
	return nil
}

func (w *storageWriter) ensureDir(ctx context.Context, dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	w.mu.Lock()
	_, ok := w.dirs[dir]
	w.mu.Unlock()
	if ok {
		return nil
	}
	if err := w.storage.EnsureDir(ctx, dir); err != nil {
		return err
	}
	w.mu.Lock()
	w.dirs[dir] = struct{}{}
	w.mu.Unlock()
	return nil
}

func (w *storageWriter) wrapWrite(err error, fullPath string, req writeFileRequest) error {
	return goerrors.Wrap(err, goerrors.CategoryInternal, "output write failed: "+fullPath).
		WithTextCode(codeOutputWrite).
		WithMetadata(map[string]any{
			"path":     fullPath,
			"source":   req.Source,
			"category": string(req.Category),
		})
}

type noopWriter struct{}

func (noopWriter) WriteFile(_ context.Context, req writeFileRequest) error {
	if req.Content == nil {
		return nil
	}
	_, err := io.Copy(io.Discard, req.Content)
	return err
}

func (noopWriter) Clean(context.Context) error { return nil }

// cleanOutputPath normalises a rendered destination and rejects paths that
// would leave the output directory.
func cleanOutputPath(rel string) (string, error) {
	trimmed := strings.TrimLeft(strings.TrimSpace(rel), "/")
	if trimmed == "" {
		return "", errors.New("empty destination")
	}
	cleaned := path.Clean(trimmed)
	switch {
	case cleaned == ".":
		return "", errors.New("destination resolves to the output root")
	case cleaned == "..", strings.HasPrefix(cleaned, "../"):
		return "", errors.New("destination escapes the output directory")
	}
	return cleaned, nil
}

func joinOutputPath(base string, rel string) string {
	if base == "" {
		return rel
	}
	return path.Join(base, rel)
}
