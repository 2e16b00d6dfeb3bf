package generator

import (
	"cmp"
	"context"
	"io/fs"
	"runtime"
	"slices"
	"strings"
	"sync"

	goerrors "github.com/goliatone/go-errors"
	"go.opentelemetry.io/otel/attribute"

	"github.com/goliatone/go-makesite/internal/logging"
	"github.com/goliatone/go-makesite/internal/markdown"
	"github.com/goliatone/go-makesite/pkg/interfaces"
)

const codePageRender = "PAGE_RENDER_FAILED"

// PageSpec describes one page pass: every content file matching Source is
// rendered through Layout into the path obtained by rendering Destination.
type PageSpec struct {
	// Collection labels log entries and metrics; it is not a parameter.
	Collection string
	// Source is a glob relative to the content root, e.g. "blog/*.md" or
	// "[!_]*.html".
	Source string
	// Destination is a path template relative to the output directory, e.g.
	// "blog/{{ slug }}/index.html".
	Destination string
	Layout      string
	// Overrides sit between the base parameters and the record fields.
	Overrides map[string]any
}

// PageBuilder renders content files into pages.
type PageBuilder struct {
	content fs.FS
	loader  *markdown.Loader
	writer  artifactWriter
	workers int
	logger  interfaces.Logger
	metrics *buildMetrics
}

// PageBuilderConfig wires a PageBuilder. Workers <= 1 renders sequentially;
// a negative value uses one worker per CPU.
type PageBuilderConfig struct {
	Content fs.FS
	Loader  *markdown.Loader
	Storage interfaces.StorageProvider
	// OutputDir is the prefix every destination is written under.
	OutputDir string
	Workers   int
	Logger    interfaces.Logger
}

// NewPageBuilder constructs a PageBuilder.
func NewPageBuilder(cfg PageBuilderConfig) *PageBuilder {
	return newPageBuilder(cfg, newArtifactWriter(cfg.Storage, cfg.OutputDir), nil)
}

func newPageBuilder(cfg PageBuilderConfig, writer artifactWriter, metrics *buildMetrics) *PageBuilder {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOp()
	}
	loader := cfg.Loader
	if loader == nil {
		loader = markdown.NewLoader(cfg.Content, markdown.LoaderConfig{Logger: logger})
	}
	workers := cfg.Workers
	if workers < 0 {
		workers = runtime.NumCPU()
	}
	return &PageBuilder{
		content: cfg.Content,
		loader:  loader,
		writer:  writer,
		workers: workers,
		logger:  logger,
		metrics: metrics,
	}
}

// MakePages renders every file matching spec.Source and returns the loaded
// records sorted by date, most recent first. Records with equal dates keep
// their lexical source order. The first failure aborts the pass.
func (b *PageBuilder) MakePages(ctx context.Context, spec PageSpec, params Params) (records []markdown.Record, err error) {
	ctx, span := startSpan(ctx, spanPages,
		attribute.String("makesite.collection", spec.Collection),
		attribute.String("makesite.source", spec.Source),
	)
	defer func() { endSpan(span, err) }()

	files, err := enumerate(b.content, spec.Source)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryBadInput, "source enumeration failed: "+spec.Source).
			WithTextCode(codePageRender).
			WithMetadata(map[string]any{"source": spec.Source, "collection": spec.Collection})
	}

	logger := logging.WithFields(b.logger, map[string]any{"collection": spec.Collection})
	base := params.With(spec.Overrides)

	records, err = b.renderAll(ctx, spec, base, files, logger)
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(records, func(a, c markdown.Record) int {
		return cmp.Compare(c.Date, a.Date)
	})
	span.SetAttributes(attribute.Int("makesite.pages", len(records)))
	logger.Debug("generator.pages.completed", "source", spec.Source, "count", len(records))
	return records, nil
}

// renderAll renders files in order, or through a bounded worker pool. Either
// way records[i] belongs to files[i].
func (b *PageBuilder) renderAll(ctx context.Context, spec PageSpec, base Params, files []string, logger interfaces.Logger) ([]markdown.Record, error) {
	records := make([]markdown.Record, len(files))
	workers := min(b.workers, len(files))
	if workers <= 1 {
		for i, name := range files {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			record, err := b.renderPage(ctx, spec, base, name, logger)
			if err != nil {
				return nil, err
			}
			records[i] = record
		}
		return records, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		once     sync.Once
		firstErr error
		wg       sync.WaitGroup
		jobs     = make(chan int)
	)
	fail := func(err error) {
		once.Do(func() {
			firstErr = err
			cancel()
		})
	}

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if ctx.Err() != nil {
					continue
				}
				record, err := b.renderPage(ctx, spec, base, files[i], logger)
				if err != nil {
					fail(err)
					continue
				}
				records[i] = record
			}
		}()
	}

feed:
	for i := range files {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func (b *PageBuilder) renderPage(ctx context.Context, spec PageSpec, base Params, name string, logger interfaces.Logger) (markdown.Record, error) {
	record, err := b.loader.Load(ctx, name)
	if err != nil {
		return markdown.Record{}, err
	}

	params := base.With(record.Fields())
	if value, ok := params.String(ParamRender); ok && value == "yes" {
		record.Content = Render(record.Content, params)
		params = params.With(map[string]any{ParamContent: record.Content})
	}

	destination := Render(spec.Destination, params)
	output := Render(spec.Layout, params)

	err = b.writer.WriteFile(ctx, writeFileRequest{
		Path:     destination,
		Content:  strings.NewReader(output),
		Category: categoryPage,
		Source:   name,
	})
	if err != nil {
		return markdown.Record{}, err
	}

	b.metrics.pageRendered(spec.Collection)
	logger.Info("generator.page.rendered", "source", name, "destination", destination)
	return record, nil
}
