package generator

import (
	"context"
	"errors"
	"io/fs"
	"slices"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/goliatone/go-makesite/internal/logging"
	"github.com/goliatone/go-makesite/internal/markdown"
	"github.com/goliatone/go-makesite/pkg/interfaces"
	"github.com/goliatone/go-makesite/pkg/storage"
)

const (
	codeLayoutLoad        = "LAYOUT_LOAD_FAILED"
	codeUnknownCollection = "COLLECTION_UNKNOWN"
)

var (
	// ErrContentRequired indicates the service was built without a content tree.
	ErrContentRequired = errors.New("generator: content filesystem is required")
	// ErrStorageRequired indicates the service was built without a write sink.
	ErrStorageRequired = errors.New("generator: storage provider is required")
)

// Service builds a site from content, layouts and static assets.
type Service interface {
	// Build renders the site. Once output has started, a failure returns the
	// partial result with counts for the work that completed.
	Build(ctx context.Context, opts BuildOptions) (*BuildResult, error)
	Clean(ctx context.Context) error
}

// Config captures runtime behaviour toggles for the generator.
type Config struct {
	// OutputDir prefixes every write made through the storage provider.
	OutputDir     string
	CleanBuild    bool
	CopyAssets    bool
	GenerateFeeds bool
	// FrontMatter enables YAML front matter in content files.
	FrontMatter  bool
	Workers      int
	SummaryWords int
	// MetricsFile, when set, receives the build metrics in the Prometheus
	// text format.
	MetricsFile string
	// IndexSource renders to index.html; empty disables the pass.
	IndexSource string
	// PagesSource renders each match to {{ slug }}/index.html; empty
	// disables the pass.
	PagesSource string
	Collections []CollectionConfig
}

// CollectionConfig describes a dated collection such as a blog.
type CollectionConfig struct {
	Name string
	// Title is bound to the title parameter of the list and feed. Empty
	// derives it from Name.
	Title  string
	Source string
}

// DisplayTitle returns Title or the title cased Name.
func (c CollectionConfig) DisplayTitle() string {
	if title := strings.TrimSpace(c.Title); title != "" {
		return title
	}
	return cases.Title(language.English).String(strings.ReplaceAll(c.Name, "-", " "))
}

// DefaultCollections returns the blog and news collections.
func DefaultCollections() []CollectionConfig {
	return []CollectionConfig{
		{Name: "blog", Title: "Blog", Source: "blog/*.md"},
		{Name: "news", Title: "News", Source: "news/*.html"},
	}
}

// BuildOptions narrows the scope of a build.
type BuildOptions struct {
	// DryRun renders everything but writes nothing.
	DryRun bool
	// Collections limits the collection passes to the named ones. Empty
	// builds all of them.
	Collections []string
}

// BuildResult reports aggregated build metadata.
type BuildResult struct {
	BuildID     string
	Pages       int
	Lists       int
	Assets      int
	Collections map[string][]markdown.Record
	Duration    time.Duration
	DryRun      bool
}

// Dependencies lists the collaborators required by the generator.
type Dependencies struct {
	Content fs.FS
	// Layouts may be nil, in which case the embedded defaults are used.
	Layouts fs.FS
	Static  fs.FS
	Storage interfaces.StorageProvider
	// Parser may be nil; Markdown bodies are then kept untransformed.
	Parser       interfaces.MarkdownParser
	ParseOptions *interfaces.ParseOptions
	// SiteParams is layered over DefaultParams.
	SiteParams map[string]any
	Logger     interfaces.Logger
	// ContentLogger receives content loading diagnostics; nil uses Logger.
	ContentLogger interfaces.Logger
}

// NewService wires a generator implementation with the provided configuration and dependencies.
func NewService(cfg Config, deps Dependencies) Service {
	logger := deps.Logger
	if logger == nil {
		logger = logging.NoOp()
	}
	contentLogger := deps.ContentLogger
	if contentLogger == nil {
		contentLogger = logger
	}
	return &service{
		cfg:           cfg,
		deps:          deps,
		logger:        logger,
		contentLogger: contentLogger,
		now:           time.Now,
	}
}

type service struct {
	cfg           Config
	deps          Dependencies
	logger        interfaces.Logger
	contentLogger interfaces.Logger
	now           func() time.Time
}

func (s *service) Build(ctx context.Context, opts BuildOptions) (result *BuildResult, err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.deps.Content == nil {
		return nil, ErrContentRequired
	}
	if s.deps.Storage == nil && !opts.DryRun {
		return nil, ErrStorageRequired
	}

	buildID := uuid.NewString()
	start := s.now()
	ctx, span := startSpan(ctx, spanBuild,
		attribute.String("makesite.build_id", buildID),
		attribute.Bool("makesite.dry_run", opts.DryRun),
	)
	defer func() { endSpan(span, err) }()

	logger := logging.WithBuildContext(s.logger, buildID, "")
	logger.Info("generator.build.started", "output", s.cfg.OutputDir, "dry_run", opts.DryRun)

	collections, err := s.selectCollections(opts.Collections)
	if err != nil {
		return nil, err
	}

	layouts, err := LoadLayouts(s.deps.Layouts)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryBadInput, "layout load failed").
			WithTextCode(codeLayoutLoad)
	}

	sink := s.deps.Storage
	if opts.DryRun {
		sink = storage.Discard()
	}
	writer := newArtifactWriter(sink, s.cfg.OutputDir)
	metrics := newBuildMetrics()

	result = &BuildResult{
		BuildID:     buildID,
		Collections: make(map[string][]markdown.Record, len(collections)),
		DryRun:      opts.DryRun,
	}

	if s.cfg.CleanBuild {
		if err := writer.Clean(ctx); err != nil {
			return s.failed(logger, result, start, err)
		}
	}

	if s.cfg.CopyAssets {
		copied, err := copyAssets(ctx, s.deps.Static, writer, metrics)
		result.Assets = copied
		if err != nil {
			return s.failed(logger, result, start, err)
		}
	}

	params := NewParams(DefaultParams(start), s.deps.SiteParams)
	loader := markdown.NewLoader(s.deps.Content, markdown.LoaderConfig{
		Parser:       s.deps.Parser,
		ParseOptions: s.deps.ParseOptions,
		FrontMatter:  s.cfg.FrontMatter,
		Logger:       logging.WithBuildContext(s.contentLogger, buildID, ""),
	})
	pages := newPageBuilder(PageBuilderConfig{
		Content: s.deps.Content,
		Loader:  loader,
		Workers: s.cfg.Workers,
		Logger:  logger,
	}, writer, metrics)
	lists := newListBuilder(ListBuilderConfig{
		SummaryWords: s.cfg.SummaryWords,
		Logger:       logger,
	}, writer, metrics)

	for _, spec := range s.pageSpecs(layouts) {
		records, err := pages.MakePages(ctx, spec, params)
		if err != nil {
			return s.failed(logger, result, start, err)
		}
		result.Pages += len(records)
	}

	for _, collection := range collections {
		records, err := pages.MakePages(ctx, PageSpec{
			Collection:  collection.Name,
			Source:      collection.Source,
			Destination: collection.Name + "/{{ slug }}/index.html",
			Layout:      layouts.Post,
			Overrides:   map[string]any{ParamBlog: collection.Name},
		}, params)
		if err != nil {
			return s.failed(logger, result, start, err)
		}
		result.Pages += len(records)
		result.Collections[collection.Name] = records
	}

	for _, collection := range collections {
		for _, spec := range s.listSpecs(collection, layouts) {
			if err := lists.MakeList(ctx, spec, result.Collections[collection.Name], params); err != nil {
				return s.failed(logger, result, start, err)
			}
			result.Lists++
		}
	}

	result.Duration = s.now().Sub(start)
	metrics.observeBuild(result.Duration)
	if !opts.DryRun {
		if err := metrics.writeTextfile(s.cfg.MetricsFile); err != nil {
			return s.failed(logger, result, start, err)
		}
	}

	logger.Info("generator.build.completed",
		"pages", result.Pages,
		"lists", result.Lists,
		"assets", result.Assets,
		"duration", result.Duration,
	)
	return result, nil
}

// failed stamps the partial result with the elapsed time so callers can
// report how far the build got.
func (s *service) failed(logger interfaces.Logger, result *BuildResult, start time.Time, err error) (*BuildResult, error) {
	result.Duration = s.now().Sub(start)
	logger.Error("generator.build.failed",
		"pages", result.Pages,
		"lists", result.Lists,
		"assets", result.Assets,
		"error", err,
	)
	return result, err
}

func (s *service) Clean(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if s.deps.Storage == nil {
		return ErrStorageRequired
	}
	if err := newArtifactWriter(s.deps.Storage, s.cfg.OutputDir).Clean(ctx); err != nil {
		return err
	}
	s.logger.Info("generator.clean.completed", "output", s.cfg.OutputDir)
	return nil
}

func (s *service) pageSpecs(layouts Layouts) []PageSpec {
	var specs []PageSpec
	if source := strings.TrimSpace(s.cfg.IndexSource); source != "" {
		specs = append(specs, PageSpec{
			Collection:  "index",
			Source:      source,
			Destination: "index.html",
			Layout:      layouts.Page,
		})
	}
	if source := strings.TrimSpace(s.cfg.PagesSource); source != "" {
		specs = append(specs, PageSpec{
			Collection:  "pages",
			Source:      source,
			Destination: "{{ slug }}/index.html",
			Layout:      layouts.Page,
		})
	}
	return specs
}

func (s *service) listSpecs(collection CollectionConfig, layouts Layouts) []ListSpec {
	overrides := map[string]any{
		ParamBlog:  collection.Name,
		ParamTitle: collection.DisplayTitle(),
	}
	specs := []ListSpec{{
		Name:        collection.Name,
		Destination: collection.Name + "/index.html",
		ListLayout:  layouts.List,
		ItemLayout:  layouts.Item,
		Overrides:   overrides,
	}}
	if s.cfg.GenerateFeeds {
		specs = append(specs, ListSpec{
			Name:        collection.Name + ".rss",
			Destination: collection.Name + "/rss.xml",
			ListLayout:  layouts.Feed,
			ItemLayout:  layouts.FeedItem,
			Overrides:   overrides,
		})
	}
	return specs
}

func (s *service) selectCollections(names []string) ([]CollectionConfig, error) {
	if len(names) == 0 {
		return slices.Clone(s.cfg.Collections), nil
	}
	selected := make([]CollectionConfig, 0, len(names))
	for _, collection := range s.cfg.Collections {
		if slices.Contains(names, collection.Name) {
			selected = append(selected, collection)
		}
	}
	for _, name := range names {
		if !slices.ContainsFunc(selected, func(c CollectionConfig) bool { return c.Name == name }) {
			return nil, goerrors.New("unknown collection", goerrors.CategoryBadInput).
				WithTextCode(codeUnknownCollection).
				WithMetadata(map[string]any{"collection": name})
		}
	}
	return selected, nil
}
