package di

import (
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/goliatone/go-makesite/internal/adapters/storage"
	"github.com/goliatone/go-makesite/internal/commands"
	staticcmd "github.com/goliatone/go-makesite/internal/commands/static"
	"github.com/goliatone/go-makesite/internal/generator"
	"github.com/goliatone/go-makesite/internal/logging"
	"github.com/goliatone/go-makesite/internal/logging/console"
	"github.com/goliatone/go-makesite/internal/logging/gologger"
	"github.com/goliatone/go-makesite/internal/markdown"
	"github.com/goliatone/go-makesite/internal/runtimeconfig"
	"github.com/goliatone/go-makesite/pkg/interfaces"
)

// Container wires module dependencies from a runtime configuration. Every
// collaborator can be replaced through an Option before wiring happens.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	logWriter      io.Writer
	storage        interfaces.StorageProvider
	parser         interfaces.MarkdownParser

	content fs.FS
	layouts fs.FS
	static  fs.FS

	siteParams map[string]any

	generatorSvc generator.Service
	buildHandler *staticcmd.BuildSiteHandler
	cleanHandler *staticcmd.CleanSiteHandler
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the provider selected by the logging config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithLogWriter redirects the console provider, which writes to stderr by default.
func WithLogWriter(w io.Writer) Option {
	return func(c *Container) {
		c.logWriter = w
	}
}

// WithStorage overrides the default filesystem storage provider.
func WithStorage(sp interfaces.StorageProvider) Option {
	return func(c *Container) {
		c.storage = sp
	}
}

// WithMarkdownParser overrides the goldmark parser.
func WithMarkdownParser(parser interfaces.MarkdownParser) Option {
	return func(c *Container) {
		c.parser = parser
	}
}

// WithContentFS reads content from fsys instead of Paths.Content.
func WithContentFS(fsys fs.FS) Option {
	return func(c *Container) {
		c.content = fsys
	}
}

// WithLayoutsFS reads layouts from fsys instead of Paths.Layouts.
func WithLayoutsFS(fsys fs.FS) Option {
	return func(c *Container) {
		c.layouts = fsys
	}
}

// WithStaticFS reads static assets from fsys instead of Paths.Static.
func WithStaticFS(fsys fs.FS) Option {
	return func(c *Container) {
		c.static = fsys
	}
}

// WithSiteParams supplies site parameters instead of reading Paths.Params.
func WithSiteParams(params map[string]any) Option {
	return func(c *Container) {
		c.siteParams = params
	}
}

// WithGeneratorService overrides the generator binding.
func WithGeneratorService(svc generator.Service) Option {
	return func(c *Container) {
		c.generatorSvc = svc
	}
}

// NewContainer creates a container with the provided configuration.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{Config: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLoggerProvider(); err != nil {
		return nil, err
	}
	c.configureStorage()
	c.configureMarkdown()
	c.configureFilesystems()
	if err := c.configureSiteParams(); err != nil {
		return nil, err
	}
	c.configureGenerator()
	c.configureCommands()

	logging.ModuleLogger(c.loggerProvider, "makesite.di").Debug("container.configured",
		"content", cfg.Paths.Content,
		"output", cfg.Paths.Output,
		"collections", strings.Join(cfg.CollectionNames(), ","),
	)
	return c, nil
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider != nil {
		return nil
	}
	cfg := c.Config.Logging
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     cfg.Level,
			Format:    cfg.Format,
			AddSource: cfg.AddSource,
			Focus:     cfg.Focus,
		})
		if err != nil {
			return err
		}
		c.loggerProvider = provider
	default:
		opts := console.Options{Writer: c.logWriter}
		if level, ok := console.ParseLevel(cfg.Level); ok {
			opts.MinLevel = &level
		}
		c.loggerProvider = console.NewProvider(opts)
	}
	return nil
}

func (c *Container) configureStorage() {
	if c.storage == nil {
		c.storage = storage.NewFSProvider("")
	}
}

func (c *Container) configureMarkdown() {
	if c.parser != nil {
		return
	}
	if !c.Config.Markdown.Enabled {
		c.parser = markdown.UnavailableParser()
		return
	}
	c.parser = markdown.NewGoldmarkParser(c.parseOptions())
}

func (c *Container) parseOptions() interfaces.ParseOptions {
	parser := c.Config.Markdown.Parser
	return interfaces.ParseOptions{
		Extensions: append([]string(nil), parser.Extensions...),
		Sanitize:   parser.Sanitize,
		HardWraps:  parser.HardWraps,
	}
}

func (c *Container) configureFilesystems() {
	paths := c.Config.Paths
	if c.content == nil {
		c.content = os.DirFS(paths.Content)
	}
	if c.layouts == nil && strings.TrimSpace(paths.Layouts) != "" {
		c.layouts = os.DirFS(paths.Layouts)
	}
	if c.static == nil && strings.TrimSpace(paths.Static) != "" {
		c.static = os.DirFS(paths.Static)
	}
}

func (c *Container) configureSiteParams() error {
	if c.siteParams != nil {
		return nil
	}
	params, err := runtimeconfig.LoadParams(c.Config.Paths.Params)
	if err != nil {
		return err
	}
	c.siteParams = params
	return nil
}

func (c *Container) configureGenerator() {
	if c.generatorSvc != nil {
		return
	}
	cfg := c.Config
	collections := make([]generator.CollectionConfig, 0, len(cfg.Collections))
	for _, collection := range cfg.Collections {
		collections = append(collections, generator.CollectionConfig{
			Name:   strings.TrimSpace(collection.Name),
			Title:  collection.Title,
			Source: collection.Source,
		})
	}

	c.generatorSvc = generator.NewService(generator.Config{
		OutputDir:     cfg.Paths.Output,
		CleanBuild:    cfg.Generator.CleanBuild,
		CopyAssets:    cfg.Generator.CopyAssets,
		GenerateFeeds: cfg.Generator.GenerateFeeds,
		FrontMatter:   cfg.Markdown.FrontMatter,
		Workers:       cfg.Generator.Workers,
		SummaryWords:  cfg.Generator.SummaryWords,
		MetricsFile:   cfg.Generator.MetricsFile,
		IndexSource:   cfg.Generator.IndexSource,
		PagesSource:   cfg.Generator.PagesSource,
		Collections:   collections,
	}, generator.Dependencies{
		Content:       c.content,
		Layouts:       c.layouts,
		Static:        c.static,
		Storage:       c.storage,
		Parser:        c.parser,
		SiteParams:    c.siteParams,
		Logger:        logging.GeneratorLogger(c.loggerProvider),
		ContentLogger: logging.MarkdownLogger(c.loggerProvider),
	})
}

func (c *Container) configureCommands() {
	logger := commands.CommandLogger(c.loggerProvider, "static")
	c.buildHandler = staticcmd.NewBuildSiteHandler(c.generatorSvc, logger)
	c.cleanHandler = staticcmd.NewCleanSiteHandler(c.generatorSvc, logger)
}

// LoggerProvider returns the configured logger provider.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// StorageProvider returns the configured storage provider.
func (c *Container) StorageProvider() interfaces.StorageProvider {
	return c.storage
}

// MarkdownParser returns the configured Markdown parser.
func (c *Container) MarkdownParser() interfaces.MarkdownParser {
	return c.parser
}

// SiteParams returns the site parameter layer handed to the generator.
func (c *Container) SiteParams() map[string]any {
	return c.siteParams
}

// GeneratorService returns the configured generator service.
func (c *Container) GeneratorService() generator.Service {
	return c.generatorSvc
}

// BuildSiteHandler returns the build command handler.
func (c *Container) BuildSiteHandler() *staticcmd.BuildSiteHandler {
	return c.buildHandler
}

// CleanSiteHandler returns the clean command handler.
func (c *Container) CleanSiteHandler() *staticcmd.CleanSiteHandler {
	return c.cleanHandler
}
