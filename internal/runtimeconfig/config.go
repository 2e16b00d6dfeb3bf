package runtimeconfig

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-makesite/internal/logging/console"
	"github.com/goliatone/go-makesite/internal/logging/gologger"
)

var ErrContentDirRequired = errors.New("makesite config: content directory is required")
var ErrOutputDirRequired = errors.New("makesite config: output directory is required")
var ErrOutputDirUnsafe = errors.New("makesite config: output directory must not be the filesystem root or the content directory")
var ErrCollectionNameInvalid = errors.New("makesite config: collection name is invalid")
var ErrCollectionNameDuplicate = errors.New("makesite config: collection name is duplicated")
var ErrCollectionSourceRequired = errors.New("makesite config: collection source is required")
var ErrWorkersInvalid = errors.New("makesite config: workers must be -1 or greater")
var ErrSummaryWordsInvalid = errors.New("makesite config: summary words must be zero or positive")
var ErrLoggingProviderRequired = errors.New("makesite config: logging provider is required")
var ErrLoggingProviderUnknown = errors.New("makesite config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("makesite config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("makesite config: logging format is invalid")

var collectionNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// Config aggregates the site layout, generator toggles and logging options.
type Config struct {
	Paths       PathsConfig        `yaml:"paths"`
	Collections []CollectionConfig `yaml:"collections"`
	Markdown    MarkdownConfig     `yaml:"markdown"`
	Generator   GeneratorConfig    `yaml:"generator"`
	Logging     LoggingConfig      `yaml:"logging"`
}

// PathsConfig lists the directories a build reads from and writes to.
type PathsConfig struct {
	Content string `yaml:"content"`
	// Layouts overrides the embedded layouts file by file; empty uses the
	// embedded set only.
	Layouts string `yaml:"layouts"`
	Static  string `yaml:"static"`
	Output  string `yaml:"output"`
	// Params points at a JSON or YAML file of site parameters.
	Params string `yaml:"params"`
}

// CollectionConfig describes a dated collection rendered with a list page
// and an optional feed.
type CollectionConfig struct {
	Name   string `yaml:"name"`
	Title  string `yaml:"title"`
	Source string `yaml:"source"`
}

// MarkdownConfig captures Markdown transform behaviour.
type MarkdownConfig struct {
	Enabled     bool                 `yaml:"enabled"`
	FrontMatter bool                 `yaml:"front_matter"`
	Parser      MarkdownParserConfig `yaml:"parser"`
}

// MarkdownParserConfig mirrors interfaces.ParseOptions for runtime configuration.
type MarkdownParserConfig struct {
	Extensions []string `yaml:"extensions"`
	Sanitize   bool     `yaml:"sanitize"`
	HardWraps  bool     `yaml:"hard_wraps"`
}

// GeneratorConfig captures behaviour for the static site generator.
type GeneratorConfig struct {
	CleanBuild    bool `yaml:"clean_build"`
	CopyAssets    bool `yaml:"copy_assets"`
	GenerateFeeds bool `yaml:"generate_feeds"`
	// Workers renders pages concurrently; 0 or 1 is sequential and -1 uses
	// one worker per CPU.
	Workers      int    `yaml:"workers"`
	SummaryWords int    `yaml:"summary_words"`
	IndexSource  string `yaml:"index_source"`
	PagesSource  string `yaml:"pages_source"`
	MetricsFile  string `yaml:"metrics_file"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `yaml:"provider"`
	Level     string   `yaml:"level"`
	Format    string   `yaml:"format"`
	AddSource bool     `yaml:"add_source"`
	Focus     []string `yaml:"focus"`
}

// DefaultConfig returns the layout of the classic single directory site:
// content/, layout/, static/ and _site/.
func DefaultConfig() Config {
	return Config{
		Paths: PathsConfig{
			Content: "content",
			Layouts: "layout",
			Static:  "static",
			Output:  "_site",
			Params:  "",
		},
		Collections: []CollectionConfig{
			{Name: "blog", Title: "Blog", Source: "blog/*.md"},
			{Name: "news", Title: "News", Source: "news/*.html"},
		},
		Markdown: MarkdownConfig{
			Enabled:     true,
			FrontMatter: false,
			Parser: MarkdownParserConfig{
				Extensions: []string{"table", "strikethrough", "linkify"},
			},
		},
		Generator: GeneratorConfig{
			CleanBuild:    true,
			CopyAssets:    true,
			GenerateFeeds: true,
			Workers:       0,
			SummaryWords:  25,
			IndexSource:   "_index.html",
			PagesSource:   "[!_]*.html",
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
			Format:   "",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	content := strings.TrimSpace(cfg.Paths.Content)
	if content == "" {
		return ErrContentDirRequired
	}
	output := strings.TrimSpace(cfg.Paths.Output)
	if output == "" {
		return ErrOutputDirRequired
	}
	if dir := cleanDir(output); dir == "/" || dir == "." || dir == cleanDir(content) {
		return fmt.Errorf("%w: %s", ErrOutputDirUnsafe, output)
	}

	seen := map[string]struct{}{}
	for _, collection := range cfg.Collections {
		name := strings.TrimSpace(collection.Name)
		if err := check(name, ErrCollectionNameInvalid, validation.Required, validation.Match(collectionNamePattern)); err != nil {
			return err
		}
		if _, ok := seen[name]; ok {
			return fmt.Errorf("%w: %s", ErrCollectionNameDuplicate, name)
		}
		seen[name] = struct{}{}
		if err := check(strings.TrimSpace(collection.Source), ErrCollectionSourceRequired, validation.Required); err != nil {
			return fmt.Errorf("%w (collection %s)", err, name)
		}
	}

	if err := check(cfg.Generator.Workers, ErrWorkersInvalid, validation.Min(-1)); err != nil {
		return err
	}
	if err := check(cfg.Generator.SummaryWords, ErrSummaryWordsInvalid, validation.Min(0)); err != nil {
		return err
	}

	provider := normalizeProvider(cfg.Logging.Provider)
	if provider == "" {
		return ErrLoggingProviderRequired
	}
	if err := check(provider, ErrLoggingProviderUnknown, validation.In("console", "gologger")); err != nil {
		return err
	}
	if err := check(strings.TrimSpace(cfg.Logging.Level), ErrLoggingLevelInvalid, validation.By(supportedLevel)); err != nil {
		return err
	}
	if provider == "gologger" {
		format := strings.ToLower(strings.TrimSpace(cfg.Logging.Format))
		if err := check(format, ErrLoggingFormatInvalid, validation.In(formatValues()...)); err != nil {
			return err
		}
	}
	return nil
}

// CollectionNames returns the configured collection names in order.
func (cfg Config) CollectionNames() []string {
	names := make([]string, 0, len(cfg.Collections))
	for _, collection := range cfg.Collections {
		names = append(names, strings.TrimSpace(collection.Name))
	}
	return names
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

// check runs ozzo rules against value and tags a failure with sentinel so
// callers can match it with errors.Is.
func check(value any, sentinel error, rules ...validation.Rule) error {
	if err := validation.Validate(value, rules...); err != nil {
		return fmt.Errorf("%w: %v: %v", sentinel, value, err)
	}
	return nil
}

func supportedLevel(value any) error {
	level, _ := value.(string)
	if level == "" {
		return nil
	}
	if _, ok := console.ParseLevel(level); !ok {
		return errors.New("must be one of trace, debug, info, warn, error, fatal")
	}
	return nil
}

func formatValues() []any {
	formats := gologger.Formats()
	values := make([]any, len(formats))
	for i, format := range formats {
		values[i] = format
	}
	return values
}

func cleanDir(dir string) string {
	return path.Clean(filepath.ToSlash(strings.TrimSpace(dir)))
}
