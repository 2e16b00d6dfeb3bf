// Package generator exposes the static site generation API for go-makesite hosts.
// Use NewService with Config and Dependencies to render pages, collection
// lists and RSS feeds, or drive the page and list builders directly.
package generator

import internal "github.com/goliatone/go-makesite/internal/generator"

type (
	Service           = internal.Service
	Config            = internal.Config
	CollectionConfig  = internal.CollectionConfig
	BuildOptions      = internal.BuildOptions
	BuildResult       = internal.BuildResult
	Dependencies      = internal.Dependencies
	Params            = internal.Params
	Layouts           = internal.Layouts
	PageSpec          = internal.PageSpec
	PageBuilder       = internal.PageBuilder
	PageBuilderConfig = internal.PageBuilderConfig
	ListSpec          = internal.ListSpec
	ListBuilder       = internal.ListBuilder
	ListBuilderConfig = internal.ListBuilderConfig
)

var (
	ErrContentRequired = internal.ErrContentRequired
	ErrStorageRequired = internal.ErrStorageRequired
)

// DefaultSummaryWords bounds list summaries when no limit is configured.
const DefaultSummaryWords = internal.DefaultSummaryWords

// NewService wires a static site generator with the supplied configuration and dependencies.
func NewService(cfg Config, deps Dependencies) Service {
	return internal.NewService(cfg, deps)
}

// NewPageBuilder constructs a standalone page builder.
func NewPageBuilder(cfg PageBuilderConfig) *PageBuilder {
	return internal.NewPageBuilder(cfg)
}

// NewListBuilder constructs a standalone list builder.
func NewListBuilder(cfg ListBuilderConfig) *ListBuilder {
	return internal.NewListBuilder(cfg)
}

// DefaultCollections returns the blog and news collections.
func DefaultCollections() []CollectionConfig {
	return internal.DefaultCollections()
}

// NewParams layers parameter maps; later layers win.
func NewParams(layers ...map[string]any) Params {
	return internal.NewParams(layers...)
}

// Render substitutes {{ key }} placeholders from params in a single pass.
func Render(template string, params Params) string {
	return internal.Render(template, params)
}

// Truncate strips markup and keeps the first words of text.
func Truncate(text string, words int) string {
	return internal.Truncate(text, words)
}

// LoadLayouts reads layout overrides from fsys, falling back to the
// embedded defaults.
var LoadLayouts = internal.LoadLayouts
