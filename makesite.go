// Package makesite renders a static site from content files, plain-text
// layouts and site parameters. New wires a Module from a Config; Build and
// Clean drive the generator through the command layer.
package makesite

import (
	"context"

	staticcmd "github.com/goliatone/go-makesite/internal/commands/static"
	"github.com/goliatone/go-makesite/internal/di"
	"github.com/goliatone/go-makesite/internal/generator"
	"github.com/goliatone/go-makesite/internal/markdown"
)

// GeneratorService exports the static site generator contract.
type GeneratorService = generator.Service

// BuildOptions narrows a build to a dry run or a subset of collections.
type BuildOptions = generator.BuildOptions

// BuildResult reports what a build produced.
type BuildResult = generator.BuildResult

// Record is one loaded content file.
type Record = markdown.Record

// Module represents the top level makesite runtime facade.
type Module struct {
	container *di.Container
}

// New constructs a module using the provided configuration and optional DI overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Generator returns the configured generator service.
func (m *Module) Generator() GeneratorService {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.GeneratorService()
}

// Build renders the site through the build command handler and returns the
// generator result.
func (m *Module) Build(ctx context.Context, opts BuildOptions) (*BuildResult, error) {
	if m == nil || m.container == nil {
		return nil, staticcmd.ErrGeneratorUnavailable
	}
	var result *BuildResult
	err := m.container.BuildSiteHandler().Execute(ctx, staticcmd.BuildSiteCommand{
		Collections: opts.Collections,
		DryRun:      opts.DryRun,
		ResultCallback: func(envelope staticcmd.ResultEnvelope) {
			result = envelope.Result
		},
	})
	return result, err
}

// Clean removes the output directory.
func (m *Module) Clean(ctx context.Context) error {
	if m == nil || m.container == nil {
		return staticcmd.ErrGeneratorUnavailable
	}
	return m.container.CleanSiteHandler().Execute(ctx, staticcmd.CleanSiteCommand{})
}
