package bootstrap

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-makesite"
	"github.com/goliatone/go-makesite/internal/di"
	"github.com/goliatone/go-makesite/internal/logging"
	"github.com/goliatone/go-makesite/pkg/interfaces"
)

// Options captures configuration for the makesite CLI bootstrap. Empty
// fields keep the value resolved from the config file and environment.
type Options struct {
	ConfigPath  string
	EnvFiles    []string
	ContentDir  string
	LayoutsDir  string
	StaticDir   string
	OutputDir   string
	ParamsFile  string
	MetricsFile string
	Workers     *int
	LogProvider string
	LogLevel    string
	LogFormat   string
	// LoggerProvider replaces the configured provider, mostly for tests.
	LoggerProvider interfaces.LoggerProvider
}

// Module wraps the makesite module and the CLI logger.
type Module struct {
	Module *makesite.Module
	Logger interfaces.Logger
}

// BuildModule loads the configuration, applies the CLI overrides and
// constructs a makesite module.
func BuildModule(opts Options) (*Module, error) {
	cfg, err := makesite.LoadConfig(strings.TrimSpace(opts.ConfigPath), opts.EnvFiles...)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	applyOverrides(&cfg, opts)

	diOpts := []di.Option{}
	if opts.LoggerProvider != nil {
		diOpts = append(diOpts, di.WithLoggerProvider(opts.LoggerProvider))
	}

	module, err := makesite.New(cfg, diOpts...)
	if err != nil {
		return nil, fmt.Errorf("initialise makesite module: %w", err)
	}

	return &Module{
		Module: module,
		Logger: logging.ModuleLogger(module.Container().LoggerProvider(), "makesite.cli"),
	}, nil
}

func applyOverrides(cfg *makesite.Config, opts Options) {
	override := func(target *string, value string) {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			*target = trimmed
		}
	}
	override(&cfg.Paths.Content, opts.ContentDir)
	override(&cfg.Paths.Layouts, opts.LayoutsDir)
	override(&cfg.Paths.Static, opts.StaticDir)
	override(&cfg.Paths.Output, opts.OutputDir)
	override(&cfg.Paths.Params, opts.ParamsFile)
	override(&cfg.Generator.MetricsFile, opts.MetricsFile)
	override(&cfg.Logging.Provider, opts.LogProvider)
	override(&cfg.Logging.Level, opts.LogLevel)
	override(&cfg.Logging.Format, opts.LogFormat)
	if opts.Workers != nil {
		cfg.Generator.Workers = *opts.Workers
	}
}

// SplitList parses a comma separated list into a trimmed slice.
func SplitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
