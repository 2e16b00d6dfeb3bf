package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/goliatone/go-makesite/cmd/makesite/internal/bootstrap"
	staticcmd "github.com/goliatone/go-makesite/internal/commands/static"
)

type moduleOptions = bootstrap.Options

type buildHandler interface {
	Execute(ctx context.Context, msg staticcmd.BuildSiteCommand) error
}

type cleanHandler interface {
	Execute(ctx context.Context, msg staticcmd.CleanSiteCommand) error
}

type handlerSet struct {
	build buildHandler
	clean cleanHandler
}

type moduleResources struct {
	handlers handlerSet
}

var moduleBuilder = buildModuleResources

func buildModuleResources(opts moduleOptions) (*moduleResources, error) {
	module, err := bootstrap.BuildModule(opts)
	if err != nil {
		return nil, err
	}
	container := module.Module.Container()
	module.Logger.Debug("cli.module.ready",
		"content", container.Config.Paths.Content,
		"output", container.Config.Paths.Output,
	)
	return &moduleResources{
		handlers: handlerSet{
			build: container.BuildSiteHandler(),
			clean: container.CleanSiteHandler(),
		},
	}, nil
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatalf("makesite: %v", err)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		return errors.New("missing subcommand (build|clean)")
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch args[0] {
	case "build":
		return runBuild(ctx, args[1:])
	case "clean":
		return runClean(ctx, args[1:])
	default:
		return fmt.Errorf("unknown subcommand %q", args[0])
	}
}

func runBuild(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("makesite build", flag.ContinueOnError)
	flags := registerModuleFlags(fs)
	collections := fs.String("collections", "", "Comma separated collections to build (defaults to all)")
	dryRun := fs.Bool("dry-run", false, "Render everything without writing output")
	if err := fs.Parse(args); err != nil {
		return ignoreHelp(err)
	}
	opts, err := flags.options(fs)
	if err != nil {
		return err
	}

	resources, err := moduleBuilder(opts)
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	if resources == nil || resources.handlers.build == nil {
		return errors.New("build handler not configured")
	}

	cmd := staticcmd.BuildSiteCommand{
		Collections:    bootstrap.SplitList(*collections),
		DryRun:         *dryRun,
		ResultCallback: logBuildResult,
	}
	if err := resources.handlers.build.Execute(ctx, cmd); err != nil {
		return fmt.Errorf("execute build command: %w", err)
	}
	return nil
}

func runClean(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("makesite clean", flag.ContinueOnError)
	flags := registerModuleFlags(fs)
	if err := fs.Parse(args); err != nil {
		return ignoreHelp(err)
	}
	opts, err := flags.options(fs)
	if err != nil {
		return err
	}

	resources, err := moduleBuilder(opts)
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	if resources == nil || resources.handlers.clean == nil {
		return errors.New("clean handler not configured")
	}
	if err := resources.handlers.clean.Execute(ctx, staticcmd.CleanSiteCommand{}); err != nil {
		return fmt.Errorf("execute clean command: %w", err)
	}
	log.Printf("module=makesite operation=clean completed")
	return nil
}

// moduleFlags holds the flags shared by every subcommand.
type moduleFlags struct {
	opts    moduleOptions
	envFile string
	workers int
}

func registerModuleFlags(fs *flag.FlagSet) *moduleFlags {
	f := &moduleFlags{}
	fs.StringVar(&f.opts.ConfigPath, "config", "", "Path to a YAML config file")
	fs.StringVar(&f.envFile, "env-file", ".env", "Comma separated dotenv files read for MAKESITE_* overrides")
	fs.StringVar(&f.opts.ContentDir, "content", "", "Content directory (default content)")
	fs.StringVar(&f.opts.LayoutsDir, "layouts", "", "Layout directory (default layout)")
	fs.StringVar(&f.opts.StaticDir, "static", "", "Static asset directory (default static)")
	fs.StringVar(&f.opts.OutputDir, "out", "", "Output directory (default _site)")
	fs.StringVar(&f.opts.ParamsFile, "params", "", "JSON or YAML site parameters file")
	fs.StringVar(&f.opts.MetricsFile, "metrics-file", "", "Write build metrics in the Prometheus text format")
	fs.IntVar(&f.workers, "workers", 0, "Render workers; -1 uses one per CPU")
	fs.StringVar(&f.opts.LogProvider, "logger", "", "Logging provider (console|gologger)")
	fs.StringVar(&f.opts.LogLevel, "log-level", "", "Minimum log level")
	fs.StringVar(&f.opts.LogFormat, "log-format", "", "Log format for the gologger provider")
	return f
}

// options returns the bootstrap options once fs has been parsed. Workers is
// only overridden when the flag was given.
func (f *moduleFlags) options(fs *flag.FlagSet) (moduleOptions, error) {
	if fs.NArg() > 0 {
		return moduleOptions{}, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	opts := f.opts
	opts.EnvFiles = bootstrap.SplitList(f.envFile)
	fs.Visit(func(fl *flag.Flag) {
		if fl.Name == "workers" {
			workers := f.workers
			opts.Workers = &workers
		}
	})
	return opts, nil
}

func ignoreHelp(err error) error {
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	return err
}

func logBuildResult(envelope staticcmd.ResultEnvelope) {
	operation, _ := envelope.Metadata["operation"].(string)
	if operation == "" {
		operation = "build"
	}
	result := envelope.Result
	if err, ok := envelope.Metadata["error"].(error); ok && err != nil {
		if result == nil {
			log.Printf("module=makesite operation=%s failed error=%q", operation, err)
			return
		}
		log.Printf("module=makesite operation=%s failed build_id=%s pages=%d lists=%d assets=%d duration=%s error=%q",
			operation, result.BuildID, result.Pages, result.Lists, result.Assets, result.Duration, err)
		return
	}
	if result == nil {
		log.Printf("module=makesite operation=%s completed", operation)
		return
	}
	log.Printf("module=makesite operation=%s summary build_id=%s pages=%d lists=%d assets=%d duration=%s dry_run=%t",
		operation, result.BuildID, result.Pages, result.Lists, result.Assets, result.Duration, result.DryRun)
}
