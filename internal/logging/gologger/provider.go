package gologger

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-makesite/internal/logging"
	"github.com/goliatone/go-makesite/pkg/interfaces"
)

// Config selects the go-logger level, output format and focus modules.
type Config struct {
	Level     string
	Format    string
	AddSource bool
	// Focus restricts output to the named module loggers, e.g.
	// "makesite.generator".
	Focus []string
}

// Provider exposes go-logger child loggers as makesite module loggers.
// Errors logged through it are expanded into text_code, category and
// metadata attributes so a failed page shows its source path.
type Provider struct {
	root *glog.BaseLogger
}

var formatOptions = map[string]glog.Option{
	"json":    glog.WithLoggerTypeJSON(),
	"console": glog.WithLoggerTypeConsole(),
	"pretty":  glog.WithLoggerTypePretty(),
}

// NewProvider builds the go-logger root. Format accepts json (default),
// console and pretty.
func NewProvider(cfg Config) (*Provider, error) {
	format := strings.ToLower(strings.TrimSpace(cfg.Format))
	if format == "" {
		format = "json"
	}
	formatOption, ok := formatOptions[format]
	if !ok {
		return nil, fmt.Errorf("logging: unsupported go-logger format %q", cfg.Format)
	}

	options := []glog.Option{
		glog.WithName("makesite"),
		formatOption,
		glog.WithRichErrorHandler(goerrors.ToSlogAttributes),
	}
	if level := normalizeLevel(cfg.Level); level != "" {
		options = append(options, glog.WithLevel(level))
	}
	if cfg.AddSource {
		options = append(options, glog.WithAddSource(true))
	}

	root := glog.NewLogger(options...)
	if focus := normalizeFocus(cfg.Focus); len(focus) > 0 {
		root.Focus(focus...)
	}
	return &Provider{root: root}, nil
}

// Formats lists the output formats NewProvider accepts.
func Formats() []string {
	return slices.Sorted(maps.Keys(formatOptions))
}

// GetLogger returns the child logger registered under name.
func (p *Provider) GetLogger(name string) interfaces.Logger {
	if p == nil || p.root == nil {
		return logging.NoOp()
	}
	if name = strings.TrimSpace(name); name == "" {
		return &moduleLogger{inner: p.root}
	}
	return &moduleLogger{inner: p.root.GetLogger(name)}
}

// moduleLogger carries fields as trailing key/value pairs when the wrapped
// logger cannot scope them itself.
type moduleLogger struct {
	inner glog.Logger
	args  []any
}

var _ interfaces.FieldsLogger = (*moduleLogger)(nil)

func (l *moduleLogger) Trace(msg string, args ...any) { l.inner.Trace(msg, l.with(args)...) }
func (l *moduleLogger) Debug(msg string, args ...any) { l.inner.Debug(msg, l.with(args)...) }
func (l *moduleLogger) Info(msg string, args ...any)  { l.inner.Info(msg, l.with(args)...) }
func (l *moduleLogger) Warn(msg string, args ...any)  { l.inner.Warn(msg, l.with(args)...) }
func (l *moduleLogger) Error(msg string, args ...any) { l.inner.Error(msg, l.with(args)...) }
func (l *moduleLogger) Fatal(msg string, args ...any) { l.inner.Fatal(msg, l.with(args)...) }

func (l *moduleLogger) with(args []any) []any {
	if len(l.args) == 0 {
		return args
	}
	return append(slices.Clip(args), l.args...)
}

func (l *moduleLogger) WithFields(fields map[string]any) interfaces.Logger {
	if len(fields) == 0 {
		return l
	}
	if scoped, ok := l.inner.(glog.FieldsLogger); ok {
		return &moduleLogger{inner: scoped.WithFields(maps.Clone(fields)), args: l.args}
	}
	args := slices.Clone(l.args)
	for _, key := range slices.Sorted(maps.Keys(fields)) {
		args = append(args, key, fields[key])
	}
	return &moduleLogger{inner: l.inner, args: args}
}

func (l *moduleLogger) WithContext(ctx context.Context) interfaces.Logger {
	if ctx == nil {
		return l
	}
	return &moduleLogger{inner: l.inner.WithContext(ctx), args: l.args}
}

func normalizeLevel(level string) string {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return glog.Trace
	case "debug":
		return glog.Debug
	case "info":
		return glog.Info
	case "warn", "warning":
		return glog.Warn
	case "error":
		return glog.Error
	case "fatal":
		return glog.Fatal
	default:
		return ""
	}
}

func normalizeFocus(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if trimmed := strings.TrimSpace(name); trimmed != "" && !slices.Contains(out, trimmed) {
			out = append(out, trimmed)
		}
	}
	return out
}
