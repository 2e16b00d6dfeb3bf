package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-makesite/pkg/interfaces"
)

const (
	rootModule      = "makesite"
	markdownModule  = "makesite.markdown"
	generatorModule = "makesite.generator"
)

const (
	fieldBuildID    = "build_id"
	fieldCollection = "collection"
)

// ModuleLogger returns a logger scoped to module, falling back to NoOp when
// provider is nil or hands back nothing. The module name is attached as a
// structured field.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}
	return WithFields(logger, map[string]any{"module": module})
}

// MarkdownLogger returns the logger used by content loading.
func MarkdownLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, markdownModule)
}

// GeneratorLogger returns the logger used by page, list and site builds.
func GeneratorLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, generatorModule)
}

// WithBuildContext tags logger with the build identifier and, when set, the
// collection being processed.
func WithBuildContext(logger interfaces.Logger, buildID, collection string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(buildID); trimmed != "" {
		fields[fieldBuildID] = trimmed
	}
	if trimmed := strings.TrimSpace(collection); trimmed != "" {
		fields[fieldCollection] = trimmed
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var (
	_ interfaces.Logger       = noopLogger{}
	_ interfaces.FieldsLogger = noopLogger{}
)

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger { return n }

func (n noopLogger) WithContext(context.Context) interfaces.Logger { return n }
