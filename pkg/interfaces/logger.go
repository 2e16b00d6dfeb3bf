package interfaces

import "context"

// Logger is the leveled logging contract used across the build pipeline. The
// method set matches github.com/goliatone/go-logger so its loggers can be
// plugged in through a thin adapter.
type Logger interface {
	Trace(msg string, args ...any)
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Fatal(msg string, args ...any)
	WithContext(ctx context.Context) Logger
}

// LoggerProvider hands out named loggers, typically one per module.
type LoggerProvider interface {
	GetLogger(name string) Logger
}

// FieldsLogger is implemented by loggers that can carry persistent structured
// fields on every entry they emit.
type FieldsLogger interface {
	WithFields(fields map[string]any) Logger
}
