package testsupport

import (
	"context"
	"maps"
	"sync"

	"github.com/goliatone/go-makesite/pkg/interfaces"
)

// Entry is a single captured log call.
type Entry struct {
	Level   string
	Message string
	Args    []any
	Fields  map[string]any
}

// RecordingLogger captures entries in memory. Child loggers created through
// WithFields share the parent's entry list.
type RecordingLogger struct {
	sink   *entrySink
	fields map[string]any
}

type entrySink struct {
	mu      sync.Mutex
	entries []Entry
}

var (
	_ interfaces.Logger         = (*RecordingLogger)(nil)
	_ interfaces.FieldsLogger   = (*RecordingLogger)(nil)
	_ interfaces.LoggerProvider = (*RecordingLogger)(nil)
)

// NewRecordingLogger returns an empty recorder.
func NewRecordingLogger() *RecordingLogger {
	return &RecordingLogger{sink: &entrySink{}}
}

func (r *RecordingLogger) Trace(msg string, args ...any) { r.record("trace", msg, args) }
func (r *RecordingLogger) Debug(msg string, args ...any) { r.record("debug", msg, args) }
func (r *RecordingLogger) Info(msg string, args ...any)  { r.record("info", msg, args) }
func (r *RecordingLogger) Warn(msg string, args ...any)  { r.record("warn", msg, args) }
func (r *RecordingLogger) Error(msg string, args ...any) { r.record("error", msg, args) }
func (r *RecordingLogger) Fatal(msg string, args ...any) { r.record("fatal", msg, args) }

func (r *RecordingLogger) WithFields(fields map[string]any) interfaces.Logger {
	merged := maps.Clone(r.fields)
	if merged == nil {
		merged = map[string]any{}
	}
	maps.Copy(merged, fields)
	return &RecordingLogger{sink: r.sink, fields: merged}
}

func (r *RecordingLogger) WithContext(context.Context) interfaces.Logger {
	return r
}

// GetLogger lets the recorder stand in as a provider for every module.
func (r *RecordingLogger) GetLogger(string) interfaces.Logger {
	return r
}

// Entries returns a snapshot of captured entries.
func (r *RecordingLogger) Entries() []Entry {
	r.sink.mu.Lock()
	defer r.sink.mu.Unlock()
	return append([]Entry(nil), r.sink.entries...)
}

// Has reports whether an entry with level and message was captured.
func (r *RecordingLogger) Has(level, message string) bool {
	for _, entry := range r.Entries() {
		if entry.Level == level && entry.Message == message {
			return true
		}
	}
	return false
}

func (r *RecordingLogger) record(level, msg string, args []any) {
	r.sink.mu.Lock()
	defer r.sink.mu.Unlock()
	r.sink.entries = append(r.sink.entries, Entry{
		Level:   level,
		Message: msg,
		Args:    append([]any(nil), args...),
		Fields:  maps.Clone(r.fields),
	})
}
