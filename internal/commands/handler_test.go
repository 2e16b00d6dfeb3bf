package commands

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-makesite/pkg/testsupport"
)

type testMessage struct{}

func (testMessage) Type() string { return "makesite.test.message" }

func (testMessage) Validate() error { return nil }

type invalidMessage struct{}

func (invalidMessage) Type() string { return "makesite.test.invalid" }

func (invalidMessage) Validate() error {
	return validationError()
}

func validationError() error {
	return errors.New("invalid")
}

func TestHandlerExecuteSuccess(t *testing.T) {
	called := false
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		called = true
		return nil
	})

	if err := h.Execute(context.Background(), testMessage{}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !called {
		t.Fatal("expected handler to be invoked")
	}
}

func TestHandlerValidationShortCircuitsExecution(t *testing.T) {
	called := false
	h := NewHandler[invalidMessage](func(ctx context.Context, msg invalidMessage) error {
		called = true
		return nil
	})

	err := h.Execute(context.Background(), invalidMessage{})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if called {
		t.Fatal("expected handler not to run when validation fails")
	}
}

func TestHandlerContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		called = true
		return nil
	})

	err := h.Execute(ctx, testMessage{})
	if err == nil {
		t.Fatal("expected context cancellation error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if called {
		t.Fatal("expected handler not to run when context is cancelled")
	}
}

func TestHandlerWrapsExecutionError(t *testing.T) {
	execErr := errors.New("boom")
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		return execErr
	})

	err := h.Execute(context.Background(), testMessage{})
	if err == nil {
		t.Fatal("expected wrapped execution error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if !goerrors.HasCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category to propagate, got %v", err)
	}
	var tagged *goerrors.Error
	if !errors.As(err, &tagged) || tagged.Metadata["command"] != "makesite.test.message" {
		t.Fatalf("expected command type in metadata, got %#v", err)
	}
	if !strings.Contains(err.Error(), "makesite.test.message") {
		t.Fatalf("expected command type in message, got %q", err.Error())
	}
}

func TestHandlerHonoursTimeoutOption(t *testing.T) {
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(20 * time.Millisecond):
			return nil
		}
	}, WithTimeout[testMessage](10*time.Millisecond))

	err := h.Execute(context.Background(), testMessage{})
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category for timeout, got %v", err)
	}
}

type fieldsMessage struct {
	Name string
}

func (fieldsMessage) Type() string { return "makesite.test.fields" }

func (fieldsMessage) Validate() error { return nil }

func TestHandlerMessageFieldsReachLogger(t *testing.T) {
	logger := testsupport.NewRecordingLogger()
	h := NewHandler(func(context.Context, fieldsMessage) error { return nil },
		WithLogger[fieldsMessage](logger),
		WithOperation[fieldsMessage]("test.fields"),
		WithMessageFields(func(msg fieldsMessage) map[string]any {
			return map[string]any{"name": msg.Name}
		}),
	)

	if err := h.Execute(context.Background(), fieldsMessage{Name: "blog"}); err != nil {
		t.Fatalf("execute: %v", err)
	}

	var found bool
	for _, entry := range logger.Entries() {
		if entry.Message != "command.execute.success" {
			continue
		}
		found = true
		if entry.Fields["name"] != "blog" || entry.Fields["operation"] != "test.fields" || entry.Fields["command"] != "makesite.test.fields" {
			t.Fatalf("unexpected fields %v", entry.Fields)
		}
	}
	if !found {
		t.Fatalf("expected success entry, got %v", logger.Entries())
	}
}

func TestHandlerTelemetryReceivesOutcome(t *testing.T) {
	var infos []TelemetryInfo
	telemetry := func(_ context.Context, _ testMessage, info TelemetryInfo) {
		infos = append(infos, info)
	}
	execErr := errors.New("boom")
	calls := 0
	h := NewHandler(func(context.Context, testMessage) error {
		calls++
		if calls == 2 {
			return execErr
		}
		return nil
	}, WithTelemetry[testMessage](telemetry))

	if err := h.Execute(context.Background(), testMessage{}); err != nil {
		t.Fatalf("first execute: %v", err)
	}
	if err := h.Execute(context.Background(), testMessage{}); !errors.Is(err, execErr) {
		t.Fatalf("expected wrapped boom, got %v", err)
	}

	if len(infos) != 2 {
		t.Fatalf("expected 2 telemetry calls, got %d", len(infos))
	}
	if infos[0].Status != TelemetryStatusSuccess || infos[0].Error != nil {
		t.Fatalf("unexpected first outcome %+v", infos[0])
	}
	if infos[1].Status != TelemetryStatusFailed || infos[1].Command != "makesite.test.message" {
		t.Fatalf("unexpected second outcome %+v", infos[1])
	}
}

func TestDefaultTelemetryLogsFailures(t *testing.T) {
	logger := testsupport.NewRecordingLogger()
	h := NewHandler(func(context.Context, testMessage) error {
		return errors.New("boom")
	}, WithTelemetry(DefaultTelemetry[testMessage](logger)))

	if err := h.Execute(context.Background(), testMessage{}); err == nil {
		t.Fatal("expected error")
	}
	if !logger.Has("error", "command.execute.failed") {
		t.Fatalf("expected failure entry, got %v", logger.Entries())
	}
}

func TestCommandLoggerTagsModule(t *testing.T) {
	logger := testsupport.NewRecordingLogger()
	CommandLogger(logger, " static ").Info("ready")

	entries := logger.Entries()
	if len(entries) != 1 || entries[0].Fields["command_module"] != "static" || entries[0].Fields["component"] != "command" {
		t.Fatalf("unexpected entries %v", entries)
	}
}

func TestHandlerAddsNoDeadlineByDefault(t *testing.T) {
	var hasDeadline bool
	h := NewHandler(func(ctx context.Context, _ testMessage) error {
		_, hasDeadline = ctx.Deadline()
		return nil
	})

	if err := h.Execute(context.Background(), testMessage{}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if hasDeadline {
		t.Fatal("expected no deadline without WithTimeout")
	}
}

func TestDefaultTelemetryUsesScopedEntry(t *testing.T) {
	logger := testsupport.NewRecordingLogger()
	h := NewHandler(func(context.Context, testMessage) error { return nil },
		WithLogger[testMessage](logger),
		WithOperation[testMessage]("test.telemetry"),
		WithTelemetry(DefaultTelemetry[testMessage](nil)),
	)

	if err := h.Execute(context.Background(), testMessage{}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	for _, entry := range logger.Entries() {
		if entry.Message != "command.execute.success" {
			continue
		}
		if entry.Fields["operation"] != "test.telemetry" || entry.Fields["command"] != "makesite.test.message" {
			t.Fatalf("unexpected fields %v", entry.Fields)
		}
		if len(entry.Args) < 2 || entry.Args[0] != "status" || entry.Args[1] != "success" {
			t.Fatalf("unexpected args %v", entry.Args)
		}
		return
	}
	t.Fatalf("expected success entry, got %v", logger.Entries())
}
