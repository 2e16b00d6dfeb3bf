package di_test

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	staticcmd "github.com/goliatone/go-makesite/internal/commands/static"
	"github.com/goliatone/go-makesite/internal/di"
	"github.com/goliatone/go-makesite/internal/runtimeconfig"
	"github.com/goliatone/go-makesite/pkg/testsupport"
)

func TestContainerBuildLogsThroughModuleLoggers(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteTree(t, filepath.Join(root, "content"), map[string]string{
		"blog/2024-01-01-hello.md": "<!-- title: Hello -->\nHi *there*\n",
	})

	cfg := runtimeconfig.DefaultConfig()
	cfg.Paths.Content = filepath.Join(root, "content")
	cfg.Paths.Layouts = ""
	cfg.Paths.Static = ""
	cfg.Paths.Output = filepath.Join(root, "_site")

	rec := testsupport.NewRecordingLogger()
	container, err := di.NewContainer(cfg, di.WithLoggerProvider(rec))
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}

	if err := container.BuildSiteHandler().Execute(context.Background(), staticcmd.BuildSiteCommand{}); err != nil {
		t.Fatalf("build: %v", err)
	}

	var completed *testsupport.Entry
	for _, entry := range rec.Entries() {
		if entry.Message == "generator.build.completed" {
			completed = &entry
			break
		}
	}
	if completed == nil {
		t.Fatalf("expected generator.build.completed entry, got %v", rec.Entries())
	}
	if got := completed.Fields["module"]; got != "makesite.generator" {
		t.Fatalf("expected module field makesite.generator, got %v", got)
	}
	if _, ok := completed.Fields["build_id"]; !ok {
		t.Fatalf("expected build_id field, got %v", completed.Fields)
	}
	if !rec.Has("info", "command.execute.success") {
		t.Fatal("expected command success entry")
	}

	tree := testsupport.ReadTree(t, cfg.Paths.Output)
	if !strings.Contains(tree["blog/hello/index.html"], "<em>there</em>") {
		t.Fatalf("expected rendered markdown post, got %v", tree)
	}
}

func TestContainerConsoleProviderWritesToLogWriter(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Paths.Content = t.TempDir()
	cfg.Paths.Output = filepath.Join(t.TempDir(), "_site")
	cfg.Logging.Level = "debug"

	var buf bytes.Buffer
	if _, err := di.NewContainer(cfg, di.WithLogWriter(&buf)); err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	if !strings.Contains(buf.String(), "container.configured") {
		t.Fatalf("expected debug entry in console output, got %q", buf.String())
	}
}

func TestContainerRejectsInvalidConfig(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Paths.Output = ""
	if _, err := di.NewContainer(cfg); err == nil {
		t.Fatal("expected invalid config error")
	}
}

func TestContainerLoadsSiteParams(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteTree(t, dir, map[string]string{"params.yaml": "author: Ann\n"})

	cfg := runtimeconfig.DefaultConfig()
	cfg.Paths.Content = dir
	cfg.Paths.Output = filepath.Join(dir, "_site")
	cfg.Paths.Params = filepath.Join(dir, "params.yaml")

	container, err := di.NewContainer(cfg, di.WithLoggerProvider(testsupport.NewRecordingLogger()))
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	if container.SiteParams()["author"] != "Ann" {
		t.Fatalf("unexpected params %v", container.SiteParams())
	}

	testsupport.WriteTree(t, dir, map[string]string{"params.yaml": "menu:\n  home: /\n"})
	if _, err := di.NewContainer(cfg, di.WithLoggerProvider(testsupport.NewRecordingLogger())); err == nil {
		t.Fatal("expected nested params to be rejected")
	}
}

func TestContainerDiscoversParamsInWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteTree(t, dir, map[string]string{"params.json": `{"author": "Bea", "subtitle": "Notes"}`})
	t.Chdir(dir)

	cfg := runtimeconfig.DefaultConfig()
	cfg.Paths.Content = dir
	cfg.Paths.Output = filepath.Join(dir, "_site")
	cfg.Paths.Params = ""

	container, err := di.NewContainer(cfg, di.WithLoggerProvider(testsupport.NewRecordingLogger()))
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	if container.SiteParams()["author"] != "Bea" || container.SiteParams()["subtitle"] != "Notes" {
		t.Fatalf("expected params.json to be picked up, got %v", container.SiteParams())
	}
}
