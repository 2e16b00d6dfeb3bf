package runtimeconfig_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-makesite/internal/runtimeconfig"
)

func mapEnv(values map[string]string) runtimeconfig.Env {
	return func(key string) (string, bool) {
		value, ok := values[key]
		return value, ok
	}
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := runtimeconfig.Load("", mapEnv(nil))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Paths.Output != "_site" || !cfg.Generator.GenerateFeeds {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoad_YAMLFileWithExpansion(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "makesite.yaml", `
paths:
  content: ${SITE_ROOT}/content
  output: ${SITE_ROOT}/public
collections:
  - name: notes
    title: Field Notes
    source: notes/*.md
generator:
  workers: 4
  generate_feeds: false
logging:
  provider: gologger
  format: json
`)

	cfg, err := runtimeconfig.Load(path, mapEnv(map[string]string{"SITE_ROOT": "/srv/site"}))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Paths.Content != "/srv/site/content" || cfg.Paths.Output != "/srv/site/public" {
		t.Fatalf("expected expanded paths, got %+v", cfg.Paths)
	}
	if len(cfg.Collections) != 1 || cfg.Collections[0].Title != "Field Notes" {
		t.Fatalf("expected collections to be replaced, got %+v", cfg.Collections)
	}
	if cfg.Generator.Workers != 4 || cfg.Generator.GenerateFeeds {
		t.Fatalf("unexpected generator config %+v", cfg.Generator)
	}
	if !cfg.Generator.CleanBuild || cfg.Paths.Static != "static" {
		t.Fatal("expected unspecified keys to keep their defaults")
	}
}

func TestLoad_RejectsUnknownKeys(t *testing.T) {
	path := writeFile(t, t.TempDir(), "makesite.yaml", "paths:\n  contnet: x\n")
	if _, err := runtimeconfig.Load(path, mapEnv(nil)); err == nil {
		t.Fatal("expected unknown key to be rejected")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := runtimeconfig.Load(filepath.Join(t.TempDir(), "nope.yaml"), mapEnv(nil)); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestLoad_ValidatesResult(t *testing.T) {
	_, err := runtimeconfig.Load("", mapEnv(map[string]string{"MAKESITE_OUTPUT_DIR": "/"}))
	if !errors.Is(err, runtimeconfig.ErrOutputDirUnsafe) {
		t.Fatalf("expected ErrOutputDirUnsafe, got %v", err)
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	err := runtimeconfig.ApplyEnv(&cfg, mapEnv(map[string]string{
		"MAKESITE_OUTPUT_DIR":     " public ",
		"MAKESITE_LOG_LEVEL":      "debug",
		"MAKESITE_WORKERS":        "-1",
		"MAKESITE_GENERATE_FEEDS": "false",
		"MAKESITE_FRONT_MATTER":   "true",
		"OUTPUT_DIR":              "ignored",
	}))
	if err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	if cfg.Paths.Output != "public" || cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected string overrides %+v %+v", cfg.Paths, cfg.Logging)
	}
	if cfg.Generator.Workers != -1 || cfg.Generator.GenerateFeeds || !cfg.Markdown.FrontMatter {
		t.Fatalf("unexpected typed overrides %+v %+v", cfg.Generator, cfg.Markdown)
	}
}

func TestApplyEnv_RejectsMalformedValues(t *testing.T) {
	for key, value := range map[string]string{
		"MAKESITE_WORKERS":     "many",
		"MAKESITE_COPY_ASSETS": "sometimes",
	} {
		cfg := runtimeconfig.DefaultConfig()
		if err := runtimeconfig.ApplyEnv(&cfg, mapEnv(map[string]string{key: value})); err == nil {
			t.Fatalf("expected %s=%s to be rejected", key, value)
		}
	}
}

func TestLoadEnv_DotenvFiles(t *testing.T) {
	dir := t.TempDir()
	first := writeFile(t, dir, ".env", "MAKESITE_TEST_ONLY_A=from-env\nMAKESITE_TEST_ONLY_B=first\n")
	second := writeFile(t, dir, ".env.local", "MAKESITE_TEST_ONLY_B=second\nMAKESITE_TEST_ONLY_C=local\n")
	t.Setenv("MAKESITE_TEST_ONLY_A", "from-process")

	env, err := runtimeconfig.LoadEnv(first, second, filepath.Join(dir, "missing.env"))
	if err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}

	cases := map[string]string{
		"MAKESITE_TEST_ONLY_A": "from-process",
		"MAKESITE_TEST_ONLY_B": "first",
		"MAKESITE_TEST_ONLY_C": "local",
	}
	for key, want := range cases {
		if got, ok := env(key); !ok || got != want {
			t.Fatalf("%s = %q (%v), want %q", key, got, ok, want)
		}
	}
	if _, ok := env("MAKESITE_TEST_ONLY_MISSING"); ok {
		t.Fatal("expected missing key to be absent")
	}
}
