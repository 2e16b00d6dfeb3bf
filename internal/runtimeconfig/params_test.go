package runtimeconfig_test

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-makesite/internal/runtimeconfig"
	"github.com/goliatone/go-makesite/internal/validation"
)

func TestLoadParams_YAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "params.yaml", `
author: Ann
site_url: https://example.com
current_year: 2031
show_drafts: false
`)
	params, err := runtimeconfig.LoadParams(path)
	if err != nil {
		t.Fatalf("LoadParams: %v", err)
	}
	if params["author"] != "Ann" || params["current_year"] != 2031 || params["show_drafts"] != false {
		t.Fatalf("unexpected params %v", params)
	}
}

func TestLoadParams_JSONKeepsNumbers(t *testing.T) {
	path := writeFile(t, t.TempDir(), "params.json", `{"subtitle": "Notes", "current_year": 2031, "ratio": 0.5}`)
	params, err := runtimeconfig.LoadParams(path)
	if err != nil {
		t.Fatalf("LoadParams: %v", err)
	}
	if fmt.Sprint(params["current_year"]) != "2031" || fmt.Sprint(params["ratio"]) != "0.5" {
		t.Fatalf("unexpected numbers %v", params)
	}
}

func TestLoadParams_EmptyPathAndFile(t *testing.T) {
	t.Chdir(t.TempDir())
	params, err := runtimeconfig.LoadParams("")
	if err != nil || params != nil {
		t.Fatalf("expected nil params, got %v %v", params, err)
	}
	path := writeFile(t, t.TempDir(), "params.yaml", "\n")
	params, err = runtimeconfig.LoadParams(path)
	if err != nil || len(params) != 0 {
		t.Fatalf("expected empty params, got %v %v", params, err)
	}
}

func TestLoadParams_DiscoversDefaultFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "params.yml", "author: Yml\n")
	writeFile(t, dir, "params.json", `{"author": "Json"}`)
	t.Chdir(dir)

	params, err := runtimeconfig.LoadParams("")
	if err != nil {
		t.Fatalf("LoadParams: %v", err)
	}
	if params["author"] != "Json" {
		t.Fatalf("expected params.json to win, got %v", params)
	}
}

func TestFindParams(t *testing.T) {
	dir := t.TempDir()
	if found, err := runtimeconfig.FindParams(dir); err != nil || found != "" {
		t.Fatalf("expected nothing in empty dir, got %q %v", found, err)
	}

	writeFile(t, dir, "params.yml", "author: Ann\n")
	found, err := runtimeconfig.FindParams(dir)
	if err != nil || found != filepath.Join(dir, "params.yml") {
		t.Fatalf("expected params.yml, got %q %v", found, err)
	}

	if err := os.Mkdir(filepath.Join(dir, "params.yaml"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	found, err = runtimeconfig.FindParams(dir)
	if err != nil || found != filepath.Join(dir, "params.yml") {
		t.Fatalf("expected directories to be skipped, got %q %v", found, err)
	}
}

func TestLoadParams_RejectsNestedValues(t *testing.T) {
	path := writeFile(t, t.TempDir(), "params.yaml", "menu:\n  home: /\n")
	_, err := runtimeconfig.LoadParams(path)
	if !errors.Is(err, validation.ErrSchemaValidation) {
		t.Fatalf("expected schema validation error, got %v", err)
	}
}

func TestLoadParams_Malformed(t *testing.T) {
	path := writeFile(t, t.TempDir(), "params.json", `{"author": `)
	if _, err := runtimeconfig.LoadParams(path); err == nil {
		t.Fatal("expected parse error")
	}
}
