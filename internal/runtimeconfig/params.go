package runtimeconfig

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-makesite/internal/validation"
)

// DefaultParamsFiles are looked up in order when no params path is set.
var DefaultParamsFiles = []string{"params.json", "params.yaml", "params.yml"}

// LoadParams reads the site parameter file at path. Files ending in .json
// are decoded as JSON, anything else as YAML. The document must be a flat
// object of scalars. An empty path loads the first DefaultParamsFiles entry
// found in the working directory, or yields no parameters when none exists.
func LoadParams(path string) (map[string]any, error) {
	if strings.TrimSpace(path) == "" {
		found, err := FindParams(".")
		if err != nil || found == "" {
			return nil, err
		}
		path = found
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("makesite params: read %s: %w", path, err)
	}
	params, err := decodeParams(filepath.Ext(path), data)
	if err != nil {
		return nil, fmt.Errorf("makesite params: parse %s: %w", path, err)
	}
	if err := validation.ValidateSiteParams(params); err != nil {
		return nil, fmt.Errorf("makesite params: %s: %w", path, err)
	}
	return params, nil
}

// FindParams returns the first DefaultParamsFiles entry that exists in dir as
// a regular file, or "" when there is none.
func FindParams(dir string) (string, error) {
	for _, name := range DefaultParamsFiles {
		candidate := filepath.Join(dir, name)
		info, err := os.Stat(candidate)
		switch {
		case err == nil && info.Mode().IsRegular():
			return candidate, nil
		case err == nil, errors.Is(err, fs.ErrNotExist):
			continue
		default:
			return "", fmt.Errorf("makesite params: stat %s: %w", candidate, err)
		}
	}
	return "", nil
}

func decodeParams(ext string, data []byte) (map[string]any, error) {
	params := map[string]any{}
	if len(bytes.TrimSpace(data)) == 0 {
		return params, nil
	}
	if strings.EqualFold(ext, ".json") {
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.UseNumber()
		if err := decoder.Decode(&params); err != nil {
			return nil, err
		}
		return params, nil
	}
	if err := yaml.Unmarshal(data, &params); err != nil {
		return nil, err
	}
	return params, nil
}
