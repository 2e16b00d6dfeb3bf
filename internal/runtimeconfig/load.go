package runtimeconfig

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix namespaces the environment overrides.
const EnvPrefix = "MAKESITE_"

// Env resolves environment variables.
type Env func(key string) (string, bool)

// ProcessEnv reads the process environment only.
func ProcessEnv() Env {
	return os.LookupEnv
}

// LoadEnv layers dotenv files under the process environment. Missing files
// are skipped; values already present in the process environment win, and
// earlier files win over later ones.
func LoadEnv(files ...string) (Env, error) {
	values := map[string]string{}
	for _, name := range files {
		if strings.TrimSpace(name) == "" {
			continue
		}
		read, err := godotenv.Read(name)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("makesite config: read %s: %w", name, err)
		}
		for key, value := range read {
			if _, ok := values[key]; !ok {
				values[key] = value
			}
		}
	}
	return func(key string) (string, bool) {
		if value, ok := os.LookupEnv(key); ok {
			return value, true
		}
		value, ok := values[key]
		return value, ok
	}, nil
}

// Load reads a YAML (or JSON) configuration file over DefaultConfig, expands
// ${VAR} references through env and applies the MAKESITE_* overrides. An
// empty path starts from the defaults. The result is validated.
func Load(path string, env Env) (Config, error) {
	if env == nil {
		env = ProcessEnv()
	}
	cfg := DefaultConfig()

	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("makesite config: read %s: %w", path, err)
		}
		expanded := os.Expand(string(data), func(key string) string {
			value, _ := env(key)
			return value
		})
		decoder := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
		decoder.KnownFields(true)
		if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, fmt.Errorf("makesite config: parse %s: %w", path, err)
		}
	}

	if err := ApplyEnv(&cfg, env); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyEnv overrides cfg with the MAKESITE_* variables found in env.
func ApplyEnv(cfg *Config, env Env) error {
	if cfg == nil || env == nil {
		return nil
	}
	strs := map[string]*string{
		"CONTENT_DIR":  &cfg.Paths.Content,
		"LAYOUT_DIR":   &cfg.Paths.Layouts,
		"STATIC_DIR":   &cfg.Paths.Static,
		"OUTPUT_DIR":   &cfg.Paths.Output,
		"PARAMS_FILE":  &cfg.Paths.Params,
		"METRICS_FILE": &cfg.Generator.MetricsFile,
		"LOG_PROVIDER": &cfg.Logging.Provider,
		"LOG_LEVEL":    &cfg.Logging.Level,
		"LOG_FORMAT":   &cfg.Logging.Format,
		"INDEX_SOURCE": &cfg.Generator.IndexSource,
		"PAGES_SOURCE": &cfg.Generator.PagesSource,
	}
	for suffix, target := range strs {
		if value, ok := env(EnvPrefix + suffix); ok {
			*target = strings.TrimSpace(value)
		}
	}

	ints := map[string]*int{
		"WORKERS":       &cfg.Generator.Workers,
		"SUMMARY_WORDS": &cfg.Generator.SummaryWords,
	}
	for suffix, target := range ints {
		value, ok := env(EnvPrefix + suffix)
		if !ok {
			continue
		}
		parsed, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("makesite config: %s%s: %w", EnvPrefix, suffix, err)
		}
		*target = parsed
	}

	bools := map[string]*bool{
		"CLEAN_BUILD":    &cfg.Generator.CleanBuild,
		"COPY_ASSETS":    &cfg.Generator.CopyAssets,
		"GENERATE_FEEDS": &cfg.Generator.GenerateFeeds,
		"MARKDOWN":       &cfg.Markdown.Enabled,
		"FRONT_MATTER":   &cfg.Markdown.FrontMatter,
	}
	for suffix, target := range bools {
		value, ok := env(EnvPrefix + suffix)
		if !ok {
			continue
		}
		parsed, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("makesite config: %s%s: %w", EnvPrefix, suffix, err)
		}
		*target = parsed
	}
	return nil
}
