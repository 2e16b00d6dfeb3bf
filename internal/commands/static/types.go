package staticcmd

import (
	"errors"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-makesite/internal/generator"
)

const (
	buildSiteMessageType = "makesite.static.build"
	cleanSiteMessageType = "makesite.static.clean"
)

// ErrGeneratorUnavailable is returned when a handler was wired without a
// generator service.
var ErrGeneratorUnavailable = errors.New("staticcmd: generator service unavailable")

var collectionNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// ResultCallback receives build results produced by generator operations. The callback is optional
// and is invoked synchronously from the handler after every build, including failed ones.
type ResultCallback func(ResultEnvelope)

// ResultEnvelope captures the outcome of a static command execution. Result may
// be partial when Metadata["error"] is set.
type ResultEnvelope struct {
	Result   *generator.BuildResult
	Metadata map[string]any
}

// BuildSiteCommand executes a generator build.
type BuildSiteCommand struct {
	// Collections limits the collection passes; empty builds all of them.
	Collections    []string       `json:"collections,omitempty"`
	DryRun         bool           `json:"dry_run,omitempty"`
	ResultCallback ResultCallback `json:"-"`
}

// Type implements command.Message.
func (BuildSiteCommand) Type() string { return buildSiteMessageType }

// Validate ensures collection names are well-formed. Blank entries are
// skipped; the handler drops them before the build runs.
func (m BuildSiteCommand) Validate() error {
	errs := validation.Errors{}
	for _, name := range m.Collections {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			continue
		}
		if !collectionNamePattern.MatchString(trimmed) {
			errs["collections"] = validation.NewError("makesite.static.build.collection_invalid", "collections must be lowercase names")
			break
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// CleanSiteCommand removes the generated output directory.
type CleanSiteCommand struct{}

// Type implements command.Message.
func (CleanSiteCommand) Type() string { return cleanSiteMessageType }

// Validate satisfies command.Message; there are no payload constraints.
func (CleanSiteCommand) Validate() error { return nil }
