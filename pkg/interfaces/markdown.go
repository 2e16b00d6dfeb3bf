package interfaces

import "errors"

// ErrMarkdownUnavailable is returned by MarkdownParser implementations that
// cannot transform Markdown at all (for example a stub wired in place of the
// real engine). Content loading treats it as a recoverable degradation and
// keeps the body untransformed.
var ErrMarkdownUnavailable = errors.New("markdown: transform unavailable")

// MarkdownParser converts Markdown bodies into HTML.
type MarkdownParser interface {
	// Parse converts Markdown into HTML using the parser's default settings.
	Parse(markdown []byte) ([]byte, error)
	// ParseWithOptions converts Markdown into HTML using the supplied overrides.
	ParseWithOptions(markdown []byte, opts ParseOptions) ([]byte, error)
}

// ParseOptions customises Markdown rendering. Field names stay readable for
// configuration files and CLI flags.
type ParseOptions struct {
	Extensions []string
	Sanitize   bool
	HardWraps  bool
	SafeMode   bool
}
