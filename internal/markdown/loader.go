package markdown

import (
	"context"
	"errors"
	"io/fs"
	"path"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-slug"

	"github.com/goliatone/go-makesite/internal/logging"
	"github.com/goliatone/go-makesite/pkg/interfaces"
)

const (
	codeContentRead        = "CONTENT_READ_FAILED"
	codeContentDate        = "CONTENT_DATE_INVALID"
	codeContentFrontMatter = "CONTENT_FRONTMATTER_INVALID"
	codeContentTransform   = "CONTENT_TRANSFORM_FAILED"
)

var markdownExtensions = map[string]struct{}{
	".md":       {},
	".mkd":      {},
	".mkdn":     {},
	".mdown":    {},
	".markdown": {},
}

// IsMarkdownPath reports whether the file extension belongs to the Markdown
// family and should go through the Markdown transform.
func IsMarkdownPath(name string) bool {
	_, ok := markdownExtensions[strings.ToLower(path.Ext(name))]
	return ok
}

// LoaderConfig wires the collaborators used while loading content.
type LoaderConfig struct {
	// Parser transforms Markdown bodies. A nil parser is treated as an
	// unavailable transform.
	Parser interfaces.MarkdownParser
	// ParseOptions overrides the parser defaults when set.
	ParseOptions *interfaces.ParseOptions
	// FrontMatter enables folding a leading YAML block into the headers.
	FrontMatter bool
	Logger      interfaces.Logger
}

// Loader turns content files into Records. Paths are slash separated and
// relative to the filesystem root.
type Loader struct {
	fs           fs.FS
	parser       interfaces.MarkdownParser
	parseOptions *interfaces.ParseOptions
	frontMatter  bool
	logger       interfaces.Logger
}

// NewLoader constructs a Loader reading from filesystem.
func NewLoader(filesystem fs.FS, cfg LoaderConfig) *Loader {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOp()
	}
	var opts *interfaces.ParseOptions
	if cfg.ParseOptions != nil {
		copied := *cfg.ParseOptions
		copied.Extensions = append([]string(nil), cfg.ParseOptions.Extensions...)
		opts = &copied
	}
	return &Loader{
		fs:           filesystem,
		parser:       cfg.Parser,
		parseOptions: opts,
		frontMatter:  cfg.FrontMatter,
		logger:       logger,
	}
}

// Load reads the file at name and assembles its Record.
func (l *Loader) Load(ctx context.Context, name string) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}

	data, err := fs.ReadFile(l.fs, name)
	if err != nil {
		return Record{}, goerrors.Wrap(err, goerrors.CategoryInternal, "content read failed: "+name).
			WithTextCode(codeContentRead).
			WithMetadata(map[string]any{"path": name})
	}
	return l.Parse(name, data)
}

// Parse assembles a Record from already read file content. name only feeds
// the date, slug and Markdown detection.
func (l *Loader) Parse(name string, data []byte) (Record, error) {
	logger := logging.WithFields(l.logger, map[string]any{"path": name})

	date, slugValue := SplitFilename(name)
	if !slug.IsValid(slugValue) {
		logger.Warn("markdown.slug.invalid", "slug", slugValue)
	}

	headers := map[string]string{}
	if l.frontMatter {
		meta, body, err := ParseFrontMatter(data)
		if err != nil {
			return Record{}, goerrors.Wrap(err, goerrors.CategoryValidation, "content front matter invalid: "+name).
				WithTextCode(codeContentFrontMatter).
				WithMetadata(map[string]any{"path": name})
		}
		for key, value := range meta {
			headers[key] = value
		}
		data = body
	}

	text := string(data)
	end := 0
	for header := range ReadHeaders(text) {
		headers[header.Key] = header.Value
		end = header.End
	}
	body := text[end:]

	if IsMarkdownPath(name) {
		transformed, err := l.transform(body)
		switch {
		case err == nil:
			body = transformed
		case errors.Is(err, interfaces.ErrMarkdownUnavailable):
			logger.Warn("markdown.transform.unavailable", "error", err)
		default:
			return Record{}, goerrors.Wrap(err, goerrors.CategoryInternal, "content transform failed: "+name).
				WithTextCode(codeContentTransform).
				WithMetadata(map[string]any{"path": name})
		}
	}

	rfcDate, err := FormatRFC2822(date)
	if err != nil {
		return Record{}, goerrors.Wrap(err, goerrors.CategoryValidation, "content date invalid: "+name).
			WithTextCode(codeContentDate).
			WithMetadata(map[string]any{"path": name, "date": date})
	}

	return Record{
		SourcePath:  name,
		Date:        date,
		Slug:        slugValue,
		Headers:     headers,
		Content:     body,
		RFC2822Date: rfcDate,
	}, nil
}

func (l *Loader) transform(body string) (string, error) {
	if l.parser == nil {
		return "", interfaces.ErrMarkdownUnavailable
	}
	var (
		out []byte
		err error
	)
	if l.parseOptions != nil {
		out, err = l.parser.ParseWithOptions([]byte(body), *l.parseOptions)
	} else {
		out, err = l.parser.Parse([]byte(body))
	}
	if err != nil {
		return "", err
	}
	return string(out), nil
}
