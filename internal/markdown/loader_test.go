package markdown

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-makesite/pkg/interfaces"
	"github.com/goliatone/go-makesite/pkg/testsupport"
)

type stubParser struct {
	calls []string
	opts  []interfaces.ParseOptions
	err   error
}

func (s *stubParser) Parse(markdown []byte) ([]byte, error) {
	return s.ParseWithOptions(markdown, interfaces.ParseOptions{})
}

func (s *stubParser) ParseWithOptions(markdown []byte, opts interfaces.ParseOptions) ([]byte, error) {
	s.calls = append(s.calls, string(markdown))
	s.opts = append(s.opts, opts)
	if s.err != nil {
		return nil, s.err
	}
	return []byte("<rendered>" + string(markdown) + "</rendered>"), nil
}

func TestLoader_LoadMarkdownPost(t *testing.T) {
	fsys := fstest.MapFS{
		"blog/2024-03-05-hello.md": {Data: []byte("<!-- title: Hello World -->\n<!-- tag: go -->\n# Hi\n")},
	}
	parser := &stubParser{}
	loader := NewLoader(fsys, LoaderConfig{Parser: parser})

	record, err := loader.Load(context.Background(), "blog/2024-03-05-hello.md")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if record.Date != "2024-03-05" || record.Slug != "hello" {
		t.Fatalf("unexpected date/slug %q/%q", record.Date, record.Slug)
	}
	if record.Headers["title"] != "Hello World" || record.Headers["tag"] != "go" {
		t.Fatalf("unexpected headers %#v", record.Headers)
	}
	if len(parser.calls) != 1 || parser.calls[0] != "# Hi\n" {
		t.Fatalf("expected body without headers to be transformed, got %#v", parser.calls)
	}
	if record.Content != "<rendered># Hi\n</rendered>" {
		t.Fatalf("unexpected content %q", record.Content)
	}
	if record.RFC2822Date != "Tue, 05 Mar 2024 00:00:00 +0000" {
		t.Fatalf("unexpected rfc date %q", record.RFC2822Date)
	}
	if record.SourcePath != "blog/2024-03-05-hello.md" {
		t.Fatalf("unexpected source path %q", record.SourcePath)
	}
}

func TestLoader_HTMLIsNotTransformed(t *testing.T) {
	fsys := fstest.MapFS{
		"about.html": {Data: []byte("<!-- title: About -->\n<p>About us</p>\n")},
	}
	parser := &stubParser{}
	loader := NewLoader(fsys, LoaderConfig{Parser: parser})

	record, err := loader.Load(context.Background(), "about.html")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(parser.calls) != 0 {
		t.Fatalf("expected no transform for html, got %d calls", len(parser.calls))
	}
	if record.Content != "<p>About us</p>\n" {
		t.Fatalf("unexpected content %q", record.Content)
	}
	if record.Date != EpochDate {
		t.Fatalf("expected epoch date, got %q", record.Date)
	}
}

func TestLoader_UnavailableTransformWarnsAndKeepsBody(t *testing.T) {
	logger := testsupport.NewRecordingLogger()
	loader := NewLoader(fstest.MapFS{
		"Post.MD": {Data: []byte("*raw*")},
	}, LoaderConfig{Parser: UnavailableParser(), Logger: logger})

	record, err := loader.Load(context.Background(), "Post.MD")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if record.Content != "*raw*" {
		t.Fatalf("expected raw body, got %q", record.Content)
	}
	if !logger.Has("warn", "markdown.transform.unavailable") {
		t.Fatalf("expected unavailable warning, got %#v", logger.Entries())
	}
}

func TestLoader_NilParserCountsAsUnavailable(t *testing.T) {
	logger := testsupport.NewRecordingLogger()
	loader := NewLoader(fstest.MapFS{}, LoaderConfig{Logger: logger})

	record, err := loader.Parse("post.md", []byte("body"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if record.Content != "body" || !logger.Has("warn", "markdown.transform.unavailable") {
		t.Fatalf("expected raw body and warning, got %q %#v", record.Content, logger.Entries())
	}
}

func TestLoader_TransformFailure(t *testing.T) {
	loader := NewLoader(fstest.MapFS{}, LoaderConfig{Parser: &stubParser{err: errors.New("boom")}})

	_, err := loader.Parse("post.md", []byte("body"))
	if err == nil {
		t.Fatal("expected transform error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryInternal) {
		t.Fatalf("expected internal category, got %v", err)
	}
	if !strings.Contains(err.Error(), "post.md") {
		t.Fatalf("expected source path in %q", err.Error())
	}
}

func TestLoader_InvalidDate(t *testing.T) {
	loader := NewLoader(fstest.MapFS{}, LoaderConfig{Parser: &stubParser{}})

	_, err := loader.Parse("blog/2024-13-45-bad.md", []byte("body"))
	if err == nil {
		t.Fatal("expected date error")
	}
	if !strings.Contains(err.Error(), "blog/2024-13-45-bad.md") {
		t.Fatalf("expected source path in %q", err.Error())
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	var formatErr *FormatError
	if !errors.As(err, &formatErr) {
		t.Fatalf("expected FormatError in chain, got %T", err)
	}
}

func TestLoader_MissingFile(t *testing.T) {
	loader := NewLoader(fstest.MapFS{}, LoaderConfig{})

	_, err := loader.Load(context.Background(), "missing.md")
	if err == nil {
		t.Fatal("expected read error")
	}
	if !strings.Contains(err.Error(), "content read failed: missing.md") {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestLoader_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLoader(fstest.MapFS{}, LoaderConfig{}).Load(ctx, "x.md")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestLoader_FrontMatterFoldsIntoHeaders(t *testing.T) {
	data := readFixture(t, "testdata/2024-02-10-front-matter.md")
	loader := NewLoader(fstest.MapFS{}, LoaderConfig{
		Parser:      NewGoldmarkParser(interfaces.ParseOptions{}),
		FrontMatter: true,
	})

	record, err := loader.Parse("2024-02-10-front-matter.md", data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if record.Headers["title"] != "Comment Title" {
		t.Fatalf("expected comment header to win, got %q", record.Headers["title"])
	}
	if record.Headers["weight"] != "3" {
		t.Fatalf("expected front matter value, got %q", record.Headers["weight"])
	}
	if !strings.Contains(record.Content, "<h1") {
		t.Fatalf("expected rendered heading, got %q", record.Content)
	}
	if record.Date != "2024-02-10" {
		t.Fatalf("unexpected date %q", record.Date)
	}
}

func TestLoader_ParseOptionsOverride(t *testing.T) {
	parser := &stubParser{}
	loader := NewLoader(fstest.MapFS{}, LoaderConfig{
		Parser:       parser,
		ParseOptions: &interfaces.ParseOptions{HardWraps: true},
	})

	if _, err := loader.Parse("post.md", []byte("a")); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(parser.opts) != 1 || !parser.opts[0].HardWraps {
		t.Fatalf("expected override options, got %#v", parser.opts)
	}
}

func TestIsMarkdownPath(t *testing.T) {
	for name, want := range map[string]bool{
		"a.md":       true,
		"a.MARKDOWN": true,
		"a.mkdn":     true,
		"a.html":     false,
		"md":         false,
	} {
		if got := IsMarkdownPath(name); got != want {
			t.Fatalf("IsMarkdownPath(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestLoader_WarnsOnUnsafeSlug(t *testing.T) {
	logger := testsupport.NewRecordingLogger()
	loader := NewLoader(fstest.MapFS{
		"2024-01-01-hello-world.html": {Data: []byte("ok")},
		"2024-01-02-Hello World.html": {Data: []byte("ok")},
	}, LoaderConfig{Logger: logger})

	if _, err := loader.Load(context.Background(), "2024-01-01-hello-world.html"); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if logger.Has("warn", "markdown.slug.invalid") {
		t.Fatalf("expected no slug warning, got %#v", logger.Entries())
	}

	record, err := loader.Load(context.Background(), "2024-01-02-Hello World.html")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if record.Slug != "Hello World" {
		t.Fatalf("expected slug kept verbatim, got %q", record.Slug)
	}
	if !logger.Has("warn", "markdown.slug.invalid") {
		t.Fatalf("expected slug warning, got %#v", logger.Entries())
	}
}
