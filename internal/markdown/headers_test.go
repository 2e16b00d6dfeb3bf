package markdown

import (
	"testing"
)

func TestReadHeaders_Offsets(t *testing.T) {
	text := "<!-- title: Hello -->\n  <!--tag:go-->  \nBody <!-- x: y -->\n"

	var got []Header
	for header := range ReadHeaders(text) {
		got = append(got, header)
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 headers, got %d: %#v", len(got), got)
	}
	if got[0].Key != "title" || got[0].Value != "Hello" || got[0].End != 22 {
		t.Fatalf("unexpected first header: %#v", got[0])
	}
	if got[1].Key != "tag" || got[1].Value != "go" || got[1].End != 40 {
		t.Fatalf("unexpected second header: %#v", got[1])
	}
	if body := text[got[1].End:]; body != "Body <!-- x: y -->\n" {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestReadHeaders_StopsAtBlankLine(t *testing.T) {
	text := "<!-- a: 1 -->\n\n<!-- b: 2 -->\n"

	headers, end := SplitHeaders(text)
	if len(headers) != 1 || headers["a"] != "1" {
		t.Fatalf("expected only the first header, got %#v", headers)
	}
	if end != 14 {
		t.Fatalf("expected end 14, got %d", end)
	}
}

func TestReadHeaders_NoHeaders(t *testing.T) {
	for _, text := range []string{"", "plain text", "\n<!-- a: 1 -->"} {
		headers, end := SplitHeaders(text)
		if len(headers) != 0 || end != 0 {
			t.Fatalf("text %q: expected no headers, got %#v at %d", text, headers, end)
		}
	}
}

func TestReadHeaders_FinalLineWithoutNewline(t *testing.T) {
	text := "<!-- a: 1 -->"

	headers, end := SplitHeaders(text)
	if headers["a"] != "1" || end != len(text) {
		t.Fatalf("unexpected result %#v at %d", headers, end)
	}
}

func TestReadHeaders_ValueKeepsInnerColons(t *testing.T) {
	headers, _ := SplitHeaders("<!-- link: https://example.com/a -->\n")
	if headers["link"] != "https://example.com/a" {
		t.Fatalf("unexpected value %q", headers["link"])
	}
}

func TestReadHeaders_DuplicateKeysOverwrite(t *testing.T) {
	headers, _ := SplitHeaders("<!-- a: 1 -->\n<!-- a: 2 -->\n")
	if headers["a"] != "2" {
		t.Fatalf("expected later value to win, got %q", headers["a"])
	}
}

func TestReadHeaders_RejectsMalformedLines(t *testing.T) {
	cases := []string{
		"<!-- no colon -->\n",
		"<!-- : value -->\n",
		"<!-- key: -->\n",
		"<!-- key: value\n",
		"<!-- a: 1 --> <!-- b: 2 -->\n",
		"<!-- a: 1 --> trailing\n",
	}
	for _, text := range cases {
		if headers, end := SplitHeaders(text); len(headers) != 0 || end != 0 {
			t.Fatalf("text %q: expected no match, got %#v", text, headers)
		}
	}
}

func TestReadHeaders_EarlyBreak(t *testing.T) {
	count := 0
	for range ReadHeaders("<!-- a: 1 -->\n<!-- b: 2 -->\n") {
		count++
		break
	}
	if count != 1 {
		t.Fatalf("expected iteration to stop after one header, got %d", count)
	}
}
