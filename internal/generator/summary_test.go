package generator

import (
	"strings"
	"testing"
)

func TestTruncateStripsMarkupAndLimitsWords(t *testing.T) {
	var body strings.Builder
	body.WriteString("<p>")
	for i := 1; i <= 40; i++ {
		if i%5 == 0 {
			body.WriteString("<em>word</em> ")
			continue
		}
		body.WriteString("word ")
	}
	body.WriteString("</p>")

	summary := Truncate(body.String(), 25)
	words := strings.Fields(summary)
	if len(words) != 25 {
		t.Fatalf("expected 25 words, got %d: %q", len(words), summary)
	}
	if strings.ContainsAny(summary, "<>") {
		t.Fatalf("expected markup to be removed, got %q", summary)
	}
}

func TestTruncateSeparatesAdjacentTags(t *testing.T) {
	got := Truncate("<h1>Title</h1><p>First<br>second</p>", 10)
	if got != "Title First second" {
		t.Fatalf("unexpected summary %q", got)
	}
}

func TestTruncateDefaultsAndShortText(t *testing.T) {
	if got := Truncate("  one\n two  ", 0); got != "one two" {
		t.Fatalf("unexpected summary %q", got)
	}
	if got := Truncate("", 5); got != "" {
		t.Fatalf("expected empty summary, got %q", got)
	}
}

func TestTruncateKeepsTextReadable(t *testing.T) {
	cases := map[string]string{
		"<p>Jerry's \"cheese\"</p>":                `Jerry's "cheese"`,
		"<p>Tom &amp; Jerry</p>":                   "Tom &amp; Jerry",
		"<p>1 &lt; 2&nbsp;always</p>":              "1 &lt; 2 always",
		"<p>caf&eacute; &#8212; open</p>":          "café — open",
		"<style>p{}</style><script>x()</script>Hi": "Hi",
		"<pre><code>if a < b {}</code></pre>":      "if a &lt; b {}",
	}
	for input, want := range cases {
		if got := Truncate(input, 10); got != want {
			t.Fatalf("Truncate(%q) = %q, want %q", input, got, want)
		}
	}
}
