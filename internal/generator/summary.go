package generator

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// DefaultSummaryWords is the summary length used when none is configured.
const DefaultSummaryWords = 25

var summaryPolicy = sync.OnceValue(func() *bluemonday.Policy {
	return bluemonday.StrictPolicy().AddSpaceWhenStrippingTag(true)
})

// summaryEscaper leaves quotes alone; the result only ever lands in element
// text of list and feed layouts.
var summaryEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// Truncate strips every markup tag from text and returns its first words
// whitespace separated words joined by single spaces. A non-positive words
// falls back to DefaultSummaryWords.
//
// Entities are decoded before counting and only &, < and > are escaped
// again, so "Jerry's" stays as written and the summary is safe in both HTML
// and RSS. Text inside script and style elements is not part of a summary.
func Truncate(text string, words int) string {
	if words <= 0 {
		words = DefaultSummaryWords
	}
	fields := strings.Fields(html.UnescapeString(summaryPolicy().Sanitize(text)))
	if len(fields) > words {
		fields = fields[:words]
	}
	return summaryEscaper.Replace(strings.Join(fields, " "))
}
