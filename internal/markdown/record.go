package markdown

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

const (
	// EpochDate is assigned to content whose filename carries no date prefix.
	EpochDate = "1970-01-01"

	dateLayout    = "2006-01-02"
	rfc2822Layout = "Mon, 02 Jan 2006 15:04:05 -0700"
)

// Fixed record field names. Header keys never override them.
const (
	FieldDate        = "date"
	FieldSlug        = "slug"
	FieldContent     = "content"
	FieldRFC2822Date = "rfc_2822_date"
)

// Record is a single renderable content unit: a page, post or news item.
type Record struct {
	SourcePath  string
	Date        string
	Slug        string
	Headers     map[string]string
	Content     string
	RFC2822Date string
}

// Fields flattens the record into a parameter layer. Headers go in first and
// the fixed fields are written last so they always win.
func (r Record) Fields() map[string]any {
	fields := make(map[string]any, len(r.Headers)+4)
	for key, value := range r.Headers {
		fields[key] = value
	}
	fields[FieldDate] = r.Date
	fields[FieldSlug] = r.Slug
	fields[FieldContent] = r.Content
	fields[FieldRFC2822Date] = r.RFC2822Date
	return fields
}

// FormatError reports a date that does not parse as a calendar date.
type FormatError struct {
	Value string
	Err   error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("markdown: invalid date %q: %v", e.Value, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// FormatRFC2822 maps a YYYY-MM-DD date onto the RFC 2822 timestamp used by
// feeds, pinned to midnight UTC.
func FormatRFC2822(date string) (string, error) {
	parsed, err := time.Parse(dateLayout, date)
	if err != nil {
		return "", &FormatError{Value: date, Err: err}
	}
	return parsed.UTC().Format(rfc2822Layout), nil
}

// SplitFilename derives the date and slug from a content file name. The stem
// is the basename up to its first '.'; a `YYYY-MM-DD-` prefix becomes the
// date, the remainder the slug. Without the prefix the date is EpochDate.
func SplitFilename(path string) (date string, slug string) {
	stem := filepath.Base(path)
	if idx := strings.IndexByte(stem, '.'); idx >= 0 {
		stem = stem[:idx]
	}
	if len(stem) > len(dateLayout)+1 && isDatePrefix(stem[:len(dateLayout)]) && stem[len(dateLayout)] == '-' {
		return stem[:len(dateLayout)], stem[len(dateLayout)+1:]
	}
	return EpochDate, stem
}

// isDatePrefix reports whether s has the DDDD-DD-DD shape. Calendar validity
// is checked later by FormatRFC2822.
func isDatePrefix(s string) bool {
	if len(s) != len(dateLayout) {
		return false
	}
	for i := 0; i < len(s); i++ {
		switch i {
		case 4, 7:
			if s[i] != '-' {
				return false
			}
		default:
			if s[i] < '0' || s[i] > '9' {
				return false
			}
		}
	}
	return true
}
