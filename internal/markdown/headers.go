package markdown

import (
	"iter"
	"strings"
)

const (
	headerOpen  = "<!--"
	headerClose = "-->"
)

// Header is a single `<!-- key: value -->` metadata line. End is the offset
// in the scanned text just past the line, including its line break, so the
// body of a document starts at the End of its last header.
type Header struct {
	Key   string
	Value string
	End   int
}

// ReadHeaders lazily yields the leading metadata lines of text. Scanning stops
// at the first line that is not a metadata line, blank lines included; that
// line and everything after it is left untouched.
//
// A key ends at the first ':' and a value at the first '-->', so neither may
// contain those delimiters.
func ReadHeaders(text string) iter.Seq[Header] {
	return func(yield func(Header) bool) {
		offset := 0
		for offset < len(text) {
			line, next := nextLine(text, offset)
			key, value, ok := parseHeaderLine(line)
			if !ok {
				return
			}
			if !yield(Header{Key: key, Value: value, End: next}) {
				return
			}
			offset = next
		}
	}
}

// SplitHeaders folds ReadHeaders into a map and returns the body offset.
// Later duplicate keys overwrite earlier ones. Without headers the offset is 0.
func SplitHeaders(text string) (map[string]string, int) {
	headers := map[string]string{}
	end := 0
	for header := range ReadHeaders(text) {
		headers[header.Key] = header.Value
		end = header.End
	}
	return headers, end
}

// nextLine returns the line starting at offset without its terminator and
// the offset of the following line.
func nextLine(text string, offset int) (string, int) {
	idx := strings.IndexByte(text[offset:], '\n')
	if idx < 0 {
		return text[offset:], len(text)
	}
	return text[offset : offset+idx], offset + idx + 1
}

func parseHeaderLine(line string) (string, string, bool) {
	rest := strings.TrimLeft(line, " \t\r\f\v")
	if !strings.HasPrefix(rest, headerOpen) {
		return "", "", false
	}
	rest = rest[len(headerOpen):]

	closeIdx := strings.Index(rest, headerClose)
	if closeIdx < 0 {
		return "", "", false
	}
	if strings.TrimRight(rest[closeIdx+len(headerClose):], " \t\r\f\v") != "" {
		return "", "", false
	}
	inner := rest[:closeIdx]

	colon := strings.IndexByte(inner, ':')
	if colon < 0 {
		return "", "", false
	}
	key := strings.TrimSpace(inner[:colon])
	value := strings.TrimSpace(inner[colon+1:])
	if key == "" || value == "" {
		return "", "", false
	}
	return key, value, true
}
