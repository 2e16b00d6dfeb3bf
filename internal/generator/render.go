package generator

import (
	"strings"
)

const (
	placeholderOpen  = "{{"
	placeholderClose = "}}"
)

// Render replaces every `{{ key }}` placeholder in template with the
// stringified value of params[key]. A key is a non-empty run of characters
// other than '}' and whitespace; whitespace around it is ignored. Placeholders
// whose key is absent stay in the output verbatim. Substituted values are
// never scanned again, so a value containing placeholders is inserted as is.
func Render(template string, params Params) string {
	if !strings.Contains(template, placeholderOpen) {
		return template
	}

	var out strings.Builder
	out.Grow(len(template))

	i := 0
	for i < len(template) {
		start := strings.Index(template[i:], placeholderOpen)
		if start < 0 {
			out.WriteString(template[i:])
			break
		}
		start += i
		out.WriteString(template[i:start])

		key, end, ok := scanPlaceholder(template, start)
		if !ok {
			// Not a placeholder here; a match may still begin one byte later,
			// as in "{{{ key }}".
			out.WriteByte(template[start])
			i = start + 1
			continue
		}

		if value, found := params.Lookup(key); found {
			out.WriteString(Stringify(value))
		} else {
			out.WriteString(template[start:end])
		}
		i = end
	}
	return out.String()
}

// scanPlaceholder matches a placeholder starting at offset start, which must
// point at "{{". It returns the key and the offset just past the closing
// braces.
func scanPlaceholder(text string, start int) (string, int, bool) {
	pos := start + len(placeholderOpen)
	pos = skipSpace(text, pos)

	keyStart := pos
	for pos < len(text) && text[pos] != '}' && !isSpace(text[pos]) {
		pos++
	}
	if pos == keyStart {
		return "", 0, false
	}
	key := text[keyStart:pos]

	pos = skipSpace(text, pos)
	if !strings.HasPrefix(text[pos:], placeholderClose) {
		return "", 0, false
	}
	return key, pos + len(placeholderClose), true
}

func skipSpace(text string, pos int) int {
	for pos < len(text) && isSpace(text[pos]) {
		pos++
	}
	return pos
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}
