// Package markdown loads content files into Records. A content file may open
// with `<!-- key: value -->` header lines and, optionally, a YAML front matter
// block; its name carries the date and slug. Markdown bodies are rendered to
// HTML through goldmark.
package markdown
