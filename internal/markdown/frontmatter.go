package markdown

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"
)

var frontMatterFormats = []*frontmatter.Format{
	frontmatter.NewFormat("---", "---", yaml.Unmarshal),
	frontmatter.NewFormat("---yaml", "---", yaml.Unmarshal),
}

// ParseFrontMatter extracts an optional leading YAML block from source and
// flattens its scalar values into header strings. Sources without front
// matter are returned unchanged with an empty map. Nested values are skipped.
func ParseFrontMatter(source []byte) (map[string]string, []byte, error) {
	meta := map[string]any{}
	body, err := frontmatter.Parse(bytes.NewReader(source), &meta, frontMatterFormats...)
	if err != nil {
		return nil, nil, fmt.Errorf("parse frontmatter: %w", err)
	}

	headers := make(map[string]string, len(meta))
	keys := make([]string, 0, len(meta))
	for key := range meta {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if value, ok := scalarString(meta[key]); ok {
			headers[key] = value
		}
	}
	return headers, body, nil
}

func scalarString(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case bool:
		return strconv.FormatBool(v), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case uint64:
		return strconv.FormatUint(v, 10), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case time.Time:
		if v.Hour() == 0 && v.Minute() == 0 && v.Second() == 0 && v.Nanosecond() == 0 {
			return v.Format(dateLayout), true
		}
		return v.Format(time.RFC3339), true
	default:
		return "", false
	}
}
