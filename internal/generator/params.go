package generator

import (
	"fmt"
	"maps"
	"math"
	"strconv"
	"time"
)

// Built-in site parameter keys.
const (
	ParamBasePath    = "base_path"
	ParamSubtitle    = "subtitle"
	ParamAuthor      = "author"
	ParamSiteURL     = "site_url"
	ParamCurrentYear = "current_year"

	ParamBlog    = "blog"
	ParamTitle   = "title"
	ParamRender  = "render"
	ParamSummary = "summary"
	ParamContent = "content"
)

// DefaultParams returns the lowest parameter layer.
func DefaultParams(now time.Time) map[string]any {
	return map[string]any{
		ParamBasePath:    "",
		ParamSubtitle:    "Lorem Ipsum",
		ParamAuthor:      "Admin",
		ParamSiteURL:     "http://localhost:8000",
		ParamCurrentYear: now.Year(),
	}
}

// Params is an immutable parameter set. Every With call returns a new set
// and leaves the receiver and the supplied layers untouched.
type Params struct {
	values map[string]any
}

// NewParams merges layers in order; later layers override earlier keys.
func NewParams(layers ...map[string]any) Params {
	return Params{}.With(layers...)
}

// With returns a copy of p with layers merged on top.
func (p Params) With(layers ...map[string]any) Params {
	size := len(p.values)
	for _, layer := range layers {
		size += len(layer)
	}
	merged := make(map[string]any, size)
	maps.Copy(merged, p.values)
	for _, layer := range layers {
		maps.Copy(merged, layer)
	}
	return Params{values: merged}
}

// Lookup returns the raw value stored under key.
func (p Params) Lookup(key string) (any, bool) {
	value, ok := p.values[key]
	return value, ok
}

// String returns the stringified value stored under key.
func (p Params) String(key string) (string, bool) {
	value, ok := p.values[key]
	if !ok {
		return "", false
	}
	return Stringify(value), true
}

// Map returns a copy of the merged values.
func (p Params) Map() map[string]any {
	out := maps.Clone(p.values)
	if out == nil {
		out = map[string]any{}
	}
	return out
}

// Stringify formats a parameter value for template substitution. Integral
// floats, as produced by JSON decoding, print without a fraction.
func Stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float32:
		return formatFloat(float64(v), 32)
	case float64:
		return formatFloat(v, 64)
	default:
		return fmt.Sprint(v)
	}
}

func formatFloat(v float64, bitSize int) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', -1, bitSize)
}
