package types

import (
	"net/http"
	"sort"

	"github.com/samber/lo"
)

// Fields is a loosely typed invoice layer: static configuration, caller
// overrides or a decoded provider payload.
type Fields map[string]any

// Merge layers the given sources left to right. Keys of later layers replace
// keys of earlier ones; values are not merged recursively.
func Merge(layers ...Fields) Fields {
	out := make(Fields)
	for _, layer := range layers {
		for k, v := range layer {
			out[k] = v
		}
	}
	return out
}

// Clone returns a shallow copy of f
func (f Fields) Clone() Fields {
	return Merge(f)
}

// Without returns a shallow copy of f without the given keys
func (f Fields) Without(keys ...string) Fields {
	out := f.Clone()
	for _, k := range keys {
		delete(out, k)
	}
	return out
}

// String returns the value at key when it is a non-empty string
func (f Fields) String(key string) string {
	s, _ := f[key].(string)
	return s
}

// Keys returns the sorted keys of f
func (f Fields) Keys() []string {
	keys := lo.Keys(f)
	sort.Strings(keys)
	return keys
}

// Headers reads the value at key as a set of HTTP headers. Accepted shapes are
// http.Header, map[string]string, map[string][]string and string-valued
// map[string]any (as produced by JSON decoding). Anything else yields nil.
func (f Fields) Headers(key string) http.Header {
	switch v := f[key].(type) {
	case http.Header:
		return v.Clone()
	case map[string]string:
		h := make(http.Header, len(v))
		for k, val := range v {
			h.Set(k, val)
		}
		return h
	case map[string][]string:
		return http.Header(v).Clone()
	case map[string]any:
		return headersFromAny(v)
	case Fields:
		return headersFromAny(v)
	}
	return nil
}

func headersFromAny(v map[string]any) http.Header {
	h := make(http.Header, len(v))
	for k, val := range v {
		switch val := val.(type) {
		case string:
			h.Set(k, val)
		case []string:
			for _, s := range val {
				h.Add(k, s)
			}
		case []any:
			for _, s := range val {
				if str, ok := s.(string); ok {
					h.Add(k, str)
				}
			}
		}
	}
	return h
}
