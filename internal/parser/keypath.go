package parser

import (
	"encoding/json"
	"strconv"
	"strings"
)

// KeyPath addresses a value inside nested JSON objects, outermost key first
type KeyPath []string

// Path builds a KeyPath from a dotted string ("alert.signature")
func Path(dotted string) KeyPath {
	return strings.Split(dotted, ".")
}

// Paths builds one KeyPath per dotted string, preserving priority order
func Paths(dotted ...string) []KeyPath {
	paths := make([]KeyPath, 0, len(dotted))
	for _, d := range dotted {
		paths = append(paths, Path(d))
	}
	return paths
}

// resolve walks obj along path, returning the raw value found
func resolve(obj map[string]interface{}, path KeyPath) (interface{}, bool) {
	var cur interface{} = obj
	for _, key := range path {
		m, ok := cur.(map[string]interface{})
		if !ok {
			return nil, false
		}
		cur, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return cur, cur != nil
}

// lookupRaw returns the first raw value that is present and not an empty string
func lookupRaw(obj map[string]interface{}, paths []KeyPath) (interface{}, bool) {
	for _, p := range paths {
		v, ok := resolve(obj, p)
		if !ok {
			continue
		}
		if s, isString := v.(string); isString && strings.TrimSpace(s) == "" {
			continue
		}
		return v, true
	}
	return nil, false
}

// lookup returns the first value along paths that renders to a non-empty string
func lookup(obj map[string]interface{}, paths []KeyPath) (string, bool) {
	for _, p := range paths {
		v, ok := resolve(obj, p)
		if !ok {
			continue
		}
		if s, ok := stringify(v); ok {
			return s, true
		}
	}
	return "", false
}

// lookupObject returns the first nested object along paths
func lookupObject(obj map[string]interface{}, paths []KeyPath) (map[string]interface{}, bool) {
	for _, p := range paths {
		v, ok := resolve(obj, p)
		if !ok {
			continue
		}
		if m, ok := v.(map[string]interface{}); ok {
			return m, true
		}
	}
	return nil, false
}

// stringify renders scalar JSON values; objects and arrays are not rendered
func stringify(v interface{}) (string, bool) {
	switch val := v.(type) {
	case string:
		s := strings.TrimSpace(val)
		return s, s != ""
	case json.Number:
		if n, err := val.Int64(); err == nil {
			return strconv.FormatInt(n, 10), true
		}
		f, err := val.Float64()
		if err != nil {
			return val.String(), true
		}
		return stringify(f)
	case float64:
		if val == float64(int64(val)) {
			return strconv.FormatInt(int64(val), 10), true
		}
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(val), true
	default:
		return "", false
	}
}
