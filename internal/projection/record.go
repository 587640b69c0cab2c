package projection

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Record is a sparse raw record as returned by the record store. Keys are
// field names; values are strings, numbers, times, nested records or slices of
// nested records.
type Record map[string]any

// ID returns the record identifier, or "" when the record has none.
func (r Record) ID() string {
	v, ok := lookup(r, "id")
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Resolve walks a dot-separated path through r. Map segments match the exact
// key first and fall back to a case-insensitive match. On a slice, a numeric
// segment indexes it and any other segment is looked up across the children,
// later children overriding earlier ones. A path that cannot be followed
// returns (nil, false); Resolve never panics on sparse data.
func (r Record) Resolve(path string) (any, bool) {
	path = strings.TrimSpace(path)
	if r == nil || path == "" {
		return nil, false
	}
	var cur any = map[string]any(r)
	for _, seg := range strings.Split(path, ".") {
		if seg == "" {
			return nil, false
		}
		next, ok := step(cur, seg)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// Clone returns a shallow copy of r.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

func step(cur any, seg string) (any, bool) {
	switch v := cur.(type) {
	case Record:
		return lookup(v, seg)
	case map[string]any:
		return lookup(v, seg)
	case []Record:
		children := make([]any, len(v))
		for i := range v {
			children[i] = v[i]
		}
		return stepSlice(children, seg)
	case []map[string]any:
		children := make([]any, len(v))
		for i := range v {
			children[i] = v[i]
		}
		return stepSlice(children, seg)
	case []any:
		return stepSlice(v, seg)
	default:
		return nil, false
	}
}

func stepSlice(children []any, seg string) (any, bool) {
	if idx, err := strconv.Atoi(seg); err == nil {
		if idx < 0 || idx >= len(children) {
			return nil, false
		}
		return children[idx], true
	}
	var (
		found any
		ok    bool
	)
	for _, child := range children {
		if v, hit := step(child, seg); hit {
			found, ok = v, true
		}
	}
	return found, ok
}

func lookup(m map[string]any, key string) (any, bool) {
	if v, ok := m[key]; ok {
		return v, true
	}
	var match string
	for k := range m {
		if strings.EqualFold(k, key) && (match == "" || k < match) {
			match = k
		}
	}
	if match == "" {
		return nil, false
	}
	return m[match], true
}

// MergeChildren folds a child collection into one record, later children
// overriding earlier ones. Anything that is not a collection of records
// yields an empty record.
func MergeChildren(v any) Record {
	out := Record{}
	var children []any
	switch c := v.(type) {
	case []any:
		children = c
	case []Record:
		for _, r := range c {
			children = append(children, r)
		}
	case []map[string]any:
		for _, r := range c {
			children = append(children, r)
		}
	case Record, map[string]any:
		children = []any{c}
	}
	for _, child := range children {
		var m map[string]any
		switch c := child.(type) {
		case Record:
			m = c
		case map[string]any:
			m = c
		default:
			continue
		}
		for k, val := range m {
			out[k] = val
		}
	}
	return out
}

// Keys returns the top-level field names of r in sorted order.
func (r Record) Keys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func toString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(v)
	}
}
