package listview

import (
	"encoding/json"
	"reflect"
	"slices"
)

// ComputeDiff returns the entries of current whose value differs from the
// same key in original. String slices compare by sorted contents, numbers
// compare by value regardless of Go type, and nil, "" and empty slices are
// all treated as empty.
func ComputeDiff(original, current map[string]any) map[string]any {
	diff := map[string]any{}
	for key, cur := range current {
		if !Equal(original[key], cur) {
			diff[key] = cur
		}
	}
	return diff
}

// Equal reports whether two form values are the same for diff purposes.
func Equal(a, b any) bool {
	a, b = normalize(a), normalize(b)
	if sa, ok := a.([]string); ok {
		sb, ok := b.([]string)
		return ok && slices.Equal(sa, sb)
	}
	return reflect.DeepEqual(a, b)
}

func normalize(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		if t == "" {
			return nil
		}
		return t
	case []string:
		if len(t) == 0 {
			return nil
		}
		s := slices.Clone(t)
		slices.Sort(s)
		return s
	case []any:
		if len(t) == 0 {
			return nil
		}
		s := make([]string, 0, len(t))
		for _, item := range t {
			str, ok := item.(string)
			if !ok {
				return t
			}
			s = append(s, str)
		}
		slices.Sort(s)
		return s
	case *float64:
		if t == nil {
			return nil
		}
		return *t
	case *string:
		if t == nil {
			return nil
		}
		return normalize(*t)
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return f
		}
		return string(t)
	case int:
		return float64(t)
	case int32:
		return float64(t)
	case int64:
		return float64(t)
	case float32:
		return float64(t)
	}
	return v
}
