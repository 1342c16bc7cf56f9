// Package recordform implements the create and edit forms for CMS records:
// per-entity validation, computed fields, diff-only updates and the mapping
// of failures to user-facing messages.
package recordform

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/alexanderramin/estatedesk/internal/domain"
)

type FieldKind int

const (
	KindText FieldKind = iota
	KindSelect
	KindMulti
	KindNumber
	// KindComputed is a read-only number derived from Sum.
	KindComputed
)

// Field declares one form input.
type Field struct {
	Key         string
	Label       string
	Kind        FieldKind
	Required    bool
	Options     []string
	NonNegative bool
	Integer     bool
	Email       bool
	// Sum lists the number fields a computed field adds up.
	Sum []string
}

// Schema is the form definition of one entity.
type Schema struct {
	Entity domain.Entity
	Fields []Field
	// Pictures enables the image slots, stored under this key.
	Pictures string
}

// Field returns the field with key.
func (s Schema) Field(key string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// Values are form values keyed by field. Text and select hold string,
// multi holds []string, numbers hold float64 or nil when blank.
type Values map[string]any

// Clone returns a copy safe to mutate.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for k, val := range v {
		if s, ok := val.([]string); ok {
			val = slices.Clone(s)
		}
		out[k] = val
	}
	return out
}

// Defaults returns the empty form.
func (s Schema) Defaults() Values {
	v := Values{}
	for _, f := range s.Fields {
		switch f.Kind {
		case KindMulti:
			v[f.Key] = []string{}
		case KindNumber:
			v[f.Key] = nil
		case KindComputed:
			v[f.Key] = 0.0
		default:
			v[f.Key] = ""
		}
	}
	s.Recompute(v)
	return v
}

// Recompute refreshes every computed field from its inputs.
func (s Schema) Recompute(v Values) {
	for _, f := range s.Fields {
		if f.Kind != KindComputed {
			continue
		}
		total := 0.0
		for _, k := range f.Sum {
			if n, ok := number(v[k]); ok {
				total += n
			}
		}
		v[f.Key] = total
	}
}

// ValuesFrom seeds form values from a record. Only schema keys are kept.
func (s Schema) ValuesFrom(record any) (Values, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("encoding record: %w", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding record: %w", err)
	}

	v := s.Defaults()
	for _, f := range s.Fields {
		val, ok := raw[f.Key]
		if !ok || val == nil {
			continue
		}
		switch f.Kind {
		case KindMulti:
			v[f.Key] = toStrings(val)
		case KindNumber, KindComputed:
			if n, ok := number(val); ok {
				v[f.Key] = n
			}
		default:
			v[f.Key] = fmt.Sprint(val)
		}
	}
	if s.Pictures != "" {
		if pics, ok := raw[s.Pictures].([]any); ok {
			v[s.Pictures] = pics
		}
	}
	s.Recompute(v)
	return v, nil
}

// ParseInput converts text typed into a field to its value. Numbers that
// do not parse are kept as text so validation can report them.
func (f Field) ParseInput(input string) any {
	input = strings.TrimSpace(input)
	switch f.Kind {
	case KindNumber:
		if input == "" {
			return nil
		}
		if n, err := strconv.ParseFloat(input, 64); err == nil {
			return n
		}
		return input
	case KindMulti:
		var out []string
		for _, part := range strings.Split(input, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
		return out
	}
	return input
}

// FormatValue renders a value for a text input.
func (f Field) FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case []string:
		return strings.Join(t, ", ")
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}

// FieldErrors maps field keys to messages.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = e[k]
	}
	return strings.Join(parts, "; ")
}

// Validate checks every field and returns nil when the form is valid.
func (s Schema) Validate(v Values) FieldErrors {
	errs := FieldErrors{}
	for _, f := range s.Fields {
		if msg := f.check(v[f.Key]); msg != "" {
			errs[f.Key] = msg
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (f Field) check(val any) string {
	switch f.Kind {
	case KindText, KindSelect:
		s, _ := val.(string)
		s = strings.TrimSpace(s)
		if s == "" {
			if f.Required {
				return f.Label + " is required"
			}
			return ""
		}
		if f.Kind == KindSelect && len(f.Options) > 0 && !slices.Contains(f.Options, s) {
			return fmt.Sprintf("%s must be one of: %s", f.Label, strings.Join(f.Options, ", "))
		}
		if f.Email && !looksLikeEmail(s) {
			return f.Label + " must be a valid email address"
		}
	case KindMulti:
		items := toStrings(val)
		if len(items) == 0 && f.Required {
			return "Select at least one " + strings.ToLower(f.Label)
		}
		for _, item := range items {
			if len(f.Options) > 0 && !slices.Contains(f.Options, item) {
				return fmt.Sprintf("%s has an unknown option %q", f.Label, item)
			}
		}
	case KindNumber:
		if val == nil {
			if f.Required {
				return f.Label + " is required"
			}
			return ""
		}
		n, ok := number(val)
		if !ok {
			return f.Label + " must be a number"
		}
		if f.NonNegative && n < 0 {
			return f.Label + " cannot be negative"
		}
		if f.Integer && n != math.Trunc(n) {
			return f.Label + " must be a whole number"
		}
	}
	return ""
}

func looksLikeEmail(s string) bool {
	at := strings.Index(s, "@")
	return at > 0 && at < len(s)-1 && !strings.ContainsAny(s, " \t") && strings.Contains(s[at:], ".")
}

func number(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case json.Number:
		n, err := t.Float64()
		return n, err == nil
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return n, err == nil
	}
	return 0, false
}

func toStrings(v any) []string {
	switch t := v.(type) {
	case []string:
		return slices.Clone(t)
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		if t == "" {
			return nil
		}
		return []string{t}
	}
	return nil
}
