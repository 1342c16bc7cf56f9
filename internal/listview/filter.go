package listview

import (
	"slices"
	"strings"
	"time"
)

// FieldKind selects how a filter field is held and serialized.
type FieldKind int

const (
	FieldText FieldKind = iota
	FieldSelect
	FieldMulti
	FieldDateRange
	FieldNumberRange
)

// AllOption is the select value meaning "no filter on this field".
const AllOption = "All"

// NumberRange is an inclusive numeric bound pair. Nil bounds are absent.
type NumberRange struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// DateRange is a calendar range. Nil ends are open.
type DateRange struct {
	Start *time.Time `json:"start,omitempty"`
	End   *time.Time `json:"end,omitempty"`
}

// FilterField describes one filter input of an entity's sidebar.
type FilterField struct {
	Key     string
	Label   string
	Kind    FieldKind
	Options []string

	// DayBounds normalizes date ranges to the start and end of day.
	DayBounds bool

	// Default is the untouched range of a number slider. A bound equal to
	// the default bound does not filter.
	Default NumberRange
}

// FilterSchema is the ordered set of filter fields for one entity.
type FilterSchema []FilterField

// Field returns the field with the given key.
func (s FilterSchema) Field(key string) (FilterField, bool) {
	for _, f := range s {
		if f.Key == key {
			return f, true
		}
	}
	return FilterField{}, false
}

// FilterValue holds the current value of one field. Only the member that
// matches the field kind is meaningful.
type FilterValue struct {
	Text  string      `json:"text,omitempty"`
	Multi []string    `json:"multi,omitempty"`
	Range NumberRange `json:"range,omitzero"`
	Dates DateRange   `json:"dates,omitzero"`
}

// FilterState maps field keys to their current values.
type FilterState map[string]FilterValue

// NewFilterState returns the all-empty state for a schema.
func NewFilterState(schema FilterSchema) FilterState {
	fs := make(FilterState, len(schema))
	for _, f := range schema {
		fs[f.Key] = defaultValue(f)
	}
	return fs
}

func defaultValue(f FilterField) FilterValue {
	switch f.Kind {
	case FieldSelect:
		return FilterValue{Text: AllOption}
	case FieldNumberRange:
		return FilterValue{Range: f.Default.clone()}
	default:
		return FilterValue{}
	}
}

// Clone returns a deep copy.
func (fs FilterState) Clone() FilterState {
	out := make(FilterState, len(fs))
	for k, v := range fs {
		out[k] = FilterValue{
			Text:  v.Text,
			Multi: slices.Clone(v.Multi),
			Range: v.Range.clone(),
			Dates: v.Dates.clone(),
		}
	}
	return out
}

// SetText sets a text or select field.
func (fs FilterState) SetText(key, value string) {
	v := fs[key]
	v.Text = value
	fs[key] = v
}

// SetMulti replaces the values of a multi-select field.
func (fs FilterState) SetMulti(key string, values []string) {
	v := fs[key]
	v.Multi = slices.Clone(values)
	fs[key] = v
}

// ToggleOption adds or removes one option of a multi-select field.
func (fs FilterState) ToggleOption(key, option string) {
	v := fs[key]
	if i := slices.Index(v.Multi, option); i >= 0 {
		v.Multi = slices.Delete(slices.Clone(v.Multi), i, i+1)
	} else {
		v.Multi = append(slices.Clone(v.Multi), option)
	}
	fs[key] = v
}

// SetRange sets a numeric range field.
func (fs FilterState) SetRange(key string, r NumberRange) {
	v := fs[key]
	v.Range = r.clone()
	fs[key] = v
}

// SetDates sets a date range field.
func (fs FilterState) SetDates(key string, r DateRange) {
	v := fs[key]
	v.Dates = r.clone()
	fs[key] = v
}

// Active reports whether the field filters anything.
func (fs FilterState) Active(f FilterField) bool {
	v, ok := fs[f.Key]
	if !ok {
		return false
	}
	switch f.Kind {
	case FieldText:
		return strings.TrimSpace(v.Text) != ""
	case FieldSelect:
		t := strings.TrimSpace(v.Text)
		return t != "" && t != AllOption
	case FieldMulti:
		return len(nonEmpty(v.Multi)) > 0
	case FieldDateRange:
		return v.Dates.Start != nil || v.Dates.End != nil
	case FieldNumberRange:
		lo, hi := effectiveBounds(f, v.Range)
		return lo != nil || hi != nil
	}
	return false
}

// ActiveCount returns the number of fields that filter anything.
func (fs FilterState) ActiveCount(schema FilterSchema) int {
	n := 0
	for _, f := range schema {
		if fs.Active(f) {
			n++
		}
	}
	return n
}

// Clean returns a copy that only holds filtering fields.
func (fs FilterState) Clean(schema FilterSchema) FilterState {
	all := fs.Clone()
	out := make(FilterState)
	for _, f := range schema {
		if fs.Active(f) {
			out[f.Key] = all[f.Key]
		}
	}
	return out
}

// effectiveBounds drops bounds that are absent or equal to the default.
func effectiveBounds(f FilterField, r NumberRange) (lo, hi *float64) {
	if r.Min != nil && (f.Default.Min == nil || *r.Min != *f.Default.Min) {
		lo = r.Min
	}
	if r.Max != nil && (f.Default.Max == nil || *r.Max != *f.Default.Max) {
		hi = r.Max
	}
	return lo, hi
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}

func (r NumberRange) clone() NumberRange {
	return NumberRange{Min: clonePtr(r.Min), Max: clonePtr(r.Max)}
}

func (r DateRange) clone() DateRange {
	return DateRange{Start: clonePtr(r.Start), End: clonePtr(r.End)}
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Float returns a pointer to f, for building ranges.
func Float(f float64) *float64 { return &f }

// Date returns a pointer to t, for building ranges.
func Date(t time.Time) *time.Time { return &t }
