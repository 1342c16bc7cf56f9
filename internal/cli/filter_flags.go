package cli

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/spf13/pflag"

	"github.com/alexanderramin/estatedesk/internal/listview"
)

// filterFlags exposes an entity's filter schema as command-line flags:
// one flag per text, select and multi field, a -min/-max pair per number
// range and a -from/-to pair per date range.
type filterFlags struct {
	schema listview.FilterSchema
	state  listview.FilterState
	set    *pflag.FlagSet
}

func newFilterFlags(schema listview.FilterSchema) *filterFlags {
	return &filterFlags{schema: schema, state: listview.NewFilterState(schema)}
}

// AddFlags registers the filter flags on fs.
func (ff *filterFlags) AddFlags(fs *pflag.FlagSet) {
	ff.set = fs
	for _, f := range ff.schema {
		name := filterFlagName(f)
		switch f.Kind {
		case listview.FieldText:
			fs.Var(&textValue{ff.state, f.Key}, name, fmt.Sprintf("filter by %s (substring)", strings.ToLower(f.Label)))
		case listview.FieldSelect:
			fs.Var(&choiceValue{ff.state, f}, name, fmt.Sprintf("filter by %s: %s", strings.ToLower(f.Label), strings.Join(f.Options, "|")))
		case listview.FieldMulti:
			fs.Var(&multiChoiceValue{ff.state, f}, name, fmt.Sprintf("filter by any of %s (repeat or comma-separate): %s", strings.ToLower(f.Label), strings.Join(f.Options, "|")))
		case listview.FieldNumberRange:
			fs.Var(&boundValue{ff.state, f.Key, false}, name+"-min", fmt.Sprintf("minimum %s", strings.ToLower(f.Label)))
			fs.Var(&boundValue{ff.state, f.Key, true}, name+"-max", fmt.Sprintf("maximum %s", strings.ToLower(f.Label)))
		case listview.FieldDateRange:
			fs.Var(&dateValue{ff.state, f.Key, false}, name+"-from", fmt.Sprintf("%s on or after (YYYY-MM-DD or RFC 3339)", strings.ToLower(f.Label)))
			fs.Var(&dateValue{ff.state, f.Key, true}, name+"-to", fmt.Sprintf("%s on or before (YYYY-MM-DD or RFC 3339)", strings.ToLower(f.Label)))
		}
	}
}

// State returns a copy of the filter state the flags produced.
func (ff *filterFlags) State() listview.FilterState { return ff.state.Clone() }

// Changed reports whether any filter flag was given.
func (ff *filterFlags) Changed() bool {
	if ff.set == nil {
		return false
	}
	for _, f := range ff.schema {
		name := filterFlagName(f)
		for _, n := range []string{name, name + "-min", name + "-max", name + "-from", name + "-to"} {
			if ff.set.Changed(n) {
				return true
			}
		}
	}
	return false
}

// Merge overlays the given flags on base: fields set by flags win.
func (ff *filterFlags) Merge(base listview.FilterState) listview.FilterState {
	out := listview.NewFilterState(ff.schema)
	for k, v := range base.Clone() {
		out[k] = v
	}
	flags := ff.state.Clone()
	for _, f := range ff.schema {
		if flags.Active(f) {
			out[f.Key] = flags[f.Key]
		}
	}
	return out
}

// filterFlagName maps a field key to a flag name: "customerName" becomes
// "customer-name" and the created-at range becomes "created".
func filterFlagName(f listview.FilterField) string {
	if f.Key == listview.DateRangeKey {
		return "created"
	}
	var b strings.Builder
	for i, r := range f.Key {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('-')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

type textValue struct {
	state listview.FilterState
	key   string
}

func (v *textValue) String() string { return v.state[v.key].Text }
func (v *textValue) Type() string   { return "string" }
func (v *textValue) Set(s string) error {
	v.state.SetText(v.key, s)
	return nil
}

// choiceValue accepts one of the field options, case-insensitively.
type choiceValue struct {
	state listview.FilterState
	field listview.FilterField
}

func (v *choiceValue) String() string { return v.state[v.field.Key].Text }
func (v *choiceValue) Type() string   { return "choice" }
func (v *choiceValue) Set(s string) error {
	opt, err := matchOption(v.field, s)
	if err != nil {
		return err
	}
	v.state.SetText(v.field.Key, opt)
	return nil
}

// multiChoiceValue accumulates options across repeats and commas.
type multiChoiceValue struct {
	state listview.FilterState
	field listview.FilterField
}

func (v *multiChoiceValue) String() string { return strings.Join(v.state[v.field.Key].Multi, ",") }
func (v *multiChoiceValue) Type() string   { return "choices" }
func (v *multiChoiceValue) Set(s string) error {
	values := slices.Clone(v.state[v.field.Key].Multi)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		opt, err := matchOption(v.field, part)
		if err != nil {
			return err
		}
		if !slices.Contains(values, opt) {
			values = append(values, opt)
		}
	}
	v.state.SetMulti(v.field.Key, values)
	return nil
}

func matchOption(f listview.FilterField, s string) (string, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, listview.AllOption) {
		return listview.AllOption, nil
	}
	for _, opt := range f.Options {
		if strings.EqualFold(opt, s) {
			return opt, nil
		}
	}
	return "", fmt.Errorf("%q is not a valid %s (want one of %s)", s, strings.ToLower(f.Label), strings.Join(f.Options, ", "))
}

// boundValue sets one end of a number range.
type boundValue struct {
	state listview.FilterState
	key   string
	upper bool
}

func (v *boundValue) String() string {
	r := v.state[v.key].Range
	p := r.Min
	if v.upper {
		p = r.Max
	}
	if p == nil {
		return ""
	}
	return strconv.FormatFloat(*p, 'f', -1, 64)
}

func (v *boundValue) Type() string { return "number" }

func (v *boundValue) Set(s string) error {
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fmt.Errorf("%q is not a number", s)
	}
	if n < 0 {
		return fmt.Errorf("%q must not be negative", s)
	}
	r := v.state[v.key].Range
	if v.upper {
		r.Max = listview.Float(n)
	} else {
		r.Min = listview.Float(n)
	}
	v.state.SetRange(v.key, r)
	return nil
}

// dateValue sets one end of a date range.
type dateValue struct {
	state listview.FilterState
	key   string
	end   bool
}

func (v *dateValue) String() string {
	d := v.state[v.key].Dates
	p := d.Start
	if v.end {
		p = d.End
	}
	if p == nil {
		return ""
	}
	return p.Format(time.RFC3339)
}

func (v *dateValue) Type() string { return "date" }

func (v *dateValue) Set(s string) error {
	t, day, err := parseDate(s)
	if err != nil {
		return err
	}
	d := v.state[v.key].Dates
	if v.end {
		if day {
			t = endOfDay(t)
		}
		d.End = &t
	} else {
		d.Start = &t
	}
	v.state.SetDates(v.key, d)
	return nil
}

// parseDate accepts a calendar day (UTC midnight, day reported true) or an
// RFC 3339 timestamp.
func parseDate(s string) (t time.Time, day bool, err error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, true, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, false, nil
	}
	return time.Time{}, false, fmt.Errorf("%q is not a date (want YYYY-MM-DD or RFC 3339)", s)
}

// endOfDay returns the last millisecond of the day starting at t.
func endOfDay(t time.Time) time.Time {
	return t.Add(24*time.Hour - time.Millisecond)
}
