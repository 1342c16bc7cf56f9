package cli

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/estatedesk/internal/cli/formatter"
	"github.com/alexanderramin/estatedesk/internal/listview"
	"github.com/alexanderramin/estatedesk/internal/recordform"
)

// deskHuhTheme returns a huh theme using the Gruvbox palette.
func deskHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.MultiSelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.SelectedPrefix = lipgloss.NewStyle().Foreground(formatter.ColorGreen).SetString("[x] ")
	t.Focused.UnselectedPrefix = lipgloss.NewStyle().Foreground(formatter.ColorDim).SetString("[ ] ")
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(formatter.ColorRed)
	t.Focused.ErrorIndicator = lipgloss.NewStyle().Foreground(formatter.ColorRed).SetString(" *")

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// recordInputs holds the huh-bound values of a record form. Text, select
// and number fields bind a string; multi fields bind a slice.
type recordInputs struct {
	schema recordform.Schema
	text   map[string]*string
	multi  map[string]*[]string
}

// newRecordInputs seeds inputs from the form's current values.
func newRecordInputs(f *recordform.Form) *recordInputs {
	in := &recordInputs{
		schema: f.Schema(),
		text:   map[string]*string{},
		multi:  map[string]*[]string{},
	}
	values := f.Values()
	for _, field := range in.schema.Fields {
		switch field.Kind {
		case recordform.KindComputed:
		case recordform.KindMulti:
			v := toStringSlice(values[field.Key])
			in.multi[field.Key] = &v
		default:
			s := field.FormatValue(values[field.Key])
			in.text[field.Key] = &s
		}
	}
	return in
}

// huhForm lays the editable fields out in groups of six so long schemas
// page instead of overflowing the terminal.
func (in *recordInputs) huhForm() *huh.Form {
	const perGroup = 6
	var groups []*huh.Group
	var fields []huh.Field
	flush := func() {
		if len(fields) > 0 {
			groups = append(groups, huh.NewGroup(fields...))
			fields = nil
		}
	}
	for _, f := range in.schema.Fields {
		hf := in.huhField(f)
		if hf == nil {
			continue
		}
		fields = append(fields, hf)
		if len(fields) == perGroup {
			flush()
		}
	}
	flush()
	return huh.NewForm(groups...).WithTheme(deskHuhTheme()).WithShowHelp(false)
}

func (in *recordInputs) huhField(f recordform.Field) huh.Field {
	title := f.Label
	if f.Required {
		title += " *"
	}
	switch f.Kind {
	case recordform.KindComputed:
		return nil
	case recordform.KindSelect:
		opts := make([]huh.Option[string], 0, len(f.Options)+1)
		if !f.Required {
			opts = append(opts, huh.NewOption("(none)", ""))
		}
		for _, o := range f.Options {
			opts = append(opts, huh.NewOption(o, o))
		}
		return huh.NewSelect[string]().
			Title(title).
			Options(opts...).
			Value(in.text[f.Key])
	case recordform.KindMulti:
		opts := make([]huh.Option[string], len(f.Options))
		for i, o := range f.Options {
			opts[i] = huh.NewOption(o, o)
		}
		return huh.NewMultiSelect[string]().
			Title(title).
			Options(opts...).
			Value(in.multi[f.Key])
	case recordform.KindNumber:
		return huh.NewInput().
			Title(title).
			Value(in.text[f.Key]).
			Validate(numberValidator(f))
	}
	return huh.NewInput().
		Title(title).
		Value(in.text[f.Key]).
		Validate(func(s string) error {
			if f.Required && strings.TrimSpace(s) == "" {
				return fmt.Errorf("%s is required", f.Label)
			}
			return nil
		})
}

// apply copies the inputs into the form.
func (in *recordInputs) apply(f *recordform.Form) error {
	for _, field := range in.schema.Fields {
		switch field.Kind {
		case recordform.KindComputed:
		case recordform.KindMulti:
			if err := f.Set(field.Key, slices.Clone(*in.multi[field.Key])); err != nil {
				return err
			}
		default:
			if err := f.SetInput(field.Key, *in.text[field.Key]); err != nil {
				return err
			}
		}
	}
	return nil
}

func numberValidator(f recordform.Field) func(string) error {
	return func(s string) error {
		s = strings.TrimSpace(s)
		if s == "" {
			if f.Required {
				return fmt.Errorf("%s is required", f.Label)
			}
			return nil
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("enter a number")
		}
		if f.NonNegative && n < 0 {
			return fmt.Errorf("enter a non-negative number")
		}
		if f.Integer && n != float64(int64(n)) {
			return fmt.Errorf("enter a whole number")
		}
		return nil
	}
}

func toStringSlice(v any) []string {
	switch t := v.(type) {
	case []string:
		return slices.Clone(t)
	case []any:
		out := make([]string, 0, len(t))
		for _, x := range t {
			if s, ok := x.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// filterInputs holds the huh-bound values of a filter sidebar. Range
// bounds and dates are edited as text.
type filterInputs struct {
	schema listview.FilterSchema
	text   map[string]*string
	multi  map[string]*[]string
	lo, hi map[string]*string
}

func newFilterInputs(schema listview.FilterSchema, fs listview.FilterState) *filterInputs {
	in := &filterInputs{
		schema: schema,
		text:   map[string]*string{},
		multi:  map[string]*[]string{},
		lo:     map[string]*string{},
		hi:     map[string]*string{},
	}
	for _, f := range schema {
		v := fs[f.Key]
		switch f.Kind {
		case listview.FieldText, listview.FieldSelect:
			s := v.Text
			if f.Kind == listview.FieldSelect && s == "" {
				s = listview.AllOption
			}
			in.text[f.Key] = &s
		case listview.FieldMulti:
			m := slices.Clone(v.Multi)
			in.multi[f.Key] = &m
		case listview.FieldNumberRange:
			lo, hi := boundText(v.Range.Min), boundText(v.Range.Max)
			in.lo[f.Key], in.hi[f.Key] = &lo, &hi
		case listview.FieldDateRange:
			lo, hi := "", ""
			if v.Dates.Start != nil {
				lo = v.Dates.Start.Format("2006-01-02")
			}
			if v.Dates.End != nil {
				hi = v.Dates.End.Format("2006-01-02")
			}
			in.lo[f.Key], in.hi[f.Key] = &lo, &hi
		}
	}
	return in
}

func boundText(p *float64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatFloat(*p, 'f', -1, 64)
}

func (in *filterInputs) huhForm() *huh.Form {
	var fields []huh.Field
	for _, f := range in.schema {
		switch f.Kind {
		case listview.FieldText:
			fields = append(fields, huh.NewInput().Title(f.Label).Value(in.text[f.Key]))
		case listview.FieldSelect:
			opts := []huh.Option[string]{huh.NewOption(listview.AllOption, listview.AllOption)}
			for _, o := range f.Options {
				opts = append(opts, huh.NewOption(o, o))
			}
			fields = append(fields, huh.NewSelect[string]().Title(f.Label).Options(opts...).Value(in.text[f.Key]))
		case listview.FieldMulti:
			opts := make([]huh.Option[string], len(f.Options))
			for i, o := range f.Options {
				opts[i] = huh.NewOption(o, o)
			}
			fields = append(fields, huh.NewMultiSelect[string]().Title(f.Label).Options(opts...).Value(in.multi[f.Key]))
		case listview.FieldNumberRange:
			fields = append(fields,
				huh.NewInput().Title(f.Label+" min").Value(in.lo[f.Key]).Validate(validateBound),
				huh.NewInput().Title(f.Label+" max").Value(in.hi[f.Key]).Validate(validateBound),
			)
		case listview.FieldDateRange:
			fields = append(fields,
				huh.NewInput().Title(f.Label+" from").Placeholder("YYYY-MM-DD").Value(in.lo[f.Key]).Validate(validateOptionalDate),
				huh.NewInput().Title(f.Label+" to").Placeholder("YYYY-MM-DD").Value(in.hi[f.Key]).Validate(validateOptionalDate),
			)
		}
	}
	return huh.NewForm(huh.NewGroup(fields...)).WithTheme(deskHuhTheme()).WithShowHelp(false)
}

// State converts the inputs back to a filter state. Inputs were validated
// by the form, so unparsable text clears the bound.
func (in *filterInputs) State() listview.FilterState {
	fs := listview.NewFilterState(in.schema)
	for _, f := range in.schema {
		switch f.Kind {
		case listview.FieldText, listview.FieldSelect:
			fs.SetText(f.Key, strings.TrimSpace(*in.text[f.Key]))
		case listview.FieldMulti:
			fs.SetMulti(f.Key, slices.Clone(*in.multi[f.Key]))
		case listview.FieldNumberRange:
			fs.SetRange(f.Key, listview.NumberRange{Min: parseBound(*in.lo[f.Key]), Max: parseBound(*in.hi[f.Key])})
		case listview.FieldDateRange:
			var d listview.DateRange
			if t, _, err := parseDate(*in.lo[f.Key]); err == nil {
				d.Start = &t
			}
			if t, day, err := parseDate(*in.hi[f.Key]); err == nil {
				if day {
					t = endOfDay(t)
				}
				d.End = &t
			}
			fs.SetDates(f.Key, d)
		}
	}
	return fs
}

func parseBound(s string) *float64 {
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil
	}
	return listview.Float(n)
}

func validateBound(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || n < 0 {
		return fmt.Errorf("enter a non-negative number")
	}
	return nil
}

// validateOptionalDate accepts empty or a YYYY-MM-DD date string.
func validateOptionalDate(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	if _, _, err := parseDate(s); err != nil {
		return fmt.Errorf("use YYYY-MM-DD format")
	}
	return nil
}

// wizardInputText creates a huh form for a single text input.
func wizardInputText(title, placeholder string, required bool, result *string) *huh.Form {
	input := huh.NewInput().
		Title(title).
		Placeholder(placeholder).
		Value(result)

	if required {
		input = input.Validate(func(s string) error {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("%s is required", title)
			}
			return nil
		})
	}

	return huh.NewForm(
		huh.NewGroup(input),
	).WithTheme(deskHuhTheme()).WithShowHelp(false)
}

// wizardConfirm creates a huh form for a yes/no confirmation.
func wizardConfirm(title string, result *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(result),
		),
	).WithTheme(deskHuhTheme()).WithShowHelp(false)
}
