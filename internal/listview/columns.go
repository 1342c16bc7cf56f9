package listview

import "slices"

// PresetAll is the preset that shows every column.
const PresetAll = "all"

// ColumnDescriptor names one table column. Descriptor order is render order.
type ColumnDescriptor struct {
	Key   string
	Label string
}

// Column pairs a descriptor with the renderer for its cell.
type Column[R any] struct {
	ColumnDescriptor
	Value func(R) string
}

// Descriptors returns the descriptors of columns in order.
func Descriptors[R any](columns []Column[R]) []ColumnDescriptor {
	out := make([]ColumnDescriptor, len(columns))
	for i, c := range columns {
		out[i] = c.ColumnDescriptor
	}
	return out
}

// ColumnSet holds the visibility mask for a fixed, ordered column list and
// the named presets that replace it.
type ColumnSet struct {
	columns []ColumnDescriptor
	presets map[string][]string
	mask    map[string]bool
	active  string
}

// NewColumnSet returns a set with every column visible. presets maps a
// group name to the keys it shows.
func NewColumnSet(columns []ColumnDescriptor, presets map[string][]string) *ColumnSet {
	cs := &ColumnSet{
		columns: slices.Clone(columns),
		presets: make(map[string][]string, len(presets)),
		mask:    make(map[string]bool, len(columns)),
	}
	for name, keys := range presets {
		cs.presets[name] = slices.Clone(keys)
	}
	cs.ApplyPreset(PresetAll)
	return cs
}

// Toggle flips one column. Unknown keys are ignored.
func (cs *ColumnSet) Toggle(key string) {
	if _, ok := cs.mask[key]; !ok {
		return
	}
	cs.mask[key] = !cs.mask[key]
}

// ApplyPreset replaces the whole mask. It returns false for an unknown
// preset and leaves the mask untouched.
func (cs *ColumnSet) ApplyPreset(name string) bool {
	if name == PresetAll {
		for _, c := range cs.columns {
			cs.mask[c.Key] = true
		}
		cs.active = PresetAll
		return true
	}
	keys, ok := cs.presets[name]
	if !ok {
		return false
	}
	for _, c := range cs.columns {
		cs.mask[c.Key] = slices.Contains(keys, c.Key)
	}
	cs.active = name
	return true
}

// ActivePreset returns the name of the last applied preset.
func (cs *ColumnSet) ActivePreset() string { return cs.active }

// CanToggle reports whether single-column toggling is offered, which is
// only while every column is in play.
func (cs *ColumnSet) CanToggle() bool { return cs.active == PresetAll }

// Presets returns preset names, "all" first, then the groups sorted.
func (cs *ColumnSet) Presets() []string {
	names := make([]string, 0, len(cs.presets)+1)
	for name := range cs.presets {
		names = append(names, name)
	}
	slices.Sort(names)
	return append([]string{PresetAll}, names...)
}

// IsVisible reports the mask entry for key.
func (cs *ColumnSet) IsVisible(key string) bool { return cs.mask[key] }

// Mask returns a copy of the visibility mask.
func (cs *ColumnSet) Mask() map[string]bool {
	out := make(map[string]bool, len(cs.mask))
	for k, v := range cs.mask {
		out[k] = v
	}
	return out
}

// Columns returns every descriptor in order.
func (cs *ColumnSet) Columns() []ColumnDescriptor { return slices.Clone(cs.columns) }

// VisibleKeys returns the keys of visible columns in order.
func (cs *ColumnSet) VisibleKeys() []string {
	var keys []string
	for _, c := range cs.columns {
		if cs.mask[c.Key] {
			keys = append(keys, c.Key)
		}
	}
	return keys
}

// VisibleColumns filters columns down to the visible ones, in order.
func VisibleColumns[R any](cs *ColumnSet, columns []Column[R]) []Column[R] {
	var out []Column[R]
	for _, c := range columns {
		if cs.IsVisible(c.Key) {
			out = append(out, c)
		}
	}
	return out
}
