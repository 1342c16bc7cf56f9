package listview

import "slices"

// Selection tracks bulk row and column selection. Outside selection mode
// both sets are empty.
type Selection struct {
	mode    bool
	rows    map[string]bool
	columns map[string]bool
}

// NewSelection returns a selection outside selection mode.
func NewSelection() *Selection {
	return &Selection{rows: map[string]bool{}, columns: map[string]bool{}}
}

// Active reports whether selection mode is on.
func (s *Selection) Active() bool { return s.mode }

// EnterMode turns selection mode on.
func (s *Selection) EnterMode() { s.mode = true }

// ExitMode turns selection mode off and clears both sets.
func (s *Selection) ExitMode() {
	s.mode = false
	s.Clear()
}

// Clear empties both sets without leaving selection mode.
func (s *Selection) Clear() {
	s.rows = map[string]bool{}
	s.columns = map[string]bool{}
}

// ToggleRow flips membership of one row id.
func (s *Selection) ToggleRow(id string) {
	if !s.mode {
		return
	}
	toggle(s.rows, id)
}

// ToggleColumn flips membership of one column key.
func (s *Selection) ToggleColumn(key string) {
	if !s.mode {
		return
	}
	toggle(s.columns, key)
}

// SelectAllRows selects the ids of the currently loaded page.
func (s *Selection) SelectAllRows(currentPageIDs []string) {
	if !s.mode {
		return
	}
	for _, id := range currentPageIDs {
		s.rows[id] = true
	}
}

// SelectAllColumns selects every visible column key.
func (s *Selection) SelectAllColumns(visibleKeys []string) {
	if !s.mode {
		return
	}
	for _, k := range visibleKeys {
		s.columns[k] = true
	}
}

// IsRowSelected reports row membership.
func (s *Selection) IsRowSelected(id string) bool { return s.rows[id] }

// IsColumnSelected reports column membership.
func (s *Selection) IsColumnSelected(key string) bool { return s.columns[key] }

// RowCount returns the number of selected rows.
func (s *Selection) RowCount() int { return len(s.rows) }

// ColumnCount returns the number of selected columns.
func (s *Selection) ColumnCount() int { return len(s.columns) }

// SelectedRowIDs returns the selected row ids, sorted.
func (s *Selection) SelectedRowIDs() []string { return sortedKeys(s.rows) }

// SelectedColumnKeys returns the selected column keys, sorted.
func (s *Selection) SelectedColumnKeys() []string { return sortedKeys(s.columns) }

func toggle(set map[string]bool, key string) {
	if set[key] {
		delete(set, key)
		return
	}
	set[key] = true
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
