package cli

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/alexanderramin/estatedesk/internal/cli/formatter"
	"github.com/alexanderramin/estatedesk/internal/domain"
	"github.com/alexanderramin/estatedesk/internal/filterstore"
	"github.com/alexanderramin/estatedesk/internal/importer"
	"github.com/alexanderramin/estatedesk/internal/listview"
	"github.com/alexanderramin/estatedesk/internal/notify"
	"github.com/alexanderramin/estatedesk/internal/recordform"
)

// pageSizes are the limits cycled with L.
var pageSizes = []int{10, 25, 50, 100}

// listLoadedMsg reports the end of a fetch issued by a list view.
type listLoadedMsg struct {
	err error
	// pageText is the page input text after a manual page entry.
	pageText string
}

type editLoadedMsg struct {
	form *recordform.Form
	err  error
}

type recordSubmittedMsg struct {
	form    *recordform.Form
	title   string
	outcome recordform.Outcome
	err     error
}

type recordDeletedMsg struct{ err error }

type exportDoneMsg struct {
	res listview.ExportResult
	err error
}

type savedSetsLoadedMsg struct {
	sets []*domain.SavedFilter
	err  error
}

// listView is the server-side table of one collection.
type listView[R domain.Record] struct {
	state *SharedState
	coll  *Collection[R]
	ctrl  *listview.Controller[R]
	cols  *listview.ColumnSet
	sel   *listview.Selection
	// picked keeps selected rows across pages for selection export.
	picked map[string]R

	cursor    int
	colCursor int
	inflight  int

	paging    bool
	pageInput textinput.Model
}

func (c *Collection[R]) newListView(state *SharedState) View {
	ti := textinput.New()
	ti.Prompt = "Go to page: "
	ti.CharLimit = 6
	ti.Width = 8
	return &listView[R]{
		state:     state,
		coll:      c,
		ctrl:      listview.NewController[R](c.Records, c.Filters, state.App.PageSize, state.App.notices()),
		cols:      c.newColumnSet(),
		sel:       listview.NewSelection(),
		picked:    map[string]R{},
		pageInput: ti,
	}
}

func (v *listView[R]) ID() ViewID    { return ViewList }
func (v *listView[R]) Title() string { return entityTitle(v.coll.Entity) }

// capturesInput routes Esc and q to the page input and to selection mode.
func (v *listView[R]) capturesInput() bool { return v.paging || v.sel.Active() }

func (v *listView[R]) ShortHelp() []key.Binding {
	if v.paging {
		return []key.Binding{
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "go")),
			key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		}
	}
	if v.sel.Active() {
		return []key.Binding{
			key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "row")),
			key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "column")),
			key.NewBinding(key.WithKeys("a"), key.WithHelp("a/A", "all rows/cols")),
			key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export selection")),
			key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "done")),
		}
	}
	return []key.Binding{
		key.NewBinding(key.WithKeys("n", "p"), key.WithHelp("←/→", "page")),
		key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "go to")),
		key.NewBinding(key.WithKeys("f"), key.WithHelp("f/r", "filter/reset")),
		key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
		key.NewBinding(key.WithKeys("c"), key.WithHelp("c/x", "preset/column")),
		key.NewBinding(key.WithKeys("+"), key.WithHelp("+/enter/d", "new/edit/delete")),
		key.NewBinding(key.WithKeys("e"), key.WithHelp("e/i", "export/import")),
		key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "select")),
	}
}

func (v *listView[R]) Init() tea.Cmd {
	filters := listview.NewFilterState(v.coll.Filters)
	if v.coll.Store != nil {
		filters = v.coll.Store.State()
	}
	return v.fetch(func(ctx context.Context) error {
		return v.ctrl.ApplyFilters(ctx, filters)
	})
}

// fetch runs one controller call off the update loop.
func (v *listView[R]) fetch(run func(ctx context.Context) error) tea.Cmd {
	v.inflight++
	return func() tea.Msg {
		return listLoadedMsg{err: run(context.Background())}
	}
}

func (v *listView[R]) loading() bool { return v.inflight > 0 }

// snapshot is the controller state with commands this view has issued but
// that have not started yet counted as loading.
func (v *listView[R]) snapshot() listview.Snapshot[R] {
	snap := v.ctrl.Snapshot()
	snap.Loading = snap.Loading || v.loading()
	return snap
}

func (v *listView[R]) reload() tea.Cmd {
	return v.fetch(v.ctrl.Reload)
}

func (v *listView[R]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case listLoadedMsg:
		v.inflight = max(v.inflight-1, 0)
		if msg.pageText != "" {
			v.pageInput.SetValue(msg.pageText)
		}
		v.clampCursor()
		return v, nil

	case refreshViewMsg:
		return v, v.reload()

	case editLoadedMsg:
		if msg.err != nil {
			notify.Error(v.state.App.notices(), fmt.Sprintf("Failed to load %s. Please try again.", v.coll.Entity.Singular))
			return v, nil
		}
		return v, v.openForm(msg.form, "Edit "+v.coll.Entity.Singular, "")

	case recordSubmittedMsg:
		switch msg.outcome {
		case recordform.OutcomeInvalid, recordform.OutcomeFailed:
			note := msg.form.Message()
			if note == "" && msg.err != nil {
				note = msg.err.Error()
			}
			return v, v.openForm(msg.form, msg.title, note)
		case recordform.OutcomeCreated, recordform.OutcomeUpdated:
			return v, v.reload()
		}
		return v, nil

	case recordDeletedMsg:
		n := v.state.App.notices()
		if msg.err != nil {
			notify.Error(n, recordform.UserMessage(msg.err, recordform.ActionDelete, v.coll.Entity.Singular))
			return v, nil
		}
		notify.Success(n, recordform.SuccessMessage(recordform.ActionDelete, v.coll.Entity.Singular))
		return v, v.reload()

	case exportDoneMsg:
		if msg.err == nil && v.sel.Active() {
			v.sel.ExitMode()
			clear(v.picked)
		}
		return v, nil

	case savedSetsLoadedMsg:
		return v, v.chooseSavedSet(msg)

	case tea.KeyMsg:
		if v.paging {
			return v.updatePageInput(msg)
		}
		return v.updateKeys(msg)
	}

	if v.paging {
		var cmd tea.Cmd
		v.pageInput, cmd = v.pageInput.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *listView[R]) updatePageInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		v.paging = false
		v.pageInput.Blur()
		return v, nil
	case tea.KeyEnter:
		v.paging = false
		v.pageInput.Blur()
		input := v.pageInput.Value()
		v.inflight++
		return v, func() tea.Msg {
			text, _, err := v.ctrl.SubmitManualPage(context.Background(), input)
			return listLoadedMsg{err: err, pageText: text}
		}
	}
	var cmd tea.Cmd
	v.pageInput, cmd = v.pageInput.Update(msg)
	return v, cmd
}

func (v *listView[R]) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	snap := v.snapshot()
	n := v.state.App.notices()

	if v.sel.Active() {
		if cmd, handled := v.updateSelection(msg, snap); handled {
			return v, cmd
		}
	}

	switch msg.String() {
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}
	case "down", "j":
		if v.cursor < len(snap.Rows)-1 {
			v.cursor++
		}
	case "tab":
		if keys := v.cols.VisibleKeys(); len(keys) > 0 {
			v.colCursor = (v.colCursor + 1) % len(keys)
		}
	case "shift+tab":
		if keys := v.cols.VisibleKeys(); len(keys) > 0 {
			v.colCursor = (v.colCursor - 1 + len(keys)) % len(keys)
		}

	// Paging controls are disabled while a request is in flight.
	case "right", "l", "n":
		if snap.CanNext() {
			return v, v.fetch(func(ctx context.Context) error { _, err := v.ctrl.Next(ctx); return err })
		}
	case "left", "h", "p":
		if snap.CanPrev() {
			return v, v.fetch(func(ctx context.Context) error { _, err := v.ctrl.Prev(ctx); return err })
		}
	case "g":
		if !snap.Loading && snap.Pagination.TotalPages > 0 {
			v.paging = true
			v.pageInput.SetValue(strconv.Itoa(snap.Pagination.PageNumber))
			v.pageInput.CursorEnd()
			return v, v.pageInput.Focus()
		}
	case "L":
		if !v.loading() {
			limit := nextPageSize(snap.Pagination.Limit)
			return v, v.fetch(func(ctx context.Context) error { return v.ctrl.SetLimit(ctx, limit) })
		}
	case "s":
		if keys := v.cols.VisibleKeys(); !v.loading() && len(keys) > 0 {
			field := keys[min(v.colCursor, len(keys)-1)]
			sort := listview.Sort{Field: field, Order: listview.SortAsc}
			if snap.Sort.Field == field {
				sort = snap.Sort.Toggle()
			}
			return v, v.fetch(func(ctx context.Context) error { return v.ctrl.SetSort(ctx, sort) })
		}

	case "f":
		return v, v.openFilterForm(snap.Filters)
	case "r":
		return v, v.applyFilters(listview.NewFilterState(v.coll.Filters), true)
	case "w":
		return v, v.saveFilterSet(snap)
	case "o":
		return v, v.loadSavedSets()

	case "c":
		presets := v.cols.Presets()
		i := slices.Index(presets, v.cols.ActivePreset())
		v.cols.ApplyPreset(presets[(i+1)%len(presets)])
		v.colCursor = 0
	case "x":
		if !v.cols.CanToggle() {
			notify.Info(n, fmt.Sprintf("Switch to the %q preset to toggle single columns.", listview.PresetAll))
			return v, nil
		}
		return v, v.openColumnPicker()

	case "v":
		v.sel.EnterMode()
	case "+":
		return v, v.openForm(v.coll.openCreate(n), "New "+v.coll.Entity.Singular, "")
	case "enter":
		if row, ok := v.cursorRow(snap); ok {
			id := row.RecordID()
			return v, func() tea.Msg {
				f, err := v.coll.openEdit(context.Background(), id, n)
				return editLoadedMsg{form: f, err: err}
			}
		}
	case "d":
		if row, ok := v.cursorRow(snap); ok {
			return v, v.confirmDelete(row.RecordID())
		}
	case "e":
		return v, v.openExportForm(snap)
	case "i":
		return v, v.openImportForm()
	}
	return v, nil
}

// updateSelection handles the keys of selection mode. It reports false for
// keys that keep their normal meaning.
func (v *listView[R]) updateSelection(msg tea.KeyMsg, snap listview.Snapshot[R]) (tea.Cmd, bool) {
	switch msg.String() {
	case " ":
		if row, ok := v.cursorRow(snap); ok {
			id := row.RecordID()
			v.sel.ToggleRow(id)
			if v.sel.IsRowSelected(id) {
				v.picked[id] = row
			} else {
				delete(v.picked, id)
			}
		}
		return nil, true
	case "a":
		ids := make([]string, len(snap.Rows))
		for i, r := range snap.Rows {
			ids[i] = r.RecordID()
			v.picked[ids[i]] = r
		}
		v.sel.SelectAllRows(ids)
		return nil, true
	case "A":
		v.sel.SelectAllColumns(v.cols.VisibleKeys())
		return nil, true
	case "t":
		if keys := v.cols.VisibleKeys(); len(keys) > 0 {
			v.sel.ToggleColumn(keys[min(v.colCursor, len(keys)-1)])
		}
		return nil, true
	case "e":
		return v.exportSelection(), true
	case "v", "esc":
		v.sel.ExitMode()
		clear(v.picked)
		return nil, true
	}
	return nil, false
}

func (v *listView[R]) cursorRow(snap listview.Snapshot[R]) (R, bool) {
	if v.cursor < 0 || v.cursor >= len(snap.Rows) {
		var zero R
		return zero, false
	}
	return snap.Rows[v.cursor], true
}

func (v *listView[R]) clampCursor() {
	rows := len(v.ctrl.Snapshot().Rows)
	v.cursor = max(min(v.cursor, rows-1), 0)
}

func nextPageSize(current int) int {
	for _, s := range pageSizes {
		if s > current {
			return s
		}
	}
	return pageSizes[0]
}

// ── filters ──────────────────────────────────────────────────────────────────

func (v *listView[R]) openFilterForm(current listview.FilterState) tea.Cmd {
	if v.coll.Store != nil {
		current = v.coll.Store.State()
	}
	in := newFilterInputs(v.coll.Filters, current)
	return startWizardCmd(v.state, "Filters", in.huhForm(), func() tea.Cmd {
		return v.applyFilters(in.State(), false)
	})
}

// applyFilters fetches page 1 with fs. With a shared store the store is
// updated first so other lists bound to it see the same filters.
func (v *listView[R]) applyFilters(fs listview.FilterState, reset bool) tea.Cmd {
	if st := v.coll.Store; st != nil {
		if reset {
			st.Dispatch(filterstore.ResetFilters())
		} else {
			st.Dispatch(filterstore.Replace{State: fs})
		}
		fs = st.State()
	}
	return v.fetch(func(ctx context.Context) error {
		return v.ctrl.ApplyFilters(ctx, fs)
	})
}

func (v *listView[R]) saveFilterSet(snap listview.Snapshot[R]) tea.Cmd {
	app := v.state.App
	if app.SavedFilters == nil {
		notify.Info(app.notices(), "Saved filters are not available.")
		return nil
	}
	var name string
	entity, schema := v.coll.Entity, v.coll.Filters
	return startWizardCmd(v.state, "Save filters", wizardInputText("Filter set name", "e.g. Dubai investors", true, &name), func() tea.Cmd {
		return func() tea.Msg {
			saved, err := app.SavedFilters.Save(context.Background(), entity, name, schema, snap.Filters, snap.Sort)
			if err != nil {
				notify.Error(app.notices(), "Failed to save filter set. Please try again.")
				return nil
			}
			notify.Success(app.notices(), fmt.Sprintf("Saved filter set %q.", saved.Name))
			return nil
		}
	})
}

func (v *listView[R]) loadSavedSets() tea.Cmd {
	app := v.state.App
	if app.SavedFilters == nil {
		notify.Info(app.notices(), "Saved filters are not available.")
		return nil
	}
	entity := v.coll.Entity
	return func() tea.Msg {
		sets, err := app.SavedFilters.List(context.Background(), entity)
		return savedSetsLoadedMsg{sets: sets, err: err}
	}
}

func (v *listView[R]) chooseSavedSet(msg savedSetsLoadedMsg) tea.Cmd {
	n := v.state.App.notices()
	if msg.err != nil {
		notify.Error(n, "Failed to load saved filter sets.")
		return nil
	}
	if len(msg.sets) == 0 {
		notify.Info(n, "No saved filter sets yet. Press w to save the current filters.")
		return nil
	}
	opts := make([]huh.Option[int], len(msg.sets))
	for i, s := range msg.sets {
		opts[i] = huh.NewOption(s.Name, i)
	}
	choice := 0
	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[int]().Title("Apply filter set").Options(opts...).Value(&choice),
	)).WithTheme(deskHuhTheme()).WithShowHelp(false)
	return startWizardCmd(v.state, "Filter sets", form, func() tea.Cmd {
		saved := msg.sets[choice]
		fs := saved.Apply(v.coll.Filters)
		if st := v.coll.Store; st != nil {
			st.Dispatch(filterstore.Replace{State: fs})
			fs = st.State()
		}
		return v.fetch(func(ctx context.Context) error {
			if err := v.ctrl.ApplyFilters(ctx, fs); err != nil {
				return err
			}
			if saved.Sort.Field == "" || saved.Sort == v.ctrl.Snapshot().Sort {
				return nil
			}
			return v.ctrl.SetSort(ctx, saved.Sort)
		})
	})
}

// openColumnPicker lets every column of the "all" preset be shown or
// hidden at once.
func (v *listView[R]) openColumnPicker() tea.Cmd {
	all := v.cols.Columns()
	opts := make([]huh.Option[string], len(all))
	var shown []string
	for i, c := range all {
		opts[i] = huh.NewOption(c.Label, c.Key)
		if v.cols.IsVisible(c.Key) {
			shown = append(shown, c.Key)
		}
	}
	form := huh.NewForm(huh.NewGroup(
		huh.NewMultiSelect[string]().Title("Visible columns").Options(opts...).Value(&shown),
	)).WithTheme(deskHuhTheme()).WithShowHelp(false)
	return startWizardCmd(v.state, "Columns", form, func() tea.Cmd {
		for _, c := range all {
			if v.cols.IsVisible(c.Key) != slices.Contains(shown, c.Key) {
				v.cols.Toggle(c.Key)
			}
		}
		v.colCursor = 0
		return nil
	})
}

// ── records ──────────────────────────────────────────────────────────────────

// openForm pushes the record form. A failed submit reopens it with the
// values kept and note shown above.
func (v *listView[R]) openForm(form *recordform.Form, title, note string) tea.Cmd {
	in := newRecordInputs(form)
	wv := newWizardView(v.state, title, in.huhForm(), func() tea.Cmd {
		return func() tea.Msg {
			if err := in.apply(form); err != nil {
				return recordSubmittedMsg{form: form, title: title, outcome: recordform.OutcomeInvalid, err: err}
			}
			outcome, err := form.Submit(context.Background())
			return recordSubmittedMsg{form: form, title: title, outcome: outcome, err: err}
		}
	})
	wv.note = note
	return pushView(wv)
}

func (v *listView[R]) confirmDelete(id string) tea.Cmd {
	confirmed := false
	records := v.coll.Records
	title := fmt.Sprintf("Delete %s %s?", v.coll.Entity.Singular, id)
	return startWizardCmd(v.state, "Delete", wizardConfirm(title, &confirmed), func() tea.Cmd {
		return func() tea.Msg {
			if !confirmed {
				return nil
			}
			return recordDeletedMsg{err: records.Delete(context.Background(), id)}
		}
	})
}

// ── export and import ────────────────────────────────────────────────────────

func (v *listView[R]) openExportForm(snap listview.Snapshot[R]) tea.Cmd {
	exp := v.coll.Export
	if exp == nil {
		notify.Info(v.state.App.notices(), "Export is not available for "+v.coll.Entity.Name+".")
		return nil
	}
	withFilters := snap.Filters.ActiveCount(v.coll.Filters) > 0
	capText := strconv.Itoa(listview.ClampCap(v.state.App.ExportCap))
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title("Apply current filters and sort?").
			Affirmative("Yes").
			Negative("No, export everything").
			Value(&withFilters),
		huh.NewInput().
			Title(fmt.Sprintf("Maximum records (1-%d)", listview.MaxExportRecords)).
			Value(&capText).
			Validate(validateCap),
	)).WithTheme(deskHuhTheme()).WithShowHelp(false)

	return startWizardCmd(v.state, "Export", form, func() tea.Cmd {
		return func() tea.Msg {
			limit, _ := strconv.Atoi(strings.TrimSpace(capText))
			res, err := exp.Export(context.Background(), listview.ExportRequest{
				WithFilters: withFilters,
				Cap:         limit,
				Filters:     snap.Filters,
				Sort:        snap.Sort,
			})
			return exportDoneMsg{res: res, err: err}
		}
	})
}

func validateCap(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 || n > listview.MaxExportRecords {
		return fmt.Errorf("enter a number from 1 to %d", listview.MaxExportRecords)
	}
	return nil
}

func (v *listView[R]) exportSelection() tea.Cmd {
	exp := v.coll.Export
	if exp == nil {
		notify.Info(v.state.App.notices(), "Export is not available for "+v.coll.Entity.Name+".")
		return nil
	}
	ids := v.sel.SelectedRowIDs()
	rows := make([]R, 0, len(ids))
	for _, id := range ids {
		if r, ok := v.picked[id]; ok {
			rows = append(rows, r)
		}
	}
	columns := v.sel.SelectedColumnKeys()
	return func() tea.Msg {
		res, err := exp.ExportSelection(context.Background(), rows, columns)
		if errors.Is(err, listview.ErrNothingSelected) {
			return nil
		}
		return exportDoneMsg{res: res, err: err}
	}
}

func (v *listView[R]) openImportForm() tea.Cmd {
	var path string
	n := v.state.App.notices()
	title := "Import " + v.coll.Entity.Name
	imp := v.coll.newImporter(n)
	imp.Refresh = v.ctrl.Reload
	form := wizardInputText("File to import (.csv, .xlsx, .xls)", "/path/to/file.csv", true, &path)
	return startWizardCmd(v.state, title, form, func() tea.Cmd {
		return func() tea.Msg {
			f, err := importer.LoadFile(strings.TrimSpace(path))
			if err != nil {
				notify.Error(n, fmt.Sprintf("Could not read %s.", path))
				return nil
			}
			return pushViewMsg{view: newImportView(v.state, title, imp, f)}
		}
	})
}

// ── rendering ────────────────────────────────────────────────────────────────

func (v *listView[R]) View() string {
	snap := v.snapshot()
	var b strings.Builder

	head := "  " + formatter.StyleHeader.Render(strings.ToUpper(entityTitle(v.coll.Entity)))
	head += "  " + formatter.Dim("preset: "+v.cols.ActivePreset())
	if snap.Loading {
		head += "  " + formatter.StyleYellow.Render("loading…")
	}
	b.WriteString("\n" + head + "\n")

	if summary := formatter.FilterSummary(v.coll.Filters, snap.Filters); summary != "" {
		b.WriteString("  " + formatter.Dim("Filters: ") + summary + "\n")
	} else {
		b.WriteString("  " + formatter.Dim("No filters") + "\n")
	}
	b.WriteString("  " + formatter.Dim(fmt.Sprintf("Sorted by %s %s", snap.Sort.Field, snap.Sort.Order)) + "\n\n")

	switch {
	case !snap.Loaded && snap.Err == nil:
		b.WriteString("  " + formatter.Dim("Loading…") + "\n")
	case len(snap.Rows) == 0 && snap.Loaded:
		b.WriteString("  " + fmt.Sprintf("No %s found.", strings.ReplaceAll(v.coll.Entity.Name, "-", " ")) + "\n")
	default:
		b.WriteString(indent(v.grid(snap).Render(), "  "))
	}

	b.WriteString("\n")
	if v.paging {
		b.WriteString("  " + v.pageInput.View() + "\n")
	} else {
		b.WriteString("  " + formatter.Dim(formatter.PageSummary(snap.Pagination)) + "\n")
	}
	if v.sel.Active() {
		b.WriteString("  " + formatter.StyleGreen.Render(fmt.Sprintf("Selection: %d rows, %d columns", v.sel.RowCount(), v.sel.ColumnCount())) + "\n")
	}
	return b.String()
}

// grid renders the visible window of rows around the cursor.
func (v *listView[R]) grid(snap listview.Snapshot[R]) formatter.Grid {
	visible := listview.VisibleColumns(v.cols, v.coll.Columns)
	headers := make([]string, len(visible))
	for i, c := range visible {
		headers[i] = c.Label
	}

	window := max(v.state.ContentHeight()-9, 3)
	start := 0
	if v.cursor >= window {
		start = v.cursor - window + 1
	}
	end := min(start+window, len(snap.Rows))

	g := formatter.Grid{
		Headers:      headers,
		Cursor:       v.cursor - start,
		ColumnCursor: -1,
		MaxCell:      28,
	}
	if len(visible) > 0 {
		g.ColumnCursor = min(v.colCursor, len(visible)-1)
	}
	if v.sel.Active() {
		g.Marks = make([]bool, 0, end-start)
		g.MarkedColumns = make([]bool, len(visible))
		for i, c := range visible {
			g.MarkedColumns[i] = v.sel.IsColumnSelected(c.Key)
		}
	}
	for _, r := range snap.Rows[start:end] {
		line := make([]string, len(visible))
		for i, c := range visible {
			line[i] = c.Value(r)
		}
		g.Rows = append(g.Rows, line)
		if v.sel.Active() {
			g.Marks = append(g.Marks, v.sel.IsRowSelected(r.RecordID()))
		}
	}
	return g
}

func indent(s, prefix string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n") + "\n"
}
