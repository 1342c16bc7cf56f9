package cli

import (
	"testing"
	"time"

	"github.com/alexanderramin/estatedesk/internal/teatest"
)

// tuiCmdTimeout leaves room for requests to the fake CMS while still
// skipping cursor blink Cmds.
const tuiCmdTimeout = 300 * time.Millisecond

// TestDriver wraps teatest.Driver with appModel inspection methods.
// It provides access to appModel internals (view stack, shared state)
// that the generic driver can't see.
type TestDriver struct {
	*teatest.Driver
}

// NewTestDriver creates a TestDriver starting on the collection menu.
func NewTestDriver(t *testing.T, app *App) *TestDriver {
	t.Helper()
	return newDriver(t, newAppModel(app, nil))
}

// NewListDriver creates a TestDriver with the list of start open, as
// `browse <entity>` does. Init fetches the first page.
func NewListDriver(t *testing.T, app *App, start collection) *TestDriver {
	t.Helper()
	return newDriver(t, newAppModel(app, start))
}

func newDriver(t *testing.T, m appModel) *TestDriver {
	t.Helper()
	d := teatest.New(t, m, teatest.WithSize(140, 40), teatest.WithCmdTimeout(tuiCmdTimeout))
	d.DrainInit()
	return &TestDriver{Driver: d}
}

// ── appModel inspection ──────────────────────────────────────────────────────

func (d *TestDriver) appModel() appModel {
	return d.Model.(appModel)
}

// ActiveViewID returns the ViewID of the top view on the stack.
func (d *TestDriver) ActiveViewID() ViewID {
	m := d.appModel()
	v := m.activeView()
	if v == nil {
		return ViewID(-1)
	}
	return v.ID()
}

// ActiveViewTitle returns the Title() of the top view on the stack.
func (d *TestDriver) ActiveViewTitle() string {
	m := d.appModel()
	v := m.activeView()
	if v == nil {
		return ""
	}
	return v.Title()
}

// ActiveView returns the top view for type assertions.
func (d *TestDriver) ActiveView() View {
	m := d.appModel()
	return m.activeView()
}

// ViewStackLen returns the number of views on the stack.
func (d *TestDriver) ViewStackLen() int {
	return len(d.appModel().viewStack)
}

// ViewStackIDs returns the ViewIDs of all views on the stack, bottom to top.
func (d *TestDriver) ViewStackIDs() []ViewID {
	m := d.appModel()
	ids := make([]ViewID, len(m.viewStack))
	for i, v := range m.viewStack {
		ids[i] = v.ID()
	}
	return ids
}

// State returns the shared state for inspection.
func (d *TestDriver) State() *SharedState {
	return d.appModel().state
}

// IsQuitting returns whether the app has signaled a quit.
func (d *TestDriver) IsQuitting() bool {
	return d.appModel().quitting || d.Quitting
}

// LastOutput returns the transient output displayed in the content area.
func (d *TestDriver) LastOutput() string {
	return d.appModel().lastOutput
}
