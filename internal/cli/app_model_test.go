package cli

import (
	"fmt"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/estatedesk/internal/notify"
)

type stubView struct {
	id         ViewID
	title      string
	viewText   string
	shortHelp  []key.Binding
	initCmd    tea.Cmd
	updateCmd  tea.Cmd
	updateSeen []tea.Msg
	capturing  bool
}

func (v *stubView) Init() tea.Cmd { return v.initCmd }

func (v *stubView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	v.updateSeen = append(v.updateSeen, msg)
	return v, v.updateCmd
}

func (v *stubView) View() string             { return v.viewText }
func (v *stubView) ID() ViewID               { return v.id }
func (v *stubView) ShortHelp() []key.Binding { return v.shortHelp }
func (v *stubView) Title() string            { return v.title }
func (v *stubView) capturesInput() bool      { return v.capturing }
func newStubView(id ViewID, title, text string) *stubView {
	return &stubView{id: id, title: title, viewText: text}
}

func newTestAppModel(t *testing.T) appModel {
	t.Helper()
	app, _ := testApp(t)
	return newAppModel(app, nil)
}

func TestNewAppModelStartsAtMenu(t *testing.T) {
	m := newTestAppModel(t)

	require.Len(t, m.viewStack, 1)
	assert.Equal(t, ViewEntityMenu, m.activeView().ID())
}

func TestNewAppModelWithStartCollection(t *testing.T) {
	app, _ := testApp(t)
	m := newAppModel(app, app.Properties)

	require.Len(t, m.viewStack, 2)
	assert.Equal(t, ViewList, m.activeView().ID())
	assert.Equal(t, "Properties", m.activeView().Title())
}

func TestAppModel_NavigationMessages(t *testing.T) {
	m := newTestAppModel(t)
	v2 := newStubView(ViewList, "Customers", "customers view")
	v3 := newStubView(ViewImport, "Import customers", "import view")

	model, cmd := m.Update(pushViewMsg{view: v2})
	m = model.(appModel)
	require.Nil(t, cmd)
	require.Len(t, m.viewStack, 2)
	assert.Equal(t, v2, m.activeView())

	model, cmd = m.Update(replaceViewMsg{view: v3})
	m = model.(appModel)
	require.Nil(t, cmd)
	require.Len(t, m.viewStack, 2)
	assert.Equal(t, v3, m.activeView())

	model, cmd = m.Update(popViewMsg{})
	m = model.(appModel)
	require.Nil(t, cmd)
	require.Len(t, m.viewStack, 1)
	assert.Equal(t, ViewEntityMenu, m.activeView().ID())

	// The menu is never popped.
	model, _ = m.Update(popViewMsg{})
	m = model.(appModel)
	assert.Len(t, m.viewStack, 1)
}

func TestAppModel_RefreshReachesEveryView(t *testing.T) {
	m := newTestAppModel(t)
	below := newStubView(ViewList, "Customers", "")
	top := newStubView(ViewImport, "Import", "")
	m.viewStack = []View{below, top}

	_, _ = m.Update(refreshViewMsg{})

	require.Len(t, below.updateSeen, 1)
	require.Len(t, top.updateSeen, 1)
	assert.IsType(t, refreshViewMsg{}, below.updateSeen[0])
}

func TestAppModel_WindowResizeForwardsToActiveView(t *testing.T) {
	m := newTestAppModel(t)
	v := newStubView(ViewList, "Customers", "customers")
	m.viewStack = []View{v}

	model, cmd := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = model.(appModel)
	require.Nil(t, cmd)

	assert.Equal(t, 100, m.state.Width)
	assert.Equal(t, 30, m.state.Height)
	assert.Equal(t, 25, m.state.ContentHeight())
	require.Len(t, v.updateSeen, 1)
	_, ok := v.updateSeen[0].(tea.WindowSizeMsg)
	assert.True(t, ok)
}

func TestAppModel_KeyHandling_GlobalAndCaptured(t *testing.T) {
	t.Run("q quits when active view does not capture input", func(t *testing.T) {
		m := newTestAppModel(t)
		m.viewStack = []View{newStubView(ViewList, "Customers", "customers")}

		model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
		m = model.(appModel)
		require.NotNil(t, cmd)
		assert.True(t, m.quitting)
		assert.IsType(t, tea.QuitMsg{}, cmd())
	})

	t.Run("capturing view receives q and does not quit", func(t *testing.T) {
		m := newTestAppModel(t)
		v := newStubView(ViewList, "Customers", "customers")
		v.capturing = true
		m.viewStack = []View{v}

		model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
		m = model.(appModel)
		require.Nil(t, cmd)
		assert.False(t, m.quitting)
		require.Len(t, v.updateSeen, 1)
		assert.Equal(t, "q", v.updateSeen[0].(tea.KeyMsg).String())
	})

	t.Run("ctrl+c quits even from a form", func(t *testing.T) {
		m := newTestAppModel(t)
		m.viewStack = []View{newStubView(ViewForm, "Filters", "form")}

		model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
		m = model.(appModel)
		require.NotNil(t, cmd)
		assert.True(t, m.quitting)
	})

	t.Run("esc pops back stack", func(t *testing.T) {
		m := newTestAppModel(t)
		m.viewStack = []View{
			newStubView(ViewEntityMenu, "", "menu"),
			newStubView(ViewList, "Customers", "customers"),
		}
		m.lastOutput = "stale output"
		m.outputActive = true

		// The first Esc only dismisses the output.
		model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
		m = model.(appModel)
		require.Nil(t, cmd)
		require.Len(t, m.viewStack, 2)
		assert.Empty(t, m.lastOutput)
		assert.False(t, m.outputActive)

		model, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
		m = model.(appModel)
		assert.Len(t, m.viewStack, 1)
	})
}

func TestAppModel_WizardCompleteAndOutput(t *testing.T) {
	m := newTestAppModel(t)
	m.viewStack = []View{
		newStubView(ViewList, "Customers", "customers"),
		newStubView(ViewForm, "Filters", "wizard"),
	}

	next := func() tea.Msg { return cmdOutputMsg{output: "done"} }

	model, cmd := m.Update(wizardCompleteMsg{nextCmd: next})
	m = model.(appModel)
	require.NotNil(t, cmd)
	require.Len(t, m.viewStack, 1)
	assert.Equal(t, cmdOutputMsg{output: "done"}, cmd())

	model, cmd = m.Update(cmdOutputMsg{output: "hello"})
	m = model.(appModel)
	require.Nil(t, cmd)
	assert.Contains(t, m.View(), "hello")
}

func TestAppModel_NoticeLine(t *testing.T) {
	app, _ := testApp(t)
	m := newAppModel(app, nil)

	notify.Error(app.notices(), "Failed to load. Please try again.")
	notify.Success(app.notices(), "Customer added successfully.")
	model, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	m = model.(appModel)

	assert.Equal(t, notify.KindSuccess, m.state.Notice.Kind)
	assert.Contains(t, m.View(), "Customer added successfully.")
	assert.NotContains(t, m.View(), "Failed to load")
}

func TestViewCapturesInput(t *testing.T) {
	capturing := newStubView(ViewList, "Customers", "")
	capturing.capturing = true

	assert.False(t, viewCapturesInput(nil))
	assert.True(t, viewCapturesInput(newStubView(ViewForm, "Form", "")))
	assert.True(t, viewCapturesInput(capturing))
	assert.False(t, viewCapturesInput(newStubView(ViewList, "Customers", "")))
	assert.False(t, viewCapturesInput(newStubView(ViewEntityMenu, "", "")))
}

func TestAppModel_OutputViewportScroll(t *testing.T) {
	m := newTestAppModel(t)
	m.viewStack = []View{newStubView(ViewList, "Customers", "customers")}

	// Set terminal size (height 10 → content height = 5).
	model, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 10})
	m = model.(appModel)

	lines := make([]string, 50)
	for i := range lines {
		lines[i] = fmt.Sprintf("record %d", i+1)
	}
	content := strings.Join(lines, "\n")

	model, _ = m.Update(cmdOutputMsg{output: content})
	m = model.(appModel)
	assert.True(t, m.outputActive)

	view := m.View()
	assert.Contains(t, view, "record 1")
	assert.Contains(t, view, "[TOP]")

	// Scroll down: output stays active.
	model, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = model.(appModel)
	assert.True(t, m.outputActive)

	// Non-scroll key dismisses.
	model, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	m = model.(appModel)
	assert.False(t, m.outputActive)
	assert.Empty(t, m.lastOutput)
}

func TestAppModel_OutputShortContentNoScroll(t *testing.T) {
	m := newTestAppModel(t)
	m.viewStack = []View{newStubView(ViewList, "Customers", "customers")}

	model, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 40})
	m = model.(appModel)

	model, _ = m.Update(cmdOutputMsg{output: "short output"})
	m = model.(appModel)
	assert.True(t, m.outputActive)

	view := m.View()
	assert.Contains(t, view, "short output")
	assert.NotContains(t, view, "pgup/pgdn")
}

func TestIsOutputScrollKey(t *testing.T) {
	scrollKeys := []tea.KeyType{
		tea.KeyUp, tea.KeyDown, tea.KeyPgUp, tea.KeyPgDown,
		tea.KeyHome, tea.KeyEnd, tea.KeyCtrlU, tea.KeyCtrlD,
	}
	for _, k := range scrollKeys {
		assert.True(t, isOutputScrollKey(tea.KeyMsg{Type: k}), "expected scroll key: %v", k)
	}

	nonScrollKeys := []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune{'q'}},
		{Type: tea.KeyRunes, Runes: []rune{'n'}},
		{Type: tea.KeyEsc},
		{Type: tea.KeyEnter},
	}
	for _, k := range nonScrollKeys {
		assert.False(t, isOutputScrollKey(k), "expected non-scroll key: %v", k)
	}
}
