package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexanderramin/estatedesk/internal/cli/formatter"
)

// entityMenuView is the home view: one entry per configured collection.
type entityMenuView struct {
	state  *SharedState
	items  []collection
	cursor int
}

func newEntityMenuView(state *SharedState) *entityMenuView {
	return &entityMenuView{state: state, items: state.App.collections()}
}

func (v *entityMenuView) ID() ViewID    { return ViewEntityMenu }
func (v *entityMenuView) Title() string { return "" }

func (v *entityMenuView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		key.NewBinding(key.WithKeys("1"), key.WithHelp("1-9", "jump")),
	}
}

func (v *entityMenuView) Init() tea.Cmd { return nil }

func (v *entityMenuView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}
	switch km.String() {
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}
	case "down", "j":
		if v.cursor < len(v.items)-1 {
			v.cursor++
		}
	case "enter":
		return v, v.open()
	default:
		s := km.String()
		if len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
			if i := int(s[0] - '1'); i < len(v.items) {
				v.cursor = i
				return v, v.open()
			}
		}
	}
	return v, nil
}

func (v *entityMenuView) open() tea.Cmd {
	if v.cursor >= len(v.items) {
		return nil
	}
	return pushView(v.items[v.cursor].newListView(v.state))
}

func (v *entityMenuView) View() string {
	var b strings.Builder
	b.WriteString("\n  " + formatter.StyleHeader.Render("COLLECTIONS") + "\n\n")
	if len(v.items) == 0 {
		b.WriteString("  " + formatter.Dim("No collections configured.") + "\n")
		return b.String()
	}
	for i, c := range v.items {
		cursor := "  "
		style := formatter.StyleFg
		if i == v.cursor {
			cursor = formatter.StyleGreen.Render("▸ ")
			style = formatter.StyleBold
		}
		hint := formatter.Dim(fmt.Sprintf("[%d]", i+1))
		b.WriteString(fmt.Sprintf("%s%s  %s\n", cursor, style.Render(entityTitle(c.entity())), hint))
	}
	return b.String()
}
