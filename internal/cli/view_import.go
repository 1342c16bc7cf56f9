package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexanderramin/estatedesk/internal/cli/formatter"
	"github.com/alexanderramin/estatedesk/internal/importer"
)

type importProgressMsg int

type importDoneMsg struct {
	res importer.Result
	err error
}

type importCloseMsg struct{}

// importView uploads one file and shows its progress. A successful import
// closes itself after importer.AutoCloseDelay.
type importView struct {
	state   *SharedState
	title   string
	imp     *importer.Controller
	file    importer.File
	preview importer.Preview

	progress chan int
	percent  int
	done     bool
	res      importer.Result
	err      error
}

func newImportView(state *SharedState, title string, imp *importer.Controller, f importer.File) *importView {
	v := &importView{
		state:    state,
		title:    title,
		imp:      imp,
		file:     f,
		progress: make(chan int, 16),
	}
	v.preview, _ = importer.PreviewFile(f)
	imp.OnProgress = func(p int) {
		select {
		case v.progress <- p:
		default:
		}
	}
	return v
}

func (v *importView) ID() ViewID    { return ViewImport }
func (v *importView) Title() string { return v.title }

// capturesInput keeps Esc from leaving while the upload runs.
func (v *importView) capturesInput() bool { return !v.done }

func (v *importView) ShortHelp() []key.Binding {
	if !v.done {
		return nil
	}
	return []key.Binding{key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close"))}
}

func (v *importView) Init() tea.Cmd {
	return tea.Batch(v.upload(), v.listen())
}

func (v *importView) upload() tea.Cmd {
	return func() tea.Msg {
		res, err := v.imp.Upload(context.Background(), []importer.File{v.file})
		// Upload has stopped reporting progress once it returns.
		close(v.progress)
		return importDoneMsg{res: res, err: err}
	}
}

func (v *importView) listen() tea.Cmd {
	return func() tea.Msg {
		p, ok := <-v.progress
		if !ok {
			return nil
		}
		return importProgressMsg(p)
	}
}

func (v *importView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case importProgressMsg:
		v.percent = max(v.percent, int(msg))
		return v, v.listen()

	case importDoneMsg:
		v.done = true
		v.res = msg.res
		v.err = msg.err
		// A failed refresh after a completed import still counts as done.
		if msg.err == nil || msg.res.Summary != "" {
			v.percent = importer.ProgressDone
			return v, tea.Tick(importer.AutoCloseDelay, func(time.Time) tea.Msg { return importCloseMsg{} })
		}
		return v, nil

	case importCloseMsg:
		return v, popView()
	}
	return v, nil
}

func (v *importView) View() string {
	var b strings.Builder
	b.WriteString("\n  " + formatter.StyleHeader.Render(strings.ToUpper(v.title)) + "\n\n")
	b.WriteString("  " + formatter.Bold(v.file.Name) + "  " + formatter.Dim(fmt.Sprintf("%d bytes", len(v.file.Data))) + "\n")
	if len(v.preview.Headers) > 0 {
		b.WriteString("  " + formatter.Dim(fmt.Sprintf("%d rows · columns: %s", v.preview.Rows, strings.Join(v.preview.Headers, ", "))) + "\n")
	}
	b.WriteString("\n  " + formatter.RenderProgress(v.percent, max(min(v.state.Width-20, 50), 10)) + "\n\n")

	switch {
	case !v.done:
		b.WriteString("  " + formatter.Dim("Uploading…") + "\n")
	case v.res.Summary != "":
		b.WriteString("  " + formatter.StyleGreen.Render(v.res.Summary) + "\n")
	case v.err != nil:
		b.WriteString("  " + formatter.StyleRed.Render("Import failed.") + " " + formatter.Dim("Press esc to close.") + "\n")
	}
	return b.String()
}
