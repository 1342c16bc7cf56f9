package cli

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newBrowseCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "browse [entity]",
		Short: "Browse collections in a full-screen table",
		Long: `Open the interactive list. Without an entity the collection menu is
shown first. Filters, paging, column presets, selection export, record
forms and imports are all available from the keyboard.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return errors.New("browse needs an interactive terminal")
			}
			var start collection
			if len(args) == 1 {
				c, err := app.collectionFor(args[0])
				if err != nil {
					return err
				}
				start = c
			}

			// Notices queue for the notice line instead of printing over
			// the screen.
			app.notices().SetOutput(nil)
			defer app.notices().SetOutput(cmd.ErrOrStderr())

			p := tea.NewProgram(newAppModel(app, start),
				tea.WithAltScreen(),
				tea.WithMouseCellMotion(),
				tea.WithContext(cmd.Context()),
			)
			_, err := p.Run()
			return err
		},
	}
}
