package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/estatedesk/internal/cli/formatter"
	"github.com/alexanderramin/estatedesk/internal/domain"
)

func newExportsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exports",
		Short: "Inspect past exports",
	}
	cmd.AddCommand(newExportsHistoryCmd(app))
	return cmd
}

func newExportsHistoryCmd(app *App) *cobra.Command {
	var entity string
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent export files, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Exports == nil {
				return fmt.Errorf("export history is not available")
			}
			name := ""
			if entity != "" {
				e, err := domain.EntityByName(entity)
				if err != nil {
					return err
				}
				name = e.Name
			}
			records, err := app.Exports.History(cmd.Context(), name, limit)
			if err != nil {
				return fmt.Errorf("loading export history: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderExportHistory(records, app.now()))
			return nil
		},
	}
	cmd.Flags().StringVar(&entity, "entity", "", "only exports of this entity")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum entries")
	return cmd
}
