package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/estatedesk/internal/cli/formatter"
	"github.com/alexanderramin/estatedesk/internal/listview"
	"github.com/alexanderramin/estatedesk/internal/notify"
	"github.com/alexanderramin/estatedesk/internal/repository"
)

func newFiltersCmd(app *App, c collection) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "filters",
		Aliases: []string{"filter-sets"},
		Short:   fmt.Sprintf("Manage saved filter sets for %s", c.entity().Name),
	}
	cmd.AddCommand(
		newFiltersListCmd(app, c),
		newFiltersSaveCmd(app, c),
		newFiltersShowCmd(app, c),
		newFiltersDeleteCmd(app, c),
	)
	return cmd
}

func newFiltersListCmd(app *App, c collection) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List saved filter sets",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sets, err := app.SavedFilters.List(cmd.Context(), c.entity())
			if err != nil {
				return fmt.Errorf("listing filter sets: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderSavedFilters(sets, c.schema(), app.now()))
			return nil
		},
	}
}

func newFiltersSaveCmd(app *App, c collection) *cobra.Command {
	ff := newFilterFlags(c.schema())
	var sf sortFlags
	cmd := &cobra.Command{
		Use:   "save NAME",
		Short: "Save the given filters under NAME, replacing a set with the same name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sort, err := sf.resolve(listview.DefaultSort)
			if err != nil {
				return err
			}
			return saveFilterSet(cmd, app, c, args[0], ff.State(), sort)
		},
	}
	ff.AddFlags(cmd.Flags())
	sf.register(cmd)
	return cmd
}

func newFiltersShowCmd(app *App, c collection) *cobra.Command {
	return &cobra.Command{
		Use:   "show NAME",
		Short: "Show a saved filter set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			saved, err := app.SavedFilters.Get(cmd.Context(), c.entity(), args[0])
			if err != nil {
				return savedFilterError(err, args[0])
			}
			fields := []formatter.Field{{Label: "Name", Value: saved.Name}}
			fs := saved.Apply(c.schema())
			for _, f := range c.schema() {
				if fs.Active(f) {
					fields = append(fields, formatter.Field{Label: f.Label, Value: formatter.FilterValue(f, fs[f.Key])})
				}
			}
			if saved.Sort.Field != "" {
				fields = append(fields, formatter.Field{Label: "Sort", Value: fmt.Sprintf("%s %s", saved.Sort.Field, saved.Sort.Order)})
			}
			fields = append(fields, formatter.Field{Label: "Updated", Value: formatter.HumanTimestamp(saved.UpdatedAt, app.now())})
			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderRecord(fields))
			return nil
		},
	}
}

func newFiltersDeleteCmd(app *App, c collection) *cobra.Command {
	return &cobra.Command{
		Use:     "delete NAME",
		Aliases: []string{"rm"},
		Short:   "Delete a saved filter set",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.SavedFilters.Delete(cmd.Context(), c.entity(), args[0]); err != nil {
				return savedFilterError(err, args[0])
			}
			notify.Success(app.notices(), fmt.Sprintf("Deleted filter set %q.", args[0]))
			return nil
		},
	}
}

func saveFilterSet(cmd *cobra.Command, app *App, c collection, name string, fs listview.FilterState, sort listview.Sort) error {
	if app.SavedFilters == nil {
		return fmt.Errorf("saved filters are not available")
	}
	saved, err := app.SavedFilters.Save(cmd.Context(), c.entity(), name, c.schema(), fs, sort)
	if err != nil {
		return err
	}
	notify.Success(app.notices(), fmt.Sprintf("Saved filter set %q (%d filters).", saved.Name, len(saved.Filters)))
	return nil
}

func savedFilterError(err error, name string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("no saved filter set named %q", name)
	}
	return err
}
