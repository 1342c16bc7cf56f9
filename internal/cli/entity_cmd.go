package cli

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/alexanderramin/estatedesk/internal/cli/formatter"
	"github.com/alexanderramin/estatedesk/internal/domain"
	"github.com/alexanderramin/estatedesk/internal/importer"
	"github.com/alexanderramin/estatedesk/internal/listview"
	"github.com/alexanderramin/estatedesk/internal/notify"
	"github.com/alexanderramin/estatedesk/internal/recordform"
	"github.com/alexanderramin/estatedesk/internal/storage"
)

var entityAliases = map[string][]string{
	domain.CustomersEntity.Name:          {"customer", "cust"},
	domain.MasterDevelopmentsEntity.Name: {"master-development", "md"},
	domain.SubDevelopmentsEntity.Name:    {"sub-development", "subdev"},
	domain.PropertiesEntity.Name:         {"property", "prop"},
}

func newEntityCmd(app *App, c collection) *cobra.Command {
	e := c.entity()
	cmd := &cobra.Command{
		Use:     e.Name,
		Aliases: entityAliases[e.Name],
		Short:   fmt.Sprintf("Manage %s", e.Name),
	}

	cmd.AddCommand(
		newEntityListCmd(app, c),
		newEntityShowCmd(c),
		newEntityCreateCmd(app, c),
		newEntityEditCmd(app, c),
		newEntityDeleteCmd(app, c),
		newEntityExportCmd(app, c),
		newEntityImportCmd(app, c),
	)
	if app.SavedFilters != nil {
		cmd.AddCommand(newFiltersCmd(app, c))
	}
	if e.Name == domain.SubDevelopmentsEntity.Name && app.SubDevCustomers != nil {
		cmd.AddCommand(newSubDevCustomersCmd(app))
	}

	return cmd
}

// sortFlags are the --sort/--order pair shared by list, export and
// filters save.
type sortFlags struct {
	field string
	order string
}

func (s *sortFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&s.field, "sort", "", "sort field (default createdAt)")
	cmd.Flags().StringVar(&s.order, "order", "", "sort order: asc|desc (default desc)")
}

// resolve overlays the flags on base.
func (s *sortFlags) resolve(base listview.Sort) (listview.Sort, error) {
	out := base
	if out.Field == "" {
		out = listview.DefaultSort
	}
	if s.field != "" {
		out.Field = s.field
	}
	switch strings.ToLower(s.order) {
	case "":
	case string(listview.SortAsc):
		out.Order = listview.SortAsc
	case string(listview.SortDesc):
		out.Order = listview.SortDesc
	default:
		return out, fmt.Errorf("invalid --order %q (want asc or desc)", s.order)
	}
	return out, nil
}

func (s *sortFlags) changed() bool { return s.field != "" || s.order != "" }

// loadFilterSet returns the filters and sort of a saved set, or the empty
// state when name is blank.
func loadFilterSet(cmd *cobra.Command, app *App, c collection, name string) (listview.FilterState, listview.Sort, error) {
	fs, sort := listview.NewFilterState(c.schema()), listview.DefaultSort
	if strings.TrimSpace(name) == "" {
		return fs, sort, nil
	}
	if app.SavedFilters == nil {
		return fs, sort, fmt.Errorf("saved filters are not available")
	}
	saved, err := app.SavedFilters.Get(cmd.Context(), c.entity(), name)
	if err != nil {
		return fs, sort, savedFilterError(err, name)
	}
	if saved.Sort.Field != "" {
		sort = saved.Sort
	}
	return saved.Apply(c.schema()), sort, nil
}

// applyColumnFlags selects a preset and hides columns. Columns can only be
// hidden one by one under the "all" preset.
func applyColumnFlags(cs *listview.ColumnSet, preset string, hide []string) error {
	if preset != "" && !cs.ApplyPreset(preset) {
		return fmt.Errorf("unknown preset %q (want one of %s)", preset, strings.Join(cs.Presets(), ", "))
	}
	if len(hide) == 0 {
		return nil
	}
	if !cs.CanToggle() {
		return fmt.Errorf("--hide only works with the %q preset", listview.PresetAll)
	}
	var keys []string
	for _, c := range cs.Columns() {
		keys = append(keys, c.Key)
	}
	for _, k := range hide {
		if !slices.Contains(keys, k) {
			return fmt.Errorf("unknown column %q (want one of %s)", k, strings.Join(keys, ", "))
		}
		if cs.IsVisible(k) {
			cs.Toggle(k)
		}
	}
	return nil
}

func newEntityListCmd(app *App, c collection) *cobra.Command {
	e := c.entity()
	ff := newFilterFlags(c.schema())
	var sf sortFlags
	var page, limit int
	var preset, filterSet, saveAs string
	var hide []string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   fmt.Sprintf("List %s page by page", e.Name),
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			base, baseSort, err := loadFilterSet(cmd, app, c, filterSet)
			if err != nil {
				return err
			}
			fs := ff.Merge(base)
			sort, err := sf.resolve(baseSort)
			if err != nil {
				return err
			}
			cs := c.newColumnSet()
			if err := applyColumnFlags(cs, preset, hide); err != nil {
				return err
			}

			tbl, p, err := c.list(ctx, fs, listview.PageRequest{Page: page, Limit: limit}, sort)
			if err != nil {
				notify.Error(app.notices(), listview.FetchFailedMessage)
				return reported(err)
			}

			out := cmd.OutOrStdout()
			if summary := formatter.FilterSummary(c.schema(), fs); summary != "" {
				fmt.Fprintln(out, formatter.Dim("Filters: "+summary))
			}
			printTable(out, e, tbl, cs)
			fmt.Fprintln(out, formatter.Dim(formatter.PageSummary(p)))

			if saveAs != "" {
				return saveFilterSet(cmd, app, c, saveAs, fs, sort)
			}
			return nil
		},
	}

	ff.AddFlags(cmd.Flags())
	sf.register(cmd)
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&limit, "limit", app.PageSize, "records per page")
	cmd.Flags().StringVar(&preset, "preset", "", "column preset")
	cmd.Flags().StringSliceVar(&hide, "hide", nil, "column keys to hide (with the all preset)")
	cmd.Flags().StringVar(&filterSet, "filter-set", "", "start from a saved filter set")
	cmd.Flags().StringVar(&saveAs, "save-as", "", "save the applied filters under this name")
	return cmd
}

// printTable writes the visible columns with the record ID first.
func printTable(w io.Writer, e domain.Entity, tbl table, cs *listview.ColumnSet) {
	if len(tbl.ids) == 0 {
		fmt.Fprintf(w, "No %s found.\n", strings.ReplaceAll(e.Name, "-", " "))
		return
	}
	headers, rows := tbl.visible(cs)
	headers = append([]string{"ID"}, headers...)
	for i := range rows {
		rows[i] = append([]string{tbl.ids[i]}, rows[i]...)
	}
	fmt.Fprint(w, formatter.RenderTable(headers, rows))
}

func newEntityShowCmd(c collection) *cobra.Command {
	e := c.entity()
	return &cobra.Command{
		Use:   "show ID",
		Short: fmt.Sprintf("Show one %s", e.Singular),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := c.show(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("fetching %s %s: %w", e.Singular, args[0], err)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderRecord(fields))
			return nil
		},
	}
}

// recordFlags are the non-interactive inputs of create and edit.
type recordFlags struct {
	sets     []string
	pictures []string
	clears   []int
}

func (rf *recordFlags) register(cmd *cobra.Command, schema recordform.Schema) {
	cmd.Flags().StringArrayVar(&rf.sets, "set", nil, "field value as key=value (repeatable; comma-separate multi values)")
	if schema.Pictures != "" {
		cmd.Flags().StringArrayVar(&rf.pictures, "picture", nil, fmt.Sprintf("picture file, in slot order (up to %d)", domain.MaxPictures))
		cmd.Flags().IntSliceVar(&rf.clears, "clear-picture", nil, "empty picture slot N (1-based, repeatable); the stored file is deleted on save")
	}
}

func newEntityCreateCmd(app *App, c collection) *cobra.Command {
	e := c.entity()
	var rf recordFlags
	cmd := &cobra.Command{
		Use:     "create",
		Aliases: []string{"add"},
		Short:   fmt.Sprintf("Create a %s", e.Singular),
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			form := c.openCreate(app.notices())
			return runRecordForm(cmd, app, form, rf, "New "+e.Singular)
		},
	}
	rf.register(cmd, c.formSchema())
	return cmd
}

func newEntityEditCmd(app *App, c collection) *cobra.Command {
	e := c.entity()
	var rf recordFlags
	cmd := &cobra.Command{
		Use:     "edit ID",
		Aliases: []string{"update"},
		Short:   fmt.Sprintf("Edit a %s; only changed fields are sent", e.Singular),
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			form, err := c.openEdit(cmd.Context(), args[0], app.notices())
			if err != nil {
				return fmt.Errorf("loading %s %s: %w", e.Singular, args[0], err)
			}
			return runRecordForm(cmd, app, form, rf, "Edit "+e.Singular)
		},
	}
	rf.register(cmd, c.formSchema())
	return cmd
}

// runRecordForm fills the form from --set flags, or interactively when
// none were given on a terminal, then submits it.
func runRecordForm(cmd *cobra.Command, app *App, form *recordform.Form, rf recordFlags, title string) error {
	if len(rf.sets) == 0 && app.interactive() {
		in := newRecordInputs(form)
		fmt.Fprintln(cmd.ErrOrStderr(), formatter.Header(title))
		if err := in.huhForm().Run(); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				fmt.Fprintln(cmd.ErrOrStderr(), formatter.Dim("Cancelled."))
				return nil
			}
			return err
		}
		if err := in.apply(form); err != nil {
			return err
		}
	} else if err := applySets(form, rf.sets); err != nil {
		return err
	}

	for _, n := range rf.clears {
		if err := form.ClearPicture(n - 1); err != nil {
			return err
		}
	}
	for i, p := range rf.pictures {
		f, err := storage.LoadFile(p)
		if err != nil {
			return fmt.Errorf("reading picture: %w", err)
		}
		if err := form.SetPicture(i, f); err != nil {
			return err
		}
	}

	outcome, err := form.Submit(cmd.Context())
	switch outcome {
	case recordform.OutcomeInvalid:
		printFieldErrors(cmd.ErrOrStderr(), form)
		return reported(err)
	case recordform.OutcomeFailed:
		return reported(err)
	}
	return err
}

// applySets parses key=value pairs into the form.
func applySets(form *recordform.Form, sets []string) error {
	for _, kv := range sets {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			return fmt.Errorf("invalid --set %q (want key=value)", kv)
		}
		if err := form.SetInput(strings.TrimSpace(k), v); err != nil {
			return err
		}
	}
	return nil
}

func printFieldErrors(w io.Writer, form *recordform.Form) {
	errs := form.Errors()
	fmt.Fprintln(w, formatter.StyleRed.Render("✖ Please fix the highlighted fields:"))
	for _, f := range form.Schema().Fields {
		if msg, ok := errs[f.Key]; ok {
			fmt.Fprintf(w, "  %s %s\n", formatter.Bold(f.Label+":"), msg)
		}
	}
}

func newEntityDeleteCmd(app *App, c collection) *cobra.Command {
	e := c.entity()
	var yes bool
	cmd := &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"rm"},
		Short:   fmt.Sprintf("Delete a %s", e.Singular),
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				if !app.interactive() {
					return fmt.Errorf("refusing to delete without --yes")
				}
				confirmed := false
				if err := wizardConfirm(fmt.Sprintf("Delete %s %s?", e.Singular, args[0]), &confirmed).Run(); err != nil && !errors.Is(err, huh.ErrUserAborted) {
					return err
				}
				if !confirmed {
					fmt.Fprintln(cmd.ErrOrStderr(), formatter.Dim("Cancelled."))
					return nil
				}
			}
			if err := c.remove(cmd.Context(), args[0]); err != nil {
				notify.Error(app.notices(), recordform.UserMessage(err, recordform.ActionDelete, e.Singular))
				return reported(err)
			}
			notify.Success(app.notices(), recordform.SuccessMessage(recordform.ActionDelete, e.Singular))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation")
	return cmd
}

func newEntityExportCmd(app *App, c collection) *cobra.Command {
	e := c.entity()
	ff := newFilterFlags(c.schema())
	var sf sortFlags
	var withFilters bool
	var limit int
	var filterSet string

	cmd := &cobra.Command{
		Use:   "export",
		Short: fmt.Sprintf("Export %s to %s", e.Name, strings.ToUpper(string(e.ExportFormat))),
		Long: fmt.Sprintf(`Export up to --cap %s (at most %d) in one request.

Without filter flags every record is exported newest first. Filter flags,
--sort/--order and --filter-set restrict the export to matching records.`, e.Name, listview.MaxExportRecords),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			base, baseSort, err := loadFilterSet(cmd, app, c, filterSet)
			if err != nil {
				return err
			}
			sort, err := sf.resolve(baseSort)
			if err != nil {
				return err
			}
			req := listview.ExportRequest{
				WithFilters: withFilters || ff.Changed() || sf.changed() || filterSet != "",
				Cap:         limit,
				Filters:     ff.Merge(base),
				Sort:        sort,
			}
			var spinOut io.Writer
			if app.interactive() {
				spinOut = cmd.ErrOrStderr()
			}
			stop := formatter.StartSpinner(spinOut, fmt.Sprintf("Exporting %s…", e.Name))
			res, err := c.export(cmd.Context(), req)
			stop()
			if err != nil {
				if errors.Is(err, errNoExporter) {
					return err
				}
				return reported(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Path)
			return nil
		},
	}

	ff.AddFlags(cmd.Flags())
	sf.register(cmd)
	cmd.Flags().BoolVar(&withFilters, "with-filters", false, "apply the given filters and sort (implied by any filter flag)")
	cmd.Flags().IntVar(&limit, "cap", app.ExportCap, fmt.Sprintf("maximum records (1-%d)", listview.MaxExportRecords))
	cmd.Flags().StringVar(&filterSet, "filter-set", "", "export the records matching a saved filter set")
	return cmd
}

func newEntityImportCmd(app *App, c collection) *cobra.Command {
	e := c.entity()
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: fmt.Sprintf("Import %s from a .csv, .xlsx or .xls file", e.Name),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := importer.LoadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}
			out := cmd.OutOrStdout()
			if pv, err := importer.PreviewFile(f); err == nil && len(pv.Headers) > 0 {
				fmt.Fprintf(out, "%s: %d rows\n", formatter.Bold(f.Name), pv.Rows)
				fmt.Fprintln(out, formatter.Dim("Columns: "+strings.Join(pv.Headers, ", ")))
			}
			if dryRun {
				if _, err := importer.Accept([]importer.File{f}); err != nil {
					return err
				}
				return nil
			}

			imp := c.newImporter(app.notices())
			if app.interactive() {
				errW := cmd.ErrOrStderr()
				imp.OnProgress = func(p int) {
					fmt.Fprintf(errW, "\r%s", formatter.RenderProgress(p, 30))
				}
				defer fmt.Fprintln(errW)
			}
			if _, err := imp.Upload(cmd.Context(), []importer.File{f}); err != nil {
				return reported(err)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "check and preview the file without uploading")
	return cmd
}
