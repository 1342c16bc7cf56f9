package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/spf13/pflag"

	"github.com/alexanderramin/estatedesk/internal/cli/formatter"
	"github.com/alexanderramin/estatedesk/internal/domain"
	"github.com/alexanderramin/estatedesk/internal/filterstore"
	"github.com/alexanderramin/estatedesk/internal/importer"
	"github.com/alexanderramin/estatedesk/internal/listview"
	"github.com/alexanderramin/estatedesk/internal/notify"
	"github.com/alexanderramin/estatedesk/internal/recordform"
	"github.com/alexanderramin/estatedesk/internal/service"
)

// errNoExporter is returned by export for collections without one.
var errNoExporter = errors.New("export is not configured")

// App holds everything CLI commands and TUI views use.
type App struct {
	Customers          *Collection[domain.Customer]
	MasterDevelopments *Collection[domain.MasterDevelopment]
	SubDevelopments    *Collection[domain.SubDevelopment]
	Properties         *Collection[domain.Property]

	SavedFilters    service.SavedFilterService
	Exports         service.ExportLogService
	SubDevCustomers service.SubDevelopmentCustomers

	Notices   *Notices
	PageSize  int
	ExportCap int

	// GlobalFlags are the config flags pre-parsed by main. They are
	// registered on the root command so cobra accepts them.
	GlobalFlags *pflag.FlagSet

	// IsInteractive reports whether stdin is a terminal.
	IsInteractive func() bool
	// Now is the clock for relative timestamps. Defaults to time.Now.
	Now func() time.Time
}

func (a *App) collections() []collection {
	var out []collection
	if a.Customers != nil {
		out = append(out, a.Customers)
	}
	if a.MasterDevelopments != nil {
		out = append(out, a.MasterDevelopments)
	}
	if a.SubDevelopments != nil {
		out = append(out, a.SubDevelopments)
	}
	if a.Properties != nil {
		out = append(out, a.Properties)
	}
	return out
}

// collectionFor resolves an entity name or alias to its collection.
func (a *App) collectionFor(name string) (collection, error) {
	e, err := domain.EntityByName(name)
	if err != nil {
		return nil, err
	}
	for _, c := range a.collections() {
		if c.entity().Name == e.Name {
			return c, nil
		}
	}
	return nil, fmt.Errorf("%s are not configured", e.Name)
}

func (a *App) notices() *Notices {
	if a.Notices == nil {
		a.Notices = NewNotices(nil)
	}
	return a.Notices
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// Notices is the notification sink shared by every controller. With an
// output writer each notice is printed as it arrives; without one notices
// queue until drained by the TUI.
type Notices struct {
	mu    sync.Mutex
	w     io.Writer
	queue []notify.Notification
}

func NewNotices(w io.Writer) *Notices {
	return &Notices{w: w}
}

func (n *Notices) Notify(x notify.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.w != nil {
		fmt.Fprintln(n.w, formatter.RenderNotice(x))
		return
	}
	n.queue = append(n.queue, x)
}

// SetOutput switches between printing (w != nil) and queueing.
func (n *Notices) SetOutput(w io.Writer) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.w = w
}

// Drain returns and clears the queued notices.
func (n *Notices) Drain() []notify.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := n.queue
	n.queue = nil
	return out
}

// Collection binds one CMS collection to its table, filters, form and
// export.
type Collection[R domain.Record] struct {
	Entity  domain.Entity
	Records service.RecordService[R]
	Export  *service.ExportService[R]
	Filters listview.FilterSchema
	Columns []listview.Column[R]
	Presets map[string][]string
	Form    recordform.Schema

	// Uploader stores picture slots for forms that have them.
	Uploader recordform.SlotUploader
	// Store is the shared filter sidebar. Nil means each list owns its
	// filters.
	Store *filterstore.Store
}

// NewCollection binds records with the entity's form schema.
func NewCollection[R domain.Record](records service.RecordService[R], export *service.ExportService[R], filters listview.FilterSchema, columns []listview.Column[R], presets map[string][]string) *Collection[R] {
	e := records.Entity()
	form, _ := recordform.SchemaFor(e)
	return &Collection[R]{
		Entity:  e,
		Records: records,
		Export:  export,
		Filters: filters,
		Columns: columns,
		Presets: presets,
		Form:    form,
	}
}

// collection is the entity-agnostic view of a Collection used by the
// command tree and the TUI.
type collection interface {
	entity() domain.Entity
	schema() listview.FilterSchema
	formSchema() recordform.Schema
	newColumnSet() *listview.ColumnSet
	filterStore() *filterstore.Store

	list(ctx context.Context, fs listview.FilterState, page listview.PageRequest, sort listview.Sort) (table, listview.Pagination, error)
	show(ctx context.Context, id string) ([]formatter.Field, error)
	openCreate(n notify.Notifier) *recordform.Form
	openEdit(ctx context.Context, id string, n notify.Notifier) (*recordform.Form, error)
	remove(ctx context.Context, id string) error
	export(ctx context.Context, req listview.ExportRequest) (listview.ExportResult, error)
	newImporter(n notify.Notifier) *importer.Controller

	newListView(state *SharedState) View
}

// table is one rendered page of records.
type table struct {
	columns []listview.ColumnDescriptor
	ids     []string
	cells   [][]string
}

// visible returns headers and rows restricted to the visible columns.
func (t table) visible(cs *listview.ColumnSet) ([]string, [][]string) {
	var idx []int
	var headers []string
	for i, c := range t.columns {
		if cs == nil || cs.IsVisible(c.Key) {
			idx = append(idx, i)
			headers = append(headers, c.Label)
		}
	}
	rows := make([][]string, len(t.cells))
	for r, line := range t.cells {
		rows[r] = make([]string, len(idx))
		for j, i := range idx {
			rows[r][j] = line[i]
		}
	}
	return headers, rows
}

func renderRows[R domain.Record](columns []listview.Column[R], records []R) table {
	t := table{columns: listview.Descriptors(columns)}
	for _, r := range records {
		line := make([]string, len(columns))
		for i, c := range columns {
			line[i] = c.Value(r)
		}
		t.ids = append(t.ids, r.RecordID())
		t.cells = append(t.cells, line)
	}
	return t
}

func (c *Collection[R]) entity() domain.Entity           { return c.Entity }
func (c *Collection[R]) schema() listview.FilterSchema   { return c.Filters }
func (c *Collection[R]) formSchema() recordform.Schema   { return c.Form }
func (c *Collection[R]) filterStore() *filterstore.Store { return c.Store }

func (c *Collection[R]) newColumnSet() *listview.ColumnSet {
	return listview.NewColumnSet(listview.Descriptors(c.Columns), c.Presets)
}

func (c *Collection[R]) list(ctx context.Context, fs listview.FilterState, page listview.PageRequest, sort listview.Sort) (table, listview.Pagination, error) {
	q := listview.BuildQuery(c.Filters, fs, page, sort)
	res, err := c.Records.List(ctx, q)
	if err != nil {
		return table{}, listview.Pagination{}, err
	}
	p := listview.NewPagination(page.Limit)
	p.TotalCount = res.Total
	p.TotalPages = res.TotalPages
	if p.TotalPages == 0 {
		p.TotalPages = listview.TotalPagesFor(res.Total, p.Limit)
	}
	p.PageNumber = max(res.Page, 1)
	return renderRows(c.Columns, res.Data), p, nil
}

func (c *Collection[R]) show(ctx context.Context, id string) ([]formatter.Field, error) {
	rec, err := c.Records.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	fields := []formatter.Field{{Label: "ID", Value: rec.RecordID()}}
	for _, col := range c.Columns {
		fields = append(fields, formatter.Field{Label: col.Label, Value: col.Value(rec)})
	}
	return fields, nil
}

func (c *Collection[R]) openCreate(n notify.Notifier) *recordform.Form {
	f := recordform.NewCreate(c.Form, recordform.APIBackend[R](c.Records), n)
	if c.Uploader != nil {
		f = f.WithUploader(c.Uploader)
	}
	return f
}

func (c *Collection[R]) openEdit(ctx context.Context, id string, n notify.Notifier) (*recordform.Form, error) {
	rec, err := c.Records.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	f, err := recordform.NewEdit(c.Form, recordform.APIBackend[R](c.Records), n, id, rec)
	if err != nil {
		return nil, err
	}
	if c.Uploader != nil {
		f = f.WithUploader(c.Uploader)
	}
	return f, nil
}

func (c *Collection[R]) remove(ctx context.Context, id string) error {
	return c.Records.Delete(ctx, id)
}

func (c *Collection[R]) export(ctx context.Context, req listview.ExportRequest) (listview.ExportResult, error) {
	if c.Export == nil {
		return listview.ExportResult{}, fmt.Errorf("%s: %w", c.Entity.Name, errNoExporter)
	}
	return c.Export.Export(ctx, req)
}

func (c *Collection[R]) newImporter(n notify.Notifier) *importer.Controller {
	return importer.NewController(c.Records, c.Entity.Singular, n)
}

// entityTitle renders "master-developments" as "Master Developments".
func entityTitle(e domain.Entity) string {
	words := strings.Split(e.Name, "-")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
