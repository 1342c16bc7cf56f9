package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/estatedesk/internal/cms"
	"github.com/alexanderramin/estatedesk/internal/domain"
	"github.com/alexanderramin/estatedesk/internal/listview"
	"github.com/alexanderramin/estatedesk/internal/recordform"
	"github.com/alexanderramin/estatedesk/internal/repository"
	"github.com/alexanderramin/estatedesk/internal/service"
	"github.com/alexanderramin/estatedesk/internal/storage"
	"github.com/alexanderramin/estatedesk/internal/testutil"
)

// testApp wires a full App against a fake CMS and an in-memory DB.
func testApp(t *testing.T) (*App, *testutil.FakeCMS) {
	t.Helper()
	fake := testutil.NewFakeCMS(t)
	fake.Token = "test-token"
	client := fake.Client()
	database := testutil.NewTestDB(t)
	exportDir := t.TempDir()
	notices := NewNotices(nil)

	exportLog := service.NewExportLogService(repository.NewSQLiteExportLogRepo(database))
	customers := service.NewRecordService(cms.NewResource[domain.Customer](client, domain.CustomersEntity))
	masters := service.NewRecordService(cms.NewResource[domain.MasterDevelopment](client, domain.MasterDevelopmentsEntity))
	subs := service.NewRecordService(cms.NewResource[domain.SubDevelopment](client, domain.SubDevelopmentsEntity))
	properties := service.NewRecordService(cms.NewResource[domain.Property](client, domain.PropertiesEntity))

	app := &App{
		Customers: NewCollection(customers,
			service.NewExportService(&listview.Exporter[domain.Customer]{
				Entity: domain.CustomersEntity.Name, Fetcher: customers, Schema: domain.CustomerFilters,
				Fields: domain.CustomerExportFields, Format: listview.FormatCSV, Dir: exportDir, Notifier: notices,
			}, domain.CustomersEntity, exportLog),
			domain.CustomerFilters, domain.CustomerColumns, domain.CustomerPresets),
		MasterDevelopments: NewCollection(masters, nil,
			domain.MasterDevelopmentFilters, domain.MasterDevelopmentColumns, domain.MasterDevelopmentPresets),
		SubDevelopments: NewCollection(subs, nil,
			domain.SubDevelopmentFilters, domain.SubDevelopmentColumns, domain.SubDevelopmentPresets),
		Properties: NewCollection(properties, nil,
			domain.PropertyFilters, domain.PropertyColumns, domain.PropertyPresets),

		SavedFilters:    service.NewSavedFilterService(repository.NewSQLiteSavedFilterRepo(database), testutil.NewTestUoW(database)),
		Exports:         exportLog,
		SubDevCustomers: service.NewSubDevelopmentCustomers(subs),

		Notices:   notices,
		PageSize:  10,
		ExportCap: 1000,
		Now:       func() time.Time { return testutil.FixtureEpoch.Add(48 * time.Hour) },
	}
	return app, fake
}

func seedCustomers(fake *testutil.FakeCMS, n int) {
	for _, c := range testutil.Customers(n) {
		fake.Seed("customers", c)
	}
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

// --- list ---

func TestListCmd_FirstPageNewestFirst(t *testing.T) {
	app, fake := testApp(t)
	seedCustomers(fake, 25)

	out, err := executeCmd(t, app, "customers", "list")
	require.NoError(t, err)

	assert.Contains(t, out, "Customer 025")
	assert.Contains(t, out, "Customer 016")
	assert.NotContains(t, out, "Customer 015")
	assert.Contains(t, out, "Page 1 of 3 · 25 records · 10 per page")

	reqs := fake.Requests(http.MethodGet, "/customers")
	require.Len(t, reqs, 1)
	q := reqs[0].Query
	assert.Equal(t, "1", q.Get("page"))
	assert.Equal(t, "10", q.Get("limit"))
	assert.Equal(t, "createdAt", q.Get("sortBy"))
	assert.Equal(t, "desc", q.Get("sortOrder"))
}

func TestListCmd_FilterThenPage(t *testing.T) {
	app, fake := testApp(t)
	seedCustomers(fake, 25)

	// Investors are every fifth customer: 25, 20, 15, 10, 5.
	out, err := executeCmd(t, app, "customers", "list", "--customer-segment", "investor", "--page", "2", "--limit", "2")
	require.NoError(t, err)

	assert.Contains(t, out, "Filters: Segment: Investor")
	assert.Contains(t, out, "Customer 015")
	assert.Contains(t, out, "Customer 010")
	assert.NotContains(t, out, "Customer 020")
	assert.Contains(t, out, "Page 2 of 3 · 5 records · 2 per page")

	reqs := fake.Requests(http.MethodGet, "/customers")
	require.Len(t, reqs, 1)
	assert.Equal(t, "Investor", reqs[0].Query.Get("customerSegment"))
	assert.False(t, reqs[0].Query.Has("customerName"), "empty filters are omitted")
}

func TestListCmd_EmptyResult(t *testing.T) {
	app, _ := testApp(t)

	out, err := executeCmd(t, app, "master-developments", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No master developments found.")
}

func TestListCmd_AliasAndPreset(t *testing.T) {
	app, fake := testApp(t)
	seedCustomers(fake, 3)

	out, err := executeCmd(t, app, "cust", "ls", "--preset", "customerContactDetails")
	require.NoError(t, err)
	assert.Contains(t, out, "Email")
	assert.NotContains(t, out, "Segment")
}

func TestListCmd_HideRequiresAllPreset(t *testing.T) {
	app, fake := testApp(t)
	seedCustomers(fake, 3)

	_, err := executeCmd(t, app, "customers", "list", "--preset", "actions", "--hide", "source")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--hide only works")

	out, err := executeCmd(t, app, "customers", "list", "--hide", "email,phone")
	require.NoError(t, err)
	assert.NotContains(t, out, "Email")
	assert.Contains(t, out, "Segment")
}

func TestListCmd_InvalidChoice(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "customers", "list", "--customer-segment", "Nobody")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a valid segment")
}

func TestListCmd_FetchFailureIsReported(t *testing.T) {
	app, fake := testApp(t)
	fake.FailNext(http.MethodGet, "/customers", http.StatusInternalServerError, map[string]string{"message": "boom"})

	out, err := executeCmd(t, app, "customers", "list")
	require.Error(t, err)
	assert.True(t, IsReported(err))
	assert.Contains(t, out, listview.FetchFailedMessage)
}

// --- show / create / edit / delete ---

func TestShowCmd(t *testing.T) {
	app, fake := testApp(t)
	seedCustomers(fake, 2)

	out, err := executeCmd(t, app, "customers", "show", "c002")
	require.NoError(t, err)
	assert.Contains(t, out, "Customer 002")
	assert.Contains(t, out, "customer002@example.com")
}

func TestCreateCmd_WithSets(t *testing.T) {
	app, fake := testApp(t)

	out, err := executeCmd(t, app, "customers", "create",
		"--set", "customerName=Aisha Khan",
		"--set", "customerSegment=Investor",
		"--set", "customerCategory=Residential,Commercial",
	)
	require.NoError(t, err)
	assert.Contains(t, out, recordform.SuccessMessage(recordform.ActionAdd, "customer"))
	assert.Equal(t, 1, fake.Count("customers"))

	reqs := fake.Requests(http.MethodPost, "/customers")
	require.Len(t, reqs, 1)
	var body map[string]any
	require.NoError(t, json.Unmarshal(reqs[0].Body, &body))
	assert.Equal(t, "Aisha Khan", body["customerName"])
	assert.ElementsMatch(t, []any{"Residential", "Commercial"}, body["customerCategory"])
}

func TestCreateCmd_InvalidFormIsNotSent(t *testing.T) {
	app, fake := testApp(t)

	out, err := executeCmd(t, app, "customers", "create", "--set", "email=not-an-email")
	require.Error(t, err)
	assert.True(t, IsReported(err))
	assert.Contains(t, out, "Please fix the highlighted fields")
	assert.Contains(t, out, "Customer name:")
	assert.Empty(t, fake.Requests(http.MethodPost, "/customers"))
}

func TestEditCmd_SendsOnlyChangedFields(t *testing.T) {
	app, fake := testApp(t)
	seedCustomers(fake, 1)

	_, err := executeCmd(t, app, "customers", "edit", "c001", "--set", "city=Abu Dhabi", "--set", "customerName=Customer 001")
	require.NoError(t, err)

	reqs := fake.Requests(http.MethodPatch, "/customers/c001")
	require.Len(t, reqs, 1)
	var body map[string]any
	require.NoError(t, json.Unmarshal(reqs[0].Body, &body))
	assert.Equal(t, map[string]any{"city": "Abu Dhabi"}, body)
}

func TestEditCmd_NoChanges(t *testing.T) {
	app, fake := testApp(t)
	seedCustomers(fake, 1)

	out, err := executeCmd(t, app, "customers", "edit", "c001", "--set", "city=Dubai")
	require.NoError(t, err)
	assert.Contains(t, out, recordform.NoChangesMessage)
	assert.Empty(t, fake.Requests(http.MethodPatch, "/customers/c001"))
}

func TestEditCmd_ServerMessageOnBadRequest(t *testing.T) {
	app, fake := testApp(t)
	seedCustomers(fake, 1)
	fake.FailNext(http.MethodPatch, "/customers/c001", http.StatusBadRequest, map[string]string{"message": "Email already exists"})

	out, err := executeCmd(t, app, "customers", "edit", "c001", "--set", "email=taken@example.com")
	require.Error(t, err)
	assert.True(t, IsReported(err))
	assert.Contains(t, out, "Email already exists")
}

func TestEditCmd_ClearPictureDeletesStoredFile(t *testing.T) {
	app, fake := testApp(t)
	up := storage.NewUploader(fake.Client(), nil)
	app.Properties.Uploader = up
	ctx := context.Background()

	var urls []string
	for _, name := range []string{"front.jpg", "pool.jpg"} {
		u, err := up.Upload(ctx, storage.File{Name: name, ContentType: "image/jpeg", Data: []byte(name)})
		require.NoError(t, err)
		urls = append(urls, u)
	}
	prop := testutil.NewTestProperty(1)
	prop.Pictures = []*string{&urls[0], &urls[1]}
	fake.Seed("properties", prop)

	out, err := executeCmd(t, app, "properties", "edit", prop.ID, "--clear-picture", "2")
	require.NoError(t, err)
	assert.Contains(t, out, recordform.SuccessMessage(recordform.ActionUpdate, "property"))

	reqs := fake.Requests(http.MethodPatch, "/properties/"+prop.ID)
	require.Len(t, reqs, 1)
	var body map[string]any
	require.NoError(t, json.Unmarshal(reqs[0].Body, &body))
	assert.Equal(t, []any{urls[0], nil}, body["pictures"])

	pool := path.Base(urls[1])
	require.Len(t, fake.Requests(http.MethodDelete, "/aws/"+pool), 1)
	_, kept := fake.Object(path.Base(urls[0]))
	assert.True(t, kept)
	_, stored := fake.Object(pool)
	assert.False(t, stored)
}

func TestEditCmd_ClearPictureOutOfRange(t *testing.T) {
	app, fake := testApp(t)
	app.Properties.Uploader = storage.NewUploader(fake.Client(), nil)
	fake.Seed("properties", testutil.NewTestProperty(1))

	_, err := executeCmd(t, app, "properties", "edit", "p001", "--clear-picture", "9")
	require.Error(t, err)
	assert.Empty(t, fake.Requests(http.MethodPatch, "/properties/p001"))
}

func TestDeleteCmd(t *testing.T) {
	app, fake := testApp(t)
	seedCustomers(fake, 2)

	_, err := executeCmd(t, app, "customers", "delete", "c001")
	require.Error(t, err, "non-interactive delete needs --yes")
	assert.Equal(t, 2, fake.Count("customers"))

	out, err := executeCmd(t, app, "customers", "rm", "c001", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Customer deleted successfully.")
	assert.Equal(t, 1, fake.Count("customers"))
}

// --- export ---

func TestExportCmd_WritesCSVAndLogsHistory(t *testing.T) {
	app, fake := testApp(t)
	seedCustomers(fake, 12)

	out, err := executeCmd(t, app, "customers", "export", "--customer-segment", "Investor", "--cap", "5")
	require.NoError(t, err)

	path := filepath.Clean(lastLine(out))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Customer 010")
	assert.Contains(t, string(data), "Customer 005")
	assert.NotContains(t, string(data), "Customer 011")

	reqs := fake.Requests(http.MethodGet, "/customers")
	require.Len(t, reqs, 1)
	assert.Equal(t, "5", reqs[0].Query.Get("limit"))
	assert.Equal(t, "Investor", reqs[0].Query.Get("customerSegment"))

	hist, err := executeCmd(t, app, "exports", "history")
	require.NoError(t, err)
	assert.Contains(t, hist, "customers")
	assert.Contains(t, hist, filepath.Base(path))
}

func TestExportCmd_NotConfigured(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "properties", "export")
	require.ErrorIs(t, err, errNoExporter)
	assert.False(t, IsReported(err))
}

// --- import ---

func TestImportCmd_UploadsFile(t *testing.T) {
	app, fake := testApp(t)
	path := filepath.Join(t.TempDir(), "customers.csv")
	require.NoError(t, os.WriteFile(path, []byte("customerName,email\nA,a@example.com\nB,b@example.com\n"), 0o644))

	out, err := executeCmd(t, app, "customers", "import", path)
	require.NoError(t, err)
	assert.Contains(t, out, "customers.csv: 2 rows")
	assert.Contains(t, out, "Imported 2 of 2")
	assert.Len(t, fake.Requests(http.MethodPost, "/customers/import"), 1)
}

func TestImportCmd_DryRunAndRejectedType(t *testing.T) {
	app, fake := testApp(t)
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "customers.csv")
	txtPath := filepath.Join(dir, "customers.txt")
	require.NoError(t, os.WriteFile(csvPath, []byte("customerName\nA\n"), 0o644))
	require.NoError(t, os.WriteFile(txtPath, []byte("nope"), 0o644))

	_, err := executeCmd(t, app, "customers", "import", csvPath, "--dry-run")
	require.NoError(t, err)

	_, err = executeCmd(t, app, "customers", "import", txtPath)
	require.Error(t, err)
	assert.Empty(t, fake.Requests(http.MethodPost, "/customers/import"))
}

func TestImportCmd_ServerFailure(t *testing.T) {
	app, fake := testApp(t)
	fake.FailNext(http.MethodPost, "/customers/import", http.StatusBadRequest, map[string]string{"message": "Missing column customerName"})
	path := filepath.Join(t.TempDir(), "customers.csv")
	require.NoError(t, os.WriteFile(path, []byte("email\na@example.com\n"), 0o644))

	out, err := executeCmd(t, app, "customers", "import", path)
	require.Error(t, err)
	assert.True(t, IsReported(err))
	assert.Contains(t, out, "Missing column customerName")
}

// --- saved filters ---

func TestFiltersCmd_SaveListApplyDelete(t *testing.T) {
	app, fake := testApp(t)
	seedCustomers(fake, 25)

	out, err := executeCmd(t, app, "customers", "filters", "save", "investors", "--customer-segment", "Investor", "--sort", "customerName", "--order", "asc")
	require.NoError(t, err)
	assert.Contains(t, out, `Saved filter set "investors" (1 filters).`)

	out, err = executeCmd(t, app, "customers", "filters", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "investors")

	out, err = executeCmd(t, app, "customers", "list", "--filter-set", "investors")
	require.NoError(t, err)
	assert.Contains(t, out, "Customer 005")
	assert.NotContains(t, out, "Customer 001")
	reqs := fake.Requests(http.MethodGet, "/customers")
	last := reqs[len(reqs)-1].Query
	assert.Equal(t, "customerName", last.Get("sortBy"))
	assert.Equal(t, "asc", last.Get("sortOrder"))

	_, err = executeCmd(t, app, "customers", "filters", "delete", "investors")
	require.NoError(t, err)

	_, err = executeCmd(t, app, "customers", "filters", "show", "investors")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no saved filter set named "investors"`)
}

func TestListCmd_SaveAs(t *testing.T) {
	app, fake := testApp(t)
	seedCustomers(fake, 5)

	_, err := executeCmd(t, app, "customers", "list", "--source", "website", "--save-as", "web leads")
	require.NoError(t, err)

	out, err := executeCmd(t, app, "customers", "filters", "show", "web leads")
	require.NoError(t, err)
	assert.Regexp(t, `Source\s+Website`, out)
}

// --- sub-development customers ---

func TestSubDevCustomersCmd(t *testing.T) {
	app, fake := testApp(t)
	fake.Seed("sub-developments", testutil.NewTestSubDevelopment(1, "c001"))
	id := testutil.NewTestSubDevelopment(1).ID

	out, err := executeCmd(t, app, "sub-developments", "customers", "add", id, "c002")
	require.NoError(t, err)
	assert.Contains(t, out, "c001, c002")
	require.Len(t, fake.Requests(http.MethodPatch, "/sub-developments/"+id), 1)

	out, err = executeCmd(t, app, "subdev", "customers", "add", id, "c002")
	require.NoError(t, err)
	assert.Contains(t, out, "Customer c002 is already assigned.")
	assert.Len(t, fake.Requests(http.MethodPatch, "/sub-developments/"+id), 1, "unchanged assignment sends nothing")

	_, err = executeCmd(t, app, "subdev", "customers", "remove", id, "c001")
	require.NoError(t, err)
	rec := fake.Record("sub-developments", id)
	assert.Equal(t, []any{"c002"}, rec["customers"])
}

func TestBrowseCmd_NeedsTerminal(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "browse")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "interactive terminal")
}

func lastLine(s string) string {
	lines := bytes.Split(bytes.TrimSpace([]byte(s)), []byte("\n"))
	return string(lines[len(lines)-1])
}
