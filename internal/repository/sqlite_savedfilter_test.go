package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/estatedesk/internal/domain"
	"github.com/alexanderramin/estatedesk/internal/listview"
	"github.com/alexanderramin/estatedesk/internal/testutil"
)

func investorFilter(t *testing.T, name string) *domain.SavedFilter {
	t.Helper()
	schema := domain.CustomerFilters
	fs := listview.NewFilterState(schema)
	fs.SetText("customerSegment", "Investor")
	fs.SetMulti("customerCategory", []string{"Retail"})
	f, err := domain.NewSavedFilter(domain.CustomersEntity, name, schema, fs, listview.Sort{Field: "customerName", Order: listview.SortAsc})
	require.NoError(t, err)
	return f
}

func TestSavedFilterRepo_CreateAndGetByName(t *testing.T) {
	repo := NewSQLiteSavedFilterRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	f := investorFilter(t, "VIP investors")
	require.NoError(t, repo.Create(ctx, f))

	got, err := repo.GetByName(ctx, "customers", "vip INVESTORS")
	require.NoError(t, err)
	assert.Equal(t, f.ID, got.ID)
	assert.Equal(t, "Investor", got.Filters["customerSegment"].Text)
	assert.Equal(t, []string{"Retail"}, got.Filters["customerCategory"].Multi)
	assert.Equal(t, listview.Sort{Field: "customerName", Order: listview.SortAsc}, got.Sort)
	assert.WithinDuration(t, f.CreatedAt, got.CreatedAt, time.Millisecond)
}

func TestSavedFilterRepo_GetByName_NotFound(t *testing.T) {
	repo := NewSQLiteSavedFilterRepo(testutil.NewTestDB(t))

	_, err := repo.GetByName(context.Background(), "customers", "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSavedFilterRepo_ListByEntitySortedByName(t *testing.T) {
	repo := NewSQLiteSavedFilterRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	for _, name := range []string{"zeta", "Alpha", "mid"} {
		require.NoError(t, repo.Create(ctx, investorFilter(t, name)))
	}
	other := investorFilter(t, "elsewhere")
	other.Entity = domain.PropertiesEntity.Name
	require.NoError(t, repo.Create(ctx, other))

	list, err := repo.ListByEntity(ctx, "customers")
	require.NoError(t, err)
	var names []string
	for _, f := range list {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"Alpha", "mid", "zeta"}, names)
}

func TestSavedFilterRepo_UpdateAndDelete(t *testing.T) {
	repo := NewSQLiteSavedFilterRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	f := investorFilter(t, "weekly")
	require.NoError(t, repo.Create(ctx, f))

	f.Filters = listview.FilterState{"customerName": {Text: "Acme"}}
	f.UpdatedAt = f.UpdatedAt.Add(time.Minute)
	require.NoError(t, repo.Update(ctx, f))

	got, err := repo.GetByName(ctx, "customers", "weekly")
	require.NoError(t, err)
	assert.Equal(t, "Acme", got.Filters["customerName"].Text)
	assert.NotContains(t, got.Filters, "customerSegment")

	require.NoError(t, repo.Delete(ctx, f.ID))
	assert.ErrorIs(t, repo.Delete(ctx, f.ID), ErrNotFound)
}

func TestSavedFilterRepo_RangeAndDatesRoundTrip(t *testing.T) {
	repo := NewSQLiteSavedFilterRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	fs := listview.FilterState{
		"price": {Range: listview.NumberRange{Min: listview.Float(500000)}},
		"date":  {Dates: listview.DateRange{Start: &start}},
	}
	f := &domain.SavedFilter{ID: "r1", Entity: "properties", Name: "cheap", Filters: fs, CreatedAt: start, UpdatedAt: start}
	require.NoError(t, repo.Create(ctx, f))

	got, err := repo.GetByName(ctx, "properties", "cheap")
	require.NoError(t, err)
	require.NotNil(t, got.Filters["price"].Range.Min)
	assert.Equal(t, 500000.0, *got.Filters["price"].Range.Min)
	assert.Nil(t, got.Filters["price"].Range.Max)
	require.NotNil(t, got.Filters["date"].Dates.Start)
	assert.True(t, start.Equal(*got.Filters["date"].Dates.Start))
	assert.Equal(t, listview.DefaultSort, got.Sort)
}
