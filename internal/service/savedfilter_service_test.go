package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/estatedesk/internal/domain"
	"github.com/alexanderramin/estatedesk/internal/listview"
	"github.com/alexanderramin/estatedesk/internal/repository"
	"github.com/alexanderramin/estatedesk/internal/testutil"
)

func investorState() listview.FilterState {
	fs := listview.NewFilterState(domain.CustomerFilters)
	fs.SetText("customerSegment", "Investor")
	return fs
}

func TestSavedFilterService_SaveStoresOnlyActiveFilters(t *testing.T) {
	filters, _, uow := setupStore(t)
	obs := &recordingObserver{}
	svc := NewSavedFilterService(filters, uow, obs)
	ctx := context.Background()

	saved, err := svc.Save(ctx, domain.CustomersEntity, "  Investors ", domain.CustomerFilters, investorState(), listview.DefaultSort)
	require.NoError(t, err)
	assert.Equal(t, "Investors", saved.Name)
	assert.Len(t, saved.Filters, 1)

	got, err := svc.Get(ctx, domain.CustomersEntity, "investors")
	require.NoError(t, err)
	applied := got.Apply(domain.CustomerFilters)
	assert.Equal(t, "Investor", applied["customerSegment"].Text)
	assert.Equal(t, 1, applied.ActiveCount(domain.CustomerFilters))
	assert.Equal(t, []string{"save-filter"}, obs.names())
}

func TestSavedFilterService_SaveReplacesSameName(t *testing.T) {
	filters, _, uow := setupStore(t)
	svc := NewSavedFilterService(filters, uow)
	ctx := context.Background()

	first, err := svc.Save(ctx, domain.CustomersEntity, "mine", domain.CustomerFilters, investorState(), listview.DefaultSort)
	require.NoError(t, err)

	fs := listview.NewFilterState(domain.CustomerFilters)
	fs.SetText("customerName", "Acme")
	second, err := svc.Save(ctx, domain.CustomersEntity, "MINE", domain.CustomerFilters, fs, listview.DefaultSort)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	list, err := svc.List(ctx, domain.CustomersEntity)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Acme", list[0].Filters["customerName"].Text)
	assert.NotContains(t, list[0].Filters, "customerSegment")
}

func TestSavedFilterService_BlankNameRejected(t *testing.T) {
	filters, _, uow := setupStore(t)
	svc := NewSavedFilterService(filters, uow)

	_, err := svc.Save(context.Background(), domain.CustomersEntity, "   ", domain.CustomerFilters, investorState(), listview.DefaultSort)
	assert.ErrorIs(t, err, domain.ErrSavedFilterName)
}

func TestSavedFilterService_FailedWriteRollsBack(t *testing.T) {
	database := testutil.NewTestDB(t)
	filters := repository.NewSQLiteSavedFilterRepo(database)
	boom := errors.New("disk full")
	svc := NewSavedFilterService(filters, &testutil.FailOnNthExecUoW{DB: database, FailOn: 1, Err: boom})

	_, err := svc.Save(context.Background(), domain.CustomersEntity, "x", domain.CustomerFilters, investorState(), listview.DefaultSort)
	assert.ErrorIs(t, err, boom)

	list, err := filters.ListByEntity(context.Background(), "customers")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestSavedFilterService_Delete(t *testing.T) {
	filters, _, uow := setupStore(t)
	svc := NewSavedFilterService(filters, uow)
	ctx := context.Background()

	_, err := svc.Save(ctx, domain.PropertiesEntity, "villas", domain.PropertyFilters, listview.NewFilterState(domain.PropertyFilters), listview.DefaultSort)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, domain.PropertiesEntity, "villas"))
	assert.ErrorIs(t, svc.Delete(ctx, domain.PropertiesEntity, "villas"), repository.ErrNotFound)
}
