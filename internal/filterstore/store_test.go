package filterstore

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/estatedesk/internal/listview"
)

var schema = listview.FilterSchema{
	{Key: "country", Label: "Country", Kind: listview.FieldSelect, Options: []string{"UAE", "Oman"}},
	{Key: "city", Label: "City", Kind: listview.FieldText},
	{Key: "facilityCategories", Label: "Facilities", Kind: listview.FieldMulti},
	{Key: "buaAreaSqFt", Label: "BUA", Kind: listview.FieldNumberRange,
		Default: listview.NumberRange{Min: listview.Float(0), Max: listview.Float(100000)}},
}

func TestStore_DispatchAndSelect(t *testing.T) {
	s := New(schema)
	assert.Equal(t, listview.AllOption, Select(s, Country()))
	assert.Zero(t, Select(s, ActiveCount()))

	s.Dispatch(SetCountry("UAE"), SetCity("Dubai"), ToggleOption{Key: "facilityCategories", Option: "Gym"})

	assert.Equal(t, "UAE", Select(s, Country()))
	assert.Equal(t, 3, Select(s, ActiveCount()))
	assert.Len(t, Select(s, Cleaned()), 3)
}

func TestStore_ResetRestoresDefaults(t *testing.T) {
	s := New(schema)
	s.Dispatch(SetCountry("Oman"), SetRange{Key: "buaAreaSqFt", Range: listview.NumberRange{Min: listview.Float(500)}})
	s.Dispatch(ResetFilters())

	assert.Equal(t, listview.NewFilterState(schema), s.State())
}

func TestStore_ReplaceDropsUnknownKeys(t *testing.T) {
	s := New(schema)
	saved := listview.FilterState{
		"city":    {Text: "Muscat"},
		"unknown": {Text: "x"},
	}
	s.Dispatch(Replace{State: saved})

	st := s.State()
	assert.Equal(t, "Muscat", st["city"].Text)
	assert.NotContains(t, st, "unknown")
	assert.Equal(t, listview.AllOption, st["country"].Text)
}

func TestStore_StateIsACopy(t *testing.T) {
	s := New(schema)
	st := s.State()
	st.SetText("city", "Sharjah")
	assert.Empty(t, s.State()["city"].Text)
}

func TestStore_SubscribeAndUnsubscribe(t *testing.T) {
	s := New(schema)
	var got []string
	unsubscribe := s.Subscribe(func(fs listview.FilterState) {
		got = append(got, fs["city"].Text)
	})

	s.Dispatch(SetCity("Dubai"))
	s.Dispatch(SetCity("Ajman"))
	unsubscribe()
	s.Dispatch(SetCity("Fujairah"))

	assert.Equal(t, []string{"Dubai", "Ajman"}, got)
}

func TestStore_ConcurrentDispatch(t *testing.T) {
	s := New(schema)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Dispatch(ToggleOption{Key: "facilityCategories", Option: "Pool"})
		}()
	}
	wg.Wait()
	require.NotNil(t, s.State())
	assert.Empty(t, s.State()["facilityCategories"].Multi)
}
