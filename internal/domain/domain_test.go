package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/estatedesk/internal/listview"
)

func TestEntityByName(t *testing.T) {
	for name, want := range map[string]string{
		"customers":        "customers",
		"Customer":         "customers",
		"md":               "master-developments",
		"subdev":           "sub-developments",
		" property ":       "properties",
		"inventory":        "properties",
		"properties":       "properties",
		"master":           "master-developments",
		"sub-developments": "sub-developments",
	} {
		e, err := EntityByName(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, e.Name, name)
	}

	_, err := EntityByName("leases")
	assert.Error(t, err)
}

func TestEntity_Flags(t *testing.T) {
	assert.False(t, MasterDevelopmentsEntity.RequiresAuth)
	assert.True(t, CustomersEntity.RequiresAuth)
	assert.Equal(t, "/master-developments", MasterDevelopmentsEntity.Path())
	assert.Equal(t, listview.FormatXLSX, PropertiesEntity.ExportFormat)
}

func TestPresetsReferenceKnownColumns(t *testing.T) {
	check := func(t *testing.T, cols []listview.ColumnDescriptor, presets map[string][]string) {
		known := map[string]bool{}
		for _, c := range cols {
			known[c.Key] = true
		}
		for name, keys := range presets {
			for _, k := range keys {
				assert.True(t, known[k], "preset %s references %s", name, k)
			}
		}
	}
	check(t, listview.Descriptors(CustomerColumns), CustomerPresets)
	check(t, listview.Descriptors(MasterDevelopmentColumns), MasterDevelopmentPresets)
	check(t, listview.Descriptors(SubDevelopmentColumns), SubDevelopmentPresets)
	check(t, listview.Descriptors(PropertyColumns), PropertyPresets)
}

func TestDefaultFiltersBuildNoFilterParams(t *testing.T) {
	for _, schema := range []listview.FilterSchema{
		CustomerFilters, MasterDevelopmentFilters, SubDevelopmentFilters, PropertyFilters,
	} {
		q := listview.BuildQuery(schema, listview.NewFilterState(schema), listview.PageRequest{Page: 1, Limit: 10}, listview.DefaultSort)
		assert.Len(t, q, 4)
	}
}

func TestSubDevelopment_Customers(t *testing.T) {
	s := SubDevelopment{Customers: []string{"c1", "c2"}}

	next, changed := s.WithCustomer("c3")
	assert.True(t, changed)
	assert.Equal(t, []string{"c1", "c2", "c3"}, next)
	assert.Equal(t, []string{"c1", "c2"}, s.Customers)

	_, changed = s.WithCustomer("c1")
	assert.False(t, changed)

	next, changed = s.WithoutCustomer("c1")
	assert.True(t, changed)
	assert.Equal(t, []string{"c2"}, next)

	_, changed = s.WithoutCustomer("zz")
	assert.False(t, changed)
}

func TestProperty_PictureCount(t *testing.T) {
	a, empty := "a.jpg", ""
	p := Property{Pictures: []*string{&a, nil, &empty}}
	assert.Equal(t, 1, p.PictureCount())
}

func TestRenderHelpers(t *testing.T) {
	assert.Equal(t, Empty, Dash("  "))
	assert.Equal(t, "x", Dash("x"))
	assert.Equal(t, "a, b", Join([]string{"a", "b"}))
	assert.Equal(t, Empty, Join(nil))
	assert.Equal(t, "1250.5", Number(1250.5))
	assert.Equal(t, Empty, Number(0))
	assert.Equal(t, "3", Count([]string{"a", "b", "c"}))
	day := time.Date(2024, 2, 29, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-02-29", Day(&day))
	assert.Equal(t, Empty, Day(nil))
}

func TestExportFieldsSummarizeArrays(t *testing.T) {
	m := MasterDevelopment{FacilityCategories: []string{"School", "Mall"}}
	var labels []string
	for _, f := range MasterDevelopmentExportFields {
		labels = append(labels, f.Label)
		if f.Key == "facilityCategories" {
			assert.Equal(t, "2", f.Value(m))
		}
	}
	assert.Contains(t, labels, "Facilities Count")
}
