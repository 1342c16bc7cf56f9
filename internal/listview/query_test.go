package listview

import (
	"net/url"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func testSchema() FilterSchema {
	return FilterSchema{
		{Key: "customerName", Label: "Name", Kind: FieldText},
		{Key: "customerSegment", Label: "Segment", Kind: FieldSelect, Options: []string{"Customer", "Investor"}},
		{Key: "propertyType", Label: "Type", Kind: FieldMulti, Options: []string{"Villa", "Apartment"}},
		{Key: "date", Label: "Created", Kind: FieldDateRange},
		{Key: "handover", Label: "Handover", Kind: FieldDateRange, DayBounds: true},
		{Key: "price", Label: "Price", Kind: FieldNumberRange, Default: NumberRange{Min: Float(0), Max: Float(10_000_000)}},
		{Key: "bedrooms", Label: "Bedrooms", Kind: FieldNumberRange},
	}
}

func TestBuildQuery_EmptyFiltersOnlyPagingAndSort(t *testing.T) {
	schema := testSchema()
	fs := NewFilterState(schema)
	// Whitespace, empty slices and untouched slider bounds do not filter.
	fs.SetText("customerName", "   ")
	fs.SetMulti("propertyType", []string{})
	fs.SetRange("price", NumberRange{Min: Float(0), Max: Float(10_000_000)})

	got := BuildQuery(schema, fs, PageRequest{Page: 1, Limit: 10}, DefaultSort)

	want := url.Values{
		"page":      {"1"},
		"limit":     {"10"},
		"sortBy":    {"createdAt"},
		"sortOrder": {"desc"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("query mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildQuery_SelectAllSentinelOmitted(t *testing.T) {
	schema := testSchema()
	fs := NewFilterState(schema)
	fs.SetText("customerSegment", AllOption)

	got := BuildQuery(schema, fs, PageRequest{Page: 1, Limit: 10}, DefaultSort)
	assert.False(t, got.Has("customerSegment"))

	fs.SetText("customerSegment", "Investor")
	got = BuildQuery(schema, fs, PageRequest{Page: 1, Limit: 10}, DefaultSort)
	assert.Equal(t, "Investor", got.Get("customerSegment"))
}

func TestBuildQuery_MultiRepeatsKey(t *testing.T) {
	schema := testSchema()
	fs := NewFilterState(schema)
	fs.SetMulti("propertyType", []string{"Villa", "Apartment"})

	got := BuildQuery(schema, fs, PageRequest{Page: 2, Limit: 25}, Sort{Field: "price", Order: SortAsc})

	assert.Equal(t, []string{"Villa", "Apartment"}, got["propertyType"])
	assert.Equal(t, "2", got.Get("page"))
	assert.Equal(t, "25", got.Get("limit"))
	assert.Equal(t, "price", got.Get("sortBy"))
	assert.Equal(t, "asc", got.Get("sortOrder"))
}

func TestBuildQuery_NumberBoundsIndependent(t *testing.T) {
	schema := testSchema()
	fs := NewFilterState(schema)
	fs.SetRange("price", NumberRange{Min: Float(250000), Max: Float(10_000_000)})
	fs.SetRange("bedrooms", NumberRange{Max: Float(3)})

	got := BuildQuery(schema, fs, PageRequest{Page: 1, Limit: 10}, DefaultSort)

	assert.Equal(t, "250000", got.Get("priceMin"))
	assert.False(t, got.Has("priceMax"), "max equal to the default bound is omitted")
	assert.False(t, got.Has("bedroomsMin"))
	assert.Equal(t, "3", got.Get("bedroomsMax"))
}

func TestBuildQuery_DateRange(t *testing.T) {
	schema := testSchema()
	fs := NewFilterState(schema)
	start := time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)
	end := time.Date(2024, 3, 9, 8, 0, 0, 0, time.UTC)
	fs.SetDates("date", DateRange{Start: &start, End: &end})
	fs.SetDates("handover", DateRange{Start: &start, End: &end})

	got := BuildQuery(schema, fs, PageRequest{Page: 1, Limit: 10}, DefaultSort)

	assert.Equal(t, "2024-03-05T14:30:00.000Z", got.Get("startDate"))
	assert.Equal(t, "2024-03-09T08:00:00.000Z", got.Get("endDate"))
	assert.Equal(t, "2024-03-05T00:00:00.000Z", got.Get("handoverStart"))
	assert.Equal(t, "2024-03-09T23:59:59.999Z", got.Get("handoverEnd"))
}

func TestBuildQuery_WithDayBoundsForExport(t *testing.T) {
	schema := testSchema().WithDayBounds()
	fs := NewFilterState(schema)
	start := time.Date(2024, 1, 31, 17, 0, 0, 0, time.UTC)
	fs.SetDates("date", DateRange{Start: &start})

	got := BuildQuery(schema, fs, PageRequest{Page: 1, Limit: 1000}, DefaultSort)

	assert.Equal(t, "2024-01-31T00:00:00.000Z", got.Get("startDate"))
	assert.False(t, got.Has("endDate"))
	// The source schema is left untouched.
	f, _ := testSchema().Field("date")
	assert.False(t, f.DayBounds)
}

func TestBuildQuery_PageFloorAndSortDefaults(t *testing.T) {
	got := BuildQuery(nil, nil, PageRequest{Page: 0, Limit: 10}, Sort{})
	assert.Equal(t, "1", got.Get("page"))
	assert.Equal(t, "createdAt", got.Get("sortBy"))
	assert.Equal(t, "desc", got.Get("sortOrder"))
}

func TestSort_Toggle(t *testing.T) {
	s := Sort{Field: "price", Order: SortAsc}
	assert.Equal(t, SortDesc, s.Toggle().Order)
	assert.Equal(t, SortAsc, s.Toggle().Toggle().Order)
}

func TestFilterState_CleanAndActiveCount(t *testing.T) {
	schema := testSchema()
	fs := NewFilterState(schema)
	assert.Equal(t, 0, fs.ActiveCount(schema))

	fs.SetText("customerName", "Acme")
	fs.ToggleOption("propertyType", "Villa")
	fs.ToggleOption("propertyType", "Apartment")
	fs.ToggleOption("propertyType", "Villa")

	assert.Equal(t, 2, fs.ActiveCount(schema))
	clean := fs.Clean(schema)
	assert.Len(t, clean, 2)
	assert.Equal(t, []string{"Apartment"}, clean["propertyType"].Multi)
}

func TestFilterState_CloneIsDeep(t *testing.T) {
	schema := testSchema()
	fs := NewFilterState(schema)
	fs.SetMulti("propertyType", []string{"Villa"})
	fs.SetRange("bedrooms", NumberRange{Min: Float(2)})

	cp := fs.Clone()
	cp.ToggleOption("propertyType", "Apartment")
	*cp["bedrooms"].Range.Min = 5

	assert.Equal(t, []string{"Villa"}, fs["propertyType"].Multi)
	assert.Equal(t, 2.0, *fs["bedrooms"].Range.Min)
}
