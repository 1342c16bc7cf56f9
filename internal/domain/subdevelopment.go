package domain

import (
	"slices"
	"time"

	"github.com/alexanderramin/estatedesk/internal/listview"
)

type SubDevelopment struct {
	ID                 string     `json:"_id,omitempty"`
	SubDevelopment     string     `json:"subDevelopment"`
	MasterDevelopment  string     `json:"masterDevelopment,omitempty"`
	PlotNumber         string     `json:"plotNumber,omitempty"`
	PlotPermission     []string   `json:"plotPermission,omitempty"`
	PlotSizeSqFt       float64    `json:"plotSizeSqFt"`
	PlotHeight         float64    `json:"plotHeight"`
	BuaAreaSqFt        float64    `json:"buaAreaSqFt"`
	FacilitiesAreaSqFt float64    `json:"facilitiesAreaSqFt"`
	AmenitiesAreaSqFt  float64    `json:"amenitiesAreaSqFt"`
	TotalAreaSqFt      float64    `json:"totalAreaSqFt"`
	Customers          []string   `json:"customers,omitempty"`
	CreatedAt          *time.Time `json:"createdAt,omitempty"`
	UpdatedAt          *time.Time `json:"updatedAt,omitempty"`
}

func (s SubDevelopment) RecordID() string { return s.ID }

// WithCustomer returns the customer list with id added. The second result
// is false when id was already present.
func (s SubDevelopment) WithCustomer(id string) ([]string, bool) {
	if slices.Contains(s.Customers, id) {
		return slices.Clone(s.Customers), false
	}
	return append(slices.Clone(s.Customers), id), true
}

// WithoutCustomer returns the customer list with id removed. The second
// result is false when id was not present.
func (s SubDevelopment) WithoutCustomer(id string) ([]string, bool) {
	i := slices.Index(s.Customers, id)
	if i < 0 {
		return slices.Clone(s.Customers), false
	}
	return slices.Delete(slices.Clone(s.Customers), i, i+1), true
}

var SubDevelopmentFilters = listview.FilterSchema{
	{Key: "subDevelopment", Label: "Sub Development", Kind: listview.FieldText},
	{Key: "masterDevelopment", Label: "Master Development", Kind: listview.FieldText},
	{Key: "plotPermission", Label: "Plot Permission", Kind: listview.FieldMulti, Options: PlotPermissions},
	{Key: "plotSizeSqFt", Label: "Plot Size", Kind: listview.FieldNumberRange,
		Default: listview.NumberRange{Min: listview.Float(0), Max: listview.Float(AreaSliderMax)}},
	{Key: "date", Label: "Created", Kind: listview.FieldDateRange},
}

var SubDevelopmentColumns = []listview.Column[SubDevelopment]{
	col("subDevelopment", "Sub Development", func(s SubDevelopment) string { return Dash(s.SubDevelopment) }),
	col("masterDevelopment", "Master", func(s SubDevelopment) string { return Dash(s.MasterDevelopment) }),
	col("plotNumber", "Plot", func(s SubDevelopment) string { return Dash(s.PlotNumber) }),
	col("plotPermission", "Permission", func(s SubDevelopment) string { return Join(s.PlotPermission) }),
	col("plotSizeSqFt", "Plot Size", func(s SubDevelopment) string { return Number(s.PlotSizeSqFt) }),
	col("plotHeight", "Height", func(s SubDevelopment) string { return Number(s.PlotHeight) }),
	col("buaAreaSqFt", "BUA", func(s SubDevelopment) string { return Number(s.BuaAreaSqFt) }),
	col("totalAreaSqFt", "Total Area", func(s SubDevelopment) string { return Number(s.TotalAreaSqFt) }),
	col("customers", "Customers", func(s SubDevelopment) string { return Count(s.Customers) }),
}

var SubDevelopmentPresets = map[string][]string{
	"plot":  {"subDevelopment", "plotNumber", "plotPermission", "plotSizeSqFt", "plotHeight"},
	"areas": {"subDevelopment", "buaAreaSqFt", "totalAreaSqFt"},
}

var SubDevelopmentExportFields = []listview.ExportField[SubDevelopment]{
	field("subDevelopment", "Sub Development", func(s SubDevelopment) string { return s.SubDevelopment }),
	field("masterDevelopment", "Master Development", func(s SubDevelopment) string { return s.MasterDevelopment }),
	field("plotNumber", "Plot Number", func(s SubDevelopment) string { return s.PlotNumber }),
	field("plotPermission", "Plot Permission", func(s SubDevelopment) string { return joinPlain(s.PlotPermission) }),
	field("plotSizeSqFt", "Plot Size (sq ft)", func(s SubDevelopment) string { return number(s.PlotSizeSqFt) }),
	field("plotHeight", "Plot Height", func(s SubDevelopment) string { return number(s.PlotHeight) }),
	field("buaAreaSqFt", "BUA Area (sq ft)", func(s SubDevelopment) string { return number(s.BuaAreaSqFt) }),
	field("facilitiesAreaSqFt", "Facilities Area (sq ft)", func(s SubDevelopment) string { return number(s.FacilitiesAreaSqFt) }),
	field("amenitiesAreaSqFt", "Amenities Area (sq ft)", func(s SubDevelopment) string { return number(s.AmenitiesAreaSqFt) }),
	field("totalAreaSqFt", "Total Area (sq ft)", func(s SubDevelopment) string { return number(s.TotalAreaSqFt) }),
	field("customers", "Customers Count", func(s SubDevelopment) string { return Count(s.Customers) }),
	field("createdAt", "Created At", func(s SubDevelopment) string { return timestamp(s.CreatedAt) }),
}
