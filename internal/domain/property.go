package domain

import (
	"strconv"
	"time"

	"github.com/alexanderramin/estatedesk/internal/listview"
)

type Property struct {
	ID                string     `json:"_id,omitempty"`
	ProjectName       string     `json:"projectName"`
	UnitNumber        string     `json:"unitNumber"`
	PropertyType      string     `json:"propertyType"`
	PropertySubType   string     `json:"propertySubType,omitempty"`
	Status            string     `json:"status,omitempty"`
	Bedrooms          int        `json:"bedrooms"`
	Bathrooms         int        `json:"bathrooms"`
	Price             float64    `json:"price"`
	PlotSizeSqFt      float64    `json:"plotSizeSqFt"`
	BuaSqFt           float64    `json:"buaSqFt"`
	MasterDevelopment string     `json:"masterDevelopment,omitempty"`
	SubDevelopment    string     `json:"subDevelopment,omitempty"`
	Country           string     `json:"country,omitempty"`
	City              string     `json:"city,omitempty"`
	Pictures          []*string  `json:"pictures,omitempty"`
	CreatedAt         *time.Time `json:"createdAt,omitempty"`
	UpdatedAt         *time.Time `json:"updatedAt,omitempty"`
}

func (p Property) RecordID() string { return p.ID }

// PictureCount counts the filled picture slots.
func (p Property) PictureCount() int {
	n := 0
	for _, pic := range p.Pictures {
		if pic != nil && *pic != "" {
			n++
		}
	}
	return n
}

// PriceSliderMax is the upper bound of the price slider.
const PriceSliderMax = 50_000_000

var PropertyFilters = listview.FilterSchema{
	{Key: "projectName", Label: "Project", Kind: listview.FieldText},
	{Key: "propertyType", Label: "Type", Kind: listview.FieldMulti, Options: PropertyTypes},
	{Key: "status", Label: "Status", Kind: listview.FieldSelect, Options: PropertyStatuses},
	{Key: "country", Label: "Country", Kind: listview.FieldSelect, Options: Countries},
	{Key: "city", Label: "City", Kind: listview.FieldText},
	{Key: "bedrooms", Label: "Bedrooms", Kind: listview.FieldNumberRange},
	{Key: "price", Label: "Price", Kind: listview.FieldNumberRange,
		Default: listview.NumberRange{Min: listview.Float(0), Max: listview.Float(PriceSliderMax)}},
	{Key: "date", Label: "Listed", Kind: listview.FieldDateRange, DayBounds: true},
}

var PropertyColumns = []listview.Column[Property]{
	col("projectName", "Project", func(p Property) string { return Dash(p.ProjectName) }),
	col("unitNumber", "Unit", func(p Property) string { return Dash(p.UnitNumber) }),
	col("propertyType", "Type", func(p Property) string { return Dash(p.PropertyType) }),
	col("propertySubType", "Sub Type", func(p Property) string { return Dash(p.PropertySubType) }),
	col("status", "Status", func(p Property) string { return Dash(p.Status) }),
	col("bedrooms", "Beds", func(p Property) string { return Number(float64(p.Bedrooms)) }),
	col("bathrooms", "Baths", func(p Property) string { return Number(float64(p.Bathrooms)) }),
	col("price", "Price", func(p Property) string { return Number(p.Price) }),
	col("buaSqFt", "BUA", func(p Property) string { return Number(p.BuaSqFt) }),
	col("city", "City", func(p Property) string { return Dash(p.City) }),
	col("pictures", "Pictures", func(p Property) string { return strconv.Itoa(p.PictureCount()) }),
}

var PropertyPresets = map[string][]string{
	"pricing": {"projectName", "unitNumber", "status", "price"},
	"layout":  {"projectName", "unitNumber", "propertyType", "bedrooms", "bathrooms", "buaSqFt"},
}

var PropertyExportFields = []listview.ExportField[Property]{
	field("projectName", "Project Name", func(p Property) string { return p.ProjectName }),
	field("unitNumber", "Unit Number", func(p Property) string { return p.UnitNumber }),
	field("propertyType", "Property Type", func(p Property) string { return p.PropertyType }),
	field("propertySubType", "Property Sub Type", func(p Property) string { return p.PropertySubType }),
	field("status", "Status", func(p Property) string { return p.Status }),
	field("bedrooms", "Bedrooms", func(p Property) string { return strconv.Itoa(p.Bedrooms) }),
	field("bathrooms", "Bathrooms", func(p Property) string { return strconv.Itoa(p.Bathrooms) }),
	field("price", "Price", func(p Property) string { return number(p.Price) }),
	field("plotSizeSqFt", "Plot Size (sq ft)", func(p Property) string { return number(p.PlotSizeSqFt) }),
	field("buaSqFt", "BUA (sq ft)", func(p Property) string { return number(p.BuaSqFt) }),
	field("masterDevelopment", "Master Development", func(p Property) string { return p.MasterDevelopment }),
	field("subDevelopment", "Sub Development", func(p Property) string { return p.SubDevelopment }),
	field("country", "Country", func(p Property) string { return p.Country }),
	field("city", "City", func(p Property) string { return p.City }),
	field("pictures", "Pictures Count", func(p Property) string { return strconv.Itoa(p.PictureCount()) }),
	field("createdAt", "Created At", func(p Property) string { return timestamp(p.CreatedAt) }),
}
