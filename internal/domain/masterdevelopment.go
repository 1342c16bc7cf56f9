package domain

import (
	"time"

	"github.com/alexanderramin/estatedesk/internal/listview"
)

type MasterDevelopment struct {
	ID                 string     `json:"_id,omitempty"`
	DevelopmentName    string     `json:"developmentName"`
	Country            string     `json:"country"`
	City               string     `json:"city"`
	RoadLocation       string     `json:"roadLocation,omitempty"`
	DeveloperName      string     `json:"developerName,omitempty"`
	LocationQuality    string     `json:"locationQuality"`
	BuaAreaSqFt        float64    `json:"buaAreaSqFt"`
	FacilitiesAreaSqFt float64    `json:"facilitiesAreaSqFt"`
	AmenitiesAreaSqFt  float64    `json:"amenitiesAreaSqFt"`
	TotalAreaSqFt      float64    `json:"totalAreaSqFt"`
	FacilityCategories []string   `json:"facilityCategories,omitempty"`
	AmenityCategories  []string   `json:"amenityCategories,omitempty"`
	CreatedAt          *time.Time `json:"createdAt,omitempty"`
	UpdatedAt          *time.Time `json:"updatedAt,omitempty"`
}

func (m MasterDevelopment) RecordID() string { return m.ID }

// AreaSliderMax is the upper bound of the area sliders.
const AreaSliderMax = 10_000_000

var MasterDevelopmentFilters = listview.FilterSchema{
	{Key: "developmentName", Label: "Development", Kind: listview.FieldText},
	{Key: "country", Label: "Country", Kind: listview.FieldSelect, Options: Countries},
	{Key: "city", Label: "City", Kind: listview.FieldText},
	{Key: "locationQuality", Label: "Location Quality", Kind: listview.FieldMulti, Options: LocationQualities},
	{Key: "facilityCategories", Label: "Facilities", Kind: listview.FieldMulti, Options: FacilityCategories},
	{Key: "amenityCategories", Label: "Amenities", Kind: listview.FieldMulti, Options: AmenityCategories},
	{Key: "buaAreaSqFt", Label: "BUA Area", Kind: listview.FieldNumberRange,
		Default: listview.NumberRange{Min: listview.Float(0), Max: listview.Float(AreaSliderMax)}},
	{Key: "totalAreaSqFt", Label: "Total Area", Kind: listview.FieldNumberRange,
		Default: listview.NumberRange{Min: listview.Float(0), Max: listview.Float(AreaSliderMax)}},
	{Key: "date", Label: "Created", Kind: listview.FieldDateRange, DayBounds: true},
}

var MasterDevelopmentColumns = []listview.Column[MasterDevelopment]{
	col("developmentName", "Development", func(m MasterDevelopment) string { return Dash(m.DevelopmentName) }),
	col("country", "Country", func(m MasterDevelopment) string { return Dash(m.Country) }),
	col("city", "City", func(m MasterDevelopment) string { return Dash(m.City) }),
	col("roadLocation", "Road", func(m MasterDevelopment) string { return Dash(m.RoadLocation) }),
	col("developerName", "Developer", func(m MasterDevelopment) string { return Dash(m.DeveloperName) }),
	col("locationQuality", "Quality", func(m MasterDevelopment) string { return Dash(m.LocationQuality) }),
	col("buaAreaSqFt", "BUA", func(m MasterDevelopment) string { return Number(m.BuaAreaSqFt) }),
	col("facilitiesAreaSqFt", "Facilities Area", func(m MasterDevelopment) string { return Number(m.FacilitiesAreaSqFt) }),
	col("amenitiesAreaSqFt", "Amenities Area", func(m MasterDevelopment) string { return Number(m.AmenitiesAreaSqFt) }),
	col("totalAreaSqFt", "Total Area", func(m MasterDevelopment) string { return Number(m.TotalAreaSqFt) }),
	col("facilityCategories", "Facilities", func(m MasterDevelopment) string { return Join(m.FacilityCategories) }),
	col("amenityCategories", "Amenities", func(m MasterDevelopment) string { return Join(m.AmenityCategories) }),
}

var MasterDevelopmentPresets = map[string][]string{
	"location":   {"developmentName", "country", "city", "roadLocation", "locationQuality"},
	"areas":      {"developmentName", "buaAreaSqFt", "facilitiesAreaSqFt", "amenitiesAreaSqFt", "totalAreaSqFt"},
	"facilities": {"developmentName", "facilityCategories", "amenityCategories"},
}

var MasterDevelopmentExportFields = []listview.ExportField[MasterDevelopment]{
	field("developmentName", "Development Name", func(m MasterDevelopment) string { return m.DevelopmentName }),
	field("country", "Country", func(m MasterDevelopment) string { return m.Country }),
	field("city", "City", func(m MasterDevelopment) string { return m.City }),
	field("roadLocation", "Road Location", func(m MasterDevelopment) string { return m.RoadLocation }),
	field("developerName", "Developer Name", func(m MasterDevelopment) string { return m.DeveloperName }),
	field("locationQuality", "Location Quality", func(m MasterDevelopment) string { return m.LocationQuality }),
	field("buaAreaSqFt", "BUA Area (sq ft)", func(m MasterDevelopment) string { return number(m.BuaAreaSqFt) }),
	field("facilitiesAreaSqFt", "Facilities Area (sq ft)", func(m MasterDevelopment) string { return number(m.FacilitiesAreaSqFt) }),
	field("amenitiesAreaSqFt", "Amenities Area (sq ft)", func(m MasterDevelopment) string { return number(m.AmenitiesAreaSqFt) }),
	field("totalAreaSqFt", "Total Area (sq ft)", func(m MasterDevelopment) string { return number(m.TotalAreaSqFt) }),
	field("facilityCategories", "Facilities Count", func(m MasterDevelopment) string { return Count(m.FacilityCategories) }),
	field("amenityCategories", "Amenities Count", func(m MasterDevelopment) string { return Count(m.AmenityCategories) }),
	field("createdAt", "Created At", func(m MasterDevelopment) string { return timestamp(m.CreatedAt) }),
}
