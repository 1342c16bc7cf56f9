package recordform

import "github.com/alexanderramin/estatedesk/internal/domain"

var areaSum = []string{"buaAreaSqFt", "facilitiesAreaSqFt", "amenitiesAreaSqFt"}

var CustomerSchema = Schema{
	Entity: domain.CustomersEntity,
	Fields: []Field{
		{Key: "customerName", Label: "Customer name", Kind: KindText, Required: true},
		{Key: "customerSegment", Label: "Segment", Kind: KindSelect, Required: true, Options: domain.CustomerSegments},
		{Key: "customerCategory", Label: "Category", Kind: KindMulti, Options: domain.CustomerCategories},
		{Key: "customerType", Label: "Type", Kind: KindSelect, Options: domain.CustomerTypes},
		{Key: "email", Label: "Email", Kind: KindText, Email: true},
		{Key: "phone", Label: "Phone", Kind: KindText},
		{Key: "nationality", Label: "Nationality", Kind: KindText},
		{Key: "country", Label: "Country", Kind: KindText},
		{Key: "city", Label: "City", Kind: KindText},
		{Key: "source", Label: "Source", Kind: KindSelect, Options: domain.CustomerSources},
		{Key: "notes", Label: "Notes", Kind: KindText},
	},
}

var MasterDevelopmentSchema = Schema{
	Entity: domain.MasterDevelopmentsEntity,
	Fields: []Field{
		{Key: "developmentName", Label: "Development name", Kind: KindText, Required: true},
		{Key: "country", Label: "Country", Kind: KindText, Required: true},
		{Key: "city", Label: "City", Kind: KindText, Required: true},
		{Key: "roadLocation", Label: "Road location", Kind: KindText},
		{Key: "developerName", Label: "Developer", Kind: KindText},
		{Key: "locationQuality", Label: "Location quality", Kind: KindSelect, Required: true, Options: domain.LocationQualities},
		{Key: "buaAreaSqFt", Label: "BUA area", Kind: KindNumber, NonNegative: true},
		{Key: "facilitiesAreaSqFt", Label: "Facilities area", Kind: KindNumber, NonNegative: true},
		{Key: "amenitiesAreaSqFt", Label: "Amenities area", Kind: KindNumber, NonNegative: true},
		{Key: "totalAreaSqFt", Label: "Total area", Kind: KindComputed, Sum: areaSum},
		{Key: "facilityCategories", Label: "Facilities", Kind: KindMulti, Options: domain.FacilityCategories},
		{Key: "amenityCategories", Label: "Amenities", Kind: KindMulti, Options: domain.AmenityCategories},
	},
}

var SubDevelopmentSchema = Schema{
	Entity: domain.SubDevelopmentsEntity,
	Fields: []Field{
		{Key: "subDevelopment", Label: "Sub development", Kind: KindText, Required: true},
		{Key: "masterDevelopment", Label: "Master development", Kind: KindText},
		{Key: "plotNumber", Label: "Plot number", Kind: KindText},
		{Key: "plotPermission", Label: "Plot permission", Kind: KindMulti, Options: domain.PlotPermissions},
		{Key: "plotSizeSqFt", Label: "Plot size", Kind: KindNumber, NonNegative: true},
		{Key: "plotHeight", Label: "Plot height", Kind: KindNumber, NonNegative: true},
		{Key: "buaAreaSqFt", Label: "BUA area", Kind: KindNumber, NonNegative: true},
		{Key: "facilitiesAreaSqFt", Label: "Facilities area", Kind: KindNumber, NonNegative: true},
		{Key: "amenitiesAreaSqFt", Label: "Amenities area", Kind: KindNumber, NonNegative: true},
		{Key: "totalAreaSqFt", Label: "Total area", Kind: KindComputed, Sum: areaSum},
	},
}

var PropertySchema = Schema{
	Entity: domain.PropertiesEntity,
	Fields: []Field{
		{Key: "projectName", Label: "Project name", Kind: KindText, Required: true},
		{Key: "unitNumber", Label: "Unit number", Kind: KindText, Required: true},
		{Key: "propertyType", Label: "Property type", Kind: KindSelect, Required: true, Options: domain.PropertyTypes},
		{Key: "propertySubType", Label: "Sub type", Kind: KindText},
		{Key: "status", Label: "Status", Kind: KindSelect, Options: domain.PropertyStatuses},
		{Key: "bedrooms", Label: "Bedrooms", Kind: KindNumber, NonNegative: true, Integer: true},
		{Key: "bathrooms", Label: "Bathrooms", Kind: KindNumber, NonNegative: true, Integer: true},
		{Key: "price", Label: "Price", Kind: KindNumber, NonNegative: true},
		{Key: "plotSizeSqFt", Label: "Plot size", Kind: KindNumber, NonNegative: true},
		{Key: "buaSqFt", Label: "BUA", Kind: KindNumber, NonNegative: true},
		{Key: "masterDevelopment", Label: "Master development", Kind: KindText},
		{Key: "subDevelopment", Label: "Sub development", Kind: KindText},
		{Key: "country", Label: "Country", Kind: KindText},
		{Key: "city", Label: "City", Kind: KindText},
	},
	Pictures: "pictures",
}

// SchemaFor returns the form of an entity.
func SchemaFor(e domain.Entity) (Schema, bool) {
	for _, s := range []Schema{CustomerSchema, MasterDevelopmentSchema, SubDevelopmentSchema, PropertySchema} {
		if s.Entity.Name == e.Name {
			return s, true
		}
	}
	return Schema{}, false
}
