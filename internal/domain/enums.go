package domain

// Option sets shared by forms, filters and import validation.
var (
	CustomerSegments   = []string{"Customer", "Investor", "Broker", "Developer"}
	CustomerCategories = []string{"Residential", "Commercial", "Retail", "Hospitality", "Industrial"}
	CustomerTypes      = []string{"Individual", "Company"}
	CustomerSources    = []string{"Referral", "Website", "Walk-in", "Campaign", "Other"}

	LocationQualities  = []string{"A+", "A", "B", "C"}
	FacilityCategories = []string{"School", "Hospital", "Mall", "Mosque", "Metro", "Park"}
	AmenityCategories  = []string{"Pool", "Gym", "Playground", "Clubhouse", "Beach", "Golf"}

	PlotPermissions = []string{"Residential", "Commercial", "Mixed Use", "Hotel", "Retail"}

	PropertyTypes    = []string{"Apartment", "Villa", "Townhouse", "Penthouse", "Office", "Retail", "Plot"}
	PropertyStatuses = []string{"Available", "Reserved", "Sold", "Off-Market"}

	Countries = []string{"UAE", "Saudi Arabia", "Oman", "Qatar", "Bahrain", "Kuwait"}
)

// MaxPictures is the number of image slots on a property.
const MaxPictures = 5
