package testutil

import (
	"fmt"
	"time"

	"github.com/alexanderramin/estatedesk/internal/domain"
)

// Base time for fixtures. Record i is created i minutes after it, so the
// default newest-first sort lists higher numbers first.
var FixtureEpoch = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

func stamp(i int) *time.Time {
	t := FixtureEpoch.Add(time.Duration(i) * time.Minute)
	return &t
}

// CustomerOption customizes a fixture customer.
type CustomerOption func(*domain.Customer)

func WithSegment(s string) CustomerOption {
	return func(c *domain.Customer) { c.CustomerSegment = s }
}

func WithCategories(cats ...string) CustomerOption {
	return func(c *domain.Customer) { c.CustomerCategory = cats }
}

// NewTestCustomer returns customer number i.
func NewTestCustomer(i int, opts ...CustomerOption) domain.Customer {
	c := domain.Customer{
		ID:               fmt.Sprintf("c%03d", i),
		CustomerName:     fmt.Sprintf("Customer %03d", i),
		CustomerSegment:  "Customer",
		CustomerCategory: []string{"Residential"},
		CustomerType:     "Individual",
		Email:            fmt.Sprintf("customer%03d@example.com", i),
		Phone:            fmt.Sprintf("+971500000%03d", i),
		Country:          "UAE",
		City:             "Dubai",
		Source:           "Website",
		CreatedAt:        stamp(i),
		UpdatedAt:        stamp(i),
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Customers returns n fixture customers where every fifth is an Investor.
func Customers(n int) []domain.Customer {
	out := make([]domain.Customer, 0, n)
	for i := 1; i <= n; i++ {
		var opts []CustomerOption
		if i%5 == 0 {
			opts = append(opts, WithSegment("Investor"))
		}
		out = append(out, NewTestCustomer(i, opts...))
	}
	return out
}

// NewTestMasterDevelopment returns master development number i.
func NewTestMasterDevelopment(i int) domain.MasterDevelopment {
	return domain.MasterDevelopment{
		ID:                 fmt.Sprintf("m%03d", i),
		DevelopmentName:    fmt.Sprintf("Development %03d", i),
		Country:            "UAE",
		City:               "Dubai",
		DeveloperName:      "Emaar",
		LocationQuality:    "A+",
		BuaAreaSqFt:        float64(1000 * i),
		FacilitiesAreaSqFt: 200,
		AmenitiesAreaSqFt:  100,
		TotalAreaSqFt:      float64(1000*i) + 300,
		FacilityCategories: []string{"School", "Mall"},
		AmenityCategories:  []string{"Pool"},
		CreatedAt:          stamp(i),
		UpdatedAt:          stamp(i),
	}
}

// NewTestSubDevelopment returns sub-development number i.
func NewTestSubDevelopment(i int, customers ...string) domain.SubDevelopment {
	return domain.SubDevelopment{
		ID:                fmt.Sprintf("s%03d", i),
		SubDevelopment:    fmt.Sprintf("Plot Cluster %03d", i),
		MasterDevelopment: "Development 001",
		PlotNumber:        fmt.Sprintf("P-%d", i),
		PlotPermission:    []string{"Residential"},
		PlotSizeSqFt:      5000,
		PlotHeight:        12,
		BuaAreaSqFt:       3000,
		TotalAreaSqFt:     3000,
		Customers:         customers,
		CreatedAt:         stamp(i),
		UpdatedAt:         stamp(i),
	}
}

// NewTestProperty returns property number i priced at i * 100k.
func NewTestProperty(i int) domain.Property {
	return domain.Property{
		ID:           fmt.Sprintf("p%03d", i),
		ProjectName:  "Marina Heights",
		UnitNumber:   fmt.Sprintf("%d", 1000+i),
		PropertyType: "Apartment",
		Status:       "Available",
		Bedrooms:     1 + i%4,
		Bathrooms:    1 + i%3,
		Price:        float64(i) * 100_000,
		BuaSqFt:      800 + float64(i),
		Country:      "UAE",
		City:         "Dubai",
		CreatedAt:    stamp(i),
		UpdatedAt:    stamp(i),
	}
}
