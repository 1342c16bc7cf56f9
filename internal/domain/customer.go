package domain

import (
	"time"

	"github.com/alexanderramin/estatedesk/internal/listview"
)

type Customer struct {
	ID               string     `json:"_id,omitempty"`
	CustomerName     string     `json:"customerName"`
	CustomerSegment  string     `json:"customerSegment"`
	CustomerCategory []string   `json:"customerCategory,omitempty"`
	CustomerType     string     `json:"customerType,omitempty"`
	Email            string     `json:"email,omitempty"`
	Phone            string     `json:"phone,omitempty"`
	Nationality      string     `json:"nationality,omitempty"`
	Country          string     `json:"country,omitempty"`
	City             string     `json:"city,omitempty"`
	Source           string     `json:"source,omitempty"`
	Notes            string     `json:"notes,omitempty"`
	CreatedAt        *time.Time `json:"createdAt,omitempty"`
	UpdatedAt        *time.Time `json:"updatedAt,omitempty"`
}

func (c Customer) RecordID() string { return c.ID }

// CustomerFilters is the customer sidebar.
var CustomerFilters = listview.FilterSchema{
	{Key: "customerName", Label: "Name", Kind: listview.FieldText},
	{Key: "customerSegment", Label: "Segment", Kind: listview.FieldSelect, Options: CustomerSegments},
	{Key: "customerCategory", Label: "Category", Kind: listview.FieldMulti, Options: CustomerCategories},
	{Key: "customerType", Label: "Type", Kind: listview.FieldSelect, Options: CustomerTypes},
	{Key: "source", Label: "Source", Kind: listview.FieldSelect, Options: CustomerSources},
	{Key: "country", Label: "Country", Kind: listview.FieldSelect, Options: Countries},
	{Key: "date", Label: "Created", Kind: listview.FieldDateRange},
}

var CustomerColumns = []listview.Column[Customer]{
	col("customerName", "Name", func(c Customer) string { return Dash(c.CustomerName) }),
	col("customerSegment", "Segment", func(c Customer) string { return Dash(c.CustomerSegment) }),
	col("customerCategory", "Category", func(c Customer) string { return Join(c.CustomerCategory) }),
	col("customerType", "Type", func(c Customer) string { return Dash(c.CustomerType) }),
	col("email", "Email", func(c Customer) string { return Dash(c.Email) }),
	col("phone", "Phone", func(c Customer) string { return Dash(c.Phone) }),
	col("nationality", "Nationality", func(c Customer) string { return Dash(c.Nationality) }),
	col("country", "Country", func(c Customer) string { return Dash(c.Country) }),
	col("city", "City", func(c Customer) string { return Dash(c.City) }),
	col("source", "Source", func(c Customer) string { return Dash(c.Source) }),
	col("createdAt", "Created", func(c Customer) string { return Day(c.CreatedAt) }),
}

// CustomerPresets are the column groups of the customer table.
var CustomerPresets = map[string][]string{
	"customerCategory":       {"customerName", "customerSegment", "customerCategory", "customerType"},
	"customerContactDetails": {"customerName", "email", "phone", "country", "city"},
	"actions":                {"customerName", "source", "createdAt"},
}

var CustomerExportFields = []listview.ExportField[Customer]{
	field("customerName", "Customer Name", func(c Customer) string { return c.CustomerName }),
	field("customerSegment", "Segment", func(c Customer) string { return c.CustomerSegment }),
	field("customerCategory", "Category", func(c Customer) string { return joinPlain(c.CustomerCategory) }),
	field("customerType", "Type", func(c Customer) string { return c.CustomerType }),
	field("email", "Email", func(c Customer) string { return c.Email }),
	field("phone", "Phone", func(c Customer) string { return c.Phone }),
	field("nationality", "Nationality", func(c Customer) string { return c.Nationality }),
	field("country", "Country", func(c Customer) string { return c.Country }),
	field("city", "City", func(c Customer) string { return c.City }),
	field("source", "Source", func(c Customer) string { return c.Source }),
	field("notes", "Notes", func(c Customer) string { return c.Notes }),
	field("createdAt", "Created At", func(c Customer) string { return timestamp(c.CreatedAt) }),
}
