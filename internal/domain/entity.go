package domain

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/estatedesk/internal/listview"
)

// Entity describes one CMS collection.
type Entity struct {
	// Name is the collection name used in paths, filenames and commands.
	Name string
	// Singular is used in user-facing messages ("Failed to add customer").
	Singular     string
	RequiresAuth bool
	ExportFormat listview.Format
}

// Path returns the collection path on the CMS.
func (e Entity) Path() string { return "/" + e.Name }

var (
	CustomersEntity = Entity{
		Name: "customers", Singular: "customer",
		RequiresAuth: true, ExportFormat: listview.FormatCSV,
	}
	MasterDevelopmentsEntity = Entity{
		Name: "master-developments", Singular: "master development",
		ExportFormat: listview.FormatCSV,
	}
	SubDevelopmentsEntity = Entity{
		Name: "sub-developments", Singular: "sub development",
		RequiresAuth: true, ExportFormat: listview.FormatCSV,
	}
	PropertiesEntity = Entity{
		Name: "properties", Singular: "property",
		RequiresAuth: true, ExportFormat: listview.FormatXLSX,
	}
)

// Entities lists every collection in menu order.
var Entities = []Entity{CustomersEntity, MasterDevelopmentsEntity, SubDevelopmentsEntity, PropertiesEntity}

// EntityByName resolves a collection name. Singular names and a few short
// aliases are accepted.
func EntityByName(name string) (Entity, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	switch n {
	case "customer", "cust":
		n = CustomersEntity.Name
	case "master-development", "master", "md":
		n = MasterDevelopmentsEntity.Name
	case "sub-development", "sub", "subdev", "sd":
		n = SubDevelopmentsEntity.Name
	case "property", "prop", "inventory":
		n = PropertiesEntity.Name
	}
	for _, e := range Entities {
		if e.Name == n {
			return e, nil
		}
	}
	return Entity{}, fmt.Errorf("unknown entity %q", name)
}

// Record is implemented by every CMS record.
type Record interface {
	RecordID() string
}
