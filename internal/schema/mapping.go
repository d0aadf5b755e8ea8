// Package schema maps the raw survey export onto the fixed destination
// table layout: renaming source columns, projecting to the destination
// column set and coercing values to their declared types.
package schema

import (
	"github.com/elliotchance/orderedmap/v2"
)

// Kind is the semantic type a destination column is coerced to.
type Kind int

const (
	KindText Kind = iota
	KindTimestamp // timestamp with time zone
	KindDate
	KindInteger
	KindBigInt
)

// Column is one destination column with its coercion kind.
type Column struct {
	Name string
	Kind Kind
}

// RequiredColumn is the destination identifier column that must be present
// in the source header after renaming. Rows may still carry a null value for
// it; integrity is enforced by the database, not the mapper.
const RequiredColumn = "submission_id"

// ColumnMapping is the static rename table from source column names to
// destination column names, plus the fixed destination column order.
// Source columns absent from the rename table are dropped.
type ColumnMapping struct {
	renames *orderedmap.OrderedMap[string, string]
	columns []Column
}

// DefaultMapping returns the mapping for the Kobo customer feedback export.
func DefaultMapping() *ColumnMapping {
	renames := orderedmap.NewOrderedMap[string, string]()
	renames.Set("start", "start_time")
	renames.Set("end", "end_time")
	renames.Set("Date of reporting", "date_of_reporting")
	renames.Set("Store Location", "store_location")
	renames.Set("Gender", "gender")
	renames.Set("Age", "age")
	renames.Set("How satisfy are you with the product pricing", "product_pricing_satisfaction")
	renames.Set("How satified are you with the customers services", "customer_service_satisfaction")
	renames.Set("What is your overall satisfaction", "overall_satisfaction")
	renames.Set("What are your recommendations", "recommendations")
	renames.Set("_id", "submission_id")
	renames.Set("_uuid", "uuid")
	renames.Set("_submission_time", "submission_time")
	renames.Set("_validation_status", "validation_status")
	renames.Set("_notes", "notes")
	renames.Set("_status", "status")
	renames.Set("_submitted_by", "submitted_by")
	renames.Set("__version__", "version")
	renames.Set("_tags", "tags")
	renames.Set("_index", "index_value")

	columns := []Column{
		{Name: "start_time", Kind: KindTimestamp},
		{Name: "end_time", Kind: KindTimestamp},
		{Name: "date_of_reporting", Kind: KindDate},
		{Name: "store_location", Kind: KindText},
		{Name: "gender", Kind: KindText},
		{Name: "age", Kind: KindInteger},
		{Name: "product_pricing_satisfaction", Kind: KindInteger},
		{Name: "customer_service_satisfaction", Kind: KindInteger},
		{Name: "overall_satisfaction", Kind: KindInteger},
		{Name: "recommendations", Kind: KindText},
		{Name: "submission_id", Kind: KindBigInt},
		{Name: "uuid", Kind: KindText},
		{Name: "submission_time", Kind: KindTimestamp},
		{Name: "validation_status", Kind: KindText},
		{Name: "notes", Kind: KindText},
		{Name: "status", Kind: KindText},
		{Name: "submitted_by", Kind: KindText},
		{Name: "version", Kind: KindText},
		{Name: "tags", Kind: KindText},
		{Name: "index_value", Kind: KindInteger},
	}

	return &ColumnMapping{renames: renames, columns: columns}
}

// DestinationFor returns the destination name a source column renames to.
func (m *ColumnMapping) DestinationFor(source string) (string, bool) {
	return m.renames.Get(source)
}

// Columns returns the destination columns in their fixed order.
func (m *ColumnMapping) Columns() []Column {
	return m.columns
}

// ColumnNames returns the destination column names in their fixed order.
func (m *ColumnMapping) ColumnNames() []string {
	names := make([]string, len(m.columns))
	for i, c := range m.columns {
		names[i] = c.Name
	}
	return names
}

// Rename is one source-to-destination column rename.
type Rename struct {
	Source      string
	Destination string
}

// Renames returns the rename pairs in their declared order, for diagnostics.
func (m *ColumnMapping) Renames() []Rename {
	pairs := make([]Rename, 0, m.renames.Len())
	for el := m.renames.Front(); el != nil; el = el.Next() {
		pairs = append(pairs, Rename{Source: el.Key, Destination: el.Value})
	}
	return pairs
}
