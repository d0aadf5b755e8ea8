package schema

import (
	"fmt"

	"github.com/dbsmedya/kobosync/internal/logger"
	"github.com/dbsmedya/kobosync/internal/types"
)

// TypedRecord is one output row, holding exactly one value per destination
// column in the mapping's fixed order. A nil value loads as SQL NULL.
type TypedRecord struct {
	Values []interface{}
}

// Mapper reshapes a raw record set into typed records.
type Mapper struct {
	mapping *ColumnMapping
	logger  *logger.Logger
}

// NewMapper creates a mapper for the given column mapping.
func NewMapper(mapping *ColumnMapping, log *logger.Logger) (*Mapper, error) {
	if mapping == nil {
		return nil, fmt.Errorf("column mapping is nil")
	}
	if log == nil {
		log = logger.NewDefault()
	}
	return &Mapper{mapping: mapping, logger: log}, nil
}

// Map renames, projects and coerces every row of the raw record set.
//
// Renaming: each source column present in the mapping takes its destination
// name; unmapped source columns are dropped. Projection: the output holds
// exactly the destination columns, in fixed order; a destination column the
// source never delivered becomes NULL in every row. Coercion: per-column
// kind, coerce-or-null, so a malformed value degrades to NULL in that row
// rather than failing the batch.
//
// Map fails with *SchemaError only when the required identifier column is
// missing from the source header entirely.
func (m *Mapper) Map(raw *types.RawRecordSet) ([]TypedRecord, error) {
	// Destination name -> source name, for columns the source actually has.
	sources := make(map[string]string, len(raw.Columns))
	dropped := 0
	for _, src := range raw.Columns {
		if dest, ok := m.mapping.DestinationFor(src); ok {
			sources[dest] = src
		} else {
			dropped++
		}
	}

	if _, ok := sources[RequiredColumn]; !ok {
		return nil, &SchemaError{Column: RequiredColumn}
	}

	columns := m.mapping.Columns()
	records := make([]TypedRecord, 0, len(raw.Rows))
	nulled := 0

	for _, row := range raw.Rows {
		rec := TypedRecord{Values: make([]interface{}, len(columns))}
		for i, col := range columns {
			src, ok := sources[col.Name]
			if !ok {
				continue // column absent from source, stays NULL
			}
			v := Coerce(col.Kind, row[src])
			if v == nil && row[src] != "" {
				nulled++
			}
			rec.Values[i] = v
		}
		records = append(records, rec)
	}

	m.logger.Infow("Mapped records to destination schema",
		"rows", len(records),
		"destination_columns", len(columns),
		"dropped_source_columns", dropped,
		"values_nulled", nulled,
	)

	return records, nil
}

// Mapping returns the column mapping the mapper was built with.
func (m *Mapper) Mapping() *ColumnMapping {
	return m.mapping
}
