package schema

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbsmedya/kobosync/internal/types"
)

func newTestMapper(t *testing.T) *Mapper {
	t.Helper()
	m, err := NewMapper(DefaultMapping(), nil)
	require.NoError(t, err)
	return m
}

func colIndex(t *testing.T, mapping *ColumnMapping, name string) int {
	t.Helper()
	for i, c := range mapping.Columns() {
		if c.Name == name {
			return i
		}
	}
	t.Fatalf("destination column %q not in mapping", name)
	return -1
}

func TestMap_RenamesProjectsAndCoerces(t *testing.T) {
	m := newTestMapper(t)

	raw := &types.RawRecordSet{
		Columns: []string{"Age", "Gender", "_id", "start"},
		Rows: []types.Row{
			{"Age": "34", "Gender": "Female", "_id": "991", "start": "2024-01-03T10:00:00Z"},
		},
	}

	records, err := m.Map(raw)
	require.NoError(t, err)
	require.Len(t, records, 1)

	mapping := m.Mapping()
	rec := records[0]
	require.Len(t, rec.Values, len(mapping.Columns()))

	assert.Equal(t, int64(34), rec.Values[colIndex(t, mapping, "age")])
	assert.Equal(t, "Female", rec.Values[colIndex(t, mapping, "gender")])
	assert.Equal(t, int64(991), rec.Values[colIndex(t, mapping, "submission_id")])

	start, ok := rec.Values[colIndex(t, mapping, "start_time")].(time.Time)
	require.True(t, ok)
	assert.True(t, start.Equal(time.Date(2024, 1, 3, 10, 0, 0, 0, time.UTC)))

	// Every destination column the source never delivered is NULL.
	for _, name := range []string{"end_time", "date_of_reporting", "store_location", "notes", "tags"} {
		assert.Nil(t, rec.Values[colIndex(t, mapping, name)], "column %s", name)
	}
}

func TestMap_FixedColumnCountAndOrder(t *testing.T) {
	m := newTestMapper(t)
	mapping := m.Mapping()

	tests := []struct {
		name string
		raw  *types.RawRecordSet
	}{
		{
			name: "extra unmapped source columns dropped",
			raw: &types.RawRecordSet{
				Columns: []string{"_id", "Gender", "some_internal_field", "another_extra"},
				Rows:    []types.Row{{"_id": "1", "Gender": "Male", "some_internal_field": "x", "another_extra": "y"}},
			},
		},
		{
			name: "most destination columns missing from source",
			raw: &types.RawRecordSet{
				Columns: []string{"_id"},
				Rows:    []types.Row{{"_id": "2"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := m.Map(tt.raw)
			require.NoError(t, err)
			for _, rec := range records {
				assert.Len(t, rec.Values, len(mapping.Columns()))
			}
		})
	}
}

func TestMap_MalformedValueNulledRowKept(t *testing.T) {
	m := newTestMapper(t)
	mapping := m.Mapping()

	raw := &types.RawRecordSet{
		Columns: []string{"_id", "Age", "Gender"},
		Rows: []types.Row{
			{"_id": "991", "Age": "thirty", "Gender": "Female"},
		},
	}

	records, err := m.Map(raw)
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Nil(t, rec.Values[colIndex(t, mapping, "age")], "malformed age must become NULL, not an error")
	assert.Equal(t, "Female", rec.Values[colIndex(t, mapping, "gender")], "other fields stay intact")
	assert.Equal(t, int64(991), rec.Values[colIndex(t, mapping, "submission_id")])
}

func TestMap_MissingIdentifierColumnIsSchemaError(t *testing.T) {
	m := newTestMapper(t)

	raw := &types.RawRecordSet{
		Columns: []string{"Age", "Gender"},
		Rows:    []types.Row{{"Age": "34", "Gender": "Female"}},
	}

	_, err := m.Map(raw)
	require.Error(t, err)

	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, RequiredColumn, schemaErr.Column)
}

func TestMap_RowMissingIdentifierValueIsKept(t *testing.T) {
	m := newTestMapper(t)
	mapping := m.Mapping()

	raw := &types.RawRecordSet{
		Columns: []string{"_id", "Gender"},
		Rows: []types.Row{
			{"_id": "", "Gender": "Male"}, // blank id: kept, database owns integrity
		},
	}

	records, err := m.Map(raw)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Nil(t, records[0].Values[colIndex(t, mapping, "submission_id")])
}

func TestNewMapper_NilMapping(t *testing.T) {
	_, err := NewMapper(nil, nil)
	assert.Error(t, err)
}
