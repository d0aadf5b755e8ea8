// Package types contains shared types used across multiple packages to avoid import cycles.
package types

import "time"

// Row is a single parsed export row keyed by source column name, values as
// delivered by the remote service (raw strings, not yet typed).
type Row map[string]string

// RawRecordSet represents the tabular export as received from the remote
// service, before any renaming or type coercion. Columns preserves the header
// order of the export.
type RawRecordSet struct {
	Columns []string
	Rows    []Row
	Stats   FetchStats
}

// FetchStats contains statistics about the fetch and parse.
type FetchStats struct {
	RowsParsed  int           // Data rows successfully parsed
	RowsSkipped int           // Lines dropped for a bad field count
	ColumnCount int           // Columns in the header row
	Duration    time.Duration // Time taken for the HTTP round trip and parse
}

// Empty reports whether the record set contains no data rows.
func (r *RawRecordSet) Empty() bool {
	return r == nil || len(r.Rows) == 0
}
