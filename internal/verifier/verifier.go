// Package verifier reports on the destination table after a load. Its
// output is diagnostic: it confirms the load for the operator but never
// gates the success of the run.
package verifier

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dbsmedya/kobosync/internal/logger"
	"github.com/dbsmedya/kobosync/internal/sqlutil"
	"github.com/dbsmedya/kobosync/internal/store"
)

// sampleColumns are the columns shown in the post-load sample.
var sampleColumns = []string{
	"id", "date_of_reporting", "store_location", "gender", "age",
	"overall_satisfaction", "created_at",
}

// VerifyResult holds the post-load report.
type VerifyResult struct {
	RowCount      int64
	SampleColumns []string
	Samples       [][]string // formatted values, one slice per sampled row
}

// Verifier counts destination rows and samples a few for confirmation.
type Verifier struct {
	db         *sql.DB
	sampleRows int
	logger     *logger.Logger
}

// NewVerifier creates a verifier. sampleRows bounds the sample select;
// zero disables sampling.
func NewVerifier(db *sql.DB, sampleRows int, log *logger.Logger) (*Verifier, error) {
	if db == nil {
		return nil, fmt.Errorf("database is nil")
	}
	if sampleRows < 0 {
		return nil, fmt.Errorf("sample rows cannot be negative, got %d", sampleRows)
	}
	if log == nil {
		log = logger.NewDefault()
	}
	return &Verifier{db: db, sampleRows: sampleRows, logger: log}, nil
}

// Verify counts the destination rows and, if any exist, fetches a bounded
// sample ordered by the identity column.
func (v *Verifier) Verify(ctx context.Context) (*VerifyResult, error) {
	table := sqlutil.QualifyTable(store.SchemaName, store.TableName)

	var count int64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", table)
	if err := v.db.QueryRowContext(ctx, countQuery).Scan(&count); err != nil {
		return nil, fmt.Errorf("failed to count destination rows: %w", err)
	}

	result := &VerifyResult{
		RowCount:      count,
		SampleColumns: sampleColumns,
	}

	v.logger.Infow("Destination row count", "rows", count)

	if count == 0 || v.sampleRows == 0 {
		return result, nil
	}

	samples, err := v.fetchSamples(ctx, table)
	if err != nil {
		return nil, err
	}
	result.Samples = samples

	return result, nil
}

func (v *Verifier) fetchSamples(ctx context.Context, table string) ([][]string, error) {
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY %s LIMIT $1",
		joinQuoted(sampleColumns),
		table,
		sqlutil.QuoteIdentifier("id"),
	)

	rows, err := v.db.QueryContext(ctx, query, v.sampleRows)
	if err != nil {
		return nil, fmt.Errorf("failed to sample destination rows: %w", err)
	}
	defer rows.Close()

	var samples [][]string
	for rows.Next() {
		values := make([]interface{}, len(sampleColumns))
		valuePtrs := make([]interface{}, len(sampleColumns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, fmt.Errorf("failed to scan sample row: %w", err)
		}

		formatted := make([]string, len(values))
		for i, val := range values {
			formatted[i] = formatValue(val)
		}
		samples = append(samples, formatted)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sample rows: %w", err)
	}

	return samples, nil
}

// formatValue converts a scanned value to a display string.
func formatValue(val interface{}) string {
	switch v := val.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(v)
	case time.Time:
		return v.Format("2006-01-02 15:04:05")
	case int64:
		return fmt.Sprintf("%d", v)
	case float64:
		return fmt.Sprintf("%g", v)
	case bool:
		return fmt.Sprintf("%t", v)
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

func joinQuoted(columns []string) string {
	out := ""
	for i, col := range columns {
		if i > 0 {
			out += ", "
		}
		out += sqlutil.QuoteIdentifier(col)
	}
	return out
}
