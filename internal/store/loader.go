package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/dbsmedya/kobosync/internal/logger"
	"github.com/dbsmedya/kobosync/internal/schema"
	"github.com/dbsmedya/kobosync/internal/sqlutil"
)

// maxPlaceholders is the PostgreSQL limit on bind parameters per statement.
const maxPlaceholders = 65535

// LoadStats contains statistics about the bulk load.
type LoadStats struct {
	RowsLoaded int64
	Statements int
	Duration   time.Duration
}

// Loader appends typed records to the destination table as one transaction
// of multi-row INSERT statements.
type Loader struct {
	db        *sql.DB
	batchSize int
	logger    *logger.Logger
}

// NewLoader creates a loader. batchSize is the number of rows per INSERT
// statement; it is clamped so the placeholder count stays within the
// PostgreSQL limit.
func NewLoader(db *sql.DB, batchSize int, log *logger.Logger) (*Loader, error) {
	if db == nil {
		return nil, fmt.Errorf("database is nil")
	}
	if batchSize <= 0 {
		return nil, fmt.Errorf("batch size must be positive, got %d", batchSize)
	}
	if log == nil {
		log = logger.NewDefault()
	}
	return &Loader{db: db, batchSize: batchSize, logger: log}, nil
}

// Load inserts every record in one transaction. Any execution failure rolls
// the whole transaction back and returns a *LoadError: the run must not
// proceed to verification on a partial write. No dedup or upsert is applied;
// every record becomes exactly one row.
func (l *Loader) Load(ctx context.Context, columns []string, records []schema.TypedRecord) (*LoadStats, error) {
	startTime := time.Now()
	stats := &LoadStats{}

	if len(records) == 0 {
		return stats, nil
	}

	batchSize := l.batchSize
	if max := maxPlaceholders / len(columns); batchSize > max {
		batchSize = max
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, &LoadError{RowsAttempted: len(records), Err: err}
	}

	defer func() {
		if tx != nil {
			// Transaction not yet committed - rollback
			l.logger.Warn("Rolling back load transaction")
			if rbErr := tx.Rollback(); rbErr != nil {
				l.logger.Errorf("Failed to rollback transaction: %v", rbErr)
			}
		}
	}()

	for start := 0; start < len(records); start += batchSize {
		end := start + batchSize
		if end > len(records) {
			end = len(records)
		}
		chunk := records[start:end]

		query := buildInsertQuery(columns, len(chunk))
		args := make([]interface{}, 0, len(chunk)*len(columns))
		for _, rec := range chunk {
			args = append(args, rec.Values...)
		}

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return nil, &LoadError{RowsAttempted: len(records), Err: err}
		}

		stats.RowsLoaded += int64(len(chunk))
		stats.Statements++
	}

	if err := tx.Commit(); err != nil {
		return nil, &LoadError{RowsAttempted: len(records), Err: err}
	}

	// Mark transaction as committed (prevent defer rollback)
	tx = nil

	stats.Duration = time.Since(startTime)

	l.logger.Infow("Bulk load complete",
		"rows", stats.RowsLoaded,
		"statements", stats.Statements,
		"duration", stats.Duration,
	)

	return stats, nil
}

// buildInsertQuery constructs a multi-row INSERT for the given column list.
// Example: INSERT INTO "s"."t" (a, b) VALUES ($1, $2), ($3, $4)
func buildInsertQuery(columns []string, rowCount int) string {
	quoted := make([]string, len(columns))
	for i, col := range columns {
		quoted[i] = sqlutil.QuoteIdentifier(col)
	}

	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(sqlutil.QualifyTable(SchemaName, TableName))
	sb.WriteString(" (")
	sb.WriteString(strings.Join(quoted, ", "))
	sb.WriteString(") VALUES ")

	n := 1
	for row := 0; row < rowCount; row++ {
		if row > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(")
		for col := range columns {
			if col > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "$%d", n)
			n++
		}
		sb.WriteString(")")
	}

	return sb.String()
}
