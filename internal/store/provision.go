// Package store provisions the destination table and bulk-loads mapped
// records into it.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dbsmedya/kobosync/internal/logger"
	"github.com/dbsmedya/kobosync/internal/sqlutil"
)

// Destination namespace and table. The layout below is the contract the
// column mapping projects onto; the two must not drift apart.
const (
	SchemaName = "feedback_ghana"
	TableName  = "customer_feedback"
)

// createTableColumns is the destination table body: an identity primary key,
// the twenty mapped survey columns, and a server-assigned insertion
// timestamp.
const createTableColumns = `
	id SERIAL PRIMARY KEY,
	start_time TIMESTAMP WITH TIME ZONE,
	end_time TIMESTAMP WITH TIME ZONE,
	date_of_reporting DATE,
	store_location VARCHAR(255),
	gender VARCHAR(50),
	age INTEGER,
	product_pricing_satisfaction INTEGER,
	customer_service_satisfaction INTEGER,
	overall_satisfaction INTEGER,
	recommendations TEXT,
	submission_id BIGINT,
	uuid VARCHAR(255),
	submission_time TIMESTAMP,
	validation_status VARCHAR(100),
	notes TEXT,
	status VARCHAR(100),
	submitted_by VARCHAR(255),
	version VARCHAR(100),
	tags TEXT,
	index_value INTEGER,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
`

// Provisioner ensures the destination schema and table exist with a fresh
// layout. The table is dropped and recreated on every run: full-replace
// semantics guarantee schema drift from a prior run can never corrupt this
// run's load.
type Provisioner struct {
	db     *sql.DB
	logger *logger.Logger
}

// NewProvisioner creates a provisioner for the destination connection.
func NewProvisioner(db *sql.DB, log *logger.Logger) (*Provisioner, error) {
	if db == nil {
		return nil, fmt.Errorf("database is nil")
	}
	if log == nil {
		log = logger.NewDefault()
	}
	return &Provisioner{db: db, logger: log}, nil
}

// Provision creates the schema if needed, then drops and recreates the
// destination table. Any DDL failure is fatal to the run; there is no
// partial-schema recovery.
func (p *Provisioner) Provision(ctx context.Context) error {
	log := p.logger.WithTable(SchemaName + "." + TableName)

	createSchema := fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", sqlutil.QuoteIdentifier(SchemaName))
	if _, err := p.db.ExecContext(ctx, createSchema); err != nil {
		return &ProvisionError{Step: "create schema", Err: err}
	}
	log.Debugw("Schema ensured", "schema", SchemaName)

	table := sqlutil.QualifyTable(SchemaName, TableName)

	dropTable := fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", table)
	if _, err := p.db.ExecContext(ctx, dropTable); err != nil {
		return &ProvisionError{Step: "drop table", Err: err}
	}

	createTable := fmt.Sprintf("CREATE TABLE %s (%s)", table, createTableColumns)
	if _, err := p.db.ExecContext(ctx, createTable); err != nil {
		return &ProvisionError{Step: "create table", Err: err}
	}

	log.Info("Destination table recreated")
	return nil
}
