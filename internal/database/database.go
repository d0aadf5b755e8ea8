// Package database provides PostgreSQL connection management for kobosync.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/dbsmedya/kobosync/internal/config"
)

// Manager handles the destination database connection. The connection is
// acquired once per run and shared by provisioning, loading and verification.
type Manager struct {
	DB     *sql.DB
	config *config.DatabaseConfig
}

// NewManager creates a new database manager from configuration.
func NewManager(cfg *config.DatabaseConfig) *Manager {
	return &Manager{
		config: cfg,
	}
}

// Connect establishes and verifies the destination connection.
// There is no retry policy: a destination that cannot be reached aborts the
// run, and the operator re-runs the pipeline once it is back.
func (m *Manager) Connect(ctx context.Context) error {
	dsn := BuildDSN(m.config)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return &ConnectError{Host: m.config.Host, Port: m.config.Port, Database: m.config.Database, Err: err}
	}

	db.SetMaxOpenConns(2)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(10 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return &ConnectError{Host: m.config.Host, Port: m.config.Port, Database: m.config.Database, Err: err}
	}

	m.DB = db
	return nil
}

// BuildDSN constructs a PostgreSQL connection URL from configuration.
// Credentials go through url.UserPassword so special characters survive.
func BuildDSN(cfg *config.DatabaseConfig) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.User, cfg.Password),
		Host:   fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:   "/" + cfg.Database,
	}

	q := url.Values{}
	if cfg.SSLMode != "" {
		q.Set("sslmode", cfg.SSLMode)
	}
	u.RawQuery = q.Encode()

	return u.String()
}

// Close closes the destination connection gracefully.
func (m *Manager) Close() error {
	if m.DB == nil {
		return nil
	}
	if err := m.DB.Close(); err != nil {
		return fmt.Errorf("destination close: %w", err)
	}
	m.DB = nil
	return nil
}

// Ping verifies the connection is alive.
func (m *Manager) Ping(ctx context.Context) error {
	if m.DB == nil {
		return fmt.Errorf("not connected")
	}
	if err := m.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("destination ping failed: %w", err)
	}
	return nil
}
