package database

import (
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/matthieukhl/stockpilot/internal/config"
)

type DB struct {
	*sql.DB
}

// NewConnection creates a new database connection using the provided config
func NewConnection(cfg *config.DBConfig) (*DB, error) {
	db, err := sql.Open("mysql", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(cfg.MaxOpenConns)

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{db}, nil
}

// Wrap adapts an existing sql.DB, used by tests to inject a mock driver
func Wrap(db *sql.DB) *DB {
	return &DB{db}
}

// HealthCheck performs a simple health check on the database
func (db *DB) HealthCheck() error {
	return db.Ping()
}

// IntegrityCheck runs a round-trip probe through the driver and returns the
// "ok" sentinel on success.
func (db *DB) IntegrityCheck() string {
	var sentinel string
	if err := db.QueryRow("SELECT 'ok'").Scan(&sentinel); err != nil {
		return "unknown"
	}
	return sentinel
}
