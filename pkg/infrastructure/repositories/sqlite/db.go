package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// psql is the statement builder shared by the repositories; SQLite uses ? placeholders
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Question)

const schema = `
CREATE TABLE IF NOT EXISTS products (
	id                  TEXT PRIMARY KEY,
	sku                 TEXT NOT NULL,
	description         TEXT NOT NULL DEFAULT '',
	warehouse_m2        REAL NOT NULL DEFAULT 0,
	in_transit_m2       REAL NOT NULL DEFAULT 0,
	daily_velocity      REAL NOT NULL DEFAULT 0,
	weeks_of_data       INTEGER NOT NULL DEFAULT 0,
	velocity_cv         REAL,
	unique_customers    INTEGER NOT NULL DEFAULT 0,
	top_customer_name   TEXT NOT NULL DEFAULT '',
	top_customer_share  REAL,
	recurring_customers INTEGER NOT NULL DEFAULT 0,
	weekly_sales_m2     TEXT NOT NULL DEFAULT '',
	position            INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS boats (
	id               TEXT PRIMARY KEY,
	name             TEXT NOT NULL DEFAULT '',
	departure_date   TEXT NOT NULL,
	arrival_date     TEXT NOT NULL,
	booking_deadline TEXT NOT NULL,
	max_containers   INTEGER NOT NULL,
	status           TEXT NOT NULL DEFAULT 'available',
	origin_port      TEXT NOT NULL DEFAULT '',
	destination_port TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS warehouse_readings (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	current_pallets INTEGER NOT NULL,
	recorded_at     TEXT NOT NULL
);
`

// DB wraps the database connection
type DB struct {
	conn *sql.DB
	path string
}

// New opens (and creates if needed) the snapshot database and applies the schema
func New(dbPath string) (*DB, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	conn, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// SQLite serializes writers; one connection avoids SQLITE_BUSY during imports
	conn.SetMaxOpenConns(1)

	db := &DB{
		conn: conn,
		path: dbPath,
	}
	if err := db.Migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// Conn returns the underlying sql.DB connection
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Path returns the database file path
func (db *DB) Path() string {
	return db.path
}

// Migrate creates the snapshot tables when missing
func (db *DB) Migrate() error {
	if _, err := db.conn.Exec(schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
