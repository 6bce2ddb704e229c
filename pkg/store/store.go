// Package store persists sites, devices, terminations, and cables in
// SQLite and exposes a transactional unit of work. A cable mutation and
// all of its cache rewrites commit or roll back together.
package store

import (
	"database/sql"
	"fmt"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// schema is applied in full at open; every statement is idempotent.
// Rear-port position uniqueness is a hard constraint so an ambiguous
// front-port mapping can never reach the tracer.
const schema = `
CREATE TABLE IF NOT EXISTS sites (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE,
	slug TEXT NOT NULL UNIQUE,
	status TEXT NOT NULL DEFAULT 'active'
);

CREATE TABLE IF NOT EXISTS devices (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	site_id INTEGER REFERENCES sites(id),
	name TEXT NOT NULL UNIQUE,
	role TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS cables (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	termination_a_kind TEXT NOT NULL,
	termination_a_id INTEGER NOT NULL,
	termination_b_kind TEXT NOT NULL,
	termination_b_id INTEGER NOT NULL,
	status TEXT NOT NULL DEFAULT 'connected',
	type TEXT NOT NULL DEFAULT '',
	label TEXT NOT NULL DEFAULT '',
	color TEXT NOT NULL DEFAULT '',
	length REAL,
	length_unit TEXT NOT NULL DEFAULT '',
	UNIQUE (termination_a_kind, termination_a_id),
	UNIQUE (termination_b_kind, termination_b_id)
);

CREATE TABLE IF NOT EXISTS terminations (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	kind TEXT NOT NULL,
	device_id INTEGER REFERENCES devices(id),
	name TEXT NOT NULL DEFAULT '',
	iface_type TEXT NOT NULL DEFAULT '',
	mgmt_only INTEGER NOT NULL DEFAULT 0,
	positions INTEGER NOT NULL DEFAULT 1,
	rear_port_id INTEGER,
	rear_port_position INTEGER,
	circuit_id INTEGER,
	term_side TEXT NOT NULL DEFAULT '',
	cable_id INTEGER REFERENCES cables(id),
	connected_endpoint_kind TEXT,
	connected_endpoint_id INTEGER,
	connection_status TEXT
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_terminations_device_port
	ON terminations (kind, device_id, name);

CREATE UNIQUE INDEX IF NOT EXISTS idx_front_port_position
	ON terminations (rear_port_id, rear_port_position)
	WHERE kind = 'frontport';
`

// Store wraps the SQLite database holding the cable plant.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the database at path and applies
// the schema. Use ":memory:" for an ephemeral store.
func Open(path string) (*Store, error) {
	dsn := path
	if path != ":memory:" {
		dsn = "file:" + path
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite has a single writer; one pooled connection also keeps
	// ":memory:" databases visible across transactions.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Tx is one unit of work. All reads and writes of a single logical
// operation go through the same Tx.
type Tx struct {
	tx *sql.Tx
}

// WithTx runs fn inside a transaction, committing on success and
// rolling back on error or panic.
func (s *Store) WithTx(fn func(*Tx) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()
	if err := fn(&Tx{tx: tx}); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// View runs fn inside a read-only unit of work. The transaction is
// always rolled back, so fn cannot leave writes behind.
func (s *Store) View(fn func(*Tx) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()
	return fn(&Tx{tx: tx})
}
