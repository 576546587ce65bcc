package database

import (
	"context"
	"fmt"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS serials (
	sn TEXT PRIMARY KEY,
	status TEXT NOT NULL CHECK(status IN ('verified','fake','unknown')),
	note TEXT,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS admin (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	username TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS serials (
	sn TEXT PRIMARY KEY,
	status TEXT NOT NULL CHECK(status IN ('verified','fake','unknown')),
	note TEXT,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE TABLE IF NOT EXISTS admin (
	id BIGSERIAL PRIMARY KEY,
	username TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`

// EnsureSchema creates the serials and admin tables if they are missing.
// The schema is fixed; there is no migration history.
func (db *DB) EnsureSchema(ctx context.Context) error {
	var schema string
	switch db.DriverName() {
	case "sqlite3":
		schema = sqliteSchema
	case "postgres":
		schema = postgresSchema
	default:
		return fmt.Errorf("no schema for driver %q", db.DriverName())
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}
