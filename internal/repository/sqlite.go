package repository

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // Pure Go SQLite driver - no CGO required
)

// OpenSQLite opens the shared SQLite database and creates the schema.
// WAL mode allows concurrent readers; writes are serialized by the single
// connection below plus per-repository mutexes.
func OpenSQLite(path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite: %w", err)
	}

	// SQLite only supports 1 writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := createSQLiteSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return db, nil
}

func createSQLiteSchema(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		pin_hash TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);
	CREATE TABLE IF NOT EXISTS profiles (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL UNIQUE,
		cafe_id TEXT NOT NULL,
		display_name TEXT,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);
	CREATE TABLE IF NOT EXISTS inventory (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		quantity REAL NOT NULL DEFAULT 0,
		unit TEXT NOT NULL,
		qr_code TEXT NOT NULL,
		last_updated DATETIME NOT NULL,
		created_at DATETIME NOT NULL,
		cafe_id TEXT NOT NULL DEFAULT ''
	);
	CREATE TABLE IF NOT EXISTS history (
		id TEXT PRIMARY KEY,
		item_name TEXT NOT NULL,
		change_amount REAL NOT NULL,
		username TEXT NOT NULL,
		date DATETIME NOT NULL,
		cafe_id TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_inventory_cafe ON inventory(cafe_id, name);
	CREATE INDEX IF NOT EXISTS idx_inventory_qr ON inventory(qr_code);
	CREATE INDEX IF NOT EXISTS idx_history_cafe_date ON history(cafe_id, date);
	`
	_, err := db.Exec(query)
	return err
}
