package db

import (
	"database/sql"
	"fmt"
)

// migrations is an ordered list of SQL statements to run.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS listings (
		id            INTEGER PRIMARY KEY,
		title         TEXT    NOT NULL DEFAULT '',
		title_fold    TEXT    NOT NULL DEFAULT '',
		address       TEXT    NOT NULL DEFAULT '',
		address_fold  TEXT    NOT NULL DEFAULT '',
		city          TEXT    NOT NULL DEFAULT '',
		city_fold     TEXT    NOT NULL DEFAULT '',
		state         TEXT    NOT NULL DEFAULT '',
		state_fold    TEXT    NOT NULL DEFAULT '',
		property_type TEXT    NOT NULL DEFAULT '',
		price         REAL    NOT NULL DEFAULT 0,
		bedrooms      REAL    NOT NULL DEFAULT 0,
		bathrooms     REAL    NOT NULL DEFAULT 0,
		square_feet   REAL    NOT NULL DEFAULT 0,
		listed_at     INTEGER NOT NULL DEFAULT 0,
		raw_json      TEXT    NOT NULL,
		created_at    DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at    DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_listings_listed_at ON listings(listed_at)`,
	`CREATE TABLE IF NOT EXISTS inquiries (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		listing_id INTEGER NOT NULL REFERENCES listings(id) ON DELETE CASCADE,
		name       TEXT    NOT NULL,
		email      TEXT    NOT NULL,
		phone      TEXT    NOT NULL DEFAULT '',
		message    TEXT    NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS kv_store (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
}

// migrate runs every statement in order. Each one is idempotent.
func migrate(db *sql.DB) error {
	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
