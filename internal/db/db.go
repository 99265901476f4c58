// Package db opens the estateview SQLite database and keeps its schema
// current.
package db

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// connParams are go-sqlite3 DSN options. The driver applies them to every
// connection the pool opens.
var connParams = url.Values{
	"_journal_mode": {"WAL"},
	"_foreign_keys": {"on"},
	"_busy_timeout": {"5000"},
}

// DefaultPath returns the default database path: ~/.config/ev/estateview.db
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".config", "ev", "estateview.db"), nil
}

// Open opens or creates the database at path and migrates it.
func Open(path string) (_ *sql.DB, err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	d, err := sql.Open("sqlite3", path+"?"+connParams.Encode())
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		if err == nil {
			return
		}
		if cerr := d.Close(); cerr != nil {
			err = fmt.Errorf("%w (also failed to close: %v)", err, cerr)
		}
	}()

	if err := d.Ping(); err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", path, err)
	}
	if err := migrate(d); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return d, nil
}
