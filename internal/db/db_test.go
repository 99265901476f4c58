package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func TestOpen(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T) string
		wantErr bool
	}{
		{
			name: "creates new database",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "estateview.db")
			},
		},
		{
			name: "creates nested directories",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "a", "b", "estateview.db")
			},
		},
		{
			name: "opens existing database",
			setup: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "estateview.db")
				d, err := Open(path)
				if err != nil {
					t.Fatalf("setup: %v", err)
				}
				if err := d.Close(); err != nil {
					t.Fatalf("setup close: %v", err)
				}
				return path
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := tt.setup(t)
			d, err := Open(path)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			defer func() {
				if err := d.Close(); err != nil {
					t.Errorf("close: %v", err)
				}
			}()

			if _, err := os.Stat(path); os.IsNotExist(err) {
				t.Error("database file was not created")
			}
		})
	}
}

func TestWALMode(t *testing.T) {
	d := openTestDB(t)

	var mode string
	if err := d.QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("query journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want %q", mode, "wal")
	}
}

func TestForeignKeys(t *testing.T) {
	d := openTestDB(t)

	var fk int
	if err := d.QueryRow("PRAGMA foreign_keys").Scan(&fk); err != nil {
		t.Fatalf("query foreign_keys: %v", err)
	}
	if fk != 1 {
		t.Errorf("foreign_keys = %d, want 1", fk)
	}
}

func TestPragmasOnEveryConnection(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()

	held, err := d.Conn(ctx)
	if err != nil {
		t.Fatalf("first conn: %v", err)
	}
	defer func() {
		if err := held.Close(); err != nil {
			t.Errorf("close conn: %v", err)
		}
	}()

	second, err := d.Conn(ctx)
	if err != nil {
		t.Fatalf("second conn: %v", err)
	}
	defer func() {
		if err := second.Close(); err != nil {
			t.Errorf("close conn: %v", err)
		}
	}()

	for name, c := range map[string]*sql.Conn{"first": held, "second": second} {
		var fk, timeout int
		if err := c.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&fk); err != nil {
			t.Fatalf("%s: query foreign_keys: %v", name, err)
		}
		if err := c.QueryRowContext(ctx, "PRAGMA busy_timeout").Scan(&timeout); err != nil {
			t.Fatalf("%s: query busy_timeout: %v", name, err)
		}
		if fk != 1 || timeout != 5000 {
			t.Errorf("%s: foreign_keys = %d, busy_timeout = %d, want 1 and 5000", name, fk, timeout)
		}
	}
}

func TestOpenFailsOnDirectory(t *testing.T) {
	if _, err := Open(t.TempDir()); err == nil {
		t.Fatal("expected error opening a directory as a database")
	}
}

func TestMigrations(t *testing.T) {
	tests := []struct {
		name  string
		table string
		cols  []string
	}{
		{
			name:  "listings table exists",
			table: "listings",
			cols: []string{"id", "title", "title_fold", "address", "address_fold", "city", "city_fold", "state", "state_fold",
				"property_type", "price", "bedrooms", "bathrooms", "square_feet", "listed_at", "raw_json", "created_at", "updated_at"},
		},
		{
			name:  "inquiries table exists",
			table: "inquiries",
			cols:  []string{"id", "listing_id", "name", "email", "phone", "message", "created_at"},
		},
		{
			name:  "kv_store table exists",
			table: "kv_store",
			cols:  []string{"key", "value", "updated_at"},
		},
	}

	d := openTestDB(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cols := tableColumns(t, d, tt.table)
			if len(cols) != len(tt.cols) {
				t.Fatalf("got %d columns, want %d: %v", len(cols), len(tt.cols), cols)
			}
			for i, want := range tt.cols {
				if cols[i] != want {
					t.Errorf("column %d = %q, want %q", i, cols[i], want)
				}
			}
		})
	}
}

func TestCascadeDelete(t *testing.T) {
	d := openTestDB(t)

	if _, err := d.Exec(`INSERT INTO listings (id, raw_json) VALUES (?, ?)`, 42, "{}"); err != nil {
		t.Fatalf("insert listing: %v", err)
	}

	for i := 0; i < 3; i++ {
		_, err := d.Exec(
			`INSERT INTO inquiries (listing_id, name, email, message) VALUES (?, ?, ?, ?)`,
			42, "Pat", "pat@example.com", fmt.Sprintf("inquiry %d", i),
		)
		if err != nil {
			t.Fatalf("insert inquiry %d: %v", i, err)
		}
	}

	var count int
	if err := d.QueryRow(`SELECT COUNT(*) FROM inquiries WHERE listing_id = ?`, 42).Scan(&count); err != nil {
		t.Fatalf("count inquiries: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 inquiries, got %d", count)
	}

	if _, err := d.Exec(`DELETE FROM listings WHERE id = ?`, 42); err != nil {
		t.Fatalf("delete listing: %v", err)
	}

	if err := d.QueryRow(`SELECT COUNT(*) FROM inquiries WHERE listing_id = ?`, 42).Scan(&count); err != nil {
		t.Fatalf("count inquiries after delete: %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0 inquiries after cascade delete, got %d", count)
	}
}

func TestInquiryRequiresListing(t *testing.T) {
	d := openTestDB(t)

	_, err := d.Exec(
		`INSERT INTO inquiries (listing_id, name, email, message) VALUES (?, ?, ?, ?)`,
		999, "Pat", "pat@example.com", "hello",
	)
	if err == nil {
		t.Fatal("expected foreign key error for missing listing")
	}
}

func TestMigrationsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "estateview.db")

	// Open twice — migrations should not fail on second run
	d1, err := Open(path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	if err := d1.Close(); err != nil {
		t.Fatalf("first close: %v", err)
	}

	d2, err := Open(path)
	if err != nil {
		t.Fatalf("second open (idempotency): %v", err)
	}
	if err := d2.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}

func TestDefaultPath(t *testing.T) {
	p, err := DefaultPath()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if filepath.Base(p) != "estateview.db" {
		t.Errorf("expected filename estateview.db, got %s", filepath.Base(p))
	}

	dir := filepath.Base(filepath.Dir(p))
	if dir != "ev" {
		t.Errorf("expected directory ev, got %s", dir)
	}
}

// openTestDB creates a temporary database for testing.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "estateview.db")
	d, err := Open(path)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() {
		if err := d.Close(); err != nil {
			t.Errorf("close test db: %v", err)
		}
	})
	return d
}

// tableColumns returns column names for a table using PRAGMA table_info.
func tableColumns(t *testing.T, d *sql.DB, table string) []string {
	t.Helper()
	rows, err := d.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		t.Fatalf("pragma table_info(%s): %v", table, err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			t.Errorf("close rows: %v", err)
		}
	}()

	var cols []string
	for rows.Next() {
		var cid int
		var name, typ string
		var notnull int
		var dflt *string
		var pk int
		if err := rows.Scan(&cid, &name, &typ, &notnull, &dflt, &pk); err != nil {
			t.Fatalf("scan: %v", err)
		}
		cols = append(cols, name)
	}
	return cols
}
