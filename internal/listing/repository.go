package listing

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Repository stores raw listing records in SQLite and serves them in the
// shape of the remote listing source.
type Repository struct {
	db  *sql.DB
	now func() time.Time
}

// NewRepository creates a listing repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db, now: time.Now}
}

const upsertSQL = `INSERT INTO listings
	(id, title, title_fold, address, address_fold, city, city_fold, state, state_fold,
	 property_type, price, bedrooms, bathrooms, square_feet, listed_at, raw_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		title = excluded.title, title_fold = excluded.title_fold,
		address = excluded.address, address_fold = excluded.address_fold,
		city = excluded.city, city_fold = excluded.city_fold,
		state = excluded.state, state_fold = excluded.state_fold,
		property_type = excluded.property_type, price = excluded.price,
		bedrooms = excluded.bedrooms, bathrooms = excluded.bathrooms,
		square_feet = excluded.square_feet, listed_at = excluded.listed_at,
		raw_json = excluded.raw_json, updated_at = CURRENT_TIMESTAMP`

const orderBy = ` ORDER BY listed_at DESC, id ASC`

// Upsert inserts or replaces records by id inside one transaction.
// Records without a listing date are stamped with the import time so the
// date stays stable across reads.
func (r *Repository) Upsert(ctx context.Context, recs []Record) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				err = fmt.Errorf("%w (also failed to roll back: %v)", err, rbErr)
			}
		}
	}()

	stmt, err := tx.PrepareContext(ctx, upsertSQL)
	if err != nil {
		return fmt.Errorf("preparing upsert: %w", err)
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing statement: %w", cerr)
		}
	}()

	now := r.now()
	for i, rec := range recs {
		if rec.ID() <= 0 {
			return fmt.Errorf("record %d: missing or invalid %s", i, FieldID)
		}
		rec = stampListingDate(rec, now)
		l := Map(rec, now)

		raw, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("record %d: encoding: %w", l.ID, err)
		}

		_, err = stmt.ExecContext(ctx,
			l.ID,
			l.Title, FoldText(l.Title),
			l.Address, FoldText(l.Address),
			l.City, FoldText(l.City),
			l.State, FoldText(l.State),
			l.PropertyType, l.Price, l.Bedrooms, l.Bathrooms, l.SquareFeet,
			ParseListingDate(l.ListingDate).UnixMilli(),
			string(raw),
		)
		if err != nil {
			return fmt.Errorf("upserting listing %d: %w", l.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing: %w", err)
	}
	return nil
}

// stampListingDate returns rec with a listing date set, copying the map
// when a date has to be added.
func stampListingDate(rec Record, now time.Time) Record {
	if rec.text(FieldListingDate) != "" {
		return rec
	}
	out := make(Record, len(rec)+1)
	for k, v := range rec {
		out[k] = v
	}
	date, _ := json.Marshal(now.UTC().Format(time.RFC3339))
	out[FieldListingDate] = date
	return out
}

// GetAll returns every record, newest first.
func (r *Repository) GetAll(ctx context.Context) ([]Record, error) {
	return r.query(ctx, "SELECT raw_json FROM listings"+orderBy)
}

// GetByID returns a single record, or ErrNotFound.
func (r *Repository) GetByID(ctx context.Context, id int64) (Record, error) {
	var raw string
	err := r.db.QueryRowContext(ctx, "SELECT raw_json FROM listings WHERE id = ?", id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("listing %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying listing %d: %w", id, err)
	}

	var rec Record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, fmt.Errorf("decoding listing %d: %w", id, err)
	}
	return rec, nil
}

// GetByIDs returns the records with the given ids, newest first. Unknown
// ids are skipped.
func (r *Repository) GetByIDs(ctx context.Context, ids []int64) ([]Record, error) {
	if len(ids) == 0 {
		return []Record{}, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}

	query := fmt.Sprintf("SELECT raw_json FROM listings WHERE id IN (%s)", strings.Join(placeholders, ", ")) + orderBy
	return r.query(ctx, query, args...)
}

// Search returns the records matching every set filter, newest first.
// The conditions mirror Criteria.Matches against the mapped columns.
func (r *Repository) Search(ctx context.Context, f FilterState) ([]Record, error) {
	c := f.Criteria()
	var conditions []string
	var args []interface{}

	if c.SearchTerm != "" {
		conditions = append(conditions,
			"(instr(title_fold, ?) > 0 OR instr(address_fold, ?) > 0 OR instr(city_fold, ?) > 0 OR instr(state_fold, ?) > 0)")
		args = append(args, c.SearchTerm, c.SearchTerm, c.SearchTerm, c.SearchTerm)
	}
	if c.PropertyType != "" {
		conditions = append(conditions, "property_type = ?")
		args = append(args, c.PropertyType)
	}

	bounds := []struct {
		clause string
		value  *float64
	}{
		{"price >= ?", c.MinPrice},
		{"price <= ?", c.MaxPrice},
		{"bedrooms >= ?", c.MinBedrooms},
		{"bathrooms >= ?", c.MinBathrooms},
		{"square_feet >= ?", c.MinSquareFeet},
		{"square_feet <= ?", c.MaxSquareFeet},
	}
	for _, b := range bounds {
		if b.value != nil {
			conditions = append(conditions, b.clause)
			args = append(args, *b.value)
		}
	}

	if c.City != "" {
		conditions = append(conditions, "instr(city_fold, ?) > 0")
		args = append(args, c.City)
	}
	if c.State != "" {
		conditions = append(conditions, "instr(state_fold, ?) > 0")
		args = append(args, c.State)
	}

	query := "SELECT raw_json FROM listings"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	return r.query(ctx, query+orderBy, args...)
}

// Delete removes a listing by ID. Inquiries cascade.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM listings WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting listing: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("listing %d: %w", id, ErrNotFound)
	}

	return nil
}

// Count returns the number of stored listings.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM listings").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting listings: %w", err)
	}
	return n, nil
}

func (r *Repository) query(ctx context.Context, query string, args ...interface{}) (recs []Record, err error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing rows: %w", closeErr)
		}
	}()

	recs = []Record{}
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		var rec Record
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return nil, fmt.Errorf("decoding record: %w", err)
		}
		recs = append(recs, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating records: %w", err)
	}

	return recs, nil
}
