package inquiry

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/evcraddock/estateview/internal/listing"
)

// Repository stores inquiries in SQLite.
type Repository struct {
	db *sql.DB
}

// NewRepository creates an inquiry repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Add validates in and records it against a listing. A missing listing
// yields listing.ErrNotFound.
func (r *Repository) Add(ctx context.Context, listingID int64, in Input) (*Inquiry, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var exists bool
	if err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM listings WHERE id = ?)", listingID,
	).Scan(&exists); err != nil {
		return nil, fmt.Errorf("checking listing: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("listing %d: %w", listingID, listing.ErrNotFound)
	}

	result, err := r.db.ExecContext(ctx,
		"INSERT INTO inquiries (listing_id, name, email, phone, message) VALUES (?, ?, ?, ?, ?)",
		listingID, in.Name, in.Email, in.Phone, in.Message,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting inquiry: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting insert id: %w", err)
	}

	var q Inquiry
	err = r.db.QueryRowContext(ctx,
		"SELECT id, listing_id, name, email, phone, message, created_at FROM inquiries WHERE id = ?", id,
	).Scan(&q.ID, &q.ListingID, &q.Name, &q.Email, &q.Phone, &q.Message, &q.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("reading back inquiry: %w", err)
	}

	return &q, nil
}

// ListByListingID returns a listing's inquiries, newest first.
func (r *Repository) ListByListingID(ctx context.Context, listingID int64) (inquiries []*Inquiry, err error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, listing_id, name, email, phone, message, created_at FROM inquiries WHERE listing_id = ? ORDER BY id DESC",
		listingID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing inquiries: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing rows: %w", closeErr)
		}
	}()

	inquiries = []*Inquiry{}
	for rows.Next() {
		var q Inquiry
		if err := rows.Scan(&q.ID, &q.ListingID, &q.Name, &q.Email, &q.Phone, &q.Message, &q.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning inquiry: %w", err)
		}
		inquiries = append(inquiries, &q)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating inquiries: %w", err)
	}

	return inquiries, nil
}
