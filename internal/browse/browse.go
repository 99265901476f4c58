// Package browse runs the listing control flow: fetch (filtered or not),
// map, then sort. It also serves saved listings and listing detail.
package browse

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/evcraddock/estateview/internal/listing"
)

// ErrFetch marks a failure to read from the listing source. Callers may
// retry.
var ErrFetch = errors.New("unable to load listings")

// Source is the listing source contract.
type Source interface {
	GetAll(ctx context.Context) ([]listing.Record, error)
	GetByID(ctx context.Context, id int64) (listing.Record, error)
	GetByIDs(ctx context.Context, ids []int64) ([]listing.Record, error)
	Search(ctx context.Context, f listing.FilterState) ([]listing.Record, error)
}

// Favorites supplies the saved listing ids.
type Favorites interface {
	IDs() []int64
	IsFavorite(id int64) bool
}

// Preferences supplies the persisted filters and sort.
type Preferences interface {
	Filters() listing.FilterState
	Sort() listing.SortKey
}

// Detail is a single listing with its favorite state.
type Detail struct {
	Listing  listing.Listing `json:"listing"`
	Favorite bool            `json:"favorite"`
}

// Service composes the listing source with the stores.
type Service struct {
	source    Source
	favorites Favorites
	prefs     Preferences
	now       func() time.Time
}

// NewService creates a browse service.
func NewService(source Source, favorites Favorites, prefs Preferences) *Service {
	return &Service{source: source, favorites: favorites, prefs: prefs, now: time.Now}
}

// Browse returns listings matching f in the order selected by key. With
// no active filter the whole collection is fetched.
func (s *Service) Browse(ctx context.Context, f listing.FilterState, key listing.SortKey) ([]listing.Listing, error) {
	var recs []listing.Record
	var err error
	if f.IsEmpty() {
		recs, err = s.source.GetAll(ctx)
	} else {
		recs, err = s.source.Search(ctx, f)
	}
	if err != nil {
		return nil, fetchError(err)
	}
	return listing.Sort(listing.MapAll(recs, s.now()), key), nil
}

// BrowseLocal fetches everything and filters in process. It returns the
// same listings as Browse.
func (s *Service) BrowseLocal(ctx context.Context, f listing.FilterState, key listing.SortKey) ([]listing.Listing, error) {
	recs, err := s.source.GetAll(ctx)
	if err != nil {
		return nil, fetchError(err)
	}
	mapped := listing.MapAll(recs, s.now())
	return listing.Sort(listing.Filter(mapped, f), key), nil
}

// Current browses with the persisted filters and sort.
func (s *Service) Current(ctx context.Context) ([]listing.Listing, error) {
	return s.Browse(ctx, s.prefs.Filters(), s.prefs.Sort())
}

// Detail returns one listing. A missing listing yields listing.ErrNotFound.
func (s *Service) Detail(ctx context.Context, id int64) (Detail, error) {
	rec, err := s.source.GetByID(ctx, id)
	if errors.Is(err, listing.ErrNotFound) {
		return Detail{}, err
	}
	if err != nil {
		return Detail{}, fetchError(err)
	}
	return Detail{
		Listing:  listing.Map(rec, s.now()),
		Favorite: s.favorites.IsFavorite(id),
	}, nil
}

// Saved returns the favorited listings in the order selected by key.
// Saved ids missing from the source are skipped.
func (s *Service) Saved(ctx context.Context, key listing.SortKey) ([]listing.Listing, error) {
	ids := s.favorites.IDs()
	if len(ids) == 0 {
		return []listing.Listing{}, nil
	}

	recs, err := s.source.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fetchError(err)
	}
	return listing.Sort(listing.MapAll(recs, s.now()), key), nil
}

func fetchError(err error) error {
	return fmt.Errorf("%w: %w", ErrFetch, err)
}
