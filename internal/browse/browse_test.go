package browse

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/evcraddock/estateview/internal/db"
	"github.com/evcraddock/estateview/internal/favorites"
	"github.com/evcraddock/estateview/internal/kv"
	"github.com/evcraddock/estateview/internal/listing"
	"github.com/evcraddock/estateview/internal/prefs"
)

// MockSource is a mock implementation of Source.
type MockSource struct {
	mock.Mock
}

func (m *MockSource) GetAll(ctx context.Context) ([]listing.Record, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]listing.Record), args.Error(1)
}

func (m *MockSource) GetByID(ctx context.Context, id int64) (listing.Record, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(listing.Record), args.Error(1)
}

func (m *MockSource) GetByIDs(ctx context.Context, ids []int64) ([]listing.Record, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]listing.Record), args.Error(1)
}

func (m *MockSource) Search(ctx context.Context, f listing.FilterState) ([]listing.Record, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]listing.Record), args.Error(1)
}

type staticFavorites []int64

func (f staticFavorites) IDs() []int64 { return f }

func (f staticFavorites) IsFavorite(id int64) bool {
	for _, v := range f {
		if v == id {
			return true
		}
	}
	return false
}

type staticPrefs struct {
	filters listing.FilterState
	sort    listing.SortKey
}

func (p staticPrefs) Filters() listing.FilterState { return p.filters }

func (p staticPrefs) Sort() listing.SortKey { return p.sort }

var errOffline = errors.New("connection reset")

func records(t *testing.T, data string) []listing.Record {
	t.Helper()
	recs, err := listing.ParseRecords([]byte(data))
	require.NoError(t, err)
	return recs
}

func listingIDs(listings []listing.Listing) []int64 {
	out := make([]int64, len(listings))
	for i, l := range listings {
		out[i] = l.ID
	}
	return out
}

const threeRecords = `[
	{"Id": 1, "title_c": "A", "price_c": 300, "square_feet_c": 1200},
	{"Id": 2, "title_c": "B", "price_c": 100, "square_feet_c": 900},
	{"Id": 3, "title_c": "C", "price_c": 200, "square_feet_c": 2500}
]`

func TestBrowseWithoutFiltersUsesGetAll(t *testing.T) {
	ctx := context.Background()
	src := new(MockSource)
	src.On("GetAll", ctx).Return(records(t, threeRecords), nil)

	svc := NewService(src, staticFavorites{}, staticPrefs{})
	got, err := svc.Browse(ctx, listing.FilterState{City: "  "}, listing.SortLargest)
	require.NoError(t, err)

	assert.Equal(t, []int64{3, 1, 2}, listingIDs(got))
	src.AssertExpectations(t)
	src.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
}

func TestBrowseWithFiltersUsesSearch(t *testing.T) {
	ctx := context.Background()
	f := listing.FilterState{MinPrice: "150"}
	src := new(MockSource)
	src.On("Search", ctx, f).Return(records(t, `[{"Id": 1, "price_c": 300}, {"Id": 3, "price_c": 200}]`), nil)

	svc := NewService(src, staticFavorites{}, staticPrefs{})
	got, err := svc.Browse(ctx, f, listing.SortPriceLow)
	require.NoError(t, err)

	assert.Equal(t, []int64{3, 1}, listingIDs(got))
	src.AssertExpectations(t)
	src.AssertNotCalled(t, "GetAll", mock.Anything)
}

func TestBrowseFetchFailure(t *testing.T) {
	ctx := context.Background()
	src := new(MockSource)
	src.On("GetAll", ctx).Return(nil, errOffline)

	svc := NewService(src, staticFavorites{}, staticPrefs{})
	_, err := svc.Browse(ctx, listing.FilterState{}, listing.SortNewest)

	assert.ErrorIs(t, err, ErrFetch)
	assert.ErrorIs(t, err, errOffline)
}

func TestCurrentUsesPreferences(t *testing.T) {
	ctx := context.Background()
	f := listing.FilterState{PropertyType: "House"}
	src := new(MockSource)
	src.On("Search", ctx, f).Return(records(t, threeRecords), nil)

	svc := NewService(src, staticFavorites{}, staticPrefs{filters: f, sort: listing.SortPriceHigh})
	got, err := svc.Current(ctx)
	require.NoError(t, err)

	assert.Equal(t, []int64{1, 3, 2}, listingIDs(got))
}

func TestDetail(t *testing.T) {
	ctx := context.Background()
	src := new(MockSource)
	src.On("GetByID", ctx, int64(2)).Return(records(t, threeRecords)[1], nil)

	svc := NewService(src, staticFavorites{2}, staticPrefs{})
	d, err := svc.Detail(ctx, 2)
	require.NoError(t, err)

	assert.Equal(t, "B", d.Listing.Title)
	assert.True(t, d.Favorite)
}

func TestDetailNotFoundIsDistinct(t *testing.T) {
	ctx := context.Background()
	src := new(MockSource)
	src.On("GetByID", ctx, int64(9)).Return(nil, listing.ErrNotFound)
	src.On("GetByID", ctx, int64(10)).Return(nil, errOffline)

	svc := NewService(src, staticFavorites{}, staticPrefs{})

	_, err := svc.Detail(ctx, 9)
	assert.ErrorIs(t, err, listing.ErrNotFound)
	assert.NotErrorIs(t, err, ErrFetch)

	_, err = svc.Detail(ctx, 10)
	assert.ErrorIs(t, err, ErrFetch)
	assert.NotErrorIs(t, err, listing.ErrNotFound)
}

func TestSavedWithoutFavoritesSkipsFetch(t *testing.T) {
	src := new(MockSource)

	svc := NewService(src, staticFavorites{}, staticPrefs{})
	got, err := svc.Saved(context.Background(), listing.SortNewest)
	require.NoError(t, err)

	assert.NotNil(t, got)
	assert.Empty(t, got)
	src.AssertNotCalled(t, "GetByIDs", mock.Anything, mock.Anything)
}

func TestSaved(t *testing.T) {
	ctx := context.Background()
	src := new(MockSource)
	src.On("GetByIDs", ctx, []int64{1, 2}).Return(records(t, threeRecords)[:2], nil)

	svc := NewService(src, staticFavorites{1, 2}, staticPrefs{})
	got, err := svc.Saved(ctx, listing.SortPriceLow)
	require.NoError(t, err)

	assert.Equal(t, []int64{2, 1}, listingIDs(got))
}

func TestSavedFetchFailure(t *testing.T) {
	ctx := context.Background()
	src := new(MockSource)
	src.On("GetByIDs", ctx, []int64{4}).Return(nil, errOffline)

	svc := NewService(src, staticFavorites{4}, staticPrefs{})
	_, err := svc.Saved(ctx, listing.SortNewest)
	assert.ErrorIs(t, err, ErrFetch)
}

func TestBrowsePathsAreEquivalent(t *testing.T) {
	ctx := context.Background()
	d, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	repo := listing.NewRepository(d)
	require.NoError(t, repo.Upsert(ctx, records(t, `[
		{"Id": 1, "title_c": "Lake House", "city_c": "Austin", "state_c": "TX", "property_type_c": "House",
		 "price_c": 320000, "bedrooms_c": 3, "bathrooms_c": 2, "square_feet_c": 1800, "listing_date_c": "2025-01-05"},
		{"Id": 2, "title_c": "City Condo", "city_c": "Denver", "state_c": "CO", "property_type_c": "Condo",
		 "price_c": 210000, "bedrooms_c": 2, "bathrooms_c": 1, "square_feet_c": 850, "listing_date_c": "2025-02-10"},
		{"Id": 3, "title_c": "Ranch", "city_c": "Austin", "state_c": "TX", "property_type_c": "House",
		 "price_c": 450000, "bedrooms_c": 4, "bathrooms_c": 3, "square_feet_c": 2600, "listing_date_c": "2024-11-20"}
	]`)))

	svc := NewService(repo, staticFavorites{}, staticPrefs{})
	svc.now = func() time.Time { return time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC) }

	for _, f := range []listing.FilterState{
		{},
		{SearchTerm: "austin"},
		{PropertyType: "House", MaxPrice: "400000"},
		{Bedrooms: "3", State: "tx"},
		{MinSquareFeet: "1000"},
	} {
		for _, key := range listing.SortKeys {
			remote, err := svc.Browse(ctx, f, key)
			require.NoError(t, err)
			local, err := svc.BrowseLocal(ctx, f, key)
			require.NoError(t, err)
			assert.Equal(t, local, remote, "filters %+v sort %s", f, key)
		}
	}
}

func TestServiceWithStores(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	favs, err := favorites.NewStore(ctx, mem)
	require.NoError(t, err)
	p, err := prefs.NewStore(ctx, mem)
	require.NoError(t, err)

	_, err = favs.Add(ctx, 3)
	require.NoError(t, err)
	require.NoError(t, p.SetSort(ctx, "price-low"))

	src := new(MockSource)
	src.On("GetByIDs", ctx, []int64{3}).Return(records(t, threeRecords)[2:], nil)
	src.On("GetAll", ctx).Return(records(t, threeRecords), nil)

	svc := NewService(src, favs, p)

	saved, err := svc.Saved(ctx, p.Sort())
	require.NoError(t, err)
	assert.Equal(t, []int64{3}, listingIDs(saved))

	current, err := svc.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3, 1}, listingIDs(current))
}
