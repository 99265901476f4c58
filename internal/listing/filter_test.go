package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleListings() []Listing {
	return []Listing{
		{ID: 1, Title: "Sunny Bungalow", Address: "10 Oak Ave", City: "Austin", State: "TX", PropertyType: "House",
			Price: 100000, Bedrooms: 2, Bathrooms: 1, SquareFeet: 900, ListingDate: "2025-01-01T00:00:00Z"},
		{ID: 2, Title: "Downtown Loft", Address: "200 Main St", City: "Denver", State: "CO", PropertyType: "Condo",
			Price: 250000, Bedrooms: 3, Bathrooms: 2, SquareFeet: 1200, ListingDate: "2025-02-01T00:00:00Z"},
		{ID: 3, Title: "Family Home", Address: "5 Lake Rd", City: "Austin", State: "TX", PropertyType: "House",
			Price: 180000, Bedrooms: 4, Bathrooms: 2.5, SquareFeet: 2500, ListingDate: "2025-03-01T00:00:00Z"},
		{ID: 4, Title: "Hillside Estate", Address: "1 Summit Way", City: "Boulder", State: "CO", PropertyType: "House",
			Price: 400000, Bedrooms: 5, Bathrooms: 4, SquareFeet: 4000, ListingDate: "2024-12-01T00:00:00Z"},
		{ID: 5, Title: "Starter Condo", Address: "77 Austin Blvd", City: "Dallas", State: "TX", PropertyType: "Condo",
			Price: 90000, Bedrooms: 1, Bathrooms: 1, SquareFeet: 650, ListingDate: "2025-01-15T00:00:00Z"},
	}
}

func ids(listings []Listing) []int64 {
	out := make([]int64, len(listings))
	for i, l := range listings {
		out[i] = l.ID
	}
	return out
}

func TestFilterEmptyStatePassesEverything(t *testing.T) {
	all := sampleListings()
	got := Filter(all, FilterState{})
	assert.Equal(t, all, got)
}

func TestFilterPriceRange(t *testing.T) {
	got := Filter(sampleListings(), FilterState{MinPrice: "150000", MaxPrice: "300000"})
	assert.Equal(t, []int64{2, 3}, ids(got))
}

func TestFilterBoundsAreInclusive(t *testing.T) {
	got := Filter(sampleListings(), FilterState{MinPrice: "100000", MaxPrice: "250000"})
	assert.Equal(t, []int64{1, 2, 3}, ids(got))

	got = Filter(sampleListings(), FilterState{MinSquareFeet: "900", MaxSquareFeet: "2500"})
	assert.Equal(t, []int64{1, 2, 3}, ids(got))
}

func TestFilterBedroomsIsFloor(t *testing.T) {
	listings := []Listing{
		{ID: 1, Bedrooms: 2}, {ID: 2, Bedrooms: 3}, {ID: 3, Bedrooms: 4}, {ID: 4, Bedrooms: 5},
	}
	got := Filter(listings, FilterState{Bedrooms: "3"})
	assert.Equal(t, []int64{2, 3, 4}, ids(got))
}

func TestFilterCases(t *testing.T) {
	tests := []struct {
		name  string
		state FilterState
		want  []int64
	}{
		{"search matches title case-insensitively", FilterState{SearchTerm: "loft"}, []int64{2}},
		{"search matches address", FilterState{SearchTerm: "main st"}, []int64{2}},
		{"search matches city or address", FilterState{SearchTerm: "AUSTIN"}, []int64{1, 3, 5}},
		{"search matches state", FilterState{SearchTerm: "co"}, []int64{2, 4, 5}},
		{"property type exact", FilterState{PropertyType: "Condo"}, []int64{2, 5}},
		{"property type is not substring", FilterState{PropertyType: "Cond"}, []int64{}},
		{"bathrooms floor with fraction", FilterState{Bathrooms: "2.5"}, []int64{3, 4}},
		{"city substring", FilterState{City: "den"}, []int64{2}},
		{"state substring", FilterState{State: "t"}, []int64{1, 3, 5}},
		{"conjunction across keys", FilterState{City: "austin", MinPrice: "150000"}, []int64{3}},
		{"conjunction with no match", FilterState{PropertyType: "Condo", MinSquareFeet: "3000"}, []int64{}},
		{"unparseable number ignored", FilterState{MinPrice: "cheap"}, []int64{1, 2, 3, 4, 5}},
		{"whitespace value ignored", FilterState{City: "   "}, []int64{1, 2, 3, 4, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(sampleListings(), tt.state)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestFilterResultSatisfiesEveryPredicate(t *testing.T) {
	state := FilterState{SearchTerm: "a", MinPrice: "95000", MaxPrice: "450000", Bedrooms: "2", City: "a"}
	all := sampleListings()
	got := Filter(all, state)

	c := state.Criteria()
	for _, l := range got {
		assert.True(t, c.Matches(l), "listing %d should match", l.ID)
		assert.Contains(t, all, l)
	}
	for _, l := range all {
		if c.Matches(l) {
			assert.Contains(t, got, l)
		}
	}
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	all := sampleListings()
	before := append([]Listing(nil), all...)
	Filter(all, FilterState{PropertyType: "House"})
	assert.Equal(t, before, all)
}

func TestFilterStateSetAndGet(t *testing.T) {
	var f FilterState
	require.NoError(t, f.Set(KeyCity, "Austin"))
	require.NoError(t, f.Set(KeyMinPrice, "1000"))

	assert.Equal(t, "Austin", f.Get(KeyCity))
	assert.Equal(t, "1000", f.MinPrice)
	assert.False(t, f.IsEmpty())
	assert.Equal(t, map[FilterKey]string{KeyCity: "Austin", KeyMinPrice: "1000"}, f.Values())

	assert.Error(t, f.Set("zip", "78701"))
	assert.Equal(t, "", f.Get("zip"))
}

func TestFilterStateIsEmpty(t *testing.T) {
	assert.True(t, FilterState{}.IsEmpty())
	assert.True(t, FilterState{SearchTerm: " "}.IsEmpty())
	assert.False(t, FilterState{State: "TX"}.IsEmpty())
}

func TestValidFilterKey(t *testing.T) {
	for _, k := range FilterKeys {
		assert.True(t, ValidFilterKey(string(k)), k)
	}
	assert.False(t, ValidFilterKey("zipCode"))
	assert.Len(t, FilterKeys, 10)
}
