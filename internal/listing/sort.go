package listing

import (
	"cmp"
	"slices"
	"time"
)

// SortKey selects an ordering for a listing collection.
type SortKey string

const (
	SortNewest    SortKey = "newest"
	SortOldest    SortKey = "oldest"
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
	SortLargest   SortKey = "largest"
	SortSmallest  SortKey = "smallest"
)

// DefaultSort is the ordering used when none has been chosen.
const DefaultSort = SortNewest

// SortKeys lists the selectable orderings.
var SortKeys = []SortKey{SortNewest, SortOldest, SortPriceLow, SortPriceHigh, SortLargest, SortSmallest}

// Valid returns true if k is a known sort key.
func (k SortKey) Valid() bool {
	return slices.Contains(SortKeys, k)
}

// Label returns a human-readable label for the sort key.
func (k SortKey) Label() string {
	switch k {
	case SortNewest:
		return "Newest First"
	case SortOldest:
		return "Oldest First"
	case SortPriceLow:
		return "Price: Low to High"
	case SortPriceHigh:
		return "Price: High to Low"
	case SortLargest:
		return "Largest First"
	case SortSmallest:
		return "Smallest First"
	default:
		return string(k)
	}
}

// ParseSortKey converts s to a SortKey, rejecting unknown values.
func ParseSortKey(s string) (SortKey, bool) {
	k := SortKey(s)
	return k, k.Valid()
}

// Sort returns a sorted copy of listings. Equal elements keep their
// relative order. An unknown key returns the copy in input order.
func Sort(listings []Listing, key SortKey) []Listing {
	out := slices.Clone(listings)
	if out == nil {
		out = []Listing{}
	}

	var compare func(a, b Listing) int
	switch key {
	case SortNewest:
		compare = func(a, b Listing) int { return listedAt(b).Compare(listedAt(a)) }
	case SortOldest:
		compare = func(a, b Listing) int { return listedAt(a).Compare(listedAt(b)) }
	case SortPriceLow:
		compare = func(a, b Listing) int { return cmp.Compare(a.Price, b.Price) }
	case SortPriceHigh:
		compare = func(a, b Listing) int { return cmp.Compare(b.Price, a.Price) }
	case SortLargest:
		compare = func(a, b Listing) int { return cmp.Compare(b.SquareFeet, a.SquareFeet) }
	case SortSmallest:
		compare = func(a, b Listing) int { return cmp.Compare(a.SquareFeet, b.SquareFeet) }
	default:
		return out
	}

	slices.SortStableFunc(out, compare)
	return out
}

var dateLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

// listedAt parses the listing date. Unparseable dates sort as the zero time.
func listedAt(l Listing) time.Time {
	return ParseListingDate(l.ListingDate)
}

// ParseListingDate parses a listing timestamp, returning the zero time if
// the value is not in a recognized layout.
func ParseListingDate(s string) time.Time {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
