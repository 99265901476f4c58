package listing

import (
	"fmt"
	"strings"
)

// FilterKey names one of the recognized filters.
type FilterKey string

const (
	KeySearchTerm    FilterKey = "searchTerm"
	KeyPropertyType  FilterKey = "propertyType"
	KeyMinPrice      FilterKey = "minPrice"
	KeyMaxPrice      FilterKey = "maxPrice"
	KeyBedrooms      FilterKey = "bedrooms"
	KeyBathrooms     FilterKey = "bathrooms"
	KeyMinSquareFeet FilterKey = "minSquareFeet"
	KeyMaxSquareFeet FilterKey = "maxSquareFeet"
	KeyCity          FilterKey = "city"
	KeyState         FilterKey = "state"
)

// FilterKeys lists every recognized filter key in display order.
var FilterKeys = []FilterKey{
	KeySearchTerm, KeyPropertyType,
	KeyMinPrice, KeyMaxPrice,
	KeyBedrooms, KeyBathrooms,
	KeyMinSquareFeet, KeyMaxSquareFeet,
	KeyCity, KeyState,
}

// ValidFilterKey returns true if s is a recognized filter key.
func ValidFilterKey(s string) bool {
	for _, k := range FilterKeys {
		if string(k) == s {
			return true
		}
	}
	return false
}

// FilterState holds the user's filter values. An empty value means the
// filter is not applied.
type FilterState struct {
	SearchTerm    string `json:"searchTerm"`
	PropertyType  string `json:"propertyType"`
	MinPrice      string `json:"minPrice"`
	MaxPrice      string `json:"maxPrice"`
	Bedrooms      string `json:"bedrooms"`
	Bathrooms     string `json:"bathrooms"`
	MinSquareFeet string `json:"minSquareFeet"`
	MaxSquareFeet string `json:"maxSquareFeet"`
	City          string `json:"city"`
	State         string `json:"state"`
}

// field returns a pointer to the value stored under key, or nil.
func (f *FilterState) field(key FilterKey) *string {
	switch key {
	case KeySearchTerm:
		return &f.SearchTerm
	case KeyPropertyType:
		return &f.PropertyType
	case KeyMinPrice:
		return &f.MinPrice
	case KeyMaxPrice:
		return &f.MaxPrice
	case KeyBedrooms:
		return &f.Bedrooms
	case KeyBathrooms:
		return &f.Bathrooms
	case KeyMinSquareFeet:
		return &f.MinSquareFeet
	case KeyMaxSquareFeet:
		return &f.MaxSquareFeet
	case KeyCity:
		return &f.City
	case KeyState:
		return &f.State
	}
	return nil
}

// Get returns the value for key. Unknown keys yield "".
func (f FilterState) Get(key FilterKey) string {
	if p := f.field(key); p != nil {
		return *p
	}
	return ""
}

// Set stores value under key.
func (f *FilterState) Set(key FilterKey, value string) error {
	p := f.field(key)
	if p == nil {
		return fmt.Errorf("unknown filter %q", key)
	}
	*p = value
	return nil
}

// Values returns the non-empty filters keyed by name.
func (f FilterState) Values() map[FilterKey]string {
	out := make(map[FilterKey]string)
	for _, k := range FilterKeys {
		if v := strings.TrimSpace(f.Get(k)); v != "" {
			out[k] = v
		}
	}
	return out
}

// IsEmpty reports whether no filter is set.
func (f FilterState) IsEmpty() bool {
	return len(f.Values()) == 0
}

// Criteria is a FilterState with numeric bounds parsed and text folded to
// lower case. A bound that is nil is not applied.
type Criteria struct {
	SearchTerm    string
	PropertyType  string
	MinPrice      *float64
	MaxPrice      *float64
	MinBedrooms   *float64
	MinBathrooms  *float64
	MinSquareFeet *float64
	MaxSquareFeet *float64
	City          string
	State         string
}

// Criteria parses the filter values. Numeric values that do not parse are
// treated as unset.
func (f FilterState) Criteria() Criteria {
	return Criteria{
		SearchTerm:    foldText(f.SearchTerm),
		PropertyType:  strings.TrimSpace(f.PropertyType),
		MinPrice:      bound(f.MinPrice),
		MaxPrice:      bound(f.MaxPrice),
		MinBedrooms:   bound(f.Bedrooms),
		MinBathrooms:  bound(f.Bathrooms),
		MinSquareFeet: bound(f.MinSquareFeet),
		MaxSquareFeet: bound(f.MaxSquareFeet),
		City:          foldText(f.City),
		State:         foldText(f.State),
	}
}

// Matches reports whether l satisfies every criterion.
func (c Criteria) Matches(l Listing) bool {
	if c.SearchTerm != "" &&
		!containsFold(l.Title, c.SearchTerm) &&
		!containsFold(l.Address, c.SearchTerm) &&
		!containsFold(l.City, c.SearchTerm) &&
		!containsFold(l.State, c.SearchTerm) {
		return false
	}
	if c.PropertyType != "" && l.PropertyType != c.PropertyType {
		return false
	}
	if c.MinPrice != nil && l.Price < *c.MinPrice {
		return false
	}
	if c.MaxPrice != nil && l.Price > *c.MaxPrice {
		return false
	}
	if c.MinBedrooms != nil && l.Bedrooms < *c.MinBedrooms {
		return false
	}
	if c.MinBathrooms != nil && l.Bathrooms < *c.MinBathrooms {
		return false
	}
	if c.MinSquareFeet != nil && l.SquareFeet < *c.MinSquareFeet {
		return false
	}
	if c.MaxSquareFeet != nil && l.SquareFeet > *c.MaxSquareFeet {
		return false
	}
	if c.City != "" && !containsFold(l.City, c.City) {
		return false
	}
	if c.State != "" && !containsFold(l.State, c.State) {
		return false
	}
	return true
}

// Filter returns the listings matching every set filter, in input order.
// The input slice is not modified.
func Filter(listings []Listing, f FilterState) []Listing {
	c := f.Criteria()
	out := make([]Listing, 0, len(listings))
	for _, l := range listings {
		if c.Matches(l) {
			out = append(out, l)
		}
	}
	return out
}

// FoldText normalizes text for case-insensitive substring matching.
func FoldText(s string) string {
	return strings.ToLower(s)
}

func foldText(s string) string {
	return FoldText(strings.TrimSpace(s))
}

func containsFold(s, folded string) bool {
	return strings.Contains(FoldText(s), folded)
}

func bound(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, ok := parseNumber(s)
	if !ok {
		return nil
	}
	return &v
}
