// Package listing provides the listing view model, the raw record mapper,
// the filter and sort engines, and SQLite-backed listing storage.
package listing

import (
	"encoding/json"
	"errors"
)

// ErrNotFound is returned when a single listing lookup finds nothing.
var ErrNotFound = errors.New("listing not found")

// DefaultStatus is used when a record carries no status.
const DefaultStatus = "Active"

// Listing is a normalized property listing. Every field is populated.
type Listing struct {
	ID           int64    `json:"id"`
	Title        string   `json:"title"`
	Price        float64  `json:"price"`
	Address      string   `json:"address"`
	City         string   `json:"city"`
	State        string   `json:"state"`
	ZipCode      string   `json:"zipCode"`
	PropertyType string   `json:"propertyType"`
	Bedrooms     float64  `json:"bedrooms"`
	Bathrooms    float64  `json:"bathrooms"`
	SquareFeet   float64  `json:"squareFeet"`
	YearBuilt    int64    `json:"yearBuilt"`
	Description  string   `json:"description"`
	Features     []string `json:"features"`
	Images       []string `json:"images"`
	ListingDate  string   `json:"listingDate"`
	Status       string   `json:"status"`
}

// Source field names of a raw listing record.
const (
	FieldID           = "Id"
	FieldName         = "Name"
	FieldTitle        = "title_c"
	FieldPrice        = "price_c"
	FieldAddress      = "address_c"
	FieldCity         = "city_c"
	FieldState        = "state_c"
	FieldZipCode      = "zip_code_c"
	FieldPropertyType = "property_type_c"
	FieldBedrooms     = "bedrooms_c"
	FieldBathrooms    = "bathrooms_c"
	FieldSquareFeet   = "square_feet_c"
	FieldYearBuilt    = "year_built_c"
	FieldDescription  = "description_c"
	FieldFeatures     = "features_c"
	FieldImages       = "images_c"
	FieldListingDate  = "listing_date_c"
	FieldStatus       = "status_c"
)

// Record is a raw listing record as delivered by the listing source.
// Fields may be missing, null, or carry the wrong JSON type.
type Record map[string]json.RawMessage

// ParseRecords decodes a JSON array of raw records.
func ParseRecords(data []byte) ([]Record, error) {
	var recs []Record
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

// ID returns the record's identifier, or 0 when absent or malformed.
func (r Record) ID() int64 {
	return int64(r.number(FieldID))
}

// text returns the first non-empty string value among keys. A non-zero
// JSON number is kept in its literal form, so numeric zip codes survive.
func (r Record) text(keys ...string) string {
	for _, key := range keys {
		raw, ok := r[key]
		if !ok {
			continue
		}
		var v string
		if err := json.Unmarshal(raw, &v); err == nil && v != "" {
			return v
		}
		var n json.Number
		if err := json.Unmarshal(raw, &n); err == nil {
			if f, err := n.Float64(); err == nil && f != 0 {
				return n.String()
			}
		}
	}
	return ""
}

// number returns a numeric field. JSON numbers and numeric strings are
// accepted; anything else yields 0.
func (r Record) number(key string) float64 {
	raw, ok := r[key]
	if !ok {
		return 0
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if v, ok := parseNumber(s); ok {
			return v
		}
	}
	return 0
}
