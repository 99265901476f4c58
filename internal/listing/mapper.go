package listing

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Map converts a raw record into a Listing. It never fails: missing or
// malformed fields fall back to their defaults. now supplies the listing
// date when the record has none.
func Map(r Record, now time.Time) Listing {
	listingDate := r.text(FieldListingDate)
	if listingDate == "" {
		listingDate = now.UTC().Format(time.RFC3339)
	}

	status := r.text(FieldStatus)
	if status == "" {
		status = DefaultStatus
	}

	return Listing{
		ID:           r.ID(),
		Title:        r.text(FieldTitle, FieldName),
		Price:        r.number(FieldPrice),
		Address:      r.text(FieldAddress),
		City:         r.text(FieldCity),
		State:        r.text(FieldState),
		ZipCode:      r.text(FieldZipCode),
		PropertyType: r.text(FieldPropertyType),
		Bedrooms:     r.number(FieldBedrooms),
		Bathrooms:    r.number(FieldBathrooms),
		SquareFeet:   r.number(FieldSquareFeet),
		YearBuilt:    int64(r.number(FieldYearBuilt)),
		Description:  r.text(FieldDescription),
		Features:     splitFeatures(r.text(FieldFeatures)),
		Images:       splitImages(r.text(FieldImages)),
		ListingDate:  listingDate,
		Status:       status,
	}
}

// MapAll maps every record, preserving order.
func MapAll(recs []Record, now time.Time) []Listing {
	out := make([]Listing, 0, len(recs))
	for _, r := range recs {
		out = append(out, Map(r, now))
	}
	return out
}

// splitFeatures splits a comma-separated feature list.
func splitFeatures(s string) []string {
	out := []string{}
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// splitImages splits a newline-separated image list, dropping blank lines.
func splitImages(s string) []string {
	out := []string{}
	for _, img := range strings.Split(s, "\n") {
		if img = strings.TrimSpace(img); img != "" {
			out = append(out, img)
		}
	}
	return out
}

// parseNumber parses a decimal string. NaN and infinities are rejected.
func parseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
