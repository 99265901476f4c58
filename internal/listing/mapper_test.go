package listing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func mustRecord(t *testing.T, data string) Record {
	t.Helper()
	recs, err := ParseRecords([]byte("[" + data + "]"))
	require.NoError(t, err)
	require.Len(t, recs, 1)
	return recs[0]
}

func TestMapFullRecord(t *testing.T) {
	rec := mustRecord(t, `{
		"Id": 7,
		"Name": "rec-7",
		"title_c": "Modern Craftsman",
		"price_c": 425000,
		"address_c": "12 Elm St",
		"city_c": "Austin",
		"state_c": "TX",
		"zip_code_c": "78701",
		"property_type_c": "House",
		"bedrooms_c": 4,
		"bathrooms_c": 2.5,
		"square_feet_c": 2300,
		"year_built_c": 2015,
		"description_c": "Bright and open.",
		"features_c": "Garage,Pool, Fireplace",
		"images_c": "https://img/1.jpg\n\n  \nhttps://img/2.jpg",
		"listing_date_c": "2025-01-02T10:00:00Z",
		"status_c": "Pending"
	}`)

	l := Map(rec, fixedNow)

	assert.Equal(t, Listing{
		ID:           7,
		Title:        "Modern Craftsman",
		Price:        425000,
		Address:      "12 Elm St",
		City:         "Austin",
		State:        "TX",
		ZipCode:      "78701",
		PropertyType: "House",
		Bedrooms:     4,
		Bathrooms:    2.5,
		SquareFeet:   2300,
		YearBuilt:    2015,
		Description:  "Bright and open.",
		Features:     []string{"Garage", "Pool", "Fireplace"},
		Images:       []string{"https://img/1.jpg", "https://img/2.jpg"},
		ListingDate:  "2025-01-02T10:00:00Z",
		Status:       "Pending",
	}, l)
}

func TestMapDefaults(t *testing.T) {
	l := Map(mustRecord(t, `{"Id": 3}`), fixedNow)

	assert.Equal(t, int64(3), l.ID)
	assert.Equal(t, "", l.Title)
	assert.Equal(t, "", l.Address)
	assert.Equal(t, 0.0, l.Price)
	assert.Equal(t, int64(0), l.YearBuilt)
	assert.Equal(t, DefaultStatus, l.Status)
	assert.Equal(t, "2025-03-14T09:30:00Z", l.ListingDate)
	assert.NotNil(t, l.Features)
	assert.Empty(t, l.Features)
	assert.NotNil(t, l.Images)
	assert.Empty(t, l.Images)
}

func TestMapNullAndMalformedFields(t *testing.T) {
	rec := mustRecord(t, `{
		"Id": 9,
		"title_c": null,
		"Name": "Fallback Name",
		"price_c": "not a price",
		"bedrooms_c": "3",
		"bathrooms_c": {"nested": true},
		"square_feet_c": null,
		"features_c": true,
		"images_c": null,
		"status_c": ""
	}`)

	l := Map(rec, fixedNow)

	assert.Equal(t, "Fallback Name", l.Title)
	assert.Equal(t, 0.0, l.Price)
	assert.Equal(t, 3.0, l.Bedrooms)
	assert.Equal(t, 0.0, l.Bathrooms)
	assert.Equal(t, 0.0, l.SquareFeet)
	assert.Empty(t, l.Features)
	assert.Empty(t, l.Images)
	assert.Equal(t, DefaultStatus, l.Status)
}

func TestMapNumericTextFields(t *testing.T) {
	l := Map(mustRecord(t, `{"Id": 1, "zip_code_c": 78701, "title_c": 1600, "address_c": 0, "status_c": false}`), fixedNow)

	assert.Equal(t, "78701", l.ZipCode)
	assert.Equal(t, "1600", l.Title)
	assert.Equal(t, "", l.Address)
	assert.Equal(t, DefaultStatus, l.Status)
}

func TestMapMissingImagesAndFeatures(t *testing.T) {
	l := Map(mustRecord(t, `{"Id": 1, "title_c": "Loft"}`), fixedNow)

	assert.Equal(t, []string{}, l.Features)
	assert.Equal(t, []string{}, l.Images)
}

func TestMapAllPreservesOrder(t *testing.T) {
	recs, err := ParseRecords([]byte(`[{"Id": 3}, {"Id": 1}, {"Id": 2}]`))
	require.NoError(t, err)

	got := MapAll(recs, fixedNow)
	require.Len(t, got, 3)
	assert.Equal(t, []int64{3, 1, 2}, []int64{got[0].ID, got[1].ID, got[2].ID})
}

func TestParseRecordsInvalid(t *testing.T) {
	_, err := ParseRecords([]byte(`{"Id": 1}`))
	assert.Error(t, err)
}
