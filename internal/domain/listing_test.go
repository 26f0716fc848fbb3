package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDraft() ListingDraft {
	return ListingDraft{
		Title:      "Cozy cabin",
		Price:      120,
		Location:   "Aspen, Colorado",
		Country:    "United States",
		Categories: []Category{CategoryMountains},
	}
}

func TestNewListing_Valid(t *testing.T) {
	listing, err := NewListing("user-1", validDraft())
	require.NoError(t, err)

	assert.False(t, listing.ID.IsZero())
	assert.Equal(t, "user-1", listing.OwnerID)
	assert.Equal(t, "Cozy cabin", listing.Title)
	assert.NotNil(t, listing.ReviewIDs)
	assert.Empty(t, listing.ReviewIDs)
	assert.Nil(t, listing.Geometry)
}

func TestNewListing_DefaultsCountsToOne(t *testing.T) {
	listing, err := NewListing("user-1", validDraft())
	require.NoError(t, err)

	assert.Equal(t, 1, listing.Rooms)
	assert.Equal(t, 1, listing.Beds)
	assert.Equal(t, 1, listing.Bathrooms)
}

func TestNewListing_KeepsExplicitCounts(t *testing.T) {
	draft := validDraft()
	draft.Rooms = 3
	draft.Beds = 5
	draft.Bathrooms = 2

	listing, err := NewListing("user-1", draft)
	require.NoError(t, err)

	assert.Equal(t, 3, listing.Rooms)
	assert.Equal(t, 5, listing.Beds)
	assert.Equal(t, 2, listing.Bathrooms)
}

func TestNewListing_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		ownerID string
		mutate  func(*ListingDraft)
	}{
		{"missing owner", "", func(d *ListingDraft) {}},
		{"missing title", "user-1", func(d *ListingDraft) { d.Title = "" }},
		{"missing location", "user-1", func(d *ListingDraft) { d.Location = "" }},
		{"negative price", "user-1", func(d *ListingDraft) { d.Price = -5 }},
		{"no categories", "user-1", func(d *ListingDraft) { d.Categories = nil }},
		{"unknown category", "user-1", func(d *ListingDraft) { d.Categories = []Category{"Volcanoes"} }},
		{"negative rooms", "user-1", func(d *ListingDraft) { d.Rooms = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := validDraft()
			tt.mutate(&draft)
			_, err := NewListing(tt.ownerID, draft)
			assert.Error(t, err)
		})
	}
}

func TestCategoryIsValid(t *testing.T) {
	for _, c := range Categories() {
		assert.True(t, c.IsValid(), string(c))
	}
	assert.False(t, Category("Volcanoes").IsValid())
	assert.False(t, Category("trending").IsValid(), "category matching is case sensitive")
	assert.False(t, Category("").IsValid())
}

func TestGeometryValidate(t *testing.T) {
	valid := Geometry{Type: GeometryPoint, Coordinates: [2]float64{-106.82, 39.19}}
	assert.NoError(t, valid.Validate())

	assert.Error(t, Geometry{Type: "Polygon"}.Validate())
	assert.Error(t, Geometry{Type: GeometryPoint, Coordinates: [2]float64{181, 0}}.Validate())
	assert.Error(t, Geometry{Type: GeometryPoint, Coordinates: [2]float64{0, -91}}.Validate())
}

func TestListingUpdateEmpty(t *testing.T) {
	assert.True(t, ListingUpdate{}.Empty())

	title := "New title"
	assert.False(t, ListingUpdate{Title: &title}.Empty())
	assert.False(t, ListingUpdate{Amenities: []string{}}.Empty(),
		"an explicit empty set still clears the field")
}
