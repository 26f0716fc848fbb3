package mongodb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/jhaash925/WanderLust/internal/domain"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func TestBuildSearchQuery_EmptyCriteriaMatchesAll(t *testing.T) {
	query := buildSearchQuery(domain.SearchCriteria{})
	assert.Empty(t, query)
}

func TestBuildSearchQuery_TextClause(t *testing.T) {
	query := buildSearchQuery(domain.SearchCriteria{Query: "mountain cabin"})
	assert.Equal(t, bson.M{"$search": "mountain cabin"}, query["$text"])
}

func TestBuildSearchQuery_CategoryIsElementMatch(t *testing.T) {
	query := buildSearchQuery(domain.SearchCriteria{Category: domain.CategoryCastles})
	assert.Equal(t, "Castles", query["categories"])
}

func TestBuildSearchQuery_PriceBoundsAreInclusive(t *testing.T) {
	query := buildSearchQuery(domain.SearchCriteria{
		MinPrice: floatPtr(50),
		MaxPrice: floatPtr(200),
	})
	require.Contains(t, query, "price")
	assert.Equal(t, bson.M{"$gte": 50.0, "$lte": 200.0}, query["price"])
}

func TestBuildSearchQuery_MinPriceOnly(t *testing.T) {
	query := buildSearchQuery(domain.SearchCriteria{MinPrice: floatPtr(75)})
	assert.Equal(t, bson.M{"$gte": 75.0}, query["price"])
}

func TestBuildSearchQuery_Rooms(t *testing.T) {
	query := buildSearchQuery(domain.SearchCriteria{MinRooms: intPtr(2)})
	assert.Equal(t, bson.M{"$gte": 2}, query["rooms"])
}

func TestBuildSearchQuery_AmenitiesRequireAll(t *testing.T) {
	query := buildSearchQuery(domain.SearchCriteria{Amenities: []string{"wifi", "pool"}})
	assert.Equal(t, bson.M{"$all": []string{"wifi", "pool"}}, query["amenities"])
}

func TestBuildSearchQuery_Composite(t *testing.T) {
	query := buildSearchQuery(domain.SearchCriteria{
		Query:     "beach",
		Category:  domain.CategoryPools,
		MinPrice:  floatPtr(10),
		MaxPrice:  floatPtr(500),
		MinRooms:  intPtr(3),
		Amenities: []string{"wifi"},
	})

	assert.Len(t, query, 5)
	assert.Contains(t, query, "$text")
	assert.Contains(t, query, "categories")
	assert.Contains(t, query, "price")
	assert.Contains(t, query, "rooms")
	assert.Contains(t, query, "amenities")
}

func TestListingDocumentRoundTrip(t *testing.T) {
	geometry := &domain.Geometry{Type: domain.GeometryPoint, Coordinates: [2]float64{-0.12, 51.5}}
	listing, err := domain.NewListing("owner-1", domain.ListingDraft{
		Title:      "Flat near the river",
		Price:      90,
		Location:   "London",
		Country:    "United Kingdom",
		Categories: []domain.Category{domain.CategoryIconicCities, domain.CategoryRooms},
		Amenities:  []string{"wifi"},
	})
	require.NoError(t, err)
	listing.Geometry = geometry
	listing.Image = domain.Image{URL: "https://cdn.example.com/x.jpg", Filename: "images/x.jpg"}

	doc := fromDomainListing(listing)
	back := doc.toDomainListing()

	assert.Equal(t, listing.ID, back.ID)
	assert.Equal(t, listing.Title, back.Title)
	assert.Equal(t, listing.Categories, back.Categories)
	require.NotNil(t, back.Geometry)
	assert.Equal(t, *geometry, *back.Geometry)
	assert.Equal(t, listing.Image, back.Image)
	assert.Equal(t, listing.OwnerID, back.OwnerID)
}
