package domain

import (
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Category Enum ---

// Category is one of the fixed set of listing tags shown in the filter bar.
// The same set backs both the listing schema and the search filter.
type Category string

const (
	CategoryTrending     Category = "Trending"
	CategoryRooms        Category = "Rooms"
	CategoryIconicCities Category = "Iconic cities"
	CategoryMountains    Category = "Mountains"
	CategoryCastles      Category = "Castles"
	CategoryPools        Category = "Pools"
	CategoryCamping      Category = "Camping"
	CategoryFarms        Category = "Farms"
	CategoryArctic       Category = "Arctic"
	CategoryDoms         Category = "Doms"
	CategoryBoats        Category = "Boats"
)

// Categories returns the canonical ordered category set.
func Categories() []Category {
	return []Category{
		CategoryTrending, CategoryRooms, CategoryIconicCities, CategoryMountains,
		CategoryCastles, CategoryPools, CategoryCamping, CategoryFarms,
		CategoryArctic, CategoryDoms, CategoryBoats,
	}
}

// IsValid checks if the Category is one of the defined constants.
func (c Category) IsValid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// --- Geometry ---

// GeometryPoint is the only geometry type listings carry.
const GeometryPoint = "Point"

// Geometry is a GeoJSON point: coordinates are [longitude, latitude].
type Geometry struct {
	Type        string
	Coordinates [2]float64
}

// Validate checks the geometry is a well-formed point.
func (g Geometry) Validate() error {
	if g.Type != GeometryPoint {
		return fmt.Errorf("geometry type must be %q, got %q", GeometryPoint, g.Type)
	}
	lng, lat := g.Coordinates[0], g.Coordinates[1]
	if lng < -180 || lng > 180 {
		return fmt.Errorf("longitude %f out of range [-180,180]", lng)
	}
	if lat < -90 || lat > 90 {
		return fmt.Errorf("latitude %f out of range [-90,90]", lat)
	}
	return nil
}

// Feature is a single geocoding result. An empty feature list from the
// geocoder signals "location not found".
type Feature struct {
	PlaceName string
	Geometry  Geometry
}

// Image is an uploaded listing photo: public URL plus the storage object key.
type Image struct {
	URL      string
	Filename string
}

// --- Listing Entity ---

// Listing represents a rentable property record.
// Mapping to database structures is handled by the repository implementation.
type Listing struct {
	ID            primitive.ObjectID
	Title         string
	Description   string
	Price         float64
	Location      string
	Country       string
	Geometry      *Geometry
	Categories    []Category
	PropertyType  string
	Rooms         int
	Beds          int
	Bathrooms     int
	Amenities     []string
	HostLanguages []string
	Image         Image
	OwnerID       string
	ReviewIDs     []primitive.ObjectID
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ListingDraft carries the user-submitted fields of a new listing.
type ListingDraft struct {
	Title         string
	Description   string
	Price         float64
	Location      string
	Country       string
	Categories    []Category
	PropertyType  string
	Rooms         int
	Beds          int
	Bathrooms     int
	Amenities     []string
	HostLanguages []string
}

// NewListing builds a listing from a draft, validating the closed category set
// and defaulting room/bed/bathroom counts to 1. The geometry and image are
// attached later by the service, after geocoding and upload.
func NewListing(ownerID string, draft ListingDraft) (*Listing, error) {
	if ownerID == "" {
		return nil, errors.New("ownerID cannot be empty")
	}
	if draft.Title == "" {
		return nil, errors.New("title cannot be empty")
	}
	if draft.Location == "" {
		return nil, errors.New("location cannot be empty")
	}
	if draft.Price < 0 {
		return nil, errors.New("price cannot be negative")
	}
	if len(draft.Categories) == 0 {
		return nil, errors.New("at least one category is required")
	}
	for _, c := range draft.Categories {
		if !c.IsValid() {
			return nil, fmt.Errorf("unknown category %q", c)
		}
	}
	rooms, err := defaultCount("rooms", draft.Rooms)
	if err != nil {
		return nil, err
	}
	beds, err := defaultCount("beds", draft.Beds)
	if err != nil {
		return nil, err
	}
	bathrooms, err := defaultCount("bathrooms", draft.Bathrooms)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Listing{
		ID:            primitive.NewObjectID(),
		Title:         draft.Title,
		Description:   draft.Description,
		Price:         draft.Price,
		Location:      draft.Location,
		Country:       draft.Country,
		Categories:    draft.Categories,
		PropertyType:  draft.PropertyType,
		Rooms:         rooms,
		Beds:          beds,
		Bathrooms:     bathrooms,
		Amenities:     normalizeSet(draft.Amenities),
		HostLanguages: normalizeSet(draft.HostLanguages),
		OwnerID:       ownerID,
		ReviewIDs:     []primitive.ObjectID{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

func defaultCount(field string, n int) (int, error) {
	if n == 0 {
		return 1, nil
	}
	if n < 0 {
		return 0, fmt.Errorf("%s must be at least 1", field)
	}
	return n, nil
}

func normalizeSet(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

// ListingUpdate is a partial update payload; nil fields are left unchanged.
// Location and Geometry are always applied together or not at all.
type ListingUpdate struct {
	Title         *string
	Description   *string
	Price         *float64
	Location      *string
	Country       *string
	Geometry      *Geometry
	Categories    []Category
	PropertyType  *string
	Rooms         *int
	Beds          *int
	Bathrooms     *int
	Amenities     []string
	HostLanguages []string
	Image         *Image
}

// Empty reports whether the update would change nothing.
func (u ListingUpdate) Empty() bool {
	return u.Title == nil && u.Description == nil && u.Price == nil &&
		u.Location == nil && u.Country == nil && u.Geometry == nil &&
		u.Categories == nil && u.PropertyType == nil && u.Rooms == nil &&
		u.Beds == nil && u.Bathrooms == nil && u.Amenities == nil &&
		u.HostLanguages == nil && u.Image == nil
}
