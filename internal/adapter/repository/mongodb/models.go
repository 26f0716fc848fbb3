package mongodb

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/jhaash925/WanderLust/internal/domain"
)

// listingDocument is the MongoDB shape of a listing.
type listingDocument struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty"`
	Title         string               `bson:"title"`
	Description   string               `bson:"description,omitempty"`
	Price         float64              `bson:"price"`
	Location      string               `bson:"location"`
	Country       string               `bson:"country,omitempty"`
	Geometry      *geometryDocument    `bson:"geometry,omitempty"`
	Categories    []string             `bson:"categories"`
	PropertyType  string               `bson:"property_type,omitempty"`
	Rooms         int                  `bson:"rooms"`
	Beds          int                  `bson:"beds"`
	Bathrooms     int                  `bson:"bathrooms"`
	Amenities     []string             `bson:"amenities,omitempty"`
	HostLanguages []string             `bson:"host_languages,omitempty"`
	Image         imageDocument        `bson:"image,omitempty"`
	OwnerID       string               `bson:"owner_id"`
	ReviewIDs     []primitive.ObjectID `bson:"review_ids,omitempty"`
	CreatedAt     time.Time            `bson:"created_at"`
	UpdatedAt     time.Time            `bson:"updated_at"`
}

// geometryDocument is a GeoJSON point, stored as-is so the 2dsphere index
// can use it.
type geometryDocument struct {
	Type        string    `bson:"type"`
	Coordinates []float64 `bson:"coordinates"`
}

type imageDocument struct {
	URL      string `bson:"url,omitempty"`
	Filename string `bson:"filename,omitempty"`
}

type reviewDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	ListingID primitive.ObjectID `bson:"listing_id"`
	AuthorID  string             `bson:"author_id"`
	Rating    int                `bson:"rating"`
	Comment   string             `bson:"comment"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

// --- Listing converters ---

func fromDomainListing(l *domain.Listing) *listingDocument {
	if l == nil {
		return nil
	}
	doc := &listingDocument{
		ID:            l.ID,
		Title:         l.Title,
		Description:   l.Description,
		Price:         l.Price,
		Location:      l.Location,
		Country:       l.Country,
		Categories:    categoriesToStrings(l.Categories),
		PropertyType:  l.PropertyType,
		Rooms:         l.Rooms,
		Beds:          l.Beds,
		Bathrooms:     l.Bathrooms,
		Amenities:     l.Amenities,
		HostLanguages: l.HostLanguages,
		Image:         imageDocument{URL: l.Image.URL, Filename: l.Image.Filename},
		OwnerID:       l.OwnerID,
		ReviewIDs:     l.ReviewIDs,
		CreatedAt:     l.CreatedAt,
		UpdatedAt:     l.UpdatedAt,
	}
	if l.Geometry != nil {
		doc.Geometry = fromDomainGeometry(*l.Geometry)
	}
	return doc
}

func (d *listingDocument) toDomainListing() *domain.Listing {
	if d == nil {
		return nil
	}
	listing := &domain.Listing{
		ID:            d.ID,
		Title:         d.Title,
		Description:   d.Description,
		Price:         d.Price,
		Location:      d.Location,
		Country:       d.Country,
		Categories:    stringsToCategories(d.Categories),
		PropertyType:  d.PropertyType,
		Rooms:         d.Rooms,
		Beds:          d.Beds,
		Bathrooms:     d.Bathrooms,
		Amenities:     d.Amenities,
		HostLanguages: d.HostLanguages,
		Image:         domain.Image{URL: d.Image.URL, Filename: d.Image.Filename},
		OwnerID:       d.OwnerID,
		ReviewIDs:     d.ReviewIDs,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
	if d.Geometry != nil && len(d.Geometry.Coordinates) >= 2 {
		listing.Geometry = &domain.Geometry{
			Type:        d.Geometry.Type,
			Coordinates: [2]float64{d.Geometry.Coordinates[0], d.Geometry.Coordinates[1]},
		}
	}
	return listing
}

func toDomainListings(docs []*listingDocument) []*domain.Listing {
	listings := make([]*domain.Listing, 0, len(docs))
	for _, doc := range docs {
		listings = append(listings, doc.toDomainListing())
	}
	return listings
}

func fromDomainGeometry(g domain.Geometry) *geometryDocument {
	return &geometryDocument{
		Type:        g.Type,
		Coordinates: []float64{g.Coordinates[0], g.Coordinates[1]},
	}
}

func categoriesToStrings(categories []domain.Category) []string {
	out := make([]string, 0, len(categories))
	for _, c := range categories {
		out = append(out, string(c))
	}
	return out
}

func stringsToCategories(values []string) []domain.Category {
	out := make([]domain.Category, 0, len(values))
	for _, v := range values {
		out = append(out, domain.Category(v))
	}
	return out
}

// --- Review converters ---

func fromDomainReview(r *domain.Review) (*reviewDocument, error) {
	if r == nil {
		return nil, fmt.Errorf("cannot convert nil review")
	}
	return &reviewDocument{
		ID:        r.ID,
		ListingID: r.ListingID,
		AuthorID:  r.AuthorID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}, nil
}

func (d *reviewDocument) toDomainReview() *domain.Review {
	if d == nil {
		return nil
	}
	return &domain.Review{
		ID:        d.ID,
		ListingID: d.ListingID,
		AuthorID:  d.AuthorID,
		Rating:    d.Rating,
		Comment:   d.Comment,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}
