package domain

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ListingRepository defines the interface for listing persistence.
// Implementations map the clean domain entities to storage documents.
type ListingRepository interface {
	Create(ctx context.Context, listing *Listing) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*Listing, error)

	// Search executes the composite filter. Text searches are returned in
	// descending relevance order and capped at TextSearchLimit.
	Search(ctx context.Context, criteria SearchCriteria) ([]*Listing, error)

	// UpdateByID applies a partial update and returns the updated listing,
	// or ErrNotFound if no document matched.
	UpdateByID(ctx context.Context, id primitive.ObjectID, update ListingUpdate) (*Listing, error)

	// DeleteByID removes a listing, reporting whether a document was
	// actually deleted. Deleting an absent id is not an error.
	DeleteByID(ctx context.Context, id primitive.ObjectID) (bool, error)

	PushReviewID(ctx context.Context, listingID, reviewID primitive.ObjectID) error
	PullReviewID(ctx context.Context, listingID, reviewID primitive.ObjectID) error
}

// ReviewRepository defines the interface for review persistence.
type ReviewRepository interface {
	Create(ctx context.Context, review *Review) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*Review, error)
	FindByListingID(ctx context.Context, listingID primitive.ObjectID) ([]*Review, error)
	DeleteByID(ctx context.Context, id primitive.ObjectID) error

	// DeleteByIDs removes all reviews in the id set and returns the number
	// deleted. Used for the listing delete cascade.
	DeleteByIDs(ctx context.Context, ids []primitive.ObjectID) (int64, error)
}

// Geocoder resolves a free-text location to geocoded features. An empty
// feature list (with a nil error) means the location was not found.
type Geocoder interface {
	Geocode(ctx context.Context, location string) ([]Feature, error)
}

// FileStorage stores uploaded listing images.
type FileStorage interface {
	Upload(ctx context.Context, originalFileName string, data []byte) (Image, error)
	Remove(ctx context.Context, objectKey string) error
}

// EventPublisher emits lifecycle events (listing.created, review.deleted, ...).
// Publish failures are non-fatal to the originating operation.
type EventPublisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
}
