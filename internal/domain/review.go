package domain

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review represents a user's review on a listing.
type Review struct {
	ID        primitive.ObjectID
	ListingID primitive.ObjectID
	AuthorID  string
	Rating    int
	Comment   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewReview creates a review, enforcing the 1-5 rating scale.
func NewReview(authorID string, listingID primitive.ObjectID, rating int, comment string) (*Review, error) {
	if authorID == "" {
		return nil, errors.New("authorID cannot be empty")
	}
	if listingID.IsZero() {
		return nil, errors.New("listingID cannot be empty")
	}
	if rating < 1 || rating > 5 {
		return nil, errors.New("rating must be between 1 and 5")
	}
	if comment == "" {
		return nil, errors.New("comment cannot be empty")
	}

	now := time.Now().UTC()
	return &Review{
		ID:        primitive.NewObjectID(),
		ListingID: listingID,
		AuthorID:  authorID,
		Rating:    rating,
		Comment:   comment,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
