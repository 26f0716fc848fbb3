package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNewReview_Valid(t *testing.T) {
	listingID := primitive.NewObjectID()
	review, err := NewReview("user-1", listingID, 5, "Fantastic stay")
	require.NoError(t, err)

	assert.False(t, review.ID.IsZero())
	assert.Equal(t, listingID, review.ListingID)
	assert.Equal(t, "user-1", review.AuthorID)
	assert.Equal(t, 5, review.Rating)
}

func TestNewReview_Invalid(t *testing.T) {
	listingID := primitive.NewObjectID()

	_, err := NewReview("", listingID, 4, "ok")
	assert.Error(t, err)

	_, err = NewReview("user-1", primitive.NilObjectID, 4, "ok")
	assert.Error(t, err)

	_, err = NewReview("user-1", listingID, 0, "ok")
	assert.Error(t, err)

	_, err = NewReview("user-1", listingID, 6, "ok")
	assert.Error(t, err)

	_, err = NewReview("user-1", listingID, 3, "")
	assert.Error(t, err)
}
