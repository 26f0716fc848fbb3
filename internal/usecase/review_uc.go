package usecase

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/jhaash925/WanderLust/internal/domain"
	"github.com/jhaash925/WanderLust/internal/platform/logger"
	"github.com/jhaash925/WanderLust/internal/platform/metrics"
)

// ReviewUsecase implements the business logic for reviews.
type ReviewUsecase struct {
	reviews   domain.ReviewRepository
	listings  domain.ListingRepository
	publisher domain.EventPublisher
	cache     ListingCache
	metrics   *metrics.Manager
	logger    *logger.Logger
}

// NewReviewUsecase creates a new ReviewUsecase.
func NewReviewUsecase(
	reviews domain.ReviewRepository,
	listings domain.ListingRepository,
	publisher domain.EventPublisher,
	cache ListingCache,
	m *metrics.Manager,
	log *logger.Logger,
) *ReviewUsecase {
	return &ReviewUsecase{
		reviews:   reviews,
		listings:  listings,
		publisher: publisher,
		cache:     cache,
		metrics:   m,
		logger:    log.Named("ReviewUsecase"),
	}
}

// Add creates a review on a listing and links it into the listing's review
// set.
func (uc *ReviewUsecase) Add(ctx context.Context, listingID, authorID string, rating int, comment string) (*domain.Review, error) {
	oid, err := primitive.ObjectIDFromHex(listingID)
	if err != nil {
		return nil, domain.ErrNotFound
	}

	if _, err := uc.listings.FindByID(ctx, oid); err != nil {
		return nil, err
	}

	review, err := domain.NewReview(authorID, oid, rating, comment)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	if err := uc.reviews.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("%w: failed to create review: %v", domain.ErrRepository, err)
	}
	if err := uc.listings.PushReviewID(ctx, oid, review.ID); err != nil {
		return nil, fmt.Errorf("%w: failed to link review to listing: %v", domain.ErrRepository, err)
	}

	if uc.cache != nil {
		if err := uc.cache.DeleteListing(ctx, listingID); err != nil {
			uc.logger.Warn("Listing cache invalidation failed", zap.Error(err), zap.String("listing_id", listingID))
		}
	}
	if uc.metrics != nil {
		uc.metrics.ReviewsCreatedTotal.Inc()
	}

	eventData := map[string]interface{}{
		"review_id":  review.ID.Hex(),
		"listing_id": listingID,
		"author_id":  review.AuthorID,
		"rating":     review.Rating,
		"created_at": review.CreatedAt.Format(time.RFC3339Nano),
	}
	if err := uc.publisher.Publish(ctx, "review.created", eventData); err != nil {
		uc.logger.Warn("Failed to publish review.created event", zap.Error(err), zap.String("review_id", review.ID.Hex()))
	}

	uc.logger.Info("Review created successfully",
		zap.String("review_id", review.ID.Hex()),
		zap.String("listing_id", listingID))
	return review, nil
}

// Remove deletes a review. Allowed for the review's author and for the
// listing's owner.
func (uc *ReviewUsecase) Remove(ctx context.Context, listingID, reviewID, actorID string) error {
	listingOID, err := primitive.ObjectIDFromHex(listingID)
	if err != nil {
		return domain.ErrNotFound
	}
	reviewOID, err := primitive.ObjectIDFromHex(reviewID)
	if err != nil {
		return domain.ErrNotFound
	}

	listing, err := uc.listings.FindByID(ctx, listingOID)
	if err != nil {
		return err
	}
	review, err := uc.reviews.FindByID(ctx, reviewOID)
	if err != nil {
		return err
	}
	if review.ListingID != listingOID {
		return domain.ErrNotFound
	}

	if review.AuthorID != actorID && listing.OwnerID != actorID {
		uc.logger.Warn("User forbidden to delete review",
			zap.String("review_id", reviewID),
			zap.String("author_id", review.AuthorID),
			zap.String("actor_id", actorID))
		return domain.ErrForbidden
	}

	if err := uc.reviews.DeleteByID(ctx, reviewOID); err != nil {
		return err
	}
	if err := uc.listings.PullReviewID(ctx, listingOID, reviewOID); err != nil {
		uc.logger.Warn("Failed to unlink review from listing",
			zap.Error(err), zap.String("review_id", reviewID), zap.String("listing_id", listingID))
	}

	if uc.cache != nil {
		if err := uc.cache.DeleteListing(ctx, listingID); err != nil {
			uc.logger.Warn("Listing cache invalidation failed", zap.Error(err), zap.String("listing_id", listingID))
		}
	}
	if uc.metrics != nil {
		uc.metrics.ReviewsDeletedTotal.Inc()
	}

	eventData := map[string]interface{}{
		"review_id":  reviewID,
		"listing_id": listingID,
		"actor_id":   actorID,
		"deleted_at": time.Now().UTC().Format(time.RFC3339Nano),
	}
	if err := uc.publisher.Publish(ctx, "review.deleted", eventData); err != nil {
		uc.logger.Warn("Failed to publish review.deleted event", zap.Error(err), zap.String("review_id", reviewID))
	}

	uc.logger.Info("Review deleted successfully",
		zap.String("review_id", reviewID),
		zap.String("listing_id", listingID))
	return nil
}
