package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/jhaash925/WanderLust/internal/domain"
	"github.com/jhaash925/WanderLust/internal/platform/logger"
	"github.com/jhaash925/WanderLust/internal/platform/metrics"
)

// ListingCache caches individual listings for the show page. A nil cache
// disables caching.
type ListingCache interface {
	GetListing(ctx context.Context, id string) (*domain.Listing, error)
	SetListing(ctx context.Context, listing *domain.Listing) error
	DeleteListing(ctx context.Context, id string) error
}

// ListingUsecase implements the business logic for listings.
type ListingUsecase struct {
	listings  domain.ListingRepository
	reviews   domain.ReviewRepository
	geocoder  domain.Geocoder
	storage   domain.FileStorage
	publisher domain.EventPublisher
	cache     ListingCache
	metrics   *metrics.Manager
	logger    *logger.Logger
}

// NewListingUsecase creates a new ListingUsecase.
func NewListingUsecase(
	listings domain.ListingRepository,
	reviews domain.ReviewRepository,
	geocoder domain.Geocoder,
	storage domain.FileStorage,
	publisher domain.EventPublisher,
	cache ListingCache,
	m *metrics.Manager,
	log *logger.Logger,
) *ListingUsecase {
	return &ListingUsecase{
		listings:  listings,
		reviews:   reviews,
		geocoder:  geocoder,
		storage:   storage,
		publisher: publisher,
		cache:     cache,
		metrics:   m,
		logger:    log.Named("ListingUsecase"),
	}
}

// Create geocodes the listing's location, uploads the optional image, and
// persists the listing. If the location cannot be geocoded, nothing is
// persisted.
func (uc *ListingUsecase) Create(ctx context.Context, ownerID string, draft domain.ListingDraft, imageFileName string, imageData []byte) (*domain.Listing, error) {
	uc.logger.Info("Creating listing", zap.String("owner_id", ownerID), zap.String("title", draft.Title))

	listing, err := domain.NewListing(ownerID, draft)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	features, err := uc.geocoder.Geocode(ctx, draft.Location)
	if err != nil {
		uc.logger.Error("Geocoding failed", zap.Error(err), zap.String("location", draft.Location))
		return nil, fmt.Errorf("failed to geocode location %q: %w", draft.Location, err)
	}
	if len(features) == 0 {
		return nil, fmt.Errorf("%w: %q", domain.ErrLocationNotFound, draft.Location)
	}
	geometry := features[0].Geometry
	listing.Geometry = &geometry

	if len(imageData) > 0 {
		image, err := uc.storage.Upload(ctx, imageFileName, imageData)
		if err != nil {
			return nil, fmt.Errorf("failed to upload listing image: %w", err)
		}
		listing.Image = image
	}

	if err := uc.listings.Create(ctx, listing); err != nil {
		return nil, fmt.Errorf("%w: failed to create listing: %v", domain.ErrRepository, err)
	}

	if uc.metrics != nil {
		uc.metrics.ListingsCreatedTotal.Inc()
	}

	eventData := map[string]interface{}{
		"listing_id": listing.ID.Hex(),
		"owner_id":   listing.OwnerID,
		"title":      listing.Title,
		"location":   listing.Location,
		"created_at": listing.CreatedAt.Format(time.RFC3339Nano),
	}
	if err := uc.publisher.Publish(ctx, "listing.created", eventData); err != nil {
		uc.logger.Warn("Failed to publish listing.created event", zap.Error(err), zap.String("listing_id", listing.ID.Hex()))
	}

	uc.logger.Info("Listing created successfully", zap.String("listing_id", listing.ID.Hex()))
	return listing, nil
}

// Get returns a listing together with its reviews, newest first. The listing
// itself is served cache-aside; reviews are always read from the repository.
func (uc *ListingUsecase) Get(ctx context.Context, id string) (*domain.Listing, []*domain.Review, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil, domain.ErrNotFound
	}

	var listing *domain.Listing
	if uc.cache != nil {
		cached, err := uc.cache.GetListing(ctx, id)
		if err != nil {
			uc.logger.Warn("Listing cache read failed", zap.Error(err), zap.String("listing_id", id))
		} else if cached != nil {
			listing = cached
		}
	}

	if listing == nil {
		listing, err = uc.listings.FindByID(ctx, oid)
		if err != nil {
			return nil, nil, err
		}
		if uc.cache != nil {
			if err := uc.cache.SetListing(ctx, listing); err != nil {
				uc.logger.Warn("Listing cache write failed", zap.Error(err), zap.String("listing_id", id))
			}
		}
	}

	reviews, err := uc.reviews.FindByListingID(ctx, oid)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: failed to load reviews: %v", domain.ErrRepository, err)
	}

	return listing, reviews, nil
}

// Search runs the composite filter query.
func (uc *ListingUsecase) Search(ctx context.Context, criteria domain.SearchCriteria) ([]*domain.Listing, error) {
	uc.logger.Debug("Searching listings",
		zap.String("query", criteria.Query),
		zap.String("category", string(criteria.Category)))

	if uc.metrics != nil {
		uc.metrics.SearchesTotal.Inc()
	}

	results, err := uc.listings.Search(ctx, criteria)
	if err != nil {
		return nil, fmt.Errorf("%w: search failed: %v", domain.ErrRepository, err)
	}
	return results, nil
}

// UpdateListingInput carries the optional fields of a listing update. Nil
// fields are left unchanged.
type UpdateListingInput struct {
	Title         *string
	Description   *string
	Price         *float64
	Location      *string
	Country       *string
	Categories    []domain.Category
	PropertyType  *string
	Rooms         *int
	Beds          *int
	Bathrooms     *int
	Amenities     []string
	HostLanguages []string
	ImageFileName string
	ImageData     []byte
}

// Update applies a partial update on behalf of the listing's owner. When the
// location changes the listing is re-geocoded; if re-geocoding fails or finds
// nothing, the location and geometry are left untouched while the rest of the
// update still applies. A replacement image evicts the previous object after
// the update succeeds.
func (uc *ListingUsecase) Update(ctx context.Context, id, actorID string, in UpdateListingInput) (*domain.Listing, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}

	current, err := uc.listings.FindByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if current.OwnerID != actorID {
		uc.logger.Warn("User forbidden to update listing",
			zap.String("listing_id", id),
			zap.String("owner_id", current.OwnerID),
			zap.String("actor_id", actorID))
		return nil, domain.ErrForbidden
	}

	if in.Price != nil && *in.Price < 0 {
		return nil, fmt.Errorf("%w: price cannot be negative", domain.ErrInvalidInput)
	}
	if in.Categories != nil && len(in.Categories) == 0 {
		return nil, fmt.Errorf("%w: at least one category is required", domain.ErrInvalidInput)
	}
	for _, c := range in.Categories {
		if !c.IsValid() {
			return nil, fmt.Errorf("%w: unknown category %q", domain.ErrInvalidInput, c)
		}
	}
	for _, count := range []struct {
		name  string
		value *int
	}{
		{"rooms", in.Rooms},
		{"beds", in.Beds},
		{"bathrooms", in.Bathrooms},
	} {
		if count.value != nil && *count.value < 1 {
			return nil, fmt.Errorf("%w: %s must be at least 1", domain.ErrInvalidInput, count.name)
		}
	}

	update := domain.ListingUpdate{
		Title:         in.Title,
		Description:   in.Description,
		Price:         in.Price,
		Country:       in.Country,
		Categories:    in.Categories,
		PropertyType:  in.PropertyType,
		Rooms:         in.Rooms,
		Beds:          in.Beds,
		Bathrooms:     in.Bathrooms,
		Amenities:     in.Amenities,
		HostLanguages: in.HostLanguages,
	}

	var replacedImageKey string
	if len(in.ImageData) > 0 {
		image, err := uc.storage.Upload(ctx, in.ImageFileName, in.ImageData)
		if err != nil {
			return nil, fmt.Errorf("failed to upload listing image: %w", err)
		}
		update.Image = &image
		replacedImageKey = current.Image.Filename
	}

	if in.Location != nil && *in.Location != current.Location {
		features, err := uc.geocoder.Geocode(ctx, *in.Location)
		switch {
		case err != nil:
			uc.logger.Warn("Re-geocoding failed, keeping previous location",
				zap.Error(err), zap.String("listing_id", id), zap.String("location", *in.Location))
		case len(features) == 0:
			uc.logger.Warn("Re-geocoding found no results, keeping previous location",
				zap.String("listing_id", id), zap.String("location", *in.Location))
		default:
			geometry := features[0].Geometry
			update.Location = in.Location
			update.Geometry = &geometry
		}
	}

	if update.Empty() {
		uc.logger.Info("No changes detected for listing update", zap.String("listing_id", id))
		return current, nil
	}

	updated, err := uc.listings.UpdateByID(ctx, oid, update)
	if err != nil {
		return nil, err
	}

	if replacedImageKey != "" {
		if err := uc.storage.Remove(ctx, replacedImageKey); err != nil {
			uc.logger.Warn("Failed to remove replaced listing image",
				zap.Error(err), zap.String("object_key", replacedImageKey))
		}
	}

	if uc.cache != nil {
		if err := uc.cache.DeleteListing(ctx, id); err != nil {
			uc.logger.Warn("Listing cache invalidation failed", zap.Error(err), zap.String("listing_id", id))
		}
	}
	if uc.metrics != nil {
		uc.metrics.ListingsUpdatedTotal.Inc()
	}

	eventData := map[string]interface{}{
		"listing_id": updated.ID.Hex(),
		"owner_id":   updated.OwnerID,
		"updated_at": updated.UpdatedAt.Format(time.RFC3339Nano),
	}
	if err := uc.publisher.Publish(ctx, "listing.updated", eventData); err != nil {
		uc.logger.Warn("Failed to publish listing.updated event", zap.Error(err), zap.String("listing_id", id))
	}

	uc.logger.Info("Listing updated successfully", zap.String("listing_id", id))
	return updated, nil
}

// Delete removes a listing and cascades to its reviews, reviews first so a
// failure never leaves orphaned reviews behind a deleted listing. Deleting an
// unknown id is a successful no-op.
func (uc *ListingUsecase) Delete(ctx context.Context, id, actorID string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}

	current, err := uc.listings.FindByID(ctx, oid)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}
	if current.OwnerID != actorID {
		uc.logger.Warn("User forbidden to delete listing",
			zap.String("listing_id", id),
			zap.String("owner_id", current.OwnerID),
			zap.String("actor_id", actorID))
		return domain.ErrForbidden
	}

	deletedReviews, err := uc.reviews.DeleteByIDs(ctx, current.ReviewIDs)
	if err != nil {
		return fmt.Errorf("%w: failed to cascade review deletion: %v", domain.ErrRepository, err)
	}

	if _, err := uc.listings.DeleteByID(ctx, oid); err != nil {
		return err
	}

	if uc.cache != nil {
		if err := uc.cache.DeleteListing(ctx, id); err != nil {
			uc.logger.Warn("Listing cache invalidation failed", zap.Error(err), zap.String("listing_id", id))
		}
	}
	if uc.metrics != nil {
		uc.metrics.ListingsDeletedTotal.Inc()
	}

	eventData := map[string]interface{}{
		"listing_id":      id,
		"owner_id":        current.OwnerID,
		"deleted_reviews": deletedReviews,
		"deleted_at":      time.Now().UTC().Format(time.RFC3339Nano),
	}
	if err := uc.publisher.Publish(ctx, "listing.deleted", eventData); err != nil {
		uc.logger.Warn("Failed to publish listing.deleted event", zap.Error(err), zap.String("listing_id", id))
	}

	uc.logger.Info("Listing deleted successfully",
		zap.String("listing_id", id),
		zap.Int64("cascaded_reviews", deletedReviews))
	return nil
}
