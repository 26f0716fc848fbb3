package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/jhaash925/WanderLust/internal/domain"
	"github.com/jhaash925/WanderLust/internal/platform/logger"
)

const listingCollectionName = "listings"

// ListingRepository implements domain.ListingRepository using MongoDB.
type ListingRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

// NewListingRepository creates the MongoDB listing repository and ensures
// the search indexes exist.
func NewListingRepository(db *mongo.Database, log *logger.Logger) (*ListingRepository, error) {
	collection := db.Collection(listingCollectionName)

	indexes := []mongo.IndexModel{
		// Free-text search over title and location.
		{Keys: bson.D{{Key: "title", Value: "text"}, {Key: "location", Value: "text"}}},
		{Keys: bson.D{{Key: "geometry", Value: "2dsphere"}}},
		{Keys: bson.D{{Key: "price", Value: 1}}},
		{Keys: bson.D{{Key: "categories", Value: 1}}},
		{Keys: bson.D{{Key: "amenities", Value: 1}}},
		{Keys: bson.D{{Key: "rooms", Value: 1}}},
		{Keys: bson.D{{Key: "owner_id", Value: 1}}},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		// Indexes may already exist or be created out of band; don't fail startup.
		log.Error("Failed to create indexes for listings collection", zap.Error(err))
	} else {
		log.Info("Successfully ensured indexes for listings collection")
	}

	return &ListingRepository{
		collection: collection,
		logger:     log.Named("ListingRepository"),
	}, nil
}

// Create inserts a new listing.
func (r *ListingRepository) Create(ctx context.Context, listing *domain.Listing) error {
	if listing.ID.IsZero() {
		listing.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	listing.CreatedAt = now
	listing.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, fromDomainListing(listing)); err != nil {
		r.logger.Error("Failed to insert listing", zap.Error(err))
		return fmt.Errorf("db insert failed: %w", err)
	}
	r.logger.Info("Listing created", zap.String("listing_id", listing.ID.Hex()))
	return nil
}

// FindByID retrieves a listing by its id.
func (r *ListingRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Listing, error) {
	var doc listingDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("Failed to find listing by id", zap.Error(err), zap.String("listing_id", id.Hex()))
		return nil, fmt.Errorf("db findone failed: %w", err)
	}
	return doc.toDomainListing(), nil
}

// buildSearchQuery translates search criteria into a composite bson filter.
// Every present criterion contributes one clause; absent criteria contribute
// nothing, so empty criteria yield a match-all query.
func buildSearchQuery(c domain.SearchCriteria) bson.M {
	query := bson.M{}

	if c.HasTextSearch() {
		query["$text"] = bson.M{"$search": c.Query}
	}
	if c.Category != "" {
		// Array element match: the listing's tag set must contain the value.
		query["categories"] = string(c.Category)
	}
	if c.MinPrice != nil || c.MaxPrice != nil {
		price := bson.M{}
		if c.MinPrice != nil {
			price["$gte"] = *c.MinPrice
		}
		if c.MaxPrice != nil {
			price["$lte"] = *c.MaxPrice
		}
		query["price"] = price
	}
	if c.MinRooms != nil {
		query["rooms"] = bson.M{"$gte": *c.MinRooms}
	}
	if len(c.Amenities) > 0 {
		query["amenities"] = bson.M{"$all": c.Amenities}
	}
	return query
}

// Search executes the composite filter. Text searches are sorted by
// descending relevance score and capped at domain.TextSearchLimit; plain
// browses keep natural order and honor only an explicit limit.
func (r *ListingRepository) Search(ctx context.Context, criteria domain.SearchCriteria) ([]*domain.Listing, error) {
	query := buildSearchQuery(criteria)

	findOptions := options.Find()
	if criteria.HasTextSearch() {
		findOptions.SetProjection(bson.M{"score": bson.M{"$meta": "textScore"}})
		findOptions.SetSort(bson.D{{Key: "score", Value: bson.M{"$meta": "textScore"}}})
		findOptions.SetLimit(domain.TextSearchLimit)
	} else if criteria.Limit > 0 {
		findOptions.SetLimit(criteria.Limit)
	}

	cursor, err := r.collection.Find(ctx, query, findOptions)
	if err != nil {
		r.logger.Error("Failed to search listings", zap.Error(err), zap.Any("criteria", criteria))
		return nil, fmt.Errorf("db find failed: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []*listingDocument
	if err := cursor.All(ctx, &docs); err != nil {
		r.logger.Error("Failed to decode search results", zap.Error(err))
		return nil, fmt.Errorf("db cursor all failed: %w", err)
	}
	return toDomainListings(docs), nil
}

// UpdateByID applies a partial update and returns the updated listing.
func (r *ListingRepository) UpdateByID(ctx context.Context, id primitive.ObjectID, update domain.ListingUpdate) (*domain.Listing, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if update.Title != nil {
		set["title"] = *update.Title
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.Price != nil {
		set["price"] = *update.Price
	}
	if update.Location != nil {
		set["location"] = *update.Location
	}
	if update.Country != nil {
		set["country"] = *update.Country
	}
	if update.Geometry != nil {
		set["geometry"] = fromDomainGeometry(*update.Geometry)
	}
	if update.Categories != nil {
		set["categories"] = categoriesToStrings(update.Categories)
	}
	if update.PropertyType != nil {
		set["property_type"] = *update.PropertyType
	}
	if update.Rooms != nil {
		set["rooms"] = *update.Rooms
	}
	if update.Beds != nil {
		set["beds"] = *update.Beds
	}
	if update.Bathrooms != nil {
		set["bathrooms"] = *update.Bathrooms
	}
	if update.Amenities != nil {
		set["amenities"] = update.Amenities
	}
	if update.HostLanguages != nil {
		set["host_languages"] = update.HostLanguages
	}
	if update.Image != nil {
		set["image"] = imageDocument{URL: update.Image.URL, Filename: update.Image.Filename}
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc listingDocument
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("Failed to update listing", zap.Error(err), zap.String("listing_id", id.Hex()))
		return nil, fmt.Errorf("db update failed: %w", err)
	}
	r.logger.Info("Listing updated", zap.String("listing_id", id.Hex()))
	return doc.toDomainListing(), nil
}

// DeleteByID removes a listing. Deleting an absent id is a successful no-op;
// the boolean reports whether a document was actually removed.
func (r *ListingRepository) DeleteByID(ctx context.Context, id primitive.ObjectID) (bool, error) {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		r.logger.Error("Failed to delete listing", zap.Error(err), zap.String("listing_id", id.Hex()))
		return false, fmt.Errorf("db delete failed: %w", err)
	}
	if result.DeletedCount == 0 {
		r.logger.Debug("Listing already absent on delete", zap.String("listing_id", id.Hex()))
		return false, nil
	}
	r.logger.Info("Listing deleted", zap.String("listing_id", id.Hex()))
	return true, nil
}

// PushReviewID appends a review reference to the listing.
func (r *ListingRepository) PushReviewID(ctx context.Context, listingID, reviewID primitive.ObjectID) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": listingID},
		bson.M{"$push": bson.M{"review_ids": reviewID}},
	)
	if err != nil {
		return fmt.Errorf("db push review failed: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// PullReviewID removes a review reference from the listing.
func (r *ListingRepository) PullReviewID(ctx context.Context, listingID, reviewID primitive.ObjectID) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": listingID},
		bson.M{"$pull": bson.M{"review_ids": reviewID}},
	)
	if err != nil {
		return fmt.Errorf("db pull review failed: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}
