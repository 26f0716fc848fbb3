package integration

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	mongoRepo "github.com/jhaash925/WanderLust/internal/adapter/repository/mongodb"
	"github.com/jhaash925/WanderLust/internal/domain"
	platformLogger "github.com/jhaash925/WanderLust/internal/platform/logger"
)

var (
	testDBClient    *mongo.Client
	testDB          *mongo.Database
	testListingRepo *mongoRepo.ListingRepository
	testReviewRepo  *mongoRepo.ReviewRepository
	testLogger      *platformLogger.Logger
)

// TestMain starts a disposable MongoDB container for the repository tests.
func TestMain(m *testing.M) {
	testLogger = platformLogger.NewLogger()

	pool, err := dockertest.NewPool("")
	if err != nil {
		log.Fatalf("Could not construct pool: %s", err)
	}
	if err := pool.Client.Ping(); err != nil {
		log.Fatalf("Could not connect to Docker: %s", err)
	}

	mongoResource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mongo",
		Tag:        "5.0",
		Env: []string{
			"MONGO_INITDB_ROOT_USERNAME=root",
			"MONGO_INITDB_ROOT_PASSWORD=password",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		log.Fatalf("Could not start MongoDB resource: %s", err)
	}
	mongoURI := fmt.Sprintf("mongodb://root:password@%s/test_wanderlust?authSource=admin", mongoResource.GetHostPort("27017/tcp"))

	if err := pool.Retry(func() error {
		var errRetry error
		testDBClient, errRetry = mongo.Connect(context.Background(), options.Client().ApplyURI(mongoURI))
		if errRetry != nil {
			return errRetry
		}
		return testDBClient.Ping(context.Background(), nil)
	}); err != nil {
		log.Fatalf("Could not connect to MongoDB: %s", err)
	}

	testDB = testDBClient.Database("test_wanderlust")
	testListingRepo, err = mongoRepo.NewListingRepository(testDB, testLogger)
	if err != nil {
		log.Fatalf("Could not create listing repository: %s", err)
	}
	testReviewRepo, err = mongoRepo.NewReviewRepository(testDB, testLogger)
	if err != nil {
		log.Fatalf("Could not create review repository: %s", err)
	}

	code := m.Run()

	if err := pool.Purge(mongoResource); err != nil {
		log.Printf("Could not purge MongoDB resource: %s", err)
	}
	os.Exit(code)
}

func clearCollections(t *testing.T) {
	t.Helper()
	_, err := testDB.Collection("listings").DeleteMany(context.Background(), bson.M{})
	require.NoError(t, err)
	_, err = testDB.Collection("reviews").DeleteMany(context.Background(), bson.M{})
	require.NoError(t, err)
}

func seedListing(t *testing.T, title, location string, price float64, categories []domain.Category, rooms int, amenities []string) *domain.Listing {
	t.Helper()
	listing, err := domain.NewListing("owner-1", domain.ListingDraft{
		Title:      title,
		Price:      price,
		Location:   location,
		Country:    "Testland",
		Categories: categories,
		Rooms:      rooms,
		Amenities:  amenities,
	})
	require.NoError(t, err)
	listing.Geometry = &domain.Geometry{Type: domain.GeometryPoint, Coordinates: [2]float64{10, 20}}
	require.NoError(t, testListingRepo.Create(context.Background(), listing))
	return listing
}

func TestListingRepo_CreateAndFind(t *testing.T) {
	clearCollections(t)
	listing := seedListing(t, "Lakeside hut", "Lake Bled", 80, []domain.Category{domain.CategoryCamping}, 2, []string{"wifi"})

	found, err := testListingRepo.FindByID(context.Background(), listing.ID)
	require.NoError(t, err)

	assert.Equal(t, listing.Title, found.Title)
	assert.Equal(t, listing.Categories, found.Categories)
	require.NotNil(t, found.Geometry)
	assert.Equal(t, [2]float64{10, 20}, found.Geometry.Coordinates)
}

func TestListingRepo_FindMissing(t *testing.T) {
	clearCollections(t)
	_, err := testListingRepo.FindByID(context.Background(), primitive.NewObjectID())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListingRepo_TextSearchMatchesTitleAndLocation(t *testing.T) {
	clearCollections(t)
	seedListing(t, "Mountain lodge", "Zermatt", 300, []domain.Category{domain.CategoryMountains}, 4, nil)
	seedListing(t, "City flat", "Mountain View", 150, []domain.Category{domain.CategoryIconicCities}, 1, nil)
	seedListing(t, "Beach bungalow", "Bali", 90, []domain.Category{domain.CategoryPools}, 1, nil)

	results, err := testListingRepo.Search(context.Background(), domain.SearchCriteria{Query: "mountain"})
	require.NoError(t, err)

	assert.Len(t, results, 2, "matches in title and in location both count")
}

func TestListingRepo_TextSearchCappedAtLimit(t *testing.T) {
	clearCollections(t)
	for i := 0; i < domain.TextSearchLimit+5; i++ {
		seedListing(t, fmt.Sprintf("Glacier cabin %d", i), fmt.Sprintf("Town %d", i), 100, []domain.Category{domain.CategoryArctic}, 1, nil)
	}

	results, err := testListingRepo.Search(context.Background(), domain.SearchCriteria{Query: "glacier"})
	require.NoError(t, err)
	assert.Len(t, results, domain.TextSearchLimit)
}

func TestListingRepo_TextSearchOrderedByRelevance(t *testing.T) {
	clearCollections(t)
	// Term frequency drives the text score, so more repetitions rank higher.
	seedListing(t, "Glacier view", "Town A", 100, []domain.Category{domain.CategoryArctic}, 1, nil)
	seedListing(t, "Glacier glacier glacier lodge", "Town B", 100, []domain.Category{domain.CategoryArctic}, 1, nil)
	seedListing(t, "Glacier glacier hut", "Town C", 100, []domain.Category{domain.CategoryArctic}, 1, nil)
	seedListing(t, "Seaside flat", "Town D", 100, []domain.Category{domain.CategoryPools}, 1, nil)

	results, err := testListingRepo.Search(context.Background(), domain.SearchCriteria{Query: "glacier"})
	require.NoError(t, err)

	require.Len(t, results, 3)
	assert.Equal(t, "Glacier glacier glacier lodge", results[0].Title)
	assert.Equal(t, "Glacier glacier hut", results[1].Title)
	assert.Equal(t, "Glacier view", results[2].Title)
}

func TestListingRepo_FilterComposition(t *testing.T) {
	clearCollections(t)
	seedListing(t, "Budget room", "Town A", 40, []domain.Category{domain.CategoryRooms}, 1, []string{"wifi"})
	seedListing(t, "Family house", "Town B", 150, []domain.Category{domain.CategoryRooms}, 4, []string{"wifi", "pool"})
	seedListing(t, "Luxury villa", "Town C", 900, []domain.Category{domain.CategoryPools}, 6, []string{"wifi", "pool"})

	min, max := 100.0, 500.0
	rooms := 3
	results, err := testListingRepo.Search(context.Background(), domain.SearchCriteria{
		Category:  domain.CategoryRooms,
		MinPrice:  &min,
		MaxPrice:  &max,
		MinRooms:  &rooms,
		Amenities: []string{"wifi", "pool"},
	})
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, "Family house", results[0].Title)
}

func TestListingRepo_PriceBoundsAreInclusive(t *testing.T) {
	clearCollections(t)
	seedListing(t, "Exactly min", "X", 100, []domain.Category{domain.CategoryRooms}, 1, nil)
	seedListing(t, "Exactly max", "Y", 200, []domain.Category{domain.CategoryRooms}, 1, nil)
	seedListing(t, "Below", "Z", 99, []domain.Category{domain.CategoryRooms}, 1, nil)

	min, max := 100.0, 200.0
	results, err := testListingRepo.Search(context.Background(), domain.SearchCriteria{MinPrice: &min, MaxPrice: &max})
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestListingRepo_UpdatePartial(t *testing.T) {
	clearCollections(t)
	listing := seedListing(t, "Old title", "Somewhere", 50, []domain.Category{domain.CategoryFarms}, 2, nil)

	newTitle := "New title"
	newPrice := 75.0
	updated, err := testListingRepo.UpdateByID(context.Background(), listing.ID, domain.ListingUpdate{
		Title: &newTitle,
		Price: &newPrice,
	})
	require.NoError(t, err)

	assert.Equal(t, "New title", updated.Title)
	assert.Equal(t, 75.0, updated.Price)
	assert.Equal(t, "Somewhere", updated.Location, "untouched fields survive")
	assert.Equal(t, listing.Categories, updated.Categories)
}

func TestListingRepo_UpdateMissing(t *testing.T) {
	clearCollections(t)
	title := "x"
	_, err := testListingRepo.UpdateByID(context.Background(), primitive.NewObjectID(), domain.ListingUpdate{Title: &title})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListingRepo_DeleteIsIdempotent(t *testing.T) {
	clearCollections(t)
	listing := seedListing(t, "To delete", "Somewhere", 50, []domain.Category{domain.CategoryFarms}, 1, nil)

	deleted, err := testListingRepo.DeleteByID(context.Background(), listing.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = testListingRepo.DeleteByID(context.Background(), listing.ID)
	require.NoError(t, err)
	assert.False(t, deleted, "second delete is a no-op")
}

func TestListingRepo_PushAndPullReviewID(t *testing.T) {
	clearCollections(t)
	listing := seedListing(t, "Reviewed place", "Somewhere", 50, []domain.Category{domain.CategoryBoats}, 1, nil)
	reviewID := primitive.NewObjectID()

	require.NoError(t, testListingRepo.PushReviewID(context.Background(), listing.ID, reviewID))

	found, err := testListingRepo.FindByID(context.Background(), listing.ID)
	require.NoError(t, err)
	assert.Contains(t, found.ReviewIDs, reviewID)

	require.NoError(t, testListingRepo.PullReviewID(context.Background(), listing.ID, reviewID))

	found, err = testListingRepo.FindByID(context.Background(), listing.ID)
	require.NoError(t, err)
	assert.NotContains(t, found.ReviewIDs, reviewID)
}

func TestReviewRepo_CascadeDeleteByIDs(t *testing.T) {
	clearCollections(t)
	listing := seedListing(t, "Reviewed place", "Somewhere", 50, []domain.Category{domain.CategoryBoats}, 1, nil)

	var ids []primitive.ObjectID
	for i := 0; i < 3; i++ {
		review, err := domain.NewReview(fmt.Sprintf("guest-%d", i), listing.ID, 4, "Nice")
		require.NoError(t, err)
		require.NoError(t, testReviewRepo.Create(context.Background(), review))
		ids = append(ids, review.ID)
	}

	deleted, err := testReviewRepo.DeleteByIDs(context.Background(), ids)
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)

	remaining, err := testReviewRepo.FindByListingID(context.Background(), listing.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestReviewRepo_FindByListingIDNewestFirst(t *testing.T) {
	clearCollections(t)
	listing := seedListing(t, "Reviewed place", "Somewhere", 50, []domain.Category{domain.CategoryBoats}, 1, nil)

	first, err := domain.NewReview("guest-1", listing.ID, 4, "First")
	require.NoError(t, err)
	require.NoError(t, testReviewRepo.Create(context.Background(), first))

	// Mongo stores timestamps with millisecond precision.
	time.Sleep(5 * time.Millisecond)

	second, err := domain.NewReview("guest-2", listing.ID, 5, "Second")
	require.NoError(t, err)
	require.NoError(t, testReviewRepo.Create(context.Background(), second))

	reviews, err := testReviewRepo.FindByListingID(context.Background(), listing.ID)
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, "Second", reviews[0].Comment)
}
