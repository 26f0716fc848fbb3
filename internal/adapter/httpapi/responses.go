package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jhaash925/WanderLust/internal/domain"
	"github.com/jhaash925/WanderLust/internal/platform/logger"
)

type geometryResponse struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

type imageResponse struct {
	URL      string `json:"url"`
	Filename string `json:"filename,omitempty"`
}

type listingResponse struct {
	ID            string            `json:"id"`
	Title         string            `json:"title"`
	Description   string            `json:"description"`
	Price         float64           `json:"price"`
	Location      string            `json:"location"`
	Country       string            `json:"country"`
	Geometry      *geometryResponse `json:"geometry,omitempty"`
	Categories    []string          `json:"categories"`
	PropertyType  string            `json:"property_type,omitempty"`
	Rooms         int               `json:"rooms"`
	Beds          int               `json:"beds"`
	Bathrooms     int               `json:"bathrooms"`
	Amenities     []string          `json:"amenities"`
	HostLanguages []string          `json:"host_languages"`
	Image         imageResponse     `json:"image"`
	OwnerID       string            `json:"owner_id"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

type reviewResponse struct {
	ID        string    `json:"id"`
	ListingID string    `json:"listing_id"`
	AuthorID  string    `json:"author_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

func toListingResponse(l *domain.Listing) listingResponse {
	resp := listingResponse{
		ID:            l.ID.Hex(),
		Title:         l.Title,
		Description:   l.Description,
		Price:         l.Price,
		Location:      l.Location,
		Country:       l.Country,
		Categories:    make([]string, 0, len(l.Categories)),
		PropertyType:  l.PropertyType,
		Rooms:         l.Rooms,
		Beds:          l.Beds,
		Bathrooms:     l.Bathrooms,
		Amenities:     l.Amenities,
		HostLanguages: l.HostLanguages,
		Image:         imageResponse{URL: l.Image.URL, Filename: l.Image.Filename},
		OwnerID:       l.OwnerID,
		CreatedAt:     l.CreatedAt,
		UpdatedAt:     l.UpdatedAt,
	}
	for _, c := range l.Categories {
		resp.Categories = append(resp.Categories, string(c))
	}
	if l.Geometry != nil {
		resp.Geometry = &geometryResponse{Type: l.Geometry.Type, Coordinates: l.Geometry.Coordinates}
	}
	return resp
}

func toListingResponses(listings []*domain.Listing) []listingResponse {
	out := make([]listingResponse, 0, len(listings))
	for _, l := range listings {
		out = append(out, toListingResponse(l))
	}
	return out
}

func toReviewResponses(reviews []*domain.Review) []reviewResponse {
	out := make([]reviewResponse, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, reviewResponse{
			ID:        r.ID.Hex(),
			ListingID: r.ListingID.Hex(),
			AuthorID:  r.AuthorID,
			Rating:    r.Rating,
			Comment:   r.Comment,
			CreatedAt: r.CreatedAt,
		})
	}
	return out
}

// respondError maps domain errors onto HTTP statuses.
func respondError(c *gin.Context, log *logger.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, domain.ErrLocationNotFound):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "location could not be geocoded"})
	case errors.Is(err, domain.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	default:
		log.Error("Request failed", zap.Error(err), zap.String("path", c.FullPath()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
