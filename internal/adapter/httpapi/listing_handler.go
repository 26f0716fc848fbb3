package httpapi

import (
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jhaash925/WanderLust/internal/domain"
	"github.com/jhaash925/WanderLust/internal/platform/logger"
	"github.com/jhaash925/WanderLust/internal/usecase"
)

// maxImageSize caps uploaded listing images at 10 MiB.
const maxImageSize = 10 << 20

// ListingHandler exposes listing CRUD and search over HTTP.
type ListingHandler struct {
	uc     *usecase.ListingUsecase
	logger *logger.Logger
}

func NewListingHandler(uc *usecase.ListingUsecase, log *logger.Logger) *ListingHandler {
	return &ListingHandler{uc: uc, logger: log.Named("ListingHandler")}
}

// List handles GET /listings with optional search and filter parameters.
func (h *ListingHandler) List(c *gin.Context) {
	criteria := domain.CriteriaFromValues(c.Request.URL.Query())

	listings, err := h.uc.Search(c.Request.Context(), criteria)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"listings": toListingResponses(listings)})
}

// Get handles GET /listings/:id, returning the listing with its reviews.
func (h *ListingHandler) Get(c *gin.Context) {
	listing, reviews, err := h.uc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"listing": toListingResponse(listing),
		"reviews": toReviewResponses(reviews),
	})
}

type createListingRequest struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Price         float64  `json:"price"`
	Location      string   `json:"location"`
	Country       string   `json:"country"`
	Categories    []string `json:"categories"`
	PropertyType  string   `json:"property_type"`
	Rooms         int      `json:"rooms"`
	Beds          int      `json:"beds"`
	Bathrooms     int      `json:"bathrooms"`
	Amenities     []string `json:"amenities"`
	HostLanguages []string `json:"host_languages"`
}

// Create handles POST /listings. Accepts JSON or a multipart form with an
// optional "image" file part.
func (h *ListingHandler) Create(c *gin.Context) {
	ownerID, ok := CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req createListingRequest
	var imageName string
	var imageData []byte

	if isMultipart(c) {
		var err error
		req, imageName, imageData, err = parseCreateForm(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	draft := domain.ListingDraft{
		Title:         req.Title,
		Description:   req.Description,
		Price:         req.Price,
		Location:      req.Location,
		Country:       req.Country,
		Categories:    toCategories(req.Categories),
		PropertyType:  req.PropertyType,
		Rooms:         req.Rooms,
		Beds:          req.Beds,
		Bathrooms:     req.Bathrooms,
		Amenities:     req.Amenities,
		HostLanguages: req.HostLanguages,
	}

	listing, err := h.uc.Create(c.Request.Context(), ownerID, draft, imageName, imageData)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"listing": toListingResponse(listing)})
}

type updateListingRequest struct {
	Title         *string  `json:"title"`
	Description   *string  `json:"description"`
	Price         *float64 `json:"price"`
	Location      *string  `json:"location"`
	Country       *string  `json:"country"`
	Categories    []string `json:"categories"`
	PropertyType  *string  `json:"property_type"`
	Rooms         *int     `json:"rooms"`
	Beds          *int     `json:"beds"`
	Bathrooms     *int     `json:"bathrooms"`
	Amenities     []string `json:"amenities"`
	HostLanguages []string `json:"host_languages"`
}

// Update handles PUT /listings/:id. Absent fields are left unchanged.
func (h *ListingHandler) Update(c *gin.Context) {
	actorID, ok := CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var in usecase.UpdateListingInput
	if isMultipart(c) {
		var err error
		in, err = parseUpdateForm(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	} else {
		var req updateListingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		in = usecase.UpdateListingInput{
			Title:         req.Title,
			Description:   req.Description,
			Price:         req.Price,
			Location:      req.Location,
			Country:       req.Country,
			Categories:    toCategories(req.Categories),
			PropertyType:  req.PropertyType,
			Rooms:         req.Rooms,
			Beds:          req.Beds,
			Bathrooms:     req.Bathrooms,
			Amenities:     req.Amenities,
			HostLanguages: req.HostLanguages,
		}
	}

	listing, err := h.uc.Update(c.Request.Context(), c.Param("id"), actorID, in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"listing": toListingResponse(listing)})
}

// Delete handles DELETE /listings/:id. Deleting an unknown listing succeeds.
func (h *ListingHandler) Delete(c *gin.Context) {
	actorID, ok := CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	if err := h.uc.Delete(c.Request.Context(), c.Param("id"), actorID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}

func toCategories(values []string) []domain.Category {
	if values == nil {
		return nil
	}
	out := make([]domain.Category, 0, len(values))
	for _, v := range values {
		out = append(out, domain.Category(v))
	}
	return out
}

func parseCreateForm(c *gin.Context) (createListingRequest, string, []byte, error) {
	var req createListingRequest
	req.Title = c.PostForm("title")
	req.Description = c.PostForm("description")
	req.Location = c.PostForm("location")
	req.Country = c.PostForm("country")
	req.PropertyType = c.PostForm("property_type")
	req.Categories = domain.SplitAmenities(c.PostFormArray("categories"))
	req.Amenities = domain.SplitAmenities(c.PostFormArray("amenities"))
	req.HostLanguages = domain.SplitAmenities(c.PostFormArray("host_languages"))

	if raw := c.PostForm("price"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return req, "", nil, errInvalidField("price")
		}
		req.Price = v
	}
	for _, field := range []struct {
		name string
		dst  *int
	}{
		{"rooms", &req.Rooms},
		{"beds", &req.Beds},
		{"bathrooms", &req.Bathrooms},
	} {
		if raw := c.PostForm(field.name); raw != "" {
			v, err := strconv.Atoi(raw)
			if err != nil {
				return req, "", nil, errInvalidField(field.name)
			}
			*field.dst = v
		}
	}

	name, data, err := readImagePart(c)
	return req, name, data, err
}

func parseUpdateForm(c *gin.Context) (usecase.UpdateListingInput, error) {
	var in usecase.UpdateListingInput

	for _, field := range []struct {
		name string
		dst  **string
	}{
		{"title", &in.Title},
		{"description", &in.Description},
		{"location", &in.Location},
		{"country", &in.Country},
		{"property_type", &in.PropertyType},
	} {
		if raw, present := c.GetPostForm(field.name); present {
			value := raw
			*field.dst = &value
		}
	}

	if raw, present := c.GetPostForm("price"); present {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return in, errInvalidField("price")
		}
		in.Price = &v
	}
	for _, field := range []struct {
		name string
		dst  **int
	}{
		{"rooms", &in.Rooms},
		{"beds", &in.Beds},
		{"bathrooms", &in.Bathrooms},
	} {
		if raw, present := c.GetPostForm(field.name); present {
			v, err := strconv.Atoi(raw)
			if err != nil {
				return in, errInvalidField(field.name)
			}
			*field.dst = &v
		}
	}

	if values, present := c.GetPostFormArray("categories"); present {
		in.Categories = toCategories(domain.SplitAmenities(values))
	}
	if values, present := c.GetPostFormArray("amenities"); present {
		in.Amenities = domain.SplitAmenities(values)
	}
	if values, present := c.GetPostFormArray("host_languages"); present {
		in.HostLanguages = domain.SplitAmenities(values)
	}

	name, data, err := readImagePart(c)
	if err != nil {
		return in, err
	}
	in.ImageFileName = name
	in.ImageData = data
	return in, nil
}

func readImagePart(c *gin.Context) (string, []byte, error) {
	file, err := c.FormFile("image")
	if err == http.ErrMissingFile || file == nil {
		return "", nil, nil
	}
	if err != nil {
		return "", nil, errInvalidField("image")
	}
	if file.Size > maxImageSize {
		return "", nil, errImageTooLarge
	}
	data, err := readAllPart(file)
	if err != nil {
		return "", nil, errInvalidField("image")
	}
	return file.Filename, data, nil
}

func readAllPart(file *multipart.FileHeader) ([]byte, error) {
	f, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, maxImageSize))
}

type fieldError string

func (e fieldError) Error() string { return string(e) }

func errInvalidField(name string) error {
	return fieldError("invalid value for field " + name)
}

var errImageTooLarge = fieldError("image exceeds maximum size")
