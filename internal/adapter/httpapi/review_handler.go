package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jhaash925/WanderLust/internal/platform/logger"
	"github.com/jhaash925/WanderLust/internal/usecase"
)

// ReviewHandler exposes review creation and deletion over HTTP.
type ReviewHandler struct {
	uc     *usecase.ReviewUsecase
	logger *logger.Logger
}

func NewReviewHandler(uc *usecase.ReviewUsecase, log *logger.Logger) *ReviewHandler {
	return &ReviewHandler{uc: uc, logger: log.Named("ReviewHandler")}
}

type createReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// Create handles POST /listings/:id/reviews.
func (h *ReviewHandler) Create(c *gin.Context) {
	authorID, ok := CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req createReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	review, err := h.uc.Add(c.Request.Context(), c.Param("id"), authorID, req.Rating, req.Comment)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"review": reviewResponse{
		ID:        review.ID.Hex(),
		ListingID: review.ListingID.Hex(),
		AuthorID:  review.AuthorID,
		Rating:    review.Rating,
		Comment:   review.Comment,
		CreatedAt: review.CreatedAt,
	}})
}

// Delete handles DELETE /listings/:id/reviews/:reviewID.
func (h *ReviewHandler) Delete(c *gin.Context) {
	actorID, ok := CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	err := h.uc.Remove(c.Request.Context(), c.Param("id"), c.Param("reviewID"), actorID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
