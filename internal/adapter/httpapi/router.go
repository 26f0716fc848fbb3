package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jhaash925/WanderLust/internal/platform/logger"
	"github.com/jhaash925/WanderLust/internal/platform/metrics"
	"github.com/jhaash925/WanderLust/internal/usecase"
)

// NewRouter wires the HTTP routes, middleware, and handlers.
func NewRouter(
	listingUC *usecase.ListingUsecase,
	reviewUC *usecase.ReviewUsecase,
	jwtSecret string,
	m *metrics.Manager,
	log *logger.Logger,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(log))
	if m != nil {
		router.Use(RequestMetrics(m))
	}

	listingHandler := NewListingHandler(listingUC, log)
	reviewHandler := NewReviewHandler(reviewUC, log)
	auth := RequireAuth(jwtSecret)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	listings := router.Group("/listings")
	{
		listings.GET("", listingHandler.List)
		listings.GET("/:id", listingHandler.Get)
		listings.POST("", auth, listingHandler.Create)
		listings.PUT("/:id", auth, listingHandler.Update)
		listings.DELETE("/:id", auth, listingHandler.Delete)

		listings.POST("/:id/reviews", auth, reviewHandler.Create)
		listings.DELETE("/:id/reviews/:reviewID", auth, reviewHandler.Delete)
	}

	return router
}

// RequestLogger logs each request with method, route, status and duration.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	reqLog := log.Named("HTTP")
	return func(c *gin.Context) {
		start := time.Now()
		scoped := reqLog.With(
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("client_ip", c.ClientIP()),
		)
		c.Next()

		scoped.Info("Request handled",
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}

// RequestMetrics records per-route request counts and latency.
func RequestMetrics(m *metrics.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method, route, strconv.Itoa(c.Writer.Status()),
		).Inc()
		m.HTTPRequestLatency.WithLabelValues(
			c.Request.Method, route,
		).Observe(time.Since(start).Seconds())
	}
}
