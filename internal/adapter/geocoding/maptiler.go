package geocoding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jhaash925/WanderLust/internal/domain"
	"github.com/jhaash925/WanderLust/internal/platform/logger"
)

const (
	defaultBaseURL     = "https://api.maptiler.com/geocoding"
	defaultHTTPTimeout = 8 * time.Second
	geocodeCacheTTL    = 30 * 24 * time.Hour
)

// Cache is an optional byte-payload cache for geocoding results.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error
}

// MapTilerClient implements domain.Geocoder against the MapTiler forward
// geocoding API. An empty feature list (nil error) means "not found".
type MapTilerClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	cache      Cache
	logger     *logger.Logger
}

// NewMapTilerClient creates a geocoder with production defaults.
func NewMapTilerClient(apiKey string, cache Cache, log *logger.Logger) *MapTilerClient {
	return NewMapTilerClientWithOptions(apiKey, cache, defaultBaseURL, nil, log)
}

// NewMapTilerClientWithOptions allows overriding base URL and HTTP client
// (used for tests).
func NewMapTilerClientWithOptions(apiKey string, cache Cache, baseURL string, httpClient *http.Client, log *logger.Logger) *MapTilerClient {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &MapTilerClient{
		apiKey:     apiKey,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
		cache:      cache,
		logger:     log.Named("MapTilerClient"),
	}
}

// Geocode resolves a free-text location to geocoded features.
func (c *MapTilerClient) Geocode(ctx context.Context, location string) ([]domain.Feature, error) {
	trimmed := strings.TrimSpace(location)
	if trimmed == "" {
		return nil, fmt.Errorf("location is required")
	}

	cacheKey := "geocode:" + hashKey(strings.ToLower(trimmed))
	if c.cache != nil {
		if cached, err := c.cache.Get(ctx, cacheKey); err == nil && len(cached) > 0 {
			var features []domain.Feature
			if err := json.Unmarshal(cached, &features); err == nil {
				c.logger.Debug("Geocode cache hit", zap.String("location", trimmed))
				return features, nil
			}
		}
	}

	if c.apiKey == "" {
		return nil, fmt.Errorf("maptiler api key is required")
	}

	reqURL := fmt.Sprintf("%s/%s.json?key=%s", c.baseURL, url.PathEscape(trimmed), url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build geocode request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("geocode request returned status %d", resp.StatusCode)
	}

	var payload featureCollection
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode geocode response: %w", err)
	}

	features := make([]domain.Feature, 0, len(payload.Features))
	for _, f := range payload.Features {
		if f.Geometry.Type != domain.GeometryPoint || len(f.Geometry.Coordinates) < 2 {
			continue
		}
		features = append(features, domain.Feature{
			PlaceName: f.PlaceName,
			Geometry: domain.Geometry{
				Type:        f.Geometry.Type,
				Coordinates: [2]float64{f.Geometry.Coordinates[0], f.Geometry.Coordinates[1]},
			},
		})
	}

	c.logger.Debug("Geocode resolved", zap.String("location", trimmed), zap.Int("features", len(features)))

	if c.cache != nil && len(features) > 0 {
		if data, err := json.Marshal(features); err == nil {
			_ = c.cache.Set(ctx, cacheKey, data, geocodeCacheTTL)
		}
	}

	return features, nil
}

func hashKey(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}

type featureCollection struct {
	Features []struct {
		PlaceName string `json:"place_name"`
		Geometry  struct {
			Type        string    `json:"type"`
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}
