package geocoding

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhaash925/WanderLust/internal/platform/logger"
)

type memoryCache struct {
	entries map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]byte)}
}

func (c *memoryCache) Get(_ context.Context, key string) ([]byte, error) {
	return c.entries[key], nil
}

func (c *memoryCache) Set(_ context.Context, key string, payload []byte, _ time.Duration) error {
	c.entries[key] = payload
	return nil
}

const geocodeResponse = `{
	"features": [
		{
			"place_name": "Aspen, Colorado, United States",
			"geometry": {"type": "Point", "coordinates": [-106.82, 39.19]}
		},
		{
			"place_name": "Aspen area",
			"geometry": {"type": "Polygon", "coordinates": [-106.0]}
		}
	]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc, cache Cache) *MapTilerClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewMapTilerClientWithOptions("test-key", cache, server.URL, server.Client(), logger.NewLogger())
}

func TestGeocode_ParsesPointFeatures(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/Aspen,%20Colorado.json", r.URL.EscapedPath())
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		w.Write([]byte(geocodeResponse))
	}, nil)

	features, err := client.Geocode(context.Background(), "Aspen, Colorado")
	require.NoError(t, err)

	require.Len(t, features, 1, "non-point features are skipped")
	assert.Equal(t, "Aspen, Colorado, United States", features[0].PlaceName)
	assert.Equal(t, [2]float64{-106.82, 39.19}, features[0].Geometry.Coordinates)
}

func TestGeocode_EmptyResultIsNotAnError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"features": []}`))
	}, nil)

	features, err := client.Geocode(context.Background(), "Atlantis")
	require.NoError(t, err)
	assert.Empty(t, features)
}

func TestGeocode_UpstreamErrorStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}, nil)

	_, err := client.Geocode(context.Background(), "Aspen")
	assert.Error(t, err)
}

func TestGeocode_BlankLocationRejected(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	}, nil)

	_, err := client.Geocode(context.Background(), "   ")
	assert.Error(t, err)
}

func TestGeocode_CacheShortCircuitsSecondLookup(t *testing.T) {
	var calls int32
	cache := newMemoryCache()
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(geocodeResponse))
	}, cache)

	first, err := client.Geocode(context.Background(), "Aspen, Colorado")
	require.NoError(t, err)
	second, err := client.Geocode(context.Background(), "Aspen, Colorado")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGeocode_CacheKeyIsCaseInsensitive(t *testing.T) {
	var calls int32
	cache := newMemoryCache()
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(geocodeResponse))
	}, cache)

	_, err := client.Geocode(context.Background(), "Aspen, Colorado")
	require.NoError(t, err)
	_, err = client.Geocode(context.Background(), "aspen, colorado")
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}
