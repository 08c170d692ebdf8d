package fred

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func TestClient_Latest(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/series/observations", r.URL.Path)
		assert.Equal(t, "DGS10", r.URL.Query().Get("series_id"))
		assert.Equal(t, "desc", r.URL.Query().Get("sort_order"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"observations":[{"date":"2025-08-29","value":"4.25"}]}`))
	})

	client := NewClient("test-key", WithBaseURL(server.URL), WithLogger(arbor.NewLogger()))

	obs, ok := client.Latest(context.Background(), SeriesUST10Y)
	require.True(t, ok)
	assert.Equal(t, "2025-08-29", obs.Date)
	assert.Equal(t, 4.25, obs.Value)
}

func TestClient_Latest_NoDataSentinel(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"observations":[{"date":"2025-08-31","value":"."}]}`))
	})

	client := NewClient("test-key", WithBaseURL(server.URL))

	_, ok := client.Latest(context.Background(), SeriesUSDKRW)
	assert.False(t, ok)
}

func TestClient_Latest_EmptyObservations(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"observations":[]}`))
	})

	client := NewClient("test-key", WithBaseURL(server.URL))

	_, ok := client.Latest(context.Background(), SeriesUSCPI)
	assert.False(t, ok)
}

func TestClient_Latest_ServerError(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad key", http.StatusForbidden)
	})

	client := NewClient("test-key", WithBaseURL(server.URL), WithLogger(arbor.NewLogger()))

	_, ok := client.Latest(context.Background(), SeriesFedFunds)
	assert.False(t, ok)
}

func TestClient_Latest_Unconfigured(t *testing.T) {
	// No server: an unconfigured client must not attempt a request.
	client := NewClient("", WithBaseURL("http://127.0.0.1:1"))

	assert.False(t, client.Configured())
	_, ok := client.Latest(context.Background(), SeriesUST10Y)
	assert.False(t, ok)
}

func TestAPIError_Error(t *testing.T) {
	err := &APIError{StatusCode: 403, Message: "denied", SeriesID: "DGS10"}
	assert.Contains(t, err.Error(), "403")
	assert.Contains(t, err.Error(), "DGS10")
}
