package isapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventory-sync/internal/adapters/isapi/dto"
	"inventory-sync/internal/config"
)

func testEndpoint(srv *httptest.Server) config.ClientEndpoint {
	return config.ClientEndpoint{URL: srv.URL, Key: "secret"}
}

func TestProbeStatusMapping(t *testing.T) {
	var status int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.URL.Query().Get("is_key"))
		assert.Equal(t, "ABC 123", r.URL.Query().Get("sku"))
		w.WriteHeader(status)
	}))
	defer srv.Close()

	api := NewClient(config.ProbeConfig{})

	status = http.StatusOK
	exists, err := api.Probe(context.Background(), testEndpoint(srv), "ABC 123")
	require.NoError(t, err)
	assert.True(t, exists)

	status = http.StatusNotFound
	exists, err = api.Probe(context.Background(), testEndpoint(srv), "ABC 123")
	require.NoError(t, err)
	assert.False(t, exists)

	status = http.StatusUnauthorized
	_, err = api.Probe(context.Background(), testEndpoint(srv), "ABC 123")
	require.Error(t, err)
	code, ok := IsStatusError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestPushSendsKeyHeaderAndDecodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("X-IS-KEY"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var req dto.UpdateStockRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "SKU1", req.SKU)
		assert.True(t, req.IsNew)
		_ = json.NewEncoder(w).Encode(dto.UpdateStockResponse{OK: true, SKU: "SKU1", Status: dto.StatusUpdated})
	}))
	defer srv.Close()

	api := NewClient(config.ProbeConfig{})
	resp, code, err := api.Push(context.Background(), testEndpoint(srv), dto.UpdateStockRequest{SKU: "SKU1", IsNew: true})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, code)
	require.NotNil(t, resp)
	assert.True(t, resp.OK)
	assert.Equal(t, dto.StatusUpdated, resp.Status)
}

func TestPushNon2xxStillDecodesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(dto.UpdateStockResponse{Error: "Invalid payload"})
	}))
	defer srv.Close()

	api := NewClient(config.ProbeConfig{})
	resp, code, err := api.Push(context.Background(), testEndpoint(srv), dto.UpdateStockRequest{SKU: "SKU1"})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, code)
	require.NotNil(t, resp)
	assert.Equal(t, "Invalid payload", resp.Error)

	statusCode, ok := IsStatusError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, statusCode)
}

func TestPushTransportFailureIsNotStatusError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	endpoint := testEndpoint(srv)
	srv.Close()

	api := NewClient(config.ProbeConfig{})
	_, _, err := api.Push(context.Background(), endpoint, dto.UpdateStockRequest{SKU: "SKU1"})
	require.Error(t, err)
	_, ok := IsStatusError(err)
	assert.False(t, ok)
}
