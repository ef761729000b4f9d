package realtime

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientSendsAPIKey(t *testing.T) {
	var gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-api-key")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"entity":[{"tripUpdate":{"trip":{"tripId":"T1","routeId":"R1"}}}]}`))
	}))
	defer server.Close()

	client := NewClient("secret", server.URL, server.URL)
	updates, err := client.TripUpdates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "secret", gotKey)
	require.Len(t, updates, 1)
	assert.Equal(t, "T1", updates[0].TripID)
}

func TestClientUnconfigured(t *testing.T) {
	client := NewClient("", "http://unused", "http://unused")
	_, err := client.TripUpdates(context.Background())
	assert.ErrorIs(t, err, ErrUnconfigured)
	_, err = client.VehiclePositions(context.Background())
	assert.ErrorIs(t, err, ErrUnconfigured)
}

func TestClientUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClient("secret", server.URL, server.URL)
	_, err := client.TripUpdates(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}
