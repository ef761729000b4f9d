package restapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func hit(handler http.Handler, remoteAddr string) int {
	req := httptest.NewRequest(http.MethodGet, "/api/routes", nil)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec.Code
}

func TestRateLimitBlocksAfterBurst(t *testing.T) {
	handler := NewRateLimitMiddleware(2, time.Hour)(okHandler())

	assert.Equal(t, http.StatusOK, hit(handler, "10.0.0.1:1234"))
	assert.Equal(t, http.StatusOK, hit(handler, "10.0.0.1:1234"))
	assert.Equal(t, http.StatusTooManyRequests, hit(handler, "10.0.0.1:1234"))
}

func TestRateLimitIsPerClient(t *testing.T) {
	handler := NewRateLimitMiddleware(1, time.Hour)(okHandler())

	assert.Equal(t, http.StatusOK, hit(handler, "10.0.0.1:1234"))
	assert.Equal(t, http.StatusTooManyRequests, hit(handler, "10.0.0.1:5678"))
	assert.Equal(t, http.StatusOK, hit(handler, "10.0.0.2:1234"))
}

func TestRateLimitDisabled(t *testing.T) {
	handler := NewRateLimitMiddleware(-1, time.Second)(okHandler())

	for i := 0; i < 10; i++ {
		assert.Equal(t, http.StatusOK, hit(handler, "10.0.0.1:1234"))
	}
}
