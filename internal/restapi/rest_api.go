// Package restapi implements the read-only query surface consumed by the
// departures-board frontend.
package restapi

import (
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"arrivals.dublintransit.ie/internal/app"
)

type RestAPI struct {
	*app.Application
	rateLimiter func(http.Handler) http.Handler
}

// NewRestAPI creates a new RestAPI instance with an initialized rate limiter.
func NewRestAPI(application *app.Application) *RestAPI {
	return &RestAPI{
		Application: application,
		rateLimiter: NewRateLimitMiddleware(application.Config.RateLimit, time.Second),
	}
}

// SetRoutes registers the query surface on the router.
func (api *RestAPI) SetRoutes(router *httprouter.Router) {
	router.HandlerFunc(http.MethodGet, "/api/routes", api.routesIndexHandler)
	router.HandlerFunc(http.MethodGet, "/api/route/:name", api.routeDetailHandler)
	router.HandlerFunc(http.MethodGet, "/api/realtime/:name/:stop", api.arrivalsHandler)
	router.HandlerFunc(http.MethodGet, "/api/vehicles/:name", api.vehiclesHandler)
	router.HandlerFunc(http.MethodGet, "/healthz", api.healthHandler)
}

// Handler assembles the full middleware chain around the router, including
// the Prometheus endpoint.
func (api *RestAPI) Handler() http.Handler {
	router := httprouter.New()
	api.SetRoutes(router)
	if api.Metrics != nil {
		router.Handler(http.MethodGet, "/metrics", api.Metrics.Handler())
	}

	var handler http.Handler = router
	handler = CompressionMiddleware(handler)
	handler = api.rateLimiter(handler)
	handler = securityHeaders(handler)
	handler = NewRequestLoggingMiddleware(api.Logger)(handler)
	return handler
}
