// Package app wires the service's shared dependencies together for the HTTP
// handlers and middleware.
package app

import (
	"log/slog"
	"time"

	"arrivals.dublintransit.ie/internal/gtfs"
	"arrivals.dublintransit.ie/internal/metrics"
	"arrivals.dublintransit.ie/internal/realtime"
)

// Application holds the dependencies for the HTTP handlers, helpers, and
// middleware. Both feed caches and the route store are the only shared
// mutable state on the serving path; everything else is per-request.
type Application struct {
	Config      Config
	Logger      *slog.Logger
	Routes      *gtfs.Store
	Metrics     *metrics.Collector
	TripUpdates *realtime.FeedCache[realtime.TripUpdate]
	Vehicles    *realtime.FeedCache[realtime.VehiclePosition]
}

// Config holds the service's configuration, read from command-line flags and
// the environment (.env is loaded first) when the process starts.
type Config struct {
	Port           int
	Env            string
	DataDir        string
	APIKey         string
	TripUpdatesURL string
	VehiclesURL    string
	FeedCacheTTL   time.Duration
	RateLimit      int
}
