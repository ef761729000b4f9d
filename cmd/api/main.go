package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"arrivals.dublintransit.ie/internal/app"
	"arrivals.dublintransit.ie/internal/gtfs"
	"arrivals.dublintransit.ie/internal/logging"
	"arrivals.dublintransit.ie/internal/metrics"
	"arrivals.dublintransit.ie/internal/realtime"
	"arrivals.dublintransit.ie/internal/restapi"
)

const (
	defaultTripUpdatesURL = "https://api.nationaltransport.ie/gtfsr/v2/TripUpdates?format=json"
	defaultVehiclesURL    = "https://api.nationaltransport.ie/gtfsr/v2/Vehicles?format=json"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	var cfg app.Config
	var ttlSeconds int

	flag.IntVar(&cfg.Port, "port", envInt("PORT", 3000), "API server port")
	flag.StringVar(&cfg.Env, "env", "development", "Environment (development|staging|production)")
	flag.StringVar(&cfg.DataDir, "data-dir", "data", "Directory holding indexed route records")
	flag.StringVar(&cfg.TripUpdatesURL, "trip-updates-url", defaultTripUpdatesURL, "GTFS-realtime trip updates feed URL")
	flag.StringVar(&cfg.VehiclesURL, "vehicles-url", defaultVehiclesURL, "GTFS-realtime vehicle positions feed URL")
	flag.IntVar(&ttlSeconds, "cache-ttl", envInt("CACHE_TTL_SECONDS", 30), "Realtime feed cache TTL in seconds")
	flag.IntVar(&cfg.RateLimit, "rate-limit", 20, "Requests per second per client (-1 disables)")
	flag.Parse()

	cfg.APIKey = os.Getenv("NTA_API_KEY")
	cfg.FeedCacheTTL = time.Duration(ttlSeconds) * time.Second

	logger := logging.NewStructuredLogger(os.Stdout, logLevel(cfg.Env))

	store := gtfs.NewStore(cfg.DataDir, logger)
	if err := store.LoadIndex(); err != nil {
		logger.Error("failed to load route index", "error", err)
		os.Exit(1)
	}

	collector := metrics.NewCollector()
	collector.RoutesIndexed.Set(float64(len(store.Index())))

	client := realtime.NewClient(cfg.APIKey, cfg.TripUpdatesURL, cfg.VehiclesURL)

	application := &app.Application{
		Config:  cfg,
		Logger:  logger,
		Routes:  store,
		Metrics: collector,
		TripUpdates: realtime.NewFeedCache("trip_updates", cfg.FeedCacheTTL,
			func(ctx context.Context) ([]realtime.TripUpdate, error) {
				return client.TripUpdates(ctx)
			}, collector),
		Vehicles: realtime.NewFeedCache("vehicles", cfg.FeedCacheTTL,
			func(ctx context.Context) ([]realtime.VehiclePosition, error) {
				return client.VehiclePositions(ctx)
			}, collector),
	}

	api := restapi.NewRestAPI(application)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      api.Handler(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("starting server",
			"addr", srv.Addr,
			"env", cfg.Env,
			"routes", len(store.Index()),
			"cache_ttl", cfg.FeedCacheTTL.String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	sig := <-shutdown
	logger.Info("shutting down", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

func logLevel(env string) slog.Level {
	if env == "production" {
		return slog.LevelInfo
	}
	return slog.LevelDebug
}

// envInt reads an integer environment variable, falling back on absence or
// bad input.
func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
