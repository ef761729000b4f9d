package realtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrUnconfigured indicates the upstream API key is missing. Handlers report
// it as a configuration problem rather than a transient fetch failure.
var ErrUnconfigured = errors.New("realtime: upstream API key not configured")

// fetchTimeout bounds every upstream request; there is no retry.
const fetchTimeout = 15 * time.Second

// Client fetches live feed snapshots from the upstream realtime API, which
// authenticates with an x-api-key header.
type Client struct {
	httpClient     *http.Client
	apiKey         string
	tripUpdatesURL string
	vehiclesURL    string
}

func NewClient(apiKey, tripUpdatesURL, vehiclesURL string) *Client {
	return &Client{
		httpClient:     &http.Client{Timeout: fetchTimeout},
		apiKey:         apiKey,
		tripUpdatesURL: tripUpdatesURL,
		vehiclesURL:    vehiclesURL,
	}
}

// TripUpdates fetches and decodes the current trip-update snapshot.
func (c *Client) TripUpdates(ctx context.Context) ([]TripUpdate, error) {
	body, err := c.fetch(ctx, c.tripUpdatesURL)
	if err != nil {
		return nil, err
	}
	return DecodeTripUpdates(body)
}

// VehiclePositions fetches and decodes the current vehicle-position snapshot.
func (c *Client) VehiclePositions(ctx context.Context) ([]VehiclePosition, error) {
	body, err := c.fetch(ctx, c.vehiclesURL)
	if err != nil {
		return nil, err
	}
	return DecodeVehiclePositions(body)
}

func (c *Client) fetch(ctx context.Context, url string) ([]byte, error) {
	if c.apiKey == "" {
		return nil, ErrUnconfigured
	}

	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}
	return io.ReadAll(resp.Body)
}
