package models

// ArrivalsResponse is the envelope for the realtime arrivals endpoint. Stale
// is set when the payload was served from an expired cache entry after a
// failed refresh. Error carries a degraded-mode indicator (missing upstream
// credential, unreachable feed, unknown stop); the request itself still
// succeeds with an empty arrival list.
type ArrivalsResponse struct {
	Timestamp int64     `json:"timestamp"`
	Stale     bool      `json:"stale"`
	Error     string    `json:"error,omitempty"`
	Arrivals  []Arrival `json:"arrivals"`
}

// VehiclesResponse is the envelope for the vehicle positions endpoint, with
// the same staleness and degradation semantics as ArrivalsResponse.
type VehiclesResponse struct {
	Timestamp int64             `json:"timestamp"`
	Stale     bool              `json:"stale"`
	Error     string            `json:"error,omitempty"`
	Vehicles  []VehiclePosition `json:"vehicles"`
}

// DirectionPolyline is a Google-encoded rendering of one direction's shape,
// included in route detail responses for map consumers.
type DirectionPolyline struct {
	DirectionID string `json:"directionId"`
	Length      int    `json:"length"`
	Points      string `json:"points"`
}

// RouteDetailResponse is a full route record plus encoded shape polylines.
type RouteDetailResponse struct {
	RouteRecord
	Polylines []DirectionPolyline `json:"polylines"`
}
