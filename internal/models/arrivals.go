package models

// Arrival is one predicted arrival of a live vehicle at a stop. Epoch fields
// are Unix seconds.
type Arrival struct {
	TripID           string `json:"tripId"`
	RouteID          string `json:"routeId"`
	RouteShortName   string `json:"routeShortName"`
	EstimatedArrival int64  `json:"estimatedArrival"`
	DelaySeconds     int    `json:"delaySeconds"`
	MinutesAway      int    `json:"minutesAway"`
	Headsign         string `json:"headsign"`
	FinalStopEta     int64  `json:"finalStopEta,omitempty"`
	FinalStopName    string `json:"finalStopName,omitempty"`
}

// VehiclePosition is the position of one of a route's live vehicles. Bearing
// is nil when the feed does not report it.
type VehiclePosition struct {
	TripID  string   `json:"tripId"`
	Lat     float64  `json:"lat"`
	Lon     float64  `json:"lon"`
	Bearing *float64 `json:"bearing"`
}
