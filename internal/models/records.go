// Package models holds the schedule record types produced by the static
// indexer and the payload types served by the HTTP API.
package models

// StopEntry is one scheduled stop on a representative trip's path. Arrival
// and departure times are raw GTFS schedule strings ("HH:MM:SS", hours may
// exceed 23 for service past midnight).
type StopEntry struct {
	StopID        string  `json:"stopId"`
	StopName      string  `json:"stopName"`
	StopCode      string  `json:"stopCode"`
	Lat           float64 `json:"lat"`
	Lon           float64 `json:"lon"`
	StopSequence  int     `json:"stopSequence"`
	ArrivalTime   string  `json:"arrivalTime"`
	DepartureTime string  `json:"departureTime"`
}

// Direction is one direction of travel for a route, described by a single
// representative trip. Stops are ordered by strictly increasing stop
// sequence. Shape is an ordered [lat, lon] polyline and may be empty.
type Direction struct {
	DirectionID string       `json:"directionId"`
	Headsign    string       `json:"headsign"`
	Stops       []StopEntry  `json:"stops"`
	Shape       [][2]float64 `json:"shape"`
	FinalStop   StopEntry    `json:"finalStop"`
}

// RouteInfo identifies a route by its short name. A single short name may
// cover several underlying GTFS route IDs; they are merged into one record.
type RouteInfo struct {
	RouteIDs       []string `json:"routeIds"`
	RouteShortName string   `json:"routeShortName"`
	RouteLongName  string   `json:"routeLongName"`
}

// RouteRecord is the per-route schedule record built offline by the indexer.
// Records are immutable after construction: the store hands out shared
// pointers and nothing may mutate them.
type RouteRecord struct {
	Route      RouteInfo   `json:"route"`
	Directions []Direction `json:"directions"`
	TripIDs    []string    `json:"tripIds"`
}

// RouteIDSet returns the record's raw route identifiers as a set.
func (r *RouteRecord) RouteIDSet() map[string]bool {
	set := make(map[string]bool, len(r.Route.RouteIDs))
	for _, id := range r.Route.RouteIDs {
		set[id] = true
	}
	return set
}

// TripIDSet returns all trip identifiers belonging to the route as a set.
func (r *RouteRecord) TripIDSet() map[string]bool {
	set := make(map[string]bool, len(r.TripIDs))
	for _, id := range r.TripIDs {
		set[id] = true
	}
	return set
}

// DirectionSummary is the per-direction slice of a route index entry.
type DirectionSummary struct {
	DirectionID string `json:"directionId"`
	Headsign    string `json:"headsign"`
}

// RouteIndexEntry is one row of the persisted route index, ordered with
// numeric short names first (numerically) followed by the rest
// (lexicographically).
type RouteIndexEntry struct {
	RouteShortName string             `json:"routeShortName"`
	RouteLongName  string             `json:"routeLongName"`
	Directions     []DirectionSummary `json:"directions"`
}
