package realtime

import (
	"arrivals.dublintransit.ie/internal/models"
)

// MatchVehicles filters a vehicle-position snapshot down to one route's
// vehicles. Positions without usable coordinates are dropped. The result may
// be empty but is never nil.
func MatchVehicles(record *models.RouteRecord, positions []VehiclePosition) []models.VehiclePosition {
	routeIDs := record.RouteIDSet()
	tripIDs := record.TripIDSet()

	vehicles := make([]models.VehiclePosition, 0)
	for _, pos := range positions {
		if !routeIDs[pos.RouteID] && !tripIDs[pos.TripID] {
			continue
		}
		if pos.Lat == nil || pos.Lon == nil {
			continue
		}
		vehicles = append(vehicles, models.VehiclePosition{
			TripID:  pos.TripID,
			Lat:     *pos.Lat,
			Lon:     *pos.Lon,
			Bearing: pos.Bearing,
		})
	}
	return vehicles
}
