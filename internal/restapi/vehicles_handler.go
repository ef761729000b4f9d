package restapi

import (
	"errors"
	"net/http"
	"time"

	"arrivals.dublintransit.ie/internal/gtfs"
	"arrivals.dublintransit.ie/internal/logging"
	"arrivals.dublintransit.ie/internal/models"
	"arrivals.dublintransit.ie/internal/realtime"
	"arrivals.dublintransit.ie/internal/utils"
)

// vehiclesHandler returns the live positions of vehicles serving a route.
func (api *RestAPI) vehiclesHandler(w http.ResponseWriter, r *http.Request) {
	name := utils.ExtractParam(r, "name")
	now := time.Now()

	record, err := api.Routes.Get(name)
	if err != nil {
		if errors.Is(err, gtfs.ErrNotFound) {
			api.notFound(w, "route not found")
			return
		}
		logging.LogError(api.Logger, "load route record", err)
		api.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load route"})
		return
	}

	positions, stale, err := api.Vehicles.Get(r.Context())
	if err != nil {
		message := "vehicle feed unavailable"
		if errors.Is(err, realtime.ErrUnconfigured) {
			message = "vehicle feed not configured"
		} else {
			logging.LogError(api.Logger, "fetch vehicle positions", err)
		}
		api.writeJSON(w, http.StatusOK, models.VehiclesResponse{
			Timestamp: now.Unix(),
			Stale:     true,
			Error:     message,
			Vehicles:  []models.VehiclePosition{},
		})
		return
	}

	api.writeJSON(w, http.StatusOK, models.VehiclesResponse{
		Timestamp: now.Unix(),
		Stale:     stale,
		Vehicles:  realtime.MatchVehicles(record, positions),
	})
}
