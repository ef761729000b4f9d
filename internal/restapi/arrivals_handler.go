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

// arrivalsHandler predicts upcoming arrivals for one stop on one route by
// joining the static schedule with the live trip updates feed.
//
// Upstream feed failures degrade rather than fail: the response keeps HTTP
// 200 and carries an error message plus an empty arrivals list so the
// frontend can keep rendering the last known board.
func (api *RestAPI) arrivalsHandler(w http.ResponseWriter, r *http.Request) {
	name := utils.ExtractParam(r, "name")
	stopID := utils.ExtractParam(r, "stop")
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

	lookup, ok := gtfs.Locate(record, stopID)
	if !ok {
		api.writeJSON(w, http.StatusOK, models.ArrivalsResponse{
			Timestamp: now.Unix(),
			Error:     "stop not found on route",
			Arrivals:  []models.Arrival{},
		})
		return
	}

	updates, stale, err := api.TripUpdates.Get(r.Context())
	if err != nil {
		message := "realtime feed unavailable"
		if errors.Is(err, realtime.ErrUnconfigured) {
			message = "realtime feed not configured"
		} else {
			logging.LogError(api.Logger, "fetch trip updates", err)
		}
		api.writeJSON(w, http.StatusOK, models.ArrivalsResponse{
			Timestamp: now.Unix(),
			Stale:     true,
			Error:     message,
			Arrivals:  []models.Arrival{},
		})
		return
	}

	arrivals := realtime.MatchArrivals(lookup, record, updates, now)
	if api.Metrics != nil {
		api.Metrics.ArrivalsComputed.Add(float64(len(arrivals)))
	}

	api.writeJSON(w, http.StatusOK, models.ArrivalsResponse{
		Timestamp: now.Unix(),
		Stale:     stale,
		Arrivals:  arrivals,
	})
}
