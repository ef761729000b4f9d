package restapi

import (
	"errors"
	"net/http"

	"github.com/twpayne/go-polyline"

	"arrivals.dublintransit.ie/internal/gtfs"
	"arrivals.dublintransit.ie/internal/logging"
	"arrivals.dublintransit.ie/internal/models"
	"arrivals.dublintransit.ie/internal/utils"
)

// routesIndexHandler lists every indexed route with its direction summaries.
func (api *RestAPI) routesIndexHandler(w http.ResponseWriter, r *http.Request) {
	index := api.Routes.Index()
	if index == nil {
		index = []models.RouteIndexEntry{}
	}
	api.writeJSON(w, http.StatusOK, index)
}

// routeDetailHandler returns the full per-route record plus encoded shape
// polylines for map rendering.
func (api *RestAPI) routeDetailHandler(w http.ResponseWriter, r *http.Request) {
	name := utils.ExtractParam(r, "name")

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

	polylines := make([]models.DirectionPolyline, 0, len(record.Directions))
	for _, dir := range record.Directions {
		coords := make([][]float64, len(dir.Shape))
		for i, pt := range dir.Shape {
			coords[i] = []float64{pt[0], pt[1]}
		}
		polylines = append(polylines, models.DirectionPolyline{
			DirectionID: dir.DirectionID,
			Length:      len(dir.Shape),
			Points:      string(polyline.EncodeCoords(coords)),
		})
	}

	api.writeJSON(w, http.StatusOK, models.RouteDetailResponse{
		RouteRecord: *record,
		Polylines:   polylines,
	})
}

// healthHandler reports liveness and the number of indexed routes.
func (api *RestAPI) healthHandler(w http.ResponseWriter, r *http.Request) {
	api.writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"routes": len(api.Routes.Index()),
	})
}
