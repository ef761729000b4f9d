package restapi

import (
	"encoding/json"
	"net/http"

	"arrivals.dublintransit.ie/internal/logging"
)

func (api *RestAPI) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.LogError(api.Logger, "encode response", err)
	}
}

func (api *RestAPI) notFound(w http.ResponseWriter, message string) {
	api.writeJSON(w, http.StatusNotFound, map[string]string{"error": message})
}
