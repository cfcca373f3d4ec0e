package route

import (
	"encoding/json"
	"net/http"
)

// Map state for the web client to mirror, plus the marker click entry
// point, which converges on the same selection state as a list click.
func MapState(muxer *http.ServeMux, app *App) {
	muxer.HandleFunc("GET /api/map/state", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		respBodyJson, err := json.Marshal(app.MapView.State())
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't marshal response body"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write(respBodyJson)
	})

	type markerClickReqBody struct {
		ID string `json:"id"`
	}

	muxer.HandleFunc("POST /api/map/marker-click", func(w http.ResponseWriter, r *http.Request) {
		var reqBody markerClickReqBody
		if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Invalid request body"))
			return
		}
		if err := app.MapView.Click(reqBody.ID); err != nil {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte("No such marker"))
			return
		}
		w.WriteHeader(http.StatusOK)
	})
}
