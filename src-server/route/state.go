package route

import (
	"encoding/json"
	"net/http"
)

// Filter/selection transitions. Each handler applies one transition on the
// shell and answers with the size of the resulting filtered set; the client
// re-fetches the list and map state afterwards.
func State(muxer *http.ServeMux, app *App) {
	type countRespBody struct {
		Count      int    `json:"count"`
		CountLabel string `json:"countLabel"`
	}

	respond := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		count := len(app.Shell.Filtered())
		respBodyJson, err := json.Marshal(countRespBody{
			Count:      count,
			CountLabel: app.Locales.EventsShown(lang(r), count),
		})
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't marshal response body"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write(respBodyJson)
	}

	type setFiltersReqBody struct {
		Month    string `json:"month"`
		Program  string `json:"program"`
		Query    string `json:"query"`
		ShowPast bool   `json:"showPast"`
	}

	muxer.HandleFunc("POST /api/state/filters", func(w http.ResponseWriter, r *http.Request) {
		var reqBody setFiltersReqBody
		if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Invalid request body"))
			return
		}

		app.Shell.SetMonth(reqBody.Month)
		app.Shell.SetProgram(reqBody.Program)
		app.Shell.SetQuery(reqBody.Query)
		app.Shell.SetShowPast(reqBody.ShowPast)
		respond(w, r)
	})

	muxer.HandleFunc("POST /api/state/clear-filters", func(w http.ResponseWriter, r *http.Request) {
		app.Shell.ClearFilters()
		respond(w, r)
	})

	type selectReqBody struct {
		ID string `json:"id"`
	}

	// list entry click
	muxer.HandleFunc("POST /api/state/select", func(w http.ResponseWriter, r *http.Request) {
		var reqBody selectReqBody
		if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Invalid request body"))
			return
		}
		if err := app.Shell.Select(reqBody.ID); err != nil {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte("Event not found"))
			return
		}
		respond(w, r)
	})

	muxer.HandleFunc("POST /api/state/clear-selection", func(w http.ResponseWriter, r *http.Request) {
		app.Shell.ClearSelection()
		respond(w, r)
	})
}
