package route

import (
	"context"
	"encoding/json"
	"net/http"
	"roam/src-server/rsvp"
)

func Rsvp(muxer *http.ServeMux, app *App) {
	type flowRespBody struct {
		Status  rsvp.Status `json:"status"`
		Needs   []string    `json:"needs"`
		Message string      `json:"message,omitempty"`
	}

	// current flow state for one event
	muxer.HandleFunc("GET /api/rsvp/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		event, ok := app.Catalog.ByID(r.PathValue("id"))
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte("Event not found"))
			return
		}

		flow := app.Flow(event)
		respBodyJson, err := json.Marshal(flowRespBody{
			Status: flow.Status(),
			Needs:  flow.Needs(),
		})
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't marshal response body"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write(respBodyJson)
	})

	type toggleNeedReqBody struct {
		Tag string `json:"tag"`
	}

	// toggle one needs tag: present removes, absent adds
	muxer.HandleFunc("POST /api/rsvp/{id}/needs", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		event, ok := app.Catalog.ByID(r.PathValue("id"))
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte("Event not found"))
			return
		}

		var reqBody toggleNeedReqBody
		if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil || reqBody.Tag == "" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Please provide a tag"))
			return
		}

		flow := app.Flow(event)
		flow.ToggleNeed(reqBody.Tag)

		respBodyJson, err := json.Marshal(flowRespBody{
			Status: flow.Status(),
			Needs:  flow.Needs(),
		})
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't marshal response body"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write(respBodyJson)
	})

	type submitReqBody struct {
		Name     string `json:"name"`
		Phone    string `json:"phone"`
		Email    string `json:"email"`
		Contact  string `json:"contact"`
		Consent  bool   `json:"consent"`
		Language string `json:"language"`
	}

	// one submission attempt: exactly one outbound request, no retries
	muxer.HandleFunc("POST /api/rsvp/{id}/submit", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		event, ok := app.Catalog.ByID(r.PathValue("id"))
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte("Event not found"))
			return
		}
		if event.ComingSoon {
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte("Event is not open for RSVP yet"))
			return
		}

		var reqBody submitReqBody
		if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Invalid request body"))
			return
		}

		flow := app.Flow(event)
		flow.SetForm(rsvp.Form{
			Name:     reqBody.Name,
			Phone:    reqBody.Phone,
			Email:    reqBody.Email,
			Contact:  rsvp.ContactMethod(reqBody.Contact),
			Consent:  reqBody.Consent,
			Language: reqBody.Language,
		})

		today := app.Shell.Today()
		if err := flow.Validate(today); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(err.Error()))
			return
		}

		// deliberately not tied to the request context: a client that goes
		// away mid-flight must not cancel the dispatch
		status, err := flow.Submit(context.Background(), today)
		if err != nil {
			// in-flight or already-submitted attempts are rejected, not retried
			w.WriteHeader(http.StatusConflict)
			w.Write([]byte(err.Error()))
			return
		}

		table := app.Locales.Resolve(lang(r))
		respBody := flowRespBody{
			Status: status,
			Needs:  flow.Needs(),
		}
		switch status {
		case rsvp.StatusSuccess:
			respBody.Message = table.RsvpSuccess
		case rsvp.StatusError:
			respBody.Message = table.RsvpError
		}

		respBodyJson, err := json.Marshal(respBody)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't marshal response body"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write(respBodyJson)
	})
}
