package route

import (
	"encoding/json"
	"net/http"
	"roam/src-server/callink"
	"roam/src-server/model"
)

type oneEventRespBody struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
	DateDisplay string  `json:"dateDisplay"`
	Time        string  `json:"time"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	Address     string  `json:"address"`
	City        string  `json:"city"`
	Program     string  `json:"program"`
	ComingSoon  bool    `json:"comingSoon"`
	Selected    bool    `json:"selected"`
}

func toOneEventRespBody(event model.Event, selectedID string) oneEventRespBody {
	return oneEventRespBody{
		ID:          event.ID,
		Title:       event.Title,
		Description: event.Description,
		Date:        event.Date,
		DateDisplay: event.DateDisplay,
		Time:        event.Time,
		Lat:         event.Lat,
		Lng:         event.Lng,
		Address:     event.Address,
		City:        event.City,
		Program:     event.Program,
		ComingSoon:  event.ComingSoon,
		Selected:    event.ID == selectedID,
	}
}

func Events(muxer *http.ServeMux, app *App) {
	type listEventsRespBody struct {
		Events     []oneEventRespBody `json:"events"`
		CountLabel string             `json:"countLabel"`
		EmptyState string             `json:"emptyState,omitempty"`
	}

	// the current filtered set, in the shell's state
	muxer.HandleFunc("GET /api/events", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		filtered := app.Shell.Filtered()
		state := app.Shell.State()
		table := app.Locales.Resolve(lang(r))

		respBody := listEventsRespBody{
			Events:     make([]oneEventRespBody, 0, len(filtered)),
			CountLabel: app.Locales.EventsShown(lang(r), len(filtered)),
		}
		for _, event := range filtered {
			respBody.Events = append(respBody.Events, toOneEventRespBody(event, state.SelectedID))
		}
		if len(filtered) == 0 {
			respBody.EmptyState = table.EmptyState
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

	type eventDetailRespBody struct {
		oneEventRespBody
		Calendar  callink.Links `json:"calendar"`
		Link      string        `json:"link"`
		ShareText string        `json:"shareText"`
	}

	// one event with its calendar links and share text
	muxer.HandleFunc("GET /api/events/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		event, ok := app.Catalog.ByID(r.PathValue("id"))
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte("Event not found"))
			return
		}

		links, err := callink.Build(event, app.Location)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't build calendar links"))
			return
		}

		table := app.Locales.Resolve(lang(r))
		link := eventLink(r, event.ID)
		state := app.Shell.State()

		respBody := eventDetailRespBody{
			oneEventRespBody: toOneEventRespBody(event, state.SelectedID),
			Calendar:         links,
			Link:             link,
			ShareText:        table.ShareText(event.Title, link),
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

	type shareRespBody struct {
		Copied  bool   `json:"copied"`
		Message string `json:"message,omitempty"`
	}

	// share an event; falls back to the clipboard when no native sheet
	muxer.HandleFunc("POST /api/events/{id}/share", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		event, ok := app.Catalog.ByID(r.PathValue("id"))
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte("Event not found"))
			return
		}

		table := app.Locales.Resolve(lang(r))
		link := eventLink(r, event.ID)
		text := table.ShareText(event.Title, link)

		fellBack, err := app.Share.Share(r.Context(), event.Title, text, link)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't share event"))
			return
		}
		respBody := shareRespBody{Copied: fellBack}
		if fellBack {
			respBody.Message = table.ShareCopied
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
