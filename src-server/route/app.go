package route

import (
	"net/http"
	"roam/src-server/catalog"
	"roam/src-server/locale"
	"roam/src-server/mapview"
	"roam/src-server/model"
	"roam/src-server/rsvp"
	"roam/src-server/share"
	"roam/src-server/shell"
	"sync"
	"time"
)

// App bundles everything the routes need, handed in by main at startup.
type App struct {
	Location *time.Location
	Catalog  *catalog.Catalog
	Locales  *locale.Store
	Shell    *shell.Shell
	MapView  *mapview.SnapshotMap
	Sender   rsvp.Sender
	Share    *share.Service

	flowsMu sync.Mutex
	flows   map[string]*rsvp.Flow
}

// Flow returns the RSVP flow for one event, creating it on first use. One
// flow per event mirrors the per-event RSVP panel of the client.
func (a *App) Flow(event model.Event) *rsvp.Flow {
	a.flowsMu.Lock()
	defer a.flowsMu.Unlock()

	if a.flows == nil {
		a.flows = make(map[string]*rsvp.Flow)
	}
	if flow, ok := a.flows[event.ID]; ok {
		return flow
	}
	flow := rsvp.NewFlow(event, a.Sender)
	a.flows[event.ID] = flow
	return flow
}

// CloseFlows stops every pending dismiss timer on shutdown.
func (a *App) CloseFlows() {
	a.flowsMu.Lock()
	defer a.flowsMu.Unlock()

	for _, flow := range a.flows {
		flow.Close()
	}
}

// language requested by the client, empty falls through to the fallback
func lang(r *http.Request) string {
	return r.URL.Query().Get("lang")
}

// canonical shareable link for one event
func eventLink(r *http.Request, id string) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host + "/e/" + id
}
